// Package category maps free-form category strings onto a fixed set of canonical keys.
//
// Stored article categories are historically inconsistent ("Debt-Management",
// "debt help", "debt_management"), so reads resolve them to one key and
// filters expand a key back into every spelling that may be stored.
package category

import (
	"fmt"
	"strings"
	"unicode"
)

// All is the "no filter" sentinel. It never names a real category.
const All = "all"

// DefaultKey is the fallback used by the built-in table.
const DefaultKey = "debt_management"

// Definition is one canonical category.
type Definition struct {
	Key     string   `json:"key"`
	Label   string   `json:"label"`
	Aliases []string `json:"aliases,omitempty"`
}

// Builtin is the category table shipped with the service.
var Builtin = []Definition{
	{
		Key:     "debt_management",
		Label:   "Debt Management",
		Aliases: []string{"debt management", "debt-management", "debt", "debt advice", "debt help"},
	},
	{
		Key:     "financial_planning",
		Label:   "Financial Planning",
		Aliases: []string{"financial planning", "financial-planning", "finance", "financial advice", "money management"},
	},
	{
		Key:     "credit_scores",
		Label:   "Credit Scores",
		Aliases: []string{"credit scores", "credit-scores", "credit", "credit advice", "credit repair"},
	},
	{
		Key:     "legal_advice",
		Label:   "Legal Advice",
		Aliases: []string{"legal advice", "legal-advice", "legal", "law", "legal help"},
	},
}

// Resolver is immutable after construction and safe for concurrent use.
type Resolver struct {
	defs       []Definition
	byKey      map[string]Definition
	lookup     map[string]string
	defaultKey string
}

// NewResolver builds the lookup table from defs. defaultKey must be one of the keys.
func NewResolver(defs []Definition, defaultKey string) (*Resolver, error) {
	if len(defs) == 0 {
		return nil, fmt.Errorf("category: at least one definition is required")
	}
	r := &Resolver{
		defs:   make([]Definition, 0, len(defs)),
		byKey:  make(map[string]Definition, len(defs)),
		lookup: make(map[string]string, len(defs)*8+2),
	}
	for _, d := range defs {
		if d.Key == "" || d.Key == All {
			return nil, fmt.Errorf("category: invalid key %q", d.Key)
		}
		if _, dup := r.byKey[d.Key]; dup {
			return nil, fmt.Errorf("category: duplicate key %q", d.Key)
		}
		if d.Label == "" {
			d.Label = d.Key
		}
		d.Aliases = append([]string(nil), d.Aliases...)
		r.defs = append(r.defs, d)
		r.byKey[d.Key] = d

		for _, v := range append([]string{d.Key, d.Label}, d.Aliases...) {
			if s := Sanitize(v); s != "" {
				r.lookup[s] = d.Key
			}
		}
	}
	r.lookup["all"] = All
	r.lookup["all posts"] = All

	if defaultKey == "" {
		defaultKey = r.defs[0].Key
	}
	if _, ok := r.byKey[defaultKey]; !ok {
		return nil, fmt.Errorf("category: default key %q is not defined", defaultKey)
	}
	r.defaultKey = defaultKey
	return r, nil
}

// MustBuiltin returns a resolver over the built-in table.
func MustBuiltin() *Resolver {
	r, err := NewResolver(Builtin, DefaultKey)
	if err != nil {
		panic(err)
	}
	return r
}

// Sanitize lowercases value, turns hyphen and underscore runs into a space,
// collapses whitespace and trims.
func Sanitize(value string) string {
	mapped := strings.Map(func(r rune) rune {
		if r == '-' || r == '_' {
			return ' '
		}
		return unicode.ToLower(r)
	}, value)
	return strings.Join(strings.Fields(mapped), " ")
}

// ResolveOptions tunes Resolve. An empty Fallback means "" is returned for misses.
type ResolveOptions struct {
	Fallback string
	AllowAll bool
}

// Resolve maps value to a canonical key. It never fails: empty or unknown
// input yields opts.Fallback, and the sentinel is only returned when AllowAll is set.
func (r *Resolver) Resolve(value string, opts ResolveOptions) string {
	if value == "" {
		if opts.AllowAll {
			return All
		}
		return opts.Fallback
	}
	key, ok := r.lookup[Sanitize(value)]
	switch {
	case !ok:
		return opts.Fallback
	case key == All:
		if opts.AllowAll {
			return All
		}
		return opts.Fallback
	default:
		return key
	}
}

// QueryVariants expands key into every spelling a stored article may carry.
// The sentinel, unknown keys and "" yield nil, meaning no filter.
func (r *Resolver) QueryVariants(key string) []string {
	d, ok := r.byKey[key]
	if !ok {
		return nil
	}
	base := append([]string{d.Key, d.Label}, d.Aliases...)
	seen := make(map[string]struct{}, len(base)*4)
	out := make([]string, 0, len(base)*4)
	add := func(v string) {
		if v == "" {
			return
		}
		if _, dup := seen[v]; dup {
			return
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	for _, v := range base {
		add(v)
	}
	for _, v := range base {
		add(strings.ToLower(v))
		add(joinFields(v, "_"))
		add(joinFields(v, "-"))
	}
	return out
}

func joinFields(v, sep string) string {
	return strings.Join(strings.Fields(v), sep)
}

// Description is the display form of an article's categories.
type Description struct {
	Key            string   `json:"category"`
	Label          string   `json:"categoryLabel"`
	OriginalValues []string `json:"categories"`
}

// Describe picks the first stored value that resolves to a real key.
// When none does it reports fallback. Blank entries are dropped from OriginalValues.
func (r *Resolver) Describe(stored []string, fallback string) Description {
	values := make([]string, 0, len(stored))
	for _, v := range stored {
		if strings.TrimSpace(v) != "" {
			values = append(values, v)
		}
	}
	for _, v := range values {
		if key := r.Resolve(v, ResolveOptions{}); key != "" && key != All {
			return Description{Key: key, Label: r.Label(key), OriginalValues: values}
		}
	}
	return Description{Key: fallback, Label: r.Label(fallback), OriginalValues: values}
}

// Label returns the display label for key, or the default category's label for unknown keys.
func (r *Resolver) Label(key string) string {
	if d, ok := r.byKey[key]; ok {
		return d.Label
	}
	return r.byKey[r.defaultKey].Label
}

// IsKey reports whether key is a real canonical key.
func (r *Resolver) IsKey(key string) bool {
	_, ok := r.byKey[key]
	return ok
}

// DefaultKey is the fallback key this resolver was built with.
func (r *Resolver) DefaultKey() string { return r.defaultKey }

// Definitions returns a copy of the table in declaration order.
func (r *Resolver) Definitions() []Definition {
	out := make([]Definition, len(r.defs))
	for i, d := range r.defs {
		d.Aliases = append([]string(nil), d.Aliases...)
		out[i] = d
	}
	return out
}
