package category

import "github.com/debtprotection/blog-core/internal/config"

// FromConfig builds a resolver from the categories section, or the built-in
// table when no items are configured.
func FromConfig(cfg config.CategoriesConfig) (*Resolver, error) {
	if len(cfg.Items) == 0 {
		def := cfg.Default
		if def == "" {
			def = DefaultKey
		}
		return NewResolver(Builtin, def)
	}
	defs := make([]Definition, 0, len(cfg.Items))
	for _, item := range cfg.Items {
		defs = append(defs, Definition{Key: item.Key, Label: item.Label, Aliases: item.Aliases})
	}
	return NewResolver(defs, cfg.Default)
}
