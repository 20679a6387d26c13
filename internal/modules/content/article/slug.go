package article

import (
	"context"
	"strconv"
	"strings"
	"unicode"
)

// FallbackSlug is used when a title has no slug-safe characters.
const FallbackSlug = "untitled"

// GenerateSlug lowercases value, keeps only [a-z0-9], whitespace and hyphens,
// then joins the remaining words with single hyphens. It never returns "".
func GenerateSlug(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range strings.ToLower(value) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || unicode.IsSpace(r):
			b.WriteByte('-')
		}
	}

	parts := strings.FieldsFunc(b.String(), func(r rune) bool { return r == '-' })
	if len(parts) == 0 {
		return FallbackSlug
	}
	return strings.Join(parts, "-")
}

// SlugExistsFunc reports whether any article other than excludeID holds slug.
type SlugExistsFunc func(ctx context.Context, slug, excludeID string) (bool, error)

// EnsureUniqueSlug returns candidate, or candidate-1, candidate-2, ... for the
// first value no other article holds. Only lookup errors and ctx cancellation fail it.
func EnsureUniqueSlug(ctx context.Context, candidate, articleID string, exists SlugExistsFunc) (string, error) {
	current := candidate
	for counter := 1; ; counter++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		taken, err := exists(ctx, current, articleID)
		if err != nil {
			return "", err
		}
		if !taken {
			return current, nil
		}
		current = candidate + "-" + strconv.Itoa(counter)
	}
}
