package category

import (
	"context"

	"github.com/debtprotection/blog-core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

// Source lists the raw categories of every published article.
type Source interface {
	PublishedCategories(ctx context.Context) ([][]string, error)
}

// Count is one row of the public category listing.
type Count struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Count int64  `json:"count"`
}

type Handler struct {
	resolver *Resolver
	source   Source
}

func NewHandler(resolver *Resolver, source Source) *Handler {
	return &Handler{resolver: resolver, source: source}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	cats := rg.Group("/categories")
	cats.GET("", h.list)
	cats.GET("/resolve", h.resolve)
}

func (h *Handler) list(c *gin.Context) {
	sets, err := h.source.PublishedCategories(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"categories": h.resolver.Tally(sets)})
}

func (h *Handler) resolve(c *gin.Context) {
	value := c.Query("value")
	key := h.resolver.Resolve(value, ResolveOptions{AllowAll: true, Fallback: All})
	if key == All {
		response.OK(c, gin.H{"key": All, "label": "All Posts", "variants": []string{}})
		return
	}
	response.OK(c, gin.H{
		"key":      key,
		"label":    h.resolver.Label(key),
		"variants": h.resolver.QueryVariants(key),
	})
}

// Tally counts each article once per distinct canonical key it carries.
// The first row is the sentinel with the number of articles.
func (r *Resolver) Tally(sets [][]string) []Count {
	counts := make(map[string]int64, len(r.defs))
	for _, set := range sets {
		seen := make(map[string]struct{}, len(set))
		for _, raw := range set {
			key := r.Resolve(raw, ResolveOptions{})
			if key == "" || key == All {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			counts[key]++
		}
	}
	out := make([]Count, 0, len(r.defs)+1)
	out = append(out, Count{Key: All, Label: "All Posts", Count: int64(len(sets))})
	for _, d := range r.defs {
		out = append(out, Count{Key: d.Key, Label: d.Label, Count: counts[d.Key]})
	}
	return out
}
