package slughistory

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/debtprotection/blog-core/internal/middleware"
	"github.com/debtprotection/blog-core/internal/models"
	"github.com/debtprotection/blog-core/internal/pkg/response"
)

// Registry is the part of Service the admin routes use.
type Registry interface {
	Resolve(ctx context.Context, slug string) (string, error)
	ForArticle(ctx context.Context, articleID string) ([]models.SlugRedirectModel, error)
	Remove(ctx context.Context, slug string) error
}

type Handler struct{ reg Registry }

func NewHandler(reg Registry) *Handler { return &Handler{reg: reg} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/slug-redirects", authMW, middleware.RequireRoles(models.RoleAdmin))
	g.GET("", h.list)
	g.GET("/:slug", h.lookup)
	g.DELETE("/:slug", h.remove)
}

// GET /slug-redirects?articleId=
func (h *Handler) list(c *gin.Context) {
	id := c.Query("articleId")
	if id == "" {
		response.BadRequest(c, "articleId is required")
		return
	}
	rows, err := h.reg.ForArticle(c.Request.Context(), id)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, rows)
}

func (h *Handler) lookup(c *gin.Context) {
	slug := c.Param("slug")
	id, err := h.reg.Resolve(c.Request.Context(), slug)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if id == "" {
		response.NotFoundMsg(c, "Redirect not found")
		return
	}
	response.OK(c, gin.H{"slug": slug, "articleId": id})
}

func (h *Handler) remove(c *gin.Context) {
	err := h.reg.Remove(c.Request.Context(), c.Param("slug"))
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFoundMsg(c, "Redirect not found")
	case err != nil:
		response.InternalError(c, err)
	default:
		response.NoContent(c)
	}
}
