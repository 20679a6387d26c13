package article

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/debtprotection/blog-core/internal/middleware"
	"github.com/debtprotection/blog-core/internal/models"
	"github.com/debtprotection/blog-core/internal/pkg/pagination"
	"github.com/debtprotection/blog-core/internal/pkg/response"
)

// Handler handles article HTTP requests.
type Handler struct {
	svc     *Service
	baseURL string
}

// NewHandler builds the handler. baseURL prefixes root-relative image paths;
// when empty the request's own scheme and host are used.
func NewHandler(svc *Service, baseURL string) *Handler {
	return &Handler{svc: svc, baseURL: baseURL}
}

// RegisterRoutes mounts article routes onto the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.GET("/published", h.listPublished)
	rg.GET("/published/:slug", h.getPublished)

	articles := rg.Group("/articles")
	articles.GET("", h.listArticles)
	articles.GET("/:slug", h.getArticle)

	admin := articles.Group("", authMW, middleware.RequireRoles(models.RoleAdmin))
	admin.POST("", h.createStrict)
	admin.PUT("/:slug", h.update)
	admin.DELETE("/:slug", h.delete)

	posts := rg.Group("/posts", authMW)
	posts.GET("", h.list)
	posts.GET("/stats/summary", middleware.RequireRoles(models.RoleAdmin, models.RoleAuthor), h.summary)
	posts.GET("/:id", h.get)
	posts.POST("", middleware.RequireRoles(models.RoleAdmin, models.RoleAuthor), h.create)
	posts.PUT("/:id", h.update)
	posts.POST("/:id/publish", h.publish)
	posts.DELETE("/:id", h.delete)
}

func (h *Handler) presenter(c *gin.Context) presenter {
	return presenter{resolver: h.svc.Resolver(), baseURL: requestBaseURL(c, h.baseURL)}
}

func actorFrom(c *gin.Context) Actor {
	u := middleware.CurrentUser(c)
	if u == nil {
		return Actor{}
	}
	return Actor{ID: u.ID, Name: u.DisplayName(), Email: u.Email, Role: u.Role}
}

// pathID returns the :id path parameter. The admin article routes share the
// :slug wildcard with the public detail route, so it is checked too.
func pathID(c *gin.Context) string {
	if v := c.Param("id"); v != "" {
		return v
	}
	return c.Param("slug")
}

// writeError maps service errors onto HTTP responses.
func writeError(c *gin.Context, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		response.ValidationFailed(c, verr.Error(), verr.Fields())
	case errors.Is(err, ErrNotFound):
		response.NotFoundMsg(c, "Article not found")
	case errors.Is(err, ErrAuthorCannotPublish):
		response.ForbiddenMsg(c, "Authors cannot publish directly. Please submit for review.")
	case errors.Is(err, ErrAuthorCannotArchive):
		response.ForbiddenMsg(c, "Only admins can archive or restore articles")
	case errors.Is(err, ErrForbidden):
		response.ForbiddenMsg(c, "You can only modify your own articles")
	case errors.Is(err, ErrDuplicateSlug):
		response.Conflict(c, "An article with this slug already exists")
	default:
		response.InternalError(c, err)
	}
}

// listPublished GET /published
func (h *Handler) listPublished(c *gin.Context) {
	h.publicList(c, true)
}

// listArticles GET /articles
func (h *Handler) listArticles(c *gin.Context) {
	h.publicList(c, false)
}

func (h *Handler) publicList(c *gin.Context, withContent bool) {
	q := pagination.FromContext(c)
	var pq PublicQuery
	if err := c.ShouldBindQuery(&pq); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	rows, total, err := h.svc.ListPublished(c.Request.Context(), pq, q)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Paged(c, h.presenter(c).summaries(rows, withContent), pagination.Meta(q, total))
}

// redirectMoved answers a detail miss with a 301 to the article's current
// slug when the requested one is an old slug. It reports whether it did.
func (h *Handler) redirectMoved(c *gin.Context, slug string) bool {
	current, err := h.svc.MovedSlug(c.Request.Context(), slug)
	if err != nil {
		return false
	}
	target := strings.TrimSuffix(c.Request.URL.Path, slug) + current
	if c.Request.URL.RawQuery != "" {
		target += "?" + c.Request.URL.RawQuery
	}
	c.Redirect(http.StatusMovedPermanently, target)
	return true
}

// getPublished GET /published/:slug
func (h *Handler) getPublished(c *gin.Context) {
	slug := c.Param("slug")
	a, err := h.svc.GetPublished(c.Request.Context(), slug)
	if errors.Is(err, ErrNotFound) && h.redirectMoved(c, slug) {
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, h.presenter(c).detail(a))
}

// getArticle GET /articles/:slug
func (h *Handler) getArticle(c *gin.Context) {
	ctx := c.Request.Context()
	slug := c.Param("slug")
	a, err := h.svc.GetPublishedQuiet(ctx, slug)
	if errors.Is(err, ErrNotFound) && h.redirectMoved(c, slug) {
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}
	recs, err := h.svc.Recommendations(ctx, a, RecommendationLimit)
	if err != nil {
		writeError(c, err)
		return
	}
	p := h.presenter(c)
	view := p.detail(a)
	view.Recommendations = p.summaries(recs, false)
	response.OK(c, view)
}

// list GET /posts  [auth]
func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)
	var lq ListQuery
	if err := c.ShouldBindQuery(&lq); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	rows, total, err := h.svc.List(c.Request.Context(), actorFrom(c), lq, q)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Paged(c, h.presenter(c).admins(rows), pagination.Meta(q, total))
}

// summary GET /posts/stats/summary  [admin|author]
func (h *Handler) summary(c *gin.Context) {
	s, err := h.svc.Summary(c.Request.Context(), actorFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, s)
}

// get GET /posts/:id  [auth]
func (h *Handler) get(c *gin.Context) {
	a, err := h.svc.Get(c.Request.Context(), actorFrom(c), pathID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, h.presenter(c).admin(a))
}

// create POST /posts  [admin|author]
func (h *Handler) create(c *gin.Context) {
	h.createWith(c, ProfileBase)
}

// createStrict POST /articles  [admin]
func (h *Handler) createStrict(c *gin.Context) {
	h.createWith(c, ProfileStrict)
}

func (h *Handler) createWith(c *gin.Context, profile Profile) {
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	a, err := h.svc.Create(c.Request.Context(), actorFrom(c), in, profile)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, h.presenter(c).admin(a))
}

// update PUT /posts/:id, PUT /articles/:id  [auth]
func (h *Handler) update(c *gin.Context) {
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	a, err := h.svc.Update(c.Request.Context(), actorFrom(c), pathID(c), in)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, h.presenter(c).admin(a))
}

// publish POST /posts/:id/publish  [auth]
func (h *Handler) publish(c *gin.Context) {
	var in StatusInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	a, err := h.svc.SetStatus(c.Request.Context(), actorFrom(c), pathID(c), *in.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, gin.H{
		"message": "Post " + strings.ToLower(a.Status.String()) + " successfully",
		"post": gin.H{
			"id":          a.ID,
			"status":      a.Status,
			"publishedAt": a.PublishedAt,
		},
	})
}

// delete DELETE /posts/:id, DELETE /articles/:id  [auth]
func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), actorFrom(c), pathID(c)); err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Article deleted successfully"})
}

