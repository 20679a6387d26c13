package aggregate

import (
	"github.com/gin-gonic/gin"

	"github.com/debtprotection/blog-core/internal/middleware"
	"github.com/debtprotection/blog-core/internal/models"
	"github.com/debtprotection/blog-core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the dashboard endpoints under /admin. Authors may
// read the headline stats; everything else is admin only.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/admin", authMW)
	g.GET("/stats", middleware.RequireRoles(models.RoleAdmin, models.RoleAuthor), h.stats)

	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	g.GET("/activity-over-time", adminOnly, h.activityOverTime)
	g.GET("/recent-activities", adminOnly, h.recentActivities)
	g.GET("/top-performing", adminOnly, h.topPerforming)
}

// stats GET /admin/stats
func (h *Handler) stats(c *gin.Context) {
	o, err := h.svc.Overview(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, o)
}

// activityOverTime GET /admin/activity-over-time
func (h *Handler) activityOverTime(c *gin.Context) {
	points, err := h.svc.ActivityOverTime(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, points)
}

// recentActivities GET /admin/recent-activities
func (h *Handler) recentActivities(c *gin.Context) {
	feed, err := h.svc.RecentActivities(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, feed)
}

// topPerforming GET /admin/top-performing
func (h *Handler) topPerforming(c *gin.Context) {
	top, err := h.svc.TopPerforming(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, top)
}
