package user

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"

	"github.com/debtprotection/blog-core/internal/middleware"
	"github.com/debtprotection/blog-core/internal/models"
	"github.com/debtprotection/blog-core/internal/pkg/pagination"
	"github.com/debtprotection/blog-core/internal/pkg/response"
)

type Handler struct {
	svc *AdminService
}

func NewHandler(svc *AdminService) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the account management endpoints under /admin.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/admin", authMW, middleware.RequireRoles(models.RoleAdmin))
	g.GET("/users", h.list)
	g.PATCH("/users/:id/role", h.changeRole)
	g.DELETE("/users/:id", h.delete)
	g.GET("/profile", h.profile)
	g.PUT("/profile", h.updateProfile)
}

func writeError(c *gin.Context, err error) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		response.ValidationFailed(c, verrs.Error(), verrs)
	case errors.Is(err, ErrNotFound):
		response.NotFoundMsg(c, "User not found")
	case errors.Is(err, ErrEmailTaken):
		response.Conflict(c, "User with this email already exists")
	case errors.Is(err, ErrInvalidRole), errors.Is(err, ErrSelfDemotion),
		errors.Is(err, ErrLastAdmin), errors.Is(err, ErrSelfDelete):
		response.BadRequest(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}

// list GET /admin/users?role=
func (h *Handler) list(c *gin.Context) {
	var role models.UserRole
	if raw := c.Query("role"); raw != "" {
		r, ok := models.ParseUserRole(raw)
		if !ok {
			writeError(c, ErrInvalidRole)
			return
		}
		role = r
	}
	q := pagination.FromContext(c)
	rows, total, err := h.svc.List(c.Request.Context(), role, q)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Paged(c, rows, pagination.Meta(q, total))
}

// profile GET /admin/profile
func (h *Handler) profile(c *gin.Context) {
	u, err := h.svc.Profile(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, gin.H{"name": u.Name, "email": u.Email})
}

// updateProfile PUT /admin/profile
func (h *Handler) updateProfile(c *gin.Context) {
	var in ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if _, err := h.svc.UpdateProfile(c.Request.Context(), middleware.CurrentUserID(c), in); err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Profile updated successfully"})
}

// changeRole PATCH /admin/users/:id/role
func (h *Handler) changeRole(c *gin.Context) {
	var in RoleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.svc.ChangeRole(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), in)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, ToPublic(u))
}

// delete DELETE /admin/users/:id
func (h *Handler) delete(c *gin.Context) {
	rep, err := h.svc.DeleteUser(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, gin.H{"message": "User and all associated data deleted successfully", "deleted": rep})
}
