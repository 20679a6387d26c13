package auth

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"

	"github.com/debtprotection/blog-core/internal/middleware"
	"github.com/debtprotection/blog-core/internal/modules/user"
	"github.com/debtprotection/blog-core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts /auth.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/auth")
	g.POST("/register", h.register)
	g.POST("/login", h.login)
	g.GET("/me", authMW, h.me)
}

func writeError(c *gin.Context, err error) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		response.ValidationFailed(c, verrs.Error(), verrs)
	case errors.Is(err, user.ErrEmailTaken):
		response.Conflict(c, err.Error())
	case errors.Is(err, ErrInvalidCredentials):
		response.UnauthorizedMsg(c, "Invalid credentials. Check your email and password, then try again")
	case errors.Is(err, ErrPanelForbidden):
		response.ForbiddenMsg(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}

// register POST /auth/register
func (h *Handler) register(c *gin.Context) {
	var dto RegisterDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	session, err := h.svc.Register(c.Request.Context(), dto)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, session)
}

// login POST /auth/login
func (h *Handler) login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	session, err := h.svc.Login(c.Request.Context(), dto)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, session)
}

// me GET /auth/me  [auth]
func (h *Handler) me(c *gin.Context) {
	response.OK(c, gin.H{"user": user.ToPublic(middleware.CurrentUser(c))})
}
