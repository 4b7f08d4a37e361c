package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/common"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/middleware"
)

// Handler exposes the session endpoints
type Handler struct {
	service *Service
}

// NewHandler builds the auth handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires the public login route and the session-scoped routes
func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.POST("/login", h.Login)
	protected.GET("/me", h.Me)
	protected.POST("/refresh", h.Refresh)
	protected.POST("/logout", h.Logout)
}

// POST /admin/login
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.AppErrorResponse(c, common.NewValidationError("informe email e senha válidos", err))
		return
	}

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.SuccessResponse(c, result)
}

// GET /admin/me
func (h *Handler) Me(c *gin.Context) {
	token, err := middleware.GetUpstreamToken(c)
	if err != nil {
		common.AppErrorResponse(c, common.ErrUnauthorized)
		return
	}

	user, err := h.service.Me(c.Request.Context(), token)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.SuccessResponse(c, user)
}

// POST /admin/refresh
func (h *Handler) Refresh(c *gin.Context) {
	sessionID, err := middleware.GetSessionID(c)
	if err != nil {
		common.AppErrorResponse(c, common.ErrUnauthorized)
		return
	}

	if err := h.service.Refresh(c.Request.Context(), sessionID); err != nil {
		common.RespondError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"refreshed": true})
}

// POST /admin/logout
func (h *Handler) Logout(c *gin.Context) {
	sessionID, err := middleware.GetSessionID(c)
	if err != nil {
		common.AppErrorResponse(c, common.ErrUnauthorized)
		return
	}

	if err := h.service.Logout(c.Request.Context(), sessionID); err != nil {
		common.RespondError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"logged_out": true})
}
