package notifications

import (
	"github.com/gin-gonic/gin"

	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/common"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/middleware"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/toast"
)

// Handler exposes the per-session toast drain the SPA polls
type Handler struct {
	store *toast.Store
}

// NewHandler builds the notifications handler
func NewHandler(store *toast.Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes wires the toast routes on a session-scoped group
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/toasts", h.Drain)
}

// GET /admin/toasts
func (h *Handler) Drain(c *gin.Context) {
	sessionID, err := middleware.GetSessionID(c)
	if err != nil {
		common.AppErrorResponse(c, common.ErrUnauthorized)
		return
	}

	toasts, err := h.store.Drain(c.Request.Context(), sessionID)
	if err != nil {
		// a broken drain should not error the dashboard shell
		toasts = []toast.Toast{}
	}
	common.SuccessResponse(c, gin.H{"toasts": toasts})
}
