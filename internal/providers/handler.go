package providers

import (
	"github.com/gin-gonic/gin"

	"github.com/rafaelmedeirospb83/guimaps-admin/internal/audit"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/common"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/middleware"
)

// Handler exposes the payment provider configuration card
type Handler struct {
	service *Service
	audit   audit.Recorder
}

// NewHandler builds the providers handler
func NewHandler(service *Service, recorder audit.Recorder) *Handler {
	return &Handler{service: service, audit: recorder}
}

// RegisterRoutes wires the config routes on a session-scoped group
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/payments/config", h.Get)
	r.PUT("/payments/config", h.Update)
}

// GET /admin/payments/config
func (h *Handler) Get(c *gin.Context) {
	token, err := middleware.GetUpstreamToken(c)
	if err != nil {
		common.AppErrorResponse(c, common.ErrUnauthorized)
		return
	}

	vm, err := h.service.Get(c.Request.Context(), token)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.SuccessResponse(c, vm)
}

// PUT /admin/payments/config
func (h *Handler) Update(c *gin.Context) {
	token, err := middleware.GetUpstreamToken(c)
	if err != nil {
		common.AppErrorResponse(c, common.ErrUnauthorized)
		return
	}
	sessionID, err := middleware.GetSessionID(c)
	if err != nil {
		common.AppErrorResponse(c, common.ErrUnauthorized)
		return
	}
	adminID, _ := middleware.GetAdminID(c)

	var req UpdateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.AppErrorResponse(c, common.NewValidationError("configuração inválida", err))
		return
	}

	vm, err := h.service.Update(c.Request.Context(), token, sessionID, req)
	h.audit.Record(c.Request.Context(), audit.Entry{
		ActorID:    adminID,
		Action:     "payments.config_update",
		Resource:   "payment_config",
		ResourceID: "global",
		Err:        err,
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.SuccessResponse(c, vm)
}
