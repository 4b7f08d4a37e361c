package splits

import (
	"github.com/gin-gonic/gin"

	"github.com/rafaelmedeirospb83/guimaps-admin/internal/audit"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/common"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/middleware"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/pagination"
)

// Handler exposes the split ledger and the payout flow
type Handler struct {
	service *Service
	audit   audit.Recorder
}

// NewHandler builds the splits handler
func NewHandler(service *Service, recorder audit.Recorder) *Handler {
	return &Handler{service: service, audit: recorder}
}

// RegisterRoutes wires the split and payout routes on a session-scoped group
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/splits", h.List)
	r.GET("/splits/:id", h.Detail)
	r.POST("/splits/:id/mark-ready", h.MarkReady)
	r.POST("/splits/:id/payout/draft", h.OpenDraft)
	r.PUT("/splits/:id/payout/draft", h.UpdateDraft)
	r.DELETE("/splits/:id/payout/draft", h.DiscardDraft)
	r.POST("/splits/:id/payout/confirm", h.ConfirmPayout)
	r.GET("/payouts/:id", h.PayoutDetail)
	r.POST("/payouts/:id/retry", h.RetryPayout)
}

type requestIdentity struct {
	token     string
	sessionID string
	adminID   string
}

func identityFrom(c *gin.Context) (requestIdentity, bool) {
	token, err := middleware.GetUpstreamToken(c)
	if err != nil {
		common.AppErrorResponse(c, common.ErrUnauthorized)
		return requestIdentity{}, false
	}
	sessionID, err := middleware.GetSessionID(c)
	if err != nil {
		common.AppErrorResponse(c, common.ErrUnauthorized)
		return requestIdentity{}, false
	}
	adminID, _ := middleware.GetAdminID(c)
	return requestIdentity{token: token, sessionID: sessionID, adminID: adminID}, true
}

// GET /admin/splits
func (h *Handler) List(c *gin.Context) {
	id, ok := identityFrom(c)
	if !ok {
		return
	}

	query := ListQuery{
		Status: c.Query("status"),
		Query:  c.Query("q"),
		Page:   pagination.ParseParamsWithDefault(c, defaultListLimit),
	}

	vm, err := h.service.List(c.Request.Context(), id.token, query)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.SuccessResponse(c, vm)
}

// GET /admin/splits/:id
func (h *Handler) Detail(c *gin.Context) {
	id, ok := identityFrom(c)
	if !ok {
		return
	}

	vm, err := h.service.Detail(c.Request.Context(), id.token, c.Param("id"))
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.SuccessResponse(c, vm)
}

// POST /admin/splits/:id/mark-ready
func (h *Handler) MarkReady(c *gin.Context) {
	id, ok := identityFrom(c)
	if !ok {
		return
	}
	splitID := c.Param("id")

	vm, err := h.service.MarkReady(c.Request.Context(), id.token, id.sessionID, splitID)
	h.audit.Record(c.Request.Context(), audit.Entry{
		ActorID:    id.adminID,
		Action:     "split.mark_ready",
		Resource:   "payment_split",
		ResourceID: splitID,
		Err:        err,
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.SuccessResponse(c, vm)
}

// POST /admin/splits/:id/payout/draft
func (h *Handler) OpenDraft(c *gin.Context) {
	id, ok := identityFrom(c)
	if !ok {
		return
	}

	var req PayoutDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.AppErrorResponse(c, common.NewValidationError("valores do pagamento inválidos", err))
		return
	}

	vm, err := h.service.OpenDraft(c.Request.Context(), id.token, id.sessionID, c.Param("id"), req)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.SuccessResponse(c, vm)
}

// PUT /admin/splits/:id/payout/draft
func (h *Handler) UpdateDraft(c *gin.Context) {
	id, ok := identityFrom(c)
	if !ok {
		return
	}

	var req PayoutDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.AppErrorResponse(c, common.NewValidationError("valores do pagamento inválidos", err))
		return
	}

	vm, err := h.service.UpdateDraft(c.Request.Context(), id.token, id.sessionID, c.Param("id"), req)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.SuccessResponse(c, vm)
}

// DELETE /admin/splits/:id/payout/draft
func (h *Handler) DiscardDraft(c *gin.Context) {
	id, ok := identityFrom(c)
	if !ok {
		return
	}

	if err := h.service.DiscardDraft(c.Request.Context(), id.sessionID, c.Param("id")); err != nil {
		common.RespondError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"discarded": true})
}

// POST /admin/splits/:id/payout/confirm
func (h *Handler) ConfirmPayout(c *gin.Context) {
	id, ok := identityFrom(c)
	if !ok {
		return
	}
	splitID := c.Param("id")

	vm, err := h.service.ConfirmDraft(c.Request.Context(), id.token, id.sessionID, splitID)
	h.audit.Record(c.Request.Context(), audit.Entry{
		ActorID:    id.adminID,
		Action:     "payout.create",
		Resource:   "payment_split",
		ResourceID: splitID,
		Err:        err,
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.SuccessResponse(c, vm)
}

// GET /admin/payouts/:id
func (h *Handler) PayoutDetail(c *gin.Context) {
	id, ok := identityFrom(c)
	if !ok {
		return
	}

	vm, err := h.service.PayoutDetail(c.Request.Context(), id.token, c.Param("id"))
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.SuccessResponse(c, vm)
}

// POST /admin/payouts/:id/retry
func (h *Handler) RetryPayout(c *gin.Context) {
	id, ok := identityFrom(c)
	if !ok {
		return
	}
	payoutID := c.Param("id")

	vm, err := h.service.Retry(c.Request.Context(), id.token, id.sessionID, payoutID)
	h.audit.Record(c.Request.Context(), audit.Entry{
		ActorID:    id.adminID,
		Action:     "payout.retry",
		Resource:   "payout",
		ResourceID: payoutID,
		Err:        err,
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.SuccessResponse(c, vm)
}
