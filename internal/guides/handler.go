package guides

import (
	"github.com/gin-gonic/gin"

	"github.com/rafaelmedeirospb83/guimaps-admin/internal/audit"
	"github.com/rafaelmedeirospb83/guimaps-admin/internal/upstream"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/common"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/middleware"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/pagination"
)

// Handler exposes the admin guide views
type Handler struct {
	service *Service
	audit   audit.Recorder
}

// NewHandler builds the guides handler
func NewHandler(service *Service, recorder audit.Recorder) *Handler {
	return &Handler{service: service, audit: recorder}
}

// RegisterRoutes wires the guide routes on a session-scoped group
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/guides", h.List)
	r.GET("/guides/:id", h.Detail)
	r.PATCH("/guides/:id/approval", h.SetApproval)
	r.POST("/guides/:id/reset-password", h.ResetPassword)
}

// GET /admin/guides
func (h *Handler) List(c *gin.Context) {
	token, err := middleware.GetUpstreamToken(c)
	if err != nil {
		common.AppErrorResponse(c, common.ErrUnauthorized)
		return
	}

	filter := upstream.GuideListFilter{
		Query:        c.Query("q"),
		ApprovedOnly: c.Query("approved_only") == "true",
		City:         c.Query("city"),
	}

	vm, err := h.service.List(c.Request.Context(), token, filter, pagination.ParseParams(c))
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.SuccessResponse(c, vm)
}

// GET /admin/guides/:id
func (h *Handler) Detail(c *gin.Context) {
	token, err := middleware.GetUpstreamToken(c)
	if err != nil {
		common.AppErrorResponse(c, common.ErrUnauthorized)
		return
	}

	vm, err := h.service.Get(c.Request.Context(), token, c.Param("id"))
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.SuccessResponse(c, vm)
}

// PATCH /admin/guides/:id/approval
func (h *Handler) SetApproval(c *gin.Context) {
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
	guideID := c.Param("id")

	var req ApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.AppErrorResponse(c, common.NewValidationError("campo approved é obrigatório", err))
		return
	}

	vm, err := h.service.SetApproval(c.Request.Context(), token, sessionID, guideID, *req.Approved)
	action := "guide.approve"
	if !*req.Approved {
		action = "guide.revoke_approval"
	}
	h.audit.Record(c.Request.Context(), audit.Entry{
		ActorID:    adminID,
		Action:     action,
		Resource:   "guide",
		ResourceID: guideID,
		Err:        err,
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.SuccessResponse(c, vm)
}

// POST /admin/guides/:id/reset-password
func (h *Handler) ResetPassword(c *gin.Context) {
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
	guideID := c.Param("id")

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.AppErrorResponse(c, common.NewValidationError("senha inválida", err))
		return
	}

	vm, err := h.service.ResetPassword(c.Request.Context(), token, sessionID, guideID, req.NewPassword)
	h.audit.Record(c.Request.Context(), audit.Entry{
		ActorID:    adminID,
		Action:     "guide.reset_password",
		Resource:   "guide",
		ResourceID: guideID,
		Err:        err,
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.SuccessResponse(c, vm)
}
