package partners

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rafaelmedeirospb83/guimaps-admin/internal/audit"
	"github.com/rafaelmedeirospb83/guimaps-admin/internal/upstream"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/common"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/middleware"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/pagination"
)

// Handler exposes the admin partner views
type Handler struct {
	service *Service
	audit   audit.Recorder
}

// NewHandler builds the partners handler
func NewHandler(service *Service, recorder audit.Recorder) *Handler {
	return &Handler{service: service, audit: recorder}
}

// RegisterRoutes wires the partner routes on a session-scoped group
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/partners", h.List)
	r.GET("/partners/:id", h.Detail)
	r.POST("/partners", h.Create)
	r.PUT("/partners/:id", h.Update)
	r.PATCH("/partners/:id/approval", h.SetApproval)
}

// GET /admin/partners
func (h *Handler) List(c *gin.Context) {
	token, err := middleware.GetUpstreamToken(c)
	if err != nil {
		common.AppErrorResponse(c, common.ErrUnauthorized)
		return
	}

	filter := upstream.PartnerListFilter{
		Query:        c.Query("q"),
		ApprovedOnly: c.Query("approved_only") == "true",
		City:         c.Query("city"),
	}
	// has_affiliate stays out of the query when absent; the listing treats
	// "all" and "false" differently
	if raw := c.Query("has_affiliate"); raw != "" {
		if v, parseErr := strconv.ParseBool(raw); parseErr == nil {
			filter.HasAffiliate = &v
		}
	}

	vm, err := h.service.List(c.Request.Context(), token, filter, pagination.ParseParams(c))
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.SuccessResponse(c, vm)
}

// GET /admin/partners/:id
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

// POST /admin/partners
func (h *Handler) Create(c *gin.Context) {
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

	var form PartnerForm
	if err := c.ShouldBindJSON(&form); err != nil {
		common.AppErrorResponse(c, common.NewValidationError("dados do parceiro inválidos", err))
		return
	}

	vm, err := h.service.Create(c.Request.Context(), token, sessionID, form)
	resourceID := ""
	if vm != nil {
		resourceID = vm.ID
	}
	h.audit.Record(c.Request.Context(), audit.Entry{
		ActorID:    adminID,
		Action:     "partner.create",
		Resource:   "partner",
		ResourceID: resourceID,
		Err:        err,
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.SuccessResponse(c, vm)
}

// PUT /admin/partners/:id
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
	partnerID := c.Param("id")

	var form PartnerForm
	if err := c.ShouldBindJSON(&form); err != nil {
		common.AppErrorResponse(c, common.NewValidationError("dados do parceiro inválidos", err))
		return
	}

	vm, err := h.service.Update(c.Request.Context(), token, sessionID, partnerID, form)
	h.audit.Record(c.Request.Context(), audit.Entry{
		ActorID:    adminID,
		Action:     "partner.update",
		Resource:   "partner",
		ResourceID: partnerID,
		Err:        err,
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.SuccessResponse(c, vm)
}

// PATCH /admin/partners/:id/approval
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
	partnerID := c.Param("id")

	var req ApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.AppErrorResponse(c, common.NewValidationError("campo approved é obrigatório", err))
		return
	}

	vm, err := h.service.SetApproval(c.Request.Context(), token, sessionID, partnerID, *req.Approved)
	action := "partner.approve"
	if !*req.Approved {
		action = "partner.revoke_approval"
	}
	h.audit.Record(c.Request.Context(), audit.Entry{
		ActorID:    adminID,
		Action:     action,
		Resource:   "partner",
		ResourceID: partnerID,
		Err:        err,
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.SuccessResponse(c, vm)
}
