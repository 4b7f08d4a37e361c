package bookings

import (
	"github.com/gin-gonic/gin"

	"github.com/rafaelmedeirospb83/guimaps-admin/internal/audit"
	"github.com/rafaelmedeirospb83/guimaps-admin/internal/upstream"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/common"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/middleware"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/pagination"
)

// Handler exposes the admin reservation views
type Handler struct {
	service *Service
	audit   audit.Recorder
}

// NewHandler builds the bookings handler
func NewHandler(service *Service, recorder audit.Recorder) *Handler {
	return &Handler{service: service, audit: recorder}
}

// RegisterRoutes wires the booking routes on a session-scoped group
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/bookings", h.List)
	r.GET("/bookings/:id", h.Detail)
	r.POST("/bookings/:id/cancel", h.Cancel)
}

// GET /admin/bookings
func (h *Handler) List(c *gin.Context) {
	token, err := middleware.GetUpstreamToken(c)
	if err != nil {
		common.AppErrorResponse(c, common.ErrUnauthorized)
		return
	}

	filter := upstream.BookingListFilter{
		Status:    c.Query("status"),
		PartnerID: c.Query("partner_id"),
		DateFrom:  c.Query("date_from"),
		DateTo:    c.Query("date_to"),
	}

	vm, err := h.service.List(c.Request.Context(), token, filter, pagination.ParseParams(c))
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.SuccessResponse(c, vm)
}

// GET /admin/bookings/:id
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

// POST /admin/bookings/:id/cancel
func (h *Handler) Cancel(c *gin.Context) {
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
	bookingID := c.Param("id")

	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.AppErrorResponse(c, common.NewValidationError("motivo do cancelamento é obrigatório", err))
		return
	}

	vm, err := h.service.Cancel(c.Request.Context(), token, sessionID, bookingID, req.Reason)
	h.audit.Record(c.Request.Context(), audit.Entry{
		ActorID:    adminID,
		Action:     "booking.cancel",
		Resource:   "booking",
		ResourceID: bookingID,
		Err:        err,
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.SuccessResponse(c, vm)
}
