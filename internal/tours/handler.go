package tours

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rafaelmedeirospb83/guimaps-admin/internal/audit"
	"github.com/rafaelmedeirospb83/guimaps-admin/internal/upstream"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/common"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/middleware"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/pagination"
)

// Handler exposes the admin tour views
type Handler struct {
	service *Service
	audit   audit.Recorder
}

// NewHandler builds the tours handler
func NewHandler(service *Service, recorder audit.Recorder) *Handler {
	return &Handler{service: service, audit: recorder}
}

// RegisterRoutes wires the tour routes on a session-scoped group
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/tours", h.List)
	r.GET("/tours/taxonomy", h.Taxonomy)
	r.GET("/tours/:id", h.Detail)
	r.GET("/tours/:id/vr-media", h.VrMedia)
	r.POST("/tours", h.Create)
	r.PUT("/tours/:id", h.Update)
	r.DELETE("/tours/:id", h.Delete)
}

// GET /admin/tours
func (h *Handler) List(c *gin.Context) {
	token, err := middleware.GetUpstreamToken(c)
	if err != nil {
		common.AppErrorResponse(c, common.ErrUnauthorized)
		return
	}

	filter := upstream.TourListFilter{
		Query:      c.Query("q"),
		City:       c.Query("city"),
		PartnerID:  c.Query("partner_id"),
		ActiveOnly: c.Query("active_only") == "true",
	}

	vm, err := h.service.List(c.Request.Context(), token, filter, pagination.ParseParams(c))
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.SuccessResponse(c, vm)
}

// GET /admin/tours/:id
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

// GET /admin/tours/taxonomy
func (h *Handler) Taxonomy(c *gin.Context) {
	token, err := middleware.GetUpstreamToken(c)
	if err != nil {
		common.AppErrorResponse(c, common.ErrUnauthorized)
		return
	}

	includeInactive := c.Query("include_inactive") == "true"
	vm, err := h.service.Taxonomy(c.Request.Context(), token, c.Query("group"), includeInactive)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.SuccessResponse(c, vm)
}

// GET /admin/tours/:id/vr-media
func (h *Handler) VrMedia(c *gin.Context) {
	token, err := middleware.GetUpstreamToken(c)
	if err != nil {
		common.AppErrorResponse(c, common.ErrUnauthorized)
		return
	}

	filter := upstream.VrMediaFilter{MediaType: c.Query("media_type")}
	if raw := c.Query("expires_in"); raw != "" {
		if seconds, err := strconv.Atoi(raw); err == nil {
			filter.ExpiresIn = seconds
		}
	}

	vms, err := h.service.VrMedia(c.Request.Context(), token, c.Param("id"), filter)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.SuccessResponse(c, vms)
}

// POST /admin/tours
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

	var form TourForm
	if err := c.ShouldBindJSON(&form); err != nil {
		common.AppErrorResponse(c, common.NewValidationError("dados do passeio inválidos", err))
		return
	}

	vm, err := h.service.Create(c.Request.Context(), token, sessionID, form)
	resourceID := ""
	if vm != nil {
		resourceID = vm.ID
	}
	h.audit.Record(c.Request.Context(), audit.Entry{
		ActorID:    adminID,
		Action:     "tour.create",
		Resource:   "tour",
		ResourceID: resourceID,
		Err:        err,
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.SuccessResponse(c, vm)
}

// PUT /admin/tours/:id
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
	tourID := c.Param("id")

	var form TourForm
	if err := c.ShouldBindJSON(&form); err != nil {
		common.AppErrorResponse(c, common.NewValidationError("dados do passeio inválidos", err))
		return
	}

	vm, err := h.service.Update(c.Request.Context(), token, sessionID, tourID, form)
	h.audit.Record(c.Request.Context(), audit.Entry{
		ActorID:    adminID,
		Action:     "tour.update",
		Resource:   "tour",
		ResourceID: tourID,
		Err:        err,
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.SuccessResponse(c, vm)
}

// DELETE /admin/tours/:id
func (h *Handler) Delete(c *gin.Context) {
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
	tourID := c.Param("id")

	err = h.service.Delete(c.Request.Context(), token, sessionID, tourID)
	h.audit.Record(c.Request.Context(), audit.Entry{
		ActorID:    adminID,
		Action:     "tour.delete",
		Resource:   "tour",
		ResourceID: tourID,
		Err:        err,
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"deleted": true})
}
