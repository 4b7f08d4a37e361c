package bookings

import (
	"context"
	"strings"

	"github.com/rafaelmedeirospb83/guimaps-admin/internal/splits"
	"github.com/rafaelmedeirospb83/guimaps-admin/internal/upstream"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/common"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/i18n"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/pagination"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/toast"
)

// BookingRow is one reservation line in the admin table
type BookingRow struct {
	ID            string              `json:"id"`
	TourTitle     string              `json:"tour_title"`
	CustomerName  string              `json:"customer_name"`
	CustomerEmail string              `json:"customer_email"`
	Status        string              `json:"status"`
	StatusBadge   splits.BadgeConfig  `json:"status_badge"`
	PaymentStatus *splits.BadgeConfig `json:"payment_status"`
	TotalAmount   string              `json:"total_amount"`
	ScheduledFor  string              `json:"scheduled_for"`
	CreatedAt     string              `json:"created_at"`
}

// BookingListVM is the reservation page
type BookingListVM struct {
	Rows    []BookingRow `json:"rows"`
	Limit   int          `json:"limit"`
	Offset  int          `json:"offset"`
	HasNext bool         `json:"has_next"`
}

// BookingDetailVM adds the cancellation trail
type BookingDetailVM struct {
	BookingRow
	TourID        string  `json:"tour_id"`
	PartnerID     *string `json:"partner_id"`
	GuideUserID   *string `json:"guide_user_id"`
	CancelReason  *string `json:"cancel_reason"`
	CanceledAt    string  `json:"canceled_at"`
	CanceledBy    *string `json:"canceled_by"`
	CancelAllowed bool    `json:"cancel_allowed"`
}

// CancelRequest carries the operator's reason, which is mandatory
type CancelRequest struct {
	Reason string `json:"reason" binding:"required,min=5"`
}

// StatusBadge maps booking statuses onto the shared badge palette
func StatusBadge(status string) splits.BadgeConfig {
	s := strings.ToLower(status)
	switch {
	case strings.Contains(s, "confirm"):
		return splits.BadgeConfig{Label: "Confirmada", Bg: "bg-green-100", Text: "text-green-800"}
	case strings.Contains(s, "pending"):
		return splits.BadgeConfig{Label: "Pendente", Bg: "bg-yellow-100", Text: "text-yellow-800"}
	case strings.Contains(s, "cancel"):
		return splits.BadgeConfig{Label: "Cancelada", Bg: "bg-red-100", Text: "text-red-800"}
	case strings.Contains(s, "complet"):
		return splits.BadgeConfig{Label: "Concluída", Bg: "bg-blue-100", Text: "text-blue-800"}
	default:
		return splits.BadgeConfig{Label: status, Bg: "bg-gray-100", Text: "text-gray-800"}
	}
}

func cancelable(status string) bool {
	s := strings.ToLower(status)
	return !strings.Contains(s, "cancel") && !strings.Contains(s, "complet")
}

type coreAPI interface {
	ListBookings(ctx context.Context, token string, filter upstream.BookingListFilter, p pagination.Params) ([]upstream.Booking, error)
	GetBooking(ctx context.Context, token, bookingID string) (*upstream.BookingDetail, error)
	CancelBooking(ctx context.Context, token string, req upstream.BookingCancelRequest) (*upstream.BookingCancelResult, error)
}

// Service builds the admin booking views
type Service struct {
	api    coreAPI
	toasts *toast.Queue
}

// NewService builds the bookings service
func NewService(api coreAPI, toasts *toast.Queue) *Service {
	return &Service{api: api, toasts: toasts}
}

func newRow(b upstream.Booking) BookingRow {
	row := BookingRow{
		ID:            b.ID,
		TourTitle:     b.TourTitle,
		CustomerName:  b.CustomerName,
		CustomerEmail: b.CustomerEmail,
		Status:        b.Status,
		StatusBadge:   StatusBadge(b.Status),
		TotalAmount:   i18n.FormatMoneyFromCents(b.TotalAmountCents),
		ScheduledFor:  i18n.FormatDateTime(b.ScheduledFor),
		CreatedAt:     i18n.FormatDateTimeValue(b.CreatedAt),
	}
	if b.PaymentStatus != nil {
		badge := splits.SplitStatusBadge(*b.PaymentStatus)
		row.PaymentStatus = &badge
	}
	return row
}

func newDetailVM(d *upstream.BookingDetail) *BookingDetailVM {
	return &BookingDetailVM{
		BookingRow:    newRow(d.Booking),
		TourID:        d.TourID,
		PartnerID:     d.PartnerID,
		GuideUserID:   d.GuideUserID,
		CancelReason:  d.CancelReason,
		CanceledAt:    i18n.FormatDateTime(d.CanceledAt),
		CanceledBy:    d.CanceledBy,
		CancelAllowed: cancelable(d.Status),
	}
}

// List returns one reservation page
func (s *Service) List(ctx context.Context, token string, filter upstream.BookingListFilter, p pagination.Params) (*BookingListVM, error) {
	bookings, err := s.api.ListBookings(ctx, token, filter, p)
	if err != nil {
		return nil, err
	}

	rows := make([]BookingRow, 0, len(bookings))
	for _, b := range bookings {
		rows = append(rows, newRow(b))
	}
	return &BookingListVM{Rows: rows, Limit: p.Limit, Offset: p.Offset, HasNext: p.HasNext(len(bookings))}, nil
}

// Get returns one booking with its cancellation trail
func (s *Service) Get(ctx context.Context, token, bookingID string) (*BookingDetailVM, error) {
	detail, err := s.api.GetBooking(ctx, token, bookingID)
	if err != nil {
		return nil, err
	}
	return newDetailVM(detail), nil
}

// Cancel cancels a booking with a reason. Already-terminal bookings are
// refused before the upstream call.
func (s *Service) Cancel(ctx context.Context, token, sessionID, bookingID, reason string) (*BookingDetailVM, error) {
	current, err := s.api.GetBooking(ctx, token, bookingID)
	if err != nil {
		return nil, err
	}
	if !cancelable(current.Status) {
		return nil, common.NewConflictError("reserva não pode mais ser cancelada")
	}

	req := upstream.BookingCancelRequest{BookingID: bookingID, Reason: &reason}
	if _, err := s.api.CancelBooking(ctx, token, req); err != nil {
		message := "erro ao cancelar reserva"
		if appErr, ok := common.AsAppError(err); ok {
			message = appErr.Message
		}
		s.toasts.Publish(sessionID, message, toast.SeverityError)
		return nil, err
	}

	s.toasts.Publish(sessionID, "Reserva cancelada", toast.SeveritySuccess)

	// refetch instead of patching the local copy
	detail, err := s.api.GetBooking(ctx, token, bookingID)
	if err != nil {
		return nil, err
	}
	return newDetailVM(detail), nil
}
