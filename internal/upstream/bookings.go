package upstream

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/pagination"
)

// Booking is an admin-visible reservation row
type Booking struct {
	ID               string     `json:"id"`
	TourID           string     `json:"tour_id"`
	TourTitle        string     `json:"tour_title"`
	PartnerID        *string    `json:"partner_id"`
	GuideUserID      *string    `json:"guide_user_id"`
	CustomerName     string     `json:"customer_name"`
	CustomerEmail    string     `json:"customer_email"`
	Status           string     `json:"status"`
	PaymentStatus    *string    `json:"payment_status"`
	TotalAmountCents int64      `json:"total_amount_cents"`
	ScheduledFor     *time.Time `json:"scheduled_for"`
	CreatedAt        time.Time  `json:"created_at"`
}

// BookingDetail adds the cancellation trail to a booking
type BookingDetail struct {
	Booking
	CancelReason *string    `json:"cancel_reason"`
	CanceledAt   *time.Time `json:"canceled_at"`
	CanceledBy   *string    `json:"canceled_by"`
}

// BookingListFilter narrows the admin booking listing
type BookingListFilter struct {
	Status    string
	PartnerID string
	DateFrom  string
	DateTo    string
}

func (f BookingListFilter) query(p pagination.Params) string {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.PartnerID != "" {
		q.Set("partner_id", f.PartnerID)
	}
	if f.DateFrom != "" {
		q.Set("date_from", f.DateFrom)
	}
	if f.DateTo != "" {
		q.Set("date_to", f.DateTo)
	}
	encoded := q.Encode()
	if encoded != "" {
		encoded += "&"
	}
	return encoded + p.QueryString()
}

// ListBookings pages through admin bookings
func (c *Client) ListBookings(ctx context.Context, token string, filter BookingListFilter, p pagination.Params) ([]Booking, error) {
	var bookings []Booking
	path := "/api/v1/admin/bookings?" + filter.query(p)
	if err := c.get(ctx, token, path, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// GetBooking fetches one booking with its cancellation trail
func (c *Client) GetBooking(ctx context.Context, token, bookingID string) (*BookingDetail, error) {
	var detail BookingDetail
	path := fmt.Sprintf("/api/v1/admin/bookings/%s", url.PathEscape(bookingID))
	if err := c.get(ctx, token, path, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// BookingCancelRequest is the admin cancellation payload. Refund fields are
// optional; omitted means the backend decides.
type BookingCancelRequest struct {
	BookingID    string  `json:"booking_id"`
	Reason       *string `json:"reason"`
	RefundAmount *int64  `json:"refund_amount"`
	RefundMode   *string `json:"refund_mode"`
}

// BookingCancelResult is the outcome of an admin cancellation, including the
// provider-side refund when one was issued
type BookingCancelResult struct {
	BookingID     string                `json:"booking_id"`
	BookingStatus string                `json:"booking_status"`
	PaymentID     string                `json:"payment_id"`
	PaymentStatus string                `json:"payment_status"`
	SplitsUpdated int                   `json:"splits_updated"`
	Provider      *ProviderRefundResult `json:"provider_result"`
	CanceledAt    time.Time             `json:"cancelled_at"`
	Reason        *string               `json:"reason"`
}

// ProviderRefundResult reports what the payment provider did with the refund
type ProviderRefundResult struct {
	Provider         string  `json:"provider"`
	Action           string  `json:"action"`
	ProviderRefundID *string `json:"provider_refund_id"`
	Status           string  `json:"status"`
	ErrorMessage     *string `json:"error_message"`
}

// CancelBooking cancels a booking with an operator-supplied reason. The booking
// is addressed in the body, not the path.
func (c *Client) CancelBooking(ctx context.Context, token string, req BookingCancelRequest) (*BookingCancelResult, error) {
	var result BookingCancelResult
	if err := c.post(ctx, token, "/api/v1/admin/booking/cancelation", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
