package upstream

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/pagination"
)

// Payment split lifecycle statuses as the core API reports them
const (
	SplitStatusPendingEvent = "PENDING_EVENT"
	SplitStatusReadyToPay   = "READY_TO_PAY"
	SplitStatusPaid         = "PAID"
	SplitStatusCanceled     = "CANCELED"
)

// Payout attempt statuses
const (
	PayoutStatusRequested  = "REQUESTED"
	PayoutStatusProcessing = "PROCESSING"
	PayoutStatusSucceeded  = "SUCCEEDED"
	PayoutStatusFailed     = "FAILED"
)

// Recipient types
const (
	RecipientGuideUser = "GUIDE_USER"
	RecipientPartner   = "PARTNER"
	RecipientPlatform  = "PLATFORM"
)

// PaymentSplit is a row from the split ledger
type PaymentSplit struct {
	ID                   string     `json:"id"`
	BookingID            string     `json:"booking_id"`
	PaymentID            string     `json:"payment_id"`
	ProviderCode         string     `json:"provider_code"`
	GrossAmountCents     int64      `json:"gross_amount_cents"`
	PlatformFeeCents     int64      `json:"platform_fee_cents"`
	RecipientAmountCents int64      `json:"recipient_amount_cents"`
	RecipientType        string     `json:"recipient_type"`
	PartnerID            *string    `json:"partner_id"`
	GuideUserID          *string    `json:"guide_user_id"`
	Status               string     `json:"status"`
	BookingStatus        *string    `json:"booking_status"`
	PaymentStatus        *string    `json:"payment_status"`
	FailureReason        *string    `json:"failure_reason"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            *time.Time `json:"updated_at"`
}

// PayoutAttempt is one transfer attempt against a split
type PayoutAttempt struct {
	ID               string     `json:"id"`
	PaymentSplitID   string     `json:"payment_split_id"`
	ProviderCode     string     `json:"provider_code"`
	ProviderPayoutID *string    `json:"provider_payout_id"`
	AmountCents      int64      `json:"amount_cents"`
	Status           string     `json:"status"`
	FailureReason    *string    `json:"failure_reason"`
	RequestedAt      time.Time  `json:"requested_at"`
	ProcessedAt      *time.Time `json:"processed_at"`
}

// PaymentSplitDetail is the split joined with its context and payout history
type PaymentSplitDetail struct {
	PaymentSplit
	PartnerName   *string         `json:"partner_name"`
	GuideName     *string         `json:"guide_name"`
	BookingTitle  *string         `json:"booking_title"`
	PayoutHistory []PayoutAttempt `json:"payout_history"`
}

// CreatePayoutRequest carries the optional overrides from the payout form.
// Pointer fields deliberately lack omitempty: a blank form must serialize as
// explicit nulls, which the core API reads as "use ledger values".
type CreatePayoutRequest struct {
	AmountCents           *int64  `json:"amount_cents"`
	DestinationOverrideID *string `json:"destination_override_id"`
	Notes                 *string `json:"notes"`
}

// CreatePayoutResponse is the core API's answer to a payout request
type CreatePayoutResponse struct {
	PayoutID         string  `json:"payout_id"`
	Status           string  `json:"status"`
	ProviderCode     string  `json:"provider_code"`
	ProviderPayoutID *string `json:"provider_payout_id"`
	Message          string  `json:"message"`
}

// MarkReadyResponse confirms a manual transition to READY_TO_PAY
type MarkReadyResponse struct {
	SplitID string `json:"split_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// RetryPayoutResponse reports a retried transfer
type RetryPayoutResponse struct {
	PayoutID string `json:"payout_id"`
	Status   string `json:"status"`
	Message  string `json:"message"`
}

// SplitListFilter narrows the split ledger listing
type SplitListFilter struct {
	Status        string
	RecipientType string
	ProviderCode  string
	BookingID     string
}

func (f SplitListFilter) query(p pagination.Params) string {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.RecipientType != "" {
		q.Set("recipient_type", f.RecipientType)
	}
	if f.ProviderCode != "" {
		q.Set("provider_code", f.ProviderCode)
	}
	if f.BookingID != "" {
		q.Set("booking_id", f.BookingID)
	}
	encoded := q.Encode()
	if encoded != "" {
		encoded += "&"
	}
	return encoded + p.QueryString()
}

// ListSplits pages through the split ledger
func (c *Client) ListSplits(ctx context.Context, token string, filter SplitListFilter, p pagination.Params) ([]PaymentSplit, error) {
	var splits []PaymentSplit
	path := "/api/v1/admin/payments/splits?" + filter.query(p)
	if err := c.get(ctx, token, path, &splits); err != nil {
		return nil, err
	}
	return splits, nil
}

// GetSplit fetches one split with its payout history
func (c *Client) GetSplit(ctx context.Context, token, splitID string) (*PaymentSplitDetail, error) {
	var detail PaymentSplitDetail
	path := fmt.Sprintf("/api/v1/admin/payments/splits/%s", url.PathEscape(splitID))
	if err := c.get(ctx, token, path, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// MarkSplitReady forces a stuck split into READY_TO_PAY
func (c *Client) MarkSplitReady(ctx context.Context, token, splitID string) (*MarkReadyResponse, error) {
	var resp MarkReadyResponse
	path := fmt.Sprintf("/api/v1/admin/payments/splits/%s/mark-ready", url.PathEscape(splitID))
	if err := c.post(ctx, token, path, struct{}{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreatePayout requests a transfer for a split. The idempotency key ties
// retries of the same confirmation to a single upstream payout.
func (c *Client) CreatePayout(ctx context.Context, token, splitID string, req CreatePayoutRequest, idempotencyKey string) (*CreatePayoutResponse, error) {
	var resp CreatePayoutResponse
	path := fmt.Sprintf("/api/v1/admin/payments/splits/%s/payout", url.PathEscape(splitID))
	if err := c.postIdempotent(ctx, token, path, req, &resp, idempotencyKey); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetPayout fetches one payout attempt
func (c *Client) GetPayout(ctx context.Context, token, payoutID string) (*PayoutAttempt, error) {
	var payout PayoutAttempt
	path := fmt.Sprintf("/api/v1/admin/payments/splits/payouts/%s", url.PathEscape(payoutID))
	if err := c.get(ctx, token, path, &payout); err != nil {
		return nil, err
	}
	return &payout, nil
}

// RetryPayout re-fires a failed payout attempt
func (c *Client) RetryPayout(ctx context.Context, token, payoutID string) (*RetryPayoutResponse, error) {
	var resp RetryPayoutResponse
	path := fmt.Sprintf("/api/v1/admin/payments/splits/payouts/%s/retry", url.PathEscape(payoutID))
	if err := c.post(ctx, token, path, struct{}{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
