package upstream

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/pagination"
)

// Payment provider codes
const (
	ProviderPagarme    = "PAGARME"
	ProviderAbacatePay = "ABACATEPAY"
)

// PaymentConfig is the marketplace-wide payment provider configuration
type PaymentConfig struct {
	PrimaryProvider    string  `json:"primary_provider"`
	CardProvider       string  `json:"card_provider"`
	PixProvider        string  `json:"pix_provider"`
	CardFallbackToPix  bool    `json:"card_fallback_to_pix"`
	PlatformFeePercent float64 `json:"platform_fee_percent"`
	UpdatedAt          *string `json:"updated_at"`
	UpdatedBy          *string `json:"updated_by"`
}

// UpdatePaymentConfigRequest carries a config change upstream
type UpdatePaymentConfigRequest struct {
	PrimaryProvider    string  `json:"primary_provider"`
	CardProvider       string  `json:"card_provider"`
	PixProvider        string  `json:"pix_provider"`
	CardFallbackToPix  bool    `json:"card_fallback_to_pix"`
	PlatformFeePercent float64 `json:"platform_fee_percent"`
}

// FailedWebhook is a payment webhook the core API could not process
type FailedWebhook struct {
	ID            string     `json:"id"`
	ProviderCode  string     `json:"provider_code"`
	EventType     string     `json:"event_type"`
	ProcessStatus string     `json:"process_status"`
	FailureReason *string    `json:"failure_reason"`
	Attempts      int        `json:"attempts"`
	ReceivedAt    time.Time  `json:"received_at"`
	LastTriedAt   *time.Time `json:"last_tried_at"`
}

// ReprocessWebhookResponse acknowledges a reprocess request. Some deployments
// answer with ok, others with enqueued; both mean accepted.
type ReprocessWebhookResponse struct {
	OK       bool   `json:"ok"`
	Enqueued bool   `json:"enqueued"`
	Message  string `json:"message"`
}

// Accepted reports whether the reprocess was taken in either envelope shape
func (r *ReprocessWebhookResponse) Accepted() bool {
	return r.OK || r.Enqueued
}

// GetPaymentConfig fetches the provider configuration
func (c *Client) GetPaymentConfig(ctx context.Context, token string) (*PaymentConfig, error) {
	var cfg PaymentConfig
	if err := c.get(ctx, token, "/api/v1/admin/payments/config", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// UpdatePaymentConfig writes the provider configuration
func (c *Client) UpdatePaymentConfig(ctx context.Context, token string, req UpdatePaymentConfigRequest) (*PaymentConfig, error) {
	var cfg PaymentConfig
	if err := c.put(ctx, token, "/api/v1/admin/payments/config", req, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ListFailedWebhooks pages through webhooks stuck in a failed process status
func (c *Client) ListFailedWebhooks(ctx context.Context, token string, p pagination.Params) ([]FailedWebhook, error) {
	var hooks []FailedWebhook
	path := "/api/v1/admin/payments/webhooks/failed?" + p.QueryString()
	if err := c.get(ctx, token, path, &hooks); err != nil {
		return nil, err
	}
	return hooks, nil
}

// ReprocessWebhook asks the core API to replay one failed webhook
func (c *Client) ReprocessWebhook(ctx context.Context, token, webhookID string) (*ReprocessWebhookResponse, error) {
	var resp ReprocessWebhookResponse
	path := fmt.Sprintf("/api/v1/admin/payments/webhooks/%s/reprocess", url.PathEscape(webhookID))
	if err := c.post(ctx, token, path, struct{}{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
