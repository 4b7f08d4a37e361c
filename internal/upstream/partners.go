package upstream

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/pagination"
)

// Partner is an agency/operator account in the marketplace
type Partner struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        *string   `json:"phone"`
	City         *string   `json:"city"`
	Document     *string   `json:"document"`
	Approved     bool      `json:"approved"`
	HasAffiliate bool      `json:"has_affiliate"`
	RecipientID  *string   `json:"recipient_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// PartnerListFilter is the superset of the filter variants the listing accepts
type PartnerListFilter struct {
	Query        string
	ApprovedOnly bool
	City         string
	HasAffiliate *bool
}

func (f PartnerListFilter) query(p pagination.Params) string {
	q := url.Values{}
	if f.Query != "" {
		q.Set("q", f.Query)
	}
	if f.ApprovedOnly {
		q.Set("approved_only", "true")
	}
	if f.City != "" {
		q.Set("city", f.City)
	}
	if f.HasAffiliate != nil {
		q.Set("has_affiliate", fmt.Sprintf("%t", *f.HasAffiliate))
	}
	encoded := q.Encode()
	if encoded != "" {
		encoded += "&"
	}
	return encoded + p.QueryString()
}

// PartnerPayload carries partner fields for create and update
type PartnerPayload struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Phone    *string `json:"phone"`
	City     *string `json:"city"`
	Document *string `json:"document"`
}

// ListPartners pages through partner accounts
func (c *Client) ListPartners(ctx context.Context, token string, filter PartnerListFilter, p pagination.Params) ([]Partner, error) {
	var partners []Partner
	path := "/api/v1/admin/partners?" + filter.query(p)
	if err := c.get(ctx, token, path, &partners); err != nil {
		return nil, err
	}
	return partners, nil
}

// GetPartner fetches one partner account
func (c *Client) GetPartner(ctx context.Context, token, partnerID string) (*Partner, error) {
	var partner Partner
	path := fmt.Sprintf("/api/v1/admin/partners/%s", url.PathEscape(partnerID))
	if err := c.get(ctx, token, path, &partner); err != nil {
		return nil, err
	}
	return &partner, nil
}

// CreatePartner registers a partner account
func (c *Client) CreatePartner(ctx context.Context, token string, payload PartnerPayload) (*Partner, error) {
	var partner Partner
	if err := c.post(ctx, token, "/api/v1/admin/partners", payload, &partner); err != nil {
		return nil, err
	}
	return &partner, nil
}

// UpdatePartner updates a partner account
func (c *Client) UpdatePartner(ctx context.Context, token, partnerID string, payload PartnerPayload) (*Partner, error) {
	var partner Partner
	path := fmt.Sprintf("/api/v1/admin/partners/%s", url.PathEscape(partnerID))
	if err := c.put(ctx, token, path, payload, &partner); err != nil {
		return nil, err
	}
	return &partner, nil
}

// SetPartnerApproval toggles a partner's approval flag
func (c *Client) SetPartnerApproval(ctx context.Context, token, partnerID string, approved bool) (*Partner, error) {
	var partner Partner
	path := fmt.Sprintf("/api/v1/admin/partners/%s/approval", url.PathEscape(partnerID))
	body := map[string]bool{"approved": approved}
	if err := c.patch(ctx, token, path, body, &partner); err != nil {
		return nil, err
	}
	return &partner, nil
}
