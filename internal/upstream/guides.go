package upstream

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/pagination"
)

// Guide is a tour guide account
type Guide struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       *string   `json:"phone"`
	City        *string   `json:"city"`
	Approved    bool      `json:"approved"`
	ToursCount  int       `json:"tours_count"`
	RatingAvg   *float64  `json:"rating_avg"`
	CreatedAt   time.Time `json:"created_at"`
	PixKey      *string   `json:"pix_key"`
	RecipientID *string   `json:"recipient_id"`
}

// GuideListFilter narrows the guide listing
type GuideListFilter struct {
	Query        string
	ApprovedOnly bool
	City         string
}

func (f GuideListFilter) query(p pagination.Params) string {
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
	encoded := q.Encode()
	if encoded != "" {
		encoded += "&"
	}
	return encoded + p.QueryString()
}

// ResetPasswordResponse carries the generated password when the operator did
// not supply one
type ResetPasswordResponse struct {
	GeneratedPassword *string `json:"generated_password"`
	Message           string  `json:"message"`
}

// ListGuides pages through guide accounts
func (c *Client) ListGuides(ctx context.Context, token string, filter GuideListFilter, p pagination.Params) ([]Guide, error) {
	var guides []Guide
	path := "/api/v1/admin/guides?" + filter.query(p)
	if err := c.get(ctx, token, path, &guides); err != nil {
		return nil, err
	}
	return guides, nil
}

// GetGuide fetches one guide account
func (c *Client) GetGuide(ctx context.Context, token, guideID string) (*Guide, error) {
	var guide Guide
	path := fmt.Sprintf("/api/v1/admin/guides/%s", url.PathEscape(guideID))
	if err := c.get(ctx, token, path, &guide); err != nil {
		return nil, err
	}
	return &guide, nil
}

// SetGuideApproval toggles a guide's approval flag
func (c *Client) SetGuideApproval(ctx context.Context, token, guideID string, approved bool) (*Guide, error) {
	var guide Guide
	path := fmt.Sprintf("/api/v1/admin/guides/%s/approval", url.PathEscape(guideID))
	body := map[string]bool{"approved": approved}
	if err := c.patch(ctx, token, path, body, &guide); err != nil {
		return nil, err
	}
	return &guide, nil
}

// ResetGuidePassword resets a guide's password. An empty newPassword asks the
// core API to generate one and return it.
func (c *Client) ResetGuidePassword(ctx context.Context, token, guideID, newPassword string) (*ResetPasswordResponse, error) {
	var resp ResetPasswordResponse
	path := fmt.Sprintf("/api/v1/admin/guides/%s/reset-password", url.PathEscape(guideID))
	body := map[string]string{}
	if newPassword != "" {
		body["new_password"] = newPassword
	}
	if err := c.post(ctx, token, path, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
