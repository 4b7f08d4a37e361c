package upstream

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/pagination"
)

// Tour is a bookable tour listing
type Tour struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	City        *string   `json:"city"`
	PartnerID   *string   `json:"partner_id"`
	GuideUserID *string   `json:"guide_user_id"`
	PriceCents  int64     `json:"price_cents"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// TourPhoto is one image attached to a tour
type TourPhoto struct {
	ID       string `json:"id"`
	TourID   string `json:"tour_id"`
	URL      string `json:"url"`
	Position int    `json:"position"`
}

// TourPayload carries tour fields for create and update
type TourPayload struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	City        *string `json:"city"`
	PartnerID   *string `json:"partner_id"`
	GuideUserID *string `json:"guide_user_id"`
	PriceCents  int64   `json:"price_cents"`
	Active      bool    `json:"active"`
}

// TourListFilter narrows the tour listing
type TourListFilter struct {
	Query      string
	City       string
	PartnerID  string
	ActiveOnly bool
}

func (f TourListFilter) query(p pagination.Params) string {
	q := url.Values{}
	if f.Query != "" {
		q.Set("q", f.Query)
	}
	if f.City != "" {
		q.Set("city", f.City)
	}
	if f.PartnerID != "" {
		q.Set("partner_id", f.PartnerID)
	}
	if f.ActiveOnly {
		q.Set("active_only", "true")
	}
	encoded := q.Encode()
	if encoded != "" {
		encoded += "&"
	}
	return encoded + p.QueryString()
}

// ListTours pages through tour listings
func (c *Client) ListTours(ctx context.Context, token string, filter TourListFilter, p pagination.Params) ([]Tour, error) {
	var tours []Tour
	path := "/api/v1/tours?" + filter.query(p)
	if err := c.get(ctx, token, path, &tours); err != nil {
		return nil, err
	}
	return tours, nil
}

// GetTour fetches one tour
func (c *Client) GetTour(ctx context.Context, token, tourID string) (*Tour, error) {
	var tour Tour
	path := fmt.Sprintf("/api/v1/tours/%s", url.PathEscape(tourID))
	if err := c.get(ctx, token, path, &tour); err != nil {
		return nil, err
	}
	return &tour, nil
}

// CreateTour registers a tour
func (c *Client) CreateTour(ctx context.Context, token string, payload TourPayload) (*Tour, error) {
	var tour Tour
	if err := c.post(ctx, token, "/api/v1/tours", payload, &tour); err != nil {
		return nil, err
	}
	return &tour, nil
}

// UpdateTour updates a tour
func (c *Client) UpdateTour(ctx context.Context, token, tourID string, payload TourPayload) (*Tour, error) {
	var tour Tour
	path := fmt.Sprintf("/api/v1/tours/%s", url.PathEscape(tourID))
	if err := c.put(ctx, token, path, payload, &tour); err != nil {
		return nil, err
	}
	return &tour, nil
}

// DeleteTour removes a tour
func (c *Client) DeleteTour(ctx context.Context, token, tourID string) error {
	path := fmt.Sprintf("/api/v1/tours/%s", url.PathEscape(tourID))
	return c.delete(ctx, token, path)
}

// ListTourPhotos fetches a tour's photo gallery
func (c *Client) ListTourPhotos(ctx context.Context, token, tourID string) ([]TourPhoto, error) {
	var photos []TourPhoto
	path := fmt.Sprintf("/api/v1/tours/%s/photos", url.PathEscape(tourID))
	if err := c.get(ctx, token, path, &photos); err != nil {
		return nil, err
	}
	return photos, nil
}

// TourCategory is one node of the category tree
type TourCategory struct {
	ID           string  `json:"id"`
	Slug         string  `json:"slug"`
	Name         string  `json:"name"`
	ParentID     *string `json:"parent_id"`
	Icon         *string `json:"icon"`
	DisplayOrder int     `json:"display_order"`
}

// TourTag is a flat label, optionally grouped (mood, audience, time, profile)
type TourTag struct {
	ID    string  `json:"id"`
	Slug  string  `json:"slug"`
	Name  string  `json:"name"`
	Group *string `json:"group"`
}

// VR media types as the core API names them
const (
	VrMediaPhoto360 = "PHOTO_360"
	VrMediaVideo360 = "VIDEO_360"
)

// TourVrMedia is one 360 asset with a short-lived signed URL
type TourVrMedia struct {
	ID           string  `json:"id"`
	TourID       string  `json:"tour_id"`
	MediaType    string  `json:"media_type"`
	IsPrimary    bool    `json:"is_primary"`
	ExpiresIn    int     `json:"expires_in"`
	SignedURL    string  `json:"signed_url"`
	ThumbnailURL *string `json:"thumbnail_url"`
	PosterURL    *string `json:"poster_url"`
}

// VrMediaFilter narrows the VR media listing
type VrMediaFilter struct {
	MediaType string
	ExpiresIn int // seconds, 60-3600
}

// ListTourCategories fetches the full category list
func (c *Client) ListTourCategories(ctx context.Context, token string, includeInactive bool) ([]TourCategory, error) {
	var categories []TourCategory
	path := "/api/v1/admin/tours/categories?include_inactive=" + strconv.FormatBool(includeInactive)
	if err := c.get(ctx, token, path, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// ListTourTags fetches tags, optionally one group only
func (c *Client) ListTourTags(ctx context.Context, token, group string, includeInactive bool) ([]TourTag, error) {
	q := url.Values{}
	if group != "" {
		q.Set("group", group)
	}
	q.Set("include_inactive", strconv.FormatBool(includeInactive))

	var tags []TourTag
	if err := c.get(ctx, token, "/api/v1/admin/tours/tags?"+q.Encode(), &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// ListTourVrMedia fetches a tour's 360 media with signed URLs
func (c *Client) ListTourVrMedia(ctx context.Context, token, tourID string, filter VrMediaFilter) ([]TourVrMedia, error) {
	q := url.Values{}
	if filter.MediaType != "" {
		q.Set("media_type", filter.MediaType)
	}
	if filter.ExpiresIn > 0 {
		q.Set("expires_in", strconv.Itoa(filter.ExpiresIn))
	}

	path := fmt.Sprintf("/api/v1/tours/%s/vr-media", url.PathEscape(tourID))
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var media []TourVrMedia
	if err := c.get(ctx, token, path, &media); err != nil {
		return nil, err
	}
	return media, nil
}
