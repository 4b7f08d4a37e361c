package upstream

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/pagination"
)

// User is a customer account
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

// UserDetail adds the booking and payment-card summaries to a user
type UserDetail struct {
	User
	BookingsCount int           `json:"bookings_count"`
	Bookings      []UserBooking `json:"bookings"`
	Cards         []UserCard    `json:"cards"`
}

// UserBooking is a booking summary on the user detail
type UserBooking struct {
	ID          string    `json:"id"`
	TourTitle   string    `json:"tour_title"`
	Status      string    `json:"status"`
	AmountCents int64     `json:"amount_cents"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserCard is a stored payment card summary
type UserCard struct {
	ID       string `json:"id"`
	Brand    string `json:"brand"`
	LastFour string `json:"last_four"`
}

// UserPage is the one listing where the core API provides a real total
type UserPage struct {
	Users []User `json:"users"`
	Total int64  `json:"total"`
}

// ListUsers pages through customer accounts with a server-provided total
func (c *Client) ListUsers(ctx context.Context, token, query string, p pagination.Params) (*UserPage, error) {
	var page UserPage
	path := "/api/v1/admin/users?" + p.QueryString()
	if query != "" {
		path += "&q=" + url.QueryEscape(query)
	}
	if err := c.get(ctx, token, path, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetUser fetches one customer with bookings and cards summaries
func (c *Client) GetUser(ctx context.Context, token, userID string) (*UserDetail, error) {
	var detail UserDetail
	path := fmt.Sprintf("/api/v1/admin/users/%s", url.PathEscape(userID))
	if err := c.get(ctx, token, path, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// DeleteUser removes a customer account
func (c *Client) DeleteUser(ctx context.Context, token, userID string) error {
	path := fmt.Sprintf("/api/v1/admin/users/%s", url.PathEscape(userID))
	return c.delete(ctx, token, path)
}
