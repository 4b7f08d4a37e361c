package users

import (
	"context"

	"github.com/rafaelmedeirospb83/guimaps-admin/internal/bookings"
	"github.com/rafaelmedeirospb83/guimaps-admin/internal/splits"
	"github.com/rafaelmedeirospb83/guimaps-admin/internal/upstream"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/common"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/i18n"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/pagination"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/toast"
)

// UserRow is one customer line in the admin table
type UserRow struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone"`
	CreatedAt string  `json:"created_at"`
}

// UserListVM is the customer page. Unlike the other listings the core API
// reports a real total here, so the pager shows exact page counts.
type UserListVM struct {
	Rows   []UserRow `json:"rows"`
	Total  int64     `json:"total"`
	Limit  int       `json:"limit"`
	Offset int       `json:"offset"`
}

// UserBookingVM is a booking summary on the customer detail
type UserBookingVM struct {
	ID          string             `json:"id"`
	TourTitle   string             `json:"tour_title"`
	Status      string             `json:"status"`
	StatusBadge splits.BadgeConfig `json:"status_badge"`
	Amount      string             `json:"amount"`
	CreatedAt   string             `json:"created_at"`
}

// UserCardVM is a stored payment card summary
type UserCardVM struct {
	ID       string `json:"id"`
	Brand    string `json:"brand"`
	LastFour string `json:"last_four"`
}

// UserDetailVM is the customer detail page
type UserDetailVM struct {
	UserRow
	BookingsCount int             `json:"bookings_count"`
	Bookings      []UserBookingVM `json:"bookings"`
	Cards         []UserCardVM    `json:"cards"`
}

type coreAPI interface {
	ListUsers(ctx context.Context, token, query string, p pagination.Params) (*upstream.UserPage, error)
	GetUser(ctx context.Context, token, userID string) (*upstream.UserDetail, error)
	DeleteUser(ctx context.Context, token, userID string) error
}

// Service builds the admin customer views
type Service struct {
	api    coreAPI
	toasts *toast.Queue
}

// NewService builds the users service
func NewService(api coreAPI, toasts *toast.Queue) *Service {
	return &Service{api: api, toasts: toasts}
}

func newRow(u upstream.User) UserRow {
	return UserRow{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		CreatedAt: i18n.FormatDateTimeValue(u.CreatedAt),
	}
}

// List returns one customer page with the server-provided total
func (s *Service) List(ctx context.Context, token, query string, p pagination.Params) (*UserListVM, error) {
	page, err := s.api.ListUsers(ctx, token, query, p)
	if err != nil {
		return nil, err
	}

	rows := make([]UserRow, 0, len(page.Users))
	for _, u := range page.Users {
		rows = append(rows, newRow(u))
	}
	return &UserListVM{Rows: rows, Total: page.Total, Limit: p.Limit, Offset: p.Offset}, nil
}

// Get returns one customer with bookings and cards summaries
func (s *Service) Get(ctx context.Context, token, userID string) (*UserDetailVM, error) {
	detail, err := s.api.GetUser(ctx, token, userID)
	if err != nil {
		return nil, err
	}

	bookingVMs := make([]UserBookingVM, 0, len(detail.Bookings))
	for _, b := range detail.Bookings {
		bookingVMs = append(bookingVMs, UserBookingVM{
			ID:          b.ID,
			TourTitle:   b.TourTitle,
			Status:      b.Status,
			StatusBadge: bookings.StatusBadge(b.Status),
			Amount:      i18n.FormatMoneyFromCents(b.AmountCents),
			CreatedAt:   i18n.FormatDateTimeValue(b.CreatedAt),
		})
	}

	cards := make([]UserCardVM, 0, len(detail.Cards))
	for _, card := range detail.Cards {
		cards = append(cards, UserCardVM{ID: card.ID, Brand: card.Brand, LastFour: card.LastFour})
	}

	return &UserDetailVM{
		UserRow:       newRow(detail.User),
		BookingsCount: detail.BookingsCount,
		Bookings:      bookingVMs,
		Cards:         cards,
	}, nil
}

// Delete removes a customer account
func (s *Service) Delete(ctx context.Context, token, sessionID, userID string) error {
	if err := s.api.DeleteUser(ctx, token, userID); err != nil {
		message := "erro ao excluir usuário"
		if appErr, ok := common.AsAppError(err); ok {
			message = appErr.Message
		}
		s.toasts.Publish(sessionID, message, toast.SeverityError)
		return err
	}

	s.toasts.Publish(sessionID, "Usuário excluído", toast.SeveritySuccess)
	return nil
}
