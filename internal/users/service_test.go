package users

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rafaelmedeirospb83/guimaps-admin/internal/upstream"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/common"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/pagination"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/toast"
)

type fakeAPI struct {
	listFn   func(query string, p pagination.Params) (*upstream.UserPage, error)
	getFn    func(userID string) (*upstream.UserDetail, error)
	deleteFn func(userID string) error
}

func (f *fakeAPI) ListUsers(_ context.Context, _ string, query string, p pagination.Params) (*upstream.UserPage, error) {
	return f.listFn(query, p)
}

func (f *fakeAPI) GetUser(_ context.Context, _, userID string) (*upstream.UserDetail, error) {
	return f.getFn(userID)
}

func (f *fakeAPI) DeleteUser(_ context.Context, _, userID string) error {
	return f.deleteFn(userID)
}

func TestListCarriesServerTotal(t *testing.T) {
	api := &fakeAPI{
		listFn: func(query string, _ pagination.Params) (*upstream.UserPage, error) {
			assert.Equal(t, "ana", query)
			return &upstream.UserPage{
				Users: []upstream.User{{
					ID:        "u-1",
					Name:      "Ana Lima",
					Email:     "ana@example.com",
					CreatedAt: time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC),
				}},
				Total: 137,
			}, nil
		},
	}
	service := NewService(api, toast.NewQueue(time.Minute))

	vm, err := service.List(context.Background(), "token", "ana", pagination.Params{Limit: 20, Offset: 40})
	require.NoError(t, err)
	require.Len(t, vm.Rows, 1)
	assert.Equal(t, int64(137), vm.Total)
	assert.Equal(t, 40, vm.Offset)
}

func TestGetBuildsBookingAndCardSummaries(t *testing.T) {
	api := &fakeAPI{
		getFn: func(userID string) (*upstream.UserDetail, error) {
			return &upstream.UserDetail{
				User:          upstream.User{ID: userID, Name: "Ana Lima", Email: "ana@example.com"},
				BookingsCount: 2,
				Bookings: []upstream.UserBooking{{
					ID:          "bk-1",
					TourTitle:   "Trilha do Pico",
					Status:      "CONFIRMED",
					AmountCents: 9900,
					CreatedAt:   time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC),
				}},
				Cards: []upstream.UserCard{{ID: "card-1", Brand: "visa", LastFour: "4242"}},
			}, nil
		},
	}
	service := NewService(api, toast.NewQueue(time.Minute))

	vm, err := service.Get(context.Background(), "token", "u-1")
	require.NoError(t, err)
	assert.Equal(t, 2, vm.BookingsCount)
	require.Len(t, vm.Bookings, 1)
	assert.Equal(t, "R$ 99,00", vm.Bookings[0].Amount)
	assert.Equal(t, "Confirmada", vm.Bookings[0].StatusBadge.Label)
	require.Len(t, vm.Cards, 1)
	assert.Equal(t, "4242", vm.Cards[0].LastFour)
}

func TestDeleteSurfacesUpstreamError(t *testing.T) {
	api := &fakeAPI{
		deleteFn: func(string) error {
			return common.NewApplicationError("usuário possui reservas ativas", nil)
		},
	}
	service := NewService(api, toast.NewQueue(time.Minute))

	err := service.Delete(context.Background(), "token", "sess-1", "u-1")
	appErr, ok := common.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "usuário possui reservas ativas", appErr.Message)
}
