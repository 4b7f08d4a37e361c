package bookings

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
	listFn   func(filter upstream.BookingListFilter, p pagination.Params) ([]upstream.Booking, error)
	getFn    func(bookingID string) (*upstream.BookingDetail, error)
	cancelFn func(req upstream.BookingCancelRequest) (*upstream.BookingCancelResult, error)

	cancelCalls int
}

func (f *fakeAPI) ListBookings(_ context.Context, _ string, filter upstream.BookingListFilter, p pagination.Params) ([]upstream.Booking, error) {
	return f.listFn(filter, p)
}

func (f *fakeAPI) GetBooking(_ context.Context, _, bookingID string) (*upstream.BookingDetail, error) {
	return f.getFn(bookingID)
}

func (f *fakeAPI) CancelBooking(_ context.Context, _ string, req upstream.BookingCancelRequest) (*upstream.BookingCancelResult, error) {
	f.cancelCalls++
	return f.cancelFn(req)
}

func confirmedBooking(id string) upstream.Booking {
	scheduled := time.Date(2026, 9, 12, 14, 30, 0, 0, time.UTC)
	payment := "paid"
	return upstream.Booking{
		ID:               id,
		TourID:           "tour-1",
		TourTitle:        "Trilha do Pico",
		CustomerName:     "Ana Lima",
		CustomerEmail:    "ana@example.com",
		Status:           "CONFIRMED",
		PaymentStatus:    &payment,
		TotalAmountCents: 25000,
		ScheduledFor:     &scheduled,
		CreatedAt:        time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestListBuildsRows(t *testing.T) {
	api := &fakeAPI{
		listFn: func(upstream.BookingListFilter, pagination.Params) ([]upstream.Booking, error) {
			return []upstream.Booking{confirmedBooking("bk-1")}, nil
		},
	}
	service := NewService(api, toast.NewQueue(time.Minute))

	vm, err := service.List(context.Background(), "token", upstream.BookingListFilter{}, pagination.Params{Limit: 20})
	require.NoError(t, err)
	require.Len(t, vm.Rows, 1)

	row := vm.Rows[0]
	assert.Equal(t, "Confirmada", row.StatusBadge.Label)
	assert.Equal(t, "R$ 250,00", row.TotalAmount)
	require.NotNil(t, row.PaymentStatus)
	assert.Equal(t, "Pago", row.PaymentStatus.Label)
	assert.False(t, vm.HasNext)
}

func TestStatusBadge(t *testing.T) {
	assert.Equal(t, "Confirmada", StatusBadge("CONFIRMED").Label)
	assert.Equal(t, "Pendente", StatusBadge("PENDING").Label)
	assert.Equal(t, "Cancelada", StatusBadge("CANCELED").Label)
	assert.Equal(t, "Concluída", StatusBadge("COMPLETED").Label)
	assert.Equal(t, "NO_SHOW", StatusBadge("NO_SHOW").Label)
}

func TestCancelPassesReasonAndToasts(t *testing.T) {
	api := &fakeAPI{}
	canceled := false
	api.getFn = func(string) (*upstream.BookingDetail, error) {
		booking := confirmedBooking("bk-1")
		if !canceled {
			return &upstream.BookingDetail{Booking: booking}, nil
		}
		booking.Status = "CANCELED"
		reason := "cliente solicitou reembolso"
		return &upstream.BookingDetail{Booking: booking, CancelReason: &reason}, nil
	}
	api.cancelFn = func(req upstream.BookingCancelRequest) (*upstream.BookingCancelResult, error) {
		assert.Equal(t, "bk-1", req.BookingID)
		require.NotNil(t, req.Reason)
		assert.Equal(t, "cliente solicitou reembolso", *req.Reason)
		canceled = true
		return &upstream.BookingCancelResult{BookingID: req.BookingID, BookingStatus: "CANCELED", SplitsUpdated: 1}, nil
	}
	toasts := toast.NewQueue(time.Minute)
	service := NewService(api, toasts)

	vm, err := service.Cancel(context.Background(), "token", "sess-1", "bk-1", "cliente solicitou reembolso")
	require.NoError(t, err)
	assert.Equal(t, "Cancelada", vm.StatusBadge.Label)
	assert.False(t, vm.CancelAllowed)
	require.NotNil(t, vm.CancelReason)
}

func TestCancelRefusesTerminalBooking(t *testing.T) {
	for _, status := range []string{"CANCELED", "COMPLETED"} {
		t.Run(status, func(t *testing.T) {
			booking := confirmedBooking("bk-1")
			booking.Status = status
			api := &fakeAPI{
				getFn: func(string) (*upstream.BookingDetail, error) {
					return &upstream.BookingDetail{Booking: booking}, nil
				},
				cancelFn: func(upstream.BookingCancelRequest) (*upstream.BookingCancelResult, error) {
					t.Fatal("upstream cancel should not be reached")
					return nil, nil
				},
			}
			service := NewService(api, toast.NewQueue(time.Minute))

			_, err := service.Cancel(context.Background(), "token", "sess-1", "bk-1", "motivo qualquer")
			appErr, ok := common.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, common.CodeConflict, appErr.Code)
			assert.Zero(t, api.cancelCalls)
		})
	}
}

func TestCancelSurfacesUpstreamMessage(t *testing.T) {
	api := &fakeAPI{
		getFn: func(string) (*upstream.BookingDetail, error) {
			return &upstream.BookingDetail{Booking: confirmedBooking("bk-1")}, nil
		},
		cancelFn: func(upstream.BookingCancelRequest) (*upstream.BookingCancelResult, error) {
			return nil, common.NewApplicationError("reserva já possui repasse processado", nil)
		},
	}
	service := NewService(api, toast.NewQueue(time.Minute))

	_, err := service.Cancel(context.Background(), "token", "sess-1", "bk-1", "motivo qualquer")
	appErr, ok := common.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "reserva já possui repasse processado", appErr.Message)
}
