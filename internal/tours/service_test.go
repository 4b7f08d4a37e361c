package tours

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
	listFn   func(filter upstream.TourListFilter, p pagination.Params) ([]upstream.Tour, error)
	getFn    func(tourID string) (*upstream.Tour, error)
	createFn func(payload upstream.TourPayload) (*upstream.Tour, error)
	updateFn func(tourID string, payload upstream.TourPayload) (*upstream.Tour, error)
	deleteFn func(tourID string) error
	photosFn func(tourID string) ([]upstream.TourPhoto, error)

	categoriesFn func(includeInactive bool) ([]upstream.TourCategory, error)
	tagsFn       func(group string, includeInactive bool) ([]upstream.TourTag, error)
	vrMediaFn    func(tourID string, filter upstream.VrMediaFilter) ([]upstream.TourVrMedia, error)

	createCalls int
}

func (f *fakeAPI) ListTours(_ context.Context, _ string, filter upstream.TourListFilter, p pagination.Params) ([]upstream.Tour, error) {
	return f.listFn(filter, p)
}

func (f *fakeAPI) GetTour(_ context.Context, _, tourID string) (*upstream.Tour, error) {
	return f.getFn(tourID)
}

func (f *fakeAPI) CreateTour(_ context.Context, _ string, payload upstream.TourPayload) (*upstream.Tour, error) {
	f.createCalls++
	return f.createFn(payload)
}

func (f *fakeAPI) UpdateTour(_ context.Context, _, tourID string, payload upstream.TourPayload) (*upstream.Tour, error) {
	return f.updateFn(tourID, payload)
}

func (f *fakeAPI) DeleteTour(_ context.Context, _, tourID string) error {
	return f.deleteFn(tourID)
}

func (f *fakeAPI) ListTourPhotos(_ context.Context, _, tourID string) ([]upstream.TourPhoto, error) {
	return f.photosFn(tourID)
}

func (f *fakeAPI) ListTourCategories(_ context.Context, _ string, includeInactive bool) ([]upstream.TourCategory, error) {
	return f.categoriesFn(includeInactive)
}

func (f *fakeAPI) ListTourTags(_ context.Context, _, group string, includeInactive bool) ([]upstream.TourTag, error) {
	return f.tagsFn(group, includeInactive)
}

func (f *fakeAPI) ListTourVrMedia(_ context.Context, _, tourID string, filter upstream.VrMediaFilter) ([]upstream.TourVrMedia, error) {
	return f.vrMediaFn(tourID, filter)
}

func sampleTour(id string, active bool) upstream.Tour {
	return upstream.Tour{
		ID:         id,
		Title:      "Trilha do Pico",
		PriceCents: 12900,
		Active:     active,
		CreatedAt:  time.Date(2026, 4, 20, 9, 0, 0, 0, time.UTC),
	}
}

func TestListBuildsRows(t *testing.T) {
	api := &fakeAPI{
		listFn: func(upstream.TourListFilter, pagination.Params) ([]upstream.Tour, error) {
			return []upstream.Tour{sampleTour("t-1", true), sampleTour("t-2", false)}, nil
		},
	}
	service := NewService(api, toast.NewQueue(time.Minute))

	vm, err := service.List(context.Background(), "token", upstream.TourListFilter{}, pagination.Params{Limit: 20})
	require.NoError(t, err)
	require.Len(t, vm.Rows, 2)

	assert.Equal(t, "R$ 129,00", vm.Rows[0].Price)
	assert.Equal(t, "Ativo", vm.Rows[0].StatusBadge.Label)
	assert.Equal(t, "Inativo", vm.Rows[1].StatusBadge.Label)
}

func TestGetSortsGalleryByPosition(t *testing.T) {
	api := &fakeAPI{
		getFn: func(tourID string) (*upstream.Tour, error) {
			tour := sampleTour(tourID, true)
			return &tour, nil
		},
		photosFn: func(tourID string) ([]upstream.TourPhoto, error) {
			return []upstream.TourPhoto{
				{ID: "ph-2", TourID: tourID, URL: "https://cdn.example.com/2.jpg", Position: 2},
				{ID: "ph-1", TourID: tourID, URL: "https://cdn.example.com/1.jpg", Position: 1},
			}, nil
		},
	}
	service := NewService(api, toast.NewQueue(time.Minute))

	vm, err := service.Get(context.Background(), "token", "t-1")
	require.NoError(t, err)
	require.Len(t, vm.Photos, 2)
	assert.Equal(t, "ph-1", vm.Photos[0].ID)
	assert.Equal(t, "ph-2", vm.Photos[1].ID)
}

func TestGetToleratesGalleryFailure(t *testing.T) {
	api := &fakeAPI{
		getFn: func(tourID string) (*upstream.Tour, error) {
			tour := sampleTour(tourID, true)
			return &tour, nil
		},
		photosFn: func(string) ([]upstream.TourPhoto, error) {
			return nil, common.NewTransportError("falha de comunicação com o serviço", nil)
		},
	}
	service := NewService(api, toast.NewQueue(time.Minute))

	vm, err := service.Get(context.Background(), "token", "t-1")
	require.NoError(t, err)
	assert.Empty(t, vm.Photos)
	assert.Equal(t, "Trilha do Pico", vm.Title)
}

func TestCreateValidatesBeforeUpstream(t *testing.T) {
	tests := []struct {
		name string
		form TourForm
	}{
		{"missing title", TourForm{PriceCents: 100}},
		{"zero price", TourForm{Title: "Trilha", PriceCents: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{}
			service := NewService(api, toast.NewQueue(time.Minute))

			_, err := service.Create(context.Background(), "token", "sess-1", tt.form)
			appErr, ok := common.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, common.CodeValidation, appErr.Code)
			assert.Zero(t, api.createCalls)
		})
	}
}

func TestTaxonomyOrdersCategoriesAndForwardsGroup(t *testing.T) {
	mood := "mood"
	api := &fakeAPI{
		categoriesFn: func(includeInactive bool) ([]upstream.TourCategory, error) {
			assert.False(t, includeInactive)
			return []upstream.TourCategory{
				{ID: "cat-3", Slug: "trilhas", Name: "Trilhas", DisplayOrder: 2},
				{ID: "cat-1", Slug: "aventura", Name: "Aventura", DisplayOrder: 1},
				{ID: "cat-2", Slug: "cultural", Name: "Cultural", DisplayOrder: 1},
			}, nil
		},
		tagsFn: func(group string, _ bool) ([]upstream.TourTag, error) {
			assert.Equal(t, "mood", group)
			return []upstream.TourTag{{ID: "tag-1", Slug: "radical", Name: "Radical", Group: &mood}}, nil
		},
	}
	service := NewService(api, toast.NewQueue(time.Minute))

	vm, err := service.Taxonomy(context.Background(), "token", "mood", false)
	require.NoError(t, err)
	require.Len(t, vm.Categories, 3)

	// display order first, name untangles ties
	assert.Equal(t, "cat-1", vm.Categories[0].ID)
	assert.Equal(t, "cat-2", vm.Categories[1].ID)
	assert.Equal(t, "cat-3", vm.Categories[2].ID)
	require.Len(t, vm.Tags, 1)
	assert.Equal(t, "Radical", vm.Tags[0].Name)
}

func TestVrMediaPutsPrimaryFirst(t *testing.T) {
	api := &fakeAPI{
		vrMediaFn: func(tourID string, filter upstream.VrMediaFilter) ([]upstream.TourVrMedia, error) {
			assert.Equal(t, "t-1", tourID)
			assert.Equal(t, upstream.VrMediaPhoto360, filter.MediaType)
			return []upstream.TourVrMedia{
				{ID: "vr-2", TourID: tourID, MediaType: upstream.VrMediaPhoto360, SignedURL: "https://cdn.example.com/vr-2"},
				{ID: "vr-1", TourID: tourID, MediaType: upstream.VrMediaPhoto360, IsPrimary: true, SignedURL: "https://cdn.example.com/vr-1"},
			}, nil
		},
	}
	service := NewService(api, toast.NewQueue(time.Minute))

	vms, err := service.VrMedia(context.Background(), "token", "t-1", upstream.VrMediaFilter{MediaType: upstream.VrMediaPhoto360})
	require.NoError(t, err)
	require.Len(t, vms, 2)
	assert.Equal(t, "vr-1", vms[0].ID)
	assert.True(t, vms[0].IsPrimary)
	assert.Equal(t, "vr-2", vms[1].ID)
}

func TestUpdateForwardsPayload(t *testing.T) {
	api := &fakeAPI{
		updateFn: func(tourID string, payload upstream.TourPayload) (*upstream.Tour, error) {
			assert.Equal(t, "t-1", tourID)
			assert.Equal(t, "Trilha do Pico", payload.Title)
			assert.Equal(t, int64(15900), payload.PriceCents)
			tour := sampleTour(tourID, payload.Active)
			tour.PriceCents = payload.PriceCents
			return &tour, nil
		},
	}
	service := NewService(api, toast.NewQueue(time.Minute))

	form := TourForm{Title: "  Trilha do Pico ", PriceCents: 15900, Active: true}
	vm, err := service.Update(context.Background(), "token", "sess-1", "t-1", form)
	require.NoError(t, err)
	assert.Equal(t, "R$ 159,00", vm.Price)
}
