package tours

import (
	"context"
	"sort"
	"strings"

	"github.com/rafaelmedeirospb83/guimaps-admin/internal/splits"
	"github.com/rafaelmedeirospb83/guimaps-admin/internal/upstream"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/common"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/i18n"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/pagination"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/toast"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/validation"
)

// TourRow is one tour listing line in the admin table
type TourRow struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	City        *string            `json:"city"`
	PartnerID   *string            `json:"partner_id"`
	GuideUserID *string            `json:"guide_user_id"`
	Price       string             `json:"price"`
	Active      bool               `json:"active"`
	StatusBadge splits.BadgeConfig `json:"status_badge"`
	CreatedAt   string             `json:"created_at"`
}

// TourListVM is the tour page
type TourListVM struct {
	Rows    []TourRow `json:"rows"`
	Limit   int       `json:"limit"`
	Offset  int       `json:"offset"`
	HasNext bool      `json:"has_next"`
}

// TourPhotoVM is one gallery image, ordered by position
type TourPhotoVM struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	Position int    `json:"position"`
}

// TourDetailVM is the tour detail page with its photo gallery
type TourDetailVM struct {
	TourRow
	Photos []TourPhotoVM `json:"photos"`
}

// TourCategoryVM is one category option for the tour form selects
type TourCategoryVM struct {
	ID           string  `json:"id"`
	Slug         string  `json:"slug"`
	Name         string  `json:"name"`
	ParentID     *string `json:"parent_id"`
	Icon         *string `json:"icon"`
	DisplayOrder int     `json:"display_order"`
}

// TourTagVM is one tag option, grouped under its tag group
type TourTagVM struct {
	ID    string  `json:"id"`
	Slug  string  `json:"slug"`
	Name  string  `json:"name"`
	Group *string `json:"group"`
}

// TaxonomyVM bundles the category tree and tag list for the tour form
type TaxonomyVM struct {
	Categories []TourCategoryVM `json:"categories"`
	Tags       []TourTagVM      `json:"tags"`
}

// TourVrMediaVM is one 360 asset ready for the viewer
type TourVrMediaVM struct {
	ID           string  `json:"id"`
	MediaType    string  `json:"media_type"`
	IsPrimary    bool    `json:"is_primary"`
	SignedURL    string  `json:"signed_url"`
	ExpiresIn    int     `json:"expires_in"`
	ThumbnailURL *string `json:"thumbnail_url"`
	PosterURL    *string `json:"poster_url"`
}

// TourForm carries tour fields for create and update
type TourForm struct {
	Title       string  `json:"title" validate:"required,min=3"`
	Description *string `json:"description"`
	City        *string `json:"city"`
	PartnerID   *string `json:"partner_id"`
	GuideUserID *string `json:"guide_user_id"`
	PriceCents  int64   `json:"price_cents" validate:"gt=0"`
	Active      bool    `json:"active"`
}

func activeBadge(active bool) splits.BadgeConfig {
	if active {
		return splits.BadgeConfig{Label: "Ativo", Bg: "bg-green-100", Text: "text-green-800"}
	}
	return splits.BadgeConfig{Label: "Inativo", Bg: "bg-gray-100", Text: "text-gray-800"}
}

type coreAPI interface {
	ListTours(ctx context.Context, token string, filter upstream.TourListFilter, p pagination.Params) ([]upstream.Tour, error)
	GetTour(ctx context.Context, token, tourID string) (*upstream.Tour, error)
	CreateTour(ctx context.Context, token string, payload upstream.TourPayload) (*upstream.Tour, error)
	UpdateTour(ctx context.Context, token, tourID string, payload upstream.TourPayload) (*upstream.Tour, error)
	DeleteTour(ctx context.Context, token, tourID string) error
	ListTourPhotos(ctx context.Context, token, tourID string) ([]upstream.TourPhoto, error)
	ListTourCategories(ctx context.Context, token string, includeInactive bool) ([]upstream.TourCategory, error)
	ListTourTags(ctx context.Context, token, group string, includeInactive bool) ([]upstream.TourTag, error)
	ListTourVrMedia(ctx context.Context, token, tourID string, filter upstream.VrMediaFilter) ([]upstream.TourVrMedia, error)
}

// Service builds the admin tour views
type Service struct {
	api    coreAPI
	toasts *toast.Queue
}

// NewService builds the tours service
func NewService(api coreAPI, toasts *toast.Queue) *Service {
	return &Service{api: api, toasts: toasts}
}

func newRow(t upstream.Tour) TourRow {
	return TourRow{
		ID:          t.ID,
		Title:       t.Title,
		City:        t.City,
		PartnerID:   t.PartnerID,
		GuideUserID: t.GuideUserID,
		Price:       i18n.FormatMoneyFromCents(t.PriceCents),
		Active:      t.Active,
		StatusBadge: activeBadge(t.Active),
		CreatedAt:   i18n.FormatDateTimeValue(t.CreatedAt),
	}
}

func (f TourForm) payload() upstream.TourPayload {
	return upstream.TourPayload{
		Title:       strings.TrimSpace(f.Title),
		Description: f.Description,
		City:        f.City,
		PartnerID:   f.PartnerID,
		GuideUserID: f.GuideUserID,
		PriceCents:  f.PriceCents,
		Active:      f.Active,
	}
}

// List returns one tour page
func (s *Service) List(ctx context.Context, token string, filter upstream.TourListFilter, p pagination.Params) (*TourListVM, error) {
	tours, err := s.api.ListTours(ctx, token, filter, p)
	if err != nil {
		return nil, err
	}

	rows := make([]TourRow, 0, len(tours))
	for _, tour := range tours {
		rows = append(rows, newRow(tour))
	}
	return &TourListVM{Rows: rows, Limit: p.Limit, Offset: p.Offset, HasNext: p.HasNext(len(tours))}, nil
}

// Get returns one tour with its photo gallery. A gallery fetch failure does
// not sink the detail; the page renders without photos.
func (s *Service) Get(ctx context.Context, token, tourID string) (*TourDetailVM, error) {
	tour, err := s.api.GetTour(ctx, token, tourID)
	if err != nil {
		return nil, err
	}

	vm := &TourDetailVM{TourRow: newRow(*tour), Photos: []TourPhotoVM{}}

	photos, err := s.api.ListTourPhotos(ctx, token, tourID)
	if err != nil {
		return vm, nil
	}
	sort.SliceStable(photos, func(i, j int) bool { return photos[i].Position < photos[j].Position })
	for _, photo := range photos {
		vm.Photos = append(vm.Photos, TourPhotoVM{ID: photo.ID, URL: photo.URL, Position: photo.Position})
	}
	return vm, nil
}

// Create registers a tour after local validation
func (s *Service) Create(ctx context.Context, token, sessionID string, form TourForm) (*TourRow, error) {
	if err := validation.ValidateStruct(form); err != nil {
		return nil, common.NewValidationError("dados do passeio inválidos", err)
	}

	tour, err := s.api.CreateTour(ctx, token, form.payload())
	if err != nil {
		s.publishFailure(sessionID, err, "erro ao cadastrar passeio")
		return nil, err
	}

	s.toasts.Publish(sessionID, "Passeio cadastrado", toast.SeveritySuccess)
	row := newRow(*tour)
	return &row, nil
}

// Update edits a tour after local validation
func (s *Service) Update(ctx context.Context, token, sessionID, tourID string, form TourForm) (*TourRow, error) {
	if err := validation.ValidateStruct(form); err != nil {
		return nil, common.NewValidationError("dados do passeio inválidos", err)
	}

	tour, err := s.api.UpdateTour(ctx, token, tourID, form.payload())
	if err != nil {
		s.publishFailure(sessionID, err, "erro ao atualizar passeio")
		return nil, err
	}

	s.toasts.Publish(sessionID, "Passeio atualizado", toast.SeveritySuccess)
	row := newRow(*tour)
	return &row, nil
}

// Delete removes a tour
func (s *Service) Delete(ctx context.Context, token, sessionID, tourID string) error {
	if err := s.api.DeleteTour(ctx, token, tourID); err != nil {
		s.publishFailure(sessionID, err, "erro ao excluir passeio")
		return err
	}

	s.toasts.Publish(sessionID, "Passeio excluído", toast.SeveritySuccess)
	return nil
}

// Taxonomy returns the category and tag options the tour form renders.
// Categories come back in display order; unordered ones sort by name.
func (s *Service) Taxonomy(ctx context.Context, token, tagGroup string, includeInactive bool) (*TaxonomyVM, error) {
	categories, err := s.api.ListTourCategories(ctx, token, includeInactive)
	if err != nil {
		return nil, err
	}
	tags, err := s.api.ListTourTags(ctx, token, tagGroup, includeInactive)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(categories, func(i, j int) bool {
		if categories[i].DisplayOrder != categories[j].DisplayOrder {
			return categories[i].DisplayOrder < categories[j].DisplayOrder
		}
		return categories[i].Name < categories[j].Name
	})

	vm := &TaxonomyVM{Categories: []TourCategoryVM{}, Tags: []TourTagVM{}}
	for _, c := range categories {
		vm.Categories = append(vm.Categories, TourCategoryVM{
			ID:           c.ID,
			Slug:         c.Slug,
			Name:         c.Name,
			ParentID:     c.ParentID,
			Icon:         c.Icon,
			DisplayOrder: c.DisplayOrder,
		})
	}
	for _, tag := range tags {
		vm.Tags = append(vm.Tags, TourTagVM{ID: tag.ID, Slug: tag.Slug, Name: tag.Name, Group: tag.Group})
	}
	return vm, nil
}

// VrMedia returns a tour's 360 assets, primary first
func (s *Service) VrMedia(ctx context.Context, token, tourID string, filter upstream.VrMediaFilter) ([]TourVrMediaVM, error) {
	media, err := s.api.ListTourVrMedia(ctx, token, tourID, filter)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(media, func(i, j int) bool { return media[i].IsPrimary && !media[j].IsPrimary })

	vms := make([]TourVrMediaVM, 0, len(media))
	for _, m := range media {
		vms = append(vms, TourVrMediaVM{
			ID:           m.ID,
			MediaType:    m.MediaType,
			IsPrimary:    m.IsPrimary,
			SignedURL:    m.SignedURL,
			ExpiresIn:    m.ExpiresIn,
			ThumbnailURL: m.ThumbnailURL,
			PosterURL:    m.PosterURL,
		})
	}
	return vms, nil
}

func (s *Service) publishFailure(sessionID string, err error, fallback string) {
	message := fallback
	if appErr, ok := common.AsAppError(err); ok {
		message = appErr.Message
	}
	s.toasts.Publish(sessionID, message, toast.SeverityError)
}
