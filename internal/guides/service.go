package guides

import (
	"context"
	"fmt"

	"github.com/rafaelmedeirospb83/guimaps-admin/internal/splits"
	"github.com/rafaelmedeirospb83/guimaps-admin/internal/upstream"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/common"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/i18n"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/pagination"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/toast"
)

// GuideRow is one guide account line in the admin table
type GuideRow struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Email         string             `json:"email"`
	Phone         *string            `json:"phone"`
	City          *string            `json:"city"`
	Approved      bool               `json:"approved"`
	ApprovalBadge splits.BadgeConfig `json:"approval_badge"`
	ToursCount    int                `json:"tours_count"`
	Rating        string             `json:"rating"`
	HasPixKey     bool               `json:"has_pix_key"`
	HasRecipient  bool               `json:"has_recipient"`
	CreatedAt     string             `json:"created_at"`
}

// GuideListVM is the guide page
type GuideListVM struct {
	Rows    []GuideRow `json:"rows"`
	Limit   int        `json:"limit"`
	Offset  int        `json:"offset"`
	HasNext bool       `json:"has_next"`
}

// ApprovalRequest toggles a guide's approval
type ApprovalRequest struct {
	Approved *bool `json:"approved" binding:"required"`
}

// ResetPasswordRequest is optional; an empty password asks the core API to
// generate one
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"omitempty,min=8"`
}

// ResetPasswordVM carries the generated password back to the operator exactly
// once; it is never stored
type ResetPasswordVM struct {
	GeneratedPassword *string `json:"generated_password"`
	Message           string  `json:"message"`
}

func approvalBadge(approved bool) splits.BadgeConfig {
	if approved {
		return splits.BadgeConfig{Label: "Aprovado", Bg: "bg-green-100", Text: "text-green-800"}
	}
	return splits.BadgeConfig{Label: "Pendente", Bg: "bg-yellow-100", Text: "text-yellow-800"}
}

func formatRating(avg *float64) string {
	if avg == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *avg)
}

type coreAPI interface {
	ListGuides(ctx context.Context, token string, filter upstream.GuideListFilter, p pagination.Params) ([]upstream.Guide, error)
	GetGuide(ctx context.Context, token, guideID string) (*upstream.Guide, error)
	SetGuideApproval(ctx context.Context, token, guideID string, approved bool) (*upstream.Guide, error)
	ResetGuidePassword(ctx context.Context, token, guideID, newPassword string) (*upstream.ResetPasswordResponse, error)
}

// Service builds the admin guide views
type Service struct {
	api    coreAPI
	toasts *toast.Queue
}

// NewService builds the guides service
func NewService(api coreAPI, toasts *toast.Queue) *Service {
	return &Service{api: api, toasts: toasts}
}

func newRow(g upstream.Guide) GuideRow {
	return GuideRow{
		ID:            g.ID,
		Name:          g.Name,
		Email:         g.Email,
		Phone:         g.Phone,
		City:          g.City,
		Approved:      g.Approved,
		ApprovalBadge: approvalBadge(g.Approved),
		ToursCount:    g.ToursCount,
		Rating:        formatRating(g.RatingAvg),
		HasPixKey:     g.PixKey != nil && *g.PixKey != "",
		HasRecipient:  g.RecipientID != nil && *g.RecipientID != "",
		CreatedAt:     i18n.FormatDateTimeValue(g.CreatedAt),
	}
}

// List returns one guide page
func (s *Service) List(ctx context.Context, token string, filter upstream.GuideListFilter, p pagination.Params) (*GuideListVM, error) {
	guides, err := s.api.ListGuides(ctx, token, filter, p)
	if err != nil {
		return nil, err
	}

	rows := make([]GuideRow, 0, len(guides))
	for _, g := range guides {
		rows = append(rows, newRow(g))
	}
	return &GuideListVM{Rows: rows, Limit: p.Limit, Offset: p.Offset, HasNext: p.HasNext(len(guides))}, nil
}

// Get returns one guide account
func (s *Service) Get(ctx context.Context, token, guideID string) (*GuideRow, error) {
	guide, err := s.api.GetGuide(ctx, token, guideID)
	if err != nil {
		return nil, err
	}
	row := newRow(*guide)
	return &row, nil
}

// SetApproval toggles a guide's approval flag
func (s *Service) SetApproval(ctx context.Context, token, sessionID, guideID string, approved bool) (*GuideRow, error) {
	guide, err := s.api.SetGuideApproval(ctx, token, guideID, approved)
	if err != nil {
		s.publishFailure(sessionID, err, "erro ao atualizar aprovação do guia")
		return nil, err
	}

	message := "Guia aprovado"
	if !approved {
		message = "Aprovação do guia revogada"
	}
	s.toasts.Publish(sessionID, message, toast.SeveritySuccess)

	row := newRow(*guide)
	return &row, nil
}

// ResetPassword resets a guide's password. The generated password, when the
// core API produced one, is surfaced in the response only.
func (s *Service) ResetPassword(ctx context.Context, token, sessionID, guideID, newPassword string) (*ResetPasswordVM, error) {
	resp, err := s.api.ResetGuidePassword(ctx, token, guideID, newPassword)
	if err != nil {
		s.publishFailure(sessionID, err, "erro ao redefinir senha do guia")
		return nil, err
	}

	s.toasts.Publish(sessionID, "Senha redefinida", toast.SeveritySuccess)
	return &ResetPasswordVM{GeneratedPassword: resp.GeneratedPassword, Message: resp.Message}, nil
}

func (s *Service) publishFailure(sessionID string, err error, fallback string) {
	message := fallback
	if appErr, ok := common.AsAppError(err); ok {
		message = appErr.Message
	}
	s.toasts.Publish(sessionID, message, toast.SeverityError)
}
