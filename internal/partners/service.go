package partners

import (
	"context"
	"strings"

	"github.com/rafaelmedeirospb83/guimaps-admin/internal/splits"
	"github.com/rafaelmedeirospb83/guimaps-admin/internal/upstream"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/common"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/i18n"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/pagination"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/toast"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/validation"
)

// PartnerRow is one agency line in the admin table
type PartnerRow struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Email         string             `json:"email"`
	Phone         *string            `json:"phone"`
	City          *string            `json:"city"`
	Document      *string            `json:"document"`
	Approved      bool               `json:"approved"`
	ApprovalBadge splits.BadgeConfig `json:"approval_badge"`
	HasAffiliate  bool               `json:"has_affiliate"`
	HasRecipient  bool               `json:"has_recipient"`
	CreatedAt     string             `json:"created_at"`
}

// PartnerListVM is the partner page
type PartnerListVM struct {
	Rows    []PartnerRow `json:"rows"`
	Limit   int          `json:"limit"`
	Offset  int          `json:"offset"`
	HasNext bool         `json:"has_next"`
}

// PartnerForm carries partner fields for create and update
type PartnerForm struct {
	Name     string  `json:"name" validate:"required,min=2"`
	Email    string  `json:"email" validate:"required,email"`
	Phone    *string `json:"phone"`
	City     *string `json:"city"`
	Document *string `json:"document"`
}

// ApprovalRequest toggles a partner's approval
type ApprovalRequest struct {
	Approved *bool `json:"approved" binding:"required"`
}

func approvalBadge(approved bool) splits.BadgeConfig {
	if approved {
		return splits.BadgeConfig{Label: "Aprovado", Bg: "bg-green-100", Text: "text-green-800"}
	}
	return splits.BadgeConfig{Label: "Pendente", Bg: "bg-yellow-100", Text: "text-yellow-800"}
}

type coreAPI interface {
	ListPartners(ctx context.Context, token string, filter upstream.PartnerListFilter, p pagination.Params) ([]upstream.Partner, error)
	GetPartner(ctx context.Context, token, partnerID string) (*upstream.Partner, error)
	CreatePartner(ctx context.Context, token string, payload upstream.PartnerPayload) (*upstream.Partner, error)
	UpdatePartner(ctx context.Context, token, partnerID string, payload upstream.PartnerPayload) (*upstream.Partner, error)
	SetPartnerApproval(ctx context.Context, token, partnerID string, approved bool) (*upstream.Partner, error)
}

// Service builds the admin partner views
type Service struct {
	api    coreAPI
	toasts *toast.Queue
}

// NewService builds the partners service
func NewService(api coreAPI, toasts *toast.Queue) *Service {
	return &Service{api: api, toasts: toasts}
}

func newRow(p upstream.Partner) PartnerRow {
	return PartnerRow{
		ID:            p.ID,
		Name:          p.Name,
		Email:         p.Email,
		Phone:         p.Phone,
		City:          p.City,
		Document:      p.Document,
		Approved:      p.Approved,
		ApprovalBadge: approvalBadge(p.Approved),
		HasAffiliate:  p.HasAffiliate,
		HasRecipient:  p.RecipientID != nil && *p.RecipientID != "",
		CreatedAt:     i18n.FormatDateTimeValue(p.CreatedAt),
	}
}

// normalized trims the free-text fields so validation sees what the upstream
// will receive. A name of spaces must fail min=2, not pass it.
func (f PartnerForm) normalized() PartnerForm {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	return f
}

func (f PartnerForm) payload() upstream.PartnerPayload {
	return upstream.PartnerPayload{
		Name:     f.Name,
		Email:    f.Email,
		Phone:    f.Phone,
		City:     f.City,
		Document: f.Document,
	}
}

// List returns one partner page
func (s *Service) List(ctx context.Context, token string, filter upstream.PartnerListFilter, p pagination.Params) (*PartnerListVM, error) {
	partners, err := s.api.ListPartners(ctx, token, filter, p)
	if err != nil {
		return nil, err
	}

	rows := make([]PartnerRow, 0, len(partners))
	for _, partner := range partners {
		rows = append(rows, newRow(partner))
	}
	return &PartnerListVM{Rows: rows, Limit: p.Limit, Offset: p.Offset, HasNext: p.HasNext(len(partners))}, nil
}

// Get returns one partner account
func (s *Service) Get(ctx context.Context, token, partnerID string) (*PartnerRow, error) {
	partner, err := s.api.GetPartner(ctx, token, partnerID)
	if err != nil {
		return nil, err
	}
	row := newRow(*partner)
	return &row, nil
}

// Create registers a partner account after local validation
func (s *Service) Create(ctx context.Context, token, sessionID string, form PartnerForm) (*PartnerRow, error) {
	form = form.normalized()
	if err := validation.ValidateStruct(form); err != nil {
		return nil, common.NewValidationError("dados do parceiro inválidos", err)
	}

	partner, err := s.api.CreatePartner(ctx, token, form.payload())
	if err != nil {
		s.publishFailure(sessionID, err, "erro ao cadastrar parceiro")
		return nil, err
	}

	s.toasts.Publish(sessionID, "Parceiro cadastrado", toast.SeveritySuccess)
	row := newRow(*partner)
	return &row, nil
}

// Update edits a partner account after local validation
func (s *Service) Update(ctx context.Context, token, sessionID, partnerID string, form PartnerForm) (*PartnerRow, error) {
	form = form.normalized()
	if err := validation.ValidateStruct(form); err != nil {
		return nil, common.NewValidationError("dados do parceiro inválidos", err)
	}

	partner, err := s.api.UpdatePartner(ctx, token, partnerID, form.payload())
	if err != nil {
		s.publishFailure(sessionID, err, "erro ao atualizar parceiro")
		return nil, err
	}

	s.toasts.Publish(sessionID, "Parceiro atualizado", toast.SeveritySuccess)
	row := newRow(*partner)
	return &row, nil
}

// SetApproval toggles a partner's approval flag
func (s *Service) SetApproval(ctx context.Context, token, sessionID, partnerID string, approved bool) (*PartnerRow, error) {
	partner, err := s.api.SetPartnerApproval(ctx, token, partnerID, approved)
	if err != nil {
		s.publishFailure(sessionID, err, "erro ao atualizar aprovação do parceiro")
		return nil, err
	}

	message := "Parceiro aprovado"
	if !approved {
		message = "Aprovação do parceiro revogada"
	}
	s.toasts.Publish(sessionID, message, toast.SeveritySuccess)

	row := newRow(*partner)
	return &row, nil
}

func (s *Service) publishFailure(sessionID string, err error, fallback string) {
	message := fallback
	if appErr, ok := common.AsAppError(err); ok {
		message = appErr.Message
	}
	s.toasts.Publish(sessionID, message, toast.SeverityError)
}
