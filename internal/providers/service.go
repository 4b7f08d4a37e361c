package providers

import (
	"context"

	"github.com/rafaelmedeirospb83/guimaps-admin/internal/splits"
	"github.com/rafaelmedeirospb83/guimaps-admin/internal/upstream"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/common"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/toast"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/validation"
)

// ConfigVM is the provider configuration card
type ConfigVM struct {
	PrimaryProvider    string             `json:"primary_provider"`
	PrimaryBadge       splits.BadgeConfig `json:"primary_badge"`
	CardProvider       string             `json:"card_provider"`
	PixProvider        string             `json:"pix_provider"`
	CardFallbackToPix  bool               `json:"card_fallback_to_pix"`
	PlatformFeePercent float64            `json:"platform_fee_percent"`
	UpdatedAt          *string            `json:"updated_at"`
	UpdatedBy          *string            `json:"updated_by"`
}

// UpdateConfigRequest is the config form payload. Provider fields accept the
// two live providers only; the fee is a percentage.
type UpdateConfigRequest struct {
	PrimaryProvider    string  `json:"primary_provider" validate:"required,oneof=PAGARME ABACATEPAY"`
	CardProvider       string  `json:"card_provider" validate:"required,oneof=PAGARME ABACATEPAY"`
	PixProvider        string  `json:"pix_provider" validate:"required,oneof=PAGARME ABACATEPAY"`
	CardFallbackToPix  bool    `json:"card_fallback_to_pix"`
	PlatformFeePercent float64 `json:"platform_fee_percent" validate:"gte=0,lte=100"`
}

type coreAPI interface {
	GetPaymentConfig(ctx context.Context, token string) (*upstream.PaymentConfig, error)
	UpdatePaymentConfig(ctx context.Context, token string, req upstream.UpdatePaymentConfigRequest) (*upstream.PaymentConfig, error)
}

// Service mediates the payment provider configuration
type Service struct {
	api    coreAPI
	toasts *toast.Queue
}

// NewService builds the providers service
func NewService(api coreAPI, toasts *toast.Queue) *Service {
	return &Service{api: api, toasts: toasts}
}

func buildConfigVM(cfg *upstream.PaymentConfig) *ConfigVM {
	return &ConfigVM{
		PrimaryProvider:    cfg.PrimaryProvider,
		PrimaryBadge:       splits.ProviderBadge(cfg.PrimaryProvider),
		CardProvider:       cfg.CardProvider,
		PixProvider:        cfg.PixProvider,
		CardFallbackToPix:  cfg.CardFallbackToPix,
		PlatformFeePercent: cfg.PlatformFeePercent,
		UpdatedAt:          cfg.UpdatedAt,
		UpdatedBy:          cfg.UpdatedBy,
	}
}

// Get returns the configuration card
func (s *Service) Get(ctx context.Context, token string) (*ConfigVM, error) {
	cfg, err := s.api.GetPaymentConfig(ctx, token)
	if err != nil {
		return nil, err
	}
	return buildConfigVM(cfg), nil
}

// Update validates and writes the configuration. A card fallback to pix only
// makes sense when the two routes use different providers.
func (s *Service) Update(ctx context.Context, token, sessionID string, req UpdateConfigRequest) (*ConfigVM, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, common.NewValidationError("configuração inválida", err)
	}
	if req.CardFallbackToPix && req.CardProvider == req.PixProvider {
		return nil, common.NewValidationError("fallback de cartão para pix exige provedores diferentes", nil)
	}

	cfg, err := s.api.UpdatePaymentConfig(ctx, token, upstream.UpdatePaymentConfigRequest{
		PrimaryProvider:    req.PrimaryProvider,
		CardProvider:       req.CardProvider,
		PixProvider:        req.PixProvider,
		CardFallbackToPix:  req.CardFallbackToPix,
		PlatformFeePercent: req.PlatformFeePercent,
	})
	if err != nil {
		message := "erro ao salvar configuração de pagamentos"
		if appErr, ok := common.AsAppError(err); ok {
			message = appErr.Message
		}
		s.toasts.Publish(sessionID, message, toast.SeverityError)
		return nil, err
	}

	s.toasts.Publish(sessionID, "Configuração de pagamentos salva", toast.SeveritySuccess)
	return buildConfigVM(cfg), nil
}
