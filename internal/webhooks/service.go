package webhooks

import (
	"context"
	"strings"

	"github.com/rafaelmedeirospb83/guimaps-admin/internal/splits"
	"github.com/rafaelmedeirospb83/guimaps-admin/internal/upstream"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/common"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/i18n"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/pagination"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/toast"
)

// WebhookRow is one failed webhook in the table
type WebhookRow struct {
	ID            string             `json:"id"`
	Provider      splits.BadgeConfig `json:"provider"`
	EventType     string             `json:"event_type"`
	ProcessStatus string             `json:"process_status"`
	StatusBadge   splits.BadgeConfig `json:"status_badge"`
	FailureReason *string            `json:"failure_reason"`
	Attempts      int                `json:"attempts"`
	ReceivedAt    string             `json:"received_at"`
	LastTriedAt   string             `json:"last_tried_at"`
}

// WebhookListVM is the failed-webhook page
type WebhookListVM struct {
	Rows    []WebhookRow `json:"rows"`
	Limit   int          `json:"limit"`
	Offset  int          `json:"offset"`
	HasNext bool         `json:"has_next"`
}

// ReprocessVM acknowledges a reprocess request
type ReprocessVM struct {
	Accepted bool   `json:"accepted"`
	Message  string `json:"message"`
}

// processStatusBadge maps webhook process statuses; same substring rules as
// the payment badges, with PROCESSED reading as done
func processStatusBadge(status string) splits.BadgeConfig {
	s := strings.ToLower(status)
	switch {
	case strings.Contains(s, "processed"):
		return splits.BadgeConfig{Label: "Processado", Bg: "bg-green-100", Text: "text-green-800"}
	case strings.Contains(s, "processing") || strings.Contains(s, "pending"):
		return splits.BadgeConfig{Label: "Pendente", Bg: "bg-yellow-100", Text: "text-yellow-800"}
	case strings.Contains(s, "fail"):
		return splits.BadgeConfig{Label: "Falhou", Bg: "bg-red-100", Text: "text-red-800"}
	default:
		return splits.BadgeConfig{Label: status, Bg: "bg-gray-100", Text: "text-gray-800"}
	}
}

type coreAPI interface {
	ListFailedWebhooks(ctx context.Context, token string, p pagination.Params) ([]upstream.FailedWebhook, error)
	ReprocessWebhook(ctx context.Context, token, webhookID string) (*upstream.ReprocessWebhookResponse, error)
}

// Service builds the failed-webhook views and mediates reprocessing
type Service struct {
	api    coreAPI
	toasts *toast.Queue
}

// NewService builds the webhooks service
func NewService(api coreAPI, toasts *toast.Queue) *Service {
	return &Service{api: api, toasts: toasts}
}

// List returns one page of failed webhooks
func (s *Service) List(ctx context.Context, token string, p pagination.Params) (*WebhookListVM, error) {
	hooks, err := s.api.ListFailedWebhooks(ctx, token, p)
	if err != nil {
		return nil, err
	}

	rows := make([]WebhookRow, 0, len(hooks))
	for _, hook := range hooks {
		rows = append(rows, WebhookRow{
			ID:            hook.ID,
			Provider:      splits.ProviderBadge(hook.ProviderCode),
			EventType:     hook.EventType,
			ProcessStatus: hook.ProcessStatus,
			StatusBadge:   processStatusBadge(hook.ProcessStatus),
			FailureReason: hook.FailureReason,
			Attempts:      hook.Attempts,
			ReceivedAt:    i18n.FormatDateTime(&hook.ReceivedAt),
			LastTriedAt:   i18n.FormatDateTime(hook.LastTriedAt),
		})
	}

	return &WebhookListVM{
		Rows:    rows,
		Limit:   p.Limit,
		Offset:  p.Offset,
		HasNext: p.HasNext(len(hooks)),
	}, nil
}

// Reprocess replays one failed webhook. Both acknowledgement envelopes the
// core API uses count as accepted; anything else reads as a refusal.
func (s *Service) Reprocess(ctx context.Context, token, sessionID, webhookID string) (*ReprocessVM, error) {
	resp, err := s.api.ReprocessWebhook(ctx, token, webhookID)
	if err != nil {
		message := "erro ao reprocessar webhook"
		if appErr, ok := common.AsAppError(err); ok {
			message = appErr.Message
		}
		s.toasts.Publish(sessionID, message, toast.SeverityError)
		return nil, err
	}

	if !resp.Accepted() {
		err := common.NewApplicationError("reprocessamento não foi aceito pelo serviço", nil)
		s.toasts.Publish(sessionID, err.Message, toast.SeverityError)
		return nil, err
	}

	s.toasts.Publish(sessionID, "Webhook reenviado para processamento", toast.SeveritySuccess)
	return &ReprocessVM{Accepted: true, Message: resp.Message}, nil
}
