package splits

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitStatusBadge(t *testing.T) {
	tests := []struct {
		status string
		want   BadgeConfig
	}{
		{"READY_TO_PAY", BadgeConfig{Label: "Pronto para Pagar", Bg: "bg-blue-100", Text: "text-blue-800"}},
		{"ready", BadgeConfig{Label: "Pronto para Pagar", Bg: "bg-blue-100", Text: "text-blue-800"}},
		{"PAID", BadgeConfig{Label: "Pago", Bg: "bg-green-100", Text: "text-green-800"}},
		{"paid_out", BadgeConfig{Label: "Pago", Bg: "bg-green-100", Text: "text-green-800"}},
		{"FAILED", BadgeConfig{Label: "Falhou", Bg: "bg-red-100", Text: "text-red-800"}},
		{"CREATED", BadgeConfig{Label: "Criado", Bg: "bg-yellow-100", Text: "text-yellow-800"}},
		{"WAITING_FUNDS", BadgeConfig{Label: "Criado", Bg: "bg-yellow-100", Text: "text-yellow-800"}},
		// anything unrecognized keeps the raw status on a gray badge
		{"PENDING_EVENT", BadgeConfig{Label: "PENDING_EVENT", Bg: "bg-gray-100", Text: "text-gray-800"}},
		{"SOME_FUTURE_STATUS", BadgeConfig{Label: "SOME_FUTURE_STATUS", Bg: "bg-gray-100", Text: "text-gray-800"}},
		{"", BadgeConfig{Label: "", Bg: "bg-gray-100", Text: "text-gray-800"}},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitStatusBadge(tt.status))
		})
	}
}

func TestPayoutStatusBadge(t *testing.T) {
	tests := []struct {
		status string
		want   BadgeConfig
	}{
		{"PROCESSING", BadgeConfig{Label: "Processado", Bg: "bg-green-100", Text: "text-green-800"}},
		{"REQUESTED", BadgeConfig{Label: "Solicitado", Bg: "bg-yellow-100", Text: "text-yellow-800"}},
		{"PENDING", BadgeConfig{Label: "Solicitado", Bg: "bg-yellow-100", Text: "text-yellow-800"}},
		{"FAILED", BadgeConfig{Label: "Falhou", Bg: "bg-red-100", Text: "text-red-800"}},
		{"SUCCEEDED", BadgeConfig{Label: "SUCCEEDED", Bg: "bg-gray-100", Text: "text-gray-800"}},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			assert.Equal(t, tt.want, PayoutStatusBadge(tt.status))
		})
	}
}

func TestProviderBadge(t *testing.T) {
	assert.Equal(t, BadgeConfig{Label: "PAGARME", Bg: "bg-purple-100", Text: "text-purple-800"}, ProviderBadge("PAGARME"))
	assert.Equal(t, BadgeConfig{Label: "ABACATEPAY", Bg: "bg-blue-100", Text: "text-blue-800"}, ProviderBadge("ABACATEPAY"))
	assert.Equal(t, BadgeConfig{Label: "STRIPE", Bg: "bg-gray-100", Text: "text-gray-800"}, ProviderBadge("STRIPE"))
}
