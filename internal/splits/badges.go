package splits

import "strings"

// BadgeConfig is what the dashboard needs to paint a status badge
type BadgeConfig struct {
	Label string `json:"label"`
	Bg    string `json:"bg"`
	Text  string `json:"text"`
}

// SplitStatusBadge maps a split status to its badge. Matching is by lowercase
// substring so provider variants ("ready_to_pay", "READY") resolve the same
// way; anything unrecognized falls back to a gray badge carrying the raw
// status, never an error.
func SplitStatusBadge(status string) BadgeConfig {
	s := strings.ToLower(status)
	switch {
	case strings.Contains(s, "ready"):
		return BadgeConfig{Label: "Pronto para Pagar", Bg: "bg-blue-100", Text: "text-blue-800"}
	case strings.Contains(s, "paid"):
		return BadgeConfig{Label: "Pago", Bg: "bg-green-100", Text: "text-green-800"}
	case strings.Contains(s, "fail"):
		return BadgeConfig{Label: "Falhou", Bg: "bg-red-100", Text: "text-red-800"}
	case strings.Contains(s, "created") || strings.Contains(s, "waiting"):
		return BadgeConfig{Label: "Criado", Bg: "bg-yellow-100", Text: "text-yellow-800"}
	default:
		return BadgeConfig{Label: status, Bg: "bg-gray-100", Text: "text-gray-800"}
	}
}

// PayoutStatusBadge maps a payout attempt status to its badge
func PayoutStatusBadge(status string) BadgeConfig {
	s := strings.ToLower(status)
	switch {
	case strings.Contains(s, "process") && !strings.Contains(s, "failed"):
		return BadgeConfig{Label: "Processado", Bg: "bg-green-100", Text: "text-green-800"}
	case strings.Contains(s, "request") || strings.Contains(s, "pending"):
		return BadgeConfig{Label: "Solicitado", Bg: "bg-yellow-100", Text: "text-yellow-800"}
	case strings.Contains(s, "fail"):
		return BadgeConfig{Label: "Falhou", Bg: "bg-red-100", Text: "text-red-800"}
	default:
		return BadgeConfig{Label: status, Bg: "bg-gray-100", Text: "text-gray-800"}
	}
}

// ProviderBadge maps a payment provider code to its badge colors; the label is
// always the raw code
func ProviderBadge(providerCode string) BadgeConfig {
	s := strings.ToLower(providerCode)
	switch {
	case strings.Contains(s, "pagarme"):
		return BadgeConfig{Label: providerCode, Bg: "bg-purple-100", Text: "text-purple-800"}
	case strings.Contains(s, "abacate"):
		return BadgeConfig{Label: providerCode, Bg: "bg-blue-100", Text: "text-blue-800"}
	default:
		return BadgeConfig{Label: providerCode, Bg: "bg-gray-100", Text: "text-gray-800"}
	}
}
