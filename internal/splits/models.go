package splits

import (
	"strings"

	"github.com/rafaelmedeirospb83/guimaps-admin/internal/upstream"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/i18n"
)

// recipientTypeLabels localize the recipient type for display
var recipientTypeLabels = map[string]string{
	upstream.RecipientGuideUser: "Guia",
	upstream.RecipientPartner:   "Parceiro",
	upstream.RecipientPlatform:  "Plataforma",
}

// RecipientTypeLabel localizes a recipient type, falling back to the raw value
func RecipientTypeLabel(recipientType string) string {
	if label, ok := recipientTypeLabels[recipientType]; ok {
		return label
	}
	return recipientType
}

// truncateID shortens an opaque id for table display
func truncateID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8] + "…"
}

// Money pairs raw cents with the pt-BR display string. The dashboard renders
// Formatted and never recomputes amounts.
type Money struct {
	Cents     int64  `json:"cents"`
	Formatted string `json:"formatted"`
}

func money(cents int64) Money {
	return Money{Cents: cents, Formatted: i18n.FormatMoneyFromCents(cents)}
}

// Recipient is the display block identifying who a split pays
type Recipient struct {
	Type        string  `json:"type"`
	TypeLabel   string  `json:"type_label"`
	ID          *string `json:"id"`
	IDShort     *string `json:"id_short"`
	DisplayName *string `json:"display_name"`
}

func recipientFor(split *upstream.PaymentSplit, displayName *string) Recipient {
	r := Recipient{
		Type:        split.RecipientType,
		TypeLabel:   RecipientTypeLabel(split.RecipientType),
		DisplayName: displayName,
	}
	id := split.GuideUserID
	if split.RecipientType == upstream.RecipientPartner {
		id = split.PartnerID
	}
	if id != nil {
		short := truncateID(*id)
		r.ID = id
		r.IDShort = &short
	}
	return r
}

// SplitRow is one line of the split ledger table
type SplitRow struct {
	ID              string      `json:"id"`
	BookingID       string      `json:"booking_id"`
	BookingIDShort  string      `json:"booking_id_short"`
	PaymentID       string      `json:"payment_id"`
	Provider        BadgeConfig `json:"provider"`
	GrossAmount     Money       `json:"gross_amount"`
	PlatformFee     Money       `json:"platform_fee"`
	RecipientAmount Money       `json:"recipient_amount"`
	Recipient       Recipient   `json:"recipient"`
	Status          string      `json:"status"`
	StatusBadge     BadgeConfig `json:"status_badge"`
	CreatedAt       string      `json:"created_at"`
	Actions         []Action    `json:"actions"`
}

func newSplitRow(split upstream.PaymentSplit) SplitRow {
	return SplitRow{
		ID:              split.ID,
		BookingID:       split.BookingID,
		BookingIDShort:  truncateID(split.BookingID),
		PaymentID:       split.PaymentID,
		Provider:        ProviderBadge(split.ProviderCode),
		GrossAmount:     money(split.GrossAmountCents),
		PlatformFee:     money(split.PlatformFeeCents),
		RecipientAmount: money(split.RecipientAmountCents),
		Recipient:       recipientFor(&split, nil),
		Status:          split.Status,
		StatusBadge:     SplitStatusBadge(split.Status),
		CreatedAt:       i18n.FormatDateTime(&split.CreatedAt),
		Actions:         ActionsFor(split.Status),
	}
}

// matchesQuery implements the free-text row filter over the ids the table shows
func matchesQuery(split upstream.PaymentSplit, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	candidates := []string{split.ID, split.BookingID, split.PaymentID}
	if split.PartnerID != nil {
		candidates = append(candidates, *split.PartnerID)
	}
	if split.GuideUserID != nil {
		candidates = append(candidates, *split.GuideUserID)
	}
	for _, c := range candidates {
		if strings.Contains(strings.ToLower(c), q) {
			return true
		}
	}
	return false
}

// SplitListVM is the ledger page the dashboard renders
type SplitListVM struct {
	Rows    []SplitRow `json:"rows"`
	Limit   int        `json:"limit"`
	Offset  int        `json:"offset"`
	HasNext bool       `json:"has_next"`
}

// PayoutRow is one payout attempt in the detail history
type PayoutRow struct {
	ID               string      `json:"id"`
	Provider         BadgeConfig `json:"provider"`
	ProviderPayoutID *string     `json:"provider_payout_id"`
	Amount           Money       `json:"amount"`
	Status           string      `json:"status"`
	StatusBadge      BadgeConfig `json:"status_badge"`
	ErrorMessage     *string     `json:"error_message"`
	RequestedAt      string      `json:"requested_at"`
	ProcessedAt      string      `json:"processed_at"`
	CanRetry         bool        `json:"can_retry"`
}

func newPayoutRow(attempt upstream.PayoutAttempt) PayoutRow {
	return PayoutRow{
		ID:               attempt.ID,
		Provider:         ProviderBadge(attempt.ProviderCode),
		ProviderPayoutID: attempt.ProviderPayoutID,
		Amount:           money(attempt.AmountCents),
		Status:           attempt.Status,
		StatusBadge:      PayoutStatusBadge(attempt.Status),
		ErrorMessage:     attempt.FailureReason,
		RequestedAt:      i18n.FormatDateTime(&attempt.RequestedAt),
		ProcessedAt:      i18n.FormatDateTime(attempt.ProcessedAt),
		CanRetry:         attempt.Status == upstream.PayoutStatusFailed || attempt.FailureReason != nil,
	}
}

// ErrorBanner is the persistent last-error block on the split detail
type ErrorBanner struct {
	Message                string `json:"message"`
	Code                   string `json:"code"`
	OccurredAt             string `json:"occurred_at"`
	ProviderCapabilityHint bool   `json:"provider_capability_hint"`
}

// SplitDetailVM is the drawer view the dashboard renders for one split
type SplitDetailVM struct {
	ID              string       `json:"id"`
	BookingID       string       `json:"booking_id"`
	BookingTitle    *string      `json:"booking_title"`
	PaymentID       string       `json:"payment_id"`
	Provider        BadgeConfig  `json:"provider"`
	GrossAmount     Money        `json:"gross_amount"`
	PlatformFee     Money        `json:"platform_fee"`
	RecipientAmount Money        `json:"recipient_amount"`
	Recipient       Recipient    `json:"recipient"`
	Status          string       `json:"status"`
	StatusBadge     BadgeConfig  `json:"status_badge"`
	BookingStatus   *BadgeConfig `json:"booking_status"`
	PaymentStatus   *BadgeConfig `json:"payment_status"`
	CreatedAt       string       `json:"created_at"`
	UpdatedAt       string       `json:"updated_at"`
	Actions         []Action     `json:"actions"`
	PayoutHistory   []PayoutRow  `json:"payout_history"`
	Banner          *ErrorBanner `json:"banner"`
}

// PayoutDraftRequest opens or updates a payout draft. Nil amount means "pay
// the split's recipient amount".
type PayoutDraftRequest struct {
	AmountCents           *int64  `json:"amount_cents" binding:"omitempty,gt=0"`
	DestinationOverrideID *string `json:"destination_override_id"`
	Notes                 *string `json:"notes"`
}

// PayoutRecapVM is the confirmation step the operator reviews before the
// money moves
type PayoutRecapVM struct {
	DraftID               string      `json:"draft_id"`
	SplitID               string      `json:"split_id"`
	Amount                Money       `json:"amount"`
	AmountIsOverride      bool        `json:"amount_is_override"`
	DestinationOverrideID *string     `json:"destination_override_id"`
	Notes                 *string     `json:"notes"`
	Recipient             Recipient   `json:"recipient"`
	Provider              BadgeConfig `json:"provider"`
}

// PayoutResultVM reports a confirmed payout
type PayoutResultVM struct {
	PayoutID    string      `json:"payout_id"`
	Status      string      `json:"status"`
	StatusBadge BadgeConfig `json:"status_badge"`
	Message     string      `json:"message"`
}
