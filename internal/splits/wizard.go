package splits

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/google/uuid"

	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/common"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/redis"
)

const (
	draftKeyPrefix = "payout:draft:"
	draftTTL       = 30 * time.Minute
	lockKeyPrefix  = "payout:lock:"
	lockTTL        = 30 * time.Second
)

// PayoutDraft is the server-held state of the two-step payout flow, keyed by
// (session, split) so two operators never share a draft
type PayoutDraft struct {
	ID                    string    `json:"id"`
	SessionID             string    `json:"session_id"`
	SplitID               string    `json:"split_id"`
	AmountCents           *int64    `json:"amount_cents"`
	DestinationOverrideID *string   `json:"destination_override_id"`
	Notes                 *string   `json:"notes"`
	ResolvedAmountCents   int64     `json:"resolved_amount_cents"`
	CreatedAt             time.Time `json:"created_at"`
}

// DraftStore keeps payout drafts and the per-draft in-flight locks in redis
type DraftStore struct {
	redis *redis.Client
}

// NewDraftStore builds the draft store
func NewDraftStore(redisClient *redis.Client) *DraftStore {
	return &DraftStore{redis: redisClient}
}

func draftKey(sessionID, splitID string) string {
	return draftKeyPrefix + sessionID + ":" + splitID
}

// Open creates a draft for (session, split), replacing any previous one
func (d *DraftStore) Open(ctx context.Context, sessionID, splitID string, req PayoutDraftRequest, resolvedAmountCents int64) (*PayoutDraft, error) {
	draft := &PayoutDraft{
		ID:                    uuid.New().String(),
		SessionID:             sessionID,
		SplitID:               splitID,
		AmountCents:           req.AmountCents,
		DestinationOverrideID: req.DestinationOverrideID,
		Notes:                 req.Notes,
		ResolvedAmountCents:   resolvedAmountCents,
		CreatedAt:             time.Now().UTC(),
	}
	if err := d.save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// Update rewrites the draft's fields while keeping its identity, so going back
// a step never discards the operator's input
func (d *DraftStore) Update(ctx context.Context, draft *PayoutDraft, req PayoutDraftRequest, resolvedAmountCents int64) error {
	draft.AmountCents = req.AmountCents
	draft.DestinationOverrideID = req.DestinationOverrideID
	draft.Notes = req.Notes
	draft.ResolvedAmountCents = resolvedAmountCents
	return d.save(ctx, draft)
}

func (d *DraftStore) save(ctx context.Context, draft *PayoutDraft) error {
	payload, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	return d.redis.SetWithExpiration(ctx, draftKey(draft.SessionID, draft.SplitID), payload, draftTTL)
}

// Get loads the session's draft for a split
func (d *DraftStore) Get(ctx context.Context, sessionID, splitID string) (*PayoutDraft, error) {
	raw, err := d.redis.GetString(ctx, draftKey(sessionID, splitID))
	if err == goredis.Nil {
		return nil, common.NewNotFoundError("nenhum rascunho de pagamento aberto para este split")
	}
	if err != nil {
		return nil, fmt.Errorf("load draft: %w", err)
	}

	var draft PayoutDraft
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		return nil, common.NewNotFoundError("nenhum rascunho de pagamento aberto para este split")
	}
	return &draft, nil
}

// Discard abandons the draft
func (d *DraftStore) Discard(ctx context.Context, sessionID, splitID string) error {
	return d.redis.Delete(ctx, draftKey(sessionID, splitID))
}

// TryLock takes the single-flight lock for a draft confirmation. While held,
// a second confirm for the same draft is refused instead of double-firing.
func (d *DraftStore) TryLock(ctx context.Context, draftID string) (bool, error) {
	return d.redis.AcquireLock(ctx, lockKeyPrefix+draftID, lockTTL)
}

// Unlock releases the confirmation lock
func (d *DraftStore) Unlock(ctx context.Context, draftID string) {
	_ = d.redis.ReleaseLock(ctx, lockKeyPrefix+draftID)
}
