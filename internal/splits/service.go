package splits

import (
	"context"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/rafaelmedeirospb83/guimaps-admin/internal/upstream"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/common"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/i18n"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/logger"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/pagination"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/querycache"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/toast"
)

// defaultListLimit is the split ledger page size
const defaultListLimit = 50

// Cache mutation names for the invalidation map
const (
	MutationMarkReady    = "split.mark_ready"
	MutationCreatePayout = "payout.create"
	MutationRetryPayout  = "payout.retry"
)

// Invalidations declares which cache keys each split mutation affects: the
// list prefix plus the one touched detail
func Invalidations() querycache.InvalidationMap {
	splitKeys := []querycache.Invalidation{
		{Prefix: "splits:list"},
		{Prefix: "splits:detail", WithID: true},
	}
	return querycache.InvalidationMap{
		MutationMarkReady:    splitKeys,
		MutationCreatePayout: splitKeys,
		MutationRetryPayout:  splitKeys,
	}
}

// coreAPI is the slice of the upstream client this service uses
type coreAPI interface {
	ListSplits(ctx context.Context, token string, filter upstream.SplitListFilter, p pagination.Params) ([]upstream.PaymentSplit, error)
	GetSplit(ctx context.Context, token, splitID string) (*upstream.PaymentSplitDetail, error)
	MarkSplitReady(ctx context.Context, token, splitID string) (*upstream.MarkReadyResponse, error)
	CreatePayout(ctx context.Context, token, splitID string, req upstream.CreatePayoutRequest, idempotencyKey string) (*upstream.CreatePayoutResponse, error)
	GetPayout(ctx context.Context, token, payoutID string) (*upstream.PayoutAttempt, error)
	RetryPayout(ctx context.Context, token, payoutID string) (*upstream.RetryPayoutResponse, error)
}

// viewCache is the slice of querycache.Cache the service uses
type viewCache interface {
	Get(ctx context.Context, key string, dest interface{}) bool
	Set(ctx context.Context, key string, value interface{})
	InvalidateFor(ctx context.Context, mutation, id string)
}

// bannerStore keeps the persistent last-error banner per split
type bannerStore interface {
	Record(ctx context.Context, splitID string, appErr *common.AppError)
	Get(ctx context.Context, splitID string) *ErrorBanner
	Clear(ctx context.Context, splitID string)
}

// draftStore holds the wizard drafts and the in-flight locks
type draftStore interface {
	Open(ctx context.Context, sessionID, splitID string, req PayoutDraftRequest, resolvedAmountCents int64) (*PayoutDraft, error)
	Update(ctx context.Context, draft *PayoutDraft, req PayoutDraftRequest, resolvedAmountCents int64) error
	Get(ctx context.Context, sessionID, splitID string) (*PayoutDraft, error)
	Discard(ctx context.Context, sessionID, splitID string) error
	TryLock(ctx context.Context, draftID string) (bool, error)
	Unlock(ctx context.Context, draftID string)
}

// Service builds the split view-models and runs the payout flow
type Service struct {
	api     coreAPI
	cache   viewCache
	banners bannerStore
	drafts  draftStore
	toasts  *toast.Queue
}

// NewService builds the splits service
func NewService(api coreAPI, cache viewCache, banners bannerStore, drafts draftStore, toasts *toast.Queue) *Service {
	return &Service{api: api, cache: cache, banners: banners, drafts: drafts, toasts: toasts}
}

// ListQuery are the ledger listing parameters
type ListQuery struct {
	Status string
	Query  string
	Page   pagination.Params
}

func listCacheKey(q ListQuery) string {
	return querycache.Key("splits", "list",
		q.Status, q.Query,
		strconv.Itoa(q.Page.Limit), strconv.Itoa(q.Page.Offset),
	)
}

// List returns one ledger page. The free-text query filters the fetched page
// against the ids the table shows.
func (s *Service) List(ctx context.Context, token string, q ListQuery) (*SplitListVM, error) {
	key := listCacheKey(q)
	var cached SplitListVM
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	filter := upstream.SplitListFilter{Status: q.Status}
	page, err := s.api.ListSplits(ctx, token, filter, q.Page)
	if err != nil {
		return nil, err
	}

	rows := make([]SplitRow, 0, len(page))
	for _, split := range page {
		if !matchesQuery(split, q.Query) {
			continue
		}
		rows = append(rows, newSplitRow(split))
	}

	vm := &SplitListVM{
		Rows:   rows,
		Limit:  q.Page.Limit,
		Offset: q.Page.Offset,
		// the heuristic reads the unfiltered page: a full page upstream means
		// there is probably more
		HasNext: q.Page.HasNext(len(page)),
	}
	s.cache.Set(ctx, key, vm)
	return vm, nil
}

func detailCacheKey(splitID string) string {
	return querycache.Key("splits", "detail", splitID)
}

// Detail returns the drawer view for one split. The banner is attached after
// the cache so a just-recorded error always shows.
func (s *Service) Detail(ctx context.Context, token, splitID string) (*SplitDetailVM, error) {
	key := detailCacheKey(splitID)

	var vm SplitDetailVM
	if !s.cache.Get(ctx, key, &vm) {
		detail, err := s.api.GetSplit(ctx, token, splitID)
		if err != nil {
			return nil, err
		}
		vm = buildDetailVM(detail)
		s.cache.Set(ctx, key, vm)
	}

	vm.Banner = s.banners.Get(ctx, splitID)
	return &vm, nil
}

func buildDetailVM(detail *upstream.PaymentSplitDetail) SplitDetailVM {
	displayName := detail.PartnerName
	if detail.RecipientType == upstream.RecipientGuideUser {
		displayName = detail.GuideName
	}

	// newest attempt first; old failures stay visible
	attempts := make([]upstream.PayoutAttempt, len(detail.PayoutHistory))
	copy(attempts, detail.PayoutHistory)
	sort.SliceStable(attempts, func(i, j int) bool {
		return attempts[i].RequestedAt.After(attempts[j].RequestedAt)
	})
	history := make([]PayoutRow, 0, len(attempts))
	for _, attempt := range attempts {
		history = append(history, newPayoutRow(attempt))
	}

	vm := SplitDetailVM{
		ID:              detail.ID,
		BookingID:       detail.BookingID,
		BookingTitle:    detail.BookingTitle,
		PaymentID:       detail.PaymentID,
		Provider:        ProviderBadge(detail.ProviderCode),
		GrossAmount:     money(detail.GrossAmountCents),
		PlatformFee:     money(detail.PlatformFeeCents),
		RecipientAmount: money(detail.RecipientAmountCents),
		Recipient:       recipientFor(&detail.PaymentSplit, displayName),
		Status:          detail.Status,
		StatusBadge:     SplitStatusBadge(detail.Status),
		CreatedAt:       i18n.FormatDateTime(&detail.CreatedAt),
		UpdatedAt:       i18n.FormatDateTime(detail.UpdatedAt),
		Actions:         ActionsFor(detail.Status),
		PayoutHistory:   history,
	}
	if detail.BookingStatus != nil {
		badge := SplitStatusBadge(*detail.BookingStatus)
		vm.BookingStatus = &badge
	}
	if detail.PaymentStatus != nil {
		badge := SplitStatusBadge(*detail.PaymentStatus)
		vm.PaymentStatus = &badge
	}
	return vm
}

// MarkReady forces a PENDING_EVENT split into READY_TO_PAY and returns the
// refetched detail, never an optimistic one
func (s *Service) MarkReady(ctx context.Context, token, sessionID, splitID string) (*SplitDetailVM, error) {
	if _, err := s.api.MarkSplitReady(ctx, token, splitID); err != nil {
		s.publishFailure(sessionID, err)
		return nil, err
	}

	s.cache.InvalidateFor(ctx, MutationMarkReady, splitID)
	s.toasts.Publish(sessionID, "Split marcado como READY_TO_PAY com sucesso", toast.SeveritySuccess)

	return s.Detail(ctx, token, splitID)
}

// OpenDraft starts the payout wizard for a split. Only a split that is live
// READY_TO_PAY can open a draft.
func (s *Service) OpenDraft(ctx context.Context, token, sessionID, splitID string, req PayoutDraftRequest) (*PayoutRecapVM, error) {
	detail, err := s.api.GetSplit(ctx, token, splitID)
	if err != nil {
		return nil, err
	}
	if !Allows(detail.Status, ActionCreatePayout) {
		return nil, common.NewConflictError("split não está pronto para pagamento")
	}

	resolved := detail.RecipientAmountCents
	if req.AmountCents != nil {
		resolved = *req.AmountCents
	}

	draft, err := s.drafts.Open(ctx, sessionID, splitID, req, resolved)
	if err != nil {
		return nil, common.NewTransportError("não foi possível abrir o rascunho de pagamento", err)
	}
	return s.recap(draft, detail), nil
}

// UpdateDraft rewrites the draft fields when the operator goes back a step
func (s *Service) UpdateDraft(ctx context.Context, token, sessionID, splitID string, req PayoutDraftRequest) (*PayoutRecapVM, error) {
	draft, err := s.drafts.Get(ctx, sessionID, splitID)
	if err != nil {
		return nil, err
	}
	detail, err := s.api.GetSplit(ctx, token, splitID)
	if err != nil {
		return nil, err
	}

	resolved := detail.RecipientAmountCents
	if req.AmountCents != nil {
		resolved = *req.AmountCents
	}
	if err := s.drafts.Update(ctx, draft, req, resolved); err != nil {
		return nil, common.NewTransportError("não foi possível atualizar o rascunho", err)
	}
	return s.recap(draft, detail), nil
}

// DiscardDraft abandons the wizard
func (s *Service) DiscardDraft(ctx context.Context, sessionID, splitID string) error {
	return s.drafts.Discard(ctx, sessionID, splitID)
}

func (s *Service) recap(draft *PayoutDraft, detail *upstream.PaymentSplitDetail) *PayoutRecapVM {
	displayName := detail.PartnerName
	if detail.RecipientType == upstream.RecipientGuideUser {
		displayName = detail.GuideName
	}
	return &PayoutRecapVM{
		DraftID:               draft.ID,
		SplitID:               draft.SplitID,
		Amount:                money(draft.ResolvedAmountCents),
		AmountIsOverride:      draft.AmountCents != nil,
		DestinationOverrideID: draft.DestinationOverrideID,
		Notes:                 draft.Notes,
		Recipient:             recipientFor(&detail.PaymentSplit, displayName),
		Provider:              ProviderBadge(detail.ProviderCode),
	}
}

// ConfirmDraft executes the payout. The split's live status is re-checked at
// confirm time, so a split paid elsewhere since the recap was shown is
// refused. While a confirmation is in flight the draft is locked: at most one
// upstream mutation fires, with no automatic retry. On failure the draft
// survives for a deliberate re-confirm.
func (s *Service) ConfirmDraft(ctx context.Context, token, sessionID, splitID string) (*PayoutResultVM, error) {
	draft, err := s.drafts.Get(ctx, sessionID, splitID)
	if err != nil {
		return nil, err
	}

	acquired, err := s.drafts.TryLock(ctx, draft.ID)
	if err != nil {
		return nil, common.NewTransportError("não foi possível iniciar o pagamento", err)
	}
	if !acquired {
		return nil, common.NewConflictError("pagamento já está sendo processado")
	}
	defer s.drafts.Unlock(ctx, draft.ID)

	detail, err := s.api.GetSplit(ctx, token, splitID)
	if err != nil {
		return nil, err
	}
	if detail.Status != upstream.SplitStatusReadyToPay {
		s.toasts.Publish(sessionID, "O split mudou de status e não está mais pronto para pagamento", toast.SeverityWarning)
		return nil, common.NewConflictError("split não está mais pronto para pagamento")
	}

	req := upstream.CreatePayoutRequest{
		AmountCents:           draft.AmountCents,
		DestinationOverrideID: draft.DestinationOverrideID,
		Notes:                 draft.Notes,
	}
	resp, err := s.api.CreatePayout(ctx, token, splitID, req, draft.ID)
	if err != nil {
		// the draft survives so the operator can fix and retry deliberately
		s.recordPayoutFailure(ctx, sessionID, splitID, err)
		return nil, err
	}

	_ = s.drafts.Discard(ctx, sessionID, splitID)
	s.banners.Clear(ctx, splitID)
	s.cache.InvalidateFor(ctx, MutationCreatePayout, splitID)
	s.toasts.Publish(sessionID, "Pagamento solicitado com sucesso", toast.SeveritySuccess)

	logger.WithContext(ctx).Info("payout created",
		zap.String("split_id", splitID),
		zap.String("payout_id", resp.PayoutID),
	)

	return &PayoutResultVM{
		PayoutID:    resp.PayoutID,
		Status:      resp.Status,
		StatusBadge: PayoutStatusBadge(resp.Status),
		Message:     resp.Message,
	}, nil
}

// PayoutDetail returns one payout attempt for the secondary modal
func (s *Service) PayoutDetail(ctx context.Context, token, payoutID string) (*PayoutRow, error) {
	attempt, err := s.api.GetPayout(ctx, token, payoutID)
	if err != nil {
		return nil, err
	}
	row := newPayoutRow(*attempt)
	return &row, nil
}

// Retry re-fires a failed payout. The lock is per payout, so retrying one
// failed attempt never blocks another split's retry.
func (s *Service) Retry(ctx context.Context, token, sessionID, payoutID string) (*PayoutResultVM, error) {
	attempt, err := s.api.GetPayout(ctx, token, payoutID)
	if err != nil {
		return nil, err
	}
	if !newPayoutRow(*attempt).CanRetry {
		return nil, common.NewConflictError("este payout não pode ser reprocessado")
	}

	acquired, err := s.drafts.TryLock(ctx, "retry:"+payoutID)
	if err != nil {
		return nil, common.NewTransportError("não foi possível iniciar o reprocessamento", err)
	}
	if !acquired {
		return nil, common.NewConflictError("reprocessamento já está em andamento")
	}
	defer s.drafts.Unlock(ctx, "retry:"+payoutID)

	resp, err := s.api.RetryPayout(ctx, token, payoutID)
	if err != nil {
		s.recordPayoutFailure(ctx, sessionID, attempt.PaymentSplitID, err)
		return nil, err
	}

	s.banners.Clear(ctx, attempt.PaymentSplitID)
	s.cache.InvalidateFor(ctx, MutationRetryPayout, attempt.PaymentSplitID)
	s.toasts.Publish(sessionID, "Reprocessamento solicitado com sucesso", toast.SeveritySuccess)

	return &PayoutResultVM{
		PayoutID:    resp.PayoutID,
		Status:      resp.Status,
		StatusBadge: PayoutStatusBadge(resp.Status),
		Message:     resp.Message,
	}, nil
}

// recordPayoutFailure lands the error in the split's banner and in a toast.
// Provider capability gaps are warnings, not errors: nothing is wrong with
// the split, the provider just cannot do this yet.
func (s *Service) recordPayoutFailure(ctx context.Context, sessionID, splitID string, err error) {
	appErr, ok := common.AsAppError(err)
	if !ok {
		appErr = common.NewTransportError("erro inesperado ao solicitar pagamento", err)
	}

	s.banners.Record(ctx, splitID, appErr)

	severity := toast.SeverityError
	if appErr.Code == common.CodeProviderCapability {
		severity = toast.SeverityWarning
	}
	s.toasts.Publish(sessionID, appErr.Message, severity)
}

func (s *Service) publishFailure(sessionID string, err error) {
	message := "erro ao executar a operação"
	if appErr, ok := common.AsAppError(err); ok {
		message = appErr.Message
	}
	s.toasts.Publish(sessionID, message, toast.SeverityError)
}
