package splits

import (
	"context"
	"encoding/json"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/common"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/i18n"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/logger"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/redis"
)

const (
	bannerKeyPrefix = "banner:split:"
	bannerTTL       = 24 * time.Hour
)

// BannerStore keeps the last payout error per split so the detail view shows
// it across refetches until a payout succeeds
type BannerStore struct {
	redis *redis.Client
}

// NewBannerStore builds the banner store
func NewBannerStore(redisClient *redis.Client) *BannerStore {
	return &BannerStore{redis: redisClient}
}

func bannerKey(splitID string) string {
	return bannerKeyPrefix + splitID
}

// Record stores the error as the split's banner. Best effort: a banner write
// failure is logged, never surfaced.
func (b *BannerStore) Record(ctx context.Context, splitID string, appErr *common.AppError) {
	now := time.Now()
	banner := ErrorBanner{
		Message:                appErr.Message,
		Code:                   string(appErr.Code),
		OccurredAt:             i18n.FormatDateTime(&now),
		ProviderCapabilityHint: appErr.Code == common.CodeProviderCapability,
	}

	payload, err := json.Marshal(banner)
	if err != nil {
		return
	}
	if err := b.redis.SetWithExpiration(ctx, bannerKey(splitID), payload, bannerTTL); err != nil {
		logger.WithContext(ctx).Warn("banner write failed",
			zap.String("split_id", splitID),
			zap.Error(err),
		)
	}
}

// Get loads the split's banner, nil when there is none
func (b *BannerStore) Get(ctx context.Context, splitID string) *ErrorBanner {
	raw, err := b.redis.GetString(ctx, bannerKey(splitID))
	if err == goredis.Nil {
		return nil
	}
	if err != nil {
		logger.WithContext(ctx).Warn("banner read failed",
			zap.String("split_id", splitID),
			zap.Error(err),
		)
		return nil
	}

	var banner ErrorBanner
	if err := json.Unmarshal([]byte(raw), &banner); err != nil {
		return nil
	}
	return &banner
}

// Clear drops the split's banner after a successful payout
func (b *BannerStore) Clear(ctx context.Context, splitID string) {
	if err := b.redis.Delete(ctx, bannerKey(splitID)); err != nil {
		logger.WithContext(ctx).Warn("banner clear failed",
			zap.String("split_id", splitID),
			zap.Error(err),
		)
	}
}
