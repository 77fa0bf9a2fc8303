package receiptno

import (
	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/arot/internal/config"
	"github.com/smallbiznis/arot/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("receiptno",
	fx.Provide(providePeriodLocker),
	fx.Provide(provideAllocator),
)

func providePeriodLocker(client *redis.Client) PeriodLocker {
	if locker := NewLocker(client); locker != nil {
		return locker
	}
	return noopLocker{}
}

func provideAllocator(conn *gorm.DB, log *zap.Logger, locker PeriodLocker, m *metrics.Metrics, cfg config.Config) (*Allocator, error) {
	return NewAllocator(conn, log, locker, m, cfg.Arot.ReceiptNumberTemplate)
}
