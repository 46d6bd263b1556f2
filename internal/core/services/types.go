// internal/core/services/types.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ammerola/pos-inventory/internal/core/ports"
)

// Clock returns the current time in the shop time zone
type Clock func() time.Time

// NewClock returns a Clock bound to loc, or to UTC when loc is nil
func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return func() time.Time {
		return time.Now().In(loc)
	}
}

// Cache keys shared by the services that read and invalidate them
const (
	CacheKeyDashboard   = "dashboard:main"
	cacheCatalogPrefix  = "catalog:"
	cacheCatalogPattern = cacheCatalogPrefix + "*"

	dashboardTTL = 5 * time.Minute
	catalogTTL   = 10 * time.Minute
)

func catalogKey(search string, page int) string {
	return fmt.Sprintf("%slist:%s:%d", cacheCatalogPrefix, strings.ToLower(strings.TrimSpace(search)), page)
}

// invalidate drops cache entries after a committed write. Failures are logged only.
func invalidate(ctx context.Context, cache ports.CacheRepository, logger *slog.Logger, keys ...string) {
	if cache == nil {
		return
	}
	for _, key := range keys {
		var err error
		if strings.HasSuffix(key, "*") {
			err = cache.DeletePattern(ctx, key)
		} else {
			err = cache.Delete(ctx, key)
		}
		if err != nil {
			logger.WarnContext(ctx, "failed to invalidate cache",
				slog.String("key", key),
				slog.String("error", err.Error()))
		}
	}
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
