// Package cache defines the invalidation signal fired after drain
// cycles so read-side caches drop stale boards.
package cache

import (
	"context"
	"fmt"

	"github.com/fantasyforge/forge/pkg/logger"
	"github.com/fantasyforge/forge/pkg/metrics"
)

// Invalidator is notified once per orchestrator cycle that processed at
// least one event, with a namespace key pattern to drop.
type Invalidator interface {
	Invalidate(ctx context.Context, pattern string) error
}

// KeyPattern builds the namespace pattern covering a week's boards.
func KeyPattern(season, week int) string {
	return fmt.Sprintf("rankings:%d:%d:*", season, week)
}

// LogInvalidator implements Invalidator by logging the signal; the real
// cache lives in an external collaborator.
type LogInvalidator struct {
	logger logger.Logger
}

// NewLogInvalidator creates a LogInvalidator.
func NewLogInvalidator(log logger.Logger) *LogInvalidator {
	return &LogInvalidator{logger: log}
}

// Invalidate records the invalidation signal.
func (i *LogInvalidator) Invalidate(ctx context.Context, pattern string) error {
	metrics.RecordCacheInvalidation()
	i.logger.Info(ctx, "cache invalidation signal", logger.String("pattern", pattern))
	return nil
}
