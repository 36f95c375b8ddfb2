package observability

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// FlushTelemetry runs each flusher (tracer shutdown, metrics push) and then syncs the logger.
// Every flusher runs even if an earlier one fails; errors are joined.
func FlushTelemetry(ctx context.Context, logger *zap.Logger, flushers ...func(context.Context) error) error {
	var errs []error
	for _, flush := range flushers {
		if flush == nil {
			continue
		}
		if err := flush(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if logger != nil {
		// stderr cannot be fsynced on most terminals; ignore.
		_ = logger.Sync()
	}
	return errors.Join(errs...)
}
