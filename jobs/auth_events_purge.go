package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// EventPurger removes audit records older than a retention window and reports
// how many rows were deleted.
type EventPurger interface {
	Purge(ctx context.Context, olderThan time.Duration) (int64, error)
}

// AuthEventsPurgeJob prunes auth events past the retention window.
type AuthEventsPurgeJob struct {
	audit  EventPurger
	logger *slog.Logger
}

// NewAuthEventsPurgeJob constructs the purge job.
func NewAuthEventsPurgeJob(audit EventPurger, logger *slog.Logger) *AuthEventsPurgeJob {
	return &AuthEventsPurgeJob{audit: audit, logger: logger}
}

// Handle processes TaskTypeAuthEventsPurge tasks.
func (j *AuthEventsPurgeJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload AuthEventsPurgePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.RetentionHours <= 0 {
		return asynq.SkipRetry
	}

	retention := time.Duration(payload.RetentionHours) * time.Hour
	deleted, err := j.audit.Purge(ctx, retention)
	if err != nil {
		return err
	}
	j.logger.Info("auth events purged",
		slog.Int64("deleted", deleted),
		slog.Int("retention_hours", payload.RetentionHours))
	return nil
}
