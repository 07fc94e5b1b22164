package shared

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Auth event actions stored in auth_events.
const (
	AuthActionRegister    = "register"
	AuthActionLogin       = "login"
	AuthActionLoginDenied = "login_denied"
)

// AuthEvent represents a record stored in auth_events.
type AuthEvent struct {
	AccountID int64
	Action    string
	Email     string
	IP        string
	UserAgent string
	At        time.Time
}

// AuditLogger writes records into auth_events.
type AuditLogger struct {
	pool *pgxpool.Pool
}

// NewAuditLogger returns a new AuditLogger.
func NewAuditLogger(pool *pgxpool.Pool) *AuditLogger {
	return &AuditLogger{pool: pool}
}

// Record persists the event. An account id of zero is stored as NULL so that
// denied attempts against unknown identities can still be recorded.
func (l *AuditLogger) Record(ctx context.Context, event AuthEvent) error {
	if l == nil {
		return errors.New("audit logger not initialised")
	}
	if event.Action == "" {
		return errors.New("auth event requires an action")
	}
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}
	_, err := l.pool.Exec(ctx,
		`INSERT INTO auth_events (account_id, action, email, ip, ua, occurred_at) VALUES (NULLIF($1, 0), $2, $3, $4, $5, $6)`,
		event.AccountID, event.Action, event.Email, event.IP, event.UserAgent, event.At)
	return err
}

// Purge removes events older than retention and reports how many were deleted.
func (l *AuditLogger) Purge(ctx context.Context, olderThan time.Duration) (int64, error) {
	if l == nil {
		return 0, nil
	}
	cutoff := time.Now().Add(-olderThan)
	tag, err := l.pool.Exec(ctx, `DELETE FROM auth_events WHERE occurred_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
