package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/hibiken/asynq"
)

// Mailer delivers transactional mail over SMTP.
type Mailer struct {
	addr   string
	from   string
	logger *slog.Logger
}

// NewMailer constructs a Mailer targeting the configured SMTP relay.
func NewMailer(host string, port int, from string, logger *slog.Logger) *Mailer {
	return &Mailer{addr: fmt.Sprintf("%s:%d", host, port), from: from, logger: logger}
}

// HandleWelcomeEmailTask processes TaskTypeWelcomeEmail tasks.
func (m *Mailer) HandleWelcomeEmailTask(ctx context.Context, t *asynq.Task) error {
	var payload WelcomeEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.Email == "" {
		return asynq.SkipRetry
	}

	msg := strings.Join([]string{
		"From: " + m.from,
		"To: " + payload.Email,
		"Subject: Welcome to Commune",
		"",
		fmt.Sprintf("Hi %s,\r\n\r\nYour account is ready. Welcome aboard!\r\n", payload.Name),
	}, "\r\n")

	if err := smtp.SendMail(m.addr, nil, m.from, []string{payload.Email}, []byte(msg)); err != nil {
		return fmt.Errorf("jobs: send welcome mail: %w", err)
	}
	m.logger.Info("welcome mail sent", slog.String("to", payload.Email))
	return nil
}
