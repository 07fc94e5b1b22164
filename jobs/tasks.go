package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeWelcomeEmail is the task type for sending a welcome email to a
	// freshly registered account.
	TaskTypeWelcomeEmail = "mail:welcome"
	// TaskTypeAuthEventsPurge is the task type for pruning old auth events.
	TaskTypeAuthEventsPurge = "auth:events:purge"
)

// WelcomeEmailPayload describes the information required to greet an account.
type WelcomeEmailPayload struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// NewWelcomeEmailTask constructs an Asynq task.
func NewWelcomeEmailTask(payload WelcomeEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeWelcomeEmail, data), nil
}

// AuthEventsPurgePayload describes the retention window for the purge job.
type AuthEventsPurgePayload struct {
	RetentionHours int `json:"retention_hours"`
}

// NewAuthEventsPurgeTask constructs an Asynq task pruning events older than
// retention.
func NewAuthEventsPurgeTask(retention time.Duration) (*asynq.Task, error) {
	data, err := json.Marshal(AuthEventsPurgePayload{RetentionHours: int(retention.Hours())})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeAuthEventsPurge, data), nil
}
