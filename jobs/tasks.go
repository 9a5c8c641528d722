package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskFundsWarmup rebuilds fund summary caches for recent meetings.
	TaskFundsWarmup = "funds:warmup"
)

// FundsWarmupPayload scopes a warmup run.
type FundsWarmupPayload struct {
	// Meetings limits how many recent meetings to warm. Zero uses the
	// handler default.
	Meetings int `json:"meetings"`
}

// NewFundsWarmupTask constructs an Asynq task.
func NewFundsWarmupTask(payload FundsWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskFundsWarmup, data), nil
}
