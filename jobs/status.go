package jobs

import (
	"context"
	"time"
)

// Status is the lifecycle state of a search job.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

// Terminal reports whether the job has finished.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusFailed
}

// State is the last known status of a job.
type State struct {
	ID        string    `json:"id"`
	Status    Status    `json:"status"`
	Message   string    `json:"message,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StatusSink persists status changes.
type StatusSink interface {
	SetStatus(ctx context.Context, id string, status Status, msg string) error
}
