package domain

import (
	"context"
	"time"
)

// RunStatus is the outcome of an errand run.
type RunStatus string

const (
	StatusOK    RunStatus = "ok"
	StatusError RunStatus = "error"
)

// RunEvent describes the start or end of an errand run.
type RunEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	Errand    string        `json:"errand"`
	Status    RunStatus     `json:"status,omitempty"`   // set on finish
	Detail    string        `json:"detail,omitempty"`   // receipt id, output path or error text
	Duration  time.Duration `json:"duration,omitempty"` // set on finish
}

// LifecycleHooks defines callbacks for errand observability.
type LifecycleHooks struct {
	OnStart  func(context.Context, *RunEvent)
	OnFinish func(context.Context, *RunEvent)
}

// Record is a persisted errand run.
type Record struct {
	ID        string        `json:"id"`
	Errand    string        `json:"errand"`
	Status    RunStatus     `json:"status"`
	Detail    string        `json:"detail,omitempty"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}
