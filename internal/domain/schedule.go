package domain

import (
	"time"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusExecuted Status = "executed"
	StatusError    Status = "error"
)

type Action string

const (
	ActionStart Action = "start"
	ActionStop  Action = "stop"
)

// Valid reports whether a is one of the two supported lifecycle actions.
// Records are validated on creation, but the sweeper re-checks before
// touching the control plane in case a bad row was written out of band.
func (a Action) Valid() bool {
	return a == ActionStart || a == ActionStop
}

// ScheduleRecord is a stored request to start or stop an instance at a
// future instant. Every field except Status is immutable after creation;
// Status moves pending -> executed or pending -> error, never back, and a
// record may only be deleted while still pending.
type ScheduleRecord struct {
	ID          string
	InstanceID  string
	Action      Action
	ScheduledAt time.Time // always UTC
	Requester   string    // email of the creator
	Status      Status
	CreatedAt   time.Time
}
