package domain

import "errors"

var (
	// Command pipeline
	ErrInvalidCommandSyntax = errors.New("invalid command syntax")
	ErrInvalidAction        = errors.New("invalid action")
	ErrInvalidTimeFormat    = errors.New("invalid time format")

	// Targets and schedules
	ErrTargetNotFound   = errors.New("target instance not found")
	ErrScheduleNotFound = errors.New("schedule not found")
	// ErrAlreadyProcessed means the record left pending before the
	// operation ran: executed, errored, or deleted by a concurrent caller.
	ErrAlreadyProcessed = errors.New("schedule already processed")

	// Collaborator faults. Always wrapped around the underlying cause so
	// call sites can distinguish "not found" (a normal negative result)
	// from an operation failure.
	ErrControlPlane = errors.New("control plane failure")
	ErrStore        = errors.New("store failure")
)
