package repository

import (
	"context"
	"time"

	"github.com/pdutra/ec2-chatops/internal/domain"
)

// ScheduleRepository is the single source of truth for schedule records.
// Usecases and the sweeper depend on this interface, not on the postgres
// implementation, so tests can substitute fakes.
//
// All mutation is by id-keyed conditional writes: MarkExecuted, MarkError
// and DeletePending only apply while status is still pending, and report
// domain.ErrAlreadyProcessed when a concurrent caller won the race.
type ScheduleRepository interface {
	Create(ctx context.Context, rec *domain.ScheduleRecord) (*domain.ScheduleRecord, error)
	GetByID(ctx context.Context, id string) (*domain.ScheduleRecord, error)

	// ListPending returns every pending record ordered ascending by due time.
	ListPending(ctx context.Context) ([]*domain.ScheduleRecord, error)

	// ListDue returns pending records whose due time has passed, ordered
	// ascending by due time.
	ListDue(ctx context.Context, now time.Time) ([]*domain.ScheduleRecord, error)

	MarkExecuted(ctx context.Context, id string) error
	MarkError(ctx context.Context, id string) error

	// DeletePending is an atomic compare-and-delete against status=pending.
	// Returns domain.ErrScheduleNotFound when no record has the id and
	// domain.ErrAlreadyProcessed when the record exists but is terminal.
	DeletePending(ctx context.Context, id string) error

	// PurgeSettled removes terminal records whose due time is older than
	// before, returning how many went. Pending records are never touched.
	PurgeSettled(ctx context.Context, before time.Time) (int64, error)
}
