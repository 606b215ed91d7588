package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pdutra/ec2-chatops/internal/domain"
)

type ScheduleRepository struct {
	pool *pgxpool.Pool
}

func NewScheduleRepository(pool *pgxpool.Pool) *ScheduleRepository {
	return &ScheduleRepository{pool: pool}
}

func (r *ScheduleRepository) Create(ctx context.Context, rec *domain.ScheduleRecord) (*domain.ScheduleRecord, error) {
	query := `
		INSERT INTO schedules (id, instance_id, action, scheduled_at, requester, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, instance_id, action, scheduled_at, requester, status, created_at`

	row := r.pool.QueryRow(ctx, query,
		uuid.NewString(),
		rec.InstanceID,
		rec.Action,
		rec.ScheduledAt.UTC(),
		rec.Requester,
		domain.StatusPending,
	)

	created, err := scanSchedule(row)
	if err != nil {
		return nil, fmt.Errorf("%w: create schedule: %v", domain.ErrStore, err)
	}
	return created, nil
}

func (r *ScheduleRepository) GetByID(ctx context.Context, id string) (*domain.ScheduleRecord, error) {
	query := `
		SELECT id, instance_id, action, scheduled_at, requester, status, created_at
		FROM schedules
		WHERE id = $1`

	rec, err := scanSchedule(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrScheduleNotFound
		}
		return nil, fmt.Errorf("%w: get schedule: %v", domain.ErrStore, err)
	}
	return rec, nil
}

func (r *ScheduleRepository) ListPending(ctx context.Context) ([]*domain.ScheduleRecord, error) {
	query := `
		SELECT id, instance_id, action, scheduled_at, requester, status, created_at
		FROM schedules
		WHERE status = $1
		ORDER BY scheduled_at ASC`

	return r.list(ctx, query, domain.StatusPending)
}

func (r *ScheduleRepository) ListDue(ctx context.Context, now time.Time) ([]*domain.ScheduleRecord, error) {
	query := `
		SELECT id, instance_id, action, scheduled_at, requester, status, created_at
		FROM schedules
		WHERE status = $1 AND scheduled_at <= $2
		ORDER BY scheduled_at ASC`

	return r.list(ctx, query, domain.StatusPending, now.UTC())
}

func (r *ScheduleRepository) MarkExecuted(ctx context.Context, id string) error {
	return r.transition(ctx, id, domain.StatusExecuted)
}

func (r *ScheduleRepository) MarkError(ctx context.Context, id string) error {
	return r.transition(ctx, id, domain.StatusError)
}

// transition is the only status mutation path. The WHERE clause is the
// compare-and-set: zero rows affected means some concurrent caller moved
// the record out of pending (or deleted it) first.
func (r *ScheduleRepository) transition(ctx context.Context, id string, to domain.Status) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE schedules SET status = $2 WHERE id = $1 AND status = $3`,
		id, to, domain.StatusPending)
	if err != nil {
		return fmt.Errorf("%w: mark %s: %v", domain.ErrStore, to, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAlreadyProcessed
	}
	return nil
}

func (r *ScheduleRepository) DeletePending(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM schedules WHERE id = $1 AND status = $2`,
		id, domain.StatusPending)
	if err != nil {
		return fmt.Errorf("%w: delete schedule: %v", domain.ErrStore, err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Condition failed: tell the caller whether the record is missing or
	// already terminal. The probe races a concurrent sweep, which is fine;
	// either answer is truthful for the moment it was taken.
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return domain.ErrAlreadyProcessed
}

func (r *ScheduleRepository) PurgeSettled(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM schedules WHERE status <> $1 AND scheduled_at < $2`,
		domain.StatusPending, before.UTC())
	if err != nil {
		return 0, fmt.Errorf("%w: purge schedules: %v", domain.ErrStore, err)
	}
	return tag.RowsAffected(), nil
}

func (r *ScheduleRepository) list(ctx context.Context, query string, args ...any) ([]*domain.ScheduleRecord, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list schedules: %v", domain.ErrStore, err)
	}
	defer rows.Close()

	var recs []*domain.ScheduleRecord
	for rows.Next() {
		rec, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: list schedules: %v", domain.ErrStore, err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// pgx.Row and pgx.Rows both implement this.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSchedule(row rowScanner) (*domain.ScheduleRecord, error) {
	var rec domain.ScheduleRecord
	err := row.Scan(
		&rec.ID, &rec.InstanceID, &rec.Action, &rec.ScheduledAt,
		&rec.Requester, &rec.Status, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.ScheduledAt = rec.ScheduledAt.UTC()
	return &rec, nil
}
