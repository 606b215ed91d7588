package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/pdutra/ec2-chatops/internal/domain"
)

type fakeRepo struct {
	listDue      func(ctx context.Context, now time.Time) ([]*domain.ScheduleRecord, error)
	markExecuted func(ctx context.Context, id string) error
	markError    func(ctx context.Context, id string) error
}

func (r *fakeRepo) Create(context.Context, *domain.ScheduleRecord) (*domain.ScheduleRecord, error) {
	return nil, errors.New("not implemented")
}
func (r *fakeRepo) GetByID(context.Context, string) (*domain.ScheduleRecord, error) {
	return nil, domain.ErrScheduleNotFound
}
func (r *fakeRepo) ListPending(context.Context) ([]*domain.ScheduleRecord, error) { return nil, nil }
func (r *fakeRepo) ListDue(ctx context.Context, now time.Time) ([]*domain.ScheduleRecord, error) {
	return r.listDue(ctx, now)
}
func (r *fakeRepo) MarkExecuted(ctx context.Context, id string) error {
	return r.markExecuted(ctx, id)
}
func (r *fakeRepo) MarkError(ctx context.Context, id string) error {
	return r.markError(ctx, id)
}
func (r *fakeRepo) DeletePending(context.Context, string) error { return nil }
func (r *fakeRepo) PurgeSettled(context.Context, time.Time) (int64, error) {
	return 0, nil
}

type fakeCloud struct {
	start func(ctx context.Context, id string) error
	stop  func(ctx context.Context, id string) error
	tags  map[string]map[string]string
}

func (f *fakeCloud) DescribeByID(context.Context, string) (*domain.Instance, error) {
	return nil, domain.ErrTargetNotFound
}
func (f *fakeCloud) DescribeByName(context.Context, string) ([]*domain.Instance, error) {
	return nil, nil
}
func (f *fakeCloud) DescribeAll(context.Context) ([]*domain.Instance, error) { return nil, nil }
func (f *fakeCloud) Start(ctx context.Context, id string) error              { return f.start(ctx, id) }
func (f *fakeCloud) Stop(ctx context.Context, id string) error               { return f.stop(ctx, id) }
func (f *fakeCloud) Tag(_ context.Context, id string, tags map[string]string) error {
	if f.tags == nil {
		f.tags = make(map[string]map[string]string)
	}
	f.tags[id] = tags
	return nil
}

var testLoc = time.FixedZone("UTC-03", -3*60*60)

func newTestSweeper(repo *fakeRepo, api *fakeCloud) *Sweeper {
	return NewSweeper(repo, api, testLoc, slog.Default(), time.Minute)
}

func record(id, instanceID string, action domain.Action) *domain.ScheduleRecord {
	return &domain.ScheduleRecord{
		ID:          id,
		InstanceID:  instanceID,
		Action:      action,
		ScheduledAt: time.Now().UTC().Add(-time.Minute),
		Status:      domain.StatusPending,
	}
}

func TestSweep_ExecutesDueRecords(t *testing.T) {
	var started, stopped, executed []string
	repo := &fakeRepo{
		listDue: func(context.Context, time.Time) ([]*domain.ScheduleRecord, error) {
			return []*domain.ScheduleRecord{
				record("a", "i-1", domain.ActionStart),
				record("b", "i-2", domain.ActionStop),
			}, nil
		},
		markExecuted: func(_ context.Context, id string) error {
			executed = append(executed, id)
			return nil
		},
		markError: func(_ context.Context, id string) error {
			t.Fatalf("record %s marked as error", id)
			return nil
		},
	}
	api := &fakeCloud{
		start: func(_ context.Context, id string) error {
			started = append(started, id)
			return nil
		},
		stop: func(_ context.Context, id string) error {
			stopped = append(stopped, id)
			return nil
		},
	}

	newTestSweeper(repo, api).Sweep(context.Background())

	if len(started) != 1 || started[0] != "i-1" {
		t.Errorf("started %v", started)
	}
	if len(stopped) != 1 || stopped[0] != "i-2" {
		t.Errorf("stopped %v", stopped)
	}
	if len(executed) != 2 {
		t.Errorf("executed %v, want both records settled", executed)
	}

	if got := api.tags["i-1"][domain.TagLastActionBy]; got != "scheduler - start" {
		t.Errorf("i-1 LastActionBy = %q", got)
	}
	if api.tags["i-2"][domain.TagStoppedAt] == "" {
		t.Error("stop must record the StoppedAt tag")
	}
}

func TestSweep_OneFailureDoesNotAbortTheBatch(t *testing.T) {
	var executed, errored []string
	repo := &fakeRepo{
		listDue: func(context.Context, time.Time) ([]*domain.ScheduleRecord, error) {
			return []*domain.ScheduleRecord{
				record("a", "i-broken", domain.ActionStart),
				record("b", "i-2", domain.ActionStart),
			}, nil
		},
		markExecuted: func(_ context.Context, id string) error {
			executed = append(executed, id)
			return nil
		},
		markError: func(_ context.Context, id string) error {
			errored = append(errored, id)
			return nil
		},
	}
	api := &fakeCloud{
		start: func(_ context.Context, id string) error {
			if id == "i-broken" {
				return errors.New("IncorrectInstanceState")
			}
			return nil
		},
	}

	newTestSweeper(repo, api).Sweep(context.Background())

	if len(errored) != 1 || errored[0] != "a" {
		t.Errorf("errored %v, want [a]", errored)
	}
	if len(executed) != 1 || executed[0] != "b" {
		t.Errorf("executed %v, want [b]", executed)
	}
}

func TestSweep_UnknownActionGoesToError(t *testing.T) {
	var errored []string
	repo := &fakeRepo{
		listDue: func(context.Context, time.Time) ([]*domain.ScheduleRecord, error) {
			return []*domain.ScheduleRecord{record("a", "i-1", domain.Action("reboot"))}, nil
		},
		markExecuted: func(_ context.Context, id string) error {
			t.Fatalf("record %s marked as executed", id)
			return nil
		},
		markError: func(_ context.Context, id string) error {
			errored = append(errored, id)
			return nil
		},
	}
	api := &fakeCloud{
		start: func(_ context.Context, id string) error {
			t.Fatal("unknown action must not reach the control plane")
			return nil
		},
		stop: func(_ context.Context, id string) error {
			t.Fatal("unknown action must not reach the control plane")
			return nil
		},
	}

	newTestSweeper(repo, api).Sweep(context.Background())

	if len(errored) != 1 {
		t.Fatalf("errored %v, want [a]", errored)
	}
}

func TestSweep_RetriesUntilSettled(t *testing.T) {
	// A status write failure leaves the record pending: the next pass
	// picks it up again and the action runs a second time.
	starts := 0
	pending := true
	repo := &fakeRepo{
		listDue: func(context.Context, time.Time) ([]*domain.ScheduleRecord, error) {
			if !pending {
				return nil, nil
			}
			return []*domain.ScheduleRecord{record("a", "i-1", domain.ActionStart)}, nil
		},
		markExecuted: func(_ context.Context, id string) error {
			if starts == 1 {
				return errors.New("connection reset")
			}
			pending = false
			return nil
		},
		markError: func(_ context.Context, id string) error {
			t.Fatalf("record %s marked as error", id)
			return nil
		},
	}
	api := &fakeCloud{
		start: func(_ context.Context, id string) error {
			starts++
			return nil
		},
	}
	s := newTestSweeper(repo, api)

	s.Sweep(context.Background())
	s.Sweep(context.Background())
	s.Sweep(context.Background())

	if starts != 2 {
		t.Errorf("start invoked %d times, want 2 (retry after failed settle)", starts)
	}
	if pending {
		t.Error("record never settled")
	}
}

func TestSweep_LostSettleRaceIsBenign(t *testing.T) {
	repo := &fakeRepo{
		listDue: func(context.Context, time.Time) ([]*domain.ScheduleRecord, error) {
			return []*domain.ScheduleRecord{record("a", "i-1", domain.ActionStart)}, nil
		},
		markExecuted: func(context.Context, string) error {
			return domain.ErrAlreadyProcessed
		},
	}
	api := &fakeCloud{
		start: func(context.Context, string) error { return nil },
	}

	// Must not panic or escalate; the race loser just moves on.
	newTestSweeper(repo, api).Sweep(context.Background())
}

func TestSweep_ListFailureSkipsCycle(t *testing.T) {
	repo := &fakeRepo{
		listDue: func(context.Context, time.Time) ([]*domain.ScheduleRecord, error) {
			return nil, errors.New("connection refused")
		},
	}
	newTestSweeper(repo, &fakeCloud{}).Sweep(context.Background())
}
