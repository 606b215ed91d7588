// Package scheduler runs the time-triggered side of the system: a
// periodic sweep that executes due schedules against the control plane
// and settles each record into a terminal status.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/pdutra/ec2-chatops/internal/cloud"
	"github.com/pdutra/ec2-chatops/internal/domain"
	"github.com/pdutra/ec2-chatops/internal/metrics"
	"github.com/pdutra/ec2-chatops/internal/repository"
)

type Sweeper struct {
	repo     repository.ScheduleRepository
	cloud    cloud.InstanceAPI
	loc      *time.Location
	logger   *slog.Logger
	interval time.Duration
	now      func() time.Time
}

func NewSweeper(
	repo repository.ScheduleRepository,
	api cloud.InstanceAPI,
	loc *time.Location,
	logger *slog.Logger,
	interval time.Duration,
) *Sweeper {
	return &Sweeper{
		repo:     repo,
		cloud:    api,
		loc:      loc,
		logger:   logger.With("component", "sweeper"),
		interval: interval,
		now:      time.Now,
	}
}

func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("sweeper started", "interval", s.interval)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sweeper shut down")
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep processes every schedule due at the current instant. Records are
// handled independently: one failure marks that record and moves on. A
// record whose action fails mid-flight stays pending and is retried on
// the next pass, so delivery is at least once.
func (s *Sweeper) Sweep(ctx context.Context) {
	start := s.now()
	defer func() {
		metrics.SweepCycleDuration.Observe(time.Since(start).Seconds())
	}()

	due, err := s.repo.ListDue(ctx, start)
	if err != nil {
		s.logger.Error("list due schedules", "error", err)
		return
	}
	if len(due) == 0 {
		return
	}

	s.logger.Info("sweep started", "due", len(due))
	for _, rec := range due {
		s.process(ctx, rec)
	}
}

func (s *Sweeper) process(ctx context.Context, rec *domain.ScheduleRecord) {
	logger := s.logger.With(
		"schedule_id", rec.ID,
		"instance_id", rec.InstanceID,
		"action", rec.Action,
	)

	if !rec.Action.Valid() {
		logger.Error("unknown action in schedule")
		s.settle(ctx, logger, rec.ID, s.repo.MarkError, "error")
		return
	}

	if err := s.apply(ctx, rec); err != nil {
		logger.Error("apply scheduled action", "error", err)
		s.settle(ctx, logger, rec.ID, s.repo.MarkError, "error")
		return
	}

	logger.Info("schedule executed")
	s.settle(ctx, logger, rec.ID, s.repo.MarkExecuted, "executed")
}

func (s *Sweeper) apply(ctx context.Context, rec *domain.ScheduleRecord) error {
	switch rec.Action {
	case domain.ActionStart:
		if err := s.cloud.Start(ctx, rec.InstanceID); err != nil {
			return err
		}
		s.tag(ctx, rec.InstanceID, map[string]string{
			domain.TagLastActionBy: "scheduler - start",
		})
	case domain.ActionStop:
		if err := s.cloud.Stop(ctx, rec.InstanceID); err != nil {
			return err
		}
		s.tag(ctx, rec.InstanceID, map[string]string{
			domain.TagLastActionBy: "scheduler - stop",
			domain.TagStoppedAt:    s.now().In(s.loc).Format(time.RFC3339),
		})
	}
	return nil
}

func (s *Sweeper) tag(ctx context.Context, instanceID string, tags map[string]string) {
	if err := s.cloud.Tag(ctx, instanceID, tags); err != nil {
		s.logger.Warn("write audit tags", "instance_id", instanceID, "error", err)
	}
}

// settle moves the record to its terminal status. The transition is
// conditional on the record still being pending; losing that race (an
// admin deleted it, or a concurrent sweep already settled it) is benign.
func (s *Sweeper) settle(ctx context.Context, logger *slog.Logger, id string, mark func(context.Context, string) error, outcome string) {
	switch err := mark(ctx, id); {
	case err == nil:
		metrics.SweepProcessedTotal.WithLabelValues(outcome).Inc()
	case errors.Is(err, domain.ErrAlreadyProcessed):
		logger.Debug("schedule settled elsewhere")
		metrics.SweepProcessedTotal.WithLabelValues("skipped").Inc()
	default:
		// The action ran but the status write failed. The record stays
		// pending and the next sweep retries it.
		logger.Error("mark schedule", "outcome", outcome, "error", err)
	}
}
