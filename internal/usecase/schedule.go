package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/pdutra/ec2-chatops/internal/chat"
	"github.com/pdutra/ec2-chatops/internal/domain"
)

func (u *CommandUsecase) createSchedule(ctx context.Context, req chat.ScheduleRequest, sender chat.Sender) *chat.OutboundMessage {
	inst, err := u.dir.Resolve(ctx, req.Target)
	if err != nil {
		return chat.Textf(msgTargetNotFound, req.Target)
	}

	due := req.Time.Next(u.now(), u.loc)

	rec, err := u.repo.Create(ctx, &domain.ScheduleRecord{
		InstanceID:  inst.ID,
		Action:      req.Action,
		ScheduledAt: due,
		Requester:   strings.ToLower(sender.Email),
	})
	if err != nil {
		u.logger.Error("create schedule", "instance_id", inst.ID, "error", err)
		return chat.Text(msgInternalError)
	}

	u.logger.Info("schedule created",
		"schedule_id", rec.ID,
		"instance_id", rec.InstanceID,
		"action", rec.Action,
		"scheduled_at", rec.ScheduledAt,
		"requester", rec.Requester,
	)

	return chat.Textf(msgScheduleCreated,
		u.loc.String(),
		due.In(u.loc).Format("02/01 15:04"),
		inst.ID,
		strings.ToUpper(string(req.Action)),
	)
}

func (u *CommandUsecase) listSchedules(ctx context.Context, sender chat.Sender) *chat.OutboundMessage {
	pending, err := u.repo.ListPending(ctx)
	if err != nil {
		u.logger.Error("list pending schedules", "error", err)
		return chat.Text(msgListError)
	}
	if len(pending) == 0 {
		return chat.Text(msgNoPending)
	}

	// One batch describe for display names. A failure here degrades the
	// listing to raw instance IDs, it never fails the response.
	names := make(map[string]string)
	if instances, err := u.cloud.DescribeAll(ctx); err != nil {
		u.logger.Warn("describe instances for listing", "error", err)
	} else {
		for _, inst := range instances {
			names[inst.ID] = inst.DisplayName()
		}
	}

	isAdmin := u.policy.IsAdmin(sender.Email)

	sections := make([]chat.CardSection, 0, len(pending))
	for _, rec := range pending {
		display := names[rec.InstanceID]
		if display == "" {
			display = rec.InstanceID
		}

		widgets := []chat.Widget{chat.TextWidget(
			"<b>%s</b> | <b>%s</b> | %s (%s)\n<i>Solicitado por: %s</i>",
			rec.ScheduledAt.In(u.loc).Format("02/01 15:04"),
			strings.ToUpper(string(rec.Action)),
			display,
			rec.InstanceID,
			requesterLabel(rec.Requester),
		)}
		if isAdmin {
			widgets = append(widgets, chat.ButtonWidget("Deletar", "deletar_agendamento_"+rec.ID))
		}
		sections = append(sections, chat.CardSection{Widgets: widgets})
	}

	return chat.NewCard("📋 Agendamentos Pendentes", "Gerencie seus agendamentos", sections...)
}

// deleteSchedule runs its checks in a fixed order: authorization first
// (even for ids that do not exist), existence second, status third. The
// final delete is still conditional on status=pending, so a sweep that
// executes the record between the check and the delete loses nothing.
func (u *CommandUsecase) deleteSchedule(ctx context.Context, id string, sender chat.Sender) *chat.OutboundMessage {
	if !u.policy.CanDelete(sender.Email) {
		return chat.Text(msgDeleteForbidden)
	}

	rec, err := u.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrScheduleNotFound) {
			return chat.Textf(msgScheduleMissing, id)
		}
		u.logger.Error("get schedule", "schedule_id", id, "error", err)
		return chat.Text(msgInternalError)
	}
	if rec.Status != domain.StatusPending {
		return chat.Textf(msgAlreadyProcessed, id)
	}

	switch err := u.repo.DeletePending(ctx, id); {
	case err == nil:
		u.logger.Info("schedule deleted", "schedule_id", id, "deleted_by", strings.ToLower(sender.Email))
		return chat.Textf(msgScheduleDeleted, id)
	case errors.Is(err, domain.ErrScheduleNotFound):
		return chat.Textf(msgScheduleMissing, id)
	case errors.Is(err, domain.ErrAlreadyProcessed):
		return chat.Textf(msgAlreadyProcessed, id)
	default:
		u.logger.Error("delete schedule", "schedule_id", id, "error", err)
		return chat.Text(msgInternalError)
	}
}
