// Package usecase orchestrates parsed chat commands: authorization,
// target resolution, schedule bookkeeping and the instance actions
// themselves. Every path ends in a chat message; faults are logged here
// and the caller only ever sees a short, specific text.
package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/pdutra/ec2-chatops/internal/authz"
	"github.com/pdutra/ec2-chatops/internal/chat"
	"github.com/pdutra/ec2-chatops/internal/cloud"
	"github.com/pdutra/ec2-chatops/internal/domain"
	"github.com/pdutra/ec2-chatops/internal/repository"
)

// Resolver is satisfied by *directory.Directory.
type Resolver interface {
	Resolve(ctx context.Context, target string) (*domain.Instance, error)
}

type CommandUsecase struct {
	repo      repository.ScheduleRepository
	cloud     cloud.InstanceAPI
	dir       Resolver
	policy    *authz.Policy
	approvals *ApprovalNotifier
	loc       *time.Location
	logger    *slog.Logger
	now       func() time.Time
}

func NewCommandUsecase(
	repo repository.ScheduleRepository,
	api cloud.InstanceAPI,
	dir Resolver,
	policy *authz.Policy,
	approvals *ApprovalNotifier,
	loc *time.Location,
	logger *slog.Logger,
) *CommandUsecase {
	return &CommandUsecase{
		repo:      repo,
		cloud:     api,
		dir:       dir,
		policy:    policy,
		approvals: approvals,
		loc:       loc,
		logger:    logger.With("component", "commands"),
		now:       time.Now,
	}
}

// Handle executes a parsed command on behalf of sender and returns the
// reply. It never returns an error: failures become user-facing texts.
func (u *CommandUsecase) Handle(ctx context.Context, cmd chat.Command, sender chat.Sender) *chat.OutboundMessage {
	switch c := cmd.(type) {
	case chat.ScheduleRequest:
		return u.createSchedule(ctx, c, sender)
	case chat.ListSchedulesRequest:
		return u.listSchedules(ctx, sender)
	case chat.DeleteScheduleRequest:
		return u.deleteSchedule(ctx, c.ID, sender)
	case chat.DirectActionRequest:
		return u.directAction(ctx, c, sender)
	case chat.ApprovalRequest:
		return u.buttonApproval(ctx, c, sender)
	case chat.ShowMenuRequest:
		return u.showMenu(ctx)
	default:
		return chat.Text(msgUsage)
	}
}

func actionLabel(a domain.Action) string {
	if a == domain.ActionStop {
		return actionLabelStop
	}
	return actionLabelStart
}

// senderDisplay is what replies and audit tags call the user.
func senderDisplay(s chat.Sender) string {
	if s.DisplayName != "" {
		return s.DisplayName
	}
	return "Um usuário"
}

// requesterLabel de-identifies an email-shaped identity for display:
// just the local part.
func requesterLabel(email string) string {
	if email == "" {
		return "desconhecido"
	}
	if i := strings.IndexByte(email, '@'); i >= 0 {
		return email[:i]
	}
	return email
}
