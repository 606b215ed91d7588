package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pdutra/ec2-chatops/internal/chat"
	"github.com/pdutra/ec2-chatops/internal/domain"
)

func (u *CommandUsecase) directAction(ctx context.Context, req chat.DirectActionRequest, sender chat.Sender) *chat.OutboundMessage {
	if req.Verb == chat.VerbStatus {
		return u.statusMessage(ctx, req.Target)
	}

	action, ok := req.Verb.Action()
	if !ok {
		return chat.Text(msgUsage)
	}

	// Authorization comes before any control-plane traffic. A denied
	// start/stop is not a dead end: it becomes an approval request toward
	// the admins, addressed by the raw target the user typed.
	if !u.policy.CanExecute(sender.Email, req.Target) {
		return u.approvals.Notify(ctx, senderDisplay(sender), actionLabel(action), req.Target)
	}

	inst, err := u.dir.Resolve(ctx, req.Target)
	if err != nil {
		return chat.Textf(msgTargetNotFound, req.Target)
	}

	return u.execute(ctx, action, inst, senderDisplay(sender))
}

// execute applies the lifecycle action and writes the audit tags. A tag
// write failure after a successful action is logged, not surfaced: the
// instance already changed state and the reply should say so.
func (u *CommandUsecase) execute(ctx context.Context, action domain.Action, inst *domain.Instance, display string) *chat.OutboundMessage {
	switch action {
	case domain.ActionStart:
		if err := u.cloud.Start(ctx, inst.ID); err != nil {
			u.logger.Error("start instance", "instance_id", inst.ID, "error", err)
			return chat.Textf(msgActionFailed, domain.ActionStart, inst.ID)
		}
		u.tag(ctx, inst.ID, map[string]string{
			domain.TagLastActionBy: display + " - start",
		})
		return chat.Textf(msgStarted, inst.ID, display)

	case domain.ActionStop:
		if err := u.cloud.Stop(ctx, inst.ID); err != nil {
			u.logger.Error("stop instance", "instance_id", inst.ID, "error", err)
			return chat.Textf(msgActionFailed, domain.ActionStop, inst.ID)
		}
		u.tag(ctx, inst.ID, map[string]string{
			domain.TagLastActionBy: display + " - stop",
			domain.TagStoppedAt:    u.now().In(u.loc).Format(time.RFC3339),
		})
		return chat.Textf(msgStopped, inst.ID, display)
	}
	return chat.Text(msgUsage)
}

func (u *CommandUsecase) tag(ctx context.Context, instanceID string, tags map[string]string) {
	if err := u.cloud.Tag(ctx, instanceID, tags); err != nil {
		u.logger.Warn("write audit tags", "instance_id", instanceID, "error", err)
	}
}

func (u *CommandUsecase) statusMessage(ctx context.Context, target string) *chat.OutboundMessage {
	inst, err := u.dir.Resolve(ctx, target)
	if err != nil {
		return chat.Textf(msgTargetNotFound, target)
	}

	lastAction := inst.Tags[domain.TagLastActionBy]
	if lastAction == "" {
		lastAction = "Indefinido"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 Status da instância %s: %s\n👤 Última ação: %s", inst.ID, inst.State, lastAction)

	switch {
	case inst.State == "running" && inst.LaunchTime != nil:
		up := u.now().Sub(*inst.LaunchTime)
		fmt.Fprintf(&b, "\n⏱ Ligada há %dh %dmin", int(up.Hours()), int(up.Minutes())%60)

	case inst.State == "stopped" && inst.Tags[domain.TagStoppedAt] != "":
		stoppedAt, err := time.Parse(time.RFC3339, inst.Tags[domain.TagStoppedAt])
		if err != nil {
			b.WriteString("\n⚠️ Erro ao processar o horário de parada.")
			break
		}
		fmt.Fprintf(&b, "\n🛑 Parada em: %s", stoppedAt.In(u.loc).Format("02/01/2006 15:04"))
		if inst.LaunchTime != nil {
			ran := stoppedAt.Sub(*inst.LaunchTime)
			fmt.Fprintf(&b, "\n⏱ Ficou ligada por: %dh %dmin", int(ran.Hours()), int(ran.Minutes())%60)
		}
	}

	return chat.Text(b.String())
}
