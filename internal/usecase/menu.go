package usecase

import (
	"context"

	"github.com/pdutra/ec2-chatops/internal/chat"
)

// buttonApproval handles the menu card's request buttons. The clicked
// payload is an instance ID; resolve it to a friendly name for the
// mention message, falling back to the raw ID.
func (u *CommandUsecase) buttonApproval(ctx context.Context, req chat.ApprovalRequest, sender chat.Sender) *chat.OutboundMessage {
	label := req.InstanceID
	if inst, err := u.dir.Resolve(ctx, req.InstanceID); err == nil {
		label = inst.DisplayName()
	}
	return u.approvals.Notify(ctx, senderDisplay(sender), actionLabel(req.Action), label)
}

func (u *CommandUsecase) showMenu(ctx context.Context) *chat.OutboundMessage {
	instances, err := u.cloud.DescribeAll(ctx)
	if err != nil {
		u.logger.Error("describe instances for menu", "error", err)
		return chat.Text(msgInternalError)
	}

	var widgets []chat.Widget
	for _, inst := range instances {
		widgets = append(widgets, chat.TextWidget(
			"<b>%s</b> (%s) - %s", inst.DisplayName(), inst.ID, inst.State,
		))

		if inst.State != "running" {
			widgets = append(widgets, chat.ButtonWidget("Solicitar LIGAR", "solicitar_start_"+inst.ID))
		} else {
			widgets = append(widgets, chat.ButtonWidget("Solicitar DESLIGAR", "solicitar_stop_"+inst.ID))
		}
	}

	return chat.NewCard(
		"Menu de Instâncias EC2",
		"Clique para solicitar uma ação",
		chat.CardSection{Widgets: widgets},
	)
}
