package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pdutra/ec2-chatops/internal/chat"
	"github.com/pdutra/ec2-chatops/internal/email"
	"github.com/pdutra/ec2-chatops/internal/metrics"
)

// ApprovalNotifier turns a denied or button-requested action into an
// admin approval request: a chat message mentioning every configured
// admin, plus a best-effort email copy to the approval recipients.
type ApprovalNotifier struct {
	mentions   []chat.Mention
	sender     email.Sender
	recipients []string
	logger     *slog.Logger
}

func NewApprovalNotifier(mentions []chat.Mention, sender email.Sender, recipients []string, logger *slog.Logger) *ApprovalNotifier {
	return &ApprovalNotifier{
		mentions:   mentions,
		sender:     sender,
		recipients: recipients,
		logger:     logger.With("component", "approvals"),
	}
}

// Notify composes the mention message and fans the email copies out.
// Email failures are logged and swallowed: the chat mention is the
// primary channel and it has already been built.
func (n *ApprovalNotifier) Notify(ctx context.Context, requester, actionLabel, targetLabel string) *chat.OutboundMessage {
	msg := chat.ApprovalMessage(requester, actionLabel, targetLabel, n.mentions)
	metrics.ApprovalRequestsTotal.Inc()

	subject := fmt.Sprintf("Aprovação pendente: %s %s", actionLabel, targetLabel)
	body := fmt.Sprintf("<p>%s solicitou que você <b>%s</b> a instância <b>%s</b>.</p>",
		requester, actionLabel, targetLabel)
	for _, rcpt := range n.recipients {
		if err := n.sender.Send(ctx, rcpt, subject, body); err != nil {
			n.logger.Warn("approval email", "to", rcpt, "error", err)
		}
	}

	return msg
}
