package chat

import (
	"fmt"
	"strings"
)

// Mention identifies an admin the platform can @mention.
type Mention struct {
	Name        string // platform user resource, e.g. "users/1234"
	DisplayName string
}

const mentionSeparator = ", "

// ApprovalMessage composes the admin approval request: one mention token
// per admin, separated by ", ", followed by a sentence describing the
// requested action. Each mention gets an annotation whose byte span
// accounts for the cumulative length of the preceding tokens and
// separators. Pure formatting, no side effects.
func ApprovalMessage(requester, actionLabel, targetLabel string, admins []Mention) *OutboundMessage {
	var b strings.Builder
	annotations := make([]Annotation, 0, len(admins))

	for i, admin := range admins {
		if i > 0 {
			b.WriteString(mentionSeparator)
		}
		token := "<" + admin.Name + ">"
		annotations = append(annotations, Annotation{
			Type:       AnnotationUserMention,
			StartIndex: b.Len(),
			Length:     len(token),
			UserMention: &UserMention{
				User: MentionedUser{
					Name:        admin.Name,
					DisplayName: admin.DisplayName,
					Type:        "HUMAN",
				},
				Type: "MENTION",
			},
		})
		b.WriteString(token)
	}

	fmt.Fprintf(&b, "%s%s solicitou que você %s a instância %s.",
		mentionSeparator, requester, actionLabel, targetLabel)

	return &OutboundMessage{
		Text:           b.String(),
		Annotations:    annotations,
		ActionResponse: &ActionResponse{Type: "NEW_MESSAGE"},
	}
}
