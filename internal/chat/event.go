// Package chat models the platform-agnostic chat boundary: the inbound
// event shape, the parsed command variants, and the outbound text/card
// payloads. Rendering to a specific platform's wire format happens at the
// transport layer; the JSON tags here follow the Google Chat webhook
// schema the reference deployment speaks.
package chat

import "strings"

// AnnotationUserMention is the annotation type for @mentions, on both
// inbound messages (the bot being mentioned) and outbound approval
// requests (admins being mentioned).
const AnnotationUserMention = "USER_MENTION"

// Event is an inbound chat event: either a button click (Action set) or
// a text message (Message set).
type Event struct {
	Action       *EventAction  `json:"action,omitempty"`
	User         Sender        `json:"user"`
	Message      *EventMessage `json:"message,omitempty"`
	ArgumentText string        `json:"argumentText,omitempty"`
}

type EventAction struct {
	MethodName string `json:"actionMethodName"`
}

type Sender struct {
	Name        string `json:"name"` // platform user resource, e.g. "users/1234"
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

type EventMessage struct {
	Text        string       `json:"text"`
	Sender      Sender       `json:"sender"`
	Annotations []Annotation `json:"annotations,omitempty"`
}

// Annotation is a rich-text span. StartIndex and Length are byte offsets
// into the message text.
type Annotation struct {
	Type        string       `json:"type"`
	StartIndex  int          `json:"startIndex"`
	Length      int          `json:"length"`
	UserMention *UserMention `json:"userMention,omitempty"`
}

type UserMention struct {
	User MentionedUser `json:"user"`
	Type string        `json:"type"`
}

type MentionedUser struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Type        string `json:"type"`
}

// Sender returns the identity behind the event: the clicking user for
// button events, the message sender for text events.
func (e *Event) Sender() Sender {
	if e.Action == nil && e.Message != nil {
		return e.Message.Sender
	}
	return e.User
}

// CommandText extracts the command string from a text event, lower-cased
// and trimmed. When the platform supplies no argument text (a direct
// message, or a message opening with a mention of the bot), it falls back
// to the raw message text with the leading mention span cut out by byte
// offset, which is what lets "@bot start foo" parse as "start foo".
func (e *Event) CommandText() string {
	text := strings.TrimSpace(strings.ToLower(e.ArgumentText))
	if text != "" || e.Message == nil {
		return text
	}

	raw := strings.ToLower(e.Message.Text)
	for _, a := range e.Message.Annotations {
		if a.Type != AnnotationUserMention {
			continue
		}
		start, end := a.StartIndex, a.StartIndex+a.Length
		if start >= 0 && start <= end && end <= len(raw) {
			raw = raw[:start] + raw[end:]
		}
		break
	}
	return strings.TrimSpace(raw)
}
