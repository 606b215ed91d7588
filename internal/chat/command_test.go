package chat

import (
	"errors"
	"testing"

	"github.com/pdutra/ec2-chatops/internal/domain"
)

func textEvent(text string) *Event {
	return &Event{
		ArgumentText: text,
		Message:      &EventMessage{Text: text, Sender: Sender{Email: "user@example.com"}},
	}
}

func TestParse_TextCommands(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Command
	}{
		{
			name: "schedule start",
			text: "agendar start myvm 23:59",
			want: ScheduleRequest{Action: domain.ActionStart, Target: "myvm", Time: TimeOfDay{Hour: 23, Minute: 59}},
		},
		{
			name: "schedule stop by id",
			text: "agendar stop i-0abc123 07:00",
			want: ScheduleRequest{Action: domain.ActionStop, Target: "i-0abc123", Time: TimeOfDay{Hour: 7}},
		},
		{name: "menu", text: "menu", want: ShowMenuRequest{}},
		{name: "list", text: "agendamentos", want: ListSchedulesRequest{}},
		{name: "delete", text: "deletar agendamento abc-123", want: DeleteScheduleRequest{ID: "abc-123"}},
		{name: "direct start", text: "start myvm", want: DirectActionRequest{Verb: VerbStart, Target: "myvm"}},
		{name: "direct stop", text: "stop i-0abc", want: DirectActionRequest{Verb: VerbStop, Target: "i-0abc"}},
		{name: "direct status", text: "status myvm", want: DirectActionRequest{Verb: VerbStatus, Target: "myvm"}},
		{name: "empty", text: "", want: Unrecognized{}},
		{name: "unknown two tokens", text: "reboot myvm", want: Unrecognized{}},
		{name: "one token", text: "start", want: Unrecognized{}},
		{name: "too many tokens", text: "status myvm now please", want: Unrecognized{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(textEvent(tt.text))
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.text, err)
			}
			if got != tt.want {
				t.Fatalf("Parse(%q) = %#v, want %#v", tt.text, got, tt.want)
			}
		})
	}
}

func TestParse_TextErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		want error
	}{
		{name: "schedule wrong arity", text: "agendar start myvm", want: domain.ErrInvalidCommandSyntax},
		{name: "schedule bad action", text: "agendar reboot myvm 10:00", want: domain.ErrInvalidAction},
		{name: "schedule bad time", text: "agendar start myvm 9:5", want: domain.ErrInvalidTimeFormat},
		{name: "schedule 24h overflow", text: "agendar start myvm 24:00", want: domain.ErrInvalidTimeFormat},
		{name: "delete wrong arity", text: "deletar agendamento", want: domain.ErrInvalidCommandSyntax},
		{name: "delete extra tokens", text: "deletar agendamento a b", want: domain.ErrInvalidCommandSyntax},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(textEvent(tt.text))
			if !errors.Is(err, tt.want) {
				t.Fatalf("Parse(%q) err = %v, want %v", tt.text, err, tt.want)
			}
		})
	}
}

func TestParse_Buttons(t *testing.T) {
	tests := []struct {
		name   string
		method string
		want   Command
	}{
		{name: "request start", method: "solicitar_start_i-0abc", want: ApprovalRequest{Action: domain.ActionStart, InstanceID: "i-0abc"}},
		{name: "request stop", method: "solicitar_stop_i-0abc", want: ApprovalRequest{Action: domain.ActionStop, InstanceID: "i-0abc"}},
		{name: "delete schedule", method: "deletar_agendamento_abc-123", want: DeleteScheduleRequest{ID: "abc-123"}},
		{name: "empty payload", method: "solicitar_start_", want: Unrecognized{}},
		{name: "unknown verb", method: "reiniciar_i-0abc", want: Unrecognized{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(&Event{Action: &EventAction{MethodName: tt.method}})
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("Parse(%q) = %#v, want %#v", tt.method, got, tt.want)
			}
		})
	}
}

func TestCommandText_StripsLeadingMention(t *testing.T) {
	e := &Event{
		Message: &EventMessage{
			Text: "@bot start foo",
			Annotations: []Annotation{
				{Type: AnnotationUserMention, StartIndex: 0, Length: 4},
			},
		},
	}

	if got := e.CommandText(); got != "start foo" {
		t.Fatalf("CommandText() = %q, want %q", got, "start foo")
	}

	cmd, err := Parse(e)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	want := DirectActionRequest{Verb: VerbStart, Target: "foo"}
	if cmd != want {
		t.Fatalf("Parse = %#v, want %#v", cmd, want)
	}
}

func TestCommandText_ArgumentTextWins(t *testing.T) {
	e := &Event{
		ArgumentText: "  MENU  ",
		Message:      &EventMessage{Text: "ignored"},
	}
	if got := e.CommandText(); got != "menu" {
		t.Fatalf("CommandText() = %q, want %q", got, "menu")
	}
}

func TestCommandText_OutOfRangeAnnotationIgnored(t *testing.T) {
	e := &Event{
		Message: &EventMessage{
			Text: "status foo",
			Annotations: []Annotation{
				{Type: AnnotationUserMention, StartIndex: 5, Length: 100},
			},
		},
	}
	if got := e.CommandText(); got != "status foo" {
		t.Fatalf("CommandText() = %q, want %q", got, "status foo")
	}
}

func TestSender_ButtonVersusText(t *testing.T) {
	button := &Event{
		Action: &EventAction{MethodName: "solicitar_start_i-1"},
		User:   Sender{Email: "clicker@example.com"},
	}
	if got := button.Sender().Email; got != "clicker@example.com" {
		t.Errorf("button sender = %q", got)
	}

	text := &Event{
		User:    Sender{Email: "top@example.com"},
		Message: &EventMessage{Sender: Sender{Email: "writer@example.com"}},
	}
	if got := text.Sender().Email; got != "writer@example.com" {
		t.Errorf("text sender = %q", got)
	}
}
