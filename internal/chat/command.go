package chat

import (
	"strings"

	"github.com/pdutra/ec2-chatops/internal/domain"
)

// Command is the closed set of parsed intents. Parse never returns
// anything outside these variants.
type Command interface {
	command()
}

type ScheduleRequest struct {
	Action domain.Action
	Target string
	Time   TimeOfDay
}

type ListSchedulesRequest struct{}

type DeleteScheduleRequest struct {
	ID string
}

type Verb string

const (
	VerbStart  Verb = "start"
	VerbStop   Verb = "stop"
	VerbStatus Verb = "status"
)

// Action maps a lifecycle verb to its domain action. Status is a
// read-only verb and has none.
func (v Verb) Action() (domain.Action, bool) {
	switch v {
	case VerbStart:
		return domain.ActionStart, true
	case VerbStop:
		return domain.ActionStop, true
	default:
		return "", false
	}
}

type DirectActionRequest struct {
	Verb   Verb
	Target string
}

type ShowMenuRequest struct{}

// ApprovalRequest comes from the menu card's request buttons: an
// ordinary user asking admins to perform a lifecycle action.
type ApprovalRequest struct {
	Action     domain.Action
	InstanceID string
}

type Unrecognized struct{}

func (ScheduleRequest) command()       {}
func (ListSchedulesRequest) command()  {}
func (DeleteScheduleRequest) command() {}
func (DirectActionRequest) command()   {}
func (ShowMenuRequest) command()       {}
func (ApprovalRequest) command()       {}
func (Unrecognized) command()          {}

// Button action identifiers follow <verb>_<payload>. The verb is
// validated before the payload is touched.
const (
	buttonRequestStart   = "solicitar_start_"
	buttonRequestStop    = "solicitar_stop_"
	buttonDeleteSchedule = "deletar_agendamento_"
)

// Parse turns an inbound event into a command. Returns
// domain.ErrInvalidAction or domain.ErrInvalidTimeFormat when a schedule
// command is recognized but carries a bad token, and
// domain.ErrInvalidCommandSyntax when a known command has the wrong
// shape. Text that matches nothing is Unrecognized, not an error.
func Parse(e *Event) (Command, error) {
	if e.Action != nil {
		return parseButton(e.Action.MethodName), nil
	}
	return parseText(e.CommandText())
}

func parseButton(method string) Command {
	switch {
	case strings.HasPrefix(method, buttonRequestStart):
		if id := strings.TrimPrefix(method, buttonRequestStart); id != "" {
			return ApprovalRequest{Action: domain.ActionStart, InstanceID: id}
		}
	case strings.HasPrefix(method, buttonRequestStop):
		if id := strings.TrimPrefix(method, buttonRequestStop); id != "" {
			return ApprovalRequest{Action: domain.ActionStop, InstanceID: id}
		}
	case strings.HasPrefix(method, buttonDeleteSchedule):
		if id := strings.TrimPrefix(method, buttonDeleteSchedule); id != "" {
			return DeleteScheduleRequest{ID: id}
		}
	}
	return Unrecognized{}
}

func parseText(text string) (Command, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return Unrecognized{}, nil
	}

	switch {
	case fields[0] == "agendar":
		if len(fields) != 4 {
			return nil, domain.ErrInvalidCommandSyntax
		}
		action := domain.Action(fields[1])
		if !action.Valid() {
			return nil, domain.ErrInvalidAction
		}
		tod, err := ParseTimeOfDay(fields[3])
		if err != nil {
			return nil, err
		}
		return ScheduleRequest{Action: action, Target: fields[2], Time: tod}, nil

	case text == "menu":
		return ShowMenuRequest{}, nil

	case text == "agendamentos":
		return ListSchedulesRequest{}, nil

	case fields[0] == "deletar" && len(fields) >= 2 && fields[1] == "agendamento":
		if len(fields) != 3 {
			return nil, domain.ErrInvalidCommandSyntax
		}
		return DeleteScheduleRequest{ID: fields[2]}, nil

	case len(fields) == 2:
		verb := Verb(fields[0])
		switch verb {
		case VerbStart, VerbStop, VerbStatus:
			return DirectActionRequest{Verb: verb, Target: fields[1]}, nil
		}
	}
	return Unrecognized{}, nil
}
