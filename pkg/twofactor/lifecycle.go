package twofactor

import "fmt"

type event string

const (
	eventBegin   event = "begin"
	eventConfirm event = "confirm"
	eventVerify  event = "verify"
	eventExpire  event = "expire"
	eventCancel  event = "cancel"
	eventDisable event = "disable"
)

// lifecycle lists every legal credential transition: [from][event] -> to.
var lifecycle = map[Status]map[event]Status{
	StatusNone: {
		eventBegin: StatusPending,
	},
	StatusPending: {
		eventBegin:   StatusPending,
		eventConfirm: StatusActive,
		eventExpire:  StatusNone,
		eventCancel:  StatusNone,
		eventDisable: StatusNone,
	},
	StatusActive: {
		eventVerify:  StatusActive,
		eventDisable: StatusNone,
	},
}

type transitionError struct {
	from  Status
	event event
}

func (e *transitionError) Error() string {
	return fmt.Sprintf("no transition from state '%s' for event '%s'", e.from, e.event)
}

func transition(from Status, e event) (Status, error) {
	if to, ok := lifecycle[from][e]; ok {
		return to, nil
	}
	return from, &transitionError{from: from, event: e}
}
