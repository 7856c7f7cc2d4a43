// Package action executes player verbs against a world and a session. It
// performs no I/O: every call returns the next session and a Result that
// describes what to show.
package action

import "fmt"

// Kind selects how a Result is rendered.
type Kind int

const (
	// KindMessage is a single line of narrative or a refusal.
	KindMessage Kind = iota
	// KindRoom shows the current room.
	KindRoom
	// KindItem shows the item named by Subject.
	KindItem
	// KindInventory lists carried items.
	KindInventory
	// KindSpeech is a person named by Subject saying Speech.
	KindSpeech
	// KindHelp lists the available verbs.
	KindHelp
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindRoom:
		return "room"
	case KindItem:
		return "item"
	case KindInventory:
		return "inventory"
	case KindSpeech:
		return "speech"
	case KindHelp:
		return "help"
	default:
		return "message"
	}
}

// Result is the outcome of one action.
type Result struct {
	// OK is false when the action was rejected and the session is unchanged.
	OK bool
	// Kind selects the view to render.
	Kind Kind
	// Handler is the command handler that ran, or "" for an unknown verb.
	Handler string
	// Message is a one-line narrative shown before the view.
	Message string
	// Subject is the item ID for KindItem or the person ID for KindSpeech.
	Subject string
	// Speech is the response key a person answered with.
	Speech string
}

func fail(handler, format string, args ...any) Result {
	return Result{OK: false, Kind: KindMessage, Handler: handler, Message: fmt.Sprintf(format, args...)}
}
