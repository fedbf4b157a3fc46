package player

// EventKind tags an Event raised by the controller.
type EventKind int

const (
	// EventFinished means the track played through to its end.
	EventFinished EventKind = iota + 1
	// EventDecodeError means decoding failed while the track was playing.
	EventDecodeError
)

func (k EventKind) String() string {
	switch k {
	case EventFinished:
		return "Finished"
	case EventDecodeError:
		return "DecodeError"
	default:
		return "Unknown"
	}
}

// Event is delivered to the handler registered with Controller.OnEvent.
type Event struct {
	Kind    EventKind
	Code    DecodeCode // set for EventDecodeError
	Message string     // set for EventDecodeError
}
