package screen

// State is the playback state as presented by the screen.
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

// String returns the state name for debugging.
func (s State) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// Snapshot is what the three widgets currently show.
type Snapshot struct {
	ToggleActive bool
	Label        string
	SliderValue  float64
}
