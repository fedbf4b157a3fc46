package screen

import "time"

// Toggle button faces.
const (
	IconPlay  = "▶"
	IconPause = "⏸"
)

const (
	// DefaultRefreshInterval is how often the label and slider follow the
	// playback position while playing.
	DefaultRefreshInterval = 10 * time.Millisecond
	// DefaultSeekStep is the jump applied by the arrow keys.
	DefaultSeekStep = 5 * time.Second
	// SliderStep matches the hundredths shown by the time label.
	SliderStep = 0.01
)

// Notice titles.
const (
	NoticeTitle      = "Notice"
	NoticeNoTrack    = "No audio is loaded."
	NoticeLoadFailed = "The audio file could not be opened: %s"
	NoticePlayback   = "Audio player error: %s"
)
