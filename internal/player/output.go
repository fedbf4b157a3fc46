package player

import (
	"sync"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

// Output is the audio device the controller streams into. Lock and Unlock
// guard every streamer that has been handed to Play.
type Output interface {
	Init(rate beep.SampleRate, bufferSize int) error
	Play(s ...beep.Streamer)
	Clear()
	Lock()
	Unlock()
}

// Speaker is the Output backed by the system audio device.
type Speaker struct {
	once sync.Once
	err  error
}

// NewSpeaker returns an uninitialised speaker output.
func NewSpeaker() *Speaker { return &Speaker{} }

// Init opens the audio device. Only the first call has any effect, so the
// device is never reinitialised with a different sample rate.
func (s *Speaker) Init(rate beep.SampleRate, bufferSize int) error {
	s.once.Do(func() {
		s.err = speaker.Init(rate, bufferSize)
	})
	return s.err
}

func (s *Speaker) Play(st ...beep.Streamer) { speaker.Play(st...) }
func (s *Speaker) Clear()                   { speaker.Clear() }
func (s *Speaker) Lock()                    { speaker.Lock() }
func (s *Speaker) Unlock()                  { speaker.Unlock() }
