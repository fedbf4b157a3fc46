package screen

import (
	"fmt"
	"time"

	"emperror.dev/errors"
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"musicplayer/internal/asset"
	"musicplayer/internal/player"
)

// Playback is the controller surface the screen drives.
type Playback interface {
	LoadAsset(src asset.Source, name string) (*player.Track, error)
	Play() error
	Pause() error
	Seek(seconds float64) error
	Position() float64
	OnEvent(fn func(player.Event))
}

// Verify Controller implements Playback at compile time.
var _ Playback = (*player.Controller)(nil)

// Options tunes the screen's timing.
type Options struct {
	RefreshInterval time.Duration
	SeekStep        time.Duration
}

type notice struct {
	dlg     dialog.Dialog
	message string
}

type Screen struct {
	win      fyne.Window
	ctrl     Playback
	log      zerolog.Logger
	interval time.Duration
	seekStep float64
	dispatch func(func())

	toggle  *widget.Button
	label   *widget.Label
	slider  *seekSlider
	content fyne.CanvasObject

	state     State
	track     *player.Track
	dragging  bool // user is moving the slider
	updating  bool // guard to avoid feedback when we update slider programmatically
	task      *refreshTask
	notice    *notice
	observers []func(State, *player.Track)
}

// New builds the screen, installs it as the content of win and subscribes
// to ctrl's events.
func New(win fyne.Window, ctrl Playback, logger zerolog.Logger, opts Options) *Screen {
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = DefaultRefreshInterval
	}
	if opts.SeekStep <= 0 {
		opts.SeekStep = DefaultSeekStep
	}
	s := &Screen{
		win:      win,
		ctrl:     ctrl,
		log:      logger,
		interval: opts.RefreshInterval,
		seekStep: opts.SeekStep.Seconds(),
		dispatch: fyne.Do,
	}

	s.toggle = widget.NewButton(IconPlay, s.Toggle)
	s.label = widget.NewLabelWithStyle(FormatTime(0), fyne.TextAlignCenter, fyne.TextStyle{Monospace: true})
	s.slider = newSeekSlider(s.typedKey)
	s.slider.OnChanged = s.sliderChanged
	s.slider.OnChangeEnded = s.sliderChangeEnded
	s.slider.Disable() // enabled once a track is loaded

	s.content = container.NewVBox(
		container.NewCenter(s.toggle),
		s.label,
		container.NewPadded(s.slider),
	)

	ctrl.OnEvent(s.handleEvent)
	if win != nil {
		win.SetContent(s.content)
		win.Canvas().SetOnTypedKey(s.typedKey)
	}
	return s
}

// Content returns the root canvas object of the screen.
func (s *Screen) Content() fyne.CanvasObject { return s.content }

// State returns the current playback state.
func (s *Screen) State() State { return s.state }

// Track returns the loaded track, or nil.
func (s *Screen) Track() *player.Track { return s.track }

// Snapshot returns what the widgets currently show.
func (s *Screen) Snapshot() Snapshot {
	return Snapshot{
		ToggleActive: s.state == Playing,
		Label:        s.label.Text,
		SliderValue:  s.slider.Value,
	}
}

// RefreshActive reports whether the periodic refresh task is running.
func (s *Screen) RefreshActive() bool { return s.task != nil }

// OnStateChange registers fn to be called after every state transition.
func (s *Screen) OnStateChange(fn func(State, *player.Track)) {
	s.observers = append(s.observers, fn)
}

// Load loads name from src into the controller. Failures are logged and,
// for undecodable audio, shown to the user; the screen then stays in its
// disabled zero state. It returns the loaded track or nil.
func (s *Screen) Load(src asset.Source, name string) *player.Track {
	track, err := s.ctrl.LoadAsset(src, name)
	if err != nil {
		s.loadFailed(name, err)
		return nil
	}

	s.stopRefresh()
	s.track = track
	s.dragging = false
	s.slider.Min = 0
	s.slider.Max = track.Duration
	s.slider.Enable()
	s.slider.Refresh()
	s.show(0)
	s.setState(Stopped)
	if s.win != nil {
		s.win.SetTitle(track.DisplayTitle())
	}
	s.log.Info().Str("asset", name).Float64("duration", track.Duration).Msg("ready to play")
	return track
}

func (s *Screen) loadFailed(name string, err error) {
	if errors.Is(err, player.ErrAssetMissing) {
		s.log.Warn().Err(err).Str("asset", name).Msg("no audio to play")
		return
	}
	if de, ok := player.IsDecodeError(err); ok {
		s.log.Error().Int("code", int(de.Code)).Str("message", de.Message).Str("asset", name).Msg("player initialisation failed")
		s.showNotice(fmt.Sprintf(NoticeLoadFailed, de.Message))
		return
	}
	s.log.Error().Err(err).Str("asset", name).Msg("player initialisation failed")
	s.showNotice(fmt.Sprintf(NoticeLoadFailed, err.Error()))
}

// Toggle flips between playing and paused. From Stopped it starts playing.
func (s *Screen) Toggle() {
	if s.track == nil {
		s.showNotice(NoticeNoTrack)
		return
	}
	if s.state == Playing {
		if err := s.ctrl.Pause(); err != nil {
			s.log.Error().Err(err).Msg("pause failed")
		}
		s.setState(Paused)
		return
	}
	if err := s.ctrl.Play(); err != nil {
		s.log.Error().Err(err).Msg("play failed")
		s.showNotice(fmt.Sprintf(NoticePlayback, err.Error()))
		return
	}
	s.setState(Playing)
}

// setState applies st to the toggle and the refresh task. The refresh task
// runs exactly while st is Playing.
func (s *Screen) setState(st State) {
	prev := s.state
	s.state = st
	if st == Playing {
		s.toggle.SetText(IconPause)
		s.startRefresh()
	} else {
		s.toggle.SetText(IconPlay)
		s.stopRefresh()
	}
	if prev != st {
		s.log.Debug().Stringer("from", prev).Stringer("to", st).Msg("state change")
	}
	for _, fn := range s.observers {
		fn(st, s.track)
	}
}

// show writes seconds into the label and slider.
func (s *Screen) show(seconds float64) {
	s.label.SetText(FormatTime(seconds))
	s.updating = true
	s.slider.SetValue(seconds)
	s.updating = false
}

// sliderChanged runs for every slider move. While the user drags, only the
// label follows the slider.
func (s *Screen) sliderChanged(v float64) {
	if s.updating {
		return
	}
	s.dragging = true
	s.label.SetText(FormatTime(v))
}

// sliderChangeEnded runs when the user lets go of the slider; the
// controller jumps to the final value.
func (s *Screen) sliderChangeEnded(v float64) {
	if s.updating {
		return
	}
	s.dragging = false
	s.label.SetText(FormatTime(v))
	if s.track == nil {
		return
	}
	if err := s.ctrl.Seek(v); err != nil {
		s.log.Error().Err(err).Float64("position", v).Msg("seek failed")
	}
}

func (s *Screen) typedKey(ev *fyne.KeyEvent) {
	switch ev.Name {
	case fyne.KeySpace:
		s.Toggle()
	case fyne.KeyLeft:
		s.seekBy(-s.seekStep)
	case fyne.KeyRight:
		s.seekBy(s.seekStep)
	}
}

func (s *Screen) seekBy(delta float64) {
	if s.track == nil || s.dragging {
		return
	}
	if err := s.ctrl.Seek(s.ctrl.Position() + delta); err != nil {
		s.log.Error().Err(err).Msg("seek failed")
		return
	}
	s.show(s.ctrl.Position())
}

// handleEvent receives controller events on the controller's goroutine and
// hands them to the UI goroutine.
func (s *Screen) handleEvent(ev player.Event) {
	s.dispatch(func() {
		switch ev.Kind {
		case player.EventFinished:
			s.finished()
		case player.EventDecodeError:
			s.decodeFailed(ev)
		}
	})
}

// finished resets the screen to Stopped regardless of its prior state. A
// drag in progress is abandoned since the slider is moved back to 0.
func (s *Screen) finished() {
	s.dragging = false
	s.setState(Stopped)
	s.show(0)
}

// decodeFailed shows the error; the controller has paused itself, so a
// playing screen drops to Paused.
func (s *Screen) decodeFailed(ev player.Event) {
	s.log.Error().Int("code", int(ev.Code)).Str("message", ev.Message).Msg("audio player decode error")
	if s.state == Playing {
		s.setState(Paused)
	}
	s.showNotice(fmt.Sprintf(NoticePlayback, ev.Message))
}

func (s *Screen) showNotice(message string) {
	s.notice = &notice{message: message}
	if s.win == nil {
		return
	}
	d := dialog.NewInformation(NoticeTitle, message, s.win)
	s.notice.dlg = d
	d.Show()
}
