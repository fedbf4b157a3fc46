package main

import (
	"os"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/theme"
	"github.com/rs/zerolog"

	"musicplayer/internal/asset"
	"musicplayer/internal/config"
	"musicplayer/internal/player"
	"musicplayer/internal/presence"
	"musicplayer/internal/screen"
)

type presenceUpdate struct {
	state screen.State
	track *player.Track
}

func ensureDir(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}
	return nil
}

func main() {
	logger := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Warn().Err(err).Msg("cannot load config, using defaults")
		cfg = config.Default()
	}
	logger = logger.Level(cfg.Level())

	if err := ensureDir(cfg.AssetDir); err != nil {
		logger.Warn().Err(err).Str("dir", cfg.AssetDir).Msg("cannot create asset directory")
	}

	a := app.New()
	if cfg.Theme == "dark" {
		a.Settings().SetTheme(theme.DarkTheme())
	} else {
		a.Settings().SetTheme(theme.LightTheme())
	}
	w := a.NewWindow("Music Player")
	w.Resize(fyne.NewSize(360, 160))

	ctrl := player.New(player.NewSpeaker(), logger.With().Str("component", "player").Logger())
	defer ctrl.Close()
	ctrl.SetVolume(cfg.Volume)

	s := screen.New(w, ctrl, logger.With().Str("component", "screen").Logger(), screen.Options{
		RefreshInterval: cfg.RefreshInterval,
		SeekStep:        cfg.SeekStep,
	})

	if cfg.HasPresence() {
		dc := presence.New(cfg.Presence.ClientID, logger.With().Str("component", "presence").Logger())
		if err := dc.Connect(); err != nil {
			// Non-fatal: continue without Discord integration
			logger.Warn().Err(err).Msg("discord presence unavailable")
		}
		defer dc.Disconnect()

		feed := newPresenceFeed(dc, logger)
		defer feed.stop()
		s.OnStateChange(feed.observe)
	}

	src := asset.NewDir(cfg.AssetDir)
	if s.Load(src, cfg.Asset) == nil {
		if names, err := src.List(); err == nil && len(names) > 0 {
			logger.Info().Strs("available", names).Str("dir", cfg.AssetDir).Msg("assets in directory")
		}
	}

	w.ShowAndRun()
}

// presenceSink is the part of presence.Client the feed drives.
type presenceSink interface {
	Update(trackName, artist, title string, paused bool) error
	Clear() error
}

// presenceFeed forwards screen state changes to Discord off the UI
// goroutine. Changes observed after stop are dropped.
type presenceFeed struct {
	sink     presenceSink
	log      zerolog.Logger
	updates  chan presenceUpdate
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func newPresenceFeed(sink presenceSink, logger zerolog.Logger) *presenceFeed {
	f := &presenceFeed{
		sink:    sink,
		log:     logger,
		updates: make(chan presenceUpdate, 16),
		done:    make(chan struct{}),
	}
	f.wg.Add(1)
	go f.run()
	return f
}

// observe matches screen.Screen.OnStateChange.
func (f *presenceFeed) observe(st screen.State, t *player.Track) {
	select {
	case <-f.done:
		return
	default:
	}
	select {
	case f.updates <- presenceUpdate{state: st, track: t}:
	default:
		f.log.Debug().Msg("presence update dropped")
	}
}

// stop ends forwarding and waits for the worker to exit.
func (f *presenceFeed) stop() {
	f.stopOnce.Do(func() { close(f.done) })
	f.wg.Wait()
}

func (f *presenceFeed) run() {
	defer f.wg.Done()
	for {
		select {
		case <-f.done:
			return
		case u := <-f.updates:
			f.apply(u)
		}
	}
}

func (f *presenceFeed) apply(u presenceUpdate) {
	var err error
	if u.track == nil || u.state == screen.Stopped {
		err = f.sink.Clear()
	} else {
		err = f.sink.Update(u.track.Name, u.track.Artist, u.track.Title, u.state == screen.Paused)
	}
	if err != nil {
		f.log.Debug().Err(err).Msg("presence update failed")
	}
}
