// Package player owns the playback session for a single audio track:
// loading, play/pause, seeking and position reporting on top of beep.
package player

import (
	"math"
	"sync"
	"time"

	"emperror.dev/errors"
	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/rs/zerolog"

	"musicplayer/internal/asset"
)

// DefaultSampleRate is the fixed output rate; inputs are resampled to it so
// the audio device is opened only once.
const DefaultSampleRate = beep.SampleRate(44100)

// outputBuffer is how much audio the output pulls from the stream at once.
const outputBuffer = time.Second / 10

// anchor pins the reported position to an exact value after a seek until
// playback consumes a sample.
type anchor struct {
	sample  int
	seconds float64
}

// fetch records when the output was first seen past a stream sample.
type fetch struct {
	sample int
	at     time.Time
}

type Controller struct {
	mu      sync.Mutex
	out     Output
	rate    beep.SampleRate
	log     zerolog.Logger
	stream  beep.StreamSeekCloser // decoder stream (seekable)
	format  beep.Format
	vol     *effects.Volume // volume wrapper around the resampled stream
	volNorm float64         // [0..1]
	ctrl    *beep.Ctrl
	track   *Track
	queued  bool   // ctrl sequence is in the output mixer
	gen     uint64 // bumped on every load and every queueing
	anchor  anchor
	fetched fetch
	now     func() time.Time
	handler func(Event)
}

// New returns a controller streaming into out.
func New(out Output, logger zerolog.Logger) *Controller {
	return &Controller{
		out:     out,
		rate:    DefaultSampleRate,
		log:     logger,
		volNorm: 1,
		now:     time.Now,
	}
}

// OnEvent registers fn to receive finished and decode-error events. fn is
// called on its own goroutine, never while the audio device is locked.
func (c *Controller) OnEvent(fn func(Event)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handler = fn
}

// LoadAsset reads name from src and loads it. Any failure to obtain the
// bytes is reported as ErrAssetMissing.
func (c *Controller) LoadAsset(src asset.Source, name string) (*Track, error) {
	if src == nil {
		return nil, errors.WithStack(ErrAssetMissing)
	}
	data, err := src.Open(name)
	if err != nil {
		return nil, errors.Wrapf(ErrAssetMissing, "%s: %v", name, err)
	}
	return c.Load(name, data)
}

// Load decodes data and makes it the current track, paused at 0. A nil
// data slice means the source is absent. On failure the previous track,
// if any, stays loaded.
func (c *Controller) Load(name string, data []byte) (*Track, error) {
	if data == nil {
		return nil, errors.WithStack(ErrAssetMissing)
	}
	stream, format, err := decode(data)
	if err != nil {
		c.log.Debug().Err(err).Str("asset", name).Msg("decode failed")
		return nil, err
	}
	if err := c.out.Init(c.rate, c.rate.N(outputBuffer)); err != nil {
		_ = stream.Close()
		return nil, errors.Wrap(err, "cannot open audio output")
	}
	return c.install(newTrack(name, data, format, stream.Len()), stream, format), nil
}

// install replaces the current track with an already decoded stream.
func (c *Controller) install(track *Track, stream beep.StreamSeekCloser, format beep.Format) *Track {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.release()
	c.stream = stream
	c.format = format
	c.track = track
	c.gen++
	c.resetChain()
	c.ctrl = &beep.Ctrl{Streamer: c.vol, Paused: true}
	c.anchor = anchor{sample: 0, seconds: 0}
	c.fetched = fetch{}

	c.log.Info().
		Str("asset", track.Name).
		Float64("duration", track.Duration).
		Int("sample_rate", int(format.SampleRate)).
		Msg("track loaded")
	return track
}

// release stops and closes the current stream. Caller holds c.mu.
func (c *Controller) release() {
	if c.stream == nil {
		return
	}
	if c.ctrl != nil {
		c.out.Lock()
		c.ctrl.Paused = true
		c.out.Unlock()
	}
	c.out.Clear()
	_ = c.stream.Close()
	c.stream = nil
	c.vol = nil
	c.ctrl = nil
	c.track = nil
	c.queued = false
}

// resetChain rebuilds the resampler after the decoder stream moved. Caller
// holds c.mu and, if the chain is queued, the output lock.
func (c *Controller) resetChain() {
	resampled := beep.Resample(4, c.format.SampleRate, c.rate, c.stream)
	c.vol = &effects.Volume{Streamer: resampled, Base: 10, Volume: c.volDB()}
	if c.ctrl != nil {
		c.ctrl.Streamer = c.vol
	}
}

// Play starts or resumes playback from the current position.
func (c *Controller) Play() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ctrl == nil {
		return ErrNoTrack
	}
	if !c.queued {
		c.queued = true
		c.gen++
		gen := c.gen
		c.out.Play(beep.Seq(c.ctrl, beep.Callback(func() {
			// Runs inside the mixer with the output locked.
			go c.streamEnded(gen)
		})))
	}
	c.out.Lock()
	c.ctrl.Paused = false
	c.out.Unlock()
	c.fetched = fetch{}
	return nil
}

// Pause halts playback and keeps the position.
func (c *Controller) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ctrl == nil {
		return ErrNoTrack
	}
	c.out.Lock()
	c.ctrl.Paused = true
	c.out.Unlock()
	c.fetched = fetch{}
	return nil
}

// Playing reports whether audio is currently being produced.
func (c *Controller) Playing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ctrl == nil || !c.queued {
		return false
	}
	c.out.Lock()
	defer c.out.Unlock()
	return !c.ctrl.Paused
}

// Seek moves to seconds, clamped to [0, Duration]. Playback continues from
// there if it was running.
func (c *Controller) Seek(seconds float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stream == nil {
		return ErrNoTrack
	}
	target := clamp(seconds, 0, c.track.Duration)
	sample := int(target * float64(c.format.SampleRate))
	// Some decoders (e.g., mp3) panic if seeking to exactly Len; clamp to [0, Len-1]
	if n := c.stream.Len(); sample >= n {
		sample = n - 1
	}
	if sample < 0 {
		sample = 0
	}

	c.out.Lock()
	defer c.out.Unlock()
	if err := c.stream.Seek(sample); err != nil {
		return errors.Wrapf(err, "cannot seek to %.2fs", target)
	}
	c.resetChain()
	c.anchor = anchor{sample: c.stream.Position(), seconds: target}
	c.fetched = fetch{}
	return nil
}

// Position returns the playback position in seconds, within [0, Duration].
// While playing it advances with the wall clock between output fetches, by
// at most one output buffer.
func (c *Controller) Position() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stream == nil {
		return 0
	}
	c.out.Lock()
	pos := c.stream.Position()
	running := c.queued && !c.ctrl.Paused
	c.out.Unlock()

	seconds := c.format.SampleRate.D(pos).Seconds()
	if pos == c.anchor.sample {
		seconds = c.anchor.seconds
	}
	if running {
		seconds += c.sinceFetch(pos).Seconds()
	}
	return clamp(seconds, 0, c.track.Duration)
}

// sinceFetch returns how long the output has been playing since the stream
// reached pos. Caller holds c.mu.
func (c *Controller) sinceFetch(pos int) time.Duration {
	now := c.now()
	if c.fetched.at.IsZero() || pos != c.fetched.sample {
		c.fetched = fetch{sample: pos, at: now}
	}
	return min(now.Sub(c.fetched.at), outputBuffer)
}

// Duration returns the length of the loaded track in seconds, or 0.
func (c *Controller) Duration() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.track == nil {
		return 0
	}
	return c.track.Duration
}

// Track returns the loaded track, or nil.
func (c *Controller) Track() *Track {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.track
}

// SetVolume sets volume with normalized value in [0,1]. 0 is near silent, 1 is 0dB.
func (c *Controller) SetVolume(norm float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.volNorm = clamp(norm, 0, 1)
	if c.vol != nil {
		c.out.Lock()
		c.vol.Volume = c.volDB()
		c.out.Unlock()
	}
}

// Volume returns the normalized volume [0,1].
func (c *Controller) Volume() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.volNorm
}

// Close releases the loaded track.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.release()
	return nil
}

// streamEnded handles the end of a queued sequence: a clean end rewinds to
// the start, a decoder failure leaves the position where it stopped. Either
// way the controller ends up paused and dequeued.
func (c *Controller) streamEnded(gen uint64) {
	c.mu.Lock()
	if gen != c.gen || c.stream == nil {
		c.mu.Unlock()
		return
	}
	c.queued = false

	c.out.Lock()
	c.ctrl.Paused = true
	ev := Event{Kind: EventFinished}
	if err := c.stream.Err(); err != nil {
		ev = Event{Kind: EventDecodeError, Code: CodeStreamError, Message: err.Error()}
	} else if err := c.stream.Seek(0); err != nil {
		ev = Event{Kind: EventDecodeError, Code: CodeStreamError, Message: err.Error()}
	} else {
		c.resetChain()
		c.anchor = anchor{sample: 0, seconds: 0}
	}
	c.out.Unlock()
	c.fetched = fetch{}

	handler := c.handler
	name := c.track.Name
	c.mu.Unlock()

	c.log.Debug().Str("asset", name).Stringer("event", ev.Kind).Msg("stream ended")
	if handler != nil {
		handler(ev)
	}
}

func (c *Controller) volDB() float64 {
	// Map normalized [0..1] to dB/10 range [-4..0] (i.e., -40dB to 0dB)
	return -4 + 4*c.volNorm
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
