package player

import (
	"bytes"
	"encoding/binary"
	"math"
	"sync"

	"github.com/faiface/beep"
)

// fakeOutput mixes queued streamers only when pump is called, standing in
// for the speaker in tests.
type fakeOutput struct {
	mu      sync.Mutex
	mixer   beep.Mixer
	initErr error
	inits   int
	rate    beep.SampleRate
}

func (o *fakeOutput) Init(rate beep.SampleRate, _ int) error {
	o.inits++
	o.rate = rate
	return o.initErr
}

func (o *fakeOutput) Play(s ...beep.Streamer) {
	o.mu.Lock()
	o.mixer.Add(s...)
	o.mu.Unlock()
}

func (o *fakeOutput) Clear() {
	o.mu.Lock()
	o.mixer.Clear()
	o.mu.Unlock()
}

func (o *fakeOutput) Lock()   { o.mu.Lock() }
func (o *fakeOutput) Unlock() { o.mu.Unlock() }

// pump streams d worth of output samples through the mixer.
func (o *fakeOutput) pump(seconds float64) {
	n := int(seconds * float64(DefaultSampleRate))
	buf := make([][2]float64, 512)
	o.mu.Lock()
	defer o.mu.Unlock()
	for n > 0 {
		k := min(n, len(buf))
		o.mixer.Stream(buf[:k])
		n -= k
	}
}

func (o *fakeOutput) queued() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.mixer.Len()
}

// wavBytes returns a mono 16-bit PCM WAV file holding a quiet sine tone.
func wavBytes(sampleRate, frames int) []byte {
	le := binary.LittleEndian
	dataLen := frames * 2

	var b bytes.Buffer
	b.WriteString("RIFF")
	_ = binary.Write(&b, le, uint32(36+dataLen))
	b.WriteString("WAVE")
	b.WriteString("fmt ")
	_ = binary.Write(&b, le, uint32(16))
	_ = binary.Write(&b, le, uint16(1)) // PCM
	_ = binary.Write(&b, le, uint16(1)) // mono
	_ = binary.Write(&b, le, uint32(sampleRate))
	_ = binary.Write(&b, le, uint32(sampleRate*2))
	_ = binary.Write(&b, le, uint16(2))
	_ = binary.Write(&b, le, uint16(16))
	b.WriteString("data")
	_ = binary.Write(&b, le, uint32(dataLen))
	for i := 0; i < frames; i++ {
		v := int16(1000 * math.Sin(2*math.Pi*440*float64(i)/float64(sampleRate)))
		_ = binary.Write(&b, le, v)
	}
	return b.Bytes()
}

// brokenStream plays len samples of silence and then fails.
type brokenStream struct {
	pos, len int
	err      error
}

func (s *brokenStream) Stream(samples [][2]float64) (int, bool) {
	if s.pos >= s.len {
		return 0, false
	}
	n := min(len(samples), s.len-s.pos)
	for i := range samples[:n] {
		samples[i] = [2]float64{}
	}
	s.pos += n
	return n, true
}

func (s *brokenStream) Err() error {
	if s.pos >= s.len {
		return s.err
	}
	return nil
}

func (s *brokenStream) Len() int      { return s.len * 2 }
func (s *brokenStream) Position() int { return s.pos }
func (s *brokenStream) Close() error  { return nil }

func (s *brokenStream) Seek(p int) error {
	s.pos = p
	return nil
}
