package main

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"musicplayer/internal/player"
	"musicplayer/internal/screen"
)

type recordingSink struct {
	mu    sync.Mutex
	calls []string
}

func (r *recordingSink) Update(trackName, artist, title string, paused bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, fmt.Sprintf("update %s/%s/%s paused=%v", trackName, artist, title, paused))
	return nil
}

func (r *recordingSink) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "clear")
	return nil
}

func (r *recordingSink) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func TestPresenceFeed_ForwardsStates(t *testing.T) {
	sink := &recordingSink{}
	feed := newPresenceFeed(sink, zerolog.Nop())
	t.Cleanup(feed.stop)
	track := &player.Track{Name: "sound.mp3", Artist: "Band", Title: "Song"}

	feed.observe(screen.Playing, track)
	feed.observe(screen.Paused, track)
	feed.observe(screen.Stopped, track)

	want := []string{
		"update sound.mp3/Band/Song paused=false",
		"update sound.mp3/Band/Song paused=true",
		"clear",
	}
	require.Eventually(t, func() bool { return len(sink.snapshot()) == len(want) }, time.Second, time.Millisecond)
	assert.Equal(t, want, sink.snapshot())
}

func TestPresenceFeed_ObserveAfterStop(t *testing.T) {
	sink := &recordingSink{}
	feed := newPresenceFeed(sink, zerolog.Nop())
	feed.stop()

	assert.NotPanics(t, func() {
		feed.observe(screen.Playing, &player.Track{Name: "late.mp3"})
		feed.stop()
	})
	assert.Empty(t, sink.snapshot())
}
