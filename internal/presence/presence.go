//go:build !android && !ios

// Package presence mirrors the player state into Discord Rich Presence.
package presence

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"emperror.dev/errors"
	"github.com/hugolgst/rich-go/client"
	"github.com/rs/zerolog"
)

const appLabel = "Music Player"

type Client struct {
	mu                 sync.Mutex
	clientID           string
	log                zerolog.Logger
	connected          bool
	lastTrack          string
	startTime          time.Time
	lastConnectAttempt time.Time
}

// New returns a client for the Discord application clientID. Nothing is
// sent until Connect or Update is called.
func New(clientID string, logger zerolog.Logger) *Client {
	return &Client{clientID: clientID, log: logger}
}

// Connect initializes the Discord RPC connection.
func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		return nil
	}
	c.lastConnectAttempt = time.Now()
	if err := client.Login(c.clientID); err != nil {
		return errors.Wrap(err, "discord login failed")
	}
	c.connected = true
	return nil
}

// Update shows the track as playing or paused.
func (c *Client) Update(trackName, artist, title string, paused bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected && !c.reconnect() {
		return nil
	}

	// If track changed, reset start time
	if c.lastTrack != trackName {
		c.startTime = time.Now()
		c.lastTrack = trackName
	}

	if err := client.SetActivity(activity(trackName, artist, title, paused, c.startTime)); err != nil {
		if isBrokenPipe(err) {
			// Discord restarted or closed; try again on the next update.
			client.Logout()
			c.connected = false
			c.log.Debug().Err(err).Msg("discord connection lost")
			return nil
		}
		return errors.Wrap(err, "discord set activity failed")
	}
	return nil
}

// Clear removes the activity, used when playback stops.
func (c *Client) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return nil
	}
	c.lastTrack = ""
	if err := client.SetActivity(client.Activity{}); err != nil {
		if isBrokenPipe(err) {
			client.Logout()
			c.connected = false
			return nil
		}
		return errors.Wrap(err, "discord clear activity failed")
	}
	return nil
}

// Disconnect closes the Discord RPC connection.
func (c *Client) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		client.Logout()
		c.connected = false
	}
}

// reconnect makes an opportunistic login with a small cooldown to avoid
// spamming. Caller holds c.mu.
func (c *Client) reconnect() bool {
	if time.Since(c.lastConnectAttempt) <= 2*time.Second || !ipcAvailable() {
		return false
	}
	c.lastConnectAttempt = time.Now()
	if err := client.Login(c.clientID); err != nil {
		return false
	}
	c.connected = true
	return true
}

func activity(trackName, artist, title string, paused bool, start time.Time) client.Activity {
	details := title
	if details == "" {
		// Fallback to filename without extension
		base := filepath.Base(trackName)
		details = strings.TrimSuffix(base, filepath.Ext(base))
	}
	state := artist
	if state == "" {
		state = appLabel
	}

	a := client.Activity{
		Details:    details,
		State:      state,
		LargeImage: "logo",
		LargeText:  appLabel,
	}
	if paused {
		a.SmallImage = "pause"
		a.SmallText = "Paused"
	} else {
		a.SmallImage = "play"
		a.SmallText = "Playing"
		a.Timestamps = &client.Timestamps{Start: &start}
	}
	return a
}

func isBrokenPipe(err error) bool {
	s := strings.ToLower(err.Error())
	for _, m := range []string{"broken pipe", "use of closed network connection", "connection reset", "eof"} {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

// ipcAvailable checks for the presence of a Discord IPC socket on this OS.
func ipcAvailable() bool {
	var pattern string
	switch runtime.GOOS {
	case "linux":
		pattern = filepath.Join(fmt.Sprintf("/run/user/%d", os.Getuid()), "discord-ipc-*")
	case "darwin":
		pattern = "/tmp/discord-ipc-*"
	default:
		// Best-effort: for unsupported OS checks, allow trying to connect.
		return true
	}
	matches, _ := filepath.Glob(pattern)
	for _, m := range matches {
		if conn, err := net.DialTimeout("unix", m, 200*time.Millisecond); err == nil {
			_ = conn.Close()
			return true
		}
	}
	return false
}
