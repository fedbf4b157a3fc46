//go:build android || ios

package presence

import "github.com/rs/zerolog"

// Discord has no IPC socket on mobile; the client does nothing.

type Client struct{}

func New(string, zerolog.Logger) *Client { return &Client{} }

func (c *Client) Connect() error                            { return nil }
func (c *Client) Update(string, string, string, bool) error { return nil }
func (c *Client) Clear() error                              { return nil }
func (c *Client) Disconnect()                               {}
