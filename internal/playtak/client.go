package playtak

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/park285/Tak-PlayTak-bot/internal/takerr"
)

// Line is one server line, or the terminal stream error once the
// connection ends.
type Line struct {
	Text string
	Err  error
}

// Client is the PlayTak server connection. One reader goroutine feeds
// whole lines into Lines; writes are serialized by a mutex so the relay
// loop and the keepalive task cannot interleave mid-command.
type Client struct {
	transport lineTransport
	lines     chan Line
	writeMu   sync.Mutex
	logger    *zap.Logger
}

// Dial connects to the server. Addresses with a ws:// or wss:// scheme
// use the WebSocket transport; anything else is treated as host:port
// TCP.
func Dial(ctx context.Context, addr string, timeout time.Duration, logger *zap.Logger) (*Client, error) {
	var (
		transport lineTransport
		err       error
	)
	if strings.HasPrefix(addr, "ws://") || strings.HasPrefix(addr, "wss://") {
		transport, err = dialWS(ctx, addr, timeout)
	} else {
		transport, err = dialTCP(addr, timeout)
	}
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", addr, err)
	}
	return newClient(transport, logger), nil
}

// NewClient wraps an already established connection. Dial is the usual
// entry point; this exists for callers that manage their own sockets.
func NewClient(conn net.Conn, logger *zap.Logger) *Client {
	return newClient(newTCPTransport(conn), logger)
}

func newClient(transport lineTransport, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		transport: transport,
		lines:     make(chan Line, 16),
		logger:    logger,
	}
	go c.readLoop()
	return c
}

func (c *Client) readLoop() {
	for {
		line, err := c.transport.ReadLine()
		if err != nil {
			c.lines <- Line{Err: takerr.StreamClosed(err, "server")}
			close(c.lines)
			return
		}
		c.logger.Debug("server line", zap.String("line", line))
		c.lines <- Line{Text: line}
	}
}

// Lines returns the server line stream. The channel delivers whole
// lines and is closed after a terminal stream error has been sent.
func (c *Client) Lines() <-chan Line {
	return c.lines
}

// Next returns the next server line, honoring ctx cancellation.
func (c *Client) Next(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-c.lines:
		if !ok {
			return "", takerr.StreamClosed(nil, "server")
		}
		if line.Err != nil {
			return "", line.Err
		}
		return line.Text, nil
	}
}

// Send writes one complete newline-terminated command to the server.
func (c *Client) Send(command string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.logger.Debug("server send", zap.String("command", strings.TrimSuffix(command, "\n")))
	if err := c.transport.WriteString(command); err != nil {
		return takerr.StreamClosed(err, "server")
	}
	return nil
}

// StartPing spawns the keepalive goroutine. It runs for the rest of the
// process and is never joined; it stops on its own once a write fails.
func (c *Client) StartPing(interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			if err := c.Send("PING\n"); err != nil {
				c.logger.Debug("keepalive stopped", zap.Error(err))
				return
			}
		}
	}()
}

// Close tears down the connection; the reader goroutine ends with it.
func (c *Client) Close() error {
	return c.transport.Close()
}
