package playtak

import (
	"bufio"
	"context"
	"io"
	"net"
	"strings"
	"time"

	"nhooyr.io/websocket"
)

// lineTransport is the byte stream under the client: a raw TCP
// connection or a WebSocket carrying the same line protocol in text
// frames.
type lineTransport interface {
	ReadLine() (string, error)
	WriteString(s string) error
	Close() error
}

type tcpTransport struct {
	conn   net.Conn
	reader *bufio.Reader
}

func newTCPTransport(conn net.Conn) *tcpTransport {
	return &tcpTransport{conn: conn, reader: bufio.NewReader(conn)}
}

func dialTCP(addr string, timeout time.Duration) (*tcpTransport, error) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, err
	}
	return newTCPTransport(conn), nil
}

func (t *tcpTransport) ReadLine() (string, error) {
	line, err := t.reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (t *tcpTransport) WriteString(s string) error {
	_, err := io.WriteString(t.conn, s)
	return err
}

func (t *tcpTransport) Close() error {
	return t.conn.Close()
}

// wsTransport splits incoming text frames into lines so the rest of the
// client sees the same stream either way. ctx scopes all reads and
// writes to the connection's lifetime.
type wsTransport struct {
	conn    *websocket.Conn
	ctx     context.Context
	pending []string
}

func dialWS(ctx context.Context, url string, timeout time.Duration) (*wsTransport, error) {
	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	conn, _, err := websocket.Dial(dialCtx, url, &websocket.DialOptions{
		CompressionMode: websocket.CompressionNoContextTakeover,
	})
	if err != nil {
		return nil, err
	}
	return &wsTransport{conn: conn, ctx: ctx}, nil
}

func (w *wsTransport) ReadLine() (string, error) {
	for len(w.pending) == 0 {
		_, data, err := w.conn.Read(w.ctx)
		if err != nil {
			return "", err
		}
		if len(data) == 0 {
			continue
		}
		for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
			w.pending = append(w.pending, strings.TrimRight(line, "\r"))
		}
	}
	line := w.pending[0]
	w.pending = w.pending[1:]
	return line, nil
}

func (w *wsTransport) WriteString(s string) error {
	return w.conn.Write(w.ctx, websocket.MessageText, []byte(s))
}

func (w *wsTransport) Close() error {
	return w.conn.Close(websocket.StatusNormalClosure, "closing")
}
