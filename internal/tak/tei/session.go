package tei

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/park285/Tak-PlayTak-bot/internal/takerr"
)

// Line is one engine output line, or the terminal stream error once the
// engine's stdout ends.
type Line struct {
	Text string
	Err  error
}

// Session drives one TEI engine subprocess over its standard streams.
// A reader goroutine feeds whole stdout lines into Lines; writes to the
// engine's stdin are serialized by a mutex.
type Session struct {
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	lines   chan Line
	writeMu sync.Mutex
	logger  *zap.Logger
}

// Start launches the engine command with piped standard streams and
// begins reading its output. The engine's stderr passes through to the
// process stderr. Cancelling ctx kills the subprocess.
func Start(ctx context.Context, argv []string, logger *zap.Logger) (*Session, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("engine command required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stderr = os.Stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("create engine stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		stdin.Close()
		return nil, fmt.Errorf("create engine stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		stdin.Close()
		return nil, fmt.Errorf("start engine %q: %w", argv[0], err)
	}
	logger.Info("engine started", zap.String("command", strings.Join(argv, " ")))

	s := &Session{
		cmd:    cmd,
		stdin:  stdin,
		lines:  make(chan Line, 16),
		logger: logger,
	}
	go s.readLoop(stdout)
	return s, nil
}

func (s *Session) readLoop(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		s.logger.Debug("engine line", zap.String("line", line))
		s.lines <- Line{Text: line}
	}
	s.lines <- Line{Err: takerr.StreamClosed(scanner.Err(), "engine")}
	close(s.lines)
}

// Lines returns the engine output stream. The channel delivers whole
// lines and is closed after a terminal stream error has been sent.
func (s *Session) Lines() <-chan Line {
	return s.lines
}

// Next returns the next engine line, honoring ctx cancellation.
func (s *Session) Next(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-s.lines:
		if !ok {
			return "", takerr.StreamClosed(nil, "engine")
		}
		if line.Err != nil {
			return "", line.Err
		}
		return line.Text, nil
	}
}

func (s *Session) send(command string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.logger.Debug("engine send", zap.String("command", strings.TrimSuffix(command, "\n")))
	if _, err := io.WriteString(s.stdin, command); err != nil {
		return takerr.StreamClosed(err, "engine")
	}
	return nil
}

// Handshake sends the protocol greeting and collects the engine's
// identity and advertised spin options until the ready marker arrives.
// Options of other types are ignored.
func (s *Session) Handshake(ctx context.Context) (string, []SpinOption, error) {
	if err := s.send("tei\n"); err != nil {
		return "", nil, err
	}
	name := "TEI engine"
	var options []SpinOption
	for {
		line, err := s.Next(ctx)
		if err != nil {
			return "", nil, err
		}
		switch {
		case strings.HasPrefix(line, "id name "):
			name = strings.TrimPrefix(line, "id name ")
		case strings.HasPrefix(line, "option ") && strings.Contains(line, "type spin"):
			option, err := ParseSpinOption(line)
			if err != nil {
				return "", nil, err
			}
			options = append(options, option)
		case line == "teiok":
			return name, options, nil
		}
	}
}

// NewGame announces a fresh game of the given board size.
func (s *Session) NewGame(size int) error {
	return s.send(fmt.Sprintf("teinewgame %d\n", size))
}

// Position replays the whole move history from the starting position.
func (s *Session) Position(moves []string) error {
	var b strings.Builder
	b.WriteString("position startpos moves")
	for _, m := range moves {
		b.WriteByte(' ')
		b.WriteString(m)
	}
	b.WriteByte('\n')
	return s.send(b.String())
}

// Go starts a search with both remaining clocks in milliseconds.
func (s *Session) Go(whiteMs, blackMs int) error {
	return s.send(fmt.Sprintf("go wtime %d btime %d\n", whiteMs, blackMs))
}

// SetOption configures one integer engine setting.
func (s *Session) SetOption(name string, value int) error {
	return s.send(fmt.Sprintf("setoption name %s value %d\n", name, value))
}

// Close closes the engine's stdin, kills the subprocess and reaps it.
func (s *Session) Close() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if s.stdin != nil {
		_ = s.stdin.Close()
	}
	if s.cmd != nil && s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	if s.cmd != nil {
		return s.cmd.Wait()
	}
	return nil
}
