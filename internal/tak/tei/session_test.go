package tei

import (
	"context"
	"testing"
	"time"

	"github.com/park285/Tak-PlayTak-bot/internal/takerr"
)

func startScript(t *testing.T, script string) (*Session, context.Context) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	session, err := Start(ctx, []string{"sh", "-c", script}, nil)
	if err != nil {
		cancel()
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() {
		_ = session.Close()
		cancel()
	})
	return session, ctx
}

func TestHandshake(t *testing.T) {
	script := `read greeting
echo "id name TestEngine 1.0"
echo "id author nobody"
echo "option name HalfKomi type spin default 0 min 0 max 8"
echo "option name BookPath type string default <empty>"
echo "teiok"
cat >/dev/null`
	session, ctx := startScript(t, script)

	name, options, err := session.Handshake(ctx)
	if err != nil {
		t.Fatalf("Handshake: %v", err)
	}
	if name != "TestEngine 1.0" {
		t.Fatalf("name = %q, want %q", name, "TestEngine 1.0")
	}
	if len(options) != 1 {
		t.Fatalf("options = %+v, want only the spin option", options)
	}
	if options[0].Name != "HalfKomi" || options[0].Max != 8 {
		t.Fatalf("option = %+v", options[0])
	}
}

func TestCommandEncoding(t *testing.T) {
	// cat echoes every command back, letting the test read what the
	// engine would receive.
	session, ctx := startScript(t, "cat")

	steps := []struct {
		send func() error
		want string
	}{
		{func() error { return session.NewGame(6) }, "teinewgame 6"},
		{func() error { return session.Position(nil) }, "position startpos moves"},
		{func() error { return session.Position([]string{"a1", "e5", "b4+"}) }, "position startpos moves a1 e5 b4+"},
		{func() error { return session.Go(541000, 583000) }, "go wtime 541000 btime 583000"},
		{func() error { return session.SetOption("HalfKomi", 4) }, "setoption name HalfKomi value 4"},
	}
	for _, step := range steps {
		if err := step.send(); err != nil {
			t.Fatalf("send: %v", err)
		}
		line, err := session.Next(ctx)
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if line != step.want {
			t.Fatalf("engine received %q, want %q", line, step.want)
		}
	}
}

func TestStreamClosed(t *testing.T) {
	session, ctx := startScript(t, "exit 0")

	_, err := session.Next(ctx)
	if err == nil {
		t.Fatalf("Next succeeded after engine exit")
	}
	if !takerr.HasCode(err, takerr.CodeStreamClosed) {
		t.Fatalf("error = %v, want STREAM_CLOSED", err)
	}
}

func TestStartRequiresCommand(t *testing.T) {
	if _, err := Start(context.Background(), nil, nil); err == nil {
		t.Fatalf("Start accepted an empty command")
	}
}
