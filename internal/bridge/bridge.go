package bridge

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/park285/Tak-PlayTak-bot/internal/playtak"
	"github.com/park285/Tak-PlayTak-bot/internal/tak"
	"github.com/park285/Tak-PlayTak-bot/internal/tak/tei"
	"github.com/park285/Tak-PlayTak-bot/internal/takerr"
)

// Mode selects what a run does once the seek list has been consumed.
type Mode int

const (
	ModeList Mode = iota
	ModeSeek
	ModeAccept
)

// Config carries everything one run needs. LoginLine is the full
// credentials command, built by the caller from its configuration.
type Config struct {
	ServerAddr   string
	ClientName   string
	DialTimeout  time.Duration
	PingInterval time.Duration

	LoginLine string

	Mode       Mode
	Seek       *tak.Seek
	AcceptID   uint32
	AcceptFrom string
	EngineArgs []string

	Ratings *playtak.APIClient
	Out     io.Writer
	Logger  *zap.Logger
}

func (cfg *Config) validate() error {
	switch cfg.Mode {
	case ModeSeek:
		if cfg.Seek == nil {
			return fmt.Errorf("seek parameters required")
		}
		if len(cfg.EngineArgs) == 0 {
			return fmt.Errorf("engine command required")
		}
	case ModeAccept:
		if cfg.AcceptID == 0 && cfg.AcceptFrom == "" {
			return fmt.Errorf("a seek id or an opponent name is required")
		}
		if len(cfg.EngineArgs) == 0 {
			return fmt.Errorf("engine command required")
		}
	}
	return nil
}

// Run drives one full session: connect, handshake, authenticate, then
// either list the pending seeks or establish a game and relay it to
// completion. Every fatal condition surfaces as the returned error.
func Run(ctx context.Context, cfg Config) error {
	if err := cfg.validate(); err != nil {
		return err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}

	client, err := playtak.Dial(ctx, cfg.ServerAddr, cfg.DialTimeout, logger)
	if err != nil {
		logger.Error("could not connect", zap.String("server", cfg.ServerAddr), zap.Error(err))
		return err
	}
	defer client.Close()
	logger.Info("connected", zap.String("server", cfg.ServerAddr))

	b := &bridge{cfg: cfg, client: client, logger: logger}
	return b.run(ctx)
}

type bridge struct {
	cfg    Config
	client *playtak.Client
	logger *zap.Logger
}

func (b *bridge) run(ctx context.Context) error {
	if err := b.handshake(ctx); err != nil {
		return err
	}
	loginName, resumed, err := b.authenticate(ctx)
	if err != nil {
		return err
	}
	b.client.StartPing(b.cfg.PingInterval)

	if resumed != nil {
		if b.cfg.Mode == ModeList {
			return fmt.Errorf("game %d is pending for this identity; rerun in seek or accept mode with an engine to resume it", resumed.ID)
		}
		if err := b.consumeResume(ctx, resumed); err != nil {
			return err
		}
		return b.playGame(ctx, resumed)
	}

	b.logger.Info("logged in", zap.String("name", loginName))

	seeks, err := b.collectSeeks(ctx)
	if err != nil {
		return err
	}

	if b.cfg.Mode == ModeList {
		b.printSeeks(ctx, seeks)
		return b.client.Send("quit\n")
	}

	game, err := b.establishGame(ctx, seeks)
	if err != nil {
		return err
	}
	return b.playGame(ctx, game)
}

// handshake consumes the two banner lines and announces the client.
func (b *bridge) handshake(ctx context.Context) error {
	if err := b.expect(ctx, "Welcome!"); err != nil {
		return err
	}
	if err := b.expect(ctx, "Login or Register"); err != nil {
		return err
	}
	if err := b.client.Send("Client " + b.cfg.ClientName + "\n"); err != nil {
		return err
	}
	if err := b.expect(ctx, "OK"); err != nil {
		return err
	}
	b.logger.Debug("client acknowledged")
	return nil
}

func (b *bridge) expect(ctx context.Context, want string) error {
	line, err := b.client.Next(ctx)
	if err != nil {
		return err
	}
	if line != want {
		b.logger.Error("unexpected server reply",
			zap.String("received", line), zap.String("expected", want))
		return takerr.Protocol("expected %q, received %q", want, line)
	}
	return nil
}

// authenticate sends the credentials and reads the verdict. A reply
// that is already a game announcement means the server resumed an
// unfinished game for this identity.
func (b *bridge) authenticate(ctx context.Context) (string, *tak.Game, error) {
	if err := b.client.Send(b.cfg.LoginLine); err != nil {
		return "", nil, err
	}
	line, err := b.client.Next(ctx)
	if err != nil {
		return "", nil, err
	}
	switch {
	case line == "Authentication failure":
		b.logger.Error("could not authenticate")
		return "", nil, takerr.Auth("authentication failure: check the username and password")
	case strings.HasPrefix(line, "Game Start"):
		game, err := tak.ParseGameStart(line)
		if err != nil {
			return "", nil, err
		}
		return "", game, nil
	case !strings.HasPrefix(line, "Welcome"):
		b.logger.Error("could not log in", zap.String("received", line))
		return "", nil, takerr.Protocol("could not log in, server replied %q", line)
	}
	parts := strings.Fields(line)
	if len(parts) < 2 {
		return "", nil, takerr.Protocol("welcome line %q is missing the login name", line)
	}
	return strings.TrimSuffix(parts[1], "!"), nil, nil
}

// consumeResume replays the backlog the server sends for a resumed
// game, applying moves and clock updates until the resumption marker.
func (b *bridge) consumeResume(ctx context.Context, game *tak.Game) error {
	b.logger.Info("resuming game", zap.Uint32("id", game.ID))
	for {
		line, err := b.client.Next(ctx)
		if err != nil {
			return err
		}
		if line == "Message Your game is resumed" {
			return nil
		}
		parts := strings.Fields(line)
		if len(parts) < 2 {
			continue
		}
		switch parts[1] {
		case "P", "M":
			move, err := tak.ParsePlaytakLine(line)
			if err != nil {
				return err
			}
			game.ApplyMove(move)
		case "Time":
			if err := game.ApplyTimeLine(line); err != nil {
				return err
			}
		}
	}
}

// collectSeeks reads the seek announcements the server sends right
// after login. The list has no end marker; the first unrelated line
// ends it and is dropped.
func (b *bridge) collectSeeks(ctx context.Context) ([]tak.Seek, error) {
	var seeks []tak.Seek
	for {
		line, err := b.client.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !strings.HasPrefix(line, "Seek new") {
			return seeks, nil
		}
		seek, err := tak.ParseSeek(line)
		if err != nil {
			return nil, err
		}
		seeks = append(seeks, seek)
	}
}

func (b *bridge) printSeeks(ctx context.Context, seeks []tak.Seek) {
	fmt.Fprintf(b.cfg.Out, "Available seeks:\n\n")
	for i := range seeks {
		seek := &seeks[i]
		description := seek.Describe()
		if b.cfg.Ratings != nil && seek.Player != "" {
			if rating, err := b.cfg.Ratings.PlayerRating(ctx, seek.Player); err != nil {
				b.logger.Debug("rating lookup failed",
					zap.String("player", seek.Player), zap.Error(err))
			} else {
				description += fmt.Sprintf(", rating: %.0f (%d rated games)", rating.Rating, rating.RatedGames)
			}
		}
		fmt.Fprintf(b.cfg.Out, "%s\n\n", description)
	}
}

// establishGame posts or accepts a seek and waits for the game
// announcement. A NOK while waiting is fatal.
func (b *bridge) establishGame(ctx context.Context, seeks []tak.Seek) (*tak.Game, error) {
	switch b.cfg.Mode {
	case ModeAccept:
		id := b.cfg.AcceptID
		if id == 0 {
			for i := range seeks {
				if seeks[i].Player == b.cfg.AcceptFrom {
					id = seeks[i].ID
					break
				}
			}
			if id == 0 {
				b.logger.Error("no pending seek from opponent", zap.String("opponent", b.cfg.AcceptFrom))
				return nil, fmt.Errorf("no pending seek from %s", b.cfg.AcceptFrom)
			}
			b.logger.Info("accepting seek", zap.Uint32("id", id), zap.String("opponent", b.cfg.AcceptFrom))
		} else {
			b.logger.Info("accepting seek", zap.Uint32("id", id))
		}
		if err := b.client.Send(fmt.Sprintf("Accept %d\n", id)); err != nil {
			return nil, err
		}
	case ModeSeek:
		b.logger.Info("posting seek", zap.Int("size", b.cfg.Seek.Size))
		if err := b.client.Send(b.cfg.Seek.SeekCommand()); err != nil {
			return nil, err
		}
	}

	for {
		line, err := b.client.Next(ctx)
		if err != nil {
			return nil, err
		}
		if line == "NOK" {
			b.logger.Error("could not accept or post the seek")
			return nil, fmt.Errorf("server rejected the seek request")
		}
		if strings.HasPrefix(line, "Game Start") {
			return tak.ParseGameStart(line)
		}
	}
}

// initEngine starts the engine subprocess, runs the TEI handshake and
// reconciles the game's rule parameters with the engine's options.
func (b *bridge) initEngine(ctx context.Context, game *tak.Game) (*tei.Session, error) {
	engine, err := tei.Start(ctx, b.cfg.EngineArgs, b.logger)
	if err != nil {
		return nil, err
	}
	name, options, err := engine.Handshake(ctx)
	if err != nil {
		engine.Close()
		return nil, err
	}

	settings := []struct {
		name           string
		value, assumed int
	}{
		{"HalfKomi", game.HalfKomi, 0},
		{"Flatstones", game.Flatstones, tak.FlatstonesForSize(game.Size)},
		{"Capstones", game.Capstones, tak.CapstonesForSize(game.Size)},
	}
	for _, setting := range settings {
		if err := tei.Negotiate(engine, options, setting.name, setting.value, setting.assumed, b.logger); err != nil {
			engine.Close()
			return nil, err
		}
	}

	b.logger.Info("engine initialized", zap.String("name", name))
	return engine, nil
}

// playGame relays one game to completion: engine moves out to the
// server, server moves and clock updates in to the engine.
func (b *bridge) playGame(ctx context.Context, game *tak.Game) error {
	engine, err := b.initEngine(ctx, game)
	if err != nil {
		return err
	}
	defer engine.Close()

	b.logger.Info("starting game",
		zap.Uint32("id", game.ID),
		zap.Int("size", game.Size),
		zap.String("opponent", game.Opponent),
		zap.String("color", string(game.Color)))

	if game.OurTurn() {
		if err := engine.NewGame(game.Size); err != nil {
			return err
		}
		if err := b.startSearch(engine, game); err != nil {
			return err
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-engine.Lines():
			if !ok {
				return takerr.StreamClosed(nil, "engine")
			}
			if line.Err != nil {
				return line.Err
			}
			if err := b.handleEngineLine(game, line.Text); err != nil {
				return err
			}
		case line, ok := <-b.client.Lines():
			if !ok {
				return takerr.StreamClosed(nil, "server")
			}
			if line.Err != nil {
				return line.Err
			}
			done, err := b.handleServerLine(engine, game, line.Text)
			if err != nil {
				return err
			}
			if done {
				return nil
			}
		}
	}
}

func (b *bridge) startSearch(engine *tei.Session, game *tak.Game) error {
	if err := engine.Position(game.MovesPTN()); err != nil {
		return err
	}
	return engine.Go(game.WhiteMs, game.BlackMs)
}

// handleEngineLine forwards a search result to the server. The move
// goes out on the wire before it is recorded, keeping the history in
// submission order. All other engine output is ignored.
func (b *bridge) handleEngineLine(game *tak.Game, line string) error {
	parts := strings.Fields(line)
	if len(parts) == 0 || parts[0] != "bestmove" {
		return nil
	}
	if len(parts) < 2 {
		return takerr.Parse("bestmove line %q is missing the move", line)
	}
	move, err := tak.ParsePTN(parts[1])
	if err != nil {
		return err
	}
	b.logger.Info("engine move", zap.String("move", parts[1]))
	if err := b.client.Send(move.PlaytakLine(game.ID)); err != nil {
		return err
	}
	game.ApplyMove(move)
	return nil
}

// handleServerLine dispatches one server line during play. Lines tagged
// for another game and untagged chatter are dropped; a NOK is logged
// but not fatal here. The returned flag reports the end of the game.
func (b *bridge) handleServerLine(engine *tei.Session, game *tak.Game, line string) (bool, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false, nil
	}
	if parts[0] == "NOK" {
		b.logger.Error("received NOK from the server")
	}
	if parts[0] != fmt.Sprintf("Game#%d", game.ID) || len(parts) < 2 {
		return false, nil
	}
	switch parts[1] {
	case "Time":
		if err := game.ApplyTimeLine(line); err != nil {
			return false, err
		}
	case "P", "M":
		move, err := tak.ParsePlaytakLine(line)
		if err != nil {
			return false, err
		}
		game.ApplyMove(move)
		b.logger.Info("opponent move", zap.String("move", move.PTN()))
		if err := b.startSearch(engine, game); err != nil {
			return false, err
		}
	case "Over":
		result := ""
		if len(parts) > 2 {
			result = parts[2]
		}
		b.logger.Info("game finished", zap.String("result", result))
		return true, nil
	}
	return false, nil
}
