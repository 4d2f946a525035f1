package tak

import (
	"strings"

	"github.com/park285/Tak-PlayTak-bot/internal/takerr"
)

// Color is the side this client plays in a game.
type Color string

const (
	White Color = "white"
	Black Color = "black"
)

// Game is the authoritative state of the one match a session plays:
// identity, rule parameters, both clocks and the move history. Clocks
// are kept in milliseconds, ready for the engine's time controls.
type Game struct {
	ID         uint32
	Size       int
	Opponent   string
	Color      Color
	WhiteMs    int
	BlackMs    int
	HalfKomi   int
	Flatstones int
	Capstones  int
	Moves      []Move
}

// ParseGameStart decodes a "Game Start" announcement. The line names
// both players and our own color; the opponent is whichever player we
// are not. The single base time seeds both clocks.
func ParseGameStart(line string) (*Game, error) {
	parts := strings.Fields(line)
	if len(parts) < 12 {
		return nil, takerr.Parse("game start line %q is too short", line)
	}

	var game Game
	switch parts[7] {
	case "white":
		game.Color = White
		game.Opponent = parts[6]
	case "black":
		game.Color = Black
		game.Opponent = parts[4]
	default:
		return nil, takerr.Parse("could not parse player color %q", parts[7])
	}

	id, err := parseNumField("game id", parts[2])
	if err != nil {
		return nil, err
	}
	game.ID = uint32(id)
	if game.Size, err = parseNumField("board size", parts[3]); err != nil {
		return nil, err
	}
	seconds, err := parseNumField("game time", parts[8])
	if err != nil {
		return nil, err
	}
	game.WhiteMs = seconds * 1000
	game.BlackMs = seconds * 1000
	if game.HalfKomi, err = parseNumField("half-komi", parts[9]); err != nil {
		return nil, err
	}
	if game.Flatstones, err = parseNumField("flatstone count", parts[10]); err != nil {
		return nil, err
	}
	if game.Capstones, err = parseNumField("capstone count", parts[11]); err != nil {
		return nil, err
	}
	return &game, nil
}

// OurTurn reports whether our side moves next: white on an even number
// of played moves, black on an odd one.
func (g *Game) OurTurn() bool {
	return (g.Color == White) == (len(g.Moves)%2 == 0)
}

// ApplyMove appends one move to the history.
func (g *Game) ApplyMove(m Move) {
	g.Moves = append(g.Moves, m)
}

// ApplyTimeLine replaces both clocks from a server "Time" update, which
// carries whole seconds for white and black.
func (g *Game) ApplyTimeLine(line string) error {
	parts := strings.Fields(line)
	if len(parts) < 4 {
		return takerr.Parse("time line %q is too short", line)
	}
	white, err := parseNumField("white time", parts[2])
	if err != nil {
		return err
	}
	black, err := parseNumField("black time", parts[3])
	if err != nil {
		return err
	}
	g.WhiteMs = white * 1000
	g.BlackMs = black * 1000
	return nil
}

// MovesPTN renders the history in engine notation.
func (g *Game) MovesPTN() []string {
	moves := make([]string, len(g.Moves))
	for i, m := range g.Moves {
		moves[i] = m.PTN()
	}
	return moves
}
