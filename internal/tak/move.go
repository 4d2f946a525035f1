package tak

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/park285/Tak-PlayTak-bot/internal/takerr"
)

// PieceType is the stone kind of a placement.
type PieceType uint8

const (
	Flatstone PieceType = iota
	StandingStone
	Capstone
)

// Direction is the travel direction of a spread.
type Direction uint8

const (
	North Direction = iota
	South
	East
	West
)

func (d Direction) marker() byte {
	switch d {
	case North:
		return '+'
	case South:
		return '-'
	case East:
		return '>'
	default:
		return '<'
	}
}

func (d Direction) offset(n int) (dx, dy int) {
	switch d {
	case North:
		return 0, n
	case South:
		return 0, -n
	case East:
		return n, 0
	default:
		return -n, 0
	}
}

// MoveKind discriminates the two move shapes.
type MoveKind uint8

const (
	MovePlace MoveKind = iota
	MoveSpread
)

// Move is one Tak move. Kind selects which fields are meaningful: a
// place uses Piece, a spread uses Direction and Drops. X and Y are the
// 0-based coordinates of the placement square or the spread origin.
type Move struct {
	Kind      MoveKind
	X, Y      int
	Piece     PieceType
	Direction Direction
	Drops     []int
}

// Place builds a placement move.
func Place(x, y int, piece PieceType) Move {
	return Move{Kind: MovePlace, X: x, Y: y, Piece: piece}
}

// Spread builds a stack move with one drop count per square travelled.
func Spread(x, y int, dir Direction, drops ...int) Move {
	return Move{Kind: MoveSpread, X: x, Y: y, Direction: dir, Drops: drops}
}

func (m Move) String() string {
	return m.PTN()
}

const files = "abcdefgh"

// ParseSquare converts a two-character square such as "b4" into 0-based
// coordinates. Files run a..h, ranks 1..9; the file letter may be in
// either case.
func ParseSquare(s string) (x, y int, err error) {
	if len(s) != 2 {
		return 0, 0, takerr.Parse("square %q must be two characters", s)
	}
	file := s[0]
	if file >= 'A' && file <= 'Z' {
		file += 'a' - 'A'
	}
	x = strings.IndexByte(files, file)
	if x < 0 {
		return 0, 0, takerr.Parse("square %q has no valid file letter", s)
	}
	y = int(s[1]) - '1'
	if y < 0 || y > 8 {
		return 0, 0, takerr.Parse("square %q has no valid rank digit", s)
	}
	return x, y, nil
}

// FormatSquare renders 0-based coordinates as a lowercase square.
func FormatSquare(x, y int) string {
	return string([]byte{byte('a' + x), byte('1' + y)})
}

// ParsePTN decodes a move in engine notation, for example "a1", "Sc5"
// or "5b2>122". A trailing non-digit annotation after the drop counts,
// such as the smash marker "*", is tolerated and ignored.
func ParsePTN(s string) (Move, error) {
	rest := s
	piece := Flatstone
	pickup := 1
	if rest != "" {
		switch c := rest[0]; {
		case c == 'S':
			piece = StandingStone
			rest = rest[1:]
		case c == 'C':
			piece = Capstone
			rest = rest[1:]
		case c == 'F':
			rest = rest[1:]
		case c >= '0' && c <= '9':
			pickup = int(c - '0')
			rest = rest[1:]
		}
	}
	if len(rest) < 2 {
		return Move{}, takerr.Parse("move %q is too short", s)
	}
	x, y, err := ParseSquare(rest[:2])
	if err != nil {
		return Move{}, err
	}
	rest = rest[2:]
	if rest == "" {
		return Place(x, y, piece), nil
	}

	var dir Direction
	switch rest[0] {
	case '+':
		dir = North
	case '-':
		dir = South
	case '>':
		dir = East
	case '<':
		dir = West
	default:
		return Move{}, takerr.Parse("move %q has an invalid direction marker", s)
	}
	drops := make([]int, 0, len(rest)-1)
	for i := 1; i < len(rest); i++ {
		if rest[i] < '0' || rest[i] > '9' {
			break
		}
		drops = append(drops, int(rest[i]-'0'))
	}
	if len(drops) == 0 {
		drops = append(drops, pickup)
	}
	return Spread(x, y, dir, drops...), nil
}

// PTN renders the move in engine notation. A spread writes its total
// pickup count only when it exceeds one, and its drop sequence only
// when it spans more than one square.
func (m Move) PTN() string {
	var b strings.Builder
	if m.Kind == MovePlace {
		switch m.Piece {
		case StandingStone:
			b.WriteByte('S')
		case Capstone:
			b.WriteByte('C')
		}
		b.WriteString(FormatSquare(m.X, m.Y))
		return b.String()
	}
	total := 0
	for _, d := range m.Drops {
		total += d
	}
	if total > 1 {
		b.WriteString(strconv.Itoa(total))
	}
	b.WriteString(FormatSquare(m.X, m.Y))
	b.WriteByte(m.Direction.marker())
	if len(m.Drops) > 1 {
		for _, d := range m.Drops {
			b.WriteByte(byte('0' + d))
		}
	}
	return b.String()
}

// ParsePlaytakLine decodes a server move line, either
// "Game#<id> P <SQ> [W|C]" or "Game#<id> M <SRC> <DST> <drops...>".
// The game tag itself is not interpreted here; callers match it before
// applying the move.
func ParsePlaytakLine(line string) (Move, error) {
	parts := strings.Fields(line)
	if len(parts) < 3 {
		return Move{}, takerr.Parse("move line %q is too short", line)
	}
	switch parts[1] {
	case "P":
		x, y, err := ParseSquare(parts[2])
		if err != nil {
			return Move{}, err
		}
		piece := Flatstone
		if len(parts) > 3 {
			switch parts[3] {
			case "W":
				piece = StandingStone
			case "C":
				piece = Capstone
			default:
				return Move{}, takerr.Parse("move line %q has an invalid piece marker", line)
			}
		}
		return Place(x, y, piece), nil
	case "M":
		if len(parts) < 5 {
			return Move{}, takerr.Parse("move line %q is missing drop counts", line)
		}
		x, y, err := ParseSquare(parts[2])
		if err != nil {
			return Move{}, err
		}
		tx, ty, err := ParseSquare(parts[3])
		if err != nil {
			return Move{}, err
		}
		var dir Direction
		switch {
		case tx == x && ty > y:
			dir = North
		case tx == x && ty < y:
			dir = South
		case ty == y && tx > x:
			dir = East
		case ty == y && tx < x:
			dir = West
		default:
			return Move{}, takerr.Parse("move line %q is not an orthogonal spread", line)
		}
		drops := make([]int, 0, len(parts)-4)
		for _, p := range parts[4:] {
			n, err := strconv.Atoi(p)
			if err != nil {
				return Move{}, takerr.Parse("move line %q has an invalid drop count %q", line, p)
			}
			drops = append(drops, n)
		}
		return Spread(x, y, dir, drops...), nil
	default:
		return Move{}, takerr.Parse("move line %q has an unknown move marker %q", line, parts[1])
	}
}

// PlaytakLine encodes the move as a server command for the given game,
// trailing newline included. Squares are uppercased and a spread's
// destination is recomputed from the drop sequence length.
func (m Move) PlaytakLine(gameID uint32) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Game#%d", gameID)
	if m.Kind == MovePlace {
		b.WriteString(" P ")
		b.WriteString(strings.ToUpper(FormatSquare(m.X, m.Y)))
		switch m.Piece {
		case StandingStone:
			b.WriteString(" W")
		case Capstone:
			b.WriteString(" C")
		}
	} else {
		dx, dy := m.Direction.offset(len(m.Drops))
		b.WriteString(" M ")
		b.WriteString(strings.ToUpper(FormatSquare(m.X, m.Y)))
		b.WriteByte(' ')
		b.WriteString(strings.ToUpper(FormatSquare(m.X+dx, m.Y+dy)))
		for _, d := range m.Drops {
			fmt.Fprintf(&b, " %d", d)
		}
	}
	b.WriteByte('\n')
	return b.String()
}
