package tak

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/park285/Tak-PlayTak-bot/internal/takerr"
)

// SeekColor is the color a seek requests for its poster.
type SeekColor string

const (
	SeekWhite  SeekColor = "white"
	SeekBlack  SeekColor = "black"
	SeekRandom SeekColor = "random"
)

// ParseSeekColor reads a user-supplied color name.
func ParseSeekColor(s string) (SeekColor, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "white", "w":
		return SeekWhite, nil
	case "black", "b":
		return SeekBlack, nil
	case "random", "a", "":
		return SeekRandom, nil
	default:
		return "", fmt.Errorf("unknown color %q, expected white, black or random", s)
	}
}

func parseColorMarker(marker string) (SeekColor, error) {
	switch marker {
	case "W":
		return SeekWhite, nil
	case "B":
		return SeekBlack, nil
	case "A":
		return SeekRandom, nil
	default:
		return "", takerr.Parse("unknown seek color marker %q", marker)
	}
}

func (c SeekColor) marker() string {
	switch c {
	case SeekWhite:
		return "W"
	case SeekBlack:
		return "B"
	default:
		return "A"
	}
}

// Seek is one matchmaking request, either parsed from a server
// announcement or composed locally before posting. ID and Player are
// set only on parsed seeks. Flatstones and Capstones are nil when the
// request does not override the per-size defaults. ExtraTimeMove and
// ExtraTimeAmount are zero when no mid-game time bonus is attached.
type Seek struct {
	ID              uint32
	Player          string
	Size            int
	Time            int
	Increment       int
	Color           SeekColor
	HalfKomi        int
	Flatstones      *int
	Capstones       *int
	Unrated         bool
	Tournament      bool
	ExtraTimeMove   int
	ExtraTimeAmount int
	Opponent        string
}

// FlatstonesForSize returns the standard flatstone reserve for a board
// size. Sizes outside 3..8 yield zero.
func FlatstonesForSize(size int) int {
	switch size {
	case 3:
		return 10
	case 4:
		return 15
	case 5:
		return 21
	case 6:
		return 30
	case 7:
		return 40
	case 8:
		return 50
	default:
		return 0
	}
}

// CapstonesForSize returns the standard capstone reserve for a board
// size. Sizes outside 3..8 yield zero.
func CapstonesForSize(size int) int {
	switch size {
	case 3, 4:
		return 0
	case 5, 6:
		return 1
	case 7, 8:
		return 2
	default:
		return 0
	}
}

// ValidSize reports whether size is a playable board size.
func ValidSize(size int) bool {
	return size >= 3 && size <= 8
}

// FlatstoneCount resolves the effective flatstone reserve.
func (s *Seek) FlatstoneCount() int {
	if s.Flatstones != nil {
		return *s.Flatstones
	}
	return FlatstonesForSize(s.Size)
}

// CapstoneCount resolves the effective capstone reserve.
func (s *Seek) CapstoneCount() int {
	if s.Capstones != nil {
		return *s.Capstones
	}
	return CapstonesForSize(s.Size)
}

func parseNumField(name, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, takerr.Parse("could not parse %s %q", name, value)
	}
	return n, nil
}

func parseBoolField(name, value string) (bool, error) {
	switch value {
	case "0":
		return false, nil
	case "1":
		return true, nil
	default:
		return false, takerr.Parse("could not parse %s %q", name, value)
	}
}

// ParseSeek decodes a "Seek new ..." announcement. The two tag words
// are followed by thirteen fixed fields and an optional opponent name.
// Zero-valued extra-time fields mean no bonus is attached.
func ParseSeek(line string) (Seek, error) {
	parts := strings.Fields(line)
	if len(parts) < 15 {
		return Seek{}, takerr.Parse("seek line %q is too short", line)
	}

	var (
		seek Seek
		err  error
	)
	id, err := parseNumField("seek id", parts[2])
	if err != nil {
		return Seek{}, err
	}
	seek.ID = uint32(id)
	seek.Player = parts[3]
	if seek.Size, err = parseNumField("board size", parts[4]); err != nil {
		return Seek{}, err
	}
	if seek.Time, err = parseNumField("base time", parts[5]); err != nil {
		return Seek{}, err
	}
	if seek.Increment, err = parseNumField("increment", parts[6]); err != nil {
		return Seek{}, err
	}
	if seek.Color, err = parseColorMarker(parts[7]); err != nil {
		return Seek{}, err
	}
	if seek.HalfKomi, err = parseNumField("half-komi", parts[8]); err != nil {
		return Seek{}, err
	}
	flats, err := parseNumField("flatstone count", parts[9])
	if err != nil {
		return Seek{}, err
	}
	seek.Flatstones = &flats
	caps, err := parseNumField("capstone count", parts[10])
	if err != nil {
		return Seek{}, err
	}
	seek.Capstones = &caps
	if seek.Unrated, err = parseBoolField("unrated flag", parts[11]); err != nil {
		return Seek{}, err
	}
	if seek.Tournament, err = parseBoolField("tournament flag", parts[12]); err != nil {
		return Seek{}, err
	}
	if seek.ExtraTimeMove, err = parseNumField("extra-time move", parts[13]); err != nil {
		return Seek{}, err
	}
	if seek.ExtraTimeAmount, err = parseNumField("extra-time amount", parts[14]); err != nil {
		return Seek{}, err
	}
	if len(parts) > 15 {
		seek.Opponent = parts[15]
	}
	return seek, nil
}

// SeekCommand renders the posting command for the server, trailing
// newline included. Unset reserves fall back to the per-size defaults.
func (s *Seek) SeekCommand() string {
	return fmt.Sprintf("Seek %d %d %d %s %d %d %d %d %d %d %d %s\n",
		s.Size, s.Time, s.Increment, s.Color.marker(), s.HalfKomi,
		s.FlatstoneCount(), s.CapstoneCount(),
		boolFlag(s.Unrated), boolFlag(s.Tournament),
		s.ExtraTimeMove, s.ExtraTimeAmount, s.Opponent)
}

func boolFlag(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Describe renders the seek for human display in list mode. Reserve
// counts appear only when they differ from the per-size defaults.
func (s *Seek) Describe() string {
	var b strings.Builder
	b.WriteString("  Seek")
	if s.ID != 0 {
		fmt.Fprintf(&b, " %d", s.ID)
	}
	b.WriteString(": ")
	b.WriteString(s.Player)
	b.WriteByte('\n')
	fmt.Fprintf(&b, "      size: %d, seeker color: %s, time: %d+%d, komi: %.1f",
		s.Size, s.Color, s.Time, s.Increment, float64(s.HalfKomi)/2)
	if s.FlatstoneCount() != FlatstonesForSize(s.Size) {
		fmt.Fprintf(&b, ", flatstones: %d", s.FlatstoneCount())
	}
	if s.CapstoneCount() != CapstonesForSize(s.Size) {
		fmt.Fprintf(&b, ", capstones: %d", s.CapstoneCount())
	}
	if s.Unrated {
		b.WriteString(", unrated")
	}
	if s.Tournament {
		b.WriteString(", tournament")
	}
	if s.Opponent != "" {
		fmt.Fprintf(&b, ", opponent: %s", s.Opponent)
	}
	return b.String()
}
