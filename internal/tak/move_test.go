package tak

import (
	"reflect"
	"testing"
)

func TestParseSquare(t *testing.T) {
	cases := []struct {
		in   string
		x, y int
	}{
		{"a1", 0, 0},
		{"b4", 1, 3},
		{"B4", 1, 3},
		{"h9", 7, 8},
	}
	for _, c := range cases {
		x, y, err := ParseSquare(c.in)
		if err != nil {
			t.Fatalf("ParseSquare(%q): %v", c.in, err)
		}
		if x != c.x || y != c.y {
			t.Fatalf("ParseSquare(%q) = (%d, %d), want (%d, %d)", c.in, x, y, c.x, c.y)
		}
	}

	for _, in := range []string{"", "a", "a10", "i1", "x9", "a0", "aa"} {
		if _, _, err := ParseSquare(in); err == nil {
			t.Fatalf("ParseSquare(%q) succeeded, want error", in)
		}
	}
}

func TestFormatSquare(t *testing.T) {
	if got := FormatSquare(2, 5); got != "c6" {
		t.Fatalf("FormatSquare(2, 5) = %q, want %q", got, "c6")
	}
	if got := FormatSquare(0, 0); got != "a1" {
		t.Fatalf("FormatSquare(0, 0) = %q, want %q", got, "a1")
	}
}

func TestSquareRoundTrip(t *testing.T) {
	for size := 3; size <= 8; size++ {
		for x := 0; x < size; x++ {
			for y := 0; y < size; y++ {
				s := FormatSquare(x, y)
				gx, gy, err := ParseSquare(s)
				if err != nil {
					t.Fatalf("ParseSquare(%q): %v", s, err)
				}
				if gx != x || gy != y {
					t.Fatalf("round trip of (%d, %d) via %q produced (%d, %d)", x, y, s, gx, gy)
				}
			}
		}
	}
}

func TestParsePTN(t *testing.T) {
	cases := []struct {
		in   string
		want Move
	}{
		{"a1", Place(0, 0, Flatstone)},
		{"Sc5", Place(2, 4, StandingStone)},
		{"Ca1", Place(0, 0, Capstone)},
		{"Fb2", Place(1, 1, Flatstone)},
		{"b4+", Spread(1, 3, North, 1)},
		{"5b2>122", Spread(1, 1, East, 1, 2, 2)},
		{"3b4+", Spread(1, 3, North, 3)},
		{"c3-", Spread(2, 2, South, 1)},
		{"d4<", Spread(3, 3, West, 1)},
		{"5f2<221*", Spread(5, 1, West, 2, 2, 1)},
	}
	for _, c := range cases {
		got, err := ParsePTN(c.in)
		if err != nil {
			t.Fatalf("ParsePTN(%q): %v", c.in, err)
		}
		if !reflect.DeepEqual(got, c.want) {
			t.Fatalf("ParsePTN(%q) = %+v, want %+v", c.in, got, c.want)
		}
	}
}

func TestParsePTNErrors(t *testing.T) {
	for _, in := range []string{"", "a", "S", "5", "x9", "a0", "b4?", "Sx5"} {
		if _, err := ParsePTN(in); err == nil {
			t.Fatalf("ParsePTN(%q) succeeded, want error", in)
		}
	}
}

func TestPTNEncode(t *testing.T) {
	cases := []struct {
		in   Move
		want string
	}{
		{Place(0, 0, Flatstone), "a1"},
		{Place(2, 4, StandingStone), "Sc5"},
		{Place(2, 5, Capstone), "Cc6"},
		{Spread(1, 3, North, 1), "b4+"},
		{Spread(1, 3, North, 3), "3b4+"},
		{Spread(1, 1, East, 1, 2, 2), "5b2>122"},
		{Spread(5, 1, West, 2, 2, 1), "5f2<221"},
	}
	for _, c := range cases {
		if got := c.in.PTN(); got != c.want {
			t.Fatalf("PTN(%+v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestPTNRoundTrip(t *testing.T) {
	for _, in := range []string{"a1", "Sc5", "Ca1", "b4+", "3b4+", "5b2>122", "8h8<1223"} {
		m, err := ParsePTN(in)
		if err != nil {
			t.Fatalf("ParsePTN(%q): %v", in, err)
		}
		if got := m.PTN(); got != in {
			t.Fatalf("round trip of %q produced %q", in, got)
		}
	}
}

func TestParsePlaytakLine(t *testing.T) {
	cases := []struct {
		in   string
		want Move
	}{
		{"Game#123456 P A1", Place(0, 0, Flatstone)},
		{"Game#123456 P C6 C", Place(2, 5, Capstone)},
		{"Game#123456 P B2 W", Place(1, 1, StandingStone)},
		{"Game#123456 M B4 F4 2 1 2 1", Spread(1, 3, East, 2, 1, 2, 1)},
		{"Game#1 M C3 C2 1", Spread(2, 2, South, 1)},
		{"Game#1 M C3 C5 1 2", Spread(2, 2, North, 1, 2)},
		{"Game#1 M C3 A3 2 1", Spread(2, 2, West, 2, 1)},
	}
	for _, c := range cases {
		got, err := ParsePlaytakLine(c.in)
		if err != nil {
			t.Fatalf("ParsePlaytakLine(%q): %v", c.in, err)
		}
		if !reflect.DeepEqual(got, c.want) {
			t.Fatalf("ParsePlaytakLine(%q) = %+v, want %+v", c.in, got, c.want)
		}
	}
}

func TestParsePlaytakLineErrors(t *testing.T) {
	cases := []string{
		"Game#1 P",
		"Game#1 P Z9",
		"Game#1 P A1 Q",
		"Game#1 X A1",
		"Game#1 M A1 B1",
		"Game#1 M A1 B2 1",
		"Game#1 M A1 A1 1",
		"Game#1 M A1 B1 x",
	}
	for _, in := range cases {
		if _, err := ParsePlaytakLine(in); err == nil {
			t.Fatalf("ParsePlaytakLine(%q) succeeded, want error", in)
		}
	}
}

func TestPlaytakRoundTrip(t *testing.T) {
	moves := []Move{
		Place(0, 0, Flatstone),
		Place(3, 6, StandingStone),
		Place(7, 7, Capstone),
		Spread(1, 3, North, 2),
		Spread(4, 4, South, 1, 1),
		Spread(0, 2, East, 3, 2, 1),
		Spread(6, 5, West, 1),
	}
	for _, m := range moves {
		line := m.PlaytakLine(31)
		got, err := ParsePlaytakLine(line)
		if err != nil {
			t.Fatalf("ParsePlaytakLine(%q): %v", line, err)
		}
		if !reflect.DeepEqual(got, m) {
			t.Fatalf("round trip of %+v via %q produced %+v", m, line, got)
		}
	}
}

func TestPlaytakLineEncode(t *testing.T) {
	cases := []struct {
		in   Move
		id   uint32
		want string
	}{
		{Place(2, 5, Capstone), 123456, "Game#123456 P C6 C\n"},
		{Place(0, 0, Flatstone), 1, "Game#1 P A1\n"},
		{Place(1, 1, StandingStone), 7, "Game#7 P B2 W\n"},
		{Spread(1, 3, East, 2, 1, 2, 1), 123456, "Game#123456 M B4 F4 2 1 2 1\n"},
		{Spread(2, 2, South, 1), 9, "Game#9 M C3 C2 1\n"},
	}
	for _, c := range cases {
		if got := c.in.PlaytakLine(c.id); got != c.want {
			t.Fatalf("PlaytakLine(%+v, %d) = %q, want %q", c.in, c.id, got, c.want)
		}
	}
}
