package tak

import (
	"reflect"
	"testing"
)

const gameStartWhite = "Game Start 123456 5 TakBot vs Alice white 600 4 21 1"
const gameStartBlack = "Game Start 123456 5 Alice vs TakBot black 600 4 21 1"

func TestParseGameStart(t *testing.T) {
	game, err := ParseGameStart(gameStartWhite)
	if err != nil {
		t.Fatalf("ParseGameStart: %v", err)
	}
	if game.ID != 123456 || game.Size != 5 {
		t.Fatalf("id/size = %d/%d, want 123456/5", game.ID, game.Size)
	}
	if game.Color != White {
		t.Fatalf("color = %q, want white", game.Color)
	}
	if game.Opponent != "Alice" {
		t.Fatalf("opponent = %q, want Alice", game.Opponent)
	}
	if game.WhiteMs != 600000 || game.BlackMs != 600000 {
		t.Fatalf("clocks = %d/%d, want 600000 each", game.WhiteMs, game.BlackMs)
	}
	if game.HalfKomi != 4 || game.Flatstones != 21 || game.Capstones != 1 {
		t.Fatalf("rules = %d/%d/%d, want 4/21/1", game.HalfKomi, game.Flatstones, game.Capstones)
	}
}

func TestParseGameStartBlack(t *testing.T) {
	game, err := ParseGameStart(gameStartBlack)
	if err != nil {
		t.Fatalf("ParseGameStart: %v", err)
	}
	if game.Color != Black {
		t.Fatalf("color = %q, want black", game.Color)
	}
	if game.Opponent != "Alice" {
		t.Fatalf("opponent = %q, want Alice", game.Opponent)
	}
}

func TestParseGameStartErrors(t *testing.T) {
	cases := []string{
		"Game Start 123456 5 TakBot vs Alice",
		"Game Start 123456 5 TakBot vs Alice green 600 4 21 1",
		"Game Start x 5 TakBot vs Alice white 600 4 21 1",
		"Game Start 123456 5 TakBot vs Alice white x 4 21 1",
	}
	for _, line := range cases {
		if _, err := ParseGameStart(line); err == nil {
			t.Fatalf("ParseGameStart(%q) succeeded, want error", line)
		}
	}
}

func TestOurTurn(t *testing.T) {
	game := &Game{Color: White}
	if !game.OurTurn() {
		t.Fatalf("white to move first")
	}
	game.ApplyMove(Place(0, 0, Flatstone))
	if game.OurTurn() {
		t.Fatalf("black to move after one move")
	}

	game = &Game{Color: Black}
	if game.OurTurn() {
		t.Fatalf("black does not open")
	}
	game.ApplyMove(Place(0, 0, Flatstone))
	if !game.OurTurn() {
		t.Fatalf("black to move after one move")
	}
}

func TestApplyTimeLine(t *testing.T) {
	game := &Game{ID: 9, WhiteMs: 600000, BlackMs: 600000}
	if err := game.ApplyTimeLine("Game#9 Time 541 583"); err != nil {
		t.Fatalf("ApplyTimeLine: %v", err)
	}
	if game.WhiteMs != 541000 || game.BlackMs != 583000 {
		t.Fatalf("clocks = %d/%d, want 541000/583000", game.WhiteMs, game.BlackMs)
	}

	if err := game.ApplyTimeLine("Game#9 Time x 583"); err == nil {
		t.Fatalf("malformed time line accepted")
	}
	if err := game.ApplyTimeLine("Game#9 Time"); err == nil {
		t.Fatalf("short time line accepted")
	}
}

func TestMovesPTN(t *testing.T) {
	game := &Game{}
	game.ApplyMove(Place(0, 0, Flatstone))
	game.ApplyMove(Place(4, 4, Flatstone))
	game.ApplyMove(Spread(0, 0, North, 1))
	want := []string{"a1", "e5", "a1+"}
	if got := game.MovesPTN(); !reflect.DeepEqual(got, want) {
		t.Fatalf("MovesPTN() = %v, want %v", got, want)
	}
}
