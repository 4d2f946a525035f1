package tei

import (
	"errors"
	"fmt"
	"testing"

	"github.com/park285/Tak-PlayTak-bot/internal/takerr"
)

func TestParseSpinOption(t *testing.T) {
	option, err := ParseSpinOption("option name HalfKomi type spin default 0 min -20 max 20")
	if err != nil {
		t.Fatalf("ParseSpinOption: %v", err)
	}
	if option.Name != "HalfKomi" || option.Default != 0 || option.Min != -20 || option.Max != 20 {
		t.Fatalf("ParseSpinOption = %+v", option)
	}
	if !option.InRange(-20) || !option.InRange(20) || option.InRange(21) {
		t.Fatalf("InRange bounds wrong for %+v", option)
	}
}

func TestParseSpinOptionErrors(t *testing.T) {
	cases := []string{
		"option type spin default 0 min 0 max 8 name",
		"option name Flatstones type spin default x min 0 max 99",
		"option name Flatstones type spin default 21 min 0 max",
	}
	for _, line := range cases {
		if _, err := ParseSpinOption(line); err == nil {
			t.Fatalf("ParseSpinOption(%q) succeeded, want error", line)
		}
	}
}

type optionRecorder struct {
	commands []string
	err      error
}

func (r *optionRecorder) SetOption(name string, value int) error {
	r.commands = append(r.commands, fmt.Sprintf("%s=%d", name, value))
	return r.err
}

func TestNegotiateAdvertised(t *testing.T) {
	advertised := []SpinOption{{Name: "HalfKomi", Default: 0, Min: 0, Max: 8}}
	rec := &optionRecorder{}
	if err := Negotiate(rec, advertised, "HalfKomi", 4, 0, nil); err != nil {
		t.Fatalf("Negotiate: %v", err)
	}
	if len(rec.commands) != 1 || rec.commands[0] != "HalfKomi=4" {
		t.Fatalf("commands = %v, want [HalfKomi=4]", rec.commands)
	}
}

func TestNegotiateMatchesEngineDefault(t *testing.T) {
	advertised := []SpinOption{{Name: "HalfKomi", Default: 4, Min: 0, Max: 8}}
	rec := &optionRecorder{}
	if err := Negotiate(rec, advertised, "HalfKomi", 4, 0, nil); err != nil {
		t.Fatalf("Negotiate: %v", err)
	}
	if len(rec.commands) != 0 {
		t.Fatalf("commands = %v, want none", rec.commands)
	}
}

func TestNegotiateOutOfRangeStillSent(t *testing.T) {
	advertised := []SpinOption{{Name: "Flatstones", Default: 21, Min: 10, Max: 50}}
	rec := &optionRecorder{}
	if err := Negotiate(rec, advertised, "Flatstones", 99, 21, nil); err != nil {
		t.Fatalf("Negotiate: %v", err)
	}
	if len(rec.commands) != 1 || rec.commands[0] != "Flatstones=99" {
		t.Fatalf("commands = %v, want [Flatstones=99]", rec.commands)
	}
}

func TestNegotiateUnadvertised(t *testing.T) {
	rec := &optionRecorder{}
	if err := Negotiate(rec, nil, "Capstones", 1, 1, nil); err != nil {
		t.Fatalf("Negotiate with matching assumed default: %v", err)
	}
	if len(rec.commands) != 0 {
		t.Fatalf("commands = %v, want none", rec.commands)
	}

	err := Negotiate(rec, nil, "Capstones", 2, 1, nil)
	if err == nil {
		t.Fatalf("Negotiate succeeded, want OPTION_MISMATCH")
	}
	if !takerr.HasCode(err, takerr.CodeOptionMismatch) {
		t.Fatalf("error = %v, want OPTION_MISMATCH", err)
	}
}

func TestNegotiatePropagatesWriteError(t *testing.T) {
	advertised := []SpinOption{{Name: "HalfKomi", Default: 0, Min: 0, Max: 8}}
	rec := &optionRecorder{err: errors.New("pipe broken")}
	if err := Negotiate(rec, advertised, "HalfKomi", 4, 0, nil); err == nil {
		t.Fatalf("Negotiate swallowed the write error")
	}
}
