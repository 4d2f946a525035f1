package tei

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/park285/Tak-PlayTak-bot/internal/takerr"
)

// SpinOption is one integer setting advertised by the engine during the
// handshake.
type SpinOption struct {
	Name    string
	Default int
	Min     int
	Max     int
}

// InRange reports whether value lies in the option's inclusive range.
func (o SpinOption) InRange(value int) bool {
	return value >= o.Min && value <= o.Max
}

// ParseSpinOption reads an advertisement of the form
// "option name <name> type spin default <d> min <lo> max <hi>".
// The keyword pairs may appear in any order; unknown tokens are
// skipped. Values may be negative.
func ParseSpinOption(line string) (SpinOption, error) {
	var option SpinOption
	parts := strings.Fields(line)
	next := func(i int, keyword string) (string, error) {
		if i+1 >= len(parts) {
			return "", takerr.Parse("option line %q ends after %q", line, keyword)
		}
		return parts[i+1], nil
	}
	for i := 0; i < len(parts); i++ {
		switch parts[i] {
		case "name":
			value, err := next(i, "name")
			if err != nil {
				return SpinOption{}, err
			}
			option.Name = value
			i++
		case "default":
			value, err := next(i, "default")
			if err != nil {
				return SpinOption{}, err
			}
			n, err := strconv.Atoi(value)
			if err != nil {
				return SpinOption{}, takerr.Parse("option line %q has a non-integer default %q", line, value)
			}
			option.Default = n
			i++
		case "min":
			value, err := next(i, "min")
			if err != nil {
				return SpinOption{}, err
			}
			n, err := strconv.Atoi(value)
			if err != nil {
				return SpinOption{}, takerr.Parse("option line %q has a non-integer min %q", line, value)
			}
			option.Min = n
			i++
		case "max":
			value, err := next(i, "max")
			if err != nil {
				return SpinOption{}, err
			}
			n, err := strconv.Atoi(value)
			if err != nil {
				return SpinOption{}, takerr.Parse("option line %q has a non-integer max %q", line, value)
			}
			option.Max = n
			i++
		}
	}
	return option, nil
}

// optionSetter is the slice of Session that Negotiate writes through.
type optionSetter interface {
	SetOption(name string, value int) error
}

// Negotiate reconciles one required setting against the engine's
// advertised options. When the engine advertises the option, a value
// matching the engine's own default needs no command, and a value
// outside the advertised range is still sent after a warning. When the
// engine does not advertise the option, the value must match
// assumedDefault or the engine cannot play this game.
func Negotiate(s optionSetter, advertised []SpinOption, name string, value, assumedDefault int, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	for _, option := range advertised {
		if option.Name != name {
			continue
		}
		if value == option.Default {
			logger.Debug("option already at engine default",
				zap.String("option", name), zap.Int("value", value))
			return nil
		}
		if !option.InRange(value) {
			logger.Warn("setting option outside the advertised range",
				zap.String("option", name), zap.Int("value", value),
				zap.Int("min", option.Min), zap.Int("max", option.Max))
		}
		return s.SetOption(name, value)
	}
	if value != assumedDefault {
		return takerr.OptionMismatch(
			"engine does not support option %s and value %d differs from the assumed default %d",
			name, value, assumedDefault)
	}
	return nil
}
