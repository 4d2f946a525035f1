package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/park285/Tak-PlayTak-bot/internal/bridge"
	"github.com/park285/Tak-PlayTak-bot/internal/config"
	"github.com/park285/Tak-PlayTak-bot/internal/obslog"
	"github.com/park285/Tak-PlayTak-bot/internal/playtak"
	"github.com/park285/Tak-PlayTak-bot/internal/tak"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		usage(os.Stderr)
		return errors.New("a subcommand is required")
	}
	switch args[0] {
	case "list":
		return runList(args[1:])
	case "seek":
		return runSeek(args[1:])
	case "accept":
		return runAccept(args[1:])
	case "help", "-h", "--help":
		usage(os.Stdout)
		return nil
	default:
		usage(os.Stderr)
		return fmt.Errorf("unknown subcommand %q", args[0])
	}
}

func usage(w io.Writer) {
	fmt.Fprint(w, `tak-bot bridges PlayTak.com and a local TEI engine.

Usage:
  tak-bot list [flags]
  tak-bot seek [flags] <engine command> [engine args...]
  tak-bot accept [flags] <engine command> [engine args...]

Subcommands:
  list    print the seeks currently waiting on the server
  seek    post a seek and play the resulting game
  accept  accept a pending seek and play the game

Run 'tak-bot <subcommand> --help' for the flags of each subcommand.
`)
}

type commonFlags struct {
	configPath string
	server     string
	username   string
	password   string
	token      string
	logLevel   string
	logFormat  string
}

func newFlagSet(name string, common *commonFlags) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.StringVar(&common.configPath, "config", "", "path to a YAML configuration file")
	fs.StringVar(&common.server, "server", "", "server address, host:port or a ws:// URL")
	fs.StringVarP(&common.username, "username", "u", "", "account name; requires --password")
	fs.StringVarP(&common.password, "password", "p", "", "account password; requires --username")
	fs.StringVarP(&common.token, "token", "t", "", "guest token to keep a guest identity across runs")
	fs.StringVar(&common.logLevel, "log-level", "", "log level: debug, info, warn or error")
	fs.StringVar(&common.logFormat, "log-format", "", "log format: console or json")
	return fs
}

// setup merges flag values over the loaded configuration and brings up
// the logger.
func setup(common *commonFlags) (*config.AppConfig, error) {
	cfg, err := config.Load(common.configPath)
	if err != nil {
		return nil, err
	}
	if common.server != "" {
		cfg.ServerAddr = common.server
	}
	if common.username != "" {
		cfg.Username = common.username
	}
	if common.password != "" {
		cfg.Password = common.password
	}
	if common.token != "" {
		cfg.GuestToken = common.token
	}
	if common.logLevel != "" {
		cfg.LogLevel = common.logLevel
	}
	if common.logFormat != "" {
		cfg.LogFormat = common.logFormat
	}
	if (cfg.Username == "") != (cfg.Password == "") {
		return nil, errors.New("--username and --password go together")
	}
	if err := obslog.Init(cfg.LogLevel, cfg.LogFormat, cfg.LogFile); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loginLine builds the credentials command. A guest without a saved
// token gets a fresh one so the identity can be resumed later.
func loginLine(cfg *config.AppConfig, logger *zap.Logger) string {
	if cfg.Username != "" {
		return fmt.Sprintf("Login %s %s\n", cfg.Username, cfg.Password)
	}
	token := cfg.GuestToken
	if token == "" {
		token = uuid.NewString()
		logger.Info("generated a guest token for this session; pass it with --token to resume",
			zap.String("token", token))
	}
	return fmt.Sprintf("Login Guest %s\n", token)
}

func bridgeConfig(cfg *config.AppConfig, logger *zap.Logger) bridge.Config {
	return bridge.Config{
		ServerAddr:   cfg.ServerAddr,
		ClientName:   cfg.ClientName,
		DialTimeout:  time.Duration(cfg.DialTimeoutSec) * time.Second,
		PingInterval: time.Duration(cfg.PingIntervalSec) * time.Second,
		LoginLine:    loginLine(cfg, logger),
		Logger:       logger,
	}
}

func rootContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runList(args []string) error {
	var common commonFlags
	fs := newFlagSet("tak-bot list", &common)
	withRatings := fs.Bool("ratings", false, "look up seeker ratings over the HTTP API")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}

	cfg, err := setup(&common)
	if err != nil {
		return err
	}
	defer obslog.Sync()
	logger := obslog.L()

	bcfg := bridgeConfig(cfg, logger)
	bcfg.Mode = bridge.ModeList
	if *withRatings {
		bcfg.Ratings = playtak.NewAPIClient(cfg.APIBaseURL)
	}

	ctx, cancel := rootContext()
	defer cancel()
	return bridge.Run(ctx, bcfg)
}

func runSeek(args []string) error {
	var common commonFlags
	fs := newFlagSet("tak-bot seek", &common)
	size := fs.IntP("size", "s", 0, "board size, 3 to 8")
	gameTime := fs.IntP("time", "m", 0, "base clock in seconds")
	increment := fs.IntP("increment", "i", 0, "clock increment in seconds")
	color := fs.StringP("color", "c", "", "requested color: white, black or random")
	halfKomi := fs.IntP("half-komi", "k", 0, "komi in half flats")
	flatstones := fs.Int("flatstones", 0, "flatstone reserve override")
	capstones := fs.Int("capstones", 0, "capstone reserve override")
	unrated := fs.Bool("unrated", false, "post an unrated seek")
	tournament := fs.Bool("tournament", false, "post a tournament seek")
	extraTimeMove := fs.Int("extra-time-move", 0, "move number that triggers the time bonus")
	extraTimeAmount := fs.Int("extra-time-amount", 0, "time bonus in seconds")
	opponent := fs.StringP("opponent", "o", "", "restrict the seek to one opponent")
	fs.SetInterspersed(false)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := setup(&common)
	if err != nil {
		return err
	}
	defer obslog.Sync()
	logger := obslog.L()

	if !fs.Changed("size") {
		*size = cfg.SeekSize
	}
	if !fs.Changed("time") {
		*gameTime = cfg.SeekTime
	}
	if !fs.Changed("increment") {
		*increment = cfg.SeekIncrement
	}
	if !fs.Changed("color") {
		*color = cfg.SeekColor
	}
	if !fs.Changed("half-komi") {
		*halfKomi = cfg.SeekHalfKomi
	}

	if !tak.ValidSize(*size) {
		return fmt.Errorf("board size %d is not playable; pass --size 3..8", *size)
	}
	seekColor, err := tak.ParseSeekColor(*color)
	if err != nil {
		return err
	}
	engineArgs := fs.Args()
	if len(engineArgs) == 0 {
		return errors.New("an engine command is required after the flags")
	}

	seek := &tak.Seek{
		Size:            *size,
		Time:            *gameTime,
		Increment:       *increment,
		Color:           seekColor,
		HalfKomi:        *halfKomi,
		Unrated:         *unrated,
		Tournament:      *tournament,
		ExtraTimeMove:   *extraTimeMove,
		ExtraTimeAmount: *extraTimeAmount,
		Opponent:        *opponent,
	}
	if fs.Changed("flatstones") {
		seek.Flatstones = flatstones
	}
	if fs.Changed("capstones") {
		seek.Capstones = capstones
	}

	bcfg := bridgeConfig(cfg, logger)
	bcfg.Mode = bridge.ModeSeek
	bcfg.Seek = seek
	bcfg.EngineArgs = engineArgs

	ctx, cancel := rootContext()
	defer cancel()
	return bridge.Run(ctx, bcfg)
}

func runAccept(args []string) error {
	var common commonFlags
	fs := newFlagSet("tak-bot accept", &common)
	seekID := fs.Uint32P("seek", "s", 0, "seek id to accept")
	opponent := fs.StringP("opponent", "o", "", "accept the pending seek from this player")
	fs.SetInterspersed(false)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if (*seekID == 0) == (*opponent == "") {
		return errors.New("exactly one of --seek or --opponent is required")
	}
	engineArgs := fs.Args()
	if len(engineArgs) == 0 {
		return errors.New("an engine command is required after the flags")
	}

	cfg, err := setup(&common)
	if err != nil {
		return err
	}
	defer obslog.Sync()
	logger := obslog.L()

	bcfg := bridgeConfig(cfg, logger)
	bcfg.Mode = bridge.ModeAccept
	bcfg.AcceptID = *seekID
	bcfg.AcceptFrom = *opponent
	bcfg.EngineArgs = engineArgs

	ctx, cancel := rootContext()
	defer cancel()
	return bridge.Run(ctx, bcfg)
}
