package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/park285/Tak-PlayTak-bot/internal/tak/tei"
)

// tei-check spawns an engine, runs the handshake and reports what it
// advertises. With TEI_CHECK_SIZE set it also requests one short search
// so a new engine build can be smoke-tested before pointing the bot at
// it.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: tei-check <engine command> [engine args...]")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	engine, err := tei.Start(ctx, os.Args[1:], zap.NewNop())
	if err != nil {
		log.Fatalf("spawn error: %v", err)
	}
	defer engine.Close()

	name, options, err := engine.Handshake(ctx)
	if err != nil {
		log.Fatalf("handshake error: %v", err)
	}
	log.Printf("engine ok: %s", name)
	for _, opt := range options {
		log.Printf("option %s default=%d min=%d max=%d", opt.Name, opt.Default, opt.Min, opt.Max)
	}

	sizeEnv := os.Getenv("TEI_CHECK_SIZE")
	if sizeEnv == "" {
		log.Println("TEI_CHECK_SIZE not set; skipping search check")
		return
	}
	size, err := strconv.Atoi(sizeEnv)
	if err != nil {
		log.Fatalf("TEI_CHECK_SIZE: %v", err)
	}

	if err := engine.NewGame(size); err != nil {
		log.Fatalf("teinewgame error: %v", err)
	}
	if err := engine.Position(nil); err != nil {
		log.Fatalf("position error: %v", err)
	}
	if err := engine.Go(10000, 10000); err != nil {
		log.Fatalf("go error: %v", err)
	}

	sctx, scancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer scancel()
	for {
		line, err := engine.Next(sctx)
		if err != nil {
			log.Fatalf("search error: %v", err)
		}
		if strings.HasPrefix(line, "bestmove ") {
			fmt.Printf("bestmove on a size %d board: %s\n", size, strings.TrimPrefix(line, "bestmove "))
			return
		}
		log.Printf("engine: %s", line)
	}
}
