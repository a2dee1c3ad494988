package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/Brownie44l1/boardgate/internal/board"
	"github.com/Brownie44l1/boardgate/internal/gateway"
	"github.com/Brownie44l1/boardgate/internal/server"
)

// defaultBoardName is set at build time with -ldflags "-X main.defaultBoardName=..."
var defaultBoardName = "guWhiteboard"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stderr))
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("boardgate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	port := fs.Int("p", server.DefaultPort, "")
	name := fs.String("w", defaultBoardName, "")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: boardgate [-p port] [-w board]\n")
		fmt.Fprintf(stderr, "\t-p\tWeb Server Port, default: %d\n", server.DefaultPort)
		fmt.Fprintf(stderr, "\t-w\tname of the board to interact with, default: %s\n", defaultBoardName)
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return 1
	}

	logger := server.NewDefaultLogger(stderr)

	cfg := server.DefaultConfig()
	cfg.Addr = ":" + strconv.Itoa(*port)

	b := board.New(*name)
	gw := gateway.New(b, logger)

	srv := server.New(cfg, gw.Router())
	srv.Logger = logger
	srv.Use(server.RecoveryMiddleware(logger))
	srv.Use(server.LoggingMiddleware(logger))

	logger.Info("starting", server.Field{Key: "board", Value: b.ID()}, server.Field{Key: "addr", Value: cfg.Addr})

	if err := srv.ListenAndServe(ctx); err != nil {
		logger.Error("server error", server.Field{Key: "error", Value: err})
		return 1
	}

	stats := srv.Stats()
	logger.Info("final stats",
		server.Field{Key: "requests", Value: stats.RequestsTotal},
		server.Field{Key: "errors_4xx", Value: stats.Errors4xx},
		server.Field{Key: "errors_5xx", Value: stats.Errors5xx},
		server.Field{Key: "dropped", Value: stats.Dropped},
		server.Field{Key: "avg_latency", Value: stats.AverageLatency},
	)
	return 0
}
