package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cocosip/go-pixel-codecs/cmd/pixelcodec/cmd"
	"github.com/cocosip/go-pixel-codecs/internal/logging"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	slog.SetDefault(logging.Logger(os.Stderr, slog.LevelInfo))

	if err := cmd.NewRoot(ctx).Execute(); err != nil {
		os.Exit(1)
	}
}
