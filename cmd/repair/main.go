package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fhuszti/talkcart-medias-go/internal/logger"
)

func main() {
	// the report goes to stdout, logs to stderr
	logger.InitWriter(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logger.Errorf(ctx, "❌  %v", err)
		stop()
		os.Exit(1)
	}
}
