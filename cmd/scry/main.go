// Package main implements the scry command line client, which runs
// spaced repetition study sessions and manages the flashcard deck.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/scry-deck/internal/redact"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", redact.Error(err))
		os.Exit(1)
	}
}
