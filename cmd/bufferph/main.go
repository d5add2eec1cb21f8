// Command bufferph computes acid doses and pH for phosphate / Tris / ammonium
// growth media.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexshd/bufferph/cmd/bufferph/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
