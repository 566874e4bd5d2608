// Command hubuser creates a Hub user account, either through the Hub's
// registration API or, for local development, directly in its database.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/cozy-creator/hubuser/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.NewApp(os.Stdout, os.Stderr).Run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}
