package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"instrshot.dev/cli/internal/interfaces/cli"
	"instrshot.dev/cli/internal/interfaces/di"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.Execute(ctx, di.Build)
}
