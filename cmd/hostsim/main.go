package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/rangers/internal/hostsim"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := hostsim.NewCommand().Run(ctx, os.Args); err != nil {
		os.Stderr.WriteString("Simulation failed: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}
