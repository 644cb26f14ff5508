package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/goliatone/go-intake/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli := &app{
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		stdin:      os.Stdin,
		loadConfig: config.Load,
	}
	if err := cli.command().Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
