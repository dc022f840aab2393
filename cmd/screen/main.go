package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/youruser/iconscreen/internal/config"
	"github.com/youruser/iconscreen/internal/screen"
)

func main() {
	cfg, err := screen.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := screen.Run(ctx, cfg, os.Stdin, os.Stdout); err != nil {
		config.Exitf("Error: %v", err)
	}
}
