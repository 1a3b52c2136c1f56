// Package main provides a terminal player for story map narratives.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	cli "github.com/urfave/cli/v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := &cli.Command{
		Name:  "storymap-player",
		Usage: "Play story map narratives in the terminal",
		Commands: []*cli.Command{
			PlayCommand(),
		},
	}

	err := cmd.Run(ctx, os.Args)
	if err != nil {
		panic(err)
	}
}
