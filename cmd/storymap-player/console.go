package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/models"
)

var errUnknownCommand = errors.New("unknown command")

type controller interface {
	Pause(narrativeID string) error
	Resume(narrativeID string) error
	Stop(narrativeID string) error
	Status(narrativeID string) models.ExecutionStatus
}

// console reads playback commands, one per line, and applies them to a narrative.
type console struct {
	controller  controller
	narrativeID string
	out         io.Writer
}

// Run consumes in until it is exhausted or ctx is done.
func (c *console) Run(ctx context.Context, in io.Reader) {
	scanner := bufio.NewScanner(in)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if err := c.handle(line); err != nil {
			fmt.Fprintf(c.out, "! %v\n", err)
		}
	}
}

func (c *console) handle(line string) error {
	var err error

	switch strings.ToLower(line) {
	case "p", "pause":
		err = c.controller.Pause(c.narrativeID)
	case "r", "resume":
		err = c.controller.Resume(c.narrativeID)
	case "s", "stop":
		err = c.controller.Stop(c.narrativeID)
	case "status":
	default:
		return fmt.Errorf("%w %q (pause, resume, stop, status)", errUnknownCommand, line)
	}

	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "status: %s\n", c.controller.Status(c.narrativeID))

	return nil
}
