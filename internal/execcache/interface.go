package execcache

import (
	"context"

	"codeberg.org/mutker/hudstats/internal/logger"
)

// Runner executes one command line and returns its output.
type Runner interface {
	Run(ctx context.Context, command string) (string, error)
}

type Options struct {
	// Blocking runs each refresh inline on the caller's goroutine instead of
	// in the background.
	Blocking bool
	Log      logger.Logger
}
