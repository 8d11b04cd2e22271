package execcache

import (
	"context"
	"sync"

	"codeberg.org/mutker/hudstats/internal/logger"
	"golang.org/x/sync/singleflight"
)

// Cache owns the command slots of one plan and the runs in flight for them.
type Cache struct {
	runner Runner
	opts   Options
	log    logger.Logger
	group  singleflight.Group
	wg     sync.WaitGroup
}

func New(runner Runner, opts Options) *Cache {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}

	return &Cache{runner: runner, opts: opts, log: log}
}

// Blocking reports whether refreshes run inline.
func (c *Cache) Blocking() bool {
	return c.opts.Blocking
}

// NewSlot registers a command whose output is displayed by one element.
func (c *Cache) NewSlot(command string) *Slot {
	return &Slot{cache: c, command: command}
}

// Wait blocks until every background run has finished.
func (c *Cache) Wait() {
	c.wg.Wait()
}

func (c *Cache) run(ctx context.Context, command string) (string, error) {
	v, err, shared := c.group.Do(command, func() (any, error) {
		return c.runner.Run(ctx, command)
	})
	if err != nil {
		c.log.Debug().Err(err).Str("command", command).Bool("shared", shared).Msg("Exec command failed")
		return "", err
	}

	out, _ := v.(string)
	return out, nil
}

// Slot is one exec element: a command and its last captured output.
type Slot struct {
	cache   *Cache
	command string

	mu      sync.Mutex
	output  string
	running bool
}

func (s *Slot) Command() string {
	return s.command
}

// Output returns the last captured output.
func (s *Slot) Output() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.output
}

// Refresh re-runs the command. In blocking mode the output is replaced
// before Refresh returns, and cleared when the command fails. Otherwise a
// background run is started unless one is already in flight; its output
// replaces the cached one only on success.
func (s *Slot) Refresh(ctx context.Context) {
	if s.cache.opts.Blocking {
		out, _ := s.cache.run(ctx, s.command)
		s.mu.Lock()
		s.output = out
		s.mu.Unlock()
		return
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	s.cache.wg.Add(1)
	go func() {
		defer s.cache.wg.Done()

		out, err := s.cache.run(ctx, s.command)

		s.mu.Lock()
		defer s.mu.Unlock()
		s.running = false
		if err == nil {
			s.output = out
		}
	}()
}
