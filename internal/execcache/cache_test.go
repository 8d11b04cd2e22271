package execcache_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"codeberg.org/mutker/hudstats/internal/execcache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	mu      sync.Mutex
	calls   int
	outputs []string
	errs    []error
	release chan struct{}
}

func (f *fakeRunner) Run(_ context.Context, _ string) (string, error) {
	if f.release != nil {
		<-f.release
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	i := f.calls
	f.calls++

	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	if err != nil {
		return "", err
	}
	if i < len(f.outputs) {
		return f.outputs[i], nil
	}
	return "", nil
}

func (f *fakeRunner) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestBlockingRefresh(t *testing.T) {
	runner := &fakeRunner{
		outputs: []string{"first", "", "third"},
		errs:    []error{nil, errors.New("boom"), nil},
	}
	cache := execcache.New(runner, execcache.Options{Blocking: true})
	require.True(t, cache.Blocking())

	slot := cache.NewSlot("date")
	assert.Equal(t, "date", slot.Command())
	assert.Empty(t, slot.Output())

	slot.Refresh(t.Context())
	assert.Equal(t, "first", slot.Output())

	slot.Refresh(t.Context())
	assert.Empty(t, slot.Output(), "Expected failed blocking run to clear output")

	slot.Refresh(t.Context())
	assert.Equal(t, "third", slot.Output())
	assert.Equal(t, 3, runner.Calls())
}

func TestAsyncRefreshKeepsLastSuccess(t *testing.T) {
	runner := &fakeRunner{
		outputs: []string{"12:00", "", "12:01"},
		errs:    []error{nil, errors.New("boom"), nil},
	}
	cache := execcache.New(runner, execcache.Options{})
	slot := cache.NewSlot("date +%H:%M")

	slot.Refresh(t.Context())
	cache.Wait()
	assert.Equal(t, "12:00", slot.Output())

	slot.Refresh(t.Context())
	cache.Wait()
	assert.Equal(t, "12:00", slot.Output(), "Expected failure to keep the cached output")

	slot.Refresh(t.Context())
	cache.Wait()
	assert.Equal(t, "12:01", slot.Output())
}

func TestAsyncRefreshDoesNotStall(t *testing.T) {
	runner := &fakeRunner{
		outputs: []string{"done"},
		release: make(chan struct{}),
	}
	cache := execcache.New(runner, execcache.Options{})
	slot := cache.NewSlot("sleep 10")

	// Both calls return while the first run is still blocked.
	slot.Refresh(t.Context())
	slot.Refresh(t.Context())
	assert.Empty(t, slot.Output())

	close(runner.release)
	cache.Wait()

	assert.Equal(t, "done", slot.Output())
	assert.Equal(t, 1, runner.Calls())
}

func TestShellRunner(t *testing.T) {
	runner := execcache.ShellRunner{}

	out, err := runner.Run(t.Context(), "printf 'hello\\n\\n'")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)

	_, err = runner.Run(t.Context(), "exit 3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exec_command_failed")

	_, err = runner.Run(t.Context(), "  ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exec_empty_command")
}
