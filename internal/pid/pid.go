// Package pid guards against running two recorders at once.
package pid

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"codeberg.org/mutker/hudstats/internal/errors"
)

const DefaultName = "hudstats-record.pid"

// File is a PID file at a fixed path.
type File struct {
	path string
}

// New returns a PID file at path, or in the temp dir when path is empty.
func New(path string) *File {
	if path == "" {
		path = filepath.Join(os.TempDir(), DefaultName)
	}
	return &File{path: path}
}

func (f *File) Path() string {
	return f.path
}

// Write writes the current process ID. It fails with ErrAlreadyRunning while
// the recorded process is still alive; a stale or unreadable file is replaced.
func (f *File) Write() error {
	errFactory := errors.New()

	if running, err := f.running(); err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	} else if running {
		return errFactory.WithData(errors.ErrAlreadyRunning, f.path)
	}

	err := os.WriteFile(f.path, []byte(strconv.Itoa(os.Getpid())), 0o600)
	if err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	return nil
}

func (f *File) running() (bool, error) {
	bytes, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(bytes)))
	if err != nil || pid <= 0 {
		return false, nil
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return false, nil
	}

	return process.Signal(syscall.Signal(0)) == nil, nil
}

// Remove removes the PID file.
func (f *File) Remove() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return errors.New().Wrap(errors.ErrInternal, err)
	}
	return nil
}
