package pid_test

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"codeberg.org/mutker/hudstats/internal/errors"
	"codeberg.org/mutker/hudstats/internal/pid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndRemove(t *testing.T) {
	f := pid.New(filepath.Join(t.TempDir(), "record.pid"))

	require.NoError(t, f.Write())

	data, err := os.ReadFile(f.Path())
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid()), string(data))

	require.NoError(t, f.Remove())
	_, err = os.Stat(f.Path())
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, f.Remove())
}

func TestWriteAlreadyRunning(t *testing.T) {
	f := pid.New(filepath.Join(t.TempDir(), "record.pid"))
	require.NoError(t, f.Write())

	err := f.Write()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrAlreadyRunning))
}

func TestWriteReplacesStaleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "record.pid")
	require.NoError(t, os.WriteFile(path, []byte("not-a-pid"), 0o600))

	f := pid.New(path)
	require.NoError(t, f.Write())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid()), string(data))
}

func TestDefaultPath(t *testing.T) {
	assert.Equal(t, filepath.Join(os.TempDir(), pid.DefaultName), pid.New("").Path())
}
