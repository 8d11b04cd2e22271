package logger_test

import (
	"bytes"
	"testing"

	"codeberg.org/mutker/hudstats/internal/errors"
	"codeberg.org/mutker/hudstats/internal/logger"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		level logger.LogLevel
		ok    bool
	}{
		{"debug", logger.DebugLevel, true},
		{"info", logger.InfoLevel, true},
		{"warning", logger.WarnLevel, true},
		{"warn", logger.WarnLevel, true},
		{"error", logger.ErrorLevel, true},
		{"loud", logger.WarnLevel, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, ok := logger.ParseLevel(tt.name)
			assert.Equal(t, tt.level, level)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestInstanceLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, logger.WarnLevel)

	log.Debug().Msg("hidden")
	log.Warn().Str("token", "bogus").Msg("Unrecognized element")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"token":"bogus"`)
	assert.Contains(t, out, "Unrecognized element")
}

func TestErrorWithCode(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, logger.DebugLevel)

	log.ErrorWithCode(errors.New().New(errors.ErrInitSampler)).Msg("gpu sampler")

	assert.Contains(t, buf.String(), `"error_code":"init_sampler_failed"`)
}

func TestNopDiscards(t *testing.T) {
	log := logger.Nop()
	assert.NotPanics(t, func() {
		log.Warn().Int("n", 1).Msg("dropped")
		log.Error().Send()
	})
}
