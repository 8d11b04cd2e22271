package system

import "codeberg.org/mutker/hudstats/internal/errors"

const (
	ErrProcessLookup = errors.ErrorCode("system_process_lookup_failed")
)
