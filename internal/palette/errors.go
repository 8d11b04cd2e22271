package palette

import "codeberg.org/mutker/hudstats/internal/errors"

const (
	ErrInvalidHex = errors.ErrorCode("palette_invalid_hex")
)
