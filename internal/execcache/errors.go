package execcache

import "codeberg.org/mutker/hudstats/internal/errors"

const (
	ErrCommandFailed = errors.ErrorCode("exec_command_failed")
	ErrEmptyCommand  = errors.ErrorCode("exec_empty_command")
)
