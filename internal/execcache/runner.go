package execcache

import (
	"context"
	"os/exec"
	"strings"

	"codeberg.org/mutker/hudstats/internal/errors"
)

const defaultShell = "/bin/sh"

// ShellRunner runs commands through "<Shell> -c".
type ShellRunner struct {
	Shell string
}

// Run returns stdout with trailing whitespace removed.
func (r ShellRunner) Run(ctx context.Context, command string) (string, error) {
	errFactory := errors.New()

	if strings.TrimSpace(command) == "" {
		return "", errFactory.New(ErrEmptyCommand)
	}

	shell := r.Shell
	if shell == "" {
		shell = defaultShell
	}

	out, err := exec.CommandContext(ctx, shell, "-c", command).Output()
	if err != nil {
		return "", errFactory.Wrap(ErrCommandFailed, err)
	}

	return strings.TrimRight(string(out), " \t\r\n"), nil
}
