package grouper

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// execFunc runs a command with the given working directory. Held as a field
// on Runner so tests can substitute a recorder.
type execFunc func(ctx context.Context, dir, command string, args []string) error

func runCommand(ctx context.Context, dir, command string, args []string) error {
	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Dir = dir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return fmt.Errorf("%w: %s", err, stderr.String())
		}
		return err
	}
	return nil
}
