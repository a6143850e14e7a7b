// Package grouper invokes the external CMS MS-DRG grouper software on an
// encoded batch file and decodes the output file it produces. The codec is
// pure; everything process-shaped (files, subprocess, cleanup) lives here.
package grouper

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/msdrg/batchgroup/internal/codec"
)

// Mode selects the grouper's output format flag.
type Mode string

const (
	// ModeFormatted asks for the human-readable report (-o).
	ModeFormatted Mode = "-o"
	// ModeSingleLine asks for one fixed-width record per line (-u), the
	// form this package can decode.
	ModeSingleLine Mode = "-u"
)

// ParseMode maps a configuration string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "single-line":
		return ModeSingleLine, nil
	case "formatted":
		return ModeFormatted, nil
	}
	return "", fmt.Errorf("grouper: unknown output mode %q (want single-line or formatted)", s)
}

// Params describes one grouping run.
type Params struct {
	Batch        *codec.Batch
	Job          Job
	Mode         Mode
	DeleteInput  bool
	DeleteOutput bool
}

// Runner executes the grouper software installed in a fixed directory. The
// grouper resolves its tables relative to its install directory, so the
// subprocess runs with that directory as its working directory.
type Runner struct {
	dir     string
	command string
	exec    execFunc
	logger  zerolog.Logger
}

// NewRunner builds a Runner for the grouper installed at dir.
func NewRunner(dir, command string, logger zerolog.Logger) *Runner {
	return &Runner{dir: dir, command: command, exec: runCommand, logger: logger}
}

// Args builds the grouper command-line arguments for one run.
func (r *Runner) Args(p Params) []string {
	return []string{"-i", p.Job.InputPath, string(p.Mode), p.Job.OutputPath}
}

// Group writes the batch file, runs the grouper, and decodes the output
// file. Per-record decode failures are returned alongside the records that
// did decode; the run only fails outright when the subprocess or the file
// plumbing fails.
func (r *Runner) Group(ctx context.Context, p Params) ([]*codec.OutputRecord, error) {
	if p.Mode == ModeFormatted {
		return nil, fmt.Errorf("grouper: formatted output (-o) is a report for humans; use ModeSingleLine to decode results")
	}

	if err := WriteBatchFile(p.Job.InputPath, p.Batch); err != nil {
		return nil, err
	}
	if p.DeleteInput {
		defer remove(p.Job.InputPath, r.logger)
	}

	r.logger.Info().
		Str("job_id", p.Job.ID.String()).
		Str("command", r.command).
		Strs("args", r.Args(p)).
		Int("records", p.Batch.Len()).
		Msg("invoking grouper")

	if err := r.exec(ctx, r.dir, r.command, r.Args(p)); err != nil {
		return nil, fmt.Errorf("grouper: run %s: %w", r.command, err)
	}

	f, err := os.Open(p.Job.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("grouper: open output file: %w", err)
	}
	defer f.Close()
	if p.DeleteOutput {
		defer remove(p.Job.OutputPath, r.logger)
	}

	records, err := ReadOutput(f)
	if err != nil {
		r.logger.Warn().Err(err).Str("job_id", p.Job.ID.String()).Msg("output decoded with field errors")
	}
	return records, err
}

func remove(path string, logger zerolog.Logger) {
	if err := os.Remove(path); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("cleanup failed")
	}
}
