package grouper

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/msdrg/batchgroup/internal/codec"
)

// Job names the input and output files of one grouping run. A fresh UUID
// per run keeps concurrent runs in the same work directory from clobbering
// each other's files.
type Job struct {
	ID         uuid.UUID
	InputPath  string
	OutputPath string
}

// NewJob allocates file names for a run under workDir.
func NewJob(workDir string) Job {
	id := uuid.New()
	return Job{
		ID:         id,
		InputPath:  filepath.Join(workDir, id.String()+"-input.txt"),
		OutputPath: filepath.Join(workDir, id.String()+"-output.txt"),
	}
}

// WriteBatchFile encodes the batch and writes it to path.
func WriteBatchFile(path string, b *codec.Batch) error {
	encoded, err := b.Encode()
	if err != nil {
		return fmt.Errorf("grouper: encode batch: %w", err)
	}
	if err := os.WriteFile(path, []byte(encoded), 0o644); err != nil {
		return fmt.Errorf("grouper: write batch file: %w", err)
	}
	return nil
}

// ReadOutput decodes every line of a single-line-mode output file. All
// lines are decoded even when some fail; the returned error, if any, lists
// the per-line failures while the successfully decoded records are still
// returned in order.
func ReadOutput(r io.Reader) ([]*codec.OutputRecord, error) {
	var (
		records  []*codec.OutputRecord
		failures []string
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), 64*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, err := codec.DecodeOutputRecord(line)
		if err != nil {
			failures = append(failures, fmt.Sprintf("line %d: %v", lineNo, err))
		}
		if rec != nil {
			records = append(records, rec)
		}
	}
	if err := scanner.Err(); err != nil {
		return records, fmt.Errorf("grouper: read output: %w", err)
	}

	if len(failures) > 0 {
		return records, fmt.Errorf("grouper: %s", strings.Join(failures, "; "))
	}
	return records, nil
}
