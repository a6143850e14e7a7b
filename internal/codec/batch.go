package codec

import (
	"fmt"
	"strings"
)

// Separator selects how a batch joins its member records. The grouper's
// batch reader has accepted both conventions across releases, so the mode is
// explicit configuration and never inferred from the data.
type Separator int

const (
	// SeparatorNone concatenates records with no glue bytes; fixed-width
	// framing makes record boundaries derivable from total length alone.
	SeparatorNone Separator = iota
	// SeparatorNewline joins records with one newline per boundary.
	SeparatorNewline
)

// ParseSeparator maps a configuration string to a Separator.
func ParseSeparator(s string) (Separator, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return SeparatorNone, nil
	case "newline":
		return SeparatorNewline, nil
	}
	return 0, fmt.Errorf("codec: unknown batch separator %q (want none or newline)", s)
}

func (s Separator) String() string {
	if s == SeparatorNewline {
		return "newline"
	}
	return "none"
}

func (s Separator) glue() string {
	if s == SeparatorNewline {
		return "\n"
	}
	return ""
}

// Batch is an ordered, append-only collection of input records. It is not
// safe for concurrent mutation; feed it from a single writer.
type Batch struct {
	sep     Separator
	records []*InputRecord
}

// NewBatch returns an empty batch using the given join convention.
func NewBatch(sep Separator) *Batch {
	return &Batch{sep: sep}
}

// Append adds a record to the end of the batch.
func (b *Batch) Append(r *InputRecord) {
	b.records = append(b.records, r)
}

// Len returns the number of records in the batch.
func (b *Batch) Len() int { return len(b.records) }

// Records returns the member records in insertion order.
func (b *Batch) Records() []*InputRecord { return b.records }

// Separator returns the batch's join convention.
func (b *Batch) Separator() Separator { return b.sep }

// Encode serializes the batch: each record's 835-byte encoding, joined per
// the configured separator. Encoding fails on the first invalid record,
// identified by its position.
func (b *Batch) Encode() (string, error) {
	encoded := make([]string, len(b.records))
	for i, r := range b.records {
		s, err := r.Encode()
		if err != nil {
			return "", fmt.Errorf("codec: record %d: %w", i, err)
		}
		encoded[i] = s
	}
	return strings.Join(encoded, b.sep.glue()), nil
}
