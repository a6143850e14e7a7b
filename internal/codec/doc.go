// Package codec encodes patient encounters into the fixed-width batch record
// expected by the CMS MS-DRG grouper and decodes the grouper's fixed-width
// output records back into typed values.
//
// The input record is exactly 835 bytes; the output record extends the same
// layout with grouper-computed fields up to 1903 bytes. Every field occupies
// a fixed byte range, so encoding and decoding are driven by the static
// field tables in input.go and output.go. Offsets are 0-indexed from the
// start of the record.
package codec
