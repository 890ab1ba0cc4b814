// Package pngerr defines the ten fatal error kinds a PNG decode can
// fail with. None are retried: a Decode call that has returned one of
// these does not resume.
package pngerr

import "fmt"

// LexingError reports a malformed container: truncated signature,
// header, body, or footer; a bad signature; a bad type code; or a bad
// CRC-32.
type LexingError struct {
	Kind   string
	Detail string
}

func (e *LexingError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("png: lexing error: %s", e.Kind)
	}
	return fmt.Sprintf("png: lexing error: %s: %s", e.Kind, e.Detail)
}

// ParsingError reports a wrong chunk length, an out-of-range field, a
// duplicate-forbidden value, or a bad enum code within an otherwise
// well-framed chunk.
type ParsingError struct {
	Chunk  string
	Detail string
}

func (e *ParsingError) Error() string {
	return fmt.Sprintf("png: parsing error in %s: %s", e.Chunk, e.Detail)
}

// RequiredError reports that Curr appeared without the Prev chunk that
// must precede it.
type RequiredError struct {
	Prev, Curr string
}

func (e *RequiredError) Error() string {
	return fmt.Sprintf("png: %s requires prior %s", e.Curr, e.Prev)
}

// DuplicateError reports a chunk type that may appear at most once
// appearing a second time.
type DuplicateError struct {
	Chunk string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("png: duplicate %s chunk", e.Chunk)
}

// UnexpectedError reports a chunk appearing somewhere the ordering
// grammar forbids, including a non-contiguous IDAT run.
type UnexpectedError struct {
	Curr, After string
}

func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("png: unexpected %s after %s", e.Curr, e.After)
}

// IncompleteStreamError reports that the image data ended early: the
// inflator had not reached Complete by the last IDAT chunk, the
// scanlines were not all reconstructed, or the chunk stream ran out
// before IEND.
type IncompleteStreamError struct{}

func (e *IncompleteStreamError) Error() string {
	return "png: incomplete image data compressed datastream"
}

// ExtraneousDataError reports an IDAT chunk arriving after the zlib
// stream already completed.
type ExtraneousDataError struct{}

func (e *ExtraneousDataError) Error() string {
	return "png: extraneous image data compressed datastream"
}

// ExtraneousImageDataError reports that the inflator produced more
// bytes than the image's scanlines require.
type ExtraneousImageDataError struct{}

func (e *ExtraneousImageDataError) Error() string {
	return "png: extraneous image data"
}

// InflationError reports a failure inside the DEFLATE/zlib inflator:
// bad header, bad Huffman table, an over-length back-reference, or an
// Adler-32 mismatch.
type InflationError struct {
	Detail string
}

func (e *InflationError) Error() string {
	return fmt.Sprintf("png: inflation error: %s", e.Detail)
}

// TextError reports an invalid iTXt/zTXt/tEXt keyword, language tag, or
// compression flag.
type TextError struct {
	Chunk  string
	Detail string
}

func (e *TextError) Error() string {
	return fmt.Sprintf("png: text error in %s: %s", e.Chunk, e.Detail)
}
