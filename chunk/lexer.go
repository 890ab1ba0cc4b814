// Package chunk implements the PNG container grammar: signature
// validation, chunk framing with CRC-32 verification, the
// chunk-ordering state machine, and parsers for every recognized
// chunk type.
package chunk

import (
	"encoding/binary"
	"io"

	bst "github.com/mixcode/binarystruct"

	"github.com/mixcode/pngicc/checksum"
	"github.com/mixcode/pngicc/pngerr"
)

// Signature is the 8 magic bytes every PNG stream begins with.
var Signature = [8]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

const maxChunkLength = 1<<31 - 1

// Raw is a lexed (type, data) pair; the CRC has already been verified
// against it by the time the caller sees it.
type Raw struct {
	Type string
	Data []byte
}

type chunkHeader struct {
	Length uint32
	Type   string `binary:"[4]byte"`
}

// Lexer frames (type, data, crc) tuples off an underlying byte stream.
// It performs no ordering validation; see Validator for the
// chunk-ordering grammar.
type Lexer struct {
	r io.Reader
}

// NewLexer wraps r, which must be positioned just after the 8-byte PNG
// signature (see CheckSignature); the Lexer never reads the signature.
func NewLexer(r io.Reader) *Lexer {
	return &Lexer{r: r}
}

// CheckSignature consumes and validates the 8-byte PNG magic.
func CheckSignature(r io.Reader) error {
	var sig [8]byte
	if _, err := io.ReadFull(r, sig[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return &pngerr.LexingError{Kind: "truncatedSignature"}
		}
		return err
	}
	if sig != Signature {
		return &pngerr.LexingError{Kind: "badSignature"}
	}
	return nil
}

// Next reads one chunk from the stream, verifying its CRC-32 and its
// type code's reserved-bit rule. io.EOF is returned once the stream is
// exhausted with no more chunks to read (callers should normally stop
// at IEND rather than rely on this).
func (l *Lexer) Next() (*Raw, error) {
	var hdr chunkHeader
	_, err := bst.Read(l.r, bst.BigEndian, &hdr)
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, &pngerr.LexingError{Kind: "truncatedChunkHeader"}
	}
	if hdr.Length > maxChunkLength {
		return nil, &pngerr.LexingError{Kind: "chunkLengthOverflow"}
	}
	if !validTypeCode(hdr.Type) {
		return nil, &pngerr.LexingError{Kind: "badTypeCode", Detail: hdr.Type}
	}

	data := make([]byte, hdr.Length)
	if _, err := io.ReadFull(l.r, data); err != nil {
		return nil, &pngerr.LexingError{Kind: "truncatedChunkBody"}
	}

	var declaredCRC uint32
	if err := binary.Read(l.r, binary.BigEndian, &declaredCRC); err != nil {
		return nil, &pngerr.LexingError{Kind: "truncatedChunkFooter"}
	}

	crc := checksum.NewCRC32()
	crc.Write([]byte(hdr.Type))
	crc.Write(data)
	if crc.Sum32() != declaredCRC {
		return nil, &pngerr.LexingError{Kind: "invalidChunkChecksum", Detail: hdr.Type}
	}

	return &Raw{Type: hdr.Type, Data: data}, nil
}

// validTypeCode accepts a 4-byte chunk type whose reserved bit (bit 5
// of the third byte) is clear, per the PNG chunk naming rule.
// A known public code is always accepted too, though in practice every
// chunk in the allowlist already has its reserved bit clear.
func validTypeCode(t string) bool {
	if len(t) != 4 {
		return false
	}
	for _, c := range t {
		if !((c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')) {
			return false
		}
	}
	if knownChunkTypes[t] {
		return true
	}
	return t[2]&0x20 == 0
}

var knownChunkTypes = map[string]bool{
	"IHDR": true, "PLTE": true, "IDAT": true, "IEND": true, "CgBI": true,
	"cHRM": true, "gAMA": true, "iCCP": true, "sBIT": true, "sRGB": true,
	"bKGD": true, "hIST": true, "tRNS": true, "pHYs": true, "sPLT": true,
	"tIME": true, "iTXt": true, "tEXt": true, "zTXt": true,
}

// IsCritical reports whether a chunk type's bit 5 of byte 0 marks it
// critical (uppercase first letter).
func IsCritical(t string) bool {
	return len(t) == 4 && t[0] >= 'A' && t[0] <= 'Z'
}
