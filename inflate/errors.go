package inflate

import "errors"

var (
	errBadZlibHeader     = errors.New("inflate: invalid zlib header")
	errBadBlockType      = errors.New("inflate: invalid block type")
	errBadStoredLength   = errors.New("inflate: stored block LEN/NLEN mismatch")
	errBadHuffmanTable   = errors.New("inflate: malformed huffman table")
	errDistanceTooFar    = errors.New("inflate: back-reference distance exceeds window")
	errAdlerMismatch     = errors.New("inflate: adler-32 checksum mismatch")
	errPushAfterComplete = errors.New("inflate: push after stream complete")
)
