package chunk

import (
	"bytes"

	bst "github.com/mixcode/binarystruct"

	"github.com/mixcode/pngicc/pixel"
	"github.com/mixcode/pngicc/pngerr"
)

// Header is the decoded IHDR chunk.
type Header struct {
	Width, Height     uint32
	BitDepth          uint8
	ColorType         pixel.ColorType
	CompressionMethod uint8
	FilterMethod      uint8
	InterlaceMethod   uint8
}

// Interlaced reports whether Adam7 interlacing is in effect.
func (h *Header) Interlaced() bool { return h.InterlaceMethod == 1 }

type ihdrWire struct {
	Width, Height     uint32
	BitDepth          uint8
	ColorType         uint8
	CompressionMethod uint8
	FilterMethod      uint8
	InterlaceMethod   uint8
}

// ParseIHDR decodes an IHDR chunk payload.
func ParseIHDR(data []byte) (*Header, error) {
	if len(data) != 13 {
		return nil, &pngerr.ParsingError{Chunk: "IHDR", Detail: "length must be 13"}
	}
	var w ihdrWire
	if _, err := bst.Read(bytes.NewReader(data), bst.BigEndian, &w); err != nil {
		return nil, &pngerr.LexingError{Kind: "truncatedChunkBody", Detail: "IHDR"}
	}
	if w.Width == 0 || w.Height == 0 {
		return nil, &pngerr.ParsingError{Chunk: "IHDR", Detail: "width and height must be positive"}
	}
	if w.CompressionMethod != 0 {
		return nil, &pngerr.ParsingError{Chunk: "IHDR", Detail: "unsupported compression method"}
	}
	if w.FilterMethod != 0 {
		return nil, &pngerr.ParsingError{Chunk: "IHDR", Detail: "unsupported filter method"}
	}
	if w.InterlaceMethod != 0 && w.InterlaceMethod != 1 {
		return nil, &pngerr.ParsingError{Chunk: "IHDR", Detail: "unsupported interlace method"}
	}
	return &Header{
		Width: w.Width, Height: w.Height,
		BitDepth: w.BitDepth, ColorType: pixel.ColorType(w.ColorType),
		CompressionMethod: w.CompressionMethod, FilterMethod: w.FilterMethod,
		InterlaceMethod: w.InterlaceMethod,
	}, nil
}
