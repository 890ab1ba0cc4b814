package chunk

import (
	"time"

	"golang.org/x/text/encoding/charmap"

	"github.com/mixcode/pngicc/inflate"
	"github.com/mixcode/pngicc/pngerr"
)

// Chromaticity is the decoded cHRM chunk: CIE x,y pairs scaled by
// 100000, for white point and the three primaries.
type Chromaticity struct {
	WhiteX, WhiteY uint32
	RedX, RedY     uint32
	GreenX, GreenY uint32
	BlueX, BlueY   uint32
}

// ColorProfile is the decoded iCCP chunk: a profile name plus the
// inflated ICC profile bytes.
type ColorProfile struct {
	Name    string
	Profile []byte
}

// PhysicalDims is the decoded pHYs chunk.
type PhysicalDims struct {
	X, Y uint32
	Unit uint8 // 0 = unknown, 1 = meter
}

// SignificantBits holds the decoded sBIT chunk: 1-4 values depending on
// color type.
type SignificantBits struct {
	Values []uint8
}

// SuggestedPalette is a decoded sPLT chunk.
type SuggestedPalette struct {
	Name      string
	SampleBit uint8
	Entries   []SuggestedPaletteEntry
}

// SuggestedPaletteEntry is one (r,g,b,a,freq) row of an sPLT table.
type SuggestedPaletteEntry struct {
	R, G, B, A uint16
	Frequency  uint16
}

// Metadata accumulates every optional/ancillary chunk's decoded
// content.
type Metadata struct {
	ModTime         *time.Time
	Chromaticity    *Chromaticity
	ColorProfile    *ColorProfile
	RenderingIntent *uint8 // sRGB
	Gamma           *uint32
	Histogram       []uint16
	PhysicalDims    *PhysicalDims
	SignificantBits *SignificantBits

	SuggestedPalettes []SuggestedPalette
	TextEntries       []TextEntry
	UnknownChunks     []Raw
}

func ParseGAMA(data []byte) (uint32, error) {
	if len(data) != 4 {
		return 0, &pngerr.ParsingError{Chunk: "gAMA", Detail: "length must be 4"}
	}
	return be32(data), nil
}

func ParseCHRM(data []byte) (*Chromaticity, error) {
	if len(data) != 32 {
		return nil, &pngerr.ParsingError{Chunk: "cHRM", Detail: "length must be 32"}
	}
	return &Chromaticity{
		WhiteX: be32(data[0:4]), WhiteY: be32(data[4:8]),
		RedX: be32(data[8:12]), RedY: be32(data[12:16]),
		GreenX: be32(data[16:20]), GreenY: be32(data[20:24]),
		BlueX: be32(data[24:28]), BlueY: be32(data[28:32]),
	}, nil
}

func ParseSRGB(data []byte) (uint8, error) {
	if len(data) != 1 {
		return 0, &pngerr.ParsingError{Chunk: "sRGB", Detail: "length must be 1"}
	}
	if data[0] > 3 {
		return 0, &pngerr.ParsingError{Chunk: "sRGB", Detail: "invalid rendering intent"}
	}
	return data[0], nil
}

func ParsePHYS(data []byte) (*PhysicalDims, error) {
	if len(data) != 9 {
		return nil, &pngerr.ParsingError{Chunk: "pHYs", Detail: "length must be 9"}
	}
	unit := data[8]
	if unit > 1 {
		return nil, &pngerr.ParsingError{Chunk: "pHYs", Detail: "invalid unit specifier"}
	}
	return &PhysicalDims{X: be32(data[0:4]), Y: be32(data[4:8]), Unit: unit}, nil
}

func ParseTIME(data []byte) (*time.Time, error) {
	if len(data) != 7 {
		return nil, &pngerr.ParsingError{Chunk: "tIME", Detail: "length must be 7"}
	}
	year := int(data[0])<<8 | int(data[1])
	month, day := time.Month(data[2]), int(data[3])
	hour, min, sec := int(data[4]), int(data[5]), int(data[6])
	if month < 1 || month > 12 || day < 1 || day > 31 || hour > 23 || min > 59 || sec > 60 {
		return nil, &pngerr.ParsingError{Chunk: "tIME", Detail: "field out of range"}
	}
	t := time.Date(year, month, day, hour, min, sec, 0, time.UTC)
	return &t, nil
}

// ParseSBIT decodes sBIT against the expected channel count (1 for
// grayscale, 2 for grayscale+alpha, 3 for truecolor/indexed, 4 for
// truecolor+alpha) and validates each value against bitDepth.
func ParseSBIT(data []byte, channels int, bitDepth int) (*SignificantBits, error) {
	if len(data) != channels {
		return nil, &pngerr.ParsingError{Chunk: "sBIT", Detail: "length must match channel count"}
	}
	for _, v := range data {
		if int(v) == 0 || int(v) > bitDepth {
			return nil, &pngerr.ParsingError{Chunk: "sBIT", Detail: "value exceeds bit depth"}
		}
	}
	values := make([]uint8, len(data))
	copy(values, data)
	return &SignificantBits{Values: values}, nil
}

// ParseHIST decodes hIST, requiring it be aligned 1:1 with a
// previously-seen palette.
func ParseHIST(data []byte, paletteLen int) ([]uint16, error) {
	if len(data) != paletteLen*2 {
		return nil, &pngerr.ParsingError{Chunk: "hIST", Detail: "length must be 2x palette size"}
	}
	out := make([]uint16, paletteLen)
	for i := range out {
		out[i] = be16(data[2*i : 2*i+2])
	}
	return out, nil
}

// ParseICCP decodes an iCCP chunk: a null-terminated Latin-1 profile
// name, a 1-byte compression method (must be 0, zlib), and the
// zlib-compressed ICC profile bytes, inflated here using this module's
// own DEFLATE decoder rather than any external zlib binding.
func ParseICCP(data []byte) (*ColorProfile, error) {
	nul := indexByte(data, 0)
	if nul < 0 || nul > 79 {
		return nil, &pngerr.ParsingError{Chunk: "iCCP", Detail: "missing or oversized profile name"}
	}
	name := latin1ToUTF8(data[:nul])
	rest := data[nul+1:]
	if len(rest) < 1 {
		return nil, &pngerr.ParsingError{Chunk: "iCCP", Detail: "missing compression method"}
	}
	if rest[0] != 0 {
		return nil, &pngerr.ParsingError{Chunk: "iCCP", Detail: "unsupported compression method"}
	}
	profile, err := inflateWhole(rest[1:])
	if err != nil {
		return nil, err
	}
	return &ColorProfile{Name: name, Profile: profile}, nil
}

// ParseSPLT decodes an sPLT chunk: name, sample depth, and a table of
// (r,g,b,a,frequency) entries at either 8 or 16 bits per sample.
func ParseSPLT(data []byte) (*SuggestedPalette, error) {
	nul := indexByte(data, 0)
	if nul < 0 || nul > 79 {
		return nil, &pngerr.ParsingError{Chunk: "sPLT", Detail: "missing or oversized palette name"}
	}
	name := latin1ToUTF8(data[:nul])
	rest := data[nul+1:]
	if len(rest) < 1 {
		return nil, &pngerr.ParsingError{Chunk: "sPLT", Detail: "missing sample depth"}
	}
	depth := rest[0]
	rest = rest[1:]
	var entrySize int
	switch depth {
	case 8:
		entrySize = 6
	case 16:
		entrySize = 10
	default:
		return nil, &pngerr.ParsingError{Chunk: "sPLT", Detail: "sample depth must be 8 or 16"}
	}
	if len(rest)%entrySize != 0 {
		return nil, &pngerr.ParsingError{Chunk: "sPLT", Detail: "entry table misaligned"}
	}
	n := len(rest) / entrySize
	entries := make([]SuggestedPaletteEntry, n)
	for i := 0; i < n; i++ {
		e := rest[i*entrySize:]
		if depth == 8 {
			entries[i] = SuggestedPaletteEntry{
				R: uint16(e[0]), G: uint16(e[1]), B: uint16(e[2]), A: uint16(e[3]),
				Frequency: be16(e[4:6]),
			}
		} else {
			entries[i] = SuggestedPaletteEntry{
				R: be16(e[0:2]), G: be16(e[2:4]), B: be16(e[4:6]), A: be16(e[6:8]),
				Frequency: be16(e[8:10]),
			}
		}
	}
	return &SuggestedPalette{Name: name, SampleBit: depth, Entries: entries}, nil
}

func be32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}

// latin1ToUTF8 decodes PNG's mandated Latin-1 encoding for iCCP/sPLT/
// tEXt/zTXt names and text into a UTF-8 Go string.
func latin1ToUTF8(b []byte) string {
	out, _ := charmap.ISO8859_1.NewDecoder().Bytes(b)
	return string(out)
}

// inflateWhole drives the module's inflator to completion over an
// in-memory zlib payload, as iCCP profile bytes arrive whole rather
// than streamed.
func inflateWhole(compressed []byte) ([]byte, error) {
	inf := inflate.New(inflate.Zlib)
	status, err := inf.Push(compressed)
	if err != nil {
		return nil, &pngerr.InflationError{Detail: err.Error()}
	}
	if status != inflate.Complete {
		return nil, &pngerr.InflationError{Detail: "incomplete iCCP compressed stream"}
	}
	return inf.PullAll(), nil
}
