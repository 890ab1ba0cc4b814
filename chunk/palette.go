package chunk

import (
	"github.com/mixcode/pngicc/pixel"
	"github.com/mixcode/pngicc/pngerr"
)

// RGB is one PLTE entry.
type RGB struct{ R, G, B uint8 }

// Palette is the ordered list of color table entries from PLTE.
type Palette []RGB

// ParsePLTE decodes a PLTE chunk payload: an ordered list of RGB
// triples.
func ParsePLTE(data []byte) (Palette, error) {
	if len(data)%3 != 0 {
		return nil, &pngerr.ParsingError{Chunk: "PLTE", Detail: "length must be a multiple of 3"}
	}
	n := len(data) / 3
	p := make(Palette, n)
	for i := 0; i < n; i++ {
		p[i] = RGB{R: data[3*i], G: data[3*i+1], B: data[3*i+2]}
	}
	return p, nil
}

// Validate checks the entry count against the resolved pixel format:
// for indexed formats, 1 <= len <= min(256, 2^depth);
// for truecolor formats PLTE is an optional suggested palette capped
// at 256 entries; grayscale formats forbid PLTE entirely.
func (p Palette) Validate(colorType pixel.ColorType, depth int) error {
	switch colorType {
	case pixel.Grayscale, pixel.GrayscaleAlpha:
		return &pngerr.UnexpectedError{Curr: "PLTE", After: colorType.String()}
	case pixel.Indexed:
		maxEntries := 1 << uint(depth)
		if maxEntries > 256 {
			maxEntries = 256
		}
		if len(p) < 1 || len(p) > maxEntries {
			return &pngerr.ParsingError{Chunk: "PLTE", Detail: "entry count out of range for bit depth"}
		}
		return nil
	default: // TrueColor, TrueColorAlpha: optional suggested palette
		if len(p) > 256 {
			return &pngerr.ParsingError{Chunk: "PLTE", Detail: "entry count exceeds 256"}
		}
		return nil
	}
}
