package chunk

import (
	"github.com/mixcode/pngicc/pixel"
	"github.com/mixcode/pngicc/pngerr"
)

// Background is the resolved bKGD chunk: a default background color in
// whatever shape the pixel format calls for.
type Background struct {
	// Gray holds a single sample for grayscale formats.
	Gray uint16
	// RGB holds three samples for truecolor formats.
	RGB [3]uint16
	// PaletteIndex holds a palette index for indexed formats.
	PaletteIndex uint8
}

// ParseBKGD decodes a bKGD chunk payload against the resolved color
// type, validating the index against the palette size for indexed
// formats.
func ParseBKGD(data []byte, colorType pixel.ColorType, paletteLen int) (*Background, error) {
	switch colorType {
	case pixel.Grayscale, pixel.GrayscaleAlpha:
		if len(data) != 2 {
			return nil, &pngerr.ParsingError{Chunk: "bKGD", Detail: "grayscale background must be 2 bytes"}
		}
		return &Background{Gray: be16(data)}, nil

	case pixel.TrueColor, pixel.TrueColorAlpha:
		if len(data) != 6 {
			return nil, &pngerr.ParsingError{Chunk: "bKGD", Detail: "truecolor background must be 6 bytes"}
		}
		return &Background{RGB: [3]uint16{be16(data[0:2]), be16(data[2:4]), be16(data[4:6])}}, nil

	case pixel.Indexed:
		if len(data) != 1 {
			return nil, &pngerr.ParsingError{Chunk: "bKGD", Detail: "indexed background must be 1 byte"}
		}
		if int(data[0]) >= paletteLen {
			return nil, &pngerr.ParsingError{Chunk: "bKGD", Detail: "background index out of palette range"}
		}
		return &Background{PaletteIndex: data[0]}, nil

	default:
		return nil, &pngerr.UnexpectedError{Curr: "bKGD", After: colorType.String()}
	}
}
