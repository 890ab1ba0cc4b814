package chunk

import (
	"github.com/mixcode/pngicc/pixel"
	"github.com/mixcode/pngicc/pngerr"
)

// Transparency is the resolved tRNS chunk: either a chroma key (for
// direct-color/grayscale formats) or per-index alpha values (for
// indexed formats).
type Transparency struct {
	// ChromaKey holds the raw big-endian sample tuple (1 or 3 atoms,
	// each up to 16 bits) for grayscale/truecolor formats.
	ChromaKey []uint16
	// IndexAlpha holds one alpha byte per palette entry it overrides,
	// for indexed formats; entries beyond len(IndexAlpha) default to 255.
	IndexAlpha []uint8
}

// ParseTRNS decodes a tRNS chunk payload against the resolved color
// type and bit depth.
func ParseTRNS(data []byte, colorType pixel.ColorType, depth int, paletteLen int) (*Transparency, error) {
	switch colorType {
	case pixel.Grayscale:
		if len(data) != 2 {
			return nil, &pngerr.ParsingError{Chunk: "tRNS", Detail: "grayscale chroma key must be 2 bytes"}
		}
		return &Transparency{ChromaKey: []uint16{be16(data)}}, nil

	case pixel.TrueColor:
		if len(data) != 6 {
			return nil, &pngerr.ParsingError{Chunk: "tRNS", Detail: "truecolor chroma key must be 6 bytes"}
		}
		return &Transparency{ChromaKey: []uint16{be16(data[0:2]), be16(data[2:4]), be16(data[4:6])}}, nil

	case pixel.Indexed:
		if len(data) > paletteLen {
			return nil, &pngerr.ParsingError{Chunk: "tRNS", Detail: "more entries than palette"}
		}
		alpha := make([]uint8, len(data))
		copy(alpha, data)
		return &Transparency{IndexAlpha: alpha}, nil

	default:
		return nil, &pngerr.UnexpectedError{Curr: "tRNS", After: colorType.String()}
	}
}

func be16(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])
}
