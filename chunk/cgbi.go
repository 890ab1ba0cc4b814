package chunk

import "github.com/mixcode/pngicc/pngerr"

// cgbiMagic is the fixed 4-byte payload of the Apple iOS CgBI marker
// chunk.
var cgbiMagic = [4]byte{0x43, 0x67, 0x42, 0x49}

// ParseCgBI validates the iOS marker chunk's fixed payload.
func ParseCgBI(data []byte) error {
	if len(data) != 4 {
		return &pngerr.ParsingError{Chunk: "CgBI", Detail: "length must be 4"}
	}
	for i, b := range data {
		if b != cgbiMagic[i] {
			return &pngerr.ParsingError{Chunk: "CgBI", Detail: "bad CgBI payload"}
		}
	}
	return nil
}
