package pixel

// bitParams returns the (k,m,s,mask) sub-byte sample addressing
// constants for packed depths 1, 2, and 4.
func bitParams(depth int) (k, m, s, mask int) {
	switch depth {
	case 1:
		return 3, 7, 0, 1
	case 2:
		return 2, 3, 1, 3
	case 4:
		return 1, 1, 2, 15
	}
	return 0, 0, 0, 0xFFFF // depth 8: byte-addressed, handled by the caller directly
}

// extractPackedSample reads the i-th sub-byte sample (depth 1, 2, or
// 4) from buf.
func extractPackedSample(buf []byte, i, depth int) int {
	k, m, s, mask := bitParams(depth)
	b := buf[i>>uint(k)]
	bit := ((^i) & m) << uint(s)
	return int(b>>uint(bit)) & mask
}

// writePackedSample sets the i-th sub-byte sample (depth 1, 2, or 4)
// in buf, used when copying an Adam7 pass's columns into the final
// deinterlaced storage.
func writePackedSample(buf []byte, i, depth, value int) {
	k, m, s, mask := bitParams(depth)
	idx := i >> uint(k)
	bit := ((^i) & m) << uint(s)
	buf[idx] &^= byte(mask << uint(bit))
	buf[idx] |= byte((value & mask) << uint(bit))
}

// expand scales a depth-bit sample up to the full 16-bit canonical
// range by the standard PNG bit-depth quantization rule.
func expand(sample uint16, depth int) uint16 {
	if depth == 16 {
		return sample
	}
	maxSource := (1 << uint(depth)) - 1
	quantum := 65535 / maxSource
	return sample * uint16(quantum)
}

// CopyRow copies one reconstructed Adam7 pass row's samples into the
// final deinterlaced storage buffer: a bit-shift mask for sub-byte
// depths, direct byte copies otherwise.
// rowData excludes the leading filter-type byte.
func CopyRow(storage []byte, imgWidth int, format Format, y int, baseX, strideX, sx int, rowData []byte) {
	rowStride := (imgWidth*format.Volume() + 7) / 8
	rowOffset := y * rowStride

	if format.Depth >= 8 {
		bytesPerSample := format.Depth / 8
		pixelBytes := format.Channels * bytesPerSample
		for col := 0; col < sx; col++ {
			x := baseX + col*strideX
			srcOff := col * pixelBytes
			dstOff := rowOffset + x*pixelBytes
			copy(storage[dstOff:dstOff+pixelBytes], rowData[srcOff:srcOff+pixelBytes])
		}
		return
	}
	// Sub-byte depths only occur for single-channel formats (grayscale,
	// indexed), so each sample is exactly one pixel.
	for col := 0; col < sx; col++ {
		x := baseX + col*strideX
		v := extractPackedSample(rowData, col, format.Depth)
		writePackedSample(storage[rowOffset:], x, format.Depth, v)
	}
}

// Deindex maps a palette index to a caller-supplied RGBA64, built by
// BuildDeindexer.
type Deindex func(index int) RGBA64

// Unpack walks the fully deinterlaced storage buffer and produces one
// RGBA64 per pixel, applying palette deindexing, chroma-key
// transparency, BGR channel reordering (CgBI), and bit-depth
// quantization to 16 bits per channel.
func Unpack(storage []byte, format Format, width, height int, deindex Deindex, chromaKey []uint16) []RGBA64 {
	rowStride := (width*format.Volume() + 7) / 8
	out := make([]RGBA64, width*height)

	for y := 0; y < height; y++ {
		rowOff := y * rowStride
		for x := 0; x < width; x++ {
			if format.Indexed {
				idx := sampleAt(storage, rowOff, x, format.Depth)
				out[y*width+x] = deindex(idx)
				continue
			}
			out[y*width+x] = unpackDirectPixel(storage, rowOff, x, format, chromaKey)
		}
	}
	return out
}

func sampleAt(storage []byte, rowOff, x, depth int) int {
	if depth == 8 {
		return int(storage[rowOff+x])
	}
	return extractPackedSample(storage[rowOff:], x, depth)
}

func unpackDirectPixel(storage []byte, rowOff, x int, format Format, chromaKey []uint16) RGBA64 {
	if format.Depth < 8 {
		// Only grayscale supports sub-byte depths (v1/v2/v4): exactly
		// one packed sample per pixel, no separate alpha channel.
		v := uint16(extractPackedSample(storage[rowOff:], x, format.Depth))
		transparent := len(chromaKey) > 0 && matchesChromaKey([]uint16{v}, chromaKey)
		a := uint16(0xFFFF)
		if transparent {
			a = 0
		}
		yy := expand(v, format.Depth)
		return RGBA64{R: yy, G: yy, B: yy, A: a}
	}

	bytesPerSample := format.Depth / 8
	base := rowOff + x*format.Channels*bytesPerSample
	raw := make([]uint16, format.Channels)
	for ch := 0; ch < format.Channels; ch++ {
		off := base + ch*bytesPerSample
		if bytesPerSample == 1 {
			raw[ch] = uint16(storage[off])
		} else {
			raw[ch] = uint16(storage[off])<<8 | uint16(storage[off+1])
		}
	}

	transparent := len(chromaKey) > 0 && matchesChromaKey(raw, chromaKey)

	switch {
	case format.HasColor && format.HasAlpha:
		r, g, b, a := raw[0], raw[1], raw[2], raw[3]
		if format.BGROrder {
			r, b = raw[2], raw[0]
		}
		return RGBA64{R: expand(r, format.Depth), G: expand(g, format.Depth), B: expand(b, format.Depth), A: expand(a, format.Depth)}

	case format.HasColor:
		r, g, b := raw[0], raw[1], raw[2]
		if format.BGROrder {
			r, b = raw[2], raw[0]
		}
		a := uint16(0xFFFF)
		if transparent {
			a = 0
		}
		return RGBA64{R: expand(r, format.Depth), G: expand(g, format.Depth), B: expand(b, format.Depth), A: a}

	case format.HasAlpha: // grayscale + alpha
		y, a := raw[0], raw[1]
		yy := expand(y, format.Depth)
		return RGBA64{R: yy, G: yy, B: yy, A: expand(a, format.Depth)}

	default: // grayscale
		a := uint16(0xFFFF)
		if transparent {
			a = 0
		}
		yy := expand(raw[0], format.Depth)
		return RGBA64{R: yy, G: yy, B: yy, A: a}
	}
}

func matchesChromaKey(raw, key []uint16) bool {
	if len(raw) != len(key) {
		return false
	}
	for i := range raw {
		if raw[i] != key[i] {
			return false
		}
	}
	return true
}
