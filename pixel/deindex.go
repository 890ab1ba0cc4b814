package pixel

// PaletteEntry is one RGB triple plus its resolved alpha, already
// folded together from PLTE and tRNS by BuildDeindexer.
type PaletteEntry struct {
	R, G, B, A uint8
}

// BuildDeindexer folds a PLTE-derived RGB palette and an optional tRNS
// per-index alpha overlay into a single Deindex closure; alphas beyond
// len(indexAlpha) default to 255 (opaque).
func BuildDeindexer(palette []PaletteEntry, indexAlpha []uint8) Deindex {
	entries := make([]PaletteEntry, len(palette))
	copy(entries, palette)
	for i := range entries {
		if i < len(indexAlpha) {
			entries[i].A = indexAlpha[i]
		} else {
			entries[i].A = 255
		}
	}
	return func(index int) RGBA64 {
		if index < 0 || index >= len(entries) {
			return RGBA64{}
		}
		e := entries[index]
		return RGBA64{
			R: expand(uint16(e.R), 8),
			G: expand(uint16(e.G), 8),
			B: expand(uint16(e.B), 8),
			A: expand(uint16(e.A), 8),
		}
	}
}
