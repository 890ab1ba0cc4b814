// Package pngicc decodes PNG images (including the Apple iOS CgBI
// variant) from scratch: container framing and chunk-ordering
// validation, a from-scratch DEFLATE/zlib inflator, Adam7 deinterlacing
// and per-row filter reversal, and palette/chroma-key-aware pixel
// unpacking into a caller-usable RGBA64 buffer.
package pngicc

import (
	"io"

	"github.com/mixcode/pngicc/chunk"
	"github.com/mixcode/pngicc/inflate"
	"github.com/mixcode/pngicc/pixel"
	"github.com/mixcode/pngicc/pngerr"
	"github.com/mixcode/pngicc/scanline"
)

// Image is the fully decoded result of Decode.
type Image struct {
	Width, Height int
	Interlaced    bool
	Format        pixel.Format

	Palette       chunk.Palette
	Transparency  *chunk.Transparency
	Background    *chunk.Background
	Metadata      chunk.Metadata

	// Pixels is row-major, len == Width*Height, in the canonical
	// full-precision RGBA64 representation.
	Pixels []pixel.RGBA64
}

// Decode reads a complete PNG stream and produces an Image by running
// the container signature check, chunk-ordering validation, IDAT
// decompression, scanline reconstruction, and pixel unpacking in turn.
func Decode(r io.Reader) (*Image, error) {
	if err := chunk.CheckSignature(r); err != nil {
		return nil, err
	}
	lex := chunk.NewLexer(r)
	validator := chunk.NewValidator()

	raw, err := lex.Next()
	if err != nil {
		return nil, wrapLexErr(err)
	}
	if raw.Type == "CgBI" {
		if err := validator.Observe("CgBI"); err != nil {
			return nil, err
		}
		if err := chunk.ParseCgBI(raw.Data); err != nil {
			return nil, err
		}
		if raw, err = lex.Next(); err != nil {
			return nil, wrapLexErr(err)
		}
	}
	if raw.Type != "IHDR" {
		return nil, &pngerr.RequiredError{Prev: "IHDR", Curr: raw.Type}
	}
	if err := validator.Observe("IHDR"); err != nil {
		return nil, err
	}
	ihdr, err := chunk.ParseIHDR(raw.Data)
	if err != nil {
		return nil, err
	}

	img := &Image{
		Width:      int(ihdr.Width),
		Height:     int(ihdr.Height),
		Interlaced: ihdr.Interlaced(),
	}

	var palette chunk.Palette
	var rawTRNS, rawBKGD, rawSBIT, rawHIST []byte

	// Drive the chunk loop until the first IDAT.
	for {
		raw, err = lex.Next()
		if err != nil {
			return nil, wrapLexErr(err)
		}
		if err := validator.Observe(raw.Type); err != nil {
			return nil, err
		}
		if raw.Type == "IDAT" {
			break
		}
		if err := routeAncillaryChunk(raw, &img.Metadata, &palette, &rawTRNS, &rawBKGD, &rawSBIT, &rawHIST); err != nil {
			return nil, err
		}
	}

	paletteLen := len(palette)
	format, err := pixel.Resolve(ihdr.ColorType, int(ihdr.BitDepth), validator.IsIOS())
	if err != nil {
		return nil, err
	}
	if format.Indexed && palette == nil {
		return nil, &pngerr.RequiredError{Prev: "PLTE", Curr: "IDAT"}
	}
	if palette != nil {
		if err := palette.Validate(ihdr.ColorType, int(ihdr.BitDepth)); err != nil {
			return nil, err
		}
	}
	img.Format = format
	img.Palette = palette

	if rawTRNS != nil {
		t, err := chunk.ParseTRNS(rawTRNS, ihdr.ColorType, int(ihdr.BitDepth), paletteLen)
		if err != nil {
			return nil, err
		}
		img.Transparency = t
	}
	if rawBKGD != nil {
		b, err := chunk.ParseBKGD(rawBKGD, ihdr.ColorType, paletteLen)
		if err != nil {
			return nil, err
		}
		img.Background = b
	}
	if rawSBIT != nil {
		sbitDepth := int(ihdr.BitDepth)
		if format.Indexed {
			sbitDepth = 8 // palette entries are 8-bit samples
		}
		sb, err := chunk.ParseSBIT(rawSBIT, sbitChannelCount(ihdr.ColorType), sbitDepth)
		if err != nil {
			return nil, err
		}
		img.Metadata.SignificantBits = sb
	}
	if rawHIST != nil {
		h, err := chunk.ParseHIST(rawHIST, paletteLen)
		if err != nil {
			return nil, err
		}
		img.Metadata.Histogram = h
	}

	var deindex pixel.Deindex
	var chromaKey []uint16
	if format.Indexed {
		entries := make([]pixel.PaletteEntry, len(palette))
		for i, p := range palette {
			entries[i] = pixel.PaletteEntry{R: p.R, G: p.G, B: p.B}
		}
		var indexAlpha []uint8
		if img.Transparency != nil {
			indexAlpha = img.Transparency.IndexAlpha
		}
		deindex = pixel.BuildDeindexer(entries, indexAlpha)
	} else if img.Transparency != nil {
		chromaKey = img.Transparency.ChromaKey
	}

	rowStride := (img.Width*format.Volume() + 7) / 8
	storage := make([]byte, rowStride*img.Height)
	recon := scanline.New(img.Width, img.Height, format.Volume(), img.Interlaced,
		func(row, sx, baseX, baseY, strideX, strideY int, data []byte) {
			y := baseY + row*strideY
			pixel.CopyRow(storage, img.Width, format, y, baseX, strideX, sx, data)
		})

	inflateFormat := inflate.Zlib
	if validator.IsIOS() {
		inflateFormat = inflate.IOS
	}
	inf := inflate.New(inflateFormat)

	// Feed each contiguous IDAT payload to the inflator and drain whatever
	// scanlines it makes available.
	current := raw
	for {
		status, ierr := inf.Push(current.Data)
		if ierr != nil {
			return nil, &pngerr.InflationError{Detail: ierr.Error()}
		}
		if _, err := recon.Run(inf.Pull); err != nil {
			return nil, &pngerr.ParsingError{Chunk: "IDAT", Detail: err.Error()}
		}
		if status == inflate.Complete {
			break
		}
		next, err := lex.Next()
		if err != nil {
			if err == io.EOF {
				return nil, &pngerr.IncompleteStreamError{}
			}
			return nil, wrapLexErr(err)
		}
		if err := validator.Observe(next.Type); err != nil {
			return nil, err
		}
		if next.Type != "IDAT" {
			return nil, &pngerr.IncompleteStreamError{}
		}
		current = next
	}
	if !recon.Done() {
		return nil, &pngerr.IncompleteStreamError{}
	}
	if inf.Pending() > 0 {
		return nil, &pngerr.ExtraneousImageDataError{}
	}

	// Continue consuming ancillary chunks until IEND.
	for {
		raw, err = lex.Next()
		if err != nil {
			return nil, wrapLexErr(err)
		}
		if raw.Type == "IDAT" {
			return nil, &pngerr.ExtraneousDataError{}
		}
		if err := validator.Observe(raw.Type); err != nil {
			return nil, err
		}
		if raw.Type == "IEND" {
			break
		}
		if err := routeAncillaryChunk(raw, &img.Metadata, &palette, &rawTRNS, &rawBKGD, &rawSBIT, &rawHIST); err != nil {
			return nil, err
		}
	}

	img.Pixels = pixel.Unpack(storage, format, img.Width, img.Height, deindex, chromaKey)
	return img, nil
}

// routeAncillaryChunk parses one chunk that isn't IHDR/CgBI/IDAT/IEND
// and files it into the metadata accumulator (or, for the chunks whose
// decoding depends on the not-yet-resolved pixel format, stashes its
// raw payload for the caller to parse once Format is known).
func routeAncillaryChunk(raw *chunk.Raw, meta *chunk.Metadata, palette *chunk.Palette, rawTRNS, rawBKGD, rawSBIT, rawHIST *[]byte) error {
	switch raw.Type {
	case "PLTE":
		p, err := chunk.ParsePLTE(raw.Data)
		if err != nil {
			return err
		}
		*palette = p
	case "tRNS":
		*rawTRNS = raw.Data
	case "bKGD":
		*rawBKGD = raw.Data
	case "sBIT":
		*rawSBIT = raw.Data
	case "hIST":
		*rawHIST = raw.Data
	case "gAMA":
		g, err := chunk.ParseGAMA(raw.Data)
		if err != nil {
			return err
		}
		meta.Gamma = &g
	case "cHRM":
		c, err := chunk.ParseCHRM(raw.Data)
		if err != nil {
			return err
		}
		meta.Chromaticity = c
	case "sRGB":
		intent, err := chunk.ParseSRGB(raw.Data)
		if err != nil {
			return err
		}
		meta.RenderingIntent = &intent
	case "iCCP":
		cp, err := chunk.ParseICCP(raw.Data)
		if err != nil {
			return err
		}
		meta.ColorProfile = cp
	case "pHYs":
		p, err := chunk.ParsePHYS(raw.Data)
		if err != nil {
			return err
		}
		meta.PhysicalDims = p
	case "tIME":
		t, err := chunk.ParseTIME(raw.Data)
		if err != nil {
			return err
		}
		meta.ModTime = t
	case "sPLT":
		sp, err := chunk.ParseSPLT(raw.Data)
		if err != nil {
			return err
		}
		meta.SuggestedPalettes = append(meta.SuggestedPalettes, *sp)
	case "tEXt":
		e, err := chunk.ParseTEXT(raw.Data)
		if err != nil {
			return err
		}
		meta.TextEntries = append(meta.TextEntries, *e)
	case "zTXt":
		e, err := chunk.ParseZTXT(raw.Data)
		if err != nil {
			return err
		}
		meta.TextEntries = append(meta.TextEntries, *e)
	case "iTXt":
		e, err := chunk.ParseITXT(raw.Data)
		if err != nil {
			return err
		}
		meta.TextEntries = append(meta.TextEntries, *e)
	default:
		meta.UnknownChunks = append(meta.UnknownChunks, *raw)
	}
	return nil
}

// sbitChannelCount is the number of sBIT values PNG expects for each
// color type: 3 for Indexed, since sBIT there describes the palette
// entries' original RGB precision rather than the 1-byte index.
func sbitChannelCount(ct pixel.ColorType) int {
	switch ct {
	case pixel.Grayscale:
		return 1
	case pixel.GrayscaleAlpha:
		return 2
	case pixel.TrueColor, pixel.Indexed:
		return 3
	case pixel.TrueColorAlpha:
		return 4
	}
	return 0
}

func wrapLexErr(err error) error {
	if err == io.EOF {
		return &pngerr.IncompleteStreamError{}
	}
	return err
}
