package main

import (
	"github.com/mixcode/pngicc"
	"github.com/mixcode/pngicc/pixel"
)

// encodeTarget narrows an Image's canonical RGBA64 pixels down to the
// requested 8-bit output target and serializes them row-major.
func encodeTarget(img *pngicc.Image, target string) []byte {
	switch target {
	case "rgb8":
		out := make([]byte, 0, len(img.Pixels)*3)
		for _, p := range img.Pixels {
			c := pixel.RGB8{}.FromRGBA64(p)
			out = append(out, c.R, c.G, c.B)
		}
		return out
	case "grayscale8":
		out := make([]byte, 0, len(img.Pixels))
		for _, p := range img.Pixels {
			c := pixel.Grayscale8{}.FromRGBA64(p)
			out = append(out, c.Y)
		}
		return out
	case "va8":
		out := make([]byte, 0, len(img.Pixels)*2)
		for _, p := range img.Pixels {
			c := pixel.GrayscaleAlpha8{}.FromRGBA64(p)
			out = append(out, c.Y, c.A)
		}
		return out
	default: // rgba8
		out := make([]byte, 0, len(img.Pixels)*4)
		for _, p := range img.Pixels {
			c := pixel.RGBA8{}.FromRGBA64(p)
			out = append(out, c.R, c.G, c.B, c.A)
		}
		return out
	}
}
