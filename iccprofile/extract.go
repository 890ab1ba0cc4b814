// Package iccprofile extracts an embedded ICC color profile from a PNG
// stream without decoding pixel data, built on this module's own chunk
// lexer instead of a second ad hoc chunk walk.
package iccprofile

import (
	"io"

	"github.com/mixcode/pngicc/chunk"
)

// Extract reads an embedded ICC profile from a PNG stream, stopping as
// soon as an iCCP chunk (or IDAT, meaning none precedes the image
// data) is seen. It does not decode pixels. If the stream has no iCCP
// chunk, it returns a nil profile and no error.
func Extract(r io.Reader) (profile []byte, name string, err error) {
	if err = chunk.CheckSignature(r); err != nil {
		return nil, "", err
	}
	lex := chunk.NewLexer(r)
	for {
		raw, err := lex.Next()
		if err == io.EOF {
			return nil, "", nil
		}
		if err != nil {
			return nil, "", err
		}
		switch raw.Type {
		case "iCCP":
			cp, err := chunk.ParseICCP(raw.Data)
			if err != nil {
				return nil, "", err
			}
			return cp.Profile, cp.Name, nil
		case "IDAT", "IEND":
			// No iCCP precedes the image data; PNG's ordering grammar
			// forbids it from appearing afterward.
			return nil, "", nil
		}
	}
}

// ExtractOrDefault is a convenience wrapper returning just the profile
// bytes.
func ExtractOrDefault(r io.Reader) ([]byte, error) {
	profile, _, err := Extract(r)
	return profile, err
}
