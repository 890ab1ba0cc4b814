package chunk

import (
	"errors"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/mixcode/pngicc/pngerr"
)

// TextEntry is one decoded tEXt/zTXt/iTXt chunk, normalized to a common
// shape so callers don't need to branch on which chunk type produced it.
type TextEntry struct {
	Chunk             string // "tEXt", "zTXt", or "iTXt"
	Keyword           string
	LanguageTag       string // iTXt only
	TranslatedKeyword string // iTXt only
	Text              string
	Compressed        bool
}

func splitKeyword(data []byte, chunkName string) (keyword string, rest []byte, err error) {
	nul := indexByte(data, 0)
	if nul < 1 || nul > 79 {
		return "", nil, &pngerr.TextError{Chunk: chunkName, Detail: "keyword missing or out of 1-79 byte range"}
	}
	return latin1ToUTF8(data[:nul]), data[nul+1:], nil
}

// ParseTEXT decodes a tEXt chunk: a Latin-1 keyword, a null separator,
// and uncompressed Latin-1 text.
func ParseTEXT(data []byte) (*TextEntry, error) {
	keyword, rest, err := splitKeyword(data, "tEXt")
	if err != nil {
		return nil, err
	}
	return &TextEntry{Chunk: "tEXt", Keyword: keyword, Text: latin1ToUTF8(rest)}, nil
}

// ParseZTXT decodes a zTXt chunk: a Latin-1 keyword, a compression
// method byte (must be 0, zlib), and a zlib-compressed Latin-1 text
// payload.
func ParseZTXT(data []byte) (*TextEntry, error) {
	keyword, rest, err := splitKeyword(data, "zTXt")
	if err != nil {
		return nil, err
	}
	if len(rest) < 1 {
		return nil, &pngerr.TextError{Chunk: "zTXt", Detail: "missing compression method"}
	}
	if rest[0] != 0 {
		return nil, &pngerr.TextError{Chunk: "zTXt", Detail: "unsupported compression method"}
	}
	plain, err := inflateWhole(rest[1:])
	if err != nil {
		return nil, &pngerr.TextError{Chunk: "zTXt", Detail: err.Error()}
	}
	return &TextEntry{Chunk: "zTXt", Keyword: keyword, Text: latin1ToUTF8(plain), Compressed: true}, nil
}

// ParseITXT decodes an iTXt chunk: a Latin-1 keyword, a compression
// flag/method pair, an ASCII language tag, a UTF-8 translated keyword,
// and UTF-8 text that is optionally zlib-compressed; malformed fields
// surface as pngerr.TextError.
func ParseITXT(data []byte) (*TextEntry, error) {
	keyword, rest, err := splitKeyword(data, "iTXt")
	if err != nil {
		return nil, err
	}
	if len(rest) < 2 {
		return nil, &pngerr.TextError{Chunk: "iTXt", Detail: "missing compression flag/method"}
	}
	compFlag, compMethod := rest[0], rest[1]
	if compFlag > 1 {
		return nil, &pngerr.TextError{Chunk: "iTXt", Detail: "compression flag must be 0 or 1"}
	}
	if compFlag == 1 && compMethod != 0 {
		return nil, &pngerr.TextError{Chunk: "iTXt", Detail: "unsupported compression method"}
	}
	rest = rest[2:]

	langNul := indexByte(rest, 0)
	if langNul < 0 {
		return nil, &pngerr.TextError{Chunk: "iTXt", Detail: "missing language tag terminator"}
	}
	lang := string(rest[:langNul])
	if !isASCII(lang) {
		return nil, &pngerr.TextError{Chunk: "iTXt", Detail: "language tag must be ASCII"}
	}
	rest = rest[langNul+1:]

	xkwNul := indexByte(rest, 0)
	if xkwNul < 0 {
		return nil, &pngerr.TextError{Chunk: "iTXt", Detail: "missing translated keyword terminator"}
	}
	translated, err := decodeUTF8(rest[:xkwNul])
	if err != nil {
		return nil, &pngerr.TextError{Chunk: "iTXt", Detail: "translated keyword: " + err.Error()}
	}
	rest = rest[xkwNul+1:]

	var text string
	if compFlag == 1 {
		plain, err := inflateWhole(rest)
		if err != nil {
			return nil, &pngerr.TextError{Chunk: "iTXt", Detail: err.Error()}
		}
		text, err = decodeUTF8(plain)
		if err != nil {
			return nil, &pngerr.TextError{Chunk: "iTXt", Detail: "text: " + err.Error()}
		}
	} else {
		text, err = decodeUTF8(rest)
		if err != nil {
			return nil, &pngerr.TextError{Chunk: "iTXt", Detail: "text: " + err.Error()}
		}
	}

	return &TextEntry{
		Chunk:             "iTXt",
		Keyword:           keyword,
		LanguageTag:       lang,
		TranslatedKeyword: translated,
		Text:              text,
		Compressed:        compFlag == 1,
	}, nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7F {
			return false
		}
	}
	return true
}

// decodeUTF8 validates the input is well-formed UTF-8 and returns it
// normalized to NFC.
func decodeUTF8(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", errors.New("invalid UTF-8")
	}
	if !norm.NFC.IsNormal(b) {
		return string(norm.NFC.Bytes(b)), nil
	}
	return string(b), nil
}
