package chunk

import "github.com/mixcode/pngicc/pngerr"

// stage mirrors the dsStart/dsSeenIHDR/dsSeenIDAT/dsSeenIEND progression
// a typical PNG decoder tracks, widened with the CgBI and palette
// phases this format's ordering grammar requires.
type stage int

const (
	stageStart stage = iota
	stageSeenCgBI
	stageSeenIHDR
	stageSeenPalette
	stageSeenIDAT
	stageSeenIEND
)

// Validator enforces the PNG chunk-ordering grammar: which chunks may
// appear at most once, which must precede which, and the requirement
// that IDAT chunks form one contiguous run.
type Validator struct {
	stage       stage
	isIOS       bool
	paletteSeen bool
	idatStarted bool
	idatEnded   bool
	seenOnce    map[string]bool
}

// NewValidator returns a Validator in its initial state.
func NewValidator() *Validator {
	return &Validator{seenOnce: make(map[string]bool)}
}

// IsIOS reports whether a leading CgBI marker has been observed.
func (v *Validator) IsIOS() bool { return v.isIOS }

// Observe records that chunk type t has just been lexed and returns an
// error if its position violates the ordering grammar.
func (v *Validator) Observe(t string) error {
	switch t {
	case "CgBI":
		if v.stage != stageStart {
			return &pngerr.UnexpectedError{Curr: "CgBI", After: "start of stream"}
		}
		v.isIOS = true
		v.stage = stageSeenCgBI
		return nil

	case "IHDR":
		if v.stage != stageStart && v.stage != stageSeenCgBI {
			return &pngerr.DuplicateError{Chunk: "IHDR"}
		}
		v.stage = stageSeenIHDR
		return nil
	}

	if v.stage == stageStart || v.stage == stageSeenCgBI {
		return &pngerr.RequiredError{Prev: "IHDR", Curr: t}
	}

	switch t {
	case "PLTE":
		if v.paletteSeen {
			return &pngerr.DuplicateError{Chunk: "PLTE"}
		}
		if v.idatStarted {
			return &pngerr.UnexpectedError{Curr: "PLTE", After: "IDAT"}
		}
		for _, after := range []string{"bKGD", "tRNS"} {
			if v.seenOnce[after] {
				return &pngerr.UnexpectedError{Curr: "PLTE", After: after}
			}
		}
		v.paletteSeen = true
		v.stage = stageSeenPalette
		return nil

	case "bKGD", "tRNS", "hIST":
		if v.idatStarted {
			return &pngerr.UnexpectedError{Curr: t, After: "IDAT"}
		}
		if v.seenOnce[t] {
			return &pngerr.DuplicateError{Chunk: t}
		}
		if t == "hIST" && !v.paletteSeen {
			return &pngerr.RequiredError{Prev: "PLTE", Curr: "hIST"}
		}
		v.seenOnce[t] = true
		return nil

	case "cHRM", "gAMA", "sRGB", "iCCP", "sBIT":
		if v.paletteSeen {
			return &pngerr.UnexpectedError{Curr: t, After: "PLTE"}
		}
		if v.idatStarted {
			return &pngerr.UnexpectedError{Curr: t, After: "IDAT"}
		}
		if v.seenOnce[t] {
			return &pngerr.DuplicateError{Chunk: t}
		}
		v.seenOnce[t] = true
		return nil

	case "IDAT":
		if v.idatEnded {
			return &pngerr.UnexpectedError{Curr: "IDAT", After: "IDAT"}
		}
		v.idatStarted = true
		v.stage = stageSeenIDAT
		return nil

	case "IEND":
		if !v.idatStarted {
			return &pngerr.RequiredError{Prev: "IDAT", Curr: "IEND"}
		}
		v.stage = stageSeenIEND
		return nil

	case "tIME":
		if v.seenOnce["tIME"] {
			return &pngerr.DuplicateError{Chunk: "tIME"}
		}
		v.seenOnce["tIME"] = true
		return v.closeIDATRunIfOpen()

	case "pHYs":
		if v.seenOnce["pHYs"] {
			return &pngerr.DuplicateError{Chunk: "pHYs"}
		}
		v.seenOnce["pHYs"] = true
		return v.closeIDATRunIfOpen()

	default:
		// sPLT (multiple allowed), tEXt/zTXt/iTXt (multiple allowed),
		// and any unrecognized-but-valid chunk: forwarded to the
		// metadata sink without uniqueness tracking.
		return v.closeIDATRunIfOpen()
	}
}

// closeIDATRunIfOpen marks the IDAT run finished the first time any
// chunk other than IDAT is observed after IDAT has started; a
// subsequent IDAT is then flagged non-contiguous.
func (v *Validator) closeIDATRunIfOpen() error {
	if v.idatStarted && !v.idatEnded {
		v.idatEnded = true
	}
	return nil
}
