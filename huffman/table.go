// Package huffman builds canonical Huffman decode tables from a vector of
// per-symbol code lengths (as DEFLATE's dynamic and fixed blocks specify
// them) and decodes one symbol at a time from a bitio.Reader.
package huffman

import "github.com/mixcode/pngicc/bitio"

const maxTableBits = 15 // DEFLATE caps code length at 15 bits.

type entry struct {
	length uint8 // 0 means "no code maps here"
	symbol uint16
}

// Table is a flat, bit-reversed canonical Huffman decode table sized
// 2^maxBits, built once per block (or once for the whole stream, for the
// fixed tables) and probed a symbol at a time.
type Table struct {
	entries []entry
	maxBits uint
}

// Status reports the outcome of a single Decode call.
type Status int

const (
	// Ok means sym holds a valid decoded symbol.
	Ok Status = iota
	// NeedMore means too few bits are currently buffered to resolve a
	// symbol; the caller should Feed more input and retry.
	NeedMore
	// Invalid means the bits present can never resolve to a valid code:
	// the code-length histogram did not describe a complete prefix code.
	Invalid
)

// Build constructs a decode table from lengths, where lengths[sym] is the
// code length (0-15) assigned to symbol sym, or 0 if sym is unused.
// It mirrors the canonical-code assignment in RFC 1951 §3.2.2.
func Build(lengths []int) (*Table, error) {
	maxBits := 0
	for _, l := range lengths {
		if l > maxBits {
			maxBits = l
		}
	}
	if maxBits == 0 {
		return &Table{entries: make([]entry, 1), maxBits: 0}, nil
	}
	if maxBits > maxTableBits {
		return nil, errTooLong
	}

	var count [maxTableBits + 1]int
	for _, l := range lengths {
		if l > 0 {
			count[l]++
		}
	}

	var nextCode [maxTableBits + 1]int
	code := 0
	for l := 1; l <= maxBits; l++ {
		code = (code + count[l-1]) << 1
		nextCode[l] = code
	}

	size := 1 << uint(maxBits)
	t := &Table{entries: make([]entry, size), maxBits: uint(maxBits)}
	for sym, l := range lengths {
		if l == 0 {
			continue
		}
		c := nextCode[l]
		nextCode[l]++
		rev := reverseBits(uint16(c), uint(l))
		step := 1 << uint(l)
		for idx := int(rev); idx < size; idx += step {
			t.entries[idx] = entry{length: uint8(l), symbol: uint16(sym)}
		}
	}
	return t, nil
}

func reverseBits(v uint16, n uint) uint16 {
	var r uint16
	for i := uint(0); i < n; i++ {
		r = (r << 1) | (v & 1)
		v >>= 1
	}
	return r
}

// Decode consumes the next symbol from br. On NeedMore or Invalid, sym is
// meaningless and no bits are consumed.
func (t *Table) Decode(br *bitio.Reader) (sym int, status Status) {
	if t.maxBits == 0 {
		return 0, Invalid
	}
	avail := br.Avail()
	k := t.maxBits
	if avail < k {
		k = avail
	}
	if k == 0 {
		return 0, NeedMore
	}
	v, _ := br.Peek(k)
	e := t.entries[v]
	if e.length == 0 {
		if k >= t.maxBits {
			return 0, Invalid
		}
		return 0, NeedMore
	}
	if uint(e.length) > k {
		return 0, NeedMore
	}
	br.Skip(uint(e.length))
	return int(e.symbol), Ok
}
