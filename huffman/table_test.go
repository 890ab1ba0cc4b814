package huffman

import (
	"testing"

	"github.com/mixcode/pngicc/bitio"
)

// bitPacker packs (reversed-code, length) pairs into bytes the same way
// bitio.Reader unpacks them: LSB-first within each byte, across bytes.
type bitPacker struct {
	acc   uint32
	nbits uint
	out   []byte
}

func (p *bitPacker) push(code uint16, length uint) {
	p.acc |= uint32(code) << p.nbits
	p.nbits += length
	for p.nbits >= 8 {
		p.out = append(p.out, byte(p.acc))
		p.acc >>= 8
		p.nbits -= 8
	}
}

func (p *bitPacker) bytes() []byte {
	out := p.out
	if p.nbits > 0 {
		out = append(out, byte(p.acc))
	}
	return out
}

func TestBuildAndDecodeCanonicalCodes(t *testing.T) {
	// classic 4-symbol example: lengths 2,1,3,3 for symbols 0..3.
	lengths := []int{2, 1, 3, 3}
	tbl, err := Build(lengths)
	if err != nil {
		t.Fatal(err)
	}

	// Canonical codes (MSB-first): sym1="0", sym0="10", sym2="110", sym3="111".
	// Their bit-reversed forms (as they appear to a LSB-first reader):
	codes := map[int]struct {
		rev uint16
		len uint
	}{
		1: {0b0, 1},
		0: {0b1, 2},
		2: {0b011, 3},
		3: {0b111, 3},
	}

	seq := []int{1, 0, 2, 3, 1, 1}
	p := &bitPacker{}
	for _, sym := range seq {
		c := codes[sym]
		p.push(c.rev, c.len)
	}

	br := bitio.NewReader()
	br.Feed(p.bytes())
	for i, want := range seq {
		got, status := tbl.Decode(br)
		if status != Ok {
			t.Fatalf("symbol %d: status = %v, want Ok", i, status)
		}
		if got != want {
			t.Fatalf("symbol %d = %d, want %d", i, got, want)
		}
	}
}

func TestDecodeNeedMoreAtStreamBoundary(t *testing.T) {
	lengths := []int{2, 1, 3, 3}
	tbl, _ := Build(lengths)

	codes := map[int]struct {
		rev uint16
		len uint
	}{3: {0b111, 3}}

	p := &bitPacker{}
	p.push(codes[3].rev, codes[3].len)
	full := p.bytes()

	br := bitio.NewReader()
	// Feed zero bits first: no bytes at all means NeedMore.
	if _, status := tbl.Decode(br); status != NeedMore {
		t.Fatalf("status with no input = %v, want NeedMore", status)
	}
	br.Feed(full)
	got, status := tbl.Decode(br)
	if status != Ok || got != 3 {
		t.Fatalf("decode after feed = %d, %v, want 3, Ok", got, status)
	}
}

func TestBuildSingleSymbolTable(t *testing.T) {
	// A table with just one used length-1 symbol; others zero/unused.
	lengths := []int{0, 1}
	tbl, err := Build(lengths)
	if err != nil {
		t.Fatal(err)
	}
	p := &bitPacker{}
	p.push(0, 1)
	br := bitio.NewReader()
	br.Feed(p.bytes())
	got, status := tbl.Decode(br)
	if status != Ok || got != 1 {
		t.Fatalf("decode = %d, %v, want 1, Ok", got, status)
	}
}

func TestDecodeInvalidForIncompleteCode(t *testing.T) {
	// A single symbol at length 2 cannot fully populate a 2-bit space;
	// querying an unmapped high code with full lookahead must be Invalid.
	lengths := []int{2}
	tbl, _ := Build(lengths)
	br := bitio.NewReader()
	br.Feed([]byte{0b11111111})
	// symbol 0's code occupies rev=0 with step 4 in a 4-entry table, so
	// only idx 0 is filled; the all-ones lookup (idx 3) is unmapped.
	_, status := tbl.Decode(br)
	if status != Invalid {
		t.Fatalf("status = %v, want Invalid", status)
	}
}
