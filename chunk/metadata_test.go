package chunk

import (
	"bytes"
	"compress/zlib"
	"testing"

	"github.com/mixcode/pngicc/pixel"
)

func TestParseGAMA(t *testing.T) {
	got, err := ParseGAMA([]byte{0x00, 0x01, 0x86, 0xa0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 100000 {
		t.Fatalf("got %d, want 100000", got)
	}
	if _, err := ParseGAMA([]byte{0, 0, 0}); err == nil {
		t.Fatal("expected error for short gAMA")
	}
}

func TestParseCHRM(t *testing.T) {
	data := make([]byte, 32)
	for i := range data {
		data[i] = byte(i)
	}
	c, err := ParseCHRM(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := uint32(0x00010203)
	if c.WhiteX != want {
		t.Fatalf("WhiteX = %#x, want %#x", c.WhiteX, want)
	}
}

func TestParseSRGBRejectsBadIntent(t *testing.T) {
	if _, err := ParseSRGB([]byte{4}); err == nil {
		t.Fatal("expected error for out-of-range rendering intent")
	}
	v, err := ParseSRGB([]byte{1})
	if err != nil || v != 1 {
		t.Fatalf("got (%d, %v), want (1, nil)", v, err)
	}
}

func TestParsePHYS(t *testing.T) {
	data := []byte{0, 0, 0x0B, 0x13, 0, 0, 0x0B, 0x13, 1}
	p, err := ParsePHYS(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.X != 2835 || p.Y != 2835 || p.Unit != 1 {
		t.Fatalf("got %+v", p)
	}
}

func TestParseTIMEValidatesFields(t *testing.T) {
	good := []byte{0x07, 0xE6, 3, 15, 12, 30, 0}
	tm, err := ParseTIME(good)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tm.Year() != 2022 || tm.Month() != 3 || tm.Day() != 15 {
		t.Fatalf("got %v", tm)
	}
	bad := []byte{0x07, 0xE6, 13, 15, 12, 30, 0} // month 13
	if _, err := ParseTIME(bad); err == nil {
		t.Fatal("expected error for invalid month")
	}
}

func TestParseSBIT(t *testing.T) {
	sb, err := ParseSBIT([]byte{5, 6, 5}, 3, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sb.Values) != 3 || sb.Values[1] != 6 {
		t.Fatalf("got %+v", sb)
	}
	if _, err := ParseSBIT([]byte{9}, 1, 8); err == nil {
		t.Fatal("expected error for value exceeding bit depth")
	}
}

func TestParseHISTMatchesPaletteLength(t *testing.T) {
	data := []byte{0, 1, 0, 2, 0, 3}
	h, err := ParseHIST(data, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h[0] != 1 || h[1] != 2 || h[2] != 3 {
		t.Fatalf("got %v", h)
	}
	if _, err := ParseHIST(data, 4); err == nil {
		t.Fatal("expected error for palette length mismatch")
	}
}

func TestParseICCPRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	w.Write([]byte("fake icc profile bytes"))
	w.Close()

	data := append([]byte("sRGB\x00\x00"), buf.Bytes()...)
	cp, err := ParseICCP(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cp.Name != "sRGB" {
		t.Fatalf("got name %q", cp.Name)
	}
	if string(cp.Profile) != "fake icc profile bytes" {
		t.Fatalf("got profile %q", cp.Profile)
	}
}

func TestParseSPLTEntries8Bit(t *testing.T) {
	data := append([]byte("pal\x00"), 8)
	data = append(data, 1, 2, 3, 255, 0, 10)
	sp, err := ParseSPLT(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sp.Name != "pal" || sp.SampleBit != 8 || len(sp.Entries) != 1 {
		t.Fatalf("got %+v", sp)
	}
	e := sp.Entries[0]
	if e.R != 1 || e.G != 2 || e.B != 3 || e.A != 255 || e.Frequency != 10 {
		t.Fatalf("got entry %+v", e)
	}
}

func TestParseBKGDDelegatesByColorType(t *testing.T) {
	if _, err := ParseBKGD([]byte{0, 0, 0, 0, 0, 0}, pixel.TrueColor, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseBKGD([]byte{0}, pixel.Grayscale, 0); err == nil {
		t.Fatal("expected error for wrong-length grayscale background")
	}
}
