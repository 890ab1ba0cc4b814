package pngicc

import (
	"bytes"
	"compress/flate"
	"compress/zlib"
	"encoding/binary"
	"hash/crc32"
	"testing"
)

func writeChunk(buf *bytes.Buffer, typ string, data []byte) {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(data)))
	buf.Write(lenBuf[:])
	buf.WriteString(typ)
	buf.Write(data)
	crc := crc32.NewIEEE()
	crc.Write([]byte(typ))
	crc.Write(data)
	var crcBuf [4]byte
	binary.BigEndian.PutUint32(crcBuf[:], crc.Sum32())
	buf.Write(crcBuf[:])
}

func zlibCompress(t *testing.T, data []byte) []byte {
	t.Helper()
	var z bytes.Buffer
	w := zlib.NewWriter(&z)
	if _, err := w.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return z.Bytes()
}

func ihdrPayload(w, h uint32, depth, colorType uint8, interlace uint8) []byte {
	b := make([]byte, 13)
	binary.BigEndian.PutUint32(b[0:4], w)
	binary.BigEndian.PutUint32(b[4:8], h)
	b[8] = depth
	b[9] = colorType
	b[10], b[11] = 0, 0
	b[12] = interlace
	return b
}

func TestDecodeMinimal1x1RGBA8(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A})
	writeChunk(&buf, "IHDR", ihdrPayload(1, 1, 8, 6, 0))
	raw := []byte{0, 10, 20, 30, 255} // filter byte 0 + rgba
	writeChunk(&buf, "IDAT", zlibCompress(t, raw))
	writeChunk(&buf, "IEND", nil)

	img, err := Decode(&buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.Width != 1 || img.Height != 1 {
		t.Fatalf("got %dx%d", img.Width, img.Height)
	}
	p := img.Pixels[0]
	if p.R>>8 != 10 || p.G>>8 != 20 || p.B>>8 != 30 || p.A>>8 != 255 {
		t.Fatalf("got pixel %+v", p)
	}
}

func TestDecodeIndexed2x2(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A})
	writeChunk(&buf, "IHDR", ihdrPayload(2, 2, 1, 3, 0))
	writeChunk(&buf, "PLTE", []byte{0, 0, 0, 255, 255, 255})
	raw := []byte{0, 0b10000000, 0, 0b01000000}
	writeChunk(&buf, "IDAT", zlibCompress(t, raw))
	writeChunk(&buf, "IEND", nil)

	img, err := Decode(&buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantIdx := []int{1, 0, 0, 1}
	for i, idx := range wantIdx {
		want := idx != 0
		got := img.Pixels[i].R > 0
		if got != want {
			t.Fatalf("pixel %d: got R=%d, want index %d", i, img.Pixels[i].R, idx)
		}
	}
}

func TestDecodeRejectsBadCRC(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A})
	ihdr := ihdrPayload(1, 1, 8, 6, 0)
	writeChunk(&buf, "IHDR", ihdr)
	b := buf.Bytes()
	b[len(b)-1] ^= 0xFF // flip every bit of the last CRC byte

	if _, err := Decode(bytes.NewReader(b)); err == nil {
		t.Fatal("expected CRC error")
	}
}

func TestDecodeMissingPLTERejected(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A})
	writeChunk(&buf, "IHDR", ihdrPayload(1, 1, 8, 3, 0))
	writeChunk(&buf, "IDAT", zlibCompress(t, []byte{0, 0}))
	writeChunk(&buf, "IEND", nil)

	if _, err := Decode(&buf); err == nil {
		t.Fatal("expected error for indexed image without PLTE")
	}
}

func TestDecodeNonContiguousIDATRejected(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A})
	writeChunk(&buf, "IHDR", ihdrPayload(1, 1, 8, 6, 0))
	compressed := zlibCompress(t, []byte{0, 1, 2, 3, 4})
	writeChunk(&buf, "IDAT", compressed[:len(compressed)/2])
	writeChunk(&buf, "tEXt", []byte("Comment\x00hi"))
	writeChunk(&buf, "IDAT", compressed[len(compressed)/2:])
	writeChunk(&buf, "IEND", nil)

	if _, err := Decode(&buf); err == nil {
		t.Fatal("expected error for non-contiguous IDAT")
	}
}

func TestDecodeIOSVariantSwapsChannels(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A})
	writeChunk(&buf, "CgBI", []byte{0x43, 0x67, 0x42, 0x49})
	writeChunk(&buf, "IHDR", ihdrPayload(1, 1, 8, 2, 0))

	// iOS payload is raw DEFLATE (no zlib wrapper), BGR-ordered samples.
	raw := []byte{0, 30, 20, 10} // filter 0, B=30 G=20 R=10
	var deflated bytes.Buffer
	fw, err := flate.NewWriter(&deflated, flate.DefaultCompression)
	if err != nil {
		t.Fatal(err)
	}
	fw.Write(raw)
	fw.Close()
	writeChunk(&buf, "IDAT", deflated.Bytes())
	writeChunk(&buf, "IEND", nil)

	img, err := Decode(&buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := img.Pixels[0]
	if p.R>>8 != 10 || p.G>>8 != 20 || p.B>>8 != 30 {
		t.Fatalf("got %+v, want R=10 G=20 B=30 after BGR swap", p)
	}
}
