package pixel

import "testing"

func TestUnpackRGBA8Direct(t *testing.T) {
	format, _ := Resolve(TrueColorAlpha, 8, false)
	// 1x1 image: r,g,b,a
	storage := []byte{10, 20, 30, 255}
	out := Unpack(storage, format, 1, 1, nil, nil)
	want := RGBA64{R: expand(10, 8), G: expand(20, 8), B: expand(30, 8), A: expand(255, 8)}
	if out[0] != want {
		t.Fatalf("got %+v, want %+v", out[0], want)
	}
}

func TestUnpackBGROrderSwapsRedAndBlue(t *testing.T) {
	format, _ := Resolve(TrueColor, 8, true)
	// stored as BGR: 30,20,10 should unpack to R=10,G=20,B=30.
	storage := []byte{30, 20, 10}
	out := Unpack(storage, format, 1, 1, nil, nil)
	if out[0].R != expand(10, 8) || out[0].G != expand(20, 8) || out[0].B != expand(30, 8) {
		t.Fatalf("got %+v", out[0])
	}
}

func TestUnpackChromaKeyMarksTransparent(t *testing.T) {
	format, _ := Resolve(Grayscale, 8, false)
	storage := []byte{128, 200}
	out := Unpack(storage, format, 2, 1, nil, []uint16{128})
	if out[0].A != 0 {
		t.Fatalf("expected chroma-keyed pixel to be transparent, got %+v", out[0])
	}
	if out[1].A != 0xFFFF {
		t.Fatalf("expected non-matching pixel to be opaque, got %+v", out[1])
	}
}

func TestUnpackIndexedUsesDeindexer(t *testing.T) {
	format, _ := Resolve(Indexed, 2, false)
	deindex := BuildDeindexer([]PaletteEntry{
		{R: 0, G: 0, B: 0},
		{R: 255, G: 255, B: 255},
	}, nil)
	// One byte packs four 2-bit samples: 0b10 0b01 0b00 0b01 -> indices [2,1,0,1]... actually MSB-first.
	storage := []byte{0b10_01_00_01}
	out := Unpack(storage, format, 4, 1, deindex, nil)
	wantIdx := []int{2, 1, 0, 1}
	for i, idx := range wantIdx {
		want := deindex(idx)
		if out[i] != want {
			t.Fatalf("pixel %d: got %+v, want index %d = %+v", i, out[i], idx, want)
		}
	}
}

func TestUnpackGrayscaleDepth1(t *testing.T) {
	format, _ := Resolve(Grayscale, 1, false)
	// 0b10110000 -> MSB-first samples [1,0,1,1,0,0,0,0]
	storage := []byte{0b1011_0000}
	out := Unpack(storage, format, 8, 1, nil, nil)
	want := []uint16{1, 0, 1, 1, 0, 0, 0, 0}
	for i, w := range want {
		yy := expand(w, 1)
		if out[i].R != yy || out[i].G != yy || out[i].B != yy || out[i].A != 0xFFFF {
			t.Fatalf("pixel %d: got %+v, want gray %d", i, out[i], yy)
		}
	}
}

func TestUnpackGrayscaleDepth2(t *testing.T) {
	format, _ := Resolve(Grayscale, 2, false)
	// 0b11100100 -> samples [3,2,1,0]
	storage := []byte{0b1110_0100}
	out := Unpack(storage, format, 4, 1, nil, nil)
	want := []uint16{3, 2, 1, 0}
	for i, w := range want {
		yy := expand(w, 2)
		if out[i].R != yy {
			t.Fatalf("pixel %d: got R=%d, want %d", i, out[i].R, yy)
		}
	}
}

func TestUnpackGrayscaleDepth4(t *testing.T) {
	format, _ := Resolve(Grayscale, 4, false)
	// 0xAB -> samples [10, 11]
	storage := []byte{0xAB}
	out := Unpack(storage, format, 2, 1, nil, nil)
	want := []uint16{10, 11}
	for i, w := range want {
		yy := expand(w, 4)
		if out[i].R != yy {
			t.Fatalf("pixel %d: got R=%d, want %d", i, out[i].R, yy)
		}
	}
}

func TestUnpackGrayscaleDepth1ChromaKey(t *testing.T) {
	format, _ := Resolve(Grayscale, 1, false)
	storage := []byte{0b1000_0000} // samples [1,0,0,0,0,0,0,0]
	out := Unpack(storage, format, 8, 1, nil, []uint16{0})
	if out[0].A != 0xFFFF {
		t.Fatalf("sample 1 (non-matching) should be opaque, got %+v", out[0])
	}
	if out[1].A != 0 {
		t.Fatalf("sample 0 (chroma-keyed) should be transparent, got %+v", out[1])
	}
}

func TestExpandIdentityAt16Bits(t *testing.T) {
	if expand(1234, 16) != 1234 {
		t.Fatal("expand at depth 16 must be identity")
	}
}

func TestExpandScalesDepth1ToFullRange(t *testing.T) {
	if expand(0, 1) != 0 || expand(1, 1) != 65535 {
		t.Fatalf("got %d, %d", expand(0, 1), expand(1, 1))
	}
}

func TestCopyRowByteAligned(t *testing.T) {
	format, _ := Resolve(TrueColor, 8, false)
	storage := make([]byte, 2*3) // 2x1 image, rgb8
	// Pass covers columns 0 and 1 of row 0 with stride 1.
	CopyRow(storage, 2, format, 0, 0, 1, 2, []byte{1, 2, 3, 4, 5, 6})
	want := []byte{1, 2, 3, 4, 5, 6}
	for i, b := range want {
		if storage[i] != b {
			t.Fatalf("byte %d = %d, want %d", i, storage[i], b)
		}
	}
}

func TestCopyRowSubBytePacked(t *testing.T) {
	format, _ := Resolve(Grayscale, 1, false)
	storage := make([]byte, 1) // 8-pixel wide row at 1 bit
	// Interlaced pass writing only even columns (stride 2), all set to 1.
	CopyRow(storage, 8, format, 0, 0, 2, 4, []byte{0b1111_0000}) // 4 packed samples, all read as 1 via top bits
	// Columns 0,2,4,6 should be set to the extracted bit value.
	for _, x := range []int{0, 2, 4, 6} {
		got := extractPackedSample(storage, x, 1)
		if got != 1 {
			t.Fatalf("column %d = %d, want 1", x, got)
		}
	}
}
