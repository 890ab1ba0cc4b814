package scanline

// PassGeometry is one Adam7 sub-image's sampling pattern on the 8x8
// repeating grid.
type PassGeometry struct {
	Pass       int
	BaseX, BaseY int
	ExpX, ExpY   int
}

// Adam7Passes is the fixed seven-pass geometry table.
var Adam7Passes = [7]PassGeometry{
	{Pass: 0, BaseX: 0, BaseY: 0, ExpX: 3, ExpY: 3},
	{Pass: 1, BaseX: 4, BaseY: 0, ExpX: 3, ExpY: 3},
	{Pass: 2, BaseX: 0, BaseY: 4, ExpX: 2, ExpY: 3},
	{Pass: 3, BaseX: 2, BaseY: 0, ExpX: 2, ExpY: 2},
	{Pass: 4, BaseX: 0, BaseY: 2, ExpX: 1, ExpY: 2},
	{Pass: 5, BaseX: 1, BaseY: 0, ExpX: 1, ExpY: 1},
	{Pass: 6, BaseX: 0, BaseY: 1, ExpX: 0, ExpY: 1},
}

// SubImageDims computes a pass's sub-image width and height for a
// width x height image.
func SubImageDims(width, height int, g PassGeometry) (sx, sy int) {
	sx = subDim(width, g.BaseX, g.ExpX)
	sy = subDim(height, g.BaseY, g.ExpY)
	return
}

func subDim(size, base, exp int) int {
	v := size + (1 << uint(exp)) - base - 1
	if v <= 0 {
		return 0
	}
	return v >> uint(exp)
}

// RowBytes is the byte length of one filtered scanline: one leading
// filter-type byte plus ceil(sx*volume/8) sample bytes.
func RowBytes(sx, volume int) int {
	return (sx*volume+7)/8 + 1
}
