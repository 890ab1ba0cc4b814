package scanline

// RowSink receives one fully reconstructed (post-filter) scanline's
// samples, positioned by Adam7 pass geometry. row is the sub-image row
// index within the pass; baseX/baseY and strideX/strideY place it in
// the full image grid. For the non-interlaced case, base is (0,0) and
// stride is (1,1).
type RowSink func(row, sx, baseX, baseY, strideX, strideY int, data []byte)

// geom is one non-empty pass's precomputed dimensions.
type geom struct {
	pass                         int
	baseX, baseY, strideX, strideY int
	sx, sy, rowBytes             int
}

// Reconstructor drives the Adam7 pass loop and per-row filter reversal
// over a byte source that may only have a partial row available at any
// given call. State is held entirely in (passIdx, row, prevRow), so a
// caller can suspend between any two Pull calls and resume later
// without loss.
type Reconstructor struct {
	delay  int
	passes []geom
	sink   RowSink

	passIdx int
	row     int
	prevRow []byte
}

// New returns a Reconstructor for an image of the given width, height,
// and bit volume (depth*channels). When interlaced is false, a single
// pass covering the whole image is used.
func New(width, height, volume int, interlaced bool, sink RowSink) *Reconstructor {
	delay := (volume + 7) / 8
	if delay < 1 {
		delay = 1
	}
	var passes []geom
	if !interlaced {
		sx, sy := width, height
		if sx > 0 && sy > 0 {
			passes = append(passes, geom{
				pass: 0, baseX: 0, baseY: 0, strideX: 1, strideY: 1,
				sx: sx, sy: sy, rowBytes: RowBytes(sx, volume),
			})
		}
	} else {
		for _, g := range Adam7Passes {
			sx, sy := SubImageDims(width, height, g)
			if sx == 0 || sy == 0 {
				continue
			}
			passes = append(passes, geom{
				pass: g.Pass, baseX: g.BaseX, baseY: g.BaseY,
				strideX: 1 << uint(g.ExpX), strideY: 1 << uint(g.ExpY),
				sx: sx, sy: sy, rowBytes: RowBytes(sx, volume),
			})
		}
	}
	return &Reconstructor{delay: delay, passes: passes, sink: sink}
}

// Done reports whether every pass has been fully emitted.
func (r *Reconstructor) Done() bool {
	return r.passIdx >= len(r.passes)
}

// Run pulls rows from pull (which returns ok=false if fewer than n
// bytes are currently available, mirroring inflate.Inflator.Pull)
// until either every pass completes (done=true) or pull is unable to
// satisfy the current row (done=false, to be resumed with a later
// call once more bytes are available).
func (r *Reconstructor) Run(pull func(n int) ([]byte, bool)) (done bool, err error) {
	for {
		if r.Done() {
			return true, nil
		}
		g := r.passes[r.passIdx]
		if r.row >= g.sy {
			r.passIdx++
			r.row = 0
			r.prevRow = nil
			continue
		}
		buf, ok := pull(g.rowBytes)
		if !ok {
			return false, nil
		}
		filterType := buf[0]
		data := buf[1:]
		if r.prevRow == nil {
			r.prevRow = make([]byte, len(data))
		}
		if err := UnfilterRow(filterType, data, r.prevRow, r.delay); err != nil {
			return false, err
		}
		r.sink(r.row, g.sx, g.baseX, g.baseY, g.strideX, g.strideY, data)
		prev := make([]byte, len(data))
		copy(prev, data)
		r.prevRow = prev
		r.row++
	}
}
