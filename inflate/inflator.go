// Package inflate implements a streaming DEFLATE/zlib decoder: the
// block loop, dynamic and fixed Huffman table construction, the 32 KiB
// sliding window, and Adler-32 verification.
//
// The decoder is push/pull streaming: Push feeds a partial input slice
// and never blocks waiting for more; Pull hands out decoded output in
// fixed-size pieces once enough is buffered, and PullAll drains whatever
// output is currently available. This lets a caller that only has bytes arriving
// a chunk at a time (one PNG IDAT payload after another) drive the
// decoder without buffering the whole compressed stream up front.
package inflate

import (
	"github.com/mixcode/pngicc/bitio"
	"github.com/mixcode/pngicc/checksum"
	"github.com/mixcode/pngicc/huffman"
)

// Format selects the container wrapping the raw DEFLATE stream.
type Format int

const (
	// Zlib is the standard PNG IDAT wrapping: a 2-byte header and a
	// trailing 4-byte big-endian Adler-32.
	Zlib Format = iota
	// IOS is the Apple-optimized (CgBI) variant, which omits both the
	// zlib header and the Adler-32 trailer.
	IOS
)

// Status reports the result of a Push call.
type Status int

const (
	// NeedMore means the stream is not yet finished; feed more bytes.
	NeedMore Status = iota
	// Complete means the zlib (or raw, for IOS) stream has fully
	// terminated and all output has been produced.
	Complete
)

type phase int

const (
	phaseZlibHeader phase = iota
	phaseBlockHeader
	phaseStoredAlign
	phaseStoredCopy
	phaseDynHeaderCounts
	phaseDynCLLengths
	phaseDynCodeLengths
	phaseBlockBody
	phaseAdlerTrailer
	phaseDone
	phaseError
)

// Inflator is a single-use, single-threaded streaming DEFLATE decoder.
// Two concurrent decodes must use independent instances.
type Inflator struct {
	format Format
	br     *bitio.Reader
	win    slidingWindow
	out    []byte
	outPos int // bytes already handed to a Pull caller
	adler  *checksum.Adler32

	phase  phase
	err    error
	bfinal bool
	btype  uint16

	storedRemaining int

	litTable  *huffman.Table
	distTable *huffman.Table

	// dynamic header state
	hlit, hdist, hclen int
	clLengths          [19]int
	clIndex            int
	clTable            *huffman.Table
	codeLengths        []int
	codeLenIndex       int
	clPendingSym       int // -1 if not mid code-length RLE symbol
	prevCodeLen        int

	// token decode state
	curLengthSym int // -1 if not yet decided
	curLength    int
	curDistSym   int // -1 if not yet decided
	curDistance  int
}

// New returns an Inflator ready to accept Push calls for the given
// container format.
func New(format Format) *Inflator {
	return &Inflator{
		format:       format,
		br:           bitio.NewReader(),
		adler:        checksum.NewAdler32(),
		phase:        startPhase(format),
		clPendingSym: -1,
		curLengthSym: -1,
		curDistSym:   -1,
	}
}

func startPhase(format Format) phase {
	if format == IOS {
		return phaseBlockHeader
	}
	return phaseZlibHeader
}

// Push feeds a partial input slice. It returns Complete once the stream
// has fully terminated, otherwise NeedMore. Calling Push again after
// Complete is a caller error and returns an error; the PNG coordinator
// never does so, and reports a later IDAT chunk as
// pngerr.ExtraneousDataError instead.
func (inf *Inflator) Push(p []byte) (Status, error) {
	if inf.phase == phaseError {
		return NeedMore, inf.err
	}
	if inf.phase == phaseDone {
		return Complete, errPushAfterComplete
	}
	inf.br.Feed(p)
	for {
		progressed, err := inf.step()
		if err != nil {
			inf.phase = phaseError
			inf.err = err
			return NeedMore, err
		}
		if inf.phase == phaseDone {
			return Complete, nil
		}
		if !progressed {
			return NeedMore, nil
		}
	}
}

// Pull returns up to n contiguous decoded bytes, or ok=false if fewer
// than n are currently available. Pull never blocks for more input.
func (inf *Inflator) Pull(n int) (out []byte, ok bool) {
	if len(inf.out)-inf.outPos < n {
		return nil, false
	}
	out = inf.out[inf.outPos : inf.outPos+n]
	inf.outPos += n
	return out, true
}

// PullAll drains all remaining decoded bytes.
func (inf *Inflator) PullAll() []byte {
	out := inf.out[inf.outPos:]
	inf.outPos = len(inf.out)
	return out
}

// Pending reports how many decoded bytes are buffered and not yet
// pulled.
func (inf *Inflator) Pending() int {
	return len(inf.out) - inf.outPos
}

func (inf *Inflator) emit(b byte) {
	inf.out = append(inf.out, b)
	inf.adler.Write([]byte{b})
}

// step attempts to advance the state machine by one small unit of
// work. progressed is false exactly when more input is required before
// any further progress can be made (NeedMore).
func (inf *Inflator) step() (progressed bool, err error) {
	switch inf.phase {
	case phaseZlibHeader:
		return inf.stepZlibHeader()
	case phaseBlockHeader:
		return inf.stepBlockHeader()
	case phaseStoredAlign:
		return inf.stepStoredAlign()
	case phaseStoredCopy:
		return inf.stepStoredCopy()
	case phaseDynHeaderCounts:
		return inf.stepDynHeaderCounts()
	case phaseDynCLLengths:
		return inf.stepDynCLLengths()
	case phaseDynCodeLengths:
		return inf.stepDynCodeLengths()
	case phaseBlockBody:
		return inf.stepBlockBody()
	case phaseAdlerTrailer:
		return inf.stepAdlerTrailer()
	}
	return false, nil
}

func (inf *Inflator) stepZlibHeader() (bool, error) {
	v, ok := inf.br.Peek(16)
	if !ok {
		return false, nil
	}
	inf.br.Skip(16)
	cmf := byte(v & 0xFF)
	flg := byte(v >> 8)
	if cmf&0x0F != 8 {
		return false, errBadZlibHeader
	}
	cinfo := cmf >> 4
	if cinfo > 7 {
		return false, errBadZlibHeader // window > 32 KiB
	}
	if (uint16(cmf)*256+uint16(flg))%31 != 0 {
		return false, errBadZlibHeader
	}
	if flg&0x20 != 0 {
		return false, errBadZlibHeader // FDICT set, unsupported
	}
	inf.phase = phaseBlockHeader
	return true, nil
}

func (inf *Inflator) stepBlockHeader() (bool, error) {
	v, ok := inf.br.Bits(3)
	if !ok {
		return false, nil
	}
	inf.bfinal = v&1 != 0
	inf.btype = (v >> 1) & 0x3
	switch inf.btype {
	case 0:
		inf.phase = phaseStoredAlign
	case 1:
		inf.litTable = fixedLitLenTable
		inf.distTable = fixedDistTable
		inf.phase = phaseBlockBody
	case 2:
		inf.phase = phaseDynHeaderCounts
	default:
		return false, errBadBlockType
	}
	return true, nil
}

func (inf *Inflator) stepStoredAlign() (bool, error) {
	inf.br.AlignToByte()
	b, ok := inf.br.ReadAlignedBytes(4)
	if !ok {
		return false, nil
	}
	length := int(b[0]) | int(b[1])<<8
	nlength := int(b[2]) | int(b[3])<<8
	if length != (^nlength)&0xFFFF {
		return false, errBadStoredLength
	}
	inf.storedRemaining = length
	inf.phase = phaseStoredCopy
	return true, nil
}

func (inf *Inflator) stepStoredCopy() (bool, error) {
	if inf.storedRemaining == 0 {
		return inf.finishBlock()
	}
	b, ok := inf.br.ReadAlignedBytes(inf.storedRemaining)
	if !ok {
		return false, nil
	}
	for _, c := range b {
		inf.win.put(c)
		inf.emit(c)
	}
	inf.storedRemaining = 0
	return inf.finishBlock()
}

func (inf *Inflator) stepDynHeaderCounts() (bool, error) {
	v, ok := inf.br.Peek(5 + 5 + 4)
	if !ok {
		return false, nil
	}
	inf.br.Skip(5 + 5 + 4)
	inf.hlit = int(v&0x1F) + 257
	inf.hdist = int((v>>5)&0x1F) + 1
	inf.hclen = int((v>>10)&0xF) + 4
	inf.clIndex = 0
	for i := range inf.clLengths {
		inf.clLengths[i] = 0
	}
	inf.phase = phaseDynCLLengths
	return true, nil
}

func (inf *Inflator) stepDynCLLengths() (bool, error) {
	for inf.clIndex < inf.hclen {
		v, ok := inf.br.Bits(3)
		if !ok {
			return false, nil
		}
		inf.clLengths[clcOrder[inf.clIndex]] = int(v)
		inf.clIndex++
	}
	tbl, err := huffman.Build(inf.clLengths[:])
	if err != nil {
		return false, errBadHuffmanTable
	}
	inf.clTable = tbl
	inf.codeLengths = make([]int, inf.hlit+inf.hdist)
	inf.codeLenIndex = 0
	inf.clPendingSym = -1
	inf.prevCodeLen = 0
	inf.phase = phaseDynCodeLengths
	return true, nil
}

func (inf *Inflator) stepDynCodeLengths() (bool, error) {
	for inf.codeLenIndex < len(inf.codeLengths) {
		if inf.clPendingSym == -1 {
			sym, status := inf.clTable.Decode(inf.br)
			switch status {
			case huffman.NeedMore:
				return false, nil
			case huffman.Invalid:
				return false, errBadHuffmanTable
			}
			if sym < 16 {
				inf.codeLengths[inf.codeLenIndex] = sym
				inf.prevCodeLen = sym
				inf.codeLenIndex++
				continue
			}
			inf.clPendingSym = sym
		}
		var extra uint
		var base int
		switch inf.clPendingSym {
		case 16:
			extra, base = 2, 3
		case 17:
			extra, base = 3, 3
		case 18:
			extra, base = 7, 11
		default:
			return false, errBadHuffmanTable
		}
		val, ok := inf.br.Bits(extra)
		if !ok {
			return false, nil
		}
		count := base + int(val)
		fillValue := 0
		if inf.clPendingSym == 16 {
			if inf.codeLenIndex == 0 {
				return false, errBadHuffmanTable
			}
			fillValue = inf.prevCodeLen
		}
		if inf.codeLenIndex+count > len(inf.codeLengths) {
			return false, errBadHuffmanTable
		}
		for i := 0; i < count; i++ {
			inf.codeLengths[inf.codeLenIndex] = fillValue
			inf.codeLenIndex++
		}
		inf.clPendingSym = -1
	}

	litLens := inf.codeLengths[:inf.hlit]
	distLens := inf.codeLengths[inf.hlit:]
	litTbl, err := huffman.Build(litLens)
	if err != nil {
		return false, errBadHuffmanTable
	}
	distTbl, err := huffman.Build(distLens)
	if err != nil {
		return false, errBadHuffmanTable
	}
	inf.litTable = litTbl
	inf.distTable = distTbl
	inf.phase = phaseBlockBody
	return true, nil
}

func (inf *Inflator) stepBlockBody() (bool, error) {
	if inf.curLengthSym == -1 {
		sym, status := inf.litTable.Decode(inf.br)
		switch status {
		case huffman.NeedMore:
			return false, nil
		case huffman.Invalid:
			return false, errBadHuffmanTable
		}
		if sym < 256 {
			inf.win.put(byte(sym))
			inf.emit(byte(sym))
			return true, nil
		}
		if sym == 256 {
			return inf.finishBlock()
		}
		inf.curLengthSym = sym
	}

	if inf.curLength == 0 {
		idx := inf.curLengthSym - 257
		if idx < 0 || idx >= len(lengthExtraBits) {
			return false, errBadHuffmanTable
		}
		val, ok := inf.br.Bits(lengthExtraBits[idx])
		if !ok {
			return false, nil
		}
		inf.curLength = lengthBase[idx] + int(val)
	}

	if inf.curDistSym == -1 {
		sym, status := inf.distTable.Decode(inf.br)
		switch status {
		case huffman.NeedMore:
			return false, nil
		case huffman.Invalid:
			return false, errBadHuffmanTable
		}
		inf.curDistSym = sym
	}

	if inf.curDistance == 0 {
		if inf.curDistSym < 0 || inf.curDistSym >= len(distExtraBits) {
			return false, errBadHuffmanTable
		}
		val, ok := inf.br.Bits(distExtraBits[inf.curDistSym])
		if !ok {
			return false, nil
		}
		inf.curDistance = distBase[inf.curDistSym] + int(val)
	}

	ok := inf.win.copyMatch(inf.curDistance, inf.curLength, inf.emit)
	if !ok {
		return false, errDistanceTooFar
	}
	inf.curLengthSym = -1
	inf.curLength = 0
	inf.curDistSym = -1
	inf.curDistance = 0
	return true, nil
}

// finishBlock is called once a block's end-of-stream symbol (or a
// stored block's byte count) has been fully consumed.
func (inf *Inflator) finishBlock() (bool, error) {
	if inf.bfinal {
		if inf.format == IOS {
			inf.phase = phaseDone
		} else {
			inf.phase = phaseAdlerTrailer
		}
		return true, nil
	}
	inf.phase = phaseBlockHeader
	return true, nil
}

func (inf *Inflator) stepAdlerTrailer() (bool, error) {
	// DEFLATE does not byte-align at the end of the final block; any
	// leftover bits in the current byte are padding before the trailer.
	inf.br.AlignToByte()
	b, ok := inf.br.ReadAlignedBytes(4)
	if !ok {
		return false, nil
	}
	declared := uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
	if declared != inf.adler.Sum32() {
		return false, errAdlerMismatch
	}
	inf.phase = phaseDone
	return true, nil
}
