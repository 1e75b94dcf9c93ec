// Package qrcode encodes text or binary payloads as QR Code (Model 2)
// symbols conforming to ISO/IEC 18004, supporting all 40 versions, the
// four recovery levels, automatic mask selection, and rendering to
// PNG, JPEG, SVG and PDF.
package qrcode

import (
	"fmt"
	"image/color"
	"math"

	"github.com/qrforge/go-qrcode/internal/bitset"
	"github.com/qrforge/go-qrcode/internal/reedsolomon"
)

// QRCode is an encoded symbol. The module matrix is fixed at
// construction; only the drawing options are settable.
type QRCode struct {
	version int
	size    int
	level   RecoveryLevel
	mask    int

	// modules[y][x] is true for dark modules. isFunction marks
	// modules that carry function patterns and must not be masked; it
	// exists only during construction.
	modules    [][]bool
	isFunction [][]bool

	// User settable drawing options.
	ForegroundColor color.Color
	BackgroundColor color.Color

	// QR code margin (quiet zone), in modules.
	Margin int

	// Base 64 output.
	Base64 bool
}

// EncodeText encodes the text at the given recovery level, choosing
// the most compact mode and the smallest version that fits.
func EncodeText(text string, level RecoveryLevel) (*QRCode, error) {
	segs, err := MakeSegments(text)
	if err != nil {
		return nil, err
	}

	return EncodeSegments(segs, level)
}

// EncodeBinary encodes the data in byte mode at the given recovery
// level.
func EncodeBinary(data []byte, level RecoveryLevel) (*QRCode, error) {
	seg, err := MakeBytes(data)
	if err != nil {
		return nil, err
	}

	return EncodeSegments([]Segment{seg}, level)
}

// EncodeSegments encodes the segments at the given recovery level over
// the full version range, with automatic mask selection and level
// boosting.
func EncodeSegments(segs []Segment, level RecoveryLevel) (*QRCode, error) {
	return EncodeSegmentsAdvanced(segs, level, MinVersion, MaxVersion, -1, true)
}

// EncodeSegmentsAdvanced encodes the segments with full control: the
// version is the smallest in [minVersion, maxVersion] that fits, mask
// is an explicit pattern in [0, 7] or -1 for automatic selection, and
// boostLevel allows raising the recovery level when the chosen version
// has room to spare.
func EncodeSegmentsAdvanced(segs []Segment, level RecoveryLevel, minVersion, maxVersion, mask int, boostLevel bool) (*QRCode, error) {
	if minVersion < MinVersion || minVersion > maxVersion || maxVersion > MaxVersion {
		return nil, fmt.Errorf("%w: version range %d-%d", ErrInvalidArgument, minVersion, maxVersion)
	}

	if mask < -1 || mask > 7 {
		return nil, fmt.Errorf("%w: mask %d", ErrInvalidArgument, mask)
	}

	if !level.valid() {
		return nil, fmt.Errorf("%w: recovery level %d", ErrInvalidArgument, int(level))
	}

	// Find the smallest version that fits.
	version := minVersion

	var usedBits int

	for {
		capacityBits := numDataCodewords(version, level) * 8
		usedBits = TotalBits(segs, version)

		if usedBits >= 0 && usedBits <= capacityBits {
			break
		}

		if version >= maxVersion {
			return nil, DataTooLongError{UsedBits: usedBits, CapacityBits: capacityBits}
		}

		version++
	}

	// Boost the recovery level as far as the chosen version allows.
	for _, newLevel := range []RecoveryLevel{Medium, Quartile, High} {
		if boostLevel && usedBits <= numDataCodewords(version, newLevel)*8 {
			level = newLevel
		}
	}

	// Concatenate segments, each prefixed with its mode indicator and
	// character count.
	buf := bitset.New()

	for _, seg := range segs {
		if err := buf.AppendUint32(seg.Mode.modeBits, 4); err != nil {
			return nil, err
		}

		if err := buf.AppendUint32(uint32(seg.NumChars), seg.Mode.numCharCountBits(version)); err != nil {
			return nil, err
		}

		if err := buf.Append(seg.Data); err != nil {
			return nil, err
		}
	}

	if buf.Len() != usedBits {
		return nil, fmt.Errorf("qrcode: BUG: assembled %d bits, expected %d", buf.Len(), usedBits)
	}

	// Terminator, pad to a byte boundary, then alternating pad bytes.
	capacityBits := numDataCodewords(version, level) * 8

	terminator := capacityBits - buf.Len()
	if terminator > 4 {
		terminator = 4
	}

	buf.AppendNumBools(terminator, false)
	buf.AppendNumBools((8-buf.Len()%8)%8, false)

	for pad := byte(0xEC); buf.Len() < capacityBits; pad ^= 0xEC ^ 0x11 {
		if err := buf.AppendByte(pad, 8); err != nil {
			return nil, err
		}
	}

	if buf.Len() != capacityBits {
		return nil, fmt.Errorf("qrcode: BUG: padded to %d bits, expected %d", buf.Len(), capacityBits)
	}

	// Pack the bit stream into data codewords.
	data := make([]byte, capacityBits/8)

	for i := range data {
		b, err := buf.ByteAt(i * 8)
		if err != nil {
			return nil, err
		}

		data[i] = b
	}

	return New(version, level, data, mask)
}

// New constructs a symbol from pre-encoded data codewords. The slice
// length must equal the data capacity of the version and level. mask
// is an explicit pattern in [0, 7] or -1 for automatic selection.
func New(version int, level RecoveryLevel, dataCodewords []byte, mask int) (*QRCode, error) {
	if version < MinVersion || version > MaxVersion {
		return nil, fmt.Errorf("%w: version %d", ErrInvalidArgument, version)
	}

	if mask < -1 || mask > 7 {
		return nil, fmt.Errorf("%w: mask %d", ErrInvalidArgument, mask)
	}

	if !level.valid() {
		return nil, fmt.Errorf("%w: recovery level %d", ErrInvalidArgument, int(level))
	}

	if len(dataCodewords) != numDataCodewords(version, level) {
		return nil, fmt.Errorf("%w: %d data codewords, version %d-%s holds %d",
			ErrInvalidArgument, len(dataCodewords), version, level, numDataCodewords(version, level))
	}

	size := version*4 + 17

	q := &QRCode{
		version: version,
		size:    size,
		level:   level,

		ForegroundColor: color.Black,
		BackgroundColor: color.White,

		Margin: 4,
	}

	q.modules = make([][]bool, size)
	q.isFunction = make([][]bool, size)

	for i := 0; i < size; i++ {
		q.modules[i] = make([]bool, size)
		q.isFunction[i] = make([]bool, size)
	}

	q.drawFunctionPatterns()
	q.drawCodewords(q.addEccAndInterleave(dataCodewords))

	// Pick the mask with the lowest penalty, or honor an explicit one.
	if mask == -1 {
		minPenalty := math.MaxInt32

		for i := 0; i < 8; i++ {
			q.applyMask(i)
			q.drawFormatBits(i)

			if p := q.penaltyScore(); p < minPenalty {
				mask = i
				minPenalty = p
			}

			// Masking is a XOR; applying the same pattern again
			// removes it.
			q.applyMask(i)
		}
	}

	q.mask = mask
	q.applyMask(mask)
	q.drawFormatBits(mask)

	q.isFunction = nil

	return q, nil
}

// Version returns the symbol's version, in [1, 40].
func (q *QRCode) Version() int {
	return q.version
}

// Size returns the symbol's width and height in modules, 4*version+17.
func (q *QRCode) Size() int {
	return q.size
}

// Level returns the recovery level the symbol was encoded at, which
// may be higher than requested when boosting was enabled.
func (q *QRCode) Level() RecoveryLevel {
	return q.level
}

// Mask returns the mask pattern applied to the symbol, in [0, 7].
func (q *QRCode) Mask() int {
	return q.mask
}

// Module reports whether the module at (x, y) is dark. Out-of-range
// coordinates are light.
func (q *QRCode) Module(x, y int) bool {
	return x >= 0 && x < q.size && y >= 0 && y < q.size && q.modules[y][x]
}

// setFunctionModule colors a module and marks it off-limits for
// masking and data placement.
func (q *QRCode) setFunctionModule(x, y int, isDark bool) {
	q.modules[y][x] = isDark
	q.isFunction[y][x] = true
}

func (q *QRCode) drawFunctionPatterns() {
	// Timing patterns.
	for i := 0; i < q.size; i++ {
		q.setFunctionModule(6, i, i%2 == 0)
		q.setFunctionModule(i, 6, i%2 == 0)
	}

	// Finder patterns with separators, overwriting some timing
	// modules.
	q.drawFinderPattern(3, 3)
	q.drawFinderPattern(q.size-4, 3)
	q.drawFinderPattern(3, q.size-4)

	// Alignment patterns, skipping the three corners occupied by
	// finders.
	pos := alignmentPatternPositions(q.version)
	last := len(pos) - 1

	for i := range pos {
		for j := range pos {
			if (i == 0 && j == 0) || (i == 0 && j == last) || (i == last && j == 0) {
				continue
			}

			q.drawAlignmentPattern(pos[i], pos[j])
		}
	}

	// Reserve the format areas; the real bits are drawn after the mask
	// is chosen.
	q.drawFormatBits(0)
	q.drawVersion()
}

// drawFinderPattern stamps a 9x9 finder-with-separator centered at
// (x, y), clipped to the symbol bounds.
func (q *QRCode) drawFinderPattern(x, y int) {
	for dy := -4; dy <= 4; dy++ {
		for dx := -4; dx <= 4; dx++ {
			dist := abs(dx)
			if abs(dy) > dist {
				dist = abs(dy)
			}

			xx, yy := x+dx, y+dy

			if xx >= 0 && xx < q.size && yy >= 0 && yy < q.size {
				q.setFunctionModule(xx, yy, dist != 2 && dist != 4)
			}
		}
	}
}

// drawAlignmentPattern stamps a 5x5 alignment pattern centered at
// (x, y).
func (q *QRCode) drawAlignmentPattern(x, y int) {
	for dy := -2; dy <= 2; dy++ {
		for dx := -2; dx <= 2; dx++ {
			dist := abs(dx)
			if abs(dy) > dist {
				dist = abs(dy)
			}

			q.setFunctionModule(x+dx, y+dy, dist != 1)
		}
	}
}

// drawFormatBits places both copies of the 15-bit format information
// for the given mask, plus the always-dark module.
func (q *QRCode) drawFormatBits(mask int) {
	bits := formatInfo(q.level, mask)

	// First copy, around the top-left finder.
	for i := 0; i <= 5; i++ {
		q.setFunctionModule(8, i, getBit(bits, i))
	}

	q.setFunctionModule(8, 7, getBit(bits, 6))
	q.setFunctionModule(8, 8, getBit(bits, 7))
	q.setFunctionModule(7, 8, getBit(bits, 8))

	for i := 9; i < 15; i++ {
		q.setFunctionModule(14-i, 8, getBit(bits, i))
	}

	// Second copy, split between the other two finders.
	for i := 0; i < 8; i++ {
		q.setFunctionModule(q.size-1-i, 8, getBit(bits, i))
	}

	for i := 8; i < 15; i++ {
		q.setFunctionModule(8, q.size-15+i, getBit(bits, i))
	}

	// Dark module.
	q.setFunctionModule(8, q.size-8, true)
}

// formatInfo returns the 15 masked format bits for the level and mask:
// 5 data bits, a BCH(15,5) remainder, XORed with 0x5412.
func formatInfo(level RecoveryLevel, mask int) uint32 {
	data := level.formatBits()<<3 | uint32(mask)

	rem := data
	for i := 0; i < 10; i++ {
		rem = rem<<1 ^ (rem>>9)*0x537
	}

	bits := (data<<10 | rem) ^ 0x5412

	if bits>>15 != 0 {
		panic("qrcode: BUG: format info overflow")
	}

	return bits
}

// drawVersion places both copies of the 18-bit version information on
// symbols of version 7 and up: 6 data bits and a BCH(18,6) remainder.
func (q *QRCode) drawVersion() {
	if q.version < 7 {
		return
	}

	rem := uint32(q.version)
	for i := 0; i < 12; i++ {
		rem = rem<<1 ^ (rem>>11)*0x1F25
	}

	bits := uint32(q.version)<<12 | rem

	if bits>>18 != 0 {
		panic("qrcode: BUG: version info overflow")
	}

	for i := 0; i < 18; i++ {
		bit := getBit(bits, i)
		a := q.size - 11 + i%3
		b := i / 3

		q.setFunctionModule(a, b, bit)
		q.setFunctionModule(b, a, bit)
	}
}

// addEccAndInterleave splits the data codewords into blocks, appends
// each block's Reed-Solomon codewords, and interleaves the blocks
// column by column into the final codeword sequence.
func (q *QRCode) addEccAndInterleave(data []byte) []byte {
	fb := q.level.formatBits()
	numBlocks := int(numErrorCorrectionBlocks[fb][q.version])
	blockEccLen := int(eccCodewordsPerBlock[fb][q.version])
	rawCodewords := numRawDataModules(q.version) / 8
	numShortBlocks := numBlocks - rawCodewords%numBlocks
	shortBlockLen := rawCodewords / numBlocks

	generator, err := reedsolomon.GeneratorPoly(blockEccLen)
	if err != nil {
		panic("qrcode: BUG: " + err.Error())
	}

	blocks := make([][]byte, 0, numBlocks)
	k := 0

	for i := 0; i < numBlocks; i++ {
		datLen := shortBlockLen - blockEccLen
		if i >= numShortBlocks {
			datLen++
		}

		dat := data[k : k+datLen]
		k += datLen

		// Short blocks get a placeholder byte so every block is
		// column-addressable; the hole is skipped when interleaving.
		block := make([]byte, shortBlockLen+1)
		copy(block, dat)
		copy(block[len(block)-blockEccLen:], reedsolomon.Remainder(dat, generator))

		blocks = append(blocks, block)
	}

	result := make([]byte, 0, rawCodewords)

	for i := 0; i < len(blocks[0]); i++ {
		for j, block := range blocks {
			if i != shortBlockLen-blockEccLen || j >= numShortBlocks {
				result = append(result, block[i])
			}
		}
	}

	if len(result) != rawCodewords {
		panic("qrcode: BUG: interleaved codeword count mismatch")
	}

	return result
}

// drawCodewords places the codeword bits into the non-function modules
// in the zig-zag order: column pairs from the right edge leftward,
// alternating upward and downward.
func (q *QRCode) drawCodewords(data []byte) {
	if len(data) != numRawDataModules(q.version)/8 {
		panic("qrcode: BUG: codeword count mismatch")
	}

	i := 0

	for right := q.size - 1; right >= 1; right -= 2 {
		if right == 6 {
			// The vertical timing pattern occupies column 6.
			right = 5
		}

		for vert := 0; vert < q.size; vert++ {
			for j := 0; j < 2; j++ {
				x := right - j

				y := vert
				if (right+1)&2 == 0 {
					y = q.size - 1 - vert
				}

				if !q.isFunction[y][x] && i < len(data)*8 {
					q.modules[y][x] = getBit(uint32(data[i>>3]), 7-i&7)
					i++
				}
			}
		}
	}

	if i != len(data)*8 {
		panic("qrcode: BUG: not all codeword bits were placed")
	}
}

func getBit(x uint32, i int) bool {
	return x>>uint(i)&1 != 0
}

func abs(x int) int {
	if x < 0 {
		return -x
	}

	return x
}
