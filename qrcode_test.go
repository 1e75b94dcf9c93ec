package qrcode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// buildBlank returns a QRCode with function patterns drawn and the
// construction-time scratch state still present.
func buildBlank(t *testing.T, version int) *QRCode {
	t.Helper()

	size := version*4 + 17

	q := &QRCode{version: version, size: size, level: Low}
	q.modules = make([][]bool, size)
	q.isFunction = make([][]bool, size)

	for i := 0; i < size; i++ {
		q.modules[i] = make([]bool, size)
		q.isFunction[i] = make([]bool, size)
	}

	q.drawFunctionPatterns()

	return q
}

func TestTableConsistency(t *testing.T) {
	for version := MinVersion; version <= MaxVersion; version++ {
		raw := numRawDataModules(version)
		require.GreaterOrEqual(t, raw, 208)
		require.LessOrEqual(t, raw, 29648)

		for _, level := range []RecoveryLevel{Low, Medium, Quartile, High} {
			fb := level.formatBits()
			ecc := int(eccCodewordsPerBlock[fb][version])
			blocks := int(numErrorCorrectionBlocks[fb][version])

			require.Less(t, ecc*blocks, raw/8, "version %d level %s", version, level)
			require.Positive(t, numDataCodewords(version, level))
		}
	}
}

func TestSizeFollowsVersion(t *testing.T) {
	for version := MinVersion; version <= MaxVersion; version++ {
		for _, level := range []RecoveryLevel{Low, Medium, Quartile, High} {
			q, err := New(version, level, make([]byte, numDataCodewords(version, level)), 0)
			require.NoError(t, err)
			require.Equal(t, version*4+17, q.Size())
			require.Equal(t, version, q.Version())
			require.Equal(t, level, q.Level())
		}
	}
}

func TestEncodeTextAlphanumeric(t *testing.T) {
	q, err := EncodeText("HELLO WORLD", Quartile)
	require.NoError(t, err)
	require.Equal(t, 1, q.Version())
	require.Equal(t, Quartile, q.Level())
	require.GreaterOrEqual(t, q.Mask(), 0)
	require.LessOrEqual(t, q.Mask(), 7)
}

func TestEncodeTextNumeric(t *testing.T) {
	q, err := EncodeText("31415926535897932384626433832795", Medium)
	require.NoError(t, err)
	require.Equal(t, 1, q.Version())
	require.Equal(t, Medium, q.Level())
}

func TestEncodeTextBoostsLevel(t *testing.T) {
	// 74 bits fit Quartile at version 1 but not High; Low must be
	// boosted exactly two steps.
	q, err := EncodeText("HELLO WORLD", Low)
	require.NoError(t, err)
	require.Equal(t, 1, q.Version())
	require.Equal(t, Quartile, q.Level())
}

func TestEncodeBinaryVersionSelection(t *testing.T) {
	data := make([]byte, 256)
	for i := range data {
		data[i] = byte(i)
	}

	// 2068 bits overflow version 9 at Low and fit version 10.
	q, err := EncodeBinary(data, Low)
	require.NoError(t, err)
	require.Equal(t, 10, q.Version())
	require.Equal(t, Low, q.Level())
}

func TestEncodeEmptyText(t *testing.T) {
	q, err := EncodeText("", Low)
	require.NoError(t, err)
	require.Equal(t, 1, q.Version())

	// An empty payload leaves room for every level.
	require.Equal(t, High, q.Level())
	require.GreaterOrEqual(t, q.Mask(), 0)
	require.LessOrEqual(t, q.Mask(), 7)
}

func TestEncodeECIThenBytes(t *testing.T) {
	eci, err := MakeECI(123456)
	require.NoError(t, err)

	bytes, err := MakeBytes([]byte("データ"))
	require.NoError(t, err)

	q, err := EncodeSegments([]Segment{eci, bytes}, High)
	require.NoError(t, err)
	require.Equal(t, 2, q.Version())
	require.Equal(t, High, q.Level())
}

func TestEncodeFixedMask(t *testing.T) {
	segs, err := MakeSegments("HELLO WORLD")
	require.NoError(t, err)

	for mask := 0; mask <= 7; mask++ {
		q, err := EncodeSegmentsAdvanced(segs, Low, MinVersion, MaxVersion, mask, true)
		require.NoError(t, err)
		require.Equal(t, mask, q.Mask())
	}
}

func TestEncodeVersionRange(t *testing.T) {
	segs, err := MakeSegments("HELLO WORLD")
	require.NoError(t, err)

	// Forcing a floor picks the floor, not the smallest fit.
	q, err := EncodeSegmentsAdvanced(segs, Low, 5, 5, 3, true)
	require.NoError(t, err)
	require.Equal(t, 5, q.Version())
	require.Equal(t, 3, q.Mask())

	_, err = EncodeSegmentsAdvanced(segs, Low, 0, 40, -1, true)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = EncodeSegmentsAdvanced(segs, Low, 1, 41, -1, true)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = EncodeSegmentsAdvanced(segs, Low, 10, 9, -1, true)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = EncodeSegmentsAdvanced(segs, Low, 1, 40, 8, true)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = EncodeSegmentsAdvanced(segs, Low, 1, 40, -2, true)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestEncodeBinaryMaxCapacity(t *testing.T) {
	q, err := EncodeBinary(make([]byte, 2953), Low)
	require.NoError(t, err)
	require.Equal(t, 40, q.Version())
	require.Equal(t, Low, q.Level())
}

func TestEncodeDataTooLong(t *testing.T) {
	_, err := EncodeBinary(make([]byte, 2954), Low)
	require.ErrorIs(t, err, ErrDataTooLong)

	var tooLong DataTooLongError
	require.ErrorAs(t, err, &tooLong)
	require.Equal(t, 4+16+2954*8, tooLong.UsedBits)
	require.Equal(t, 2956*8, tooLong.CapacityBits)

	// A capped version range fails the same way.
	seg, err := MakeBytes(make([]byte, 256))
	require.NoError(t, err)

	_, err = EncodeSegmentsAdvanced([]Segment{seg}, Low, 1, 5, -1, true)
	require.ErrorIs(t, err, ErrDataTooLong)
}

func TestNewValidation(t *testing.T) {
	okData := make([]byte, numDataCodewords(1, Low))

	_, err := New(0, Low, okData, 0)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = New(41, Low, okData, 0)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = New(1, Low, okData, 8)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = New(1, Low, okData, -2)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = New(1, RecoveryLevel(9), okData, 0)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = New(1, Low, make([]byte, 5), 0)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestModuleOutOfRange(t *testing.T) {
	q, err := EncodeText("HELLO WORLD", Quartile)
	require.NoError(t, err)

	require.False(t, q.Module(-1, 0))
	require.False(t, q.Module(0, -1))
	require.False(t, q.Module(q.Size(), 0))
	require.False(t, q.Module(0, q.Size()))
}

func TestFormatInfo(t *testing.T) {
	tests := []struct {
		level RecoveryLevel
		mask  int
		want  uint32
	}{
		{Medium, 0, 0x5412},
		{Low, 0, 0x77C4},
		{High, 7, 0x083B},
		{Quartile, 6, 0x2EDA},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, formatInfo(tt.level, tt.mask),
			"level %s mask %d", tt.level, tt.mask)
	}
}

func TestFormatBitsPlacement(t *testing.T) {
	q, err := New(2, Medium, make([]byte, numDataCodewords(2, Medium)), 5)
	require.NoError(t, err)

	want := formatInfo(Medium, 5)

	read := func(x, y int) uint32 {
		if q.Module(x, y) {
			return 1
		}
		return 0
	}

	// Primary copy around the top-left finder.
	var got uint32
	for i := 0; i <= 5; i++ {
		got |= read(8, i) << uint(i)
	}
	got |= read(8, 7) << 6
	got |= read(8, 8) << 7
	got |= read(7, 8) << 8
	for i := 9; i < 15; i++ {
		got |= read(14-i, 8) << uint(i)
	}
	require.Equal(t, want, got)

	// Secondary copy split across the other finders.
	got = 0
	for i := 0; i < 8; i++ {
		got |= read(q.size-1-i, 8) << uint(i)
	}
	for i := 8; i < 15; i++ {
		got |= read(8, q.size-15+i) << uint(i)
	}
	require.Equal(t, want, got)
}

func TestVersionInfoPlacement(t *testing.T) {
	q, err := New(7, Low, make([]byte, numDataCodewords(7, Low)), 0)
	require.NoError(t, err)

	var topRight, bottomLeft uint32

	for i := 0; i < 18; i++ {
		a := q.size - 11 + i%3
		b := i / 3

		if q.Module(a, b) {
			topRight |= 1 << uint(i)
		}

		if q.Module(b, a) {
			bottomLeft |= 1 << uint(i)
		}
	}

	require.Equal(t, uint32(0x07C94), topRight)
	require.Equal(t, uint32(0x07C94), bottomLeft)

	// Versions below 7 carry no version information; the area is data.
	q6 := buildBlank(t, 6)
	require.False(t, q6.isFunction[0][q6.size-11])
}

func TestFunctionPatternCells(t *testing.T) {
	q, err := EncodeText("HELLO WORLD", Quartile)
	require.NoError(t, err)

	size := q.Size()

	// Finder centers and ring structure: dark at radius 0, 1 and 3,
	// light at 2 and 4.
	for _, c := range [][2]int{{3, 3}, {size - 4, 3}, {3, size - 4}} {
		require.True(t, q.Module(c[0], c[1]))
		require.True(t, q.Module(c[0]+1, c[1]))
		require.False(t, q.Module(c[0]+2, c[1]))
		require.True(t, q.Module(c[0]+3, c[1]))
	}

	// Separator corners are light.
	require.False(t, q.Module(7, 7))
	require.False(t, q.Module(size-8, 7))
	require.False(t, q.Module(7, size-8))

	// Dark module.
	require.True(t, q.Module(8, size-8))

	// Timing patterns alternate between the finders.
	for i := 8; i < size-8; i++ {
		require.Equal(t, i%2 == 0, q.Module(i, 6), "timing row at %d", i)
		require.Equal(t, i%2 == 0, q.Module(6, i), "timing column at %d", i)
	}
}

func TestAlignmentPatternPositions(t *testing.T) {
	tests := []struct {
		version int
		want    []int
	}{
		{version: 1, want: nil},
		{version: 2, want: []int{6, 18}},
		{version: 7, want: []int{6, 22, 38}},
		{version: 32, want: []int{6, 34, 60, 86, 112, 138}},
		{version: 40, want: []int{6, 30, 58, 86, 114, 142, 170}},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, alignmentPatternPositions(tt.version), "version %d", tt.version)
	}
}

func TestAlignmentPatternDrawn(t *testing.T) {
	q := buildBlank(t, 7)

	// Center module of the (22, 22) alignment pattern is dark, its
	// ring at radius 1 light, radius 2 dark.
	require.True(t, q.modules[22][22])
	require.False(t, q.modules[22][21])
	require.True(t, q.modules[22][20])

	// The corner positions collide with finders and are skipped; the
	// area stays owned by the finder and separator stamps.
	require.True(t, q.isFunction[6][6])
	require.False(t, q.modules[3][37], "separator beside the top-right finder")
}

func TestRawDataModulesMatchesDrawnArea(t *testing.T) {
	for _, version := range []int{1, 2, 6, 7, 14, 21, 32, 40} {
		q := buildBlank(t, version)

		free := 0

		for y := 0; y < q.size; y++ {
			for x := 0; x < q.size; x++ {
				if !q.isFunction[y][x] {
					free++
				}
			}
		}

		require.Equal(t, numRawDataModules(version), free, "version %d", version)
	}
}

func TestMaskInvolution(t *testing.T) {
	q, err := New(3, Medium, make([]byte, numDataCodewords(3, Medium)), 0)
	require.NoError(t, err)

	// Restore construction scratch so applyMask treats every module
	// as maskable; the involution holds regardless.
	q.isFunction = make([][]bool, q.size)
	for i := range q.isFunction {
		q.isFunction[i] = make([]bool, q.size)
	}

	for mask := 0; mask <= 7; mask++ {
		before := make([][]bool, q.size)
		for y := range before {
			before[y] = append([]bool(nil), q.modules[y]...)
		}

		q.applyMask(mask)
		require.NotEqual(t, before, q.modules, "mask %d changed nothing", mask)

		q.applyMask(mask)
		require.Equal(t, before, q.modules, "mask %d is not an involution", mask)
	}
}

func TestAutomaticMaskBeatsOrTiesFixed(t *testing.T) {
	segs, err := MakeSegments("THE QUICK BROWN FOX JUMPS OVER THE LAZY DOG 0123456789")
	require.NoError(t, err)

	auto, err := EncodeSegmentsAdvanced(segs, Medium, MinVersion, MaxVersion, -1, true)
	require.NoError(t, err)

	autoScore := penaltyOf(t, auto)

	for mask := 0; mask <= 7; mask++ {
		fixed, err := EncodeSegmentsAdvanced(segs, Medium, MinVersion, MaxVersion, mask, true)
		require.NoError(t, err)

		require.LessOrEqual(t, autoScore, penaltyOf(t, fixed), "mask %d", mask)
	}
}

func penaltyOf(t *testing.T, q *QRCode) int {
	t.Helper()

	// penaltyScore reads only the module matrix; isFunction is not
	// needed after construction.
	return q.penaltyScore()
}

func TestPenaltyUniformMatrix(t *testing.T) {
	for _, dark := range []bool{false, true} {
		q := &QRCode{size: 21}
		q.modules = make([][]bool, q.size)

		for i := range q.modules {
			q.modules[i] = make([]bool, q.size)

			for j := range q.modules[i] {
				q.modules[i][j] = dark
			}
		}

		// Per line: 3 + 16 extra = 19, over 42 lines. Every 2x2 block
		// agrees. No finder lookalikes. Balance is 10 bands off
		// center, scored from 9 full steps.
		want := 42*19 + 400*3 + 0 + 90
		require.Equal(t, want, q.penaltyScore(), "dark=%v", dark)
	}
}

func TestPenaltyFinderLookalike(t *testing.T) {
	q := &QRCode{size: 21}
	q.modules = make([][]bool, q.size)

	for i := range q.modules {
		q.modules[i] = make([]bool, q.size)
	}

	// A 1:1:3:1:1 run at the start of row 10, light elsewhere. Both
	// orientations match thanks to the implicit light border, giving
	// two N3 hits.
	for _, x := range []int{0, 2, 3, 4, 6} {
		q.modules[10][x] = true
	}

	require.Equal(t, 776+1158+80+90, q.penaltyScore())
}
