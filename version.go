package qrcode

// RecoveryLevel is the amount of error correction redundancy in a
// symbol.
type RecoveryLevel int

const (
	// Low recovers approximately 7% of damaged codewords.
	Low RecoveryLevel = iota

	// Medium recovers approximately 15%.
	Medium

	// Quartile recovers approximately 25%.
	Quartile

	// High recovers approximately 30%.
	High
)

// Version bounds for QR Code Model 2.
const (
	MinVersion = 1
	MaxVersion = 40
)

func (l RecoveryLevel) valid() bool {
	return l >= Low && l <= High
}

// formatBits returns the 2-bit indicator placed in the format
// information. The indicator does not follow the error-rate ordering.
func (l RecoveryLevel) formatBits() uint32 {
	return [4]uint32{1, 0, 3, 2}[l]
}

func (l RecoveryLevel) String() string {
	return [4]string{"L", "M", "Q", "H"}[l]
}

// The two tables below are indexed by [formatBits][version]:
// row 0 is Medium, row 1 Low, row 2 High, row 3 Quartile. Column 0 is
// a padding sentinel and is never read. The values are ratified by
// ISO/IEC 18004 and must not be altered.

var eccCodewordsPerBlock = [4][MaxVersion + 1]int8{
	// Version: (none), 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, 25, 26, 27, 28, 29, 30, 31, 32, 33, 34, 35, 36, 37, 38, 39, 40
	{-1, 10, 16, 26, 18, 24, 16, 18, 22, 22, 26, 30, 22, 22, 24, 24, 28, 28, 26, 26, 26, 26, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28}, // Medium
	{-1, 7, 10, 15, 20, 26, 18, 20, 24, 30, 18, 20, 24, 26, 30, 22, 24, 28, 30, 28, 28, 28, 28, 30, 30, 26, 28, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30},  // Low
	{-1, 17, 28, 22, 16, 22, 28, 26, 26, 24, 28, 24, 28, 22, 24, 24, 30, 28, 28, 26, 28, 30, 24, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30}, // High
	{-1, 13, 22, 18, 26, 18, 24, 18, 22, 20, 24, 28, 26, 24, 20, 30, 24, 28, 28, 26, 30, 28, 30, 30, 30, 30, 28, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30}, // Quartile
}

var numErrorCorrectionBlocks = [4][MaxVersion + 1]int8{
	// Version: (none), 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, 25, 26, 27, 28, 29, 30, 31, 32, 33, 34, 35, 36, 37, 38, 39, 40
	{-1, 1, 1, 1, 2, 2, 4, 4, 4, 5, 5, 5, 8, 9, 9, 10, 10, 11, 13, 14, 16, 17, 17, 18, 20, 21, 23, 25, 26, 28, 29, 31, 33, 35, 37, 38, 40, 43, 45, 47, 49}, // Medium
	{-1, 1, 1, 1, 1, 1, 2, 2, 2, 2, 4, 4, 4, 4, 4, 6, 6, 6, 6, 7, 8, 8, 9, 9, 10, 12, 12, 12, 13, 14, 15, 16, 17, 18, 19, 19, 20, 21, 22, 24, 25},         // Low
	{-1, 1, 1, 2, 4, 4, 4, 5, 6, 8, 8, 11, 11, 16, 16, 18, 16, 19, 21, 25, 25, 25, 34, 30, 32, 35, 37, 40, 42, 45, 48, 51, 54, 57, 60, 63, 66, 70, 74, 77, 81}, // High
	{-1, 1, 1, 2, 2, 4, 4, 6, 6, 8, 8, 8, 10, 12, 16, 12, 17, 16, 18, 21, 20, 23, 23, 25, 27, 29, 34, 34, 35, 38, 40, 43, 45, 48, 51, 53, 56, 59, 62, 65, 68},  // Quartile
}

// numRawDataModules returns the number of modules available for data
// and error correction codewords in the given version, after all
// function patterns are excluded. The result is in [208, 29648].
func numRawDataModules(version int) int {
	size := version*4 + 17
	result := size * size

	// Finders with separators, both format copies plus the dark
	// module, and timing.
	result -= 192
	result -= 31
	result -= (size - 16) * 2

	if version >= 2 {
		numAlign := version/7 + 2
		result -= (numAlign - 1) * (numAlign - 1) * 25
		result -= (numAlign - 2) * 40

		if version >= 7 {
			result -= 36
		}
	}

	return result
}

// numDataCodewords returns the number of 8-bit data codewords in the
// given version at the given level, excluding error correction.
func numDataCodewords(version int, level RecoveryLevel) int {
	fb := level.formatBits()

	return numRawDataModules(version)/8 -
		int(eccCodewordsPerBlock[fb][version])*int(numErrorCorrectionBlocks[fb][version])
}

// alignmentPatternPositions returns the center coordinates of the
// alignment patterns, in ascending order. Version 1 has none.
func alignmentPatternPositions(version int) []int {
	if version == 1 {
		return nil
	}

	numAlign := version/7 + 2

	var step int
	if version == 32 {
		step = 26
	} else {
		step = (version*4 + numAlign*2 + 1) / (numAlign*2 - 2) * 2
	}

	result := make([]int, numAlign)
	result[0] = 6

	pos := version*4 + 10

	for i := numAlign - 1; i >= 1; i-- {
		result[i] = pos
		pos -= step
	}

	return result
}
