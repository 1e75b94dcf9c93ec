package qrcode

import (
	"fmt"
	"math"
	"strings"

	"github.com/qrforge/go-qrcode/internal/bitset"
)

// Mode describes how a segment's characters are packed into bits. The
// zero Mode is not valid; use the Mode* variables.
type Mode struct {
	// The 4-bit indicator emitted before the segment.
	modeBits uint32

	// Character count field widths for the three version groups
	// 1-9, 10-26 and 27-40.
	charCountBits [3]uint8
}

// Segment encoding modes.
var (
	ModeNumeric      = Mode{1, [3]uint8{10, 12, 14}}
	ModeAlphanumeric = Mode{2, [3]uint8{9, 11, 13}}
	ModeByte         = Mode{4, [3]uint8{8, 16, 16}}
	ModeKanji        = Mode{8, [3]uint8{8, 10, 12}}
	ModeECI          = Mode{7, [3]uint8{0, 0, 0}}
)

// numCharCountBits returns the width of the character count field for
// this mode at the given version.
func (m Mode) numCharCountBits(version int) int {
	return int(m.charCountBits[(version+7)/17])
}

// A Segment is a run of input characters encoded under one mode. Data
// holds only the packed character bits, without the mode indicator or
// the character count field. Treat a constructed Segment as read-only.
type Segment struct {
	Mode     Mode
	NumChars int
	Data     *bitset.Bitset
}

// The alphanumeric mode charset, in encoding-value order.
const alphanumericCharset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ $%*+-./:"

// MakeBytes returns a segment encoding the data in byte mode.
func MakeBytes(data []byte) (Segment, error) {
	bits := bitset.New()

	if err := bits.AppendBytes(data); err != nil {
		return Segment{}, err
	}

	return Segment{Mode: ModeByte, NumChars: len(data), Data: bits}, nil
}

// MakeNumeric returns a segment encoding the digit string in numeric
// mode, packing digits in groups of up to three.
func MakeNumeric(digits string) (Segment, error) {
	if !isNumeric(digits) {
		return Segment{}, fmt.Errorf("%w: string is not numeric", ErrInvalidArgument)
	}

	bits := bitset.New()

	for i := 0; i < len(digits); {
		n := len(digits) - i
		if n > 3 {
			n = 3
		}

		value := uint32(0)
		for j := 0; j < n; j++ {
			value = value*10 + uint32(digits[i+j]-'0')
		}

		if err := bits.AppendUint32(value, n*3+1); err != nil {
			return Segment{}, err
		}

		i += n
	}

	return Segment{Mode: ModeNumeric, NumChars: len(digits), Data: bits}, nil
}

// MakeAlphanumeric returns a segment encoding the text in alphanumeric
// mode, packing characters in pairs. The encodable characters are the
// digits, the uppercase letters, and " $%*+-./:".
func MakeAlphanumeric(text string) (Segment, error) {
	if !isAlphanumeric(text) {
		return Segment{}, fmt.Errorf("%w: string is not alphanumeric", ErrInvalidArgument)
	}

	bits := bitset.New()

	for i := 0; i < len(text); i += 2 {
		value := uint32(strings.IndexByte(alphanumericCharset, text[i]))

		if i+1 < len(text) {
			value = value*45 + uint32(strings.IndexByte(alphanumericCharset, text[i+1]))

			if err := bits.AppendUint32(value, 11); err != nil {
				return Segment{}, err
			}
		} else if err := bits.AppendUint32(value, 6); err != nil {
			return Segment{}, err
		}
	}

	return Segment{Mode: ModeAlphanumeric, NumChars: len(text), Data: bits}, nil
}

// MakeECI returns a segment conveying an Extended Channel
// Interpretation assignment value in [0, 999999]. The segment has no
// characters of its own.
func MakeECI(value int) (Segment, error) {
	bits := bitset.New()

	switch {
	case value < 0:
		return Segment{}, fmt.Errorf("%w: ECI value %d", ErrInvalidArgument, value)
	case value < 1<<7:
		if err := bits.AppendUint32(uint32(value), 8); err != nil {
			return Segment{}, err
		}
	case value < 1<<14:
		if err := bits.AppendUint32(2, 2); err != nil {
			return Segment{}, err
		}

		if err := bits.AppendUint32(uint32(value), 14); err != nil {
			return Segment{}, err
		}
	case value < 1000000:
		if err := bits.AppendUint32(6, 3); err != nil {
			return Segment{}, err
		}

		if err := bits.AppendUint32(uint32(value), 21); err != nil {
			return Segment{}, err
		}
	default:
		return Segment{}, fmt.Errorf("%w: ECI value %d", ErrInvalidArgument, value)
	}

	return Segment{Mode: ModeECI, NumChars: 0, Data: bits}, nil
}

// MakeSegments returns the most compact single-mode encoding of the
// text: numeric mode if it is all digits, alphanumeric mode if it fits
// that charset, and byte mode on its UTF-8 encoding otherwise. Empty
// text yields no segments.
func MakeSegments(text string) ([]Segment, error) {
	var (
		seg Segment
		err error
	)

	switch {
	case text == "":
		return []Segment{}, nil
	case isNumeric(text):
		seg, err = MakeNumeric(text)
	case isAlphanumeric(text):
		seg, err = MakeAlphanumeric(text)
	default:
		seg, err = MakeBytes([]byte(text))
	}

	if err != nil {
		return nil, err
	}

	return []Segment{seg}, nil
}

func isNumeric(text string) bool {
	for i := 0; i < len(text); i++ {
		if text[i] < '0' || text[i] > '9' {
			return false
		}
	}

	return true
}

func isAlphanumeric(text string) bool {
	for i := 0; i < len(text); i++ {
		if strings.IndexByte(alphanumericCharset, text[i]) < 0 {
			return false
		}
	}

	return true
}

// TotalBits returns the number of bits needed to encode the segments
// at the given version, including each segment's mode indicator and
// character count field. It returns -1 if a segment's character count
// does not fit its count field, or if the total exceeds the bit
// stream's length limit.
func TotalBits(segs []Segment, version int) int {
	result := int64(0)

	for _, seg := range segs {
		ccbits := seg.Mode.numCharCountBits(version)

		if seg.NumChars >= 1<<uint(ccbits) {
			return -1
		}

		result += int64(4 + ccbits + seg.Data.Len())

		if result > math.MaxInt32 {
			return -1
		}
	}

	return int(result)
}
