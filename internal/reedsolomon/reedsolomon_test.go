package reedsolomon

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMultiply(t *testing.T) {
	// Identity and annihilator.
	for x := 0; x < 256; x++ {
		require.Equal(t, byte(x), Multiply(byte(x), 1))
		require.Equal(t, byte(0), Multiply(byte(x), 0))
	}

	// Commutativity on a sample grid.
	for x := 0; x < 256; x += 7 {
		for y := 0; y < 256; y += 11 {
			require.Equal(t, Multiply(byte(x), byte(y)), Multiply(byte(y), byte(x)))
		}
	}

	// 2 * 0x80 wraps and reduces modulo 0x11D.
	require.Equal(t, byte(0x1D), Multiply(2, 0x80))
	require.Equal(t, byte(0xEE), Multiply(0xB6, 0x53))
}

func TestGeneratorPoly(t *testing.T) {
	tests := []struct {
		degree int
		want   []byte
	}{
		{degree: 1, want: []byte{1}},
		{degree: 7, want: []byte{127, 122, 154, 164, 11, 68, 117}},
		{degree: 10, want: []byte{216, 194, 159, 111, 199, 94, 95, 113, 157, 193}},
	}

	for _, tt := range tests {
		got, err := GeneratorPoly(tt.degree)
		require.NoError(t, err)
		require.Equal(t, tt.want, got, "degree %d", tt.degree)
	}
}

func TestGeneratorPolyDegreeBounds(t *testing.T) {
	for _, degree := range []int{-1, 0, 256} {
		_, err := GeneratorPoly(degree)
		require.ErrorIs(t, err, ErrDegree, "degree %d", degree)
	}
}

func TestRemainder(t *testing.T) {
	// A version 1-M data block and its ten error correction codewords.
	data := []byte{32, 91, 11, 120, 209, 114, 220, 77, 67, 64, 236, 17, 236, 17, 236, 17}
	want := []byte{196, 35, 39, 119, 235, 215, 231, 226, 93, 23}

	generator, err := GeneratorPoly(10)
	require.NoError(t, err)

	require.Equal(t, want, Remainder(data, generator))
}

func TestRemainderOfZeroData(t *testing.T) {
	generator, err := GeneratorPoly(7)
	require.NoError(t, err)

	require.Equal(t, make([]byte, 7), Remainder(make([]byte, 19), generator))
}

func TestEncode(t *testing.T) {
	data := []byte{32, 91, 11, 120, 209, 114, 220, 77, 67, 64, 236, 17, 236, 17, 236, 17}

	ecc, err := Encode(data, 10)
	require.NoError(t, err)
	require.Equal(t, []byte{196, 35, 39, 119, 235, 215, 231, 226, 93, 23}, ecc)

	_, err = Encode(data, 0)
	require.ErrorIs(t, err, ErrDegree)
}
