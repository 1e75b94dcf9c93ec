package reedsolomon

import (
	"errors"
	"fmt"
)

// ErrDegree is returned when a generator degree is outside [1, 255].
var ErrDegree = errors.New("reedsolomon: degree out of range")

// GeneratorPoly returns the coefficients of the Reed-Solomon generator
// polynomial of the given degree, the product of (x - α^i) for
// i = 0 .. degree-1 with α = 2. Coefficients are ordered from the
// highest order term down; the leading coefficient is always 1 and is
// omitted.
func GeneratorPoly(degree int) ([]byte, error) {
	if degree < 1 || degree > 255 {
		return nil, fmt.Errorf("%w: %d", ErrDegree, degree)
	}

	// Start with the monomial x^0.
	result := make([]byte, degree)
	result[degree-1] = 1

	// Multiply by (x - α^i) for successive powers of α. The
	// multiplication shifts the polynomial up by one degree; dropping
	// the high term keeps the leading 1 implicit.
	root := byte(1)

	for i := 0; i < degree; i++ {
		for j := range result {
			result[j] = Multiply(result[j], root)

			if j+1 < len(result) {
				result[j] ^= result[j+1]
			}
		}

		root = Multiply(root, 2)
	}

	return result, nil
}

// Remainder returns the remainder of data, treated as a polynomial with
// the high-order coefficient first and shifted up by len(divisor) zero
// bytes, modulo the divisor. With a generator polynomial as divisor the
// result is the block's error correction codewords.
func Remainder(data, divisor []byte) []byte {
	result := make([]byte, len(divisor))

	// Polynomial division: slide each input byte into the window and
	// cancel the leading term against the divisor.
	for _, b := range data {
		factor := b ^ result[0]
		copy(result, result[1:])
		result[len(result)-1] = 0

		for i, coef := range divisor {
			result[i] ^= Multiply(coef, factor)
		}
	}

	return result
}

// Encode returns numECBytes error correction codewords for the data
// block.
func Encode(data []byte, numECBytes int) ([]byte, error) {
	generator, err := GeneratorPoly(numECBytes)
	if err != nil {
		return nil, err
	}

	return Remainder(data, generator), nil
}
