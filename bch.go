package pocsag

import "github.com/pagercast/pocsag/internal/bch"

// BCH(31,21) encode-side helpers. The receive-side syndrome/repair logic
// (including the bit-sliced two-bit corrector) lives in internal/bch and
// is exercised through Receiver.RxBit; these wrappers keep the package's
// historical exported encode API working against that one implementation.

const (
	AddressMask   = 0xFFFFF800
	GeneratorPoly = bch.GeneratorPoly
	NumDataBits   = bch.K
	NumTotalBits  = bch.N
)

// CalculateBCH computes the systematic BCH parity bits for the 21-bit
// payload held in bits 11-31 of x. Callers chain CalculateEvenParity
// afterwards to set the overall parity bit, matching the teacher's
// two-step encode API.
func CalculateBCH(x uint32) uint32 {
	x &= AddressMask
	dividend := x
	generator := uint32(bch.GeneratorPoly) << bch.K
	mask := uint32(1) << bch.N

	for i := 0; i < bch.K; i++ {
		if dividend&mask != 0 {
			dividend ^= generator
		}
		generator >>= 1
		mask >>= 1
	}
	return x | dividend
}

// CalculateEvenParity sets the overall parity bit (bit 0) of x.
func CalculateEvenParity(x uint32) uint32 {
	count := 0
	for i := 1; i < 32; i++ {
		if x&(1<<uint(i)) != 0 {
			count++
		}
	}
	return x | uint32(count%2)
}
