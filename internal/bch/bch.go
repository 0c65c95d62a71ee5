// Package bch implements the POCSAG (31,21) BCH code: syndrome computation,
// systematic encoding, and brute-force 1/2-bit correction via bit-slicing.
//
// Ported from multimon-ng's pocsag.c (pocsag_syndrome, bitslice_syndrome,
// transpose_clone/transpose_n, pocsag_brute_repair).
package bch

import "math/bits"

const (
	// N is the codeword length, K the information-bit count.
	N = 31
	K = 21

	// GeneratorPoly is g(x) = x^10+x^9+x^8+x^6+x^5+x^3+1, octal 03551.
	GeneratorPoly = 0x0769

	// dataMask keeps bits 11-31 (the 21 information bits, sign bit included).
	dataMask = 0xFFFFF800
)

// Result describes what Repair did to a word.
type Result int

const (
	OK Result = iota
	Corrected1
	Corrected2
	Fail
)

// Syndrome computes the BCH syndrome of a 31-bit codeword held in bits
// 1-31 of word (bit 0 is the overall parity bit). A zero return means
// word is a valid codeword.
func Syndrome(word uint32) uint32 {
	shreg := word >> 1
	mask := uint32(1) << (N - 1)
	coeff := uint32(GeneratorPoly) << (K - 1)

	for n := K; n > 0; n-- {
		if shreg&mask != 0 {
			shreg ^= coeff
		}
		mask >>= 1
		coeff >>= 1
	}
	if parityFold(word) {
		shreg |= 1 << (N - K)
	}
	return shreg
}

// parityFold XORs every bit of x together; true means the word, taken as a
// 32-bit quantity, has an odd number of one-bits.
func parityFold(x uint32) bool {
	t := x ^ (x >> 16)
	t ^= t >> 8
	t ^= t >> 4
	t ^= t >> 2
	t ^= t >> 1
	return t&1 != 0
}

// Encode computes the systematic BCH parity and overall even-parity bit for
// a 21-bit payload already shifted into bits 11-31 of data. Bits 1-10 and
// bit 0 of the input are ignored and overwritten.
func Encode(data uint32) uint32 {
	x := data & dataMask
	dividend := x
	generator := uint32(GeneratorPoly) << K
	mask := uint32(1) << N

	for i := 0; i < K; i++ {
		if dividend&mask != 0 {
			dividend ^= generator
		}
		generator >>= 1
		mask >>= 1
	}
	word := x | dividend

	count := 0
	for i := 1; i < 32; i++ {
		if word&(1<<uint(i)) != 0 {
			count++
		}
	}
	return word | uint32(count%2)
}

// Repair validates word and, if its syndrome is non-zero, attempts to
// correct it. maxBits caps correction effort: 0 disables correction
// entirely, 1 allows single-bit correction, 2 also allows the bit-sliced
// two-bit search.
func Repair(word uint32, maxBits int) (uint32, Result) {
	if Syndrome(word) == 0 {
		return word, OK
	}
	if maxBits <= 0 {
		return word, Fail
	}
	if fixed, ok := repair1Bit(word); ok {
		return fixed, Corrected1
	}
	if maxBits >= 2 {
		if fixed, ok := repair2Bit(word); ok {
			return fixed, Corrected2
		}
	}
	return word, Fail
}

// CheckCRC is the standalone 10-bit CRC check multimon-ng's wordlog sink
// uses alongside (not instead of) the full BCH repair path.
func CheckCRC(word uint32) bool {
	const generator = uint32(0x0769)
	denom := generator << 20
	msg := (word & 0xFFFFF800) >> 1
	mask := uint32(1) << 30
	for i := 0; i < 21; i++ {
		if msg&mask != 0 {
			msg ^= denom
		}
		mask >>= 1
		denom >>= 1
	}
	return ((word >> 1) & 0x3FF) == (msg & 0x3FF)
}

// CheckParity reports whether word has even parity over its low 16 bits
// folded against its high 16 bits, matching multimon-ng's check_parity.
func CheckParity(word uint32) bool {
	p := word ^ (word >> 16)
	p ^= p >> 8
	p ^= p >> 4
	p &= 0x0F
	return ((0x6996>>p)&1)^1 != 0
}

// transposeClone bit-slices src into 32 column planes: planes[i] is
// all-ones if bit i of src is set, else all-zeros.
func transposeClone(src uint32, planes *[32]uint32) {
	for i := 0; i < 32; i++ {
		if src&(1<<uint(i)) != 0 {
			planes[i] = 0xFFFFFFFF
		} else {
			planes[i] = 0
		}
	}
}

// transposeN reconstructs the 32-bit value of candidate column n from a
// bit-sliced plane array.
func transposeN(n int, planes *[32]uint32) uint32 {
	var out uint32
	for j := 0; j < 32; j++ {
		if planes[j]&(1<<uint(n)) != 0 {
			out |= 1 << uint(j)
		}
	}
	return out
}

// bitsliceSyndrome computes the BCH syndrome of 32 candidate words in
// parallel: planes[i] before the call holds bit i of each of the 32
// candidates (one candidate per column); after the call planes[i] holds
// syndrome bit i of each candidate.
func bitsliceSyndrome(planes *[32]uint32) {
	const firstBit = N - 1

	parityMask := planes[0]
	for i := 1; i < 32; i++ {
		parityMask ^= planes[i]
		planes[i-1] = planes[i]
	}
	planes[31] = 0

	for n := 0; n < K; n++ {
		bit := firstBit - n
		planes[20-n] ^= planes[bit]
		planes[23-n] ^= planes[bit]
		planes[25-n] ^= planes[bit]
		planes[26-n] ^= planes[bit]
		planes[28-n] ^= planes[bit]
		planes[29-n] ^= planes[bit]
		planes[30-n] ^= planes[bit]
		planes[31-n] ^= planes[bit]
	}
	planes[N-K] |= parityMask
}

// firstZeroSyndrome OR-reduces the 32 syndrome planes and returns the
// lowest-indexed candidate whose syndrome is entirely zero, i.e. the
// earliest-indexed valid codeword among the batch.
func firstZeroSyndrome(planes *[32]uint32) (int, bool) {
	var orAll uint32
	for _, p := range planes {
		orAll |= p
	}
	zero := ^orAll
	if zero == 0 {
		return 0, false
	}
	return bits.TrailingZeros32(zero), true
}

func repair1Bit(word uint32) (uint32, bool) {
	var planes [32]uint32
	transposeClone(word, &planes)
	for i := 0; i < 32; i++ {
		planes[i] ^= 1 << uint(i)
	}
	bitsliceSyndrome(&planes)
	n, ok := firstZeroSyndrome(&planes)
	if !ok {
		return word, false
	}
	return word ^ (1 << uint(n)), true
}

// twoBitPairs enumerates every (b1,b2) bit-position pair with b1<=b2,
// computed once at package init so Repair stays allocation-free.
var twoBitPairs [][2]int

func init() {
	for b1 := 0; b1 < 32; b1++ {
		for b2 := b1; b2 < 32; b2++ {
			twoBitPairs = append(twoBitPairs, [2]int{b1, b2})
		}
	}
}

func repair2Bit(word uint32) (uint32, bool) {
	for start := 0; start < len(twoBitPairs); start += 32 {
		end := start + 32
		if end > len(twoBitPairs) {
			end = len(twoBitPairs)
		}
		batch := twoBitPairs[start:end]

		var raw, planes [32]uint32
		transposeClone(word, &planes)
		for n, pair := range batch {
			planes[pair[0]] ^= 1 << uint(n)
			planes[pair[1]] ^= 1 << uint(n)
		}
		raw = planes

		bitsliceSyndrome(&planes)
		if n, ok := firstZeroSyndrome(&planes); ok && n < len(batch) {
			return transposeN(n, &raw), true
		}
	}
	return word, false
}
