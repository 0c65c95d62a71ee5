package bch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validCodeword is the address codeword for RIC 123456, function 3
// (alphanumeric), cross-checked against the encode-side wrapper in the
// root package and against an independent C implementation.
const validCodeword = uint32(0x0789182E)

func TestEncodeIsIdempotentOnAValidCodeword(t *testing.T) {
	// Encode only ever looks at bits 11-31 of its input, so re-encoding an
	// already-valid codeword must reproduce it exactly.
	assert.Equal(t, validCodeword, Encode(validCodeword))
}

func TestSyndromeZeroForValidCodeword(t *testing.T) {
	assert.Equal(t, uint32(0), Syndrome(validCodeword))
}

func TestSyndromeNonZeroForCorruptedCodeword(t *testing.T) {
	corrupted := validCodeword ^ (1 << 5)
	assert.NotEqual(t, uint32(0), Syndrome(corrupted))
}

func TestRepairNoErrors(t *testing.T) {
	fixed, result := Repair(validCodeword, 2)
	assert.Equal(t, OK, result)
	assert.Equal(t, validCodeword, fixed)
}

func TestRepairSingleBitError(t *testing.T) {
	for bit := 0; bit < 31; bit++ {
		corrupted := validCodeword ^ (1 << uint(bit))
		fixed, result := Repair(corrupted, 1)
		require.Equal(t, Corrected1, result, "bit %d", bit)
		assert.Equal(t, validCodeword, fixed, "bit %d", bit)
	}
}

func TestRepairSingleBitErrorDisabledByMaxBits(t *testing.T) {
	corrupted := validCodeword ^ (1 << 3)
	fixed, result := Repair(corrupted, 0)
	assert.Equal(t, Fail, result)
	assert.Equal(t, corrupted, fixed)
}

func TestRepairTwoBitError(t *testing.T) {
	corrupted := validCodeword ^ (1 << 2) ^ (1 << 17)
	fixed, result := Repair(corrupted, 2)
	assert.Equal(t, Corrected2, result)
	assert.Equal(t, validCodeword, fixed)
}

func TestRepairTwoBitErrorNotAttemptedAtMaxBitsOne(t *testing.T) {
	corrupted := validCodeword ^ (1 << 2) ^ (1 << 17)
	fixed, result := Repair(corrupted, 1)
	assert.Equal(t, Fail, result)
	assert.Equal(t, corrupted, fixed)
}

func TestCheckCRCAndParity(t *testing.T) {
	assert.True(t, CheckCRC(validCodeword))
	assert.True(t, CheckParity(validCodeword))

	corrupted := validCodeword ^ 1 // flip the overall parity bit only
	assert.False(t, CheckParity(corrupted))
}

func TestTwoBitPairsCoversEveryCombination(t *testing.T) {
	// 32 choose 2 plus the 32 degenerate (b1==b2) pairs.
	require.Len(t, twoBitPairs, 32*31/2+32)
}
