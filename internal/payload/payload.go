// Package payload renders a POCSAG nibble buffer as numeric, 7-bit
// alphanumeric, or binary text, grounded on multimon-ng's
// prepare_msg_numeric/prepare_msg_alpha/prepare_msg_binary.
package payload

import (
	"fmt"
	"strings"

	"github.com/pagercast/pocsag/internal/charset"
)

// NumericTable maps a BCD-ish nibble to its display character.
const NumericTable = "084 2.6]195-3U7["

// terminators are the control codes an alphanumeric payload is trimmed of
// from the tail, in any combination.
var terminators = map[byte]bool{0x00: true, 0x03: true, 0x04: true, 0x17: true, 0x19: true}

func nibbleAt(buf []byte, i int) byte {
	b := buf[i/2]
	if i%2 == 0 {
		return (b >> 4) & 0xF
	}
	return b & 0xF
}

// Numeric renders numNibbles nibbles of buf through NumericTable, high
// nibble of buffer[0] first.
func Numeric(buf []byte, numNibbles int) string {
	var sb strings.Builder
	sb.Grow(numNibbles)
	for i := 0; i < numNibbles; i++ {
		sb.WriteByte(NumericTable[nibbleAt(buf, i)])
	}
	return sb.String()
}

func bitReverse8(b byte) byte {
	b = (b&0xF0)>>4 | (b&0x0F)<<4
	b = (b&0xCC)>>2 | (b&0x33)<<2
	b = (b&0xAA)>>1 | (b&0x55)<<1
	return b
}

// Alphanumeric treats the nibble buffer as a big-endian bit stream, pulls
// 7 bits at a time, bit-reverses each byte, strips trailing terminators,
// and translates the remainder through tab.
func Alphanumeric(buf []byte, numNibbles int, tab *charset.Table) string {
	totalBits := numNibbles * 4
	numChars := totalBits / 7

	bitAt := func(i int) byte {
		nib := i / 4
		if nib >= numNibbles {
			return 0
		}
		shift := 3 - (i % 4)
		return (nibbleAt(buf, nib) >> uint(shift)) & 1
	}

	chars := make([]byte, 0, numChars)
	bitPos := 0
	for c := 0; c < numChars; c++ {
		var v byte
		for b := 0; b < 7; b++ {
			v = (v << 1) | bitAt(bitPos)
			bitPos++
		}
		chars = append(chars, bitReverse8(v<<1))
	}

	for len(chars) > 0 && terminators[chars[len(chars)-1]] {
		chars = chars[:len(chars)-1]
	}

	var sb strings.Builder
	for _, c := range chars {
		sb.WriteString(tab.Translate(c))
	}
	return sb.String()
}

// Binary renders whole bytes of the nibble buffer as comma-separated hex
// pairs; a trailing odd nibble is dropped.
func Binary(buf []byte, numNibbles int) string {
	n := numNibbles / 2
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		parts[i] = fmt.Sprintf("%02x", buf[i])
	}
	return strings.Join(parts, ",")
}
