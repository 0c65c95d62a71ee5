// Package charset implements the ISO-646 national-variant translation
// table used to render POCSAG alphanumeric payloads, ported from
// multimon-ng's trtab/pocsag_init_charset.
package charset

import "fmt"

// Variant selects the ISO-646 national overlay applied to the 7-bit table.
type Variant string

const (
	US Variant = "US"
	DE Variant = "DE"
	SE Variant = "SE"
	FR Variant = "FR"
	SI Variant = "SI"
)

// Output selects how glyphs outside plain ASCII are rendered.
type Output int

const (
	UTF8 Output = iota
	Latin1
	Transliterate
)

// base holds the US/IRV(1991) default table: control codes as bracketed
// mnemonics or escapes, printable ASCII verbatim.
var base = [128]string{
	0x00: "<NUL>", 0x01: "<SOH>", 0x02: "<STX>", 0x03: "<ETX>",
	0x04: "<EOT>", 0x05: "<ENQ>", 0x06: "<ACK>", 0x07: "\\g",
	0x08: "<BS>", 0x09: "\\t", 0x0a: "\\n", 0x0b: "<VT>",
	0x0c: "<FF>", 0x0d: "\\r", 0x0e: "<SO>", 0x0f: "<SI>",
	0x10: "<DLE>", 0x11: "<DC1>", 0x12: "<DC2>", 0x13: "<DC3>",
	0x14: "<DC4>", 0x15: "<NAK>", 0x16: "<SYN>", 0x17: "<ETB>",
	0x18: "<CAN>", 0x19: "<EM>", 0x1a: "<SUB>", 0x1b: "<ESC>",
	0x1c: "<FS>", 0x1d: "<GS>", 0x1e: "<RS>", 0x1f: "<US>",
	0x7f: "<DEL>",
}

func init() {
	for c := 0x20; c < 0x7f; c++ {
		base[c] = string(rune(c))
	}
}

// nationalUTF8, nationalLatin1 and nationalTransliterate hold per-variant overrides
// at the ISO-646 national code points (0x23, 0x24, 0x40, 0x5B-0x60,
// 0x7B-0x7E), one map per Output encoding. FR and SI are only ever
// represented in UTF-8 in the source material; other encodings fall back
// to the base table for those two variants, matching multimon-ng.
var nationalUTF8 = map[Variant]map[int]string{
	DE: {0x5b: "Ä", 0x5c: "Ö", 0x5d: "Ü", 0x7b: "ä", 0x7c: "ö", 0x7d: "ü", 0x7e: "ß"},
	SE: {0x5b: "Ä", 0x5c: "Ö", 0x5d: "Å", 0x7b: "ä", 0x7c: "ö", 0x7d: "å"},
	FR: {
		0x24: "£", 0x40: "à", 0x5b: "°", 0x5c: "ç", 0x5d: "§", 0x5e: "^",
		0x5f: "_", 0x60: "µ", 0x7b: "é", 0x7c: "ù", 0x7d: "è", 0x7e: "¨",
	},
	SI: {0x40: "Ž", 0x5b: "Š", 0x5d: "Ć", 0x5e: "Č", 0x60: "ž", 0x7b: "š", 0x7d: "ć", 0x7e: "č"},
}

var nationalLatin1 = map[Variant]map[int]string{
	DE: {0x5b: "\xC4", 0x5c: "\xD6", 0x5d: "\xDC", 0x7b: "\xE4", 0x7c: "\xF6", 0x7d: "\xFC", 0x7e: "\xDF"},
	SE: {0x5b: "\xC4", 0x5c: "\xD6", 0x5d: "\xC5", 0x7b: "\xE4", 0x7c: "\xF6", 0x7d: "\xE5"},
}

var nationalTransliterate = map[Variant]map[int]string{
	DE: {0x5b: "AE", 0x5c: "OE", 0x5d: "UE", 0x7b: "ae", 0x7c: "oe", 0x7d: "ue", 0x7e: "ss"},
	SE: {0x5b: "AE", 0x5c: "OE", 0x5d: "AO", 0x7b: "ae", 0x7c: "oe", 0x7d: "ao"},
}

// Table is a constructed 128-entry translation table, immutable once built.
type Table struct {
	entries [128]string
}

// New builds a Table for the given variant and output encoding. An unknown
// variant name falls back to US and returns an error, matching
// pocsag_init_charset's reported-but-nonfatal behavior.
func New(variant Variant, out Output) (*Table, error) {
	t := &Table{entries: base}

	overrides := map[Output]map[Variant]map[int]string{
		UTF8:          nationalUTF8,
		Latin1:        nationalLatin1,
		Transliterate: nationalTransliterate,
	}[out]

	switch variant {
	case US, DE, SE, FR, SI:
		for code, glyph := range overrides[variant] {
			t.entries[code] = glyph
		}
		return t, nil
	default:
		return t, fmt.Errorf("charset: invalid variant %q, using US", variant)
	}
}

// Translate renders a 7-bit character code through the table.
func (t *Table) Translate(code byte) string {
	return t.entries[code&0x7f]
}
