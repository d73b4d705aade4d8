package classfile

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// encodeModifiedUTF8 encodes s the way the JVM stores Utf8 constants:
// NUL is written as two bytes and supplementary characters
// are written as a surrogate pair of three byte sequences.
func encodeModifiedUTF8(s string) []byte {
	buf := make([]byte, 0, len(s))

	for _, r := range s {
		switch {
		case r == 0:
			buf = append(buf, 0xC0, 0x80)
		case r < 0x80:
			buf = append(buf, byte(r))
		case r < 0x800:
			buf = append(buf, 0xC0|byte(r>>6), 0x80|byte(r&0x3F))
		case r < 0x10000:
			buf = append3(buf, r)
		default:
			hi, lo := utf16.EncodeRune(r)
			buf = append3(buf, hi)
			buf = append3(buf, lo)
		}
	}

	return buf
}

func append3(buf []byte, r rune) []byte {
	return append(buf, 0xE0|byte(r>>12), 0x80|byte((r>>6)&0x3F), 0x80|byte(r&0x3F))
}

func decodeModifiedUTF8(b []byte) (string, error) {
	var sb strings.Builder
	sb.Grow(len(b))

	var pending rune = -1

	flush := func() {
		if pending >= 0 {
			sb.WriteRune(utf8.RuneError)
			pending = -1
		}
	}

	for i := 0; i < len(b); {
		c := b[i]

		var r rune
		switch {
		case c&0x80 == 0:
			if c == 0 {
				return "", Error.New("invalid NUL byte at offset %d in Utf8 constant", i)
			}
			r = rune(c)
			i++
		case c&0xE0 == 0xC0:
			if i+1 >= len(b) || b[i+1]&0xC0 != 0x80 {
				return "", Error.New("truncated Utf8 sequence at offset %d", i)
			}
			r = rune(c&0x1F)<<6 | rune(b[i+1]&0x3F)
			i += 2
		case c&0xF0 == 0xE0:
			if i+2 >= len(b) || b[i+1]&0xC0 != 0x80 || b[i+2]&0xC0 != 0x80 {
				return "", Error.New("truncated Utf8 sequence at offset %d", i)
			}
			r = rune(c&0x0F)<<12 | rune(b[i+1]&0x3F)<<6 | rune(b[i+2]&0x3F)
			i += 3
		default:
			return "", Error.New("invalid Utf8 byte 0x%x at offset %d", c, i)
		}

		if utf16.IsSurrogate(r) {
			if pending >= 0 {
				if dec := utf16.DecodeRune(pending, r); dec != utf8.RuneError {
					sb.WriteRune(dec)
					pending = -1
					continue
				}
				flush()
			}
			pending = r
			continue
		}

		flush()
		sb.WriteRune(r)
	}
	flush()

	return sb.String(), nil
}
