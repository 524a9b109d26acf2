// Copyright 2006-2010 Kirill Simonov
// Copyright 2011-2019 Canonical Ltd
// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0 AND MIT

// Character classification helpers shared by the reader and scanner.
// All predicates take the buffer and an index rather than a single byte,
// since several of them need to look past a multi-byte UTF-8 sequence.

package libyaml

// isAlpha returns true if b[i] is a letter, digit, '_' or '-'.
func isAlpha(b []byte, i int) bool {
	c := b[i]
	return c >= '0' && c <= '9' || c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c == '_' || c == '-'
}

// isDigit returns true if b[i] is an ASCII digit.
func isDigit(b []byte, i int) bool {
	c := b[i]
	return c >= '0' && c <= '9'
}

// asDigit returns the numeric value of the ASCII digit at b[i].
func asDigit(b []byte, i int) int {
	return int(b[i]) - '0'
}

// isHex returns true if b[i] is a hexadecimal digit.
func isHex(b []byte, i int) bool {
	c := b[i]
	return c >= '0' && c <= '9' || c >= 'A' && c <= 'F' || c >= 'a' && c <= 'f'
}

// asHex returns the numeric value of the hexadecimal digit at b[i].
func asHex(b []byte, i int) int {
	c := b[i]
	switch {
	case c >= '0' && c <= '9':
		return int(c) - '0'
	case c >= 'A' && c <= 'F':
		return int(c) - 'A' + 10
	default:
		return int(c) - 'a' + 10
	}
}

// isASCII returns true if b[i] is in the ASCII range.
func isASCII(b []byte, i int) bool {
	return b[i] <= 0x7F
}

// isPrintable returns true if b[i] starts a YAML-printable character.
func isPrintable(b []byte, i int) bool {
	c := b[i]
	return c == 0x0A ||
		c >= 0x20 && c <= 0x7E ||
		c == 0xC2 && b[i+1] >= 0xA0 ||
		c > 0xC2 && c < 0xED ||
		c == 0xED && b[i+1] < 0xA0 ||
		c == 0xEE ||
		c == 0xEF &&
			!(b[i+1] == 0xBB && b[i+2] == 0xBF) &&
			!(b[i+1] == 0xBF && (b[i+2] == 0xBE || b[i+2] == 0xBF))
}

// isZeroChar returns true if b[i] is NUL.
func isZeroChar(b []byte, i int) bool {
	return b[i] == 0x00
}

// isBOM returns true if the UTF-8 byte-order-mark starts at b[i].
func isBOM(b []byte, i int) bool {
	return b[i] == 0xEF && b[i+1] == 0xBB && b[i+2] == 0xBF
}

// isSpace returns true if b[i] is a space.
func isSpace(b []byte, i int) bool {
	return b[i] == ' '
}

// isTab returns true if b[i] is a tab.
func isTab(b []byte, i int) bool {
	return b[i] == '\t'
}

// isBlank returns true if b[i] is a space or a tab.
func isBlank(b []byte, i int) bool {
	return isSpace(b, i) || isTab(b, i)
}

// isLineBreak returns true if a line break starts at b[i]: LF, CR, NEL (U+0085),
// LS (U+2028) or PS (U+2029).
func isLineBreak(b []byte, i int) bool {
	return b[i] == '\r' ||
		b[i] == '\n' ||
		b[i] == 0xC2 && b[i+1] == 0x85 ||
		b[i] == 0xE2 && b[i+1] == 0x80 && (b[i+2] == 0xA8 || b[i+2] == 0xA9)
}

// isCRLF returns true if b[i:i+2] is a CR LF pair.
func isCRLF(b []byte, i int) bool {
	return b[i] == '\r' && b[i+1] == '\n'
}

// isBreak returns true if b[i] is a line break (CR, LF or CRLF, but not the
// Unicode NEL/LS/PS forms). Kept distinct from isLineBreak for callers that
// only care about ASCII breaks.
func isBreak(b []byte, i int) bool {
	return b[i] == '\r' || b[i] == '\n'
}

// isBreakOrZero returns true if b[i] is a line break or NUL.
func isBreakOrZero(b []byte, i int) bool {
	return isBreak(b, i) || isLineBreak(b, i) || isZeroChar(b, i)
}

// isSpaceOrZero returns true if b[i] is a space, a line break or NUL.
func isSpaceOrZero(b []byte, i int) bool {
	return isSpace(b, i) || isBreakOrZero(b, i)
}

// isBlankOrZero returns true if b[i] is blank, a line break or NUL.
func isBlankOrZero(b []byte, i int) bool {
	return isBlank(b, i) || isBreakOrZero(b, i)
}

// isFlowIndicator returns true if b[i] is one of ",[]{}" — the characters
// that terminate a plain scalar in flow context.
func isFlowIndicator(b []byte, i int) bool {
	switch b[i] {
	case ',', '[', ']', '{', '}':
		return true
	}
	return false
}

// isAnchorChar returns true if b[i] may appear in an anchor or alias name:
// any non-blank, non-indicator printable character.
func isAnchorChar(b []byte, i int) bool {
	if isSpaceOrZero(b, i) || isFlowIndicator(b, i) || isColon(b, i) {
		return false
	}
	switch b[i] {
	case 0xEF:
		if isBOM(b, i) {
			return false
		}
	}
	return isPrintable(b, i)
}

// isColon returns true if b[i] is ':'.
func isColon(b []byte, i int) bool {
	return b[i] == ':'
}

// isTagURIChar returns true if b[i] may appear in a tag URI: letters,
// digits, '-', '_' and a fixed set of URI punctuation, plus a percent-escape
// lead byte. In verbatim mode (inside a "!<...>" tag) flow indicators that
// would otherwise terminate a shorthand tag are also permitted.
func isTagURIChar(b []byte, i int, verbatim bool) bool {
	if isAlpha(b, i) {
		return true
	}
	switch b[i] {
	case ';', '/', '?', ':', '@', '&', '=', '+', '$', '.', '%', '!', '~', '*', '\'', '(', ')':
		return true
	case ',', '[', ']':
		return verbatim
	}
	return false
}

// width returns the number of bytes in the UTF-8 sequence starting with c,
// or 0 if c cannot start a valid sequence.
func width(c byte) int {
	switch {
	case c&0x80 == 0x00:
		return 1
	case c&0xE0 == 0xC0:
		return 2
	case c&0xF0 == 0xE0:
		return 3
	case c&0xF8 == 0xF0:
		return 4
	}
	return 0
}
