package lexer

import (
	"unicode"
	"unicode/utf8"
)

// RuneSelf is the first byte value that starts a multi-byte sequence.
const RuneSelf = utf8.RuneSelf

func IsDec(b byte) bool { return b >= '0' && b <= '9' }
func IsHex(b byte) bool { return IsDec(b) || (b|0x20) >= 'a' && (b|0x20) <= 'f' }
func IsOct(b byte) bool { return b >= '0' && b <= '7' }
func IsBin(b byte) bool { return b == '0' || b == '1' }

// IsIdentStartByte is the ASCII fast path of IsIdentStartRune.
func IsIdentStartByte(b byte) bool {
	return b == '_' || b == '$' || (b|0x20) >= 'a' && (b|0x20) <= 'z'
}

func IsIdentContinueByte(b byte) bool {
	return IsIdentStartByte(b) || IsDec(b)
}

// IsIdentStartRune принимает буквы Unicode (ID_Start упрощённо)
func IsIdentStartRune(r rune) bool {
	if r < RuneSelf {
		return IsIdentStartByte(byte(r))
	}
	return unicode.IsLetter(r) || unicode.Is(unicode.Nl, r)
}

func IsIdentContinueRune(r rune) bool {
	if r < RuneSelf {
		return IsIdentContinueByte(byte(r))
	}
	return IsIdentStartRune(r) || unicode.In(r, unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc) ||
		r == '\u200c' || r == '\u200d'
}

// IsBlank reports horizontal whitespace (no line terminators).
func IsBlank(b byte) bool {
	return b == ' ' || b == '\t' || b == '\v' || b == '\f'
}

// IsUnicodeSpace covers the non-ASCII whitespace JS treats as blanks.
func IsUnicodeSpace(r rune) bool {
	return r == '\u00a0' || r == '\ufeff' || (r >= RuneSelf && unicode.Is(unicode.Zs, r))
}

// IsLineTerminatorRune covers LS and PS in addition to ASCII newlines.
func IsLineTerminatorRune(r rune) bool {
	return r == '\n' || r == '\r' || r == '\u2028' || r == '\u2029'
}

// Try2 потребляет двухбайтовый оператор, если он впереди
func (c *Cursor) Try2(a, b byte) bool {
	b0, b1, ok := c.Peek2()
	if ok && b0 == a && b1 == b {
		c.Off += 2
		return true
	}
	return false
}

// Try3 потребляет трёхбайтовый оператор, если он впереди
func (c *Cursor) Try3(a, b, d byte) bool {
	b0, b1, b2, ok := c.Peek3()
	if ok && b0 == a && b1 == b && b2 == d {
		c.Off += 3
		return true
	}
	return false
}

// EatNewline consumes "\n", "\r\n" or a lone "\r".
func (c *Cursor) EatNewline() bool {
	switch c.Peek() {
	case '\n':
		c.Off++
		return true
	case '\r':
		c.Off++
		c.Eat('\n')
		return true
	}
	return false
}
