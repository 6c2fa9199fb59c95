package lexer

import (
	"unicode/utf8"

	"verdant/internal/source"
)

// Cursor представляет собой позицию в исходном тексте
type Cursor struct {
	Text string
	Off  source.TextSize
	// Limit is the exclusive upper bound for Off; defaults to len(Text).
	Limit source.TextSize
}

// NewCursor creates a new cursor over text.
func NewCursor(text string) Cursor {
	return Cursor{
		Text:  text,
		Off:   0,
		Limit: source.SizeOf(len(text)),
	}
}

func (c *Cursor) limit() source.TextSize {
	if c.Limit != 0 {
		return c.Limit
	}
	return source.SizeOf(len(c.Text))
}

// EOF сообщает, достигнут ли конец текста
func (c *Cursor) EOF() bool {
	return c.Off >= c.limit()
}

// Peek возвращает текущий байт или 0 в конце
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.Text[c.Off]
}

// PeekAt возвращает байт через n позиций от текущей
func (c *Cursor) PeekAt(n source.TextSize) byte {
	if c.Off+n >= c.limit() {
		return 0
	}
	return c.Text[c.Off+n]
}

// Peek2 возвращает два следующих байта, ok=false если их меньше двух
func (c *Cursor) Peek2() (b0, b1 byte, ok bool) {
	if c.Off+1 >= c.limit() {
		return 0, 0, false
	}
	return c.Text[c.Off], c.Text[c.Off+1], true
}

// Peek3 возвращает три следующих байта
func (c *Cursor) Peek3() (b0, b1, b2 byte, ok bool) {
	if c.Off+2 >= c.limit() {
		return 0, 0, 0, false
	}
	return c.Text[c.Off], c.Text[c.Off+1], c.Text[c.Off+2], true
}

// PeekRune decodes the rune at the cursor, sz is 0 at the end.
func (c *Cursor) PeekRune() (r rune, sz int) {
	if c.EOF() {
		return 0, 0
	}
	return utf8.DecodeRuneInString(c.Text[c.Off:c.limit()])
}

// Bump сдвигает курсор на один байт и возвращает его
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.Text[c.Off]
	c.Off++
	return b
}

// BumpN сдвигает курсор на n байт, не выходя за границу
func (c *Cursor) BumpN(n int) {
	c.Off = min(c.Off+source.SizeOf(n), c.limit())
}

// BumpRune consumes a whole UTF-8 sequence; invalid bytes are consumed one at a time.
func (c *Cursor) BumpRune() rune {
	r, sz := c.PeekRune()
	if sz == 0 {
		return 0
	}
	c.BumpN(sz)
	return r
}

// Eat потребляет байт b, если он следующий
func (c *Cursor) Eat(b byte) bool {
	if c.Peek() == b {
		c.Off++
		return true
	}
	return false
}

// EatString consumes s when the text at the cursor starts with it.
func (c *Cursor) EatString(s string) bool {
	end := c.Off + source.SizeOf(len(s))
	if end > c.limit() || c.Text[c.Off:end] != s {
		return false
	}
	c.Off = end
	return true
}

// EatWhile consumes bytes while pred holds and returns how many were eaten.
func (c *Cursor) EatWhile(pred func(byte) bool) int {
	start := c.Off
	for !c.EOF() && pred(c.Text[c.Off]) {
		c.Off++
	}
	return int(c.Off - start)
}

// Rest returns the unread text.
func (c *Cursor) Rest() string {
	return c.Text[c.Off:c.limit()]
}

// Mark запоминает текущую позицию
type Mark source.TextSize

func (c *Cursor) Mark() Mark {
	return Mark(c.Off)
}

// RangeFrom возвращает диапазон от метки до текущей позиции
func (c *Cursor) RangeFrom(m Mark) source.TextRange {
	return source.TextRange{Start: source.TextSize(m), End: c.Off}
}

// Reset возвращает курсор к метке
func (c *Cursor) Reset(m Mark) {
	c.Off = source.TextSize(m)
}
