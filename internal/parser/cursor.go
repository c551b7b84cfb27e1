package parser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Cursor reads the tokens of the PHP serialize grammar used by replay
// archives. Every read advances past what it consumed and nothing else; a
// failed read leaves the cursor wherever the failure was detected, so the
// cursor must not be reused after an error.
type Cursor struct {
	text string
	pos  int
}

// NewCursor returns a cursor positioned at the start of text.
func NewCursor(text string) *Cursor {
	return &Cursor{text: text}
}

// Pos returns the current byte offset.
func (c *Cursor) Pos() int {
	return c.pos
}

// EOF reports whether the whole text has been consumed.
func (c *Cursor) EOF() bool {
	return c.pos >= len(c.text)
}

func (c *Cursor) fail(sentinel error, format string, args ...any) *DecodeError {
	return c.failAt(c.pos, sentinel, format, args...)
}

func (c *Cursor) failAt(offset int, sentinel error, format string, args ...any) *DecodeError {
	return &DecodeError{
		Offset: offset,
		Detail: fmt.Sprintf(format, args...),
		Err:    sentinel,
	}
}

// Peek returns the next byte without consuming it.
func (c *Cursor) Peek() (byte, bool) {
	if c.EOF() {
		return 0, false
	}
	return c.text[c.pos], true
}

func (c *Cursor) next() (byte, error) {
	if c.EOF() {
		return 0, c.fail(ErrUnexpectedEOF, "expected more input")
	}
	b := c.text[c.pos]
	c.pos++
	return b, nil
}

// ExpectByte consumes b or fails with ErrUnexpectedToken.
func (c *Cursor) ExpectByte(b byte) error {
	start := c.pos
	got, err := c.next()
	if err != nil {
		return err
	}
	if got != b {
		return c.failAt(start, ErrUnexpectedToken, "expected %q, found %q", b, got)
	}
	return nil
}

// Expect consumes the literal s or fails with ErrUnexpectedToken.
func (c *Cursor) Expect(s string) error {
	if len(c.text)-c.pos < len(s) {
		return c.fail(ErrUnexpectedEOF, "expected %q", s)
	}
	if got := c.text[c.pos : c.pos+len(s)]; got != s {
		return c.fail(ErrUnexpectedToken, "expected %q, found %q", s, got)
	}
	c.pos += len(s)
	return nil
}

// readUntil consumes up to and including delim and returns what preceded it.
func (c *Cursor) readUntil(delim byte, sentinel error) (string, error) {
	i := strings.IndexByte(c.text[c.pos:], delim)
	if i < 0 {
		return "", c.fail(sentinel, "missing %q delimiter", delim)
	}
	s := c.text[c.pos : c.pos+i]
	c.pos += i + 1
	return s, nil
}

// ReadLength reads a non-negative decimal terminated by ':'.
func (c *Cursor) ReadLength() (int, error) {
	start := c.pos
	s, err := c.readUntil(':', ErrMalformedLength)
	if err != nil {
		return 0, err
	}
	if s == "" || strings.TrimLeft(s, "0123456789") != "" {
		return 0, c.failAt(start, ErrMalformedLength, "%q is not a length", s)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, c.failAt(start, ErrMalformedLength, "%v", err)
	}
	return n, nil
}

// ReadString reads s:<bytes>:"<text>"; or N;. A null string is returned as nil.
// The length prefix counts UTF-8 bytes; the read walks whole code points so a
// multi-byte character is never split.
func (c *Cursor) ReadString() (*string, error) {
	start := c.pos
	tag, err := c.next()
	if err != nil {
		return nil, err
	}

	switch tag {
	case 's':
		if err := c.ExpectByte(':'); err != nil {
			return nil, err
		}
		n, err := c.ReadLength()
		if err != nil {
			return nil, err
		}
		if err := c.ExpectByte('"'); err != nil {
			return nil, err
		}

		begin := c.pos
		for consumed := 0; consumed < n; {
			if c.EOF() {
				return nil, c.failAt(start, ErrUnexpectedEOF, "string declared %d bytes, found %d", n, consumed)
			}
			_, size := utf8.DecodeRuneInString(c.text[c.pos:])
			c.pos += size
			consumed += size
		}
		s := c.text[begin:c.pos]

		if err := c.Expect(`";`); err != nil {
			return nil, err
		}
		return &s, nil

	case 'N':
		if err := c.ExpectByte(';'); err != nil {
			return nil, err
		}
		return nil, nil

	default:
		return nil, c.failAt(start, ErrUnknownStringTag, "tag %q", tag)
	}
}

// ReadRequiredString is ReadString for values that may not be null.
func (c *Cursor) ReadRequiredString() (string, error) {
	start := c.pos
	s, err := c.ReadString()
	if err != nil {
		return "", err
	}
	if s == nil {
		return "", c.failAt(start, ErrUnexpectedNull, "expected a string")
	}
	return *s, nil
}

func (c *Cursor) readNumber(tag byte, sentinel error) (string, error) {
	start := c.pos
	got, err := c.next()
	if err != nil {
		return "", err
	}
	if got != tag {
		return "", c.failAt(start, sentinel, "expected tag %q, found %q", tag, got)
	}
	got, err = c.next()
	if err != nil {
		return "", err
	}
	if got != ':' {
		return "", c.failAt(start, sentinel, "expected ':' after tag %q", tag)
	}
	return c.readUntil(';', sentinel)
}

// ReadInt reads i:<digits>;.
func (c *Cursor) ReadInt() (int, error) {
	start := c.pos
	s, err := c.readNumber('i', ErrMalformedInteger)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, c.failAt(start, ErrMalformedInteger, "%q", s)
	}
	return v, nil
}

// ReadNullableInt reads i:<digits>; or N;. A null is returned as nil.
func (c *Cursor) ReadNullableInt() (*int, error) {
	if b, ok := c.Peek(); ok && b == 'N' {
		c.pos++
		if err := c.ExpectByte(';'); err != nil {
			return nil, err
		}
		return nil, nil
	}
	v, err := c.ReadInt()
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ReadFloat reads d:<number>;.
func (c *Cursor) ReadFloat() (float64, error) {
	start := c.pos
	s, err := c.readNumber('d', ErrMalformedFloat)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, c.failAt(start, ErrMalformedFloat, "%q", s)
	}
	return v, nil
}

// ReadBool reads a string holding "Y" or "N", in either case.
func (c *Cursor) ReadBool() (bool, error) {
	start := c.pos
	s, err := c.ReadString()
	if err != nil {
		return false, err
	}
	if s == nil {
		return false, c.failAt(start, ErrInvalidBoolEncoding, "null")
	}
	switch *s {
	case "Y", "y":
		return true, nil
	case "N", "n":
		return false, nil
	default:
		return false, c.failAt(start, ErrInvalidBoolEncoding, "%q", *s)
	}
}

// ReadArrayHeader reads a:<count>:{ and returns count.
func (c *Cursor) ReadArrayHeader() (int, error) {
	if err := c.Expect("a:"); err != nil {
		return 0, err
	}
	return c.readCount()
}

// readCount reads <count>:{ and rejects counts that the remaining text
// cannot hold; every element takes at least one byte.
func (c *Cursor) readCount() (int, error) {
	start := c.pos
	n, err := c.ReadLength()
	if err != nil {
		return 0, err
	}
	if err := c.ExpectByte('{'); err != nil {
		return 0, err
	}
	if rest := len(c.text) - c.pos; n > rest {
		return 0, c.failAt(start, ErrMalformedLength, "count %d exceeds the %d bytes left", n, rest)
	}
	return n, nil
}

// ReadObjectHeader reads O:<len>:"<class>":<count>:{ and returns count.
func (c *Cursor) ReadObjectHeader(class string) (int, error) {
	if err := c.Expect(fmt.Sprintf(`O:%d:"%s":`, len(class), class)); err != nil {
		return 0, err
	}
	return c.readCount()
}
