package font

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"unicode/utf8"
)

// A Charset is a set of character codes. A nil *Charset contains every code.
//
// Charset files have one command per line, and # starts a comment:
//
//	range a z
//	chars ! ? $$ $a9
//
// A character is either a single UTF-8 character, "$$" for a dollar sign, or
// "$" followed by a hexadecimal code point. Every character must be in
// CodePage.
type Charset [CodeCount]bool

// Has returns true if the set contains the code.
func (s *Charset) Has(c byte) bool {
	return s == nil || s[c]
}

// Len returns the number of codes in the set.
func (s *Charset) Len() int {
	if s == nil {
		return CodeCount
	}
	var n int
	for _, ok := range s {
		if ok {
			n++
		}
	}
	return n
}

func parseChar(b []byte) (byte, error) {
	var r rune
	if b[0] == '$' {
		rest := string(b[1:])
		if rest == "$" {
			return '$', nil
		}
		v, err := strconv.ParseInt(rest, 16, 32)
		if err != nil {
			return 0, err
		}
		if v > utf8.MaxRune {
			return 0, fmt.Errorf("code point is too large: 0x%x", v)
		}
		r = rune(v)
	} else {
		v, n := utf8.DecodeRune(b)
		if v == utf8.RuneError && n <= 1 {
			return 0, fmt.Errorf("invalid UTF-8: %q", b)
		}
		if n < len(b) {
			return 0, fmt.Errorf("multiple characters: %q", b)
		}
		r = v
	}
	c, ok := CodePage.EncodeRune(r)
	if !ok {
		return 0, fmt.Errorf("character not in code page: %U", r)
	}
	return c, nil
}

func (s *Charset) readLine(line []byte) error {
	if i := bytes.IndexByte(line, '#'); i != -1 {
		line = line[:i]
	}
	fs := bytes.Fields(line)
	if len(fs) == 0 {
		return nil
	}
	cmd := string(fs[0])
	args := fs[1:]
	switch cmd {
	case "range":
		if len(args) != 2 {
			return fmt.Errorf("range has %d arguments, expected exactly 2", len(args))
		}
		c1, err := parseChar(args[0])
		if err != nil {
			return err
		}
		c2, err := parseChar(args[1])
		if err != nil {
			return err
		}
		if c1 > c2 {
			return fmt.Errorf("range is backwards: %#x > %#x", c1, c2)
		}
		for c := int(c1); c <= int(c2); c++ {
			s[c] = true
		}
		return nil
	case "chars":
		if len(args) == 0 {
			return errors.New("missing arguments for chars")
		}
		for _, arg := range args {
			c, err := parseChar(arg)
			if err != nil {
				return err
			}
			s[c] = true
		}
		return nil
	default:
		return fmt.Errorf("unknown command: %q", cmd)
	}
}

// ParseCharset reads a character set. The name is used in error messages.
func ParseCharset(r io.Reader, name string) (*Charset, error) {
	s := new(Charset)
	sc := bufio.NewScanner(r)
	for lineno := 1; sc.Scan(); lineno++ {
		if err := s.readLine(sc.Bytes()); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", name, lineno, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

// ReadCharset reads a character set from a file.
func ReadCharset(filename string) (*Charset, error) {
	fp, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	return ParseCharset(fp, filename)
}
