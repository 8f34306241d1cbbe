package recipe

import (
	"fmt"
	"strings"
)

// tabWidth matches the Python tokenizer's tab stop.
const tabWidth = 8

// Line is one logical source line: a statement with continuations joined
// and comments removed.
type Line struct {
	// Indent is the indentation column of the first physical line.
	Indent int

	// Text is the statement text without leading indentation.
	Text string

	// Start and End are the 1-based physical line numbers the statement spans.
	Start int
	End   int
}

// lineBuilder accumulates characters for the logical line being read.
type lineBuilder struct {
	lines   []Line
	buf     strings.Builder
	indent  int
	start   int
	started bool
}

func (b *lineBuilder) begin(lineNo int) {
	if !b.started {
		b.started = true
		b.start = lineNo
	}
}

func (b *lineBuilder) flush(lineNo int) {
	text := strings.TrimSpace(b.buf.String())
	if text != "" {
		b.lines = append(b.lines, Line{
			Indent: b.indent,
			Text:   text,
			Start:  b.start,
			End:    lineNo,
		})
	}
	b.buf.Reset()
	b.indent = 0
	b.started = false
}

// SplitLines breaks Python source into logical lines. Bracketed expressions,
// backslash continuations and triple-quoted strings are joined into a single
// line. Comments outside string literals are dropped, and so are blank lines.
func SplitLines(src string) ([]Line, error) {
	var (
		b       lineBuilder
		lineNo  = 1
		depth   int
		inStr   bool
		quote   byte
		triple  bool
		strLine int
	)

	for i := 0; i < len(src); {
		c := src[i]

		if inStr {
			switch {
			case c == '\\' && i+1 < len(src):
				b.buf.WriteByte(c)
				b.buf.WriteByte(src[i+1])
				if src[i+1] == '\n' {
					lineNo++
				}
				i += 2
			case triple && strings.HasPrefix(src[i:], strings.Repeat(string(quote), 3)):
				b.buf.WriteString(src[i : i+3])
				inStr = false
				i += 3
			case !triple && c == quote:
				b.buf.WriteByte(c)
				inStr = false
				i++
			case c == '\n':
				if !triple {
					return nil, fmt.Errorf("line %d: unterminated string literal", strLine)
				}
				b.buf.WriteByte(c)
				lineNo++
				i++
			default:
				b.buf.WriteByte(c)
				i++
			}
			continue
		}

		switch {
		case c == '#':
			for i < len(src) && src[i] != '\n' {
				i++
			}
		case c == '\r':
			i++
		case c == '\n':
			if depth > 0 {
				b.buf.WriteByte(' ')
			} else {
				b.flush(lineNo)
			}
			lineNo++
			i++
		case c == '\\' && i+1 < len(src) && (src[i+1] == '\n' || src[i+1] == '\r'):
			b.buf.WriteByte(' ')
			i++
			if src[i] == '\r' {
				i++
			}
			if i < len(src) && src[i] == '\n' {
				i++
			}
			lineNo++
		case !b.started && c == ' ':
			b.indent++
			i++
		case !b.started && c == '\t':
			b.indent = (b.indent/tabWidth + 1) * tabWidth
			i++
		default:
			b.begin(lineNo)
			switch c {
			case '"', '\'':
				inStr = true
				quote = c
				strLine = lineNo
				triple = strings.HasPrefix(src[i:], strings.Repeat(string(c), 3))
				if triple {
					b.buf.WriteString(src[i : i+3])
					i += 3
					continue
				}
			case '(', '[', '{':
				depth++
			case ')', ']', '}':
				if depth > 0 {
					depth--
				}
			}
			b.buf.WriteByte(c)
			i++
		}
	}

	if inStr {
		return nil, fmt.Errorf("line %d: unterminated string literal", strLine)
	}
	b.flush(lineNo)

	return b.lines, nil
}
