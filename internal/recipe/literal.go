package recipe

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotLiteral is returned when an expression is not a plain Python literal.
var ErrNotLiteral = errors.New("not a literal expression")

// Number is a numeric literal kept in its source spelling.
type Number string

// DictItem is one key/value pair of a dict literal.
type DictItem struct {
	Key   any
	Value any
}

// Dict is a dict literal with its items in source order.
type Dict []DictItem

// Literal evaluates a restricted Python literal expression. Results are
// string, Number, bool, nil (None), []any (list, tuple or set) or Dict.
// A top-level comma-separated sequence is read as a tuple. Anything else,
// including names, calls, f-strings and operators, fails with ErrNotLiteral.
func Literal(expr string) (any, error) {
	toks, err := tokenize(expr)
	if err != nil {
		return nil, err
	}
	p := &literalParser{toks: toks}
	if p.peek().kind == tokEOF {
		return nil, fmt.Errorf("%w: empty expression", ErrNotLiteral)
	}

	v, err := p.sequence(tokEOF)
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, fmt.Errorf("%w: unexpected %q", ErrNotLiteral, t.text)
	}
	return v, nil
}

// Strings evaluates expr as a string or a sequence of strings.
func Strings(expr string) ([]string, error) {
	v, err := Literal(expr)
	if err != nil {
		return nil, err
	}
	switch val := v.(type) {
	case string:
		return []string{val}, nil
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: sequence element %s is not a string", ErrNotLiteral, Format(item))
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %s is not a string or sequence", ErrNotLiteral, Format(v))
	}
}

// Format renders a literal value the way Python's str() would for scalars.
func Format(v any) string {
	switch val := v.(type) {
	case nil:
		return "None"
	case bool:
		if val {
			return "True"
		}
		return "False"
	case string:
		return val
	case Number:
		return string(val)
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = Format(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case Dict:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = Format(item.Key) + ": " + Format(item.Value)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return fmt.Sprintf("%v", val)
	}
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokString
	tokNumber
	tokName
	tokPunct
)

type token struct {
	kind tokenKind
	text string
	// value holds decoded contents for string tokens.
	value string
}

func tokenize(s string) ([]token, error) {
	var toks []token
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case strings.IndexByte("()[]{},:", c) >= 0:
			toks = append(toks, token{kind: tokPunct, text: string(c)})
			i++
		case c == '"' || c == '\'':
			tok, n, err := readString(s[i:], "")
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
			i += n
		case c == '-' || c == '+' || c == '.' || isDigit(c):
			j := i + 1
			for j < len(s) && (isDigit(s[j]) || isIdentChar(s[j]) || s[j] == '.' || isExponentSign(s, i, j)) {
				j++
			}
			text := s[i:j]
			if !isDigit(text[len(text)-1]) && !strings.ContainsAny(text, "0123456789") {
				return nil, fmt.Errorf("%w: unexpected %q", ErrNotLiteral, text)
			}
			toks = append(toks, token{kind: tokNumber, text: strings.TrimPrefix(text, "+")})
			i = j
		case isIdentStart(c):
			j := i + 1
			for j < len(s) && isIdentChar(s[j]) {
				j++
			}
			word := s[i:j]
			if j < len(s) && (s[j] == '"' || s[j] == '\'') && isStringPrefix(word) {
				tok, n, err := readString(s[j:], strings.ToLower(word))
				if err != nil {
					return nil, err
				}
				toks = append(toks, tok)
				i = j + n
				continue
			}
			toks = append(toks, token{kind: tokName, text: word})
			i = j
		default:
			return nil, fmt.Errorf("%w: unexpected %q", ErrNotLiteral, string(c))
		}
	}
	return append(toks, token{kind: tokEOF}), nil
}

// isExponentSign reports whether s[j] is the sign of a decimal exponent
// in the number starting at s[i], as in 1e-5.
func isExponentSign(s string, i, j int) bool {
	if s[j] != '-' && s[j] != '+' {
		return false
	}
	if s[j-1] != 'e' && s[j-1] != 'E' {
		return false
	}
	digits := strings.ToLower(strings.TrimLeft(s[i:j], "+-"))
	return !strings.HasPrefix(digits, "0x") && digits != "e" && isDigitOrDot(digits[0])
}

func isDigitOrDot(c byte) bool {
	return isDigit(c) || c == '.'
}

func isStringPrefix(word string) bool {
	switch strings.ToLower(word) {
	case "r", "u", "b", "br", "rb", "f", "fr", "rf":
		return true
	}
	return false
}

// readString reads one quoted literal at the start of s and returns the
// token and the number of bytes consumed.
func readString(s, prefix string) (token, int, error) {
	if strings.Contains(prefix, "f") {
		return token{}, 0, fmt.Errorf("%w: f-string", ErrNotLiteral)
	}
	raw := strings.Contains(prefix, "r")

	q := s[0]
	delim := string(q)
	if strings.HasPrefix(s, strings.Repeat(delim, 3)) {
		delim = strings.Repeat(delim, 3)
	}

	var b strings.Builder
	i := len(delim)
	for i < len(s) {
		if strings.HasPrefix(s[i:], delim) {
			text := prefix + s[:i+len(delim)]
			return token{kind: tokString, text: text, value: b.String()}, i + len(delim), nil
		}
		c := s[i]
		if c == '\\' && i+1 < len(s) {
			next := s[i+1]
			i += 2
			if raw {
				b.WriteByte(c)
				b.WriteByte(next)
				continue
			}
			switch next {
			case '\n':
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '\\', '\'', '"':
				b.WriteByte(next)
			default:
				b.WriteByte(c)
				b.WriteByte(next)
			}
			continue
		}
		b.WriteByte(c)
		i++
	}
	return token{}, 0, fmt.Errorf("%w: unterminated string", ErrNotLiteral)
}

type literalParser struct {
	toks []token
	pos  int
}

func (p *literalParser) peek() token {
	return p.toks[p.pos]
}

func (p *literalParser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *literalParser) isPunct(s string) bool {
	t := p.peek()
	return t.kind == tokPunct && t.text == s
}

// sequence reads either a single value or a comma-separated tuple that
// ends at the closing punctuation (or EOF).
func (p *literalParser) sequence(closing tokenKind) (any, error) {
	first, err := p.value()
	if err != nil {
		return nil, err
	}
	if !p.isPunct(",") {
		return first, nil
	}

	items := []any{first}
	for p.isPunct(",") {
		p.next()
		if p.peek().kind == closing || p.isPunct(")") {
			break
		}
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, nil
}

func (p *literalParser) value() (any, error) {
	t := p.next()
	switch t.kind {
	case tokString:
		s := t.value
		for p.peek().kind == tokString {
			s += p.next().value
		}
		return s, nil
	case tokNumber:
		return Number(t.text), nil
	case tokName:
		switch t.text {
		case "True":
			return true, nil
		case "False":
			return false, nil
		case "None":
			return nil, nil
		}
		return nil, fmt.Errorf("%w: name %q", ErrNotLiteral, t.text)
	case tokPunct:
		switch t.text {
		case "[":
			return p.items("]")
		case "(":
			if p.isPunct(")") {
				p.next()
				return []any{}, nil
			}
			v, err := p.sequence(tokEOF)
			if err != nil {
				return nil, err
			}
			if !p.isPunct(")") {
				return nil, fmt.Errorf("%w: missing )", ErrNotLiteral)
			}
			p.next()
			return v, nil
		case "{":
			return p.dict()
		}
	}
	if t.kind == tokEOF {
		return nil, fmt.Errorf("%w: unexpected end of expression", ErrNotLiteral)
	}
	return nil, fmt.Errorf("%w: unexpected %q", ErrNotLiteral, t.text)
}

func (p *literalParser) items(closing string) ([]any, error) {
	items := []any{}
	for !p.isPunct(closing) {
		if p.peek().kind == tokEOF {
			return nil, fmt.Errorf("%w: missing %s", ErrNotLiteral, closing)
		}
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		items = append(items, v)
		if p.isPunct(",") {
			p.next()
			continue
		}
		if !p.isPunct(closing) {
			return nil, fmt.Errorf("%w: expected , or %s", ErrNotLiteral, closing)
		}
	}
	p.next()
	return items, nil
}

// dict reads a dict or set literal after the opening brace.
func (p *literalParser) dict() (any, error) {
	if p.isPunct("}") {
		p.next()
		return Dict{}, nil
	}

	first, err := p.value()
	if err != nil {
		return nil, err
	}
	if !p.isPunct(":") {
		set := []any{first}
		for p.isPunct(",") {
			p.next()
			if p.isPunct("}") {
				break
			}
			v, err := p.value()
			if err != nil {
				return nil, err
			}
			set = append(set, v)
		}
		if !p.isPunct("}") {
			return nil, fmt.Errorf("%w: missing }", ErrNotLiteral)
		}
		p.next()
		return set, nil
	}

	var d Dict
	key := first
	for {
		if !p.isPunct(":") {
			return nil, fmt.Errorf("%w: expected :", ErrNotLiteral)
		}
		p.next()
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		d = append(d, DictItem{Key: key, Value: v})

		if !p.isPunct(",") {
			break
		}
		p.next()
		if p.isPunct("}") {
			break
		}
		if key, err = p.value(); err != nil {
			return nil, err
		}
	}
	if !p.isPunct("}") {
		return nil, fmt.Errorf("%w: missing }", ErrNotLiteral)
	}
	p.next()
	return d, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
