// Package recipe reads the declarative shape of a Python build recipe
// without executing it.
//
// Only the conventional subset used by Conan recipes is understood:
// top-level class statements, assignments directly in a class body and
// method definitions. Everything else in the file is skipped.
package recipe

import (
	"regexp"
	"strings"
)

// byteOrderMark may lead a UTF-8 source file.
const byteOrderMark = "\ufeff"

var (
	classPattern      = regexp.MustCompile(`^class\s+([A-Za-z_]\w*)\s*(?:\((.*)\))?\s*:`)
	defPattern        = regexp.MustCompile(`^(?:async\s+)?def\s+([A-Za-z_]\w*)\s*\(`)
	assignmentPattern = regexp.MustCompile(`^([A-Za-z_]\w*)\s*(?::[^=]+)?=(.*)$`)
)

// Document is the static view of a recipe file.
type Document struct {
	// Classes lists top-level class statements in source order.
	Classes []*Class
}

// Class is a top-level class statement and its body-level members.
type Class struct {
	Name  string
	Bases []string
	Line  int

	// Attributes maps a body-level assignment target to its last assignment.
	Attributes map[string]*Assignment

	// Methods maps a body-level def name to its last definition.
	Methods map[string]*Method
}

// Assignment is a class attribute assignment (name = expr).
type Assignment struct {
	Name string
	Expr string
	Line int
}

// Method is a def statement inside a class body.
type Method struct {
	Name string
	Line int

	// Body holds every logical line of the method after the def line,
	// including nested blocks. Text is already stripped of indentation.
	Body []Line
}

// Parse builds the static view of src.
func Parse(src []byte) (*Document, error) {
	lines, err := SplitLines(strings.TrimPrefix(string(src), byteOrderMark))
	if err != nil {
		return nil, err
	}

	doc := &Document{}
	for i := 0; i < len(lines); i++ {
		if lines[i].Indent != 0 {
			continue
		}
		m := classPattern.FindStringSubmatch(lines[i].Text)
		if m == nil {
			continue
		}

		cls := &Class{
			Name:       m[1],
			Bases:      splitBases(m[2]),
			Line:       lines[i].Start,
			Attributes: make(map[string]*Assignment),
			Methods:    make(map[string]*Method),
		}

		end := blockEnd(lines, i, 0)
		body := inlineSuite(lines[i])
		cls.readBody(append(body, lines[i+1:end]...))
		doc.Classes = append(doc.Classes, cls)
		i = end - 1
	}

	return doc, nil
}

// Class returns the top-level class with the given name.
func (d *Document) Class(name string) (*Class, bool) {
	for _, c := range d.Classes {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Derived returns the classes that inherit from base, either directly or
// through another class in the same document. Base names are compared on
// their last dotted component, so conans.ConanFile matches ConanFile.
func (d *Document) Derived(base string) []*Class {
	memo := make(map[string]bool, len(d.Classes))
	visiting := make(map[string]bool)

	var derives func(c *Class) bool
	derives = func(c *Class) bool {
		if v, ok := memo[c.Name]; ok {
			return v
		}
		if visiting[c.Name] {
			return false
		}
		visiting[c.Name] = true
		defer delete(visiting, c.Name)

		result := false
		for _, b := range c.Bases {
			if lastComponent(b) == base {
				result = true
				break
			}
			if parent, ok := d.Class(b); ok && parent != c && derives(parent) {
				result = true
				break
			}
		}
		memo[c.Name] = result
		return result
	}

	var out []*Class
	for _, c := range d.Classes {
		if derives(c) {
			out = append(out, c)
		}
	}
	return out
}

// Attribute returns the last assignment to name in the class body.
func (c *Class) Attribute(name string) (*Assignment, bool) {
	a, ok := c.Attributes[name]
	return a, ok
}

// Method returns the last definition of name in the class body.
func (c *Class) Method(name string) (*Method, bool) {
	m, ok := c.Methods[name]
	return m, ok
}

func (c *Class) readBody(body []Line) {
	if len(body) == 0 {
		return
	}
	indent := body[0].Indent

	for i := 0; i < len(body); i++ {
		ln := body[i]
		if ln.Indent != indent {
			continue
		}

		if m := defPattern.FindStringSubmatch(ln.Text); m != nil {
			end := blockEnd(body, i, indent)
			c.Methods[m[1]] = &Method{
				Name: m[1],
				Line: ln.Start,
				Body: append(inlineSuite(ln), body[i+1:end]...),
			}
			i = end - 1
			continue
		}

		if m := assignmentPattern.FindStringSubmatch(ln.Text); m != nil {
			expr := strings.TrimSpace(m[2])
			if strings.HasPrefix(expr, "=") {
				continue
			}
			c.Attributes[m[1]] = &Assignment{Name: m[1], Expr: expr, Line: ln.Start}
		}
	}
}

// blockEnd returns the index just past the block opened by lines[open],
// that is, the first following line indented at or below indent.
func blockEnd(lines []Line, open, indent int) int {
	end := open + 1
	for end < len(lines) && lines[end].Indent > indent {
		end++
	}
	return end
}

// inlineSuite returns the simple statements written after the colon of a
// compound statement header, as in "class A(B): x = 1; y = 2".
// The statements are indented one column past the header.
func inlineSuite(header Line) []Line {
	colon := headerColon(header.Text)
	if colon < 0 {
		return nil
	}

	var suite []Line
	for _, stmt := range splitTopLevel(header.Text[colon+1:], ';') {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		suite = append(suite, Line{
			Indent: header.Indent + 1,
			Text:   stmt,
			Start:  header.Start,
			End:    header.End,
		})
	}
	return suite
}

// headerColon returns the index of the colon that ends a class or def
// header, skipping colons inside brackets and string literals.
func headerColon(text string) int {
	depth := 0
	var quote byte
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			depth--
		case c == ':' && depth == 0:
			return i
		}
	}
	return -1
}

// splitBases splits a class base list on top-level commas, dropping
// keyword arguments such as metaclass=.
func splitBases(list string) []string {
	var bases []string
	for _, part := range splitTopLevel(list, ',') {
		part = strings.TrimSpace(part)
		if part == "" || strings.Contains(part, "=") {
			continue
		}
		bases = append(bases, part)
	}
	return bases
}

// splitTopLevel splits s on sep outside brackets and string literals.
func splitTopLevel(s string, sep byte) []string {
	var (
		parts []string
		depth int
		start int
		quote byte
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

func lastComponent(name string) string {
	if idx := strings.LastIndexByte(name, '.'); idx >= 0 {
		return name[idx+1:]
	}
	return name
}
