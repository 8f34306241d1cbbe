package manifest

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// headerPattern matches a [section] header at the start of a trimmed line.
// Anything after the closing bracket is ignored.
var headerPattern = regexp.MustCompile(`^\[(\w+)\]`)

// ParseText reads a conanfile.txt-style manifest. source names the input
// in error messages.
func ParseText(r io.Reader, source string) (*Manifest, error) {
	m := New()
	current := ""
	haveCurrent := false

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if match := headerPattern.FindStringSubmatch(line); match != nil {
			current = match[1]
			haveCurrent = true
			m.Add(current)
			continue
		}

		if !haveCurrent {
			return nil, &ParseError{Source: source, Line: lineNo, Text: line, Err: ErrNoCurrentCategory}
		}
		m.Add(current, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", source, err)
	}

	return m, nil
}

// WriteText writes m in conanfile.txt format: each category as a [header],
// one entry per line, and a blank separator line.
func WriteText(w io.Writer, m *Manifest) error {
	bw := bufio.NewWriter(w)
	for _, name := range m.Categories() {
		fmt.Fprintf(bw, "[%s]\n", name)
		for _, entry := range m.Entries(name) {
			bw.WriteString(entry)
			bw.WriteByte('\n')
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// MarshalText returns m serialized by WriteText.
func MarshalText(m *Manifest) []byte {
	var buf bytes.Buffer
	// bytes.Buffer writes never fail.
	_ = WriteText(&buf, m)
	return buf.Bytes()
}
