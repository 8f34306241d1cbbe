package manifest

import (
	"errors"
	"fmt"
)

// Sentinel errors for manifest loading.
var (
	// ErrUnsupportedFormat indicates an input whose extension is neither .txt nor .py.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrNoCurrentCategory indicates an entry line before any [section] header.
	ErrNoCurrentCategory = errors.New("no current category")

	// ErrNoRecipeObject indicates a recipe without exactly one ConanFile class.
	ErrNoRecipeObject = errors.New("no recipe object")

	// ErrMalformedMember indicates a recognized recipe member whose value is not a literal.
	ErrMalformedMember = errors.New("malformed recipe member")
)

// ParseError locates an error inside an input file.
type ParseError struct {
	Source string
	Line   int
	Text   string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Text != "" {
		return fmt.Sprintf("%s:%d: %v: %q", e.Source, e.Line, e.Err, e.Text)
	}
	return fmt.Sprintf("%s:%d: %v", e.Source, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Kind returns the label of the sentinel err wraps, or "error" when it
// wraps none of them.
func Kind(err error) string {
	for _, sentinel := range []error{
		ErrUnsupportedFormat,
		ErrNoCurrentCategory,
		ErrNoRecipeObject,
		ErrMalformedMember,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return "error"
}
