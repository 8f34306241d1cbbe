package manifest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format identifies how an input file is read.
type Format string

const (
	// FormatText is a conanfile.txt-style section manifest.
	FormatText Format = "text"

	// FormatRecipe is a conanfile.py build recipe.
	FormatRecipe Format = "recipe"
)

// DetectFormat picks the input format from the file extension.
func DetectFormat(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".txt":
		return FormatText, nil
	case ".py":
		return FormatRecipe, nil
	default:
		return "", fmt.Errorf("%s: %w %q (use .txt or .py)", path, ErrUnsupportedFormat, ext)
	}
}

// LoadFile reads the manifest at path using the format its extension names.
// The extension is checked before the file is opened.
func LoadFile(path string, opts ExtractOptions) (*Manifest, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	return Load(data, format, path, opts)
}

// Load parses data in the given format. source names the input in errors.
func Load(data []byte, format Format, source string, opts ExtractOptions) (*Manifest, error) {
	opts.logger().Debug().
		Str("source", source).
		Str("format", string(format)).
		Int("bytes", len(data)).
		Msg("loading manifest")

	switch format {
	case FormatText:
		return ParseText(bytes.NewReader(data), source)
	case FormatRecipe:
		return ExtractRecipe(data, source, opts)
	default:
		return nil, fmt.Errorf("%s: %w %q", source, ErrUnsupportedFormat, string(format))
	}
}
