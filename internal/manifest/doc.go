// Package manifest merges Conan dependency manifests.
//
// A Manifest maps a category (a conanfile.txt section such as requires or
// options) to a set of opaque entry strings. Manifests come from two kinds
// of input:
//
//   - conanfile.txt: parsed by ParseText
//   - conanfile.py: read statically by ExtractRecipe, never executed
//
// Merge unions two manifests category by category. WriteText serializes
// the result back to conanfile.txt format with a deterministic order:
//
//	[requires]
//	fmt/9.1.0
//	zlib/1.2.13
//
//	[options]
//	zlib:shared=True
//
// # Recipe Extraction
//
// ExtractRecipe looks for exactly one class deriving from ConanFile. It
// reads:
//
//   - requires: a string or list/tuple of strings
//   - configure(): lines shaped like self.options["dep"].key = value
//
// Unless ExtractOptions.Legacy is set, it also reads tool_requires,
// build_requires, test_requires and generators attributes, the
// self.requires("ref") style calls in requirements() and
// build_requirements(), and dependency-scoped default_options.
//
// # Error Handling
//
// The package defines sentinel errors for the failure cases:
//   - ErrUnsupportedFormat: input extension is not .txt or .py
//   - ErrNoCurrentCategory: entry line before any [section] header
//   - ErrNoRecipeObject: recipe does not declare exactly one ConanFile class
//   - ErrMalformedMember: requires is not a literal
package manifest
