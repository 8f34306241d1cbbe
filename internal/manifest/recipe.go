package manifest

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cameronsjo/conanmerge/internal/logging"
	"github.com/cameronsjo/conanmerge/internal/recipe"
)

// recipeBase is the class every Conan recipe derives from.
const recipeBase = "ConanFile"

var (
	// optionAssignPattern matches self.options["dep"].key = value at the
	// start of a configure() statement.
	optionAssignPattern = regexp.MustCompile(`^self\.options\["(\w+)"\]\.(\w+)\s*=\s*(\w+)`)

	// requireCallPattern matches self.requires("ref") and its build-context
	// variants with a string-literal first argument.
	requireCallPattern = regexp.MustCompile(`^self\.(requires|tool_requires|build_requires|test_requires)\(\s*([rRuU]?"[^"]*"|[rRuU]?'[^']*')`)
)

// requirementAttributes are the class attributes read with the same
// string-or-sequence rules as requires.
var requirementAttributes = []string{
	CategoryToolRequires,
	CategoryBuildRequires,
	CategoryTestRequires,
	CategoryGenerators,
}

// requirementMethods are scanned for self.requires(...) style calls.
var requirementMethods = []string{"requirements", "build_requirements"}

// ExtractOptions tunes recipe extraction.
type ExtractOptions struct {
	// Legacy restricts extraction to the requires attribute and the
	// configure() option assignments.
	Legacy bool

	// Logger receives debug output. Nil discards it.
	Logger *logging.Logger

	// Warnf is told about each recipe member skipped because its value is
	// not a literal. Nil drops the warnings.
	Warnf func(format string, args ...any)
}

func (o ExtractOptions) logger() *logging.Logger {
	if o.Logger == nil {
		return logging.Nop()
	}
	return o.Logger
}

func (o ExtractOptions) warnf(format string, args ...any) {
	if o.Warnf != nil {
		o.Warnf(format, args...)
	}
}

// ExtractRecipe recovers a manifest from conanfile.py source without
// executing it. source names the input in errors and log lines.
func ExtractRecipe(src []byte, source string, opts ExtractOptions) (*Manifest, error) {
	log := opts.logger().WithComponent("recipe").WithSource(source)

	doc, err := recipe.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}

	cls, err := recipeClass(doc, source)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("class", cls.Name).Int("line", cls.Line).Msg("found recipe class")

	m := New()

	if a, ok := cls.Attribute(CategoryRequires); ok {
		refs, declared, err := attributeStrings(a)
		if err != nil {
			return nil, &ParseError{Source: source, Line: a.Line, Err: fmt.Errorf("%w: %s: %v", ErrMalformedMember, a.Name, err)}
		}
		if declared {
			m.Add(CategoryRequires, refs...)
		}
	}

	if configure, ok := cls.Method("configure"); ok {
		m.Add(CategoryOptions)
		for _, ln := range configure.Body {
			match := optionAssignPattern.FindStringSubmatch(ln.Text)
			if match == nil {
				continue
			}
			m.Add(CategoryOptions, fmt.Sprintf("%s:%s=%s", match[1], match[2], match[3]))
		}
	}

	if opts.Legacy {
		return m, nil
	}

	for _, name := range requirementAttributes {
		a, ok := cls.Attribute(name)
		if !ok {
			continue
		}
		values, declared, err := attributeStrings(a)
		if err != nil {
			log.Debug().Err(err).Str("attribute", name).Int("line", a.Line).Msg("skipping non-literal attribute")
			opts.warnf("%s:%d: skipped %s: not a literal", source, a.Line, name)
			continue
		}
		if declared {
			m.Add(name, values...)
		}
	}

	for _, name := range requirementMethods {
		method, ok := cls.Method(name)
		if !ok {
			continue
		}
		for _, ln := range method.Body {
			match := requireCallPattern.FindStringSubmatch(ln.Text)
			if match == nil {
				continue
			}
			ref, err := recipe.Literal(match[2])
			if err != nil {
				log.Debug().Err(err).Int("line", ln.Start).Msg("skipping requirement call")
				opts.warnf("%s:%d: skipped self.%s(...): not a literal", source, ln.Start, match[1])
				continue
			}
			m.Add(match[1], recipe.Format(ref))
		}
	}

	if a, ok := cls.Attribute("default_options"); ok {
		if err := addDefaultOptions(m, a); err != nil {
			log.Debug().Err(err).Int("line", a.Line).Msg("skipping non-literal default_options")
			opts.warnf("%s:%d: skipped default_options: not a literal", source, a.Line)
		}
	}

	return m, nil
}

// recipeClass selects the single ConanFile class declared in doc.
func recipeClass(doc *recipe.Document, source string) (*recipe.Class, error) {
	candidates := doc.Derived(recipeBase)
	if len(candidates) == 1 {
		return candidates[0], nil
	}

	if len(candidates) == 0 {
		return nil, fmt.Errorf("%s: %w: no class derives from %s", source, ErrNoRecipeObject, recipeBase)
	}

	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = c.Name
	}
	return nil, fmt.Errorf("%s: %w: %d classes derive from %s (%s)",
		source, ErrNoRecipeObject, len(candidates), recipeBase, strings.Join(names, ", "))
}

// attributeStrings evaluates a string-or-sequence attribute. declared is
// false when the attribute is assigned None.
func attributeStrings(a *recipe.Assignment) (values []string, declared bool, err error) {
	v, err := recipe.Literal(a.Expr)
	if err == nil && v == nil {
		return nil, false, nil
	}
	values, err = recipe.Strings(a.Expr)
	if err != nil {
		return nil, false, err
	}
	return values, true, nil
}

// addDefaultOptions copies dependency-scoped entries of default_options
// into the options category. Both the dict form {"dep:key": value} and
// the legacy string form "dep:key=value" are accepted. Keys without a
// dependency scope are the recipe's own options and are skipped.
func addDefaultOptions(m *Manifest, a *recipe.Assignment) error {
	v, err := recipe.Literal(a.Expr)
	if err != nil {
		return err
	}

	switch val := v.(type) {
	case recipe.Dict:
		for _, item := range val {
			key, ok := item.Key.(string)
			if !ok || !strings.Contains(key, ":") {
				continue
			}
			m.Add(CategoryOptions, key+"="+recipe.Format(item.Value))
		}
	case string, []any:
		entries, err := recipe.Strings(a.Expr)
		if err != nil {
			return err
		}
		for _, e := range entries {
			key, _, found := strings.Cut(e, "=")
			if found && strings.Contains(key, ":") {
				m.Add(CategoryOptions, e)
			}
		}
	}
	return nil
}
