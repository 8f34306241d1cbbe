package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cameronsjo/conanmerge/internal/manifest"
)

const appRecipe = `from conans import ConanFile


class SeatAdjusterApp(ConanFile):
    requires = ["vehicle-app-sdk/0.1", "fmt/9.1.0"]

    def configure(self):
        self.options["fmt"].header_only = True
`

const skeletonManifest = `[requires]
fmt/9.1.0
nlohmann_json/3.11.2

[generators]
CMakeDeps
`

func TestRootCmd_Structure(t *testing.T) {
	t.Run("has expected subcommands", func(t *testing.T) {
		names := make([]string, 0)
		for _, c := range rootCmd.Commands() {
			names = append(names, c.Name())
		}
		assert.Contains(t, names, "show")
	})

	t.Run("output flag is required", func(t *testing.T) {
		flag := rootCmd.Flags().Lookup("output")
		require.NotNil(t, flag)
		assert.Equal(t, "o", flag.Shorthand)
		assert.Contains(t, flag.Annotations, "cobra_annotation_bash_completion_one_required_flag")
	})
}

func TestRootCmd_Merge(t *testing.T) {
	dir := t.TempDir()
	txt := writeFile(t, dir, "conanfile.txt", skeletonManifest)
	py := writeFile(t, dir, "app/conanfile.py", appRecipe)
	out := filepath.Join(dir, "build", "conanfile.txt")

	_, status, err := executeCmd(t, txt, py, "--output", out)
	require.NoError(t, err)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, `[requires]
fmt/9.1.0
nlohmann_json/3.11.2
vehicle-app-sdk/0.1

[generators]
CMakeDeps

[options]
fmt:header_only=True

`, string(got))

	assert.Equal(t, "✓ Merged 2 manifests into "+out+"\n"+
		"Categories:\n"+
		"  [requires] 3 entries\n"+
		"  [generators] 1 entries\n"+
		"  [options] 1 entries\n", status)
}

func TestRootCmd_MergeIsOrderIndependent(t *testing.T) {
	dir := t.TempDir()
	txt := writeFile(t, dir, "conanfile.txt", skeletonManifest)
	py := writeFile(t, dir, "conanfile.py", appRecipe)
	first := filepath.Join(dir, "first.txt")
	second := filepath.Join(dir, "second.txt")

	_, _, err := executeCmd(t, txt, py, "-o", first)
	require.NoError(t, err)
	_, _, err = executeCmd(t, py, txt, "-o", second)
	require.NoError(t, err)

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestRootCmd_MergeMoreThanTwo(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "[requires]\na/1.0\n")
	b := writeFile(t, dir, "b.txt", "[requires]\nb/1.0\n")
	c := writeFile(t, dir, "c.txt", "[options]\na:shared=True\n")

	stdout, _, err := executeCmd(t, a, b, c, "-o", filepath.Join(dir, "out.txt"), "--dry-run")
	require.NoError(t, err)
	assert.Equal(t, "[requires]\na/1.0\nb/1.0\n\n[options]\na:shared=True\n\n", stdout)
}

func TestRootCmd_DryRun(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "[requires]\nfoo/1.0\n")
	b := writeFile(t, dir, "b.txt", "[requires]\nfoo/1.0\nbar/2.0\n")
	out := filepath.Join(dir, "out.txt")

	stdout, status, err := executeCmd(t, a, b, "--output", out, "-n")
	require.NoError(t, err)
	assert.Equal(t, "[requires]\nbar/2.0\nfoo/1.0\n\n", stdout)
	assert.Equal(t, "Dry run: "+out+" not written\n", status)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "dry run must not write output")
}

func TestRootCmd_Legacy(t *testing.T) {
	dir := t.TempDir()
	py := writeFile(t, dir, "conanfile.py", `class Sdk(ConanFile):
    requires = "zlib/1.2.13"
    generators = "CMakeDeps"
`)
	txt := writeFile(t, dir, "conanfile.txt", "[requires]\nfmt/9.1.0\n")

	stdout, _, err := executeCmd(t, py, txt, "-o", filepath.Join(dir, "out.txt"), "-n", "--legacy")
	require.NoError(t, err)
	assert.Equal(t, "[requires]\nfmt/9.1.0\nzlib/1.2.13\n\n", stdout)

	stdout, _, err = executeCmd(t, py, txt, "-o", filepath.Join(dir, "out.txt"), "-n")
	require.NoError(t, err)
	assert.Contains(t, stdout, "[generators]\nCMakeDeps\n")
}

func TestRootCmd_Errors(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.txt", "[requires]\nfoo/1.0\n")
	orphan := writeFile(t, dir, "orphan.txt", "foo/1.0\n[requires]\n")
	noClass := writeFile(t, dir, "helpers.py", "def helper():\n    return 1\n")
	yml := writeFile(t, dir, "conandata.yml", "sources: {}\n")

	tests := []struct {
		name     string
		args     []string
		sentinel error
		contains string
	}{
		{
			name:     "unsupported extension",
			args:     []string{good, yml},
			sentinel: manifest.ErrUnsupportedFormat,
			contains: "conandata.yml",
		},
		{
			name:     "entry before header",
			args:     []string{orphan, good},
			sentinel: manifest.ErrNoCurrentCategory,
			contains: "orphan.txt:1",
		},
		{
			name:     "recipe without ConanFile class",
			args:     []string{good, noClass},
			sentinel: manifest.ErrNoRecipeObject,
			contains: "helpers.py",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "out.txt")
			_, _, err := executeCmd(t, append(tt.args, "-o", out)...)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)
			assert.Contains(t, err.Error(), tt.contains)

			_, statErr := os.Stat(out)
			assert.True(t, os.IsNotExist(statErr), "no partial output on error")
		})
	}
}

func TestRootCmd_UnsupportedFormatAbortsBeforeParsing(t *testing.T) {
	dir := t.TempDir()
	// orphan.txt is malformed, but the .ini input must be reported first.
	orphan := writeFile(t, dir, "orphan.txt", "foo/1.0\n")
	ini := writeFile(t, dir, "conan.ini", "")

	_, _, err := executeCmd(t, orphan, ini, "-o", filepath.Join(dir, "out.txt"))
	assert.ErrorIs(t, err, manifest.ErrUnsupportedFormat)
}

func TestRootCmd_Usage(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "[requires]\nfoo/1.0\n")
	b := writeFile(t, dir, "b.txt", "[requires]\nbar/1.0\n")

	t.Run("missing output flag", func(t *testing.T) {
		_, _, err := executeCmd(t, a, b)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "output")
	})

	t.Run("single input", func(t *testing.T) {
		_, _, err := executeCmd(t, a, "-o", filepath.Join(dir, "out.txt"))
		require.Error(t, err)
	})
}

func TestRootCmd_Version(t *testing.T) {
	stdout, _, err := executeCmd(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, "conanmerge version "+version+"\n", stdout)
}

func TestRootCmd_Verbose(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "[requires]\nfoo/1.0\n")
	b := writeFile(t, dir, "b.py", "class B(ConanFile):\n    requires = \"bar/1.0\"\n")
	out := filepath.Join(dir, "out.txt")

	t.Run("debug lines reach stderr", func(t *testing.T) {
		_, _, logs, err := executeCmdWithLogs(t, a, b, "-o", out, "--verbose")
		require.NoError(t, err)
		assert.Contains(t, logs, "loaded manifest")
		assert.Contains(t, logs, "found recipe class")
		assert.Contains(t, logs, "wrote merged manifest")
	})

	t.Run("quiet by default", func(t *testing.T) {
		_, _, logs, err := executeCmdWithLogs(t, a, b, "-o", out)
		require.NoError(t, err)
		assert.NotContains(t, logs, "loaded manifest")
	})
}

func TestRootCmd_WarnsOnSkippedRecipeMembers(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "[requires]\nfoo/1.0\n")
	py := writeFile(t, dir, "conanfile.py", "class B(ConanFile):\n    requires = \"bar/1.0\"\n    generators = GENERATORS\n")

	stdout, status, err := executeCmd(t, a, py, "-o", filepath.Join(dir, "out.txt"), "-n")
	require.NoError(t, err)
	assert.Equal(t, "[requires]\nbar/1.0\nfoo/1.0\n\n", stdout)
	assert.Contains(t, status, "⚠ "+py+":3: skipped generators: not a literal\n")
}
