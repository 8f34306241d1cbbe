// Package cmd provides the CLI commands for conanmerge.
package cmd

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/cameronsjo/conanmerge/internal/fileutil"
	"github.com/cameronsjo/conanmerge/internal/logging"
	"github.com/cameronsjo/conanmerge/internal/manifest"
	"github.com/cameronsjo/conanmerge/internal/ui"
)

const version = "0.1.0"

var (
	mergeOutput string
	mergeDryRun bool
	legacy      bool
	verbose     bool
)

// rootCmd merges its positional inputs into one conanfile.txt.
var rootCmd = &cobra.Command{
	Use:   "conanmerge <file1> <file2> [file...] --output <path>",
	Short: "Merge Conan dependency manifests into one conanfile.txt",
	Long: `conanmerge - merge Conan dependency manifests

Reads two or more manifests and writes a single deduplicated conanfile.txt.
Each input is read according to its extension:

  .txt   conanfile.txt sections ([requires], [options], ...)
  .py    conanfile.py recipe, read statically and never executed

From a recipe, conanmerge recovers the ConanFile class's requires
attribute and the self.options["dep"].key = value lines of configure().
It also reads tool_requires, build_requires, test_requires and
generators, the self.requires("ref") calls in requirements() and
build_requirements(), and dependency-scoped default_options. Pass --legacy
to skip those.

Sections and entries are written in a stable order, so the same inputs
always produce the same file.

Examples:
  conanmerge conanfile.txt app/conanfile.py --output build/conanfile.txt
  conanmerge sdk.py app.txt extra.txt -o merged.txt
  conanmerge sdk.py app.txt -o merged.txt --dry-run
  conanmerge show conanfile.py --format yaml`,
	Version:       version,
	Args:          cobra.MinimumNArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runMerge,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ui.ConfigureColor(os.Stderr)
	if err := rootCmd.Execute(); err != nil {
		ui.Error("%s: %v", manifest.Kind(err), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&mergeOutput, "output", "o", "", "Path of the merged conanfile.txt")
	rootCmd.Flags().BoolVarP(&mergeDryRun, "dry-run", "n", false, "Print the merged manifest instead of writing it")
	_ = rootCmd.MarkFlagRequired("output")

	rootCmd.PersistentFlags().BoolVar(&legacy, "legacy", false, "Only read requires and configure() from recipes")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	rootCmd.SetVersionTemplate("conanmerge version {{.Version}}\n")
}

func runMerge(cmd *cobra.Command, args []string) error {
	log := newLogger(cmd)
	opts := extractOptions(log)

	merged, err := mergeFiles(args, opts)
	if err != nil {
		return err
	}

	if mergeDryRun {
		if err := manifest.WriteText(cmd.OutOrStdout(), merged); err != nil {
			return err
		}
		ui.Info("Dry run: %s not written", mergeOutput)
		return nil
	}

	if err := fileutil.WriteFileAtomic(mergeOutput, manifest.MarshalText(merged), 0644); err != nil {
		return fmt.Errorf("write %s: %w", mergeOutput, err)
	}
	log.Debug().Str("output", mergeOutput).Int("categories", merged.Len()).Msg("wrote merged manifest")

	ui.Success("Merged %d manifests into %s", len(args), mergeOutput)
	ui.Header("Categories:")
	for _, name := range merged.Categories() {
		ui.Detail("[%s] %d entries", name, len(merged.Entries(name)))
	}
	return nil
}

// mergeFiles loads every input and folds them into one manifest.
// All extensions are checked before any file is parsed.
func mergeFiles(paths []string, opts manifest.ExtractOptions) (*manifest.Manifest, error) {
	for _, path := range paths {
		if _, err := manifest.DetectFormat(path); err != nil {
			return nil, err
		}
	}

	loaded := make([]*manifest.Manifest, 0, len(paths))
	for _, path := range paths {
		m, err := manifest.LoadFile(path, opts)
		if err != nil {
			return nil, err
		}
		opts.Logger.Debug().Str("source", path).Int("categories", m.Len()).Msg("loaded manifest")
		loaded = append(loaded, m)
	}

	return manifest.MergeAll(loaded...), nil
}

// extractOptions applies the recipe flags. Skipped recipe members are
// reported as warnings.
func extractOptions(log *logging.Logger) manifest.ExtractOptions {
	return manifest.ExtractOptions{Legacy: legacy, Logger: log, Warnf: ui.Warning}
}

// newLogger builds the run's debug logger on the command's stderr.
func newLogger(cmd *cobra.Command) *logging.Logger {
	return logging.New(logging.Options{
		Level:   "info",
		Format:  "pretty",
		Output:  cmd.ErrOrStderr(),
		Verbose: verbose,
	}).WithRun(uuid.New().String()[:8])
}
