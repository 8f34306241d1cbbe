package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cameronsjo/conanmerge/internal/manifest"
)

var showFormat string

// showCmd prints what conanmerge recovers from a single input.
var showCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Print the manifest read from one input",
	Long: `Print the manifest conanmerge reads from a single .txt or .py input.

Use it to check what a recipe contributes before merging.

Examples:
  conanmerge show conanfile.py
  conanmerge show conanfile.py --format yaml
  conanmerge show conanfile.txt -f json`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringVarP(&showFormat, "format", "f", "text", "Output format: text, yaml, json")

	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	opts := extractOptions(newLogger(cmd))

	m, err := manifest.LoadFile(args[0], opts)
	if err != nil {
		return err
	}

	return renderManifest(cmd.OutOrStdout(), m, showFormat)
}

// renderManifest writes m in the named format.
func renderManifest(w io.Writer, m *manifest.Manifest, format string) error {
	switch format {
	case "text":
		return manifest.WriteText(w, m)
	case "yaml":
		return writeYAML(w, m)
	case "json":
		out, err := json.MarshalIndent(m.ToMap(), "", "  ")
		if err != nil {
			return fmt.Errorf("marshal json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	default:
		return fmt.Errorf("unknown format %q (use text, yaml or json)", format)
	}
}

// writeYAML emits categories in serialization order, which a plain map
// would lose. Entries are tagged as strings so values like True stay quoted.
func writeYAML(w io.Writer, m *manifest.Manifest) error {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, name := range m.Categories() {
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, e := range m.Entries(name) {
			seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e})
		}
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name},
			seq,
		)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	return enc.Close()
}
