package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/cameronsjo/conanmerge/internal/ui"
)

// resetFlags restores every flag of c and its subcommands to its default,
// clearing Changed so required-flag checks run again.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// executeCmd executes the root command with the given args and returns
// stdout and the ui status output separately.
// This handles proper state reset between test executions.
func executeCmd(t *testing.T, args ...string) (stdout, status string, err error) {
	t.Helper()
	stdout, status, _, err = executeCmdWithLogs(t, args...)
	return stdout, status, err
}

// executeCmdWithLogs is executeCmd that also returns the command's stderr,
// where the logger writes.
func executeCmdWithLogs(t *testing.T, args ...string) (stdout, status, logs string, err error) {
	t.Helper()
	resetFlags(rootCmd)

	var out, errOut, uiOut bytes.Buffer
	oldOutput, oldNoColor := ui.Output, color.NoColor
	ui.Output = &uiOut
	color.NoColor = true
	t.Cleanup(func() {
		ui.Output = oldOutput
		color.NoColor = oldNoColor
	})

	// Important: Set args BEFORE setting output buffers
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	err = rootCmd.Execute()
	return out.String(), uiOut.String(), errOut.String(), err
}

// writeFile creates name under dir with content and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
