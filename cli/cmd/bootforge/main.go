// Package main provides the bootforge CLI tool entry point.
//
// Overview:
//   - Responsibility: CLI command parsing, tool settings, logger and metrics wiring
//   - Key Types: app (per-invocation state shared by commands)
//   - Concurrency Model: Single-threaded CLI execution; batch fans out inside the generator
//   - Error Semantics: Exit code 1 and a user-friendly message for any failure
//   - Performance Notes: The template catalog is parsed once per invocation
//
// Usage:
//
//	bootforge [command] [flags]
package main

import (
	"os"

	"github.com/spf13/cobra"

	"go.eggybyte.com/bootforge/cli/internal/ui"
	"go.eggybyte.com/bootforge/cli/internal/version"
)

// newRootCmd builds the command tree. Each call returns an independent tree
// so tests can execute commands side by side.
func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "bootforge",
		Short: "Spring Boot CRUD service generator",
		Long: `bootforge generates a layered Spring Boot CRUD service from a small
configuration file.

This tool provides commands for:
- Writing a starter bootforge.yaml
- Validating a configuration and explaining the problems found
- Previewing the files a configuration would produce
- Generating one project, or many in parallel

Tool settings come from defaults, BOOTFORGE_* environment variables and flags,
in that order.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.GetVersionString(),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.provider == nil {
				return nil
			}
			return a.provider.Shutdown(cmd.Context())
		},
	}
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	flags := rootCmd.PersistentFlags()
	flags.BoolP("verbose", "V", false, "Enable verbose output")
	flags.Bool("json", false, "Output in JSON format")
	flags.Bool("no-color", false, "Disable colored output")
	flags.String("log-level", "", "Log level: debug, info, warn or error")
	flags.String("log-format", "", "Log format: text, logfmt or json")
	flags.String("templates-dir", "", "Directory whose templates replace the built-in ones")

	rootCmd.AddCommand(
		newInitCmd(),
		newValidateCmd(),
		newPlanCmd(a),
		newGenerateCmd(a),
		newBatchCmd(a),
		newTemplatesCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the root command and exits with a non-zero code on failure.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		ui.Error("Command failed: %v", err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
