package main

import (
	"github.com/spf13/cobra"

	"go.eggybyte.com/bootforge/cli/internal/ui"
	"go.eggybyte.com/bootforge/cli/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show bootforge version information",
		Long: `Display version information for the bootforge CLI tool.

This command shows:
  • CLI version, git commit hash, and build timestamp
  • Embedded template set version
  • Go runtime version`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			ui.Data(version.Get(), version.GetFullVersionInfo(), "%s", version.GetVersionString())
		},
	}
}
