package main

import (
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"go.eggybyte.com/bootforge/cli/internal/projectfs"
	"go.eggybyte.com/bootforge/cli/internal/templates"
	"go.eggybyte.com/bootforge/cli/internal/ui"
)

// DefaultConfigFile is the configuration read when no path is given.
const DefaultConfigFile = "bootforge.yaml"

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [file]",
		Short: "Write a starter bootforge.yaml",
		Long: `Write a commented starter configuration. An existing file is left untouched.

Example:
  bootforge init
  bootforge init configs/orders.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(configArg(args))
		},
	}
	return cmd
}

func runInit(path string) error {
	pfs := projectfs.NewProjectFS(afero.NewOsFs(), filepath.Dir(path))
	written, err := pfs.WriteFileIfNotExists(filepath.Base(path), string(templates.StarterConfig()))
	if err != nil {
		return err
	}
	if !written {
		ui.Warning("%s already exists, leaving it unchanged", path)
		return nil
	}
	ui.Success("Wrote %s", path)
	ui.Info("Edit it, then run: bootforge plan %s", path)
	return nil
}

func configArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return DefaultConfigFile
}
