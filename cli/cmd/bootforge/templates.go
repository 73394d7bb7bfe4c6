package main

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"go.eggybyte.com/bootforge/cli/internal/templates"
	"go.eggybyte.com/bootforge/cli/internal/ui"
)

// templateInfo describes one catalog entry.
type templateInfo struct {
	ID        string   `json:"id"`
	Variables []string `json:"variables"`
	Guards    []string `json:"guards"`
}

func newTemplatesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List the template catalog",
		Long: `List every template with the variables it references and the guards of its
fragments. With --templates-dir, templates in that directory replace built-in
ones with the same id.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, err := a.generator()
			if err != nil {
				return err
			}
			catalog := gen.Catalog()
			var infos []templateInfo
			for _, id := range catalog.IDs() {
				t, _ := catalog.Lookup(id)
				infos = append(infos, templateInfo{ID: id, Variables: t.Variables(), Guards: t.Guards()})
			}
			ui.Data(infos, "", "%d template(s)", len(infos))
			if !ui.JSONOutput() {
				for _, info := range infos {
					fmt.Fprintf(ui.Writer(), "  %-40s guards=%v\n", info.ID, info.Guards)
				}
			}
			return nil
		},
	}
	cmd.AddCommand(newTemplatesShowCmd(a))
	return cmd
}

func newTemplatesShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print the source of one template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var overlays []fs.FS
			if dir := a.settings.TemplatesDir; dir != "" {
				overlays = append(overlays, os.DirFS(dir))
			}
			loader, err := templates.NewLoader(overlays...)
			if err != nil {
				return err
			}
			src, err := loader.LoadTemplate(args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(ui.Writer(), src)
			return nil
		},
	}
}
