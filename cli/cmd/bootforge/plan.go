package main

import (
	"path"

	"github.com/spf13/cobra"

	"go.eggybyte.com/bootforge/cli/internal/ui"
)

func newPlanCmd(a *app) *cobra.Command {
	var (
		ov      overrides
		explain bool
	)
	cmd := &cobra.Command{
		Use:   "plan [file]",
		Short: "Preview the files a configuration would produce",
		Long: `Show the file plan as a tree: every slot, the file that fills it and the
slots left out with the reason. With --explain, also show for every file which
template fragments are switched on or off by the technology choices.

Example:
  bootforge plan
  bootforge plan --explain --persistence jpa --cache redis`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configArg(args), ov.raw())
			if err != nil {
				return err
			}
			gen, err := a.generator()
			if err != nil {
				return err
			}

			if !explain {
				pv, err := gen.Preview(cfg)
				if err != nil {
					return err
				}
				ui.Data(pv.Plan, ui.PlanTree(cfg.ProjectName, pv.Plan),
					"%d file(s) planned for %s", len(pv.Plan.Entries), pv.Capabilities.String())
				return nil
			}

			pv, traces, err := gen.Explain(cfg)
			if err != nil {
				return err
			}
			ui.Data(traces, ui.PlanTree(cfg.ProjectName, pv.Plan),
				"%d file(s) planned for %s", len(pv.Plan.Entries), pv.Capabilities.String())
			if ui.JSONOutput() {
				return nil
			}
			for _, ft := range traces {
				if len(ft.Trace.Fragments) == 0 {
					continue
				}
				ui.Data(nil, ui.TraceTree(path.Base(ft.Entry.TargetPath), ft.Trace), "fragments of %s", ft.Entry.TemplateID)
			}
			return nil
		},
	}
	ov.register(cmd)
	cmd.Flags().BoolVar(&explain, "explain", false, "Show fragment decisions for every file")
	return cmd
}
