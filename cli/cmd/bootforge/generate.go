package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"go.eggybyte.com/bootforge/cli/internal/generators"
	"go.eggybyte.com/bootforge/cli/internal/projectfs"
	"go.eggybyte.com/bootforge/cli/internal/ui"
	"go.eggybyte.com/bootforge/core/identity"
)

type generateOptions struct {
	ov     overrides
	dryRun bool
	watch  bool
}

func newGenerateCmd(a *app) *cobra.Command {
	var opts generateOptions
	cmd := &cobra.Command{
		Use:   "generate [file]",
		Short: "Generate the project described by a configuration",
		Long: `Generate the Spring Boot source tree into <output>/<artifact-id>.

Existing files are never overwritten unless --force is given. When a write
fails, files written so far are removed again. With --watch the project is
regenerated every time the configuration file changes; --monitor-addr then
serves Prometheus metrics and the status of the last regeneration.

Example:
  bootforge generate
  bootforge generate orders.yaml -o ./out --cache redis --api-docs
  bootforge generate --dry-run
  bootforge generate --watch --monitor-addr :9464`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runGenerate(ctx, a, configArg(args), &opts)
		},
	}
	opts.ov.register(cmd)
	f := cmd.Flags()
	f.StringP("output", "o", "", "Directory the project directory is created in")
	f.Bool("force", false, "Overwrite existing files")
	f.Int("cache-size", 0, "Number of generation results kept in memory")
	f.Duration("watch-debounce", 0, "Quiet period before a change triggers regeneration")
	f.BoolVar(&opts.dryRun, "dry-run", false, "List the files without writing them")
	f.BoolVar(&opts.watch, "watch", false, "Regenerate whenever the configuration changes")
	f.String("monitor-addr", "", "Serve /metrics and /healthz on this address while watching")
	return cmd
}

func runGenerate(ctx context.Context, a *app, path string, opts *generateOptions) error {
	gen, err := a.generator()
	if err != nil {
		return err
	}

	if err := generateOnce(ctx, a, gen, path, opts, a.settings.Force); err != nil {
		return err
	}
	if !opts.watch {
		return nil
	}

	ui.Info("Watching %s, press Ctrl+C to stop", path)
	return runWatchMode(ctx, a, path, func(ctx context.Context) error {
		// Files from the previous round are ours to replace.
		err := generateOnce(ctx, a, gen, path, opts, true)
		if err != nil {
			ui.Error("Regeneration failed: %v", err)
		}
		return err
	})
}

func generateOnce(ctx context.Context, a *app, gen *generators.Generator, path string, opts *generateOptions, force bool) error {
	cfg, err := loadConfig(path, opts.ov.raw())
	if err != nil {
		return err
	}

	ctx = identity.WithRun(ctx, identity.NewRun(cfg.ProjectName, path))
	res, err := gen.Generate(ctx, cfg)
	if err != nil {
		return err
	}

	root := filepath.Join(a.settings.OutputDir, res.Identifiers.ArtifactID)
	if opts.dryRun {
		ui.Data(filePaths(res), ui.PlanTree(root, res.Plan), "Dry run: %d file(s) would be written", len(res.Files))
		return nil
	}

	pfs := projectfs.NewProjectFS(afero.NewOsFs(), root)
	pfs.SetVerbose(ui.Verbose())
	report, err := pfs.WriteAll(projectFiles(res), force)
	if err != nil {
		return err
	}
	ui.Success("Generated %s in %s (%d created, %d overwritten)",
		cfg.ProjectName, pfs.GetRootDir(), len(report.Created), len(report.Overwritten))
	printNextSteps(res, root)
	return nil
}

func projectFiles(res *generators.Result) []projectfs.File {
	files := make([]projectfs.File, len(res.Files))
	for i, f := range res.Files {
		files[i] = projectfs.File{Path: f.Path, Content: f.Content}
	}
	return files
}

func filePaths(res *generators.Result) []string {
	out := make([]string, len(res.Files))
	for i, f := range res.Files {
		out[i] = f.Path
	}
	return out
}

func printNextSteps(res *generators.Result, root string) {
	if ui.JSONOutput() {
		return
	}
	steps := []string{
		"Add a build file (Maven or Gradle) with the Spring Boot starters for " + res.Capabilities.String(),
		"Point spring.datasource in src/main/resources/application.yml at your database",
		"Run " + res.Identifiers.MainClass + " from " + root,
	}
	if res.Capabilities.APIDocs() {
		steps = append(steps, "Open http://localhost:8080/swagger-ui.html")
	}
	if res.Capabilities.HealthEndpoint() {
		steps = append(steps, "Check http://localhost:8080/actuator/health")
	}
	ui.Info("Next steps:")
	for i, s := range steps {
		ui.Step(i+1, len(steps), "%s", s)
	}
}
