package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"go.eggybyte.com/bootforge/cli/internal/configschema"
	"go.eggybyte.com/bootforge/cli/internal/generators"
	"go.eggybyte.com/bootforge/cli/internal/projectfs"
	"go.eggybyte.com/bootforge/cli/internal/ui"
	"go.eggybyte.com/bootforge/core/errors"
	"go.eggybyte.com/bootforge/core/log"
)

// batchOutcome is the per-file line of the batch report.
type batchOutcome struct {
	Source string `json:"source"`
	Root   string `json:"root,omitempty"`
	Files  int    `json:"files"`
	Error  string `json:"error,omitempty"`
}

func newBatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <file>...",
		Short: "Generate several projects in parallel",
		Long: `Generate one project per configuration file. Files are processed in
parallel; a failing file does not stop the others. Every project is written to
<output>/<artifact-id>. The command fails when any file failed.

Example:
  bootforge batch services/*.yaml -o ./out --workers 4
  bootforge batch a.yaml b.yaml --metrics-file /var/lib/node_exporter/bootforge.prom`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd.Context(), a, args)
		},
	}
	f := cmd.Flags()
	f.StringP("output", "o", "", "Directory the project directories are created in")
	f.Bool("force", false, "Overwrite existing files")
	f.Int("workers", 0, "Parallel generations (default: number of CPUs)")
	f.Int("cache-size", 0, "Number of generation results kept in memory")
	f.String("metrics-file", "", "Write generation metrics in Prometheus text format to this file")
	return cmd
}

func runBatch(ctx context.Context, a *app, paths []string) error {
	gen, err := a.generator()
	if err != nil {
		return err
	}

	reqs := make([]generators.BatchRequest, 0, len(paths))
	outcomes := make([]batchOutcome, len(paths))
	var pending []int
	for i, p := range paths {
		outcomes[i].Source = p
		raw, err := readRaw(p)
		if err != nil {
			outcomes[i].Error = err.Error()
			continue
		}
		reqs = append(reqs, generators.BatchRequest{Source: p, Raw: raw})
		pending = append(pending, i)
	}

	results := gen.Batch(ctx, reqs, a.settings.Workers)
	for j, r := range results {
		o := &outcomes[pending[j]]
		if r.Err != nil {
			o.Error = r.Err.Error()
			continue
		}
		root := filepath.Join(a.settings.OutputDir, r.Result.Identifiers.ArtifactID)
		pfs := projectfs.NewProjectFS(afero.NewOsFs(), root)
		pfs.SetVerbose(ui.Verbose())
		if _, err := pfs.WriteAll(projectFiles(r.Result), a.settings.Force); err != nil {
			o.Error = err.Error()
			continue
		}
		o.Root = pfs.GetRootDir()
		o.Files = len(r.Result.Files)
	}

	failed := 0
	for _, o := range outcomes {
		if o.Error != "" {
			failed++
			ui.Error("%s: %s", o.Source, o.Error)
		} else {
			ui.Success("%s: %d file(s) in %s", o.Source, o.Files, o.Root)
		}
	}
	ui.Data(outcomes, "", "%d of %d configuration(s) generated", len(outcomes)-failed, len(outcomes))

	if file := a.settings.MetricsFile; file != "" {
		if err := a.provider.WriteTextfile(file); err != nil {
			a.logger.Error(err, "writing metrics failed", log.Str("path", file))
		}
	}

	if failed > 0 {
		return errors.Build(errors.CodeFailedPrecondition).
			WithOp("batch").
			WithMsgf("%d of %d configuration(s) failed", failed, len(outcomes)).
			Err()
	}
	return nil
}

func readRaw(path string) (*configschema.Raw, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.CodeUnavailable, "batch.read", err)
	}
	raw, err := configschema.Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInvalidArgument, "batch.read", err)
	}
	return raw, nil
}
