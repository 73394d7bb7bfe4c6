package main

import (
	"os"

	"github.com/spf13/cobra"

	"go.eggybyte.com/bootforge/cli/internal/capability"
	"go.eggybyte.com/bootforge/cli/internal/configschema"
	"go.eggybyte.com/bootforge/cli/internal/ui"
	"go.eggybyte.com/bootforge/core/errors"
)

func newValidateCmd() *cobra.Command {
	var ov overrides
	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a configuration and report every problem",
		Long: `Validate a configuration file. All problems are reported at once, each with
the offending field and a suggested fix. Warnings do not fail the command.

Example:
  bootforge validate
  bootforge validate orders.yaml --persistence jpa`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configArg(args), ov.raw())
			if err != nil {
				return err
			}
			caps := capability.Resolve(cfg)
			ui.Data(cfg, "", "%s is valid: %s", configArg(args), caps.String())
			return nil
		},
	}
	ov.register(cmd)
	return cmd
}

// overrides are configuration fields given as flags. They replace the
// values from the file when set.
type overrides struct {
	projectName string
	packagePath string
	entity      string
	persistence string
	database    string
	paging      string
	cache       []string
	apiDocs     bool
	health      bool
}

func (o *overrides) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&o.projectName, "project-name", "", "Override projectName")
	f.StringVar(&o.packagePath, "package", "", "Override packagePath")
	f.StringVar(&o.entity, "entity", "", "Override the entity name")
	f.StringVar(&o.persistence, "persistence", "", "Override techStack.persistence (JPA, MYBATIS, NONE)")
	f.StringVar(&o.database, "database", "", "Override techStack.database (MYSQL, POSTGRESQL, H2)")
	f.StringVar(&o.paging, "paging", "", "Override techStack.paging (PAGE_NUM, PAGE_INDEX)")
	f.StringSliceVar(&o.cache, "cache", nil, "Override techStack.cache (REDIS, CAFFEINE)")
	f.BoolVar(&o.apiDocs, "api-docs", false, "Enable API documentation annotations")
	f.BoolVar(&o.health, "health", false, "Enable the health endpoint")
}

func (o *overrides) raw() *configschema.Raw {
	return &configschema.Raw{
		ProjectName: o.projectName,
		PackagePath: o.packagePath,
		Entity:      o.entity,
		TechStack: configschema.RawTechStack{
			Persistence: o.persistence,
			Database:    o.database,
			Paging:      o.paging,
			Cache:       o.cache,
			APIDocs:     o.apiDocs,
			Health:      o.health,
		},
	}
}

// loadConfig reads path, applies flag overrides and validates the result.
// Warnings are printed; errors are printed and returned as one
// INVALID_ARGUMENT error.
func loadConfig(path string, ov *configschema.Raw) (*configschema.Configuration, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.Newf(errors.CodeNotFound, "%s not found; run 'bootforge init' to create it", path)
	}

	cfg, diags := configschema.Load(path, ov)
	reportDiagnostics(diags)
	if diags.HasErrors() {
		return nil, errors.Build(errors.CodeInvalidArgument).
			WithOp("validate").
			WithErr(&configschema.ValidationError{Diagnostics: diags.Errors()}).
			Err()
	}
	return cfg, nil
}

func reportDiagnostics(diags *configschema.Diagnostics) {
	for _, d := range diags.Items() {
		switch d.Severity {
		case configschema.SeverityError:
			ui.Error("%s", d.String())
		case configschema.SeverityWarning:
			ui.Warning("%s", d.String())
		default:
			ui.Debug("%s", d.String())
		}
	}
}
