package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"go.eggybyte.com/bootforge/cli/internal/generators"
	"go.eggybyte.com/bootforge/cli/internal/templates"
	"go.eggybyte.com/bootforge/cli/internal/ui"
	"go.eggybyte.com/bootforge/cli/internal/version"
	"go.eggybyte.com/bootforge/configx"
	"go.eggybyte.com/bootforge/core/log"
	"go.eggybyte.com/bootforge/logx"
	"go.eggybyte.com/bootforge/obsx"
)

// EnvPrefix is the prefix of environment variables read as tool settings.
const EnvPrefix = "BOOTFORGE_"

// Settings configures the tool itself, not the generated project.
type Settings struct {
	LogLevel      string        `koanf:"log_level" validate:"oneof=debug info warn error"`
	LogFormat     string        `koanf:"log_format" validate:"oneof=text logfmt json"`
	OutputDir     string        `koanf:"output_dir" validate:"required"`
	Workers       int           `koanf:"workers" validate:"gte=0,lte=256"`
	CacheSize     int           `koanf:"cache_size" validate:"gte=0"`
	MetricsFile   string        `koanf:"metrics_file"`
	Force         bool          `koanf:"force"`
	TemplatesDir  string        `koanf:"templates_dir"`
	WatchDebounce time.Duration `koanf:"watch_debounce" validate:"gte=0"`
	MonitorAddr   string        `koanf:"monitor_addr" validate:"omitempty,hostname_port"`
}

// DefaultSettings returns the settings used when nothing else is set.
func DefaultSettings() Settings {
	return Settings{
		LogLevel:      "warn",
		LogFormat:     "text",
		OutputDir:     ".",
		CacheSize:     generators.DefaultCacheSize,
		WatchDebounce: 300 * time.Millisecond,
	}
}

// flagKeys maps command-line flags to the settings keys they override.
var flagKeys = map[string]string{
	"log-level":      "log_level",
	"log-format":     "log_format",
	"output":         "output_dir",
	"workers":        "workers",
	"cache-size":     "cache_size",
	"metrics-file":   "metrics_file",
	"force":          "force",
	"templates-dir":  "templates_dir",
	"watch-debounce": "watch_debounce",
	"monitor-addr":   "monitor_addr",
}

// LoadSettings merges defaults, BOOTFORGE_* variables and the flags that
// were set explicitly on cmd.
func LoadSettings(flags *pflag.FlagSet) (Settings, configx.Metadata, error) {
	overrides := map[string]any{}
	flags.Visit(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			overrides[key] = f.Value.String()
		}
	})

	var s Settings
	loader := configx.NewLoader(configx.Options{EnvPrefix: EnvPrefix})
	meta, err := loader.Load(DefaultSettings(), &s, overrides)
	return s, meta, err
}

// app is the state shared by the commands of one invocation.
type app struct {
	settings Settings
	logger   log.Logger
	provider *obsx.Provider
	metrics  *obsx.GenerationMetrics
}

func (a *app) setup(cmd *cobra.Command) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOut, _ := cmd.Flags().GetBool("json")
	noColor, _ := cmd.Flags().GetBool("no-color")
	ui.SetVerbose(verbose)
	ui.SetJSONOutput(jsonOut)
	ui.SetOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())
	if noColor || os.Getenv("NO_COLOR") != "" {
		ui.SetColor(false)
	}

	settings, meta, err := LoadSettings(cmd.Flags())
	if err != nil {
		return err
	}
	if verbose && !cmd.Flags().Changed("log-level") && meta.Sources["log_level"] == configx.SourceDefault {
		settings.LogLevel = "debug"
	}
	a.settings = settings

	level, err := logx.ParseLevel(settings.LogLevel)
	if err != nil {
		return err
	}
	format, err := logx.ParseFormat(settings.LogFormat)
	if err != nil {
		return err
	}
	a.logger = logx.New(
		logx.WithLevel(level),
		logx.WithFormat(format),
		logx.WithColor(!noColor && !jsonOut),
		logx.WithWriter(cmd.ErrOrStderr()),
		logx.WithPrefix("bootforge"),
	)

	a.provider, err = obsx.NewProvider(cmd.Context(), obsx.Options{
		ServiceName:    "bootforge",
		ServiceVersion: version.Version,
	})
	if err != nil {
		return err
	}
	a.metrics, err = obsx.NewGenerationMetrics(a.provider)
	if err != nil {
		return err
	}
	for _, key := range meta.Keys() {
		if meta.Sources[key] != configx.SourceDefault {
			a.logger.Debug("setting", log.Str("key", key), log.Str("source", string(meta.Sources[key])))
		}
	}
	return nil
}

// generator builds a generator honouring the templates directory setting.
func (a *app) generator() (*generators.Generator, error) {
	opts := []generators.Option{
		generators.WithLogger(a.logger),
		generators.WithMetrics(a.metrics),
		generators.WithCacheSize(a.settings.CacheSize),
	}
	if dir := a.settings.TemplatesDir; dir != "" {
		loader, err := templates.NewLoader(os.DirFS(dir))
		if err != nil {
			return nil, err
		}
		catalog, err := loader.LoadCatalog()
		if err != nil {
			return nil, err
		}
		opts = append(opts, generators.WithCatalog(catalog))
	}
	return generators.New(opts...)
}
