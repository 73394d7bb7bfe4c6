package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.eggybyte.com/bootforge/cli/internal/ui"
	"go.eggybyte.com/bootforge/cli/internal/version"
	"go.eggybyte.com/bootforge/configx"
	"go.eggybyte.com/bootforge/core/errors"
	"go.eggybyte.com/bootforge/testingx"
)

const orderConfig = `projectName: order-service
packagePath: com.acme.order
entity: OrderItem
techStack:
  persistence: mybatis
  cache: [redis]
  apiDocs: true
unknownKey: ignored
`

// execute runs the CLI with args and returns what it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	err := cmd.Execute()
	t.Cleanup(func() {
		ui.SetOutput(os.Stdout, os.Stderr)
		ui.SetJSONOutput(false)
		ui.SetVerbose(false)
	})
	return out.String(), err
}

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadSettings(t *testing.T) {
	t.Setenv("BOOTFORGE_WORKERS", "3")
	t.Setenv("BOOTFORGE_LOG_FORMAT", "json")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("output", "", "")
	flags.String("log-format", "", "")
	flags.Duration("watch-debounce", 0, "")
	require.NoError(t, flags.Parse([]string{"--output", "/tmp/out", "--log-format", "logfmt", "--watch-debounce", "1s"}))

	s, meta, err := LoadSettings(flags)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Workers)
	assert.Equal(t, "logfmt", s.LogFormat)
	assert.Equal(t, "/tmp/out", s.OutputDir)
	assert.Equal(t, time.Second, s.WatchDebounce)
	assert.Equal(t, "warn", s.LogLevel)

	assert.Equal(t, configx.SourceEnv, meta.Sources["workers"])
	assert.Equal(t, configx.SourceOverride, meta.Sources["log_format"])
	assert.Equal(t, configx.SourceDefault, meta.Sources["log_level"])
}

func TestLoadSettingsRejectsInvalid(t *testing.T) {
	t.Setenv("BOOTFORGE_LOG_LEVEL", "loud")
	_, _, err := LoadSettings(pflag.NewFlagSet("test", pflag.ContinueOnError))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log_level")
}

func TestInitThenValidate(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "bootforge.yaml")

	out, err := execute(t, "init", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+cfg)

	out, err = execute(t, "init", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "already exists")

	out, err = execute(t, "validate", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")
	assert.Contains(t, out, "mybatis")
}

func TestValidateReportsAllProblems(t *testing.T) {
	cfg := writeConfig(t, t.TempDir(), "bad.yaml", "packagePath: com.1bad\ntechStack:\n  persistence: hibernate\n")

	out, err := execute(t, "validate", cfg)
	testingx.AssertError(t, err, errors.CodeInvalidArgument)
	testingx.AssertContainsAll(t, out, "[projectName]", "[packagePath]", "[techStack.persistence]")
}

func TestValidateMissingFile(t *testing.T) {
	_, err := execute(t, "validate", filepath.Join(t.TempDir(), "nope.yaml"))
	testingx.AssertError(t, err, errors.CodeNotFound)
}

func TestPlanShowsTree(t *testing.T) {
	cfg := writeConfig(t, t.TempDir(), "order.yaml", orderConfig)

	out, err := execute(t, "plan", cfg)
	require.NoError(t, err)
	testingx.AssertContainsAll(t, out, "order-service", "OrderItemMapper.java", "OrderItemMapper.xml", "mapper-xml")

	out, err = execute(t, "plan", cfg, "--persistence", "jpa")
	require.NoError(t, err)
	testingx.AssertContainsAll(t, out, "OrderItemRepository.java", "omitted")
	assert.NotContains(t, out, "OrderItemMapper.java")

	out, err = execute(t, "plan", cfg, "--explain")
	require.NoError(t, err)
	testingx.AssertContainsAll(t, out, "fragments of", "apiDocs", "redis")
}

func TestGenerateWritesProject(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir, "order.yaml", orderConfig)
	outDir := filepath.Join(dir, "out")

	out, err := execute(t, "generate", cfg, "-o", outDir)
	require.NoError(t, err)
	assert.Contains(t, out, "Generated order-service")
	assert.Contains(t, out, "swagger-ui.html")

	root := filepath.Join(outDir, "order-service")
	impl, err := os.ReadFile(filepath.Join(root, "src/main/java/com/acme/order/service/impl/OrderItemServiceImpl.java"))
	require.NoError(t, err)
	testingx.AssertContainsAll(t, string(impl), "@Cacheable", "private final OrderItemMapper orderItemMapper;")

	_, err = os.Stat(filepath.Join(root, "src/main/resources/mapper/OrderItemMapper.xml"))
	require.NoError(t, err)

	_, err = execute(t, "generate", cfg, "-o", outDir)
	testingx.AssertError(t, err, errors.CodeAlreadyExists)

	_, err = execute(t, "generate", cfg, "-o", outDir, "--force")
	require.NoError(t, err)
}

func TestGenerateDryRun(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir, "order.yaml", orderConfig)

	out, err := execute(t, "generate", cfg, "-o", dir, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "Dry run")

	_, err = os.Stat(filepath.Join(dir, "order-service"))
	assert.True(t, os.IsNotExist(err))
}

func TestGenerateWithoutPersistenceFails(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir, "none.yaml", "projectName: bare\npackagePath: com.bare\n")

	_, err := execute(t, "generate", cfg, "-o", dir)
	testingx.AssertError(t, err, errors.CodeFailedPrecondition)
	_, statErr := os.Stat(filepath.Join(dir, "bare"))
	assert.True(t, os.IsNotExist(statErr), "no files may be written")
}

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	good := writeConfig(t, dir, "good.yaml", orderConfig)
	other := writeConfig(t, dir, "other.yaml", "projectName: billing\npackagePath: com.acme.billing\ntechStack:\n  persistence: jpa\n")
	bad := writeConfig(t, dir, "bad.yaml", "projectName: broken\n")
	metrics := filepath.Join(dir, "bootforge.prom")
	outDir := filepath.Join(dir, "out")

	out, err := execute(t, "batch", good, bad, other, "-o", outDir, "--workers", "2", "--metrics-file", metrics)
	testingx.AssertError(t, err, errors.CodeFailedPrecondition)
	assert.Contains(t, out, "2 of 3 configuration(s) generated")

	for _, project := range []string{"order-service", "billing"} {
		_, err := os.Stat(filepath.Join(outDir, project))
		assert.NoError(t, err, project)
	}

	prom, err := os.ReadFile(metrics)
	require.NoError(t, err)
	testingx.AssertContainsAll(t, string(prom),
		`bootforge_generation_runs_total{result="ok"} 2`,
		`bootforge_generation_runs_total{result="invalid_config"} 1`,
		`build_info{service="bootforge",version="`+version.Version+`"} 1`,
	)
}

func TestTemplatesAndVersion(t *testing.T) {
	out, err := execute(t, "templates")
	require.NoError(t, err)
	assert.Contains(t, out, "java/Application.java")

	out, err = execute(t, "templates", "show", "java/Application.java")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "package {{basePackage}};"), out)

	out, err = execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "bootforge version")
}
