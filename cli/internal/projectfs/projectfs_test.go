package projectfs

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.eggybyte.com/bootforge/cli/internal/ui"
	"go.eggybyte.com/bootforge/core/errors"
	"go.eggybyte.com/bootforge/testingx"
)

const root = "/work/shop"

var sample = []File{
	{Path: "pom.xml", Content: "<project/>\n"},
	{Path: "src/main/java/com/acme/ShopApplication.java", Content: "package com.acme;\n"},
	{Path: "src/main/resources/application.yml", Content: "server:\n  port: 8080\n"},
}

// failingFs fails every write to files whose name ends with suffix.
type failingFs struct {
	afero.Fs
	suffix string
}

func (f failingFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if flag&(os.O_WRONLY|os.O_RDWR) != 0 && strings.HasSuffix(name, f.suffix) {
		return nil, os.ErrPermission
	}
	return f.Fs.OpenFile(name, flag, perm)
}

func TestWriteAll(t *testing.T) {
	fs := afero.NewMemMapFs()
	pfs := NewProjectFS(fs, root)

	report, err := pfs.WriteAll(sample, false)
	require.NoError(t, err)
	assert.Equal(t, []string{sample[0].Path, sample[1].Path, sample[2].Path}, report.Created)
	assert.Empty(t, report.Overwritten)
	assert.Equal(t, 3, report.Total())

	for _, f := range sample {
		got, err := pfs.ReadFile(f.Path)
		require.NoError(t, err)
		assert.Equal(t, f.Content, got)
	}
}

func TestWriteAllRefusesOverwrite(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, filepath.Join(root, "pom.xml"), []byte("mine"), 0o644))
	pfs := NewProjectFS(fs, root)

	_, err := pfs.WriteAll(sample, false)
	testingx.AssertError(t, err, errors.CodeAlreadyExists)

	var e *errors.E
	require.True(t, errors.As(err, &e))
	assert.Equal(t, []any{"paths", "pom.xml"}, e.Details)

	exists, err := pfs.FileExists(sample[1].Path)
	require.NoError(t, err)
	assert.False(t, exists, "nothing may be written when a conflict is refused")

	got, err := pfs.ReadFile("pom.xml")
	require.NoError(t, err)
	assert.Equal(t, "mine", got)
}

func TestWriteAllForce(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, filepath.Join(root, "pom.xml"), []byte("mine"), 0o644))
	pfs := NewProjectFS(fs, root)

	report, err := pfs.WriteAll(sample, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"pom.xml"}, report.Overwritten)
	assert.Len(t, report.Created, 2)

	got, err := pfs.ReadFile("pom.xml")
	require.NoError(t, err)
	assert.Equal(t, sample[0].Content, got)
}

func TestWriteAllRollsBack(t *testing.T) {
	mem := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(mem, filepath.Join(root, "pom.xml"), []byte("mine"), 0o644))
	pfs := NewProjectFS(failingFs{Fs: mem, suffix: "application.yml"}, root)

	_, err := pfs.WriteAll(sample, true)
	testingx.AssertError(t, err, errors.CodeUnavailable)
	assert.ErrorIs(t, err, os.ErrPermission)

	got, err := afero.ReadFile(mem, filepath.Join(root, "pom.xml"))
	require.NoError(t, err)
	assert.Equal(t, "mine", string(got), "overwritten file must be restored")

	for _, p := range []string{
		"src/main/java/com/acme/ShopApplication.java",
		"src/main/java",
		"src/main/resources",
		"src",
	} {
		exists, err := afero.Exists(mem, filepath.Join(root, p))
		require.NoError(t, err)
		assert.False(t, exists, "%s should have been removed", p)
	}

	exists, err := afero.DirExists(mem, root)
	require.NoError(t, err)
	assert.True(t, exists, "pre-existing root must survive rollback")
}

func TestWriteAllRejectsUnsafePaths(t *testing.T) {
	pfs := NewProjectFS(afero.NewMemMapFs(), root)
	for _, p := range []string{"", ".", "../escape.txt", "/etc/passwd", "a/../../b"} {
		t.Run(p, func(t *testing.T) {
			_, err := pfs.WriteAll([]File{{Path: p, Content: "x"}}, true)
			testingx.AssertError(t, err, errors.CodeInvalidArgument)
		})
	}
}

func TestWriteFileIfNotExists(t *testing.T) {
	pfs := NewProjectFS(afero.NewMemMapFs(), root)

	written, err := pfs.WriteFileIfNotExists("bootforge.yaml", "first")
	require.NoError(t, err)
	assert.True(t, written)

	written, err = pfs.WriteFileIfNotExists("bootforge.yaml", "second")
	require.NoError(t, err)
	assert.False(t, written)

	got, err := pfs.ReadFile("bootforge.yaml")
	require.NoError(t, err)
	assert.Equal(t, "first", got)
	assert.Equal(t, root, pfs.GetRootDir())
}

func TestVerboseReportsEachFile(t *testing.T) {
	var out bytes.Buffer
	ui.SetColor(false)
	ui.SetOutput(&out, &out)
	ui.SetVerbose(true)
	t.Cleanup(func() {
		ui.SetVerbose(false)
		ui.SetOutput(os.Stdout, os.Stderr)
	})

	quiet := NewProjectFS(afero.NewMemMapFs(), root)
	_, err := quiet.WriteAll(sample[:1], false)
	require.NoError(t, err)
	assert.Empty(t, out.String())

	loud := NewProjectFS(afero.NewMemMapFs(), root)
	loud.SetVerbose(true)
	_, err = loud.WriteAll(sample, false)
	require.NoError(t, err)
	for _, f := range sample {
		assert.Contains(t, out.String(), "Written file: "+f.Path)
	}

	created, err := loud.WriteFileIfNotExists("pom.xml", "<other/>")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Contains(t, out.String(), "File already exists, skipping: pom.xml")
}
