// Package projectfs writes generated project trees to a file system.
//
// Overview:
//   - Responsibility: Place rendered files under a root, refuse silent overwrites, undo partial writes
//   - Key Types: ProjectFS, File, WriteReport
//   - Concurrency Model: Sequential file operations; one ProjectFS per output root
//   - Error Semantics: core/errors codes (INVALID_ARGUMENT for unsafe paths, ALREADY_EXISTS for
//     conflicts, UNAVAILABLE for file system failures)
//   - Performance Notes: One stat per target before writing; rollback only on failure
//
// Usage:
//
//	pfs := projectfs.NewProjectFS(afero.NewOsFs(), "out/shop-service")
//	report, err := pfs.WriteAll(files, false)
package projectfs

import (
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"go.eggybyte.com/bootforge/cli/internal/ui"
	"go.eggybyte.com/bootforge/core/errors"
)

const (
	dirMode  os.FileMode = 0o755
	fileMode os.FileMode = 0o644

	opWrite = "projectfs.WriteAll"
)

// File is one file to place under the root. Path is slash-separated and
// relative.
type File struct {
	Path    string
	Content string
}

// WriteReport lists what WriteAll changed, in write order.
type WriteReport struct {
	Created     []string
	Overwritten []string
}

// Total returns the number of files written.
func (r *WriteReport) Total() int { return len(r.Created) + len(r.Overwritten) }

// ProjectFS provides file system operations for one output root.
//
// Parameters:
//   - fs: Backing file system (afero.NewOsFs in the CLI, afero.NewMemMapFs in tests)
//   - rootDir: Root directory for operations
//
// Concurrency:
//   - Not safe for concurrent writes to the same root
type ProjectFS struct {
	fs      afero.Fs
	rootDir string
	verbose bool
}

// NewProjectFS creates a project file system rooted at rootDir.
func NewProjectFS(fs afero.Fs, rootDir string) *ProjectFS {
	return &ProjectFS{fs: fs, rootDir: rootDir}
}

// SetVerbose enables or disables per-file output.
func (p *ProjectFS) SetVerbose(enabled bool) {
	p.verbose = enabled
}

// GetRootDir returns the root directory.
func (p *ProjectFS) GetRootDir() string {
	return p.rootDir
}

// FileExists checks if a file exists under the root.
func (p *ProjectFS) FileExists(rel string) (bool, error) {
	return afero.Exists(p.fs, p.full(rel))
}

// ReadFile reads a file under the root.
func (p *ProjectFS) ReadFile(rel string) (string, error) {
	data, err := afero.ReadFile(p.fs, p.full(rel))
	if err != nil {
		return "", errors.Wrapf(errors.CodeUnavailable, "projectfs.ReadFile", err, "read %s", rel)
	}
	return string(data), nil
}

// WriteFileIfNotExists writes a file only if it does not exist.
//
// Parameters:
//   - rel: File path relative to root
//   - content: File content
//
// Returns:
//   - bool: True if the file was written
//   - error: Unsafe path or file system error
func (p *ProjectFS) WriteFileIfNotExists(rel, content string) (bool, error) {
	if err := checkPath(rel); err != nil {
		return false, err
	}
	exists, err := p.FileExists(rel)
	if err != nil {
		return false, errors.Wrap(errors.CodeUnavailable, "projectfs.WriteFileIfNotExists", err)
	}
	if exists {
		if p.verbose {
			ui.Debug("File already exists, skipping: %s", rel)
		}
		return false, nil
	}
	if _, err := p.WriteAll([]File{{Path: rel, Content: content}}, false); err != nil {
		return false, err
	}
	return true, nil
}

// Conflicts returns the paths of files that already exist under the root.
func (p *ProjectFS) Conflicts(files []File) ([]string, error) {
	var out []string
	for _, f := range files {
		exists, err := p.FileExists(f.Path)
		if err != nil {
			return nil, errors.Wrap(errors.CodeUnavailable, opWrite, err)
		}
		if exists {
			out = append(out, f.Path)
		}
	}
	return out, nil
}

// WriteAll writes every file or none of them.
//
// Parameters:
//   - files: Files to write; paths must be relative and stay inside the root
//   - force: Overwrite existing files instead of refusing
//
// Returns:
//   - *WriteReport: Created and overwritten paths
//   - error: INVALID_ARGUMENT for unsafe paths, ALREADY_EXISTS listing conflicts when
//     force is false, UNAVAILABLE when a write fails after the rollback ran
//
// Performance:
//   - A failed write restores overwritten files and removes created files and directories
func (p *ProjectFS) WriteAll(files []File, force bool) (*WriteReport, error) {
	for _, f := range files {
		if err := checkPath(f.Path); err != nil {
			return nil, err
		}
	}

	conflicts, err := p.Conflicts(files)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 && !force {
		return nil, errors.Build(errors.CodeAlreadyExists).
			WithOp(opWrite).
			WithMsgf("%d file(s) already exist under %s; use --force to overwrite", len(conflicts), p.rootDir).
			WithDetails("paths", strings.Join(conflicts, ",")).
			Err()
	}

	tx := &writeTx{p: p, backups: make(map[string][]byte)}
	report := &WriteReport{}
	for _, f := range files {
		overwritten, err := tx.write(f)
		if err != nil {
			tx.rollback()
			return nil, errors.Wrapf(errors.CodeUnavailable, opWrite, err, "write %s", f.Path)
		}
		if overwritten {
			report.Overwritten = append(report.Overwritten, f.Path)
		} else {
			report.Created = append(report.Created, f.Path)
		}
		if p.verbose {
			ui.Debug("Written file: %s", f.Path)
		}
	}
	return report, nil
}

func (p *ProjectFS) full(rel string) string {
	return filepath.Join(p.rootDir, filepath.FromSlash(rel))
}

func checkPath(rel string) error {
	clean := path.Clean(rel)
	if rel == "" || path.IsAbs(rel) || clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return errors.Build(errors.CodeInvalidArgument).WithOp(opWrite).WithMsgf("unsafe target path %q", rel).Err()
	}
	return nil
}

// writeTx remembers everything a WriteAll changed so it can be undone.
type writeTx struct {
	p       *ProjectFS
	created []string          // files that did not exist
	backups map[string][]byte // previous content of overwritten files
	dirs    []string          // directories created, parents first
}

func (tx *writeTx) write(f File) (bool, error) {
	target := tx.p.full(f.Path)
	if err := tx.mkdirs(filepath.Dir(target)); err != nil {
		return false, err
	}

	overwritten := false
	if old, err := afero.ReadFile(tx.p.fs, target); err == nil {
		tx.backups[target] = old
		overwritten = true
	}
	if err := afero.WriteFile(tx.p.fs, target, []byte(f.Content), fileMode); err != nil {
		if !overwritten {
			// A partial file may exist.
			tx.created = append(tx.created, target)
		}
		return false, err
	}
	if !overwritten {
		tx.created = append(tx.created, target)
	}
	return overwritten, nil
}

func (tx *writeTx) mkdirs(dir string) error {
	var missing []string
	for d := dir; ; d = filepath.Dir(d) {
		exists, err := afero.DirExists(tx.p.fs, d)
		if err != nil {
			return err
		}
		if exists {
			break
		}
		if d == "." || filepath.Dir(d) == d {
			break
		}
		missing = append(missing, d)
	}
	if len(missing) == 0 {
		return nil
	}
	if err := tx.p.fs.MkdirAll(dir, dirMode); err != nil {
		return err
	}
	for i := len(missing) - 1; i >= 0; i-- {
		tx.dirs = append(tx.dirs, missing[i])
	}
	return nil
}

func (tx *writeTx) rollback() {
	for _, f := range tx.created {
		if err := tx.p.fs.Remove(f); err != nil && !os.IsNotExist(err) {
			ui.Warning("Rollback could not remove %s: %v", f, err)
		}
	}

	restored := make([]string, 0, len(tx.backups))
	for f := range tx.backups {
		restored = append(restored, f)
	}
	sort.Strings(restored)
	for _, f := range restored {
		if err := afero.WriteFile(tx.p.fs, f, tx.backups[f], fileMode); err != nil {
			ui.Warning("Rollback could not restore %s: %v", f, err)
		}
	}

	for i := len(tx.dirs) - 1; i >= 0; i-- {
		if err := tx.p.fs.Remove(tx.dirs[i]); err != nil && !os.IsNotExist(err) {
			ui.Warning("Rollback could not remove directory %s: %v", tx.dirs[i], err)
		}
	}
	if tx.p.verbose {
		ui.Debug("Rolled back %d file(s)", len(tx.created)+len(tx.backups))
	}
}
