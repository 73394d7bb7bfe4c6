// Package templates provides the built-in template corpus and the loader that parses it.
//
// Overview:
//   - Responsibility: Read template sources from embedded or user-supplied file systems and parse them into a catalog
//   - Key Types: Loader (layered fs.FS reader), template ids of the built-in corpus
//   - Concurrency Model: Loading is single-threaded; the resulting catalog is read-only
//   - Error Semantics: Any unreadable or malformed template fails the whole load with its id and line
//   - Performance Notes: Templates are parsed once per process; Default memoizes the embedded catalog
//
// Usage:
//
//	catalog, err := templates.Default()
//	loader, err := templates.NewLoader(os.DirFS("my-templates"))
//	catalog, err = loader.LoadCatalog()
package templates

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"go.eggybyte.com/bootforge/cli/internal/template"
)

//go:embed templates
var templateFS embed.FS

//go:embed starter/bootforge.yaml
var starterConfig []byte

const (
	templateDir = "templates"
	templateExt = ".tmpl"
)

// Ids of the built-in corpus.
const (
	Application            = "java/Application.java"
	Entity                 = "java/entity/Entity.java"
	Mapper                 = "java/mapper/Mapper.java"
	Repository             = "java/repository/Repository.java"
	Service                = "java/service/Service.java"
	ServiceImpl            = "java/service/impl/ServiceImpl.java"
	Controller             = "java/controller/Controller.java"
	Result                 = "java/common/Result.java"
	APIResponse            = "java/common/ApiResponse.java"
	PageResult             = "java/common/PageResult.java"
	PageRequestPageNum     = "java/common/PageRequestPageNum.java"
	PageRequestPageIndex   = "java/common/PageRequestPageIndex.java"
	BusinessException      = "java/common/BusinessException.java"
	GlobalExceptionHandler = "java/common/GlobalExceptionHandler.java"
	MapperXML              = "resources/mapper/Mapper.xml"
	ApplicationConfig      = "resources/application.yml"
)

// Loader reads template sources from one or more file systems. A template
// in a later layer replaces the one with the same id in an earlier layer.
//
// Concurrency:
//   - Safe for concurrent use; holds no mutable state
type Loader struct {
	layers   []fs.FS
	compiler *template.Compiler
}

// NewLoader creates a loader over the embedded corpus followed by overlays.
//
// Parameters:
//   - overlays: File systems whose root holds template files (e.g. os.DirFS)
//
// Returns:
//   - *Loader: Template loader instance
//   - error: Guard compiler construction error
func NewLoader(overlays ...fs.FS) (*Loader, error) {
	embedded, err := fs.Sub(templateFS, templateDir)
	if err != nil {
		return nil, fmt.Errorf("open embedded templates: %w", err)
	}
	compiler, err := template.NewCompiler()
	if err != nil {
		return nil, err
	}
	return &Loader{
		layers:   append([]fs.FS{embedded}, overlays...),
		compiler: compiler,
	}, nil
}

// LoadTemplate returns the raw source of a template id from the topmost layer
// that has it.
//
// Parameters:
//   - id: Template id, e.g. "java/Application.java"
//
// Returns:
//   - string: Template source
//   - error: Not found or read error
func (l *Loader) LoadTemplate(id string) (string, error) {
	for i := len(l.layers) - 1; i >= 0; i-- {
		content, err := fs.ReadFile(l.layers[i], id+templateExt)
		if err == nil {
			return string(content), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("failed to load template %s: %w", id, err)
		}
	}
	return "", fmt.Errorf("failed to load template %s: %w", id, fs.ErrNotExist)
}

// ListTemplates lists the ids of all templates across layers.
//
// Returns:
//   - []string: Template ids in ascending order
//   - error: Walk error if any
func (l *Loader) ListTemplates() ([]string, error) {
	seen := map[string]bool{}
	for _, layer := range l.layers {
		err := fs.WalkDir(layer, ".", func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(p, templateExt) {
				seen[strings.TrimSuffix(path.Clean(p), templateExt)] = true
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list templates: %w", err)
		}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// LoadCatalog parses every template into a read-only catalog.
//
// Returns:
//   - *template.MapCatalog: Parsed templates keyed by id
//   - error: First read or parse error, with template id and line
//
// Performance:
//   - Guards are compiled here, once; rendering never parses
func (l *Loader) LoadCatalog() (*template.MapCatalog, error) {
	ids, err := l.ListTemplates()
	if err != nil {
		return nil, err
	}

	parsed := make([]*template.Template, 0, len(ids))
	for _, id := range ids {
		src, err := l.LoadTemplate(id)
		if err != nil {
			return nil, err
		}
		tpl, err := l.compiler.Parse(id, src)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, tpl)
	}
	return template.NewCatalog(parsed...)
}

var defaultCatalog = sync.OnceValues(func() (*template.MapCatalog, error) {
	l, err := NewLoader()
	if err != nil {
		return nil, err
	}
	return l.LoadCatalog()
})

// Default returns the catalog of the embedded corpus, parsed on first use.
func Default() (*template.MapCatalog, error) {
	return defaultCatalog()
}

// StarterConfig returns the sample configuration written by "bootforge init".
func StarterConfig() []byte {
	out := make([]byte, len(starterConfig))
	copy(out, starterConfig)
	return out
}
