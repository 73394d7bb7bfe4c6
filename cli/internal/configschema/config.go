// Package configschema provides loading and validation of generation requests.
//
// Overview:
//   - Responsibility: Decode a raw payload, normalize enum spellings, validate, fill defaults
//   - Key Types: Raw (as written by the user), Configuration (validated), Diagnostics, ValidationError
//   - Concurrency Model: Configuration is immutable after validation; validation is safe for concurrent use
//   - Error Semantics: Every problem becomes a Diagnostic; any error-level one yields ValidationError
//   - Performance Notes: Single-pass decode and validation
//
// Usage:
//
//	cfg, diags := configschema.Load("bootforge.yaml")
//	if diags.HasErrors() {
//	    return diags
//	}
package configschema

import (
	"fmt"
	"os"
	"strings"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"

	"go.eggybyte.com/bootforge/core/utils"
)

// Persistence selects the data-access technology.
type Persistence string

const (
	PersistenceNone    Persistence = ""
	PersistenceJPA     Persistence = "JPA"
	PersistenceMyBatis Persistence = "MYBATIS"
)

// CacheProvider names one cache backend. Providers are independent.
type CacheProvider string

const (
	CacheRedis    CacheProvider = "REDIS"
	CacheCaffeine CacheProvider = "CAFFEINE"
)

// Database selects the JDBC database the datasource points at.
type Database string

const (
	DatabaseMySQL      Database = "MYSQL"
	DatabasePostgreSQL Database = "POSTGRESQL"
	DatabaseH2         Database = "H2"
)

// PagingStyle selects the request shape of the paging helper type.
// An empty value lets the capability resolver pick one from the persistence choice.
type PagingStyle string

const (
	PagingAuto      PagingStyle = ""
	PagingPageNum   PagingStyle = "PAGE_NUM"
	PagingPageIndex PagingStyle = "PAGE_INDEX"
)

const (
	defaultEntityName = "User"
	defaultVersion    = "1.0.0"
	mainClassSuffix   = "Application"
)

// Configuration is a validated generation request.
type Configuration struct {
	ProjectName   string    `yaml:"projectName" json:"projectName"`
	PackagePath   string    `yaml:"packagePath" json:"packagePath"`
	MainClassName string    `yaml:"mainClassName" json:"mainClassName"`
	EntityName    string    `yaml:"entity" json:"entity"`
	Description   string    `yaml:"description" json:"description"`
	Version       string    `yaml:"version" json:"version"`
	TechStack     TechStack `yaml:"techStack" json:"techStack"`
}

// TechStack is the validated technology selection.
type TechStack struct {
	Persistence           Persistence     `yaml:"persistence" json:"persistence"`
	CacheProviders        []CacheProvider `yaml:"cache" json:"cache"` // sorted, no duplicates
	APIDocsEnabled        bool            `yaml:"apiDocs" json:"apiDocs"`
	HealthEndpointEnabled bool            `yaml:"health" json:"health"`
	Database              Database        `yaml:"database" json:"database"`
	Paging                PagingStyle     `yaml:"paging" json:"paging"`
}

// HasCacheProvider reports whether p is selected.
func (t TechStack) HasCacheProvider(p CacheProvider) bool {
	for _, c := range t.CacheProviders {
		if c == p {
			return true
		}
	}
	return false
}

// Raw is a generation request as decoded from YAML or JSON. Unknown keys are
// ignored by the decoder. Enum fields accept any letter case.
type Raw struct {
	ProjectName   string       `yaml:"projectName" json:"projectName"`
	PackagePath   string       `yaml:"packagePath" json:"packagePath"`
	Package       string       `yaml:"package" json:"package"` // alias of packagePath
	MainClassName string       `yaml:"mainClassName" json:"mainClassName"`
	Entity        string       `yaml:"entity" json:"entity"`
	Description   string       `yaml:"description" json:"description"`
	Version       string       `yaml:"version" json:"version"`
	TechStack     RawTechStack `yaml:"techStack" json:"techStack"`
}

// RawTechStack is the undecoded technology selection.
type RawTechStack struct {
	Persistence string   `yaml:"persistence" json:"persistence"`
	Cache       []string `yaml:"cache" json:"cache"`
	APIDocs     bool     `yaml:"apiDocs" json:"apiDocs"`
	Health      bool     `yaml:"health" json:"health"`
	Database    string   `yaml:"database" json:"database"`
	Paging      string   `yaml:"paging" json:"paging"`
}

// Parse decodes a YAML (or JSON) payload. An empty payload yields an empty Raw.
func Parse(data []byte) (*Raw, error) {
	var raw Raw
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}
	return &raw, nil
}

// Load reads, validates and fills defaults for the configuration at path.
// Non-zero fields of each override replace the values read from the file
// before validation.
//
// Parameters:
//   - path: Path to a YAML or JSON configuration file
//   - overrides: Optional partial requests, applied in order
//
// Returns:
//   - *Configuration: nil when any error-level diagnostic was produced
//   - *Diagnostics: every problem found, errors and warnings alike
func Load(path string, overrides ...*Raw) (*Configuration, *Diagnostics) {
	diags := NewDiagnostics()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			diags.AddError("Configuration file not found", path, "Run 'bootforge init' to create bootforge.yaml")
		} else {
			diags.AddError(fmt.Sprintf("Failed to read configuration file: %v", err), path, "Check file permissions")
		}
		return nil, diags
	}

	raw, err := Parse(data)
	if err != nil {
		diags.AddError(err.Error(), path, "Check YAML syntax")
		return nil, diags
	}

	for _, ov := range overrides {
		if ov == nil {
			continue
		}
		if err := mergo.Merge(raw, ov, mergo.WithOverride); err != nil {
			diags.AddError(fmt.Sprintf("Failed to apply overrides: %v", err), "", "")
			return nil, diags
		}
	}

	return Check(raw)
}

// Validate turns a raw request into a Configuration or a *ValidationError.
func Validate(raw *Raw) (*Configuration, error) {
	cfg, diags := Check(raw)
	if diags.HasErrors() {
		return nil, &ValidationError{Diagnostics: diags.Errors()}
	}
	return cfg, nil
}

// Check validates raw and reports all diagnostics. The configuration is nil
// when any error-level diagnostic was recorded.
func Check(raw *Raw) (*Configuration, *Diagnostics) {
	diags := NewDiagnostics()
	if raw == nil {
		raw = &Raw{}
	}

	in := normalize(raw)
	validateNormalized(in, diags)
	if diags.HasErrors() {
		return nil, diags
	}

	cfg := &Configuration{
		ProjectName:   in.ProjectName,
		PackagePath:   in.PackagePath,
		MainClassName: in.MainClassName,
		EntityName:    in.Entity,
		Description:   in.Description,
		Version:       in.Version,
		TechStack: TechStack{
			Persistence:           persistenceOf(in.TechStack.Persistence),
			APIDocsEnabled:        in.TechStack.APIDocs,
			HealthEndpointEnabled: in.TechStack.Health,
			Database:              Database(in.TechStack.Database),
			Paging:                PagingStyle(in.TechStack.Paging),
		},
	}
	for _, c := range utils.SortedUnique(in.TechStack.Cache) {
		cfg.TechStack.CacheProviders = append(cfg.TechStack.CacheProviders, CacheProvider(c))
	}

	applyDefaults(cfg, diags)
	checkEntity(cfg, diags)
	warnStyle(cfg, diags)
	if diags.HasErrors() {
		return nil, diags
	}
	return cfg, diags
}

// normalized is Raw after trimming and enum case folding; validator tags
// live here so error paths use the user's key names.
type normalized struct {
	ProjectName   string          `yaml:"projectName" validate:"required,max=128,projectname"`
	PackagePath   string          `yaml:"packagePath" validate:"required,javapackage"`
	MainClassName string          `yaml:"mainClassName" validate:"omitempty,javaident"`
	Entity        string          `yaml:"entity" validate:"omitempty,javaident"`
	Description   string          `yaml:"description"`
	Version       string          `yaml:"version" validate:"omitempty,max=64"`
	TechStack     normalizedStack `yaml:"techStack"`
}

type normalizedStack struct {
	Persistence string   `yaml:"persistence" validate:"omitempty,oneof=JPA MYBATIS NONE"`
	Cache       []string `yaml:"cache" validate:"dive,oneof=REDIS CAFFEINE"`
	APIDocs     bool     `yaml:"apiDocs"`
	Health      bool     `yaml:"health"`
	Database    string   `yaml:"database" validate:"omitempty,oneof=MYSQL POSTGRESQL H2"`
	Paging      string   `yaml:"paging" validate:"omitempty,oneof=PAGE_NUM PAGE_INDEX"`
}

func normalize(raw *Raw) *normalized {
	pkg := strings.TrimSpace(raw.PackagePath)
	if pkg == "" {
		pkg = strings.TrimSpace(raw.Package)
	}
	n := &normalized{
		ProjectName:   strings.TrimSpace(raw.ProjectName),
		PackagePath:   pkg,
		MainClassName: strings.TrimSpace(raw.MainClassName),
		Entity:        strings.TrimSpace(raw.Entity),
		Description:   strings.TrimSpace(raw.Description),
		Version:       strings.TrimSpace(raw.Version),
		TechStack: normalizedStack{
			Persistence: enumKey(raw.TechStack.Persistence),
			APIDocs:     raw.TechStack.APIDocs,
			Health:      raw.TechStack.Health,
			Database:    enumKey(raw.TechStack.Database),
			Paging:      enumKey(raw.TechStack.Paging),
		},
	}
	for _, c := range raw.TechStack.Cache {
		n.TechStack.Cache = append(n.TechStack.Cache, enumKey(c))
	}
	return n
}

func persistenceOf(key string) Persistence {
	if key == "NONE" {
		return PersistenceNone
	}
	return Persistence(key)
}

func enumKey(s string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
}

// applyDefaults fills in values the user left out.
func applyDefaults(cfg *Configuration, diags *Diagnostics) {
	if cfg.MainClassName == "" {
		cfg.MainClassName = DeriveMainClassName(cfg.ProjectName)
		if cfg.MainClassName == mainClassSuffix {
			diags.AddWarning(
				fmt.Sprintf("projectName %q has no identifier characters; main class defaults to %s", cfg.ProjectName, mainClassSuffix),
				"mainClassName",
				"Set mainClassName explicitly",
			)
		}
	}

	if cfg.EntityName == "" {
		cfg.EntityName = defaultEntityName
	} else if pascal := utils.PascalCase(cfg.EntityName); pascal != cfg.EntityName {
		diags.AddInfo(fmt.Sprintf("entity %q normalized to %q", cfg.EntityName, pascal), "entity", "")
		cfg.EntityName = pascal
	}

	if cfg.Version == "" {
		cfg.Version = defaultVersion
	}
	if cfg.Description == "" {
		cfg.Description = cfg.ProjectName + " service"
	}

	if cfg.TechStack.Persistence != PersistenceNone && cfg.TechStack.Database == "" {
		cfg.TechStack.Database = DatabaseMySQL
	}
	if cfg.TechStack.Persistence == PersistenceNone && cfg.TechStack.Database != "" {
		diags.AddWarning("database is ignored without persistence", "techStack.database", "Set techStack.persistence to JPA or MYBATIS")
	}
}

// checkEntity rejects entity names that normalize to something unusable as
// a type or as the variable derived from it.
func checkEntity(cfg *Configuration, diags *Diagnostics) {
	if problem := TypeNameProblem(cfg.EntityName, cfg.TechStack.Persistence); problem != "" {
		diags.AddError("entity is not a usable type name: "+problem, "entity", "Use a domain noun, e.g. OrderItem")
		return
	}
	if variable := utils.CamelCase(cfg.EntityName); reservedWords[variable] {
		diags.AddError(fmt.Sprintf("entity %q yields the reserved variable name %q", cfg.EntityName, variable), "entity", "Use a domain noun, e.g. OrderItem")
	}
}

// DeriveMainClassName builds the bootstrap class name from a project name:
// PascalCase with non-identifier characters and leading digits dropped,
// suffixed with "Application".
func DeriveMainClassName(projectName string) string {
	base := utils.TrimLeadingDigits(utils.PascalCase(projectName))
	if strings.HasSuffix(base, mainClassSuffix) {
		return base
	}
	return base + mainClassSuffix
}

func warnStyle(cfg *Configuration, diags *Diagnostics) {
	if cfg.PackagePath != strings.ToLower(cfg.PackagePath) {
		diags.AddWarning("package path contains upper-case letters", "packagePath", "Java packages are conventionally lower-case")
	}
}
