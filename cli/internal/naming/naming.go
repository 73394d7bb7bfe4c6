// Package naming derives every identifier a generated project shares across files.
//
// Overview:
//   - Responsibility: Compute packages, class names, variable names and storage names once per run
//   - Key Types: Identifiers (immutable), Vars (template variable map)
//   - Concurrency Model: Identifiers is read-only after Derive; safe to share
//   - Error Semantics: Derive is total over validated configurations
//   - Performance Notes: One derivation per run; no per-file recomputation
//
// Usage:
//
//	ids := naming.Derive(cfg, caps)
//	path := ids.JavaFile(ids.EntityPackage, ids.Entity)
//	vars := ids.Vars()
package naming

import (
	"path"
	"strings"

	"github.com/gosimple/slug"

	"go.eggybyte.com/bootforge/cli/internal/capability"
	"go.eggybyte.com/bootforge/cli/internal/configschema"
	"go.eggybyte.com/bootforge/core/utils"
)

// Source layout roots, relative to the project root.
const (
	SourceRoot   = "src/main/java"
	ResourceRoot = "src/main/resources"
)

// Layer package suffixes appended to the base package.
const (
	layerEntity      = "entity"
	layerMapper      = "mapper"
	layerRepository  = "repository"
	layerService     = "service"
	layerServiceImpl = "service.impl"
	layerController  = "controller"
	layerCommon      = "common"
)

// Identifiers is the single set of names every generated file draws from.
type Identifiers struct {
	ProjectName string
	ArtifactID  string // URL-safe project slug
	Description string
	Version     string

	MainClass   string
	BasePackage string

	EntityPackage      string
	DataAccessPackage  string // empty without persistence
	ServicePackage     string
	ServiceImplPackage string
	ControllerPackage  string
	CommonPackage      string

	Entity        string // OrderItem
	EntityVar     string // orderItem
	EntityPlural  string // orderItems
	Service       string // OrderItemService
	ServiceImpl   string // OrderItemServiceImpl
	Controller    string // OrderItemController
	DataAccess    string // OrderItemMapper or OrderItemRepository; empty without persistence
	DataAccessVar string // orderItemMapper
	TableName     string // t_order_item
	CacheName     string // orderItems
	APIBasePath   string // /api/order-items
	DatabaseName  string // order_service
}

// Derive computes the identifier set for one run.
func Derive(cfg *configschema.Configuration, caps *capability.Set) *Identifiers {
	base := cfg.PackagePath
	entity := cfg.EntityName
	plural := Plural(utils.CamelCase(entity))

	ids := &Identifiers{
		ProjectName: cfg.ProjectName,
		ArtifactID:  slug.Make(cfg.ProjectName),
		Description: cfg.Description,
		Version:     cfg.Version,

		MainClass:   cfg.MainClassName,
		BasePackage: base,

		EntityPackage:      base + "." + layerEntity,
		ServicePackage:     base + "." + layerService,
		ServiceImplPackage: base + "." + layerServiceImpl,
		ControllerPackage:  base + "." + layerController,
		CommonPackage:      base + "." + layerCommon,

		Entity:       entity,
		EntityVar:    utils.CamelCase(entity),
		EntityPlural: plural,
		Service:      entity + "Service",
		ServiceImpl:  entity + "ServiceImpl",
		Controller:   entity + "Controller",
		TableName:    "t_" + utils.SnakeCase(entity),
		CacheName:    plural,
		APIBasePath:  "/api/" + slug.Make(strings.Join(utils.SplitWords(plural), "-")),
		DatabaseName: strings.ReplaceAll(slug.Make(cfg.ProjectName), "-", "_"),
	}

	switch caps.Persistence() {
	case capability.PersistenceMyBatis:
		ids.DataAccessPackage = base + "." + layerMapper
		ids.DataAccess = entity + "Mapper"
	case capability.PersistenceJPA:
		ids.DataAccessPackage = base + "." + layerRepository
		ids.DataAccess = entity + "Repository"
	}
	if ids.DataAccess != "" {
		ids.DataAccessVar = utils.CamelCase(ids.DataAccess)
	}

	return ids
}

// PackageDir converts a dotted package to a slash-separated directory.
func PackageDir(pkg string) string {
	return strings.ReplaceAll(pkg, ".", "/")
}

// JavaFile returns the source path of class in pkg.
func (ids *Identifiers) JavaFile(pkg, class string) string {
	return path.Join(SourceRoot, PackageDir(pkg), class+".java")
}

// ResourceFile returns the path of a resource file.
func (ids *Identifiers) ResourceFile(elem ...string) string {
	return path.Join(append([]string{ResourceRoot}, elem...)...)
}

// Vars returns the template variable map. Keys are stable; values are never
// empty except for data-access names when persistence is not selected.
func (ids *Identifiers) Vars() map[string]string {
	return map[string]string{
		"projectName":        ids.ProjectName,
		"artifactId":         ids.ArtifactID,
		"description":        ids.Description,
		"version":            ids.Version,
		"mainClass":          ids.MainClass,
		"basePackage":        ids.BasePackage,
		"entityPackage":      ids.EntityPackage,
		"dataAccessPackage":  ids.DataAccessPackage,
		"servicePackage":     ids.ServicePackage,
		"serviceImplPackage": ids.ServiceImplPackage,
		"controllerPackage":  ids.ControllerPackage,
		"commonPackage":      ids.CommonPackage,
		"entity":             ids.Entity,
		"entityVar":          ids.EntityVar,
		"entityPlural":       ids.EntityPlural,
		"service":            ids.Service,
		"serviceVar":         utils.CamelCase(ids.Service),
		"serviceImpl":        ids.ServiceImpl,
		"controller":         ids.Controller,
		"dataAccess":         ids.DataAccess,
		"dataAccessVar":      ids.DataAccessVar,
		"tableName":          ids.TableName,
		"cacheName":          ids.CacheName,
		"apiBasePath":        ids.APIBasePath,
		"databaseName":       ids.DatabaseName,
	}
}

// Plural applies English plural rules good enough for entity names.
func Plural(word string) string {
	lower := strings.ToLower(word)
	switch {
	case word == "":
		return ""
	case strings.HasSuffix(lower, "s"), strings.HasSuffix(lower, "x"), strings.HasSuffix(lower, "z"),
		strings.HasSuffix(lower, "ch"), strings.HasSuffix(lower, "sh"):
		return word + "es"
	case strings.HasSuffix(lower, "y") && len(lower) > 1 && !strings.ContainsRune("aeiou", rune(lower[len(lower)-2])):
		return word[:len(word)-1] + "ies"
	}
	return word + "s"
}
