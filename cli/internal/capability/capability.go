// Package capability derives the capability set that drives every generation decision.
//
// Overview:
//   - Responsibility: Turn a validated Configuration into an immutable set of capability flags
//   - Key Types: Set (comparable, read-only), Persistence/Database/Paging tags, Declaration vocabulary
//   - Concurrency Model: Set is immutable; share one instance freely across goroutines
//   - Error Semantics: Resolve is total over validated configurations and never fails
//   - Performance Notes: Computed once per run; Activation allocates a small map per call
//
// Usage:
//
//	caps := capability.Resolve(cfg)
//	if caps.IsMyBatis() { ... }
//	out, _, _ := program.Eval(caps.Activation())
package capability

import (
	"fmt"
	"strings"

	"go.eggybyte.com/bootforge/cli/internal/configschema"
)

// Persistence is the data-access capability tag.
type Persistence string

const (
	PersistenceNone    Persistence = "NONE"
	PersistenceJPA     Persistence = "JPA"
	PersistenceMyBatis Persistence = "MYBATIS"
)

// Database is the datasource capability tag. DatabaseNone without persistence.
type Database string

const (
	DatabaseNone       Database = "NONE"
	DatabaseMySQL      Database = "MYSQL"
	DatabasePostgreSQL Database = "POSTGRESQL"
	DatabaseH2         Database = "H2"
)

// Paging selects the request shape of the paging helper.
type Paging string

const (
	// PagingPageNum is the 1-based pageNum/pageSize request.
	PagingPageNum Paging = "PAGE_NUM"
	// PagingPageIndex is the 0-based page/size request.
	PagingPageIndex Paging = "PAGE_INDEX"
)

// Set is the resolved capability set of one generation run. The zero value
// describes a project with nothing enabled. Sets compare with ==.
type Set struct {
	persistence Persistence
	redis       bool
	caffeine    bool
	apiDocs     bool
	health      bool
	database    Database
	paging      Paging
}

// Resolve derives the capability set from a validated configuration.
// Equal configurations always resolve to == sets.
func Resolve(cfg *configschema.Configuration) *Set {
	ts := cfg.TechStack

	s := &Set{
		persistence: PersistenceNone,
		redis:       ts.HasCacheProvider(configschema.CacheRedis),
		caffeine:    ts.HasCacheProvider(configschema.CacheCaffeine),
		apiDocs:     ts.APIDocsEnabled,
		health:      ts.HealthEndpointEnabled,
		database:    DatabaseNone,
	}

	switch ts.Persistence {
	case configschema.PersistenceJPA:
		s.persistence = PersistenceJPA
	case configschema.PersistenceMyBatis:
		s.persistence = PersistenceMyBatis
	}

	if s.persistence != PersistenceNone {
		s.database = DatabaseMySQL
		if ts.Database != "" {
			s.database = Database(ts.Database)
		}
	}

	switch ts.Paging {
	case configschema.PagingPageNum:
		s.paging = PagingPageNum
	case configschema.PagingPageIndex:
		s.paging = PagingPageIndex
	default:
		s.paging = defaultPaging(s.persistence)
	}

	return s
}

// defaultPaging mirrors the persistence layer's native paging convention:
// Spring Data pages are 0-based, MyBatis page helpers are 1-based.
func defaultPaging(p Persistence) Paging {
	if p == PersistenceJPA {
		return PagingPageIndex
	}
	return PagingPageNum
}

// Persistence returns the persistence tag.
func (s *Set) Persistence() Persistence { return s.persistence }

// HasPersistence reports whether any data-access technology is selected.
func (s *Set) HasPersistence() bool { return s.persistence != PersistenceNone }

// IsJPA reports whether persistence is JPA.
func (s *Set) IsJPA() bool { return s.persistence == PersistenceJPA }

// IsMyBatis reports whether persistence is MyBatis.
func (s *Set) IsMyBatis() bool { return s.persistence == PersistenceMyBatis }

// HasCache reports whether at least one cache provider is selected.
func (s *Set) HasCache() bool { return s.redis || s.caffeine }

// HasRedisCache reports whether Redis caching is selected.
func (s *Set) HasRedisCache() bool { return s.redis }

// HasCaffeineCache reports whether Caffeine caching is selected.
func (s *Set) HasCaffeineCache() bool { return s.caffeine }

// APIDocs reports whether API documentation annotations are enabled.
func (s *Set) APIDocs() bool { return s.apiDocs }

// HealthEndpoint reports whether the operational health endpoint is enabled.
func (s *Set) HealthEndpoint() bool { return s.health }

// Database returns the datasource tag.
func (s *Set) Database() Database { return s.database }

// Paging returns the paging request style.
func (s *Set) Paging() Paging { return s.paging }

// String lists the active capabilities in declaration order.
func (s *Set) String() string {
	act := s.Activation()
	var parts []string
	for _, d := range Declarations() {
		switch v := act[d.Name].(type) {
		case bool:
			if v {
				parts = append(parts, d.Name)
			}
		case string:
			parts = append(parts, fmt.Sprintf("%s=%s", d.Name, v))
		}
	}
	return "{" + strings.Join(parts, " ") + "}"
}
