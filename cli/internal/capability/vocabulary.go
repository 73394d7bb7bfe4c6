package capability

// Kind is the value type of a declared capability.
type Kind int

const (
	KindBool Kind = iota
	KindString
)

// Declaration names one capability that template guards may reference.
type Declaration struct {
	Name string
	Kind Kind
	Doc  string
}

// Capability names usable in guard expressions.
const (
	NamePersistence = "persistence"
	NameJPA         = "jpa"
	NameMyBatis     = "mybatis"
	NameCache       = "cache"
	NameRedis       = "redis"
	NameCaffeine    = "caffeine"
	NameAPIDocs     = "apiDocs"
	NameHealth      = "health"
	NameDatabase    = "database"
	NamePaging      = "paging"
)

var declarations = []Declaration{
	{NamePersistence, KindString, "persistence tag: JPA, MYBATIS or NONE"},
	{NameJPA, KindBool, "persistence is JPA"},
	{NameMyBatis, KindBool, "persistence is MYBATIS"},
	{NameCache, KindBool, "at least one cache provider is selected"},
	{NameRedis, KindBool, "Redis cache provider is selected"},
	{NameCaffeine, KindBool, "Caffeine cache provider is selected"},
	{NameAPIDocs, KindBool, "API documentation annotations are enabled"},
	{NameHealth, KindBool, "health endpoint is enabled"},
	{NameDatabase, KindString, "datasource tag: MYSQL, POSTGRESQL, H2 or NONE"},
	{NamePaging, KindString, "paging request style: PAGE_NUM or PAGE_INDEX"},
}

// Declarations returns the capability vocabulary in a stable order.
func Declarations() []Declaration {
	out := make([]Declaration, len(declarations))
	copy(out, declarations)
	return out
}

// Activation returns the capability values keyed by declared name. Every
// declared name is present. The map is freshly allocated per call.
func (s *Set) Activation() map[string]any {
	return map[string]any{
		NamePersistence: string(s.persistence),
		NameJPA:         s.IsJPA(),
		NameMyBatis:     s.IsMyBatis(),
		NameCache:       s.HasCache(),
		NameRedis:       s.redis,
		NameCaffeine:    s.caffeine,
		NameAPIDocs:     s.apiDocs,
		NameHealth:      s.health,
		NameDatabase:    string(s.database),
		NamePaging:      string(s.paging),
	}
}
