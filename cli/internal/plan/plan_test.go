package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.eggybyte.com/bootforge/cli/internal/capability"
	"go.eggybyte.com/bootforge/cli/internal/configschema"
	"go.eggybyte.com/bootforge/cli/internal/naming"
	"go.eggybyte.com/bootforge/cli/internal/templates"
)

func resolve(t *testing.T, stack configschema.RawTechStack) (*capability.Set, *naming.Identifiers) {
	t.Helper()
	cfg, err := configschema.Validate(&configschema.Raw{
		ProjectName: "order-service",
		PackagePath: "com.acme.order",
		Entity:      "OrderItem",
		TechStack:   stack,
	})
	require.NoError(t, err)
	caps := capability.Resolve(cfg)
	return caps, naming.Derive(cfg, caps)
}

func entryFor(p *Plan, slot SlotID) (Entry, bool) {
	for _, e := range p.Entries {
		if e.Slot == slot {
			return e, true
		}
	}
	return Entry{}, false
}

func TestBuildDataAccessFiller(t *testing.T) {
	tests := []struct {
		name        string
		persistence string
		filler      string
		template    string
		path        string
	}{
		{"jpa", "JPA", "repository", templates.Repository, "src/main/java/com/acme/order/repository/OrderItemRepository.java"},
		{"mybatis", "MYBATIS", "mapper", templates.Mapper, "src/main/java/com/acme/order/mapper/OrderItemMapper.java"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caps, ids := resolve(t, configschema.RawTechStack{Persistence: tt.persistence})
			p, err := Build(DefaultLayout(), caps, ids)
			require.NoError(t, err)

			var dataAccess []Entry
			for _, e := range p.Entries {
				if e.Slot == SlotDataAccess {
					dataAccess = append(dataAccess, e)
				}
			}
			require.Len(t, dataAccess, 1)
			assert.Equal(t, tt.filler, dataAccess[0].Filler)
			assert.Equal(t, tt.template, dataAccess[0].TemplateID)
			assert.Equal(t, tt.path, dataAccess[0].TargetPath)
		})
	}
}

func TestBuildOrderIsStable(t *testing.T) {
	caps, ids := resolve(t, configschema.RawTechStack{Persistence: "MYBATIS"})
	p, err := Build(DefaultLayout(), caps, ids)
	require.NoError(t, err)

	var slots []SlotID
	for _, e := range p.Entries {
		slots = append(slots, e.Slot)
	}
	assert.Equal(t, []SlotID{
		SlotEntity, SlotDataAccess, SlotService, SlotServiceImpl, SlotController,
		SlotResult, SlotAPIResponse, SlotPageResult, SlotPageRequest,
		SlotBusinessException, SlotExceptionHandler, SlotBootstrap,
		SlotMapperXML, SlotApplicationConfig,
	}, slots)

	again, err := Build(DefaultLayout(), caps, ids)
	require.NoError(t, err)
	assert.Equal(t, p, again)
}

func TestBuildMapperXMLOnlyForMyBatis(t *testing.T) {
	caps, ids := resolve(t, configschema.RawTechStack{Persistence: "MYBATIS"})
	p, err := Build(DefaultLayout(), caps, ids)
	require.NoError(t, err)
	e, ok := entryFor(p, SlotMapperXML)
	require.True(t, ok)
	assert.Equal(t, "src/main/resources/mapper/OrderItemMapper.xml", e.TargetPath)

	caps, ids = resolve(t, configschema.RawTechStack{Persistence: "JPA"})
	p, err = Build(DefaultLayout(), caps, ids)
	require.NoError(t, err)
	_, ok = entryFor(p, SlotMapperXML)
	assert.False(t, ok)
	assert.Equal(t, []Omission{{Slot: SlotMapperXML, Reason: "no filler matches"}}, p.Omitted)
}

func TestBuildPageRequestVariant(t *testing.T) {
	tests := []struct {
		stack    configschema.RawTechStack
		template string
	}{
		{configschema.RawTechStack{Persistence: "JPA"}, templates.PageRequestPageIndex},
		{configschema.RawTechStack{Persistence: "MYBATIS"}, templates.PageRequestPageNum},
		{configschema.RawTechStack{Persistence: "JPA", Paging: "PAGE_NUM"}, templates.PageRequestPageNum},
	}

	for _, tt := range tests {
		caps, ids := resolve(t, tt.stack)
		p, err := Build(DefaultLayout(), caps, ids)
		require.NoError(t, err)
		e, ok := entryFor(p, SlotPageRequest)
		require.True(t, ok)
		assert.Equal(t, tt.template, e.TemplateID)
		assert.Equal(t, "src/main/java/com/acme/order/common/PageRequest.java", e.TargetPath)
	}
}

func TestBuildMissingPersistenceFails(t *testing.T) {
	caps, ids := resolve(t, configschema.RawTechStack{Cache: []string{"REDIS"}, APIDocs: true})
	p, err := Build(DefaultLayout(), caps, ids)
	assert.Nil(t, p)

	var perr *PlanError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, SlotDataAccess, perr.Slot)
	assert.Contains(t, err.Error(), `"data-access"`)
}

func TestBuildOptionalSlotCascades(t *testing.T) {
	layout, err := NewLayout(
		Slot{ID: "a", Required: true, Fillers: []Filler{fixed("a", Always())}},
		Slot{ID: "b", Fillers: []Filler{fixed("b", When("jpa", (*capability.Set).IsJPA))}},
		Slot{ID: "c", DependsOn: []SlotID{"b"}, Fillers: []Filler{fixed("c", Always())}},
		Slot{ID: "d", DependsOn: []SlotID{"a"}, Fillers: []Filler{fixed("d", Always())}},
	)
	require.NoError(t, err)

	caps, ids := resolve(t, configschema.RawTechStack{Persistence: "MYBATIS"})
	p, err := Build(layout, caps, ids)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.tmpl", "d.tmpl"}, p.TemplateIDs())
	assert.Equal(t, []Omission{
		{Slot: "b", Reason: "no filler matches"},
		{Slot: "c", Reason: `depends on omitted slot "b"`},
	}, p.Omitted)
}

func TestBuildRequiredDependentOfOmittedSlotFails(t *testing.T) {
	layout := MustLayout(
		Slot{ID: "b", Fillers: []Filler{fixed("b", When("jpa", (*capability.Set).IsJPA))}},
		Slot{ID: "c", Required: true, DependsOn: []SlotID{"b"}, Fillers: []Filler{fixed("c", Always())}},
	)
	caps, ids := resolve(t, configschema.RawTechStack{Persistence: "MYBATIS"})
	_, err := Build(layout, caps, ids)

	var perr *PlanError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, SlotID("c"), perr.Slot)
}

func TestBuildAmbiguousSlot(t *testing.T) {
	layout := MustLayout(Slot{
		ID:       "x",
		Required: true,
		Fillers:  []Filler{fixed("one", Always()), fixed("two", Always())},
	})
	caps, ids := resolve(t, configschema.RawTechStack{Persistence: "JPA"})
	_, err := Build(layout, caps, ids)

	var perr *PlanError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "ambiguous slot", perr.Reason)
	assert.Equal(t, []string{"one", "two"}, perr.Candidates)
}

func TestNewLayoutRejects(t *testing.T) {
	tests := []struct {
		name  string
		slots []Slot
	}{
		{"empty id", []Slot{{}}},
		{"duplicate", []Slot{{ID: "a"}, {ID: "a"}}},
		{"forward dependency", []Slot{{ID: "a", DependsOn: []SlotID{"b"}}, {ID: "b"}}},
		{"self dependency", []Slot{{ID: "a", DependsOn: []SlotID{"a"}}}},
		{"incomplete filler", []Slot{{ID: "a", Fillers: []Filler{{Name: "f"}}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLayout(tt.slots...)
			assert.Error(t, err)
		})
	}
	assert.Panics(t, func() { MustLayout(Slot{}) })
}

func TestDefaultLayoutTemplatesExist(t *testing.T) {
	catalog, err := templates.Default()
	require.NoError(t, err)
	for _, s := range DefaultLayout().Slots() {
		for _, f := range s.Fillers {
			_, ok := catalog.Lookup(f.TemplateID)
			assert.True(t, ok, "slot %s filler %s", s.ID, f.Name)
		}
	}
}

func fixed(name string, when Requirement) Filler {
	return Filler{
		Name:       name,
		TemplateID: name + ".tmpl",
		When:       when,
		Path:       func(*naming.Identifiers) string { return name },
	}
}
