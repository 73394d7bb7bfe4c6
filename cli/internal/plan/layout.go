package plan

import (
	"go.eggybyte.com/bootforge/cli/internal/capability"
	"go.eggybyte.com/bootforge/cli/internal/naming"
	"go.eggybyte.com/bootforge/cli/internal/templates"
)

// Slots of the default layout.
const (
	SlotEntity            SlotID = "entity"
	SlotDataAccess        SlotID = "data-access"
	SlotService           SlotID = "service"
	SlotServiceImpl       SlotID = "service-impl"
	SlotController        SlotID = "controller"
	SlotResult            SlotID = "common-result"
	SlotAPIResponse       SlotID = "common-api-response"
	SlotPageResult        SlotID = "common-page-result"
	SlotPageRequest       SlotID = "common-page-request"
	SlotBusinessException SlotID = "common-business-exception"
	SlotExceptionHandler  SlotID = "common-exception-handler"
	SlotBootstrap         SlotID = "bootstrap"
	SlotMapperXML         SlotID = "mapper-xml"
	SlotApplicationConfig SlotID = "application-config"
)

var (
	whenJPA       = When("persistence == JPA", (*capability.Set).IsJPA)
	whenMyBatis   = When("persistence == MYBATIS", (*capability.Set).IsMyBatis)
	whenPageNum   = When("paging == PAGE_NUM", func(c *capability.Set) bool { return c.Paging() == capability.PagingPageNum })
	whenPageIndex = When("paging == PAGE_INDEX", func(c *capability.Set) bool { return c.Paging() == capability.PagingPageIndex })
)

func javaFile(pkg func(*naming.Identifiers) string, class func(*naming.Identifiers) string) func(*naming.Identifiers) string {
	return func(ids *naming.Identifiers) string { return ids.JavaFile(pkg(ids), class(ids)) }
}

func commonFile(class string) func(*naming.Identifiers) string {
	return func(ids *naming.Identifiers) string { return ids.JavaFile(ids.CommonPackage, class) }
}

func single(name, templateID string, path func(*naming.Identifiers) string) []Filler {
	return []Filler{{Name: name, TemplateID: templateID, When: Always(), Path: path}}
}

var defaultLayout = MustLayout(
	Slot{
		ID:       SlotEntity,
		Required: true,
		Fillers: single("entity", templates.Entity, javaFile(
			func(ids *naming.Identifiers) string { return ids.EntityPackage },
			func(ids *naming.Identifiers) string { return ids.Entity },
		)),
	},
	Slot{
		ID:        SlotDataAccess,
		Required:  true,
		DependsOn: []SlotID{SlotEntity},
		Fillers: []Filler{
			{Name: "repository", TemplateID: templates.Repository, When: whenJPA, Path: dataAccessFile},
			{Name: "mapper", TemplateID: templates.Mapper, When: whenMyBatis, Path: dataAccessFile},
		},
	},
	Slot{
		ID:        SlotService,
		Required:  true,
		DependsOn: []SlotID{SlotEntity},
		Fillers: single("service", templates.Service, javaFile(
			func(ids *naming.Identifiers) string { return ids.ServicePackage },
			func(ids *naming.Identifiers) string { return ids.Service },
		)),
	},
	Slot{
		ID:        SlotServiceImpl,
		Required:  true,
		DependsOn: []SlotID{SlotService, SlotDataAccess},
		Fillers: single("service-impl", templates.ServiceImpl, javaFile(
			func(ids *naming.Identifiers) string { return ids.ServiceImplPackage },
			func(ids *naming.Identifiers) string { return ids.ServiceImpl },
		)),
	},
	Slot{
		ID:        SlotController,
		Required:  true,
		DependsOn: []SlotID{SlotService},
		Fillers: single("controller", templates.Controller, javaFile(
			func(ids *naming.Identifiers) string { return ids.ControllerPackage },
			func(ids *naming.Identifiers) string { return ids.Controller },
		)),
	},
	Slot{ID: SlotResult, Required: true, Fillers: single("result", templates.Result, commonFile("Result"))},
	Slot{ID: SlotAPIResponse, Required: true, Fillers: single("api-response", templates.APIResponse, commonFile("ApiResponse"))},
	Slot{ID: SlotPageResult, Required: true, Fillers: single("page-result", templates.PageResult, commonFile("PageResult"))},
	Slot{
		ID:       SlotPageRequest,
		Required: true,
		Fillers: []Filler{
			{Name: "page-num", TemplateID: templates.PageRequestPageNum, When: whenPageNum, Path: commonFile("PageRequest")},
			{Name: "page-index", TemplateID: templates.PageRequestPageIndex, When: whenPageIndex, Path: commonFile("PageRequest")},
		},
	},
	Slot{ID: SlotBusinessException, Required: true, Fillers: single("business-exception", templates.BusinessException, commonFile("BusinessException"))},
	Slot{
		ID:        SlotExceptionHandler,
		Required:  true,
		DependsOn: []SlotID{SlotResult, SlotBusinessException},
		Fillers:   single("exception-handler", templates.GlobalExceptionHandler, commonFile("GlobalExceptionHandler")),
	},
	Slot{
		ID:       SlotBootstrap,
		Required: true,
		Fillers: single("application", templates.Application, javaFile(
			func(ids *naming.Identifiers) string { return ids.BasePackage },
			func(ids *naming.Identifiers) string { return ids.MainClass },
		)),
	},
	Slot{
		ID:        SlotMapperXML,
		DependsOn: []SlotID{SlotDataAccess},
		Fillers: []Filler{{
			Name:       "mapper-xml",
			TemplateID: templates.MapperXML,
			When:       whenMyBatis,
			Path:       func(ids *naming.Identifiers) string { return ids.ResourceFile("mapper", ids.DataAccess+".xml") },
		}},
	},
	Slot{
		ID:       SlotApplicationConfig,
		Required: true,
		Fillers: single("application-yml", templates.ApplicationConfig,
			func(ids *naming.Identifiers) string { return ids.ResourceFile("application.yml") }),
	},
)

func dataAccessFile(ids *naming.Identifiers) string {
	return ids.JavaFile(ids.DataAccessPackage, ids.DataAccess)
}

// DefaultLayout returns the layered service layout: entity, data access,
// service, controller, common types, bootstrap and resources.
func DefaultLayout() *Layout {
	return defaultLayout
}
