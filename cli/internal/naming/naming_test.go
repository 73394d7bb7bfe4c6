package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.eggybyte.com/bootforge/cli/internal/capability"
	"go.eggybyte.com/bootforge/cli/internal/configschema"
)

func derive(t *testing.T, raw *configschema.Raw) *Identifiers {
	t.Helper()
	cfg, err := configschema.Validate(raw)
	require.NoError(t, err)
	return Derive(cfg, capability.Resolve(cfg))
}

func TestDeriveMyBatis(t *testing.T) {
	ids := derive(t, &configschema.Raw{
		ProjectName: "My Shop API",
		PackagePath: "com.demo",
		TechStack:   configschema.RawTechStack{Persistence: "mybatis"},
	})

	assert.Equal(t, "my-shop-api", ids.ArtifactID)
	assert.Equal(t, "MyShopAPIApplication", ids.MainClass)
	assert.Equal(t, "com.demo.entity", ids.EntityPackage)
	assert.Equal(t, "com.demo.mapper", ids.DataAccessPackage)
	assert.Equal(t, "com.demo.service.impl", ids.ServiceImplPackage)
	assert.Equal(t, "UserMapper", ids.DataAccess)
	assert.Equal(t, "userMapper", ids.DataAccessVar)
	assert.Equal(t, "t_user", ids.TableName)
	assert.Equal(t, "users", ids.CacheName)
	assert.Equal(t, "/api/users", ids.APIBasePath)
	assert.Equal(t, "my_shop_api", ids.DatabaseName)
}

func TestDeriveJPA(t *testing.T) {
	ids := derive(t, &configschema.Raw{
		ProjectName: "orders",
		PackagePath: "io.acme.orders",
		Entity:      "OrderItem",
		TechStack:   configschema.RawTechStack{Persistence: "jpa"},
	})

	assert.Equal(t, "io.acme.orders.repository", ids.DataAccessPackage)
	assert.Equal(t, "OrderItemRepository", ids.DataAccess)
	assert.Equal(t, "orderItemRepository", ids.DataAccessVar)
	assert.Equal(t, "OrderItemService", ids.Service)
	assert.Equal(t, "OrderItemServiceImpl", ids.ServiceImpl)
	assert.Equal(t, "OrderItemController", ids.Controller)
	assert.Equal(t, "orderItem", ids.EntityVar)
	assert.Equal(t, "orderItems", ids.EntityPlural)
	assert.Equal(t, "t_order_item", ids.TableName)
	assert.Equal(t, "/api/order-items", ids.APIBasePath)
}

func TestDeriveWithoutPersistence(t *testing.T) {
	ids := derive(t, &configschema.Raw{ProjectName: "p", PackagePath: "com.p"})
	assert.Empty(t, ids.DataAccess)
	assert.Empty(t, ids.DataAccessPackage)
	assert.Empty(t, ids.DataAccessVar)
}

func TestPaths(t *testing.T) {
	ids := derive(t, &configschema.Raw{ProjectName: "p", PackagePath: "com.demo.shop"})
	assert.Equal(t, "src/main/java/com/demo/shop/entity/User.java", ids.JavaFile(ids.EntityPackage, ids.Entity))
	assert.Equal(t, "src/main/resources/mapper/UserMapper.xml", ids.ResourceFile("mapper", "UserMapper.xml"))
	assert.Equal(t, "com/demo", PackageDir("com.demo"))
}

func TestVarsComplete(t *testing.T) {
	ids := derive(t, &configschema.Raw{
		ProjectName: "shop",
		PackagePath: "com.demo",
		TechStack:   configschema.RawTechStack{Persistence: "jpa"},
	})
	vars := ids.Vars()

	for k, v := range vars {
		assert.NotEmpty(t, v, "variable %s is empty", k)
	}
	assert.Equal(t, ids.MainClass, vars["mainClass"])
	assert.Equal(t, "userService", vars["serviceVar"])
}

func TestDeriveIsStable(t *testing.T) {
	raw := &configschema.Raw{ProjectName: "shop", PackagePath: "com.demo", TechStack: configschema.RawTechStack{Persistence: "jpa"}}
	assert.Equal(t, derive(t, raw), derive(t, raw))
}

func TestPlural(t *testing.T) {
	tests := map[string]string{
		"user":     "users",
		"category": "categories",
		"day":      "days",
		"address":  "addresses",
		"box":      "boxes",
		"branch":   "branches",
		"":         "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Plural(in), in)
	}
}
