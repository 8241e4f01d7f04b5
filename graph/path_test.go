package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/qbe/schema"
)

func TestAllPathsChain(t *testing.T) {
	t.Parallel()
	g, err := Build(shopCatalog(t))
	require.NoError(t, err)

	paths := AllPaths(g, "Shop.Customer", "Shop.Product")
	require.Len(t, paths, 1)
	assert.Equal(t, []schema.EntityID{
		"Shop.Customer", "Shop.Order", "Shop.OrderItem", "Shop.Product",
	}, paths[0])
}

func TestAllPathsSameStartAndEnd(t *testing.T) {
	t.Parallel()
	g, err := Build(shopCatalog(t))
	require.NoError(t, err)

	paths := AllPaths(g, "Shop.Order", "Shop.Order")
	require.Len(t, paths, 1)
	assert.Equal(t, []schema.EntityID{"Shop.Order"}, paths[0])

	// Even for an entity outside the graph.
	paths = AllPaths(g, "Shop.Ghost", "Shop.Ghost")
	require.Len(t, paths, 1)
}

func TestAllPathsNoPath(t *testing.T) {
	t.Parallel()
	c := shopCatalog(t)
	require.NoError(t, c.Add(&schema.Entity{
		Group: "Crm",
		Name:  "Lead",
		Relations: []*schema.Relation{
			{Field: "account", Kind: schema.FK, Target: schema.Target{Entity: "Crm.Account", Field: "id"}},
		},
	}))
	require.NoError(t, c.Add(&schema.Entity{Group: "Crm", Name: "Account"}))
	g, err := Build(c)
	require.NoError(t, err)

	assert.Empty(t, AllPaths(g, "Shop.Customer", "Crm.Account"))
	assert.Empty(t, AllPaths(g, "Shop.Ghost", "Shop.Customer"))
}

func TestAllPathsAreSimple(t *testing.T) {
	t.Parallel()
	// A diamond with a chord produces several routes; none may repeat a
	// node.
	c, err := schema.NewCatalog(
		&schema.Entity{Group: "App", Name: "A", Relations: []*schema.Relation{
			{Field: "b", Kind: schema.FK, Target: schema.Target{Entity: "App.B", Field: "id"}},
			{Field: "c", Kind: schema.FK, Target: schema.Target{Entity: "App.C", Field: "id"}},
		}},
		&schema.Entity{Group: "App", Name: "B", Relations: []*schema.Relation{
			{Field: "c", Kind: schema.FK, Target: schema.Target{Entity: "App.C", Field: "id"}},
			{Field: "d", Kind: schema.FK, Target: schema.Target{Entity: "App.D", Field: "id"}},
		}},
		&schema.Entity{Group: "App", Name: "C", Relations: []*schema.Relation{
			{Field: "d", Kind: schema.FK, Target: schema.Target{Entity: "App.D", Field: "id"}},
		}},
		&schema.Entity{Group: "App", Name: "D"},
	)
	require.NoError(t, err)
	g, err := Build(c)
	require.NoError(t, err)

	paths := AllPaths(g, "App.A", "App.D")
	require.NotEmpty(t, paths)
	for _, path := range paths {
		seen := make(map[schema.EntityID]bool, len(path))
		for _, id := range path {
			assert.False(t, seen[id], "path %v repeats %s", path, id)
			seen[id] = true
		}
		assert.Equal(t, schema.EntityID("App.A"), path[0])
		assert.Equal(t, schema.EntityID("App.D"), path[len(path)-1])
	}
}

func TestAllPathsN(t *testing.T) {
	t.Parallel()
	g, err := Build(shopCatalog(t))
	require.NoError(t, err)

	// The only Customer-Product path spans four nodes.
	assert.Empty(t, AllPathsN(g, "Shop.Customer", "Shop.Product", 3))
	assert.Len(t, AllPathsN(g, "Shop.Customer", "Shop.Product", 4), 1)
	assert.Len(t, AllPathsN(g, "Shop.Customer", "Shop.Product", 0), 1)
}

func TestSuggestConnectors(t *testing.T) {
	t.Parallel()
	g, err := Build(shopCatalog(t))
	require.NoError(t, err)

	suggestions, ok := Suggest(g, []schema.EntityID{"Shop.Customer", "Shop.Product"})
	require.True(t, ok)
	require.Len(t, suggestions, 1)
	assert.Equal(t, []schema.EntityID{"Shop.Order", "Shop.OrderItem"}, suggestions[0])
}

func TestSuggestThroughEntity(t *testing.T) {
	t.Parallel()
	g, err := Build(schoolCatalog(t))
	require.NoError(t, err)

	suggestions, ok := Suggest(g, []schema.EntityID{"School.Student", "School.Course"})
	require.True(t, ok)
	require.Len(t, suggestions, 1)
	assert.Equal(t, []schema.EntityID{"School.Enrollment"}, suggestions[0])
}

func TestSuggestDirectlyConnected(t *testing.T) {
	t.Parallel()
	g, err := Build(shopCatalog(t))
	require.NoError(t, err)

	suggestions, ok := Suggest(g, []schema.EntityID{"Shop.Customer", "Shop.Order"})
	require.True(t, ok)
	require.Len(t, suggestions, 1)
	assert.Empty(t, suggestions[0])
}

func TestSuggestTooFewSelected(t *testing.T) {
	t.Parallel()
	g, err := Build(shopCatalog(t))
	require.NoError(t, err)

	suggestions, ok := Suggest(g, []schema.EntityID{"Shop.Customer"})
	assert.False(t, ok)
	assert.Nil(t, suggestions)

	suggestions, ok = Suggest(g, nil)
	assert.False(t, ok)
	assert.Nil(t, suggestions)
}

func TestSuggestNoConnection(t *testing.T) {
	t.Parallel()
	c := shopCatalog(t)
	require.NoError(t, c.Add(&schema.Entity{
		Group: "Crm",
		Name:  "Lead",
		Relations: []*schema.Relation{
			{Field: "account", Kind: schema.FK, Target: schema.Target{Entity: "Crm.Account", Field: "id"}},
		},
	}))
	require.NoError(t, c.Add(&schema.Entity{Group: "Crm", Name: "Account"}))
	g, err := Build(c)
	require.NoError(t, err)

	suggestions, ok := Suggest(g, []schema.EntityID{"Shop.Customer", "Crm.Account"})
	require.True(t, ok)
	assert.NotNil(t, suggestions)
	assert.Empty(t, suggestions)
}

func TestSuggestShortestFirst(t *testing.T) {
	t.Parallel()
	// Two connectors between A and D: via B, and via B-C.
	c, err := schema.NewCatalog(
		&schema.Entity{Group: "App", Name: "A", Relations: []*schema.Relation{
			{Field: "b", Kind: schema.FK, Target: schema.Target{Entity: "App.B", Field: "id"}},
		}},
		&schema.Entity{Group: "App", Name: "B", Relations: []*schema.Relation{
			{Field: "c", Kind: schema.FK, Target: schema.Target{Entity: "App.C", Field: "id"}},
			{Field: "d", Kind: schema.FK, Target: schema.Target{Entity: "App.D", Field: "id"}},
		}},
		&schema.Entity{Group: "App", Name: "C", Relations: []*schema.Relation{
			{Field: "d", Kind: schema.FK, Target: schema.Target{Entity: "App.D", Field: "id"}},
		}},
		&schema.Entity{Group: "App", Name: "D"},
	)
	require.NoError(t, err)
	g, err := Build(c)
	require.NoError(t, err)

	suggestions, ok := Suggest(g, []schema.EntityID{"App.A", "App.D"})
	require.True(t, ok)
	require.Len(t, suggestions, 2)
	assert.Equal(t, []schema.EntityID{"App.B"}, suggestions[0])
	assert.Equal(t, []schema.EntityID{"App.B", "App.C"}, suggestions[1])
}

func TestSuggestCatalog(t *testing.T) {
	t.Parallel()
	suggestions, ok, err := SuggestCatalog(shopCatalog(t),
		[]schema.EntityID{"Shop.Customer", "Shop.Product"}, false)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, suggestions, 1)
	assert.Equal(t, []schema.EntityID{"Shop.Order", "Shop.OrderItem"}, suggestions[0])

	c, err := schema.NewCatalog(
		&schema.Entity{Group: "App", Name: "A", Relations: []*schema.Relation{
			{Field: "ghost", Kind: schema.FK, Target: schema.Target{Entity: "App.Ghost", Field: "id"}},
		}},
	)
	require.NoError(t, err)
	_, _, err = SuggestCatalog(c, []schema.EntityID{"App.A", "App.Ghost"}, false)
	require.Error(t, err)
	assert.True(t, IsDanglingReference(err))
}
