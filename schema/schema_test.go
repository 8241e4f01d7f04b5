package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeID(t *testing.T) {
	t.Parallel()
	tests := []struct {
		group string
		name  string
		want  EntityID
	}{
		{"shop", "Order", "Shop.Order"},
		{"Shop", "Order", "Shop.Order"},
		{"crm", "Customer", "Crm.Customer"},
		{"auth", "User", "Auth.User"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MakeID(tt.group, tt.name))
	}
}

func TestParseID(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"Shop.Order", false},
		{"Shop.Order.Item", false}, // name keeps everything after the first dot
		{"Shop", true},
		{".Order", true},
		{"Shop.", true},
		{"", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			id, err := ParseID(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.Empty(t, id)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, EntityID(tt.in), id)
		})
	}
}

func TestEntityIDParts(t *testing.T) {
	t.Parallel()
	id := EntityID("Shop.OrderItem")
	assert.Equal(t, "Shop", id.Group())
	assert.Equal(t, "OrderItem", id.Name())
	assert.Equal(t, "Shop.OrderItem", id.String())
}

func TestFieldDisplayLabel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		field Field
		want  string
	}{
		{"explicit label wins", Field{Name: "created_at", Label: "Created"}, "Created"},
		{"humanized from name", Field{Name: "created_at"}, "Created at"},
		{"id suffix stripped", Field{Name: "customer_id"}, "Customer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.field.DisplayLabel())
		})
	}
}

func TestEntityField(t *testing.T) {
	t.Parallel()
	e := &Entity{
		Group:  "Shop",
		Name:   "Order",
		Fields: []*Field{{Name: "id"}, {Name: "total"}},
	}
	require.NotNil(t, e.Field("total"))
	assert.Equal(t, "total", e.Field("total").Name)
	assert.Nil(t, e.Field("missing"))
	assert.Equal(t, EntityID("Shop.Order"), e.ID())
}

func TestCatalogOrderAndLookup(t *testing.T) {
	t.Parallel()
	c, err := NewCatalog(
		&Entity{Group: "Shop", Name: "Order"},
		&Entity{Group: "Shop", Name: "Customer"},
		&Entity{Group: "Auth", Name: "User"},
	)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []EntityID{"Shop.Order", "Shop.Customer", "Auth.User"}, c.IDs())

	e, ok := c.Entity("Shop.Customer")
	require.True(t, ok)
	assert.Equal(t, "Customer", e.Name)
	assert.True(t, c.Has("Auth.User"))
	assert.False(t, c.Has("Auth.Group"))

	all := c.All()
	require.Len(t, all, 3)
	assert.Equal(t, "Order", all[0].Name)
}

func TestCatalogDuplicate(t *testing.T) {
	t.Parallel()
	_, err := NewCatalog(
		&Entity{Group: "Shop", Name: "Order"},
		&Entity{Group: "shop", Name: "Order"}, // same id after title-casing
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `entity "Shop.Order" redeclared`)
}
