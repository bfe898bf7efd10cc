package product

import (
	"context"
	"testing"

	"gift-recommender/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalog() []common.Product {
	return []common.Product{
		{ID: "p1", Name: "Brass Diya Set", Description: "Lamps", Price: 1200, ImageURL: "https://img/1", Category: "Home Decor"},
		{ID: "p2", Name: "Silk Scarf", Description: "Banarasi silk", Price: 2500, ImageURL: "https://img/2", Category: "Fashion"},
	}
}

func TestReplaceAllAndLookup(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewInMemoryRepository())

	require.NoError(t, svc.ReplaceAll(ctx, catalog()))

	products, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "p1", products[0].ID)

	p, err := svc.GetByID(ctx, " p2 ")
	require.NoError(t, err)
	assert.Equal(t, "Silk Scarf", p.Name)

	_, err = svc.GetByID(ctx, "p9")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListReturnsCopy(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewInMemoryRepository(catalog()...))

	first, err := svc.List(ctx)
	require.NoError(t, err)
	first[0].Name = "changed"
	first = first[:0]

	second, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, "Brass Diya Set", second[0].Name)
}

func TestReplaceAllRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewInMemoryRepository(catalog()...))

	t.Run("missing category", func(t *testing.T) {
		bad := catalog()
		bad[1].Category = " "
		err := svc.ReplaceAll(ctx, bad)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "category")
	})

	t.Run("duplicate id", func(t *testing.T) {
		bad := append(catalog(), catalog()[0])
		err := svc.ReplaceAll(ctx, bad)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate")
	})

	products, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 2)
}
