package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace/internal/models"
	"marketplace/internal/store"
)

func newSQLiteStore(t *testing.T) *store.GORMStore {
	t.Helper()
	db, err := store.OpenGORM(store.DriverSQLite, "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	s, err := store.NewGORMStore(db)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGORMStore_SaveUpsertsDocument(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)

	doc, err := s.Load(ctx, store.Products)
	require.NoError(t, err)
	assert.Nil(t, doc)

	require.NoError(t, s.Save(ctx, store.Products, []byte(`[{"id":1}]`)))
	require.NoError(t, s.Save(ctx, store.Products, []byte(`[{"id":1},{"id":2}]`)))

	doc, err = s.Load(ctx, store.Products)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1},{"id":2}]`, string(doc))
}

func TestGORMStore_BacksCollections(t *testing.T) {
	ctx := context.Background()
	db := store.NewDB(newSQLiteStore(t))
	products := store.NewCollection[models.Product](db, store.Products)
	carts := store.NewCollection[models.CartLine](db, store.Carts)

	require.NoError(t, products.Save(ctx, []models.Product{{ID: 1, Title: "Lamp", Price: 12.5, Quantity: 4}}))
	require.NoError(t, carts.Save(ctx, []models.CartLine{{ID: 1, UserID: 3, ProductID: 1, Quantity: 2}}))

	loaded, err := products.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, loaded[0].Quantity)

	lines, err := carts.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, lines[0].UserID)
}

func TestOpenGORM_UnknownDriver(t *testing.T) {
	_, err := store.OpenGORM("oracle", "")
	assert.Error(t, err)
}
