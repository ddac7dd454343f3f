package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"marketplace/internal/models"
	"marketplace/internal/repositories"
	"marketplace/internal/services"
	"marketplace/internal/store"
)

var testHasher = services.BcryptHasher{Cost: bcrypt.MinCost}

// MockPublisher is a mock implementation of services.EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, body []byte) error {
	args := m.Called(ctx, routingKey, body)
	return args.Error(0)
}

// unavailableStore fails every access like a disconnected medium.
type unavailableStore struct{}

func (unavailableStore) Load(context.Context, string) ([]byte, error) {
	return nil, fmt.Errorf("%w: medium offline", models.ErrIO)
}

func (unavailableStore) Save(context.Context, string, []byte) error {
	return fmt.Errorf("%w: medium offline", models.ErrIO)
}

func (unavailableStore) Close() error { return nil }

type fixture struct {
	db        *store.DB
	products  *repositories.CollectionProductRepository
	users     *repositories.CollectionUserRepository
	carts     *repositories.CollectionCartRepository
	wishlists *repositories.CollectionWishlistRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := store.NewDB(store.NewMemoryStore())
	return &fixture{
		db:        db,
		products:  repositories.NewProductRepository(db),
		users:     repositories.NewUserRepository(db),
		carts:     repositories.NewCartRepository(db),
		wishlists: repositories.NewWishlistRepository(db),
	}
}

func (f *fixture) seedProducts(t *testing.T, products ...models.Product) {
	t.Helper()
	require.NoError(t, f.products.Mutate(context.Background(), func([]models.Product) ([]models.Product, error) {
		return products, nil
	}))
}

func (f *fixture) seedUsers(t *testing.T, users ...models.User) {
	t.Helper()
	require.NoError(t, f.users.Mutate(context.Background(), func([]models.User) ([]models.User, error) {
		return users, nil
	}))
}

func (f *fixture) seedWishlists(t *testing.T, lines ...models.WishlistLine) {
	t.Helper()
	require.NoError(t, f.wishlists.Mutate(context.Background(), func([]models.WishlistLine) ([]models.WishlistLine, error) {
		return lines, nil
	}))
}

func (f *fixture) allProducts(t *testing.T) []models.Product {
	t.Helper()
	products, err := f.products.GetAll(context.Background())
	require.NoError(t, err)
	return products
}

func (f *fixture) allUsers(t *testing.T) []models.User {
	t.Helper()
	users, err := f.users.GetAll(context.Background())
	require.NoError(t, err)
	return users
}

func ptr[T any](v T) *T { return &v }
