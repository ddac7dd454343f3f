package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"marketplace/internal/models"
	"marketplace/internal/repositories"
	"marketplace/internal/services"
	"marketplace/internal/store"
)

func TestProductService_GetAllProducts(t *testing.T) {
	f := newFixture(t)
	service := services.NewProductService(f.products, nil, zerolog.Nop())

	products, err := service.GetAllProducts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)

	f.seedProducts(t,
		models.Product{ID: 1, Title: "Product A", Price: 10.0, Quantity: 100},
		models.Product{ID: 2, Title: "Product B", Price: 20.0, Quantity: 50},
	)
	products, err = service.GetAllProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestProductService_GetProductByID(t *testing.T) {
	f := newFixture(t)
	f.seedProducts(t, models.Product{ID: 1, Title: "Product A", Price: 10.0, Quantity: 100})
	service := services.NewProductService(f.products, nil, zerolog.Nop())

	product, err := service.GetProductByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Product A", product.Title)

	product, err = service.GetProductByID(context.Background(), 99)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Nil(t, product)
}

func TestProductService_GetProductsByCategory(t *testing.T) {
	f := newFixture(t)
	f.seedProducts(t,
		models.Product{ID: 1, Title: "Ring", Category: "Jewelery"},
		models.Product{ID: 2, Title: "Shirt", Category: "men's clothing"},
		models.Product{ID: 3, Title: "Necklace", Category: "jewelery"},
	)
	service := services.NewProductService(f.products, nil, zerolog.Nop())

	products, err := service.GetProductsByCategory(context.Background(), "JEWELERY")
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, 1, products[0].ID)
	assert.Equal(t, 3, products[1].ID)

	// exact match only, no substring search
	_, err = service.GetProductsByCategory(context.Background(), "clothing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestProductService_Purchase(t *testing.T) {
	f := newFixture(t)
	f.seedProducts(t, models.Product{ID: 1, Title: "Laptop", Price: 10, Quantity: 5})
	service := services.NewProductService(f.products, nil, zerolog.Nop())
	ctx := context.Background()

	product, err := service.Purchase(ctx, 7, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, product.Quantity)
	assert.Equal(t, 2, f.allProducts(t)[0].Quantity)

	// more than in stock: nothing changes
	_, err = service.Purchase(ctx, 7, 1, 5)
	assert.ErrorIs(t, err, models.ErrInsufficientStock)
	assert.Equal(t, 2, f.allProducts(t)[0].Quantity)

	// exactly the remaining stock
	product, err = service.Purchase(ctx, 7, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, product.Quantity)

	_, err = service.Purchase(ctx, 7, 42, 1)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestProductService_PurchaseRejectsNonPositiveQuantity(t *testing.T) {
	f := newFixture(t)
	f.seedProducts(t, models.Product{ID: 1, Quantity: 5})
	service := services.NewProductService(f.products, nil, zerolog.Nop())

	for _, q := range []int{0, -3} {
		_, err := service.Purchase(context.Background(), 7, 1, q)
		assert.ErrorIs(t, err, models.ErrInvalidInput)
	}
	assert.Equal(t, 5, f.allProducts(t)[0].Quantity)
}

func TestProductService_PurchasePublishesStockEvent(t *testing.T) {
	f := newFixture(t)
	f.seedProducts(t, models.Product{ID: 1, Quantity: 2})
	publisher := new(MockPublisher)
	service := services.NewProductService(f.products, publisher, zerolog.Nop())

	var event services.StockEvent
	publisher.On("Publish", mock.Anything, services.RoutingProductPurchased, mock.Anything).
		Run(func(args mock.Arguments) {
			require.NoError(t, json.Unmarshal(args.Get(2).([]byte), &event))
		}).
		Return(nil).Once()

	_, err := service.Purchase(context.Background(), 9, 1, 2)
	require.NoError(t, err)
	publisher.AssertExpectations(t)

	assert.Equal(t, 1, event.ProductID)
	assert.Equal(t, 9, event.BuyerID)
	assert.Equal(t, 2, event.Quantity)
	assert.Equal(t, 0, event.Remaining)
	assert.True(t, event.SoldOut)
}

func TestProductService_PublishFailureKeepsPurchase(t *testing.T) {
	f := newFixture(t)
	f.seedProducts(t, models.Product{ID: 1, Quantity: 4})
	publisher := new(MockPublisher)
	publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()
	service := services.NewProductService(f.products, publisher, zerolog.Nop())

	product, err := service.Purchase(context.Background(), 9, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, product.Quantity)
	publisher.AssertExpectations(t)
}

func TestProductService_FailedPurchaseDoesNotPublish(t *testing.T) {
	f := newFixture(t)
	f.seedProducts(t, models.Product{ID: 1, Quantity: 1})
	publisher := new(MockPublisher)
	service := services.NewProductService(f.products, publisher, zerolog.Nop())

	_, err := service.Purchase(context.Background(), 9, 1, 2)
	assert.ErrorIs(t, err, models.ErrInsufficientStock)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestProductService_ConcurrentPurchasesNeverOversell(t *testing.T) {
	f := newFixture(t)
	f.seedProducts(t, models.Product{ID: 1, Quantity: 10})
	service := services.NewProductService(f.products, nil, zerolog.Nop())

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		bought  int
		refused int
	)
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.Purchase(context.Background(), 1, 1, 1)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				bought++
			} else if errors.Is(err, models.ErrInsufficientStock) {
				refused++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, bought)
	assert.Equal(t, 15, refused)
	assert.Equal(t, 0, f.allProducts(t)[0].Quantity)
}

func TestProductService_UnavailableStore(t *testing.T) {
	repo := repositories.NewProductRepository(store.NewDB(unavailableStore{}))
	service := services.NewProductService(repo, nil, zerolog.Nop())

	_, err := service.GetAllProducts(context.Background())
	assert.ErrorIs(t, err, models.ErrIO)
	_, err = service.Purchase(context.Background(), 1, 1, 1)
	assert.ErrorIs(t, err, models.ErrIO)
}
