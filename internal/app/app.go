package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"

	"marketplace/internal/handlers"
	"marketplace/internal/middleware"
	"marketplace/internal/models"
	"marketplace/internal/repositories"
	"marketplace/internal/services"
	"marketplace/internal/store"
	"marketplace/pkg/config"
	"marketplace/pkg/logger"
	"marketplace/pkg/rabbitmq"
)

// App is the wired marketplace service.
type App struct {
	Fiber *fiber.App
	Auth  *services.AuthService

	cfg *config.Config
	db  *store.DB
	mq  *rabbitmq.Client
	log zerolog.Logger
}

// New opens the store and the optional broker, bootstraps the admin account
// and registers every route.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store.Driver, err)
	}
	a := &App{
		cfg: cfg,
		db:  store.NewDB(st),
		log: log.Component("app"),
	}

	var events services.EventPublisher
	if cfg.RabbitMQ.Enabled() {
		a.mq, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQ.URL}, log.Component("rabbitmq"))
		if err != nil {
			a.db.Close()
			return nil, err
		}
		events = a.mq
		if err := a.mq.ConsumeStockEvents(auditStockEvent(log.Component("stock-audit"))); err != nil {
			a.Close()
			return nil, err
		}
	}

	productRepo := repositories.NewProductRepository(a.db)
	userRepo := repositories.NewUserRepository(a.db)
	cartRepo := repositories.NewCartRepository(a.db)
	wishlistRepo := repositories.NewWishlistRepository(a.db)

	hasher := services.BcryptHasher{Cost: cfg.App.BcryptCost}
	productService := services.NewProductService(productRepo, events, log.Component("products"))
	cartService := services.NewCartService(cartRepo, productRepo)
	wishlistService := services.NewWishlistService(wishlistRepo, productRepo, cfg.IDPolicy)
	catalogService := services.NewCatalogService(productRepo)
	accountService := services.NewAccountService(userRepo, hasher, cfg.IDPolicy, log.Component("accounts"))
	a.Auth = services.NewAuthService(userRepo, hasher, cfg.JWT.Secret, cfg.JWT.TTL)

	if cfg.Admin.Enabled() {
		if _, err := accountService.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to bootstrap admin: %w", err)
		}
	}

	a.Fiber = fiber.New(fiber.Config{
		AppName:      "marketplace",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: a.errorHandler,
	})
	a.Fiber.Use(recover.New())
	a.Fiber.Use(requestid.New())
	a.Fiber.Use(fiberlogger.New(fiberlogger.Config{
		Output: log.Component("http"),
		Format: "${status} ${method} ${path} ${latency} ${locals:requestid}\n",
	}))

	a.Fiber.Get("/health", a.health)

	auth := middleware.AuthRequired(a.Auth, log.Component("auth"))
	shopper := []fiber.Handler{auth, middleware.RequireRole(models.RoleShopper)}
	seller := []fiber.Handler{auth, middleware.RequireRole(models.RoleSeller)}
	admin := []fiber.Handler{auth, middleware.RequireRole(models.RoleAdmin)}

	apiV1 := a.Fiber.Group("/api/v1")
	handlers.NewAuthHandler(a.Auth, log.Component("auth")).RegisterRoutes(apiV1)
	handlers.NewProductHandler(productService, log.Component("products")).RegisterRoutes(apiV1, shopper...)
	handlers.NewCartHandler(cartService, log.Component("cart")).RegisterRoutes(apiV1, shopper...)
	handlers.NewWishlistHandler(wishlistService, log.Component("wishlist")).RegisterRoutes(apiV1, shopper...)
	handlers.NewSellerHandler(catalogService, log.Component("seller")).RegisterRoutes(apiV1, seller...)
	handlers.NewAdminHandler(accountService, log.Component("admin")).RegisterRoutes(apiV1, admin...)

	return a, nil
}

// Listen serves HTTP on the configured port until Shutdown.
func (a *App) Listen() error {
	a.log.Info().Str("addr", a.cfg.App.Port).Str("store", a.cfg.Store.Driver).Msg("starting server")
	return a.Fiber.Listen(a.cfg.App.Port)
}

// Shutdown stops the HTTP server and releases the store and broker.
func (a *App) Shutdown(ctx context.Context) error {
	err := a.Fiber.ShutdownWithContext(ctx)
	return errors.Join(err, a.Close())
}

// Close releases the store and broker connections.
func (a *App) Close() error {
	var errs []error
	if a.mq != nil {
		errs = append(errs, a.mq.Close())
	}
	errs = append(errs, a.db.Close())
	return errors.Join(errs...)
}

func (a *App) health(c *fiber.Ctx) error {
	broker := "disabled"
	if a.mq != nil {
		broker = "connected"
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":   "healthy",
		"time":     time.Now().Format(time.RFC3339),
		"store":    a.cfg.Store.Driver,
		"rabbitMQ": broker,
	})
}

func (a *App) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		a.log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
	}
	return c.Status(code).JSON(fiber.Map{
		"message": err.Error(),
	})
}

// auditStockEvent logs every purchase event; undecodable messages are rejected.
func auditStockEvent(log zerolog.Logger) func(amqp.Delivery) error {
	return func(msg amqp.Delivery) error {
		var event services.StockEvent
		if err := json.Unmarshal(msg.Body, &event); err != nil {
			return fmt.Errorf("decode stock event %s: %w", msg.MessageId, err)
		}
		e := log.Info()
		if event.SoldOut {
			e = log.Warn()
		}
		e.Str("routing_key", msg.RoutingKey).
			Int("product_id", event.ProductID).
			Int("buyer_id", event.BuyerID).
			Int("quantity", event.Quantity).
			Int("remaining", event.Remaining).
			Bool("sold_out", event.SoldOut).
			Msg("stock purchased")
		return nil
	}
}
