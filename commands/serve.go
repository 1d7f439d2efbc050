package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"marketplace-api/configs"
	accountController "marketplace-api/controllers/accounts"
	addressController "marketplace-api/controllers/addresses"
	cartController "marketplace-api/controllers/cart"
	orderController "marketplace-api/controllers/orders"
	productController "marketplace-api/controllers/products"
	storeController "marketplace-api/controllers/stores"
	userController "marketplace-api/controllers/user"
	wishlistController "marketplace-api/controllers/wishlist"
	"marketplace-api/events"
	"marketplace-api/middlewares"
	"marketplace-api/payments"
	"marketplace-api/repository"
	"marketplace-api/routes"
	"marketplace-api/services/orders"
	"marketplace-api/telemetry"
)

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configs.Load()
			if err != nil {
				return err
			}
			logger, err := configs.NewLogger(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			return serve(cmd.Context(), cfg, logger)
		},
	}
}

func serve(ctx context.Context, cfg *configs.Config, logger *zap.Logger) error {
	shutdownTracer, err := telemetry.InitTracerProvider(ctx, cfg.OTLPEndpoint, cfg.ServiceVersion)
	if err != nil {
		return err
	}
	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider(cfg.ServiceVersion)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracer(ctx)
		_ = shutdownMeter(ctx)
	}()

	client, err := configs.ConnectDB(ctx, cfg.MongoURI, logger)
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	db := client.Database(cfg.MongoDB)

	deps := orders.Deps{
		Orders:    repository.NewOrderRepository(db),
		Carts:     repository.NewUserRepository(db),
		Addresses: repository.NewAddressRepository(db),
		Catalog:   repository.NewProductRepository(db),
		Gateway:   payments.NewRazorpay(cfg.RazorpayKeyID, cfg.RazorpayKeySecret),
		Logger:    logger,
	}

	if cfg.RedisAddr != "" {
		redis, err := repository.DialRedis(cfg.RedisAddr)
		if err != nil {
			return err
		}
		defer func() { _ = redis.Close() }()
		deps.Cache = repository.NewRedisOrderCache(redis, cfg.OrderCacheTTL)
		logger.Info("order cache enabled", zap.String("addr", cfg.RedisAddr))
	}

	if len(cfg.KafkaBrokers) > 0 {
		publisher := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaOrderTopic)
		defer func() { _ = publisher.Close() }()
		deps.Events = publisher
		logger.Info("order events enabled", zap.String("topic", cfg.KafkaOrderTopic))
	}

	app := newApp(logger)
	routes.OpsRoutes(app, metricsHandler)
	registerRoutes(app, db, cfg, orders.NewService(deps), logger)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	return listen(app, ":"+cfg.Port, stop, logger)
}

// listen serves until a signal arrives on stop or the listener fails.
func listen(app *fiber.App, addr string, stop <-chan os.Signal, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting marketplace-api", zap.String("addr", addr))
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen %s: %w", addr, err)
		}
		return nil
	case sig := <-stop:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}
	return app.ShutdownWithTimeout(10 * time.Second)
}

func newApp(logger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "marketplace-api",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: func() string { return uuid.NewString() }}))
	app.Use(telemetry.Tracing())
	app.Use(middlewares.RequestLogger(logger))
	return app
}

func registerRoutes(app *fiber.App, db *mongo.Database, cfg *configs.Config, svc *orders.Service, logger *zap.Logger) {
	users := repository.NewUserRepository(db)
	products := repository.NewProductRepository(db)
	stores := repository.NewStoreRepository(db)
	addresses := repository.NewAddressRepository(db)

	routes.UserRoute(app, userController.NewUserController(users, cfg.JWTSecret, logger))
	routes.AccountRoute(app, accountController.NewAccountController(users), cfg.JWTSecret)
	routes.AddressRoutes(app, addressController.NewAddressController(addresses), cfg.JWTSecret)
	routes.CartRoutes(app, cartController.NewCartController(users, products), cfg.JWTSecret)
	routes.WishlistRoutes(app, wishlistController.NewWishlistController(users, products), cfg.JWTSecret)
	routes.ProductsRoute(app, productController.NewProductController(products, stores), cfg.JWTSecret)
	routes.StoreRoutes(app, storeController.NewStoreController(stores, products, logger), cfg.JWTSecret)
	routes.OrderRoutes(app, orderController.NewOrderController(svc, logger), cfg.JWTSecret)
}
