package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/storefront-backend/api/controllers"
	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/api/routes"
	"github.com/angelmondragon/storefront-backend/internal/auth"
	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/internal/categories"
	"github.com/angelmondragon/storefront-backend/internal/checkout"
	"github.com/angelmondragon/storefront-backend/internal/orders"
	product "github.com/angelmondragon/storefront-backend/internal/products"
	"github.com/angelmondragon/storefront-backend/internal/tenant"
	"github.com/angelmondragon/storefront-backend/internal/users"
	"github.com/angelmondragon/storefront-backend/internal/vendors"
	"github.com/angelmondragon/storefront-backend/pkg/auth/session"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	"github.com/angelmondragon/storefront-backend/pkg/migrate"
	"github.com/angelmondragon/storefront-backend/pkg/money"
	"github.com/angelmondragon/storefront-backend/pkg/redis"
	"github.com/angelmondragon/storefront-backend/pkg/websession"
	"github.com/angelmondragon/storefront-backend/web"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "storefront stopped", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, dbClient.Close()) }()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, redisClient.Close()) }()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return err
	}
	cookies, err := websession.NewStore(cfg.Session)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	storefrontMetrics := metrics.NewStorefrontMetrics(registry)
	formatter := money.NewFormatter(cfg.Storefront.CurrencySymbol)

	conn := dbClient.DB()
	vendorRepo := vendors.NewRepository(conn)
	vendorService, err := vendors.NewService(vendorRepo)
	if err != nil {
		return err
	}
	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(conn),
		VendorRepo:     vendorRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		return err
	}
	signupService, err := auth.NewSignupService(auth.SignupServiceParams{DB: dbClient, PasswordConfig: cfg.Password})
	if err != nil {
		return err
	}
	resolver, err := tenant.NewResolver(vendorRepo, cfg.Tenant.BaseDomain, cfg.Tenant.MinLabels)
	if err != nil {
		return err
	}
	catalogService, err := catalog.NewService(catalog.NewRepository(conn), cfg.Storefront.PageSize, cfg.Storefront.WhatsAppBaseURL)
	if err != nil {
		return err
	}
	cartRepo := cart.NewRepository(conn)
	cartService, err := cart.NewService(cartRepo, dbClient, storefrontMetrics)
	if err != nil {
		return err
	}
	ordersRepo := orders.NewRepository(conn)
	checkoutService, err := checkout.NewService(checkout.Params{
		Tx:              dbClient,
		CartRepo:        cartRepo,
		OrdersRepo:      ordersRepo,
		Formatter:       formatter,
		WhatsAppBaseURL: cfg.Storefront.WhatsAppBaseURL,
		Metrics:         storefrontMetrics,
	})
	if err != nil {
		return err
	}
	ordersService, err := orders.NewService(ordersRepo)
	if err != nil {
		return err
	}
	categoryService, err := categories.NewService(categories.NewRepository(conn), dbClient)
	if err != nil {
		return err
	}
	productService, err := product.NewService(product.NewRepository(conn), dbClient, categoryService)
	if err != nil {
		return err
	}

	view := responses.NewView(responses.ViewOptions{
		Templates: web.Templates,
		Formatter: formatter,
		Flashes:   cookies,
		Reload:    cfg.Storefront.TemplatesReload,
	})

	handler := routes.NewRouter(routes.Params{
		Config:    cfg,
		Logger:    logg,
		View:      view,
		Sessions:  cookies,
		Formatter: formatter,
		Pingers: map[string]controllers.Pinger{
			"db":    dbClient,
			"redis": redisClient,
		},
		RateLimiter: redisClient,
		Tenants:     resolver,
		Metrics:     storefrontMetrics,
		Gatherer:    registry,
		Auth:        authService,
		Signup:      signupService,
		Vendors:     vendorService,
		Catalog:     catalogService,
		Carts:       cartService,
		Checkout:    checkoutService,
		Products:    productService,
		Categories:  categoryService,
		Orders:      ordersService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logCtx := logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"addr":        addr,
		"base_domain": cfg.Tenant.BaseDomain,
	})
	logg.Info(logCtx, "starting storefront server")

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down storefront server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
