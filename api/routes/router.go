package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/storefront-backend/api/controllers"
	"github.com/angelmondragon/storefront-backend/api/middleware"
	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/internal/auth"
	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/internal/categories"
	"github.com/angelmondragon/storefront-backend/internal/checkout"
	"github.com/angelmondragon/storefront-backend/internal/orders"
	product "github.com/angelmondragon/storefront-backend/internal/products"
	"github.com/angelmondragon/storefront-backend/internal/tenant"
	"github.com/angelmondragon/storefront-backend/internal/vendors"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	"github.com/angelmondragon/storefront-backend/pkg/money"
	"github.com/angelmondragon/storefront-backend/pkg/websession"
)

type tenantResolver interface {
	Resolve(ctx context.Context, host string) (*tenant.Context, error)
}

type rateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// Params carries everything the HTTP surface is built from.
type Params struct {
	Config    *config.Config
	Logger    *logger.Logger
	View      *responses.View
	Sessions  *websession.Store
	Formatter *money.Formatter

	// Pingers are probed by /health/ready, keyed by dependency name.
	Pingers     map[string]controllers.Pinger
	RateLimiter rateLimiter
	Tenants     tenantResolver
	Metrics     *metrics.StorefrontMetrics
	Gatherer    prometheus.Gatherer

	Auth       auth.Service
	Signup     auth.SignupService
	Vendors    vendors.Service
	Catalog    catalog.Service
	Carts      cart.Service
	Checkout   checkout.Service
	Products   product.Service
	Categories categories.Service
	Orders     orders.Service
}

func NewRouter(p Params) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg, p.View),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)
	r.NotFound(p.View.NotFound)

	r.Get("/healthz", controllers.HealthLive(cfg))
	r.Get("/health/ready", controllers.HealthReady(cfg, p.Pingers, logg))
	if p.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(
			middleware.Tenant(p.Tenants, p.Metrics, p.View, logg),
			middleware.CSRF(middleware.CSRFOptions{
				Enabled:        cfg.CSRF.Enabled,
				Key:            csrfKey(cfg.Session.AuthKey),
				Secure:         cfg.Session.Secure,
				TrustedOrigins: cfg.CSRF.TrustedOrigins,
			}, p.View, logg),
			middleware.VendorSession(p.Auth, p.Sessions, logg),
		)

		r.Get("/", controllers.Home(p.Vendors, p.View, logg))

		storefront := controllers.StorefrontDeps{
			Vendors:  p.Vendors,
			Catalog:  p.Catalog,
			Carts:    p.Carts,
			Sessions: p.Sessions,
			View:     p.View,
			Logger:   logg,
		}
		r.Route("/store/{vendorSlug}", func(r chi.Router) {
			r.Get("/", controllers.Storefront(storefront))
			r.Get("/products/{productID}", controllers.ProductDetail(storefront))
		})

		cartDeps := controllers.CartDeps{
			Vendors:   p.Vendors,
			Carts:     p.Carts,
			Sessions:  p.Sessions,
			View:      p.View,
			Formatter: p.Formatter,
			Logger:    logg,
		}
		checkoutDeps := controllers.CheckoutDeps{
			Vendors:  p.Vendors,
			Carts:    p.Carts,
			Checkout: p.Checkout,
			Sessions: p.Sessions,
			View:     p.View,
			Logger:   logg,
		}
		r.Route("/cart/{vendorSlug}", func(r chi.Router) {
			r.Get("/", controllers.CartView(cartDeps))
			r.Get("/count", controllers.CartCount(cartDeps))
			r.Post("/add/{productID}", controllers.CartAdd(cartDeps))
			r.Post("/update/{itemID}", controllers.CartUpdate(cartDeps))
			r.Post("/remove/{itemID}", controllers.CartRemove(cartDeps))
			r.Get("/checkout", controllers.CheckoutForm(checkoutDeps))
			r.Post("/checkout", controllers.CheckoutSubmit(checkoutDeps))
			r.Post("/checkout/whatsapp", controllers.CheckoutWhatsApp(checkoutDeps))
		})

		authDeps := controllers.VendorAuthDeps{
			Auth:     p.Auth,
			Signup:   p.Signup,
			Sessions: p.Sessions,
			View:     p.View,
			Logger:   logg,
		}
		signupPolicy := middleware.NewFormRateLimitPolicy(
			"signup",
			cfg.AuthRateLimit.SignupWindow,
			cfg.AuthRateLimit.SignupIPLimit,
			"username",
			cfg.AuthRateLimit.SignupUsernameLimit,
		)
		loginPolicy := middleware.NewFormRateLimitPolicy(
			"login",
			cfg.AuthRateLimit.LoginWindow,
			cfg.AuthRateLimit.LoginIPLimit,
			"username",
			cfg.AuthRateLimit.LoginUsernameLimit,
		)

		r.Route("/vendors", func(r chi.Router) {
			r.Get("/signup", controllers.SignupForm(authDeps))
			r.With(formRateLimit(signupPolicy, p)).Post("/signup", controllers.Signup(authDeps))
			r.Get("/login", controllers.LoginForm(authDeps))
			r.With(formRateLimit(loginPolicy, p)).Post("/login", controllers.Login(authDeps))
			r.With(middleware.NoStore).Get("/logout", controllers.Logout(authDeps))
			r.With(middleware.NoStore).Post("/logout", controllers.Logout(authDeps))

			dashboard := controllers.DashboardDeps{
				Vendors:    p.Vendors,
				Products:   p.Products,
				Categories: p.Categories,
				Orders:     p.Orders,
				Sessions:   p.Sessions,
				View:       p.View,
				Logger:     logg,
			}
			r.Route("/dashboard", func(r chi.Router) {
				r.Use(middleware.RequireVendor, middleware.NoStore)

				r.Get("/", controllers.Dashboard(dashboard))
				r.Get("/profile", controllers.ProfileForm(dashboard))
				r.Post("/profile", controllers.ProfileUpdate(dashboard))

				r.Route("/products", func(r chi.Router) {
					r.Get("/", controllers.DashboardProducts(dashboard))
					r.Get("/new", controllers.ProductNewForm(dashboard))
					r.Post("/new", controllers.ProductCreate(dashboard))
					r.Get("/{productID}/edit", controllers.ProductEditForm(dashboard))
					r.Post("/{productID}/edit", controllers.ProductUpdate(dashboard))
					r.Get("/{productID}/delete", controllers.ProductDeleteConfirm(dashboard))
					r.Post("/{productID}/delete", controllers.ProductDelete(dashboard))
				})

				r.Route("/orders", func(r chi.Router) {
					r.Get("/", controllers.DashboardOrders(dashboard))
					r.Get("/{orderID}", controllers.DashboardOrder(dashboard))
					r.Post("/{orderID}/status", controllers.DashboardOrderStatus(dashboard))
				})
			})
		})
	})

	return r
}

// formRateLimit applies policy when a limiter is configured.
func formRateLimit(policy middleware.FormRateLimitPolicy, p Params) func(http.Handler) http.Handler {
	if p.RateLimiter == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return middleware.FormRateLimit(policy, p.RateLimiter, p.View, p.Logger)
}

// csrfKey derives the 32-byte token key from the session auth key.
func csrfKey(authKey string) []byte {
	key := []byte(authKey)
	if len(key) > 32 {
		key = key[:32]
	}
	return key
}
