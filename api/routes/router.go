package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/luxenest/luxenest-backend/api/controllers"
	"github.com/luxenest/luxenest-backend/api/middleware"
	"github.com/luxenest/luxenest-backend/pkg/config"
	"github.com/luxenest/luxenest-backend/pkg/logger"
	"github.com/luxenest/luxenest-backend/pkg/metrics"
	"github.com/luxenest/luxenest-backend/pkg/redis"
)

// Controllers bundles every handler group the router mounts.
type Controllers struct {
	Health          *controllers.HealthController
	Auth            *controllers.AuthController
	Products        *controllers.ProductsController
	Categories      *controllers.CategoriesController
	Reviews         *controllers.ReviewsController
	Cart            *controllers.CartController
	Orders          *controllers.OrdersController
	Users           *controllers.UsersController
	AdminProducts   *controllers.AdminProductsController
	AdminCategories *controllers.AdminCategoriesController
	AdminOrders     *controllers.AdminOrdersController
	AdminReviews    *controllers.AdminReviewsController
	AdminUsers      *controllers.AdminUsersController
	AdminDashboard  *controllers.AdminDashboardController
}

// NewRouter wires the middleware chain and mounts the public, customer, and
// admin route groups.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient *redis.Client,
	httpMetrics *metrics.HTTPMetrics,
	gatherer prometheus.Gatherer,
	c Controllers,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", c.Health.Live())
		r.Get("/ready", c.Health.Ready())
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", c.Auth.Register())
			r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", c.Auth.Login())
			r.Post("/verify-email", c.Auth.VerifyEmail())
			r.Post("/forgot-password", c.Auth.ForgotPassword())
			r.Post("/reset-password", c.Auth.ResetPassword())
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", c.Products.List())
			r.Get("/{productRef}", c.Products.Get())
			r.Get("/{productRef}/reviews", c.Reviews.ListForProduct())
		})
		r.Get("/categories", c.Categories.List())

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", c.Cart.Get())
				r.Post("/items", c.Cart.AddItem())
				r.Put("/items/{itemID}", c.Cart.UpdateItem())
				r.Delete("/items/{itemID}", c.Cart.RemoveItem())
				r.Delete("/", c.Cart.Clear())
			})

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", c.Orders.Checkout())
				r.Get("/", c.Orders.List())
				r.Get("/{orderID}", c.Orders.Get())
				r.Patch("/{orderID}/cancel", c.Orders.Cancel())
			})

			r.Post("/reviews", c.Reviews.Create())

			r.Route("/users/me", func(r chi.Router) {
				r.Get("/", c.Users.Profile())
				r.Put("/", c.Users.UpdateProfile())
				r.Put("/preferences", c.Users.UpdatePreferences())
				r.Route("/addresses", func(r chi.Router) {
					r.Get("/", c.Users.ListAddresses())
					r.Post("/", c.Users.AddAddress())
					r.Put("/{addressID}", c.Users.UpdateAddress())
					r.Delete("/{addressID}", c.Users.DeleteAddress())
				})
				r.Route("/wishlist", func(r chi.Router) {
					r.Get("/", c.Users.ListWishlist())
					r.Post("/", c.Users.AddToWishlist())
					r.Delete("/{productID}", c.Users.RemoveFromWishlist())
				})
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.RequireRole("admin", logg))

			r.Get("/dashboard", c.AdminDashboard.Overview())

			r.Route("/products", func(r chi.Router) {
				r.Get("/", c.AdminProducts.List())
				r.Post("/", c.AdminProducts.Create())
				r.Post("/import", c.AdminProducts.Import())
				r.Put("/{productID}", c.AdminProducts.Update())
				r.Delete("/{productID}", c.AdminProducts.Delete())
			})

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", c.AdminCategories.List())
				r.Post("/", c.AdminCategories.Create())
				r.Put("/{categoryID}", c.AdminCategories.Update())
				r.Delete("/{categoryID}", c.AdminCategories.Delete())
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", c.AdminOrders.List())
				r.Get("/{orderID}", c.AdminOrders.Get())
				r.Patch("/{orderID}/status", c.AdminOrders.UpdateStatus())
			})

			r.Route("/reviews", func(r chi.Router) {
				r.Get("/", c.AdminReviews.List())
				r.Put("/{reviewID}/approval", c.AdminReviews.SetApproval())
				r.Delete("/{reviewID}", c.AdminReviews.Delete())
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", c.AdminUsers.List())
				r.Put("/{userID}/role", c.AdminUsers.SetRole())
			})
		})
	})

	return r
}
