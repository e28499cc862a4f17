package routes

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaheen-amjed/shodix-api/api/controllers"
	"github.com/shaheen-amjed/shodix-api/api/middleware"
	"github.com/shaheen-amjed/shodix-api/internal/auth"
	"github.com/shaheen-amjed/shodix-api/internal/cart"
	"github.com/shaheen-amjed/shodix-api/internal/conversations"
	"github.com/shaheen-amjed/shodix-api/internal/follows"
	"github.com/shaheen-amjed/shodix-api/internal/orders"
	"github.com/shaheen-amjed/shodix-api/internal/products"
	"github.com/shaheen-amjed/shodix-api/internal/stores"
	"github.com/shaheen-amjed/shodix-api/internal/users"
	"github.com/shaheen-amjed/shodix-api/pkg/config"
	"github.com/shaheen-amjed/shodix-api/pkg/logger"
	"github.com/shaheen-amjed/shodix-api/pkg/metrics"
	pkgredis "github.com/shaheen-amjed/shodix-api/pkg/redis"
)

// Params carries everything the HTTP surface is built from. Redis, Idempotency,
// Gatherer, HTTPMetrics and Uploads are optional.
type Params struct {
	Config *config.Config
	Logger *logger.Logger

	DB          controllers.Pinger
	Redis       controllers.Pinger
	Idempotency pkgredis.IdempotencyStore
	Gatherer    prometheus.Gatherer
	HTTPMetrics *metrics.HTTPMetrics
	Uploads     http.Handler

	Resolver      auth.Resolver
	Auth          auth.Service
	Register      auth.RegisterService
	Users         users.Service
	Stores        stores.Service
	Products      products.Service
	Cart          cart.Service
	Orders        orders.Service
	Conversations conversations.Service
	Follows       follows.Service
}

func NewRouter(p Params) http.Handler {
	cfg, logg := p.Config, p.Logger
	maxUpload := cfg.Media.MaxUploadBytes()

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID(logg),
		middleware.Recoverer(logg),
		middleware.Logging(logg),
		middleware.Metrics(p.HTTPMetrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readinessDeps(p)))
	})
	if p.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{}))
	}
	if p.Uploads != nil {
		prefix := "/" + strings.Trim(cfg.Media.PublicPrefix, "/")
		if prefix == "/" {
			prefix = "/uploads"
		}
		r.Method(http.MethodGet, prefix+"/*", p.Uploads)
	}

	// Public.
	r.Post("/user/register", controllers.UserRegister(p.Register, logg))
	r.Post("/store/register", controllers.StoreRegister(p.Register, maxUpload, logg))
	r.Post("/user/login", controllers.UserLogin(p.Auth, cfg.JWT, logg))
	r.Post("/store/login", controllers.StoreLogin(p.Auth, cfg.JWT, logg))
	r.Post("/logout", controllers.Logout(cfg.JWT))
	r.Get("/stores", controllers.StoreList(p.Stores, logg))
	r.Get("/store/{storeName}", controllers.StoreProfile(p.Stores, p.Follows, logg))
	r.Get("/product/{productID}", controllers.ProductGet(p.Products, logg))
	r.Get("/products", controllers.ProductList(p.Products, logg))
	r.Get("/products/store/{storeID}", controllers.ProductListByStore(p.Products, logg))
	r.Get("/follow", controllers.FollowCount(p.Follows, logg))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		// replay only once the principal's row has been resolved
		replay := middleware.Idempotency(p.Idempotency, cfg.Redis.IdempotencyTTL, logg)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequirePrincipal(p.Resolver, logg))
			r.Use(replay)
			r.Get("/me", controllers.Me(logg))
			r.Get("/store/{storeName}/is-owner", controllers.StoreIsOwner(p.Stores, logg))
			r.Get("/conversation/{storeName}/{username}", controllers.ConversationRead(p.Conversations, logg))
			r.Post("/conversation/{storeName}/{username}", controllers.ConversationAppend(p.Conversations, logg))
			r.Get("/inbox", controllers.Inbox(p.Conversations, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser(p.Resolver, logg))
			r.Use(replay)
			r.Patch("/user/update", controllers.UserUpdate(p.Users, logg))

			r.Post("/cart", controllers.CartAdd(p.Cart, logg))
			r.Get("/cart", controllers.CartList(p.Cart, logg))
			r.Patch("/cart", controllers.CartUpdate(p.Cart, logg))
			r.Delete("/cart", controllers.CartRemove(p.Cart, logg))

			r.Post("/order", controllers.OrderPlace(p.Orders, logg))
			r.Get("/orders", controllers.OrderListForUser(p.Orders, logg))

			r.Post("/follow", controllers.Follow(p.Follows, logg))
			r.Delete("/follow", controllers.Unfollow(p.Follows, logg))
			r.Get("/follow/status", controllers.FollowStatus(p.Follows, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireStore(p.Resolver, logg))
			r.Use(replay)
			r.Patch("/store/update", controllers.StoreUpdate(p.Stores, maxUpload, logg))

			r.Post("/product", controllers.ProductCreate(p.Products, maxUpload, logg))
			r.Patch("/product", controllers.ProductUpdate(p.Products, maxUpload, logg))
			r.Delete("/product", controllers.ProductDelete(p.Products, logg))

			r.Get("/order/store", controllers.OrderListForStore(p.Orders, logg))
			r.Post("/order/complete", controllers.OrderComplete(p.Orders, logg))
		})
	})

	return r
}

func readinessDeps(p Params) map[string]controllers.Pinger {
	deps := map[string]controllers.Pinger{}
	if p.DB != nil {
		deps["db"] = p.DB
	}
	if p.Redis != nil {
		deps["redis"] = p.Redis
	}
	return deps
}
