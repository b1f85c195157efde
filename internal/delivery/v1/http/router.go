package http

import (
	_ "github.com/DRSN-tech/storefront/docs" // swagger спецификация
	"github.com/DRSN-tech/storefront/internal/cfg"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(s *Services, config *cfg.Config) {
	r.router.Use(
		middleware.RequestID,
		middleware.Recoverer,
		requestLogger(r.logger),
		cors.New(cors.Options{
			AllowedOrigins:   config.Http.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Authorization", "Content-Type"},
			AllowCredentials: true,
		}).Handler,
		sessionMiddleware(config.Redis.CartTTL, config.Http.SecureCookies),
		identityMiddleware(s.Auth, r.logger),
	)

	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	NewPagesHandler(config.Pages.StaticDir, r.logger).register(r.router)

	limiter := newClientLimiter(config.RateLimit.CheckoutPerMinute, config.RateLimit.CheckoutBurst)

	r.router.Route("/api/v1", func(v1 chi.Router) {
		registerProductRoutes(v1, NewProductHandler(s.Catalog, r.logger))
		registerCartRoutes(v1, NewCartHandler(s.Cart, s.Stream, r.logger))
		registerCheckoutRoutes(v1, NewCheckoutHandler(s.Checkout, r.logger), limiter)
		registerAuthRoutes(v1, NewAuthHandler(s.Auth, r.logger, config.Http.SecureCookies))
		registerAdminRoutes(v1, NewAdminHandler(s.Admin, r.logger))
	})
}

func registerProductRoutes(router chi.Router, h *ProductHandler) {
	router.Route("/products", func(pr chi.Router) {
		pr.Get("/", h.listProducts)
		pr.Get("/{id}", h.getProduct)
	})
}

func registerCartRoutes(router chi.Router, h *CartHandler) {
	router.Route("/cart", func(cr chi.Router) {
		cr.Get("/", h.getCart)
		cr.Delete("/", h.clearCart)
		cr.Get("/ws", h.streamCart)
		cr.Post("/items", h.addItem)
		cr.Patch("/items/{productID}", h.updateQuantity)
		cr.Delete("/items/{productID}", h.removeItem)
	})
}

func registerCheckoutRoutes(router chi.Router, h *CheckoutHandler, limiter *clientLimiter) {
	router.Route("/checkout", func(cr chi.Router) {
		cr.Get("/", h.quote)
		cr.With(limiter.middleware).Post("/", h.placeOrder)
	})
}

func registerAuthRoutes(router chi.Router, h *AuthHandler) {
	router.Route("/auth", func(ar chi.Router) {
		ar.Use(requireAuth)
		ar.Get("/me", h.me)
		ar.Post("/sign-out", h.signOut)
	})
}

func registerAdminRoutes(router chi.Router, h *AdminHandler) {
	router.Route("/admin/products", func(ar chi.Router) {
		ar.Use(requireAdmin)
		ar.Get("/", h.listProducts)
		ar.Post("/", h.createProduct)
		ar.Patch("/{id}", h.updateProduct)
		ar.Delete("/{id}", h.deleteProduct)
		ar.Post("/{id}/image", h.uploadImage)
	})
}
