package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"pizzapalace/internal/cart"
	"pizzapalace/internal/catalog"
	"pizzapalace/internal/checkout"
	"pizzapalace/internal/domain"
	"pizzapalace/internal/logger"
	"pizzapalace/internal/profile"
	"pizzapalace/internal/validation"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type CatalogService interface {
	LoadProducts(ctx context.Context, f catalog.Filter) catalog.Result
	Product(ctx context.Context, id int64) (*domain.Product, error)
	FeaturedProducts(ctx context.Context) catalog.Result
	LoadTestimonials(ctx context.Context) ([]domain.Testimonial, bool)
	React(ctx context.Context, id string, r domain.Reaction) (*domain.Testimonial, error)
}

type CartProvider interface {
	Get(ctx context.Context, sessionID string) *cart.Store
}

type CheckoutService interface {
	Summary(lines []domain.CartLine) checkout.Totals
	Precheck(user *domain.User, store checkout.CartStore) error
	Submit(ctx context.Context, user *domain.User, store checkout.CartStore, form checkout.Form) (*domain.Order, error)
	Reorder(ctx context.Context, user *domain.User, orderID string, store checkout.CartStore) (cart.Snapshot, error)
	History(ctx context.Context, user *domain.User) ([]domain.Order, error)
}

type ProfileService interface {
	Get(ctx context.Context, u domain.User) (*domain.Profile, error)
	Update(ctx context.Context, u domain.User, in profile.Input) (*domain.Profile, error)
}

// Options tunes transport behaviour. SecureCookies marks the cart cookie
// Secure and should be set whenever the API is served over TLS.
type Options struct {
	CORSOrigins   []string
	SecureCookies bool
}

// Deps holds the services the routes call.
type Deps struct {
	Catalog  CatalogService
	Auth     AuthService
	Carts    CartProvider
	Checkout CheckoutService
	Profiles ProfileService
}

func (d Deps) validate() error {
	switch {
	case d.Catalog == nil:
		return errors.New("httpserver: catalog service required")
	case d.Auth == nil:
		return errors.New("httpserver: auth service required")
	case d.Carts == nil:
		return errors.New("httpserver: cart provider required")
	case d.Checkout == nil:
		return errors.New("httpserver: checkout service required")
	case d.Profiles == nil:
		return errors.New("httpserver: profile service required")
	}
	return nil
}

// buildRouter wires routes for the API.
func buildRouter(log *zap.Logger, db *pgxpool.Pool, deps Deps, opts Options) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	log = logger.OrNop(log)
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validation.Register(v)
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(logger.GinMiddleware(log), logger.Recovery(log))
	if len(opts.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     opts.CORSOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
			AllowHeaders:     []string{"Authorization", "Content-Type", cartSessionHeader},
			ExposeHeaders:    []string{cartSessionHeader, "Location"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	h := &handlers{deps: deps, logger: log.Named("http")}
	api := router.Group("/api", authGate(deps.Auth), cartSession(opts.SecureCookies))
	{
		api.GET("/menu", h.listMenu)
		api.GET("/menu/featured", h.featuredMenu)
		api.GET("/testimonials", h.listTestimonials)
		api.POST("/testimonials/:id/reactions", h.react)

		api.POST("/auth/signup", h.signUp)
		api.POST("/auth/signin", h.signIn)
		api.POST("/auth/signout", h.signOut)
		api.GET("/auth/me", requireAuth(), h.me)

		api.GET("/cart", h.getCart)
		api.POST("/cart/items", requireAuth(), h.addItem)
		api.PATCH("/cart/items/:productId", h.updateItem)
		api.DELETE("/cart/items/:productId", h.removeItem)
		api.DELETE("/cart", h.clearCart)

		api.GET("/checkout/summary", h.checkoutSummary)
		api.POST("/checkout", h.submitCheckout)

		api.GET("/profile", requireAuth(), h.getProfile)
		api.PUT("/profile", requireAuth(), h.updateProfile)
		api.GET("/orders", requireAuth(), h.listOrders)
		api.POST("/orders/:id/reorder", requireAuth(), h.reorder)
	}

	return router, nil
}

type handlers struct {
	deps   Deps
	logger *zap.Logger
}

func (h *handlers) cart(c *gin.Context) *cart.Store {
	return h.deps.Carts.Get(c.Request.Context(), cartSessionID(c))
}
