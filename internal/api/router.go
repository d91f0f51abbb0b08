package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rajat93105-cell/pbl-project/internal/api/handlers"
	"github.com/rajat93105-cell/pbl-project/internal/auth"
	"github.com/rajat93105-cell/pbl-project/internal/services"
	"github.com/rs/zerolog/log"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps holds everything the router wires into handlers.
type Deps struct {
	DB           Pinger
	Tokens       *auth.TokenManager
	Users        services.UserServiceProvider
	Products     services.ProductServiceProvider
	Wishlist     services.WishlistServiceProvider
	Analytics    services.AnalyticsServiceProvider
	Chat         services.ChatServiceProvider
	Uploads      services.UploadServiceProvider
	CORSOrigins  []string
	SecureCookie bool
}

// NewRouter creates and configures a new Chi router.
func NewRouter(d Deps) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	// Credentials cannot be combined with a wildcard origin.
	allowCredentials := true
	for _, o := range d.CORSOrigins {
		if o == "*" {
			allowCredentials = false
		}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: allowCredentials,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(d.Users, d.Tokens, d.SecureCookie)
	userHandler := handlers.NewUserHandler(d.Users)
	productHandler := handlers.NewProductHandler(d.Products)
	wishlistHandler := handlers.NewWishlistHandler(d.Wishlist)
	analyticsHandler := handlers.NewAnalyticsHandler(d.Analytics)
	chatHandler := handlers.NewChatHandler(d.Chat)
	uploadHandler := handlers.NewUploadHandler(d.Uploads)

	requireAuth := d.Tokens.Middleware(d.Users)

	r.Route("/api", func(r chi.Router) {
		r.Get("/", root)
		r.Get("/health", health(d.DB))

		// Public routes
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Get("/products", productHandler.List)
		r.Get("/products/categories", productHandler.Categories)
		r.Get("/products/conditions", productHandler.Conditions)
		r.Get("/products/user/{user_id}", productHandler.BySeller)
		r.Get("/products/{id}", productHandler.Get)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Get("/auth/me", authHandler.Me)
			r.Put("/users/profile", userHandler.UpdateProfile)

			r.Post("/products", productHandler.Create)
			r.Put("/products/{id}", productHandler.Update)
			r.Post("/products/{id}/mark-sold", productHandler.MarkSold)
			r.Delete("/products/{id}", productHandler.Delete)

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", wishlistHandler.List)
				r.Get("/check/{product_id}", wishlistHandler.Check)
				r.Post("/{product_id}", wishlistHandler.Add)
				r.Delete("/{product_id}", wishlistHandler.Remove)
			})

			r.Route("/analytics", func(r chi.Router) {
				r.Get("/overview", analyticsHandler.Overview)
				r.Get("/category-distribution", analyticsHandler.CategoryDistribution)
				r.Get("/monthly-sales", analyticsHandler.MonthlySales)
				r.Get("/top-products", analyticsHandler.TopProducts)
			})

			r.Post("/chat", chatHandler.Send)
			r.Get("/chat/history", chatHandler.History)

			r.Get("/cloudinary/signature", uploadHandler.Signature)
		})
	})

	return r
}

func root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": "MUJ Campus Marketplace API",
		"version": "1.0.0",
	})
}

func health(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status, code := "healthy", http.StatusOK
		if err := db.PingContext(ctx); err != nil {
			log.Error().Err(err).Msg("Health check failed")
			status, code = "unhealthy", http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]string{"status": status})
	}
}

// requestLogger writes one zerolog line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			log.Info().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("remote_addr", r.RemoteAddr).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Msg("HTTP request")
		}()
		next.ServeHTTP(ww, r)
	})
}
