package http

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/kawa-mspr/auth-service/internal/auth"
	"github.com/kawa-mspr/auth-service/internal/config"
	"github.com/kawa-mspr/auth-service/internal/httputil"
	"github.com/kawa-mspr/auth-service/internal/logging"
	"github.com/kawa-mspr/auth-service/internal/user"
)

// NewRouter creates and configures the HTTP router.
func NewRouter(cfg *config.Config, authHandler *auth.Handler, userHandler *user.Handler, authMiddleware *auth.Middleware, logger *logging.Logger) *chi.Mux {
	r := chi.NewRouter()

	// CORS must run before anything writes a response
	if len(cfg.Server.TrustedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.Server.TrustedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Use(SecurityHeaders)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(logger))
	r.Use(middleware.Compress(5))

	r.Get("/health", handleHealth)

	// Swagger UI only exists in development builds
	if cfg.Server.IsDevelopment() {
		log.Println("Swagger UI enabled at /swagger/*")
		r.Get("/swagger/*", httpSwagger.WrapHandler)
	}

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/verify", authHandler.Verify)
	})

	r.Route("/users", func(r chi.Router) {
		r.Use(authMiddleware.RequireAuth)
		r.Get("/", userHandler.List)
		r.Get("/{id}", userHandler.GetByID)
		r.Get("/email/{email}", userHandler.GetByEmail)
		r.Put("/{id}", userHandler.Update)
		r.Put("/{id}/password", userHandler.UpdatePassword)
		r.Delete("/{id}", userHandler.Delete)
	})

	return r
}

// handleHealth is a simple health check endpoint
// @Summary      Health check
// @Description  Check if the API is running
// @Tags         health
// @Produce      json
// @Success      200 {object} httputil.Envelope
// @Router       /health [get]
func handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.RespondSuccess(w, "Service is running", nil, http.StatusOK)
}
