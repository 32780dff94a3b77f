package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Ashiksyedmuhammad/React-User-Management/internal/auth"
	"github.com/Ashiksyedmuhammad/React-User-Management/internal/service"
	"github.com/Ashiksyedmuhammad/React-User-Management/pkg/health"
	"github.com/Ashiksyedmuhammad/React-User-Management/pkg/middleware"
)

// NewRouter creates a chi router with all portal routes registered.
func NewRouter(
	userService *service.UserService,
	jwtManager *auth.JWTManager,
	healthHandler *health.Handler,
	logger *slog.Logger,
	corsConfig middleware.CORSConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(corsConfig))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Tracing("portal"))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("portal"))

	// Health check and metrics endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Token validator bridging to the JWT manager. Expiry errors pass through
	// unwrapped so the auth middleware can map them to 401 instead of 403.
	tokenValidator := func(token string) (*middleware.Claims, error) {
		claims, err := jwtManager.ValidateAccessToken(token)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{
			UserID:  claims.UserID,
			IsAdmin: claims.IsAdmin,
		}, nil
	}

	authed := middleware.Auth(tokenValidator)
	requestLogger := middleware.RequestLogger(logger)

	authHandler := NewAuthHandler(userService, logger)
	userHandler := NewUserHandler(userService, logger)
	adminHandler := NewAdminHandler(userService, logger)

	r.Route("/api/auth", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/refreshToken", authHandler.RefreshToken)

		r.With(authed, requestLogger).Get("/user", authHandler.GetProfile)
	})

	r.Route("/api/user", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(authed)
		r.Use(requestLogger)

		r.Put("/editUser", userHandler.EditProfile)
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(authed)
		r.Use(middleware.RequireAdmin())
		r.Use(requestLogger)

		r.Get("/users", adminHandler.ListUsers)
		r.Put("/editUser/{userId}", adminHandler.EditUser)
		r.Delete("/deleteUser/{userId}", adminHandler.DeleteUser)
	})

	return r
}
