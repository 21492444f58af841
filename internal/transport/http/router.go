package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/go-clinic-api/internal/config"
	"github.com/go-clinic-api/internal/transport/http/handler"
	appmiddleware "github.com/go-clinic-api/internal/transport/http/middleware"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	if cfg.TrustProxy {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authMw := appmiddleware.Auth(deps.JWTProvider)

	// 5 requests/second, burst of 10, on endpoints that send mail or check passwords.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(deps.AuthService, deps.SessionService)
	userH := handler.NewUserHandler(deps.UserService)
	apptH := handler.NewAppointmentHandler(deps.AppointmentService)

	r.Get("/health", healthH.Check)

	r.Route("/api/auth", func(r chi.Router) {
		r.With(sensitiveRL.Limit).Post("/send-registration-otp", authH.SendRegistrationOTP)
		r.Post("/register", authH.Register)
		r.With(sensitiveRL.Limit).Post("/login", authH.Login)
		r.With(sensitiveRL.Limit).Post("/forgot-password", authH.ForgotPassword)
		r.Post("/reset-password", authH.ResetPassword)

		r.With(authMw).Get("/users", userH.List)
	})

	r.Route("/api/appointments", func(r chi.Router) {
		r.Post("/", apptH.Create)

		r.Group(func(r chi.Router) {
			r.Use(authMw)
			r.Get("/", apptH.List)
			r.Get("/{id}", apptH.Get)
			r.Put("/{id}", apptH.Update)
			r.Delete("/{id}", apptH.Delete)
		})
	})

	return r
}
