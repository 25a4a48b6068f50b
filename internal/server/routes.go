package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"playapp/internal/handlers"
	"playapp/internal/middlewares"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	r.Use(middlewares.CorsMiddleware(s.cfg.AllowedOrigins))
	r.Use(middlewares.RateLimit)
	r.Use(middlewares.NewPrometheusMiddleware().Instrument)

	ch := handlers.NewCommonHandler(s.db, s.store)
	r.HandleFunc("/", ch.HelloWorldHandler)
	r.HandleFunc("/health", ch.HealthHandler)
	r.Handle("/metrics", promhttp.Handler())

	s.registerAccountRoutes(r)
	s.registerPostRoutes(r)

	return r
}

func (s *Server) registerAccountRoutes(r *mux.Router) {
	ah := handlers.NewAccountHandler(s.accountService)
	th := handlers.NewAuthHandler(s.authService)
	auth := middlewares.AuthMiddleware([]byte(s.cfg.JWTSecret))

	r.HandleFunc("/api/register", ah.Register).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/token", th.Token).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/verify-otp", ah.VerifyOTP).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/resend-otp", ah.ResendOTP).Methods("POST", "OPTIONS")
	r.Handle("/api/me", auth(http.HandlerFunc(ah.Me))).Methods("GET", "OPTIONS")

	// Registered before the {provider} wildcard so it is not captured by it.
	r.HandleFunc("/api/auth/error", th.AuthError).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/auth/{provider}", th.ProviderAuth).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/auth/{provider}/callback", th.ProviderCallback).Methods("GET", "OPTIONS")
}

func (s *Server) registerPostRoutes(r *mux.Router) {
	ph := handlers.NewPostHandler(s.postService)

	r.HandleFunc("/api/posts", ph.ListPosts).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/posts", ph.CreatePost).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/posts/{id}", ph.GetPost).Methods("GET", "OPTIONS")
}
