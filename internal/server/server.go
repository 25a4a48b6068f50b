package server

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"playapp/internal/cache"
	"playapp/internal/config"
	"playapp/internal/database"
	"playapp/internal/repositories"
	"playapp/internal/services"
)

type Server struct {
	cfg        *config.Config
	httpServer *http.Server
	db         database.Service
	store      cache.Store

	accountService services.AccountService
	authService    services.AuthService
	otpService     services.OTPService
	postService    services.PostService

	sweeperCancel context.CancelFunc
}

func NewServer() (*Server, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	db, err := database.New(cfg.MongoURI, cfg.MongoName)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	store := cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.CacheTTL)

	userRepo := repositories.NewUserRepository(db)
	otpRepo := repositories.NewOTPRepository(db)
	postRepo := repositories.NewPostRepository(db)

	emailService := services.NewEmailService(cfg)
	otpService := services.NewOTPService(otpRepo, userRepo, emailService, cfg)

	s := &Server{
		cfg:            cfg,
		db:             db,
		store:          store,
		otpService:     otpService,
		accountService: services.NewAccountService(userRepo, otpService, cfg),
		authService:    services.NewAuthService(userRepo, otpService, cfg),
		postService:    services.NewPostService(postRepo, store),
	}

	services.InitializeGoth(cfg)

	sweeperCtx, cancel := context.WithCancel(context.Background())
	s.sweeperCancel = cancel
	otpService.StartSweeper(sweeperCtx)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s, nil
}

func (s *Server) Start() error {
	log.Info().Int("port", s.cfg.Port).Msg("Starting server")
	return s.httpServer.ListenAndServe()
}

func (s *Server) GracefulShutdown(done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Info().Msg("Shutting down gracefully, press Ctrl+C again to force")
	stop()

	s.sweeperCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown with error")
	}

	if err := s.db.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to disconnect from MongoDB")
	}

	log.Info().Msg("Server exiting")
	done <- true
}
