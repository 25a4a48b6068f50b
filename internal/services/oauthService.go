package services

import (
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/google"
	"github.com/rs/zerolog/log"

	"playapp/internal/config"
)

const sessionMaxAge = 86400 * 30

// InitializeGoth wires the Google provider for the external-auth login path.
// Call once, before the router starts serving.
func InitializeGoth(cfg *config.Config) {
	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" {
		log.Warn().Msg("Google OAuth credentials not configured, external auth disabled")
		return
	}

	store := sessions.NewCookieStore([]byte(cfg.SessionKey))
	store.MaxAge(sessionMaxAge)
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.SameSite = http.SameSiteLaxMode

	gothic.Store = store

	goth.UseProviders(
		google.New(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleCallbackURL),
	)
	log.Info().Msg("Goth providers initialized")
}
