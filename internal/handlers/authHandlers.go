package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/markbates/goth/gothic"
	"github.com/rs/zerolog/log"

	"playapp/internal/models"
	"playapp/internal/services"
	"playapp/internal/utils"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Token is the credential login endpoint. Failures carry a structured
// {message, email?, code} body; the HTTP status mirrors the embedded code.
func (a *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	var creds models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		log.Error().Err(err).Msg("Invalid request body for Token")
		utils.SendJSONError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if creds.Username == "" {
		utils.SendJSONError(w, "Username required.", http.StatusBadRequest)
		return
	}
	if creds.Password == "" {
		utils.SendJSONError(w, "Password required.", http.StatusBadRequest)
		return
	}

	identifier := strings.ToLower(strings.TrimSpace(creds.Username))

	pair, err := a.authService.Authenticate(r.Context(), identifier, creds.Password, false)
	if err != nil {
		a.respondAuthFailure(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, pair)
}

func (a *AuthHandler) respondAuthFailure(w http.ResponseWriter, err error) {
	var authErr *models.AuthError
	if errors.As(err, &authErr) {
		utils.RespondWithJSON(w, authErr.HTTPStatus(), authErr)
		return
	}
	if errors.Is(err, services.ErrOTPDelivery) {
		utils.SendJSONError(w, "Could not send verification code. Please try again.", http.StatusBadRequest)
		return
	}
	log.Error().Err(err).Msg("Authentication failed with unexpected error")
	utils.SendJSONError(w, "Unexpected Error.", http.StatusBadRequest)
}

func (a *AuthHandler) ProviderAuth(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	provider := vars["provider"]

	if provider == "" {
		log.Error().Msg("Provider not specified in URL")
		http.Error(w, "Provider not specified", http.StatusBadRequest)
		return
	}

	log.Info().Str("provider", provider).Msg("Initiating authentication with provider")

	gothic.BeginAuthHandler(w, r)
}

// ProviderCallback completes the external-auth flow. The federated email is
// fed into the same decision engine with the password check bypassed, so an
// unverified account still gets the inactive treatment.
func (a *AuthHandler) ProviderCallback(w http.ResponseWriter, r *http.Request) {
	gothUser, err := gothic.CompleteUserAuth(w, r)
	if err != nil {
		log.Error().Err(err).Msg("Error completing user authentication")
		http.Redirect(w, r, "/api/auth/error", http.StatusTemporaryRedirect)
		return
	}

	identifier := strings.ToLower(strings.TrimSpace(gothUser.Email))

	pair, err := a.authService.Authenticate(r.Context(), identifier, "", true)
	if err != nil {
		a.respondAuthFailure(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, pair)
}

func (a *AuthHandler) AuthError(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "Authentication failed. Please try again.", http.StatusBadRequest)
}
