package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"playapp/internal/middlewares"
	"playapp/internal/models"
	"playapp/internal/services"
	"playapp/internal/utils"
)

type AccountHandler struct {
	accountService services.AccountService
}

func NewAccountHandler(accountService services.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// Register creates a new account. With otp_required the account stays
// inactive until the emailed code is verified.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error().Err(err).Msg("Invalid request body for Register")
		utils.SendJSONError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if req.RePassword == "" || req.Password != req.RePassword {
		utils.SendJSONError(w, "Passwords do not match", http.StatusBadRequest)
		return
	}

	_, message, err := h.accountService.Register(r.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrOTPDelivery) {
			utils.SendJSONError(w, "Could not send verification code. Please try again.", http.StatusBadRequest)
			return
		}
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, map[string]string{"message": message})
}

// VerifyOTP consumes a submitted code and activates the matching account.
func (h *AccountHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error().Err(err).Msg("Invalid request body for VerifyOTP")
		utils.SendJSONError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Email == "" {
		utils.SendJSONError(w, "Email required.", http.StatusBadRequest)
		return
	}
	if req.OTP == "" {
		utils.SendJSONError(w, "OTP required.", http.StatusBadRequest)
		return
	}

	if err := h.accountService.VerifyAccount(r.Context(), req.Email, req.OTP); err != nil {
		if errors.Is(err, services.ErrOTPInvalid) {
			utils.SendJSONError(w, "Invalid or expired OTP. Please request a new one.", http.StatusBadRequest)
			return
		}
		if errors.Is(err, services.ErrVerificationPurpose) {
			utils.SendJSONError(w, "This OTP cannot be used for account verification.", http.StatusBadRequest)
			return
		}
		utils.SendJSONError(w, "Unexpected Error.", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Account verified successfully."})
}

// Me returns the profile of the authenticated account.
func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(middlewares.ClaimsContextKey).(*utils.Claims)
	if !ok {
		utils.SendJSONError(w, "User not found in context", http.StatusUnauthorized)
		return
	}

	userID, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		utils.SendJSONError(w, "Invalid user ID format", http.StatusUnauthorized)
		return
	}

	user, err := h.accountService.Profile(r.Context(), userID)
	if err != nil {
		utils.SendJSONError(w, "User not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, user)
}

// ResendOTP reissues a verification code for an email address.
func (h *AccountHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var req models.ResendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error().Err(err).Msg("Invalid request body for ResendOTP")
		utils.SendJSONError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Email == "" {
		utils.SendJSONError(w, "Email required.", http.StatusBadRequest)
		return
	}

	if err := h.accountService.ResendOTP(r.Context(), req.Email); err != nil {
		if errors.Is(err, services.ErrOTPDelivery) {
			utils.SendJSONError(w, "Could not send verification code. Please try again.", http.StatusBadRequest)
			return
		}
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "OTP sent to your email."})
}
