package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"

	"playapp/internal/config"
	"playapp/internal/models"
	"playapp/internal/repositories"
	"playapp/internal/utils"
)

// AuthService is the authentication decision engine. Given an identifier and
// credentials it decides accept, reject or needs-verification, re-issuing a
// verification OTP on the needs-verification path before rejecting.
type AuthService interface {
	Authenticate(ctx context.Context, identifier, password string, externalAuth bool) (*models.TokenPair, error)
}

type authService struct {
	userRepo   repositories.UserRepository
	otpService OTPService
	cfg        *config.Config
}

func NewAuthService(userRepo repositories.UserRepository, otpService OTPService, cfg *config.Config) AuthService {
	return &authService{userRepo: userRepo, otpService: otpService, cfg: cfg}
}

// Authenticate resolves the account by exact username first, then by email.
// The active-state check runs after the password check and never reveals
// password validity on its own. Every rejected attempt against an inactive
// account re-issues a verification OTP; that keeps stuck users unblocked at
// the cost of OTP volume under repeated probing.
func (a *authService) Authenticate(ctx context.Context, identifier, password string, externalAuth bool) (*models.TokenPair, error) {
	user, err := a.userRepo.FindAnyByUsername(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user, err = a.userRepo.FindByEmail(ctx, identifier)
		if err != nil {
			return nil, err
		}
	}
	if user == nil {
		return nil, &models.AuthError{
			Message: "Invalid credentials. Please try again.",
			Code:    "400",
		}
	}

	if !externalAuth {
		if password == "" {
			return nil, &models.AuthError{
				Message: "Password Required.",
				Code:    "400",
			}
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
			log.Warn().Str("username", user.Username).Msg("Password mismatch during login attempt")
			// The submitted identifier is echoed back so the client can
			// redisplay which account the password failed for.
			return nil, &models.AuthError{
				Message: "Incorrect password. Please try with right credentials.",
				Email:   identifier,
				Code:    "404",
			}
		}
	}

	if !user.IsActive {
		if _, err := a.otpService.Issue(ctx, user.Email, models.OTPPurposeVerifyAccount); err != nil {
			log.Error().Err(err).Str("email", user.Email).Msg("Failed to issue verification OTP for inactive login")
			return nil, err
		}
		return nil, &models.AuthError{
			Message: "INACTIVE. This user exists but it's not verified yet. We have sent OTP on linked email of this account. Please Verify.",
			Email:   user.Email,
			Code:    "505",
		}
	}

	access, err := utils.GenerateJWT(user, []byte(a.cfg.JWTSecret), a.cfg.AccessTokenTTL)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID.Hex()).Msg("Could not generate token for user")
		return nil, err
	}

	now := time.Now()
	if err := a.userRepo.Update(ctx, user.ID, bson.M{"last_login": now}); err != nil {
		log.Error().Err(err).Str("user_id", user.ID.Hex()).Msg("Failed to record last login")
	}

	log.Info().Str("user_id", user.ID.Hex()).Str("username", user.Username).Msg("User logged in successfully")

	// No independent refresh-rotation state is kept; the refresh credential
	// is the same claim-based token as access.
	return &models.TokenPair{Access: access, Refresh: access}, nil
}
