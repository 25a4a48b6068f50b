package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"playapp/internal/config"
	"playapp/internal/models"
	"playapp/internal/repositories"
	"playapp/internal/utils"
)

const otpCodeLength = 6

// maxCodeGenerationRetries bounds the collision retry loop. Collisions over
// a 6-digit space are rare but checked, never assumed absent.
const maxCodeGenerationRetries = 10

var (
	// ErrOTPInvalid covers mismatched, expired and absent codes alike so
	// the response shape never reveals which case was hit.
	ErrOTPInvalid = errors.New("invalid or expired OTP")

	// ErrOTPDelivery signals the code was stored but the email could not
	// be dispatched. The caller should surface a retryable failure.
	ErrOTPDelivery = errors.New("could not send verification code")

	errInvalidEmail   = errors.New("invalid email address")
	errInvalidPurpose = errors.New("invalid OTP purpose")
)

// OTPService owns the OTP lifecycle: issue, verify, and the background sweep
// that expires elapsed records and purges stale ones.
type OTPService interface {
	Issue(ctx context.Context, email, purpose string) (*models.OTP, error)
	Verify(ctx context.Context, email, code string) (*models.OTP, error)
	RunSweep(ctx context.Context) error
	StartSweeper(ctx context.Context)
}

type otpService struct {
	otpRepo      repositories.OTPRepository
	userRepo     repositories.UserRepository
	emailService EmailService
	cfg          *config.Config
}

func NewOTPService(otpRepo repositories.OTPRepository, userRepo repositories.UserRepository, emailService EmailService, cfg *config.Config) OTPService {
	return &otpService{otpRepo: otpRepo, userRepo: userRepo, emailService: emailService, cfg: cfg}
}

// Issue invalidates any prior live OTP for the email, stores a fresh code
// and dispatches it. A delivery failure is returned to the caller; the
// record itself survives so a later resend keeps working.
func (s *otpService) Issue(ctx context.Context, email, purpose string) (*models.OTP, error) {
	if email == "" || !utils.CheckEmail(email) {
		return nil, errInvalidEmail
	}
	if !models.ValidOTPPurpose(purpose) {
		return nil, errInvalidPurpose
	}

	code, err := s.generateCode(ctx)
	if err != nil {
		return nil, err
	}

	otp := &models.OTP{
		Email:   email,
		Code:    code,
		Purpose: purpose,
		TTL:     time.Now().Add(s.cfg.OTPTTL),
	}

	// OTPs may be issued for emails with no matching account yet; the
	// linkage is recorded when one exists.
	if user, err := s.userRepo.FindByEmail(ctx, email); err == nil && user != nil {
		otp.UserID = &user.ID
	}

	created, err := s.otpRepo.Create(ctx, otp)
	if err != nil {
		return nil, err
	}
	utils.OTPIssuedTotal.WithLabelValues(purpose).Inc()
	log.Info().Str("email", email).Str("purpose", purpose).Msg("OTP issued")

	subject := "Account Verification OTP - PlayApp"
	body := fmt.Sprintf("Your verification code is: <b>%s</b>. It expires in %d seconds.", code, int(s.cfg.OTPTTL.Seconds()))
	if err := s.emailService.SendEmail(email, subject, body); err != nil {
		log.Error().Err(err).Str("email", email).Msg("OTP email dispatch failed")
		return created, fmt.Errorf("%w: %v", ErrOTPDelivery, err)
	}

	return created, nil
}

func (s *otpService) generateCode(ctx context.Context) (string, error) {
	for i := 0; i < maxCodeGenerationRetries; i++ {
		code, err := utils.GenerateSecureOTP(otpCodeLength)
		if err != nil {
			return "", err
		}
		existing, err := s.otpRepo.FindByCode(ctx, code)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return code, nil
		}
	}
	return "", errors.New("could not generate a unique OTP code")
}

// Verify consumes the live record for the email when the submitted code
// matches and is within its TTL. Wrong code and elapsed code produce the
// same ErrOTPInvalid.
func (s *otpService) Verify(ctx context.Context, email, code string) (*models.OTP, error) {
	otp, err := s.otpRepo.FindActiveByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if otp == nil {
		utils.OTPVerifiedTotal.WithLabelValues("invalid").Inc()
		return nil, ErrOTPInvalid
	}

	match := subtle.ConstantTimeCompare([]byte(otp.Code), []byte(code)) == 1
	if !match || time.Now().After(otp.TTL) {
		utils.OTPVerifiedTotal.WithLabelValues("invalid").Inc()
		return nil, ErrOTPInvalid
	}

	if err := s.otpRepo.MarkExpired(ctx, otp.ID); err != nil {
		return nil, err
	}
	utils.OTPVerifiedTotal.WithLabelValues("success").Inc()
	log.Info().Str("email", email).Str("purpose", otp.Purpose).Msg("OTP verified")
	return otp, nil
}

// RunSweep is the idempotent maintenance pass: flag records whose TTL
// elapsed, then soft-remove everything past the purge grace period.
func (s *otpService) RunSweep(ctx context.Context) error {
	now := time.Now()

	expired, err := s.otpRepo.ExpireElapsed(ctx, now, s.cfg.OTPLookback, s.cfg.OTPTTL)
	if err != nil {
		return err
	}
	purged, err := s.otpRepo.PurgeStale(ctx, now, s.cfg.OTPLookback, s.cfg.OTPPurgeGrace)
	if err != nil {
		return err
	}

	if expired > 0 || purged > 0 {
		log.Info().Int64("expired", expired).Int64("purged", purged).Msg("OTP sweep completed")
	}
	return nil
}

// StartSweeper runs RunSweep on a ticker until ctx is cancelled.
func (s *otpService) StartSweeper(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.cfg.OTPSweepEvery)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sweepCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				if err := s.RunSweep(sweepCtx); err != nil {
					log.Error().Err(err).Msg("OTP sweep failed")
				}
				cancel()
			}
		}
	}()
}
