package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"playapp/internal/config"
	"playapp/internal/models"
	"playapp/internal/repositories"
	"playapp/internal/utils"
)

const (
	bcryptCost        = 8
	minPasswordLength = 8
)

const (
	MsgRegistered          = "User registered successfully."
	MsgRegisteredVerifyOTP = "User registered successfully. Please verify OTP sent to your email."
)

// ErrVerificationPurpose rejects consumed codes whose purpose cannot
// activate an account.
var ErrVerificationPurpose = errors.New("OTP purpose does not permit account verification")

// AccountService governs account creation and the inactive → active
// transition. The only way in this service for an inactive account to become
// active is a successful OTP verification scoped to its email.
type AccountService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, string, error)
	VerifyAccount(ctx context.Context, email, code string) error
	ResendOTP(ctx context.Context, email string) error
	Profile(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
	CreateStaff(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	CreateAdmin(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	FindAllByReferrer(ctx context.Context, referrer string) ([]models.User, error)
}

type accountService struct {
	userRepo   repositories.UserRepository
	otpService OTPService
	cfg        *config.Config
}

func NewAccountService(userRepo repositories.UserRepository, otpService OTPService, cfg *config.Config) AccountService {
	return &accountService{userRepo: userRepo, otpService: otpService, cfg: cfg}
}

// Register creates an account. With OTPRequired the account starts inactive
// and a sign-up OTP is dispatched; otherwise it is active immediately. The
// returned string is the client-facing success message.
func (s *accountService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, string, error) {
	user, err := s.createUser(ctx, req, !req.OTPRequired)
	if err != nil {
		return nil, "", err
	}

	message := MsgRegistered
	if req.OTPRequired {
		if _, err := s.otpService.Issue(ctx, user.Email, models.OTPPurposeSignUp); err != nil {
			return nil, "", err
		}
		message = MsgRegisteredVerifyOTP
	}

	if count, err := s.userRepo.CountAll(ctx); err == nil {
		utils.TotalUsersGauge.Set(float64(count))
	}
	log.Info().Str("username", user.Username).Str("email", user.Email).Bool("active", user.IsActive).Msg("User registered")
	return user, message, nil
}

func (s *accountService) createUser(ctx context.Context, req *models.RegisterRequest, active bool) (*models.User, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if req.Username == "" {
		return nil, errors.New("Username is required.")
	}
	if strings.Contains(req.Username, " ") {
		return nil, errors.New("Username should not contain spaces.")
	}
	if email == "" {
		return nil, errors.New("Email address is required.")
	}
	if !utils.CheckEmail(email) {
		return nil, errors.New("Invalid email address.")
	}

	if exists, err := s.userRepo.ExistsByUsername(ctx, username); err != nil {
		return nil, err
	} else if exists {
		return nil, errors.New("A user with that username already exists.")
	}
	if exists, err := s.userRepo.ExistsByEmail(ctx, email); err != nil {
		return nil, err
	} else if exists {
		return nil, errors.New("A user with that email already exists.")
	}

	phone := ""
	if req.PhoneNo != "" {
		phone = utils.NormalizePhone(req.PhoneNo)
		if !utils.IsValidPhoneNumber(phone) {
			return nil, errors.New("Invalid phone number.")
		}
	}

	if req.Password == "" {
		return nil, errors.New("Password is required.")
	}
	if strings.Contains(req.Password, " ") {
		return nil, errors.New("Password should not contain spaces.")
	}
	if len(req.Password) < minPasswordLength {
		return nil, fmt.Errorf("Password must be at least %d characters long.", minPasswordLength)
	}
	if req.RePassword != "" && req.Password != req.RePassword {
		return nil, errors.New("Passwords do not match")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		log.Error().Err(err).Msg("Failed to hash password during registration")
		return nil, errors.New("failed to hash password")
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PhoneNo:      phone,
		Password:     string(hashed),
		ReferrerUser: req.Referrer,
		IsActive:     active,
	}
	return s.userRepo.Create(ctx, user)
}

// VerifyAccount consumes the submitted OTP and, when its purpose allows
// activation, transitions the account to active.
func (s *accountService) VerifyAccount(ctx context.Context, email, code string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	otp, err := s.otpService.Verify(ctx, email, code)
	if err != nil {
		return err
	}

	switch otp.Purpose {
	case models.OTPPurposeSignUp, models.OTPPurposeVerifyAccount, models.OTPPurposeResend:
	default:
		return ErrVerificationPurpose
	}

	if err := s.userRepo.SetActiveByEmail(ctx, email, true); err != nil {
		return err
	}
	log.Info().Str("email", email).Msg("Account activated")
	return nil
}

// ResendOTP reissues a verification code for the email.
func (s *accountService) ResendOTP(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	_, err := s.otpService.Issue(ctx, email, models.OTPPurposeResend)
	return err
}

// Profile returns the non-removed account for the id, or an error when the
// account no longer exists.
func (s *accountService) Profile(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}
	return user, nil
}

func (s *accountService) CreateStaff(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	user, err := s.createUser(ctx, req, true)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, user.ID, bson.M{"is_staff": true}); err != nil {
		return nil, err
	}
	user.Staff = true
	return user, nil
}

func (s *accountService) CreateAdmin(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	user, err := s.createUser(ctx, req, true)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, user.ID, bson.M{"is_staff": true, "is_admin": true}); err != nil {
		return nil, err
	}
	user.Staff = true
	user.Admin = true
	return user, nil
}

func (s *accountService) FindAllByReferrer(ctx context.Context, referrer string) ([]models.User, error) {
	return s.userRepo.FindAllByReferrer(ctx, referrer)
}
