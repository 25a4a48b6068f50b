package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OTP purposes form a closed set. Records created with any other purpose are
// rejected before they reach the store.
const (
	OTPPurposeSignUp         = "sign_up"
	OTPPurposeForgetPassword = "forget_password"
	OTPPurposeResetPassword  = "reset_password"
	OTPPurposeChangeEmail    = "change_email"
	OTPPurposeVerifyAccount  = "verify_account"
	OTPPurposeResend         = "resend_otp"
)

// ValidOTPPurpose reports whether purpose belongs to the closed enumeration.
func ValidOTPPurpose(purpose string) bool {
	switch purpose {
	case OTPPurposeSignUp, OTPPurposeForgetPassword, OTPPurposeResetPassword,
		OTPPurposeChangeEmail, OTPPurposeVerifyAccount, OTPPurposeResend:
		return true
	}
	return false
}

// OTP is a one-time verification code issued for an email address. The email
// is not required to belong to a registered account; UserID carries the
// linkage when one exists at issue time.
type OTP struct {
	ID        primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    *primitive.ObjectID `json:"user_id,omitempty" bson:"user_id,omitempty"`
	Email     string              `json:"email" bson:"email"`
	Code      string              `json:"-" bson:"otp_code"`
	Purpose   string              `json:"purpose" bson:"purpose"`
	TTL       time.Time           `json:"ttl" bson:"ttl"`
	Expired   bool                `json:"expired" bson:"expired"`
	IsRemove  bool                `json:"-" bson:"is_remove"`
	CreatedAt time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time           `json:"updated_at" bson:"updated_at"`
}
