package domain

import "time"

type User struct {
	UserID       string `json:"id" dynamodbav:"user_id"`
	Username     string `json:"username" dynamodbav:"username"`
	Email        string `json:"email" dynamodbav:"email"` // always stored lowercased
	PasswordHash string `json:"-" dynamodbav:"password_hash"`
	// Reset OTP state is absent unless a password reset is pending.
	ResetOTP        *string   `json:"-" dynamodbav:"reset_otp,omitempty"`
	ResetOTPExpires *int64    `json:"-" dynamodbav:"reset_otp_expires,omitempty"` // Unix seconds
	CreatedAt       time.Time `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" dynamodbav:"updated_at"`
}

// UserSummary is the admin-facing projection of a user.
type UserSummary struct {
	Username  string    `json:"username" dynamodbav:"username"`
	Email     string    `json:"email" dynamodbav:"email"`
	CreatedAt time.Time `json:"createdAt" dynamodbav:"created_at"`
}

type SendRegistrationOTPRequest struct {
	Email    string `json:"email" validate:"required,notblank"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,notblank"`
	Email    string `json:"email" validate:"required,notblank"`
	Password string `json:"password" validate:"required"`
	OTP      string `json:"otp" validate:"required,notblank"`
}

type LoginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail" validate:"required,notblank"`
	Password        string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,notblank"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,notblank"`
	OTP         string `json:"otp" validate:"required,notblank"`
	NewPassword string `json:"newPassword" validate:"required"`
}
