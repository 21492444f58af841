package domain

// RegistrationOTP is a pending sign-up code, keyed by lowercased email.
// It is overwritten on every request and deleted once consumed.
// ExpiresAt is a Unix timestamp used as DynamoDB TTL.
type RegistrationOTP struct {
	Email     string `json:"email" dynamodbav:"email"`
	OTP       string `json:"otp" dynamodbav:"otp"`
	ExpiresAt int64  `json:"expires_at" dynamodbav:"expires_at"`
}
