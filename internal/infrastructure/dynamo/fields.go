package dynamo

// DynamoDB attribute names used in update and condition expressions across all repos.
const (
	fieldUserID          = "user_id"
	fieldUsername        = "username"
	fieldEmail           = "email"
	fieldPasswordHash    = "password_hash"
	fieldResetOTP        = "reset_otp"
	fieldResetOTPExpires = "reset_otp_expires"
	fieldCreatedAt       = "created_at"
	fieldUpdatedAt       = "updated_at"
	fieldUniqueKey       = "unique_key"
	fieldExpiresAt       = "expires_at"
	fieldAppointmentID   = "appointment_id"
	fieldStatus          = "status"
)
