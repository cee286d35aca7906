package domain

// Verification channels, also used as the OTP intent "type".
const (
	ChannelPhone = "phone"
	ChannelEmail = "email"
)

// UserVerification stores a pending OTP.
// PK: user_id, SK: type ("phone" | "email").
// ExpiresAt is a Unix timestamp used as DynamoDB TTL.
type UserVerification struct {
	UserID    string `json:"user_id" dynamodbav:"user_id"`
	Type      string `json:"type" dynamodbav:"type"`
	Code      string `json:"code" dynamodbav:"code"`
	ExpiresAt int64  `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
	Attempts  int    `json:"-" dynamodbav:"attempts"`            // failed checks so far
}

type SendOTPRequest struct {
	From  string `json:"from" validate:"required,oneof=signup forgot"`
	Type  string `json:"type" validate:"required,oneof=phone email"`
	Value string `json:"value" validate:"required"`
}

type VerifyOTPRequest struct {
	From  string `json:"from" validate:"required,oneof=signup forgot"`
	Type  string `json:"type" validate:"required,oneof=phone email"`
	Value string `json:"value" validate:"required"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

type ResetPasswordRequest struct {
	Type     string `json:"type" validate:"required,oneof=phone email"`
	Value    string `json:"value" validate:"required"`
	OTPCode  string `json:"otp_code" validate:"required,len=6,numeric"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}
