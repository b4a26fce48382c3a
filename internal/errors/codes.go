package errors

// ErrorCode represents a standardized error code used throughout the API
type ErrorCode string

// Authentication error codes (AUTH_*)
const (
	AuthInvalidCredentials     ErrorCode = "AUTH_001"
	AuthMissingToken           ErrorCode = "AUTH_002"
	AuthExpiredToken           ErrorCode = "AUTH_003"
	AuthInvalidTokenFormat     ErrorCode = "AUTH_004"
	AuthInsufficientPermission ErrorCode = "AUTH_005"
	AuthEmailAlreadyRegistered ErrorCode = "AUTH_006"
)

// Validation error codes (VALIDATION_*)
const (
	ValidationGeneral       ErrorCode = "VALIDATION_001"
	ValidationRequiredField ErrorCode = "VALIDATION_002"
	ValidationInvalidFormat ErrorCode = "VALIDATION_003"
	ValidationInvalidMonth  ErrorCode = "VALIDATION_004"
	ValidationInvalidAmount ErrorCode = "VALIDATION_005"
)

// Envelope error codes (ENVELOPE_*)
const (
	EnvelopeNotFound        ErrorCode = "ENVELOPE_001"
	EnvelopeNameRequired    ErrorCode = "ENVELOPE_002"
	EnvelopeAccessDenied    ErrorCode = "ENVELOPE_003"
	EnvelopeNoInitialBudget ErrorCode = "ENVELOPE_004"
)

// Budget amount error codes (AMOUNT_*)
const (
	AmountNotFound      ErrorCode = "AMOUNT_001"
	AmountNotPositive   ErrorCode = "AMOUNT_002"
	AmountMonthConflict ErrorCode = "AMOUNT_003"
)

// Entry error codes (ENTRY_*)
const (
	EntryNotFound     ErrorCode = "ENTRY_001"
	EntryNotPositive  ErrorCode = "ENTRY_002"
	EntryAccessDenied ErrorCode = "ENTRY_003"
)

// Category error codes (CATEGORY_*)
const (
	CategoryNotFound      ErrorCode = "CATEGORY_001"
	CategoryNameRequired  ErrorCode = "CATEGORY_002"
	CategoryAlreadyExists ErrorCode = "CATEGORY_003"
)

// Share error codes (SHARE_*)
const (
	ShareNotFound         ErrorCode = "SHARE_001"
	ShareAlreadyPending   ErrorCode = "SHARE_002"
	ShareAlreadyResolved  ErrorCode = "SHARE_003"
	ShareSelfInvite       ErrorCode = "SHARE_004"
	ShareRecipientUnknown ErrorCode = "SHARE_005"
)

// System error codes (SYSTEM_*)
const (
	SystemInternalError      ErrorCode = "SYSTEM_001"
	SystemDatabaseError      ErrorCode = "SYSTEM_002"
	SystemServiceUnavailable ErrorCode = "SYSTEM_003"
	SystemRateLimitExceeded  ErrorCode = "SYSTEM_004"
)

// errorMessages maps error codes to their default human-readable messages
var errorMessages = map[ErrorCode]string{
	// Authentication errors
	AuthInvalidCredentials:     "Invalid email or password",
	AuthMissingToken:           "Authorization token is required",
	AuthExpiredToken:           "Authorization token has expired",
	AuthInvalidTokenFormat:     "Invalid authorization token format",
	AuthInsufficientPermission: "Insufficient permissions to access this resource",
	AuthEmailAlreadyRegistered: "An account with this email already exists",

	// Validation errors
	ValidationGeneral:       "Validation failed",
	ValidationRequiredField: "Required field is missing",
	ValidationInvalidFormat: "Invalid field format",
	ValidationInvalidMonth:  "Invalid month, expected YYYY-MM",
	ValidationInvalidAmount: "Invalid monetary amount",

	// Envelope errors
	EnvelopeNotFound:        "Envelope not found",
	EnvelopeNameRequired:    "Envelope name is required",
	EnvelopeAccessDenied:    "You do not have access to this envelope",
	EnvelopeNoInitialBudget: "An envelope requires an initial budget amount",

	// Budget amount errors
	AmountNotFound:      "Budget amount not found",
	AmountNotPositive:   "Budget amount must be positive",
	AmountMonthConflict: "A budget amount already exists for this month",

	// Entry errors
	EntryNotFound:     "Entry not found",
	EntryNotPositive:  "Entry amount must be positive",
	EntryAccessDenied: "You do not have access to this entry",

	// Category errors
	CategoryNotFound:      "Category not found",
	CategoryNameRequired:  "Category name is required",
	CategoryAlreadyExists: "A category with this name already exists",

	// Share errors
	ShareNotFound:         "Share request not found",
	ShareAlreadyPending:   "A share request for this envelope and recipient is already pending",
	ShareAlreadyResolved:  "This share request has already been accepted or rejected",
	ShareSelfInvite:       "Cannot share an envelope with yourself",
	ShareRecipientUnknown: "No account exists for the recipient email",

	// System errors
	SystemInternalError:      "An unexpected error occurred. Please contact support with trace ID",
	SystemDatabaseError:      "Database connection error",
	SystemServiceUnavailable: "Service temporarily unavailable",
	SystemRateLimitExceeded:  "Rate limit exceeded. Please try again later",
}

// GetErrorMessage returns the default message for a given error code.
// Unknown codes fall back to a generic message.
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return "An error occurred"
}

// IsValidErrorCode checks if the provided error code is a valid registered code
func IsValidErrorCode(code ErrorCode) bool {
	_, ok := errorMessages[code]
	return ok
}
