package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrNotAuthenticated   ErrCode = "NOT_AUTHENTICATED"
	ErrSessionUnavailable ErrCode = "SESSION_UNAVAILABLE"
	ErrSessionExpired     ErrCode = "SESSION_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden    ErrCode = "FORBIDDEN"
	ErrAwaitingRole ErrCode = "AWAITING_ROLE"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound        ErrCode = "NOT_FOUND"
	ErrPageNotMounted  ErrCode = "PAGE_NOT_MOUNTED"
	ErrSingletonExists ErrCode = "SINGLETON_EXISTS"
	ErrUnknownCategory ErrCode = "UNKNOWN_CATEGORY"

	// ─── Remote API ────────────────────────────────────────────────────
	ErrAPIRejected    ErrCode = "API_REJECTED"
	ErrAPIUnavailable ErrCode = "API_UNAVAILABLE"
	ErrAPIMalformed   ErrCode = "API_MALFORMED"
	ErrCanceled       ErrCode = "REQUEST_CANCELED"

	// ─── Media ─────────────────────────────────────────────────────────
	ErrFileRequired ErrCode = "FILE_REQUIRED"
	ErrFileTooLarge ErrCode = "FILE_TOO_LARGE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Invalid email or password."
	case ErrNotAuthenticated:
		return "Please log in to continue."
	case ErrSessionUnavailable:
		return "Your session could not be loaded. Please try again."
	case ErrSessionExpired:
		return "Your session has expired. Please log in again."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You do not have access to this page."
	case ErrAwaitingRole:
		return "Your account is waiting for a role to be assigned."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrPageNotMounted:
		return "This page is not open. Reload it and try again."
	case ErrSingletonExists:
		return "A record already exists. Edit it instead of creating a new one."
	case ErrUnknownCategory:
		return "Unknown summary category."

	// ─── Remote API ────────────────────────────────────────────────────
	case ErrAPIRejected:
		return "The request was rejected by the server."
	case ErrAPIUnavailable:
		return "The server could not be reached. Check your connection and try again."
	case ErrAPIMalformed:
		return "The server sent an unexpected response."
	case ErrCanceled:
		return "The request was canceled."

	// ─── Media ─────────────────────────────────────────────────────────
	case ErrFileRequired:
		return "A file upload is required."
	case ErrFileTooLarge:
		return "File size exceeds the limit."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
