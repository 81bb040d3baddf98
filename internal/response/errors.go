package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrUserNotFound       ErrCode = "USER_NOT_FOUND"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden       ErrCode = "FORBIDDEN"
	ErrAdminAccessOnly ErrCode = "ADMIN_ACCESS_ONLY"
	ErrNotBookingOwner ErrCode = "NOT_BOOKING_OWNER"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound         ErrCode = "NOT_FOUND"
	ErrConflict         ErrCode = "CONFLICT"
	ErrDependencyExists ErrCode = "DEPENDENCY_EXISTS"

	// ─── Booking-specific ──────────────────────────────────────────────
	ErrClassFull         ErrCode = "CLASS_FULL"
	ErrAlreadyBooked     ErrCode = "ALREADY_BOOKED"
	ErrInvalidTransition ErrCode = "INVALID_STATUS_TRANSITION"
	ErrCapacityBelowUse  ErrCode = "CAPACITY_BELOW_BOOKED"

	// ─── Enrollment-specific ───────────────────────────────────────────
	ErrAlreadyEnrolled  ErrCode = "ALREADY_ENROLLED"
	ErrProgressBackward ErrCode = "PROGRESS_BACKWARD"

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
		return "Incorrect password."
	case ErrUserNotFound:
		return "User not found. Please register."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid."
	case ErrTokenExpired:
		return "The authentication token has expired."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrAdminAccessOnly:
		return "This resource is restricted to administrators."
	case ErrNotBookingOwner:
		return "This booking belongs to another account."

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
	case ErrConflict:
		return "Resource already exists."
	case ErrDependencyExists:
		return "This record cannot be deleted while other records depend on it."

	// ─── Booking-specific ──────────────────────────────────────────────
	case ErrClassFull:
		return "This class is fully booked."
	case ErrAlreadyBooked:
		return "You already hold a booking for this class."
	case ErrInvalidTransition:
		return "This booking cannot change to the requested status."
	case ErrCapacityBelowUse:
		return "Capacity cannot be lowered below the number of booked spots."

	// ─── Enrollment-specific ───────────────────────────────────────────
	case ErrAlreadyEnrolled:
		return "You are already enrolled in this course."
	case ErrProgressBackward:
		return "Lesson progress can only move forward."

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
