package apperror

const (
	// Client errors (4xx)
	CodeInvalidInput        = "INVALID_INPUT"
	CodeUnauthenticated     = "UNAUTHENTICATED"
	CodeForbidden           = "FORBIDDEN"
	CodeNotFound            = "NOT_FOUND"
	CodeUserNotFound        = "USER_NOT_FOUND"
	CodeEmployeeNotFound    = "EMPLOYEE_NOT_FOUND"
	CodeConflict            = "CONFLICT"
	CodeInvalidState        = "INVALID_STATE"
	CodeAlreadyCheckedIn    = "ALREADY_CHECKED_IN"
	CodeNotCheckedIn        = "NOT_CHECKED_IN"
	CodeInsufficientBalance = "INSUFFICIENT_BALANCE"
	CodeOverlappingRequest  = "OVERLAPPING_REQUEST"
	CodeTooManyRequests     = "TOO_MANY_REQUESTS"

	// Server errors (5xx)
	CodeInternalError      = "INTERNAL_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)
