package apperrors

import "errors"

// Common errors
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrInvalidFormat      = errors.New("invalid token format")
	ErrAccountDisabled    = errors.New("account is disabled")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")
	ErrStaffRequired    = errors.New("staff status required")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
	ErrInvalidHTML      = errors.New("body contains disallowed HTML")
	ErrSlugReserved     = errors.New("the slug cannot be 'create'")
	ErrSlugImmutable    = errors.New("the slug cannot be changed once set")
)

// Resource errors
var (
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource with this name or slug already exists")
	ErrResourceHasAgreements = errors.New("resource has associated agreements and cannot be deleted")
)

// Faculty errors
var (
	ErrFacultyNotFound      = errors.New("faculty not found")
	ErrFacultyAlreadyExists = errors.New("faculty with this name or slug already exists")
)

// Department errors
var (
	ErrDepartmentNotFound      = errors.New("department not found")
	ErrDepartmentAlreadyExists = errors.New("department with this slug, or name within its faculty, already exists")
	ErrDepartmentHasSignatures = errors.New("department has associated signatures and cannot be deleted")
)

// Agreement errors
var (
	ErrAgreementNotFound      = errors.New("agreement not found")
	ErrAgreementAlreadyExists = errors.New("agreement with this title or slug already exists")
	ErrAgreementNotSignable   = errors.New("agreement is hidden or outside its validity window")
)

// Signature errors
var (
	ErrAlreadySigned     = errors.New("agreement already signed")
	ErrSignatureNotFound = errors.New("signature not found")
	ErrSignatureRequired = errors.New("a signature on a valid agreement is required to access this resource")
)

// License code errors
var (
	ErrLicenseCodeNotFound = errors.New("license code not found")
	ErrDuplicateCode       = errors.New("license code already exists for this resource")
	ErrLicenseCodeAssigned = errors.New("license code is assigned to a signature and cannot be deleted")
)

// Account errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameExists     = errors.New("username already exists")
	ErrGroupNotFound      = errors.New("permission group not found")
	ErrGroupAlreadyExists = errors.New("permission group with this name or slug already exists")
	ErrUnknownPermission  = errors.New("unknown permission codename")
)

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Field   string
	Details map[string]interface{}
}

// Error implements the error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with an underlying sentinel error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithField names the request field the error relates to
func (e *CustomError) WithField(field string) *CustomError {
	e.Field = field
	return e
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// NewValidationError creates a field-level validation error
func NewValidationError(field, message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
		Field:   field,
	}
}

// Is returns whether target, or any error in errList, matches err
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}
	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
