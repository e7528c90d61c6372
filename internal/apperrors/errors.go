package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found, or is
// not visible to the caller's organization.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates the resource exists but is in a state that forbids the
// requested mutation (e.g. updating a non-draft journal entry).
var ErrConflict = errors.New("resource state conflict")

// ErrForbidden indicates the caller is authenticated but not permitted to act.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized indicates missing or invalid authentication.
var ErrUnauthorized = errors.New("unauthorized")

// ErrBusinessRule indicates a named domain-rule failure; errors wrapping this
// also expose a machine-readable rule code via the Coded interface.
var ErrBusinessRule = errors.New("business rule violation")

// ErrInternal indicates an unexpected infrastructure or persistence failure.
var ErrInternal = errors.New("internal error")

// Rule codes carried by business-rule errors. Handlers surface these verbatim.
const (
	CodeUnbalancedEntry         = "UNBALANCED_ENTRY"
	CodeDuplicateLineNumber     = "DUPLICATE_LINE_NUMBER"
	CodePeriodNotFound          = "PERIOD_NOT_FOUND"
	CodePeriodNotOpen           = "PERIOD_NOT_OPEN"
	CodeAccountNotFound         = "ACCOUNT_NOT_FOUND"
	CodeAccountNotActive        = "ACCOUNT_NOT_ACTIVE"
	CodeAccountNotPostable      = "ACCOUNT_NOT_POSTABLE"
	CodeHasActiveChildren       = "HAS_ACTIVE_CHILDREN"
	CodeCircularReference       = "CIRCULAR_REFERENCE"
	CodeParentDifferentCompany  = "PARENT_DIFFERENT_COMPANY"
	CodeInvalidStatusTransition = "INVALID_STATUS_TRANSITION"
	CodeAlreadyReversed         = "ALREADY_REVERSED"
	CodeNotApproved             = "NOT_APPROVED"
	CodeNotPosted               = "NOT_POSTED"
	CodePolicyPriorityTooHigh   = "POLICY_PRIORITY_OUT_OF_RANGE"
	CodeSystemPolicyImmutable   = "SYSTEM_POLICY_CANNOT_BE_MODIFIED"
	CodeInvalidPeriodTransition = "INVALID_PERIOD_TRANSITION"
)

// Coded is implemented by errors that carry a business-rule code.
type Coded interface {
	Code() string
}

// BusinessRuleError is the generic coded domain-rule failure. Rule violations
// that need extra payload define their own types (see the service packages)
// but still unwrap to ErrBusinessRule.
type BusinessRuleError struct {
	RuleCode string
	Message  string
}

// NewBusinessRuleError builds a coded business-rule error.
func NewBusinessRuleError(code string, format string, args ...any) *BusinessRuleError {
	return &BusinessRuleError{RuleCode: code, Message: fmt.Sprintf(format, args...)}
}

func (e *BusinessRuleError) Error() string {
	return fmt.Sprintf("%s: %s", e.RuleCode, e.Message)
}

func (e *BusinessRuleError) Code() string { return e.RuleCode }

func (e *BusinessRuleError) Unwrap() error { return ErrBusinessRule }

// AppError wraps infrastructure failures with an HTTP-ish status code.
type AppError struct {
	StatusCode int
	Message    string
	Err        error
}

// NewAppError creates a new AppError wrapping an underlying cause.
func NewAppError(statusCode int, message string, err error) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }
