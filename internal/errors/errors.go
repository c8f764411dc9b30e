package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidCredentials is returned when email or password is incorrect.
	// Deliberately vague so login failures do not reveal whether the account exists.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUserAlreadyExists is returned when the email or username is taken.
	ErrUserAlreadyExists = errors.New("email or username already taken")
	// ErrUserNotFound is returned when a user row cannot be located.
	ErrUserNotFound = errors.New("user not found")
	// ErrAuthRequired is returned when a protected action carries no token.
	ErrAuthRequired = errors.New("authentication required")
	// ErrInvalidToken is returned when a token fails verification or is expired.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrChallengeNotFound is returned when a challenge id/code does not resolve.
	// Also used for ownership failures so a non-owner cannot probe for existence.
	ErrChallengeNotFound = errors.New("challenge not found")
	// ErrChallengeCompleted is returned when joining a finished challenge.
	ErrChallengeCompleted = errors.New("challenge already completed")
	// ErrSelfChallenge is returned when a challenger tries to join their own challenge.
	ErrSelfChallenge = errors.New("cannot join your own challenge")
	// ErrChallengeTaken is returned when a different opponent already joined.
	ErrChallengeTaken = errors.New("challenge already has an opponent")
	// ErrTeamNotFound is returned when a team id does not resolve for the owner.
	ErrTeamNotFound = errors.New("team not found")
	// ErrTeamLimit is returned when the per-user saved team cap is reached.
	ErrTeamLimit = errors.New("maximum 5 saved teams allowed")
	// ErrNotEnoughPoints is returned when a redemption exceeds the balance.
	ErrNotEnoughPoints = errors.New("not enough points")
)

// ValidationError marks malformed, missing or oversized input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidation creates a ValidationError with a formatted message.
func NewValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// RateLimitError carries the retry-after duration for a 429 response.
type RateLimitError struct {
	Message    string
	RetryAfter int // seconds until the window resets
}

func (e *RateLimitError) Error() string {
	return e.Message
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	RetryAfter int
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return NewHTTPError(http.StatusBadRequest, validationErr.Message, "VALIDATION_FAILED")
	}

	var rateLimitErr *RateLimitError
	if errors.As(err, &rateLimitErr) {
		httpErr := NewHTTPError(http.StatusTooManyRequests, rateLimitErr.Message, "RATE_LIMITED")
		httpErr.RetryAfter = rateLimitErr.RetryAfter
		return httpErr
	}

	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrAuthRequired):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "AUTH_REQUIRED")
	case errors.Is(err, ErrInvalidToken):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_TOKEN")
	case errors.Is(err, ErrUserAlreadyExists):
		return NewHTTPError(http.StatusConflict, err.Error(), "USER_ALREADY_EXISTS")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrChallengeNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "CHALLENGE_NOT_FOUND")
	case errors.Is(err, ErrChallengeCompleted):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "CHALLENGE_COMPLETED")
	case errors.Is(err, ErrSelfChallenge):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "SELF_CHALLENGE")
	case errors.Is(err, ErrChallengeTaken):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "CHALLENGE_TAKEN")
	case errors.Is(err, ErrTeamNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "TEAM_NOT_FOUND")
	case errors.Is(err, ErrTeamLimit):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "TEAM_LIMIT")
	case errors.Is(err, ErrNotEnoughPoints):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "NOT_ENOUGH_POINTS")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
