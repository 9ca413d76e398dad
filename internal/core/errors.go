package core

import "errors"

// Error codes for domain errors, used by the HTTP bridge.
const (
	ErrCodeNotIdentified     = "not_identified"
	ErrCodeAlreadyIdentified = "already_identified"
	ErrCodeUserNotFound      = "user_not_found"
	ErrCodeNotFound          = "not_found"
	ErrCodeBadRequest        = "bad_request"
)

var (
	// ErrNotIdentified is returned by operations that need an identity.
	ErrNotIdentified = errors.New("not identified")
	// ErrAlreadyIdentified is returned when identifying as a second username.
	ErrAlreadyIdentified = errors.New("already identified as another user")
	// ErrInvalidProfile is returned when a profile field is empty.
	ErrInvalidProfile = errors.New("invalid profile")
	// ErrUserNotFound is returned when a referenced user has no profile.
	ErrUserNotFound = errors.New("user not found")
	// ErrProfileNotFound is returned when the session's own profile vanished.
	ErrProfileNotFound = errors.New("user information not found")
	// ErrWeatherNotFound is returned for cities without a report.
	ErrWeatherNotFound = errors.New("weather data not available")
	// ErrNoFacts is returned when the facts list is empty.
	ErrNoFacts = errors.New("no facts available")
)

// ErrorCode maps a domain error to its code. Unknown errors map to "".
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrNotIdentified):
		return ErrCodeNotIdentified
	case errors.Is(err, ErrAlreadyIdentified):
		return ErrCodeAlreadyIdentified
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrProfileNotFound):
		return ErrCodeUserNotFound
	case errors.Is(err, ErrWeatherNotFound), errors.Is(err, ErrNoFacts):
		return ErrCodeNotFound
	case errors.Is(err, ErrInvalidProfile):
		return ErrCodeBadRequest
	default:
		return ""
	}
}
