package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gymbros/fitness-tracker/internal/repository"
)

// --- Error taxonomy ---
// Handlers map these onto status codes; anything else is an internal error.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// Specific variants, all matching their taxonomy entry with errors.Is.
var (
	ErrAuthenticationFailed = fmt.Errorf("%w: invalid username, email or password", ErrUnauthorized)
	ErrUserAlreadyExists    = fmt.Errorf("%w: username or email already taken", ErrConflict)
	ErrUserNotFound         = fmt.Errorf("user %w", ErrNotFound)
	ErrWorkoutNotFound      = fmt.Errorf("workout %w", ErrNotFound)
	ErrSetNotFound          = fmt.Errorf("set %w", ErrNotFound)
	ErrRehabNotEnabled      = fmt.Errorf("%w: rehab is not enabled for this account", ErrForbidden)
	ErrRehabNotFound        = fmt.Errorf("rehab exercise %w", ErrNotFound)
	ErrHabitLogNotFound     = fmt.Errorf("habit log %w", ErrNotFound)
	ErrFriendshipNotFound   = fmt.Errorf("friendship %w", ErrNotFound)
	ErrFriendshipExists     = fmt.Errorf("%w: a friendship or request already exists", ErrConflict)
	ErrPlanNotFound         = fmt.Errorf("plan %w", ErrNotFound)
	ErrJobNotFound          = fmt.Errorf("job %w", ErrNotFound)
	ErrSetupAlreadyComplete = fmt.Errorf("%w: setup already complete", ErrConflict)
	ErrWallpaperNotFound    = fmt.Errorf("wallpaper %w", ErrNotFound)
	ErrStorageDisabled      = errors.New("object storage is not configured")
	ErrSetupBusy            = errors.New("setup queue is busy, try again later")
)

// ValidationError lists the offending input fields.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// validation collects field errors and yields nil when there are none.
type validation map[string]string

func (v validation) check(ok bool, field, message string) {
	if !ok {
		if _, seen := v[field]; !seen {
			v[field] = message
		}
	}
}

func (v validation) err() error {
	if len(v) == 0 {
		return nil
	}
	return &ValidationError{Fields: v}
}

// notFound converts repository.ErrNotFound into the given service error.
func notFound(err error, target error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return target
	}
	return err
}
