package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks malformed or incomplete input; the caller must fix the request.
	ErrValidation = errors.New("validation error")
	// ErrStaging marks failures while copying uploads into the import area.
	ErrStaging = errors.New("staging error")
	// ErrIO marks filesystem failures past the staging step.
	ErrIO = errors.New("io error")
	// ErrSubtitleFormat marks a subtitle file whose dialect could not be recognized.
	ErrSubtitleFormat = errors.New("unknown subtitle format")
	// ErrDirectory marks identity directory failures; the whole reconciliation is rolled back.
	ErrDirectory = errors.New("identity directory error")
	// ErrVersionTooNew marks a persisted file declaring a schema version newer than supported.
	ErrVersionTooNew = errors.New("file version too new")
	// ErrMalformed marks a persisted file that is not well-formed.
	ErrMalformed = errors.New("malformed file")
	// ErrTimeout marks a collaborator call that exceeded its deadline.
	ErrTimeout = errors.New("timeout")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrIO
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Retryable reports whether the caller may retry the operation that produced err.
// Directory and timeout failures are transient; everything else is terminal.
func Retryable(err error) bool {
	return errors.Is(err, ErrDirectory) || errors.Is(err, ErrTimeout)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
