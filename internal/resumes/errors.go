package resumes

import (
	"errors"

	"resume-builder/resume/model"
)

var (
	ErrNotFound = errors.New("resume not found")
	// ErrInvalidInput is the engine's sentinel.
	ErrInvalidInput           = model.ErrInvalidInput
	ErrJobDescriptionNotFound = errors.New("job description not found")
	ErrEntryNotFound          = errors.New("entry not found")
)
