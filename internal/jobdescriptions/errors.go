package jobdescriptions

import (
	"errors"

	"resume-builder/resume/model"
)

var (
	ErrNotFound        = errors.New("job description not found")
	ErrInvalidInput    = model.ErrInvalidInput
	ErrUnsupportedType = errors.New("unsupported file type")
)
