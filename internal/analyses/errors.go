package analyses

import "errors"

// ErrEmptyResume is returned before any network call when the resume text is
// blank.
var ErrEmptyResume = errors.New("resume text is required")

const (
	ErrorCodeValidation     = "VALIDATION_ERROR"
	ErrorCodeTransport      = "LLM_UNAVAILABLE"
	ErrorCodeSchemaMismatch = "LLM_SCHEMA_MISMATCH"
	ErrorCodeCorruptDoc     = "CORRUPT_DOCUMENT"
	ErrorCodeInternal       = "INTERNAL_ERROR"
)
