// Package llm abstracts remote LLM providers for resume critique.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

// Client abstracts LLM providers. Critique returns the model's report as a
// raw JSON document; parsing into the report type is the caller's concern.
type Client interface {
	Critique(ctx context.Context, input CritiqueInput) (json.RawMessage, error)
}

// CritiqueInput captures the inputs needed for a critique request.
// ResumeText must be non-empty; JobDescription may be empty, in which case
// the model degrades to a generic analysis.
type CritiqueInput struct {
	ResumeText     string
	JobDescription string
}

// SchemaViolationError indicates a response that was received successfully
// but does not match the expected envelope or report shape. It is never
// retried.
type SchemaViolationError struct {
	Reason string
	Cause  error
}

func (e *SchemaViolationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("schema violation: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("schema violation: %s", e.Reason)
}

func (e *SchemaViolationError) Unwrap() error {
	return e.Cause
}
