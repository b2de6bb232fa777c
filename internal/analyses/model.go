package analyses

import (
	"encoding/json"
	"time"

	"critique-backend/internal/llm"
)

// Request carries the inputs for one analysis. ResumeText must be non-empty;
// JobDescription may be empty. Immutable once constructed.
type Request struct {
	ResumeText     string
	JobDescription string
}

// Report is the structured critique produced by the model. It is only ever
// constructed from a response that passed shape and bounds validation; a
// report is never partially populated.
type Report struct {
	ATSScore            float64  `json:"atsScore"`
	Summary             string   `json:"summary"`
	ATSFeedback         []string `json:"atsFeedback"`
	Strengths           []string `json:"strengths"`
	Weaknesses          []string `json:"weaknesses"`
	JobDescriptionMatch []string `json:"jobDescriptionMatch"`
}

// Analysis wraps a completed report with its identity.
type Analysis struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Report    Report    `json:"report"`
}

type reportWire struct {
	ATSScore            *float64  `json:"atsScore"`
	Summary             *string   `json:"summary"`
	ATSFeedback         *[]string `json:"atsFeedback"`
	Strengths           *[]string `json:"strengths"`
	Weaknesses          *[]string `json:"weaknesses"`
	JobDescriptionMatch *[]string `json:"jobDescriptionMatch"`
}

// ParseReport decodes the model's inner JSON text into a Report, enforcing
// required fields, array typing, and the atsScore bounds. Any violation is
// surfaced as *llm.SchemaViolationError.
func ParseReport(raw json.RawMessage) (Report, error) {
	var wire reportWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return Report{}, &llm.SchemaViolationError{Reason: "report is not valid JSON", Cause: err}
	}

	switch {
	case wire.ATSScore == nil:
		return Report{}, &llm.SchemaViolationError{Reason: "missing required field atsScore"}
	case wire.Summary == nil:
		return Report{}, &llm.SchemaViolationError{Reason: "missing required field summary"}
	case wire.ATSFeedback == nil:
		return Report{}, &llm.SchemaViolationError{Reason: "missing required field atsFeedback"}
	case wire.Strengths == nil:
		return Report{}, &llm.SchemaViolationError{Reason: "missing required field strengths"}
	case wire.Weaknesses == nil:
		return Report{}, &llm.SchemaViolationError{Reason: "missing required field weaknesses"}
	case wire.JobDescriptionMatch == nil:
		return Report{}, &llm.SchemaViolationError{Reason: "missing required field jobDescriptionMatch"}
	}

	if *wire.ATSScore < 0 || *wire.ATSScore > 100 {
		return Report{}, &llm.SchemaViolationError{Reason: "atsScore out of range [0,100]"}
	}

	return Report{
		ATSScore:            *wire.ATSScore,
		Summary:             *wire.Summary,
		ATSFeedback:         nonNil(*wire.ATSFeedback),
		Strengths:           nonNil(*wire.Strengths),
		Weaknesses:          nonNil(*wire.Weaknesses),
		JobDescriptionMatch: nonNil(*wire.JobDescriptionMatch),
	}, nil
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
