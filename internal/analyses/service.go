package analyses

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"critique-backend/internal/extract"
	"critique-backend/internal/llm"
	"critique-backend/internal/shared/httpjson"
	"critique-backend/internal/shared/metrics"
	"critique-backend/internal/shared/telemetry"
)

// Service orchestrates a critique: input validation, the remote LLM call,
// report parsing and validation, and committing the result to the slot.
// One call is atomic from the caller's perspective: it yields a complete
// Analysis or a typed failure, never a partial result.
type Service struct {
	LLM       llm.Client
	Extractor *extract.Service
	Slot      *ReportSlot
}

// Analyze runs one critique for the given request.
func (s *Service) Analyze(ctx context.Context, req Request) (Analysis, error) {
	if strings.TrimSpace(req.ResumeText) == "" {
		return Analysis{}, ErrEmptyResume
	}
	if s.LLM == nil {
		return Analysis{}, errors.New("missing llm client")
	}

	var gen uint64
	if s.Slot != nil {
		gen = s.Slot.Begin()
	}

	metrics.IncAnalysisStarted()
	startedAt := time.Now().UTC()

	raw, err := s.LLM.Critique(ctx, llm.CritiqueInput{
		ResumeText:     req.ResumeText,
		JobDescription: req.JobDescription,
	})
	if err != nil {
		s.fail(startedAt, err)
		return Analysis{}, err
	}

	report, err := ParseReport(raw)
	if err != nil {
		s.fail(startedAt, err)
		return Analysis{}, err
	}

	completedAt := time.Now().UTC()
	analysis := Analysis{
		ID:        uuid.NewString(),
		CreatedAt: completedAt,
		Report:    report,
	}

	committed := true
	if s.Slot != nil {
		committed = s.Slot.Commit(gen, analysis)
	}

	durationMs := float64(completedAt.Sub(startedAt).Microseconds()) / 1000.0
	metrics.IncAnalysisCompleted()
	metrics.ObserveAnalysisDurationMs(durationMs)
	telemetry.Info("analysis.complete", map[string]any{
		"analysis_id": analysis.ID,
		"duration_ms": durationMs,
		"ats_score":   report.ATSScore,
		"committed":   committed,
	})

	return analysis, nil
}

// AnalyzeDocument extracts resume text from an uploaded document and runs
// the critique on it.
func (s *Service) AnalyzeDocument(ctx context.Context, data []byte, mimeType, fileName, jobDescription string) (Analysis, error) {
	if s.Extractor == nil {
		return Analysis{}, errors.New("missing extraction service")
	}

	text, err := s.Extractor.Text(ctx, data, mimeType, fileName)
	if err != nil {
		telemetry.Error("analysis.extract_failed", map[string]any{
			"code":      classifyError(err),
			"file_name": fileName,
			"mime_type": mimeType,
			"error":     sanitizeError(err),
		})
		return Analysis{}, err
	}

	return s.Analyze(ctx, Request{ResumeText: text, JobDescription: jobDescription})
}

func (s *Service) fail(startedAt time.Time, err error) {
	completedAt := time.Now().UTC()
	metrics.IncAnalysisFailed()
	metrics.ObserveAnalysisDurationMs(float64(completedAt.Sub(startedAt).Microseconds()) / 1000.0)
	telemetry.Error("analysis.failed", map[string]any{
		"code":  classifyError(err),
		"error": sanitizeError(err),
	})
}

func classifyError(err error) string {
	var transportErr *httpjson.TransportError
	var schemaErr *llm.SchemaViolationError
	switch {
	case errors.Is(err, ErrEmptyResume), errors.Is(err, extract.ErrUnsupportedType):
		return ErrorCodeValidation
	case errors.Is(err, extract.ErrCorruptDocument):
		return ErrorCodeCorruptDoc
	case errors.As(err, &transportErr):
		return ErrorCodeTransport
	case errors.As(err, &schemaErr):
		return ErrorCodeSchemaMismatch
	default:
		return ErrorCodeInternal
	}
}

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ReplaceAll(err.Error(), "\n", " ")
	msg = strings.ReplaceAll(msg, "\r", " ")
	msg = strings.TrimSpace(msg)
	const maxLen = 500
	if len(msg) > maxLen {
		msg = msg[:maxLen]
	}
	return msg
}
