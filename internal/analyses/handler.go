package analyses

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"critique-backend/internal/extract"
	"critique-backend/internal/llm"
	"critique-backend/internal/shared/httpjson"
	"critique-backend/internal/shared/server/respond"
)

const maxUploadBytes = 5 << 20

// Handler wires HTTP handlers to the analyses service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyses", h.createAnalysis)
	rg.GET("/analyses/latest", h.latestAnalysis)
}

type createRequest struct {
	ResumeText     string `json:"resumeText" form:"resumeText"`
	JobDescription string `json:"jobDescription" form:"jobDescription"`
}

func (h *Handler) createAnalysis(c *gin.Context) {
	ctx := c.Request.Context()

	if file, err := c.FormFile("file"); err == nil && file != nil {
		if file.Size > maxUploadBytes {
			respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "Uploaded file exceeds the 5 MiB limit", nil)
			return
		}
		src, err := file.Open()
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "Could not read uploaded file", nil)
			return
		}
		defer src.Close()
		data, err := io.ReadAll(io.LimitReader(src, maxUploadBytes+1))
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "Could not read uploaded file", nil)
			return
		}

		analysis, err := h.Svc.AnalyzeDocument(ctx, data, file.Header.Get("Content-Type"), file.Filename, c.PostForm("jobDescription"))
		if err != nil {
			h.respondError(c, err)
			return
		}
		h.respondAnalysis(c, analysis)
		return
	}

	var req createRequest
	if err := c.ShouldBind(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid request body", nil)
		return
	}

	analysis, err := h.Svc.Analyze(ctx, Request{
		ResumeText:     req.ResumeText,
		JobDescription: req.JobDescription,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondAnalysis(c, analysis)
}

func (h *Handler) latestAnalysis(c *gin.Context) {
	if h.Svc == nil || h.Svc.Slot == nil {
		respond.Error(c, http.StatusNotFound, "not_found", "No analysis available", nil)
		return
	}
	analysis, ok := h.Svc.Slot.Latest()
	if !ok {
		respond.Error(c, http.StatusNotFound, "not_found", "No analysis available", nil)
		return
	}
	respond.OK(c, analysis)
}

func (h *Handler) respondAnalysis(c *gin.Context, analysis Analysis) {
	c.Set("analysisId", analysis.ID)
	respond.JSON(c, http.StatusCreated, analysis)
}

// respondError maps each failure kind to a distinct user-visible code.
func (h *Handler) respondError(c *gin.Context, err error) {
	var transportErr *httpjson.TransportError
	var schemaErr *llm.SchemaViolationError

	switch {
	case errors.Is(err, ErrEmptyResume):
		respond.Error(c, http.StatusBadRequest, "validation_error", "Resume text is required", []map[string]string{
			{"field": "resumeText", "issue": "required"},
		})
	case errors.Is(err, extract.ErrUnsupportedType):
		respond.Error(c, http.StatusUnsupportedMediaType, "unsupported_type", "Only PDF and DOCX resumes are supported", nil)
	case errors.Is(err, extract.ErrCorruptDocument):
		respond.Error(c, http.StatusUnprocessableEntity, "corrupt_document", "The uploaded document could not be read", nil)
	case errors.As(err, &transportErr):
		respond.Error(c, http.StatusBadGateway, "llm_unavailable", "The analysis service is unreachable, please try again", nil)
	case errors.As(err, &schemaErr):
		respond.Error(c, http.StatusBadGateway, "llm_schema_mismatch", "The analysis service returned an unexpected response", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to run analysis", nil)
	}
}
