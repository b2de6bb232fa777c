package analyses

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"critique-backend/internal/extract"
	"critique-backend/internal/llm"
	"critique-backend/internal/shared/httpjson"
)

func newTestRouter(client llm.Client) (*gin.Engine, *Service) {
	gin.SetMode(gin.TestMode)
	svc := &Service{
		LLM:       client,
		Extractor: extract.NewService(),
		Slot:      NewReportSlot(),
	}
	r := gin.New()
	api := r.Group("/api/v1")
	NewHandler(svc).RegisterRoutes(api)
	return r, svc
}

func postJSON(r *gin.Engine, payload string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestCreateAnalysisSuccess(t *testing.T) {
	r, _ := newTestRouter(&stubLLM{resp: validReport})

	rr := postJSON(r, `{"resumeText":"resume body","jobDescription":"jd"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	var got Analysis
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, 72.0, got.Report.ATSScore)
	assert.Equal(t, []string{"clear layout"}, got.Report.Strengths)
}

func TestCreateAnalysisEmptyResume(t *testing.T) {
	stub := &stubLLM{resp: validReport}
	r, _ := newTestRouter(stub)

	rr := postJSON(r, `{"resumeText":""}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "validation_error")
	assert.Zero(t, stub.calls.Load(), "no network call for empty resume")
}

func TestCreateAnalysisTransportFailure(t *testing.T) {
	r, _ := newTestRouter(&stubLLM{err: &httpjson.TransportError{Attempts: 4, Status: 503}})

	rr := postJSON(r, `{"resumeText":"resume"}`)
	require.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Contains(t, rr.Body.String(), "llm_unavailable")
}

func TestCreateAnalysisSchemaMismatch(t *testing.T) {
	r, _ := newTestRouter(&stubLLM{err: &llm.SchemaViolationError{Reason: "envelope has no candidates"}})

	rr := postJSON(r, `{"resumeText":"resume"}`)
	require.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Contains(t, rr.Body.String(), "llm_schema_mismatch")
}

func TestCreateAnalysisCorruptUpload(t *testing.T) {
	r, _ := newTestRouter(&stubLLM{resp: validReport})

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "resume.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("this is a fake PDF"))
	require.NoError(t, err)
	require.NoError(t, writer.WriteField("jobDescription", "jd"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), "corrupt_document")
}

func TestLatestAnalysis(t *testing.T) {
	r, svc := newTestRouter(&stubLLM{resp: validReport})

	// Empty slot first.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/analyses/latest", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusNotFound, rr.Code)

	analysis, err := svc.Analyze(context.Background(), Request{ResumeText: "resume"})
	require.NoError(t, err)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/analyses/latest", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var got Analysis
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, analysis.ID, got.ID)
}
