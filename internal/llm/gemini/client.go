package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"critique-backend/internal/llm"
	"critique-backend/internal/shared/httpjson"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultTimeout = 120 * time.Second
)

// Config holds the settings for a Gemini client.
type Config struct {
	APIKey       string
	Model        string
	BaseURL      string
	MaxRetries   int
	InitialDelay time.Duration

	// HTTP overrides the transport, mainly for tests.
	HTTP *httpjson.Client
}

// Client implements llm.Client against the Gemini generateContent API.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *httpjson.Client
	retry      httpjson.Options
}

// NewClient constructs a Gemini client.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required")
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := cfg.HTTP
	if httpClient == nil {
		httpClient = httpjson.NewClient(defaultTimeout)
	}
	return &Client{
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		baseURL:    baseURL,
		httpClient: httpClient,
		retry: httpjson.Options{
			MaxRetries:   cfg.MaxRetries,
			InitialDelay: cfg.InitialDelay,
		},
	}, nil
}

type generateRequest struct {
	Contents         []contentPayload `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type contentPayload struct {
	Role  string        `json:"role"`
	Parts []partPayload `json:"parts"`
}

type partPayload struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMIMEType string         `json:"responseMimeType"`
	ResponseSchema   map[string]any `json:"responseSchema"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []partPayload `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Critique sends the resume and job description to the model and returns the
// inner report JSON. The generateContent envelope carries the report as a
// JSON-encoded string inside candidates[0].content.parts[0].text; that text
// is returned as-is for the caller to parse.
func (c *Client) Critique(ctx context.Context, input llm.CritiqueInput) (json.RawMessage, error) {
	reqBody := generateRequest{
		Contents: []contentPayload{
			{
				Role:  "user",
				Parts: []partPayload{{Text: BuildPrompt(input.ResumeText, input.JobDescription)}},
			},
		},
		GenerationConfig: generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   reportSchema(),
		},
	}

	raw, err := c.httpClient.Post(ctx, c.endpoint(), reqBody, c.retry)
	if err != nil {
		if errors.Is(err, httpjson.ErrMalformedBody) {
			return nil, &llm.SchemaViolationError{Reason: "response body is not valid JSON", Cause: err}
		}
		return nil, err
	}

	var envelope generateResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, &llm.SchemaViolationError{Reason: "unexpected envelope structure", Cause: err}
	}
	if len(envelope.Candidates) == 0 {
		return nil, &llm.SchemaViolationError{Reason: "envelope has no candidates"}
	}
	parts := envelope.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return nil, &llm.SchemaViolationError{Reason: "candidate content has no parts"}
	}
	text := strings.TrimSpace(parts[0].Text)
	if text == "" {
		return nil, &llm.SchemaViolationError{Reason: "candidate text is empty"}
	}
	return json.RawMessage(text), nil
}

func (c *Client) endpoint() string {
	return fmt.Sprintf("%s/v1/models/%s:generateContent?key=%s", c.baseURL, c.model, url.QueryEscape(c.apiKey))
}

var _ llm.Client = (*Client)(nil)
