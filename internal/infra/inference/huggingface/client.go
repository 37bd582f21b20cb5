package huggingface

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultBaseURL = "https://api-inference.huggingface.co"
	defaultTimeout = 60 * time.Second
	maxErrorBody   = 4 << 10
)

// Config configures the inference endpoint.
type Config struct {
	BaseURL  string
	APIToken string
	Timeout  time.Duration
}

// SummaryParams mirrors the summarization pipeline parameters.
type SummaryParams struct {
	MaxLength  int  `json:"max_length"`
	MinLength  int  `json:"min_length"`
	Truncation bool `json:"truncation"`
}

type summaryRequest struct {
	Inputs     string        `json:"inputs"`
	Parameters SummaryParams `json:"parameters"`
}

// Summary is one generated summary.
type Summary struct {
	SummaryText string `json:"summary_text"`
}

type pairInput struct {
	Text     string `json:"text"`
	TextPair string `json:"text_pair"`
}

type classifyRequest struct {
	Inputs pairInput `json:"inputs"`
}

// LabelScore is one text-classification output.
type LabelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type apiError struct {
	Error         string  `json:"error"`
	EstimatedTime float64 `json:"estimated_time,omitempty"`
}

// Client calls a Hugging Face Inference API compatible server.
type Client struct {
	http   *resty.Client
	logger *slog.Logger
}

// NewClient constructs an inference client.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = defaultBaseURL
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("invalid inference base url: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(base, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if token := strings.TrimSpace(cfg.APIToken); token != "" {
		httpClient.SetAuthToken(token)
	}
	return &Client{http: httpClient, logger: logger.With("component", "huggingface.client")}, nil
}

// Summarize runs a summarization model.
func (c *Client) Summarize(ctx context.Context, model, text string, params SummaryParams) ([]Summary, error) {
	body, err := c.post(ctx, model, summaryRequest{Inputs: text, Parameters: params})
	if err != nil {
		return nil, err
	}
	var out []Summary
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode summarization response: %w", err)
	}
	return out, nil
}

// Classify runs a text-classification model on a premise/hypothesis pair.
// Labels are returned best first.
func (c *Client) Classify(ctx context.Context, model, premise, hypothesis string) ([]LabelScore, error) {
	body, err := c.post(ctx, model, classifyRequest{Inputs: pairInput{Text: premise, TextPair: hypothesis}})
	if err != nil {
		return nil, err
	}
	return decodeLabels(body)
}

func (c *Client) post(ctx context.Context, model string, payload any) ([]byte, error) {
	model = strings.Trim(strings.TrimSpace(model), "/")
	if model == "" {
		return nil, errors.New("inference model cannot be empty")
	}
	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		Post("/models/" + model)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", model, err)
	}
	c.logger.Debug("inference call", "model", model, "status", resp.StatusCode(), "latency_ms", time.Since(start).Milliseconds())
	if resp.IsError() {
		return nil, statusError(model, resp.StatusCode(), resp.Body())
	}
	return resp.Body(), nil
}

func statusError(model string, status int, body []byte) error {
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != "" {
		if apiErr.EstimatedTime > 0 {
			return fmt.Errorf("inference %s failed: status=%d error=%s (estimated_time=%.0fs)", model, status, apiErr.Error, apiErr.EstimatedTime)
		}
		return fmt.Errorf("inference %s failed: status=%d error=%s", model, status, apiErr.Error)
	}
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return fmt.Errorf("inference %s failed: status=%d body=%s", model, status, string(body))
}

// decodeLabels accepts both the flat [{label,score}] and the batched
// [[{label,score}]] response shapes.
func decodeLabels(body []byte) ([]LabelScore, error) {
	var flat []LabelScore
	if err := json.Unmarshal(body, &flat); err == nil {
		return flat, nil
	}
	var nested [][]LabelScore
	if err := json.Unmarshal(body, &nested); err != nil {
		return nil, fmt.Errorf("decode classification response: %w", err)
	}
	if len(nested) == 0 {
		return []LabelScore{}, nil
	}
	return nested[0], nil
}
