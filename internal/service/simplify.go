package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Rob-Kornblum/legal-ease/internal/metrics"
	"github.com/Rob-Kornblum/legal-ease/internal/model"
)

// NoResponse is shown when a /simplify reply carries none of the known fields.
const NoResponse = "No response."

// resultFields is the order in which /simplify reply fields are tried.
var resultFields = []string{"response", "result", "plain_english"}

// SimplifyClient talks to the remote simplification service.
type SimplifyClient struct {
	baseURL string
	timeout time.Duration
	client  *http.Client
	metrics *metrics.Metrics
}

func NewSimplifyClient(baseURL string, timeout time.Duration, m *metrics.Metrics) *SimplifyClient {
	return &SimplifyClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		client:  &http.Client{},
		metrics: m,
	}
}

func (s *SimplifyClient) BaseURL() string { return s.baseURL }

// Health probes GET /health. Any 2xx is healthy; everything else is an error.
func (s *SimplifyClient) Health(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	err := s.health(ctx)
	if err != nil {
		s.metrics.ObserveHealth(string(model.StatusDown))
		return err
	}
	s.metrics.ObserveHealth(string(model.StatusUp))
	return nil
}

func (s *SimplifyClient) health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("health call: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("health status %d", resp.StatusCode)
	}
	return nil
}

// Simplify POSTs {"text": text} to /simplify and extracts the plain-English
// text and category from the reply.
func (s *SimplifyClient) Simplify(ctx context.Context, text string) (*model.SimplifyResult, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	res, err := s.simplify(ctx, text)
	if err != nil {
		s.metrics.ObserveSimplify(metrics.OutcomeError, time.Since(start))
		return nil, err
	}
	s.metrics.ObserveSimplify(metrics.OutcomeOK, time.Since(start))
	return res, nil
}

func (s *SimplifyClient) simplify(ctx context.Context, text string) (*model.SimplifyResult, error) {
	payload, _ := json.Marshal(model.SimplifyRequest{Text: text})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/simplify", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("simplify call: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("simplify status %d: %s", resp.StatusCode, truncate(string(data), 200))
	}
	return ParseSimplifyResponse(data)
}

// ParseSimplifyResponse reads a /simplify reply permissively. The display
// text is the first non-empty string among response, result and
// plain_english, else NoResponse. A non-object body is an error.
func ParseSimplifyResponse(data []byte) (*model.SimplifyResult, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("decode response: not a JSON object")
	}

	res := &model.SimplifyResult{PlainEnglish: NoResponse}
	for _, field := range resultFields {
		if v, ok := raw[field].(string); ok && v != "" {
			res.PlainEnglish = v
			break
		}
	}
	if c, ok := raw["category"].(string); ok {
		res.Category = c
	}
	return res, nil
}

func (s *SimplifyClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
