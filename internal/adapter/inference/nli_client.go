package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"docqa-orchestrator/internal/domain"
)

// NLIRequest is the request payload for the entailment endpoint.
type NLIRequest struct {
	Premise    string `json:"premise"`
	Hypothesis string `json:"hypothesis"`
	Model      string `json:"model,omitempty"`
}

// NLIResponse is the response from the entailment endpoint.
type NLIResponse struct {
	Label  string `json:"label"`
	Scores struct {
		Entailment    float64 `json:"entailment"`
		Contradiction float64 `json:"contradiction"`
		Neutral       float64 `json:"neutral"`
	} `json:"scores"`
	ProcessingTimeMs *float64 `json:"processing_time_ms,omitempty"`
}

// NLIClient implements domain.EntailmentJudge via HTTP calls to the
// inference sidecar.
type NLIClient struct {
	BaseURL string
	Model   string
	Client  *http.Client
	logger  *slog.Logger
}

// NewNLIClient constructs a new NLIClient.
// baseURL should be the inference service URL (e.g., http://inference:8001).
// model should be the NLI cross-encoder model name (e.g., deberta-v3-base-mnli).
// If client is nil, a default http.Client is created with the given timeout.
func NewNLIClient(baseURL, model string, timeout time.Duration, logger *slog.Logger, client ...*http.Client) *NLIClient {
	var c *http.Client
	if len(client) > 0 && client[0] != nil {
		c = client[0]
	} else {
		c = &http.Client{Timeout: timeout}
	}
	return &NLIClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Model:   model,
		Client:  c,
		logger:  logger,
	}
}

// Judge scores the hypothesis against the premise with a cross-encoder NLI
// model.
func (c *NLIClient) Judge(ctx context.Context, premise, hypothesis string) (*domain.NLIVerdict, error) {
	startTime := time.Now()

	reqBody := NLIRequest{
		Premise:    premise,
		Hypothesis: hypothesis,
		Model:      c.Model,
	}
	jsonPayload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal nli request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/nli", c.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonPayload))
	if err != nil {
		return nil, fmt.Errorf("failed to create nli request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		c.logger.Warn("nli_call_failed",
			slog.String("error", err.Error()),
			slog.Int64("elapsed_ms", time.Since(startTime).Milliseconds()))
		return nil, fmt.Errorf("failed to call nli endpoint: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Warn("nli_call_failed",
			slog.Int("status_code", resp.StatusCode),
			slog.String("body", truncateString(string(body), 500)),
			slog.Int64("elapsed_ms", time.Since(startTime).Milliseconds()))
		return nil, fmt.Errorf("nli endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var nliResp NLIResponse
	if err := json.NewDecoder(resp.Body).Decode(&nliResp); err != nil {
		return nil, fmt.Errorf("failed to decode nli response: %w", err)
	}

	verdict := &domain.NLIVerdict{
		Label: domain.NLILabel(nliResp.Label),
		Scores: domain.NLIScores{
			Entailment:    nliResp.Scores.Entailment,
			Contradiction: nliResp.Scores.Contradiction,
			Neutral:       nliResp.Scores.Neutral,
		},
	}

	c.logger.Debug("nli_call_completed",
		slog.String("label", nliResp.Label),
		slog.Float64("entailment", verdict.Scores.Entailment),
		slog.Int64("elapsed_ms", time.Since(startTime).Milliseconds()))
	return verdict, nil
}

var _ domain.EntailmentJudge = (*NLIClient)(nil)

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
