package recommendations

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"stagepass/internal/shared/config"
)

// TextGenerator is the external generative text collaborator.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type httpGenerator struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewHTTPGenerator(cfg config.RecommendationsConfig) TextGenerator {
	return &httpGenerator{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		client:   &http.Client{Timeout: cfg.Timeout},
	}
}

type generateRequest struct {
	Prompt string `json:"prompt"`
}

type generateResponse struct {
	Text string `json:"text"`
}

func (g *httpGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.endpoint == "" {
		return "", fmt.Errorf("text generation endpoint not configured")
	}

	payload, err := json.Marshal(generateRequest{Prompt: prompt})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("text generation returned status %d", resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.Text, nil
}
