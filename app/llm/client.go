// Package llm talks to the auxiliary text-generation service that proposes
// standardized university and program names. The service is treated as
// unreliable by contract: callers guard every proposal before using it.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"gradstats/app/cfg"
	"gradstats/app/clean"
)

type completionRequest struct {
	Prompt    string `json:"prompt"`
	MaxTokens int    `json:"max_tokens"`
}

type completionResponse struct {
	Completion string `json:"completion"`
}

// Client implements clean.Generator over the generation service's HTTP
// completion endpoint.
type Client struct {
	http      *resty.Client
	maxTokens int
}

var _ clean.Generator = (*Client)(nil)

func NewClient(config *cfg.Cfg) *Client {
	client := resty.New()
	client.SetBaseURL(config.GeneratorURL)
	client.SetTimeout(time.Duration(config.GeneratorTimeout) * time.Second)
	client.SetHeader("Content-Type", "application/json")

	return &Client{
		http:      client,
		maxTokens: config.GeneratorMaxTokens,
	}
}

// ProposeNames asks the service to split and correct one raw posting text.
// Any transport, status or parse failure comes back as an error; the caller
// falls back to the original text.
func (c *Client) ProposeNames(ctx context.Context, raw string) (clean.Proposal, error) {
	body, err := json.Marshal(completionRequest{
		Prompt:    buildPrompt(raw),
		MaxTokens: c.maxTokens,
	})
	if err != nil {
		return clean.Proposal{}, fmt.Errorf("failed to encode completion request: %w", err)
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Post("/completion")
	if err != nil {
		return clean.Proposal{}, fmt.Errorf("completion request failed: %w", err)
	}
	if res.StatusCode() != 200 {
		return clean.Proposal{}, fmt.Errorf("completion request failed: status %d", res.StatusCode())
	}

	var parsed completionResponse
	if err := json.Unmarshal(res.Body(), &parsed); err != nil {
		return clean.Proposal{}, fmt.Errorf("failed to decode completion response: %w", err)
	}

	proposal, err := parseCompletion(parsed.Completion)
	if err != nil {
		return clean.Proposal{}, err
	}
	return proposal, nil
}

// parseCompletion extracts the "University | Program" answer line from the
// model output. Models pad their answers with echoes of the prompt and
// trailing chatter, so only the first line containing exactly one separator
// counts.
func parseCompletion(completion string) (clean.Proposal, error) {
	for _, line := range strings.Split(completion, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.TrimPrefix(line, "Answer:")
		line = strings.TrimSpace(line)

		parts := strings.Split(line, "|")
		if len(parts) != 2 {
			continue
		}

		university := strings.TrimSpace(parts[0])
		program := strings.TrimSpace(parts[1])
		if university == "" && program == "" {
			continue
		}
		return clean.Proposal{University: university, Program: program}, nil
	}

	return clean.Proposal{}, fmt.Errorf("unparseable completion: %q", truncate(completion, 120))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
