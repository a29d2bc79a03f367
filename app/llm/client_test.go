package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gradstats/app/cfg"
)

func testClient(serverURL string) *Client {
	return NewClient(&cfg.Cfg{
		GeneratorURL:       serverURL,
		GeneratorTimeout:   5,
		GeneratorMaxTokens: 64,
	})
}

func TestClientProposeNames(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/completion" {
			t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
		}

		var req completionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		if !strings.Contains(req.Prompt, "Yale") {
			t.Errorf("Prompt should carry the raw text, got %q", req.Prompt)
		}
		if req.MaxTokens != 64 {
			t.Errorf("MaxTokens = %d", req.MaxTokens)
		}

		json.NewEncoder(w).Encode(completionResponse{
			Completion: " Yale University | Statistics and Data Science\n",
		})
	}))
	defer server.Close()

	proposal, err := testClient(server.URL).ProposeNames(context.Background(), "Statistics, Yale")
	if err != nil {
		t.Fatal(err)
	}
	if proposal.University != "Yale University" {
		t.Errorf("University = %q", proposal.University)
	}
	if proposal.Program != "Statistics and Data Science" {
		t.Errorf("Program = %q", proposal.Program)
	}
}

func TestClientServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	if _, err := testClient(server.URL).ProposeNames(context.Background(), "anything"); err == nil {
		t.Error("Expected an error for a 503 response")
	}
}

func TestParseCompletion(t *testing.T) {
	cases := []struct {
		completion string
		university string
		program    string
	}{
		{"Yale University | Statistics", "Yale University", "Statistics"},
		{"Answer: Yale University | Statistics", "Yale University", "Statistics"},
		{"\n\n  McGill University | Information Studies  \nExtra chatter", "McGill University", "Information Studies"},
		{"Sure! Here is the answer.\nYale University | Statistics", "Yale University", "Statistics"},
		{" | Statistics", "", "Statistics"},
	}

	for _, c := range cases {
		proposal, err := parseCompletion(c.completion)
		if err != nil {
			t.Errorf("%q: unexpected error %v", c.completion, err)
			continue
		}
		if proposal.University != c.university || proposal.Program != c.program {
			t.Errorf("%q: got %+v", c.completion, proposal)
		}
	}
}

func TestParseCompletionUnparseable(t *testing.T) {
	for _, completion := range []string{
		"",
		"I could not determine the university.",
		"a | b | c",
		" | ",
	} {
		if _, err := parseCompletion(completion); err == nil {
			t.Errorf("%q: expected an error", completion)
		}
	}
}
