// Package advisor suggests a canonical name for a group of near-duplicate
// tags using the Gemini API. It is an optional convenience on top of the
// reconciliation engine; nothing in the engine depends on it, and without an
// API key it fails with a configuration error rather than degrading the run.
package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"

	"github.com/plonetools/tagctl/pkg/errors"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.0-flash"

// Suggestion is the advisor's answer for one tag group.
type Suggestion struct {
	Canonical string   `json:"canonical"`
	Rationale string   `json:"rationale,omitempty"`
	Group     []string `json:"group"`
}

// Advisor asks a generative model to pick the canonical spelling of a tag
// group.
type Advisor struct {
	client *genai.Client
	model  string
}

// New creates an advisor. The API key comes from GEMINI_API_KEY or
// GOOGLE_API_KEY.
func New(ctx context.Context, model string) (*Advisor, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("GOOGLE_API_KEY")
	}
	if apiKey == "" {
		return nil, &errors.ConfigError{
			Component: "advisor",
			Message:   "GEMINI_API_KEY is not set; tag suggestions need a Gemini API key",
		}
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  apiKey,
	})
	if err != nil {
		return nil, &errors.ConfigError{
			Component: "advisor",
			Message:   "creating Gemini client",
			Err:       err,
		}
	}

	if model == "" {
		model = DefaultModel
	}
	return &Advisor{client: client, model: model}, nil
}

const promptTemplate = `These content tags from one website are spelling or
formatting variants of the same concept:

%s

Answer with a single JSON object, no markdown fences:
{"canonical": "<the best spelling to keep>", "rationale": "<one short sentence>"}

Prefer an existing spelling from the list over inventing a new one.`

// Suggest returns the canonical spelling for a group of variant tags.
func (a *Advisor) Suggest(ctx context.Context, group []string) (*Suggestion, error) {
	if len(group) < 2 {
		return nil, errors.NewValidationError("group", group, "need at least two tags to choose between")
	}

	prompt := fmt.Sprintf(promptTemplate, strings.Join(group, "\n"))
	resp, err := a.client.Models.GenerateContent(ctx, a.model, genai.Text(prompt), nil)
	if err != nil {
		return nil, fmt.Errorf("generating tag suggestion: %w", err)
	}

	suggestion, err := parseSuggestion(resp.Text())
	if err != nil {
		return nil, err
	}
	suggestion.Group = group
	return suggestion, nil
}

// parseSuggestion decodes the model's JSON answer, tolerating markdown code
// fences the model sometimes adds anyway.
func parseSuggestion(text string) (*Suggestion, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var suggestion Suggestion
	if err := json.Unmarshal([]byte(cleaned), &suggestion); err != nil {
		return nil, fmt.Errorf("model returned unparseable suggestion %q: %w", text, err)
	}
	if suggestion.Canonical == "" {
		return nil, fmt.Errorf("model returned no canonical tag")
	}
	return &suggestion, nil
}
