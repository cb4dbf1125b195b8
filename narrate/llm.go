package narrate

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog"

	"github.com/avestoai/avesto-go/core"
)

const narratorSystemPrompt = `You are a financial advisor writing for an Indian retail investor.
Summarize the analysis below in 2-3 warm, concrete sentences.
Mention the single biggest opportunity and its yearly value in rupees.
No bullet points, no disclaimers, no advice beyond what the analysis contains.`

// LLMConfig configures the Claude-backed narrator.
type LLMConfig struct {
	// APIKey overrides the ANTHROPIC_API_KEY environment variable.
	APIKey string

	// Model is the Claude model name. Default "claude-sonnet-4-5".
	Model string

	// MaxTokens caps the narration length. Default 512.
	MaxTokens int64
}

// LLM narrates results through the Claude API.
type LLM struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
	log       zerolog.Logger
}

// NewLLM creates a Claude-backed narrator. With no explicit key the client
// reads ANTHROPIC_API_KEY from the environment.
func NewLLM(cfg LLMConfig, log zerolog.Logger) *LLM {
	var opts []option.RequestOption
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	model := cfg.Model
	if model == "" {
		model = "claude-sonnet-4-5"
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 512
	}
	return &LLM{
		client:    anthropic.NewClient(opts...),
		model:     anthropic.Model(model),
		maxTokens: maxTokens,
		log:       log.With().Str("component", "narrator").Logger(),
	}
}

// Narrative asks the model for a short explanation of the result. Errors
// are returned to the caller, which falls back to the template narrator.
func (n *LLM) Narrative(ctx context.Context, result *core.AnalysisResult) (string, error) {
	prompt, err := narrationPrompt(result)
	if err != nil {
		return "", err
	}

	msg, err := n.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     n.model,
		MaxTokens: n.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: narratorSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		n.log.Warn().Err(err).Msg("narration request failed")
		return "", err
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", errors.New("narrator returned no text")
	}
	return text, nil
}

// narrationPrompt serializes the figures the model needs: the ranked
// opportunities and summary totals, nothing else from the snapshot.
func narrationPrompt(result *core.AnalysisResult) (string, error) {
	type promptOpportunity struct {
		Title       string  `json:"title"`
		AnnualValue float64 `json:"annual_value"`
		Priority    string  `json:"priority"`
	}
	payload := struct {
		TotalAnnualValue float64             `json:"total_annual_value"`
		FallbackMode     bool                `json:"fallback_mode"`
		Opportunities    []promptOpportunity `json:"opportunities"`
	}{
		TotalAnnualValue: result.TotalAnnualValue,
		FallbackMode:     result.FallbackMode,
	}
	for _, opp := range result.Opportunities {
		payload.Opportunities = append(payload.Opportunities, promptOpportunity{
			Title:       opp.Title,
			AnnualValue: opp.PotentialAnnualValue,
			Priority:    string(opp.Priority),
		})
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
