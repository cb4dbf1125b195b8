package narrate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/avestoai/avesto-go/core"
)

const advisorSystemPrompt = `You are a financial advisor reviewing an Indian retail investor's finances.
Suggest up to 2 additional opportunities the rule-based analysis may have missed.
Respond with ONLY a JSON array, no prose. Each element:
{"type": one of "savings_optimization","investment_growth","expense_reduction","debt_reduction","tax_optimization","risk_mitigation","income_enhancement",
 "title": short imperative sentence,
 "description": one sentence,
 "annual_value": rupees per year as a number,
 "priority": "low"|"medium"|"high",
 "effort": "low"|"medium"|"high",
 "confidence": number in (0,1]}
Suggest nothing you cannot ground in the figures given. An empty array is a fine answer.`

// Suggester proposes extra opportunity candidates for a snapshot. The engine
// validates suggestions before scoring; a Suggester error only means no
// extra candidates.
type Suggester interface {
	Suggest(ctx context.Context, snapshot *core.FinancialSnapshot) ([]core.Opportunity, error)
}

// Suggest asks the model for additional candidates grounded in the snapshot
// figures.
func (n *LLM) Suggest(ctx context.Context, snapshot *core.FinancialSnapshot) ([]core.Opportunity, error) {
	prompt, err := suggestionPrompt(snapshot)
	if err != nil {
		return nil, err
	}

	msg, err := n.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     n.model,
		MaxTokens: n.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: advisorSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		n.log.Warn().Err(err).Msg("suggestion request failed")
		return nil, err
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return parseSuggestions(b.String())
}

// suggestionPrompt serializes the snapshot figures an advisor needs, nothing
// identifying.
func suggestionPrompt(snapshot *core.FinancialSnapshot) (string, error) {
	payload := map[string]any{
		"liquid_balance":    snapshot.LiquidBalance(),
		"total_investments": snapshot.TotalInvestments,
		"total_debt":        snapshot.TotalDebt,
		"monthly_income":    snapshot.Income.Monthly,
		"monthly_expenses":  snapshot.Expenses.Monthly,
		"annual_income":     snapshot.Income.Annual,
		"credit_score":      snapshot.CreditScore,
		"emergency_months":  snapshot.EmergencyFundMonths,
		"debt_to_income":    snapshot.DebtToIncomeRatio,
	}
	if snapshot.Profile.Age > 0 {
		payload["age"] = snapshot.Profile.Age
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

type suggestedOpportunity struct {
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	AnnualValue float64 `json:"annual_value"`
	Priority    string  `json:"priority"`
	Effort      string  `json:"effort"`
	Confidence  float64 `json:"confidence"`
}

// parseSuggestions decodes the model's JSON array, tolerating markdown code
// fences around it.
func parseSuggestions(text string) ([]core.Opportunity, error) {
	text = strings.TrimSpace(text)
	if start := strings.Index(text, "["); start >= 0 {
		if end := strings.LastIndex(text, "]"); end > start {
			text = text[start : end+1]
		}
	}

	var suggestions []suggestedOpportunity
	if err := json.Unmarshal([]byte(text), &suggestions); err != nil {
		return nil, fmt.Errorf("failed to parse suggestions: %w", err)
	}

	opps := make([]core.Opportunity, 0, len(suggestions))
	for _, s := range suggestions {
		opps = append(opps, core.Opportunity{
			Type:                 core.OpportunityType(s.Type),
			Title:                s.Title,
			Description:          s.Description,
			PotentialAnnualValue: s.AnnualValue,
			Priority:             core.Priority(s.Priority),
			EffortLevel:          core.Effort(s.Effort),
			ConfidenceScore:      s.Confidence,
			RiskLevel:            "medium",
			Category:             "advisor_suggested",
		})
	}
	return opps, nil
}
