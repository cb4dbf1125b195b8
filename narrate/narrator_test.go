package narrate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avestoai/avesto-go/core"
)

func TestTemplateNarrative(t *testing.T) {
	result := &core.AnalysisResult{
		TotalAnnualValue: 54_000,
		Opportunities: []core.ScoredOpportunity{
			{Opportunity: core.Opportunity{Title: "Move idle cash to a high-yield savings account", PotentialAnnualValue: 12_000}},
			{Opportunity: core.Opportunity{Title: "Pay off your credit card", PotentialAnnualValue: 42_000}},
		},
	}

	text, err := Template{}.Narrative(context.Background(), result)
	require.NoError(t, err)
	assert.Contains(t, text, "2 opportunities")
	assert.Contains(t, text, "₹54000")
	assert.Contains(t, text, "move idle cash")
	assert.NotContains(t, text, "sample data")
}

func TestTemplateNarrativeFallbackNote(t *testing.T) {
	result := &core.AnalysisResult{
		FallbackMode: true,
		Opportunities: []core.ScoredOpportunity{
			{Opportunity: core.Opportunity{Title: "Build a full emergency fund", PotentialAnnualValue: 18_000}},
		},
		TotalAnnualValue: 18_000,
	}
	text, err := Template{}.Narrative(context.Background(), result)
	require.NoError(t, err)
	assert.Contains(t, text, "1 opportunity ")
	assert.Contains(t, text, "sample data")
}

func TestTemplateNarrativeEmpty(t *testing.T) {
	text, err := Template{}.Narrative(context.Background(), &core.AnalysisResult{})
	require.NoError(t, err)
	assert.Contains(t, text, "no pressing gaps")
}

func TestParseSuggestions(t *testing.T) {
	text := "```json\n[{\"type\":\"tax_optimization\",\"title\":\"Claim your HRA exemption\",\"annual_value\":25000,\"priority\":\"medium\",\"effort\":\"low\",\"confidence\":0.6}]\n```"
	opps, err := parseSuggestions(text)
	require.NoError(t, err)
	require.Len(t, opps, 1)
	assert.Equal(t, core.TypeTaxOptimization, opps[0].Type)
	assert.Equal(t, 25_000.0, opps[0].PotentialAnnualValue)
	assert.Equal(t, core.EffortLow, opps[0].EffortLevel)
	assert.Equal(t, "advisor_suggested", opps[0].Category)
}

func TestParseSuggestionsEmptyArray(t *testing.T) {
	opps, err := parseSuggestions("[]")
	require.NoError(t, err)
	assert.Empty(t, opps)
}

func TestParseSuggestionsProseFails(t *testing.T) {
	_, err := parseSuggestions("I have no suggestions today.")
	assert.Error(t, err)
}

func TestSuggestionPromptOmitsUnknownAge(t *testing.T) {
	prompt, err := suggestionPrompt(&core.FinancialSnapshot{})
	require.NoError(t, err)
	assert.NotContains(t, prompt, "age")

	prompt, err = suggestionPrompt(&core.FinancialSnapshot{Profile: core.Profile{Age: 32}})
	require.NoError(t, err)
	assert.Contains(t, prompt, `"age":32`)
}

func TestNarrationPromptShape(t *testing.T) {
	prompt, err := narrationPrompt(&core.AnalysisResult{
		TotalAnnualValue: 12_000,
		Opportunities: []core.ScoredOpportunity{
			{Opportunity: core.Opportunity{Title: "t", PotentialAnnualValue: 12_000, Priority: core.PriorityMedium}},
		},
	})
	require.NoError(t, err)
	assert.Contains(t, prompt, `"total_annual_value":12000`)
	assert.Contains(t, prompt, `"priority":"medium"`)
}
