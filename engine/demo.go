package engine

import (
	"context"

	"github.com/avestoai/avesto-go/core"
	"github.com/avestoai/avesto-go/narrate"
	"github.com/avestoai/avesto-go/score"
)

// demoCandidates is the canned opportunity set served when the pipeline
// itself fails. Values mirror the demo snapshot.
func demoCandidates() []core.Opportunity {
	return []core.Opportunity{
		{
			ID:                   "demo-savings",
			Type:                 core.TypeSavingsOptimization,
			Priority:             core.PriorityMedium,
			Title:                "Move idle cash to a high-yield savings account",
			Description:          "Your savings balance earns below-market interest. A high-yield account adds roughly ₹11,800 per year.",
			PotentialAnnualValue: 11_800,
			EffortLevel:          core.EffortLow,
			TimeToImplement:      "1 day",
			ConfidenceScore:      0.95,
			RiskLevel:            "very_low",
			Category:             "immediate_gain",
		},
		{
			ID:                   "demo-debt",
			Type:                 core.TypeDebtReduction,
			Priority:             core.PriorityHigh,
			Title:                "Pay off your ₹35,000 credit card balance",
			Description:          "At 24% interest this balance costs ₹8,400 per year.",
			PotentialAnnualValue: 8_400,
			EffortLevel:          core.EffortHigh,
			TimeToImplement:      "3-6 months",
			ConfidenceScore:      0.95,
			RiskLevel:            "low",
			Category:             "debt_management",
		},
		{
			ID:                   "demo-tax",
			Type:                 core.TypeTaxOptimization,
			Priority:             core.PriorityMedium,
			Title:                "Use your unused tax deduction room",
			Description:          "Topping up tax-saver instruments saves about ₹30,000 in tax this year.",
			PotentialAnnualValue: 30_000,
			EffortLevel:          core.EffortLow,
			TimeToImplement:      "1 month",
			ConfidenceScore:      0.9,
			RiskLevel:            "low",
			Category:             "tax_planning",
		},
	}
}

// demoResult builds the last-resort analysis result.
func (e *Engine) demoResult(userID, analysisType string) *core.AnalysisResult {
	candidates := demoCandidates()
	ranked := e.scorer.Rank(candidates)
	result := &core.AnalysisResult{
		AnalysisID:       e.newID(),
		UserID:           userID,
		AnalysisType:     analysisType,
		Opportunities:    ranked,
		TotalAnnualValue: e.scorer.TotalValue(candidates, ranked),
		ConfidenceScore:  score.MeanConfidence(ranked),
		Recommendations:  e.scorer.Recommendations(ranked),
		FallbackMode:     true,
		DataSource:       "demo",
	}
	result.Narrative, _ = narrate.Template{}.Narrative(context.Background(), result)
	return result
}
