package core

// OpportunityType classifies what kind of benefit a candidate represents.
type OpportunityType string

const (
	TypeSavingsOptimization OpportunityType = "savings_optimization"
	TypeInvestmentGrowth    OpportunityType = "investment_growth"
	TypeExpenseReduction    OpportunityType = "expense_reduction"
	TypeDebtReduction       OpportunityType = "debt_reduction"
	TypeTaxOptimization     OpportunityType = "tax_optimization"
	TypeRiskMitigation      OpportunityType = "risk_mitigation"
	TypeIncomeEnhancement   OpportunityType = "income_enhancement"
)

// Priority levels, ordered low → urgent.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Effort levels.
type Effort string

const (
	EffortLow    Effort = "low"
	EffortMedium Effort = "medium"
	EffortHigh   Effort = "high"
)

// Opportunity is one candidate recommendation emitted by a single analyzer.
// It is never mutated after creation; the scorer attaches the composite score
// on a wrapping ScoredOpportunity instead.
type Opportunity struct {
	ID                   string          `json:"id"`
	Type                 OpportunityType `json:"type"`
	Priority             Priority        `json:"priority"`
	Title                string          `json:"title"`
	Description          string          `json:"description"`
	PotentialAnnualValue float64         `json:"potential_annual_value"`
	EffortLevel          Effort          `json:"effort_level"`
	TimeToImplement      string          `json:"time_to_implement,omitempty"`
	ConfidenceScore      float64         `json:"confidence_score"` // [0, 1]
	RiskLevel            string          `json:"risk_level"`       // "very_low", "low", "medium", "high"
	Category             string          `json:"category"`
	ActionSteps          []string        `json:"action_steps,omitempty"`
}

// ScoredOpportunity is an Opportunity plus its ranking score.
type ScoredOpportunity struct {
	Opportunity
	CompositeScore float64 `json:"composite_score"`
}

// AnalysisResult is the outbound contract of the pipeline: the ranked
// opportunity list plus summary figures.
type AnalysisResult struct {
	AnalysisID       string              `json:"analysis_id"`
	UserID           string              `json:"user_id"`
	AnalysisType     string              `json:"analysis_type"` // "comprehensive", "quick"
	Opportunities    []ScoredOpportunity `json:"opportunities"` // at most 10
	TotalAnnualValue float64             `json:"total_annual_value"`
	ConfidenceScore  float64             `json:"confidence_score"` // mean over returned candidates
	Recommendations  []string            `json:"recommendations"`  // at most 5
	Narrative        string              `json:"narrative,omitempty"`
	FallbackMode     bool                `json:"fallback_mode"`
	DataSource       string              `json:"data_source"`
}
