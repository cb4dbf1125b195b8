package analyze

import (
	"fmt"
	"sort"

	"github.com/avestoai/avesto-go/core"
)

const (
	spendingWindowDays = 30
	// Categories below this monthly spend are not worth optimizing.
	spendingMinCategory = 10_000
	// Projected savings below this are noise.
	spendingMinSavings = 2_000
)

// reductionPlan describes how much of a category's spend is realistically
// recoverable and how.
type reductionPlan struct {
	share      float64
	strategy   string
	effort     core.Effort
	timeline   string
	confidence float64
}

var reductionPlans = map[core.Category]reductionPlan{
	core.CategoryFood:          {0.25, "meal planning and cooking at home", core.EffortMedium, "1 month", 0.7},
	core.CategoryTransport:     {0.20, "public transit and ride pooling", core.EffortMedium, "1 month", 0.65},
	core.CategoryEntertainment: {0.30, "an entertainment budget with a hard cap", core.EffortLow, "2 weeks", 0.75},
	core.CategoryShopping:      {0.35, "planned purchases with a 48-hour wait rule", core.EffortMedium, "1 month", 0.7},
}

var defaultPlan = reductionPlan{0.15, "general budgeting", core.EffortLow, "1 month", 0.6}

// SpendingAnalyzer finds discretionary categories with enough recent spend
// to be worth trimming.
type SpendingAnalyzer struct{}

func (a *SpendingAnalyzer) Name() string { return "spending" }

func (a *SpendingAnalyzer) Analyze(s *core.FinancialSnapshot) []core.Opportunity {
	cutoff := s.GeneratedAt.AddDate(0, 0, -spendingWindowDays)

	spend := make(map[core.Category]float64)
	for _, txn := range s.Transactions {
		if txn.Amount >= 0 || !txn.Date.After(cutoff) {
			continue
		}
		// Investment purchases are deliberate outflows, not spending.
		if txn.Category == core.CategoryInvestment {
			continue
		}
		spend[txn.Category] += -txn.Amount
	}

	categories := make([]core.Category, 0, len(spend))
	for category := range spend {
		if spend[category] > spendingMinCategory {
			categories = append(categories, category)
		}
	}
	// Largest spend first; name breaks ties so output order is stable.
	sort.Slice(categories, func(i, j int) bool {
		if spend[categories[i]] != spend[categories[j]] {
			return spend[categories[i]] > spend[categories[j]]
		}
		return categories[i] < categories[j]
	})

	var opps []core.Opportunity
	for _, category := range categories {
		plan, ok := reductionPlans[category]
		if !ok {
			plan = defaultPlan
		}
		monthlySavings := spend[category] * plan.share
		if monthlySavings <= spendingMinSavings {
			continue
		}

		opps = append(opps, core.Opportunity{
			Type:                 core.TypeExpenseReduction,
			Priority:             core.PriorityMedium,
			Title:                fmt.Sprintf("Trim %s spending by ₹%.0f per month", category, monthlySavings),
			Description:          fmt.Sprintf("You spent ₹%.0f on %s in the last %d days. %s typically recovers about %.0f%% of it.", spend[category], category, spendingWindowDays, capitalize(plan.strategy), plan.share*100),
			PotentialAnnualValue: monthlySavings * 12,
			EffortLevel:          plan.effort,
			TimeToImplement:      plan.timeline,
			ConfidenceScore:      plan.confidence,
			RiskLevel:            "low",
			Category:             "lifestyle_optimization",
			ActionSteps: []string{
				fmt.Sprintf("Review your %s transactions from the last month", category),
				fmt.Sprintf("Adopt %s", plan.strategy),
				fmt.Sprintf("Set a monthly cap of ₹%.0f", spend[category]-monthlySavings),
			},
		})
	}
	return opps
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}
