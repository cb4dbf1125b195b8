// Package score ranks opportunity candidates. The composite score blends
// financial impact with confidence, then discounts by effort and priority;
// ranking is deterministic: equal scores keep analyzer emission order.
package score

import (
	"fmt"
	"math"
	"sort"

	"github.com/avestoai/avesto-go/core"
)

const (
	defaultMaxOpportunities   = 10
	defaultMaxRecommendations = 5

	// Impact saturates at this annual value.
	impactUnit = 10_000
	impactCap  = 10
)

// WellOptimizedMessage is returned as the sole recommendation when no
// analyzer found anything actionable.
const WellOptimizedMessage = "Your finances look well optimized. Keep your current habits and review again next quarter."

// Config configures the scorer.
type Config struct {
	// MaxOpportunities caps the ranked list. Default 10.
	MaxOpportunities int

	// MaxRecommendations caps the recommendation strings. Default 5.
	MaxRecommendations int

	// TotalOverReturned sums TotalAnnualValue over only the returned
	// (capped) list instead of every candidate found.
	TotalOverReturned bool
}

// Scorer ranks candidates and derives the result summary figures.
type Scorer struct {
	cfg Config
}

// New creates a scorer.
func New(cfg Config) *Scorer {
	if cfg.MaxOpportunities <= 0 {
		cfg.MaxOpportunities = defaultMaxOpportunities
	}
	if cfg.MaxRecommendations <= 0 {
		cfg.MaxRecommendations = defaultMaxRecommendations
	}
	return &Scorer{cfg: cfg}
}

// Composite computes the ranking score for one candidate.
func Composite(o core.Opportunity) float64 {
	impact := math.Min(o.PotentialAnnualValue/impactUnit, impactCap)
	confidence := o.ConfidenceScore * 10
	return (impact + confidence) * effortMultiplier(o.EffortLevel) * priorityMultiplier(o.Priority)
}

func effortMultiplier(e core.Effort) float64 {
	switch e {
	case core.EffortLow:
		return 1.0
	case core.EffortHigh:
		return 0.6
	default:
		return 0.8
	}
}

func priorityMultiplier(p core.Priority) float64 {
	switch p {
	case core.PriorityUrgent:
		return 1.2
	case core.PriorityHigh:
		return 1.0
	case core.PriorityLow:
		return 0.6
	default:
		return 0.8
	}
}

// Rank scores every candidate, sorts highest first, and truncates to the
// configured cap. The input slice is not modified.
func (s *Scorer) Rank(candidates []core.Opportunity) []core.ScoredOpportunity {
	scored := make([]core.ScoredOpportunity, 0, len(candidates))
	for _, opp := range candidates {
		scored = append(scored, core.ScoredOpportunity{
			Opportunity:    opp,
			CompositeScore: Composite(opp),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].CompositeScore > scored[j].CompositeScore
	})
	if len(scored) > s.cfg.MaxOpportunities {
		scored = scored[:s.cfg.MaxOpportunities]
	}
	return scored
}

// TotalValue sums the annual value over all candidates found, or over only
// the returned list when configured so.
func (s *Scorer) TotalValue(all []core.Opportunity, returned []core.ScoredOpportunity) float64 {
	var total float64
	if s.cfg.TotalOverReturned {
		for _, opp := range returned {
			total += opp.PotentialAnnualValue
		}
		return total
	}
	for _, opp := range all {
		total += opp.PotentialAnnualValue
	}
	return total
}

// MeanConfidence averages the confidence of the returned candidates.
// Zero when the list is empty.
func MeanConfidence(returned []core.ScoredOpportunity) float64 {
	if len(returned) == 0 {
		return 0
	}
	var sum float64
	for _, opp := range returned {
		sum += opp.ConfidenceScore
	}
	return sum / float64(len(returned))
}

// Recommendations renders the ranked list into a short action list:
// the biggest win in the top three, the first quick win, the first risk
// fix, then remaining candidates in rank order. Each candidate appears at
// most once.
func (s *Scorer) Recommendations(returned []core.ScoredOpportunity) []string {
	if len(returned) == 0 {
		return []string{WellOptimizedMessage}
	}

	var recs []string
	used := make(map[string]bool)
	add := func(opp core.ScoredOpportunity, format string) {
		if len(recs) >= s.cfg.MaxRecommendations || used[opp.ID] {
			return
		}
		used[opp.ID] = true
		recs = append(recs, fmt.Sprintf(format, opp.Title, opp.PotentialAnnualValue))
	}

	top := returned
	if len(top) > 3 {
		top = top[:3]
	}
	best := top[0]
	for _, opp := range top[1:] {
		if opp.PotentialAnnualValue > best.PotentialAnnualValue {
			best = opp
		}
	}
	add(best, "Start here: %s (worth ₹%.0f/year)")

	for _, opp := range returned {
		if opp.EffortLevel == core.EffortLow {
			add(opp, "Quick win: %s (worth ₹%.0f/year)")
			break
		}
	}
	for _, opp := range returned {
		if opp.Type == core.TypeRiskMitigation {
			add(opp, "Protect your downside: %s (worth ₹%.0f/year)")
			break
		}
	}
	for _, opp := range returned {
		add(opp, "Also consider: %s (worth ₹%.0f/year)")
	}
	return recs
}
