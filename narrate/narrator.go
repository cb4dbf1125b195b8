// Package narrate turns an analysis result into a short plain-language
// explanation. The LLM-backed narrator is optional; the template narrator
// is deterministic and always available, so a narration failure never
// fails an analysis.
package narrate

import (
	"context"
	"fmt"
	"strings"

	"github.com/avestoai/avesto-go/core"
)

// Narrator produces the narrative paragraph for an analysis result.
type Narrator interface {
	Narrative(ctx context.Context, result *core.AnalysisResult) (string, error)
}

// Template is the deterministic fallback narrator.
type Template struct{}

func (Template) Narrative(_ context.Context, result *core.AnalysisResult) (string, error) {
	if len(result.Opportunities) == 0 {
		return "We reviewed your finances and found no pressing gaps. Your money is working well where it is.", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "We found %d %s worth about ₹%.0f per year.",
		len(result.Opportunities), pluralize("opportunity", "opportunities", len(result.Opportunities)),
		result.TotalAnnualValue)

	top := result.Opportunities[0]
	fmt.Fprintf(&b, " The biggest win: %s, worth ₹%.0f per year.",
		lowerFirst(top.Title), top.PotentialAnnualValue)

	if result.FallbackMode {
		b.WriteString(" This analysis used sample data because your accounts could not be reached.")
	}
	return b.String(), nil
}

func pluralize(singular, plural string, n int) string {
	if n == 1 {
		return singular
	}
	return plural
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'A' && s[0] <= 'Z' {
		return string(s[0]-'A'+'a') + s[1:]
	}
	return s
}
