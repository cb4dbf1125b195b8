// Package engine orchestrates the opportunity pipeline: aggregate a
// snapshot, run the analyzers, rank the candidates, narrate the result.
// Analysis is total: every request yields a usable result, degrading to
// demo data rather than failing.
package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/avestoai/avesto-go/analyze"
	"github.com/avestoai/avesto-go/core"
	"github.com/avestoai/avesto-go/narrate"
	"github.com/avestoai/avesto-go/score"
)

// Analysis types.
const (
	// TypeComprehensive runs the full pipeline including narration.
	TypeComprehensive = "comprehensive"
	// TypeQuick skips narration for latency-sensitive callers.
	TypeQuick = "quick"
)

// SnapshotSource builds the financial snapshot for a user.
// *aggregate.Aggregator satisfies it.
type SnapshotSource interface {
	Snapshot(ctx context.Context, userID string) *core.FinancialSnapshot
}

// Recorder persists completed analyses. Optional; persistence failures are
// logged and never fail the analysis.
type Recorder interface {
	Record(ctx context.Context, result *core.AnalysisResult) error
}

// Config configures the engine.
type Config struct {
	// Scoring passes through to the scorer.
	Scoring score.Config

	// Narrator explains results. Nil uses the deterministic template.
	Narrator narrate.Narrator

	// Suggester proposes extra candidates for comprehensive analyses.
	// Nil disables AI-derived opportunities.
	Suggester narrate.Suggester

	// Recorder persists results. Nil disables persistence.
	Recorder Recorder

	// NewID generates analysis and opportunity IDs. Nil uses UUIDs.
	NewID func() string

	// Clock overrides time.Now, for tests.
	Clock func() time.Time
}

// Request is one analysis request.
type Request struct {
	UserID       string
	AnalysisType string // comprehensive (default) or quick

	// ExtraCandidates are caller-supplied opportunities (for example from a
	// conversational advisor) merged with the analyzer output before scoring.
	ExtraCandidates []core.Opportunity
}

// Engine runs analyses.
type Engine struct {
	snapshots SnapshotSource
	registry  *analyze.Registry
	scorer    *score.Scorer
	narrator  narrate.Narrator
	suggester narrate.Suggester
	recorder  Recorder
	newID     func() string
	clock     func() time.Time
	log       zerolog.Logger
}

// New creates an engine with the default analyzer set.
func New(snapshots SnapshotSource, cfg Config, log zerolog.Logger) *Engine {
	newID := cfg.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	narrator := cfg.Narrator
	if narrator == nil {
		narrator = narrate.Template{}
	}
	return &Engine{
		snapshots: snapshots,
		registry:  analyze.NewDefaultRegistry(newID, log),
		scorer:    score.New(cfg.Scoring),
		narrator:  narrator,
		suggester: cfg.Suggester,
		recorder:  cfg.Recorder,
		newID:     newID,
		clock:     clock,
		log:       log.With().Str("component", "engine").Logger(),
	}
}

// Analyze runs the full pipeline for one user. It never fails: an
// unexpected panic degrades to the demo result.
func (e *Engine) Analyze(ctx context.Context, req Request) (result *core.AnalysisResult) {
	analysisType := req.AnalysisType
	if analysisType != TypeQuick {
		analysisType = TypeComprehensive
	}

	defer func() {
		if r := recover(); r != nil {
			e.log.Error().Interface("panic", r).Str("user_id", req.UserID).Msg("analysis failed, serving demo result")
			result = e.demoResult(req.UserID, analysisType)
		}
	}()

	started := e.clock()
	snapshot := e.snapshots.Snapshot(ctx, req.UserID)

	candidates := e.registry.Run(snapshot)

	extras := req.ExtraCandidates
	if analysisType == TypeComprehensive && e.suggester != nil {
		if suggested, err := e.suggester.Suggest(ctx, snapshot); err != nil {
			e.log.Warn().Err(err).Msg("advisor suggestions failed, continuing without")
		} else {
			extras = append(extras, suggested...)
		}
	}
	for _, opp := range validCandidates(extras) {
		if opp.ID == "" {
			opp.ID = e.newID()
		}
		candidates = append(candidates, opp)
	}

	ranked := e.scorer.Rank(candidates)
	result = &core.AnalysisResult{
		AnalysisID:       e.newID(),
		UserID:           req.UserID,
		AnalysisType:     analysisType,
		Opportunities:    ranked,
		TotalAnnualValue: e.scorer.TotalValue(candidates, ranked),
		ConfidenceScore:  score.MeanConfidence(ranked),
		Recommendations:  e.scorer.Recommendations(ranked),
		FallbackMode:     snapshot.FallbackMode,
		DataSource:       snapshot.DataSource,
	}

	if analysisType == TypeComprehensive {
		result.Narrative = e.narrative(ctx, result)
	}

	if e.recorder != nil {
		if err := e.recorder.Record(ctx, result); err != nil {
			e.log.Warn().Err(err).Str("analysis_id", result.AnalysisID).Msg("failed to persist analysis")
		}
	}

	e.log.Info().
		Str("user_id", req.UserID).
		Str("analysis_type", analysisType).
		Int("opportunities", len(result.Opportunities)).
		Float64("total_annual_value", result.TotalAnnualValue).
		Dur("took", e.clock().Sub(started)).
		Msg("analysis complete")
	return result
}

var knownTypes = map[core.OpportunityType]bool{
	core.TypeSavingsOptimization: true,
	core.TypeInvestmentGrowth:    true,
	core.TypeExpenseReduction:    true,
	core.TypeDebtReduction:       true,
	core.TypeTaxOptimization:     true,
	core.TypeRiskMitigation:      true,
	core.TypeIncomeEnhancement:   true,
}

// validCandidates filters externally supplied candidates: a candidate needs
// a known type, a title, a positive value, and a usable confidence. Missing
// priority or effort defaults to medium.
func validCandidates(extras []core.Opportunity) []core.Opportunity {
	var valid []core.Opportunity
	for _, opp := range extras {
		if !knownTypes[opp.Type] || opp.Title == "" || opp.PotentialAnnualValue <= 0 {
			continue
		}
		if opp.ConfidenceScore <= 0 || opp.ConfidenceScore > 1 {
			continue
		}
		if opp.Priority == "" {
			opp.Priority = core.PriorityMedium
		}
		if opp.EffortLevel == "" {
			opp.EffortLevel = core.EffortMedium
		}
		valid = append(valid, opp)
	}
	return valid
}

// narrative never fails: a narrator error falls back to the template.
func (e *Engine) narrative(ctx context.Context, result *core.AnalysisResult) string {
	text, err := e.narrator.Narrative(ctx, result)
	if err == nil {
		return text
	}
	e.log.Warn().Err(err).Msg("narration failed, using template")
	text, _ = narrate.Template{}.Narrative(ctx, result)
	return text
}
