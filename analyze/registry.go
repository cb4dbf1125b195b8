// Package analyze holds the opportunity detection strategies. Each analyzer
// is a pure function over the immutable snapshot; the registry runs them with
// per-analyzer fault isolation so one failing strategy never poisons a run.
package analyze

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/avestoai/avesto-go/core"
)

// Analyzer scans a snapshot for one category of opportunity.
type Analyzer interface {
	Name() string
	Analyze(s *core.FinancialSnapshot) []core.Opportunity
}

// Registry manages the registered analyzers.
type Registry struct {
	mu        sync.RWMutex
	analyzers []Analyzer
	newID     func() string
	log       zerolog.Logger
}

// NewRegistry creates an empty registry. newID generates opportunity IDs;
// nil defaults to UUIDs.
func NewRegistry(newID func() string, log zerolog.Logger) *Registry {
	if newID == nil {
		newID = uuid.NewString
	}
	return &Registry{
		newID: newID,
		log:   log.With().Str("component", "analyzers").Logger(),
	}
}

// NewDefaultRegistry creates a registry with the full strategy set, in the
// order their candidates should win score ties.
func NewDefaultRegistry(newID func() string, log zerolog.Logger) *Registry {
	r := NewRegistry(newID, log)
	r.RegisterAll(
		&SavingsAnalyzer{},
		&InvestmentAnalyzer{},
		&SpendingAnalyzer{},
		&DebtAnalyzer{},
		&TaxAnalyzer{},
		&IncomeAnalyzer{},
	)
	return r
}

// Register adds an analyzer to the registry.
func (r *Registry) Register(a Analyzer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.analyzers = append(r.analyzers, a)
}

// RegisterAll adds multiple analyzers to the registry.
func (r *Registry) RegisterAll(analyzers ...Analyzer) {
	for _, a := range analyzers {
		r.Register(a)
	}
}

// List returns the registered analyzer names in run order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.analyzers))
	for _, a := range r.analyzers {
		names = append(names, a.Name())
	}
	return names
}

// Run executes every analyzer over the snapshot and concatenates their
// candidates in registration order. A panicking analyzer contributes an
// empty slice, logged; the other strategies are unaffected.
func (r *Registry) Run(s *core.FinancialSnapshot) []core.Opportunity {
	r.mu.RLock()
	analyzers := make([]Analyzer, len(r.analyzers))
	copy(analyzers, r.analyzers)
	r.mu.RUnlock()

	var all []core.Opportunity
	for _, a := range analyzers {
		for _, opp := range r.runOne(a, s) {
			if opp.ID == "" {
				opp.ID = r.newID()
			}
			all = append(all, opp)
		}
	}
	return all
}

func (r *Registry) runOne(a Analyzer, s *core.FinancialSnapshot) (result []core.Opportunity) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error().Interface("panic", rec).Str("analyzer", a.Name()).Msg("analyzer failed, skipping its candidates")
			result = nil
		}
	}()
	return a.Analyze(s)
}

// annualIncome prefers the collaborator-supplied profile figure and falls
// back to the derived run-rate.
func annualIncome(s *core.FinancialSnapshot) float64 {
	if s.Profile.AnnualIncome > 0 {
		return s.Profile.AnnualIncome
	}
	return s.Income.Annual
}
