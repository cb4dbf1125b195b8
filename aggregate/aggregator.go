// Package aggregate fans out the source fetchers, merges their partials into
// one FinancialSnapshot, and derives the summary metrics. The aggregator is
// total: it always returns a usable snapshot, substituting demo data when
// live aggregation is impossible.
package aggregate

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/rs/zerolog"

	"github.com/avestoai/avesto-go/core"
	"github.com/avestoai/avesto-go/provider"
)

// Source is the set of upstream fetchers the aggregator fans out to.
// *provider.Client satisfies it; tests substitute their own.
type Source interface {
	FetchNetWorth(ctx context.Context, userID string) (*provider.NetWorthPartial, error)
	FetchCreditReport(ctx context.Context, userID string) (*provider.CreditPartial, error)
	FetchRetirement(ctx context.Context, userID string) (*provider.RetirementPartial, error)
	FetchFundTransactions(ctx context.Context, userID string) (*provider.FundsPartial, error)
	FetchBankTransactions(ctx context.Context, userID string) (*provider.BankPartial, error)
	FetchEquityTransactions(ctx context.Context, userID string) (*provider.EquitiesPartial, error)
}

// ProfileSource supplies collaborator-owned profile data. Optional.
type ProfileSource interface {
	Profile(ctx context.Context, userID string) (core.Profile, error)
}

// Config configures the aggregator.
type Config struct {
	// FetchTimeout bounds each individual fetcher so one unresponsive
	// upstream cannot stall snapshot assembly.
	FetchTimeout time.Duration

	// CacheTTL is how long a built snapshot stays cached per user.
	// Zero disables caching.
	CacheTTL time.Duration

	// Clock overrides time.Now, for tests.
	Clock func() time.Time
}

// Aggregator builds financial snapshots.
type Aggregator struct {
	source   Source
	profiles ProfileSource
	cache    *ristretto.Cache
	cacheTTL time.Duration
	timeout  time.Duration
	clock    func() time.Time
	log      zerolog.Logger
}

// New creates an aggregator over the given source.
func New(source Source, profiles ProfileSource, cfg Config, log zerolog.Logger) *Aggregator {
	timeout := cfg.FetchTimeout
	if timeout == 0 {
		timeout = 8 * time.Second
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	var cache *ristretto.Cache
	if cfg.CacheTTL > 0 {
		// Snapshot cost is uniform; the cache only needs to bound entry count.
		cache, _ = ristretto.NewCache(&ristretto.Config{
			NumCounters: 10_000,
			MaxCost:     1_000,
			BufferItems: 64,
		})
	}

	return &Aggregator{
		source:   source,
		profiles: profiles,
		cache:    cache,
		cacheTTL: cfg.CacheTTL,
		timeout:  timeout,
		clock:    clock,
		log:      log.With().Str("component", "aggregator").Logger(),
	}
}

// partials collects the fan-in results. A nil field means that fetcher
// failed and contributes nothing.
type partials struct {
	netWorth   *provider.NetWorthPartial
	credit     *provider.CreditPartial
	retirement *provider.RetirementPartial
	funds      *provider.FundsPartial
	bank       *provider.BankPartial
	equities   *provider.EquitiesPartial
	errors     map[string]string
}

// Snapshot builds the snapshot for one user. It never fails: fetcher errors
// blank only that fetcher's contribution, and an aggregation error falls
// back to the demo snapshot with FallbackMode set.
func (a *Aggregator) Snapshot(ctx context.Context, userID string) *core.FinancialSnapshot {
	if a.cache != nil {
		if cached, ok := a.cache.Get(cacheKey(userID)); ok {
			if snapshot, ok := cached.(*core.FinancialSnapshot); ok {
				return snapshot
			}
		}
	}

	snapshot := a.build(ctx, userID)

	if a.cache != nil && !snapshot.FallbackMode {
		a.cache.SetWithTTL(cacheKey(userID), snapshot, 1, a.cacheTTL)
	}
	return snapshot
}

// Invalidate drops the cached snapshot for a user.
func (a *Aggregator) Invalidate(userID string) {
	if a.cache != nil {
		a.cache.Del(cacheKey(userID))
	}
}

func (a *Aggregator) build(ctx context.Context, userID string) (snapshot *core.FinancialSnapshot) {
	// The pipeline must always produce a snapshot; an unexpected panic while
	// merging partials degrades to demo data instead of propagating.
	defer func() {
		if r := recover(); r != nil {
			a.log.Error().Interface("panic", r).Str("user_id", userID).Msg("aggregation failed, serving demo snapshot")
			snapshot = provider.DemoSnapshot(userID, a.clock())
			deriveMetrics(snapshot)
		}
	}()

	results := a.fanOut(ctx, userID)

	// A fully failed fetch round means the provider is unreachable; demo
	// data keeps the pipeline total.
	if len(results.errors) == 6 {
		a.log.Warn().Str("user_id", userID).Msg("all fetchers failed, serving demo snapshot")
		snapshot = provider.DemoSnapshot(userID, a.clock())
		deriveMetrics(snapshot)
		return snapshot
	}

	snapshot = a.merge(ctx, userID, results)
	deriveMetrics(snapshot)
	return snapshot
}

// fanOut launches all fetchers concurrently and waits for every one to
// settle. No fetcher cancels another; each failure is recorded and replaced
// by a nil partial ("gather, don't fail fast").
func (a *Aggregator) fanOut(ctx context.Context, userID string) *partials {
	results := &partials{errors: make(map[string]string)}

	type task struct {
		resource string
		run      func(ctx context.Context) error
	}
	tasks := []task{
		{"net_worth", func(ctx context.Context) error {
			p, err := a.source.FetchNetWorth(ctx, userID)
			results.netWorth = p
			return err
		}},
		{"credit_report", func(ctx context.Context) error {
			p, err := a.source.FetchCreditReport(ctx, userID)
			results.credit = p
			return err
		}},
		{"retirement", func(ctx context.Context) error {
			p, err := a.source.FetchRetirement(ctx, userID)
			results.retirement = p
			return err
		}},
		{"fund_transactions", func(ctx context.Context) error {
			p, err := a.source.FetchFundTransactions(ctx, userID)
			results.funds = p
			return err
		}},
		{"bank_transactions", func(ctx context.Context) error {
			p, err := a.source.FetchBankTransactions(ctx, userID)
			results.bank = p
			return err
		}},
		{"equity_transactions", func(ctx context.Context) error {
			p, err := a.source.FetchEquityTransactions(ctx, userID)
			results.equities = p
			return err
		}},
	}

	type outcome struct {
		resource string
		err      error
	}
	outcomes := make(chan outcome, len(tasks))

	for _, t := range tasks {
		go func(t task) {
			fetchCtx, cancel := context.WithTimeout(ctx, a.timeout)
			defer cancel()

			var err error
			func() {
				// A panicking fetcher must not escape its task boundary.
				defer func() {
					if r := recover(); r != nil {
						err = fmt.Errorf("fetcher panic: %v", r)
					}
				}()
				err = t.run(fetchCtx)
			}()
			outcomes <- outcome{resource: t.resource, err: err}
		}(t)
	}

	for range tasks {
		o := <-outcomes
		if o.err != nil {
			a.log.Warn().Err(o.err).Str("resource", o.resource).Str("user_id", userID).Msg("fetcher failed, contribution blanked")
			results.errors[o.resource] = o.err.Error()
		}
	}
	return results
}

// merge combines the partials into one snapshot. Failed fetchers simply
// contribute nothing; the fields they would have filled stay empty.
func (a *Aggregator) merge(ctx context.Context, userID string, results *partials) *core.FinancialSnapshot {
	snapshot := &core.FinancialSnapshot{
		UserID:      userID,
		GeneratedAt: a.clock(),
		DataSource:  "live",
	}
	if len(results.errors) > 0 {
		snapshot.DataSource = "partial"
		snapshot.SourceErrors = results.errors
	}

	if results.netWorth != nil {
		snapshot.Accounts = results.netWorth.Accounts
	}
	if results.retirement != nil {
		snapshot.Investments = append(snapshot.Investments, results.retirement.Investments...)
	}
	if results.funds != nil {
		snapshot.Investments = append(snapshot.Investments, results.funds.Holdings...)
		snapshot.Transactions = append(snapshot.Transactions, results.funds.Transactions...)
	}
	if results.equities != nil {
		snapshot.Investments = append(snapshot.Investments, results.equities.Holdings...)
		snapshot.Transactions = append(snapshot.Transactions, results.equities.Transactions...)
	}
	if results.bank != nil {
		snapshot.Transactions = append(snapshot.Transactions, results.bank.Transactions...)
		snapshot.MonthBuckets = results.bank.Buckets
	}

	snapshot.Debts = mergeDebts(results)
	if results.credit != nil {
		snapshot.CreditScore = results.credit.Score
	}

	// Newest first across all sources.
	sort.SliceStable(snapshot.Transactions, func(i, j int) bool {
		return snapshot.Transactions[i].Date.After(snapshot.Transactions[j].Date)
	})

	if a.profiles != nil {
		if profile, err := a.profiles.Profile(ctx, userID); err == nil {
			snapshot.Profile = profile
		} else {
			a.log.Warn().Err(err).Str("user_id", userID).Msg("profile lookup failed")
		}
	}

	return snapshot
}

// mergeDebts prefers credit-report entries (they carry interest rates) and
// adds net-worth liabilities only for kinds the report does not cover.
func mergeDebts(results *partials) []core.Debt {
	var debts []core.Debt
	covered := make(map[string]bool)

	if results.credit != nil {
		for _, d := range results.credit.Debts {
			debts = append(debts, d)
			covered[d.Kind] = true
		}
	}
	if results.netWorth != nil {
		for _, d := range results.netWorth.Debts {
			if !covered[d.Kind] {
				debts = append(debts, d)
			}
		}
	}
	return debts
}

func cacheKey(userID string) string {
	return "snapshot:" + userID
}
