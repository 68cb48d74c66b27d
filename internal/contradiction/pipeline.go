package contradiction

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sspedowski/justice-document-pip/internal/rules"
	"github.com/sspedowski/justice-document-pip/pkg/models"
)

// Sink receives the final ordered record set. The pipeline itself performs
// no file or network I/O.
type Sink interface {
	Write(records []models.Record, meta models.RunMetadata) error
}

// Config holds pipeline configuration.
type Config struct {
	MaxConcurrent int
	RuleTimeout   time.Duration
	Logger        *zap.Logger
}

// DefaultConfig returns default pipeline configuration.
func DefaultConfig() Config {
	return Config{
		MaxConcurrent: 4,
		RuleTimeout:   30 * time.Second,
	}
}

// Pipeline runs a rule registry over a statement set and assembles the
// deduplicated, sorted record collection.
type Pipeline struct {
	registry *rules.Registry
	scorer   *Scorer
	config   Config
	logger   *zap.Logger
}

// Result is the output of one pipeline run.
type Result struct {
	Records  []models.Record
	Metadata models.RunMetadata
}

// NewPipeline creates a pipeline. The registry must not be mutated while a
// run is in flight; register rules at composition time.
func NewPipeline(registry *rules.Registry, scorer *Scorer, config Config) *Pipeline {
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = DefaultConfig().MaxConcurrent
	}
	if config.RuleTimeout <= 0 {
		config.RuleTimeout = DefaultConfig().RuleTimeout
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if scorer == nil {
		scorer = NewScorer(nil, nil)
	}
	return &Pipeline{
		registry: registry,
		scorer:   scorer,
		config:   config,
		logger:   logger,
	}
}

// Run evaluates every registered rule against the statement list and returns
// the final record set plus run metadata. Rule failures never escape: a rule
// that panics or times out yields one engine-error record and the remaining
// rules run to completion. Re-running on unchanged input and rule set yields
// byte-identical records (only the metadata timestamp differs).
func (p *Pipeline) Run(ctx context.Context, statements []models.Statement) Result {
	ruleSet := p.registry.Rules()

	// One output slot per rule keeps the flattened candidate sequence
	// independent of goroutine scheduling.
	outputs := make([][]models.Candidate, len(ruleSet))

	sem := make(chan struct{}, p.config.MaxConcurrent)
	var wg sync.WaitGroup
	for i, rule := range ruleSet {
		wg.Add(1)
		sem <- struct{}{}
		go func(slot int, rule rules.Rule) {
			defer wg.Done()
			defer func() { <-sem }()
			outputs[slot] = p.evalRule(ctx, rule, statements)
		}(i, rule)
	}
	wg.Wait()

	var candidates []models.Candidate
	for _, out := range outputs {
		candidates = append(candidates, out...)
	}

	records := p.assemble(candidates)

	numErrors := 0
	for _, r := range records {
		if r.IsEngineError() {
			numErrors++
		}
	}

	return Result{
		Records: records,
		Metadata: models.RunMetadata{
			Timestamp:         time.Now().UTC(),
			RulesFingerprint:  p.registry.Fingerprint(),
			NumStatements:     len(statements),
			NumContradictions: len(records) - numErrors,
			NumErrors:         numErrors,
		},
	}
}

// evalRule runs one rule with panic recovery and a timeout. Failures come
// back as a single engine-error candidate naming the rule.
func (p *Pipeline) evalRule(ctx context.Context, rule rules.Rule, statements []models.Statement) []models.Candidate {
	type outcome struct {
		candidates []models.Candidate
		err        error
	}

	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("%v", r)}
			}
		}()
		done <- outcome{candidates: rule.Eval(statements)}
	}()

	timer := time.NewTimer(p.config.RuleTimeout)
	defer timer.Stop()

	select {
	case o := <-done:
		if o.err != nil {
			p.logger.Warn("rule failed", zap.String("rule", rule.Name), zap.Error(o.err))
			return []models.Candidate{engineErrorCandidate(rule.Name, o.err.Error())}
		}
		return o.candidates
	case <-timer.C:
		p.logger.Warn("rule timed out", zap.String("rule", rule.Name), zap.Duration("timeout", p.config.RuleTimeout))
		return []models.Candidate{engineErrorCandidate(rule.Name, fmt.Sprintf("timed out after %s", p.config.RuleTimeout))}
	case <-ctx.Done():
		p.logger.Warn("rule cancelled", zap.String("rule", rule.Name), zap.Error(ctx.Err()))
		return []models.Candidate{engineErrorCandidate(rule.Name, ctx.Err().Error())}
	}
}

func engineErrorCandidate(ruleName, message string) models.Candidate {
	return models.Candidate{
		Rule:      models.EngineErrorRule,
		Severity:  models.SeverityLow,
		GroupKey:  ruleName,
		Rationale: fmt.Sprintf("rule %s failed: %s", ruleName, message),
	}
}

// assemble assigns identities, scores, dedups and sorts. Dedup keeps the
// last-seen record per contradiction id, taken over the deterministic
// rule-name-ordered candidate sequence. Final order is score descending,
// contradiction id ascending.
func (p *Pipeline) assemble(candidates []models.Candidate) []models.Record {
	byID := make(map[string]models.Record, len(candidates))
	order := make([]string, 0, len(candidates))

	for _, c := range candidates {
		record := models.Record{
			ContradictionID: ID(c.Rule, c.GroupKey, c.StatementA, c.StatementB),
			Rule:            c.Rule,
			Severity:        c.Severity,
			GroupKey:        c.GroupKey,
			Rationale:       c.Rationale,
			Score:           p.scorer.Score(c),
			Confidence:      Confidence(c),
			StatementA:      c.StatementA,
			StatementB:      c.StatementB,
		}
		if meta, ok := p.scorer.Meta().Lookup(c.Rule); ok {
			record.Title = meta.Title
			record.Description = meta.Description
			record.SuggestedAction = meta.SuggestedAction
		}

		if _, seen := byID[record.ContradictionID]; !seen {
			order = append(order, record.ContradictionID)
		}
		byID[record.ContradictionID] = record
	}

	records := make([]models.Record, 0, len(order))
	for _, id := range order {
		records = append(records, byID[id])
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].Score != records[j].Score {
			return records[i].Score > records[j].Score
		}
		return records[i].ContradictionID < records[j].ContradictionID
	})

	return records
}
