// Package report derives summary statistics from a finished analysis run.
package report

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/sspedowski/justice-document-pip/pkg/models"
)

// Summary aggregates one run's record set for dashboards and CLI output.
type Summary struct {
	TotalRecords    int            `json:"total_records"`
	EngineErrors    int            `json:"engine_errors"`
	BySeverity      map[string]int `json:"by_severity"`
	ByRule          map[string]int `json:"by_rule"`
	ScoreMin        float64        `json:"score_min"`
	ScoreMax        float64        `json:"score_max"`
	ScoreMean       float64        `json:"score_mean"`
	ScoreMedian     float64        `json:"score_median"`
	ScoreStdDev     float64        `json:"score_std_dev"`
	HighPriority    int            `json:"high_priority"`
	HighPriorityPct float64        `json:"high_priority_pct"`
}

// Summarize computes distribution and score statistics over the final record
// list. Engine-error records count toward EngineErrors but are excluded from
// score statistics and severity buckets.
func Summarize(records []models.Record) Summary {
	summary := Summary{
		BySeverity: make(map[string]int),
		ByRule:     make(map[string]int),
	}
	summary.TotalRecords = len(records)

	var scores []float64
	for _, r := range records {
		if r.IsEngineError() {
			summary.EngineErrors++
			continue
		}
		summary.BySeverity[string(r.Severity)]++
		summary.ByRule[r.Rule]++
		scores = append(scores, r.Score)

		if r.Severity == models.SeverityHigh || r.Severity == models.SeverityCritical {
			summary.HighPriority++
		}
	}

	if len(scores) == 0 {
		return summary
	}

	sort.Float64s(scores)
	summary.ScoreMin = scores[0]
	summary.ScoreMax = scores[len(scores)-1]
	summary.ScoreMean = stat.Mean(scores, nil)
	summary.ScoreMedian = stat.Quantile(0.5, stat.Empirical, scores, nil)
	if len(scores) > 1 {
		summary.ScoreStdDev = stat.StdDev(scores, nil)
	}
	summary.HighPriorityPct = float64(summary.HighPriority) / float64(len(scores)) * 100

	return summary
}
