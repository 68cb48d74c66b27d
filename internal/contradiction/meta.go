package contradiction

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// defaultBaseWeight applies to rules with no metadata entry.
const defaultBaseWeight = 4

// RuleMeta carries per-rule presentation and weighting metadata.
type RuleMeta struct {
	Title           string  `yaml:"title" json:"title"`
	Description     string  `yaml:"description" json:"description"`
	BaseWeight      float64 `yaml:"base_weight" json:"base_weight"`
	SuggestedAction string  `yaml:"suggested_action" json:"suggested_action"`
}

// MetaTable maps rule names to their metadata.
type MetaTable struct {
	meta map[string]RuleMeta
}

var defaultRuleMeta = map[string]RuleMeta{
	"event_date_disagreement": {
		Title:           "Event Date Disagreement",
		Description:     "Multiple statements assert different dates for the same event.",
		BaseWeight:      7,
		SuggestedAction: "Verify the correct event date in original documents.",
	},
	"presence_absence_conflict": {
		Title:           "Presence vs Absence",
		Description:     "A party is recorded both present and absent for the same event.",
		BaseWeight:      5,
		SuggestedAction: "Confirm attendance or clarify witness statements.",
	},
	"numeric_amount_mismatch": {
		Title:           "Numeric Amount Mismatch",
		Description:     "Different monetary amounts are reported for the same event or context.",
		BaseWeight:      6,
		SuggestedAction: "Check transactional or financial records for the authoritative value.",
	},
	"status_flip_without_transition": {
		Title:           "Status Flip",
		Description:     "Same target recorded with opposite terminal statuses (e.g., granted vs denied).",
		BaseWeight:      8,
		SuggestedAction: "Check docket or authoritative system of record.",
	},
	"location_mismatch": {
		Title:           "Location Mismatch",
		Description:     "Same event described in different locations.",
		BaseWeight:      5,
		SuggestedAction: "Verify venue/logistics details.",
	},
	"role_responsibility_conflict": {
		Title:           "Role Conflict",
		Description:     "Same person assigned contradictory roles in one context.",
		BaseWeight:      6,
		SuggestedAction: "Reconcile role assignments against source reports.",
	},
	"date_range_overlap_conflict": {
		Title:           "Date Range Overlap",
		Description:     "Overlapping but non-identical date ranges claimed for the same event and party.",
		BaseWeight:      6,
		SuggestedAction: "Establish the authoritative interval from primary records.",
	},
}

// DefaultMetaTable returns the built-in rule metadata.
func DefaultMetaTable() *MetaTable {
	meta := make(map[string]RuleMeta, len(defaultRuleMeta))
	for name, m := range defaultRuleMeta {
		meta[name] = m
	}
	return &MetaTable{meta: meta}
}

// LoadMetaTable returns the built-in metadata merged with overrides from a
// YAML file mapping rule names to RuleMeta entries.
func LoadMetaTable(path string) (*MetaTable, error) {
	table := DefaultMetaTable()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rule metadata: %w", err)
	}

	var overrides map[string]RuleMeta
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("parsing rule metadata: %w", err)
	}

	for name, m := range overrides {
		table.meta[name] = m
	}
	return table, nil
}

// Lookup returns the metadata for a rule.
func (t *MetaTable) Lookup(rule string) (RuleMeta, bool) {
	m, ok := t.meta[rule]
	return m, ok
}

// BaseWeight returns the rule's base weight, or the default for rules
// without a metadata entry.
func (t *MetaTable) BaseWeight(rule string) float64 {
	if m, ok := t.meta[rule]; ok {
		return m.BaseWeight
	}
	return defaultBaseWeight
}
