// Package rules holds the contradiction detection rules and the registry
// that the evaluation pipeline runs them from. A rule is a named pure
// function over a read-only statement list; registration is explicit, so
// tests can build isolated registries instead of sharing process state.
package rules

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/sspedowski/justice-document-pip/pkg/models"
)

// fingerprintLen is the hex length of the registry fingerprint.
const fingerprintLen = 12

// EvalFunc evaluates the full statement set and returns zero or more
// contradiction candidates. It must be pure: no shared state, no I/O.
type EvalFunc func(statements []models.Statement) []models.Candidate

// Rule pairs a stable name with its evaluation function.
type Rule struct {
	Name string
	Eval EvalFunc
}

// Registry is an explicit collection of rules. The zero value is not usable;
// construct with NewRegistry.
type Registry struct {
	rules map[string]Rule
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{rules: make(map[string]Rule)}
}

// Register adds a rule. Names must be non-empty and unique.
func (r *Registry) Register(rule Rule) error {
	if rule.Name == "" {
		return fmt.Errorf("rule name is required")
	}
	if rule.Eval == nil {
		return fmt.Errorf("rule %q has no evaluation function", rule.Name)
	}
	if _, exists := r.rules[rule.Name]; exists {
		return fmt.Errorf("rule %q is already registered", rule.Name)
	}
	r.rules[rule.Name] = rule
	return nil
}

// Rules returns the registered rules sorted by name. The sorted order is the
// canonical evaluation order: it keeps downstream stages (dedup in
// particular) independent of registration and scheduling order.
func (r *Registry) Rules() []Rule {
	out := make([]Rule, 0, len(r.rules))
	for _, rule := range r.rules {
		out = append(out, rule)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

// Len returns the number of registered rules.
func (r *Registry) Len() int {
	return len(r.rules)
}

// Fingerprint returns a stable hash of the sorted registered rule names.
// Consumers compare fingerprints across runs to detect when detection logic
// changed and previously computed records went stale. Adding or removing a
// rule changes the fingerprint; registration order does not.
func (r *Registry) Fingerprint() string {
	names := make([]string, 0, len(r.rules))
	for name := range r.rules {
		names = append(names, name)
	}
	sort.Strings(names)

	joined := ""
	for i, name := range names {
		if i > 0 {
			joined += "::"
		}
		joined += name
	}

	sum := sha1.Sum([]byte(joined))
	return hex.EncodeToString(sum[:])[:fingerprintLen]
}
