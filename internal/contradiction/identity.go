// Package contradiction implements the detection pipeline: rule evaluation
// with failure isolation, deterministic contradiction identity, scoring and
// confidence, and the dedup/sort assembly that produces the final record set.
package contradiction

import (
	"crypto/sha1"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sspedowski/justice-document-pip/pkg/models"
)

// idLen is the hex length of a contradiction id. Truncation keeps ids short
// and shareable at a bounded collision probability; widening it would break
// every persisted id downstream.
const idLen = 16

// fingerprintAllowList is the fixed field subset hashed into a statement
// fingerprint. Fields absent from a statement are omitted, not defaulted.
var fingerprintAllowList = []string{
	"currency",
	"date",
	"doc_id",
	"event_id",
	"id",
	"location",
	"party",
	"status",
	"type",
	"value",
}

// Fingerprint serializes the allow-listed fields of a statement into a
// canonical sorted string and hashes it. Two statements with the same
// identifying fields always produce the same digest.
func Fingerprint(s models.Statement) string {
	parts := make([]string, 0, len(fingerprintAllowList))
	for _, field := range fingerprintAllowList {
		value, ok := fingerprintValue(s, field)
		if !ok {
			continue
		}
		parts = append(parts, field+"="+value)
	}
	sum := sha1.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

func fingerprintValue(s models.Statement, field string) (string, bool) {
	switch field {
	case "id":
		if s.ID == "" {
			return "", false
		}
		return s.ID, true
	case "doc_id":
		if s.DocumentID == "" {
			return "", false
		}
		return s.DocumentID, true
	}

	v, ok := s.Get(field)
	if !ok || v == nil {
		return "", false
	}
	return canonicalValue(v)
}

// canonicalValue formats a field value so that equal values always
// serialize identically regardless of their in-memory type.
func canonicalValue(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case bool:
		return strconv.FormatBool(t), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case time.Time:
		return t.UTC().Format("2006-01-02"), true
	}
	return "", false
}

// ID derives the contradiction id for a rule finding over two statements.
// The statement digests are sorted before hashing, so ID(r, k, a, b) equals
// ID(r, k, b, a) and the result is stable across runs and rule orderings.
func ID(rule, groupKey string, a, b models.Statement) string {
	digests := []string{Fingerprint(a), Fingerprint(b)}
	sort.Strings(digests)

	combined := rule + "|" + groupKey + "|" + digests[0] + "::" + digests[1]
	sum := sha1.Sum([]byte(combined))
	return hex.EncodeToString(sum[:])[:idLen]
}
