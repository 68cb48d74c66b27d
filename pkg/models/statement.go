package models

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// ErrMissingID is returned when a statement is constructed without an id.
var ErrMissingID = errors.New("statement id is required")

// dateLayouts are the accepted date formats, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"02/01/2006",
	"2006/01/02",
	time.RFC3339,
}

// Statement is an immutable fact record extracted from a document.
// Only the id is mandatory; every other field lives in the open Fields map
// and is coerced lazily by the typed accessors. A missing field is never an
// error: rules simply skip statements that lack what they need.
type Statement struct {
	ID         string         `json:"id"`
	DocumentID string         `json:"source_document_id,omitempty"`
	Fields     map[string]any `json:"fields"`
}

// NewStatement builds a Statement, copying the field map so callers cannot
// mutate the record afterwards.
func NewStatement(id string, documentID string, fields map[string]any) (Statement, error) {
	if id == "" {
		return Statement{}, ErrMissingID
	}

	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}

	return Statement{
		ID:         id,
		DocumentID: documentID,
		Fields:     copied,
	}, nil
}

// Get returns the raw field value.
func (s Statement) Get(field string) (any, bool) {
	v, ok := s.Fields[field]
	return v, ok
}

// GetString returns the field as a string. Non-string scalars are formatted;
// composite values report absence.
func (s Statement) GetString(field string) (string, bool) {
	v, ok := s.Fields[field]
	if !ok || v == nil {
		return "", false
	}

	switch t := v.(type) {
	case string:
		return t, true
	case bool:
		return strconv.FormatBool(t), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case time.Time:
		return t.Format("2006-01-02"), true
	}
	return "", false
}

// GetNumber returns the field as a float64, parsing numeric strings if
// needed. Coercion failures report absence rather than an error.
func (s Statement) GetNumber(field string) (float64, bool) {
	v, ok := s.Fields[field]
	if !ok || v == nil {
		return 0, false
	}

	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		cleaned := strings.ReplaceAll(strings.TrimSpace(t), ",", "")
		cleaned = strings.TrimPrefix(cleaned, "$")
		n, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// GetBool returns the field as a bool.
func (s Statement) GetBool(field string) (bool, bool) {
	v, ok := s.Fields[field]
	if !ok || v == nil {
		return false, false
	}

	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		if err != nil {
			return false, false
		}
		return b, true
	}
	return false, false
}

// GetDate returns the field as a time.Time, trying the accepted date layouts
// for string values.
func (s Statement) GetDate(field string) (time.Time, bool) {
	v, ok := s.Fields[field]
	if !ok || v == nil {
		return time.Time{}, false
	}

	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}
