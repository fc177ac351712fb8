package insights

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dvloznov/financeflow/internal/domain"
)

var (
	// ErrEmptyResponse means the model answered without any text.
	ErrEmptyResponse = errors.New("empty response from model")
	// ErrSchemaMismatch means the model answered JSON that does not follow the declared schema.
	ErrSchemaMismatch = errors.New("response does not match insight schema")
)

// rawInsight uses pointers so that a missing field can be told apart from an
// empty one.
type rawInsight struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
}

// parseInsights decodes the model text into insights, in order and without
// touching field values. A valid empty array is a success with no items.
func parseInsights(rawText string) ([]domain.Insight, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, ErrEmptyResponse
	}

	clean := cleanModelJSON(rawText)

	var raw []rawInsight
	if err := json.Unmarshal([]byte(clean), &raw); err != nil {
		return nil, fmt.Errorf("parseInsights: unmarshal JSON: %w", err)
	}
	if raw == nil {
		// "null" decodes without error but is not an array.
		return nil, fmt.Errorf("parseInsights: %w: null body", ErrSchemaMismatch)
	}

	out := make([]domain.Insight, 0, len(raw))
	for i, item := range raw {
		if item.Title == nil || item.Description == nil || item.Priority == nil {
			return nil, fmt.Errorf("parseInsights: %w: item %d missing a required field", ErrSchemaMismatch, i)
		}
		priority := domain.Priority(*item.Priority)
		if !priority.Valid() {
			return nil, fmt.Errorf("parseInsights: %w: item %d has priority %q", ErrSchemaMismatch, i, *item.Priority)
		}
		out = append(out, domain.Insight{
			Title:       *item.Title,
			Description: *item.Description,
			Priority:    priority,
		})
	}

	return out, nil
}

// cleanModelJSON strips Markdown fences and any text around the outer JSON array.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	// Handle ```json ... ``` or ``` ... ``` wrappers.
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	// A bare object is left alone so it fails as a non-array.
	if strings.HasPrefix(s, "{") {
		return s
	}

	if start := strings.Index(s, "["); start != -1 {
		if end := strings.LastIndex(s, "]"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}
