package intel

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/icemedialab/varta/internal/model"
)

// ParseDocument decodes the model's text answer. Markdown code fences around
// the JSON are tolerated. The answer must be a JSON object carrying an
// executive summary; anything else is ErrInvalidFormat.
func ParseDocument(text string) (*model.Document, error) {
	body := stripFences(text)
	if body == "" {
		return nil, ErrEmptyResponse
	}
	if !strings.HasPrefix(body, "{") {
		return nil, fmt.Errorf("%w: answer is not a JSON object", ErrInvalidFormat)
	}

	var doc model.Document
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	if doc.ExecutiveSummary == (model.ExecutiveSummary{}) {
		return nil, fmt.Errorf("%w: executive summary missing", ErrInvalidFormat)
	}
	return &doc, nil
}

func stripFences(text string) string {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimPrefix(s, "json")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}
	// Grounded answers are free text and may wrap the object in prose.
	if !strings.HasPrefix(s, "{") {
		start, end := strings.Index(s, "{"), strings.LastIndex(s, "}")
		if start >= 0 && end > start {
			s = s[start : end+1]
		}
	}
	return s
}
