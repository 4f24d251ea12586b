package storegen

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrIncompleteDraft = errors.New("generated draft is missing required fields")

// Draft is the structured answer expected from a provider.
type Draft struct {
	Title          string   `json:"title"`
	Tagline        string   `json:"tagline"`
	Description    string   `json:"description"`
	Features       []string `json:"features"`
	SEOTitle       string   `json:"seo_title"`
	SEODescription string   `json:"seo_description"`
	Price          string   `json:"price"`
	Currency       string   `json:"currency"`
}

// ParseDraft decodes a provider answer, tolerating a fenced code block
// around the JSON.
func ParseDraft(text string) (Draft, error) {
	raw := strings.TrimSpace(text)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSuffix(strings.TrimSpace(raw), "```")
	}
	if start, end := strings.Index(raw, "{"), strings.LastIndex(raw, "}"); start >= 0 && end > start {
		raw = raw[start : end+1]
	}

	var d Draft
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return Draft{}, fmt.Errorf("parse draft: %w", err)
	}
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	if d.Title == "" || d.Description == "" {
		return Draft{}, ErrIncompleteDraft
	}
	features := d.Features[:0]
	for _, f := range d.Features {
		if f = strings.TrimSpace(f); f != "" {
			features = append(features, f)
		}
	}
	d.Features = features
	return d, nil
}
