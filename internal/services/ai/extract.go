package ai

import (
	"encoding/json"
	"strings"

	"github.com/plumehq/plume/internal/models"
)

// ExtractJSON pulls a JSON document out of raw model output. Models wrap
// JSON in markdown fences or prepend prose despite instructions, so the
// extractor strips fences and a BOM, then falls back to the outermost
// object or array in the text.
func ExtractJSON(raw string) (string, error) {
	text := strings.TrimSpace(strings.TrimPrefix(raw, "\uFEFF"))
	if text == "" {
		return "", models.NewParseError("model returned empty output", nil)
	}

	if idx := strings.Index(text, "```json"); idx >= 0 {
		text = text[idx+len("```json"):]
		if end := strings.Index(text, "```"); end >= 0 {
			text = text[:end]
		}
		text = strings.TrimSpace(text)
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if end := strings.Index(text, "```"); end >= 0 {
			text = text[:end]
		}
		text = strings.TrimSpace(text)
	}

	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return "", models.NewParseError("no JSON found in model output", nil)
	}
	var closer byte = '}'
	if text[start] == '[' {
		closer = ']'
	}
	end := strings.LastIndexByte(text, closer)
	if end <= start {
		return "", models.NewParseError("unterminated JSON in model output", nil)
	}
	text = text[start : end+1]

	if !json.Valid([]byte(text)) {
		return "", models.NewParseError("model output is not valid JSON", nil)
	}
	return text, nil
}

// DecodeJSON extracts and unmarshals model output into out.
func DecodeJSON(raw string, out interface{}) error {
	text, err := ExtractJSON(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return models.NewParseError("model output did not match the expected shape", err)
	}
	return nil
}
