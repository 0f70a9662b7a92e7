package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plumehq/plume/internal/models"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"bare object", `{"a": 1}`, `{"a": 1}`, false},
		{"bare array", `[1, 2]`, `[1, 2]`, false},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`, false},
		{"plain fence", "```\n{\"a\": 1}\n```", `{"a": 1}`, false},
		{"leading prose", "Here is the result:\n{\"a\": 1}", `{"a": 1}`, false},
		{"trailing prose", "{\"a\": 1}\nHope that helps!", `{"a": 1}`, false},
		{"bom prefix", "\uFEFF{\"a\": 1}", `{"a": 1}`, false},
		{"prose before and after", "Sure! {\"a\": {\"b\": 2}} Done.", `{"a": {"b": 2}}`, false},
		{"empty", "", "", true},
		{"no json at all", "I could not generate that.", "", true},
		{"broken json", "{\"a\": ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, models.IsCode(err, models.CodeParse))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	var out struct {
		MainTopic string   `json:"main_topic"`
		Keywords  []string `json:"keywords"`
	}
	raw := "```json\n{\"main_topic\": \"email marketing\", \"keywords\": [\"open rates\"]}\n```"
	require.NoError(t, DecodeJSON(raw, &out))
	assert.Equal(t, "email marketing", out.MainTopic)
	assert.Equal(t, []string{"open rates"}, out.Keywords)

	err := DecodeJSON(`{"main_topic": 42}`, &out)
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeParse))
}
