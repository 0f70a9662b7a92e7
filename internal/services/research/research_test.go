package research

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/plumehq/plume/internal/models"
)

func points(values ...int) []models.TrendPoint {
	out := make([]models.TrendPoint, len(values))
	for i, v := range values {
		out[i] = models.TrendPoint{Value: v}
	}
	return out
}

func TestClassifyTrend(t *testing.T) {
	tests := []struct {
		name   string
		points []models.TrendPoint
		want   string
	}{
		{"too few samples", points(10, 20), "stable"},
		{"rising", points(10, 10, 20, 20), "rising"},
		{"declining", points(20, 20, 10, 10), "declining"},
		{"flat", points(10, 10, 10, 11), "stable"},
		{"all zero", points(0, 0, 0, 0), "stable"},
		{"just under rising threshold", points(10, 10, 11, 12), "stable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyTrend(tt.points))
		})
	}
}

func TestFindContentGaps(t *testing.T) {
	results := []models.SearchResult{
		{Title: "The Ultimate Guide to Sourdough"},
		{Title: "Sourdough Tutorial for Beginners"},
		{Title: "My sourdough journey"},
	}

	gaps := FindContentGaps(results, "sourdough")
	assert.Contains(t, gaps, "how to content about sourdough")
	assert.Contains(t, gaps, "comparison content about sourdough")
	assert.Contains(t, gaps, "review content about sourdough")
	assert.Contains(t, gaps, "best content about sourdough")
	assert.NotContains(t, gaps, "guide content about sourdough")
	assert.NotContains(t, gaps, "tutorial content about sourdough")
}

func TestFindContentGaps_NoResults(t *testing.T) {
	gaps := FindContentGaps(nil, "sourdough")
	assert.Len(t, gaps, len(contentFormats))
}
