package publish

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plumehq/plume/internal/models"
)

func TestSplitThread_ShortBody(t *testing.T) {
	units := SplitThread("Just one short tweet.")
	require.Len(t, units, 1)
	assert.Equal(t, "Just one short tweet.", units[0])
}

func TestSplitThread_Empty(t *testing.T) {
	assert.Nil(t, SplitThread(""))
	assert.Nil(t, SplitThread("   \n\n  "))
}

func TestSplitThread_ParagraphBoundaries(t *testing.T) {
	body := "First point here.\n\nSecond point here.\n\nThird point here."
	units := SplitThread(body)

	require.Len(t, units, 3)
	assert.True(t, strings.HasPrefix(units[0], "First point here."))
	assert.True(t, strings.HasSuffix(units[0], "(1/3)"))
	assert.True(t, strings.HasSuffix(units[2], "(3/3)"))
}

func TestSplitThread_LongParagraphSplitsOnSentences(t *testing.T) {
	sentence := "This sentence is repeated to build a paragraph well past the unit limit. "
	body := strings.TrimSpace(strings.Repeat(sentence, 12))

	units := SplitThread(body)
	require.Greater(t, len(units), 1)
	for i, unit := range units {
		assert.LessOrEqual(t, len([]rune(unit)), models.TweetCharLimit, "unit %d over the limit: %q", i, unit)
	}
}

func TestSplitThread_HardSplitUnbreakableText(t *testing.T) {
	body := strings.Repeat("x", 700)
	units := SplitThread(body)

	require.Greater(t, len(units), 1)
	for _, unit := range units {
		assert.LessOrEqual(t, len([]rune(unit)), models.TweetCharLimit)
	}

	// No content lost up to the thread cap.
	var rebuilt strings.Builder
	for _, unit := range units {
		trimmed := unit
		if idx := strings.LastIndex(trimmed, " ("); idx >= 0 {
			trimmed = trimmed[:idx]
		}
		rebuilt.WriteString(trimmed)
	}
	assert.Equal(t, body, rebuilt.String())
}

func TestSplitThread_CapsThreadLength(t *testing.T) {
	paragraphs := make([]string, 40)
	for i := range paragraphs {
		paragraphs[i] = "A standalone paragraph that fits in one tweet."
	}
	units := SplitThread(strings.Join(paragraphs, "\n\n"))
	assert.Len(t, units, models.MaxThreadTweets)
}
