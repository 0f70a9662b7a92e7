package drafts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/plumehq/plume/internal/models"
)

func TestComputeMetadata_Twitter(t *testing.T) {
	content := &models.TwitterContent{
		Thread: []models.Tweet{
			{TweetNumber: 1, Content: "First tweet"},
			{TweetNumber: 2, Content: "Second tweet"},
		},
	}
	body := content.FullText()

	meta := ComputeMetadata(models.PlatformTwitter, body, content)
	assert.Equal(t, 2, meta.ThreadLength)
	assert.Equal(t, len("First tweet")+len("Second tweet"), meta.TotalCharacters)
	assert.Equal(t, 4, meta.WordCount)
}

func TestComputeMetadata_Article(t *testing.T) {
	content := &models.BlogContent{
		Article: models.BlogArticle{
			Introduction: strings.Repeat("word ", 100),
			Sections: []models.BlogSection{
				{Heading: "One", Content: strings.Repeat("word ", 150)},
				{Heading: "Two", Content: strings.Repeat("word ", 150)},
			},
			Conclusion: "Done.",
		},
	}
	body := content.FullText()

	meta := ComputeMetadata(models.PlatformArticle, body, content)
	assert.Equal(t, 2, meta.SectionCount)
	assert.Greater(t, meta.ReadingTime, 0)
	assert.Greater(t, meta.WordCount, 400)
}

func TestComputeMetadata_Reel(t *testing.T) {
	content := &models.ReelContent{
		Script: models.ReelScript{
			Hook: "Stop scrolling.",
			Body: []models.ReelScene{
				{Scene: 1, Duration: "0-5s", Voiceover: "Here is the problem."},
				{Scene: 2, Duration: "5-20s", Voiceover: "Here is the fix."},
			},
			CTA: "Follow for more.",
		},
	}
	body := content.FullText()

	meta := ComputeMetadata(models.PlatformReelScript, body, content)
	assert.Equal(t, 2, meta.SceneCount)
	assert.Equal(t, 25, meta.DurationSeconds)
}

func TestDetectViolations(t *testing.T) {
	assert.Empty(t, DetectViolations(models.PlatformLinkedIn, "A perfectly fine post."))

	over := strings.Repeat("a", models.LinkedInCharLimit+1)
	violations := DetectViolations(models.PlatformLinkedIn, over)
	assert.Len(t, violations, 1)
	assert.Contains(t, violations[0], "length")

	longTweet := strings.Repeat("b", models.TweetCharLimit+1)
	violations = DetectViolations(models.PlatformTwitter, "ok tweet\n\n"+longTweet)
	assert.Len(t, violations, 1)
	assert.Contains(t, violations[0], "length")

	hashtagSoup := "post " + strings.Repeat("#tag ", 11)
	violations = DetectViolations(models.PlatformTwitter, hashtagSoup)
	assert.Len(t, violations, 1)
	assert.Contains(t, violations[0], "hashtags")

	fenced := "look at this\n```\ncode\n```"
	violations = DetectViolations(models.PlatformLinkedIn, fenced)
	assert.Len(t, violations, 1)
	assert.Contains(t, violations[0], "formatting")
}

func TestWordCount(t *testing.T) {
	assert.Equal(t, 0, WordCount(""))
	assert.Equal(t, 3, WordCount("one  two\nthree"))
}
