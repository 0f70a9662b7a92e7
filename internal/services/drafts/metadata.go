package drafts

import (
	"strings"

	"github.com/plumehq/plume/internal/models"
)

// WordCount counts whitespace-separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

const wordsPerMinute = 200

// ComputeMetadata derives the per-platform stats stored on a version.
func ComputeMetadata(platform models.Platform, body string, structured interface{}) models.VersionMetadata {
	meta := models.VersionMetadata{
		CharacterCount: len([]rune(body)),
		WordCount:      WordCount(body),
	}

	switch platform {
	case models.PlatformTwitter:
		if content, ok := structured.(*models.TwitterContent); ok && content != nil {
			meta.ThreadLength = len(content.Thread)
			total := 0
			for _, t := range content.Thread {
				total += len([]rune(t.Content))
			}
			meta.TotalCharacters = total
		}
	case models.PlatformArticle:
		meta.ReadingTime = (meta.WordCount + wordsPerMinute - 1) / wordsPerMinute
		if content, ok := structured.(*models.BlogContent); ok && content != nil {
			meta.SectionCount = len(content.Article.Sections)
			if content.ReadingTime > 0 {
				meta.ReadingTime = content.ReadingTime
			}
		}
	case models.PlatformReelScript, models.PlatformYTScript:
		if content, ok := structured.(*models.ReelContent); ok && content != nil {
			meta.SceneCount = len(content.Script.Body)
			meta.DurationSeconds = estimateDuration(content)
		}
	}
	return meta
}

// estimateDuration sums scene durations from their "0-5s" style ranges,
// falling back to a narration estimate when ranges are absent.
func estimateDuration(content *models.ReelContent) int {
	total := 0
	for _, scene := range content.Script.Body {
		total += parseDurationUpper(scene.Duration)
	}
	if total > 0 {
		return total
	}
	// ~2.5 words per second of narration
	words := WordCount(content.FullText())
	return words * 2 / 5
}

func parseDurationUpper(rangeText string) int {
	text := strings.TrimSuffix(strings.TrimSpace(rangeText), "s")
	if idx := strings.LastIndexByte(text, '-'); idx >= 0 {
		text = text[idx+1:]
	}
	seconds := 0
	for _, r := range text {
		if r < '0' || r > '9' {
			return 0
		}
		seconds = seconds*10 + int(r-'0')
	}
	return seconds
}
