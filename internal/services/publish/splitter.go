package publish

import (
	"fmt"
	"strings"

	"github.com/plumehq/plume/internal/models"
)

// SplitThread breaks a body into tweet-sized units. Paragraph boundaries
// are preferred, then sentence boundaries, then a hard character split for
// anything still too long. Counter suffixes like " (2/5)" are appended when
// the thread has more than one unit.
func SplitThread(body string) []string {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil
	}

	// Room for the " (nn/nn)" counter.
	const unitLimit = models.TweetCharLimit - 8

	var units []string
	for _, paragraph := range strings.Split(body, "\n\n") {
		paragraph = strings.TrimSpace(paragraph)
		if paragraph == "" {
			continue
		}
		if len([]rune(paragraph)) <= unitLimit {
			units = append(units, paragraph)
			continue
		}
		units = append(units, splitLong(paragraph, unitLimit)...)
	}

	if len(units) > models.MaxThreadTweets {
		units = units[:models.MaxThreadTweets]
	}
	if len(units) > 1 {
		units = numberUnits(units)
	}
	return units
}

// splitLong packs sentences into units, hard-splitting any single sentence
// that alone exceeds the limit.
func splitLong(text string, limit int) []string {
	var units []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			units = append(units, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}

	for _, sentence := range splitSentences(text) {
		runes := []rune(sentence)
		if len(runes) > limit {
			flush()
			for len(runes) > limit {
				units = append(units, strings.TrimSpace(string(runes[:limit])))
				runes = runes[limit:]
			}
			if len(runes) > 0 {
				current.WriteString(strings.TrimSpace(string(runes)))
			}
			continue
		}
		if current.Len() > 0 && len([]rune(current.String()))+1+len(runes) > limit {
			flush()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(sentence)
	}
	flush()
	return units
}

func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder
	for _, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func numberUnits(units []string) []string {
	numbered := make([]string, len(units))
	for i, unit := range units {
		numbered[i] = fmt.Sprintf("%s (%d/%d)", unit, i+1, len(units))
	}
	return numbered
}
