package models

import "time"

// Platform identifies the target surface a content version is written for.
type Platform string

const (
	PlatformArticle       Platform = "article"
	PlatformTwitter       Platform = "twitter"
	PlatformLinkedIn      Platform = "linkedin"
	PlatformReelScript    Platform = "reel_script"
	PlatformYTScript      Platform = "yt_script"
	PlatformPodcastScript Platform = "podcast_script"
	PlatformOther         Platform = "other"
)

// IsValidPlatform reports whether p is a known platform.
func IsValidPlatform(p Platform) bool {
	switch p {
	case PlatformArticle, PlatformTwitter, PlatformLinkedIn, PlatformReelScript,
		PlatformYTScript, PlatformPodcastScript, PlatformOther:
		return true
	}
	return false
}

// Per-unit character caps enforced by auto-fix and publish validation.
// Twitter threads are split into units at publish time, so the session-level
// body cap is generous while each tweet stays under the hard limit.
const (
	TweetCharLimit    = 280
	LinkedInCharLimit = 3000
	DefaultCharLimit  = 5000

	MaxThreadTweets = 25
	MaxBodyLength   = 100000
)

// MaxPublishBodyLength returns the ceiling a version body must fit to be
// scheduled for the given platform.
func MaxPublishBodyLength(p Platform) int {
	switch p {
	case PlatformTwitter:
		return TweetCharLimit * MaxThreadTweets
	case PlatformLinkedIn:
		return LinkedInCharLimit
	default:
		return MaxBodyLength
	}
}

// VersionMetadata carries per-platform derived stats computed at generation
// time. Only the fields relevant to the platform are populated.
type VersionMetadata struct {
	CharacterCount  int  `json:"character_count,omitempty"`
	WordCount       int  `json:"word_count,omitempty"`
	ThreadLength    int  `json:"thread_length,omitempty"`
	TotalCharacters int  `json:"total_characters,omitempty"`
	SectionCount    int  `json:"section_count,omitempty"`
	ReadingTime     int  `json:"reading_time,omitempty"`
	DurationSeconds int  `json:"duration_seconds,omitempty"`
	SceneCount      int  `json:"scene_count,omitempty"`
	Regenerated     bool `json:"regenerated,omitempty"`
	AutoFixed       bool `json:"auto_fixed,omitempty"`
	ManuallyEdited  bool `json:"manually_edited,omitempty"`
}

// ContentVersion is one generated (or edited) rendition of a session's
// content for a single platform. Versions are append-only: edits and
// regenerations create a new version rather than mutating an old one.
type ContentVersion struct {
	ID        string          `json:"id" badgerhold:"key"`
	SessionID string          `json:"session_id" badgerhold:"index"`
	UserID    string          `json:"user_id" badgerhold:"index"`
	Platform  Platform        `json:"platform" badgerhold:"index"`
	Body      string          `json:"body"`
	Structured string         `json:"structured,omitempty"`
	Metadata  VersionMetadata `json:"metadata"`
	Number    int             `json:"number"`
	CreatedAt time.Time       `json:"created_at"`
}
