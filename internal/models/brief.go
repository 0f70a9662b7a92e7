package models

import "time"

// PlatformRecommendations is the brief's per-surface angle guidance.
type PlatformRecommendations struct {
	LinkedIn   string `json:"linkedin"`
	Twitter    string `json:"twitter"`
	Blog       string `json:"blog"`
	ReelScript string `json:"reelScript"`
}

// Brief is the research synthesis produced after topic analysis. Its JSON
// field names match the generation prompt contract, so the AI output can be
// decoded directly.
type Brief struct {
	TopicOverview           string                  `json:"topicOverview" validate:"required"`
	AudienceInsights        []string                `json:"audienceInsights" validate:"min=1"`
	ContentAngles           []string                `json:"contentAngles" validate:"min=1"`
	KeyMessages             []string                `json:"keyMessages" validate:"min=1"`
	CompetitiveInsights     []string                `json:"competitiveInsights"`
	PlatformRecommendations PlatformRecommendations `json:"platformRecommendations"`
	SupportingData          []string                `json:"supportingData"`
	UserNiche               string                  `json:"userNiche,omitempty"`
	GeneratedAt             time.Time               `json:"generatedAt"`
}
