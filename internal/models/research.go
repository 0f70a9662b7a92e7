package models

// NormalizedTopic is the structured reading of the session's raw input,
// extracted by the AI before research fan-out.
type NormalizedTopic struct {
	MainTopic      string   `json:"main_topic"`
	Keywords       []string `json:"keywords"`
	Category       string   `json:"category"`
	TargetAudience string   `json:"target_audience"`
	RelatedTerms   []string `json:"related_terms"`
}

// DiscussionPost is a single community post surfaced during research.
type DiscussionPost struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Score    int    `json:"score"`
	Comments int    `json:"comments"`
	Excerpt  string `json:"excerpt,omitempty"`
}

// EngagementStats summarizes community activity around the topic.
type EngagementStats struct {
	TotalPosts  int     `json:"total_posts"`
	AvgScore    float64 `json:"avg_score"`
	AvgComments float64 `json:"avg_comments"`
}

// DiscussionInsights is the community-discussion slice of a research bundle.
type DiscussionInsights struct {
	Posts      []DiscussionPost `json:"posts"`
	PainPoints []string         `json:"pain_points"`
	Sentiment  string           `json:"sentiment"`
	Engagement EngagementStats  `json:"engagement"`
}

// TrendPoint is one sample of topic interest over time.
type TrendPoint struct {
	Date  string `json:"date"`
	Value int    `json:"value"`
}

// TrendInsights is the interest-trend slice of a research bundle.
type TrendInsights struct {
	InterestOverTime []TrendPoint `json:"interest_over_time"`
	RelatedQueries   []string     `json:"related_queries"`
	RisingTopics     []string     `json:"rising_topics"`
	TrendingStatus   string       `json:"trending_status"`
}

// SearchResult is one organic result from the competitive-search source.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// SearchInsights is the competitive-search slice of a research bundle.
type SearchInsights struct {
	TopResults      []SearchResult `json:"top_results"`
	PeopleAlsoAsk   []string       `json:"people_also_ask"`
	RelatedSearches []string       `json:"related_searches"`
	ContentGaps     []string       `json:"content_gaps"`
}

// ResearchBundle aggregates every research source for a topic. Sources that
// fail are represented by their zero value so brief generation can proceed
// on whatever did succeed.
type ResearchBundle struct {
	Normalized  NormalizedTopic    `json:"normalized"`
	Discussions DiscussionInsights `json:"discussions"`
	Trends      TrendInsights      `json:"trends"`
	Search      SearchInsights     `json:"search"`
	SourceErrors map[string]string `json:"source_errors,omitempty"`
}
