package models

// Structured generation outputs, one type per platform. JSON field names
// match the generation prompt contracts so AI output decodes directly; the
// decoded struct is re-serialized into ContentVersion.Structured.

// LinkedInPost is the core post of a LinkedIn generation.
type LinkedInPost struct {
	Hook     string   `json:"hook"`
	Body     string   `json:"body"`
	CTA      string   `json:"cta"`
	Hashtags []string `json:"hashtags"`
}

// LinkedInContent is the full LinkedIn generation payload.
type LinkedInContent struct {
	Post            LinkedInPost      `json:"post"`
	Variants        map[string]string `json:"variants,omitempty"`
	PerformanceTips []string          `json:"performanceTips,omitempty"`
}

// FullText joins the post parts into a publishable body.
func (c *LinkedInContent) FullText() string {
	text := c.Post.Hook
	if c.Post.Body != "" {
		text += "\n\n" + c.Post.Body
	}
	if c.Post.CTA != "" {
		text += "\n\n" + c.Post.CTA
	}
	for i, tag := range c.Post.Hashtags {
		if i == 0 {
			text += "\n\n"
		} else {
			text += " "
		}
		text += tag
	}
	return text
}

// Tweet is one unit of a Twitter thread.
type Tweet struct {
	TweetNumber int    `json:"tweetNumber"`
	Content     string `json:"content"`
	Note        string `json:"note,omitempty"`
}

// TwitterContent is the full Twitter generation payload.
type TwitterContent struct {
	Thread      []Tweet  `json:"thread"`
	SingleTweet string   `json:"singleTweet"`
	QuoteTweet  string   `json:"quoteTweet,omitempty"`
	Hashtags    []string `json:"hashtags,omitempty"`
}

// FullText joins the thread into a newline-separated publishable body.
func (c *TwitterContent) FullText() string {
	if len(c.Thread) == 0 {
		return c.SingleTweet
	}
	var text string
	for i, t := range c.Thread {
		if i > 0 {
			text += "\n\n"
		}
		text += t.Content
	}
	return text
}

// BlogSection is one section of a generated article.
type BlogSection struct {
	Heading     string `json:"heading"`
	Content     string `json:"content"`
	KeyTakeaway string `json:"keyTakeaway,omitempty"`
}

// BlogFAQ is one frequently-asked-question entry of a generated article.
type BlogFAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// BlogArticle is the article body of a blog generation.
type BlogArticle struct {
	Title           string        `json:"title"`
	MetaDescription string        `json:"metaDescription"`
	Introduction    string        `json:"introduction"`
	Sections        []BlogSection `json:"sections"`
	Conclusion      string        `json:"conclusion"`
	FAQs            []BlogFAQ     `json:"faqs,omitempty"`
}

// BlogSEO is the search-optimization slice of a blog generation.
type BlogSEO struct {
	FocusKeyword      string   `json:"focusKeyword,omitempty"`
	SecondaryKeywords []string `json:"secondaryKeywords,omitempty"`
	Slug              string   `json:"slug,omitempty"`
}

// BlogContent is the full blog generation payload.
type BlogContent struct {
	Article        BlogArticle `json:"article"`
	SEOMetadata    BlogSEO     `json:"seoMetadata"`
	ReadingTime    int         `json:"readingTime,omitempty"`
}

// FullText joins the article into a publishable body.
func (c *BlogContent) FullText() string {
	text := c.Article.Introduction
	for _, s := range c.Article.Sections {
		text += "\n\n" + s.Heading + "\n\n" + s.Content
	}
	if c.Article.Conclusion != "" {
		text += "\n\n" + c.Article.Conclusion
	}
	return text
}

// ReelScene is one scene of a generated short-video script.
type ReelScene struct {
	Scene        int    `json:"scene"`
	Duration     string `json:"duration"`
	Visual       string `json:"visual"`
	Voiceover    string `json:"voiceover"`
	OnScreenText string `json:"onScreenText,omitempty"`
}

// ReelScript is the script body of a reel generation.
type ReelScript struct {
	Hook string      `json:"hook"`
	Body []ReelScene `json:"body"`
	CTA  string      `json:"cta"`
}

// ReelContent is the full short-video generation payload.
type ReelContent struct {
	Script     ReelScript `json:"script"`
	Production []string   `json:"production,omitempty"`
	Platforms  []string   `json:"platforms,omitempty"`
}

// FullText joins the voiceover lines into a narratable body.
func (c *ReelContent) FullText() string {
	text := c.Script.Hook
	for _, scene := range c.Script.Body {
		if scene.Voiceover != "" {
			text += "\n\n" + scene.Voiceover
		}
	}
	if c.Script.CTA != "" {
		text += "\n\n" + c.Script.CTA
	}
	return text
}
