package drafts

// Prompt templates per platform. Each demands JSON-only output in the shape
// the matching models type decodes.

const contextBlock = `Brief:
%s

Creator's answers:
%s
`

const linkedinPrompt = contextBlock + `
Write a LinkedIn post grounded in the brief and the creator's own words.

Respond with only JSON in this shape:
{
  "post": {"hook": "...", "body": "...", "cta": "...", "hashtags": ["#..."]},
  "variants": {"short": "...", "medium": "...", "long": "..."},
  "performanceTips": ["..."]
}

The full post (hook + body + cta + hashtags) must stay under %d characters.`

const twitterPrompt = contextBlock + `
Write a Twitter thread grounded in the brief and the creator's own words.

Respond with only JSON in this shape:
{
  "thread": [{"tweetNumber": 1, "content": "...", "note": "..."}],
  "singleTweet": "...",
  "quoteTweet": "...",
  "hashtags": ["#..."]
}

Every tweet, including singleTweet, must stay under %d characters.`

const blogPrompt = contextBlock + `
Write a long-form article grounded in the brief and the creator's own words.

Respond with only JSON in this shape:
{
  "article": {
    "title": "...",
    "metaDescription": "...",
    "introduction": "...",
    "sections": [{"heading": "...", "content": "...", "keyTakeaway": "..."}],
    "conclusion": "...",
    "faqs": [{"question": "...", "answer": "..."}]
  },
  "seoMetadata": {"focusKeyword": "...", "secondaryKeywords": ["..."], "slug": "..."},
  "readingTime": 5
}`

const reelPrompt = contextBlock + `
Write a 30-60 second short-video script grounded in the brief and the
creator's own words.

Respond with only JSON in this shape:
{
  "script": {
    "hook": "...",
    "body": [{"scene": 1, "duration": "0-5s", "visual": "...", "voiceover": "...", "onScreenText": "..."}],
    "cta": "..."
  },
  "production": ["..."],
  "platforms": ["..."]
}`

const regeneratePrompt = `Rework the content below.

Platform: %s
Instruction: %s

Current content:
%s

Respond with only the reworked content as plain text, no commentary.`

const autoFixPrompt = `Fix the issues in the content below without changing its message.

Platform: %s
Issues to fix:
%s

Current content:
%s

Respond with only the fixed content as plain text, no commentary.`

const ideasPrompt = `Suggest %d distinct content ideas for a creator, seeded with this %s input:

%s

Respond with only JSON in this shape:
{
  "ideas": [{"title": "...", "summary": "...", "keywords": ["..."]}]
}

Each idea needs a different angle; summaries stay under three sentences.`

const titlePrompt = `Write a short descriptive title (a few words, no quotes) for a content
session seeded with this %s input:

%s

Respond with only the title.`
