package models

import "time"

// Interaction types stored against an article URL.
const (
	InteractionLike    = "like"
	InteractionComment = "comment"
)

// Article categories form a closed set; anything unrecognized maps to General.
const (
	CategoryTech          = "Tech"
	CategoryPolitics      = "Politics"
	CategoryBusiness      = "Business"
	CategoryEntertainment = "Entertainment"
	CategorySports        = "Sports"
	CategoryScience       = "Science"
	CategoryGeneral       = "General"
)

const (
	SentimentPositive = "Positive"
	SentimentNeutral  = "Neutral"
	SentimentNegative = "Negative"
)

var categories = []string{
	CategoryTech, CategoryPolitics, CategoryBusiness,
	CategoryEntertainment, CategorySports, CategoryScience, CategoryGeneral,
}

var sentiments = []string{SentimentPositive, SentimentNeutral, SentimentNegative}

// Categories returns the closed category set in display order.
func Categories() []string {
	out := make([]string, len(categories))
	copy(out, categories)
	return out
}

// Sentiments returns the closed sentiment set.
func Sentiments() []string {
	out := make([]string, len(sentiments))
	copy(out, sentiments)
	return out
}

// TrendSet is the merged view of all trend sources. All is the rank-interleaved,
// de-duplicated keyword list; BySource keeps each source's own ranking.
type TrendSet struct {
	All      []string            `json:"all"`
	BySource map[string][]string `json:"bySource"`
}

// Article is a resolved news story for one keyword. Text is never empty: when
// full-content extraction falls short it holds a synthesized title+snippet
// fallback instead.
type Article struct {
	Title  string `json:"title"`
	Text   string `json:"text"`
	URL    string `json:"url"`
	Source string `json:"source"`
}

// Summary is the LLM (or degraded) view of an article's text.
type Summary struct {
	Summary   string `json:"summary"`
	Category  string `json:"category"`
	Sentiment string `json:"sentiment"`
}

// Comment is the feed-facing projection of a comment interaction.
type Comment struct {
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// FeedItem is one assembled entry of a feed page. ID is a stable encoding of
// the article URL so clients can de-duplicate across requests.
type FeedItem struct {
	ID        string    `json:"id"`
	Keyword   string    `json:"keyword"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Category  string    `json:"category"`
	Sentiment string    `json:"sentiment"`
	URL       string    `json:"url"`
	Source    string    `json:"source"`
	Likes     int       `json:"likes"`
	Comments  []Comment `json:"comments"`
}

// FeedPage is the response payload for one feed request.
type FeedPage struct {
	Feed            []FeedItem          `json:"feed"`
	Trending        []string            `json:"trending"`
	TrendingSources map[string][]string `json:"trendingSources"`
	HasMore         bool                `json:"hasMore"`
}

// Interaction is a stored like or comment keyed by article URL.
type Interaction struct {
	ID         int64     `json:"id"`
	UserID     string    `json:"userId,omitempty"`
	ArticleURL string    `json:"articleUrl"`
	Type       string    `json:"type"`
	Content    string    `json:"content,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
