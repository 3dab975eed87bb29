package summarize

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/newsloom/newsloom/internal/models"
	"github.com/sirupsen/logrus"
)

// minSummarizableLength is the shortest text worth sending to the LLM; RSS
// snippet fallbacks can be tiny and still need a usable Summary back.
const minSummarizableLength = 20

const promptTemplate = `You are a news assistant. Summarize the article text below in 2-3 sentences, then classify it.
Respond with a single JSON object and nothing else, using exactly these keys:
  "summary": the summary as a string
  "category": one of "Tech", "Politics", "Business", "Entertainment", "Sports", "Science", "General"
  "sentiment": one of "Positive", "Neutral", "Negative"

Article:
%s`

// TextGenerator is the single-shot LLM capability the summarizer consumes.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Summarizer produces a Summary for article text. It never fails: any LLM or
// parse error degrades to a local truncation-based summary.
type Summarizer struct {
	generator  TextGenerator
	inputLimit int
	timeout    time.Duration
}

// llmResponse is the fixed schema expected back from the model.
type llmResponse struct {
	Summary   string `json:"summary"`
	Category  string `json:"category"`
	Sentiment string `json:"sentiment"`
}

// New creates a Summarizer. generator may be nil, in which case every call
// returns the degraded summary; the pipeline stays usable without an API key.
func New(generator TextGenerator, inputLimit int, timeout time.Duration) *Summarizer {
	return &Summarizer{
		generator:  generator,
		inputLimit: inputLimit,
		timeout:    timeout,
	}
}

// Summarize returns a Summary for text. The category and sentiment are
// normalized against their closed sets.
func (s *Summarizer) Summarize(ctx context.Context, text string) models.Summary {
	text = strings.TrimSpace(text)
	if len(text) < minSummarizableLength || s.generator == nil {
		return Degraded(text)
	}

	if len(text) > s.inputLimit {
		text = text[:s.inputLimit]
	}

	llmCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.generator.Generate(llmCtx, fmt.Sprintf(promptTemplate, text))
	if err != nil {
		logrus.Warnf("LLM call failed, using degraded summary: %v", err)
		return Degraded(text)
	}

	var parsed llmResponse
	if err := json.Unmarshal([]byte(stripFences(raw)), &parsed); err != nil {
		logrus.Warnf("LLM response did not decode, using degraded summary: %v", err)
		return Degraded(text)
	}

	summary := strings.TrimSpace(parsed.Summary)
	if summary == "" {
		return Degraded(text)
	}

	return models.Summary{
		Summary:   summary,
		Category:  normalizeCategory(parsed.Category),
		Sentiment: normalizeSentiment(parsed.Sentiment),
	}
}

// Degraded builds the local fallback Summary: the first two sentences of the
// text with a trailing period, category General, sentiment Neutral.
func Degraded(text string) models.Summary {
	return models.Summary{
		Summary:   truncateSentences(text, 2),
		Category:  models.CategoryGeneral,
		Sentiment: models.SentimentNeutral,
	}
}

// truncateSentences keeps the first n '.'-delimited sentences, rejoined and
// terminated with a period.
func truncateSentences(text string, n int) string {
	parts := strings.Split(strings.TrimSpace(text), ".")
	if len(parts) > n {
		parts = parts[:n]
	}

	joined := strings.TrimSpace(strings.Join(parts, "."))
	if joined == "" {
		return ""
	}
	if !strings.HasSuffix(joined, ".") {
		joined += "."
	}
	return joined
}

// stripFences removes a surrounding markdown code fence from the model output.
// This is the only string-shape tolerance applied before the strict decode.
func stripFences(raw string) string {
	trimmed := strings.TrimSpace(raw)

	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	}

	return strings.TrimSpace(trimmed)
}

func normalizeCategory(category string) string {
	for _, known := range models.Categories() {
		if strings.EqualFold(strings.TrimSpace(category), known) {
			return known
		}
	}
	return models.CategoryGeneral
}

func normalizeSentiment(sentiment string) string {
	for _, known := range models.Sentiments() {
		if strings.EqualFold(strings.TrimSpace(sentiment), known) {
			return known
		}
	}
	return models.SentimentNeutral
}

// categoryRules re-categorize by keyword scan, in fixed priority order. The
// model's free-text classification drifts; the category filter tabs need a
// stable taxonomy, so a rule match overrides the LLM's answer.
var categoryRules = []struct {
	category string
	pattern  *regexp.Regexp
}{
	{models.CategoryTech, regexp.MustCompile(`(?i)\b(ai|tech|code|software|app|google|apple|microsoft|crypto|bitcoin)\b`)},
	{models.CategoryPolitics, regexp.MustCompile(`(?i)\b(election|vote|senate|congress|minister|policy|law|government)\b`)},
	{models.CategoryBusiness, regexp.MustCompile(`(?i)\b(stock|market|money|economy|business|startup|ipo|trade)\b`)},
	{models.CategoryEntertainment, regexp.MustCompile(`(?i)\b(movie|music|film|star|celebrity|actor|song|netflix|game)\b`)},
	{models.CategorySports, regexp.MustCompile(`(?i)\b(sport|ball|score|team|player|league|cup|nba|nfl)\b`)},
	{models.CategoryScience, regexp.MustCompile(`(?i)\b(science|space|nasa|planet|biology|virus|health|study)\b`)},
}

// Recategorize scans text (typically title + summary) against the fixed
// keyword sets; the first matching category wins. With no match, fallback is
// kept, or General when fallback is empty.
func Recategorize(text, fallback string) string {
	for _, rule := range categoryRules {
		if rule.pattern.MatchString(text) {
			return rule.category
		}
	}
	if fallback == "" {
		return models.CategoryGeneral
	}
	return fallback
}
