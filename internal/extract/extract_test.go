package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var denylist = []string{"cookie", "subscribe"}

func TestParagraphs_CollectsArticleBody(t *testing.T) {
	html := `<html><body>
		<nav>Home News Sports</nav>
		<main>
			<article>
				<p>The first paragraph carries enough words to clear the threshold.</p>
				<p>short</p>
				<p>We use cookies to improve your experience on this site today.</p>
				<p>Please subscribe to our newsletter for more updates and news.</p>
				<p>The second real paragraph also clears the minimum length easily.</p>
			</article>
		</main>
		<footer>All rights reserved</footer>
	</body></html>`

	paragraphs := Paragraphs(html, 25, denylist)

	assert.Equal(t, []string{
		"The first paragraph carries enough words to clear the threshold.",
		"The second real paragraph also clears the minimum length easily.",
	}, paragraphs)
}

func TestParagraphs_StripsBoilerplateElements(t *testing.T) {
	html := `<html><body>
		<script>var tracker = "should never appear in extracted text";</script>
		<div class="cookie-banner"><p>This banner paragraph is plenty long but lives in junk.</p></div>
		<div class="sidebar"><p>Sidebar content is long enough but must be removed too.</p></div>
		<p>Only this ordinary body paragraph should survive the cleanup pass.</p>
	</body></html>`

	paragraphs := Paragraphs(html, 25, nil)

	assert.Len(t, paragraphs, 1)
	assert.Contains(t, paragraphs[0], "ordinary body paragraph")
}

func TestParagraphs_DenylistIsCaseInsensitive(t *testing.T) {
	html := `<body><p>ACCEPT ALL COOKIES to keep reading this very fine article.</p></body>`

	assert.Empty(t, Paragraphs(html, 25, denylist))
}

func TestParagraphs_EmptyInput(t *testing.T) {
	assert.Empty(t, Paragraphs("", 25, denylist))
}

func TestStripTags(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "anchor wrapper",
			input:    `<a href="https://example.com">Markets rally on rate cut</a>`,
			expected: "Markets rally on rate cut",
		},
		{
			name:     "nested tags",
			input:    "<p>Breaking: <strong>major</strong> update</p>",
			expected: "Breaking: major update",
		},
		{
			name:     "plain text",
			input:    "No markup at all",
			expected: "No markup at all",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripTags(tt.input))
		})
	}
}

func TestParagraphs_FallsBackToBareParagraphs(t *testing.T) {
	// No article container at all; the generic selector still harvests.
	html := `<body><div><p>` + strings.Repeat("word ", 20) + `</p></div></body>`

	paragraphs := Paragraphs(html, 25, nil)
	assert.Len(t, paragraphs, 1)
}
