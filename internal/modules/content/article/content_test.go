package article

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func TestDeriveContentMetrics(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wordCount   int
		readingTime int
	}{
		{"empty", "", 0, 0},
		{"only tags", "<p></p><br/>", 0, 0},
		{"html", "<p>Hello <b>world</b></p>", 2, 1},
		{"one minute", words(200), 200, 1},
		{"rounds up", words(201), 201, 2},
		{"two minutes", words(400), 400, 2},
		{"whitespace runs", "a \n\t b   c", 3, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := DeriveContentMetrics(tt.content)
			assert.Equal(t, tt.wordCount, m.WordCount)
			assert.Equal(t, tt.readingTime, m.ReadingTime)
		})
	}
}

func TestStripTags(t *testing.T) {
	assert.Equal(t, "Hello world", StripTags(`<p class="x">Hello <a href="/y">world</a></p>`))
}

func TestExcerpt(t *testing.T) {
	short := DeriveContentMetrics("<p>  Short body  </p>")
	assert.Equal(t, "Short body", short.Excerpt)

	exact := strings.Repeat("a", ExcerptLength)
	assert.Equal(t, exact, DeriveContentMetrics(exact).Excerpt)

	long := DeriveContentMetrics(strings.Repeat("b", ExcerptLength+50))
	assert.Equal(t, strings.Repeat("b", ExcerptLength)+"...", long.Excerpt)

	multibyte := DeriveContentMetrics(strings.Repeat("é", ExcerptLength+1))
	assert.Equal(t, strings.Repeat("é", ExcerptLength)+"...", multibyte.Excerpt)
}
