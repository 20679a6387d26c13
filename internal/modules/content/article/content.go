package article

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// WordsPerMinute drives ReadingTime.
	WordsPerMinute = 200
	// ExcerptLength is measured in characters of tag-stripped text.
	ExcerptLength = 200
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// StripTags removes anything that looks like an HTML tag. It is not an HTML parser.
func StripTags(content string) string {
	return tagPattern.ReplaceAllString(content, "")
}

// ContentMetrics are the values derived from an article body.
type ContentMetrics struct {
	PlainText   string
	WordCount   int
	ReadingTime int
	Excerpt     string
}

// DeriveContentMetrics computes word count, reading time and a default excerpt.
func DeriveContentMetrics(content string) ContentMetrics {
	plain := StripTags(content)
	words := len(strings.Fields(plain))
	return ContentMetrics{
		PlainText:   plain,
		WordCount:   words,
		ReadingTime: (words + WordsPerMinute - 1) / WordsPerMinute,
		Excerpt:     excerptOf(plain),
	}
}

// excerptOf keeps the first ExcerptLength runes, trimmed, with "..." when text was cut.
func excerptOf(plain string) string {
	if utf8.RuneCountInString(plain) <= ExcerptLength {
		return strings.TrimSpace(plain)
	}
	runes := []rune(plain)
	return strings.TrimSpace(string(runes[:ExcerptLength])) + "..."
}
