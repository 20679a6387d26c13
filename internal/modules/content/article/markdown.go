package article

import (
	"bytes"
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
)

// Converter keeps an article's HTML body and its markdown source in step.
type Converter struct {
	engine goldmark.Markdown
	toMD   *md.Converter
}

func NewConverter() *Converter {
	return &Converter{
		engine: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Typographer,
			),
			goldmark.WithRendererOptions(
				htmlrenderer.WithXHTML(),
			),
		),
		toMD: md.NewConverter("", true, nil),
	}
}

// ToHTML renders markdown source. Raw HTML in the source is escaped.
func (c *Converter) ToHTML(source string) (string, error) {
	var out bytes.Buffer
	if err := c.engine.Convert([]byte(source), &out); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return strings.TrimSpace(out.String()), nil
}

// ToMarkdown converts an HTML body back into markdown.
func (c *Converter) ToMarkdown(html string) (string, error) {
	out, err := c.toMD.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("convert html to markdown: %w", err)
	}
	return out, nil
}
