package article

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/debtprotection/blog-core/internal/models"
)

const (
	maxTitleRunes = 200
	maxLabelRunes = 64
)

// Profile selects how much of an article must be present.
type Profile int

const (
	// ProfileBase covers the author panel: title and author only.
	ProfileBase Profile = iota
	// ProfileStrict is the admin article form: body, image and a category are required too.
	ProfileStrict
)

// checked is the trimmed view of an article that rules run against.
// Field names in error maps come from the json tags.
type checked struct {
	Title        string   `json:"title"`
	Author       string   `json:"author"`
	Content      string   `json:"content"`
	ImageURL     string   `json:"imageUrl"`
	Categories   []string `json:"categories"`
	Tags         []string `json:"tags"`
	CanonicalURL string   `json:"canonicalUrl"`
	SocialImage  string   `json:"socialImage"`
}

// Validate checks a to-be-written article against profile.
func Validate(a *models.ArticleModel, profile Profile) error {
	v := checked{
		Title:        strings.TrimSpace(a.Title),
		Author:       strings.TrimSpace(a.Author),
		Content:      strings.TrimSpace(a.Content),
		ImageURL:     strings.TrimSpace(a.ImageURL),
		Categories:   a.Categories.Compact(),
		Tags:         a.Tags.Compact(),
		CanonicalURL: strings.TrimSpace(a.CanonicalURL),
		SocialImage:  strings.TrimSpace(a.SocialImage),
	}
	strict := profile == ProfileStrict

	err := validation.ValidateStruct(&v,
		validation.Field(&v.Title,
			validation.Required.Error("title is required"),
			validation.RuneLength(0, maxTitleRunes).Error("title must be at most 200 characters"),
		),
		validation.Field(&v.Author, validation.Required.Error("author is required")),
		validation.Field(&v.Content, validation.When(strict, validation.Required.Error("content is required"))),
		validation.Field(&v.ImageURL, validation.When(strict, validation.Required.Error("imageUrl is required"))),
		validation.Field(&v.Categories,
			validation.When(strict, validation.Required.Error("at least one category is required")),
			validation.Each(validation.RuneLength(0, maxLabelRunes)),
		),
		validation.Field(&v.Tags, validation.Each(validation.RuneLength(0, maxLabelRunes))),
		validation.Field(&v.CanonicalURL, is.URL.Error("canonicalUrl must be a valid URL")),
		validation.Field(&v.SocialImage, is.URL.Error("socialImage must be a valid URL")),
	)
	if err != nil {
		return &ValidationError{Err: err}
	}
	return nil
}
