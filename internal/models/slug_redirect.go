package models

// SlugRedirectModel maps a slug an article used to have onto the article.
type SlugRedirectModel struct {
	Base
	Slug      string `json:"slug"      gorm:"size:191;uniqueIndex;not null"`
	ArticleID string `json:"articleId" gorm:"type:char(36);index;not null"`
}

func (SlugRedirectModel) TableName() string { return "slug_redirects" }
