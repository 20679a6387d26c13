package models

import "time"

// ArticleModel is a blog article.
type ArticleModel struct {
	Base
	Title           string        `json:"title"           gorm:"not null"`
	Slug            string        `json:"slug"            gorm:"size:191;uniqueIndex;not null"`
	Excerpt         string        `json:"excerpt"         gorm:"type:text"`
	Content         string        `json:"content"         gorm:"type:longtext"`
	ContentMarkdown string        `json:"contentMarkdown" gorm:"type:longtext"`
	Author          string        `json:"author"          gorm:"size:191;index;not null"`
	AuthorID        *string       `json:"authorId"        gorm:"type:char(36);index"`
	AuthorUser      *UserModel    `json:"authorUser,omitempty"    gorm:"foreignKey:AuthorID"`
	ImageURL        string        `json:"imageUrl"`
	FeaturedImageID *string       `json:"featuredImageId" gorm:"type:char(36)"`
	FeaturedImage   *MediaModel   `json:"featuredImage,omitempty" gorm:"foreignKey:FeaturedImageID"`
	Categories      StringArray   `json:"categories"      gorm:"type:json"`
	Tags            StringArray   `json:"tags"            gorm:"type:json"`
	Status          ArticleStatus `json:"status"          gorm:"type:varchar(16);index;not null"`
	PublishedAt     *time.Time    `json:"publishedAt"     gorm:"index"`
	ScheduledAt     *time.Time    `json:"scheduledAt"     gorm:"index"`
	ReadingTime     int           `json:"readingTime"`
	WordCount       int           `json:"wordCount"`
	Views           int           `json:"views"           gorm:"default:0"`
	AllowComments   bool          `json:"allowComments"   gorm:"not null"`
	IsFeatured      bool          `json:"isFeatured"      gorm:"index;not null"`
	SEOTitle        string        `json:"seoTitle"`
	SEODescription  string        `json:"seoDescription"  gorm:"type:text"`
	CanonicalURL    string        `json:"canonicalUrl"`
	SocialImage     string        `json:"socialImage"`
}

func (ArticleModel) TableName() string { return "articles" }

// IsOwnedBy reports whether userID authored the article.
func (a *ArticleModel) IsOwnedBy(userID string) bool {
	return a.AuthorID != nil && userID != "" && *a.AuthorID == userID
}
