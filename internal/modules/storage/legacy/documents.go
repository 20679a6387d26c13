package legacy

import (
	"strings"
	"time"

	"github.com/debtprotection/blog-core/internal/models"
)

type userDoc struct {
	ID            interface{} `bson:"_id"`
	FirstName     string      `bson:"firstName"`
	LastName      string      `bson:"lastName"`
	Name          string      `bson:"name"`
	Email         string      `bson:"email"`
	Image         string      `bson:"image"`
	EmailVerified time.Time   `bson:"emailVerified"`
	Role          string      `bson:"role"`
	PasswordHash  string      `bson:"passwordHash"`
	Status        string      `bson:"status"`
	CreatedAt     time.Time   `bson:"createdAt"`
	UpdatedAt     time.Time   `bson:"updatedAt"`
}

func (d userDoc) model() models.UserModel {
	role, ok := models.ParseUserRole(d.Role)
	if !ok {
		role = models.RoleUser
	}
	status := strings.ToLower(strings.TrimSpace(d.Status))
	if status != models.UserSuspended {
		status = models.UserActive
	}
	u := models.UserModel{
		Base:          models.Base{ID: idString(d.ID), CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt},
		FirstName:     strings.TrimSpace(d.FirstName),
		LastName:      strings.TrimSpace(d.LastName),
		Name:          strings.TrimSpace(d.Name),
		Email:         strings.ToLower(strings.TrimSpace(d.Email)),
		Image:         d.Image,
		EmailVerified: timePtr(d.EmailVerified),
		Role:          role,
		PasswordHash:  d.PasswordHash,
		Status:        status,
	}
	if u.Name == "" {
		u.SyncName()
	}
	return u
}

type authorDoc struct {
	ID        interface{} `bson:"_id"`
	Name      string      `bson:"name"`
	Bio       string      `bson:"bio"`
	CreatedAt time.Time   `bson:"createdAt"`
	UpdatedAt time.Time   `bson:"updatedAt"`
}

func (d authorDoc) model() models.AuthorModel {
	return models.AuthorModel{
		Base: models.Base{ID: idString(d.ID), CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt},
		Name: strings.TrimSpace(d.Name),
		Bio:  strings.TrimSpace(d.Bio),
	}
}

type mediaDoc struct {
	ID           interface{} `bson:"_id"`
	Filename     string      `bson:"filename"`
	OriginalName string      `bson:"originalName"`
	URL          string      `bson:"url"`
	MimeType     string      `bson:"mimeType"`
	Size         interface{} `bson:"size"`
	UploadedBy   interface{} `bson:"uploadedBy"`
	AltText      string      `bson:"altText"`
	Caption      string      `bson:"caption"`
	Tags         interface{} `bson:"tags"`
	IsPublic     *bool       `bson:"isPublic"`
	CreatedAt    time.Time   `bson:"createdAt"`
	UpdatedAt    time.Time   `bson:"updatedAt"`
}

// legacyDriver is where the previous deployment kept uploads.
const legacyDriver = "local"

func (d mediaDoc) model() models.MediaModel {
	m := models.MediaModel{
		Base:         models.Base{ID: idString(d.ID), CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt},
		Filename:     strings.TrimSpace(d.Filename),
		OriginalName: strings.TrimSpace(d.OriginalName),
		URL:          d.URL,
		MimeType:     strings.ToLower(strings.TrimSpace(d.MimeType)),
		Size:         int64(intValue(d.Size)),
		Driver:       legacyDriver,
		UploadedBy:   idPtr(d.UploadedBy),
		AltText:      strings.TrimSpace(d.AltText),
		Caption:      strings.TrimSpace(d.Caption),
		Tags:         models.StringArray(stringList(d.Tags)),
		IsPublic:     true,
	}
	if d.IsPublic != nil {
		m.IsPublic = *d.IsPublic
	}
	if m.OriginalName == "" {
		m.OriginalName = m.Filename
	}
	return m
}

type articleDoc struct {
	ID              interface{} `bson:"_id"`
	Title           string      `bson:"title"`
	Slug            string      `bson:"slug"`
	Excerpt         string      `bson:"excerpt"`
	Content         string      `bson:"content"`
	ContentMarkdown string      `bson:"contentMarkdown"`
	Author          string      `bson:"author"`
	AuthorID        interface{} `bson:"authorId"`
	ImageURL        string      `bson:"imageUrl"`
	FeaturedImageID interface{} `bson:"featuredImageId"`
	Categories      interface{} `bson:"categories"`
	Category        interface{} `bson:"category"`
	Tags            interface{} `bson:"tags"`
	Status          string      `bson:"status"`
	PublishedAt     time.Time   `bson:"publishedAt"`
	ScheduledAt     time.Time   `bson:"scheduledAt"`
	Views           interface{} `bson:"views"`
	AllowComments   *bool       `bson:"allowComments"`
	IsFeatured      bool        `bson:"isFeatured"`
	SEOTitle        string      `bson:"seoTitle"`
	SEODescription  string      `bson:"seoDescription"`
	CanonicalURL    string      `bson:"canonicalUrl"`
	SocialImage     string      `bson:"socialImage"`
	CreatedAt       time.Time   `bson:"createdAt"`
	UpdatedAt       time.Time   `bson:"updatedAt"`
}

// model converts the document. An unknown status is reported and mapped to Draft.
func (d articleDoc) model() (models.ArticleModel, bool) {
	status, err := models.ParseArticleStatus(d.Status)
	statusOK := err == nil || strings.TrimSpace(d.Status) == ""
	if err != nil {
		status = models.StatusDraft
	}
	categories := stringList(d.Categories)
	if len(categories) == 0 {
		categories = stringList(d.Category)
	}
	a := models.ArticleModel{
		Base:            models.Base{ID: idString(d.ID), CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt},
		Title:           strings.TrimSpace(d.Title),
		Slug:            strings.TrimSpace(d.Slug),
		Excerpt:         strings.TrimSpace(d.Excerpt),
		Content:         d.Content,
		ContentMarkdown: d.ContentMarkdown,
		Author:          strings.TrimSpace(d.Author),
		AuthorID:        idPtr(d.AuthorID),
		ImageURL:        d.ImageURL,
		FeaturedImageID: idPtr(d.FeaturedImageID),
		Categories:      models.StringArray(categories),
		Tags:            models.StringArray(stringList(d.Tags)),
		Status:          status,
		PublishedAt:     timePtr(d.PublishedAt),
		ScheduledAt:     timePtr(d.ScheduledAt),
		Views:           intValue(d.Views),
		AllowComments:   true,
		IsFeatured:      d.IsFeatured,
		SEOTitle:        strings.TrimSpace(d.SEOTitle),
		SEODescription:  strings.TrimSpace(d.SEODescription),
		CanonicalURL:    strings.TrimSpace(d.CanonicalURL),
		SocialImage:     d.SocialImage,
	}
	if d.AllowComments != nil {
		a.AllowComments = *d.AllowComments
	}
	if a.Author == "" {
		a.Author = "Anonymous"
	}
	return a, statusOK
}
