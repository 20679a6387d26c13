package models

// MediaModel is an uploaded file tracked by the media library.
type MediaModel struct {
	Base
	Filename     string      `json:"filename"     gorm:"size:191;not null"`
	OriginalName string      `json:"originalName" gorm:"not null"`
	URL          string      `json:"url"          gorm:"not null"`
	MimeType     string      `json:"mimeType"     gorm:"size:127;index;not null"`
	Size         int64       `json:"size"`
	Driver       string      `json:"-"            gorm:"type:varchar(16);not null;default:local"`
	UploadedBy   *string     `json:"uploadedBy"   gorm:"type:char(36);index"`
	Uploader     *UserModel  `json:"uploader,omitempty" gorm:"foreignKey:UploadedBy"`
	AltText      string      `json:"altText"`
	Caption      string      `json:"caption"`
	Tags         StringArray `json:"tags"         gorm:"type:json"`
	IsPublic     bool        `json:"isPublic"     gorm:"not null"`
}

func (MediaModel) TableName() string { return "media" }
