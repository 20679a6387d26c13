package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// ArticleStatus is the publishing state of an article. The zero value is Draft.
type ArticleStatus uint8

const (
	StatusDraft ArticleStatus = iota
	StatusReview
	StatusScheduled
	StatusPublished
	StatusArchived
)

// ArticleStatuses lists every status in workflow order.
var ArticleStatuses = []ArticleStatus{
	StatusDraft,
	StatusReview,
	StatusScheduled,
	StatusPublished,
	StatusArchived,
}

func (s ArticleStatus) String() string {
	switch s {
	case StatusDraft:
		return "Draft"
	case StatusReview:
		return "Review"
	case StatusScheduled:
		return "Scheduled"
	case StatusPublished:
		return "Published"
	case StatusArchived:
		return "Archived"
	default:
		return fmt.Sprintf("ArticleStatus(%d)", uint8(s))
	}
}

// Valid reports whether s is one of the declared statuses.
func (s ArticleStatus) Valid() bool {
	return s <= StatusArchived
}

// ParseArticleStatus accepts any casing ("published", "PUBLISHED") and returns the enum value.
func ParseArticleStatus(raw string) (ArticleStatus, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "draft":
		return StatusDraft, nil
	case "review":
		return StatusReview, nil
	case "scheduled":
		return StatusScheduled, nil
	case "published":
		return StatusPublished, nil
	case "archived":
		return StatusArchived, nil
	default:
		return StatusDraft, fmt.Errorf("invalid status %q: must be one of %s", raw, statusList())
	}
}

func statusList() string {
	names := make([]string, len(ArticleStatuses))
	for i, s := range ArticleStatuses {
		names[i] = s.String()
	}
	return strings.Join(names, ", ")
}

func (s ArticleStatus) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("models.ArticleStatus: invalid value %d", uint8(s))
	}
	return json.Marshal(s.String())
}

func (s *ArticleStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("status must be a string: %w", err)
	}
	parsed, err := ParseArticleStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s ArticleStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("models.ArticleStatus: invalid value %d", uint8(s))
	}
	return s.String(), nil
}

func (s *ArticleStatus) Scan(value interface{}) error {
	var raw string
	switch v := value.(type) {
	case nil:
		*s = StatusDraft
		return nil
	case []byte:
		raw = string(v)
	case string:
		raw = v
	default:
		return fmt.Errorf("models.ArticleStatus: unsupported Scan type %T", value)
	}
	parsed, err := ParseArticleStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
