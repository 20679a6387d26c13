package aggregate

import "time"

// Overview is the dashboard headline numbers.
type Overview struct {
	TotalUsers        int64 `json:"totalUsers"`
	ActiveUsers       int64 `json:"activeUsers"`
	NewUsersThisMonth int64 `json:"newUsersThisMonth"`
	PublishedArticles int64 `json:"publishedArticles"`
	DraftArticles     int64 `json:"draftArticles"`
	ReviewArticles    int64 `json:"reviewArticles"`
	ScheduledArticles int64 `json:"scheduledArticles"`
	AuthorCount       int64 `json:"authorCount"`
	TotalViews        int64 `json:"totalViews"`
	// CompletionRate is the share of published among published and draft articles, in percent.
	CompletionRate int `json:"completionRate"`
	// EngagementRate is the share of active accounts, in percent.
	EngagementRate int `json:"engagementRate"`
}

// MonthCount is one row of the per-month article aggregation.
type MonthCount struct {
	Year      int
	Month     int
	Published int64
	Drafts    int64
}

// MonthPoint is one bar of the activity chart.
type MonthPoint struct {
	Label     string `json:"label"`
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	Published int64  `json:"published"`
	Drafts    int64  `json:"drafts"`
	Total     int64  `json:"total"`
}

const (
	ActivityPublished    = "Published"
	ActivityDraftUpdated = "Draft updated"
	ActivitySignup       = "New signup"
)

// Activity is one entry of the recent activity feed.
type Activity struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Title     string                 `json:"title"`
	Actor     string                 `json:"actor"`
	Timestamp time.Time              `json:"timestamp"`
	Meta      map[string]interface{} `json:"meta"`
}

// TopAuthor ranks authors by published articles.
type TopAuthor struct {
	Name            string    `json:"name"`
	Bio             string    `json:"bio"`
	Published       int64     `json:"published"`
	Views           int64     `json:"views"`
	LatestPublished time.Time `json:"latestPublished"`
	Momentum        int       `json:"momentum"`
}
