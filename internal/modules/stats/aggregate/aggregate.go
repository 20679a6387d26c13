// Package aggregate computes the admin dashboard statistics.
package aggregate

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/debtprotection/blog-core/internal/models"
)

const (
	// ChartMonths is how many months the activity chart covers, current month included.
	ChartMonths    = 12
	activityFeed   = 10
	activitySource = 12
	TopAuthorLimit = 6
)

// Store runs the aggregation queries.
type Store interface {
	Overview(ctx context.Context, monthStart time.Time) (Overview, error)
	MonthlyArticles(ctx context.Context, from time.Time) ([]MonthCount, error)
	LatestArticles(ctx context.Context, limit int) ([]models.ArticleModel, error)
	LatestUsers(ctx context.Context, limit int) ([]models.UserModel, error)
	TopAuthors(ctx context.Context, limit int) ([]TopAuthor, error)
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

func monthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func percent(part, whole int64) int {
	if whole <= 0 {
		return 0
	}
	return int((part*100 + whole/2) / whole)
}

// Overview returns the headline counters with their derived rates.
func (s *Service) Overview(ctx context.Context) (Overview, error) {
	o, err := s.store.Overview(ctx, monthStart(s.now()))
	if err != nil {
		return Overview{}, err
	}
	o.CompletionRate = percent(o.PublishedArticles, o.PublishedArticles+o.DraftArticles)
	o.EngagementRate = percent(o.ActiveUsers, o.TotalUsers)
	return o, nil
}

// ActivityOverTime returns one point per month for the last ChartMonths
// months, oldest first. Months without articles are zero.
func (s *Service) ActivityOverTime(ctx context.Context) ([]MonthPoint, error) {
	current := monthStart(s.now())
	from := current.AddDate(0, -(ChartMonths - 1), 0)
	rows, err := s.store.MonthlyArticles(ctx, from)
	if err != nil {
		return nil, err
	}
	byMonth := make(map[[2]int]MonthCount, len(rows))
	for _, r := range rows {
		byMonth[[2]int{r.Year, r.Month}] = r
	}

	points := make([]MonthPoint, 0, ChartMonths)
	for m := from; !m.After(current); m = m.AddDate(0, 1, 0) {
		r := byMonth[[2]int{m.Year(), int(m.Month())}]
		points = append(points, MonthPoint{
			Label:     strings.ToUpper(m.Format("Jan")),
			Year:      m.Year(),
			Month:     int(m.Month()),
			Published: r.Published,
			Drafts:    r.Drafts,
			Total:     r.Published + r.Drafts,
		})
	}
	return points, nil
}

// RecentActivities merges the newest articles and signups, newest first.
func (s *Service) RecentActivities(ctx context.Context) ([]Activity, error) {
	articles, err := s.store.LatestArticles(ctx, activitySource)
	if err != nil {
		return nil, err
	}
	users, err := s.store.LatestUsers(ctx, activitySource)
	if err != nil {
		return nil, err
	}

	feed := make([]Activity, 0, len(articles)+len(users))
	for _, a := range articles {
		kind := ActivityDraftUpdated
		if a.Status == models.StatusPublished {
			kind = ActivityPublished
		}
		actor := strings.TrimSpace(a.Author)
		if actor == "" {
			actor = "Editorial team"
		}
		feed = append(feed, Activity{
			ID:        a.ID,
			Type:      kind,
			Title:     a.Title,
			Actor:     actor,
			Timestamp: a.CreatedAt,
			Meta:      map[string]interface{}{"status": a.Status, "publishedAt": a.PublishedAt},
		})
	}
	for _, u := range users {
		title := strings.TrimSpace(u.Name)
		if title == "" {
			title = "Invited user"
		}
		role := u.Role
		if role == "" {
			role = models.RoleUser
		}
		feed = append(feed, Activity{
			ID:        u.ID,
			Type:      ActivitySignup,
			Title:     title,
			Actor:     u.Email,
			Timestamp: u.CreatedAt,
			Meta:      map[string]interface{}{"role": role},
		})
	}

	sort.SliceStable(feed, func(i, j int) bool { return feed[i].Timestamp.After(feed[j].Timestamp) })
	if len(feed) > activityFeed {
		feed = feed[:activityFeed]
	}
	return feed, nil
}

// TopPerforming ranks authors by published articles, with a momentum score
// capped at 100.
func (s *Service) TopPerforming(ctx context.Context) ([]TopAuthor, error) {
	top, err := s.store.TopAuthors(ctx, TopAuthorLimit)
	if err != nil {
		return nil, err
	}
	for i := range top {
		top[i].Momentum = momentum(top[i].Published)
	}
	return top, nil
}

func momentum(published int64) int {
	m := published*11 + 34
	if m > 100 {
		return 100
	}
	return int(m)
}
