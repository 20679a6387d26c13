package aggregate

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debtprotection/blog-core/internal/middleware"
	"github.com/debtprotection/blog-core/internal/models"
)

type fakeStore struct {
	overview  Overview
	monthFrom time.Time
	months    []MonthCount
	articles  []models.ArticleModel
	users     []models.UserModel
	top       []TopAuthor
	err       error
}

func (f *fakeStore) Overview(_ context.Context, _ time.Time) (Overview, error) {
	return f.overview, f.err
}

func (f *fakeStore) MonthlyArticles(_ context.Context, from time.Time) ([]MonthCount, error) {
	f.monthFrom = from
	return f.months, f.err
}

func (f *fakeStore) LatestArticles(_ context.Context, _ int) ([]models.ArticleModel, error) {
	return f.articles, f.err
}

func (f *fakeStore) LatestUsers(_ context.Context, _ int) ([]models.UserModel, error) {
	return f.users, f.err
}

func (f *fakeStore) TopAuthors(_ context.Context, _ int) ([]TopAuthor, error) {
	return f.top, f.err
}

var fixedNow = time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

func newTestService(store *fakeStore) *Service {
	svc := NewService(store)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestOverviewRates(t *testing.T) {
	svc := newTestService(&fakeStore{overview: Overview{
		TotalUsers: 3, ActiveUsers: 2, PublishedArticles: 1, DraftArticles: 2,
	}})
	o, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 33, o.CompletionRate)
	assert.Equal(t, 67, o.EngagementRate)

	empty, err := newTestService(&fakeStore{}).Overview(context.Background())
	require.NoError(t, err)
	assert.Zero(t, empty.CompletionRate)
	assert.Zero(t, empty.EngagementRate)
}

func TestActivityOverTimeFillsGaps(t *testing.T) {
	store := &fakeStore{months: []MonthCount{
		{Year: 2024, Month: 4, Published: 2, Drafts: 1},
		{Year: 2025, Month: 3, Published: 5},
	}}
	points, err := newTestService(store).ActivityOverTime(context.Background())
	require.NoError(t, err)

	require.Len(t, points, ChartMonths)
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), store.monthFrom)
	assert.Equal(t, MonthPoint{Label: "APR", Year: 2024, Month: 4, Published: 2, Drafts: 1, Total: 3}, points[0])
	assert.Equal(t, "MAY", points[1].Label)
	assert.Zero(t, points[1].Total)
	assert.Equal(t, MonthPoint{Label: "MAR", Year: 2025, Month: 3, Published: 5, Total: 5}, points[11])
}

func TestRecentActivitiesMergesNewestFirst(t *testing.T) {
	at := func(h int) time.Time { return fixedNow.Add(-time.Duration(h) * time.Hour) }
	store := &fakeStore{
		articles: []models.ArticleModel{
			{Base: models.Base{ID: "a1", CreatedAt: at(1)}, Title: "Live", Author: "Sam", Status: models.StatusPublished},
			{Base: models.Base{ID: "a2", CreatedAt: at(5)}, Title: "WIP", Status: models.StatusDraft},
		},
		users: []models.UserModel{
			{Base: models.Base{ID: "u1", CreatedAt: at(3)}, Email: "new@example.com"},
		},
	}
	for i := 0; i < 12; i++ {
		store.users = append(store.users, models.UserModel{Base: models.Base{ID: "old", CreatedAt: at(100 + i)}, Name: "Old", Role: models.RoleAuthor})
	}

	feed, err := newTestService(store).RecentActivities(context.Background())
	require.NoError(t, err)
	require.Len(t, feed, 10)

	assert.Equal(t, "a1", feed[0].ID)
	assert.Equal(t, ActivityPublished, feed[0].Type)
	assert.Equal(t, "Sam", feed[0].Actor)

	assert.Equal(t, "u1", feed[1].ID)
	assert.Equal(t, ActivitySignup, feed[1].Type)
	assert.Equal(t, "Invited user", feed[1].Title)
	assert.Equal(t, models.RoleUser, feed[1].Meta["role"])

	assert.Equal(t, "a2", feed[2].ID)
	assert.Equal(t, ActivityDraftUpdated, feed[2].Type)
	assert.Equal(t, "Editorial team", feed[2].Actor)
}

func TestTopPerformingMomentum(t *testing.T) {
	store := &fakeStore{top: []TopAuthor{{Name: "Sam", Published: 10}, {Name: "Kim", Published: 2}}}
	top, err := newTestService(store).TopPerforming(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 100, top[0].Momentum)
	assert.Equal(t, 56, top[1].Momentum)
}

func TestErrorsPropagate(t *testing.T) {
	svc := newTestService(&fakeStore{err: errors.New("db down")})
	_, err := svc.Overview(context.Background())
	assert.Error(t, err)
	_, err = svc.ActivityOverTime(context.Background())
	assert.Error(t, err)
	_, err = svc.RecentActivities(context.Background())
	assert.Error(t, err)
}

func withUser(u *models.UserModel) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextKeyUserID, u.ID)
		c.Set(middleware.ContextKeyUser, u)
		c.Next()
	}
}

func TestHandlerRoles(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &fakeStore{overview: Overview{PublishedArticles: 4}}
	get := func(path string, u *models.UserModel) *httptest.ResponseRecorder {
		r := gin.New()
		NewHandler(newTestService(store)).RegisterRoutes(r.Group("/api"), withUser(u))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}
	author := &models.UserModel{Base: models.Base{ID: "a"}, Role: models.RoleAuthor}
	admin := &models.UserModel{Base: models.Base{ID: "b"}, Role: models.RoleAdmin}

	w := get("/api/admin/stats", author)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"publishedArticles":4`)

	assert.Equal(t, http.StatusForbidden, get("/api/admin/top-performing", author).Code)
	assert.Equal(t, http.StatusOK, get("/api/admin/top-performing", admin).Code)
	assert.Equal(t, http.StatusOK, get("/api/admin/activity-over-time", admin).Code)
	assert.Equal(t, http.StatusOK, get("/api/admin/recent-activities", admin).Code)
}
