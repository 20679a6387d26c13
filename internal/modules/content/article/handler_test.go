package article

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debtprotection/blog-core/internal/middleware"
	"github.com/debtprotection/blog-core/internal/models"
	"github.com/debtprotection/blog-core/internal/pkg/jwt"
)

type fakeUsers map[string]*models.UserModel

func (f fakeUsers) FindUserByID(_ context.Context, id string) (*models.UserModel, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, ErrNotFound
}

type testAPI struct {
	router *gin.Engine
	svc    *Service
	store  *memStore
	tokens map[string]string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc, store := newTestService(t)
	signer := jwt.NewSigner("test-secret", time.Hour)
	users := fakeUsers{
		adminActor.ID:  {Base: models.Base{ID: adminActor.ID}, Name: adminActor.Name, Email: "admin@example.com", Role: models.RoleAdmin},
		authorActor.ID: {Base: models.Base{ID: authorActor.ID}, Name: authorActor.Name, Email: "sam@example.com", Role: models.RoleAuthor},
		"reader-1":     {Base: models.Base{ID: "reader-1"}, Email: "reader@example.com", Role: models.RoleUser},
	}
	tokens := map[string]string{}
	for id, u := range users {
		tok, err := signer.Sign(id, u.Email, string(u.Role))
		require.NoError(t, err)
		tokens[id] = tok
	}

	r := gin.New()
	NewHandler(svc, "https://blog.example.com").RegisterRoutes(r.Group("/api"), middleware.Auth(signer, users))
	return &testAPI{router: r, svc: svc, store: store, tokens: tokens}
}

func (a *testAPI) do(method, path, userID string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+a.tokens[userID])
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestPostsRequireAuth(t *testing.T) {
	api := newTestAPI(t)
	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/api/posts", "", nil).Code)
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodPost, "/api/posts", "reader-1", gin.H{"title": "x"}).Code)
}

func TestCreateAndPublishFlow(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/api/posts", authorActor.ID, gin.H{
		"title":      "How to Fix Credit!!",
		"content":    "<p>" + words(201) + "</p>",
		"categories": []string{"credit repair"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)
	assert.Equal(t, "how-to-fix-credit", created["slug"])
	assert.Equal(t, "Draft", created["status"])
	assert.Equal(t, "credit_scores", created["category"])
	assert.EqualValues(t, 2, created["readingTime"])
	id := created["id"].(string)

	w = api.do(http.MethodPost, "/api/posts/"+id+"/publish", authorActor.ID, gin.H{"status": "published"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Authors cannot publish directly")

	w = api.do(http.MethodPost, "/api/posts/"+id+"/publish", adminActor.ID, gin.H{"status": "PUBLISHED"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Post published successfully")

	w = api.do(http.MethodGet, "/api/published/how-to-fix-credit", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode(t, w)
	assert.Equal(t, "Credit Scores", detail["categoryLabel"])
	assert.EqualValues(t, 1, detail["views"])
	assert.NotEmpty(t, detail["publishedAt"])
}

func TestCreateRejectsBadInput(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/api/posts", adminActor.ID, gin.H{"title": "x", "status": "Live"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodPost, "/api/posts", adminActor.ID, gin.H{"content": "<p>no title</p>"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Contains(t, body["errors"], "title")
	assert.Empty(t, api.store.rows)
}

func TestAdminArticlesStrict(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/api/articles", authorActor.ID, gin.H{"title": "x"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(http.MethodPost, "/api/articles", adminActor.ID, gin.H{"title": "Only title"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	errs := decode(t, w)["errors"].(map[string]interface{})
	assert.Contains(t, errs, "imageUrl")

	w = api.do(http.MethodPost, "/api/articles", adminActor.ID, gin.H{
		"title":      "Know Your Rights",
		"content":    "<p>body</p>",
		"authorName": "Legal Team",
		"imageUrl":   "/uploads/rights.png",
		"categories": []string{"law"},
		"status":     "published",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := decode(t, w)["id"].(string)

	w = api.do(http.MethodGet, "/api/articles/know-your-rights", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode(t, w)
	assert.Equal(t, "Legal Team", detail["author"])
	assert.Equal(t, "https://blog.example.com/uploads/rights.png", detail["imageUrl"])
	assert.EqualValues(t, 0, detail["views"])

	w = api.do(http.MethodDelete, "/api/articles/"+id, adminActor.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/articles/know-your-rights", "", nil).Code)
}

func TestPublishedListPagination(t *testing.T) {
	api := newTestAPI(t)
	for _, title := range []string{"One", "Two", "Three"} {
		seedPublished(t, api.svc, title, "debt")
	}

	w := api.do(http.MethodGet, "/api/published?page=2&limit=2&category=debt-management", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data       []map[string]interface{} `json:"data"`
		Pagination struct {
			Total      int  `json:"total"`
			TotalPages int  `json:"totalPages"`
			HasPrev    bool `json:"hasPrev"`
			HasNext    bool `json:"hasNext"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Data, 1)
	assert.Equal(t, 3, body.Pagination.Total)
	assert.Equal(t, 2, body.Pagination.TotalPages)
	assert.True(t, body.Pagination.HasPrev)
	assert.False(t, body.Pagination.HasNext)
}

func TestSummaryEndpoint(t *testing.T) {
	api := newTestAPI(t)
	seedPublished(t, api.svc, "Live", "debt")

	w := api.do(http.MethodGet, "/api/posts/stats/summary", adminActor.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var s Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
	assert.EqualValues(t, 1, s.TotalPosts)
	assert.EqualValues(t, 1, s.PublishedPosts)

	assert.Equal(t, http.StatusForbidden, api.do(http.MethodGet, "/api/posts/stats/summary", "reader-1", nil).Code)
}

func TestGetPostNotFound(t *testing.T) {
	api := newTestAPI(t)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/posts/missing", adminActor.ID, nil).Code)
}
