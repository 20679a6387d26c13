package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func contextFor(rawQuery string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+rawQuery, nil)
	return c
}

func TestFromContext(t *testing.T) {
	assert.Equal(t, Query{Page: 1, Limit: 10}, FromContext(contextFor("")))
	assert.Equal(t, Query{Page: 3, Limit: 20}, FromContext(contextFor("page=3&limit=20")))
	assert.Equal(t, Query{Page: 2, Limit: 5}, FromContext(contextFor("page=2&size=5")))
	assert.Equal(t, Query{Page: 1, Limit: 100}, FromContext(contextFor("page=-4&limit=1000")))
	assert.Equal(t, Query{Page: 1, Limit: 10}, FromContext(contextFor("page=x&limit=y")))
}

func TestMeta(t *testing.T) {
	m := Meta(Query{Page: 2, Limit: 10}, 25)
	assert.Equal(t, 3, m.TotalPages)
	assert.True(t, m.HasNext)
	assert.True(t, m.HasPrev)

	m = Meta(Query{Page: 1, Limit: 10}, 0)
	assert.Equal(t, 0, m.TotalPages)
	assert.False(t, m.HasNext)
	assert.False(t, m.HasPrev)

	assert.Equal(t, 20, Query{Page: 3, Limit: 10}.Offset())
}
