package api

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tublog/tublog-server/internal/service"
)

func (ts *testServer) search(t *testing.T, q, page string) *service.SearchResult {
	t.Helper()
	resp := ts.api.Get(searchPath(q, page))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	return decode[*service.SearchResult](t, resp)
}

func searchPath(q, page string) string {
	v := url.Values{}
	v.Set("q", q)
	if page != "" {
		v.Set("page", page)
	}
	return "/search/?" + v.Encode()
}

func TestSearch_EmptyQuery(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.signup(t, "alice")
	ts.createPost(t, alice.AccessToken, map[string]any{"title": "Hello", "content": "World"})

	for _, q := range []string{"", "   "} {
		result := ts.search(t, q, "")
		assert.True(t, result.NoResults)
		assert.Empty(t, result.Posts)
		assert.Zero(t, result.Total)
	}

	resp := ts.api.Get("/search/")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, decode[*service.SearchResult](t, resp).NoResults)
}

func TestSearch_MatchesTitleOrContentOnce(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.signup(t, "alice")

	both := ts.createPost(t, alice.AccessToken, map[string]any{"title": "Gopher notes", "content": "More about the gopher"})
	title := ts.createPost(t, alice.AccessToken, map[string]any{"title": "GOPHER", "content": "nothing here"})
	ts.createPost(t, alice.AccessToken, map[string]any{"title": "Rust", "content": "crabs"})
	content := ts.createPost(t, alice.AccessToken, map[string]any{"title": "Misc", "content": "a gOpHeR appears"})

	result := ts.search(t, "gopher", "")
	require.Len(t, result.Posts, 3)
	assert.Equal(t, 3, result.Total)
	assert.False(t, result.NoResults)
	assert.Equal(t, []int64{both.ID, title.ID, content.ID},
		[]int64{result.Posts[0].ID, result.Posts[1].ID, result.Posts[2].ID})
	assert.Equal(t, "alice", result.Posts[0].AuthorUsername)

	result = ts.search(t, "python", "")
	assert.True(t, result.NoResults)
	assert.Empty(t, result.Posts)
}

func TestSearch_UnicodeAndLiterals(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.signup(t, "alice")

	summer := ts.createPost(t, alice.AccessToken, map[string]any{"title": "Notes from été", "content": "warm"})
	percent := ts.createPost(t, alice.AccessToken, map[string]any{"title": "Discounts", "content": "50% off_today"})
	ts.createPost(t, alice.AccessToken, map[string]any{"title": "Other", "content": "500 offtoday"})

	result := ts.search(t, "ÉTÉ", "")
	require.Len(t, result.Posts, 1)
	assert.Equal(t, summer.ID, result.Posts[0].ID)

	result = ts.search(t, "0% off_", "")
	require.Len(t, result.Posts, 1)
	assert.Equal(t, percent.ID, result.Posts[0].ID)
}

func TestSearch_Pagination(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.signup(t, "alice")

	for i := 1; i <= 12; i++ {
		ts.createPost(t, alice.AccessToken, map[string]any{
			"title":   fmt.Sprintf("Post %02d", i),
			"content": "paginated body",
		})
	}

	first := ts.search(t, "paginated", "")
	assert.Len(t, first.Posts, 10)
	assert.Equal(t, 1, first.Page)
	assert.Equal(t, 10, first.PerPage)
	assert.Equal(t, 12, first.Total)
	assert.Equal(t, 2, first.TotalPages)
	assert.True(t, first.HasNext)
	assert.False(t, first.HasPrevious)

	second := ts.search(t, "paginated", "2")
	require.Len(t, second.Posts, 2)
	assert.Equal(t, "Post 11", second.Posts[0].Title)
	assert.False(t, second.HasNext)
	assert.True(t, second.HasPrevious)

	resp := ts.api.Get(searchPath("paginated", "3"))
	assert.Equal(t, http.StatusNotFound, resp.Code)

	// Past-the-end pages of an empty result are just empty.
	none := ts.search(t, "absent", "3")
	assert.True(t, none.NoResults)

	for _, bad := range []string{"abc", "0", "-1"} {
		resp := ts.api.Get(searchPath("paginated", bad))
		assert.Equal(t, http.StatusBadRequest, resp.Code, bad)
		assert.Equal(t, "VALIDATION", decodeError(t, resp).Code)
	}
}
