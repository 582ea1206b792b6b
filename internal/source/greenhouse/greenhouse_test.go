package greenhouse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobscout-engine/internal/fetch"
)

const boardJSON = `{
  "jobs": [
    {
      "id": 101,
      "title": "Protocol Engineer",
      "absolute_url": "https://boards.greenhouse.io/acme/jobs/101",
      "updated_at": "2025-05-20T10:00:00Z",
      "content": "rust and distributed systems",
      "location": {"name": "Remote - EMEA"}
    },
    {
      "id": 102,
      "title": "Data Analyst",
      "absolute_url": "https://boards.greenhouse.io/acme/jobs/102",
      "updated_at": "not a date"
    },
    {
      "id": 103,
      "title": "",
      "absolute_url": "https://boards.greenhouse.io/acme/jobs/103"
    }
  ]
}`

func testClient() *fetch.Client {
	return fetch.New(fetch.Options{Delay: time.Millisecond, Timeout: 5 * time.Second})
}

func TestFetchParsesBoard(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/boards/acme/jobs", r.URL.Path)
		w.Write([]byte(boardJSON))
	}))
	defer srv.Close()

	s := New(Config{Companies: []Company{{Token: "acme", Name: "Acme"}}}, testClient())
	s.baseURL = srv.URL

	res := s.Fetch(context.Background())
	require.False(t, res.PartialFailure)
	require.Len(t, res.Listings, 2, "untitled entry skipped")

	first := res.Listings[0]
	assert.Equal(t, "Protocol Engineer", first.Title)
	assert.Equal(t, "Remote - EMEA", first.LocationRaw)
	assert.Equal(t, "greenhouse", first.Source)
	require.NotNil(t, first.PostedAt)
	assert.Equal(t, time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC), *first.PostedAt)

	second := res.Listings[1]
	assert.Nil(t, second.PostedAt, "unparseable timestamp degrades to nil")
	assert.Empty(t, second.LocationRaw, "missing location tolerated")
}

func TestFetchServerErrorIsPartialFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := New(Config{Companies: []Company{{Token: "acme", Name: "Acme"}}}, testClient())
	s.baseURL = srv.URL

	res := s.Fetch(context.Background())
	assert.True(t, res.PartialFailure)
	assert.Empty(t, res.Listings)
}
