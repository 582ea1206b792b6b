package lever

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

const postingsJSON = `[
  {
    "id": "p1",
    "text": "Developer Relations Lead",
    "hostedUrl": "https://jobs.lever.co/acme/p1",
    "createdAt": 1717200000000,
    "categories": {"location": "Remote", "team": "Ecosystem"},
    "description": "<p>community and web3</p>"
  },
  {
    "id": "p2",
    "text": "",
    "hostedUrl": "https://jobs.lever.co/acme/p2"
  },
  {
    "id": "p3",
    "text": "Backend Engineer",
    "hostedUrl": "https://jobs.lever.co/acme/p3",
    "categories": {"location": "Berlin"}
  }
]`

func testClient() *fetch.Client {
	return fetch.New(fetch.Options{Delay: time.Millisecond, Timeout: 5 * time.Second})
}

func TestFetchParsesPostings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v0/postings/acme", r.URL.Path)
		w.Write([]byte(postingsJSON))
	}))
	defer srv.Close()

	s := New(Config{Companies: []Company{{Slug: "acme", Name: "Acme"}}}, testClient())
	s.baseURL = srv.URL

	res := s.Fetch(context.Background())
	require.False(t, res.PartialFailure)
	require.Len(t, res.Listings, 2, "entry with empty title is skipped, batch continues")

	first := res.Listings[0]
	assert.Equal(t, "Developer Relations Lead", first.Title)
	assert.Equal(t, "Acme", first.Company)
	assert.Equal(t, "Remote", first.LocationRaw)
	assert.Equal(t, "https://jobs.lever.co/acme/p1", first.URL)
	assert.Equal(t, "lever", first.Source)
	require.NotNil(t, first.PostedAt)
	assert.Equal(t, time.UnixMilli(1717200000000).UTC(), *first.PostedAt)

	assert.Nil(t, res.Listings[1].PostedAt, "missing createdAt stays nil")
}

func TestFetchBoardDownIsPartialFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v0/postings/down" {
			http.Error(w, "nope", http.StatusNotFound)
			return
		}
		w.Write([]byte(postingsJSON))
	}))
	defer srv.Close()

	s := New(Config{Companies: []Company{
		{Slug: "down", Name: "Down Co"},
		{Slug: "acme", Name: "Acme"},
	}}, testClient())
	s.baseURL = srv.URL

	res := s.Fetch(context.Background())
	assert.True(t, res.PartialFailure)
	assert.Error(t, res.Err)
	assert.Len(t, res.Listings, 2, "healthy board still contributes")
}

func TestFetchBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	s := New(Config{Companies: []Company{{Slug: "acme", Name: "Acme"}}}, testClient())
	s.baseURL = srv.URL

	res := s.Fetch(context.Background())
	assert.True(t, res.PartialFailure)
	assert.Empty(t, res.Listings)
}
