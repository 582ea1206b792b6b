package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobscout-engine/internal/domain"
)

func TestIdentityKeyDeterministic(t *testing.T) {
	a := IdentityKey("boardX", "https://x/123", "Engineer", "Acme")
	b := IdentityKey("boardX", "https://x/123", "Different Title", "Other Co")
	assert.Equal(t, a, b, "URL-backed keys ignore title/company")

	c := IdentityKey("boardY", "https://x/123", "Engineer", "Acme")
	assert.NotEqual(t, a, c, "key includes source")

	// no URL: falls back to (title, company), case-insensitive
	d := IdentityKey("boardX", "", "Engineer", "Acme")
	e := IdentityKey("boardX", "", "engineer", "ACME")
	assert.Equal(t, d, e)
	assert.NotEqual(t, a, d)
}

func TestCanonicalURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		out  string
	}{
		{
			"strips tracking params",
			"https://Example.com/jobs/1?utm_source=x&utm_campaign=y&ref=keep",
			"https://example.com/jobs/1?ref=keep",
		},
		{
			"drops fragment and sorts query",
			"https://example.com/jobs/1?b=2&a=1#apply",
			"https://example.com/jobs/1?a=1&b=2",
		},
		{
			"empty stays empty",
			"",
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.out, CanonicalURL(tt.in))
		})
	}
}

func TestNormalizeDropsUnusable(t *testing.T) {
	_, ok := Normalize(domain.Listing{
		Description: "body only, no title, no location",
		URL:         "https://example.com/1",
		Source:      "lever",
	})
	assert.False(t, ok)

	// title alone is enough
	j, ok := Normalize(domain.Listing{Title: "Engineer", Source: "lever", URL: "https://example.com/1"})
	require.True(t, ok)
	assert.NotEmpty(t, j.ID)

	// location alone is enough too
	_, ok = Normalize(domain.Listing{LocationRaw: "Remote", Source: "lever"})
	assert.True(t, ok)
}

func TestNormalizeCleansFields(t *testing.T) {
	j, ok := Normalize(domain.Listing{
		Title:       "  Senior  Engineer \n",
		Company:     " Acme &amp; Co ",
		LocationRaw: "Location: Remote, Remote, Berlin",
		URL:         "https://example.com/jobs/1?utm_source=feed",
		Source:      "greenhouse",
	})
	require.True(t, ok)

	assert.Equal(t, "Senior Engineer", j.Title)
	assert.Equal(t, "Acme & Co", j.Company)
	assert.Equal(t, "Remote, Berlin", j.Location)
	assert.Equal(t, "https://example.com/jobs/1", j.URL)
}

func TestSameListingSameIDAcrossRuns(t *testing.T) {
	l := domain.Listing{
		Title:   "Engineer",
		Company: "Acme",
		URL:     "https://example.com/jobs/1?utm_medium=email",
		Source:  "lever",
	}

	j1, ok1 := Normalize(l)
	j2, ok2 := Normalize(l)
	require.True(t, ok1)
	require.True(t, ok2)
	assert.Equal(t, j1.ID, j2.ID)

	// tracking params must not change identity
	l2 := l
	l2.URL = "https://example.com/jobs/1"
	j3, _ := Normalize(l2)
	assert.Equal(t, j1.ID, j3.ID)
}

func TestParseDate(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   string
		want *time.Time
	}{
		{"rfc3339", "2025-06-01T10:00:00Z", timePtr(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))},
		{"date only", "2025-06-01", timePtr(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))},
		{"long form", "June 1, 2025", timePtr(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))},
		{"relative days", "3 days ago", timePtr(now.AddDate(0, 0, -3))},
		{"yesterday", "posted yesterday", timePtr(now.AddDate(0, 0, -1))},
		{"garbage is nil", "whenever", nil},
		{"empty is nil", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDate(tt.in, now)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, got.Equal(*tt.want), "got %v want %v", got, tt.want)
		})
	}
}

func timePtr(t time.Time) *time.Time { return &t }
