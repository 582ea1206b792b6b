package normalize

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"jobscout-engine/internal/domain"
)

// Normalize maps a raw listing onto the canonical Job record and computes
// its identity key. The second return is false for unusable listings
// (neither title nor location), which the pipeline drops.
func Normalize(l domain.Listing) (domain.Job, bool) {
	title := CleanText(l.Title)
	location := NormalizeLocation(l.LocationRaw)
	if title == "" && location == "" {
		return domain.Job{}, false
	}

	j := domain.Job{
		Source:      strings.TrimSpace(l.Source),
		Title:       title,
		Company:     CleanText(l.Company),
		Location:    location,
		URL:         CanonicalURL(l.URL),
		Description: CleanText(l.Description),
		PostedAt:    l.PostedAt,
	}
	j.ID = IdentityKey(j.Source, j.URL, j.Title, j.Company)
	return j, true
}

// IdentityKey derives the stable dedup key. URL-backed when possible,
// (title, company)-backed otherwise. Same posting, same key, every run.
func IdentityKey(source, canonicalURL, title, company string) string {
	var blob string
	if canonicalURL != "" {
		blob = source + "|" + canonicalURL
	} else {
		blob = source + "|" + strings.ToLower(title) + "|" + strings.ToLower(company)
	}
	sum := sha256.Sum256([]byte(blob))
	return hex.EncodeToString(sum[:])[:16]
}

func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

func NormalizeLocation(loc string) string {
	loc = CleanText(loc)
	if loc == "" {
		return ""
	}

	loc = strings.TrimPrefix(loc, "Location:")
	loc = strings.TrimPrefix(loc, "LOCATIONS:")
	loc = strings.TrimSpace(loc)

	parts := strings.Split(loc, ",")
	seen := map[string]bool{}
	var out []string
	for _, p := range parts {
		p = CleanText(p)
		if p == "" {
			continue
		}
		k := strings.ToLower(p)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, p)
	}
	return strings.Join(out, ", ")
}

// CanonicalURL strips tracking params, drops fragments, and sorts the
// query so the same posting fetched twice hashes to the same key.
func CanonicalURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	q := u.Query()
	for k := range q {
		lk := strings.ToLower(k)
		if strings.HasPrefix(lk, "utm_") ||
			lk == "gclid" || lk == "fbclid" || lk == "msclkid" ||
			lk == "mc_cid" || lk == "mc_eid" ||
			lk == "mkt_tok" {
			q.Del(k)
		}
	}

	// deterministic query
	for k := range q {
		vals := q[k]
		sort.Strings(vals)
		q[k] = vals
	}
	u.RawQuery = q.Encode()
	return u.String()
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"01/02/2006",
}

var relativeDaysRe = regexp.MustCompile(`(\d+)\s*days?\s*ago`)

// ParseDate handles the date shapes the boards actually emit, including
// relative "N days ago" strings. Unparseable input comes back nil; the
// scorer treats a missing date as neutral rather than failing the listing.
func ParseDate(s string, now time.Time) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}

	low := strings.ToLower(s)
	if strings.Contains(low, "today") || strings.Contains(low, "just now") {
		t := now.UTC()
		return &t
	}
	if strings.Contains(low, "yesterday") {
		t := now.AddDate(0, 0, -1).UTC()
		return &t
	}
	if m := relativeDaysRe.FindStringSubmatch(low); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			t := now.AddDate(0, 0, -n).UTC()
			return &t
		}
	}

	return nil
}
