package rank

import (
	"math"
	"sort"
	"strings"
	"time"

	"jobscout-engine/internal/config"
	"jobscout-engine/internal/domain"
)

var remoteWords = []string{"remote", "worldwide", "anywhere", "distributed"}

// Scorer ranks jobs against the profile. Now is injectable so recency is
// reproducible in tests; it defaults to time.Now.
type Scorer struct {
	Cfg config.Config
	Now func() time.Time
}

func New(cfg config.Config) Scorer {
	return Scorer{Cfg: cfg, Now: time.Now}
}

// ShouldExclude applies the hard filters: any exclude keyword in title or
// description drops the job before scoring, as does a missing required
// keyword. This is a filter, not a penalty; an excluded job never reaches
// the ranked list no matter what it would have scored.
func (s Scorer) ShouldExclude(j domain.Job) (bool, string) {
	blob := strings.ToLower(j.Title + " " + j.Description)

	for _, kw := range s.Cfg.Filters.ExcludeKeywords {
		if strings.Contains(blob, strings.ToLower(kw)) {
			return true, "exclude_keyword:" + kw
		}
	}
	for _, kw := range s.Cfg.Filters.RequiredKeywords {
		if !strings.Contains(blob, strings.ToLower(kw)) {
			return true, "missing_required:" + kw
		}
	}
	return false, ""
}

// Score computes the weighted four-factor score. Each factor sits in
// [0,100] before weighting and the result is a rounded int in [0,100];
// same job and profile always produce the same number.
func (s Scorer) Score(j domain.Job) domain.ScoredJob {
	b := domain.Breakdown{
		Title:    s.titleMatch(j.Title),
		Keyword:  s.keywordMatch(j.Description),
		Location: s.locationMatch(j.Location),
		Recency:  s.recency(j.PostedAt),
	}

	w := s.Cfg.Scoring
	total := b.Title*float64(w.TitleWeight)/100 +
		b.Keyword*float64(w.KeywordWeight)/100 +
		b.Location*float64(w.LocationWeight)/100 +
		b.Recency*float64(w.RecencyWeight)/100

	score := int(math.Round(total))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return domain.ScoredJob{Job: j, Score: score, Breakdown: b}
}

func (s Scorer) titleMatch(title string) float64 {
	keywords := s.Cfg.Filters.TitleKeywords
	if len(keywords) == 0 {
		return 50 // no signal either way
	}
	if title == "" {
		return 0
	}

	low := strings.ToLower(title)
	matches := 0
	for _, kw := range keywords {
		if strings.Contains(low, strings.ToLower(kw)) {
			matches++
		}
	}
	return float64(matches) / float64(len(keywords)) * 100
}

func (s Scorer) keywordMatch(description string) float64 {
	keywords := s.Cfg.Filters.PreferredKeywords
	if len(keywords) == 0 {
		return 50
	}
	if description == "" {
		return 0
	}

	low := strings.ToLower(description)
	matches := 0
	for _, kw := range keywords {
		if strings.Contains(low, strings.ToLower(kw)) {
			matches++
		}
	}
	return math.Min(100, float64(matches)/float64(len(keywords))*100)
}

func (s Scorer) locationMatch(location string) float64 {
	if location == "" {
		return 50
	}
	low := strings.ToLower(location)
	loc := s.Cfg.Filters.Location

	// exclusion only zeroes this factor; the hard reject lives in
	// ShouldExclude keyword filters
	for _, ex := range loc.Excluded {
		if strings.Contains(low, strings.ToLower(ex)) {
			return 0
		}
	}

	if loc.RemoteOnly {
		for _, w := range remoteWords {
			if strings.Contains(low, w) {
				return 100
			}
		}
		return 10
	}

	for _, p := range loc.Preferred {
		if strings.Contains(low, strings.ToLower(p)) {
			return 100
		}
	}
	return 50
}

// recency decays linearly from 100 (posted now) to 0 at the configured
// horizon. Unknown dates score neutral so missing data is neither
// penalized nor rewarded.
func (s Scorer) recency(postedAt *time.Time) float64 {
	if postedAt == nil {
		return 50
	}

	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}

	age := now.Sub(*postedAt)
	if age <= 0 {
		return 100
	}

	horizon := time.Duration(s.Cfg.Scoring.RecencyHorizonDays) * 24 * time.Hour
	if age >= horizon {
		return 0
	}
	return 100 * (1 - float64(age)/float64(horizon))
}

// Sort orders scored jobs deterministically: score desc, then more recent
// posted_at first (unknown dates last), then title.
func Sort(jobs []domain.ScoredJob) {
	sort.SliceStable(jobs, func(i, k int) bool {
		a, b := jobs[i], jobs[k]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		switch {
		case a.PostedAt != nil && b.PostedAt == nil:
			return true
		case a.PostedAt == nil && b.PostedAt != nil:
			return false
		case a.PostedAt != nil && b.PostedAt != nil && !a.PostedAt.Equal(*b.PostedAt):
			return a.PostedAt.After(*b.PostedAt)
		}
		return a.Title < b.Title
	})
}
