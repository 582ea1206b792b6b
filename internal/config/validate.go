package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string
	Warnings []string
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate trims and dedups keyword lists, fills defaulted
// numeric fields, and reports anything a run could not proceed with.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Filters.TitleKeywords = trimList(out.Filters.TitleKeywords)
	out.Filters.PreferredKeywords = trimList(out.Filters.PreferredKeywords)
	out.Filters.ExcludeKeywords = trimList(out.Filters.ExcludeKeywords)
	out.Filters.RequiredKeywords = trimList(out.Filters.RequiredKeywords)
	out.Filters.Location.Preferred = trimList(out.Filters.Location.Preferred)
	out.Filters.Location.Excluded = trimList(out.Filters.Location.Excluded)

	// defaults
	if out.Scoring.TitleWeight == 0 && out.Scoring.KeywordWeight == 0 &&
		out.Scoring.LocationWeight == 0 && out.Scoring.RecencyWeight == 0 {
		out.Scoring.TitleWeight = 35
		out.Scoring.KeywordWeight = 30
		out.Scoring.LocationWeight = 15
		out.Scoring.RecencyWeight = 20
	}
	if out.Scoring.RecencyHorizonDays <= 0 {
		out.Scoring.RecencyHorizonDays = 30
	}
	if out.Scoring.MaxResults <= 0 {
		out.Scoring.MaxResults = 20
	}
	if out.Scraping.RequestDelay <= 0 {
		out.Scraping.RequestDelay = 2.0
	}
	if out.Scraping.Timeout <= 0 {
		out.Scraping.Timeout = 30.0
	}
	if out.Scraping.MaxRetries < 0 {
		out.Scraping.MaxRetries = 0
	}

	// ---- Validation rules ----

	if out.Scoring.MinScore < 0 || out.Scoring.MinScore > 100 {
		res.addErr("scoring.min_score must be 0..100, got %d", out.Scoring.MinScore)
	}

	totalWeight := out.Scoring.TitleWeight + out.Scoring.KeywordWeight +
		out.Scoring.LocationWeight + out.Scoring.RecencyWeight
	if totalWeight != 100 {
		res.addErr("scoring weights must sum to 100, got %d", totalWeight)
	}

	if !out.Sources.Lever.Enabled && !out.Sources.Greenhouse.Enabled &&
		!out.Sources.Ashby.Enabled && !out.Sources.HTMLBoards.Enabled {
		res.addWarn("no sources enabled; every run will come back empty")
	}

	if len(out.Filters.TitleKeywords) == 0 && len(out.Filters.PreferredKeywords) == 0 {
		res.addWarn("no title or preferred keywords set; scoring will be mostly neutral")
	}

	// same term in preferred and excluded locations is almost certainly a typo
	excluded := map[string]bool{}
	for _, e := range out.Filters.Location.Excluded {
		excluded[strings.ToLower(e)] = true
	}
	for _, p := range out.Filters.Location.Preferred {
		if excluded[strings.ToLower(p)] {
			res.addWarn("location appears in both preferred and excluded: %q", p)
		}
	}

	for i, s := range out.Sources.HTMLBoards.Sites {
		if s.Name == "" {
			res.addErr("sources.html_boards.sites[%d].name is required", i)
		}
		if s.URL == "" {
			res.addErr("sources.html_boards.sites[%d].url is required", i)
		}
		if s.JobSelector == "" {
			res.addErr("sources.html_boards.sites[%d].job_selector is required", i)
		}
	}

	return out, res
}
