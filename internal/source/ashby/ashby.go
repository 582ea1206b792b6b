package ashby

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/fetch"
	"jobscout-engine/internal/source"
)

type Company struct {
	Slug string // api.ashbyhq.com/posting-api/job-board/<slug>
	Name string
}

type Config struct {
	Companies []Company
}

type Scraper struct {
	cfg     Config
	client  *fetch.Client
	baseURL string
}

func New(cfg Config, client *fetch.Client) *Scraper {
	return &Scraper{cfg: cfg, client: client, baseURL: "https://api.ashbyhq.com"}
}

func (s *Scraper) Name() string { return "ashby" }

type boardResponse struct {
	JobPostings []jobPosting `json:"jobPostings"`
}

type jobPosting struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	LocationName    string `json:"locationName"`
	PublishedDate   string `json:"publishedDate"`
	DescriptionHTML string `json:"descriptionHtml"`
	EmploymentType  string `json:"employmentType"`
}

func (s *Scraper) Fetch(ctx context.Context) source.Result {
	res := source.Result{Source: s.Name()}

	for _, co := range s.cfg.Companies {
		listings, err := s.fetchOrg(ctx, co)
		if err != nil {
			log.Printf("[ashby] company=%q slug=%q err=%v", co.Name, co.Slug, err)
			res.PartialFailure = true
			if res.Err == nil {
				res.Err = err
			}
			continue
		}
		res.Listings = append(res.Listings, listings...)
	}

	return res
}

func (s *Scraper) fetchOrg(ctx context.Context, co Company) ([]domain.Listing, error) {
	apiURL := fmt.Sprintf("%s/posting-api/job-board/%s", s.baseURL, co.Slug)

	body, err := s.client.Get(ctx, apiURL, nil)
	if err != nil {
		return nil, err
	}

	var resp boardResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("ashby decode: %w", err)
	}

	out := make([]domain.Listing, 0, len(resp.JobPostings))
	for _, p := range resp.JobPostings {
		if p.ID == "" || strings.TrimSpace(p.Title) == "" {
			continue
		}

		var postedAt *time.Time
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, p.PublishedDate); err == nil {
				t = t.UTC()
				postedAt = &t
				break
			}
		}

		out = append(out, domain.Listing{
			Title:       p.Title,
			Company:     co.Name,
			LocationRaw: p.LocationName,
			URL:         fmt.Sprintf("https://jobs.ashbyhq.com/%s/%s", co.Slug, p.ID),
			Description: p.DescriptionHTML,
			PostedAt:    postedAt,
			Source:      s.Name(),
		})
	}

	return out, nil
}
