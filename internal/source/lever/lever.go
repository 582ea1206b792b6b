package lever

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
	Slug string // api.lever.co/v0/postings/<slug>
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
	return &Scraper{cfg: cfg, client: client, baseURL: "https://api.lever.co"}
}

func (s *Scraper) Name() string { return "lever" }

type posting struct {
	ID         string `json:"id"`
	Text       string `json:"text"` // title
	HostedURL  string `json:"hostedUrl"`
	CreatedAt  int64  `json:"createdAt"` // ms epoch
	Categories struct {
		Location   string `json:"location"`
		Team       string `json:"team"`
		Commitment string `json:"commitment"`
	} `json:"categories"`
	Description string `json:"description"` // html
}

func (s *Scraper) Fetch(ctx context.Context) source.Result {
	res := source.Result{Source: s.Name()}

	for _, co := range s.cfg.Companies {
		listings, err := s.fetchCompany(ctx, co)
		if err != nil {
			// one board down must not sink the others
			log.Printf("[lever] company=%q slug=%q err=%v", co.Name, co.Slug, err)
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

func (s *Scraper) fetchCompany(ctx context.Context, co Company) ([]domain.Listing, error) {
	apiURL := fmt.Sprintf("%s/v0/postings/%s?mode=json", s.baseURL, co.Slug)

	body, err := s.client.Get(ctx, apiURL, nil)
	if err != nil {
		return nil, err
	}

	var postings []posting
	if err := json.Unmarshal(body, &postings); err != nil {
		return nil, fmt.Errorf("lever decode: %w", err)
	}

	out := make([]domain.Listing, 0, len(postings))
	for _, p := range postings {
		// skip malformed entries, keep the rest of the batch
		if strings.TrimSpace(p.Text) == "" || p.HostedURL == "" {
			continue
		}

		var postedAt *time.Time
		if p.CreatedAt > 0 {
			t := time.UnixMilli(p.CreatedAt).UTC()
			postedAt = &t
		}

		out = append(out, domain.Listing{
			Title:       p.Text,
			Company:     co.Name,
			LocationRaw: p.Categories.Location,
			URL:         p.HostedURL,
			Description: p.Description,
			PostedAt:    postedAt,
			Source:      s.Name(),
		})
	}

	return out, nil
}
