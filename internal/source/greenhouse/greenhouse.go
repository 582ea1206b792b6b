package greenhouse

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
	Token string // api.greenhouse.io/v1/boards/<token>/jobs
	Name  string
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
	return &Scraper{cfg: cfg, client: client, baseURL: "https://api.greenhouse.io"}
}

func (s *Scraper) Name() string { return "greenhouse" }

type boardResponse struct {
	Jobs []boardJob `json:"jobs"`
}

type boardJob struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	AbsoluteURL string `json:"absolute_url"`
	UpdatedAt   string `json:"updated_at"` // RFC3339-ish
	Content     string `json:"content"`
	Location    *struct {
		Name string `json:"name"`
	} `json:"location"`
}

func (s *Scraper) Fetch(ctx context.Context) source.Result {
	res := source.Result{Source: s.Name()}

	for _, co := range s.cfg.Companies {
		listings, err := s.fetchBoard(ctx, co)
		if err != nil {
			log.Printf("[greenhouse] company=%q token=%q err=%v", co.Name, co.Token, err)
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

func (s *Scraper) fetchBoard(ctx context.Context, co Company) ([]domain.Listing, error) {
	apiURL := fmt.Sprintf("%s/v1/boards/%s/jobs?content=true", s.baseURL, co.Token)

	body, err := s.client.Get(ctx, apiURL, nil)
	if err != nil {
		return nil, err
	}

	var resp boardResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("greenhouse decode: %w", err)
	}

	out := make([]domain.Listing, 0, len(resp.Jobs))
	for _, j := range resp.Jobs {
		if strings.TrimSpace(j.Title) == "" || j.AbsoluteURL == "" {
			continue
		}

		loc := ""
		if j.Location != nil {
			loc = j.Location.Name
		}

		var postedAt *time.Time
		if t, err := time.Parse(time.RFC3339, j.UpdatedAt); err == nil {
			t = t.UTC()
			postedAt = &t
		}

		out = append(out, domain.Listing{
			Title:       j.Title,
			Company:     co.Name,
			LocationRaw: loc,
			URL:         j.AbsoluteURL,
			Description: j.Content,
			PostedAt:    postedAt,
			Source:      s.Name(),
		})
	}

	return out, nil
}
