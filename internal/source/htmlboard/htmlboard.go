package htmlboard

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/fetch"
	"jobscout-engine/internal/source"
)

// maxEntriesPerSite bounds how much of a listing page we take; boards
// putting hundreds of rows on one page are paginated upstream anyway.
const maxEntriesPerSite = 50

// Site describes one board's markup: where the entries live and where
// title/company/location/link sit inside each entry. Each site is a pure
// function from page bytes to listings, so a layout change on one board
// cannot cascade into the others.
type Site struct {
	Name             string
	URL              string
	BaseURL          string
	JobSelector      string
	TitleSelector    string
	CompanySelector  string
	LocationSelector string
	LinkSelector     string
}

type Config struct {
	Sites []Site
}

type Scraper struct {
	cfg    Config
	client *fetch.Client
}

func New(cfg Config, client *fetch.Client) *Scraper {
	return &Scraper{cfg: cfg, client: client}
}

func (s *Scraper) Name() string { return "htmlboard" }

func (s *Scraper) Fetch(ctx context.Context) source.Result {
	res := source.Result{Source: s.Name()}

	for _, site := range s.cfg.Sites {
		listings, err := s.scrapeSite(ctx, site)
		if err != nil {
			log.Printf("[htmlboard] site=%q err=%v", site.Name, err)
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

func (s *Scraper) scrapeSite(ctx context.Context, site Site) ([]domain.Listing, error) {
	body, err := s.client.Get(ctx, site.URL, nil)
	if err != nil {
		return nil, err
	}
	return ParseSite(site, body)
}

// ParseSite extracts listings from page bytes. A fetched page where the
// job selector matches nothing returns ErrPatternNotFound so callers can
// tell a markup change apart from a network failure.
func ParseSite(site Site, page []byte) ([]domain.Listing, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", site.Name, err)
	}

	entries := doc.Find(site.JobSelector)
	if entries.Length() == 0 {
		return nil, fmt.Errorf("site %s selector %q: %w", site.Name, site.JobSelector, source.ErrPatternNotFound)
	}

	var out []domain.Listing
	entries.EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if i >= maxEntriesPerSite {
			return false
		}

		title := cleanText(sel.Find(site.TitleSelector).First().Text())
		company := cleanText(sel.Find(site.CompanySelector).First().Text())
		if title == "" || company == "" {
			return true // skip malformed entry, keep going
		}

		location := cleanText(sel.Find(site.LocationSelector).First().Text())

		href, _ := sel.Find(site.LinkSelector).First().Attr("href")
		href = strings.TrimSpace(href)
		jobURL := href
		if href != "" && !strings.HasPrefix(href, "http") {
			jobURL = strings.TrimRight(site.BaseURL, "/") + "/" + strings.TrimLeft(href, "/")
		}

		out = append(out, domain.Listing{
			Title:       title,
			Company:     company,
			LocationRaw: location,
			URL:         jobURL,
			Source:      "html_" + site.Name,
		})
		return true
	})

	return out, nil
}

func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

// DefaultSites mirrors the boards the tool ships with; each can be
// toggled off per-site in config.
func DefaultSites() []Site {
	return []Site{
		{
			Name:             "web3_career",
			URL:              "https://web3.career/jobs",
			BaseURL:          "https://web3.career",
			JobSelector:      ".job-tile",
			TitleSelector:    ".job-tile-title",
			CompanySelector:  ".job-tile-company",
			LocationSelector: ".job-tile-location",
			LinkSelector:     "a",
		},
		{
			Name:             "crypto_careers",
			URL:              "https://cryptocareers.com/jobs",
			BaseURL:          "https://cryptocareers.com",
			JobSelector:      ".job-item",
			TitleSelector:    ".job-title",
			CompanySelector:  ".company-name",
			LocationSelector: ".location",
			LinkSelector:     "a",
		},
		{
			Name:             "cryptojobslist",
			URL:              "https://cryptojobslist.com/jobs",
			BaseURL:          "https://cryptojobslist.com",
			JobSelector:      ".job-listing",
			TitleSelector:    "h3",
			CompanySelector:  ".company",
			LocationSelector: ".location",
			LinkSelector:     "a",
		},
	}
}
