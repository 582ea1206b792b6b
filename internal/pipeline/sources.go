package pipeline

import (
	"jobscout-engine/internal/config"
	"jobscout-engine/internal/fetch"
	"jobscout-engine/internal/source"
	"jobscout-engine/internal/source/ashby"
	"jobscout-engine/internal/source/greenhouse"
	"jobscout-engine/internal/source/htmlboard"
	"jobscout-engine/internal/source/lever"
)

// BuildSources assembles the enabled adapters, all sharing the one
// rate-limited client.
func BuildSources(cfg config.Config, client *fetch.Client) []source.Source {
	var out []source.Source

	if cfg.Sources.Lever.Enabled {
		out = append(out, lever.New(lever.Config{
			Companies: mapLeverCompanies(cfg.Sources.Lever.Companies),
		}, client))
	}
	if cfg.Sources.Greenhouse.Enabled {
		out = append(out, greenhouse.New(greenhouse.Config{
			Companies: mapGreenhouseCompanies(cfg.Sources.Greenhouse.Companies),
		}, client))
	}
	if cfg.Sources.Ashby.Enabled {
		out = append(out, ashby.New(ashby.Config{
			Companies: mapAshbyCompanies(cfg.Sources.Ashby.Companies),
		}, client))
	}
	if cfg.Sources.HTMLBoards.Enabled {
		sites := mapHTMLSites(cfg.Sources.HTMLBoards.Sites)
		if len(sites) == 0 {
			sites = htmlboard.DefaultSites()
		}
		out = append(out, htmlboard.New(htmlboard.Config{Sites: sites}, client))
	}

	return out
}

func mapLeverCompanies(in []config.Company) []lever.Company {
	out := make([]lever.Company, 0, len(in))
	for _, c := range in {
		out = append(out, lever.Company{Slug: c.Slug, Name: c.Name})
	}
	return out
}

func mapGreenhouseCompanies(in []config.Company) []greenhouse.Company {
	out := make([]greenhouse.Company, 0, len(in))
	for _, c := range in {
		out = append(out, greenhouse.Company{Token: c.Slug, Name: c.Name})
	}
	return out
}

func mapAshbyCompanies(in []config.Company) []ashby.Company {
	out := make([]ashby.Company, 0, len(in))
	for _, c := range in {
		out = append(out, ashby.Company{Slug: c.Slug, Name: c.Name})
	}
	return out
}

func mapHTMLSites(in []config.HTMLSite) []htmlboard.Site {
	out := make([]htmlboard.Site, 0, len(in))
	for _, s := range in {
		out = append(out, htmlboard.Site{
			Name:             s.Name,
			URL:              s.URL,
			BaseURL:          s.BaseURL,
			JobSelector:      s.JobSelector,
			TitleSelector:    s.TitleSelector,
			CompanySelector:  s.CompanySelector,
			LocationSelector: s.LocationSelector,
			LinkSelector:     s.LinkSelector,
		})
	}
	return out
}
