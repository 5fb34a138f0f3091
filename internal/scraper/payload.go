// Package scraper talks to the external scraping backend: it normalizes
// stored configs into request payloads, executes the scrape over HTTP, and
// maps the heterogeneous raw results into canonical job records.
package scraper

import (
	"errors"
	"strings"

	"github.com/jonesrussell/gojobs/internal/models"
)

// ErrCountryRequired is returned when a config includes the indeed site but
// has no resolvable country. Indeed scrapes without a country are a
// guaranteed backend rejection, so the normalizer fails fast instead of
// defaulting.
var ErrCountryRequired = errors.New("Country is required when using Indeed")

const (
	defaultResultsWanted = 15
	defaultCountry       = "usa"
)

// ScrapeRequest is the normalized payload sent to the scraping backend.
// Optional fields are pointers so absent values are omitted from the JSON
// body entirely rather than sent as zero values.
type ScrapeRequest struct {
	SiteName                 string   `json:"site_name"`
	SearchTerm               string   `json:"search_term"`
	GoogleSearchTerm         *string  `json:"google_search_term,omitempty"`
	Location                 *string  `json:"location,omitempty"`
	Distance                 *int     `json:"distance,omitempty"`
	IsRemote                 bool     `json:"is_remote"`
	JobType                  *string  `json:"job_type,omitempty"`
	EasyApply                *bool    `json:"easy_apply,omitempty"`
	ResultsWanted            int      `json:"results_wanted"`
	CountryIndeed            string   `json:"country_indeed"`
	LinkedinFetchDescription bool     `json:"linkedin_fetch_description"`
	LinkedinCompanyIDs       []string `json:"linkedin_company_ids,omitempty"`
	Offset                   int      `json:"offset"`
	HoursOld                 *int     `json:"hours_old,omitempty"`
	EnforceAnnualSalary      bool     `json:"enforce_annual_salary"`
	DescriptionFormat        string   `json:"description_format"`
}

// Normalize maps a stored config into a ScrapeRequest.
//
// Rules:
//   - site_name is the first configured site ("indeed" when the list is empty).
//   - country_indeed is lower-cased, canonicalized to "usa" for the common US
//     spellings, and defaults to "usa" unless indeed is among the sites, in
//     which case an unset country is a validation error.
//   - results_wanted defaults to 15 when unset.
//   - job_type is lower-cased with spaces and hyphens stripped.
//   - when is_remote is set, location and distance are suppressed regardless
//     of stored values. Remote filters should not also constrain geography.
//   - offset defaults to 0; hours_old, distance, easy_apply and
//     linkedin_company_ids pass through only when present.
func Normalize(cfg *models.ScrapingConfig) (*ScrapeRequest, error) {
	country, err := resolveCountry(cfg)
	if err != nil {
		return nil, err
	}

	req := &ScrapeRequest{
		SiteName:                 cfg.PrimarySite(),
		SearchTerm:               cfg.SearchTerm,
		IsRemote:                 cfg.IsRemote,
		ResultsWanted:            cfg.ResultsWanted,
		CountryIndeed:            country,
		LinkedinFetchDescription: cfg.LinkedinFetchDescription,
		EnforceAnnualSalary:      cfg.EnforceAnnualSalary,
		DescriptionFormat:        cfg.DescriptionFormat,
	}

	if req.ResultsWanted <= 0 {
		req.ResultsWanted = defaultResultsWanted
	}
	if req.DescriptionFormat == "" {
		req.DescriptionFormat = "markdown"
	}

	if !cfg.IsRemote {
		if cfg.Location != "" {
			loc := cfg.Location
			req.Location = &loc
		}
		if cfg.Distance != nil {
			req.Distance = cfg.Distance
		}
	}

	if jt := normalizeJobType(cfg.JobType); jt != nil {
		req.JobType = jt
	}
	if cfg.GoogleSearchTerm != nil && *cfg.GoogleSearchTerm != "" {
		req.GoogleSearchTerm = cfg.GoogleSearchTerm
	}
	if cfg.EasyApply {
		t := true
		req.EasyApply = &t
	}
	if len(cfg.LinkedinCompanyIDs) > 0 {
		req.LinkedinCompanyIDs = cfg.LinkedinCompanyIDs
	}
	if cfg.HoursOld != nil {
		req.HoursOld = cfg.HoursOld
	}
	if cfg.PageOffset != nil {
		req.Offset = *cfg.PageOffset
	}

	return req, nil
}

func resolveCountry(cfg *models.ScrapingConfig) (string, error) {
	raw := ""
	if cfg.CountryIndeed != nil {
		raw = strings.TrimSpace(strings.ToLower(*cfg.CountryIndeed))
	}
	if raw == "" {
		if cfg.UsesIndeed() {
			return "", ErrCountryRequired
		}
		return defaultCountry, nil
	}
	switch raw {
	case "usa", "us", "united states":
		return defaultCountry, nil
	}
	return raw, nil
}

// normalizeJobType compacts a job type to the token form the site APIs
// expect: lower-cased, with whitespace and hyphens removed.
func normalizeJobType(jt *string) *string {
	if jt == nil {
		return nil
	}
	s := strings.ToLower(*jt)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	if s == "" {
		return nil
	}
	return &s
}
