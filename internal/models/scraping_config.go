// Package models defines the persistent entities of the job board:
// scraping configurations, scraping runs, scraped jobs, and ATS scores.
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// ScrapingConfig is a stored scraping intent: which site to scrape, what to
// search for, and the site-specific toggles forwarded to the scraping backend.
type ScrapingConfig struct {
	ID                       string      `json:"id" db:"id"`
	Name                     string      `json:"name" db:"name" binding:"required"`
	SearchTerm               string      `json:"search_term" db:"search_term" binding:"required"`
	Location                 string      `json:"location" db:"location" binding:"required"`
	Sites                    StringArray `json:"sites" db:"sites" binding:"required"`
	ResultsWanted            int         `json:"results_wanted" db:"results_wanted" binding:"required"`
	HoursOld                 *int        `json:"hours_old,omitempty" db:"hours_old"`
	IsRemote                 bool        `json:"is_remote" db:"is_remote"`
	JobType                  *string     `json:"job_type,omitempty" db:"job_type"`
	CountryIndeed            *string     `json:"country_indeed,omitempty" db:"country_indeed"`
	GoogleSearchTerm         *string     `json:"google_search_term,omitempty" db:"google_search_term"`
	Distance                 *int        `json:"distance,omitempty" db:"distance"`
	EasyApply                bool        `json:"easy_apply" db:"easy_apply"`
	LinkedinFetchDescription bool        `json:"linkedin_fetch_description" db:"linkedin_fetch_description"`
	LinkedinCompanyIDs       StringArray `json:"linkedin_company_ids,omitempty" db:"linkedin_company_ids"`
	EnforceAnnualSalary      bool        `json:"enforce_annual_salary" db:"enforce_annual_salary"`
	DescriptionFormat        string      `json:"description_format" db:"description_format"`
	PageOffset               *int        `json:"page_offset,omitempty" db:"page_offset"`
	LogLevel                 int         `json:"log_level" db:"log_level"`
	IsActive                 bool        `json:"is_active" db:"is_active"`
	CreatedAt                time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt                time.Time   `json:"updated_at" db:"updated_at"`
}

// PrimarySite returns the first configured site, or "indeed" when the list is
// empty. The implicit default mirrors the original admin UI behaviour; callers
// that care should log it rather than fail.
func (c *ScrapingConfig) PrimarySite() string {
	if len(c.Sites) > 0 {
		return c.Sites[0]
	}
	return "indeed"
}

// UsesIndeed reports whether "indeed" is among the configured sites, which
// makes country_indeed mandatory before a scrape can run.
func (c *ScrapingConfig) UsesIndeed() bool {
	for _, s := range c.Sites {
		if s == "indeed" {
			return true
		}
	}
	return false
}

// StringArray is a JSONB-backed string slice column.
type StringArray []string

// Value implements driver.Valuer. Empty slices store as SQL NULL.
func (a StringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return nil, nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner.
func (a *StringArray) Scan(value any) error {
	if value == nil {
		*a = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		*a = nil
		return nil
	}
	return json.Unmarshal(bytes, a)
}
