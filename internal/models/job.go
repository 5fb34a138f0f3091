package models

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
	"time"
)

// Job is one canonical scraped listing. Rows are deduplicated on the external
// job_id when the source site provides one; rows without a job_id always
// insert as new (a documented limitation of the source data).
type Job struct {
	ID                   string     `json:"id" db:"id"`
	ScrapingConfigID     string     `json:"scraping_config_id" db:"scraping_config_id"`
	JobID                *string    `json:"job_id,omitempty" db:"job_id"`
	Title                string     `json:"title" db:"title"`
	CompanyName          string     `json:"company_name" db:"company_name"`
	CompanyURL           *string    `json:"company_url,omitempty" db:"company_url"`
	JobURL               string     `json:"job_url" db:"job_url"`
	JobURLDirect         *string    `json:"job_url_direct,omitempty" db:"job_url_direct"`
	Location             *string    `json:"location,omitempty" db:"location"`
	Description          *string    `json:"description,omitempty" db:"description"`
	JobType              *string    `json:"job_type,omitempty" db:"job_type"`
	CompensationMin      *float64   `json:"compensation_min,omitempty" db:"compensation_min"`
	CompensationMax      *float64   `json:"compensation_max,omitempty" db:"compensation_max"`
	CompensationCurrency string     `json:"compensation_currency" db:"compensation_currency"`
	CompensationInterval *string    `json:"compensation_interval,omitempty" db:"compensation_interval"`
	DatePosted           *string    `json:"date_posted,omitempty" db:"date_posted"`
	Emails               StringList `json:"emails,omitempty" db:"emails"`
	IsRemote             *bool      `json:"is_remote,omitempty" db:"is_remote"`
	ListingType          *string    `json:"listing_type,omitempty" db:"listing_type"`
	JobLevel             *string    `json:"job_level,omitempty" db:"job_level"`
	CompanyIndustry      *string    `json:"company_industry,omitempty" db:"company_industry"`
	CompanyAddresses     *string    `json:"company_addresses,omitempty" db:"company_addresses"`
	CompanyNumEmployees  *string    `json:"company_num_employees,omitempty" db:"company_num_employees"`
	CompanyRevenue       *string    `json:"company_revenue,omitempty" db:"company_revenue"`
	CompanyDescription   *string    `json:"company_description,omitempty" db:"company_description"`
	CompanyLogo          *string    `json:"company_logo,omitempty" db:"company_logo"`
	BannerPhotoURL       *string    `json:"banner_photo_url,omitempty" db:"banner_photo_url"`
	JobFunction          *string    `json:"job_function,omitempty" db:"job_function"`
	Skills               StringList `json:"skills,omitempty" db:"skills"`
	ExperienceRange      *string    `json:"experience_range,omitempty" db:"experience_range"`
	CompanyRating        *float64   `json:"company_rating,omitempty" db:"company_rating"`
	CompanyReviewsCount  *int       `json:"company_reviews_count,omitempty" db:"company_reviews_count"`
	VacancyCount         *int       `json:"vacancy_count,omitempty" db:"vacancy_count"`
	WorkFromHomeType     *string    `json:"work_from_home_type,omitempty" db:"work_from_home_type"`
	Site                 string     `json:"site" db:"site"`
	SalarySource         *string    `json:"salary_source,omitempty" db:"salary_source"`
	ScrapedAt            time.Time  `json:"scraped_at" db:"scraped_at"`
	CreatedAt            time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at" db:"updated_at"`
}

// StringList is a string slice that tolerates the heterogeneous shapes site
// scrapers emit for list-ish fields (emails, skills): a JSON array, or a
// comma-separated string. Any other shape decodes to nil rather than erroring.
type StringList []string

// UnmarshalJSON accepts a JSON array of strings or a comma-separated string.
// Tokens are trimmed and empty tokens dropped.
func (l *StringList) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*l = trimTokens(arr)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*l = trimTokens(strings.Split(s, ","))
		return nil
	}

	// Heterogeneous scraper output is expected; anything else maps to null.
	*l = nil
	return nil
}

// Value implements driver.Valuer. Empty lists store as SQL NULL.
func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return nil, nil
	}
	return json.Marshal([]string(l))
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(value any) error {
	if value == nil {
		*l = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		*l = nil
		return nil
	}
	var arr []string
	if err := json.Unmarshal(bytes, &arr); err != nil {
		return err
	}
	*l = arr
	return nil
}

func trimTokens(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// JobStats aggregates ingested jobs for one scraping config.
type JobStats struct {
	TotalJobs  int            `json:"total_jobs"`
	JobsBySite map[string]int `json:"jobs_by_site"`
	LatestRun  *ScrapingRun   `json:"latest_run"`
}

// JobFilter holds pagination and search params for candidate discovery.
type JobFilter struct {
	Search string // ILIKE on title, company_name, description
	Site   string
	Remote *bool
	Limit  int
	Offset int
}
