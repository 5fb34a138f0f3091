package scraper

import (
	"time"

	"github.com/jonesrussell/gojobs/internal/models"
)

// RawJob is one listing as returned by the scraping backend. Shapes vary by
// source site, so everything beyond the core fields is optional and list-ish
// fields tolerate both arrays and comma-separated strings.
type RawJob struct {
	ID                   *string           `json:"id"`
	Title                string            `json:"title"`
	CompanyName          string            `json:"company"`
	CompanyURL           *string           `json:"company_url"`
	JobURL               string            `json:"job_url"`
	JobURLDirect         *string           `json:"job_url_direct"`
	Location             *string           `json:"location"`
	Description          *string           `json:"description"`
	JobType              *string           `json:"job_type"`
	MinAmount            *float64          `json:"min_amount"`
	MaxAmount            *float64          `json:"max_amount"`
	Currency             *string           `json:"currency"`
	Interval             *string           `json:"interval"`
	DatePosted           *string           `json:"date_posted"`
	Emails               models.StringList `json:"emails"`
	IsRemote             *bool             `json:"is_remote"`
	ListingType          *string           `json:"listing_type"`
	JobLevel             *string           `json:"job_level"`
	CompanyIndustry      *string           `json:"company_industry"`
	CompanyAddresses     *string           `json:"company_addresses"`
	CompanyNumEmployees  *string           `json:"company_num_employees"`
	CompanyRevenue       *string           `json:"company_revenue"`
	CompanyDescription   *string           `json:"company_description"`
	CompanyLogo          *string           `json:"company_logo"`
	BannerPhotoURL       *string           `json:"banner_photo_url"`
	JobFunction          *string           `json:"job_function"`
	Skills               models.StringList `json:"skills"`
	ExperienceRange      *string           `json:"experience_range"`
	CompanyRating        *float64          `json:"company_rating"`
	CompanyReviewsCount  *int              `json:"company_reviews_count"`
	VacancyCount         *int              `json:"vacancy_count"`
	WorkFromHomeType     *string           `json:"work_from_home_type"`
	Site                 *string           `json:"site"`
	SalarySource         *string           `json:"salary_source"`
}

// MapJob converts a raw listing into the canonical Job shape for the given
// config. Fields absent from a site's payload stay nil rather than getting
// misleading defaults; only currency ("USD"), scraping_config_id and site are
// always set.
func MapJob(configID, fallbackSite string, raw RawJob) models.Job {
	job := models.Job{
		ScrapingConfigID:     configID,
		JobID:                raw.ID,
		Title:                raw.Title,
		CompanyName:          raw.CompanyName,
		CompanyURL:           raw.CompanyURL,
		JobURL:               raw.JobURL,
		JobURLDirect:         raw.JobURLDirect,
		Location:             raw.Location,
		Description:          raw.Description,
		JobType:              raw.JobType,
		CompensationMin:      raw.MinAmount,
		CompensationMax:      raw.MaxAmount,
		CompensationCurrency: "USD",
		CompensationInterval: raw.Interval,
		DatePosted:           raw.DatePosted,
		Emails:               raw.Emails,
		IsRemote:             raw.IsRemote,
		ListingType:          raw.ListingType,
		JobLevel:             raw.JobLevel,
		CompanyIndustry:      raw.CompanyIndustry,
		CompanyAddresses:     raw.CompanyAddresses,
		CompanyNumEmployees:  raw.CompanyNumEmployees,
		CompanyRevenue:       raw.CompanyRevenue,
		CompanyDescription:   raw.CompanyDescription,
		CompanyLogo:          raw.CompanyLogo,
		BannerPhotoURL:       raw.BannerPhotoURL,
		JobFunction:          raw.JobFunction,
		Skills:               raw.Skills,
		ExperienceRange:      raw.ExperienceRange,
		CompanyRating:        raw.CompanyRating,
		CompanyReviewsCount:  raw.CompanyReviewsCount,
		VacancyCount:         raw.VacancyCount,
		WorkFromHomeType:     raw.WorkFromHomeType,
		SalarySource:         raw.SalarySource,
		Site:                 fallbackSite,
		ScrapedAt:            time.Now().UTC(),
	}

	if raw.Currency != nil && *raw.Currency != "" {
		job.CompensationCurrency = *raw.Currency
	}
	if raw.Site != nil && *raw.Site != "" {
		job.Site = *raw.Site
	}

	return job
}

// MapJobs converts a full scrape result batch.
func MapJobs(configID, fallbackSite string, raws []RawJob) []models.Job {
	jobs := make([]models.Job, 0, len(raws))
	for _, raw := range raws {
		jobs = append(jobs, MapJob(configID, fallbackSite, raw))
	}
	return jobs
}
