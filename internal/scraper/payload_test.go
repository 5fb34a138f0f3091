package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/gojobs/internal/models"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func baseConfig() *models.ScrapingConfig {
	return &models.ScrapingConfig{
		ID:            "cfg-1",
		Name:          "Go jobs",
		SearchTerm:    "golang developer",
		Location:      "Toronto, ON",
		Sites:         models.StringArray{"linkedin"},
		ResultsWanted: 25,
	}
}

func TestNormalize_Defaults(t *testing.T) {
	cfg := baseConfig()
	cfg.ResultsWanted = 0
	cfg.Sites = nil

	req, err := Normalize(cfg)
	require.NoError(t, err)

	assert.Equal(t, "indeed", req.SiteName)
	assert.Equal(t, 15, req.ResultsWanted)
	assert.Equal(t, "usa", req.CountryIndeed)
	assert.Equal(t, "markdown", req.DescriptionFormat)
	assert.Equal(t, 0, req.Offset)
}

func TestNormalize_CountryCanonicalization(t *testing.T) {
	tests := []struct {
		name    string
		country *string
		want    string
	}{
		{"us maps to usa", strPtr("US"), "usa"},
		{"united states maps to usa", strPtr("United States"), "usa"},
		{"usa stays usa", strPtr("usa"), "usa"},
		{"other countries lower-cased", strPtr("Canada"), "canada"},
		{"unset defaults to usa for non-indeed", nil, "usa"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			cfg.CountryIndeed = tt.country

			req, err := Normalize(cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, req.CountryIndeed)
		})
	}
}

func TestNormalize_IndeedRequiresCountry(t *testing.T) {
	cfg := baseConfig()
	cfg.Sites = models.StringArray{"indeed"}
	cfg.CountryIndeed = nil

	_, err := Normalize(cfg)
	require.ErrorIs(t, err, ErrCountryRequired)

	cfg.CountryIndeed = strPtr("  ")
	_, err = Normalize(cfg)
	require.ErrorIs(t, err, ErrCountryRequired)
}

func TestNormalize_RemoteSuppressesLocationAndDistance(t *testing.T) {
	cfg := baseConfig()
	cfg.IsRemote = true
	cfg.Location = "NYC"
	cfg.Distance = intPtr(25)

	req, err := Normalize(cfg)
	require.NoError(t, err)

	assert.True(t, req.IsRemote)
	assert.Nil(t, req.Location)
	assert.Nil(t, req.Distance)
}

func TestNormalize_OnSiteKeepsLocationAndDistance(t *testing.T) {
	cfg := baseConfig()
	cfg.Distance = intPtr(50)

	req, err := Normalize(cfg)
	require.NoError(t, err)

	require.NotNil(t, req.Location)
	assert.Equal(t, "Toronto, ON", *req.Location)
	require.NotNil(t, req.Distance)
	assert.Equal(t, 50, *req.Distance)
}

func TestNormalize_JobTypeCompacted(t *testing.T) {
	tests := []struct {
		name    string
		jobType *string
		want    *string
	}{
		{"full time", strPtr("Full Time"), strPtr("fulltime")},
		{"part-time", strPtr("Part-Time"), strPtr("parttime")},
		{"already compact", strPtr("contract"), strPtr("contract")},
		{"nil passes through", nil, nil},
		{"blank maps to nil", strPtr("  - "), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			cfg.JobType = tt.jobType

			req, err := Normalize(cfg)
			require.NoError(t, err)
			if tt.want == nil {
				assert.Nil(t, req.JobType)
				return
			}
			require.NotNil(t, req.JobType)
			assert.Equal(t, *tt.want, *req.JobType)
		})
	}
}

func TestNormalize_OptionalPassthrough(t *testing.T) {
	cfg := baseConfig()
	cfg.HoursOld = intPtr(72)
	cfg.PageOffset = intPtr(30)
	cfg.EasyApply = true
	cfg.LinkedinCompanyIDs = models.StringArray{"1441", "1035"}
	cfg.GoogleSearchTerm = strPtr("golang jobs toronto")

	req, err := Normalize(cfg)
	require.NoError(t, err)

	require.NotNil(t, req.HoursOld)
	assert.Equal(t, 72, *req.HoursOld)
	assert.Equal(t, 30, req.Offset)
	require.NotNil(t, req.EasyApply)
	assert.True(t, *req.EasyApply)
	assert.Equal(t, []string{"1441", "1035"}, req.LinkedinCompanyIDs)
	require.NotNil(t, req.GoogleSearchTerm)
}
