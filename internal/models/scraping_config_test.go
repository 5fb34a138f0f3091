package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrimarySite(t *testing.T) {
	cfg := &ScrapingConfig{Sites: StringArray{"linkedin", "indeed"}}
	assert.Equal(t, "linkedin", cfg.PrimarySite())

	empty := &ScrapingConfig{}
	assert.Equal(t, "indeed", empty.PrimarySite())
}

func TestUsesIndeed(t *testing.T) {
	assert.True(t, (&ScrapingConfig{Sites: StringArray{"indeed"}}).UsesIndeed())
	assert.True(t, (&ScrapingConfig{Sites: StringArray{"linkedin", "indeed"}}).UsesIndeed())
	assert.False(t, (&ScrapingConfig{Sites: StringArray{"linkedin"}}).UsesIndeed())
	assert.False(t, (&ScrapingConfig{}).UsesIndeed())
}
