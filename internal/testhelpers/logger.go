package testhelpers

import (
	"github.com/jonesrussell/gojobs/internal/logger"
)

// NewTestLogger returns a logger that discards output.
func NewTestLogger() logger.Logger {
	return logger.NewNop()
}
