package helpers

import (
	"strings"
	"time"

	"github.com/yigit/studentrecords/internal/pkg/logger"
)

// ParseDuration parses a duration string, returns defaultDuration on error.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	duration, err := time.ParseDuration(strings.TrimSpace(durationStr))
	if err != nil {
		logger.Warn().Err(err).Str("durationStr", durationStr).Dur("defaultDuration", defaultDuration).Msg("Failed to parse duration string, using default")
		return defaultDuration
	}
	return duration
}
