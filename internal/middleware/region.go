package middleware

import (
	"strings"

	"github.com/bilgisen/finsmart/internal/location"
	"github.com/bilgisen/finsmart/internal/models"
	"github.com/gofiber/fiber/v2"
)

const (
	// TimeZoneHeader carries the reader's IANA time zone
	TimeZoneHeader = "X-Timezone"
	// SessionHeader carries the reader's session id
	SessionHeader = "X-Session-ID"

	regionKey = "region"
)

// Region stores the reader's region for RegionFrom. A time zone sent in
// the X-Timezone header wins. Otherwise the server's detected location is
// used, which is Global while detection is still running.
func Region(detector *location.Detector) fiber.Handler {
	return func(c *fiber.Ctx) error {
		region := models.RegionGlobal
		if tz := strings.TrimSpace(c.Get(TimeZoneHeader)); tz != "" {
			region = location.RegionFor(tz)
		} else if detector != nil {
			if state := detector.State(); !state.IsLocating {
				region = state.Region
			}
		}
		c.Locals(regionKey, region)
		return c.Next()
	}
}

// RegionFrom returns the region stored by Region, or Global
func RegionFrom(c *fiber.Ctx) models.Region {
	if r, ok := c.Locals(regionKey).(models.Region); ok && r != "" {
		return r
	}
	return models.RegionGlobal
}
