// Package location infers a coarse region from the runtime time zone.
// Detection is time-zone based only; no network lookup is made.
package location

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bilgisen/finsmart/internal/logger"
	"github.com/bilgisen/finsmart/internal/models"
)

// ErrUnknownTimeZone is returned by a TimeZoneSource that can't name the zone
var ErrUnknownTimeZone = errors.New("time zone not available")

// checked in order, first match wins
var regionTable = []struct {
	keyword string
	region  models.Region
}{
	{"America", models.RegionNorthAmerica},
	{"Europe", models.RegionEurope},
	{"Asia", models.RegionAsia},
	{"Africa", models.RegionAfrica},
	{"Australia", models.RegionAustralia},
}

// RegionFor maps an IANA time-zone identifier to a region
func RegionFor(timeZone string) models.Region {
	for _, row := range regionTable {
		if strings.Contains(timeZone, row.keyword) {
			return row.region
		}
	}
	return models.RegionGlobal
}

// TimeZoneSource reports the runtime's IANA time-zone identifier
type TimeZoneSource func() (string, error)

// SystemTimeZone reads the zone from $TZ, the local zone name, or the
// /etc/localtime symlink, in that order.
func SystemTimeZone() (string, error) {
	if tz := strings.TrimPrefix(os.Getenv("TZ"), ":"); tz != "" {
		return tz, nil
	}
	if name := time.Local.String(); name != "" && name != "Local" {
		return name, nil
	}
	target, err := os.Readlink("/etc/localtime")
	if err != nil {
		return "", ErrUnknownTimeZone
	}
	if i := strings.Index(target, "zoneinfo/"); i >= 0 {
		return target[i+len("zoneinfo/"):], nil
	}
	return filepath.Base(target), nil
}

// Detect builds a completed LocationState from the source. Any failure
// yields Global/UTC.
func Detect(source TimeZoneSource) models.LocationState {
	fallback := models.LocationState{Region: models.RegionGlobal, TimeZone: models.DefaultTimeZone}
	if source == nil {
		return fallback
	}

	tz, err := source()
	tz = strings.TrimSpace(tz)
	if err != nil || tz == "" {
		log := logger.With("location")
		log.Warn().Err(err).Msg("Location detection failed, using Global")
		return fallback
	}
	return models.LocationState{Region: RegionFor(tz), TimeZone: tz}
}

// Detector runs Detect once in the background. Until it finishes, State
// reports IsLocating with the Global/UTC defaults. The state is written
// exactly once and is read-only afterwards.
type Detector struct {
	source TimeZoneSource
	start  sync.Once
	done   chan struct{}

	mu    sync.RWMutex
	state models.LocationState
}

// NewDetector creates a detector for source; detection starts on Start
func NewDetector(source TimeZoneSource) *Detector {
	return &Detector{
		source: source,
		done:   make(chan struct{}),
		state: models.LocationState{
			Region:     models.RegionGlobal,
			TimeZone:   models.DefaultTimeZone,
			IsLocating: true,
		},
	}
}

// Start launches detection. Further calls are no-ops.
func (d *Detector) Start() {
	d.start.Do(func() {
		go func() {
			state := Detect(d.source)
			d.mu.Lock()
			d.state = state
			d.mu.Unlock()
			close(d.done)
		}()
	})
}

// State returns the current location state
func (d *Detector) State() models.LocationState {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state
}

// Wait blocks until detection has finished or ctx is done
func (d *Detector) Wait(ctx context.Context) (models.LocationState, error) {
	select {
	case <-d.done:
		return d.State(), nil
	case <-ctx.Done():
		return d.State(), ctx.Err()
	}
}
