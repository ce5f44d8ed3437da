// Package timesync supplies wall-clock time for the clock face, with a
// best-effort correction learned from a time sensor.
package timesync

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.viam.com/rdk/logging"
)

// ReadingsSource is the one-method slice of sensor.Sensor the source
// needs: a readings map carrying "epoch_seconds".
type ReadingsSource interface {
	Readings(ctx context.Context, extra map[string]interface{}) (map[string]interface{}, error)
}

// WallClock yields the current wall-clock time.
type WallClock interface {
	Now() time.Time
}

// Source derives wall-clock time from the local clock, a fixed UTC
// offset, and an optional sensor-learned correction. Sync failures
// leave it on local time; they never block startup.
type Source struct {
	clk    clock.Clock
	loc    *time.Location
	logger logging.Logger

	// correction in nanoseconds, atomic so the render loop can read it
	// while a reconfigure re-syncs.
	correction atomic.Int64
}

// New returns a Source in the fixed zone utcOffsetHours.
func New(clk clock.Clock, utcOffsetHours int, logger logging.Logger) *Source {
	loc := time.UTC
	if utcOffsetHours != 0 {
		loc = time.FixedZone(fmt.Sprintf("UTC%+d", utcOffsetHours), utcOffsetHours*3600)
	}
	return &Source{clk: clk, loc: loc, logger: logger}
}

// Now returns local clock time plus the learned correction, in the
// configured zone.
func (s *Source) Now() time.Time {
	return s.clk.Now().Add(time.Duration(s.correction.Load())).In(s.loc)
}

// SyncFromSensor reads "epoch_seconds" from src and records the delta
// to the local clock. Any failure is logged and leaves the previous
// correction in place.
func (s *Source) SyncFromSensor(ctx context.Context, src ReadingsSource) {
	readings, err := src.Readings(ctx, nil)
	if err != nil {
		s.logger.Warnw("time sync failed, staying on local time", "error", err)
		return
	}
	epoch, err := epochSeconds(readings)
	if err != nil {
		s.logger.Warnw("time sync failed, staying on local time", "error", err)
		return
	}
	correction := time.Unix(epoch, 0).Sub(s.clk.Now())
	s.correction.Store(int64(correction))
	s.logger.Infow("time synchronized", "correction", correction.String())
}

func epochSeconds(readings map[string]interface{}) (int64, error) {
	raw, ok := readings["epoch_seconds"]
	if !ok {
		return 0, errors.New(`no "epoch_seconds" reading`)
	}
	switch v := raw.(type) {
	case float64:
		return int64(v), nil
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	default:
		return 0, errors.Errorf(`"epoch_seconds" has unexpected type %T`, raw)
	}
}
