package geocode

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"storelocator/internal/model"
)

// Summary reports what one geocoding pass did.
type Summary struct {
	Total    int
	Skipped  int
	Geocoded int
	NoResult int
	Failed   int
}

// Pass fills coordinates in place, one synchronous request per row with
// a fixed inter-request delay to respect the upstream rate limit.
//
// The pass is a re-entrant idempotent sweep: rows that already carry a
// coordinate pair or the "normalized" marker are skipped, so an aborted
// run can simply be re-run. Failures and no-results are logged per row
// and the pass continues; there is no retry or backoff.
func Pass(ctx context.Context, client *Client, records []model.StoreRecord, delay time.Duration, log zerolog.Logger) (Summary, error) {
	summary := Summary{Total: len(records)}
	for i := range records {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		rec := &records[i]
		if rec.HasCoords() || rec.Normalized {
			summary.Skipped++
			continue
		}

		result, err := client.Forward(ctx, Query(*rec))
		if err != nil {
			summary.Failed++
			log.Warn().Int("row", i).Str("store", rec.Name).Err(err).Msg("geocode failed")
		} else if result == nil {
			summary.NoResult++
			log.Warn().Int("row", i).Str("store", rec.Name).Msg("geocode returned no result")
		} else {
			lat, lng := result.Lat, result.Lng
			rec.Lat = &lat
			rec.Lng = &lng
			apply(rec, result)
			summary.Geocoded++
		}

		if delay > 0 && i < len(records)-1 {
			select {
			case <-ctx.Done():
				return summary, ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return summary, nil
}

// Query builds the free-text forward-geocode query for a record.
func Query(rec model.StoreRecord) string {
	parts := make([]string, 0, 3)
	if s := strings.TrimSpace(rec.Address); s != "" {
		parts = append(parts, s)
	}
	if s := strings.TrimSpace(rec.City); s != "" {
		parts = append(parts, s)
	}
	region := strings.TrimSpace(strings.TrimSpace(rec.State) + " " + strings.TrimSpace(rec.Zip))
	if region != "" {
		parts = append(parts, region)
	}
	return strings.Join(parts, ", ")
}

// apply overwrites address fields with the service's structured match
// and sets the normalized marker. Empty result fields leave the
// original values alone.
func apply(rec *model.StoreRecord, result *Result) {
	if result.Street != "" {
		rec.Address = result.Street
	}
	if result.City != "" {
		rec.City = result.City
	}
	if result.State != "" {
		rec.State = result.State
	}
	if result.Zip != "" {
		rec.Zip = result.Zip
	}
	rec.Normalized = true
}

// String renders the one-line human summary for the stage report.
func (s Summary) String() string {
	return fmt.Sprintf("total=%d skipped=%d geocoded=%d no_result=%d failed=%d",
		s.Total, s.Skipped, s.Geocoded, s.NoResult, s.Failed)
}
