// Package pipeline wires the batch stages: file IO, core algorithms,
// run summaries, and the bookkeeping ledger.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"storelocator/internal/catalog"
	"storelocator/internal/classify"
	"storelocator/internal/config"
	"storelocator/internal/geocode"
	"storelocator/internal/model"
	"storelocator/internal/pivot"
	"storelocator/internal/place"
	"storelocator/internal/publish"
	"storelocator/internal/reconcile"
	"storelocator/internal/review"
	"storelocator/internal/store"
	"storelocator/internal/tabular"
)

// Deps bundles what every stage runner needs. Audit may be nil: the
// ledger is best-effort bookkeeping and never blocks a stage.
type Deps struct {
	Cfg   config.Config
	Log   zerolog.Logger
	Audit *store.Store
}

func (d Deps) catalog() *catalog.Catalog        { return catalog.New(d.Cfg.Catalog) }
func (d Deps) classifier() *classify.Classifier { return classify.New(d.Cfg.Rules) }

func (d Deps) beginRun(ctx context.Context, stage, input string) string {
	if d.Audit == nil {
		return ""
	}
	id, err := d.Audit.BeginRun(ctx, stage, input, time.Now().UTC())
	if err != nil {
		d.Log.Warn().Err(err).Msg("audit begin failed")
		return ""
	}
	return id
}

func (d Deps) finishRun(ctx context.Context, id string, counts map[string]int) {
	if d.Audit == nil || id == "" {
		return
	}
	if err := d.Audit.FinishRun(ctx, id, counts, time.Now().UTC()); err != nil {
		d.Log.Warn().Err(err).Msg("audit finish failed")
	}
}

// RunPivot aggregates a raw point-of-sale export into one row per
// store and writes the pivoted table.
func RunPivot(ctx context.Context, d Deps, inPath, outPath string) (pivot.Summary, error) {
	runID := d.beginRun(ctx, "pivot", inPath)

	items, err := tabular.ReadRawFile(inPath)
	if err != nil {
		return pivot.Summary{}, fmt.Errorf("read raw export: %w", err)
	}
	stores, summary := pivot.Run(items, d.catalog())
	if err := tabular.WriteStoresFile(outPath, stores); err != nil {
		return summary, fmt.Errorf("write pivoted table: %w", err)
	}

	counts := map[string]int{
		"raw_rows":     summary.RawRows,
		"skipped":      summary.Skipped,
		"stores":       summary.Stores,
		"unrecognized": summary.Unrecognized,
	}
	d.finishRun(ctx, runID, counts)
	d.Log.Info().
		Int("raw_rows", summary.RawRows).
		Int("skipped", summary.Skipped).
		Int("stores", summary.Stores).
		Int("unrecognized_items", summary.Unrecognized).
		Str("out", outPath).
		Msg("pivot complete")
	return summary, nil
}

// RunReconcile classifies a pivoted batch against the current and
// original datasets, writes the genuinely-new rows, and writes the
// blocked audit report.
func RunReconcile(ctx context.Context, d Deps, currentPath, originalPath, batchPath, newOutPath, blockedOutPath string) (reconcile.Result, error) {
	runID := d.beginRun(ctx, "reconcile", batchPath)

	current, err := tabular.ReadStoresFile(currentPath)
	if err != nil {
		return reconcile.Result{}, fmt.Errorf("read current dataset: %w", err)
	}
	original, err := tabular.ReadStoresFile(originalPath)
	if err != nil {
		return reconcile.Result{}, fmt.Errorf("read original import: %w", err)
	}
	batch, err := tabular.ReadStoresFile(batchPath)
	if err != nil {
		return reconcile.Result{}, fmt.Errorf("read batch: %w", err)
	}

	res := reconcile.Run(current, original, batch, d.classifier())

	newRecords := make([]model.StoreRecord, 0, len(res.New))
	for _, e := range res.New {
		newRecords = append(newRecords, e.Record)
	}
	if err := tabular.WriteStoresFile(newOutPath, newRecords); err != nil {
		return res, fmt.Errorf("write new stores: %w", err)
	}
	if blockedOutPath != "" {
		f, err := os.Create(blockedOutPath)
		if err != nil {
			return res, fmt.Errorf("write blocked report: %w", err)
		}
		if err := reconcile.WriteBlockedCSV(f, res.Blocked); err != nil {
			f.Close()
			return res, fmt.Errorf("write blocked report: %w", err)
		}
		if err := f.Close(); err != nil {
			return res, err
		}
	}

	if d.Audit != nil && runID != "" {
		if err := d.Audit.RecordClassifications(ctx, runID, res.Classifications(), batch); err != nil {
			d.Log.Warn().Err(err).Msg("audit classifications failed")
		}
	}
	counts := res.Counts()
	d.finishRun(ctx, runID, counts)
	d.Log.Info().
		Int("new", len(res.New)).
		Int("already_present", len(res.AlreadyPresent)).
		Int("blocked", len(res.Blocked)).
		Int("junk", len(res.Junk)).
		Int("duplicates", len(res.Duplicates)).
		Str("out", newOutPath).
		Msg("reconcile complete")
	return res, nil
}

// RunReview scans the current dataset for suspicious rows and writes
// the flat review list.
func RunReview(ctx context.Context, d Deps, currentPath, outPath string) (int, error) {
	runID := d.beginRun(ctx, "review", currentPath)

	records, err := tabular.ReadStoresFile(currentPath)
	if err != nil {
		return 0, fmt.Errorf("read current dataset: %w", err)
	}
	flags := review.Build(records, d.classifier())

	f, err := os.Create(outPath)
	if err != nil {
		return 0, fmt.Errorf("write review list: %w", err)
	}
	if err := review.WriteCSV(f, flags); err != nil {
		f.Close()
		return 0, fmt.Errorf("write review list: %w", err)
	}
	if err := f.Close(); err != nil {
		return 0, err
	}

	d.finishRun(ctx, runID, map[string]int{"rows": len(records), "flagged": len(flags)})
	d.Log.Info().Int("rows", len(records)).Int("flagged", len(flags)).Str("out", outPath).Msg("review complete")
	return len(flags), nil
}

// RunPublish converts the curated dataset into the JSON feed.
func RunPublish(ctx context.Context, d Deps, curatedPath, outPath string) (int, error) {
	runID := d.beginRun(ctx, "publish", curatedPath)

	records, err := tabular.ReadStoresFile(curatedPath)
	if err != nil {
		return 0, fmt.Errorf("read curated dataset: %w", err)
	}
	entries := publish.Build(records, d.catalog())

	missing := 0
	for _, e := range entries {
		if e.Lat == nil || e.Lng == nil {
			missing++
		}
	}
	if missing > 0 {
		d.Log.Warn().Int("missing_coords", missing).Msg("publishing rows without coordinates")
	}

	f, err := os.Create(outPath)
	if err != nil {
		return 0, fmt.Errorf("write feed: %w", err)
	}
	if err := publish.Write(f, entries); err != nil {
		f.Close()
		return 0, fmt.Errorf("write feed: %w", err)
	}
	if err := f.Close(); err != nil {
		return 0, err
	}

	d.finishRun(ctx, runID, map[string]int{"published": len(entries), "missing_coords": missing})
	d.Log.Info().Int("published", len(entries)).Str("out", outPath).Msg("publish complete")
	return len(entries), nil
}

// RunGeocode is the re-entrant coordinate-filling pass over the
// curated dataset. The file is rewritten in place so an aborted run
// can be re-run and will skip already-processed rows.
func RunGeocode(ctx context.Context, d Deps, path string) (geocode.Summary, error) {
	if d.Cfg.GeocoderToken == "" {
		return geocode.Summary{}, errors.New("GEOCODER_TOKEN is required for the geocode stage")
	}
	runID := d.beginRun(ctx, "geocode", path)

	records, err := tabular.ReadStoresFile(path)
	if err != nil {
		return geocode.Summary{}, fmt.Errorf("read dataset: %w", err)
	}
	client := geocode.NewClient(geocode.Config{
		BaseURL: d.Cfg.GeocoderBaseURL,
		Token:   d.Cfg.GeocoderToken,
	}, nil)
	delay := time.Duration(d.Cfg.GeocodeDelayMS) * time.Millisecond

	summary, passErr := geocode.Pass(ctx, client, records, delay, d.Log)

	// Rows geocoded before an abort still get persisted.
	if err := tabular.WriteStoresFile(path, records); err != nil {
		return summary, fmt.Errorf("write dataset: %w", err)
	}
	d.finishRun(ctx, runID, map[string]int{
		"total":     summary.Total,
		"skipped":   summary.Skipped,
		"geocoded":  summary.Geocoded,
		"no_result": summary.NoResult,
		"failed":    summary.Failed,
	})
	d.Log.Info().Str("summary", summary.String()).Str("file", path).Msg("geocode complete")
	return summary, passErr
}

// RunEnrich fills missing phone numbers from the place-lookup service.
// Results run through the same phone normalizer as the pivot; a lookup
// that cannot produce a clean 10-digit number leaves the row unchanged.
func RunEnrich(ctx context.Context, d Deps, path string) (int, error) {
	if d.Cfg.PlaceBaseURL == "" || d.Cfg.PlaceToken == "" {
		return 0, errors.New("PLACE_BASE_URL and PLACE_TOKEN are required for the enrich stage")
	}
	runID := d.beginRun(ctx, "enrich", path)

	records, err := tabular.ReadStoresFile(path)
	if err != nil {
		return 0, fmt.Errorf("read dataset: %w", err)
	}
	client := place.NewClient(place.Config{BaseURL: d.Cfg.PlaceBaseURL, Token: d.Cfg.PlaceToken}, nil)

	filled := 0
	for i := range records {
		if err := ctx.Err(); err != nil {
			break
		}
		rec := &records[i]
		if rec.Phone != "" {
			continue
		}
		match, err := client.Lookup(ctx, rec.Name, rec.Address, rec.City, rec.State)
		if err != nil {
			d.Log.Warn().Int("row", i).Str("store", rec.Name).Err(err).Msg("place lookup failed")
			continue
		}
		if match == nil {
			continue
		}
		if phone := pivot.NormalizePhone(match.Phone); phone != "" {
			rec.Phone = phone
			filled++
		}
	}

	if err := tabular.WriteStoresFile(path, records); err != nil {
		return filled, fmt.Errorf("write dataset: %w", err)
	}
	d.finishRun(ctx, runID, map[string]int{"rows": len(records), "phones_filled": filled})
	d.Log.Info().Int("rows", len(records)).Int("phones_filled", filled).Msg("enrich complete")
	return filled, nil
}
