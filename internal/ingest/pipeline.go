package ingest

import (
	"context"
	"io"

	"inmoscan/internal/db"
	"inmoscan/internal/pkg/catastro"
	"inmoscan/internal/pkg/spreadsheet"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Pipeline replaces the auction dataset with the enriched rows of one
// spreadsheet. Rows are processed one at a time; a failing row never stops
// the run.
type Pipeline struct {
	store    db.AuctionStore
	enricher catastro.Enricher
	log      zerolog.Logger
}

func NewPipeline(store db.AuctionStore, enricher catastro.Enricher, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		store:    store,
		enricher: enricher,
		log:      log.With().Str("component", "ingest").Logger(),
	}
}

// IngestFile parses r as the spreadsheet called name and ingests it.
// Only parse errors are returned.
func (p *Pipeline) IngestFile(ctx context.Context, name string, r io.Reader) (*Summary, error) {
	sheet, err := spreadsheet.Read(name, r)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", name)
	}
	p.log.Info().Str("file", name).Int("rows", len(sheet.Rows)).Msg("spreadsheet parsed")

	return p.Ingest(ctx, name, sheet), nil
}

// Ingest deletes the current dataset and inserts every enrichable row of
// sheet. The dataset is not locked in between: readers may observe it empty
// or partially filled.
func (p *Pipeline) Ingest(ctx context.Context, name string, sheet *spreadsheet.Sheet) *Summary {
	summary := &Summary{
		RunID:          uuid.NewString(),
		File:           name,
		RowsTotal:      len(sheet.Rows),
		MissingColumns: MissingColumns(sheet),
	}
	log := p.log.With().Str("run_id", summary.RunID).Str("file", name).Logger()

	if len(summary.MissingColumns) > 0 {
		log.Warn().Strs("columns", summary.MissingColumns).Msg("spreadsheet is missing columns, using empty values")
	}

	if err := p.store.DeleteAll(ctx); err != nil {
		log.Error().Stack().Err(err).Msg("failed to delete existing data, continuing")
	} else {
		log.Info().Msg("deleted existing data")
	}

	for _, row := range sheet.Rows {
		outcome := p.processRow(ctx, log, row)
		summary.record(outcome)
	}

	log.Info().
		Int("rows_total", summary.RowsTotal).
		Int("rows_processed", summary.RowsProcessed).
		Int("rows_skipped", summary.RowsSkipped).
		Int("rows_failed", summary.RowsFailed).
		Msg("file processed")

	return summary
}

func (p *Pipeline) processRow(ctx context.Context, log zerolog.Logger, row spreadsheet.Row) (outcome RowOutcome) {
	log = log.With().Int("row", row.Index).Logger()
	reference := ""

	defer func() {
		if r := recover(); r != nil {
			err := errors.Errorf("panic: %v", r)
			log.Error().Stack().Err(err).Str("reference", reference).Msg("error processing row")
			outcome = failed(row.Index, reference, err)
		}
	}()

	if err := ctx.Err(); err != nil {
		log.Warn().Err(err).Msg("run cancelled, row not processed")
		return failed(row.Index, "", err)
	}

	parsed := ParseRow(row)
	reference = parsed.CadastralReference
	if reference == "" {
		log.Info().Msg("skipping row: no catastral reference")
		return skipped(row.Index, "no catastral reference")
	}

	record := p.enricher.Fetch(ctx, reference)
	auction := parsed.Auction(record)

	if err := p.store.Insert(ctx, &auction); err != nil {
		log.Error().Stack().Err(err).Str("reference", reference).Msg("error processing row")
		return failed(row.Index, reference, err)
	}

	log.Debug().Str("reference", reference).Msg("row inserted")
	return inserted(row.Index, reference)
}
