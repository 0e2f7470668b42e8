package sheet

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/meltforce/liftplan/internal/models"
)

// PlanWriter persists a parsed plan set, replacing what came before.
// It returns the number of stored day plans.
type PlanWriter interface {
	ReplaceDayPlans(ctx context.Context, days []models.DayPlan) (int, error)
}

// Result summarizes one workbook ingestion.
type Result struct {
	Days     int      `json:"days"`
	Dates    []string `json:"dates"`
	Replaced bool     `json:"replaced"`
}

// Ingestor parses workbooks and stores the resulting day plans.
type Ingestor struct {
	parser *Parser
	writer PlanWriter
	log    *slog.Logger
}

// NewIngestor creates an Ingestor.
func NewIngestor(writer PlanWriter, log *slog.Logger) *Ingestor {
	return &Ingestor{
		parser: NewParser(log),
		writer: writer,
		log:    log,
	}
}

// Ingest parses the workbook in r and replaces the stored plan set with
// its contents. When the workbook holds the same date twice, the block
// parsed last wins.
func (in *Ingestor) Ingest(ctx context.Context, r io.Reader) (*Result, error) {
	days, err := in.parser.Parse(r)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	byDate := map[string]int{}
	deduped := days[:0]
	for _, d := range days {
		d.UploadedAt = now
		if i, seen := byDate[d.Date]; seen {
			deduped[i] = d
			continue
		}
		byDate[d.Date] = len(deduped)
		deduped = append(deduped, d)
	}

	stored, err := in.writer.ReplaceDayPlans(ctx, deduped)
	if err != nil {
		return nil, fmt.Errorf("storing day plans: %w", err)
	}

	res := &Result{Days: stored, Replaced: true}
	for _, d := range deduped {
		res.Dates = append(res.Dates, d.Date)
	}
	in.log.Info("ingested workbook", "days", res.Days)
	return res, nil
}
