// Package pipeline decides what a run does with the extracted records: write
// them to a file, merge them into the store, or nothing at all.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"sojaprj/internal/model"
	"sojaprj/internal/repository"
)

// ErrSinkUnavailable wraps every failure of the store or the exporter.
var ErrSinkUnavailable = errors.New("destino indisponível")

type Outcome string

const (
	OutcomeWritten Outcome = "written"
	OutcomeNoop    Outcome = "noop"
	OutcomeDryRun  Outcome = "dry_run"
)

type Store interface {
	MaxDate(ctx context.Context) (time.Time, bool, error)
	ApplyDiff(ctx context.Context, records []model.PriceRecord) (model.Counts, error)
	ListByDate(ctx context.Context, date time.Time) ([]model.StoredPrice, error)
}

type Exporter interface {
	Write(records []model.PriceRecord) error
}

type Report struct {
	Outcome Outcome
	Reason  string
	Date    time.Time
	Counts  model.Counts
}

func (r Report) String() string {
	if r.Outcome == OutcomeNoop {
		return "nada a fazer: " + r.Reason
	}
	prefix := ""
	if r.Outcome == OutcomeDryRun {
		prefix = "(simulação) "
	}
	return fmt.Sprintf("%s%s: %d inseridas, %d atualizadas, %d inalteradas",
		prefix, r.Date.Format(model.DateLayout), r.Counts.Inserted, r.Counts.Updated, r.Counts.Unchanged)
}

func noop(reason string) Report {
	return Report{Outcome: OutcomeNoop, Reason: reason}
}

// Export writes every record through the exporter. An empty batch writes nothing.
func Export(w Exporter, records []model.PriceRecord) (Report, error) {
	if len(records) == 0 {
		return noop("nenhuma linha capturada"), nil
	}
	if err := w.Write(records); err != nil {
		return Report{}, fmt.Errorf("%w: %v", ErrSinkUnavailable, err)
	}
	return Report{Outcome: OutcomeWritten, Date: records[0].Date, Counts: model.Counts{Inserted: len(records)}}, nil
}

// Sync merges the batch into the store when its date is newer than anything
// stored. A dry run only reports what the merge would do.
func Sync(ctx context.Context, store Store, records []model.PriceRecord, dryRun bool) (Report, error) {
	if len(records) == 0 {
		return noop("nenhuma linha capturada"), nil
	}

	date := records[0].Date
	if date.IsZero() {
		return noop("data da tabela não resolvida"), nil
	}

	maxDate, ok, err := store.MaxDate(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("%w: data máxima: %v", ErrSinkUnavailable, err)
	}
	if ok && !date.After(maxDate) {
		log.Printf("[Sync] data %s não é mais nova que a do banco (%s)",
			date.Format(model.DateLayout), maxDate.Format(model.DateLayout))
		return noop("dados de " + date.Format(model.DateLayout) + " já carregados"), nil
	}

	if dryRun {
		stored, err := store.ListByDate(ctx, date)
		if err != nil {
			return Report{}, fmt.Errorf("%w: leitura: %v", ErrSinkUnavailable, err)
		}
		return Report{Outcome: OutcomeDryRun, Date: date, Counts: repository.Plan(stored, records)}, nil
	}

	counts, err := store.ApplyDiff(ctx, records)
	if err != nil {
		return Report{}, fmt.Errorf("%w: merge: %v", ErrSinkUnavailable, err)
	}
	return Report{Outcome: OutcomeWritten, Date: date, Counts: counts}, nil
}
