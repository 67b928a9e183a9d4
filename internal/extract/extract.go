// Package extract rebuilds the AgRural soybean price table from page markup
// and normalizes it into price records.
package extract

import (
	"errors"
	"log"
	"time"

	"sojaprj/internal/model"
)

type Options struct {
	// FallbackToday dates the records with Now() when the page date is missing.
	FallbackToday bool
	Now           func() time.Time
}

type Result struct {
	Records      []model.PriceRecord
	Date         time.Time // zero when unresolved and no fallback applies
	DateResolved bool
	Columns      ColumnMap
	GridRows     int
}

// Extract runs locate, expand, map and normalize over already-fetched markup.
func Extract(markup string, opts Options) (*Result, error) {
	doc, err := FromHTML(markup)
	if err != nil {
		return nil, err
	}
	return ExtractDocument(doc, opts)
}

func ExtractDocument(doc Node, opts Options) (*Result, error) {
	table, err := LocateTable(doc)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	date, err := ResolveDate(table)
	switch {
	case err == nil:
		res.Date, res.DateResolved = date, true
	case errors.Is(err, ErrDateUnresolved) && opts.FallbackToday:
		now := time.Now
		if opts.Now != nil {
			now = opts.Now
		}
		y, m, d := now().Date()
		res.Date = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		log.Printf("[Extract] data não encontrada, usando data de hoje %s (estimada)", res.Date.Format(model.DateLayout))
	default:
		log.Printf("[Extract] %v", err)
	}

	grid := ExpandTable(table)
	res.GridRows = len(grid)
	if len(grid) == 0 {
		return res, nil
	}

	cm, start := MapColumns(grid)
	res.Columns = cm
	var rows [][]string
	if start < len(grid) {
		rows = grid[start:]
	}
	fallbackDated := !res.DateResolved && !res.Date.IsZero()
	res.Records = NormalizeRows(rows, cm, res.Date, fallbackDated)
	log.Printf("[Extract] %d linhas na grade, %d registros", len(grid), len(res.Records))
	return res, nil
}
