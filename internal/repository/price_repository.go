package repository

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"sojaprj/internal/model"
)

const createStagingPostgres = `
CREATE TEMP TABLE stg_preco_soja (
	data    date          NOT NULL,
	uf      char(2)       NOT NULL,
	praca   varchar(120)  NOT NULL,
	compra  numeric(10,2) NOT NULL,
	var_dia numeric(6,2),
	var_sem numeric(6,2),
	var_mes numeric(6,2),
	fonte   varchar(100)  NOT NULL,
	PRIMARY KEY (data, uf, praca)
) ON COMMIT DROP`

// PriceRepository grava cotações no Postgres.
type PriceRepository struct {
	DB        *pgxpool.Pool
	SourceTag string
}

// MaxDate returns the latest stored date; ok is false when the table is
// missing or empty.
func (r *PriceRepository) MaxDate(ctx context.Context) (time.Time, bool, error) {
	var exists bool
	if err := r.DB.QueryRow(ctx, `SELECT to_regclass('preco_soja') IS NOT NULL`).Scan(&exists); err != nil {
		return time.Time{}, false, err
	}
	if !exists {
		return time.Time{}, false, nil
	}

	var d pgtype.Date
	if err := r.DB.QueryRow(ctx, `SELECT MAX(data) FROM preco_soja`).Scan(&d); err != nil {
		return time.Time{}, false, err
	}
	if !d.Valid {
		return time.Time{}, false, nil
	}
	return d.Time, true, nil
}

// ApplyDiff stages the batch with COPY and merges it in one transaction:
// changed rows are updated, new keys inserted, identical rows left alone.
func (r *PriceRepository) ApplyDiff(ctx context.Context, records []model.PriceRecord) (model.Counts, error) {
	var counts model.Counts
	if len(records) == 0 {
		return counts, nil
	}

	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return counts, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, createStagingPostgres); err != nil {
		return counts, fmt.Errorf("failed to create staging table: %w", err)
	}

	rows := make([][]any, 0, len(records))
	for _, rec := range records {
		s := stage(rec, r.SourceTag)
		rows = append(rows, []any{
			s.date, s.uf, s.praca, s.compra.InexactFloat64(),
			floatOrNil(s.varDia), floatOrNil(s.varSem), floatOrNil(s.varMes), s.fonte,
		})
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{stagingTable}, stagingColumns, pgx.CopyFromRows(rows)); err != nil {
		return counts, fmt.Errorf("failed to stage rows: %w", err)
	}

	tag, err := tx.Exec(ctx, updateChangedSQL)
	if err != nil {
		return counts, fmt.Errorf("failed to update changed rows: %w", err)
	}
	counts.Updated = int(tag.RowsAffected())

	tag, err = tx.Exec(ctx, insertNewSQL)
	if err != nil {
		return counts, fmt.Errorf("failed to insert new rows: %w", err)
	}
	counts.Inserted = int(tag.RowsAffected())
	counts.Unchanged = len(records) - counts.Inserted - counts.Updated

	if err := tx.Commit(ctx); err != nil {
		return model.Counts{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("[Repository] merge concluído: %d inseridas, %d atualizadas, %d sem alteração",
		counts.Inserted, counts.Updated, counts.Unchanged)
	return counts, nil
}

func (r *PriceRepository) ListByDate(ctx context.Context, date time.Time) ([]model.StoredPrice, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT data, uf, praca, compra, var_dia, var_sem, var_mes, fonte, load_ts
		FROM preco_soja
		WHERE data = $1
		ORDER BY uf, praca
	`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []model.StoredPrice
	for rows.Next() {
		var p model.StoredPrice
		if err := rows.Scan(&p.Date, &p.Region, &p.Market, &p.Purchase,
			&p.VarDay, &p.VarWeek, &p.VarMonth, &p.Source, &p.LoadTS); err != nil {
			return nil, err
		}
		// char(2) devolve '' como '  '
		p.Region = strings.TrimSpace(p.Region)
		list = append(list, p)
	}
	return list, rows.Err()
}

func floatOrNil(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return d.Decimal.InexactFloat64()
}
