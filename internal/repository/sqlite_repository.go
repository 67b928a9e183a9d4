package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"sojaprj/internal/model"
)

const createStagingSQLite = `
CREATE TEMP TABLE stg_preco_soja (
	data    TEXT    NOT NULL,
	uf      TEXT    NOT NULL,
	praca   TEXT    NOT NULL,
	compra  NUMERIC NOT NULL,
	var_dia NUMERIC,
	var_sem NUMERIC,
	var_mes NUMERIC,
	fonte   TEXT    NOT NULL,
	PRIMARY KEY (data, uf, praca)
)`

const insertStagingSQLite = `
INSERT INTO stg_preco_soja (data, uf, praca, compra, var_dia, var_sem, var_mes, fonte)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

const sqliteTimestamp = "2006-01-02 15:04:05"

// SQLitePriceRepository is the embedded counterpart of PriceRepository.
type SQLitePriceRepository struct {
	DB        *sql.DB
	SourceTag string
}

func (r *SQLitePriceRepository) MaxDate(ctx context.Context) (time.Time, bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'preco_soja'`).Scan(&n)
	if err != nil {
		return time.Time{}, false, err
	}
	if n == 0 {
		return time.Time{}, false, nil
	}

	var maxDate sql.NullString
	if err := r.DB.QueryRowContext(ctx, `SELECT MAX(data) FROM preco_soja`).Scan(&maxDate); err != nil {
		return time.Time{}, false, err
	}
	if !maxDate.Valid || maxDate.String == "" {
		return time.Time{}, false, nil
	}
	d, err := time.Parse(model.DateLayout, maxDate.String)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("data inválida no banco %q: %w", maxDate.String, err)
	}
	return d, true, nil
}

func (r *SQLitePriceRepository) ApplyDiff(ctx context.Context, records []model.PriceRecord) (model.Counts, error) {
	var counts model.Counts
	if len(records) == 0 {
		return counts, nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return counts, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS temp.stg_preco_soja`); err != nil {
		return counts, fmt.Errorf("failed to reset staging table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, createStagingSQLite); err != nil {
		return counts, fmt.Errorf("failed to create staging table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertStagingSQLite)
	if err != nil {
		return counts, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		s := stage(rec, r.SourceTag)
		if _, err := stmt.ExecContext(ctx,
			s.date.Format(model.DateLayout), s.uf, s.praca, s.compra.StringFixed(storageScale),
			textOrNil(s.varDia), textOrNil(s.varSem), textOrNil(s.varMes), s.fonte,
		); err != nil {
			return counts, fmt.Errorf("failed to stage %s/%s: %w", s.uf, s.praca, err)
		}
	}
	stmt.Close()

	res, err := tx.ExecContext(ctx, updateChangedSQL)
	if err != nil {
		return counts, fmt.Errorf("failed to update changed rows: %w", err)
	}
	updated, _ := res.RowsAffected()

	res, err = tx.ExecContext(ctx, insertNewSQL)
	if err != nil {
		return counts, fmt.Errorf("failed to insert new rows: %w", err)
	}
	inserted, _ := res.RowsAffected()

	if _, err := tx.ExecContext(ctx, `DROP TABLE temp.stg_preco_soja`); err != nil {
		return counts, fmt.Errorf("failed to drop staging table: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return model.Counts{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	counts.Updated = int(updated)
	counts.Inserted = int(inserted)
	counts.Unchanged = len(records) - counts.Inserted - counts.Updated
	log.Printf("[Repository] merge concluído (sqlite): %d inseridas, %d atualizadas, %d sem alteração",
		counts.Inserted, counts.Updated, counts.Unchanged)
	return counts, nil
}

func (r *SQLitePriceRepository) ListByDate(ctx context.Context, date time.Time) ([]model.StoredPrice, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT data, uf, praca, compra, var_dia, var_sem, var_mes, fonte, load_ts
		FROM preco_soja
		WHERE data = ?
		ORDER BY uf, praca
	`, date.Format(model.DateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []model.StoredPrice
	for rows.Next() {
		var (
			p            model.StoredPrice
			data, loadTS string
		)
		if err := rows.Scan(&data, &p.Region, &p.Market, &p.Purchase,
			&p.VarDay, &p.VarWeek, &p.VarMonth, &p.Source, &loadTS); err != nil {
			return nil, err
		}
		if p.Date, err = time.Parse(model.DateLayout, data); err != nil {
			return nil, err
		}
		p.LoadTS, _ = time.Parse(sqliteTimestamp, loadTS)
		list = append(list, p)
	}
	return list, rows.Err()
}

func textOrNil(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return d.Decimal.StringFixed(storageScale)
}
