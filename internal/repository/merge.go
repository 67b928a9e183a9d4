package repository

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"sojaprj/internal/model"
)

// Both statements read the staging table filled inside the same transaction.
// IS DISTINCT FROM treats NULL vs NULL as equal, so an unchanged batch
// touches nothing.
const updateChangedSQL = `
UPDATE preco_soja
SET compra  = s.compra,
    var_dia = s.var_dia,
    var_sem = s.var_sem,
    var_mes = s.var_mes,
    load_ts = CURRENT_TIMESTAMP
FROM stg_preco_soja AS s
WHERE preco_soja.data = s.data
  AND preco_soja.uf = s.uf
  AND preco_soja.praca = s.praca
  AND (preco_soja.compra  IS DISTINCT FROM s.compra
    OR preco_soja.var_dia IS DISTINCT FROM s.var_dia
    OR preco_soja.var_sem IS DISTINCT FROM s.var_sem
    OR preco_soja.var_mes IS DISTINCT FROM s.var_mes)`

const insertNewSQL = `
INSERT INTO preco_soja (data, uf, praca, compra, var_dia, var_sem, var_mes, fonte)
SELECT s.data, s.uf, s.praca, s.compra, s.var_dia, s.var_sem, s.var_mes, s.fonte
FROM stg_preco_soja AS s
WHERE NOT EXISTS (
	SELECT 1 FROM preco_soja AS t
	WHERE t.data = s.data AND t.uf = s.uf AND t.praca = s.praca
)`

var stagingColumns = []string{"data", "uf", "praca", "compra", "var_dia", "var_sem", "var_mes", "fonte"}

type stagedRow struct {
	date   time.Time
	uf     string
	praca  string
	compra decimal.Decimal
	varDia decimal.NullDecimal
	varSem decimal.NullDecimal
	varMes decimal.NullDecimal
	fonte  string
}

func stage(rec model.PriceRecord, sourceTag string) stagedRow {
	rec = rec.Rounded(storageScale)
	return stagedRow{
		date:   rec.Date,
		uf:     rec.Region,
		praca:  truncateRunes(rec.Market, maxPracaLen),
		compra: rec.Purchase,
		varDia: rec.VarDay,
		varSem: rec.VarWeek,
		varMes: rec.VarMonth,
		fonte:  SourceFor(rec, sourceTag),
	}
}

// SourceFor returns the fonte value for a record; fallback-dated records are
// tagged so they can be told apart from dates read off the page.
func SourceFor(rec model.PriceRecord, sourceTag string) string {
	if sourceTag == "" {
		sourceTag = "AgRural"
	}
	if rec.FallbackDated {
		return sourceTag + " (data estimada)"
	}
	return sourceTag
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n]))
}

// Plan computes what ApplyDiff would do given the rows already stored for the
// batch's date, using the same rules as the SQL merge.
func Plan(stored []model.StoredPrice, incoming []model.PriceRecord) model.Counts {
	existing := make(map[model.Key]model.PriceRecord, len(stored))
	for _, s := range stored {
		existing[s.Key()] = s.PriceRecord
	}

	var c model.Counts
	for _, rec := range incoming {
		rec = rec.Rounded(storageScale)
		rec.Market = truncateRunes(rec.Market, maxPracaLen)
		old, ok := existing[rec.Key()]
		switch {
		case !ok:
			c.Inserted++
		case old.SameValues(rec):
			c.Unchanged++
		default:
			c.Updated++
		}
	}
	return c
}
