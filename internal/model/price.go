package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the ISO-8601 calendar date used on every output boundary.
const DateLayout = "2006-01-02"

// PriceRecord é uma linha normalizada da tabela de soja.
type PriceRecord struct {
	Date          time.Time // zero quando a data da página não foi resolvida
	Region        string    // UF, pode ser herdada da linha anterior
	Market        string    // praça
	Purchase      decimal.Decimal
	VarDay        decimal.NullDecimal
	VarWeek       decimal.NullDecimal
	VarMonth      decimal.NullDecimal
	FallbackDated bool
}

// Key identifies a record inside a batch and inside the store.
type Key struct {
	Date   string
	Region string
	Market string
}

func (r PriceRecord) Key() Key {
	return Key{Date: r.DateString(), Region: r.Region, Market: r.Market}
}

// DateString returns the ISO date or "" when no date was resolved.
func (r PriceRecord) DateString() string {
	if r.Date.IsZero() {
		return ""
	}
	return r.Date.Format(DateLayout)
}

// SameValues compares the four numeric fields. Absent equals absent.
func (r PriceRecord) SameValues(o PriceRecord) bool {
	return r.Purchase.Equal(o.Purchase) &&
		sameNull(r.VarDay, o.VarDay) &&
		sameNull(r.VarWeek, o.VarWeek) &&
		sameNull(r.VarMonth, o.VarMonth)
}

// Rounded returns a copy with every numeric field rounded to the storage scale.
func (r PriceRecord) Rounded(places int32) PriceRecord {
	r.Purchase = r.Purchase.Round(places)
	r.VarDay = roundNull(r.VarDay, places)
	r.VarWeek = roundNull(r.VarWeek, places)
	r.VarMonth = roundNull(r.VarMonth, places)
	return r
}

func sameNull(a, b decimal.NullDecimal) bool {
	if !a.Valid || !b.Valid {
		return a.Valid == b.Valid
	}
	return a.Decimal.Equal(b.Decimal)
}

func roundNull(d decimal.NullDecimal, places int32) decimal.NullDecimal {
	if !d.Valid {
		return d
	}
	return decimal.NewNullDecimal(d.Decimal.Round(places))
}

// Counts is the result of one merge.
type Counts struct {
	Inserted  int
	Updated   int
	Unchanged int
}

func (c Counts) Changed() int {
	return c.Inserted + c.Updated
}

// StoredPrice is a persisted row as read back from preco_soja.
type StoredPrice struct {
	PriceRecord
	Source string
	LoadTS time.Time
}
