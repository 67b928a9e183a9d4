package extract

import (
	"log"
	"strings"
)

// Field is a logical column of the price table.
type Field int

const (
	FieldRegion Field = iota
	FieldMarket
	FieldPurchase
	FieldVarDay
	FieldVarWeek
	FieldVarMonth
	numFields
)

var fieldNames = [numFields]string{"uf", "praca", "compra", "var_dia", "var_sem", "var_mes"}

func (f Field) String() string {
	if f < 0 || f >= numFields {
		return "desconhecido"
	}
	return fieldNames[f]
}

// Substrings accepted in a header cell for each field, tried in order.
var fieldAliases = [numFields][]string{
	FieldRegion:   {"estado"},
	FieldMarket:   {"praça", "praca"},
	FieldPurchase: {"compra"},
	FieldVarDay:   {"variação hoje", "variacao hoje", "variação do dia", "var hoje"},
	FieldVarWeek:  {"1 semana", "semana"},
	FieldVarMonth: {"1 mês", "1 mes", "mês", "mes"},
}

const headerScanRows = 3

// ColumnMap maps each field to a zero-based column, or -1 when unresolved.
type ColumnMap [numFields]int

func (cm ColumnMap) Index(f Field) int { return cm[f] }

// Positional reports whether any data-bearing field is unresolved, in which
// case rows are read from their last five columns.
func (cm ColumnMap) Positional() bool {
	for f := FieldMarket; f < numFields; f++ {
		if cm[f] < 0 {
			return true
		}
	}
	return false
}

func (cm ColumnMap) unresolved() []string {
	var out []string
	for f := Field(0); f < numFields; f++ {
		if cm[f] < 0 {
			out = append(out, f.String())
		}
	}
	return out
}

// MapColumns finds the header row among the first rows of the grid and
// resolves every field against it. It returns the map and the index of the
// first data row.
func MapColumns(g Grid) (ColumnMap, int) {
	var cm ColumnMap
	for i := range cm {
		cm[i] = -1
	}
	if len(g) == 0 {
		return cm, 0
	}

	headerIdx, start := 0, 1
	for i := 0; i < len(g) && i < headerScanRows; i++ {
		if containsAll(strings.ToLower(strings.Join(g[i], " ")), tableMarkers) {
			headerIdx, start = i, i+1
			break
		}
	}

	header := make([]string, len(g[headerIdx]))
	for i, h := range g[headerIdx] {
		header[i] = strings.ToLower(h)
	}
	for f := Field(0); f < numFields; f++ {
		cm[f] = indexOf(header, fieldAliases[f])
	}

	if cm.Positional() {
		log.Printf("[Schema] cabeçalho não resolvido para %v, usando as últimas 5 colunas", cm.unresolved())
	}
	return cm, start
}

func indexOf(header, names []string) int {
	for i, h := range header {
		for _, n := range names {
			if strings.Contains(h, n) {
				return i
			}
		}
	}
	return -1
}
