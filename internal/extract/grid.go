package extract

import (
	"strconv"
	"strings"
)

// Grid is the rectangular reconstruction of an HTML table.
type Grid [][]string

// Width returns the column count shared by every row.
func (g Grid) Width() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

type carry struct {
	val  string
	left int
}

// ExpandTable rebuilds the table as a grid, repeating every rowspan cell in
// its column for the rows it covers. Rows are read from the first tbody when
// there is one.
func ExpandTable(table Node) Grid {
	body := table
	if bodies := table.FindAll("tbody"); len(bodies) > 0 {
		body = bodies[0]
	}

	var grid Grid
	pending := make(map[int]*carry)

	drain := func(row []string, col int) ([]string, int) {
		for {
			c, ok := pending[col]
			if !ok || c.left <= 0 {
				return row, col
			}
			row = append(row, c.val)
			c.left--
			if c.left == 0 {
				delete(pending, col)
			}
			col++
		}
	}

	for _, tr := range body.FindAll("tr") {
		var row []string
		col := 0

		row, col = drain(row, col)
		for _, cell := range tr.FindAll("td", "th") {
			row, col = drain(row, col)

			text := cleanCell(cell.Text())
			row = append(row, text)
			if span := rowSpan(cell); span > 1 {
				pending[col] = &carry{val: text, left: span - 1}
			}
			col++
		}

		// linha curta: colunas que ainda devem valores herdados
		for hasCarryFrom(pending, col) {
			if _, ok := pending[col]; ok {
				row, col = drain(row, col)
				continue
			}
			row = append(row, "")
			col++
		}

		grid = append(grid, row)
	}

	return pad(grid)
}

func hasCarryFrom(pending map[int]*carry, col int) bool {
	for c := range pending {
		if c >= col {
			return true
		}
	}
	return false
}

func pad(g Grid) Grid {
	width := 0
	for _, row := range g {
		if len(row) > width {
			width = len(row)
		}
	}
	for i, row := range g {
		for len(row) < width {
			row = append(row, "")
		}
		g[i] = row
	}
	return g
}

func cleanCell(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "\u00a0", " ")
}

// rowSpan defaults to 1 for a missing or malformed attribute.
func rowSpan(cell Node) int {
	raw, ok := cell.Attr("rowspan")
	if !ok {
		return 1
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1
	}
	return n
}
