package extract

import (
	"regexp"
	"strings"
	"time"
)

const dateWindow = 8

var (
	datePattern = regexp.MustCompile(`(\d{2})-([A-Za-z]{3})-(\d{2,4})`)
	dateLayouts = []string{"02-Jan-06", "02-Jan-2006"}
)

// Abreviações de mês em português que o parser de datas não reconhece.
var ptMonths = map[string]string{
	"jan": "Jan", "fev": "Feb", "mar": "Mar", "abr": "Apr", "mai": "May", "jun": "Jun",
	"jul": "Jul", "ago": "Aug", "set": "Sep", "out": "Oct", "nov": "Nov", "dez": "Dec",
}

// ResolveDate looks for a DD-Mon-YY(YY) date in the text just before the table.
func ResolveDate(table Node) (time.Time, error) {
	blob := strings.Join(table.PrecedingText(dateWindow), " ")
	m := datePattern.FindStringSubmatch(blob)
	if m == nil {
		return time.Time{}, ErrDateUnresolved
	}
	if t, ok := parseDate(m[0]); ok {
		return t, nil
	}

	day, month, year := m[1], strings.ToLower(m[2]), m[3]
	if en, ok := ptMonths[month]; ok {
		month = en
	}
	if t, ok := parseDate(day + "-" + month + "-" + year); ok {
		return t, nil
	}
	return time.Time{}, ErrDateUnresolved
}

func parseDate(raw string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
