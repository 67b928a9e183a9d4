package extract

import (
	"strings"

	"github.com/shopspring/decimal"
)

var minusReplacer = strings.NewReplacer(
	"\u2212", "-", // minus sign
	"\u2012", "-", // figure dash
	"\u2013", "-", // en dash
	"\ufe63", "-", // small hyphen-minus
	"\uff0d", "-", // fullwidth hyphen-minus
)

// ParseBR converts a pt-BR formatted number ("1.234,56", "-0,5%") to a decimal.
// Anything that is not a number comes back as an invalid NullDecimal; it never fails.
func ParseBR(text string) decimal.NullDecimal {
	t := strings.TrimSpace(text)
	t = strings.ReplaceAll(t, "\u00a0", "")
	t = minusReplacer.Replace(t)
	t = strings.ReplaceAll(t, ".", "")
	t = strings.ReplaceAll(t, ",", ".")
	t = strings.ReplaceAll(t, "%", "")
	t = strings.TrimSpace(t)

	switch t {
	case "", "-", "\u2014":
		return decimal.NullDecimal{}
	}
	t = strings.TrimPrefix(t, "+")
	if strings.ContainsAny(t, "eE") {
		// expoente não é formato de planilha brasileira
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(t)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}
