package extract

import (
	"log"
	"regexp"
	"strings"
	"time"

	"sojaprj/internal/model"
)

var regionPattern = regexp.MustCompile(`^[A-Z]{2}$`)

// footerMarker identifies attribution rows at the bottom of the table.
const footerMarker = "agrural"

// NormalizeRows turns data rows into price records. A blank region cell
// inherits the last seen UF; rows without a market or a purchase price, stray
// header rows and footer rows are dropped. Only the first record of each
// (region, market) pair is kept.
func NormalizeRows(rows [][]string, cm ColumnMap, date time.Time, fallbackDated bool) []model.PriceRecord {
	positional := cm.Positional()
	seen := make(map[model.Key]bool)
	lastRegion := ""

	var out []model.PriceRecord
	for _, r := range rows {
		if strings.Contains(strings.ToLower(strings.Join(r, " ")), footerMarker) {
			continue
		}

		var regionCell, market, purchase, varDay, varWeek, varMonth string
		if positional {
			if len(r) < 5 {
				continue
			}
			tail := r[len(r)-5:]
			market, purchase, varDay, varWeek, varMonth = tail[0], tail[1], tail[2], tail[3], tail[4]
			regionCell = r[0]
		} else {
			regionCell = cellAt(r, cm[FieldRegion])
			if cm[FieldRegion] < 0 && len(r) > 0 {
				regionCell = r[0]
			}
			market = cellAt(r, cm[FieldMarket])
			purchase = cellAt(r, cm[FieldPurchase])
			varDay = cellAt(r, cm[FieldVarDay])
			varWeek = cellAt(r, cm[FieldVarWeek])
			varMonth = cellAt(r, cm[FieldVarMonth])
		}

		region := lastRegion
		if rc := strings.TrimSpace(regionCell); regionPattern.MatchString(rc) {
			region = rc
			lastRegion = rc
		}

		price := ParseBR(purchase)
		if market == "" || !price.Valid || isMarketHeader(market) {
			continue
		}

		rec := model.PriceRecord{
			Date:          date,
			Region:        region,
			Market:        market,
			Purchase:      price.Decimal,
			VarDay:        ParseBR(varDay),
			VarWeek:       ParseBR(varWeek),
			VarMonth:      ParseBR(varMonth),
			FallbackDated: fallbackDated,
		}
		if seen[rec.Key()] {
			log.Printf("[Extract] praça duplicada ignorada: %s/%s", rec.Region, rec.Market)
			continue
		}
		seen[rec.Key()] = true
		out = append(out, rec)
	}
	return out
}

func cellAt(r []string, idx int) string {
	if idx < 0 || idx >= len(r) {
		return ""
	}
	return r[idx]
}

func isMarketHeader(s string) bool {
	switch strings.ToLower(s) {
	case "praça", "praca":
		return true
	}
	return false
}
