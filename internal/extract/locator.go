package extract

import "strings"

const tableKeyword = "soja"

var (
	headingTags  = []string{"h2", "h3", "h4", "strong", "p"}
	tableMarkers = []string{"estado", "praça", "compra"}
)

// LocateTable finds the soybean table: first the table following a heading
// that mentions the keyword, otherwise the first table carrying every marker.
func LocateTable(doc Node) (Node, error) {
	for _, h := range doc.FindAll(headingTags...) {
		if !strings.Contains(strings.ToLower(h.Text()), tableKeyword) {
			continue
		}
		if tbl := h.FindNext("table"); tbl != nil {
			return tbl, nil
		}
	}

	for _, tbl := range doc.FindAll("table") {
		if containsAll(strings.ToLower(tbl.Text()), tableMarkers) {
			return tbl, nil
		}
	}
	return nil, ErrTableNotFound
}

func containsAll(text string, subs []string) bool {
	for _, s := range subs {
		if !strings.Contains(text, s) {
			return false
		}
	}
	return true
}
