package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"sojaprj/internal/model"
)

// Header is the column order shared by every output format.
var Header = []string{"data", "uf", "praca", "compra", "var_dia", "var_sem", "var_mes"}

type Writer interface {
	Write(records []model.PriceRecord) error
}

// New picks the writer from the file extension: .xlsx gets a spreadsheet,
// anything else a delimited text file.
func New(path, delimiter, encoding string) (Writer, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return &XLSXWriter{Path: path}, nil
	}

	comma := ','
	if delimiter != "" {
		if delimiter == `\t` {
			delimiter = "\t"
		}
		r, size := utf8.DecodeRuneInString(delimiter)
		if size != len(delimiter) || r == '"' || r == '\r' || r == '\n' {
			return nil, fmt.Errorf("delimitador inválido %q", delimiter)
		}
		comma = r
	}

	switch strings.ToLower(encoding) {
	case "", "utf-8", "utf8":
		encoding = EncodingUTF8
	case "latin1", "latin-1", "iso-8859-1", "windows-1252", "cp1252":
		encoding = EncodingLatin1
	default:
		return nil, fmt.Errorf("encoding não suportado %q", encoding)
	}
	return &CSVWriter{Path: path, Comma: comma, Encoding: encoding}, nil
}

func row(r model.PriceRecord) []string {
	return []string{
		r.DateString(),
		r.Region,
		r.Market,
		r.Purchase.String(),
		optional(r.VarDay),
		optional(r.VarWeek),
		optional(r.VarMonth),
	}
}
