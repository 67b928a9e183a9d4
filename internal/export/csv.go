package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"sojaprj/internal/model"
)

const (
	EncodingUTF8   = "utf-8"
	EncodingLatin1 = "latin1"
)

// CSVWriter writes the records as delimited text. Absent values are empty cells.
type CSVWriter struct {
	Path     string
	Comma    rune
	Encoding string
}

func (w *CSVWriter) Write(records []model.PriceRecord) error {
	if dir := filepath.Dir(w.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("falha ao criar diretório de saída: %w", err)
		}
	}

	file, err := os.Create(w.Path)
	if err != nil {
		return fmt.Errorf("falha ao criar CSV: %w", err)
	}
	defer file.Close()

	var out io.WriteCloser = nopCloser{file}
	if w.Encoding == EncodingLatin1 {
		// Windows-1252 cobre latin1 e é o que o Excel abre por padrão
		out = transform.NewWriter(file, encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder()))
	}

	if err := w.encode(out, records); err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("falha ao codificar CSV: %w", err)
	}
	log.Printf("[Export] %d linhas salvas em %s", len(records), w.Path)
	return nil
}

func (w *CSVWriter) encode(out io.Writer, records []model.PriceRecord) error {
	cw := csv.NewWriter(out)
	if w.Comma != 0 {
		cw.Comma = w.Comma
	}

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("falha ao escrever cabeçalho: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(row(r)); err != nil {
			return fmt.Errorf("falha ao escrever linha %s/%s: %w", r.Region, r.Market, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func optional(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}
