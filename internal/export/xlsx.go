package export

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"sojaprj/internal/model"
)

const sheetName = "soja"

// XLSXWriter writes the records to a single-sheet workbook with numeric cells.
type XLSXWriter struct {
	Path string
}

func (w *XLSXWriter) Write(records []model.PriceRecord) error {
	if dir := filepath.Dir(w.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("falha ao criar diretório de saída: %w", err)
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}

	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("falha ao escrever cabeçalho: %w", err)
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{
			r.DateString(),
			r.Region,
			r.Market,
			r.Purchase.InexactFloat64(),
			cellValue(r.VarDay),
			cellValue(r.VarWeek),
			cellValue(r.VarMonth),
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("falha ao escrever linha %s/%s: %w", r.Region, r.Market, err)
		}
	}

	if err := f.SaveAs(w.Path); err != nil {
		return fmt.Errorf("falha ao salvar planilha: %w", err)
	}
	log.Printf("[Export] %d linhas salvas em %s", len(records), w.Path)
	return nil
}

func cellValue(d decimal.NullDecimal) interface{} {
	if !d.Valid {
		return nil
	}
	return d.Decimal.InexactFloat64()
}
