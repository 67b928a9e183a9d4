package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"sojaprj/internal/model"
)

func sample() []model.PriceRecord {
	return []model.PriceRecord{
		{
			Date:     time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC),
			Region:   "SP",
			Market:   "Ribeirão Preto",
			Purchase: decimal.RequireFromString("120.5"),
			VarDay:   decimal.NewNullDecimal(decimal.RequireFromString("-0.5")),
			VarMonth: decimal.NewNullDecimal(decimal.RequireFromString("3")),
		},
		{
			Region:   "",
			Market:   "Paranaguá",
			Purchase: decimal.RequireFromString("130"),
		},
	}
}

func TestNewSelectsWriter(t *testing.T) {
	tests := []struct {
		path, delim, enc string
		wantXLSX         bool
		wantErr          bool
	}{
		{"out.csv", ",", "utf-8", false, false},
		{"out.XLSX", "", "", true, false},
		{"out.csv", ";", "latin1", false, false},
		{"out.csv", `\t`, "", false, false},
		{"out.csv", ";;", "", false, true},
		{"out.csv", ",", "utf-16", false, true},
	}
	for _, tt := range tests {
		w, err := New(tt.path, tt.delim, tt.enc)
		if (err != nil) != tt.wantErr {
			t.Errorf("New(%q, %q, %q) err = %v", tt.path, tt.delim, tt.enc, err)
			continue
		}
		if err != nil {
			continue
		}
		if _, ok := w.(*XLSXWriter); ok != tt.wantXLSX {
			t.Errorf("New(%q) = %T", tt.path, w)
		}
	}
}

func TestCSVWriterUTF8(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "soja.csv")
	w, err := New(path, ";", "utf-8")
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Write(sample()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "data;uf;praca;compra;var_dia;var_sem;var_mes\n" +
		"2024-05-20;SP;Ribeirão Preto;120.5;-0.5;;3\n" +
		";;Paranaguá;130;;;\n"
	if string(b) != want {
		t.Errorf("csv =\n%s\nwant\n%s", b, want)
	}
}

func TestCSVWriterLatin1(t *testing.T) {
	path := filepath.Join(t.TempDir(), "soja.csv")
	w := &CSVWriter{Path: path, Comma: ',', Encoding: EncodingLatin1}
	if err := w.Write(sample()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "Ribeir\xe3o Preto") {
		t.Errorf("expected latin1 bytes, got %q", b)
	}
}

func TestXLSXWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "soja.xlsx")
	w := &XLSXWriter{Path: path}
	if err := w.Write(sample()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if strings.Join(rows[0], ",") != strings.Join(Header, ",") {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][2] != "Ribeirão Preto" || rows[1][3] != "120.5" {
		t.Errorf("row 1 = %v", rows[1])
	}
	if v, _ := f.GetCellValue(sheetName, "F2"); v != "" {
		t.Errorf("absent var_sem written as %q", v)
	}
}
