package extract

import (
	"errors"
	"strings"
	"testing"
)

func TestLocateTable(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   string // texto que identifica a tabela esperada
	}{
		{
			name: "heading seguido de tabela",
			markup: `<h2>Milho</h2><table><tr><td>milho-1</td></tr></table>
				<h3>Preços da SOJA</h3><p>texto</p>
				<table><tr><td>soja-1</td></tr></table>`,
			want: "soja-1",
		},
		{
			name: "strong dentro de parágrafo",
			markup: `<p><strong>Soja</strong> disponível</p>
				<div><table><tr><td>soja-2</td></tr></table></div>`,
			want: "soja-2",
		},
		{
			name: "marcadores quando nenhum heading menciona soja",
			markup: `<h2>Cotações</h2>
				<table><tr><td>Estado</td><td>Compra</td></tr></table>
				<table><tr><td>Estado</td><td>Praça</td><td>Compra</td><td>marcadores</td></tr></table>`,
			want: "marcadores",
		},
		{
			name: "heading sem tabela depois cai nos marcadores",
			markup: `<table><tr><td>ESTADO</td><td>PRAÇA</td><td>COMPRA</td><td>antes</td></tr></table>
				<h4>Soja</h4><p>sem tabela</p>`,
			want: "antes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := FromHTML(tt.markup)
			if err != nil {
				t.Fatalf("FromHTML: %v", err)
			}
			tbl, err := LocateTable(doc)
			if err != nil {
				t.Fatalf("LocateTable: %v", err)
			}
			if !strings.Contains(tbl.Text(), tt.want) {
				t.Errorf("located table text %q does not contain %q", tbl.Text(), tt.want)
			}
		})
	}
}

func TestLocateTableNotFound(t *testing.T) {
	doc, err := FromHTML(`<h2>Milho</h2><table><tr><td>Estado</td><td>Compra</td></tr></table>`)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := LocateTable(doc); !errors.Is(err, ErrTableNotFound) {
		t.Errorf("err = %v, want ErrTableNotFound", err)
	}
}
