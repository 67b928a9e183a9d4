package extract

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestResolveDate(t *testing.T) {
	tests := []struct {
		name   string
		before string
		want   string
	}{
		{"mes portugues", `<p>Atualizado em 20-mai-24</p>`, "2024-05-20"},
		{"ano com quatro digitos", `<p>Fechamento 05-set-2023</p>`, "2023-09-05"},
		{"mes em ingles", `<p>20-May-24</p>`, "2024-05-20"},
		{"dezembro", `<p><em>15-dez-23</em> - preços em R$/sc</p>`, "2023-12-15"},
		{"mes coincidente", `<p>02-jan-25</p>`, "2025-01-02"},
		{"mais proximo primeiro", `<p>01-abr-24</p><p>03-abr-24</p>`, "2024-04-03"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := tableFrom(t, tt.before+`<table><tr><td>x</td></tr></table>`)
			got, err := ResolveDate(table)
			if err != nil {
				t.Fatalf("ResolveDate: %v", err)
			}
			if got.Format("2006-01-02") != tt.want {
				t.Errorf("ResolveDate = %s, want %s", got.Format("2006-01-02"), tt.want)
			}
		})
	}
}

func TestResolveDateUnresolved(t *testing.T) {
	tests := []struct {
		name   string
		before string
	}{
		{"sem data", `<p>Preços de soja</p>`},
		{"dia invalido", `<p>31-fev-24</p>`},
		{"mes desconhecido", `<p>10-xyz-24</p>`},
		{"fora da janela", `<p>20-mai-24</p>` + strings.Repeat(`<p>texto</p>`, 8)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := tableFrom(t, tt.before+`<table><tr><td>x</td></tr></table>`)
			got, err := ResolveDate(table)
			if !errors.Is(err, ErrDateUnresolved) {
				t.Errorf("err = %v, want ErrDateUnresolved", err)
			}
			if !got.Equal(time.Time{}) {
				t.Errorf("expected zero time, got %v", got)
			}
		})
	}
}
