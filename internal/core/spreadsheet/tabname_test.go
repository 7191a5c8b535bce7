package spreadsheet

import (
	"testing"

	"github.com/LuisEduardoPedra/metasVendas/internal/domain"
)

func TestParseTabName(t *testing.T) {
	december := domain.PeriodKey{Year: 2025, Month: 12}
	for _, name := range []string{"Dez-25", "dez/25", "DEZEMBRO-2025", "dezembro/2025", "Dez 2025", "dez_25", " Dez - 25 "} {
		got, ok := ParseTabName(name)
		if !ok || got != december {
			t.Errorf("ParseTabName(%q) = %+v, %v; esperado %+v", name, got, ok, december)
		}
	}

	t.Run("acentos e nome completo", func(t *testing.T) {
		got, ok := ParseTabName("Março-24")
		if !ok || got != (domain.PeriodKey{Year: 2024, Month: 3}) {
			t.Errorf("obtido %+v, %v", got, ok)
		}
	})

	t.Run("nomes que não são meses", func(t *testing.T) {
		for _, name := range []string{"Geral", "Historico", "Dez25", "Dez-202", "xyz-25", "Equipe 2025"} {
			if got, ok := ParseTabName(name); ok {
				t.Errorf("ParseTabName(%q) deveria falhar, obteve %+v", name, got)
			}
		}
	})
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		sheets []string
		want   domain.WorkbookFormat
	}{
		{[]string{"Histórico", "Equipe"}, domain.FormatSimplifiedTemplate},
		{[]string{"Equipe", "HISTORICO"}, domain.FormatSimplifiedTemplate},
		{[]string{"Geral", "Mar-25"}, domain.FormatLegacy},
		{[]string{"Historico 2024"}, domain.FormatLegacy},
		{nil, domain.FormatLegacy},
	}
	for _, tt := range tests {
		if got := DetectFormat(tt.sheets); got != tt.want {
			t.Errorf("DetectFormat(%v) = %s, esperado %s", tt.sheets, got, tt.want)
		}
	}
}

func TestChooseRosterTab(t *testing.T) {
	sheets := []string{"Geral", "Jan-25", "Fev-25", "Abr-25"}
	tests := []struct {
		name   string
		cutoff cutoff
		want   string
	}{
		{"correspondência exata", cutoff{month: 4, year: 2025}, "Abr-25"},
		{"mais próxima antes do corte", cutoff{month: 3, year: 2025}, "Fev-25"},
		{"nenhuma antes do corte", cutoff{month: 3, year: 2024}, "Jan-25"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := chooseRosterTab(sheets, tt.cutoff)
			if !ok || got != tt.want {
				t.Errorf("obtido %q, %v; esperado %q", got, ok, tt.want)
			}
		})
	}

	if _, ok := chooseRosterTab([]string{"Geral"}, cutoff{month: 1, year: 2025}); ok {
		t.Error("sem abas mensais não deveria escolher nenhuma")
	}
}
