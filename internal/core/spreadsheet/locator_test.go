package spreadsheet

import (
	"reflect"
	"testing"
)

func TestLocateHeaderRow(t *testing.T) {
	g := gridOf(
		[]interface{}{"Relatório de vendas"},
		nil,
		[]interface{}{"#", "Consultor", "Semana 1", "Semana 2"},
		[]interface{}{1, "Ana", 100, 200},
	)

	t.Run("por palavra-chave", func(t *testing.T) {
		if got := LocateHeaderRow(g, KeywordHeaderRow("consultor")); got != 2 {
			t.Errorf("linha = %d, esperado 2", got)
		}
	})

	t.Run("cai na linha mais densa", func(t *testing.T) {
		got := LocateHeaderRow(g, KeywordHeaderRow("vendedor"), DensestHeaderRow(5))
		if got != 2 {
			t.Errorf("linha = %d, esperado 2", got)
		}
	})

	t.Run("nenhuma estratégia encontra", func(t *testing.T) {
		if got := LocateHeaderRow(Grid{}, KeywordHeaderRow("nome"), DensestHeaderRow(5)); got != -1 {
			t.Errorf("linha = %d, esperado -1", got)
		}
	})

	t.Run("linha de anos", func(t *testing.T) {
		years := gridOf(
			[]interface{}{"Faturamento"},
			[]interface{}{"Mês", 2023, "2024", 2025},
		)
		if got := LocateHeaderRow(years, YearHeaderRow(2)); got != 1 {
			t.Errorf("linha = %d, esperado 1", got)
		}
		want := map[int]int{1: 2023, 2: 2024, 3: 2025}
		if got := yearColumns(years, 1); !reflect.DeepEqual(got, want) {
			t.Errorf("colunas = %v, esperado %v", got, want)
		}
	})
}

func TestLocateColumn(t *testing.T) {
	g := gridOf([]interface{}{"Mês", "Ano", "Plano", "Meta", "Faturamento"})

	tests := []struct {
		name     string
		strategy ColumnStrategy
		fallback int
		want     int
	}{
		{"palavra inteira", KeywordColumn{Keywords: []string{"ano"}, Whole: true}, 9, 1},
		{"substring", KeywordColumn{Keywords: []string{"fatur"}}, 9, 4},
		{"exclusão", KeywordColumn{Keywords: []string{"me"}, Exclude: []string{"meta"}}, 9, 0},
		{"colunas ignoradas", KeywordColumn{Keywords: []string{"a"}, Skip: map[int]bool{0: true, 1: true, 2: true}}, 9, 3},
		{"fallback", KeywordColumn{Keywords: []string{"vendedor"}}, 9, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LocateColumn(g, 0, tt.fallback, tt.strategy); got != tt.want {
				t.Errorf("coluna = %d, esperado %d", got, tt.want)
			}
		})
	}

	t.Run("coluna de meses na linha de dados", func(t *testing.T) {
		data := gridOf(
			[]interface{}{nil, 2024, 2025},
			[]interface{}{"Obs", "Janeiro", 10, 20},
		)
		if got := LocateColumn(data, 0, 0, MonthValueColumn{Row: 1}); got != 1 {
			t.Errorf("coluna = %d, esperado 1", got)
		}
	})
}

func TestLocateWeekColumns(t *testing.T) {
	g := gridOf(
		[]interface{}{"Nome", "01 a 07/12", "08-14/12", "Meta semana", "Semana 3", "Total"},
	)
	want := []int{1, 2, 4}
	if got := locateWeekColumns(g, 0); !reflect.DeepEqual(got, want) {
		t.Errorf("semanas = %v, esperado %v", got, want)
	}
	if got := locateWeekColumns(g, 5); len(got) != 0 {
		t.Errorf("linha inexistente deveria devolver vazio, obteve %v", got)
	}
}
