package spreadsheet

import (
	"regexp"
	"strings"
)

// Janela de varredura para heurísticas de cabeçalho.
const (
	scanRows = 10
	scanCols = 20
)

// HeaderStrategy tenta localizar a linha de cabeçalho.
type HeaderStrategy func(g Grid) (int, bool)

// ColumnStrategy tenta localizar uma coluna a partir da linha de cabeçalho.
type ColumnStrategy interface {
	Find(g Grid, headerRow int) (int, bool)
}

// LocateHeaderRow aplica as estratégias em ordem; -1 se nenhuma encontrar.
func LocateHeaderRow(g Grid, strategies ...HeaderStrategy) int {
	for _, s := range strategies {
		if row, ok := s(g); ok {
			return row
		}
	}
	return -1
}

// LocateColumn aplica as estratégias em ordem e cai no fallback fixo.
func LocateColumn(g Grid, headerRow, fallback int, strategies ...ColumnStrategy) int {
	for _, s := range strategies {
		if col, ok := s.Find(g, headerRow); ok {
			return col
		}
	}
	return fallback
}

// KeywordHeaderRow encontra a primeira linha com uma célula contendo alguma palavra-chave.
func KeywordHeaderRow(keywords ...string) HeaderStrategy {
	return func(g Grid) (int, bool) {
		for r := 0; r < len(g) && r < scanRows; r++ {
			for c := 0; c < len(g[r]) && c < scanCols; c++ {
				if g[r][c].Kind != CellText {
					continue
				}
				if containsAny(NormalizeKey(g[r][c].Text), keywords) {
					return r, true
				}
			}
		}
		return 0, false
	}
}

// YearHeaderRow encontra a primeira linha com ao menos minYears anos de 4 dígitos.
func YearHeaderRow(minYears int) HeaderStrategy {
	return func(g Grid) (int, bool) {
		for r := 0; r < len(g) && r < scanRows; r++ {
			if len(yearColumns(g, r)) >= minYears {
				return r, true
			}
		}
		return 0, false
	}
}

// DensestHeaderRow escolhe, entre as primeiras n linhas, a com mais células preenchidas.
func DensestHeaderRow(n int) HeaderStrategy {
	return func(g Grid) (int, bool) {
		best, bestCount := -1, 0
		for r := 0; r < len(g) && r < n; r++ {
			count := 0
			for _, cell := range g[r] {
				if !cell.IsEmpty() {
					count++
				}
			}
			if count > bestCount {
				best, bestCount = r, count
			}
		}
		return best, best >= 0
	}
}

// KeywordColumn casa por substring no texto normalizado do cabeçalho.
// Whole exige que a palavra-chave seja uma palavra inteira ("ano" não casa "plano").
type KeywordColumn struct {
	Keywords []string
	Exclude  []string
	Whole    bool
	Skip     map[int]bool
}

// Find varre a linha de cabeçalho dentro da janela de colunas.
func (k KeywordColumn) Find(g Grid, headerRow int) (int, bool) {
	if headerRow < 0 || headerRow >= len(g) {
		return 0, false
	}
	row := g[headerRow]
	for _, kw := range k.Keywords {
		for c := 0; c < len(row) && c < scanCols; c++ {
			if k.Skip[c] || row[c].Kind != CellText {
				continue
			}
			text := NormalizeKey(row[c].Text)
			if containsAny(text, k.Exclude) {
				continue
			}
			if k.Whole && hasWord(text, kw) || !k.Whole && strings.Contains(text, kw) {
				return c, true
			}
		}
	}
	return 0, false
}

// MonthValueColumn encontra, em uma linha de dados, a coluna que contém um nome de mês.
type MonthValueColumn struct {
	Row int
}

// Find ignora headerRow e usa a linha configurada.
func (m MonthValueColumn) Find(g Grid, _ int) (int, bool) {
	if m.Row < 0 || m.Row >= len(g) {
		return 0, false
	}
	for c := 0; c < len(g[m.Row]) && c < scanCols; c++ {
		if _, ok := ParseMonthLabel(g[m.Row][c]); ok {
			return c, true
		}
	}
	return 0, false
}

// yearColumns devolve as colunas (até scanCols) da linha r que contêm anos de 4 dígitos.
func yearColumns(g Grid, r int) map[int]int {
	cols := make(map[int]int)
	if r < 0 || r >= len(g) {
		return cols
	}
	for c := 0; c < len(g[r]) && c < scanCols; c++ {
		if y, ok := parseFourDigitYear(g[r][c]); ok {
			cols[c] = y
		}
	}
	return cols
}

// weekRangeRegex casa rótulos de semana como "01 a 07/12" ou "8-14/03".
var weekRangeRegex = regexp.MustCompile(`\d{1,2}\s*(a|ate|-)\s*\d{1,2}\s*/\s*\d{1,2}`)

// isWeekHeader reporta se a célula rotula uma coluna semanal de faturamento.
func isWeekHeader(c Cell) bool {
	if c.Kind != CellText {
		return false
	}
	text := normalizeText(c.Text)
	if strings.Contains(text, "meta") {
		return false
	}
	return strings.Contains(text, "semana") || weekRangeRegex.MatchString(text)
}

// locateWeekColumns procura colunas semanais na linha informada.
func locateWeekColumns(g Grid, row int) []int {
	var cols []int
	if row < 0 || row >= len(g) {
		return cols
	}
	for c := 0; c < len(g[row]) && c < scanCols; c++ {
		if isWeekHeader(g[row][c]) {
			cols = append(cols, c)
			if len(cols) == maxWeeks {
				break
			}
		}
	}
	return cols
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func hasWord(text, word string) bool {
	for _, w := range strings.Fields(text) {
		if w == word {
			return true
		}
	}
	return false
}
