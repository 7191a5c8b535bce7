package spreadsheet

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/LuisEduardoPedra/metasVendas/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// CellKind é a etiqueta do valor de uma célula.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellNumber
	CellText
	CellDateSerial
)

// Cell é o valor tipado de uma célula de planilha.
type Cell struct {
	Kind CellKind
	Num  float64
	Text string
}

// Empty, Number, Text e DateSerial constroem células.
func Empty() Cell               { return Cell{Kind: CellEmpty} }
func Number(v float64) Cell     { return Cell{Kind: CellNumber, Num: v} }
func Text(s string) Cell        { return Cell{Kind: CellText, Text: s} }
func DateSerial(v float64) Cell { return Cell{Kind: CellDateSerial, Num: v} }

// IsEmpty reporta se a célula está vazia.
func (c Cell) IsEmpty() bool { return c.Kind == CellEmpty }

func (c Cell) normalized() string { return normalizeText(c.Text) }

// String devolve a representação textual da célula.
func (c Cell) String() string {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber, CellDateSerial:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	}
	return ""
}

// Grid é uma matriz linhas x colunas; linhas podem ter tamanhos diferentes.
type Grid [][]Cell

// At devolve a célula (r, c) ou Empty fora dos limites.
func (g Grid) At(r, c int) Cell {
	if r < 0 || r >= len(g) || c < 0 || c >= len(g[r]) {
		return Empty()
	}
	return g[r][c]
}

// NonEmptyRows conta linhas com ao menos uma célula preenchida.
func (g Grid) NonEmptyRows() int {
	n := 0
	for _, row := range g {
		for _, cell := range row {
			if !cell.IsEmpty() {
				n++
				break
			}
		}
	}
	return n
}

var monthNames = [12]string{"janeiro", "fevereiro", "marco", "abril", "maio", "junho", "julho", "agosto", "setembro", "outubro", "novembro", "dezembro"}
var monthAbbrevs = [12]string{"jan", "fev", "mar", "abr", "mai", "jun", "jul", "ago", "set", "out", "nov", "dez"}

var (
	thousandsOnlyRegex = regexp.MustCompile(`^-?\d{1,3}(\.\d{3})+$`)
	twoOrFourDigits    = regexp.MustCompile(`^(\d{2}|\d{4})$`)
	brDateRegex        = regexp.MustCompile(`(\d{1,2})/(\d{1,2})/(\d{4}|\d{2})\b`)
	isoDateRegex       = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})`)
)

// ParseAmount converte uma célula em valor monetário.
// Aceita "R$ 1.234,56", "1234,56", "1.234" e números nativos.
func ParseAmount(c Cell) (decimal.Decimal, bool) {
	switch c.Kind {
	case CellNumber:
		if math.IsNaN(c.Num) || math.IsInf(c.Num, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(c.Num), true
	case CellText:
		return parseBRLAmount(c.Text)
	}
	return decimal.Zero, false
}

func parseBRLAmount(val string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(val)
	s = strings.ReplaceAll(s, "R$", "")
	s = strings.ReplaceAll(s, "\u00a0", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return decimal.Zero, false
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	if strings.HasPrefix(s, "-") {
		negative = !negative
		s = s[1:]
	}

	switch {
	case strings.Contains(s, ","):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case strings.Count(s, ".") > 1 || thousandsOnlyRegex.MatchString(s):
		s = strings.ReplaceAll(s, ".", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if negative {
		d = d.Neg()
	}
	return d, true
}

// ParseYear reconhece anos plausíveis (2000..2100) com 2 ou 4 dígitos.
func ParseYear(c Cell) (int, bool) {
	var digits string
	switch c.Kind {
	case CellNumber:
		if c.Num != math.Trunc(c.Num) || c.Num < 0 {
			return 0, false
		}
		digits = strconv.Itoa(int(c.Num))
	case CellText:
		digits = strings.TrimSpace(c.Text)
	default:
		return 0, false
	}
	if !twoOrFourDigits.MatchString(digits) {
		return 0, false
	}
	y, _ := strconv.Atoi(digits)
	if len(digits) == 2 {
		y += 2000
	}
	if y < 2000 || y > 2100 {
		return 0, false
	}
	return y, true
}

// parseFourDigitYear é a variante estrita usada para localizar a linha de anos.
func parseFourDigitYear(c Cell) (int, bool) {
	y, ok := ParseYear(c)
	if !ok {
		return 0, false
	}
	if c.Kind == CellText && len(strings.TrimSpace(c.Text)) != 4 {
		return 0, false
	}
	if c.Kind == CellNumber && c.Num < 1000 {
		return 0, false
	}
	return y, true
}

// ParseMonthLabel reconhece nomes de mês em português, completos ou abreviados.
// Primeiro por igualdade, depois por prefixo.
func ParseMonthLabel(c Cell) (domain.MonthLabel, bool) {
	if c.Kind != CellText {
		return "", false
	}
	v := lettersOnly(c.normalized())
	if len(v) < 3 {
		return "", false
	}
	for i := range monthNames {
		if v == monthNames[i] || v == monthAbbrevs[i] {
			return domain.MonthLabels[i], true
		}
	}
	for i, full := range monthNames {
		if strings.HasPrefix(full, v) || strings.HasPrefix(v, full) {
			return domain.MonthLabels[i], true
		}
	}
	return "", false
}

// ParseDate aceita serial de data do Excel ou texto "dd/mm/yy[yy]".
func ParseDate(c Cell) (time.Time, bool) {
	switch c.Kind {
	case CellNumber, CellDateSerial:
		if c.Num < 1 || c.Num > 2958465 {
			return time.Time{}, false
		}
		t, err := excelize.ExcelDateToTime(c.Num, false)
		if err != nil {
			return time.Time{}, false
		}
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	case CellText:
		return parseDateText(c.Text)
	}
	return time.Time{}, false
}

func parseDateText(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if m := isoDateRegex.FindStringSubmatch(s); m != nil {
		y, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		d, _ := strconv.Atoi(m[3])
		return validDate(y, mo, d)
	}
	m := brDateRegex.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	d, _ := strconv.Atoi(m[1])
	mo, _ := strconv.Atoi(m[2])
	y, _ := strconv.Atoi(m[3])
	if len(m[3]) == 2 {
		y += 2000
	}
	return validDate(y, mo, d)
}

func validDate(y, mo, d int) (time.Time, bool) {
	t := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || int(t.Month()) != mo || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

// ParseCount lê um inteiro não negativo (quantidade de vendas).
func ParseCount(c Cell) (int, bool) {
	d, ok := ParseAmount(c)
	if !ok || d.IsNegative() {
		return 0, false
	}
	return int(d.IntPart()), true
}

var negativeFlags = map[string]bool{"nao": true, "no": true, "false": true, "0": true}

// isNegativeFlag reporta se a célula diz explicitamente "não".
func isNegativeFlag(c Cell) bool {
	switch c.Kind {
	case CellNumber:
		return c.Num == 0
	case CellText:
		return negativeFlags[c.normalized()]
	}
	return false
}
