package spreadsheet

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/LuisEduardoPedra/metasVendas/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Layout conhecido do modelo antigo (abas mensais), usado quando o cabeçalho falha.
const (
	legacyMonthCol   = 0
	legacyNameCol    = 1
	legacyFirstWeek  = 2
	legacyTotalCol   = 7
	legacyGoalCol    = 8
	maxWeeks         = 5
	maxMonthsPerYear = 12
)

var (
	rosterNameRegex = regexp.MustCompile(`^[\p{L}\s]+$`)
	mentorshipRegex = regexp.MustCompile(`mentoria|inicio ment`)
)

// legacyParser lê a aba "Geral" e a melhor aba mensal de equipe.
type legacyParser struct {
	logger *zap.Logger
	cutoff cutoff
}

func (p *legacyParser) parse(wb *Workbook) parsedWorkbook {
	var out parsedWorkbook

	geral, ok := wb.Sheet(geralSheet)
	if !ok && len(wb.Sheets) > 0 {
		p.logger.Info("aba Geral ausente; usando a primeira aba", zap.String("sheet", wb.Sheets[0].Name))
		geral, ok = wb.Sheets[0], true
	}
	if ok {
		out.historical, out.current = p.parseGeral(geral.Grid)
		out.mentorship = findMentorshipDate(geral.Grid)
	}

	if tab, found := chooseRosterTab(wb.SheetNames(), p.cutoff); found {
		sheet, _ := wb.Sheet(tab)
		out.roster = p.parseRosterTab(sheet)
		out.rosterTab = tab
	} else {
		p.logger.Info("nenhuma aba mensal reconhecida")
	}
	return out
}

// parseGeral percorre as linhas de meses lendo uma coluna por ano.
func (p *legacyParser) parseGeral(g Grid) (historical, current []domain.MonthlyRecord) {
	yearRow := LocateHeaderRow(g, YearHeaderRow(2))
	if yearRow < 0 {
		p.logger.Info("linha de anos não encontrada na aba Geral")
		return nil, nil
	}
	years := yearColumns(g, yearRow)

	monthCol := LocateColumn(g, yearRow, legacyMonthCol, MonthValueColumn{Row: yearRow + 1})
	goalCol := locateForecastGoalColumn(g, yearRow, years)

	yearCols := make([]int, 0, len(years))
	for c := range years {
		yearCols = append(yearCols, c)
	}
	sort.Ints(yearCols)

	months := 0
	for r := yearRow + 1; r < len(g) && months < maxMonthsPerYear; r++ {
		cell := g.At(r, monthCol)
		if cell.Kind == CellText && strings.HasPrefix(cell.normalized(), "total") {
			break
		}
		month, ok := ParseMonthLabel(cell)
		if !ok {
			continue
		}
		months++

		for _, c := range yearCols {
			year := years[c]
			class := p.cutoff.classify(year, month.Number())
			if class == periodExcluded {
				continue
			}
			revenue, hasRevenue := ParseAmount(g.At(r, c))
			goal := decimal.Zero
			hasGoal := false
			if class == periodCurrent && goalCol >= 0 {
				goal, hasGoal = ParseAmount(g.At(r, goalCol))
			}
			if !hasRevenue && !hasGoal {
				continue
			}
			rec := domain.MonthlyRecord{Month: month, Year: year, Revenue: nonNegative(revenue), Goal: nonNegative(goal)}
			if class == periodCurrent {
				current = append(current, rec)
			} else {
				historical = append(historical, rec)
			}
		}
	}

	sortRecords(historical)
	sortRecords(current)
	return historical, current
}

// locateForecastGoalColumn procura "meta" junto de "prev" perto da linha de anos.
func locateForecastGoalColumn(g Grid, yearRow int, years map[int]int) int {
	for r := yearRow - 2; r <= yearRow+1; r++ {
		if r < 0 {
			continue
		}
		col, ok := KeywordColumn{Keywords: []string{"meta"}}.findWith(g, r, func(text string) bool {
			return strings.Contains(text, "prev")
		})
		if ok {
			if _, isYear := years[col]; !isYear {
				return col
			}
		}
	}
	return -1
}

// findWith é Find com um predicado extra sobre o texto normalizado.
func (k KeywordColumn) findWith(g Grid, row int, extra func(string) bool) (int, bool) {
	if row < 0 || row >= len(g) {
		return 0, false
	}
	for c := 0; c < len(g[row]) && c < scanCols; c++ {
		if g[row][c].Kind != CellText {
			continue
		}
		text := NormalizeKey(g[row][c].Text)
		if containsAny(text, k.Keywords) && extra(text) {
			return c, true
		}
	}
	return 0, false
}

// findMentorshipDate procura o rótulo de início da mentoria e lê a data
// na própria célula, abaixo ou à direita.
func findMentorshipDate(g Grid) *time.Time {
	for r := 0; r < len(g) && r < scanRows; r++ {
		for c := 0; c < len(g[r]) && c < scanCols; c++ {
			cell := g[r][c]
			if cell.Kind != CellText || !mentorshipRegex.MatchString(cell.normalized()) {
				continue
			}
			for _, candidate := range []Cell{cell, g.At(r+1, c), g.At(r, c+1)} {
				if t, ok := ParseDate(candidate); ok {
					return &t
				}
			}
		}
	}
	return nil
}

type monthlyTab struct {
	name   string
	period domain.PeriodKey
}

// chooseRosterTab: mesmo mês do corte; senão a mais próxima antes do corte;
// senão a primeira aba mensal reconhecível.
func chooseRosterTab(sheetNames []string, co cutoff) (string, bool) {
	var tabs []monthlyTab
	for _, name := range sheetNames {
		if period, ok := ParseTabName(name); ok {
			tabs = append(tabs, monthlyTab{name: name, period: period})
		}
	}
	if len(tabs) == 0 {
		return "", false
	}

	target := co.key()
	for _, t := range tabs {
		if t.period == target {
			return t.name, true
		}
	}

	best := -1
	for i, t := range tabs {
		if target.Before(t.period) {
			continue
		}
		if best < 0 || tabs[best].period.Before(t.period) {
			best = i
		}
	}
	if best >= 0 {
		return tabs[best].name, true
	}
	return tabs[0].name, true
}

// rosterLayout descreve as colunas de uma aba mensal de equipe.
type rosterLayout struct {
	header   int
	firstRow int
	nameCol  int
	weekCols []int
	totalCol int
	goalCol  int
	countCol int
}

func (p *legacyParser) locateRosterLayout(g Grid) rosterLayout {
	header := LocateHeaderRow(g, KeywordHeaderRow(rosterNameKeywords...), DensestHeaderRow(5))
	if header < 0 {
		header = 0
	}
	layout := rosterLayout{header: header, firstRow: header + 1}
	layout.nameCol = LocateColumn(g, header, legacyNameCol, KeywordColumn{Keywords: rosterNameKeywords})

	// As faixas de datas podem ficar na linha abaixo de um rótulo "Semanas" mesclado.
	layout.weekCols = locateWeekColumns(g, header)
	if below := locateWeekColumns(g, header+1); len(below) > len(layout.weekCols) {
		layout.weekCols = below
		layout.firstRow = header + 2
	}
	usingDefaults := len(layout.weekCols) == 0
	if usingDefaults {
		p.logger.Info("colunas semanais não encontradas; usando posições padrão")
		for c := legacyFirstWeek; c < legacyFirstWeek+maxWeeks; c++ {
			layout.weekCols = append(layout.weekCols, c)
		}
	}

	skip := map[int]bool{layout.nameCol: true}
	for _, c := range layout.weekCols {
		skip[c] = true
	}
	totalFallback, goalFallback := -1, -1
	if usingDefaults {
		totalFallback, goalFallback = legacyTotalCol, legacyGoalCol
	}
	layout.goalCol = LocateColumn(g, header, goalFallback, KeywordColumn{Keywords: []string{"meta"}, Skip: skip})
	skip[layout.goalCol] = true
	layout.totalCol = LocateColumn(g, header, totalFallback,
		KeywordColumn{Keywords: []string{"total", "realizado", "faturamento"}, Exclude: []string{"meta"}, Skip: skip})
	skip[layout.totalCol] = true
	layout.countCol = LocateColumn(g, header, -1,
		KeywordColumn{Keywords: []string{"qtd", "quantidade"}, Whole: true, Skip: skip},
		KeywordColumn{Keywords: []string{"n vendas", "no vendas", "num vendas", "numero de vendas"}, Skip: skip},
	)
	return layout
}

// parseRosterTab lê as linhas de vendedores da aba mensal.
func (p *legacyParser) parseRosterTab(sheet Sheet) []domain.RosterMember {
	g := sheet.Grid
	layout := p.locateRosterLayout(g)

	var roster []domain.RosterMember
	for r := layout.firstRow; r < len(g); r++ {
		nameCell := g.At(r, layout.nameCol)
		if nameCell.Kind != CellText {
			continue
		}
		name := strings.TrimSpace(nameCell.Text)
		key := NormalizeKey(name)
		if key == "" || (containsAny(key, rosterNameKeywords) && len(strings.Fields(key)) == 1) {
			continue
		}
		if strings.HasPrefix(key, "total") {
			break
		}

		weeks := make([]domain.WeeklyRecord, 0, len(layout.weekCols))
		weeklySum := decimal.Zero
		anyPositive := false
		for i, c := range layout.weekCols {
			amount, _ := ParseAmount(g.At(r, c))
			amount = nonNegative(amount)
			if amount.IsPositive() {
				anyPositive = true
			}
			weeklySum = weeklySum.Add(amount)
			weeks = append(weeks, domain.WeeklyRecord{Week: i + 1, Revenue: amount})
		}

		hasIndex := layout.nameCol > 0 && g.At(r, layout.nameCol-1).Kind == CellNumber
		if !hasIndex && !anyPositive && !rosterNameRegex.MatchString(name) {
			p.logger.Debug("linha de equipe ignorada", zap.String("sheet", sheet.Name), zap.Int("row", r+1))
			continue
		}

		goal, _ := ParseAmount(g.At(r, layout.goalCol))
		goal = nonNegative(goal)
		if len(weeks) > 0 && goal.IsPositive() {
			weeklyGoal := goal.Div(decimal.NewFromInt(int64(len(weeks)))).Round(2)
			for i := range weeks {
				weeks[i].Goal = weeklyGoal
			}
		}

		total, ok := ParseAmount(g.At(r, layout.totalCol))
		if !ok || !total.IsPositive() {
			total = weeklySum
		}
		count, _ := ParseCount(g.At(r, layout.countCol))

		roster = append(roster, domain.RosterMember{
			ID:              uuid.NewString(),
			Name:            name,
			Active:          true,
			TotalRevenue:    nonNegative(total),
			MonthlyGoal:     goal,
			Weeks:           weeks,
			TotalSalesCount: count,
		})
	}
	return roster
}

func sortRecords(records []domain.MonthlyRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Year != records[j].Year {
			return records[i].Year < records[j].Year
		}
		return records[i].Month.Number() < records[j].Month.Number()
	})
}
