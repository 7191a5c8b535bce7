package spreadsheet

import (
	"strings"
	"time"

	"github.com/LuisEduardoPedra/metasVendas/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Posições fixas do modelo simplificado quando o cabeçalho não é reconhecido.
const (
	simplifiedMonthCol   = 0
	simplifiedYearCol    = 1
	simplifiedRevenueCol = 2
	simplifiedGoalCol    = 3
	equipeNameCol        = 0
)

var rosterNameKeywords = []string{"nome", "consultor", "vendedor"}

// parsedWorkbook é o resultado intermediário comum aos dois dialetos.
type parsedWorkbook struct {
	historical []domain.MonthlyRecord
	current    []domain.MonthlyRecord
	roster     []domain.RosterMember
	rosterTab  string
	mentorship *time.Time
}

// simplifiedParser lê as abas "Historico" e "Equipe".
type simplifiedParser struct {
	logger *zap.Logger
	cutoff cutoff
}

func (p *simplifiedParser) parse(wb *Workbook) parsedWorkbook {
	var out parsedWorkbook
	if sheet, ok := wb.Sheet(historicoSheet); ok {
		out.historical, out.current = p.parseHistorico(sheet)
	}
	if sheet, ok := wb.Sheet(equipeSheet); ok {
		out.roster = p.parseEquipe(sheet)
		out.rosterTab = sheet.Name
	} else {
		p.logger.Info("aba Equipe ausente; equipe vazia")
	}
	return out
}

func (p *simplifiedParser) parseHistorico(sheet Sheet) (historical, current []domain.MonthlyRecord) {
	g := sheet.Grid
	header := LocateHeaderRow(g,
		KeywordHeaderRow("mes", "faturamento", "receita", "meta"),
		DensestHeaderRow(5),
	)
	if header < 0 {
		p.logger.Info("cabeçalho não encontrado", zap.String("sheet", sheet.Name))
		return nil, nil
	}

	monthCol := LocateColumn(g, header, simplifiedMonthCol,
		KeywordColumn{Keywords: []string{"mes", "month"}, Whole: true},
		KeywordColumn{Keywords: []string{"mes"}, Exclude: []string{"meta"}},
	)
	yearCol := LocateColumn(g, header, simplifiedYearCol,
		KeywordColumn{Keywords: []string{"ano", "year"}, Whole: true},
	)
	goalCol := LocateColumn(g, header, simplifiedGoalCol,
		KeywordColumn{Keywords: []string{"meta", "goal", "objetivo"}},
	)
	revenueCol := LocateColumn(g, header, simplifiedRevenueCol,
		KeywordColumn{
			Keywords: []string{"faturamento", "receita", "realizado", "revenue", "vendas", "valor"},
			Exclude:  []string{"meta"},
			Skip:     map[int]bool{monthCol: true, yearCol: true, goalCol: true},
		},
	)

	for r := header + 1; r < len(g); r++ {
		month, ok := ParseMonthLabel(g.At(r, monthCol))
		if !ok {
			p.logger.Debug("linha ignorada: mês inválido", zap.String("sheet", sheet.Name), zap.Int("row", r+1))
			continue
		}
		year, ok := ParseYear(g.At(r, yearCol))
		if !ok {
			p.logger.Debug("linha ignorada: ano inválido", zap.String("sheet", sheet.Name), zap.Int("row", r+1))
			continue
		}
		revenue, _ := ParseAmount(g.At(r, revenueCol))
		goal, _ := ParseAmount(g.At(r, goalCol))
		rec := domain.MonthlyRecord{Month: month, Year: year, Revenue: nonNegative(revenue), Goal: nonNegative(goal)}

		switch p.cutoff.classify(year, month.Number()) {
		case periodCurrent:
			current = append(current, rec)
		case periodHistorical:
			historical = append(historical, rec)
		}
	}
	return historical, current
}

func (p *simplifiedParser) parseEquipe(sheet Sheet) []domain.RosterMember {
	g := sheet.Grid
	header := LocateHeaderRow(g, KeywordHeaderRow(rosterNameKeywords...), DensestHeaderRow(5))
	if header < 0 {
		return nil
	}
	nameCol := LocateColumn(g, header, equipeNameCol, KeywordColumn{Keywords: rosterNameKeywords})
	activeCol := LocateColumn(g, header, -1, KeywordColumn{Keywords: []string{"ativo", "status", "situacao", "active"}})
	goalCol := LocateColumn(g, header, -1, KeywordColumn{Keywords: []string{"meta"}})

	var roster []domain.RosterMember
	for r := header + 1; r < len(g); r++ {
		name := strings.TrimSpace(g.At(r, nameCol).Text)
		if name == "" {
			continue
		}
		if strings.HasPrefix(normalizeText(name), "total") {
			break
		}
		goal, _ := ParseAmount(g.At(r, goalCol))
		roster = append(roster, domain.RosterMember{
			ID:           uuid.NewString(),
			Name:         name,
			Active:       activeCol < 0 || !isNegativeFlag(g.At(r, activeCol)),
			TotalRevenue: decimal.Zero,
			MonthlyGoal:  nonNegative(goal),
			Weeks:        []domain.WeeklyRecord{},
		})
	}
	return roster
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
