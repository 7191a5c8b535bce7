// Package revenue consolida o faturamento importado e o transacional em um índice mensal.
package revenue

import (
	"sort"

	"github.com/LuisEduardoPedra/metasVendas/internal/domain"
	"github.com/shopspring/decimal"
)

// BuildIndex aplica, em ordem de prioridade crescente: histórico importado,
// ano atual importado (primeira observação de cada mês) e vendas transacionais
// somadas por mês. Cada fonte sobrescreve as anteriores no mesmo (ano, mês).
func BuildIndex(historical, current []domain.MonthlyRecord, sales []domain.Sale) domain.RevenueIndex {
	idx := make(domain.RevenueIndex)
	for _, r := range historical {
		if key, ok := recordKey(r); ok {
			idx[key] = r.Revenue
		}
	}
	for _, r := range domain.FirstPerMonth(current) {
		if key, ok := recordKey(r); ok {
			idx[key] = r.Revenue
		}
	}
	for key, total := range SumByMonth(sales) {
		idx[key] = total
	}
	return idx
}

// SumByMonth agrupa as vendas pelo mês do calendário da data da venda.
func SumByMonth(sales []domain.Sale) map[domain.PeriodKey]decimal.Decimal {
	totals := make(map[domain.PeriodKey]decimal.Decimal)
	for _, s := range sales {
		if s.Date.IsZero() {
			continue
		}
		key := domain.PeriodKey{Year: s.Date.Year(), Month: int(s.Date.Month())}
		totals[key] = totals[key].Add(s.Amount)
	}
	return totals
}

// Points devolve o índice em ordem cronológica, opcionalmente limitado a [fromYear, toYear].
// Zero em qualquer limite significa sem limite.
func Points(idx domain.RevenueIndex, fromYear, toYear int) []domain.RevenuePoint {
	points := make([]domain.RevenuePoint, 0, len(idx))
	for key, v := range idx {
		if fromYear != 0 && key.Year < fromYear || toYear != 0 && key.Year > toYear {
			continue
		}
		points = append(points, domain.RevenuePoint{Year: key.Year, Month: key.Month, Revenue: v})
	}
	sort.Slice(points, func(i, j int) bool {
		a := domain.PeriodKey{Year: points[i].Year, Month: points[i].Month}
		return a.Before(domain.PeriodKey{Year: points[j].Year, Month: points[j].Month})
	})
	return points
}

func recordKey(r domain.MonthlyRecord) (domain.PeriodKey, bool) {
	month := r.Month.Number()
	if month == 0 {
		return domain.PeriodKey{}, false
	}
	return domain.PeriodKey{Year: r.Year, Month: month}, true
}
