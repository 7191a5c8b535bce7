// Package kpi deriva os indicadores anuais e de mentoria a partir das séries mensais.
package kpi

import (
	"time"

	"github.com/LuisEduardoPedra/metasVendas/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Calculate soma a série do ano atual, compara com os mesmos meses do ano
// anterior e, se houver data de mentoria, compara antes e depois dela até o corte.
func Calculate(historical, current []domain.MonthlyRecord, mentorship *time.Time, cutoffYear, cutoffMonth int) domain.KPIs {
	currentSeries := domain.FirstPerMonth(current)
	history := domain.FirstPerMonth(historical)

	var k domain.KPIs
	months := make(map[int]bool, len(currentSeries))
	for _, r := range currentSeries {
		k.AnnualGoal = k.AnnualGoal.Add(r.Goal)
		k.AnnualRealized = k.AnnualRealized.Add(r.Revenue)
		months[r.Month.Number()] = true
	}
	for _, r := range history {
		if r.Year == cutoffYear-1 && months[r.Month.Number()] {
			k.PreviousYearRealized = k.PreviousYearRealized.Add(r.Revenue)
		}
	}
	k.GoalAchievementPercent = Percent(k.AnnualRealized, k.AnnualGoal)
	k.YoYGrowthPercent = Growth(k.AnnualRealized, k.PreviousYearRealized)

	if mentorship != nil {
		pre, post := splitAtMentorship(append(history, currentSeries...), *mentorship, domain.PeriodKey{Year: cutoffYear, Month: cutoffMonth})
		growth := Growth(post, pre)
		k.MentorshipPreRevenue = &pre
		k.MentorshipPostRevenue = &post
		k.MentorshipGrowth = &growth
	}
	return k
}

// splitAtMentorship usa granularidade mensal: o mês da data de início já conta como "depois".
func splitAtMentorship(series []domain.MonthlyRecord, start time.Time, cutoff domain.PeriodKey) (pre, post decimal.Decimal) {
	startKey := domain.PeriodKey{Year: start.Year(), Month: int(start.Month())}
	for _, r := range series {
		key := domain.PeriodKey{Year: r.Year, Month: r.Month.Number()}
		switch {
		case key.Before(startKey):
			pre = pre.Add(r.Revenue)
		case !cutoff.Before(key):
			post = post.Add(r.Revenue)
		}
	}
	return pre, post
}

// Percent devolve part/total em %, com uma casa; zero quando total é zero.
func Percent(part, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return part.Div(total).Mul(hundred).Round(1)
}

// Growth devolve a variação percentual de previous para current, com uma casa.
func Growth(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous).Mul(hundred).Round(1)
}
