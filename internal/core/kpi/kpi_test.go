package kpi

import (
	"testing"
	"time"

	"github.com/LuisEduardoPedra/metasVendas/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func rec(month domain.MonthLabel, year int, revenue, goal string) domain.MonthlyRecord {
	return domain.MonthlyRecord{Month: month, Year: year, Revenue: d(revenue), Goal: d(goal)}
}

func TestCalculateAnnualAndYoY(t *testing.T) {
	historical := []domain.MonthlyRecord{
		rec("Jan", 2024, "100", "0"),
		rec("Fev", 2024, "200", "0"),
		rec("Mar", 2024, "900", "0"),
		rec("Jan", 2023, "50", "0"),
	}
	current := []domain.MonthlyRecord{
		rec("Jan", 2025, "150", "120"),
		rec("Fev", 2025, "220", "240"),
		rec("Fev", 2025, "999", "999"),
	}

	k := Calculate(historical, current, nil, 2025, 2)

	assert.True(t, k.AnnualGoal.Equal(d("360")), "meta = %s", k.AnnualGoal)
	assert.True(t, k.AnnualRealized.Equal(d("370")), "realizado = %s", k.AnnualRealized)
	assert.True(t, k.PreviousYearRealized.Equal(d("300")), "ano anterior = %s", k.PreviousYearRealized)
	assert.True(t, k.YoYGrowthPercent.Equal(d("23.3")), "crescimento = %s", k.YoYGrowthPercent)
	assert.True(t, k.GoalAchievementPercent.Equal(d("102.8")), "atingimento = %s", k.GoalAchievementPercent)
	assert.Nil(t, k.MentorshipGrowth)
}

func TestCalculateWithoutPreviousYear(t *testing.T) {
	k := Calculate(nil, []domain.MonthlyRecord{rec("Jan", 2025, "100", "0")}, nil, 2025, 1)
	assert.True(t, k.YoYGrowthPercent.IsZero())
	assert.True(t, k.GoalAchievementPercent.IsZero())
}

func TestCalculateMentorship(t *testing.T) {
	start := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	historical := []domain.MonthlyRecord{
		rec("Jan", 2024, "100", "0"),
		rec("Fev", 2024, "100", "0"),
		rec("Mar", 2024, "150", "0"),
		rec("Dez", 2024, "150", "0"),
	}
	current := []domain.MonthlyRecord{
		rec("Jan", 2025, "200", "0"),
		rec("Fev", 2025, "500", "0"),
	}

	k := Calculate(historical, current, &start, 2025, 1)

	require.NotNil(t, k.MentorshipPreRevenue)
	require.NotNil(t, k.MentorshipPostRevenue)
	require.NotNil(t, k.MentorshipGrowth)
	assert.True(t, k.MentorshipPreRevenue.Equal(d("200")))
	// Fev/2025 fica depois do corte.
	assert.True(t, k.MentorshipPostRevenue.Equal(d("500")), "depois = %s", k.MentorshipPostRevenue)
	assert.True(t, k.MentorshipGrowth.Equal(d("150")))
}

func TestPercentRounding(t *testing.T) {
	assert.True(t, Percent(d("1"), d("3")).Equal(d("33.3")))
	assert.True(t, Growth(d("2"), d("3")).Equal(d("-33.3")))
	assert.True(t, Percent(d("1"), decimal.Zero).IsZero())
}
