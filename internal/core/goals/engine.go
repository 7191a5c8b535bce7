// Package goals distribui a meta mensal da equipe entre os vendedores ativos.
package goals

import (
	"fmt"
	"sort"
	"time"

	"github.com/LuisEduardoPedra/metasVendas/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Config parametriza o motor. Semanas, dias úteis e relógio zerados assumem os padrões.
// GrowthRate zero significa meta sem crescimento; só um valor negativo volta aos 15%.
type Config struct {
	GrowthRate         decimal.Decimal
	WeeksPerMonth      int
	WorkingDaysPerWeek int
	Now                func() time.Time
}

// DefaultConfig: crescimento de 15%, 4 semanas, 5 dias úteis.
func DefaultConfig() Config {
	return Config{
		GrowthRate:         decimal.NewFromFloat(0.15),
		WeeksPerMonth:      4,
		WorkingDaysPerWeek: 5,
		Now:                time.Now,
	}
}

// TeamGoals é a meta da equipe e sua distribuição para um mês.
type TeamGoals struct {
	Year        int                     `json:"year"`
	Month       int                     `json:"month"`
	TeamGoal    decimal.Decimal         `json:"team_goal"`
	ActiveCount int                     `json:"active_count"`
	Distributed decimal.Decimal         `json:"distributed"`
	Goals       []domain.CalculatedGoal `json:"goals"`
}

// Engine calcula metas; é uma função pura do índice, do cadastro e do relógio.
type Engine struct {
	growth      decimal.Decimal
	weeks       decimal.Decimal
	workingDays decimal.Decimal
	now         func() time.Time
}

// NewEngine cria o motor de metas.
func NewEngine(cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.GrowthRate.IsNegative() {
		cfg.GrowthRate = def.GrowthRate
	}
	if cfg.WeeksPerMonth <= 0 {
		cfg.WeeksPerMonth = def.WeeksPerMonth
	}
	if cfg.WorkingDaysPerWeek <= 0 {
		cfg.WorkingDaysPerWeek = def.WorkingDaysPerWeek
	}
	if cfg.Now == nil {
		cfg.Now = def.Now
	}
	return &Engine{
		growth:      cfg.GrowthRate,
		weeks:       decimal.NewFromInt(int64(cfg.WeeksPerMonth)),
		workingDays: decimal.NewFromInt(int64(cfg.WorkingDaysPerWeek)),
		now:         cfg.Now,
	}
}

// TeamGoal é o faturamento do mesmo mês no ano anterior acrescido do crescimento.
// Sem faturamento no ano anterior a meta é zero.
func (e *Engine) TeamGoal(idx domain.RevenueIndex, year, month int) decimal.Decimal {
	prev, ok := idx.Get(year-1, month)
	if !ok || !prev.IsPositive() {
		return decimal.Zero
	}
	return prev.Mul(decimal.NewFromInt(1).Add(e.growth)).Round(2)
}

// Calculate aplica override fixo, override percentual ou cota igual e, por fim, a rampa.
func (e *Engine) Calculate(sp domain.Salesperson, teamGoal decimal.Decimal, activeCount int) domain.CalculatedGoal {
	share := decimal.Zero
	if activeCount > 0 {
		share = teamGoal.Div(decimal.NewFromInt(int64(activeCount)))
	}

	var base decimal.Decimal
	var rule string
	switch {
	case sp.GoalOverrideValue != nil:
		base = *sp.GoalOverrideValue
		rule = "Meta fixa definida manualmente"
	case sp.GoalOverridePercent != nil:
		base = share.Mul(*sp.GoalOverridePercent).Div(hundred)
		rule = fmt.Sprintf("%s%% da cota igualitária da equipe", sp.GoalOverridePercent.String())
	default:
		base = share
		rule = "Cota igualitária da meta da equipe"
	}

	end := e.now()
	if sp.TerminationDate != nil && sp.TerminationDate.Before(end) {
		end = *sp.TerminationDate
	}
	tenure := TenureMonths(sp.HireDate, end)
	percent, isRampUp := RampUp(tenure)

	monthly := base.Mul(decimal.NewFromInt(int64(percent))).Div(hundred).Round(2)
	weekly := monthly.Div(e.weeks).Round(2)
	daily := monthly.Div(e.weeks).Div(e.workingDays).Round(2)

	goal := domain.CalculatedGoal{
		SalespersonID: sp.ID,
		Name:          sp.Name,
		MonthlyGoal:   monthly,
		WeeklyGoal:    weekly,
		DailyGoal:     daily,
		RuleApplied:   rule,
		IsRampUp:      isRampUp,
		TenureMonths:  tenure,
	}
	if isRampUp {
		p := percent
		goal.RampUpPercent = &p
		goal.RuleApplied = fmt.Sprintf("%s + rampa de %d%% (%d meses de casa)", rule, percent, tenure)
	}
	return goal
}

// CalculateTeam calcula a meta de todos os vendedores ativos, ordenados por nome.
func (e *Engine) CalculateTeam(salespeople []domain.Salesperson, idx domain.RevenueIndex, year, month int) TeamGoals {
	active := make([]domain.Salesperson, 0, len(salespeople))
	for _, sp := range salespeople {
		if sp.Status == domain.StatusActive {
			active = append(active, sp)
		}
	}

	team := TeamGoals{
		Year:        year,
		Month:       month,
		TeamGoal:    e.TeamGoal(idx, year, month),
		ActiveCount: len(active),
		Goals:       make([]domain.CalculatedGoal, 0, len(active)),
	}
	for _, sp := range active {
		g := e.Calculate(sp, team.TeamGoal, len(active))
		team.Distributed = team.Distributed.Add(g.MonthlyGoal)
		team.Goals = append(team.Goals, g)
	}
	sort.SliceStable(team.Goals, func(i, j int) bool {
		return team.Goals[i].Name < team.Goals[j].Name
	})
	return team
}

// TenureMonths conta meses completos entre hire e end.
func TenureMonths(hire, end time.Time) int {
	if hire.IsZero() || end.Before(hire) {
		return 0
	}
	months := (end.Year()-hire.Year())*12 + int(end.Month()) - int(hire.Month())
	if end.Day() < hire.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

// RampUp devolve o multiplicador (em %) pelo tempo de casa.
// De 2 a 3 meses o multiplicador já é 100%, mas ainda conta como rampa.
func RampUp(tenureMonths int) (percent int, isRampUp bool) {
	switch {
	case tenureMonths < 1:
		return 50, true
	case tenureMonths < 2:
		return 75, true
	case tenureMonths < 3:
		return 100, true
	default:
		return 100, false
	}
}
