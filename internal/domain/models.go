// internal/domain/models.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthLabel é um dos 12 códigos canônicos de três letras ("Jan" ... "Dez").
type MonthLabel string

// MonthLabels na ordem do calendário. O índice+1 é o número do mês.
var MonthLabels = [12]MonthLabel{"Jan", "Fev", "Mar", "Abr", "Mai", "Jun", "Jul", "Ago", "Set", "Out", "Nov", "Dez"}

// Number devolve 1..12, ou 0 se o rótulo não for canônico.
func (m MonthLabel) Number() int {
	for i, l := range MonthLabels {
		if l == m {
			return i + 1
		}
	}
	return 0
}

// LabelForMonth devolve o rótulo canônico para 1..12.
func LabelForMonth(month int) MonthLabel {
	if month < 1 || month > 12 {
		return ""
	}
	return MonthLabels[month-1]
}

// MonthlyRecord é uma observação de faturamento/meta para um mês.
type MonthlyRecord struct {
	Month   MonthLabel      `json:"month"`
	Year    int             `json:"year"`
	Revenue decimal.Decimal `json:"revenue"`
	Goal    decimal.Decimal `json:"goal"`
}

// WeeklyRecord pertence a um RosterMember em um único mês.
type WeeklyRecord struct {
	Week    int             `json:"week"`
	Revenue decimal.Decimal `json:"revenue"`
	Goal    decimal.Decimal `json:"goal"`
}

// RosterMember é uma linha de equipe lida de uma aba mensal ou da aba "Equipe".
type RosterMember struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Active          bool            `json:"active"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	MonthlyGoal     decimal.Decimal `json:"monthly_goal"`
	Weeks           []WeeklyRecord  `json:"weeks"`
	TotalSalesCount int             `json:"total_sales_count"`
}

// SalespersonStatus define a situação cadastral do vendedor.
type SalespersonStatus string

const (
	StatusActive   SalespersonStatus = "active"
	StatusInactive SalespersonStatus = "inactive"
	StatusOnLeave  SalespersonStatus = "on_leave"
)

// Salesperson vem do cadastro externo de vendedores.
type Salesperson struct {
	ID                  string            `json:"id"`
	Name                string            `json:"name"`
	HireDate            time.Time         `json:"hire_date"`
	TerminationDate     *time.Time        `json:"termination_date,omitempty"`
	Status              SalespersonStatus `json:"status"`
	GoalOverridePercent *decimal.Decimal  `json:"goal_override_percent,omitempty"`
	GoalOverrideValue   *decimal.Decimal  `json:"goal_override_value,omitempty"`
}

// Sale é uma venda transacional (valor, data, vendedor).
type Sale struct {
	ID            string          `json:"id"`
	SalespersonID string          `json:"salesperson_id"`
	Salesperson   string          `json:"salesperson"`
	Amount        decimal.Decimal `json:"amount"`
	Date          time.Time       `json:"date"`
}

// PeriodKey identifica um mês do calendário.
type PeriodKey struct {
	Year  int
	Month int
}

// Before reporta se k é anterior a other.
func (k PeriodKey) Before(other PeriodKey) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	return k.Month < other.Month
}

// RevenueIndex guarda no máximo um valor por (ano, mês).
type RevenueIndex map[PeriodKey]decimal.Decimal

// Get devolve o faturamento do período e se ele existe.
func (idx RevenueIndex) Get(year, month int) (decimal.Decimal, bool) {
	v, ok := idx[PeriodKey{Year: year, Month: month}]
	return v, ok
}

// RevenuePoint é a forma serializável de uma entrada do RevenueIndex.
type RevenuePoint struct {
	Year    int             `json:"year"`
	Month   int             `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
}

// CalculatedGoal é recalculado a cada requisição e nunca persistido.
type CalculatedGoal struct {
	SalespersonID string          `json:"salesperson_id"`
	Name          string          `json:"name"`
	MonthlyGoal   decimal.Decimal `json:"monthly_goal"`
	WeeklyGoal    decimal.Decimal `json:"weekly_goal"`
	DailyGoal     decimal.Decimal `json:"daily_goal"`
	RuleApplied   string          `json:"rule_applied"`
	IsRampUp      bool            `json:"is_ramp_up"`
	RampUpPercent *int            `json:"ramp_up_percent,omitempty"`
	TenureMonths  int             `json:"tenure_months"`
}

// KPIs derivados das séries importadas.
type KPIs struct {
	AnnualGoal             decimal.Decimal  `json:"annual_goal"`
	AnnualRealized         decimal.Decimal  `json:"annual_realized"`
	GoalAchievementPercent decimal.Decimal  `json:"goal_achievement_percent"`
	PreviousYearRealized   decimal.Decimal  `json:"previous_year_realized"`
	YoYGrowthPercent       decimal.Decimal  `json:"yoy_growth_percent"`
	MentorshipPreRevenue   *decimal.Decimal `json:"mentorship_pre_revenue,omitempty"`
	MentorshipPostRevenue  *decimal.Decimal `json:"mentorship_post_revenue,omitempty"`
	MentorshipGrowth       *decimal.Decimal `json:"mentorship_growth_percent,omitempty"`
}

// WorkbookFormat é o dialeto detectado da planilha.
type WorkbookFormat string

const (
	FormatSimplifiedTemplate WorkbookFormat = "simplified_template"
	FormatLegacy             WorkbookFormat = "legacy_format"
)

// ImportResult é a saída de um upload bem-sucedido.
type ImportResult struct {
	Format              WorkbookFormat  `json:"format"`
	SheetNames          []string        `json:"sheet_names"`
	RowCount            int             `json:"row_count"`
	KPIs                KPIs            `json:"kpis"`
	HistoricalData      []MonthlyRecord `json:"historical_data"`
	CurrentYearData     []MonthlyRecord `json:"current_year_data"`
	Team                []RosterMember  `json:"team"`
	RosterTab           string          `json:"roster_tab,omitempty"`
	Years               []int           `json:"years"`
	MentorshipStartDate *time.Time      `json:"mentorship_start_date,omitempty"`
	CutoffMonth         int             `json:"cutoff_month"`
	CutoffYear          int             `json:"cutoff_year"`
}

// FirstPerMonth mantém apenas a primeira observação de cada (ano, mês).
func FirstPerMonth(records []MonthlyRecord) []MonthlyRecord {
	seen := make(map[PeriodKey]bool, len(records))
	out := make([]MonthlyRecord, 0, len(records))
	for _, r := range records {
		k := PeriodKey{Year: r.Year, Month: r.Month.Number()}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, r)
	}
	return out
}

// User é um usuário com acesso à API.
type User struct {
	Username     string   `json:"username"`
	PasswordHash string   `json:"-"`
	Roles        []string `json:"roles"`
}
