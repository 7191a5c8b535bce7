package spreadsheet

import (
	"fmt"
	"sort"
	"time"

	"github.com/LuisEduardoPedra/metasVendas/internal/core/kpi"
	"github.com/LuisEduardoPedra/metasVendas/internal/domain"
	"go.uber.org/zap"
)

// Options seleciona o mês de corte. Zero significa "mês/ano atual".
type Options struct {
	CutoffMonth int
	CutoffYear  int
}

// Service define a interface do serviço de importação de planilhas.
type Service interface {
	Parse(data []byte, filename string, opts Options) (*domain.ImportResult, error)
}

type service struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewService cria uma nova instância do serviço de importação.
func NewService(logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{logger: logger, now: time.Now}
}

func (svc *service) resolveOptions(opts Options) (cutoff, error) {
	today := svc.now()
	if opts.CutoffMonth == 0 {
		opts.CutoffMonth = int(today.Month())
	}
	if opts.CutoffYear == 0 {
		opts.CutoffYear = today.Year()
	}
	if opts.CutoffMonth < 1 || opts.CutoffMonth > 12 {
		return cutoff{}, fmt.Errorf("mês de corte inválido: %d", opts.CutoffMonth)
	}
	if opts.CutoffYear < 2000 || opts.CutoffYear > 2100 {
		return cutoff{}, fmt.Errorf("ano de corte inválido: %d", opts.CutoffYear)
	}
	return cutoff{month: opts.CutoffMonth, year: opts.CutoffYear}, nil
}

// Parse lê a planilha, detecta o dialeto e devolve as séries, a equipe e os KPIs.
// Só um arquivo ilegível gera erro; linhas e abas inválidas são ignoradas.
func (svc *service) Parse(data []byte, filename string, opts Options) (*domain.ImportResult, error) {
	co, err := svc.resolveOptions(opts)
	if err != nil {
		return nil, err
	}

	wb, err := LoadWorkbook(data, filename)
	if err != nil {
		svc.logger.Warn("falha ao ler planilha", zap.String("filename", filename), zap.Error(err))
		return nil, err
	}

	format := DetectFormat(wb.SheetNames())
	logger := svc.logger.With(zap.String("filename", filename), zap.String("format", string(format)))

	var parsed parsedWorkbook
	switch format {
	case domain.FormatSimplifiedTemplate:
		parsed = (&simplifiedParser{logger: logger, cutoff: co}).parse(wb)
	default:
		parsed = (&legacyParser{logger: logger, cutoff: co}).parse(wb)
	}

	result := &domain.ImportResult{
		Format:              format,
		SheetNames:          wb.SheetNames(),
		RowCount:            wb.RowCount(),
		KPIs:                kpi.Calculate(parsed.historical, parsed.current, parsed.mentorship, co.year, co.month),
		HistoricalData:      nonNilRecords(parsed.historical),
		CurrentYearData:     nonNilRecords(parsed.current),
		Team:                parsed.roster,
		RosterTab:           parsed.rosterTab,
		Years:               observedYears(parsed.historical, parsed.current),
		MentorshipStartDate: parsed.mentorship,
		CutoffMonth:         co.month,
		CutoffYear:          co.year,
	}
	if result.Team == nil {
		result.Team = []domain.RosterMember{}
	}

	logger.Info("planilha importada",
		zap.Int("historical", len(result.HistoricalData)),
		zap.Int("current", len(result.CurrentYearData)),
		zap.Int("team", len(result.Team)))
	return result, nil
}

func observedYears(series ...[]domain.MonthlyRecord) []int {
	seen := make(map[int]bool)
	years := []int{}
	for _, s := range series {
		for _, r := range s {
			if !seen[r.Year] {
				seen[r.Year] = true
				years = append(years, r.Year)
			}
		}
	}
	sort.Ints(years)
	return years
}

func nonNilRecords(records []domain.MonthlyRecord) []domain.MonthlyRecord {
	if records == nil {
		return []domain.MonthlyRecord{}
	}
	return records
}
