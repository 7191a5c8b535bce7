// Package sales é a camada de acesso a dados usada pelo agregador e pelo motor de metas.
// Os snapshots carregados ficam em memória por um TTL; escritas invalidam o cache.
package sales

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/LuisEduardoPedra/metasVendas/internal/core/goals"
	"github.com/LuisEduardoPedra/metasVendas/internal/core/revenue"
	"github.com/LuisEduardoPedra/metasVendas/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SalesStore guarda as vendas transacionais.
type SalesStore interface {
	ListSales(ctx context.Context, fromYear, toYear int) ([]domain.Sale, error)
	SaveSales(ctx context.Context, sales []domain.Sale) error
}

// SalespersonRegistry é o cadastro de vendedores.
type SalespersonRegistry interface {
	ListSalespeople(ctx context.Context) ([]domain.Salesperson, error)
	CreateSalesperson(ctx context.Context, sp domain.Salesperson) error
}

// ImportStore guarda o faturamento mensal importado de planilhas, um registro por (ano, mês).
type ImportStore interface {
	ListMonthlyData(ctx context.Context) ([]domain.MonthlyRecord, error)
	SaveMonthlyData(ctx context.Context, records []domain.MonthlyRecord) error
}

// PersistSummary resume o que uma importação gravou.
type PersistSummary struct {
	MonthlyRecords int           `json:"monthly_records"`
	Matches        []RosterMatch `json:"matches"`
	Created        int           `json:"created"`
}

// Service define a interface da camada de dados de vendas.
type Service interface {
	RevenueIndex(ctx context.Context, fromYear, toYear int) (domain.RevenueIndex, error)
	TeamGoals(ctx context.Context, year, month int) (goals.TeamGoals, error)
	ImportSales(ctx context.Context, r io.Reader) (int, error)
	PersistImport(ctx context.Context, result *domain.ImportResult) (PersistSummary, error)
	Invalidate()
}

type entry[T any] struct {
	value   T
	expires time.Time
}

type yearRange struct{ from, to int }

type service struct {
	sales    SalesStore
	registry SalespersonRegistry
	imports  ImportStore
	engine   *goals.Engine
	logger   *zap.Logger
	ttl      time.Duration
	now      func() time.Time

	mu          sync.Mutex
	salesCache  map[yearRange]entry[[]domain.Sale]
	peopleCache *entry[[]domain.Salesperson]
	importCache *entry[[]domain.MonthlyRecord]
}

// NewService cria a camada de dados. ttl <= 0 desliga o cache.
func NewService(sales SalesStore, registry SalespersonRegistry, imports ImportStore, engine *goals.Engine, ttl time.Duration, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{
		sales:      sales,
		registry:   registry,
		imports:    imports,
		engine:     engine,
		logger:     logger,
		ttl:        ttl,
		now:        time.Now,
		salesCache: make(map[yearRange]entry[[]domain.Sale]),
	}
}

func (svc *service) Invalidate() {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.salesCache = make(map[yearRange]entry[[]domain.Sale])
	svc.peopleCache = nil
	svc.importCache = nil
}

func (svc *service) fresh(expires time.Time) bool {
	return svc.ttl > 0 && svc.now().Before(expires)
}

func (svc *service) loadSales(ctx context.Context, fromYear, toYear int) ([]domain.Sale, error) {
	key := yearRange{from: fromYear, to: toYear}
	svc.mu.Lock()
	if e, ok := svc.salesCache[key]; ok && svc.fresh(e.expires) {
		svc.mu.Unlock()
		return e.value, nil
	}
	svc.mu.Unlock()

	list, err := svc.sales.ListSales(ctx, fromYear, toYear)
	if err != nil {
		return nil, fmt.Errorf("erro ao carregar vendas: %w", err)
	}
	svc.mu.Lock()
	svc.salesCache[key] = entry[[]domain.Sale]{value: list, expires: svc.now().Add(svc.ttl)}
	svc.mu.Unlock()
	return list, nil
}

func (svc *service) loadSalespeople(ctx context.Context) ([]domain.Salesperson, error) {
	svc.mu.Lock()
	if e := svc.peopleCache; e != nil && svc.fresh(e.expires) {
		svc.mu.Unlock()
		return e.value, nil
	}
	svc.mu.Unlock()

	list, err := svc.registry.ListSalespeople(ctx)
	if err != nil {
		return nil, fmt.Errorf("erro ao carregar vendedores: %w", err)
	}
	svc.mu.Lock()
	svc.peopleCache = &entry[[]domain.Salesperson]{value: list, expires: svc.now().Add(svc.ttl)}
	svc.mu.Unlock()
	return list, nil
}

func (svc *service) loadMonthlyData(ctx context.Context) ([]domain.MonthlyRecord, error) {
	svc.mu.Lock()
	if e := svc.importCache; e != nil && svc.fresh(e.expires) {
		svc.mu.Unlock()
		return e.value, nil
	}
	svc.mu.Unlock()

	list, err := svc.imports.ListMonthlyData(ctx)
	if err != nil {
		return nil, fmt.Errorf("erro ao carregar faturamento importado: %w", err)
	}
	svc.mu.Lock()
	svc.importCache = &entry[[]domain.MonthlyRecord]{value: list, expires: svc.now().Add(svc.ttl)}
	svc.mu.Unlock()
	return list, nil
}

// RevenueIndex junta o faturamento importado com as vendas do intervalo de anos.
func (svc *service) RevenueIndex(ctx context.Context, fromYear, toYear int) (domain.RevenueIndex, error) {
	imported, err := svc.loadMonthlyData(ctx)
	if err != nil {
		return nil, err
	}
	salesList, err := svc.loadSales(ctx, fromYear, toYear)
	if err != nil {
		return nil, err
	}
	return revenue.BuildIndex(imported, nil, salesList), nil
}

// TeamGoals calcula as metas do mês a partir do ano anterior e do cadastro.
func (svc *service) TeamGoals(ctx context.Context, year, month int) (goals.TeamGoals, error) {
	idx, err := svc.RevenueIndex(ctx, year-1, year)
	if err != nil {
		return goals.TeamGoals{}, err
	}
	people, err := svc.loadSalespeople(ctx)
	if err != nil {
		return goals.TeamGoals{}, err
	}
	return svc.engine.CalculateTeam(people, idx, year, month), nil
}

// ImportSales lê o CSV, liga cada venda a um vendedor cadastrado quando possível e grava.
func (svc *service) ImportSales(ctx context.Context, r io.Reader) (int, error) {
	list, err := ImportCSV(r)
	if err != nil {
		return 0, err
	}
	if len(list) == 0 {
		return 0, nil
	}

	people, err := svc.loadSalespeople(ctx)
	if err != nil {
		return 0, err
	}
	matcher := newNameMatcher(people)
	for i := range list {
		if sp, kind := matcher.find(list[i].Salesperson); kind != MatchNone {
			list[i].SalespersonID = sp.ID
		}
	}

	if err := svc.sales.SaveSales(ctx, list); err != nil {
		return 0, fmt.Errorf("erro ao gravar vendas: %w", err)
	}
	svc.Invalidate()
	svc.logger.Info("vendas importadas", zap.Int("count", len(list)))
	return len(list), nil
}

// PersistImport grava as séries mensais e cadastra os membros ativos da equipe
// ainda desconhecidos, com admissão no primeiro dia do mês de corte.
func (svc *service) PersistImport(ctx context.Context, result *domain.ImportResult) (PersistSummary, error) {
	records := append(append([]domain.MonthlyRecord{}, result.HistoricalData...), domain.FirstPerMonth(result.CurrentYearData)...)
	if err := svc.imports.SaveMonthlyData(ctx, records); err != nil {
		return PersistSummary{}, fmt.Errorf("erro ao gravar faturamento importado: %w", err)
	}
	summary := PersistSummary{MonthlyRecords: len(records)}
	defer svc.Invalidate()

	people, err := svc.loadSalespeople(ctx)
	if err != nil {
		return summary, err
	}
	summary.Matches = MatchRoster(result.Team, people)

	hireDate := time.Date(result.CutoffYear, time.Month(result.CutoffMonth), 1, 0, 0, 0, 0, time.UTC)
	for i, m := range summary.Matches {
		if m.MatchType != MatchNone || !m.Member.Active {
			continue
		}
		sp := domain.Salesperson{
			ID:       uuid.NewString(),
			Name:     m.Member.Name,
			HireDate: hireDate,
			Status:   domain.StatusActive,
		}
		if err := svc.registry.CreateSalesperson(ctx, sp); err != nil {
			return summary, fmt.Errorf("erro ao cadastrar vendedor %q: %w", sp.Name, err)
		}
		summary.Matches[i].SalespersonID = sp.ID
		summary.Created++
	}
	svc.logger.Info("importação persistida",
		zap.Int("monthly_records", summary.MonthlyRecords),
		zap.Int("created", summary.Created))
	return summary, nil
}
