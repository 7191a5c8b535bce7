package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/LuisEduardoPedra/metasVendas/internal/domain"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
)

// Coleções do Firestore.
const (
	usersCollection       = "users"
	salespeopleCollection = "salespeople"
	salesCollection       = "sales"
	monthlyCollection     = "monthly_data"
)

// NewFirestoreClient abre o cliente do banco informado.
func NewFirestoreClient(ctx context.Context, projectID, databaseID string) (*firestore.Client, error) {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, fmt.Errorf("erro ao inicializar cliente Firestore para o banco '%s': %w", databaseID, err)
	}
	return client, nil
}

// userDoc representa a estrutura de um usuário no Firestore.
type userDoc struct {
	Username     string   `firestore:"username"`
	PasswordHash string   `firestore:"passwordHash"`
	Roles        []string `firestore:"roles"`
}

type salespersonDoc struct {
	Name                string     `firestore:"name"`
	HireDate            time.Time  `firestore:"hireDate"`
	TerminationDate     *time.Time `firestore:"terminationDate"`
	Status              string     `firestore:"status"`
	GoalOverridePercent *string    `firestore:"goalOverridePercent"`
	GoalOverrideValue   *string    `firestore:"goalOverrideValue"`
}

type saleDoc struct {
	SalespersonID string    `firestore:"salespersonId"`
	Salesperson   string    `firestore:"salesperson"`
	Amount        string    `firestore:"amount"`
	Date          time.Time `firestore:"date"`
}

type monthlyDoc struct {
	Year      int       `firestore:"year"`
	Month     int       `firestore:"month"`
	Revenue   string    `firestore:"revenue"`
	Goal      string    `firestore:"goal"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

// Firestore implementa usuários, cadastro de vendedores, vendas e faturamento importado.
type Firestore struct {
	db     *firestore.Client
	logger *zap.Logger
}

// NewFirestore cria o repositório sobre um cliente já aberto.
func NewFirestore(db *firestore.Client, logger *zap.Logger) *Firestore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Firestore{db: db, logger: logger}
}

// FindUser busca o usuário pelo username; ErrNotFound se não existir.
func (s *Firestore) FindUser(ctx context.Context, username string) (domain.User, error) {
	iter := s.db.Collection(usersCollection).Where("username", "==", username).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if errors.Is(err, iterator.Done) {
		return domain.User{}, ErrNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("erro ao consultar usuário: %w", err)
	}
	var u userDoc
	if err := doc.DataTo(&u); err != nil {
		return domain.User{}, fmt.Errorf("erro ao ler dados do usuário: %w", err)
	}
	return domain.User{Username: u.Username, PasswordHash: u.PasswordHash, Roles: u.Roles}, nil
}

// ListSalespeople devolve todo o cadastro.
func (s *Firestore) ListSalespeople(ctx context.Context) ([]domain.Salesperson, error) {
	iter := s.db.Collection(salespeopleCollection).Documents(ctx)
	defer iter.Stop()

	var out []domain.Salesperson
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("erro ao listar vendedores: %w", err)
		}
		var sp salespersonDoc
		if err := doc.DataTo(&sp); err != nil {
			s.logger.Warn("vendedor ignorado", zap.String("id", doc.Ref.ID), zap.Error(err))
			continue
		}
		out = append(out, fromSalespersonDoc(doc.Ref.ID, sp))
	}
	return out, nil
}

// CreateSalesperson grava um novo vendedor com o ID informado.
func (s *Firestore) CreateSalesperson(ctx context.Context, sp domain.Salesperson) error {
	if _, err := s.db.Collection(salespeopleCollection).Doc(sp.ID).Create(ctx, toSalespersonDoc(sp)); err != nil {
		return fmt.Errorf("erro ao criar vendedor: %w", err)
	}
	return nil
}

// ListSales devolve as vendas com data entre 1º/jan de fromYear e 31/dez de toYear.
func (s *Firestore) ListSales(ctx context.Context, fromYear, toYear int) ([]domain.Sale, error) {
	start := time.Date(fromYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(toYear+1, time.January, 1, 0, 0, 0, 0, time.UTC)
	iter := s.db.Collection(salesCollection).
		Where("date", ">=", start).
		Where("date", "<", end).
		Documents(ctx)
	defer iter.Stop()

	var out []domain.Sale
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("erro ao listar vendas: %w", err)
		}
		var sd saleDoc
		if err := doc.DataTo(&sd); err != nil {
			s.logger.Warn("venda ignorada", zap.String("id", doc.Ref.ID), zap.Error(err))
			continue
		}
		out = append(out, fromSaleDoc(doc.Ref.ID, sd))
	}
	return out, nil
}

// SaveSales grava as vendas com o BulkWriter.
func (s *Firestore) SaveSales(ctx context.Context, sales []domain.Sale) error {
	bw := s.db.BulkWriter(ctx)
	col := s.db.Collection(salesCollection)
	jobs := make([]*firestore.BulkWriterJob, 0, len(sales))
	for _, sale := range sales {
		job, err := bw.Set(col.Doc(sale.ID), toSaleDoc(sale))
		if err != nil {
			bw.End()
			return fmt.Errorf("erro ao gravar venda %s: %w", sale.ID, err)
		}
		jobs = append(jobs, job)
	}
	bw.End()
	return jobErrors(jobs, "erro ao gravar vendas")
}

// ListMonthlyData devolve o faturamento importado, um documento por mês.
func (s *Firestore) ListMonthlyData(ctx context.Context) ([]domain.MonthlyRecord, error) {
	iter := s.db.Collection(monthlyCollection).Documents(ctx)
	defer iter.Stop()

	var out []domain.MonthlyRecord
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("erro ao listar faturamento importado: %w", err)
		}
		var md monthlyDoc
		if err := doc.DataTo(&md); err != nil {
			s.logger.Warn("mês ignorado", zap.String("id", doc.Ref.ID), zap.Error(err))
			continue
		}
		if rec, ok := fromMonthlyDoc(md); ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

// SaveMonthlyData sobrescreve o documento de cada (ano, mês).
func (s *Firestore) SaveMonthlyData(ctx context.Context, records []domain.MonthlyRecord) error {
	bw := s.db.BulkWriter(ctx)
	col := s.db.Collection(monthlyCollection)
	now := time.Now()
	jobs := make([]*firestore.BulkWriterJob, 0, len(records))
	for _, r := range records {
		doc := toMonthlyDoc(r, now)
		job, err := bw.Set(col.Doc(monthlyDocID(doc.Year, doc.Month)), doc)
		if err != nil {
			bw.End()
			return fmt.Errorf("erro ao gravar faturamento de %s/%d: %w", r.Month, r.Year, err)
		}
		jobs = append(jobs, job)
	}
	bw.End()
	return jobErrors(jobs, "erro ao gravar faturamento importado")
}

// jobErrors devolve a primeira falha dos jobs já encerrados com End.
func jobErrors(jobs []*firestore.BulkWriterJob, msg string) error {
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			return fmt.Errorf("%s: %w", msg, err)
		}
	}
	return nil
}

func toSalespersonDoc(sp domain.Salesperson) salespersonDoc {
	return salespersonDoc{
		Name:                sp.Name,
		HireDate:            sp.HireDate,
		TerminationDate:     sp.TerminationDate,
		Status:              string(sp.Status),
		GoalOverridePercent: optionalString(sp.GoalOverridePercent),
		GoalOverrideValue:   optionalString(sp.GoalOverrideValue),
	}
}

func fromSalespersonDoc(id string, d salespersonDoc) domain.Salesperson {
	return domain.Salesperson{
		ID:                  id,
		Name:                d.Name,
		HireDate:            d.HireDate,
		TerminationDate:     d.TerminationDate,
		Status:              validStatus(d.Status),
		GoalOverridePercent: optionalDecimal(d.GoalOverridePercent),
		GoalOverrideValue:   optionalDecimal(d.GoalOverrideValue),
	}
}

func toSaleDoc(s domain.Sale) saleDoc {
	return saleDoc{SalespersonID: s.SalespersonID, Salesperson: s.Salesperson, Amount: s.Amount.String(), Date: s.Date}
}

func fromSaleDoc(id string, d saleDoc) domain.Sale {
	return domain.Sale{ID: id, SalespersonID: d.SalespersonID, Salesperson: d.Salesperson, Amount: parseDecimal(d.Amount), Date: d.Date}
}

func toMonthlyDoc(r domain.MonthlyRecord, now time.Time) monthlyDoc {
	return monthlyDoc{Year: r.Year, Month: r.Month.Number(), Revenue: r.Revenue.String(), Goal: r.Goal.String(), UpdatedAt: now}
}

func fromMonthlyDoc(d monthlyDoc) (domain.MonthlyRecord, bool) {
	label := domain.LabelForMonth(d.Month)
	if label == "" {
		return domain.MonthlyRecord{}, false
	}
	return domain.MonthlyRecord{Month: label, Year: d.Year, Revenue: parseDecimal(d.Revenue), Goal: parseDecimal(d.Goal)}, true
}
