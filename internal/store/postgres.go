package store

import (
	"context"
	"fmt"
	"time"

	"github.com/LuisEduardoPedra/metasVendas/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const salesSchema = `
CREATE TABLE IF NOT EXISTS sales (
	id             TEXT PRIMARY KEY,
	salesperson_id TEXT NOT NULL DEFAULT '',
	salesperson    TEXT NOT NULL,
	amount         NUMERIC(14, 2) NOT NULL,
	sold_at        DATE NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS sales_sold_at_idx ON sales (sold_at);
`

// NewPostgresPool abre o pool de conexões a partir da DATABASE_URL.
func NewPostgresPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL não configurada")
	}
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("erro ao interpretar DATABASE_URL: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("erro ao conectar ao Postgres: %w", err)
	}
	return pool, nil
}

// PostgresSales guarda as vendas transacionais em Postgres.
type PostgresSales struct {
	pool *pgxpool.Pool
}

// NewPostgresSales cria o repositório de vendas.
func NewPostgresSales(pool *pgxpool.Pool) *PostgresSales {
	return &PostgresSales{pool: pool}
}

// Migrate cria a tabela de vendas se ela ainda não existir.
func (r *PostgresSales) Migrate(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, salesSchema); err != nil {
		return fmt.Errorf("erro ao criar tabela de vendas: %w", err)
	}
	return nil
}

// ListSales devolve as vendas com data entre 1º/jan de fromYear e 31/dez de toYear.
func (r *PostgresSales) ListSales(ctx context.Context, fromYear, toYear int) ([]domain.Sale, error) {
	start := time.Date(fromYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(toYear+1, time.January, 1, 0, 0, 0, 0, time.UTC)

	rows, err := r.pool.Query(ctx, `
		SELECT id, salesperson_id, salesperson, amount::text, sold_at
		FROM sales
		WHERE sold_at >= $1 AND sold_at < $2
		ORDER BY sold_at, id`, start, end)
	if err != nil {
		return nil, fmt.Errorf("erro ao consultar vendas: %w", err)
	}
	defer rows.Close()

	var out []domain.Sale
	for rows.Next() {
		var s domain.Sale
		var amount string
		if err := rows.Scan(&s.ID, &s.SalespersonID, &s.Salesperson, &amount, &s.Date); err != nil {
			return nil, fmt.Errorf("erro ao ler venda: %w", err)
		}
		s.Amount = parseDecimal(amount)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao ler vendas: %w", err)
	}
	return out, nil
}

// SaveSales insere as vendas em lote; IDs repetidos são ignorados.
func (r *PostgresSales) SaveSales(ctx context.Context, sales []domain.Sale) error {
	batch := &pgx.Batch{}
	for _, s := range sales {
		batch.Queue(`
			INSERT INTO sales (id, salesperson_id, salesperson, amount, sold_at)
			VALUES ($1, $2, $3, $4::numeric, $5)
			ON CONFLICT (id) DO NOTHING`,
			s.ID, s.SalespersonID, s.Salesperson, s.Amount.String(), s.Date)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()
	for range sales {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("erro ao gravar vendas: %w", err)
		}
	}
	return nil
}
