// Package store implementa a persistência: Firestore para cadastro, usuários e
// faturamento importado; Postgres opcional para as vendas transacionais.
package store

import (
	"errors"
	"fmt"

	"github.com/LuisEduardoPedra/metasVendas/internal/domain"
	"github.com/shopspring/decimal"
)

// ErrNotFound indica que o documento ou registro não existe.
var ErrNotFound = errors.New("registro não encontrado")

// monthlyDocID identifica o faturamento importado de um mês ("2025-03").
func monthlyDocID(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func optionalDecimal(s *string) *decimal.Decimal {
	if s == nil {
		return nil
	}
	d := parseDecimal(*s)
	return &d
}

func optionalString(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

func validStatus(s string) domain.SalespersonStatus {
	switch domain.SalespersonStatus(s) {
	case domain.StatusInactive, domain.StatusOnLeave:
		return domain.SalespersonStatus(s)
	}
	return domain.StatusActive
}
