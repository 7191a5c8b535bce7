package spreadsheet

import "github.com/LuisEduardoPedra/metasVendas/internal/domain"

type periodClass int

const (
	periodExcluded periodClass = iota
	periodCurrent
	periodHistorical
)

// cutoff é o último mês considerado "atual". Meses posteriores no mesmo ano,
// e anos posteriores, ainda não ocorreram e ficam de fora das duas séries.
type cutoff struct {
	month int
	year  int
}

func (c cutoff) key() domain.PeriodKey {
	return domain.PeriodKey{Year: c.year, Month: c.month}
}

func (c cutoff) classify(year, month int) periodClass {
	switch {
	case year > c.year:
		return periodExcluded
	case year == c.year && month > c.month:
		return periodExcluded
	case year == c.year:
		return periodCurrent
	default:
		return periodHistorical
	}
}
