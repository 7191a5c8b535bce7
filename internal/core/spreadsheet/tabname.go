package spreadsheet

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/LuisEduardoPedra/metasVendas/internal/domain"
)

var tabNameRegex = regexp.MustCompile(`^([a-z]{3,})[\s\-/_]+(\d{2,4})$`)

// ParseTabName interpreta nomes de aba como "Dez-25" ou "dezembro/2025".
// Devolve false para nomes que não representam um mês.
func ParseTabName(name string) (domain.PeriodKey, bool) {
	m := tabNameRegex.FindStringSubmatch(normalizeText(name))
	if m == nil {
		return domain.PeriodKey{}, false
	}

	month := resolveMonthToken(m[1])
	if month == 0 {
		return domain.PeriodKey{}, false
	}

	var year int
	switch len(m[2]) {
	case 2:
		yy, _ := strconv.Atoi(m[2])
		year = 2000 + yy
	case 4:
		year, _ = strconv.Atoi(m[2])
	default:
		return domain.PeriodKey{}, false
	}
	return domain.PeriodKey{Year: year, Month: month}, true
}

// resolveMonthToken: abreviação de 3 letras, nome completo, prefixo de 4 letras.
func resolveMonthToken(token string) int {
	for i, abbr := range monthAbbrevs {
		if strings.HasPrefix(token, abbr) {
			return i + 1
		}
	}
	for i, full := range monthNames {
		if token == full {
			return i + 1
		}
	}
	if len(token) >= 4 {
		for i, full := range monthNames {
			if token[:4] == full[:4] {
				return i + 1
			}
		}
	}
	return 0
}
