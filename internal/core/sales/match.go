package sales

import (
	"strings"

	"github.com/LuisEduardoPedra/metasVendas/internal/core/spreadsheet"
	"github.com/LuisEduardoPedra/metasVendas/internal/domain"
	"github.com/schollz/closestmatch"
)

// Tipos de correspondência entre um nome da planilha e o cadastro.
const (
	MatchExact = "exata"
	MatchFuzzy = "fuzzy"
	MatchNone  = "nao_encontrada"
)

// RosterMatch liga um membro da equipe importada a um vendedor cadastrado.
type RosterMatch struct {
	Member        domain.RosterMember `json:"member"`
	SalespersonID string              `json:"salesperson_id,omitempty"`
	MatchType     string              `json:"match_type"`
}

// nameMatcher procura vendedores pelo nome normalizado, exato e depois aproximado.
type nameMatcher struct {
	byKey map[string]domain.Salesperson
	cm    *closestmatch.ClosestMatch
}

func newNameMatcher(people []domain.Salesperson) *nameMatcher {
	m := &nameMatcher{byKey: make(map[string]domain.Salesperson, len(people))}
	keys := make([]string, 0, len(people))
	for _, sp := range people {
		key := spreadsheet.NormalizeKey(sp.Name)
		if key == "" {
			continue
		}
		if _, dup := m.byKey[key]; !dup {
			keys = append(keys, key)
		}
		m.byKey[key] = sp
	}
	if len(keys) > 0 {
		m.cm = closestmatch.New(keys, []int{3, 4})
	}
	return m
}

func (m *nameMatcher) find(name string) (domain.Salesperson, string) {
	key := spreadsheet.NormalizeKey(name)
	if key == "" {
		return domain.Salesperson{}, MatchNone
	}
	if sp, ok := m.byKey[key]; ok {
		return sp, MatchExact
	}
	if m.cm == nil {
		return domain.Salesperson{}, MatchNone
	}
	// O fuzzy só vale se os nomes tiverem ao menos uma palavra em comum.
	if match := m.cm.Closest(key); match != "" && shareWord(key, match) {
		return m.byKey[match], MatchFuzzy
	}
	return domain.Salesperson{}, MatchNone
}

func shareWord(a, b string) bool {
	words := make(map[string]bool)
	for _, w := range strings.Fields(a) {
		if len(w) > 2 {
			words[w] = true
		}
	}
	for _, w := range strings.Fields(b) {
		if words[w] {
			return true
		}
	}
	return false
}

// MatchRoster associa cada membro da equipe a um vendedor do cadastro.
func MatchRoster(roster []domain.RosterMember, registry []domain.Salesperson) []RosterMatch {
	matcher := newNameMatcher(registry)
	out := make([]RosterMatch, 0, len(roster))
	for _, member := range roster {
		sp, kind := matcher.find(member.Name)
		out = append(out, RosterMatch{Member: member, SalespersonID: sp.ID, MatchType: kind})
	}
	return out
}
