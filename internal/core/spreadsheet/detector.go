package spreadsheet

import "github.com/LuisEduardoPedra/metasVendas/internal/domain"

const (
	historicoSheet = "historico"
	equipeSheet    = "equipe"
	geralSheet     = "geral"
)

// DetectFormat classifica a pasta de trabalho pelo nome das abas.
// Uma aba "Historico"/"Histórico" indica o modelo simplificado.
func DetectFormat(sheetNames []string) domain.WorkbookFormat {
	for _, name := range sheetNames {
		if normalizeText(name) == historicoSheet {
			return domain.FormatSimplifiedTemplate
		}
	}
	return domain.FormatLegacy
}
