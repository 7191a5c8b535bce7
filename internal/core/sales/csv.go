package sales

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/LuisEduardoPedra/metasVendas/internal/core/spreadsheet"
	"github.com/LuisEduardoPedra/metasVendas/internal/domain"
	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// saleNamespace gera IDs determinísticos para vendas importadas.
var saleNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:metasvendas:sale"))

// saleRow é uma linha do export de vendas: vendedor;data;valor.
type saleRow struct {
	Salesperson string `csv:"vendedor"`
	Date        string `csv:"data"`
	Amount      string `csv:"valor"`
}

// ImportCSV lê o export de vendas separado por ";". Arquivos em UTF-8 são lidos
// como estão; os demais são decodificados como ISO-8859-1. Linhas sem vendedor,
// com data inválida ou valor não positivo são ignoradas. O ID de cada venda é
// derivado do conteúdo, então reimportar o mesmo arquivo não duplica vendas.
func ImportCSV(r io.Reader) ([]domain.Sale, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler arquivo de vendas: %w", err)
	}
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))

	var in io.Reader = bytes.NewReader(raw)
	if !utf8.Valid(raw) {
		in = transform.NewReader(in, charmap.ISO8859_1.NewDecoder())
	}
	reader := csv.NewReader(in)
	reader.Comma = ';'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows []saleRow
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		return nil, fmt.Errorf("erro ao interpretar CSV de vendas: %w", err)
	}

	sales := make([]domain.Sale, 0, len(rows))
	seen := make(map[string]int)
	for _, row := range rows {
		name := strings.TrimSpace(row.Salesperson)
		if name == "" {
			continue
		}
		date, ok := spreadsheet.ParseDate(spreadsheet.Text(row.Date))
		if !ok {
			continue
		}
		amount, ok := spreadsheet.ParseAmount(spreadsheet.Text(row.Amount))
		if !ok || !amount.IsPositive() {
			continue
		}
		// Vendas idênticas no mesmo arquivo são distinguidas pela ocorrência.
		key := fmt.Sprintf("%s|%s|%s", spreadsheet.NormalizeKey(name), date.Format("2006-01-02"), amount.String())
		seen[key]++
		key = fmt.Sprintf("%s|%d", key, seen[key])
		sales = append(sales, domain.Sale{
			ID:          uuid.NewSHA1(saleNamespace, []byte(key)).String(),
			Salesperson: name,
			Amount:      amount,
			Date:        date,
		})
	}
	return sales, nil
}
