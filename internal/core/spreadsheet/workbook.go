package spreadsheet

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
)

var (
	// ErrUnreadableWorkbook indica um arquivo corrompido ou que não é planilha.
	ErrUnreadableWorkbook = errors.New("arquivo não é uma planilha válida")
	// ErrEmptyWorkbook indica uma planilha sem nenhuma aba legível.
	ErrEmptyWorkbook = errors.New("planilha não possui abas legíveis")
)

// biffMagic é a assinatura OLE2 dos arquivos .xls.
var biffMagic = []byte{0xD0, 0xCF, 0x11, 0xE0}

// Sheet é uma aba já carregada em memória.
type Sheet struct {
	Name string
	Grid Grid
}

// Workbook é a pasta de trabalho carregada, na ordem original das abas.
type Workbook struct {
	Sheets []Sheet
}

// SheetNames devolve os nomes das abas.
func (w *Workbook) SheetNames() []string {
	names := make([]string, 0, len(w.Sheets))
	for _, s := range w.Sheets {
		names = append(names, s.Name)
	}
	return names
}

// Sheet procura uma aba pelo nome, ignorando caixa e acentos.
func (w *Workbook) Sheet(name string) (Sheet, bool) {
	want := normalizeText(name)
	for _, s := range w.Sheets {
		if normalizeText(s.Name) == want {
			return s, true
		}
	}
	return Sheet{}, false
}

// RowCount soma as linhas não vazias de todas as abas.
func (w *Workbook) RowCount() int {
	total := 0
	for _, s := range w.Sheets {
		total += s.Grid.NonEmptyRows()
	}
	return total
}

// LoadWorkbook lê .xlsx com excelize e .xls (BIFF) com xlsReader.
func LoadWorkbook(data []byte, filename string) (*Workbook, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: arquivo vazio", ErrUnreadableWorkbook)
	}

	isBIFF := bytes.HasPrefix(data, biffMagic)
	ext := strings.ToLower(filepath.Ext(filename))

	var wb *Workbook
	var err error
	if isBIFF || ext == ".xls" {
		wb, err = loadXLS(data)
		if err != nil && !isBIFF {
			wb, err = loadXLSX(data)
		}
	} else {
		wb, err = loadXLSX(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableWorkbook, err)
	}
	if len(wb.Sheets) == 0 {
		return nil, ErrEmptyWorkbook
	}
	return wb, nil
}

func loadXLSX(data []byte) (*Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	styles := make(map[int]bool)
	wb := &Workbook{}
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			continue
		}
		grid := make(Grid, len(rows))
		for r, row := range rows {
			cells := make([]Cell, len(row))
			for c, raw := range row {
				cells[c] = classifyXLSXCell(f, name, r, c, raw, styles)
			}
			grid[r] = cells
		}
		wb.Sheets = append(wb.Sheets, Sheet{Name: name, Grid: grid})
	}
	return wb, nil
}

// classifyXLSXCell transforma o valor bruto em célula tipada. Números com
// formato de data viram DateSerial; styles guarda o resultado por estilo.
func classifyXLSXCell(f *excelize.File, sheet string, r, c int, raw string, styles map[int]bool) Cell {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Empty()
	}
	num, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return Text(raw)
	}

	axis, err := excelize.CoordinatesToCellName(c+1, r+1)
	if err != nil {
		return Number(num)
	}
	if typ, err := f.GetCellType(sheet, axis); err == nil {
		switch typ {
		case excelize.CellTypeSharedString, excelize.CellTypeInlineString:
			return Text(raw)
		case excelize.CellTypeDate:
			return DateSerial(num)
		}
	}

	styleID, err := f.GetCellStyle(sheet, axis)
	if err != nil || styleID == 0 {
		return Number(num)
	}
	isDate, seen := styles[styleID]
	if !seen {
		isDate = isDateStyle(f, styleID)
		styles[styleID] = isDate
	}
	if isDate {
		return DateSerial(num)
	}
	return Number(num)
}

func isDateStyle(f *excelize.File, styleID int) bool {
	style, err := f.GetStyle(styleID)
	if err != nil || style == nil {
		return false
	}
	switch {
	case style.NumFmt >= 14 && style.NumFmt <= 22,
		style.NumFmt >= 27 && style.NumFmt <= 36,
		style.NumFmt >= 45 && style.NumFmt <= 47,
		style.NumFmt >= 50 && style.NumFmt <= 58:
		return true
	}
	if style.CustomNumFmt != nil {
		format := strings.ToLower(*style.CustomNumFmt)
		return strings.Contains(format, "yy") || strings.Contains(format, "dd") || strings.Contains(format, "mmm")
	}
	return false
}

func loadXLS(data []byte) (*Workbook, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	wb := &Workbook{}
	for _, sheet := range workbook.GetSheets() {
		var grid Grid
		for _, row := range sheet.GetRows() {
			var cells []Cell
			for _, col := range row.GetCols() {
				raw := strings.TrimSpace(col.GetString())
				if raw == "" {
					cells = append(cells, Empty())
					continue
				}
				if num, err := strconv.ParseFloat(raw, 64); err == nil {
					cells = append(cells, Number(num))
					continue
				}
				cells = append(cells, Text(raw))
			}
			grid = append(grid, cells)
		}
		wb.Sheets = append(wb.Sheets, Sheet{Name: sheet.GetName(), Grid: grid})
	}
	return wb, nil
}
