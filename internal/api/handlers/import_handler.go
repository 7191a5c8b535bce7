// internal/api/handlers/import_handler.go
package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/LuisEduardoPedra/metasVendas/internal/api/responses"
	"github.com/LuisEduardoPedra/metasVendas/internal/core/sales"
	"github.com/LuisEduardoPedra/metasVendas/internal/core/spreadsheet"
	"github.com/LuisEduardoPedra/metasVendas/internal/domain"
	"github.com/gin-gonic/gin"
)

// ImportHandler recebe planilhas de faturamento e equipe.
type ImportHandler struct {
	parser   spreadsheet.Service
	sales    sales.Service
	maxBytes int64
}

// NewImportHandler cria um novo handler de importação.
func NewImportHandler(parser spreadsheet.Service, salesService sales.Service, maxBytes int64) *ImportHandler {
	return &ImportHandler{parser: parser, sales: salesService, maxBytes: maxBytes}
}

type importResponse struct {
	*domain.ImportResult
	Persisted *sales.PersistSummary `json:"persisted,omitempty"`
}

// HandleImport interpreta a planilha enviada e, com persist=true, grava o resultado.
func (h *ImportHandler) HandleImport(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "Arquivo de planilha (.xlsx/.xls) não encontrado ou inválido")
		return
	}
	if h.maxBytes > 0 && fileHeader.Size > h.maxBytes {
		responses.Error(c, http.StatusRequestEntityTooLarge, "Arquivo excede o tamanho máximo permitido")
		return
	}

	opts, err := cutoffOptions(c)
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "Período de corte inválido", err.Error())
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Não foi possível abrir a planilha")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Não foi possível ler a planilha")
		return
	}

	result, err := h.parser.Parse(data, fileHeader.Filename, opts)
	switch {
	case errors.Is(err, spreadsheet.ErrUnreadableWorkbook), errors.Is(err, spreadsheet.ErrEmptyWorkbook):
		responses.Error(c, http.StatusUnprocessableEntity, "Não foi possível ler a planilha", err.Error())
		return
	case err != nil:
		responses.Error(c, http.StatusBadRequest, "Erro ao processar a planilha", err.Error())
		return
	}

	resp := importResponse{ImportResult: result}
	if persist, _ := strconv.ParseBool(c.DefaultPostForm("persist", "false")); persist {
		summary, err := h.sales.PersistImport(c.Request.Context(), result)
		if err != nil {
			responses.Error(c, http.StatusInternalServerError, "Erro ao gravar a importação", err.Error())
			return
		}
		resp.Persisted = &summary
	}
	responses.Success(c, resp)
}

func cutoffOptions(c *gin.Context) (spreadsheet.Options, error) {
	var opts spreadsheet.Options
	var err error
	if opts.CutoffMonth, err = optionalInt(c.PostForm("cutoffMonth")); err != nil {
		return opts, fmt.Errorf("cutoffMonth: %w", err)
	}
	if opts.CutoffYear, err = optionalInt(c.PostForm("cutoffYear")); err != nil {
		return opts, fmt.Errorf("cutoffYear: %w", err)
	}
	return opts, nil
}

func optionalInt(v string) (int, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}
