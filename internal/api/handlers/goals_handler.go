// internal/api/handlers/goals_handler.go
package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/LuisEduardoPedra/metasVendas/internal/api/responses"
	"github.com/LuisEduardoPedra/metasVendas/internal/core/revenue"
	"github.com/LuisEduardoPedra/metasVendas/internal/core/sales"
	"github.com/gin-gonic/gin"
)

// GoalsHandler expõe metas, faturamento consolidado e importação de vendas.
type GoalsHandler struct {
	sales sales.Service
	now   func() time.Time
}

// NewGoalsHandler cria um novo handler de metas.
func NewGoalsHandler(salesService sales.Service) *GoalsHandler {
	return &GoalsHandler{sales: salesService, now: time.Now}
}

// GetGoals calcula as metas do mês (padrão: mês atual).
func (h *GoalsHandler) GetGoals(c *gin.Context) {
	today := h.now()
	year, err := queryInt(c, "year", today.Year())
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "Ano inválido", err.Error())
		return
	}
	month, err := queryInt(c, "month", int(today.Month()))
	if err != nil || month < 1 || month > 12 {
		responses.Error(c, http.StatusBadRequest, "Mês inválido")
		return
	}

	team, err := h.sales.TeamGoals(c.Request.Context(), year, month)
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Erro ao calcular metas", err.Error())
		return
	}
	responses.Success(c, team)
}

// GetRevenue devolve o faturamento consolidado mês a mês.
func (h *GoalsHandler) GetRevenue(c *gin.Context) {
	today := h.now()
	toYear, err := queryInt(c, "toYear", today.Year())
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "Ano final inválido", err.Error())
		return
	}
	fromYear, err := queryInt(c, "fromYear", toYear-2)
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "Ano inicial inválido", err.Error())
		return
	}
	if fromYear > toYear {
		responses.Error(c, http.StatusBadRequest, "Intervalo de anos inválido", fmt.Sprintf("%d > %d", fromYear, toYear))
		return
	}

	idx, err := h.sales.RevenueIndex(c.Request.Context(), fromYear, toYear)
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Erro ao carregar faturamento", err.Error())
		return
	}
	responses.Success(c, revenue.Points(idx, fromYear, toYear))
}

// HandleSalesImport recebe o CSV de vendas (vendedor;data;valor).
func (h *GoalsHandler) HandleSalesImport(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "Arquivo de vendas (.csv) não encontrado ou inválido")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Não foi possível abrir o arquivo de vendas")
		return
	}
	defer file.Close()

	n, err := h.sales.ImportSales(c.Request.Context(), file)
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Erro ao importar vendas", err.Error())
		return
	}
	responses.Success(c, gin.H{"imported": n})
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	v, err := optionalInt(c.Query(key))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if v == 0 {
		return def, nil
	}
	return v, nil
}
