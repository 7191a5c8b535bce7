package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/LuisEduardoPedra/metasVendas/internal/api/middleware"
	"github.com/LuisEduardoPedra/metasVendas/internal/core/auth"
	"github.com/LuisEduardoPedra/metasVendas/internal/core/goals"
	"github.com/LuisEduardoPedra/metasVendas/internal/core/sales"
	"github.com/LuisEduardoPedra/metasVendas/internal/core/spreadsheet"
	"github.com/LuisEduardoPedra/metasVendas/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeParser struct {
	err      error
	lastOpts spreadsheet.Options
	lastName string
}

func (f *fakeParser) Parse(data []byte, filename string, opts spreadsheet.Options) (*domain.ImportResult, error) {
	f.lastOpts, f.lastName = opts, filename
	if f.err != nil {
		return nil, f.err
	}
	return &domain.ImportResult{
		Format:      domain.FormatLegacy,
		SheetNames:  []string{"Geral"},
		Team:        []domain.RosterMember{{Name: "Ana", Active: true}},
		CutoffMonth: opts.CutoffMonth,
		CutoffYear:  opts.CutoffYear,
	}, nil
}

type fakeSalesService struct {
	persisted int
	imported  string
	index     domain.RevenueIndex
	err       error
}

func (f *fakeSalesService) RevenueIndex(context.Context, int, int) (domain.RevenueIndex, error) {
	return f.index, f.err
}

func (f *fakeSalesService) TeamGoals(_ context.Context, year, month int) (goals.TeamGoals, error) {
	if f.err != nil {
		return goals.TeamGoals{}, f.err
	}
	return goals.TeamGoals{Year: year, Month: month, TeamGoal: decimal.NewFromInt(100)}, nil
}

func (f *fakeSalesService) ImportSales(_ context.Context, r io.Reader) (int, error) {
	b, _ := io.ReadAll(r)
	f.imported = string(b)
	return strings.Count(f.imported, "\n") - 1, nil
}

func (f *fakeSalesService) PersistImport(context.Context, *domain.ImportResult) (sales.PersistSummary, error) {
	f.persisted++
	return sales.PersistSummary{MonthlyRecords: 3}, nil
}

func (f *fakeSalesService) Invalidate() {}

type fakeAuth struct{}

func (fakeAuth) Login(_ context.Context, username, password string) (string, error) {
	if username == "gestor" && password == "segredo" {
		return "token-123", nil
	}
	return "", auth.ErrInvalidCredentials
}

var testSecret = []byte("chave-de-teste")

func newRouter(parser spreadsheet.Service, svc sales.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	importHandler := NewImportHandler(parser, svc, 1<<20)
	goalsHandler := NewGoalsHandler(svc)
	goalsHandler.now = func() time.Time { return time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC) }

	r.POST("/login", NewAuthHandler(fakeAuth{}).Login)
	protected := r.Group("/")
	protected.Use(middleware.AuthMiddleware(testSecret))
	protected.POST("/import", importHandler.HandleImport)
	protected.GET("/goals", goalsHandler.GetGoals)
	protected.GET("/revenue", goalsHandler.GetRevenue)
	protected.POST("/sales/import", middleware.PermissionMiddleware("importar"), goalsHandler.HandleSalesImport)
	return r
}

func signedToken(t *testing.T, roles ...string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": "gestor",
		"roles":    roles,
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	s, err := token.SignedString(testSecret)
	require.NoError(t, err)
	return s
}

func multipartBody(t *testing.T, filename, content string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

type envelope struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func do(t *testing.T, r *gin.Engine, req *http.Request, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func TestLogin(t *testing.T) {
	r := newRouter(&fakeParser{}, &fakeSalesService{})

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"gestor","password":"segredo"}`))
	req.Header.Set("Content-Type", "application/json")
	rec, env := do(t, r, req, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"token":"token-123"}`, string(env.Data))

	req = httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"gestor","password":"x"}`))
	rec, env = do(t, r, req, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, env.Success)

	req = httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{}`))
	rec, _ = do(t, r, req, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImportRequiresToken(t *testing.T) {
	r := newRouter(&fakeParser{}, &fakeSalesService{})
	body, ct := multipartBody(t, "metas.xlsx", "x", nil)
	req := httptest.NewRequest(http.MethodPost, "/import", body)
	req.Header.Set("Content-Type", ct)

	rec, env := do(t, r, req, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, env.Success)

	rec, _ = do(t, r, httptest.NewRequest(http.MethodGet, "/goals", nil), "invalido")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleImport(t *testing.T) {
	parser := &fakeParser{}
	svc := &fakeSalesService{}
	r := newRouter(parser, svc)
	token := signedToken(t)

	body, ct := multipartBody(t, "metas.xlsx", "conteudo", map[string]string{"cutoffMonth": "3", "cutoffYear": "2025", "persist": "true"})
	req := httptest.NewRequest(http.MethodPost, "/import", body)
	req.Header.Set("Content-Type", ct)
	rec, env := do(t, r, req, token)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, env.Success)
	assert.Equal(t, spreadsheet.Options{CutoffMonth: 3, CutoffYear: 2025}, parser.lastOpts)
	assert.Equal(t, "metas.xlsx", parser.lastName)
	assert.Equal(t, 1, svc.persisted)

	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "legacy_format", data["format"])
	assert.NotNil(t, data["persisted"])
}

func TestHandleImportErrors(t *testing.T) {
	token := signedToken(t)

	t.Run("planilha ilegível", func(t *testing.T) {
		parser := &fakeParser{err: fmt.Errorf("%w: zip inválido", spreadsheet.ErrUnreadableWorkbook)}
		r := newRouter(parser, &fakeSalesService{})
		body, ct := multipartBody(t, "metas.xlsx", "lixo", nil)
		req := httptest.NewRequest(http.MethodPost, "/import", body)
		req.Header.Set("Content-Type", ct)

		rec, env := do(t, r, req, token)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.False(t, env.Success)
		assert.NotEmpty(t, env.Error)
		assert.Empty(t, env.Data, "falha não devolve dados parciais")
	})

	t.Run("sem arquivo", func(t *testing.T) {
		r := newRouter(&fakeParser{}, &fakeSalesService{})
		body, ct := multipartBody(t, "", "", map[string]string{"cutoffMonth": "3"})
		req := httptest.NewRequest(http.MethodPost, "/import", body)
		req.Header.Set("Content-Type", ct)
		rec, _ := do(t, r, req, token)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("mês de corte não numérico", func(t *testing.T) {
		r := newRouter(&fakeParser{}, &fakeSalesService{})
		body, ct := multipartBody(t, "metas.xlsx", "x", map[string]string{"cutoffMonth": "março"})
		req := httptest.NewRequest(http.MethodPost, "/import", body)
		req.Header.Set("Content-Type", ct)
		rec, _ := do(t, r, req, token)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetGoals(t *testing.T) {
	r := newRouter(&fakeParser{}, &fakeSalesService{})
	token := signedToken(t)

	rec, env := do(t, r, httptest.NewRequest(http.MethodGet, "/goals?year=2025&month=4", nil), token)
	require.Equal(t, http.StatusOK, rec.Code)
	var team goals.TeamGoals
	require.NoError(t, json.Unmarshal(env.Data, &team))
	assert.Equal(t, 2025, team.Year)
	assert.Equal(t, 4, team.Month)

	rec, env = do(t, r, httptest.NewRequest(http.MethodGet, "/goals", nil), token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &team))
	assert.Equal(t, 3, team.Month, "sem parâmetros usa o mês atual")

	rec, _ = do(t, r, httptest.NewRequest(http.MethodGet, "/goals?month=13", nil), token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	failing := newRouter(&fakeParser{}, &fakeSalesService{err: errors.New("indisponível")})
	rec, _ = do(t, failing, httptest.NewRequest(http.MethodGet, "/goals", nil), token)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetRevenue(t *testing.T) {
	svc := &fakeSalesService{index: domain.RevenueIndex{
		{Year: 2025, Month: 1}: decimal.NewFromInt(30),
		{Year: 2024, Month: 2}: decimal.NewFromInt(20),
		{Year: 2020, Month: 1}: decimal.NewFromInt(10),
	}}
	r := newRouter(&fakeParser{}, svc)
	token := signedToken(t)

	rec, env := do(t, r, httptest.NewRequest(http.MethodGet, "/revenue?fromYear=2024&toYear=2025", nil), token)
	require.Equal(t, http.StatusOK, rec.Code)
	var points []domain.RevenuePoint
	require.NoError(t, json.Unmarshal(env.Data, &points))
	require.Len(t, points, 2)
	assert.Equal(t, 2024, points[0].Year)
	assert.Equal(t, 2025, points[1].Year)

	rec, _ = do(t, r, httptest.NewRequest(http.MethodGet, "/revenue?fromYear=2026&toYear=2025", nil), token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSalesImport(t *testing.T) {
	svc := &fakeSalesService{}
	r := newRouter(&fakeParser{}, svc)
	csvText := "vendedor;data;valor\nAna;01/03/2025;10\nBruno;02/03/2025;20\n"

	body, ct := multipartBody(t, "vendas.csv", csvText, nil)
	req := httptest.NewRequest(http.MethodPost, "/sales/import", body)
	req.Header.Set("Content-Type", ct)
	rec, _ := do(t, r, req, signedToken(t))
	assert.Equal(t, http.StatusForbidden, rec.Code, "sem a permissão importar")

	body, ct = multipartBody(t, "vendas.csv", csvText, nil)
	req = httptest.NewRequest(http.MethodPost, "/sales/import", body)
	req.Header.Set("Content-Type", ct)
	rec, env := do(t, r, req, signedToken(t, "importar"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"imported":2}`, string(env.Data))
	assert.Equal(t, csvText, svc.imported)
}
