// internal/api/handlers/auth_handler.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/LuisEduardoPedra/metasVendas/internal/api/responses"
	"github.com/LuisEduardoPedra/metasVendas/internal/core/auth"
	"github.com/gin-gonic/gin"
)

// AuthHandler lida com o login.
type AuthHandler struct {
	service auth.Service
}

// NewAuthHandler cria um novo handler de autenticação.
func NewAuthHandler(service auth.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login valida as credenciais e devolve o token JWT.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, "Usuário e senha são obrigatórios")
		return
	}

	token, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		responses.Error(c, http.StatusUnauthorized, "Usuário ou senha inválidos")
		return
	}
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Erro ao realizar login", err.Error())
		return
	}
	responses.Success(c, gin.H{"token": token})
}
