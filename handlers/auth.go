package handlers

import (
	"net/http"

	"pilateshub/models"
	"pilateshub/services/account"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	Service account.AccountService
	Logger  *zap.Logger
}

func NewAuthHandler(svc account.AccountService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{Service: svc, Logger: logger}
}

// RegisterHandler handles POST /api/auth/register.
func (h *AuthHandler) RegisterHandler(c *gin.Context) {
	var in models.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badInput(c, err)
		return
	}
	resp, err := h.Service.Register(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.Logger, err, "Failed to register account")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// LoginHandler handles POST /api/auth/login.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var in models.LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badInput(c, err)
		return
	}
	resp, err := h.Service.Authenticate(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.Logger, err, "Failed to log in")
		return
	}
	c.JSON(http.StatusOK, resp)
}
