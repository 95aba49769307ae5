package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbearia-console/internal/auth"
	"github.com/BruksfildServices01/barbearia-console/internal/httperr"
	"github.com/BruksfildServices01/barbearia-console/internal/middleware"
)

type AuthHandler struct {
	svc    *auth.Service
	secret string
}

func NewAuthHandler(svc *auth.Service, secret string) *AuthHandler {
	return &AuthHandler{svc: svc, secret: secret}
}

// --------- Requests ---------

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Remember bool   `json:"remember"`
}

// --------- Handlers ---------

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Por favor, preencha todos os campos!")
		return
	}

	sess, err := h.svc.Authenticate(c.Request.Context(), auth.LoginInput{
		Username: req.Username,
		Password: req.Password,
		Remember: req.Remember,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	token, err := auth.IssueToken(h.secret, sess)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Erro ao gerar token.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  sess,
		"token": token,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.svc.Logout(c.Request.Context())
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) Me(c *gin.Context) {
	sess, err := h.svc.Current(c.Request.Context())
	if err != nil || sess.ID != middleware.EmployeeID(c) {
		// The console keeps one session; a token from another login is
		// still valid, so answer from its claims.
		c.JSON(http.StatusOK, gin.H{
			"id":   middleware.EmployeeID(c),
			"name": c.GetString(middleware.ContextEmployeeName),
			"role": c.GetString(middleware.ContextUserRole),
		})
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (h *AuthHandler) Remembered(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"username": h.svc.RememberedUser(c.Request.Context())})
}
