package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/peerlink/peerlink-backend/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (ah *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	user, tokens, err := ah.authService.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, gin.H{"user": user, "tokens": tokens})
}

func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	user, tokens, err := ah.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// Credential failures read as 401 to the client even though the
		// service types them as validation.
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	RespondOK(c, gin.H{"user": user, "tokens": tokens})
}

func (ah *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	tokens, err := ah.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	RespondOK(c, gin.H{"tokens": tokens})
}

func (ah *AuthHandler) Logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	if err := ah.authService.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}
