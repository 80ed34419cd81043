package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/peerlink/peerlink-backend/internal/platform/ctxutil"
	"github.com/peerlink/peerlink-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (uh *UserHandler) GetMe(c *gin.Context) {
	user, err := uh.userService.GetMe(c.Request.Context(), ctxutil.UserID(c.Request.Context()))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"user": user})
}

func (uh *UserHandler) GetByID(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	user, err := uh.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"user": user})
}

func (uh *UserHandler) UpdateProfile(c *gin.Context) {
	var req services.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	user, err := uh.userService.UpsertProfile(c.Request.Context(), ctxutil.UserID(c.Request.Context()), req)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"user": user})
}
