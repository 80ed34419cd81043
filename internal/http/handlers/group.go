package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/peerlink/peerlink-backend/internal/platform/ctxutil"
	"github.com/peerlink/peerlink-backend/internal/services"
)

type GroupHandler struct {
	groupService services.GroupService
}

func NewGroupHandler(groupService services.GroupService) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

func (gh *GroupHandler) Create(c *gin.Context) {
	var req struct {
		Name      string      `json:"name"`
		MemberIDs []uuid.UUID `json:"member_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	g, err := gh.groupService.Create(c.Request.Context(), ctxutil.UserID(c.Request.Context()), req.Name, req.MemberIDs)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, gin.H{"group": g})
}

func (gh *GroupHandler) AddMembers(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	var req struct {
		MemberIDs []uuid.UUID `json:"member_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	if err := gh.groupService.AddMembers(c.Request.Context(), groupID, ctxutil.UserID(c.Request.Context()), req.MemberIDs); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}

func (gh *GroupHandler) Members(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	members, err := gh.groupService.Members(c.Request.Context(), groupID, ctxutil.UserID(c.Request.Context()))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"members": members})
}

func (gh *GroupHandler) List(c *gin.Context) {
	groups, err := gh.groupService.ListForUser(c.Request.Context(), ctxutil.UserID(c.Request.Context()))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"groups": groups})
}
