package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/peerlink/peerlink-backend/internal/domain"
	"github.com/peerlink/peerlink-backend/internal/platform/ctxutil"
	"github.com/peerlink/peerlink-backend/internal/services"
)

type MeetingHandler struct {
	meetingService services.MeetingService
}

func NewMeetingHandler(meetingService services.MeetingService) *MeetingHandler {
	return &MeetingHandler{meetingService: meetingService}
}

func (mh *MeetingHandler) Schedule(c *gin.Context) {
	var req services.MeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	m, err := mh.meetingService.Schedule(c.Request.Context(), ctxutil.UserID(c.Request.Context()), req)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, gin.H{"meeting": m})
}

func (mh *MeetingHandler) Accept(c *gin.Context) {
	mh.respond(c, mh.meetingService.Accept)
}

func (mh *MeetingHandler) Reject(c *gin.Context) {
	mh.respond(c, mh.meetingService.Reject)
}

func (mh *MeetingHandler) Cancel(c *gin.Context) {
	mh.respond(c, mh.meetingService.Cancel)
}

func (mh *MeetingHandler) respond(c *gin.Context, fn func(ctx context.Context, meetingID, actorID uuid.UUID) (*types.Meeting, error)) {
	meetingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	m, err := fn(c.Request.Context(), meetingID, ctxutil.UserID(c.Request.Context()))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"meeting": m})
}

func (mh *MeetingHandler) ListForConnection(c *gin.Context) {
	listed, err := mh.meetingService.ListForConnection(c.Request.Context(), c.Param("id"), ctxutil.UserID(c.Request.Context()))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"meetings": listed})
}

func (mh *MeetingHandler) List(c *gin.Context) {
	listed, err := mh.meetingService.ListForUser(c.Request.Context(), ctxutil.UserID(c.Request.Context()))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"meetings": listed})
}
