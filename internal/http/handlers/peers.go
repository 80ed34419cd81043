package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/peerlink/peerlink-backend/internal/platform/ctxutil"
	"github.com/peerlink/peerlink-backend/internal/services"
)

type PeersHandler struct {
	matchingService services.MatchingService
}

func NewPeersHandler(matchingService services.MatchingService) *PeersHandler {
	return &PeersHandler{matchingService: matchingService}
}

// Find returns every complete profile scored against the caller, best
// matches first.
func (ph *PeersHandler) Find(c *gin.Context) {
	ranked, err := ph.matchingService.RankPeers(c.Request.Context(), ctxutil.UserID(c.Request.Context()))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"peers": ranked})
}
