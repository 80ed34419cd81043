package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/peerlink/peerlink-backend/internal/data/repos"
	"github.com/peerlink/peerlink-backend/internal/matching"
	"github.com/peerlink/peerlink-backend/internal/platform/apperr"
	"github.com/peerlink/peerlink-backend/internal/platform/dbctx"
	"github.com/peerlink/peerlink-backend/internal/platform/logger"
)

// MatchingService produces the ranked peer list backing the find-peers page.
type MatchingService interface {
	RankPeers(ctx context.Context, userID uuid.UUID) ([]matching.RankedPeer, error)
}

type matchingService struct {
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewMatchingService(log *logger.Logger, userRepo repos.UserRepo) MatchingService {
	return &matchingService{
		log:      log.With("service", "MatchingService"),
		userRepo: userRepo,
	}
}

func (ms *matchingService) RankPeers(ctx context.Context, userID uuid.UUID) ([]matching.RankedPeer, error) {
	const op = "Matching.RankPeers"

	if userID == uuid.Nil {
		return nil, apperr.Validation(op, "missing user id")
	}

	dbc := dbctx.Context{Ctx: ctx}
	self, err := ms.userRepo.GetByID(dbc, userID)
	if err != nil {
		return nil, apperr.Unavailable(op, err)
	}
	if self == nil {
		return nil, apperr.NotFound(op, "user not found")
	}
	if !self.ProfileComplete() {
		return nil, apperr.Validation(op, "complete your profile before finding peers")
	}

	candidates, err := ms.userRepo.ListAll(dbc)
	if err != nil {
		return nil, apperr.Unavailable(op, err)
	}

	ranked := matching.Rank(self, candidates)
	for i := range ranked {
		// Never ship password hashes to the client.
		scrubbed := *ranked[i].User
		scrubbed.Password = ""
		ranked[i].User = &scrubbed
	}
	return ranked, nil
}
