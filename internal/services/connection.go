package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/peerlink/peerlink-backend/internal/data/repos"
	types "github.com/peerlink/peerlink-backend/internal/domain"
	domconn "github.com/peerlink/peerlink-backend/internal/domain/connection"
	"github.com/peerlink/peerlink-backend/internal/matching"
	"github.com/peerlink/peerlink-backend/internal/platform/apperr"
	"github.com/peerlink/peerlink-backend/internal/platform/dbctx"
	"github.com/peerlink/peerlink-backend/internal/platform/logger"
	"github.com/peerlink/peerlink-backend/internal/realtime"
)

// ConnectionService owns the connection lifecycle between two users:
//
//	NONE -> pending -> active
//	        pending -> rejected -> pending (reactivation)
//	any state -> NONE (remove, hard delete)
//
// The record id is derived from the unordered participant pair, so either
// side can initiate without coordination and at most one record exists per
// pair. Two clients can race on the same record; every transition is a
// status-guarded conditional write, and a lost race surfaces as a conflict
// the caller resolves by re-reading.
type ConnectionService interface {
	Request(ctx context.Context, requesterID, targetID uuid.UUID, message string) (*types.Connection, error)
	Accept(ctx context.Context, connectionID string, actorID uuid.UUID) (*types.Connection, error)
	Reject(ctx context.Context, connectionID string, actorID uuid.UUID) error
	Remove(ctx context.Context, connectionID string, actorID uuid.UUID) error
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*types.Connection, error)
}

type connectionService struct {
	db       *gorm.DB
	log      *logger.Logger
	connRepo repos.ConnectionRepo
	userRepo repos.UserRepo
	sink     NotificationSink
	emit     SSEEmitter
}

func NewConnectionService(db *gorm.DB, log *logger.Logger, connRepo repos.ConnectionRepo, userRepo repos.UserRepo, sink NotificationSink, emit SSEEmitter) ConnectionService {
	return &connectionService{
		db:       db,
		log:      log.With("service", "ConnectionService"),
		connRepo: connRepo,
		userRepo: userRepo,
		sink:     sink,
		emit:     emit,
	}
}

// wrapStore keeps already-typed errors intact and marks raw store failures
// as collaborator unavailability.
func wrapStore(op string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperr.Unavailable(op, err)
}

func (cs *connectionService) inTx(ctx context.Context, op string, fn func(dbc dbctx.Context) error) error {
	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: ctx, Tx: tx})
	})
	return wrapStore(op, err)
}

func (cs *connectionService) Request(ctx context.Context, requesterID, targetID uuid.UUID, message string) (*types.Connection, error) {
	const op = "Connection.Request"

	if requesterID == uuid.Nil || targetID == uuid.Nil {
		return nil, apperr.Validation(op, "missing user id")
	}
	if requesterID == targetID {
		return nil, apperr.Validation(op, "cannot request a connection with yourself")
	}

	profiles, err := cs.userRepo.GetByIDs(dbctx.Context{Ctx: ctx}, []uuid.UUID{requesterID, targetID})
	if err != nil {
		return nil, apperr.Unavailable(op, err)
	}
	var requester, target *types.User
	for _, p := range profiles {
		switch p.ID {
		case requesterID:
			requester = p
		case targetID:
			target = p
		}
	}
	if requester == nil || target == nil {
		return nil, apperr.NotFound(op, "user not found")
	}

	id := domconn.PairID(requesterID, targetID)
	score := matching.Score(requester, target)
	now := time.Now().UTC()

	var out *types.Connection
	notify := false

	err = cs.inTx(ctx, op, func(dbc dbctx.Context) error {
		current, err := cs.connRepo.GetByID(dbc, id)
		if err != nil {
			return err
		}

		if current == nil {
			low, high := domconn.SortPair(requesterID, targetID)
			created := &types.Connection{
				ID:             id,
				UserAID:        low,
				UserBID:        high,
				RequestedBy:    requesterID,
				Score:          score,
				RequestMessage: message,
				Status:         types.ConnectionPending,
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			if _, err := cs.connRepo.Create(dbc, created); err != nil {
				return err
			}
			out = created
			notify = true
			return nil
		}

		switch current.Status {
		case types.ConnectionPending, types.ConnectionActive:
			// Idempotent: a live record short-circuits before any write or
			// notification, so repeated requests cannot spam the target.
			out = current
			return nil
		case types.ConnectionRejected:
			// Reactivation: either side may re-request a declined
			// connection. The guard keeps a concurrent accept/remove from
			// being silently overwritten.
			ok, err := cs.connRepo.UpdateFieldsByStatus(dbc, id,
				[]types.ConnectionStatus{types.ConnectionRejected},
				map[string]any{
					"status":          types.ConnectionPending,
					"requested_by":    requesterID,
					"request_message": message,
					"score":           score,
					"created_at":      now,
					"updated_at":      now,
				})
			if err != nil {
				return err
			}
			if !ok {
				return apperr.Conflict(op, "connection changed while re-requesting")
			}
			updated := *current
			updated.Status = types.ConnectionPending
			updated.RequestedBy = requesterID
			updated.RequestMessage = message
			updated.Score = score
			updated.CreatedAt = now
			updated.UpdatedAt = now
			out = &updated
			notify = true
			return nil
		default:
			return apperr.Conflict(op, "connection is in an unknown state")
		}
	})
	if err != nil {
		return nil, err
	}

	// Notification and realtime fan-out happen strictly after the state is
	// durable; a delivery failure never unwinds the request.
	if notify {
		body := message
		if body == "" {
			body = "Someone wants to connect with you!"
		}
		if _, err := cs.sink.Emit(ctx, targetID, types.NotificationConnectionRequest,
			"New Connection Request", body, types.NotificationRefs{ConnectionID: id}); err != nil {
			cs.log.Warn("Failed to deliver connection request notification",
				"connection_id", id, "recipient_id", targetID, "error", err)
		}
		cs.broadcast(ctx, out, realtime.SSEEventConnectionRequested)
	}
	return out, nil
}

func (cs *connectionService) Accept(ctx context.Context, connectionID string, actorID uuid.UUID) (*types.Connection, error) {
	const op = "Connection.Accept"

	if connectionID == "" {
		return nil, apperr.Validation(op, "missing connection id")
	}
	if actorID == uuid.Nil {
		return nil, apperr.Validation(op, "missing acting user id")
	}

	var out *types.Connection
	err := cs.inTx(ctx, op, func(dbc dbctx.Context) error {
		current, err := cs.connRepo.GetByID(dbc, connectionID)
		if err != nil {
			return err
		}
		if current == nil {
			return apperr.NotFound(op, "connection not found")
		}
		if !current.HasParticipant(actorID) {
			return apperr.Validation(op, "acting user is not a participant")
		}
		// Only the side that did not send the request can accept it.
		if current.RequestedBy == actorID {
			return apperr.Validation(op, "requester cannot accept their own request")
		}
		if current.Status != types.ConnectionPending {
			return apperr.Conflict(op, "connection is not pending")
		}

		now := time.Now().UTC()
		ok, err := cs.connRepo.UpdateFieldsByStatus(dbc, connectionID,
			[]types.ConnectionStatus{types.ConnectionPending},
			map[string]any{
				"status":     types.ConnectionActive,
				"updated_at": now,
			})
		if err != nil {
			return err
		}
		if !ok {
			return apperr.Conflict(op, "connection changed while accepting")
		}

		updated := *current
		updated.Status = types.ConnectionActive
		updated.UpdatedAt = now
		out = &updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	if _, err := cs.sink.Emit(ctx, out.RequestedBy, types.NotificationConnectionAccepted,
		"Connection Accepted", "Your connection request has been accepted!",
		types.NotificationRefs{ConnectionID: connectionID}); err != nil {
		cs.log.Warn("Failed to deliver connection accepted notification",
			"connection_id", connectionID, "recipient_id", out.RequestedBy, "error", err)
	}
	cs.broadcast(ctx, out, realtime.SSEEventConnectionAccepted)
	return out, nil
}

// Reject moves the connection to rejected from any state. No notification is
// sent to either side; the rejected party only observes the state change.
func (cs *connectionService) Reject(ctx context.Context, connectionID string, actorID uuid.UUID) error {
	const op = "Connection.Reject"

	if connectionID == "" {
		return apperr.Validation(op, "missing connection id")
	}
	if actorID == uuid.Nil {
		return apperr.Validation(op, "missing acting user id")
	}

	return cs.inTx(ctx, op, func(dbc dbctx.Context) error {
		current, err := cs.connRepo.GetByID(dbc, connectionID)
		if err != nil {
			return err
		}
		if current == nil {
			return apperr.NotFound(op, "connection not found")
		}
		if !current.HasParticipant(actorID) {
			return apperr.Validation(op, "acting user is not a participant")
		}

		ok, err := cs.connRepo.UpdateFieldsByStatus(dbc, connectionID,
			[]types.ConnectionStatus{types.ConnectionPending, types.ConnectionActive, types.ConnectionRejected},
			map[string]any{
				"status":     types.ConnectionRejected,
				"updated_at": time.Now().UTC(),
			})
		if err != nil {
			return err
		}
		if !ok {
			return apperr.NotFound(op, "connection vanished while rejecting")
		}
		return nil
	})
}

// Remove permanently deletes the connection from any state. There is no
// tombstone; a later request starts the lifecycle over.
func (cs *connectionService) Remove(ctx context.Context, connectionID string, actorID uuid.UUID) error {
	const op = "Connection.Remove"

	if connectionID == "" {
		return apperr.Validation(op, "missing connection id")
	}
	if actorID == uuid.Nil {
		return apperr.Validation(op, "missing acting user id")
	}

	var removed *types.Connection
	err := cs.inTx(ctx, op, func(dbc dbctx.Context) error {
		current, err := cs.connRepo.GetByID(dbc, connectionID)
		if err != nil {
			return err
		}
		if current == nil {
			return apperr.NotFound(op, "connection not found")
		}
		if !current.HasParticipant(actorID) {
			return apperr.Validation(op, "acting user is not a participant")
		}

		ok, err := cs.connRepo.Delete(dbc, connectionID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.NotFound(op, "connection vanished while removing")
		}
		removed = current
		return nil
	})
	if err != nil {
		return err
	}

	cs.broadcast(ctx, removed, realtime.SSEEventConnectionRemoved)
	return nil
}

func (cs *connectionService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*types.Connection, error) {
	const op = "Connection.ListForUser"

	if userID == uuid.Nil {
		return nil, apperr.Validation(op, "missing user id")
	}
	listed, err := cs.connRepo.ListForUser(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, apperr.Unavailable(op, err)
	}

	// The pair-derived id makes duplicates impossible in steady state, but
	// historical data could still hold two records for one peer; keep the
	// first and drop the rest.
	seen := make(map[uuid.UUID]bool, len(listed))
	deduped := listed[:0]
	for _, conn := range listed {
		peer := conn.PeerOf(userID)
		if seen[peer] {
			continue
		}
		seen[peer] = true
		deduped = append(deduped, conn)
	}
	return deduped, nil
}

// broadcast pushes the connection change to both participants' channels so
// the counterpart UI can re-derive state from the record itself.
func (cs *connectionService) broadcast(ctx context.Context, conn *types.Connection, event realtime.SSEEvent) {
	if cs.emit == nil || conn == nil {
		return
	}
	for _, userID := range []uuid.UUID{conn.UserAID, conn.UserBID} {
		cs.emit.Emit(ctx, realtime.SSEMessage{
			Channel: userID.String(),
			Event:   event,
			Data:    map[string]any{"connection": conn},
		})
	}
}
