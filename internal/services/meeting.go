package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/peerlink/peerlink-backend/internal/data/repos"
	types "github.com/peerlink/peerlink-backend/internal/domain"
	"github.com/peerlink/peerlink-backend/internal/platform/apperr"
	"github.com/peerlink/peerlink-backend/internal/platform/dbctx"
	"github.com/peerlink/peerlink-backend/internal/platform/logger"
	"github.com/peerlink/peerlink-backend/internal/realtime"
)

// MeetingRequest is the payload for scheduling a meeting on a connection.
type MeetingRequest struct {
	ConnectionID    string            `json:"connection_id"`
	ScheduledFor    time.Time         `json:"scheduled_for"`
	DurationMinutes int               `json:"duration_minutes"`
	MeetingType     types.MeetingType `json:"meeting_type"`
	Notes           string            `json:"notes"`
}

// MeetingService schedules meetings between connected peers. Meetings hang
// off an active connection and follow their own pending/accepted lifecycle.
type MeetingService interface {
	Schedule(ctx context.Context, requesterID uuid.UUID, req MeetingRequest) (*types.Meeting, error)
	Accept(ctx context.Context, meetingID, actorID uuid.UUID) (*types.Meeting, error)
	Reject(ctx context.Context, meetingID, actorID uuid.UUID) (*types.Meeting, error)
	Cancel(ctx context.Context, meetingID, actorID uuid.UUID) (*types.Meeting, error)
	ListForConnection(ctx context.Context, connectionID string, actorID uuid.UUID) ([]*types.Meeting, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*types.Meeting, error)
}

type meetingService struct {
	db          *gorm.DB
	log         *logger.Logger
	meetingRepo repos.MeetingRepo
	connRepo    repos.ConnectionRepo
	sink        NotificationSink
	emit        SSEEmitter
}

func NewMeetingService(db *gorm.DB, log *logger.Logger, meetingRepo repos.MeetingRepo, connRepo repos.ConnectionRepo, sink NotificationSink, emit SSEEmitter) MeetingService {
	return &meetingService{
		db:          db,
		log:         log.With("service", "MeetingService"),
		meetingRepo: meetingRepo,
		connRepo:    connRepo,
		sink:        sink,
		emit:        emit,
	}
}

func (ms *meetingService) Schedule(ctx context.Context, requesterID uuid.UUID, req MeetingRequest) (*types.Meeting, error) {
	const op = "Meeting.Schedule"

	if requesterID == uuid.Nil {
		return nil, apperr.Validation(op, "missing user id")
	}
	if req.ConnectionID == "" {
		return nil, apperr.Validation(op, "missing connection id")
	}
	if req.ScheduledFor.Before(time.Now().UTC()) {
		return nil, apperr.Validation(op, "meeting must be scheduled in the future")
	}
	if req.DurationMinutes <= 0 {
		return nil, apperr.Validation(op, "duration must be positive")
	}
	switch req.MeetingType {
	case types.MeetingVideo, types.MeetingInPerson, types.MeetingText:
	default:
		return nil, apperr.Validation(op, fmt.Sprintf("unknown meeting type %q", req.MeetingType))
	}

	var created *types.Meeting
	var peerID uuid.UUID
	err := ms.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		conn, err := ms.connRepo.GetByID(dbc, req.ConnectionID)
		if err != nil {
			return err
		}
		if conn == nil {
			return apperr.NotFound(op, "connection not found")
		}
		if !conn.HasParticipant(requesterID) {
			return apperr.Validation(op, "acting user is not a participant")
		}
		if conn.Status != types.ConnectionActive {
			return apperr.Conflict(op, "meetings require an active connection")
		}
		peerID = conn.PeerOf(requesterID)

		now := time.Now().UTC()
		m := &types.Meeting{
			ID:              uuid.New(),
			ConnectionID:    conn.ID,
			RequestedBy:     requesterID,
			ScheduledFor:    req.ScheduledFor.UTC(),
			DurationMinutes: req.DurationMinutes,
			MeetingType:     req.MeetingType,
			Notes:           req.Notes,
			Status:          types.MeetingPending,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if m.MeetingType == types.MeetingVideo {
			m.MeetingLink = newMeetingLink()
		}
		created, err = ms.meetingRepo.Create(dbc, m)
		return err
	})
	if err != nil {
		return nil, wrapStore(op, err)
	}

	if _, err := ms.sink.Emit(ctx, peerID, types.NotificationMeetingScheduled,
		"Meeting Request",
		fmt.Sprintf("A %s meeting was proposed for %s", created.MeetingType, created.ScheduledFor.Format(time.RFC1123)),
		types.NotificationRefs{ConnectionID: created.ConnectionID, MeetingID: created.ID}); err != nil {
		ms.log.Warn("Failed to deliver meeting scheduled notification",
			"meeting_id", created.ID, "recipient_id", peerID, "error", err)
	}
	ms.broadcastMeeting(ctx, created, peerID, realtime.SSEEventMeetingScheduled)
	return created, nil
}

func (ms *meetingService) Accept(ctx context.Context, meetingID, actorID uuid.UUID) (*types.Meeting, error) {
	return ms.respond(ctx, "Meeting.Accept", meetingID, actorID,
		types.MeetingAccepted, types.NotificationMeetingAccepted,
		"Meeting Confirmed", "Your meeting request was accepted.")
}

func (ms *meetingService) Reject(ctx context.Context, meetingID, actorID uuid.UUID) (*types.Meeting, error) {
	return ms.respond(ctx, "Meeting.Reject", meetingID, actorID,
		types.MeetingRejected, types.NotificationMeetingRejected,
		"Meeting Declined", "Your meeting request was declined.")
}

// respond handles the counterpart's accept/reject of a pending meeting.
func (ms *meetingService) respond(ctx context.Context, op string, meetingID, actorID uuid.UUID, target types.MeetingStatus, notifType types.NotificationType, title, body string) (*types.Meeting, error) {
	if meetingID == uuid.Nil || actorID == uuid.Nil {
		return nil, apperr.Validation(op, "missing id")
	}

	var out *types.Meeting
	err := ms.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		m, _, err := ms.loadMeeting(dbc, op, meetingID, actorID)
		if err != nil {
			return err
		}
		if m.RequestedBy == actorID {
			return apperr.Validation(op, "requester cannot respond to their own meeting")
		}

		now := time.Now().UTC()
		ok, err := ms.meetingRepo.UpdateFieldsByStatus(dbc, meetingID,
			[]types.MeetingStatus{types.MeetingPending},
			map[string]any{"status": target, "updated_at": now})
		if err != nil {
			return err
		}
		if !ok {
			return apperr.Conflict(op, "meeting is no longer pending")
		}
		updated := *m
		updated.Status = target
		updated.UpdatedAt = now
		out = &updated
		return nil
	})
	if err != nil {
		return nil, wrapStore(op, err)
	}

	if _, err := ms.sink.Emit(ctx, out.RequestedBy, notifType, title, body,
		types.NotificationRefs{ConnectionID: out.ConnectionID, MeetingID: out.ID}); err != nil {
		ms.log.Warn("Failed to deliver meeting response notification",
			"meeting_id", out.ID, "recipient_id", out.RequestedBy, "error", err)
	}
	ms.broadcastMeeting(ctx, out, out.RequestedBy, realtime.SSEEventMeetingUpdated)
	return out, nil
}

// Cancel lets either participant withdraw a meeting that has not happened
// yet. No notification, mirroring connection rejection.
func (ms *meetingService) Cancel(ctx context.Context, meetingID, actorID uuid.UUID) (*types.Meeting, error) {
	const op = "Meeting.Cancel"

	if meetingID == uuid.Nil || actorID == uuid.Nil {
		return nil, apperr.Validation(op, "missing id")
	}

	var out *types.Meeting
	err := ms.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		m, _, err := ms.loadMeeting(dbc, op, meetingID, actorID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		ok, err := ms.meetingRepo.UpdateFieldsByStatus(dbc, meetingID,
			[]types.MeetingStatus{types.MeetingPending, types.MeetingAccepted},
			map[string]any{"status": types.MeetingCancelled, "updated_at": now})
		if err != nil {
			return err
		}
		if !ok {
			return apperr.Conflict(op, "meeting can no longer be cancelled")
		}
		updated := *m
		updated.Status = types.MeetingCancelled
		updated.UpdatedAt = now
		out = &updated
		return nil
	})
	if err != nil {
		return nil, wrapStore(op, err)
	}

	ms.broadcastMeeting(ctx, out, out.RequestedBy, realtime.SSEEventMeetingUpdated)
	return out, nil
}

func (ms *meetingService) ListForConnection(ctx context.Context, connectionID string, actorID uuid.UUID) ([]*types.Meeting, error) {
	const op = "Meeting.ListForConnection"

	if connectionID == "" {
		return nil, apperr.Validation(op, "missing connection id")
	}
	dbc := dbctx.Context{Ctx: ctx}
	conn, err := ms.connRepo.GetByID(dbc, connectionID)
	if err != nil {
		return nil, apperr.Unavailable(op, err)
	}
	if conn == nil {
		return nil, apperr.NotFound(op, "connection not found")
	}
	if !conn.HasParticipant(actorID) {
		return nil, apperr.Validation(op, "acting user is not a participant")
	}
	listed, err := ms.meetingRepo.ListForConnection(dbc, connectionID)
	if err != nil {
		return nil, apperr.Unavailable(op, err)
	}
	return listed, nil
}

func (ms *meetingService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*types.Meeting, error) {
	const op = "Meeting.ListForUser"

	if userID == uuid.Nil {
		return nil, apperr.Validation(op, "missing user id")
	}
	dbc := dbctx.Context{Ctx: ctx}
	conns, err := ms.connRepo.ListForUser(dbc, userID)
	if err != nil {
		return nil, apperr.Unavailable(op, err)
	}
	if len(conns) == 0 {
		return nil, nil
	}
	ids := make([]string, 0, len(conns))
	for _, c := range conns {
		ids = append(ids, c.ID)
	}
	listed, err := ms.meetingRepo.ListForUser(dbc, ids)
	if err != nil {
		return nil, apperr.Unavailable(op, err)
	}
	return listed, nil
}

// loadMeeting fetches the meeting and its connection and verifies the actor
// participates in that connection.
func (ms *meetingService) loadMeeting(dbc dbctx.Context, op string, meetingID, actorID uuid.UUID) (*types.Meeting, *types.Connection, error) {
	m, err := ms.meetingRepo.GetByID(dbc, meetingID)
	if err != nil {
		return nil, nil, err
	}
	if m == nil {
		return nil, nil, apperr.NotFound(op, "meeting not found")
	}
	conn, err := ms.connRepo.GetByID(dbc, m.ConnectionID)
	if err != nil {
		return nil, nil, err
	}
	if conn == nil || !conn.HasParticipant(actorID) {
		return nil, nil, apperr.Validation(op, "acting user is not a participant")
	}
	return m, conn, nil
}

func (ms *meetingService) broadcastMeeting(ctx context.Context, m *types.Meeting, recipientID uuid.UUID, event realtime.SSEEvent) {
	if ms.emit == nil || m == nil {
		return
	}
	ms.emit.Emit(ctx, realtime.SSEMessage{
		Channel: recipientID.String(),
		Event:   event,
		Data:    map[string]any{"meeting": m},
	})
}
