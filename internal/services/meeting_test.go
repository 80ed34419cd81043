package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/peerlink/peerlink-backend/internal/data/repos"
	"github.com/peerlink/peerlink-backend/internal/data/repos/testutil"
	types "github.com/peerlink/peerlink-backend/internal/domain"
	"github.com/peerlink/peerlink-backend/internal/platform/apperr"
)

func newMeetingFixture(t *testing.T) (MeetingService, ConnectionService, *fakeSink, *gorm.DB) {
	t.Helper()
	tx := testutil.Tx(t, testutil.DB(t))
	log := testutil.Logger(t)
	sink := &fakeSink{}
	connRepo := repos.NewConnectionRepo(tx, log)
	userRepo := repos.NewUserRepo(tx, log)
	connSvc := NewConnectionService(tx, log, connRepo, userRepo, sink, nil)
	meetSvc := NewMeetingService(tx, log, repos.NewMeetingRepo(tx, log), connRepo, sink, nil)
	return meetSvc, connSvc, sink, tx
}

func activeConnection(t *testing.T, connSvc ConnectionService, tx *gorm.DB) (*types.Connection, *types.User, *types.User) {
	t.Helper()
	ctx := context.Background()
	alice := seedUser(t, tx, "Alice", "CS", nil, nil)
	bob := seedUser(t, tx, "Bob", "Math", nil, nil)
	conn, err := connSvc.Request(ctx, alice.ID, bob.ID, "")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	conn, err = connSvc.Accept(ctx, conn.ID, bob.ID)
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	return conn, alice, bob
}

func TestScheduleVideoMeeting(t *testing.T) {
	meetSvc, connSvc, sink, tx := newMeetingFixture(t)
	ctx := context.Background()
	conn, alice, bob := activeConnection(t, connSvc, tx)

	m, err := meetSvc.Schedule(ctx, alice.ID, MeetingRequest{
		ConnectionID:    conn.ID,
		ScheduledFor:    time.Now().UTC().Add(48 * time.Hour),
		DurationMinutes: 30,
		MeetingType:     types.MeetingVideo,
		Notes:           "Go over the midterm",
	})
	if err != nil {
		t.Fatalf("schedule failed: %v", err)
	}
	if m.Status != types.MeetingPending {
		t.Fatalf("expected pending, got %q", m.Status)
	}
	if !strings.HasPrefix(m.MeetingLink, "https://meet.peerlink.app/") {
		t.Fatalf("video meeting should carry a link, got %q", m.MeetingLink)
	}
	got := sink.last()
	if got.recipient != bob.ID || got.notifType != types.NotificationMeetingScheduled {
		t.Fatalf("expected scheduled notification to bob, got %+v", got)
	}
	if got.refs.MeetingID != m.ID {
		t.Fatalf("notification should reference the meeting")
	}
}

func TestScheduleRequiresActiveConnection(t *testing.T) {
	meetSvc, connSvc, _, tx := newMeetingFixture(t)
	ctx := context.Background()

	alice := seedUser(t, tx, "Alice", "CS", nil, nil)
	bob := seedUser(t, tx, "Bob", "Math", nil, nil)
	conn, err := connSvc.Request(ctx, alice.ID, bob.ID, "")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	_, err = meetSvc.Schedule(ctx, alice.ID, MeetingRequest{
		ConnectionID:    conn.ID,
		ScheduledFor:    time.Now().UTC().Add(time.Hour),
		DurationMinutes: 30,
		MeetingType:     types.MeetingText,
	})
	if !apperr.IsCode(err, apperr.CodeConflict) {
		t.Fatalf("expected conflict for pending connection, got %v", err)
	}
}

func TestScheduleValidatesInput(t *testing.T) {
	meetSvc, connSvc, _, tx := newMeetingFixture(t)
	ctx := context.Background()
	conn, alice, _ := activeConnection(t, connSvc, tx)

	cases := []MeetingRequest{
		{ConnectionID: conn.ID, ScheduledFor: time.Now().UTC().Add(-time.Hour), DurationMinutes: 30, MeetingType: types.MeetingText},
		{ConnectionID: conn.ID, ScheduledFor: time.Now().UTC().Add(time.Hour), DurationMinutes: 0, MeetingType: types.MeetingText},
		{ConnectionID: conn.ID, ScheduledFor: time.Now().UTC().Add(time.Hour), DurationMinutes: 30, MeetingType: "hologram"},
	}
	for i, req := range cases {
		if _, err := meetSvc.Schedule(ctx, alice.ID, req); !apperr.IsCode(err, apperr.CodeValidation) {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestMeetingAcceptFlow(t *testing.T) {
	meetSvc, connSvc, sink, tx := newMeetingFixture(t)
	ctx := context.Background()
	conn, alice, bob := activeConnection(t, connSvc, tx)

	m, err := meetSvc.Schedule(ctx, alice.ID, MeetingRequest{
		ConnectionID:    conn.ID,
		ScheduledFor:    time.Now().UTC().Add(time.Hour),
		DurationMinutes: 45,
		MeetingType:     types.MeetingInPerson,
	})
	if err != nil {
		t.Fatalf("schedule failed: %v", err)
	}

	// The requester cannot confirm their own proposal.
	if _, err := meetSvc.Accept(ctx, m.ID, alice.ID); !apperr.IsCode(err, apperr.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	accepted, err := meetSvc.Accept(ctx, m.ID, bob.ID)
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if accepted.Status != types.MeetingAccepted {
		t.Fatalf("expected accepted, got %q", accepted.Status)
	}
	got := sink.last()
	if got.recipient != alice.ID || got.notifType != types.NotificationMeetingAccepted {
		t.Fatalf("expected accepted notification to alice, got %+v", got)
	}

	// Responding twice conflicts.
	if _, err := meetSvc.Reject(ctx, m.ID, bob.ID); !apperr.IsCode(err, apperr.CodeConflict) {
		t.Fatalf("expected conflict on double response, got %v", err)
	}
}

func TestMeetingCancelByEitherSide(t *testing.T) {
	meetSvc, connSvc, _, tx := newMeetingFixture(t)
	ctx := context.Background()
	conn, alice, bob := activeConnection(t, connSvc, tx)

	m, err := meetSvc.Schedule(ctx, alice.ID, MeetingRequest{
		ConnectionID:    conn.ID,
		ScheduledFor:    time.Now().UTC().Add(time.Hour),
		DurationMinutes: 30,
		MeetingType:     types.MeetingText,
	})
	if err != nil {
		t.Fatalf("schedule failed: %v", err)
	}

	cancelled, err := meetSvc.Cancel(ctx, m.ID, bob.ID)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != types.MeetingCancelled {
		t.Fatalf("expected cancelled, got %q", cancelled.Status)
	}

	listed, err := meetSvc.ListForUser(ctx, alice.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(listed) != 1 || listed[0].Status != types.MeetingCancelled {
		t.Fatalf("expected one cancelled meeting, got %+v", listed)
	}
}
