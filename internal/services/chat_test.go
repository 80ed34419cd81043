package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/peerlink/peerlink-backend/internal/data/repos"
	"github.com/peerlink/peerlink-backend/internal/data/repos/testutil"
	types "github.com/peerlink/peerlink-backend/internal/domain"
	"github.com/peerlink/peerlink-backend/internal/platform/apperr"
)

func newChatFixture(t *testing.T) (ChatService, ConnectionService, GroupService, *fakeSink, *gorm.DB) {
	t.Helper()
	tx := testutil.Tx(t, testutil.DB(t))
	log := testutil.Logger(t)
	sink := &fakeSink{}
	connRepo := repos.NewConnectionRepo(tx, log)
	userRepo := repos.NewUserRepo(tx, log)
	groupRepo := repos.NewGroupRepo(tx, log)
	chatSvc := NewChatService(log, repos.NewChatMessageRepo(tx, log), connRepo, groupRepo, sink, nil)
	connSvc := NewConnectionService(tx, log, connRepo, userRepo, sink, nil)
	groupSvc := NewGroupService(tx, log, groupRepo, userRepo, sink)
	return chatSvc, connSvc, groupSvc, sink, tx
}

func TestDirectChatOnActiveConnection(t *testing.T) {
	chatSvc, connSvc, _, sink, tx := newChatFixture(t)
	ctx := context.Background()

	alice := seedUser(t, tx, "Alice", "CS", nil, nil)
	bob := seedUser(t, tx, "Bob", "Math", nil, nil)
	conn, err := connSvc.Request(ctx, alice.ID, bob.ID, "")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	// Chatting on a pending connection is premature.
	if _, err := chatSvc.Send(ctx, alice.ID, conn.ID, "hi"); !apperr.IsCode(err, apperr.CodeConflict) {
		t.Fatalf("expected conflict on pending connection, got %v", err)
	}

	if _, err := connSvc.Accept(ctx, conn.ID, bob.ID); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	msg, err := chatSvc.Send(ctx, alice.ID, conn.ID, "hi bob")
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if msg.ChannelID != conn.ID || msg.SenderID != alice.ID {
		t.Fatalf("unexpected message %+v", msg)
	}
	got := sink.last()
	if got.recipient != bob.ID || got.notifType != types.NotificationNewMessage {
		t.Fatalf("expected new_message notification to bob, got %+v", got)
	}

	listed, err := chatSvc.List(ctx, bob.ID, conn.ID, 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(listed) != 1 || listed[0].Body != "hi bob" {
		t.Fatalf("expected the sent message, got %+v", listed)
	}
}

func TestGroupChatFansOutToMembers(t *testing.T) {
	chatSvc, _, groupSvc, sink, tx := newChatFixture(t)
	ctx := context.Background()

	alice := seedUser(t, tx, "Alice", "CS", nil, nil)
	bob := seedUser(t, tx, "Bob", "Math", nil, nil)
	carol := seedUser(t, tx, "Carol", "Bio", nil, nil)

	g, err := groupSvc.Create(ctx, alice.ID, "Study Group", []uuid.UUID{bob.ID, carol.ID})
	if err != nil {
		t.Fatalf("create group failed: %v", err)
	}

	before := sink.count()
	if _, err := chatSvc.Send(ctx, alice.ID, g.ID.String(), "meeting at 5"); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if sink.count()-before != 2 {
		t.Fatalf("expected notifications for the 2 other members, got %d", sink.count()-before)
	}

	eve := seedUser(t, tx, "Eve", "Physics", nil, nil)
	if _, err := chatSvc.Send(ctx, eve.ID, g.ID.String(), "let me in"); !apperr.IsCode(err, apperr.CodeValidation) {
		t.Fatalf("non-member must not post, got %v", err)
	}
}

func TestChatUnknownChannel(t *testing.T) {
	chatSvc, _, _, _, tx := newChatFixture(t)
	alice := seedUser(t, tx, "Alice", "CS", nil, nil)

	if _, err := chatSvc.Send(context.Background(), alice.ID, "match_nope_nope", "hi"); !apperr.IsCode(err, apperr.CodeNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}
