package notification

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/peerlink/peerlink-backend/internal/data/repos/testutil"
	types "github.com/peerlink/peerlink-backend/internal/domain"
	"github.com/peerlink/peerlink-backend/internal/platform/dbctx"
)

func TestNotificationRepoLifecycle(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	repo := NewNotificationRepo(gdb, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	recipient := uuid.New()
	first, err := repo.Create(dbc, &types.Notification{
		ID:          uuid.New(),
		RecipientID: recipient,
		Type:        types.NotificationConnectionRequest,
		Title:       "New Connection Request",
		Body:        "Someone wants to connect with you!",
		CreatedAt:   time.Now().UTC().Add(-time.Minute),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err = repo.Create(dbc, &types.Notification{
		ID:          uuid.New(),
		RecipientID: recipient,
		Type:        types.NotificationConnectionAccepted,
		Title:       "Connection Accepted",
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("Create (second): %v", err)
	}
	_, err = repo.Create(dbc, &types.Notification{
		ID:          uuid.New(),
		RecipientID: uuid.New(),
		Type:        types.NotificationNewMessage,
		Title:       "New message",
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("Create (foreign): %v", err)
	}

	listed, err := repo.ListForRecipient(dbc, recipient)
	if err != nil {
		t.Fatalf("ListForRecipient: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("ListForRecipient: want 2 got %d", len(listed))
	}
	// Newest first.
	if listed[0].Type != types.NotificationConnectionAccepted {
		t.Fatalf("ListForRecipient order: want newest first, got %s", listed[0].Type)
	}

	unread, err := repo.CountUnread(dbc, recipient)
	if err != nil {
		t.Fatalf("CountUnread: %v", err)
	}
	if unread != 2 {
		t.Fatalf("CountUnread: want=2 got=%d", unread)
	}

	ok, err := repo.MarkRead(dbc, first.ID, recipient)
	if err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if !ok {
		t.Fatalf("MarkRead: expected row updated")
	}

	// A recipient cannot mark someone else's notification.
	ok, err = repo.MarkRead(dbc, first.ID, uuid.New())
	if err != nil {
		t.Fatalf("MarkRead (foreign): %v", err)
	}
	if ok {
		t.Fatalf("MarkRead (foreign): expected no rows affected")
	}

	unread, err = repo.CountUnread(dbc, recipient)
	if err != nil {
		t.Fatalf("CountUnread after MarkRead: %v", err)
	}
	if unread != 1 {
		t.Fatalf("CountUnread after MarkRead: want=1 got=%d", unread)
	}
}
