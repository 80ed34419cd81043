package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/peerlink/peerlink-backend/internal/data/repos"
	"github.com/peerlink/peerlink-backend/internal/data/repos/testutil"
	types "github.com/peerlink/peerlink-backend/internal/domain"
	domconn "github.com/peerlink/peerlink-backend/internal/domain/connection"
	"github.com/peerlink/peerlink-backend/internal/platform/apperr"
)

type sinkCall struct {
	recipient uuid.UUID
	notifType types.NotificationType
	title     string
	body      string
	refs      types.NotificationRefs
}

type fakeSink struct {
	mu    sync.Mutex
	calls []sinkCall
}

func (f *fakeSink) Emit(_ context.Context, recipientID uuid.UUID, notifType types.NotificationType, title, body string, refs types.NotificationRefs) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, sinkCall{recipient: recipientID, notifType: notifType, title: title, body: body, refs: refs})
	return uuid.New(), nil
}

func (f *fakeSink) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeSink) last() sinkCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func newConnectionFixture(t *testing.T) (ConnectionService, *fakeSink, *gorm.DB) {
	t.Helper()
	tx := testutil.Tx(t, testutil.DB(t))
	log := testutil.Logger(t)
	sink := &fakeSink{}
	svc := NewConnectionService(tx, log,
		repos.NewConnectionRepo(tx, log),
		repos.NewUserRepo(tx, log),
		sink, nil)
	return svc, sink, tx
}

func seedUser(t *testing.T, tx *gorm.DB, name, major string, offered, needed []string) *types.User {
	t.Helper()
	now := time.Now().UTC()
	u := &types.User{
		ID:            uuid.New(),
		Email:         uuid.NewString() + "@example.edu",
		Password:      "irrelevant",
		Name:          name,
		Major:         major,
		CollegeName:   "State",
		SkillsOffered: datatypes.NewJSONSlice(offered),
		SkillsNeeded:  datatypes.NewJSONSlice(needed),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := tx.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func TestRequestCreatesPendingWithScore(t *testing.T) {
	svc, sink, tx := newConnectionFixture(t)
	ctx := context.Background()

	alice := seedUser(t, tx, "Alice", "CS", []string{"Go", "SQL"}, []string{"Design"})
	bob := seedUser(t, tx, "Bob", "cs", []string{"Design"}, []string{"Go"})

	conn, err := svc.Request(ctx, alice.ID, bob.ID, "Study buddies?")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if conn.ID != domconn.PairID(alice.ID, bob.ID) {
		t.Fatalf("expected pair-derived id, got %q", conn.ID)
	}
	if conn.Status != types.ConnectionPending {
		t.Fatalf("expected pending, got %q", conn.Status)
	}
	if conn.RequestedBy != alice.ID {
		t.Fatalf("expected requested_by=%s, got %s", alice.ID, conn.RequestedBy)
	}
	// One needed skill met each way plus the case-insensitive major bonus.
	if conn.Score != 25 {
		t.Fatalf("expected score 25, got %d", conn.Score)
	}
	if sink.count() != 1 {
		t.Fatalf("expected 1 notification, got %d", sink.count())
	}
	got := sink.last()
	if got.recipient != bob.ID || got.notifType != types.NotificationConnectionRequest {
		t.Fatalf("unexpected notification %+v", got)
	}
	if got.refs.ConnectionID != conn.ID {
		t.Fatalf("notification should reference %q, got %q", conn.ID, got.refs.ConnectionID)
	}
	if got.body != "Study buddies?" {
		t.Fatalf("expected the request message as body, got %q", got.body)
	}
}

func TestRequestIsIdempotentWhilePending(t *testing.T) {
	svc, sink, tx := newConnectionFixture(t)
	ctx := context.Background()

	alice := seedUser(t, tx, "Alice", "CS", []string{"Go"}, nil)
	bob := seedUser(t, tx, "Bob", "Math", nil, []string{"Go"})

	first, err := svc.Request(ctx, alice.ID, bob.ID, "hey")
	if err != nil {
		t.Fatalf("first request failed: %v", err)
	}

	// Repeat from the same side, then from the opposite side. Both must
	// return the existing record untouched and emit nothing.
	repeat, err := svc.Request(ctx, alice.ID, bob.ID, "hey again")
	if err != nil {
		t.Fatalf("repeat request failed: %v", err)
	}
	reversed, err := svc.Request(ctx, bob.ID, alice.ID, "me too")
	if err != nil {
		t.Fatalf("reversed request failed: %v", err)
	}

	if repeat.ID != first.ID || reversed.ID != first.ID {
		t.Fatalf("expected one record id %q, got %q and %q", first.ID, repeat.ID, reversed.ID)
	}
	if reversed.RequestedBy != alice.ID {
		t.Fatalf("requested_by must not flip on re-request, got %s", reversed.RequestedBy)
	}
	if reversed.RequestMessage != "hey" {
		t.Fatalf("message must not change on re-request, got %q", reversed.RequestMessage)
	}
	if sink.count() != 1 {
		t.Fatalf("expected exactly 1 notification, got %d", sink.count())
	}
}

func TestRequestWithSelfFails(t *testing.T) {
	svc, _, tx := newConnectionFixture(t)
	alice := seedUser(t, tx, "Alice", "CS", nil, nil)

	_, err := svc.Request(context.Background(), alice.ID, alice.ID, "")
	if !apperr.IsCode(err, apperr.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRequestWithUnknownTargetFails(t *testing.T) {
	svc, _, tx := newConnectionFixture(t)
	alice := seedUser(t, tx, "Alice", "CS", nil, nil)

	_, err := svc.Request(context.Background(), alice.ID, uuid.New(), "")
	if !apperr.IsCode(err, apperr.CodeNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestAcceptActivatesAndNotifiesRequester(t *testing.T) {
	svc, sink, tx := newConnectionFixture(t)
	ctx := context.Background()

	alice := seedUser(t, tx, "Alice", "CS", nil, nil)
	bob := seedUser(t, tx, "Bob", "Math", nil, nil)

	conn, err := svc.Request(ctx, alice.ID, bob.ID, "")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	accepted, err := svc.Accept(ctx, conn.ID, bob.ID)
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if accepted.Status != types.ConnectionActive {
		t.Fatalf("expected active, got %q", accepted.Status)
	}
	got := sink.last()
	if got.recipient != alice.ID || got.notifType != types.NotificationConnectionAccepted {
		t.Fatalf("expected accepted notification to requester, got %+v", got)
	}
}

func TestAcceptByRequesterFails(t *testing.T) {
	svc, _, tx := newConnectionFixture(t)
	ctx := context.Background()

	alice := seedUser(t, tx, "Alice", "CS", nil, nil)
	bob := seedUser(t, tx, "Bob", "Math", nil, nil)

	conn, err := svc.Request(ctx, alice.ID, bob.ID, "")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if _, err := svc.Accept(ctx, conn.ID, alice.ID); !apperr.IsCode(err, apperr.CodeValidation) {
		t.Fatalf("expected validation error for self-accept, got %v", err)
	}

	listed, err := svc.ListForUser(ctx, alice.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(listed) != 1 || listed[0].Status != types.ConnectionPending {
		t.Fatalf("connection should still be pending, got %+v", listed)
	}
}

func TestAcceptByNonParticipantFails(t *testing.T) {
	svc, _, tx := newConnectionFixture(t)
	ctx := context.Background()

	alice := seedUser(t, tx, "Alice", "CS", nil, nil)
	bob := seedUser(t, tx, "Bob", "Math", nil, nil)
	eve := seedUser(t, tx, "Eve", "Bio", nil, nil)

	conn, err := svc.Request(ctx, alice.ID, bob.ID, "")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if _, err := svc.Accept(ctx, conn.ID, eve.ID); !apperr.IsCode(err, apperr.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAcceptMissingConnectionFails(t *testing.T) {
	svc, _, tx := newConnectionFixture(t)
	alice := seedUser(t, tx, "Alice", "CS", nil, nil)

	_, err := svc.Accept(context.Background(), domconn.PairID(alice.ID, uuid.New()), alice.ID)
	if !apperr.IsCode(err, apperr.CodeNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestAcceptNonPendingConflicts(t *testing.T) {
	svc, _, tx := newConnectionFixture(t)
	ctx := context.Background()

	alice := seedUser(t, tx, "Alice", "CS", nil, nil)
	bob := seedUser(t, tx, "Bob", "Math", nil, nil)

	conn, err := svc.Request(ctx, alice.ID, bob.ID, "")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if err := svc.Reject(ctx, conn.ID, bob.ID); err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if _, err := svc.Accept(ctx, conn.ID, bob.ID); !apperr.IsCode(err, apperr.CodeConflict) {
		t.Fatalf("expected conflict accepting rejected connection, got %v", err)
	}
}

func TestRejectEmitsNoNotification(t *testing.T) {
	svc, sink, tx := newConnectionFixture(t)
	ctx := context.Background()

	alice := seedUser(t, tx, "Alice", "CS", nil, nil)
	bob := seedUser(t, tx, "Bob", "Math", nil, nil)

	conn, err := svc.Request(ctx, alice.ID, bob.ID, "")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	before := sink.count()
	if err := svc.Reject(ctx, conn.ID, bob.ID); err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if sink.count() != before {
		t.Fatalf("reject must be silent, got %d new notifications", sink.count()-before)
	}

	listed, err := svc.ListForUser(ctx, alice.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(listed) != 1 || listed[0].Status != types.ConnectionRejected {
		t.Fatalf("expected rejected record, got %+v", listed)
	}
}

func TestRejectedConnectionCanBeReactivated(t *testing.T) {
	svc, sink, tx := newConnectionFixture(t)
	ctx := context.Background()

	alice := seedUser(t, tx, "Alice", "CS", []string{"Go"}, nil)
	bob := seedUser(t, tx, "Bob", "Math", nil, []string{"Go"})

	conn, err := svc.Request(ctx, alice.ID, bob.ID, "first try")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	firstCreated := conn.CreatedAt
	if err := svc.Reject(ctx, conn.ID, bob.ID); err != nil {
		t.Fatalf("reject failed: %v", err)
	}

	// The formerly rejected side re-requests: same record, fresh lifecycle.
	time.Sleep(5 * time.Millisecond)
	revived, err := svc.Request(ctx, bob.ID, alice.ID, "second try")
	if err != nil {
		t.Fatalf("re-request failed: %v", err)
	}
	if revived.ID != conn.ID {
		t.Fatalf("reactivation must reuse id %q, got %q", conn.ID, revived.ID)
	}
	if revived.Status != types.ConnectionPending {
		t.Fatalf("expected pending, got %q", revived.Status)
	}
	if revived.RequestedBy != bob.ID {
		t.Fatalf("requested_by should flip to the new requester, got %s", revived.RequestedBy)
	}
	if revived.RequestMessage != "second try" {
		t.Fatalf("expected fresh message, got %q", revived.RequestMessage)
	}
	if !revived.CreatedAt.After(firstCreated) {
		t.Fatalf("created_at should advance on reactivation: %v then %v", firstCreated, revived.CreatedAt)
	}
	got := sink.last()
	if got.recipient != alice.ID || got.notifType != types.NotificationConnectionRequest {
		t.Fatalf("expected fresh request notification to alice, got %+v", got)
	}
	if sink.count() != 2 {
		t.Fatalf("expected 2 notifications total, got %d", sink.count())
	}
}

func TestRemoveDeletesFromAnyState(t *testing.T) {
	svc, _, tx := newConnectionFixture(t)
	ctx := context.Background()

	alice := seedUser(t, tx, "Alice", "CS", nil, nil)
	bob := seedUser(t, tx, "Bob", "Math", nil, nil)

	conn, err := svc.Request(ctx, alice.ID, bob.ID, "")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if _, err := svc.Accept(ctx, conn.ID, bob.ID); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if err := svc.Remove(ctx, conn.ID, alice.ID); err != nil {
		t.Fatalf("remove failed: %v", err)
	}

	listed, err := svc.ListForUser(ctx, alice.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(listed) != 0 {
		t.Fatalf("expected no connections after removal, got %d", len(listed))
	}

	// A later request starts over as a brand new pending record.
	again, err := svc.Request(ctx, bob.ID, alice.ID, "")
	if err != nil {
		t.Fatalf("request after removal failed: %v", err)
	}
	if again.ID != conn.ID || again.Status != types.ConnectionPending || again.RequestedBy != bob.ID {
		t.Fatalf("expected fresh pending record at same id, got %+v", again)
	}
}

func TestRemoveByNonParticipantFails(t *testing.T) {
	svc, _, tx := newConnectionFixture(t)
	ctx := context.Background()

	alice := seedUser(t, tx, "Alice", "CS", nil, nil)
	bob := seedUser(t, tx, "Bob", "Math", nil, nil)
	eve := seedUser(t, tx, "Eve", "Bio", nil, nil)

	conn, err := svc.Request(ctx, alice.ID, bob.ID, "")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if err := svc.Remove(ctx, conn.ID, eve.ID); !apperr.IsCode(err, apperr.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListForUserDeduplicatesByPeer(t *testing.T) {
	svc, _, tx := newConnectionFixture(t)
	ctx := context.Background()

	alice := seedUser(t, tx, "Alice", "CS", nil, nil)
	bob := seedUser(t, tx, "Bob", "Math", nil, nil)

	if _, err := svc.Request(ctx, alice.ID, bob.ID, ""); err != nil {
		t.Fatalf("request failed: %v", err)
	}

	// Simulate a legacy duplicate row for the same pair under a non-derived
	// id, as older data could contain.
	now := time.Now().UTC()
	low, high := domconn.SortPair(alice.ID, bob.ID)
	dup := &types.Connection{
		ID:          "legacy_" + alice.ID.String(),
		UserAID:     low,
		UserBID:     high,
		RequestedBy: alice.ID,
		Status:      types.ConnectionPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := tx.Create(dup).Error; err != nil {
		t.Fatalf("seed duplicate: %v", err)
	}

	listed, err := svc.ListForUser(ctx, alice.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected 1 connection after dedup, got %d", len(listed))
	}
}
