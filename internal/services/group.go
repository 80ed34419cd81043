package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/peerlink/peerlink-backend/internal/data/repos"
	types "github.com/peerlink/peerlink-backend/internal/domain"
	"github.com/peerlink/peerlink-backend/internal/platform/apperr"
	"github.com/peerlink/peerlink-backend/internal/platform/dbctx"
	"github.com/peerlink/peerlink-backend/internal/platform/logger"
)

// GroupService manages study groups. The creator is always a member; added
// members get a group_invite notification.
type GroupService interface {
	Create(ctx context.Context, creatorID uuid.UUID, name string, memberIDs []uuid.UUID) (*types.Group, error)
	AddMembers(ctx context.Context, groupID, actorID uuid.UUID, memberIDs []uuid.UUID) error
	Members(ctx context.Context, groupID, actorID uuid.UUID) ([]*types.GroupMember, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*types.Group, error)
}

type groupService struct {
	db        *gorm.DB
	log       *logger.Logger
	groupRepo repos.GroupRepo
	userRepo  repos.UserRepo
	sink      NotificationSink
}

func NewGroupService(db *gorm.DB, log *logger.Logger, groupRepo repos.GroupRepo, userRepo repos.UserRepo, sink NotificationSink) GroupService {
	return &groupService{
		db:        db,
		log:       log.With("service", "GroupService"),
		groupRepo: groupRepo,
		userRepo:  userRepo,
		sink:      sink,
	}
}

func (gs *groupService) Create(ctx context.Context, creatorID uuid.UUID, name string, memberIDs []uuid.UUID) (*types.Group, error) {
	const op = "Group.Create"

	if creatorID == uuid.Nil {
		return nil, apperr.Validation(op, "missing user id")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation(op, "group name is required")
	}

	invitees, err := gs.resolveInvitees(ctx, op, creatorID, memberIDs)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	g := &types.Group{
		ID:        uuid.New(),
		Name:      name,
		CreatedBy: creatorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	members := make([]*types.GroupMember, 0, len(invitees)+1)
	members = append(members, &types.GroupMember{ID: uuid.New(), GroupID: g.ID, UserID: creatorID, AddedAt: now})
	for _, id := range invitees {
		members = append(members, &types.GroupMember{ID: uuid.New(), GroupID: g.ID, UserID: id, AddedAt: now})
	}

	err = gs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := gs.groupRepo.Create(dbctx.Context{Ctx: ctx, Tx: tx}, g, members)
		return err
	})
	if err != nil {
		return nil, wrapStore(op, err)
	}

	gs.notifyInvitees(ctx, g, invitees)
	return g, nil
}

func (gs *groupService) AddMembers(ctx context.Context, groupID, actorID uuid.UUID, memberIDs []uuid.UUID) error {
	const op = "Group.AddMembers"

	if groupID == uuid.Nil || actorID == uuid.Nil {
		return apperr.Validation(op, "missing id")
	}

	invitees, err := gs.resolveInvitees(ctx, op, actorID, memberIDs)
	if err != nil {
		return err
	}
	if len(invitees) == 0 {
		return apperr.Validation(op, "no users to add")
	}

	var g *types.Group
	var addedIDs []uuid.UUID
	err = gs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		g, err = gs.groupRepo.GetByID(dbc, groupID)
		if err != nil {
			return err
		}
		if g == nil {
			return apperr.NotFound(op, "group not found")
		}
		isMember, err := gs.groupRepo.IsMember(dbc, groupID, actorID)
		if err != nil {
			return err
		}
		if !isMember {
			return apperr.Validation(op, "acting user is not a member")
		}

		now := time.Now().UTC()
		added := make([]*types.GroupMember, 0, len(invitees))
		for _, id := range invitees {
			already, err := gs.groupRepo.IsMember(dbc, groupID, id)
			if err != nil {
				return err
			}
			if already {
				continue
			}
			added = append(added, &types.GroupMember{ID: uuid.New(), GroupID: groupID, UserID: id, AddedAt: now})
			addedIDs = append(addedIDs, id)
		}
		if len(added) == 0 {
			return nil
		}
		return gs.groupRepo.AddMembers(dbc, added)
	})
	if err != nil {
		return wrapStore(op, err)
	}

	gs.notifyInvitees(ctx, g, addedIDs)
	return nil
}

func (gs *groupService) Members(ctx context.Context, groupID, actorID uuid.UUID) ([]*types.GroupMember, error) {
	const op = "Group.Members"

	if groupID == uuid.Nil {
		return nil, apperr.Validation(op, "missing group id")
	}
	dbc := dbctx.Context{Ctx: ctx}
	isMember, err := gs.groupRepo.IsMember(dbc, groupID, actorID)
	if err != nil {
		return nil, apperr.Unavailable(op, err)
	}
	if !isMember {
		return nil, apperr.Validation(op, "acting user is not a member")
	}
	members, err := gs.groupRepo.Members(dbc, groupID)
	if err != nil {
		return nil, apperr.Unavailable(op, err)
	}
	return members, nil
}

func (gs *groupService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*types.Group, error) {
	const op = "Group.ListForUser"

	if userID == uuid.Nil {
		return nil, apperr.Validation(op, "missing user id")
	}
	listed, err := gs.groupRepo.ListForUser(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, apperr.Unavailable(op, err)
	}
	return listed, nil
}

// resolveInvitees validates that every invited user exists and strips the
// actor and duplicates from the list.
func (gs *groupService) resolveInvitees(ctx context.Context, op string, actorID uuid.UUID, memberIDs []uuid.UUID) ([]uuid.UUID, error) {
	seen := map[uuid.UUID]bool{actorID: true, uuid.Nil: true}
	invitees := make([]uuid.UUID, 0, len(memberIDs))
	for _, id := range memberIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		invitees = append(invitees, id)
	}
	if len(invitees) == 0 {
		return invitees, nil
	}
	found, err := gs.userRepo.GetByIDs(dbctx.Context{Ctx: ctx}, invitees)
	if err != nil {
		return nil, apperr.Unavailable(op, err)
	}
	if len(found) != len(invitees) {
		return nil, apperr.NotFound(op, "one or more invited users do not exist")
	}
	return invitees, nil
}

func (gs *groupService) notifyInvitees(ctx context.Context, g *types.Group, invitees []uuid.UUID) {
	for _, id := range invitees {
		if _, err := gs.sink.Emit(ctx, id, types.NotificationGroupInvite,
			"Added to a Study Group",
			fmt.Sprintf("You were added to %q", g.Name),
			types.NotificationRefs{GroupID: g.ID}); err != nil {
			gs.log.Warn("Failed to deliver group invite notification",
				"group_id", g.ID, "recipient_id", id, "error", err)
		}
	}
}
