package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/peerlink/peerlink-backend/internal/data/repos"
	types "github.com/peerlink/peerlink-backend/internal/domain"
	"github.com/peerlink/peerlink-backend/internal/platform/apperr"
	"github.com/peerlink/peerlink-backend/internal/platform/dbctx"
	"github.com/peerlink/peerlink-backend/internal/platform/logger"
)

// ProfileUpdate carries the editable subset of a user profile. Nil fields are
// left untouched so partial updates do not clobber existing values.
type ProfileUpdate struct {
	Name          *string  `json:"name"`
	AvatarURL     *string  `json:"avatar_url"`
	Major         *string  `json:"major"`
	CollegeName   *string  `json:"college_name"`
	SkillsOffered []string `json:"skills_offered"`
	SkillsNeeded  []string `json:"skills_needed"`
}

type UserService interface {
	GetMe(ctx context.Context, userID uuid.UUID) (*types.User, error)
	GetByID(ctx context.Context, userID uuid.UUID) (*types.User, error)
	UpsertProfile(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*types.User, error)
}

type userService struct {
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(log *logger.Logger, userRepo repos.UserRepo) UserService {
	return &userService{
		log:      log.With("service", "UserService"),
		userRepo: userRepo,
	}
}

func (us *userService) GetMe(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	return us.getUser(ctx, "User.GetMe", userID)
}

func (us *userService) GetByID(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	u, err := us.getUser(ctx, "User.GetByID", userID)
	if err != nil {
		return nil, err
	}
	scrubbed := *u
	scrubbed.Password = ""
	return &scrubbed, nil
}

func (us *userService) getUser(ctx context.Context, op string, userID uuid.UUID) (*types.User, error) {
	if userID == uuid.Nil {
		return nil, apperr.Validation(op, "missing user id")
	}
	u, err := us.userRepo.GetByID(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, apperr.Unavailable(op, err)
	}
	if u == nil {
		return nil, apperr.NotFound(op, "user not found")
	}
	return u, nil
}

func (us *userService) UpsertProfile(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*types.User, error) {
	const op = "User.UpsertProfile"

	if _, err := us.getUser(ctx, op, userID); err != nil {
		return nil, err
	}

	updates := map[string]any{"updated_at": time.Now().UTC()}
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, apperr.Validation(op, "name cannot be empty")
		}
		updates["name"] = name
	}
	if update.AvatarURL != nil {
		updates["avatar_url"] = strings.TrimSpace(*update.AvatarURL)
	}
	if update.Major != nil {
		updates["major"] = strings.TrimSpace(*update.Major)
	}
	if update.CollegeName != nil {
		updates["college_name"] = strings.TrimSpace(*update.CollegeName)
	}
	if update.SkillsOffered != nil {
		updates["skills_offered"] = datatypes.NewJSONSlice(normalizeSkills(update.SkillsOffered))
	}
	if update.SkillsNeeded != nil {
		updates["skills_needed"] = datatypes.NewJSONSlice(normalizeSkills(update.SkillsNeeded))
	}

	if err := us.userRepo.UpdateFields(dbctx.Context{Ctx: ctx}, userID, updates); err != nil {
		return nil, apperr.Unavailable(op, err)
	}
	us.log.Info("Profile updated", "user_id", userID, "fields", len(updates)-1)

	return us.getUser(ctx, op, userID)
}

// normalizeSkills trims whitespace and drops empties and duplicates while
// preserving order. Matching compares skills case-sensitively, so case is
// kept as entered.
func normalizeSkills(skills []string) []string {
	seen := make(map[string]bool, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
