package services

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/peerlink/peerlink-backend/internal/data/repos"
	types "github.com/peerlink/peerlink-backend/internal/domain"
	"github.com/peerlink/peerlink-backend/internal/platform/apperr"
	"github.com/peerlink/peerlink-backend/internal/platform/dbctx"
	"github.com/peerlink/peerlink-backend/internal/platform/logger"
)

type JWTClaims struct {
	jwt.RegisteredClaims
}

// AuthTokens is the credential pair returned by login, register and refresh.
type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type AuthService interface {
	Register(ctx context.Context, email, password, name string) (*types.User, AuthTokens, error)
	Login(ctx context.Context, email, password string) (*types.User, AuthTokens, error)
	Refresh(ctx context.Context, refreshToken string) (AuthTokens, error)
	Logout(ctx context.Context, refreshToken string) error
	ParseAccessToken(tokenString string) (uuid.UUID, error)
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, userTokenRepo repos.UserTokenRepo, jwtSecretKey string, accessTTL, refreshTTL time.Duration) AuthService {
	return &authService{
		db:            db,
		log:           log.With("service", "AuthService"),
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (as *authService) Register(ctx context.Context, email, password, name string) (*types.User, AuthTokens, error) {
	const op = "Auth.Register"

	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if email == "" || !strings.Contains(email, "@") {
		return nil, AuthTokens{}, apperr.Validation(op, "a valid email is required")
	}
	if len(password) < 8 {
		return nil, AuthTokens{}, apperr.Validation(op, "password must be at least 8 characters")
	}
	if name == "" {
		return nil, AuthTokens{}, apperr.Validation(op, "name is required")
	}

	exists, err := as.userRepo.EmailExists(dbctx.Context{Ctx: ctx}, email)
	if err != nil {
		return nil, AuthTokens{}, apperr.Unavailable(op, err)
	}
	if exists {
		return nil, AuthTokens{}, apperr.Conflict(op, "email already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, AuthTokens{}, apperr.Wrap(apperr.CodeInternal, op, err)
	}

	now := time.Now().UTC()
	user := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  string(hashed),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	var tokens AuthTokens
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, err := as.userRepo.Create(dbc, []*types.User{user}); err != nil {
			return err
		}
		tokens, err = as.issueTokens(dbc, user)
		return err
	})
	if err != nil {
		return nil, AuthTokens{}, wrapStore(op, err)
	}
	as.log.Info("User registered", "user_id", user.ID)
	return user, tokens, nil
}

func (as *authService) Login(ctx context.Context, email, password string) (*types.User, AuthTokens, error) {
	const op = "Auth.Login"

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, AuthTokens{}, apperr.Validation(op, "email and password are required")
	}

	user, err := as.userRepo.GetByEmail(dbctx.Context{Ctx: ctx}, email)
	if err != nil {
		return nil, AuthTokens{}, apperr.Unavailable(op, err)
	}
	// Same error for unknown email and bad password so the endpoint does
	// not leak which emails exist.
	if user == nil {
		return nil, AuthTokens{}, apperr.Validation(op, "invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, AuthTokens{}, apperr.Validation(op, "invalid email or password")
	}

	var tokens AuthTokens
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if err := as.userTokenRepo.DeleteExpired(dbc, time.Now().UTC()); err != nil {
			return err
		}
		tokens, err = as.issueTokens(dbc, user)
		return err
	})
	if err != nil {
		return nil, AuthTokens{}, wrapStore(op, err)
	}
	return user, tokens, nil
}

func (as *authService) Refresh(ctx context.Context, refreshToken string) (AuthTokens, error) {
	const op = "Auth.Refresh"

	if refreshToken == "" {
		return AuthTokens{}, apperr.Validation(op, "missing refresh token")
	}

	var tokens AuthTokens
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		existing, err := as.userTokenRepo.GetByRefreshToken(dbc, refreshToken)
		if err != nil {
			return err
		}
		if existing == nil {
			return apperr.NotFound(op, "unknown refresh token")
		}
		if existing.ExpiresAt.Before(time.Now().UTC()) {
			if err := as.userTokenRepo.DeleteByRefreshToken(dbc, refreshToken); err != nil {
				return err
			}
			return apperr.Validation(op, "refresh token expired")
		}
		user, err := as.userRepo.GetByID(dbc, existing.UserID)
		if err != nil {
			return err
		}
		if user == nil {
			return apperr.NotFound(op, "user for refresh token no longer exists")
		}
		// Rotate: the old refresh token dies with the transaction.
		if err := as.userTokenRepo.DeleteByRefreshToken(dbc, refreshToken); err != nil {
			return err
		}
		tokens, err = as.issueTokens(dbc, user)
		return err
	})
	if err != nil {
		return AuthTokens{}, wrapStore(op, err)
	}
	return tokens, nil
}

func (as *authService) Logout(ctx context.Context, refreshToken string) error {
	const op = "Auth.Logout"

	if refreshToken == "" {
		return apperr.Validation(op, "missing refresh token")
	}
	if err := as.userTokenRepo.DeleteByRefreshToken(dbctx.Context{Ctx: ctx}, refreshToken); err != nil {
		return apperr.Unavailable(op, err)
	}
	return nil
}

// ParseAccessToken validates the signed token and extracts the subject user
// id. Used by the auth middleware on every protected request.
func (as *authService) ParseAccessToken(tokenString string) (uuid.UUID, error) {
	const op = "Auth.ParseAccessToken"

	parsed, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil {
		return uuid.Nil, apperr.Wrap(apperr.CodeValidation, op, err)
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid {
		return uuid.Nil, apperr.Validation(op, "invalid or expired token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, apperr.Validation(op, "invalid subject in token")
	}
	return userID, nil
}

func (as *authService) issueTokens(dbc dbctx.Context, user *types.User) (AuthTokens, error) {
	now := time.Now().UTC()
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(as.jwtSecretKey))
	if err != nil {
		return AuthTokens{}, err
	}

	refreshToken := uuid.NewString()
	if _, err := as.userTokenRepo.Create(dbc, &types.UserToken{
		ID:           uuid.New(),
		UserID:       user.ID,
		RefreshToken: refreshToken,
		ExpiresAt:    now.Add(as.refreshTTL),
		CreatedAt:    now,
	}); err != nil {
		return AuthTokens{}, err
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(as.accessTTL.Seconds()),
	}, nil
}
