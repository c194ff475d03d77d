package service

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/GurugubelliAjay/E-Commerce/internal/model"
)

type UserStore interface {
	ByEmail(ctx context.Context, email string) (*model.User, error)
	ByID(ctx context.Context, id uint) (*model.User, error)
	Create(ctx context.Context, u *model.User) error
}

// AuthService owns signup and login; session lifetime after that is the
// TokenService's business.
type AuthService struct {
	users  UserStore
	tokens *TokenService
}

func NewAuthService(users UserStore, tokens *TokenService) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Signup creates the user and logs them in, returning the token pair with
// the refresh token already persisted.
func (a *AuthService) Signup(ctx context.Context, name, email, password string) (*model.User, string, string, error) {
	if name == "" || email == "" || password == "" {
		return nil, "", "", ErrInvalidRequest
	}
	existing, err := a.users.ByEmail(ctx, email)
	if err != nil {
		return nil, "", "", err
	}
	if existing != nil {
		return nil, "", "", ErrEmailTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", err
	}
	u := &model.User{Name: name, Email: email, PasswordHash: string(hash), Role: "customer"}
	if err := a.users.Create(ctx, u); err != nil {
		return nil, "", "", err
	}
	access, refresh, err := a.issueSession(ctx, u.ID)
	if err != nil {
		return nil, "", "", err
	}
	return u, access, refresh, nil
}

// Login checks credentials and starts a fresh session, displacing any
// previous refresh token for the user.
func (a *AuthService) Login(ctx context.Context, email, password string) (*model.User, string, string, error) {
	u, err := a.users.ByEmail(ctx, email)
	if err != nil {
		return nil, "", "", err
	}
	if u == nil {
		return nil, "", "", ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", ErrUnauthorized
	}
	access, refresh, err := a.issueSession(ctx, u.ID)
	if err != nil {
		return nil, "", "", err
	}
	return u, access, refresh, nil
}

// Logout revokes the stored refresh token for whoever the refresh token
// names. An unparsable token is already logged out.
func (a *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	userID, err := a.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil
	}
	return a.tokens.Revoke(ctx, userID)
}

func (a *AuthService) Profile(ctx context.Context, userID uint) (*model.User, error) {
	u, err := a.users.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}
	return u, nil
}

func (a *AuthService) issueSession(ctx context.Context, userID uint) (string, string, error) {
	access, refresh, err := a.tokens.IssueTokenPair(userID)
	if err != nil {
		return "", "", err
	}
	if err := a.tokens.PersistRefreshToken(ctx, userID, refresh); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}
