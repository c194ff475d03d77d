package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/GurugubelliAjay/E-Commerce/internal/kvstore"
)

const (
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// TokenService issues the access/refresh pair and tracks the single live
// refresh token per user in the key-value store. Access and refresh use
// independent secrets so one credential type cannot forge the other.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	kv            kvstore.Store
}

func NewTokenService(accessSecret, refreshSecret string, kv kvstore.Store) *TokenService {
	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		kv:            kv,
	}
}

func refreshKey(userID uint) string {
	return fmt.Sprintf("refresh_token:%d", userID)
}

func (s *TokenService) IssueTokenPair(userID uint) (access, refresh string, err error) {
	access, err = s.sign(userID, s.accessSecret, AccessTokenTTL)
	if err != nil {
		return "", "", err
	}
	refresh, err = s.sign(userID, s.refreshSecret, RefreshTokenTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// PersistRefreshToken overwrites any previous value: only the most recently
// issued refresh token is valid (single active session).
func (s *TokenService) PersistRefreshToken(ctx context.Context, userID uint, refresh string) error {
	return s.kv.Set(ctx, refreshKey(userID), refresh, RefreshTokenTTL)
}

// RotateAccessToken verifies the refresh token against both its signature
// and the stored value, then issues a fresh access token. A signature-valid
// token that no longer matches the store is stale and rejected.
func (s *TokenService) RotateAccessToken(ctx context.Context, refresh string) (string, uint, error) {
	userID, err := s.parse(refresh, s.refreshSecret)
	if err != nil {
		return "", 0, ErrUnauthorized
	}
	stored, err := s.kv.Get(ctx, refreshKey(userID))
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return "", 0, ErrUnauthorized
		}
		return "", 0, err
	}
	if stored != refresh {
		return "", 0, ErrUnauthorized
	}
	access, err := s.sign(userID, s.accessSecret, AccessTokenTTL)
	if err != nil {
		return "", 0, err
	}
	return access, userID, nil
}

// Revoke invalidates the session server-side. The outstanding access token
// stays valid until its own expiry, a bounded exposure window.
func (s *TokenService) Revoke(ctx context.Context, userID uint) error {
	return s.kv.Del(ctx, refreshKey(userID))
}

// ParseAccessToken returns the user id an access token was issued for.
func (s *TokenService) ParseAccessToken(token string) (uint, error) {
	userID, err := s.parse(token, s.accessSecret)
	if err != nil {
		return 0, ErrUnauthorized
	}
	return userID, nil
}

// ParseRefreshToken extracts the user id from a refresh token without
// consulting the store, for logout paths.
func (s *TokenService) ParseRefreshToken(token string) (uint, error) {
	userID, err := s.parse(token, s.refreshSecret)
	if err != nil {
		return 0, ErrUnauthorized
	}
	return userID, nil
}

func (s *TokenService) sign(userID uint, secret []byte, ttl time.Duration) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(ttl).Unix(),
		"jti":     uuid.NewString(),
	})
	return t.SignedString(secret)
}

func (s *TokenService) parse(token string, secret []byte) (uint, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		return 0, ErrUnauthorized
	}
	idFloat, ok := claims["user_id"].(float64)
	if !ok || idFloat <= 0 {
		return 0, ErrUnauthorized
	}
	return uint(idFloat), nil
}
