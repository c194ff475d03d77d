package service

import (
	"context"
	"crypto/rand"
	"math/big"
	"time"

	"github.com/GurugubelliAjay/E-Commerce/internal/model"
)

const (
	rewardDiscountPercentage = 10
	rewardCouponValidity     = 30 * 24 * time.Hour
)

// CouponStore is the persistence slice the coupon service needs; the gorm
// implementation lives in internal/repo.
type CouponStore interface {
	ByCode(ctx context.Context, code string) (*model.Coupon, error)
	ActiveForUser(ctx context.Context, userID uint) (*model.Coupon, error)
	Create(ctx context.Context, c *model.Coupon) error
	DeleteByUser(ctx context.Context, userID uint) error
	Deactivate(ctx context.Context, code string) error
}

type CouponService struct {
	store CouponStore
}

func NewCouponService(store CouponStore) *CouponService {
	return &CouponService{store: store}
}

// FindActiveForUser resolves a code to a coupon usable by this user: it
// must be active, unexpired, and either global or owned by the caller.
// An inapplicable code is (nil, nil), not an error.
func (s *CouponService) FindActiveForUser(ctx context.Context, userID uint, code string) (*model.Coupon, error) {
	c, err := s.store.ByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if c == nil || !c.IsActive {
		return nil, nil
	}
	if !c.ExpirationDate.IsZero() && time.Now().After(c.ExpirationDate) {
		return nil, nil
	}
	if c.UserID != nil && *c.UserID != userID {
		return nil, nil
	}
	return c, nil
}

// ActiveForUser returns the caller's current coupon, if any.
func (s *CouponService) ActiveForUser(ctx context.Context, userID uint) (*model.Coupon, error) {
	return s.store.ActiveForUser(ctx, userID)
}

// ApplyDiscount subtracts the coupon percentage from an amount in minor
// units, rounding half up so the total matches what the provider records.
func ApplyDiscount(totalPaise int64, c *model.Coupon) int64 {
	if c == nil || c.DiscountPercentage <= 0 {
		return totalPaise
	}
	discount := (totalPaise*int64(c.DiscountPercentage) + 50) / 100
	if discount > totalPaise {
		return 0
	}
	return totalPaise - discount
}

// IssueRewardCoupon replaces whatever coupon the user currently owns with a
// fresh GIFT code. At most one owned coupon per user at any time.
func (s *CouponService) IssueRewardCoupon(ctx context.Context, userID uint) (*model.Coupon, error) {
	if err := s.store.DeleteByUser(ctx, userID); err != nil {
		return nil, err
	}
	c := &model.Coupon{
		Code:               "GIFT" + randomCode(6),
		DiscountPercentage: rewardDiscountPercentage,
		ExpirationDate:     time.Now().Add(rewardCouponValidity),
		UserID:             &userID,
		IsActive:           true,
	}
	if err := s.store.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Deactivate marks a redeemed coupon inactive. Unknown or already inactive
// codes are a no-op.
func (s *CouponService) Deactivate(ctx context.Context, code string) error {
	if code == "" {
		return nil
	}
	return s.store.Deactivate(ctx, code)
}

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func randomCode(n int) string {
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			// crypto/rand failing means the process is in no state to
			// issue coupons at all.
			panic(err)
		}
		b[i] = codeAlphabet[idx.Int64()]
	}
	return string(b)
}
