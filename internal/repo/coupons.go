package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/GurugubelliAjay/E-Commerce/internal/model"
)

type CouponRepo struct {
	db *gorm.DB
}

func NewCouponRepo(db *gorm.DB) *CouponRepo { return &CouponRepo{db: db} }

func (r *CouponRepo) ByCode(ctx context.Context, code string) (*model.Coupon, error) {
	var c model.Coupon
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CouponRepo) ActiveForUser(ctx context.Context, userID uint) (*model.Coupon, error) {
	var c model.Coupon
	err := r.db.WithContext(ctx).Where("user_id = ? AND is_active = ?", userID, true).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CouponRepo) Create(ctx context.Context, c *model.Coupon) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CouponRepo) DeleteByUser(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.Coupon{}).Error
}

// Deactivate flips is_active off. Unknown codes update zero rows, which is
// the idempotent no-op the checkout flow relies on.
func (r *CouponRepo) Deactivate(ctx context.Context, code string) error {
	return r.db.WithContext(ctx).
		Model(&model.Coupon{}).
		Where("code = ?", code).
		Update("is_active", false).Error
}
