package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/GurugubelliAjay/E-Commerce/internal/model"
)

type CartRepo struct {
	db *gorm.DB
}

func NewCartRepo(db *gorm.DB) *CartRepo { return &CartRepo{db: db} }

func (r *CartRepo) Get(ctx context.Context, userID, productID uint) (*model.CartItem, error) {
	var it model.CartItem
	err := r.db.WithContext(ctx).Where("user_id = ? AND product_id = ?", userID, productID).First(&it).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *CartRepo) List(ctx context.Context, userID uint) ([]model.CartItem, error) {
	var items []model.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("id asc").
		Find(&items).Error
	return items, err
}

func (r *CartRepo) Save(ctx context.Context, it *model.CartItem) error {
	return r.db.WithContext(ctx).Save(it).Error
}

func (r *CartRepo) Create(ctx context.Context, it *model.CartItem) error {
	return r.db.WithContext(ctx).Create(it).Error
}

func (r *CartRepo) Clear(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.CartItem{}).Error
}
