package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/GurugubelliAjay/E-Commerce/internal/model"
)

type OrderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) *OrderRepo { return &OrderRepo{db: db} }

// FindByProviderIDs matches on either provider id, the replay check the
// confirmation flow runs before touching the provider again.
func (r *OrderRepo) FindByProviderIDs(ctx context.Context, paymentID, orderID string) (*model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("razorpay_payment_id = ? OR razorpay_order_id = ?", paymentID, orderID).
		First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Insert persists a new order and reports whether this call created it.
// When a concurrent confirm already inserted the same provider ids, the
// unique indexes fire and the winning row is returned with inserted=false,
// so callers branch on data instead of driver error codes.
func (r *OrderRepo) Insert(ctx context.Context, o *model.Order) (*model.Order, bool, error) {
	err := r.db.WithContext(ctx).Create(o).Error
	if err == nil {
		return o, true, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, false, err
	}
	existing, ferr := r.FindByProviderIDs(ctx, o.RazorpayPaymentID, o.RazorpayOrderID)
	if ferr != nil {
		return nil, false, ferr
	}
	if existing == nil {
		// Constraint fired but the row is not visible yet; surface the
		// original conflict and let the caller retry.
		return nil, false, err
	}
	return existing, false, nil
}

func (r *OrderRepo) ByUser(ctx context.Context, userID uint) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("id desc").
		Find(&orders).Error
	return orders, err
}
