package service

import (
	"context"

	"github.com/GurugubelliAjay/E-Commerce/internal/model"
)

type CartStore interface {
	Get(ctx context.Context, userID, productID uint) (*model.CartItem, error)
	List(ctx context.Context, userID uint) ([]model.CartItem, error)
	Save(ctx context.Context, it *model.CartItem) error
	Create(ctx context.Context, it *model.CartItem) error
	Clear(ctx context.Context, userID uint) error
}

type CartService struct {
	store CartStore
}

func NewCartService(store CartStore) *CartService {
	return &CartService{store: store}
}

func (s *CartService) Add(ctx context.Context, userID, productID uint, qty int) error {
	if qty <= 0 {
		return ErrInvalidRequest
	}
	it, err := s.store.Get(ctx, userID, productID)
	if err != nil {
		return err
	}
	if it == nil {
		return s.store.Create(ctx, &model.CartItem{UserID: userID, ProductID: productID, Qty: qty})
	}
	it.Qty += qty
	return s.store.Save(ctx, it)
}

func (s *CartService) Get(ctx context.Context, userID uint) ([]model.CartItem, error) {
	return s.store.List(ctx, userID)
}

func (s *CartService) Clear(ctx context.Context, userID uint) error {
	return s.store.Clear(ctx, userID)
}
