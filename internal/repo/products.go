package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/GurugubelliAjay/E-Commerce/internal/model"
)

type ProductRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) *ProductRepo { return &ProductRepo{db: db} }

func (r *ProductRepo) All(ctx context.Context) ([]model.Product, error) {
	var ps []model.Product
	err := r.db.WithContext(ctx).Order("id asc").Find(&ps).Error
	return ps, err
}

func (r *ProductRepo) Featured(ctx context.Context) ([]model.Product, error) {
	var ps []model.Product
	err := r.db.WithContext(ctx).Where("is_featured = ?", true).Order("id asc").Find(&ps).Error
	return ps, err
}

func (r *ProductRepo) ByCategory(ctx context.Context, category string) ([]model.Product, error) {
	var ps []model.Product
	err := r.db.WithContext(ctx).Where("category = ?", category).Order("id asc").Find(&ps).Error
	return ps, err
}

// Random returns up to n products in random order, for the recommendations
// widget. RANDOM() is postgres-specific, which is fine: so is the driver.
func (r *ProductRepo) Random(ctx context.Context, n int) ([]model.Product, error) {
	var ps []model.Product
	err := r.db.WithContext(ctx).Order("RANDOM()").Limit(n).Find(&ps).Error
	return ps, err
}

func (r *ProductRepo) Get(ctx context.Context, id uint) (*model.Product, error) {
	var p model.Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ProductRepo) Save(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *ProductRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Product{}, id).Error
}
