package coupons

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/promayouf/storefront-backend/pkg/db/models"
)

// Repository provides coupon persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByCode loads a coupon by its normalized code.
func (r *Repository) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.db.WithContext(ctx).
		First(&coupon, "code = ?", strings.ToUpper(strings.TrimSpace(code))).
		Error
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}
