package coupons

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/promayouf/storefront-backend/pkg/db/models"
	pkgerrors "github.com/promayouf/storefront-backend/pkg/errors"
	"github.com/promayouf/storefront-backend/pkg/types"
)

// Service resolves coupon codes into cart-facing coupon values.
type Service interface {
	Resolve(ctx context.Context, code string) (*types.Coupon, error)
}

type couponFinder interface {
	FindByCode(ctx context.Context, code string) (*models.Coupon, error)
}

type service struct {
	repo couponFinder
}

// NewService constructs the coupon service.
func NewService(repo couponFinder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("coupon repository required")
	}
	return &service{repo: repo}, nil
}

// Resolve looks up the coupon by code. Unknown codes map to a not-found error
// so the cart layer can surface them without guessing at gorm internals.
func (s *service) Resolve(ctx context.Context, code string) (*types.Coupon, error) {
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required")
	}

	record, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up coupon")
	}

	return toCartCoupon(record), nil
}

func toCartCoupon(record *models.Coupon) *types.Coupon {
	coupon := &types.Coupon{
		Code:                  record.Code,
		DiscountType:          record.DiscountType,
		DiscountValue:         record.DiscountValue.InexactFloat64(),
		MinimumPurchaseAmount: record.MinimumPurchaseAmount.InexactFloat64(),
		ValidUntil:            record.ValidUntil,
		IsActive:              record.IsActive,
	}
	if record.Description != nil {
		coupon.Description = *record.Description
	}
	return coupon
}
