package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Coupon discount kinds understood by the cart.
const (
	CouponTypePercentage  = "percentage"
	CouponTypeFixedAmount = "fixed_amount"
)

// Coupon is a cart-level discount definition managed by the admin tooling.
type Coupon struct {
	ID                    uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code                  string          `gorm:"column:code;not null;uniqueIndex"`
	Description           *string         `gorm:"column:description"`
	DiscountType          string          `gorm:"column:discount_type;not null"`
	DiscountValue         decimal.Decimal `gorm:"column:discount_value;type:numeric(12,2);not null"`
	MinimumPurchaseAmount decimal.Decimal `gorm:"column:minimum_purchase_amount;type:numeric(12,2);not null;default:0"`
	ValidUntil            *time.Time      `gorm:"column:valid_until"`
	IsActive              bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt             time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
