package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a catalog listing. Pricing fields are the authoritative
// source for cart line items; sale pricing is resolved server side.
type Product struct {
	ID                 uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name               string           `gorm:"column:name;not null"`
	Slug               string           `gorm:"column:slug;not null;uniqueIndex"`
	Image              string           `gorm:"column:image"`
	Brand              string           `gorm:"column:brand;not null;default:'ProMayouf'"`
	Category           string           `gorm:"column:category;not null"`
	SubCategory        *string          `gorm:"column:sub_category"`
	Description        *string          `gorm:"column:description"`
	Price              decimal.Decimal  `gorm:"column:price;type:numeric(12,2);not null"`
	RegularPrice       *decimal.Decimal `gorm:"column:regular_price;type:numeric(12,2)"`
	SalePrice          *decimal.Decimal `gorm:"column:sale_price;type:numeric(12,2)"`
	IsOnSale           bool             `gorm:"column:is_on_sale;not null;default:false"`
	CountInStock       int              `gorm:"column:count_in_stock;not null;default:0"`
	Sizes              *string          `gorm:"column:sizes"`
	CustomizationReady bool             `gorm:"column:customization_ready;not null;default:false"`
	IsActive           bool             `gorm:"column:is_active;not null;default:true"`
	CreatedAt          time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
