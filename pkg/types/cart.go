package types

import (
	"time"

	"github.com/google/uuid"
)

// Customization carries the tailoring options computed by the suit
// configurator. TotalCost (or the legacy CustomizationPrice field) is the
// surcharge added on top of the line total; a zero value means the
// configurator did not price the field and the line's TailoringCost applies.
type Customization struct {
	TotalCost          float64            `json:"totalCost,omitempty"`
	CustomizationPrice float64            `json:"customizationPrice,omitempty"`
	Measurements       map[string]float64 `json:"measurements,omitempty"`
	Options            map[string]string  `json:"options,omitempty"`
}

// LineItem is one entry in the cart. Non-combo items are identified by
// (ProductID, SelectedSize); combo items are always distinct entries.
// Customization is a pointer on purpose: an absent customization must
// serialize as a missing field, never as null.
type LineItem struct {
	ProductID          uuid.UUID      `json:"productId"`
	Name               string         `json:"name,omitempty"`
	Image              string         `json:"image,omitempty"`
	Brand              string         `json:"brand,omitempty"`
	Category           string         `json:"category,omitempty"`
	UnitPrice          float64        `json:"unitPrice"`
	OriginalPrice      float64        `json:"originalPrice,omitempty"`
	Quantity           int            `json:"qty"`
	SelectedSize       string         `json:"selectedSize,omitempty"`
	SelectedColor      string         `json:"selectedColor,omitempty"`
	IsComboItem        bool           `json:"isComboItem,omitempty"`
	CombinationID      string         `json:"combinationId,omitempty"`
	CombinationType    string         `json:"combinationType,omitempty"`
	Customization      *Customization `json:"customization,omitempty"`
	TailoringCost      float64        `json:"tailoringCost,omitempty"`
	IsOnSale           bool           `json:"isOnSale,omitempty"`
	SalePrice          float64        `json:"salePrice,omitempty"`
	RegularPrice       float64        `json:"regularPrice,omitempty"`
	DiscountPercentage int            `json:"discountPercentage,omitempty"`
	CountInStock       int            `json:"countInStock,omitempty"`
}

// Matches reports whether the line is a non-combo entry for the given
// product/size pair. An empty size means "don't care".
func (li LineItem) Matches(productID uuid.UUID, size string) bool {
	if li.IsComboItem {
		return false
	}
	if li.ProductID != productID {
		return false
	}
	return size == "" || li.SelectedSize == size
}

// Coupon is the discount definition attached to a cart.
type Coupon struct {
	Code                  string     `json:"code"`
	Description           string     `json:"description,omitempty"`
	DiscountType          string     `json:"discountType"`
	DiscountValue         float64    `json:"discountValue"`
	MinimumPurchaseAmount float64    `json:"minimumPurchaseAmount,omitempty"`
	ValidUntil            *time.Time `json:"validUntil,omitempty"`
	IsActive              bool       `json:"isActive"`
}

// AppliedCoupon snapshots the coupon together with the discount it produced,
// so order creation renders the same figure the cart displayed.
type AppliedCoupon struct {
	Coupon
	DiscountAmount string `json:"discountAmount"`
}
