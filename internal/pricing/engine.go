package pricing

import (
	"github.com/promayouf/storefront-backend/pkg/config"
	"github.com/promayouf/storefront-backend/pkg/db/models"
	"github.com/promayouf/storefront-backend/pkg/types"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// Totals are the derived monetary fields embedded in the cart state. Every
// field is formatted to exactly two decimals so the order payload, invoice
// renderer and on-screen summary all show the same figures.
type Totals struct {
	ItemsPrice           string `json:"itemsPrice"`
	DiscountAmount       string `json:"discountAmount"`
	DiscountedItemsPrice string `json:"discountedItemsPrice"`
	ShippingPrice        string `json:"shippingPrice"`
	TaxPrice             string `json:"taxPrice"`
	TotalPrice           string `json:"totalPrice"`
}

// ZeroTotals returns the totals of an empty, never-derived cart.
func ZeroTotals() Totals {
	zero := decimal.Zero.StringFixed(2)
	return Totals{
		ItemsPrice:           zero,
		DiscountAmount:       zero,
		DiscountedItemsPrice: zero,
		ShippingPrice:        zero,
		TaxPrice:             zero,
		TotalPrice:           zero,
	}
}

// Engine derives cart totals. It holds only the configured rates and keeps no
// other state, so repeated derivations over the same input always agree.
type Engine struct {
	freeShippingThreshold decimal.Decimal
	flatShippingFee       decimal.Decimal
	taxRate               decimal.Decimal
}

// NewEngine builds an engine from the configured pricing knobs.
func NewEngine(cfg config.PricingConfig) *Engine {
	return &Engine{
		freeShippingThreshold: decimal.NewFromFloat(cfg.FreeShippingThreshold),
		flatShippingFee:       decimal.NewFromFloat(cfg.FlatShippingFee),
		taxRate:               decimal.NewFromFloat(cfg.TaxRate),
	}
}

// ItemsSubtotal sums unit price times quantity plus the per-line tailoring
// surcharge, unrounded. Surcharge resolution order: the customization's
// TotalCost, then its legacy CustomizationPrice, then the line's cached
// TailoringCost, else zero.
func (e *Engine) ItemsSubtotal(items []types.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.UnitPrice).Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(line).Add(lineSurcharge(item))
	}
	return total
}

// Derive recomputes all totals from scratch. Intermediate sums stay
// unrounded; each exposed field is rounded exactly once at the boundary. The
// discount is rounded before subtraction so the discounted price the shopper
// sees is the one shipping and tax are computed from.
func (e *Engine) Derive(items []types.LineItem, coupon *types.Coupon) Totals {
	subtotal := e.ItemsSubtotal(items)
	itemsPrice := subtotal.Round(2)

	discount := decimal.Zero
	discountedPrice := itemsPrice
	effective := subtotal
	if coupon != nil {
		discount = e.discountFor(subtotal, coupon).Round(2)
		discountedPrice = subtotal.Sub(discount).Round(2)
		effective = discountedPrice
	}

	shipping := e.flatShippingFee
	if effective.GreaterThan(e.freeShippingThreshold) {
		shipping = decimal.Zero
	}

	tax := e.taxRate.Mul(effective)
	total := effective.Add(shipping).Add(tax)

	return Totals{
		ItemsPrice:           itemsPrice.StringFixed(2),
		DiscountAmount:       discount.StringFixed(2),
		DiscountedItemsPrice: discountedPrice.StringFixed(2),
		ShippingPrice:        shipping.Round(2).StringFixed(2),
		TaxPrice:             tax.Round(2).StringFixed(2),
		TotalPrice:           total.Round(2).StringFixed(2),
	}
}

// discountFor returns the unrounded discount. A fixed-amount coupon is capped
// at the subtotal so the discounted price never goes negative. Missing or
// malformed coupon numbers degrade to a zero discount, never an error.
func (e *Engine) discountFor(subtotal decimal.Decimal, coupon *types.Coupon) decimal.Decimal {
	value := decimal.NewFromFloat(coupon.DiscountValue)
	var discount decimal.Decimal
	if coupon.DiscountType == models.CouponTypePercentage {
		discount = subtotal.Mul(value).Div(oneHundred)
	} else {
		discount = decimal.Min(value, subtotal)
	}
	if discount.IsNegative() {
		return decimal.Zero
	}
	return discount
}

func lineSurcharge(item types.LineItem) decimal.Decimal {
	if item.Customization != nil {
		if item.Customization.TotalCost != 0 {
			return decimal.NewFromFloat(item.Customization.TotalCost)
		}
		if item.Customization.CustomizationPrice != 0 {
			return decimal.NewFromFloat(item.Customization.CustomizationPrice)
		}
	}
	if item.TailoringCost != 0 {
		return decimal.NewFromFloat(item.TailoringCost)
	}
	return decimal.Zero
}
