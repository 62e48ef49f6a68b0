package cart

import (
	"github.com/promayouf/storefront-backend/internal/pricing"
	"github.com/promayouf/storefront-backend/pkg/types"
)

// State is the full cart aggregate persisted per session. The six total
// fields are derived caches: they are rewritten from a full recompute after
// every mutation and are never touched independently.
type State struct {
	Items           []types.LineItem     `json:"cartItems"`
	Coupon          *types.Coupon        `json:"coupon"`
	AppliedCoupon   *types.AppliedCoupon `json:"appliedCoupon"`
	ShippingAddress types.Address        `json:"shippingAddress"`
	PaymentMethod   string               `json:"paymentMethod"`

	pricing.Totals
}

// NewState returns an empty cart with the default payment method and zeroed
// totals.
func NewState(defaultPaymentMethod string) *State {
	return &State{
		Items:         []types.LineItem{},
		PaymentMethod: defaultPaymentMethod,
		Totals:        pricing.ZeroTotals(),
	}
}

// normalize repairs a partially shaped state loaded from storage so callers
// never observe nil slices, a blank payment method or empty total strings.
func (s *State) normalize(defaultPaymentMethod string) {
	if s.Items == nil {
		s.Items = []types.LineItem{}
	}
	if s.PaymentMethod == "" {
		s.PaymentMethod = defaultPaymentMethod
	}
	zero := pricing.ZeroTotals()
	if s.ItemsPrice == "" {
		s.ItemsPrice = zero.ItemsPrice
	}
	if s.DiscountAmount == "" {
		s.DiscountAmount = zero.DiscountAmount
	}
	if s.DiscountedItemsPrice == "" {
		s.DiscountedItemsPrice = zero.DiscountedItemsPrice
	}
	if s.ShippingPrice == "" {
		s.ShippingPrice = zero.ShippingPrice
	}
	if s.TaxPrice == "" {
		s.TaxPrice = zero.TaxPrice
	}
	if s.TotalPrice == "" {
		s.TotalPrice = zero.TotalPrice
	}
}
