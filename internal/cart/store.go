package cart

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/promayouf/storefront-backend/internal/pricing"
	pkgerrors "github.com/promayouf/storefront-backend/pkg/errors"
	"github.com/promayouf/storefront-backend/pkg/logger"
	"github.com/promayouf/storefront-backend/pkg/metrics"
	"github.com/promayouf/storefront-backend/pkg/types"
)

// Store owns the session-scoped cart aggregate. Every mutator loads the
// state, applies one change, recomputes all totals through the pricing engine
// and persists the whole snapshot best-effort before returning it.
type Store struct {
	storage              Storage
	engine               *pricing.Engine
	metrics              *metrics.CartMetrics
	logg                 *logger.Logger
	defaultPaymentMethod string
	now                  func() time.Time
}

// NewStore wires the cart store. Metrics may be nil.
func NewStore(storage Storage, engine *pricing.Engine, cartMetrics *metrics.CartMetrics, logg *logger.Logger, defaultPaymentMethod string) (*Store, error) {
	if storage == nil {
		return nil, fmt.Errorf("cart storage required")
	}
	if engine == nil {
		return nil, fmt.Errorf("pricing engine required")
	}
	return &Store{
		storage:              storage,
		engine:               engine,
		metrics:              cartMetrics,
		logg:                 logg,
		defaultPaymentMethod: defaultPaymentMethod,
		now:                  time.Now,
	}, nil
}

// Get returns the current cart for the session, hydrating defaults when
// nothing has been stored yet.
func (s *Store) Get(ctx context.Context, sessionID string) (*State, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart session is required")
	}
	return s.storage.Load(ctx, sessionID)
}

// AddItem merges or appends the candidate line. Combo items are always
// appended. For regular items an existing (product, size) entry takes the
// candidate's quantity outright and its customization when one is provided.
func (s *Store) AddItem(ctx context.Context, sessionID string, candidate types.LineItem) (*State, error) {
	if candidate.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if candidate.Quantity < 1 {
		candidate.Quantity = 1
	}

	state, err := s.storage.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if candidate.IsComboItem {
		state.Items = append(state.Items, candidate)
	} else if idx := findLine(state.Items, candidate.ProductID, candidate.SelectedSize); idx >= 0 {
		existing := &state.Items[idx]
		existing.Quantity = candidate.Quantity
		if candidate.Customization != nil {
			existing.Customization = candidate.Customization
		}
		if candidate.TailoringCost != 0 {
			existing.TailoringCost = candidate.TailoringCost
		}
	} else {
		state.Items = append(state.Items, candidate)
	}

	reassertSalePricing(state.Items)

	s.finish(ctx, sessionID, state, "add_item")
	return state, nil
}

// RemoveItem drops every line matching the product id, and the size when one
// is given.
func (s *Store) RemoveItem(ctx context.Context, sessionID string, productID uuid.UUID, size string) (*State, error) {
	state, err := s.storage.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	kept := state.Items[:0]
	for _, item := range state.Items {
		if item.ProductID == productID && (size == "" || item.SelectedSize == size) {
			continue
		}
		kept = append(kept, item)
	}
	state.Items = kept

	s.finish(ctx, sessionID, state, "remove_item")
	return state, nil
}

// UpdateCustomization overwrites the customization and cached tailoring cost
// on every line matching the product id and optional size.
func (s *Store) UpdateCustomization(ctx context.Context, sessionID string, productID uuid.UUID, size string, customization *types.Customization, tailoringCost float64) (*State, error) {
	state, err := s.storage.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	for i := range state.Items {
		item := &state.Items[i]
		if item.ProductID != productID {
			continue
		}
		if size != "" && item.SelectedSize != size {
			continue
		}
		item.Customization = customization
		item.TailoringCost = tailoringCost
	}

	s.finish(ctx, sessionID, state, "update_customization")
	return state, nil
}

// UpdateItemColor changes the selected color on lines matching product, size
// and the exact customization payload the client saw.
func (s *Store) UpdateItemColor(ctx context.Context, sessionID string, productID uuid.UUID, size string, customization *types.Customization, color string) (*State, error) {
	state, err := s.storage.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	for i := range state.Items {
		item := &state.Items[i]
		if item.ProductID != productID {
			continue
		}
		if size != "" && item.SelectedSize != size {
			continue
		}
		if !reflect.DeepEqual(item.Customization, customization) {
			continue
		}
		item.SelectedColor = color
	}

	s.finish(ctx, sessionID, state, "update_color")
	return state, nil
}

// ApplyCoupon attaches the coupon when it passes all gates against the
// current effective subtotal. A failing coupon is silently not attached and
// totals are still recomputed so a rejection never leaves stale figures.
func (s *Store) ApplyCoupon(ctx context.Context, sessionID string, coupon types.Coupon) (*State, error) {
	state, err := s.storage.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if reason := s.couponRejection(state, coupon); reason != "" {
		s.metrics.IncCouponRejected(reason)
		if s.logg != nil {
			fields := map[string]any{"coupon": coupon.Code, "reason": reason}
			s.logg.Info(s.logg.WithFields(ctx, fields), "cart.coupon_rejected")
		}
		s.finish(ctx, sessionID, state, "apply_coupon")
		return state, nil
	}

	state.Coupon = &coupon
	s.finish(ctx, sessionID, state, "apply_coupon")
	return state, nil
}

// RemoveCoupon detaches any applied coupon.
func (s *Store) RemoveCoupon(ctx context.Context, sessionID string) (*State, error) {
	state, err := s.storage.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	state.Coupon = nil
	s.finish(ctx, sessionID, state, "remove_coupon")
	return state, nil
}

// SaveShippingAddress stores the checkout address. Totals are unaffected.
func (s *Store) SaveShippingAddress(ctx context.Context, sessionID string, address types.Address) (*State, error) {
	state, err := s.storage.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	state.ShippingAddress = address
	s.persist(ctx, sessionID, state, "save_shipping_address")
	return state, nil
}

// SavePaymentMethod stores the payment method selection. Totals are unaffected.
func (s *Store) SavePaymentMethod(ctx context.Context, sessionID string, method string) (*State, error) {
	if method == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment method is required")
	}
	state, err := s.storage.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	state.PaymentMethod = method
	s.persist(ctx, sessionID, state, "save_payment_method")
	return state, nil
}

// Clear empties the line items and coupon, zeroing all totals. Shipping and
// payment selections survive so the shopper can start a new basket.
func (s *Store) Clear(ctx context.Context, sessionID string) (*State, error) {
	state, err := s.storage.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	state.Items = []types.LineItem{}
	state.Coupon = nil
	state.AppliedCoupon = nil
	state.Totals = pricing.ZeroTotals()

	s.persist(ctx, sessionID, state, "clear")
	return state, nil
}

// Reset returns the session to a pristine cart after checkout completes:
// items, coupon, shipping address and payment method all revert to defaults.
func (s *Store) Reset(ctx context.Context, sessionID string) (*State, error) {
	state := NewState(s.defaultPaymentMethod)
	s.persist(ctx, sessionID, state, "reset")
	return state, nil
}

// couponRejection returns the name of the first failing gate, or empty when
// the coupon may be applied.
func (s *Store) couponRejection(state *State, coupon types.Coupon) string {
	subtotal := s.engine.ItemsSubtotal(state.Items)
	if coupon.MinimumPurchaseAmount > 0 && subtotal.LessThan(decimal.NewFromFloat(coupon.MinimumPurchaseAmount)) {
		return "minimum_purchase"
	}
	if coupon.ValidUntil != nil && coupon.ValidUntil.Before(s.now()) {
		return "expired"
	}
	if !coupon.IsActive {
		return "inactive"
	}
	return ""
}

// finish recomputes the derived totals and persists the snapshot.
func (s *Store) finish(ctx context.Context, sessionID string, state *State, op string) {
	totals := s.engine.Derive(state.Items, state.Coupon)
	state.Totals = totals
	if state.Coupon != nil {
		state.AppliedCoupon = &types.AppliedCoupon{
			Coupon:         *state.Coupon,
			DiscountAmount: totals.DiscountAmount,
		}
	} else {
		state.AppliedCoupon = nil
	}
	s.persist(ctx, sessionID, state, op)
}

// persist writes the snapshot best-effort: a storage failure is logged and
// counted but the in-memory state stays authoritative for the session.
func (s *Store) persist(ctx context.Context, sessionID string, state *State, op string) {
	s.metrics.IncOperation(op)
	if err := s.storage.Save(ctx, sessionID, state); err != nil {
		s.metrics.IncPersistFailure(op)
		if s.logg != nil {
			s.logg.Error(s.logg.WithField(ctx, "op", op), "cart.persist_failed", err)
		}
	}
}

func findLine(items []types.LineItem, productID uuid.UUID, size string) int {
	for i, item := range items {
		if item.Matches(productID, size) {
			return i
		}
	}
	return -1
}

// reassertSalePricing forces the unit price of on-sale lines back to the sale
// price, guarding against a stale price carried over from an earlier add.
func reassertSalePricing(items []types.LineItem) {
	for i := range items {
		item := &items[i]
		if !item.IsOnSale || item.SalePrice == 0 || item.RegularPrice == 0 {
			continue
		}
		item.UnitPrice = item.SalePrice
		item.OriginalPrice = item.RegularPrice
		item.DiscountPercentage = int(math.Round((item.RegularPrice - item.SalePrice) / item.RegularPrice * 100))
	}
}
