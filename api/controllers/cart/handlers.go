package cart

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/promayouf/storefront-backend/api/middleware"
	"github.com/promayouf/storefront-backend/api/responses"
	"github.com/promayouf/storefront-backend/api/validators"
	cartstore "github.com/promayouf/storefront-backend/internal/cart"
	"github.com/promayouf/storefront-backend/internal/coupons"
	"github.com/promayouf/storefront-backend/internal/products"
	pkgerrors "github.com/promayouf/storefront-backend/pkg/errors"
	"github.com/promayouf/storefront-backend/pkg/logger"
	"github.com/promayouf/storefront-backend/pkg/types"
)

// Controllers bundles the cart HTTP handlers and their collaborators.
type Controllers struct {
	store    *cartstore.Store
	products products.Service
	coupons  coupons.Service
	logg     *logger.Logger
}

// NewControllers wires the cart handler set.
func NewControllers(store *cartstore.Store, productsSvc products.Service, couponsSvc coupons.Service, logg *logger.Logger) (*Controllers, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart store required")
	}
	if productsSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "products service required")
	}
	if couponsSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "coupons service required")
	}
	return &Controllers{store: store, products: productsSvc, coupons: couponsSvc, logg: logg}, nil
}

func (c *Controllers) session(r *http.Request) (string, error) {
	sessionID := middleware.CartSessionFromContext(r.Context())
	if sessionID == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "cart session missing")
	}
	return sessionID, nil
}

// Get returns the session's cart.
func (c *Controllers) Get(w http.ResponseWriter, r *http.Request) {
	sessionID, err := c.session(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	state, err := c.store.Get(r.Context(), sessionID)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, state)
}

type addItemRequest struct {
	ProductID       uuid.UUID            `json:"productId" validate:"required"`
	Quantity        int                  `json:"qty" validate:"min=0"`
	SelectedSize    string               `json:"selectedSize"`
	SelectedColor   string               `json:"selectedColor"`
	IsComboItem     bool                 `json:"isComboItem"`
	CombinationID   string               `json:"combinationId"`
	CombinationType string               `json:"combinationType"`
	Customization   *types.Customization `json:"customization,omitempty"`
	TailoringCost   float64              `json:"tailoringCost"`
}

// AddItem resolves the product server side and merges it into the cart.
func (c *Controllers) AddItem(w http.ResponseWriter, r *http.Request) {
	sessionID, err := c.session(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	var payload addItemRequest
	if err := validators.DecodeJSONBody(r, &payload); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	line, err := c.products.ResolveLine(r.Context(), products.ResolveLineInput{
		ProductID:       payload.ProductID,
		Quantity:        payload.Quantity,
		SelectedSize:    payload.SelectedSize,
		SelectedColor:   payload.SelectedColor,
		IsComboItem:     payload.IsComboItem,
		CombinationID:   payload.CombinationID,
		CombinationType: payload.CombinationType,
		Customization:   payload.Customization,
		TailoringCost:   payload.TailoringCost,
	})
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	state, err := c.store.AddItem(r.Context(), sessionID, *line)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, state)
}

// RemoveItem drops a line by product id and optional ?size= filter.
func (c *Controllers) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sessionID, err := c.session(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
		return
	}

	state, err := c.store.RemoveItem(r.Context(), sessionID, productID, r.URL.Query().Get("size"))
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, state)
}

type updateCustomizationRequest struct {
	SelectedSize  string               `json:"selectedSize"`
	Customization *types.Customization `json:"customization,omitempty"`
	TailoringCost float64              `json:"tailoringCost"`
}

// UpdateCustomization overwrites the customization on matching lines.
func (c *Controllers) UpdateCustomization(w http.ResponseWriter, r *http.Request) {
	sessionID, err := c.session(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
		return
	}

	var payload updateCustomizationRequest
	if err := validators.DecodeJSONBody(r, &payload); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	state, err := c.store.UpdateCustomization(r.Context(), sessionID, productID, payload.SelectedSize, payload.Customization, payload.TailoringCost)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, state)
}

type updateColorRequest struct {
	SelectedSize  string               `json:"selectedSize"`
	Customization *types.Customization `json:"customization,omitempty"`
	Color         string               `json:"color" validate:"required"`
}

// UpdateColor changes the selected color of a configured line.
func (c *Controllers) UpdateColor(w http.ResponseWriter, r *http.Request) {
	sessionID, err := c.session(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
		return
	}

	var payload updateColorRequest
	if err := validators.DecodeJSONBody(r, &payload); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	state, err := c.store.UpdateItemColor(r.Context(), sessionID, productID, payload.SelectedSize, payload.Customization, payload.Color)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, state)
}

type applyCouponRequest struct {
	Code string `json:"code" validate:"required"`
}

// ApplyCoupon resolves the code and lets the store decide whether it sticks.
func (c *Controllers) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	sessionID, err := c.session(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	var payload applyCouponRequest
	if err := validators.DecodeJSONBody(r, &payload); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	coupon, err := c.coupons.Resolve(r.Context(), payload.Code)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	state, err := c.store.ApplyCoupon(r.Context(), sessionID, *coupon)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, state)
}

// RemoveCoupon detaches the applied coupon.
func (c *Controllers) RemoveCoupon(w http.ResponseWriter, r *http.Request) {
	sessionID, err := c.session(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	state, err := c.store.RemoveCoupon(r.Context(), sessionID)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, state)
}

type shippingAddressRequest struct {
	FullName   string `json:"fullName"`
	Line1      string `json:"line1" validate:"required"`
	Line2      string `json:"line2"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode" validate:"required"`
	Country    string `json:"country" validate:"required"`
	Phone      string `json:"phone"`
}

// SaveShippingAddress stores the checkout address on the cart.
func (c *Controllers) SaveShippingAddress(w http.ResponseWriter, r *http.Request) {
	sessionID, err := c.session(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	var payload shippingAddressRequest
	if err := validators.DecodeJSONBody(r, &payload); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	state, err := c.store.SaveShippingAddress(r.Context(), sessionID, types.Address{
		FullName:   payload.FullName,
		Line1:      payload.Line1,
		Line2:      payload.Line2,
		City:       payload.City,
		State:      payload.State,
		PostalCode: payload.PostalCode,
		Country:    payload.Country,
		Phone:      payload.Phone,
	})
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, state)
}

type paymentMethodRequest struct {
	PaymentMethod string `json:"paymentMethod" validate:"required"`
}

// SavePaymentMethod stores the payment method selection.
func (c *Controllers) SavePaymentMethod(w http.ResponseWriter, r *http.Request) {
	sessionID, err := c.session(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	var payload paymentMethodRequest
	if err := validators.DecodeJSONBody(r, &payload); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	state, err := c.store.SavePaymentMethod(r.Context(), sessionID, payload.PaymentMethod)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, state)
}

// Clear empties the basket but keeps checkout selections.
func (c *Controllers) Clear(w http.ResponseWriter, r *http.Request) {
	sessionID, err := c.session(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	state, err := c.store.Clear(r.Context(), sessionID)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, state)
}

// Reset reverts the session to a pristine cart after checkout.
func (c *Controllers) Reset(w http.ResponseWriter, r *http.Request) {
	sessionID, err := c.session(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	state, err := c.store.Reset(r.Context(), sessionID)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, state)
}
