package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/promayouf/storefront-backend/pkg/db/models"
	pkgerrors "github.com/promayouf/storefront-backend/pkg/errors"
	"github.com/promayouf/storefront-backend/pkg/types"
)

// Service resolves catalog products into cart line candidates with
// authoritative server-side pricing.
type Service interface {
	ResolveLine(ctx context.Context, input ResolveLineInput) (*types.LineItem, error)
}

// ResolveLineInput carries the client's line selection. Prices are never
// taken from the client; only selections and the customization payload are.
type ResolveLineInput struct {
	ProductID       uuid.UUID
	Quantity        int
	SelectedSize    string
	SelectedColor   string
	IsComboItem     bool
	CombinationID   string
	CombinationType string
	Customization   *types.Customization
	TailoringCost   float64
}

type productFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	repo productFinder
}

// NewService constructs the product resolution service.
func NewService(repo productFinder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

// ResolveLine loads the product and builds the line item the cart will merge.
// Sale pricing wins over the list price; the stock count is snapshotted so the
// cart can render availability without another catalog query.
func (s *service) ResolveLine(ctx context.Context, input ResolveLineInput) (*types.LineItem, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.Quantity < 1 {
		input.Quantity = 1
	}

	product, err := s.repo.FindByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if product.CountInStock < input.Quantity {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock").
			WithDetails(map[string]any{"countInStock": product.CountInStock})
	}
	if input.Customization != nil && !product.CustomizationReady {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product does not support customization")
	}

	line := &types.LineItem{
		ProductID:       product.ID,
		Name:            product.Name,
		Image:           product.Image,
		Brand:           product.Brand,
		Category:        product.Category,
		UnitPrice:       product.Price.InexactFloat64(),
		Quantity:        input.Quantity,
		SelectedSize:    input.SelectedSize,
		SelectedColor:   input.SelectedColor,
		IsComboItem:     input.IsComboItem,
		CombinationID:   input.CombinationID,
		CombinationType: input.CombinationType,
		Customization:   input.Customization,
		TailoringCost:   input.TailoringCost,
		CountInStock:    product.CountInStock,
	}

	if product.IsOnSale && product.SalePrice != nil && product.RegularPrice != nil {
		line.IsOnSale = true
		line.SalePrice = product.SalePrice.InexactFloat64()
		line.RegularPrice = product.RegularPrice.InexactFloat64()
		line.UnitPrice = line.SalePrice
		line.OriginalPrice = line.RegularPrice
	}

	return line, nil
}
