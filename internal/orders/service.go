package orders

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vitrine-commerce/vitrine-backend/internal/shipping"
	"github.com/vitrine-commerce/vitrine-backend/pkg/db/models"
	"github.com/vitrine-commerce/vitrine-backend/pkg/enums"
	pkgerrors "github.com/vitrine-commerce/vitrine-backend/pkg/errors"
	"github.com/vitrine-commerce/vitrine-backend/pkg/logger"
	"github.com/vitrine-commerce/vitrine-backend/pkg/types"
)

type quoter interface {
	Quote(ctx context.Context, rawCep string, rawItems any) (*shipping.Quote, error)
}

type catalog interface {
	ActiveByIDs(ctx context.Context, ids []int64) (map[int64]models.Product, error)
}

type orderStore interface {
	WithTx(tx *gorm.DB) *Repository
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service places orders. It sits behind the checkout trust boundary: the
// shipping figures a client sends are discarded and re-derived from the
// rate engine before anything is persisted.
type Service struct {
	quotes  quoter
	catalog catalog
	repo    orderStore
	tx      txRunner
	log     *logger.Logger
}

// NewService builds the checkout service.
func NewService(quotes quoter, productCatalog catalog, repo orderStore, tx txRunner, log *logger.Logger) (*Service, error) {
	if quotes == nil {
		return nil, fmt.Errorf("quote service required")
	}
	if productCatalog == nil {
		return nil, fmt.Errorf("product catalog required")
	}
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &Service{
		quotes:  quotes,
		catalog: productCatalog,
		repo:    repo,
		tx:      tx,
		log:     log,
	}, nil
}

// PlaceOrder re-derives the shipping quote from the request's postal code
// and items, prices the cart from the catalog, and persists the order and
// its lines in one transaction. Whatever shipping figures the request
// carried are overwritten by the engine output.
func (s *Service) PlaceOrder(ctx context.Context, req CheckoutRequest) (*models.Order, error) {
	items := shipping.NormalizeCartItems(cartItems(req.Items))
	if items == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty or malformed")
	}

	quote, err := s.quotes.Quote(ctx, req.Cep, items)
	if err != nil {
		return nil, err
	}

	order, err := s.buildOrder(ctx, req, items, quote)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		_, err := s.repo.WithTx(tx).CreateOrder(ctx, order)
		return err
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist order")
	}

	ctx = s.log.WithOrderID(ctx, order.ID.String())
	ctx = s.log.WithField(ctx, "applied_rule", order.ShippingRule)
	s.log.Info(ctx, "order placed")
	return order, nil
}

func (s *Service) buildOrder(ctx context.Context, req CheckoutRequest, items []shipping.CartItem, quote *shipping.Quote) (*models.Order, error) {
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.catalog.ActiveByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "price cart items")
	}

	subtotal := decimal.Zero
	lines := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		product, ok := products[item.ProductID]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart references unknown products").
				WithDetails(map[string]any{"missing_product_ids": []int64{item.ProductID}})
		}
		lineTotal := product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(lineTotal)
		lines = append(lines, models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: product.Price,
			Subtotal:  lineTotal,
		})
	}

	order := &models.Order{
		CustomerName:         req.CustomerName,
		CustomerEmail:        req.CustomerEmail,
		Cep:                  quote.Cep.String(),
		Status:               enums.OrderStatusPending,
		Subtotal:             subtotal,
		ShippingPrice:        quote.Price,
		ShippingIsFree:       quote.IsFree,
		ShippingLeadTimeDays: quote.LeadTimeDays,
		ShippingRule:         quote.AppliedRule,
		ShippingFreeItems:    freeItems(quote.FreeItems),
		Total:                subtotal.Add(quote.Price),
		Items:                lines,
	}
	if quote.Zone != nil {
		zoneID := quote.Zone.ID
		order.DeliveryZoneID = &zoneID
	}
	return order, nil
}

func cartItems(items []CheckoutItem) []shipping.CartItem {
	out := make([]shipping.CartItem, 0, len(items))
	for _, item := range items {
		out = append(out, shipping.CartItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return out
}

func freeItems(items []shipping.FreeItem) types.FreeShippingItems {
	out := make(types.FreeShippingItems, 0, len(items))
	for _, item := range items {
		out = append(out, types.FreeShippingItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Reason:    item.Reason,
		})
	}
	return out
}
