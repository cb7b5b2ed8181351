package pages

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"ecommerce_automation/domain/errs"
	"ecommerce_automation/domain/interfaces"
)

const emptyCartTimeout = time.Second

// CartPage lists what is in the cart
type CartPage struct {
	*Base
}

// NewCartPage - creates the cart page
func NewCartPage(session interfaces.Session, source interfaces.LocatorSource, logger logrus.FieldLogger) (*CartPage, error) {
	base, err := loadBase(session, source, CartPageName, logger)
	if err != nil {
		return nil, err
	}
	return &CartPage{Base: base}, nil
}

// ItemNames - returns the names of the items in the cart, none for an empty cart
func (p *CartPage) ItemNames(ctx context.Context) ([]string, error) {
	items, err := p.GetElements(ctx, "cart_items", interfaces.WithTimeout(emptyCartTimeout))
	// a canceled run is not an empty cart
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if errors.Is(err, errs.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(items))
	for _, item := range items {
		name, err := p.ReadElement(ctx, "item_name", interfaces.WithScope(item))
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

// Checkout - starts the checkout wizard
func (p *CartPage) Checkout(ctx context.Context) error {
	return p.ClickElement(ctx, "checkout_button")
}

// ContinueShopping - goes back to the inventory
func (p *CartPage) ContinueShopping(ctx context.Context) error {
	return p.ClickElement(ctx, "continues_shopping")
}
