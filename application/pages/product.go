package pages

import (
	"context"

	"github.com/sirupsen/logrus"

	"ecommerce_automation/domain/entities"
	"ecommerce_automation/domain/interfaces"
)

// ProductPage shows one item
type ProductPage struct {
	*Base
}

// NewProductPage - creates the product detail page
func NewProductPage(session interfaces.Session, source interfaces.LocatorSource, logger logrus.FieldLogger) (*ProductPage, error) {
	base, err := loadBase(session, source, ProductPageName, logger)
	if err != nil {
		return nil, err
	}
	return &ProductPage{Base: base}, nil
}

func (p *ProductPage) Name(ctx context.Context) (string, error) {
	return p.ReadElement(ctx, "name")
}

func (p *ProductPage) Price(ctx context.Context) (entities.ItemPrice, error) {
	name, err := p.Name(ctx)
	if err != nil {
		return entities.ItemPrice{}, err
	}
	raw, err := p.ReadElement(ctx, "price")
	if err != nil {
		return entities.ItemPrice{}, err
	}
	value, err := entities.ParsePrice(raw)
	if err != nil {
		return entities.ItemPrice{}, err
	}
	return entities.ItemPrice{Name: name, Raw: raw, Price: value}, nil
}

func (p *ProductPage) AddToCart(ctx context.Context) error {
	return p.ClickElement(ctx, "add_to_cart_button")
}

func (p *ProductPage) RemoveFromCart(ctx context.Context) error {
	return p.ClickElement(ctx, "remove_button")
}

func (p *ProductPage) BackToProducts(ctx context.Context) error {
	return p.ClickElement(ctx, "back_to_products")
}
