package pages

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"ecommerce_automation/domain/entities"
	"ecommerce_automation/domain/errs"
	"ecommerce_automation/domain/interfaces"
)

// Business errors of the inventory page
var (
	ErrItemNotFound = errors.New("inventory item not found")
	ErrUnknownSort  = errors.New("unknown sort option")
)

// cartBadgeTimeout bounds the wait for the cart badge, absent while the cart is empty
const cartBadgeTimeout = time.Second

// InventoryPage is the product list shown after login
type InventoryPage struct {
	*Base
}

// NewInventoryPage - creates the inventory page
func NewInventoryPage(session interfaces.Session, source interfaces.LocatorSource, logger logrus.FieldLogger) (*InventoryPage, error) {
	base, err := loadBase(session, source, InventoryPageName, logger)
	if err != nil {
		return nil, err
	}
	return &InventoryPage{Base: base}, nil
}

// OpenLateralMenu - opens the burger menu
func (p *InventoryPage) OpenLateralMenu(ctx context.Context) error {
	return p.ClickElement(ctx, "lateral_menu")
}

// LateralMenuItems - returns the container of the menu links
func (p *InventoryPage) LateralMenuItems(ctx context.Context) (interfaces.Element, error) {
	return p.GetElement(ctx, "lateral_menu_items")
}

// Logout - clicks the logout link of the opened menu
func (p *InventoryPage) Logout(ctx context.Context) error {
	menu, err := p.LateralMenuItems(ctx)
	if err != nil {
		return fmt.Errorf("failed to find lateral menu: %w", err)
	}
	return p.ClickElement(ctx, "logout", interfaces.WithScope(menu))
}

// Items - returns every inventory item card
func (p *InventoryPage) Items(ctx context.Context) ([]interfaces.Element, error) {
	return p.GetElements(ctx, "inventory_items")
}

// FindItem - returns the first item whose text contains name
func (p *InventoryPage) FindItem(ctx context.Context, name string) (interfaces.Element, error) {
	items, err := p.Items(ctx)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		text, err := item.Text()
		if err != nil {
			continue
		}
		if strings.Contains(text, name) {
			return item, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrItemNotFound, name)
}

// AddItemToCart - clicks the add button of an item card
func (p *InventoryPage) AddItemToCart(ctx context.Context, item interfaces.Element) error {
	return p.ClickElement(ctx, "add_to_cart_button", interfaces.WithScope(item))
}

// RemoveItemFromCart - clicks the remove button of an item card
func (p *InventoryPage) RemoveItemFromCart(ctx context.Context, item interfaces.Element) error {
	return p.ClickElement(ctx, "remove_button", interfaces.WithScope(item))
}

// AddToCartByName - finds an item and adds it to the cart
func (p *InventoryPage) AddToCartByName(ctx context.Context, name string) error {
	item, err := p.FindItem(ctx, name)
	if err != nil {
		return err
	}
	p.logger.Infof("Adding %q to cart", name)
	return p.AddItemToCart(ctx, item)
}

// RemoveFromCartByName - finds an item and removes it from the cart
func (p *InventoryPage) RemoveFromCartByName(ctx context.Context, name string) error {
	item, err := p.FindItem(ctx, name)
	if err != nil {
		return err
	}
	p.logger.Infof("Removing %q from cart", name)
	return p.RemoveItemFromCart(ctx, item)
}

// CartCount - returns the number on the cart badge, 0 when there is no badge
func (p *InventoryPage) CartCount(ctx context.Context) (int, error) {
	text, err := p.ReadElement(ctx, "cart_icon", interfaces.WithTimeout(cartBadgeTimeout))
	// a canceled run is not an empty cart
	if ctxErr := ctx.Err(); ctxErr != nil {
		return 0, ctxErr
	}
	if errors.Is(err, errs.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	count, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("failed to parse cart count %q: %w", text, err)
	}
	return count, nil
}

// OpenCart - clicks the cart icon
func (p *InventoryPage) OpenCart(ctx context.Context) error {
	return p.ClickElement(ctx, "cart_button")
}

// ItemPrices - returns every item with its price, in display order
func (p *InventoryPage) ItemPrices(ctx context.Context) ([]entities.ItemPrice, error) {
	items, err := p.Items(ctx)
	if err != nil {
		return nil, err
	}

	prices := make([]entities.ItemPrice, 0, len(items))
	for _, item := range items {
		name, err := p.ReadElement(ctx, "item_name", interfaces.WithScope(item))
		if err != nil {
			return nil, err
		}
		raw, err := p.ReadElement(ctx, "item_price", interfaces.WithScope(item))
		if err != nil {
			return nil, err
		}
		value, err := entities.ParsePrice(raw)
		if err != nil {
			return nil, err
		}
		prices = append(prices, entities.ItemPrice{Name: name, Raw: raw, Price: value})
	}
	return prices, nil
}

// ItemPrice - returns the price of one item
func (p *InventoryPage) ItemPrice(ctx context.Context, name string) (entities.ItemPrice, error) {
	prices, err := p.ItemPrices(ctx)
	if err != nil {
		return entities.ItemPrice{}, err
	}
	for _, ip := range prices {
		if ip.Name == name {
			return ip, nil
		}
	}
	return entities.ItemPrice{}, fmt.Errorf("%w: %q", ErrItemNotFound, name)
}

// CurrentSort - returns the filter currently applied
func (p *InventoryPage) CurrentSort(ctx context.Context) (entities.SortOption, error) {
	label, err := p.ReadElement(ctx, "active_filter")
	if err != nil {
		return "", err
	}
	option, ok := entities.SortOptionFromLabel(label)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSort, label)
	}
	return option, nil
}

// ApplySort - selects a filter in the sort dropdown
func (p *InventoryPage) ApplySort(ctx context.Context, option entities.SortOption) error {
	if !option.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownSort, option)
	}
	p.logger.Infof("Sorting by %s", option.Label())
	return p.SelectElement(ctx, "sort_filter", entities.SelectByValue, string(option))
}

// OpenProduct - opens the detail page of an item by clicking its name
func (p *InventoryPage) OpenProduct(ctx context.Context, name string) error {
	item, err := p.FindItem(ctx, name)
	if err != nil {
		return err
	}
	return p.ClickElement(ctx, "item_name", interfaces.WithScope(item))
}
