// Package pages holds the page objects of the shop.
//
// A page object resolves symbolic element names through its locator table and
// performs every browser action through an interfaces.Session, so waiting and
// error translation stay in the session layer.
package pages

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"ecommerce_automation/domain/entities"
	"ecommerce_automation/domain/interfaces"
	"ecommerce_automation/infrastructure/logging"
)

// Page names in the locator document
const (
	LoginPageName     = "login_page"
	InventoryPageName = "inventory_page"
	CartPageName      = "cart_page"
	CheckoutPageName  = "checkout_page"
	ProductPageName   = "product_page"
)

// Base is the element access shared by every page object
type Base struct {
	session    interfaces.Session
	descriptor *entities.PageDescriptor
	baseURL    string
	logger     logrus.FieldLogger
}

// NewBase - creates the shared part of a page object
func NewBase(session interfaces.Session, descriptor *entities.PageDescriptor, baseURL string, logger logrus.FieldLogger) *Base {
	return &Base{
		session:    session,
		descriptor: descriptor,
		baseURL:    baseURL,
		logger:     logging.Component(logger, "page").WithField("page", descriptor.Name),
	}
}

func loadBase(session interfaces.Session, source interfaces.LocatorSource, name string, logger logrus.FieldLogger) (*Base, error) {
	descriptor, err := source.Page(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load page %s: %w", name, err)
	}
	return NewBase(session, descriptor, source.BaseURL(), logger), nil
}

// Name - returns the page name in the locator document
func (b *Base) Name() string {
	return b.descriptor.Name
}

// Locator - resolves an element name of this page
func (b *Base) Locator(name string) (entities.Locator, error) {
	return b.descriptor.Locator(name)
}

// GetElement - waits for one element by name
func (b *Base) GetElement(ctx context.Context, name string, opts ...interfaces.FindOption) (interfaces.Element, error) {
	loc, err := b.Locator(name)
	if err != nil {
		return nil, err
	}
	return b.session.Find(ctx, loc, opts...)
}

// GetElements - waits for at least one element by name and returns all of them
func (b *Base) GetElements(ctx context.Context, name string, opts ...interfaces.FindOption) ([]interfaces.Element, error) {
	loc, err := b.Locator(name)
	if err != nil {
		return nil, err
	}
	return b.session.FindAll(ctx, loc, opts...)
}

// ClickElement - clicks an element by name
func (b *Base) ClickElement(ctx context.Context, name string, opts ...interfaces.FindOption) error {
	loc, err := b.Locator(name)
	if err != nil {
		return err
	}
	b.logger.Debugf("Clicking %s", name)
	return b.session.Click(ctx, loc, opts...)
}

// ReadElement - reads the text of an element by name
func (b *Base) ReadElement(ctx context.Context, name string, opts ...interfaces.FindOption) (string, error) {
	loc, err := b.Locator(name)
	if err != nil {
		return "", err
	}
	return b.session.ReadText(ctx, loc, opts...)
}

// SetElement - replaces the content of a field by name
func (b *Base) SetElement(ctx context.Context, name, value string, opts ...interfaces.FindOption) error {
	loc, err := b.Locator(name)
	if err != nil {
		return err
	}
	b.logger.Debugf("Typing into %s", name)
	return b.session.SetText(ctx, loc, value, opts...)
}

// SelectElement - chooses an option of a dropdown by name
func (b *Base) SelectElement(ctx context.Context, name string, method entities.SelectMethod, value string, opts ...interfaces.FindOption) error {
	loc, err := b.Locator(name)
	if err != nil {
		return err
	}
	b.logger.Debugf("Selecting %s %q in %s", method, value, name)
	return b.session.SelectOption(ctx, loc, method, value, opts...)
}

// URL - returns the absolute URL of the page
func (b *Base) URL() string {
	return b.PathURL(b.descriptor.Path)
}

// PathURL - joins a path to the site root
func (b *Base) PathURL(path string) string {
	return strings.TrimRight(b.baseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

// Open - navigates to the page
func (b *Base) Open(ctx context.Context) error {
	return b.session.Open(ctx, b.URL())
}

// CurrentURL - returns the URL of a window, 0 being the first one opened
func (b *Base) CurrentURL(ctx context.Context, window int) (string, error) {
	return b.session.CurrentURL(ctx, window)
}

// FindByName - alias of GetElement
func (b *Base) FindByName(ctx context.Context, name string, opts ...interfaces.FindOption) (interfaces.Element, error) {
	return b.GetElement(ctx, name, opts...)
}

// ClickByName - alias of ClickElement
func (b *Base) ClickByName(ctx context.Context, name string, opts ...interfaces.FindOption) error {
	return b.ClickElement(ctx, name, opts...)
}

// ReadByName - alias of ReadElement
func (b *Base) ReadByName(ctx context.Context, name string, opts ...interfaces.FindOption) (string, error) {
	return b.ReadElement(ctx, name, opts...)
}

// SetByName - alias of SetElement
func (b *Base) SetByName(ctx context.Context, name, value string, opts ...interfaces.FindOption) error {
	return b.SetElement(ctx, name, value, opts...)
}

// Ensure Base implements PageElements interface
var _ interfaces.PageElements = (*Base)(nil)
