package pages

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"ecommerce_automation/domain/entities"
	"ecommerce_automation/domain/interfaces"
)

// CheckoutPage drives the three step checkout wizard.
// The step advances when Continue or Finish succeeds and goes back to the first step
// on Cancel and BackHome.
type CheckoutPage struct {
	*Base
	step entities.CheckoutStep
}

// NewCheckoutPage - creates the checkout page positioned on the information step
func NewCheckoutPage(session interfaces.Session, source interfaces.LocatorSource, logger logrus.FieldLogger) (*CheckoutPage, error) {
	base, err := loadBase(session, source, CheckoutPageName, logger)
	if err != nil {
		return nil, err
	}
	return &CheckoutPage{Base: base, step: entities.CheckoutInformation}, nil
}

// Step - returns the wizard step the page expects to be on
func (p *CheckoutPage) Step() entities.CheckoutStep {
	return p.step
}

// ExpectedURL - returns the URL of the current step
func (p *CheckoutPage) ExpectedURL() string {
	steps := p.descriptor.Steps
	if int(p.step) < len(steps) {
		return p.PathURL(steps[p.step])
	}
	return p.URL()
}

// FillField - types into one information field
func (p *CheckoutPage) FillField(ctx context.Context, key, value string) error {
	if err := p.SetElement(ctx, key, value); err != nil {
		return fmt.Errorf("failed to fill %s: %w", key, err)
	}
	return nil
}

// FillInformation - types every information field
func (p *CheckoutPage) FillInformation(ctx context.Context, info entities.CheckoutInfo) error {
	for _, f := range info.Fields() {
		if err := p.FillField(ctx, f.Name, f.Value); err != nil {
			return err
		}
	}
	return nil
}

// Continue - submits the information step
func (p *CheckoutPage) Continue(ctx context.Context) error {
	if err := p.ClickElement(ctx, "continue"); err != nil {
		return err
	}
	p.step = entities.CheckoutOverview
	return nil
}

// Finish - places the order from the overview step
func (p *CheckoutPage) Finish(ctx context.Context) error {
	if err := p.ClickElement(ctx, "finish"); err != nil {
		return err
	}
	p.step = entities.CheckoutComplete
	return nil
}

// Cancel - leaves the wizard
func (p *CheckoutPage) Cancel(ctx context.Context) error {
	if err := p.ClickElement(ctx, "cancel"); err != nil {
		return err
	}
	p.step = entities.CheckoutInformation
	return nil
}

// BackHome - returns to the inventory from the complete step
func (p *CheckoutPage) BackHome(ctx context.Context) error {
	if err := p.ClickElement(ctx, "back_home"); err != nil {
		return err
	}
	p.step = entities.CheckoutInformation
	return nil
}

// ErrorMessage - reads the validation banner of the information step
func (p *CheckoutPage) ErrorMessage(ctx context.Context) (string, error) {
	return p.ReadElement(ctx, "error_message")
}

// Summary - reads the totals of the overview step
func (p *CheckoutPage) Summary(ctx context.Context) (entities.OrderSummary, error) {
	var summary entities.OrderSummary
	fields := []struct {
		name string
		dst  *float64
	}{
		{"subtotal", &summary.Subtotal},
		{"tax", &summary.Tax},
		{"total", &summary.Total},
	}
	for _, f := range fields {
		raw, err := p.ReadElement(ctx, f.name)
		if err != nil {
			return entities.OrderSummary{}, err
		}
		if *f.dst, err = entities.ParsePrice(raw); err != nil {
			return entities.OrderSummary{}, err
		}
	}
	return summary, nil
}

// CompleteHeader - reads the confirmation title
func (p *CheckoutPage) CompleteHeader(ctx context.Context) (string, error) {
	return p.ReadElement(ctx, "complete_header")
}
