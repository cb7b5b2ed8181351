package pages

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"ecommerce_automation/domain/entities"
	"ecommerce_automation/domain/interfaces"
	"ecommerce_automation/infrastructure/security"
)

// LoginPage is the landing page of the shop
type LoginPage struct {
	*Base
	source interfaces.LocatorSource
}

// NewLoginPage - creates the login page
func NewLoginPage(session interfaces.Session, source interfaces.LocatorSource, logger logrus.FieldLogger) (*LoginPage, error) {
	base, err := loadBase(session, source, LoginPageName, logger)
	if err != nil {
		return nil, err
	}
	return &LoginPage{Base: base, source: source}, nil
}

// Login - types the credentials and submits the form
func (p *LoginPage) Login(ctx context.Context, user entities.User) error {
	p.logger.Infof("Logging in as %s", security.DescribeUser(user))

	if err := p.SetElement(ctx, "username", user.Username); err != nil {
		return fmt.Errorf("failed to type username: %w", err)
	}
	if err := p.SetElement(ctx, "password", user.Password); err != nil {
		return fmt.Errorf("failed to type password: %w", err)
	}
	if err := p.ClickElement(ctx, "login_button"); err != nil {
		return fmt.Errorf("failed to submit login: %w", err)
	}
	return nil
}

// ErrorMessage - reads the validation banner
func (p *LoginPage) ErrorMessage(ctx context.Context) (string, error) {
	return p.ReadElement(ctx, "error_message")
}

// User - returns a seed user from the locator document
func (p *LoginPage) User(name string) (entities.User, error) {
	return p.source.User(name)
}
