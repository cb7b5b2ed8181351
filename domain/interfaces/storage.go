package interfaces

import (
	"context"

	"ecommerce_automation/domain/entities"
)

// LocatorSource provides page locator tables and seed users
type LocatorSource interface {
	// BaseURL returns the site root every page path is relative to
	BaseURL() string

	// Page returns the locator table of a page
	Page(name string) (*entities.PageDescriptor, error)

	// User returns a seed user by key
	User(name string) (entities.User, error)
}

// UserDirectory provides seed users from the helper API
type UserDirectory interface {
	Users(ctx context.Context) ([]entities.User, error)
	Sample(ctx context.Context, k int) ([]entities.User, error)
	AddUser(ctx context.Context, user entities.User) error
}
