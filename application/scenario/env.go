package scenario

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"ecommerce_automation/application/pages"
	"ecommerce_automation/application/result"
	"ecommerce_automation/domain/entities"
	"ecommerce_automation/domain/interfaces"
)

// ErrStepFailed is returned by a scenario whose last recorded step failed
var ErrStepFailed = errors.New("step failed")

// Settings tunes what the scenarios do
type Settings struct {
	// User is the seed user key used for the happy paths
	User string
	// Item is the product put in the cart
	Item string
	// LoginTimeLimit bounds the login-timeout scenario
	LoginTimeLimit time.Duration
	// Users replaces the seed user with one sampled from the helper API when set
	Users interfaces.UserDirectory
}

// DefaultSettings - returns the settings matching the demo site
func DefaultSettings() Settings {
	return Settings{
		User:           "standard_user",
		Item:           "Sauce Labs Backpack",
		LoginTimeLimit: 10 * time.Second,
	}
}

// Env is what one scenario run acts on
type Env struct {
	Session  interfaces.Session
	Source   interfaces.LocatorSource
	Recorder *result.Recorder
	Logger   logrus.FieldLogger
	Settings Settings

	steps []entities.StepResult
}

// Steps - returns the steps this run went through, in order
func (e *Env) Steps() []entities.StepResult {
	return append([]entities.StepResult(nil), e.steps...)
}

// require - keeps the step for the report and turns a failure into ErrStepFailed
func (e *Env) require(step entities.StepResult) error {
	e.steps = append(e.steps, step)
	if !step.Passed {
		return fmt.Errorf("%w: %s", ErrStepFailed, step.Message)
	}
	return nil
}

// do - runs an action as a recorded step
func (e *Env) do(msg string, fn func() error) error {
	return e.require(e.Recorder.CheckNoError(msg, fn))
}

// equal - records an equality check
func (e *Env) equal(actual, expected any, msg string) error {
	return e.require(e.Recorder.CheckEqual(actual, expected, msg))
}

// read - runs a query as a recorded step and returns its value
func read[T any](e *Env, msg string, fn func() (T, error)) (T, error) {
	value, step := result.CheckNoException(e.Recorder, msg, fn)
	return value, e.require(step)
}

// user - returns the account the happy paths log in with
func (e *Env) user(ctx context.Context) (entities.User, error) {
	if e.Settings.Users != nil {
		users, err := e.Settings.Users.Sample(ctx, 1)
		if err != nil {
			return entities.User{}, fmt.Errorf("failed to sample user: %w", err)
		}
		if len(users) > 0 {
			return users[0], nil
		}
	}
	return e.Source.User(e.Settings.User)
}

// pageSet holds the page objects of one run
type pageSet struct {
	login     *pages.LoginPage
	inventory *pages.InventoryPage
	cart      *pages.CartPage
	checkout  *pages.CheckoutPage
}

func (e *Env) pages() (*pageSet, error) {
	var (
		p   pageSet
		err error
	)
	if p.login, err = pages.NewLoginPage(e.Session, e.Source, e.Logger); err != nil {
		return nil, err
	}
	if p.inventory, err = pages.NewInventoryPage(e.Session, e.Source, e.Logger); err != nil {
		return nil, err
	}
	if p.cart, err = pages.NewCartPage(e.Session, e.Source, e.Logger); err != nil {
		return nil, err
	}
	if p.checkout, err = pages.NewCheckoutPage(e.Session, e.Source, e.Logger); err != nil {
		return nil, err
	}
	return &p, nil
}

// currentURLIs - records whether the first window shows url
func (e *Env) currentURLIs(ctx context.Context, url, msg string) error {
	current, err := read(e, "Read current URL", func() (string, error) {
		return e.Session.CurrentURL(ctx, 0)
	})
	if err != nil {
		return err
	}
	return e.equal(current, url, msg)
}
