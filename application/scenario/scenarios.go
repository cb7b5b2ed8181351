package scenario

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ecommerce_automation/application/result"
	"ecommerce_automation/domain/entities"
	"ecommerce_automation/domain/errs"
)

// Texts the shop shows
const (
	UsernameRequiredMessage = "Epic sadface: Username is required"
	OrderCompleteMessage    = "Thank you for your order!"
)

// ErrUnknownScenario is returned for a name no scenario is registered under
var ErrUnknownScenario = errors.New("unknown scenario")

// Scenario is one end to end flow. The first failing step stops it.
type Scenario struct {
	Name        string
	Description string
	Run         func(ctx context.Context, env *Env) error
}

var registry = []Scenario{
	{"login", "a valid user lands on the inventory page", Login},
	{"login-empty-username", "an empty username is rejected with a message", LoginEmptyUsername},
	{"login-logout", "a logged in user can log out from the lateral menu", LoginLogout},
	{"login-timeout", "login completes within the time limit", LoginTimeout},
	{"cart-add-remove", "adding and removing an item updates the cart badge", CartAddRemove},
	{"filtering", "every sort filter orders the items like a local sort", Filtering},
	{"checkout", "an order can be placed and the totals add up", Checkout},
}

// All - returns every scenario in run order
func All() []Scenario {
	return append([]Scenario(nil), registry...)
}

// Names - returns every scenario name in run order
func Names() []string {
	names := make([]string, len(registry))
	for i, s := range registry {
		names[i] = s.Name
	}
	return names
}

// Lookup - finds a scenario by name
func Lookup(name string) (Scenario, error) {
	for _, s := range registry {
		if s.Name == name {
			return s, nil
		}
	}
	return Scenario{}, fmt.Errorf("%w: %q", ErrUnknownScenario, name)
}

// signIn - logs the happy path user in and checks the landing page
func signIn(ctx context.Context, env *Env, p *pageSet) (entities.User, error) {
	user, err := env.user(ctx)
	if err != nil {
		return entities.User{}, err
	}
	if err := env.do("Open login page", func() error { return p.login.Open(ctx) }); err != nil {
		return user, err
	}
	if err := env.do("Log in as "+user.Username, func() error { return p.login.Login(ctx, user) }); err != nil {
		return user, err
	}
	return user, env.currentURLIs(ctx, p.inventory.URL(), "Login redirects to the inventory page")
}

// Login - a valid user is redirected to the inventory
func Login(ctx context.Context, env *Env) error {
	p, err := env.pages()
	if err != nil {
		return err
	}
	_, err = signIn(ctx, env, p)
	return err
}

// LoginEmptyUsername - the login form refuses an empty username
func LoginEmptyUsername(ctx context.Context, env *Env) error {
	p, err := env.pages()
	if err != nil {
		return err
	}
	user, err := env.Source.User("empty_username")
	if err != nil {
		return err
	}

	if err := env.do("Open login page", func() error { return p.login.Open(ctx) }); err != nil {
		return err
	}
	if err := env.do("Submit an empty username", func() error { return p.login.Login(ctx, user) }); err != nil {
		return err
	}
	msg, err := read(env, "Read login error", func() (string, error) { return p.login.ErrorMessage(ctx) })
	if err != nil {
		return err
	}
	return env.equal(msg, UsernameRequiredMessage, "Empty username error message")
}

// LoginLogout - a user logs in, then out through the lateral menu
func LoginLogout(ctx context.Context, env *Env) error {
	p, err := env.pages()
	if err != nil {
		return err
	}
	if _, err := signIn(ctx, env, p); err != nil {
		return err
	}
	if err := env.do("Open lateral menu", func() error { return p.inventory.OpenLateralMenu(ctx) }); err != nil {
		return err
	}

	allowed := []error{errs.ErrNotFound, errs.ErrNotClickable}
	_, step, err := result.CheckNoGivenException(env.Recorder, "Log out", allowed, func() (struct{}, error) {
		return struct{}{}, p.inventory.Logout(ctx)
	})
	stepErr := env.require(step)
	if err != nil {
		return err
	}
	if stepErr != nil {
		return stepErr
	}
	return env.currentURLIs(ctx, p.login.URL(), "Logout returns to the login page")
}

// LoginTimeout - login finishes within the configured limit
func LoginTimeout(ctx context.Context, env *Env) error {
	p, err := env.pages()
	if err != nil {
		return err
	}

	start := time.Now()
	if _, err := signIn(ctx, env, p); err != nil {
		return err
	}
	elapsed := time.Since(start)

	limit := env.Settings.LoginTimeLimit
	return env.require(result.CheckLessEqual(env.Recorder, elapsed, limit, fmt.Sprintf("Login completes within %s", limit)))
}

// CartAddRemove - adding then removing an item restores the cart count
func CartAddRemove(ctx context.Context, env *Env) error {
	p, err := env.pages()
	if err != nil {
		return err
	}
	if _, err := signIn(ctx, env, p); err != nil {
		return err
	}

	item := env.Settings.Item
	before, err := read(env, "Read cart count", func() (int, error) { return p.inventory.CartCount(ctx) })
	if err != nil {
		return err
	}

	if err := env.do("Add "+item+" to cart", func() error { return p.inventory.AddToCartByName(ctx, item) }); err != nil {
		return err
	}
	count, err := read(env, "Read cart count", func() (int, error) { return p.inventory.CartCount(ctx) })
	if err != nil {
		return err
	}
	if err := env.equal(count, before+1, "Cart count grows by one"); err != nil {
		return err
	}

	if err := env.do("Remove "+item+" from cart", func() error { return p.inventory.RemoveFromCartByName(ctx, item) }); err != nil {
		return err
	}
	count, err = read(env, "Read cart count", func() (int, error) { return p.inventory.CartCount(ctx) })
	if err != nil {
		return err
	}
	return env.equal(count, before, "Cart count is back to where it started")
}

// Filtering - every sort filter orders the items like sorting them locally
func Filtering(ctx context.Context, env *Env) error {
	p, err := env.pages()
	if err != nil {
		return err
	}
	if _, err := signIn(ctx, env, p); err != nil {
		return err
	}

	for _, option := range entities.SortOptions {
		before, err := read(env, "Read item prices", func() ([]entities.ItemPrice, error) { return p.inventory.ItemPrices(ctx) })
		if err != nil {
			return err
		}
		if err := env.do("Sort by "+option.Label(), func() error { return p.inventory.ApplySort(ctx, option) }); err != nil {
			return err
		}

		active, err := read(env, "Read active filter", func() (entities.SortOption, error) { return p.inventory.CurrentSort(ctx) })
		if err != nil {
			return err
		}
		if err := env.equal(active, option, "Active filter is "+option.Label()); err != nil {
			return err
		}

		after, err := read(env, "Read item prices", func() ([]entities.ItemPrice, error) { return p.inventory.ItemPrices(ctx) })
		if err != nil {
			return err
		}
		if err := env.equal(after, option.SortItems(before), "Items are ordered by "+option.Label()); err != nil {
			return err
		}
	}
	return nil
}

// Checkout - an item goes through the whole checkout wizard
func Checkout(ctx context.Context, env *Env) error {
	p, err := env.pages()
	if err != nil {
		return err
	}
	user, err := signIn(ctx, env, p)
	if err != nil {
		return err
	}

	item := env.Settings.Item
	if err := env.do("Add "+item+" to cart", func() error { return p.inventory.AddToCartByName(ctx, item) }); err != nil {
		return err
	}
	if err := env.do("Open cart", func() error { return p.inventory.OpenCart(ctx) }); err != nil {
		return err
	}
	names, err := read(env, "Read cart items", func() ([]string, error) { return p.cart.ItemNames(ctx) })
	if err != nil {
		return err
	}
	if err := env.equal(names, []string{item}, "Cart holds the added item"); err != nil {
		return err
	}

	if err := env.do("Start checkout", func() error { return p.cart.Checkout(ctx) }); err != nil {
		return err
	}
	if err := env.currentURLIs(ctx, p.checkout.ExpectedURL(), "Checkout starts with the information step"); err != nil {
		return err
	}
	if err := env.do("Fill checkout information", func() error { return p.checkout.FillInformation(ctx, user.CheckoutInfo()) }); err != nil {
		return err
	}
	if err := env.do("Continue to overview", func() error { return p.checkout.Continue(ctx) }); err != nil {
		return err
	}
	if err := env.currentURLIs(ctx, p.checkout.ExpectedURL(), "Checkout shows the overview step"); err != nil {
		return err
	}

	summary, err := read(env, "Read order summary", func() (entities.OrderSummary, error) { return p.checkout.Summary(ctx) })
	if err != nil {
		return err
	}
	if err := env.equal(summary.Consistent(), true, fmt.Sprintf("Total %.2f equals subtotal %.2f plus tax %.2f", summary.Total, summary.Subtotal, summary.Tax)); err != nil {
		return err
	}

	if err := env.do("Finish order", func() error { return p.checkout.Finish(ctx) }); err != nil {
		return err
	}
	header, err := read(env, "Read confirmation", func() (string, error) { return p.checkout.CompleteHeader(ctx) })
	if err != nil {
		return err
	}
	if err := env.equal(header, OrderCompleteMessage, "Order is confirmed"); err != nil {
		return err
	}

	if err := env.do("Go back home", func() error { return p.checkout.BackHome(ctx) }); err != nil {
		return err
	}
	return env.currentURLIs(ctx, p.inventory.URL(), "Back home returns to the inventory")
}
