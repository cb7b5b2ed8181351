package scenario

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecommerce_automation/domain/entities"
	"ecommerce_automation/domain/interfaces"
	"ecommerce_automation/infrastructure/browser"
	"ecommerce_automation/infrastructure/browser/browsertest"
	"ecommerce_automation/infrastructure/storage"
)

type harness struct {
	store    *storage.LocatorStore
	logger   *logrus.Logger
	hook     *test.Hook
	dir      string
	products []browsertest.Product
	drivers  []*browsertest.Driver
	shops    []*browsertest.Shop
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store, err := storage.LoadLocatorFile("../../testdata/sauce_demo.yaml")
	require.NoError(t, err)
	logger, hook := test.NewNullLogger()
	return &harness{store: store, logger: logger, hook: hook, dir: t.TempDir()}
}

func (h *harness) factory(ctx context.Context) (interfaces.Session, error) {
	d := browsertest.New()
	shop := browsertest.NewShop(d, h.store.BaseURL())
	if h.products != nil {
		shop.SetProducts(h.products)
	}
	h.drivers = append(h.drivers, d)
	h.shops = append(h.shops, shop)
	return browser.NewSession(d, h.logger,
		browser.WithDefaultTimeout(300*time.Millisecond),
		browser.WithPollInterval(10*time.Millisecond),
		browser.WithArtifactsDir(h.dir),
	), nil
}

func (h *harness) runner(settings Settings) *Runner {
	return NewRunner(h.factory, h.store, settings, h.logger)
}

func (h *harness) screenshots(t *testing.T) []string {
	t.Helper()
	files, err := filepath.Glob(filepath.Join(h.dir, "*.png"))
	require.NoError(t, err)
	return files
}

type stubDirectory struct {
	users   []entities.User
	err     error
	samples int
}

func (s *stubDirectory) Users(context.Context) ([]entities.User, error) { return s.users, s.err }

func (s *stubDirectory) Sample(_ context.Context, k int) ([]entities.User, error) {
	s.samples++
	if s.err != nil {
		return nil, s.err
	}
	return s.users[:k], nil
}

func (s *stubDirectory) AddUser(_ context.Context, u entities.User) error {
	s.users = append(s.users, u)
	return nil
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{
		"login", "login-empty-username", "login-logout", "login-timeout",
		"cart-add-remove", "filtering", "checkout",
	}, Names())

	s, err := Lookup("checkout")
	require.NoError(t, err)
	assert.Equal(t, "checkout", s.Name)
	assert.NotNil(t, s.Run)

	_, err = Lookup("wishlist")
	assert.ErrorIs(t, err, ErrUnknownScenario)
}

func TestRunAllScenariosPass(t *testing.T) {
	h := newHarness(t)

	reports, err := h.runner(DefaultSettings()).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, len(Names()))

	for i, report := range reports {
		assert.Equal(t, Names()[i], report.Name)
		failed, hasFailure := report.FailedStep()
		assert.True(t, report.Passed, "%s: %s %s", report.Name, failed.Message, failed.Details)
		assert.False(t, hasFailure)
		assert.NoError(t, report.Err)
		assert.NotEmpty(t, report.Steps)
	}

	assert.Empty(t, h.screenshots(t))
	require.Len(t, h.drivers, len(reports))
	for _, d := range h.drivers {
		assert.Equal(t, 1, d.Quits(), "every session is shut down")
	}
}

func TestRunSelectedScenarios(t *testing.T) {
	h := newHarness(t)

	reports, err := h.runner(DefaultSettings()).Run(context.Background(), "login-empty-username", "login")
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "login-empty-username", reports[0].Name)
	assert.Equal(t, "login", reports[1].Name)

	last := reports[0].Steps[len(reports[0].Steps)-1]
	assert.Equal(t, "Empty username error message", last.Message)
	assert.True(t, last.Passed)
}

func TestRunUnknownScenario(t *testing.T) {
	h := newHarness(t)

	reports, err := h.runner(DefaultSettings()).Run(context.Background(), "login", "wishlist")
	assert.ErrorIs(t, err, ErrUnknownScenario)
	assert.Nil(t, reports)
	assert.Empty(t, h.drivers, "nothing runs when a name is unknown")
}

func TestFailedScenarioTakesScreenshot(t *testing.T) {
	h := newHarness(t)
	h.products = []browsertest.Product{{Name: "Sauce Labs Onesie", Price: 7.99}}

	reports, err := h.runner(DefaultSettings()).Run(context.Background(), "cart-add-remove")
	require.NoError(t, err)
	require.Len(t, reports, 1)

	report := reports[0]
	assert.False(t, report.Passed)
	assert.ErrorIs(t, report.Err, ErrStepFailed)

	failed, ok := report.FailedStep()
	require.True(t, ok)
	assert.Equal(t, "Add Sauce Labs Backpack to cart", failed.Message)
	assert.Contains(t, failed.Details, "inventory item not found")

	assert.Len(t, h.screenshots(t), 1)
	assert.Equal(t, 1, h.drivers[0].Quits())
}

func TestLoginTimeoutOverLimit(t *testing.T) {
	h := newHarness(t)
	settings := DefaultSettings()
	settings.LoginTimeLimit = time.Nanosecond

	reports, err := h.runner(settings).Run(context.Background(), "login-timeout")
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.False(t, reports[0].Passed)

	failed, ok := reports[0].FailedStep()
	require.True(t, ok)
	assert.Equal(t, "Login completes within 1ns", failed.Message)
	assert.Contains(t, failed.Details, "Expected at most: '1ns'")
}

func TestSessionFactoryFailure(t *testing.T) {
	h := newHarness(t)
	broken := errors.New("chromedriver not found")
	calls := 0
	factory := func(ctx context.Context) (interfaces.Session, error) {
		calls++
		if calls == 1 {
			return nil, broken
		}
		return h.factory(ctx)
	}

	runner := NewRunner(factory, h.store, DefaultSettings(), h.logger)
	reports, err := runner.Run(context.Background(), "login", "login")
	require.NoError(t, err)
	require.Len(t, reports, 2)

	assert.False(t, reports[0].Passed)
	assert.ErrorIs(t, reports[0].Err, broken)
	assert.Empty(t, reports[0].Steps)
	assert.True(t, reports[1].Passed)
}

func TestRunStopsOnCanceledContext(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reports, err := h.runner(DefaultSettings()).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, reports)
}

func TestUsersFromDirectory(t *testing.T) {
	h := newHarness(t)
	users := &stubDirectory{users: []entities.User{{
		Username: "problem_user", Password: "secret_sauce",
		FirstName: "Problem", LastName: "User", PostalCode: "94103",
	}}}
	settings := DefaultSettings()
	settings.Users = users

	reports, err := h.runner(settings).Run(context.Background(), "checkout")
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.True(t, reports[0].Passed)
	assert.Equal(t, 1, users.samples)
	assert.Equal(t, entities.CheckoutInfo{FirstName: "Problem", LastName: "User", PostalCode: "94103"}, h.shops[0].CheckoutInfo())
}

func TestDirectoryUserWithWrongPassword(t *testing.T) {
	h := newHarness(t)
	settings := DefaultSettings()
	settings.Users = &stubDirectory{users: []entities.User{{Username: "standard_user", Password: "wrong"}}}

	reports, err := h.runner(settings).Run(context.Background(), "login")
	require.NoError(t, err)
	assert.False(t, reports[0].Passed)

	failed, ok := reports[0].FailedStep()
	require.True(t, ok)
	assert.Equal(t, "Login redirects to the inventory page", failed.Message)
	for _, e := range h.hook.AllEntries() {
		assert.NotContains(t, e.Message, "wrong", "passwords never reach the log")
	}
}

func TestDirectoryFailureAbortsScenario(t *testing.T) {
	h := newHarness(t)
	settings := DefaultSettings()
	settings.Users = &stubDirectory{err: errors.New("users api is down")}

	reports, err := h.runner(settings).Run(context.Background(), "login")
	require.NoError(t, err)
	assert.False(t, reports[0].Passed)
	assert.NotErrorIs(t, reports[0].Err, ErrStepFailed)
	assert.Contains(t, reports[0].Err.Error(), "users api is down")
	assert.Len(t, h.screenshots(t), 1)
}

// Ensure the stub implements UserDirectory interface
var _ interfaces.UserDirectory = (*stubDirectory)(nil)
