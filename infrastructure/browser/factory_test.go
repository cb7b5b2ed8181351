package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tebeka/selenium"

	"ecommerce_automation/domain/entities"
	"ecommerce_automation/domain/errs"
	"ecommerce_automation/infrastructure/config"
)

func TestNewDriverRejectsUnknownBackends(t *testing.T) {
	logger, _ := test.NewNullLogger()

	cfg := config.Default()
	cfg.Browser = "Netscape"
	_, err := NewDriver(context.Background(), cfg, logger)
	assert.ErrorIs(t, err, errs.ErrSession)
	assert.Contains(t, err.Error(), "Netscape")

	cfg = config.Default()
	cfg.Driver = "carrier-pigeon"
	_, err = NewDriver(context.Background(), cfg, logger)
	assert.ErrorIs(t, err, errs.ErrSession)
	assert.Contains(t, err.Error(), "carrier-pigeon")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewDriver(ctx, config.Default(), logger)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewDriverMissingWebdriver(t *testing.T) {
	logger, _ := test.NewNullLogger()
	cfg := config.Default()
	cfg.DriverPath = filepath.Join(t.TempDir(), "chromedriver")

	_, err := NewDriver(context.Background(), cfg, logger)
	assert.ErrorIs(t, err, errs.ErrSession)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSeleniumBy(t *testing.T) {
	tests := map[entities.Strategy]string{
		entities.StrategyID:              selenium.ByID,
		entities.StrategyName:            selenium.ByName,
		entities.StrategyCSS:             selenium.ByCSSSelector,
		entities.StrategyXPath:           selenium.ByXPATH,
		entities.StrategyClass:           selenium.ByClassName,
		entities.StrategyTag:             selenium.ByTagName,
		entities.StrategyLinkText:        selenium.ByLinkText,
		entities.StrategyPartialLinkText: selenium.ByPartialLinkText,
	}
	for strategy, want := range tests {
		got, err := seleniumBy(strategy)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := seleniumBy("shadow")
	assert.ErrorIs(t, err, entities.ErrUnknownStrategy)
}

func TestSeleniumCondition(t *testing.T) {
	tests := []struct {
		code string
		want error
	}{
		{"no such element", errs.ErrNoSuchElement},
		{"stale element reference", errs.ErrStaleElement},
		{"element click intercepted", errs.ErrClickIntercepted},
		{"element not interactable", errs.ErrNotInteractable},
		{"no such window", errs.ErrNoSuchWindow},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			original := &selenium.Error{Err: tt.code, Message: "details"}
			err := seleniumCondition(fmt.Errorf("wrapped: %w", original))
			assert.ErrorIs(t, err, tt.want)

			var se *selenium.Error
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.code, se.Err)
		})
	}

	other := &selenium.Error{Err: "invalid selector"}
	assert.Same(t, other, seleniumCondition(other))
	assert.False(t, errs.IsTransient(seleniumCondition(other)))
	assert.NoError(t, seleniumCondition(nil))
}

func TestPlaywrightSelector(t *testing.T) {
	tests := []struct {
		loc  entities.Locator
		want string
	}{
		{entities.ByID("user-name"), `css=[id="user-name"]`},
		{entities.ByName("q"), `css=[name="q"]`},
		{entities.ByCSS("h3[data-test='error']"), "css=h3[data-test='error']"},
		{entities.ByXPath("//div[@id='x']"), "xpath=//div[@id='x']"},
		{entities.ByClass("shopping_cart_badge"), "css=.shopping_cart_badge"},
		{entities.ByTag("a"), "css=a"},
		{entities.ByLinkText("Logout"), `css=a:text-is("Logout")`},
		{entities.Locator{Strategy: entities.StrategyPartialLinkText, Selector: "Log"}, `css=a:has-text("Log")`},
	}
	for _, tt := range tests {
		got, err := playwrightSelector(tt.loc)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.loc.String())
	}

	_, err := playwrightSelector(entities.Locator{Strategy: "shadow", Selector: "x"})
	assert.ErrorIs(t, err, entities.ErrUnknownStrategy)
}

func TestPlaywrightCondition(t *testing.T) {
	timeout := fmt.Errorf("%w: locator.click: Timeout 250ms exceeded", playwright.ErrTimeout)
	assert.ErrorIs(t, playwrightCondition(timeout, errs.ErrNotInteractable), errs.ErrNotInteractable)
	assert.ErrorIs(t, playwrightCondition(timeout, errs.ErrNoSuchOption), errs.ErrNoSuchOption)

	covered := errors.New(`<div class="overlay"></div> intercepts pointer events`)
	assert.ErrorIs(t, playwrightCondition(covered, errs.ErrNotInteractable), errs.ErrClickIntercepted)

	detached := errors.New("Element is not attached to the DOM")
	assert.ErrorIs(t, playwrightCondition(detached, errs.ErrNotInteractable), errs.ErrStaleElement)

	other := errors.New("browser has been closed")
	assert.Same(t, other, playwrightCondition(other, errs.ErrNotInteractable))
	assert.NoError(t, playwrightCondition(nil, errs.ErrNotInteractable))
}

func TestBrowserArgs(t *testing.T) {
	cfg := config.Default()
	cfg.Headless = true
	cfg.Maximized = true
	cfg.GPU = false
	cfg.Sandbox = false
	assert.ElementsMatch(t, []string{"--disable-dev-shm-usage", "--headless=new", "--start-maximized", "--disable-gpu", "--no-sandbox"}, browserArgs(cfg))

	cfg.Headless = false
	cfg.Maximized = false
	cfg.GPU = true
	cfg.Sandbox = true
	assert.Equal(t, []string{"--disable-dev-shm-usage"}, browserArgs(cfg))
}

func TestSeleniumCapabilities(t *testing.T) {
	cfg := config.Default()

	cfg.Browser = config.BrowserChrome
	caps, err := seleniumCapabilities(cfg, "/usr/bin/chromium")
	require.NoError(t, err)
	assert.Equal(t, "chrome", caps["browserName"])
	assert.Contains(t, caps, "goog:chromeOptions")

	cfg.Browser = config.BrowserEdge
	caps, err = seleniumCapabilities(cfg, "")
	require.NoError(t, err)
	assert.Equal(t, "MicrosoftEdge", caps["browserName"])
	edge, ok := caps["ms:edgeOptions"].(map[string]interface{})
	require.True(t, ok)
	assert.NotContains(t, edge, "binary")
	assert.Contains(t, edge["args"], "--headless=new")

	cfg.Browser = config.BrowserFirefox
	caps, err = seleniumCapabilities(cfg, "")
	require.NoError(t, err)
	assert.Equal(t, "firefox", caps["browserName"])
	assert.Contains(t, caps, "moz:firefoxOptions")

	cfg.Browser = "Opera"
	_, err = seleniumCapabilities(cfg, "")
	assert.Error(t, err)
}

func TestFindDriverBinaryConfigured(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geckodriver")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0755))

	got, err := findDriverBinary(config.BrowserFirefox, path)
	require.NoError(t, err)
	assert.Equal(t, path, got)

	assert.Equal(t, "/opt/firefox", findBrowserBinary(config.BrowserFirefox, "/opt/firefox"))
}
