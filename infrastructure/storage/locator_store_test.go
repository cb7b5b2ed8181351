package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecommerce_automation/domain/entities"
)

const sampleDoc = `
base_url: https://shop.example.com
users:
  standard_user: {username: standard_user, password: secret_sauce}
pages:
  login_page:
    path: ""
    elements:
      username: {by: ID, value: user-name}
      login_button: {by: css_selector, value: "#login-button"}
  checkout_page:
    path: step-one.html
    steps: [step-one.html, step-two.html]
    elements:
      continue: {by: xpath, value: "//input[@id='continue']"}
`

func TestLoadLocators(t *testing.T) {
	store, err := LoadLocators(strings.NewReader(sampleDoc))
	require.NoError(t, err)

	assert.Equal(t, "https://shop.example.com/", store.BaseURL())

	page, err := store.Page("login_page")
	require.NoError(t, err)
	assert.Equal(t, "login_page", page.Name)

	loc, err := page.Locator("username")
	require.NoError(t, err)
	assert.Equal(t, entities.ByID("user-name"), loc)

	loc, err = page.Locator("login_button")
	require.NoError(t, err)
	assert.Equal(t, entities.ByCSS("#login-button"), loc)

	checkout, err := store.Page("checkout_page")
	require.NoError(t, err)
	assert.Equal(t, []string{"step-one.html", "step-two.html"}, checkout.Steps)

	user, err := store.User("standard_user")
	require.NoError(t, err)
	assert.Equal(t, "secret_sauce", user.Password)
}

func TestPageReturnsCopy(t *testing.T) {
	store, err := LoadLocators(strings.NewReader(sampleDoc))
	require.NoError(t, err)

	page, err := store.Page("login_page")
	require.NoError(t, err)
	page.Elements["username"] = entities.ByID("changed")

	again, err := store.Page("login_page")
	require.NoError(t, err)
	assert.Equal(t, entities.ByID("user-name"), again.Elements["username"])
}

func TestUnknownLookups(t *testing.T) {
	store, err := LoadLocators(strings.NewReader(sampleDoc))
	require.NoError(t, err)

	_, err = store.Page("missing_page")
	assert.ErrorIs(t, err, ErrUnknownPage)

	_, err = store.User("nobody")
	assert.ErrorIs(t, err, ErrUnknownUser)

	page, err := store.Page("login_page")
	require.NoError(t, err)
	_, err = page.Locator("missing")
	assert.ErrorIs(t, err, entities.ErrUnknownElement)
}

func TestLoadLocatorsRejectsBadDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown strategy", "base_url: https://x.io\npages:\n  p:\n    elements:\n      a: {by: magic, value: x}\n"},
		{"missing selector", "base_url: https://x.io\npages:\n  p:\n    elements:\n      a: {by: id}\n"},
		{"missing base url", "pages:\n  p:\n    elements:\n      a: {by: id, value: x}\n"},
		{"unknown field", "base_url: https://x.io\nextra: 1\npages:\n  p: {}\n"},
		{"no pages", "base_url: https://x.io\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadLocators(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestOverrideBaseURL(t *testing.T) {
	store, err := LoadLocators(strings.NewReader(sampleDoc))
	require.NoError(t, err)

	store.OverrideBaseURL("")
	assert.Equal(t, "https://shop.example.com/", store.BaseURL())

	store.OverrideBaseURL("http://localhost:8080/")
	assert.Equal(t, "http://localhost:8080/", store.BaseURL())
}

func TestLoadLocatorFileBundledDocument(t *testing.T) {
	store, err := LoadLocatorFile("../../testdata/sauce_demo.yaml")
	require.NoError(t, err)

	for _, name := range []string{"login_page", "inventory_page", "cart_page", "checkout_page", "product_page"} {
		_, err := store.Page(name)
		assert.NoError(t, err, name)
	}

	user, err := store.User("standard_user")
	require.NoError(t, err)
	assert.Equal(t, "standard_user", user.Username)
}
