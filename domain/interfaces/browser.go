package interfaces

import (
	"ecommerce_automation/domain/entities"
)

// Driver defines the contract every browser backend implements.
// Calls never wait: a missing element is reported at once with errs.ErrNoSuchElement
// and the session layer decides whether to poll again.
type Driver interface {
	// Name returns the backend and browser name, e.g. "selenium/Chrome"
	Name() string

	// Navigate loads a URL in the current window
	Navigate(url string) error

	// FindElement returns the first element matching the locator
	FindElement(loc entities.Locator) (Element, error)

	// FindElements returns every element matching the locator, possibly none
	FindElements(loc entities.Locator) ([]Element, error)

	// WindowHandles returns window handles in the order they were opened
	WindowHandles() ([]string, error)

	// SwitchWindow makes the window with the given handle current
	SwitchWindow(handle string) error

	// CurrentURL returns the URL of the current window
	CurrentURL() (string, error)

	// Screenshot returns a PNG of the current window
	Screenshot() ([]byte, error)

	// Quit ends the browser session
	Quit() error
}

// Element defines one resolved element of a page
type Element interface {
	Click() error
	Clear() error
	SendKeys(text string) error
	Text() (string, error)
	Value() (string, error)
	IsDisplayed() (bool, error)
	IsEnabled() (bool, error)

	// Select chooses an option of a select control
	Select(method entities.SelectMethod, value string) error

	// FindElement and FindElements search below this element
	FindElement(loc entities.Locator) (Element, error)
	FindElements(loc entities.Locator) ([]Element, error)
}
