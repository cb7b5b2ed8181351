package browser

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
	"github.com/tebeka/selenium/firefox"
	"go.uber.org/multierr"

	"ecommerce_automation/domain/entities"
	"ecommerce_automation/domain/errs"
	"ecommerce_automation/domain/interfaces"
	"ecommerce_automation/infrastructure/config"
)

// browserBinaries describes where each browser and its webdriver usually live
var browserBinaries = map[string]struct {
	driver       string
	defaultPort  int
	driverPaths  []string
	browserNames []string
	browserPaths []string
}{
	config.BrowserChrome: {
		driver:      "chromedriver",
		defaultPort: 9515,
		driverPaths: []string{
			"/usr/local/bin/chromedriver",
			"/usr/bin/chromedriver",
			"/opt/homebrew/bin/chromedriver",
		},
		browserNames: []string{"google-chrome", "chromium", "chromium-browser"},
		browserPaths: []string{
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
			"/Applications/Chromium.app/Contents/MacOS/Chromium",
			"/usr/bin/google-chrome",
			"/usr/bin/chromium",
			"/usr/bin/chromium-browser",
			`C:\Program Files\Google\Chrome\Application\chrome.exe`,
			`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
		},
	},
	config.BrowserFirefox: {
		driver:      "geckodriver",
		defaultPort: 4444,
		driverPaths: []string{
			"/usr/local/bin/geckodriver",
			"/usr/bin/geckodriver",
			"/opt/homebrew/bin/geckodriver",
		},
		browserNames: []string{"firefox"},
		browserPaths: []string{
			"/Applications/Firefox.app/Contents/MacOS/firefox",
			"/usr/bin/firefox",
			`C:\Program Files\Mozilla Firefox\firefox.exe`,
		},
	},
	config.BrowserEdge: {
		driver:      "msedgedriver",
		defaultPort: 9516,
		driverPaths: []string{
			"/usr/local/bin/msedgedriver",
			"/usr/bin/msedgedriver",
			"/opt/homebrew/bin/msedgedriver",
		},
		browserNames: []string{"microsoft-edge", "microsoft-edge-stable"},
		browserPaths: []string{
			"/Applications/Microsoft Edge.app/Contents/MacOS/Microsoft Edge",
			"/usr/bin/microsoft-edge",
			`C:\Program Files (x86)\Microsoft\Edge\Application\msedge.exe`,
		},
	},
}

// findDriverBinary - finds the webdriver executable for a browser
func findDriverBinary(browser, configured string) (string, error) {
	if configured != "" {
		if _, err := os.Stat(configured); err != nil {
			return "", fmt.Errorf("configured driver path %s: %w", configured, err)
		}
		return configured, nil
	}

	known := browserBinaries[browser]
	paths := append([]string(nil), known.driverPaths...)
	if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, "bin", known.driver))
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	if path, err := exec.LookPath(known.driver); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("%s not found. Please install it or set ECOM_DRIVER_PATH", known.driver)
}

// findBrowserBinary - finds the browser executable, empty when the driver should decide
func findBrowserBinary(browser, configured string) string {
	if configured != "" {
		return configured
	}

	known := browserBinaries[browser]
	for _, path := range known.browserPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	for _, name := range known.browserNames {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}

// browserArgs - translates the window toggles into command line switches
func browserArgs(cfg config.Config) []string {
	args := []string{"--disable-dev-shm-usage"}
	if cfg.Headless {
		args = append(args, "--headless=new")
	}
	if cfg.Maximized {
		args = append(args, "--start-maximized")
	}
	if !cfg.GPU {
		args = append(args, "--disable-gpu")
	}
	if !cfg.Sandbox {
		args = append(args, "--no-sandbox")
	}
	return args
}

// seleniumCapabilities - builds the capabilities of a new session
func seleniumCapabilities(cfg config.Config, binary string) (selenium.Capabilities, error) {
	switch cfg.Browser {
	case config.BrowserChrome:
		caps := selenium.Capabilities{"browserName": "chrome"}
		chromeCaps := chrome.Capabilities{Args: browserArgs(cfg), Path: binary}
		caps.AddChrome(chromeCaps)
		return caps, nil

	case config.BrowserEdge:
		edgeOptions := map[string]interface{}{"args": browserArgs(cfg)}
		if binary != "" {
			edgeOptions["binary"] = binary
		}
		return selenium.Capabilities{
			"browserName":    "MicrosoftEdge",
			"ms:edgeOptions": edgeOptions,
		}, nil

	case config.BrowserFirefox:
		caps := selenium.Capabilities{"browserName": "firefox"}
		var args []string
		if cfg.Headless {
			args = append(args, "-headless")
		}
		caps.AddFirefox(firefox.Capabilities{Args: args, Binary: binary})
		return caps, nil

	default:
		return nil, fmt.Errorf("unsupported browser %q", cfg.Browser)
	}
}

// seleniumDriver drives a browser through a local webdriver service
type seleniumDriver struct {
	wd      selenium.WebDriver
	service *selenium.Service
	browser string
}

// newSeleniumDriver - starts the webdriver service and opens a browser session
func newSeleniumDriver(cfg config.Config, logger logrus.FieldLogger) (*seleniumDriver, error) {
	if _, ok := browserBinaries[cfg.Browser]; !ok {
		return nil, fmt.Errorf("unsupported browser %q", cfg.Browser)
	}

	driverPath, err := findDriverBinary(cfg.Browser, cfg.DriverPath)
	if err != nil {
		return nil, fmt.Errorf("failed to find webdriver: %w", err)
	}
	logger.Infof("Using webdriver at: %s", driverPath)

	binary := findBrowserBinary(cfg.Browser, cfg.BrowserBinary)
	if binary != "" {
		logger.Infof("Using browser binary at: %s", binary)
	}

	caps, err := seleniumCapabilities(cfg, binary)
	if err != nil {
		return nil, err
	}

	port := cfg.DriverPort
	if port == 0 {
		port = browserBinaries[cfg.Browser].defaultPort
	}

	var service *selenium.Service
	if cfg.Browser == config.BrowserFirefox {
		service, err = selenium.NewGeckoDriverService(driverPath, port)
	} else {
		// msedgedriver takes the same flags as chromedriver
		service, err = selenium.NewChromeDriverService(driverPath, port)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", filepath.Base(driverPath), err)
	}

	wd, err := selenium.NewRemote(caps, fmt.Sprintf("http://localhost:%d", port))
	if err != nil {
		_ = service.Stop()
		if strings.Contains(err.Error(), "cannot find") && strings.Contains(err.Error(), "binary") {
			return nil, fmt.Errorf("failed to create webdriver: %s browser not found, install it or set ECOM_BROWSER_BINARY: %w", cfg.Browser, err)
		}
		return nil, fmt.Errorf("failed to create webdriver: %w", err)
	}

	if cfg.Maximized && cfg.Browser == config.BrowserFirefox {
		if err := wd.MaximizeWindow(""); err != nil {
			logger.Warnf("Failed to maximize window: %v", err)
		}
	}

	return &seleniumDriver{wd: wd, service: service, browser: cfg.Browser}, nil
}

// seleniumBy - maps a strategy onto the selenium lookup mechanism
func seleniumBy(s entities.Strategy) (string, error) {
	switch s {
	case entities.StrategyID:
		return selenium.ByID, nil
	case entities.StrategyName:
		return selenium.ByName, nil
	case entities.StrategyCSS:
		return selenium.ByCSSSelector, nil
	case entities.StrategyXPath:
		return selenium.ByXPATH, nil
	case entities.StrategyClass:
		return selenium.ByClassName, nil
	case entities.StrategyTag:
		return selenium.ByTagName, nil
	case entities.StrategyLinkText:
		return selenium.ByLinkText, nil
	case entities.StrategyPartialLinkText:
		return selenium.ByPartialLinkText, nil
	}
	return "", fmt.Errorf("%w: %q", entities.ErrUnknownStrategy, s)
}

// seleniumCondition - classifies webdriver error codes into driver conditions
func seleniumCondition(err error) error {
	if err == nil {
		return nil
	}

	var se *selenium.Error
	if !errors.As(err, &se) {
		return err
	}

	var cond error
	switch se.Err {
	case "no such element":
		cond = errs.ErrNoSuchElement
	case "stale element reference":
		cond = errs.ErrStaleElement
	case "element click intercepted":
		cond = errs.ErrClickIntercepted
	case "element not interactable", "invalid element state":
		cond = errs.ErrNotInteractable
	case "no such window":
		cond = errs.ErrNoSuchWindow
	default:
		return err
	}
	return fmt.Errorf("%w: %w", cond, err)
}

// Name - returns backend and browser name
func (d *seleniumDriver) Name() string {
	return "selenium/" + d.browser
}

// Navigate - loads a URL in the current window
func (d *seleniumDriver) Navigate(url string) error {
	return seleniumCondition(d.wd.Get(url))
}

// FindElement - returns the first element matching the locator
func (d *seleniumDriver) FindElement(loc entities.Locator) (interfaces.Element, error) {
	return findSelenium(d.wd.FindElement, loc)
}

// FindElements - returns every element matching the locator
func (d *seleniumDriver) FindElements(loc entities.Locator) ([]interfaces.Element, error) {
	return findAllSelenium(d.wd.FindElements, loc)
}

// WindowHandles - returns the handles of every open window
func (d *seleniumDriver) WindowHandles() ([]string, error) {
	handles, err := d.wd.WindowHandles()
	return handles, seleniumCondition(err)
}

// SwitchWindow - makes a window current
func (d *seleniumDriver) SwitchWindow(handle string) error {
	return seleniumCondition(d.wd.SwitchWindow(handle))
}

// CurrentURL - returns the URL of the current window
func (d *seleniumDriver) CurrentURL() (string, error) {
	url, err := d.wd.CurrentURL()
	return url, seleniumCondition(err)
}

// Screenshot - returns a PNG of the current window
func (d *seleniumDriver) Screenshot() ([]byte, error) {
	return d.wd.Screenshot()
}

// Quit - closes the browser and stops the webdriver service
func (d *seleniumDriver) Quit() error {
	err := d.wd.Quit()
	if d.service != nil {
		err = multierr.Append(err, d.service.Stop())
	}
	return err
}

func findSelenium(find func(by, value string) (selenium.WebElement, error), loc entities.Locator) (interfaces.Element, error) {
	by, err := seleniumBy(loc.Strategy)
	if err != nil {
		return nil, err
	}
	el, err := find(by, loc.Selector)
	if err != nil {
		return nil, seleniumCondition(err)
	}
	return &seleniumElement{el: el}, nil
}

func findAllSelenium(find func(by, value string) ([]selenium.WebElement, error), loc entities.Locator) ([]interfaces.Element, error) {
	by, err := seleniumBy(loc.Strategy)
	if err != nil {
		return nil, err
	}
	found, err := find(by, loc.Selector)
	if err != nil {
		cond := seleniumCondition(err)
		if errors.Is(cond, errs.ErrNoSuchElement) {
			return nil, nil
		}
		return nil, cond
	}
	result := make([]interfaces.Element, 0, len(found))
	for _, el := range found {
		result = append(result, &seleniumElement{el: el})
	}
	return result, nil
}

// seleniumElement adapts selenium.WebElement to interfaces.Element
type seleniumElement struct {
	el selenium.WebElement
}

func (e *seleniumElement) Click() error {
	return seleniumCondition(e.el.Click())
}

func (e *seleniumElement) Clear() error {
	return seleniumCondition(e.el.Clear())
}

func (e *seleniumElement) SendKeys(text string) error {
	return seleniumCondition(e.el.SendKeys(text))
}

// Text - returns the rendered text, or the text content of a hidden element
func (e *seleniumElement) Text() (string, error) {
	visible, err := e.el.IsDisplayed()
	if err != nil {
		return "", seleniumCondition(err)
	}
	if !visible {
		text, err := e.el.GetAttribute("textContent")
		return strings.TrimSpace(text), seleniumCondition(err)
	}
	text, err := e.el.Text()
	return text, seleniumCondition(err)
}

func (e *seleniumElement) Value() (string, error) {
	value, err := e.el.GetAttribute("value")
	return value, seleniumCondition(err)
}

func (e *seleniumElement) IsDisplayed() (bool, error) {
	ok, err := e.el.IsDisplayed()
	return ok, seleniumCondition(err)
}

func (e *seleniumElement) IsEnabled() (bool, error) {
	ok, err := e.el.IsEnabled()
	return ok, seleniumCondition(err)
}

// Select - picks an <option> of a <select> element
func (e *seleniumElement) Select(method entities.SelectMethod, value string) error {
	tag, err := e.el.TagName()
	if err != nil {
		return seleniumCondition(err)
	}
	if !strings.EqualFold(tag, "select") {
		return fmt.Errorf("%w: <%s>", errs.ErrNotSelectable, tag)
	}

	options, err := e.el.FindElements(selenium.ByTagName, "option")
	if err != nil {
		return seleniumCondition(err)
	}

	index := -1
	if method == entities.SelectByIndex {
		if index, err = strconv.Atoi(value); err != nil {
			return fmt.Errorf("%w: index %q", errs.ErrUnsupportedOption, value)
		}
	}

	for i, opt := range options {
		var match bool
		switch method {
		case entities.SelectByVisibleText:
			text, err := opt.Text()
			if err != nil {
				return seleniumCondition(err)
			}
			match = strings.TrimSpace(text) == value
		case entities.SelectByValue:
			v, err := opt.GetAttribute("value")
			if err != nil {
				return seleniumCondition(err)
			}
			match = v == value
		case entities.SelectByIndex:
			match = i == index
		default:
			return fmt.Errorf("%w: %s", errs.ErrUnsupportedOption, method)
		}
		if match {
			return seleniumCondition(opt.Click())
		}
	}
	return fmt.Errorf("%w: %s %q", errs.ErrNoSuchOption, method, value)
}

func (e *seleniumElement) FindElement(loc entities.Locator) (interfaces.Element, error) {
	return findSelenium(e.el.FindElement, loc)
}

func (e *seleniumElement) FindElements(loc entities.Locator) ([]interfaces.Element, error) {
	return findAllSelenium(e.el.FindElements, loc)
}

// Ensure seleniumDriver implements Driver interface
var _ interfaces.Driver = (*seleniumDriver)(nil)
