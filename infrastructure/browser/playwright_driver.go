package browser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"ecommerce_automation/domain/entities"
	"ecommerce_automation/domain/errs"
	"ecommerce_automation/domain/interfaces"
	"ecommerce_automation/infrastructure/config"
)

// attemptTimeout bounds a single playwright call so the session poller keeps control of waiting
const attemptTimeout = 250 * time.Millisecond

func millis(d time.Duration) *float64 {
	return playwright.Float(float64(d.Milliseconds()))
}

// playwrightDriver drives a browser through playwright. Pages play the role of windows.
type playwrightDriver struct {
	pw         *playwright.Playwright
	browser    playwright.Browser
	context    playwright.BrowserContext
	browserTag string
	navTimeout time.Duration
	logger     logrus.FieldLogger

	pagesMutex sync.Mutex
	page       playwright.Page
	pages      []playwright.Page
	handles    map[playwright.Page]string
	opened     int
}

// newPlaywrightDriver - runs playwright and opens a browser with one page
func newPlaywrightDriver(cfg config.Config, logger logrus.FieldLogger) (*playwrightDriver, error) {
	var args []string
	if !cfg.GPU {
		args = append(args, "--disable-gpu")
	}
	if !cfg.Sandbox {
		args = append(args, "--no-sandbox", "--disable-setuid-sandbox")
	}
	if cfg.Maximized {
		args = append(args, "--start-maximized")
	}

	launch := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
	}
	if cfg.BrowserBinary != "" {
		launch.ExecutablePath = playwright.String(cfg.BrowserBinary)
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	var browserType playwright.BrowserType
	switch cfg.Browser {
	case config.BrowserChrome:
		browserType = pw.Chromium
		launch.Args = args
	case config.BrowserEdge:
		browserType = pw.Chromium
		launch.Channel = playwright.String("msedge")
		launch.Args = args
	case config.BrowserFirefox:
		browserType = pw.Firefox
	default:
		_ = pw.Stop()
		return nil, fmt.Errorf("unsupported browser %q", cfg.Browser)
	}

	browser, err := browserType.Launch(launch)
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	contextOptions := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  1280,
			Height: 720,
		},
		IgnoreHttpsErrors: playwright.Bool(true),
	}
	if cfg.Maximized {
		contextOptions.NoViewport = playwright.Bool(true)
		contextOptions.Viewport = nil
	}

	bctx, err := browser.NewContext(contextOptions)
	if err != nil {
		_ = multierr.Append(browser.Close(), pw.Stop())
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	d := &playwrightDriver{
		pw:         pw,
		browser:    browser,
		context:    bctx,
		browserTag: cfg.Browser,
		navTimeout: cfg.NavigationTimeout.Std(),
		logger:     logger,
		handles:    map[playwright.Page]string{},
	}

	// popups and new tabs become windows in the order they open
	bctx.OnPage(d.track)

	page, err := bctx.NewPage()
	if err != nil {
		_ = d.Quit()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	d.track(page)

	return d, nil
}

// track - registers a page as a window and makes it current
func (d *playwrightDriver) track(page playwright.Page) {
	d.pagesMutex.Lock()
	defer d.pagesMutex.Unlock()

	if _, ok := d.handles[page]; ok {
		return
	}
	handle := "page-" + strconv.Itoa(d.opened)
	d.handles[page] = handle
	d.opened++
	d.logger.Debugf("Window opened: %s", handle)
	d.pages = append(d.pages, page)
	d.page = page

	page.OnDialog(func(dialog playwright.Dialog) {
		_ = dialog.Accept()
	})

	page.OnClose(func(closedPage playwright.Page) {
		d.pagesMutex.Lock()
		defer d.pagesMutex.Unlock()

		for i, p := range d.pages {
			if p == closedPage {
				d.pages = append(d.pages[:i], d.pages[i+1:]...)
				break
			}
		}
		delete(d.handles, closedPage)

		if d.page == closedPage && len(d.pages) > 0 {
			d.page = d.pages[0]
		}
	})
}

func (d *playwrightDriver) current() (playwright.Page, error) {
	d.pagesMutex.Lock()
	defer d.pagesMutex.Unlock()
	if d.page == nil || d.page.IsClosed() {
		return nil, errs.ErrNoSuchWindow
	}
	return d.page, nil
}

// Name - returns backend and browser name
func (d *playwrightDriver) Name() string {
	return "playwright/" + d.browserTag
}

// Navigate - navigates the current page to the specified URL
func (d *playwrightDriver) Navigate(url string) error {
	page, err := d.current()
	if err != nil {
		return err
	}

	_, err = page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
		Timeout:   millis(d.navTimeout),
	})
	return err
}

// FindElement - returns the first element matching the locator
func (d *playwrightDriver) FindElement(loc entities.Locator) (interfaces.Element, error) {
	page, err := d.current()
	if err != nil {
		return nil, err
	}
	return findPlaywright(pageScope(page), loc)
}

// FindElements - returns every element matching the locator
func (d *playwrightDriver) FindElements(loc entities.Locator) ([]interfaces.Element, error) {
	page, err := d.current()
	if err != nil {
		return nil, err
	}
	return findAllPlaywright(pageScope(page), loc)
}

// WindowHandles - returns one handle per open page, in opening order
func (d *playwrightDriver) WindowHandles() ([]string, error) {
	d.pagesMutex.Lock()
	defer d.pagesMutex.Unlock()

	handles := make([]string, 0, len(d.pages))
	for _, p := range d.pages {
		handles = append(handles, d.handles[p])
	}
	return handles, nil
}

// SwitchWindow - makes the page with the given handle current
func (d *playwrightDriver) SwitchWindow(handle string) error {
	d.pagesMutex.Lock()
	defer d.pagesMutex.Unlock()

	for _, p := range d.pages {
		if d.handles[p] == handle {
			d.page = p
			return nil
		}
	}
	return fmt.Errorf("%w: %s", errs.ErrNoSuchWindow, handle)
}

// CurrentURL - returns the URL of the current page
func (d *playwrightDriver) CurrentURL() (string, error) {
	page, err := d.current()
	if err != nil {
		return "", err
	}
	return page.URL(), nil
}

// Screenshot - takes a screenshot of the current page
func (d *playwrightDriver) Screenshot() ([]byte, error) {
	page, err := d.current()
	if err != nil {
		return nil, err
	}
	return page.Screenshot()
}

// Quit - closes the browser and stops playwright
func (d *playwrightDriver) Quit() error {
	var err error
	if d.context != nil {
		err = multierr.Append(err, ignoreClosed(d.context.Close()))
	}
	if d.browser != nil {
		err = multierr.Append(err, ignoreClosed(d.browser.Close()))
	}
	if d.pw != nil {
		err = multierr.Append(err, d.pw.Stop())
	}
	return err
}

func ignoreClosed(err error) error {
	if err == nil || errors.Is(err, playwright.ErrTargetClosed) {
		return nil
	}
	if strings.Contains(err.Error(), "closed") {
		return nil
	}
	return err
}

// playwrightSelector - converts a locator into a playwright selector
func playwrightSelector(loc entities.Locator) (string, error) {
	switch loc.Strategy {
	case entities.StrategyID:
		return "css=[id=" + strconv.Quote(loc.Selector) + "]", nil
	case entities.StrategyName:
		return "css=[name=" + strconv.Quote(loc.Selector) + "]", nil
	case entities.StrategyCSS, entities.StrategyTag:
		return "css=" + loc.Selector, nil
	case entities.StrategyXPath:
		return "xpath=" + loc.Selector, nil
	case entities.StrategyClass:
		return "css=." + loc.Selector, nil
	case entities.StrategyLinkText:
		return "css=a:text-is(" + strconv.Quote(loc.Selector) + ")", nil
	case entities.StrategyPartialLinkText:
		return "css=a:has-text(" + strconv.Quote(loc.Selector) + ")", nil
	}
	return "", fmt.Errorf("%w: %q", entities.ErrUnknownStrategy, loc.Strategy)
}

// playwrightCondition - classifies playwright failures into driver conditions.
// A timeout means the attempt did not succeed in time and is reported as onTimeout.
func playwrightCondition(err, onTimeout error) error {
	if err == nil {
		return nil
	}

	msg := err.Error()
	var cond error
	switch {
	case strings.Contains(msg, "intercepts pointer events"):
		cond = errs.ErrClickIntercepted
	case strings.Contains(msg, "not attached to the DOM"), strings.Contains(msg, "detached"):
		cond = errs.ErrStaleElement
	case strings.Contains(msg, "not a <select> element"), strings.Contains(msg, "Not a select element"):
		cond = errs.ErrNotSelectable
	case errors.Is(err, playwright.ErrTimeout):
		cond = onTimeout
	default:
		return err
	}
	return fmt.Errorf("%w: %w", cond, err)
}

// locatorFunc scopes a selector to a page or to a parent element
type locatorFunc func(selector string) playwright.Locator

func pageScope(page playwright.Page) locatorFunc {
	return func(selector string) playwright.Locator { return page.Locator(selector) }
}

func elementScope(parent playwright.Locator) locatorFunc {
	return func(selector string) playwright.Locator { return parent.Locator(selector) }
}

func findPlaywright(locate locatorFunc, loc entities.Locator) (interfaces.Element, error) {
	selector, err := playwrightSelector(loc)
	if err != nil {
		return nil, err
	}
	matches := locate(selector)
	count, err := matches.Count()
	if err != nil {
		return nil, playwrightCondition(err, errs.ErrNoSuchElement)
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: %s", errs.ErrNoSuchElement, selector)
	}
	return &playwrightElement{loc: matches.First()}, nil
}

func findAllPlaywright(locate locatorFunc, loc entities.Locator) ([]interfaces.Element, error) {
	selector, err := playwrightSelector(loc)
	if err != nil {
		return nil, err
	}
	matches := locate(selector)
	count, err := matches.Count()
	if err != nil {
		return nil, playwrightCondition(err, errs.ErrNoSuchElement)
	}
	result := make([]interfaces.Element, 0, count)
	for i := 0; i < count; i++ {
		result = append(result, &playwrightElement{loc: matches.Nth(i)})
	}
	return result, nil
}

// playwrightElement adapts a playwright.Locator pinned to one match
type playwrightElement struct {
	loc playwright.Locator
}

func (e *playwrightElement) Click() error {
	err := e.loc.Click(playwright.LocatorClickOptions{Timeout: millis(attemptTimeout)})
	return playwrightCondition(err, errs.ErrNotInteractable)
}

func (e *playwrightElement) Clear() error {
	err := e.loc.Clear(playwright.LocatorClearOptions{Timeout: millis(attemptTimeout)})
	return playwrightCondition(err, errs.ErrNotInteractable)
}

func (e *playwrightElement) SendKeys(text string) error {
	err := e.loc.PressSequentially(text, playwright.LocatorPressSequentiallyOptions{Timeout: millis(attemptTimeout)})
	return playwrightCondition(err, errs.ErrNotInteractable)
}

// Text - returns the rendered text, or the text content of a hidden element
func (e *playwrightElement) Text() (string, error) {
	visible, err := e.IsDisplayed()
	if err != nil {
		return "", err
	}
	if !visible {
		text, err := e.loc.TextContent(playwright.LocatorTextContentOptions{Timeout: millis(attemptTimeout)})
		return strings.TrimSpace(text), playwrightCondition(err, errs.ErrStaleElement)
	}
	text, err := e.loc.InnerText(playwright.LocatorInnerTextOptions{Timeout: millis(attemptTimeout)})
	return text, playwrightCondition(err, errs.ErrStaleElement)
}

func (e *playwrightElement) Value() (string, error) {
	value, err := e.loc.InputValue(playwright.LocatorInputValueOptions{Timeout: millis(attemptTimeout)})
	return value, playwrightCondition(err, errs.ErrStaleElement)
}

func (e *playwrightElement) IsDisplayed() (bool, error) {
	ok, err := e.loc.IsVisible()
	return ok, playwrightCondition(err, errs.ErrStaleElement)
}

func (e *playwrightElement) IsEnabled() (bool, error) {
	ok, err := e.loc.IsEnabled(playwright.LocatorIsEnabledOptions{Timeout: millis(attemptTimeout)})
	return ok, playwrightCondition(err, errs.ErrStaleElement)
}

// Select - picks an option of a <select> element
func (e *playwrightElement) Select(method entities.SelectMethod, value string) error {
	var values playwright.SelectOptionValues
	switch method {
	case entities.SelectByVisibleText:
		values.Labels = &[]string{value}
	case entities.SelectByValue:
		values.Values = &[]string{value}
	case entities.SelectByIndex:
		index, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: index %q", errs.ErrUnsupportedOption, value)
		}
		values.Indexes = &[]int{index}
	default:
		return fmt.Errorf("%w: %s", errs.ErrUnsupportedOption, method)
	}

	_, err := e.loc.SelectOption(values, playwright.LocatorSelectOptionOptions{Timeout: millis(attemptTimeout)})
	return playwrightCondition(err, errs.ErrNoSuchOption)
}

func (e *playwrightElement) FindElement(loc entities.Locator) (interfaces.Element, error) {
	return findPlaywright(elementScope(e.loc), loc)
}

func (e *playwrightElement) FindElements(loc entities.Locator) ([]interfaces.Element, error) {
	return findAllPlaywright(elementScope(e.loc), loc)
}

// Ensure playwrightDriver implements Driver interface
var _ interfaces.Driver = (*playwrightDriver)(nil)
