package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"ecommerce_automation/domain/entities"
	"ecommerce_automation/domain/errs"
	"ecommerce_automation/domain/interfaces"
)

// errNotVisible and errNotEnabled keep the poller going while an element settles
var (
	errNotVisible = fmt.Errorf("%w: element is not displayed", errs.ErrNotInteractable)
	errNotEnabled = fmt.Errorf("%w: element is disabled", errs.ErrNotInteractable)
)

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Session owns one backend driver and gives page objects bounded-wait element access.
// A Session is not safe for concurrent use.
type Session struct {
	id          string
	driver      interfaces.Driver
	logger      logrus.FieldLogger
	poll        poller
	timeout     time.Duration
	artifacts   string
	screenshots int
}

// SessionOption configures a Session
type SessionOption func(*Session)

// WithClock replaces the wall clock used for polling
func WithClock(c clock.Clock) SessionOption {
	return func(s *Session) { s.poll.clock = c }
}

// WithDefaultTimeout sets the timeout used when an operation does not pass one
func WithDefaultTimeout(d time.Duration) SessionOption {
	return func(s *Session) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithPollInterval sets the delay between two attempts
func WithPollInterval(d time.Duration) SessionOption {
	return func(s *Session) {
		if d > 0 {
			s.poll.interval = d
		}
	}
}

// WithArtifactsDir sets where screenshots are written
func WithArtifactsDir(dir string) SessionOption {
	return func(s *Session) { s.artifacts = dir }
}

// NewSession - wraps a driver into a session
func NewSession(driver interfaces.Driver, logger logrus.FieldLogger, opts ...SessionOption) *Session {
	id := uuid.NewString()
	s := &Session{
		id:        id,
		driver:    driver,
		poll:      poller{clock: clock.New(), interval: defaultPollInterval},
		timeout:   defaultTimeout,
		artifacts: ".",
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logger.WithFields(logrus.Fields{
		"component": "session",
		"session":   id,
		"driver":    driver.Name(),
	})
	return s
}

// ID - returns the session identifier used in log lines
func (s *Session) ID() string {
	return s.id
}

// fail - wraps err into kind unless the caller's context ended the wait
func fail(ctx context.Context, kind error, op, target string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return ctxErr
	}
	return errs.New(kind, op, target, err)
}

func (s *Session) findOnce(loc entities.Locator, scope interfaces.Element) (interfaces.Element, error) {
	if scope != nil {
		return scope.FindElement(loc)
	}
	return s.driver.FindElement(loc)
}

func (s *Session) findAllOnce(loc entities.Locator, scope interfaces.Element) ([]interfaces.Element, error) {
	if scope != nil {
		return scope.FindElements(loc)
	}
	return s.driver.FindElements(loc)
}

// meets - reports with a transient error when the element has not reached the condition yet
func meets(el interfaces.Element, cond interfaces.Condition) error {
	if cond == interfaces.ConditionPresent {
		return nil
	}

	visible, err := el.IsDisplayed()
	if err != nil {
		return err
	}
	if !visible {
		return errNotVisible
	}

	if cond == interfaces.ConditionClickable {
		enabled, err := el.IsEnabled()
		if err != nil {
			return err
		}
		if !enabled {
			return errNotEnabled
		}
	}
	return nil
}

// locate polls for an element and runs act on it once it meets cond.
// located reports whether the element was ever found, whatever its state.
func (s *Session) locate(ctx context.Context, loc entities.Locator, o interfaces.FindOptions, cond interfaces.Condition, act func(interfaces.Element) error) (el interfaces.Element, located bool, err error) {
	err = s.poll.until(ctx, o.Timeout, func() error {
		found, err := s.findOnce(loc, o.Scope)
		if err != nil {
			return err
		}
		located = true
		if err := meets(found, cond); err != nil {
			return err
		}
		if act != nil {
			if err := act(found); err != nil {
				return err
			}
		}
		el = found
		return nil
	})
	return el, located, err
}

// Find - waits until the element meets the condition, visible by default
func (s *Session) Find(ctx context.Context, loc entities.Locator, opts ...interfaces.FindOption) (interfaces.Element, error) {
	o := interfaces.ApplyFindOptions(s.timeout, opts)
	cond := o.ConditionOr(interfaces.ConditionVisible)
	s.logger.Debugf("Finding %s element: %s", cond, loc)

	el, _, err := s.locate(ctx, loc, o, cond, nil)
	if err != nil {
		return nil, fail(ctx, errs.ErrNotFound, "find", loc.String(), err)
	}
	return el, nil
}

// FindAll - waits until at least one element matches and returns every match
func (s *Session) FindAll(ctx context.Context, loc entities.Locator, opts ...interfaces.FindOption) ([]interfaces.Element, error) {
	o := interfaces.ApplyFindOptions(s.timeout, opts)
	cond := o.ConditionOr(interfaces.ConditionPresent)
	s.logger.Debugf("Finding all %s elements: %s", cond, loc)

	var result []interfaces.Element
	err := s.poll.until(ctx, o.Timeout, func() error {
		found, err := s.findAllOnce(loc, o.Scope)
		if err != nil {
			return err
		}
		var matching []interfaces.Element
		for _, el := range found {
			if meets(el, cond) == nil {
				matching = append(matching, el)
			}
		}
		if len(matching) == 0 {
			return errs.ErrNoSuchElement
		}
		result = matching
		return nil
	})
	if err != nil {
		return nil, fail(ctx, errs.ErrNotFound, "find all", loc.String(), err)
	}
	return result, nil
}

// Click - waits until the element is clickable and clicks it
func (s *Session) Click(ctx context.Context, loc entities.Locator, opts ...interfaces.FindOption) error {
	o := interfaces.ApplyFindOptions(s.timeout, opts)
	s.logger.Debugf("Clicking on: %s", loc)

	_, located, err := s.locate(ctx, loc, o, o.ConditionOr(interfaces.ConditionClickable), func(el interfaces.Element) error {
		return el.Click()
	})
	if err == nil {
		return nil
	}
	if !located {
		return fail(ctx, errs.ErrNotFound, "click", loc.String(), err)
	}
	return fail(ctx, errs.ErrNotClickable, "click", loc.String(), err)
}

// ClickElement - clicks an element resolved earlier, retrying while it is covered
func (s *Session) ClickElement(ctx context.Context, el interfaces.Element) error {
	s.logger.Debug("Clicking on resolved element")

	err := s.poll.until(ctx, s.timeout, func() error {
		if err := meets(el, interfaces.ConditionClickable); err != nil {
			return err
		}
		return el.Click()
	})
	if err != nil {
		return fail(ctx, errs.ErrNotClickable, "click", "", err)
	}
	return nil
}

// ReadText - waits for the element and returns its text, or its value for form fields
func (s *Session) ReadText(ctx context.Context, loc entities.Locator, opts ...interfaces.FindOption) (string, error) {
	o := interfaces.ApplyFindOptions(s.timeout, opts)

	var text string
	_, _, err := s.locate(ctx, loc, o, o.ConditionOr(interfaces.ConditionVisible), func(el interfaces.Element) error {
		var err error
		text, err = readValue(el)
		return err
	})
	if err != nil {
		return "", fail(ctx, errs.ErrNotFound, "read text", loc.String(), err)
	}
	s.logger.Debugf("Read %q from: %s", text, loc)
	return text, nil
}

func readValue(el interfaces.Element) (string, error) {
	text, err := el.Text()
	if err != nil {
		return "", err
	}
	if text != "" {
		return text, nil
	}
	// form fields carry their content in the value property
	if value, err := el.Value(); err == nil {
		return value, nil
	}
	return text, nil
}

// SetText - waits for the element, clears it and types the value
func (s *Session) SetText(ctx context.Context, loc entities.Locator, value string, opts ...interfaces.FindOption) error {
	o := interfaces.ApplyFindOptions(s.timeout, opts)
	s.logger.Debugf("Typing into: %s", loc)

	_, located, err := s.locate(ctx, loc, o, o.ConditionOr(interfaces.ConditionPresent), func(el interfaces.Element) error {
		if err := el.Clear(); err != nil {
			return err
		}
		return el.SendKeys(value)
	})
	if err == nil {
		return nil
	}
	if !located {
		return fail(ctx, errs.ErrNotFound, "set text", loc.String(), err)
	}
	return fail(ctx, errs.ErrNotClickable, "set text", loc.String(), err)
}

// SelectOption - resolves a dropdown and selects one of its options
func (s *Session) SelectOption(ctx context.Context, loc entities.Locator, method entities.SelectMethod, value string, opts ...interfaces.FindOption) error {
	o := interfaces.ApplyFindOptions(s.timeout, opts)
	s.logger.Debugf("Selecting %s %q on: %s", method, value, loc)

	_, _, err := s.locate(ctx, loc, o, o.ConditionOr(interfaces.ConditionVisible), func(el interfaces.Element) error {
		return el.Select(method, value)
	})
	if err != nil {
		return fail(ctx, errs.ErrSelection, "select", loc.String(), err)
	}
	return nil
}

// CurrentURL - switches to the window at index and returns its URL
func (s *Session) CurrentURL(ctx context.Context, window int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	handles, err := s.driver.WindowHandles()
	if err != nil {
		return "", errs.New(errs.ErrWindowSwitch, "current url", "", err)
	}
	if window < 0 || window >= len(handles) {
		return "", errs.New(errs.ErrWindowSwitch, "current url", fmt.Sprintf("window %d", window),
			fmt.Errorf("%w: %d windows open", errs.ErrNoSuchWindow, len(handles)))
	}
	if err := s.driver.SwitchWindow(handles[window]); err != nil {
		return "", errs.New(errs.ErrWindowSwitch, "current url", fmt.Sprintf("window %d", window), err)
	}

	url, err := s.driver.CurrentURL()
	if err != nil {
		return "", errs.New(errs.ErrWindowSwitch, "current url", fmt.Sprintf("window %d", window), err)
	}
	return url, nil
}

// Open - navigates the current window to url
func (s *Session) Open(ctx context.Context, url string) error {
	s.logger.Infof("Opening page: %s", url)
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.driver.Navigate(url); err != nil {
		return errs.New(errs.ErrNavigation, "open", url, err)
	}
	return nil
}

// Screenshot - saves a PNG of the current window and returns its path
func (s *Session) Screenshot(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", errs.New(errs.ErrSession, "screenshot", name, err)
	}

	data, err := s.driver.Screenshot()
	if err != nil {
		return "", errs.New(errs.ErrSession, "screenshot", name, err)
	}

	if err := os.MkdirAll(s.artifacts, 0755); err != nil {
		return "", errs.New(errs.ErrSession, "screenshot", name, fmt.Errorf("failed to create artifacts folder: %w", err))
	}

	s.screenshots++
	file := fmt.Sprintf("%s_%02d_%s.png", s.id[:8], s.screenshots, unsafeFileChars.ReplaceAllString(name, "_"))
	path := filepath.Join(s.artifacts, file)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", errs.New(errs.ErrSession, "screenshot", name, fmt.Errorf("failed to write screenshot: %w", err))
	}

	s.logger.Infof("Screenshot saved: %s", path)
	return path, nil
}

// Shutdown - quits the backend. A second call quits again and returns the backend error.
func (s *Session) Shutdown() error {
	s.logger.Info("Closing browser session")

	if err := s.driver.Quit(); err != nil {
		return errs.New(errs.ErrSession, "shutdown", "", err)
	}
	return nil
}

// Ensure Session implements Session interface
var _ interfaces.Session = (*Session)(nil)
