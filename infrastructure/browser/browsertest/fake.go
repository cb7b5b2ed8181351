// Package browsertest provides an in-memory browser driver for tests.
//
// A Driver holds a tree of Nodes registered under exact locators. Nodes can be hidden,
// disabled, slow to appear or covered for a number of clicks, which is enough to drive the
// session wait logic and the page objects without a real browser. Routes let a test react to
// navigation by rebuilding the tree, the way a site would render a new page.
//
// The fake is not safe for concurrent use.
package browsertest

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"ecommerce_automation/domain/entities"
	"ecommerce_automation/domain/errs"
	"ecommerce_automation/domain/interfaces"
)

// ErrInvalidSession is returned by every call after Quit
var ErrInvalidSession = errors.New("invalid session id")

// ErrInvalidElementState is returned when clearing an element that is not a form field
var ErrInvalidElementState = errors.New("invalid element state")

// PNG is the image returned by Screenshot
var PNG = []byte("\x89PNG\r\n\x1a\n")

// Option is an <option> of a select node
type Option struct {
	Text  string
	Value string
}

type child struct {
	loc  entities.Locator
	node *Node
}

// Node is one element of the fake page
type Node struct {
	tag         string
	text        string
	value       string
	hidden      bool
	disabled    bool
	intercept   int
	appearAfter int
	detached    bool
	clicks      int
	children    []child
	options     []Option
	selected    int
	onClick     func()
	onSelect    func(Option)
}

// NewNode - creates a node with a tag and visible text
func NewNode(tag, text string) *Node {
	return &Node{tag: tag, text: text, selected: -1}
}

// Button - creates a button node
func Button(text string) *Node {
	return NewNode("button", text)
}

// Input - creates an input node holding value
func Input(value string) *Node {
	n := NewNode("input", "")
	n.value = value
	return n
}

// Select - creates a select node, the first option selected
func Select(options ...Option) *Node {
	n := NewNode("select", "")
	n.options = options
	if len(options) > 0 {
		n.selected = 0
	}
	return n
}

// Hidden marks the node as not displayed
func (n *Node) Hidden() *Node {
	n.hidden = true
	return n
}

// Show marks the node as displayed
func (n *Node) Show() *Node {
	n.hidden = false
	return n
}

// Disabled marks the node as not enabled
func (n *Node) Disabled() *Node {
	n.disabled = true
	return n
}

// Enable marks the node as enabled
func (n *Node) Enable() *Node {
	n.disabled = false
	return n
}

// AppearAfter makes the next count lookups miss the node
func (n *Node) AppearAfter(count int) *Node {
	n.appearAfter = count
	return n
}

// Intercept rejects the next count clicks as intercepted
func (n *Node) Intercept(count int) *Node {
	n.intercept = count
	return n
}

// OnClick runs fn after each successful click
func (n *Node) OnClick(fn func()) *Node {
	n.onClick = fn
	return n
}

// OnSelect runs fn after an option is selected
func (n *Node) OnSelect(fn func(Option)) *Node {
	n.onSelect = fn
	return n
}

// SetText replaces the visible text
func (n *Node) SetText(text string) *Node {
	n.text = text
	return n
}

// Add registers a child under loc and returns the child
func (n *Node) Add(loc entities.Locator, c *Node) *Node {
	n.children = append(n.children, child{loc: loc, node: c})
	return c
}

// Remove detaches every child registered under loc
func (n *Node) Remove(loc entities.Locator) {
	kept := n.children[:0]
	for _, c := range n.children {
		if c.loc == loc {
			c.node.detach()
			continue
		}
		kept = append(kept, c)
	}
	n.children = kept
}

func (n *Node) detach() {
	n.detached = true
	for _, c := range n.children {
		c.node.detach()
	}
}

// Clicks - returns how many clicks succeeded
func (n *Node) Clicks() int { return n.clicks }

// Text - returns the visible text
func (n *Node) Text() string { return n.text }

// Value - returns the form value
func (n *Node) Value() string { return n.value }

// Selected - returns the selected option
func (n *Node) Selected() (Option, bool) {
	if n.selected < 0 || n.selected >= len(n.options) {
		return Option{}, false
	}
	return n.options[n.selected], true
}

// Detached reports whether the node was removed from the page
func (n *Node) Detached() bool { return n.detached }

func (n *Node) find(loc entities.Locator) []*Node {
	var found []*Node
	for _, c := range n.children {
		if c.loc != loc || c.node.detached {
			continue
		}
		if c.node.appearAfter > 0 {
			c.node.appearAfter--
			continue
		}
		found = append(found, c.node)
	}
	return found
}

type window struct {
	handle string
	url    string
}

// Driver is the in-memory interfaces.Driver
type Driver struct {
	root       *Node
	windows    []*window
	current    int
	routes     map[string]func(url string)
	navErr     error
	shotErr    error
	quit       bool
	quits      int
	finds      int
	navigated  []string
	nextHandle int
}

// New - creates a driver with one blank window
func New() *Driver {
	d := &Driver{
		root:   NewNode("html", ""),
		routes: map[string]func(string){},
	}
	d.OpenWindow("about:blank")
	return d
}

// Root - returns the document node
func (d *Driver) Root() *Node { return d.root }

// Add - registers a top level node
func (d *Driver) Add(loc entities.Locator, n *Node) *Node { return d.root.Add(loc, n) }

// Remove - detaches every top level node under loc
func (d *Driver) Remove(loc entities.Locator) { d.root.Remove(loc) }

// Reset - detaches the whole page
func (d *Driver) Reset() {
	for _, c := range d.root.children {
		c.node.detach()
	}
	d.root.children = nil
}

// Route - renders a page whenever a URL without its query string matches
func (d *Driver) Route(url string, render func(url string)) {
	d.routes[url] = render
}

// FailNavigation - makes every following Navigate fail with err
func (d *Driver) FailNavigation(err error) { d.navErr = err }

// FailScreenshot - makes every following Screenshot fail with err
func (d *Driver) FailScreenshot(err error) { d.shotErr = err }

// OpenWindow - opens a window at url without switching to it
func (d *Driver) OpenWindow(url string) string {
	handle := "window-" + strconv.Itoa(d.nextHandle)
	d.nextHandle++
	d.windows = append(d.windows, &window{handle: handle, url: url})
	return handle
}

// Navigations - returns every URL loaded so far
func (d *Driver) Navigations() []string { return d.navigated }

// FindCalls - returns how many lookups reached the driver
func (d *Driver) FindCalls() int { return d.finds }

// Quits - returns how many times Quit was called
func (d *Driver) Quits() int { return d.quits }

// Name - returns the backend name
func (d *Driver) Name() string { return "fake" }

// Navigate - loads url in the current window and renders its route
func (d *Driver) Navigate(url string) error {
	if d.quit {
		return ErrInvalidSession
	}
	if d.navErr != nil {
		return d.navErr
	}

	d.windows[d.current].url = url
	d.navigated = append(d.navigated, url)
	d.Reset()

	key := url
	if i := strings.IndexAny(key, "?#"); i >= 0 {
		key = key[:i]
	}
	if render, ok := d.routes[key]; ok {
		render(url)
	}
	return nil
}

// FindElement - returns the first top level match
func (d *Driver) FindElement(loc entities.Locator) (interfaces.Element, error) {
	if d.quit {
		return nil, ErrInvalidSession
	}
	d.finds++
	return first(d.root, loc)
}

// FindElements - returns every top level match
func (d *Driver) FindElements(loc entities.Locator) ([]interfaces.Element, error) {
	if d.quit {
		return nil, ErrInvalidSession
	}
	d.finds++
	return all(d.root, loc), nil
}

// WindowHandles - returns handles in opening order
func (d *Driver) WindowHandles() ([]string, error) {
	if d.quit {
		return nil, ErrInvalidSession
	}
	handles := make([]string, 0, len(d.windows))
	for _, w := range d.windows {
		handles = append(handles, w.handle)
	}
	return handles, nil
}

// SwitchWindow - makes a window current
func (d *Driver) SwitchWindow(handle string) error {
	if d.quit {
		return ErrInvalidSession
	}
	for i, w := range d.windows {
		if w.handle == handle {
			d.current = i
			return nil
		}
	}
	return fmt.Errorf("%w: %s", errs.ErrNoSuchWindow, handle)
}

// CurrentURL - returns the URL of the current window
func (d *Driver) CurrentURL() (string, error) {
	if d.quit {
		return "", ErrInvalidSession
	}
	return d.windows[d.current].url, nil
}

// Screenshot - returns a tiny PNG header
func (d *Driver) Screenshot() ([]byte, error) {
	if d.quit {
		return nil, ErrInvalidSession
	}
	if d.shotErr != nil {
		return nil, d.shotErr
	}
	return PNG, nil
}

// Quit - ends the session, a second call fails like a real webdriver
func (d *Driver) Quit() error {
	d.quits++
	if d.quit {
		return ErrInvalidSession
	}
	d.quit = true
	return nil
}

func first(n *Node, loc entities.Locator) (interfaces.Element, error) {
	found := n.find(loc)
	if len(found) == 0 {
		return nil, fmt.Errorf("%w: %s", errs.ErrNoSuchElement, loc)
	}
	return &element{n: found[0]}, nil
}

func all(n *Node, loc entities.Locator) []interfaces.Element {
	found := n.find(loc)
	result := make([]interfaces.Element, 0, len(found))
	for _, f := range found {
		result = append(result, &element{n: f})
	}
	return result
}

// element is the handle a test session receives for a node
type element struct {
	n *Node
}

func (e *element) attached() error {
	if e.n.detached {
		return errs.ErrStaleElement
	}
	return nil
}

func (e *element) Click() error {
	if err := e.attached(); err != nil {
		return err
	}
	if e.n.hidden || e.n.disabled {
		return errs.ErrNotInteractable
	}
	if e.n.intercept > 0 {
		e.n.intercept--
		return errs.ErrClickIntercepted
	}
	e.n.clicks++
	if e.n.onClick != nil {
		e.n.onClick()
	}
	return nil
}

func (e *element) isField() bool {
	return e.n.tag == "input" || e.n.tag == "textarea"
}

func (e *element) Clear() error {
	if err := e.attached(); err != nil {
		return err
	}
	if !e.isField() {
		return fmt.Errorf("%w: <%s> is not editable", ErrInvalidElementState, e.n.tag)
	}
	e.n.value = ""
	return nil
}

func (e *element) SendKeys(text string) error {
	if err := e.attached(); err != nil {
		return err
	}
	if e.n.hidden || e.n.disabled {
		return errs.ErrNotInteractable
	}
	e.n.value += text
	return nil
}

func (e *element) Text() (string, error) {
	if err := e.attached(); err != nil {
		return "", err
	}
	if e.isField() {
		return "", nil
	}
	return e.n.text, nil
}

func (e *element) Value() (string, error) {
	if err := e.attached(); err != nil {
		return "", err
	}
	if sel, ok := e.n.Selected(); ok {
		return sel.Value, nil
	}
	return e.n.value, nil
}

func (e *element) IsDisplayed() (bool, error) {
	if err := e.attached(); err != nil {
		return false, err
	}
	return !e.n.hidden, nil
}

func (e *element) IsEnabled() (bool, error) {
	if err := e.attached(); err != nil {
		return false, err
	}
	return !e.n.disabled, nil
}

func (e *element) Select(method entities.SelectMethod, value string) error {
	if err := e.attached(); err != nil {
		return err
	}
	if e.n.tag != "select" {
		return fmt.Errorf("%w: <%s>", errs.ErrNotSelectable, e.n.tag)
	}

	index := -1
	for i, opt := range e.n.options {
		switch method {
		case entities.SelectByVisibleText:
			if opt.Text == value {
				index = i
			}
		case entities.SelectByValue:
			if opt.Value == value {
				index = i
			}
		case entities.SelectByIndex:
			if strconv.Itoa(i) == value {
				index = i
			}
		default:
			return fmt.Errorf("%w: %s", errs.ErrUnsupportedOption, method)
		}
		if index >= 0 {
			break
		}
	}
	if index < 0 {
		return fmt.Errorf("%w: %s %q", errs.ErrNoSuchOption, method, value)
	}

	e.n.selected = index
	if e.n.onSelect != nil {
		e.n.onSelect(e.n.options[index])
	}
	return nil
}

func (e *element) FindElement(loc entities.Locator) (interfaces.Element, error) {
	if err := e.attached(); err != nil {
		return nil, err
	}
	return first(e.n, loc)
}

func (e *element) FindElements(loc entities.Locator) ([]interfaces.Element, error) {
	if err := e.attached(); err != nil {
		return nil, err
	}
	return all(e.n, loc), nil
}

// NodeOf - returns the node behind an element handed out by the driver
func NodeOf(el interfaces.Element) (*Node, bool) {
	e, ok := el.(*element)
	if !ok {
		return nil, false
	}
	return e.n, true
}

// Ensure Driver implements Driver interface
var _ interfaces.Driver = (*Driver)(nil)
