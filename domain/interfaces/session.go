package interfaces

import (
	"context"
	"time"

	"ecommerce_automation/domain/entities"
)

// Condition is the state an element must reach before an operation proceeds
type Condition int

const (
	ConditionVisible Condition = iota
	ConditionPresent
	ConditionClickable
)

func (c Condition) String() string {
	switch c {
	case ConditionPresent:
		return "present"
	case ConditionClickable:
		return "clickable"
	default:
		return "visible"
	}
}

// FindOptions tunes a single session operation
type FindOptions struct {
	Scope        Element
	Timeout      time.Duration
	Condition    Condition
	hasCondition bool
}

// ConditionOr - returns the configured condition or the operation default
func (o FindOptions) ConditionOr(def Condition) Condition {
	if o.hasCondition {
		return o.Condition
	}
	return def
}

// FindOption configures FindOptions
type FindOption func(*FindOptions)

// WithScope searches below a parent element instead of the whole page
func WithScope(parent Element) FindOption {
	return func(o *FindOptions) { o.Scope = parent }
}

// WithTimeout overrides the session default timeout
func WithTimeout(d time.Duration) FindOption {
	return func(o *FindOptions) { o.Timeout = d }
}

// WithCondition overrides the condition the operation waits for
func WithCondition(c Condition) FindOption {
	return func(o *FindOptions) {
		o.Condition = c
		o.hasCondition = true
	}
}

// ApplyFindOptions - folds options over the defaults
func ApplyFindOptions(def time.Duration, opts []FindOption) FindOptions {
	o := FindOptions{Timeout: def}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Timeout <= 0 {
		o.Timeout = def
	}
	return o
}

// Session is the bounded-wait element access used by page objects
type Session interface {
	ID() string
	Find(ctx context.Context, loc entities.Locator, opts ...FindOption) (Element, error)
	FindAll(ctx context.Context, loc entities.Locator, opts ...FindOption) ([]Element, error)
	Click(ctx context.Context, loc entities.Locator, opts ...FindOption) error
	ClickElement(ctx context.Context, el Element) error
	ReadText(ctx context.Context, loc entities.Locator, opts ...FindOption) (string, error)
	SetText(ctx context.Context, loc entities.Locator, value string, opts ...FindOption) error
	SelectOption(ctx context.Context, loc entities.Locator, method entities.SelectMethod, value string, opts ...FindOption) error
	CurrentURL(ctx context.Context, window int) (string, error)
	Open(ctx context.Context, url string) error
	Screenshot(ctx context.Context, name string) (string, error)
	Shutdown() error
}

// PageElements is the name-based capability shared by all page objects
type PageElements interface {
	FindByName(ctx context.Context, name string, opts ...FindOption) (Element, error)
	ClickByName(ctx context.Context, name string, opts ...FindOption) error
	ReadByName(ctx context.Context, name string, opts ...FindOption) (string, error)
	SetByName(ctx context.Context, name, value string, opts ...FindOption) error
}
