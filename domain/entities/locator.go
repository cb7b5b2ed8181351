package entities

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownStrategy is returned when a locator strategy tag is not supported
var ErrUnknownStrategy = errors.New("unknown locator strategy")

// Strategy represents how an element is located on a page
type Strategy string

const (
	StrategyID              Strategy = "id"
	StrategyName            Strategy = "name"
	StrategyCSS             Strategy = "css"
	StrategyXPath           Strategy = "xpath"
	StrategyClass           Strategy = "class"
	StrategyTag             Strategy = "tag"
	StrategyLinkText        Strategy = "link_text"
	StrategyPartialLinkText Strategy = "partial_link_text"
)

var strategyAliases = map[string]Strategy{
	"id":                StrategyID,
	"name":              StrategyName,
	"css":               StrategyCSS,
	"css_selector":      StrategyCSS,
	"css selector":      StrategyCSS,
	"xpath":             StrategyXPath,
	"class":             StrategyClass,
	"class_name":        StrategyClass,
	"class name":        StrategyClass,
	"tag":               StrategyTag,
	"tag_name":          StrategyTag,
	"tag name":          StrategyTag,
	"link_text":         StrategyLinkText,
	"link text":         StrategyLinkText,
	"partial_link_text": StrategyPartialLinkText,
	"partial link text": StrategyPartialLinkText,
}

// ParseStrategy - resolves a configuration tag into a Strategy
func ParseStrategy(tag string) (Strategy, error) {
	s, ok := strategyAliases[strings.ToLower(strings.TrimSpace(tag))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, tag)
	}
	return s, nil
}

// UnmarshalText lets strategies be decoded straight from configuration documents
func (s *Strategy) UnmarshalText(text []byte) error {
	parsed, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Locator identifies one element: a strategy plus the selector for that strategy
type Locator struct {
	Strategy Strategy `yaml:"by" validate:"required"`
	Selector string   `yaml:"value" validate:"required"`
}

// NewLocator - creates a locator from a raw strategy tag
func NewLocator(tag, selector string) (Locator, error) {
	s, err := ParseStrategy(tag)
	if err != nil {
		return Locator{}, err
	}
	return Locator{Strategy: s, Selector: selector}, nil
}

// Shorthand constructors used by page objects and tests
func ByID(id string) Locator { return Locator{Strategy: StrategyID, Selector: id} }
func ByCSS(selector string) Locator { return Locator{Strategy: StrategyCSS, Selector: selector} }
func ByXPath(path string) Locator { return Locator{Strategy: StrategyXPath, Selector: path} }
func ByClass(class string) Locator { return Locator{Strategy: StrategyClass, Selector: class} }
func ByTag(tag string) Locator { return Locator{Strategy: StrategyTag, Selector: tag} }
func ByName(name string) Locator { return Locator{Strategy: StrategyName, Selector: name} }
func ByLinkText(text string) Locator { return Locator{Strategy: StrategyLinkText, Selector: text} }

func (l Locator) String() string {
	return fmt.Sprintf("%s=%s", l.Strategy, l.Selector)
}
