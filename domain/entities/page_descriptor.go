package entities

import (
	"errors"
	"fmt"
)

// ErrUnknownElement is returned when a page has no locator registered under a name
var ErrUnknownElement = errors.New("unknown page element")

// PageDescriptor holds the locator table of one page
type PageDescriptor struct {
	Name     string             `yaml:"-"`
	Path     string             `yaml:"path"`
	Steps    []string           `yaml:"steps,omitempty"`
	Elements map[string]Locator `yaml:"elements" validate:"dive"`
}

// Locator - resolves a symbolic element name to its locator
func (d *PageDescriptor) Locator(name string) (Locator, error) {
	loc, ok := d.Elements[name]
	if !ok {
		return Locator{}, fmt.Errorf("%w: %q on page %q", ErrUnknownElement, name, d.Name)
	}
	return loc, nil
}

// Has - reports whether the page defines an element
func (d *PageDescriptor) Has(name string) bool {
	_, ok := d.Elements[name]
	return ok
}
