package entities

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ItemPrice is a product name with the price displayed next to it
type ItemPrice struct {
	Name  string  `json:"name"`
	Raw   string  `json:"raw"`
	Price float64 `json:"price"`
}

// ParsePrice - converts a displayed price such as "$29.99" into a number
func ParsePrice(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if i := strings.LastIndex(s, "$"); i >= 0 {
		s = s[i+1:]
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse price %q: %w", raw, err)
	}
	return v, nil
}

// SelectMethod represents how a dropdown option is chosen
type SelectMethod int

const (
	SelectByVisibleText SelectMethod = iota
	SelectByValue
	SelectByIndex
)

func (m SelectMethod) String() string {
	switch m {
	case SelectByVisibleText:
		return "visible_text"
	case SelectByValue:
		return "value"
	case SelectByIndex:
		return "index"
	default:
		return fmt.Sprintf("SelectMethod(%d)", int(m))
	}
}

// SortOption is one of the inventory sort filters
type SortOption string

const (
	SortAToZ      SortOption = "az"
	SortZToA      SortOption = "za"
	SortLowToHigh SortOption = "lohi"
	SortHighToLow SortOption = "hilo"
)

// SortOptions lists every filter in the order the site shows them
var SortOptions = []SortOption{SortAToZ, SortZToA, SortLowToHigh, SortHighToLow}

var sortLabels = map[SortOption]string{
	SortAToZ:      "Name (A to Z)",
	SortZToA:      "Name (Z to A)",
	SortLowToHigh: "Price (low to high)",
	SortHighToLow: "Price (high to low)",
}

// Label - returns the visible text of the option
func (o SortOption) Label() string {
	return sortLabels[o]
}

// Valid - reports whether the option is known
func (o SortOption) Valid() bool {
	_, ok := sortLabels[o]
	return ok
}

// SortOptionFromLabel - finds the option displaying the given text
func SortOptionFromLabel(label string) (SortOption, bool) {
	for o, l := range sortLabels {
		if strings.EqualFold(l, strings.TrimSpace(label)) {
			return o, true
		}
	}
	return "", false
}

// SortItems - returns a copy of items ordered the way the filter should order them.
// Items with the same price keep name order.
func (o SortOption) SortItems(items []ItemPrice) []ItemPrice {
	sorted := make([]ItemPrice, len(items))
	copy(sorted, items)

	var less func(a, b ItemPrice) bool
	switch o {
	case SortAToZ:
		less = func(a, b ItemPrice) bool { return a.Name < b.Name }
	case SortZToA:
		less = func(a, b ItemPrice) bool { return a.Name > b.Name }
	case SortLowToHigh:
		less = func(a, b ItemPrice) bool {
			if a.Price != b.Price {
				return a.Price < b.Price
			}
			return a.Name < b.Name
		}
	case SortHighToLow:
		less = func(a, b ItemPrice) bool {
			if a.Price != b.Price {
				return a.Price > b.Price
			}
			return a.Name < b.Name
		}
	default:
		return sorted
	}

	sort.SliceStable(sorted, func(i, j int) bool { return less(sorted[i], sorted[j]) })
	return sorted
}
