package entities

import "math"

// CheckoutInfo is the data typed into the first checkout step
type CheckoutInfo struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	PostalCode string `json:"postal_code"`
}

// Fields - returns the info keyed by the checkout page element names
func (c CheckoutInfo) Fields() []Field {
	return []Field{
		{Name: "first_name", Value: c.FirstName},
		{Name: "last_name", Value: c.LastName},
		{Name: "postal_code", Value: c.PostalCode},
	}
}

// Field is a named form value
type Field struct {
	Name  string
	Value string
}

// CheckoutStep represents the position in the checkout wizard
type CheckoutStep int

const (
	CheckoutInformation CheckoutStep = iota
	CheckoutOverview
	CheckoutComplete
)

func (s CheckoutStep) String() string {
	switch s {
	case CheckoutInformation:
		return "information"
	case CheckoutOverview:
		return "overview"
	case CheckoutComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// OrderSummary holds the totals shown on the overview step
type OrderSummary struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// Consistent - reports whether subtotal plus tax equals the total, to the cent
func (s OrderSummary) Consistent() bool {
	return math.Round((s.Subtotal+s.Tax)*100) == math.Round(s.Total*100)
}
