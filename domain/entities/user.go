package entities

// User is a seed account used to log in and check out
type User struct {
	Username   string `json:"username" yaml:"username"`
	Password   string `json:"password" yaml:"password"`
	FirstName  string `json:"first_name,omitempty" yaml:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty" yaml:"last_name,omitempty"`
	PostalCode string `json:"postal_code,omitempty" yaml:"postal_code,omitempty"`
}

// CheckoutInfo - returns the shipping information stored on the user
func (u User) CheckoutInfo() CheckoutInfo {
	return CheckoutInfo{
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		PostalCode: u.PostalCode,
	}
}
