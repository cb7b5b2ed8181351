package browsertest

import (
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"

	"ecommerce_automation/domain/entities"
)

// Locators rendered by Shop. They match testdata/sauce_demo.yaml.
var (
	LocUsername     = entities.ByID("user-name")
	LocPassword     = entities.ByID("password")
	LocLoginButton  = entities.ByID("login-button")
	LocError        = entities.ByCSS("h3[data-test='error']")
	LocMenuButton   = entities.ByID("react-burger-menu-btn")
	LocMenuItems    = entities.ByClass("bm-item-list")
	LocMenuLink     = entities.ByTag("a")
	LocLogout       = entities.ByID("logout_sidebar_link")
	LocItem         = entities.ByClass("inventory_item")
	LocItemName     = entities.ByClass("inventory_item_name")
	LocItemPrice    = entities.ByClass("inventory_item_price")
	LocAddButton    = entities.ByCSS("button[id^='add-to-cart']")
	LocRemoveButton = entities.ByCSS("button[id^='remove']")
	LocCartBadge    = entities.ByClass("shopping_cart_badge")
	LocCartLink     = entities.ByClass("shopping_cart_link")
	LocSortSelect   = entities.ByClass("product_sort_container")
	LocActiveSort   = entities.ByClass("active_option")
	LocCartItem     = entities.ByClass("cart_item")
	LocCheckout     = entities.ByID("checkout")
	LocContinueShop = entities.ByID("continue-shopping")
	LocFirstName    = entities.ByID("first-name")
	LocLastName     = entities.ByID("last-name")
	LocPostalCode   = entities.ByID("postal-code")
	LocContinue     = entities.ByID("continue")
	LocCancel       = entities.ByID("cancel")
	LocFinish       = entities.ByID("finish")
	LocBackHome     = entities.ByID("back-to-products")
	LocSubtotal     = entities.ByClass("summary_subtotal_label")
	LocTax          = entities.ByClass("summary_tax_label")
	LocTotal        = entities.ByClass("summary_total_label")
	LocComplete     = entities.ByClass("complete-header")
	LocDetailName   = entities.ByClass("inventory_details_name")
	LocDetailPrice  = entities.ByClass("inventory_details_price")
	LocDetailAdd    = entities.ByID("add-to-cart")
	LocDetailRemove = entities.ByID("remove")
)

// Shop messages
const (
	MsgUsernameRequired = "Epic sadface: Username is required"
	MsgPasswordRequired = "Epic sadface: Password is required"
	MsgLockedOut        = "Epic sadface: Sorry, this user has been locked out."
	MsgBadCredentials   = "Epic sadface: Username and password do not match any user in this service"
	MsgThankYou         = "Thank you for your order!"
)

// TaxRate applied on the checkout overview
const TaxRate = 0.08

// Product is an item sold by the shop
type Product struct {
	Name  string
	Price float64
}

// DefaultProducts mirrors the demo site catalogue
var DefaultProducts = []Product{
	{"Sauce Labs Backpack", 29.99},
	{"Sauce Labs Bike Light", 9.99},
	{"Sauce Labs Bolt T-Shirt", 15.99},
	{"Sauce Labs Fleece Jacket", 49.99},
	{"Sauce Labs Onesie", 7.99},
	{"Test.allTheThings() T-Shirt (Red)", 15.99},
}

// Shop renders a small e-commerce site on a fake Driver
type Shop struct {
	d        *Driver
	base     string
	products []Product
	users    map[string]string
	locked   map[string]bool
	cart     []string
	sort     entities.SortOption
	user     string
	errorMsg string
	info     entities.CheckoutInfo
}

// NewShop - registers the shop routes under base, which must end with a slash
func NewShop(d *Driver, base string) *Shop {
	s := &Shop{
		d:        d,
		base:     base,
		products: append([]Product(nil), DefaultProducts...),
		users: map[string]string{
			"standard_user":   "secret_sauce",
			"locked_out_user": "secret_sauce",
			"problem_user":    "secret_sauce",
		},
		locked: map[string]bool{"locked_out_user": true},
		sort:   entities.SortAToZ,
	}

	d.Route(base, func(string) { s.renderLogin() })
	d.Route(base+"inventory.html", func(string) { s.renderInventory() })
	d.Route(base+"cart.html", func(string) { s.renderCart() })
	d.Route(base+"checkout-step-one.html", func(string) { s.renderInformation() })
	d.Route(base+"checkout-step-two.html", func(string) { s.renderOverview() })
	d.Route(base+"checkout-complete.html", func(string) { s.renderComplete() })
	d.Route(base+"inventory-item.html", s.renderProduct)
	return s
}

// Cart - returns the names in the cart in the order they were added
func (s *Shop) Cart() []string {
	return append([]string(nil), s.cart...)
}

// User - returns the logged in user, empty after logout
func (s *Shop) User() string {
	return s.user
}

// SetProducts - replaces the catalogue
func (s *Shop) SetProducts(products []Product) {
	s.products = append([]Product(nil), products...)
}

// CheckoutInfo - returns what the last checkout form submitted
func (s *Shop) CheckoutInfo() entities.CheckoutInfo {
	return s.info
}

func (s *Shop) visit(path string) {
	_ = s.d.Navigate(s.base + path)
}

func (s *Shop) inCart(name string) bool {
	for _, n := range s.cart {
		if n == name {
			return true
		}
	}
	return false
}

func (s *Shop) addToCart(name string) {
	if !s.inCart(name) {
		s.cart = append(s.cart, name)
	}
}

func (s *Shop) removeFromCart(name string) {
	for i, n := range s.cart {
		if n == name {
			s.cart = append(s.cart[:i], s.cart[i+1:]...)
			return
		}
	}
}

func (s *Shop) product(name string) (Product, int, bool) {
	for i, p := range s.products {
		if p.Name == name {
			return p, i, true
		}
	}
	return Product{}, -1, false
}

func price(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func (s *Shop) renderLogin() {
	d := s.d
	username := d.Add(LocUsername, Input(""))
	password := d.Add(LocPassword, Input(""))
	d.Add(LocLoginButton, NewNode("input", "")).OnClick(func() {
		switch pw, known := s.users[username.value]; {
		case username.value == "":
			s.showLoginError(MsgUsernameRequired)
		case password.value == "":
			s.showLoginError(MsgPasswordRequired)
		case !known || pw != password.value:
			s.showLoginError(MsgBadCredentials)
		case s.locked[username.value]:
			s.showLoginError(MsgLockedOut)
		default:
			s.user = username.value
			s.visit("inventory.html")
		}
	})
	if s.errorMsg != "" {
		d.Add(LocError, NewNode("h3", s.errorMsg))
		s.errorMsg = ""
	}
}

func (s *Shop) showLoginError(msg string) {
	s.d.Remove(LocError)
	s.d.Add(LocError, NewNode("h3", msg))
}

// guard - sends anonymous visitors back to the login page
func (s *Shop) guard(path string) bool {
	if s.user != "" {
		return true
	}
	s.errorMsg = fmt.Sprintf("Epic sadface: You can only access '/%s' when you are logged in.", path)
	s.visit("")
	return false
}

func (s *Shop) renderHeader() {
	d := s.d
	menu := d.Add(LocMenuItems, NewNode("nav", "")).Hidden()
	logout := NewNode("a", "Logout").Hidden().OnClick(func() {
		s.user = ""
		s.visit("")
	})
	menu.Add(LocMenuLink, NewNode("a", "All Items").Hidden()).OnClick(func() { s.visit("inventory.html") })
	menu.Add(LocMenuLink, NewNode("a", "About").Hidden())
	menu.Add(LocMenuLink, logout)
	menu.Add(LocMenuLink, NewNode("a", "Reset App State").Hidden()).OnClick(func() { s.cart = nil })
	menu.Add(LocLogout, logout)
	d.Add(LocLogout, logout)

	d.Add(LocMenuButton, Button("Open Menu")).OnClick(func() {
		menu.Show()
		for _, c := range menu.children {
			c.node.Show()
		}
	})

	if len(s.cart) > 0 {
		d.Add(LocCartBadge, NewNode("span", strconv.Itoa(len(s.cart))))
	}
	d.Add(LocCartLink, NewNode("a", "")).OnClick(func() { s.visit("cart.html") })
}

func (s *Shop) sorted() []Product {
	items := append([]Product(nil), s.products...)
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		switch {
		case s.sort == entities.SortZToA:
			return a.Name > b.Name
		case s.sort == entities.SortLowToHigh && a.Price != b.Price:
			return a.Price < b.Price
		case s.sort == entities.SortHighToLow && a.Price != b.Price:
			return a.Price > b.Price
		default:
			return a.Name < b.Name
		}
	})
	return items
}

func (s *Shop) renderInventory() {
	if !s.guard("inventory.html") {
		return
	}
	d := s.d
	s.renderHeader()

	var options []Option
	for _, o := range entities.SortOptions {
		options = append(options, Option{Text: o.Label(), Value: string(o)})
	}
	sel := d.Add(LocSortSelect, Select(options...))
	for i, o := range entities.SortOptions {
		if o == s.sort {
			sel.selected = i
		}
	}
	sel.OnSelect(func(opt Option) {
		s.sort = entities.SortOption(opt.Value)
		s.visit("inventory.html")
	})
	d.Add(LocActiveSort, NewNode("span", s.sort.Label()))

	for _, p := range s.sorted() {
		_, index, _ := s.product(p.Name)
		item := d.Add(LocItem, NewNode("div", p.Name+"\n"+price(p.Price)))
		item.Add(LocItemName, NewNode("div", p.Name)).OnClick(func() {
			s.visit("inventory-item.html?id=" + strconv.Itoa(index))
		})
		item.Add(LocItemPrice, NewNode("div", price(p.Price)))
		if s.inCart(p.Name) {
			item.Add(LocRemoveButton, Button("Remove")).OnClick(func() {
				s.removeFromCart(p.Name)
				s.visit("inventory.html")
			})
		} else {
			item.Add(LocAddButton, Button("Add to cart")).OnClick(func() {
				s.addToCart(p.Name)
				s.visit("inventory.html")
			})
		}
	}
}

func (s *Shop) renderProduct(rawURL string) {
	if !s.guard("inventory-item.html") {
		return
	}
	d := s.d
	s.renderHeader()

	index := -1
	if u, err := url.Parse(rawURL); err == nil {
		index, _ = strconv.Atoi(u.Query().Get("id"))
	}
	if index < 0 || index >= len(s.products) {
		d.Add(LocDetailName, NewNode("div", "ITEM NOT FOUND"))
		return
	}

	p := s.products[index]
	d.Add(LocDetailName, NewNode("div", p.Name))
	d.Add(LocDetailPrice, NewNode("div", price(p.Price)))
	if s.inCart(p.Name) {
		d.Add(LocDetailRemove, Button("Remove")).OnClick(func() {
			s.removeFromCart(p.Name)
			_ = s.d.Navigate(rawURL)
		})
	} else {
		d.Add(LocDetailAdd, Button("Add to cart")).OnClick(func() {
			s.addToCart(p.Name)
			_ = s.d.Navigate(rawURL)
		})
	}
	d.Add(LocBackHome, Button("Back to products")).OnClick(func() { s.visit("inventory.html") })
}

func (s *Shop) renderCart() {
	if !s.guard("cart.html") {
		return
	}
	d := s.d
	s.renderHeader()

	for _, name := range s.cart {
		p, _, _ := s.product(name)
		item := d.Add(LocCartItem, NewNode("div", name))
		item.Add(LocItemName, NewNode("div", name))
		item.Add(LocItemPrice, NewNode("div", price(p.Price)))
	}
	d.Add(LocContinueShop, Button("Continue Shopping")).OnClick(func() { s.visit("inventory.html") })
	d.Add(LocCheckout, Button("Checkout")).OnClick(func() { s.visit("checkout-step-one.html") })
}

func (s *Shop) renderInformation() {
	if !s.guard("checkout-step-one.html") {
		return
	}
	d := s.d
	s.renderHeader()

	first := d.Add(LocFirstName, Input(""))
	last := d.Add(LocLastName, Input(""))
	postal := d.Add(LocPostalCode, Input(""))
	d.Add(LocCancel, Button("Cancel")).OnClick(func() { s.visit("cart.html") })
	d.Add(LocContinue, NewNode("input", "")).OnClick(func() {
		var msg string
		switch {
		case first.value == "":
			msg = "Error: First Name is required"
		case last.value == "":
			msg = "Error: Last Name is required"
		case postal.value == "":
			msg = "Error: Postal Code is required"
		}
		if msg != "" {
			d.Remove(LocError)
			d.Add(LocError, NewNode("h3", msg))
			return
		}
		s.info = entities.CheckoutInfo{FirstName: first.value, LastName: last.value, PostalCode: postal.value}
		s.visit("checkout-step-two.html")
	})
}

func (s *Shop) renderOverview() {
	if !s.guard("checkout-step-two.html") {
		return
	}
	d := s.d
	s.renderHeader()

	var subtotal float64
	for _, name := range s.cart {
		p, _, _ := s.product(name)
		subtotal += p.Price
		item := d.Add(LocCartItem, NewNode("div", name))
		item.Add(LocItemName, NewNode("div", name))
	}
	tax := math.Round(subtotal*TaxRate*100) / 100

	d.Add(LocSubtotal, NewNode("div", "Item total: "+price(subtotal)))
	d.Add(LocTax, NewNode("div", "Tax: "+price(tax)))
	d.Add(LocTotal, NewNode("div", "Total: "+price(subtotal+tax)))
	d.Add(LocCancel, Button("Cancel")).OnClick(func() { s.visit("inventory.html") })
	d.Add(LocFinish, Button("Finish")).OnClick(func() {
		s.cart = nil
		s.visit("checkout-complete.html")
	})
}

func (s *Shop) renderComplete() {
	if !s.guard("checkout-complete.html") {
		return
	}
	d := s.d
	s.renderHeader()

	d.Add(LocComplete, NewNode("h2", MsgThankYou))
	d.Add(LocBackHome, Button("Back Home")).OnClick(func() { s.visit("inventory.html") })
}
