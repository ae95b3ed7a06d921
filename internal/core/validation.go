package core

// validation.go provides field-level validation for order and product input
// before an aggregate is constructed.
//
// Validators never return an error and never stop at the first problem: every
// applicable rule is checked in a fixed order and all messages are collected,
// so a form can show the complete list at once. The message strings are part
// of the API and are rendered verbatim by the UI.

import (
	"regexp"
	"strings"
)

// Validation messages. Keep the wording stable.
const (
	MsgCustomerNameRequired    = "Customer name is required"
	MsgInvalidPhone            = "Invalid phone number format"
	MsgInvalidPCCC             = "Invalid PCCC format"
	MsgItemsRequired           = "At least one item is required"
	MsgItemQuantityPositive    = "Item quantity must be greater than 0"
	MsgShippingAddressRequired = "Shipping address is required"
	MsgItemPriceNegative       = "Item price cannot be negative"

	MsgCategoryRequired = "Category is required"
	MsgCostPositive     = "Cost must be greater than 0"
	MsgStockNegative    = "Stock cannot be negative"
)

var (
	// Mobile (010, 011, 016-019) or landline (02, 031-064, 070) numbers,
	// dashes optional.
	phoneRegex = regexp.MustCompile(`^(01[016789]-?\d{3,4}-?\d{4}|02-?\d{3,4}-?\d{4}|0[3-6][1-5]-?\d{3,4}-?\d{4}|070-?\d{3,4}-?\d{4})$`)

	// Personal customs clearance code: P followed by 12 digits.
	pcccRegex = regexp.MustCompile(`^P\d{12}$`)
)

// ValidationResult is the outcome of validating one input.
type ValidationResult struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

func (r *ValidationResult) add(msg string) {
	r.IsValid = false
	r.Errors = append(r.Errors, msg)
}

// OrderItemInput is one requested order line.
type OrderItemInput struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// OrderInput is the raw data needed to create an order.
type OrderInput struct {
	CustomerName    string           `json:"customerName"`
	CustomerPhone   string           `json:"customerPhone"`
	PCCC            string           `json:"pccc"`
	ShippingAddress string           `json:"shippingAddress"`
	Items           []OrderItemInput `json:"items"`
}

// ProductInput is the raw data needed to create a product.
type ProductInput struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Model    string  `json:"model"`
	Color    string  `json:"color"`
	Brand    string  `json:"brand"`
	CostCNY  float64 `json:"costCNY"`
	OnHand   int     `json:"onHand"`
}

// ValidateOrder checks order input and returns every violation found.
func ValidateOrder(in OrderInput) ValidationResult {
	res := ValidationResult{IsValid: true, Errors: []string{}}

	if strings.TrimSpace(in.CustomerName) == "" {
		res.add(MsgCustomerNameRequired)
	}
	if !phoneRegex.MatchString(strings.TrimSpace(in.CustomerPhone)) {
		res.add(MsgInvalidPhone)
	}
	if !pcccRegex.MatchString(strings.TrimSpace(in.PCCC)) {
		res.add(MsgInvalidPCCC)
	}
	if len(in.Items) == 0 {
		res.add(MsgItemsRequired)
	}
	for _, it := range in.Items {
		if it.Quantity <= 0 {
			res.add(MsgItemQuantityPositive)
			break
		}
	}
	if strings.TrimSpace(in.ShippingAddress) == "" {
		res.add(MsgShippingAddressRequired)
	}
	for _, it := range in.Items {
		if it.Price < 0 {
			res.add(MsgItemPriceNegative)
			break
		}
	}

	return res
}

// ValidateProduct checks product input and returns every violation found.
func ValidateProduct(in ProductInput) ValidationResult {
	res := ValidationResult{IsValid: true, Errors: []string{}}

	if strings.TrimSpace(in.Category) == "" {
		res.add(MsgCategoryRequired)
	}
	if !(in.CostCNY > 0) {
		res.add(MsgCostPositive)
	}
	if in.OnHand < 0 {
		res.add(MsgStockNegative)
	}

	return res
}

// ValidatePhone reports whether s looks like a Korean mobile or landline number.
func ValidatePhone(s string) bool {
	return phoneRegex.MatchString(strings.TrimSpace(s))
}
