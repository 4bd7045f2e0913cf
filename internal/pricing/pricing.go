package pricing

import (
	"errors"
	"slices"

	"smartswiggy/internal/models"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrInvalidTaxRate  = errors.New("tax rate must be within [0, 1)")
)

// DefaultTaxRate is the GST applied on food orders.
var DefaultTaxRate = decimal.RequireFromString("0.05")

const DefaultDeliveryFee models.Money = 40

// Subtotal sums unit price times quantity over the items that are present.
func Subtotal(items []models.LineItem) models.Money {
	var subtotal models.Money
	for _, it := range items {
		if it.Quantity <= 0 {
			continue
		}
		subtotal += it.UnitPrice * models.Money(it.Quantity)
	}
	return subtotal
}

// Tax rounds subtotal*rate half up to a whole unit.
func Tax(subtotal models.Money, rate decimal.Decimal) models.Money {
	return decimal.NewFromInt(subtotal).Mul(rate).Round(0).IntPart()
}

func ValidateRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return ErrInvalidTaxRate
	}
	return nil
}

// ComputeBreakdown prices a cart. An empty cart still carries the delivery fee.
func ComputeBreakdown(cart models.Cart, deliveryFee models.Money, rate decimal.Decimal) models.PricingBreakdown {
	subtotal := Subtotal(cart.Items)
	tax := Tax(subtotal, rate)

	return models.PricingBreakdown{
		Subtotal:    subtotal,
		DeliveryFee: deliveryFee,
		Tax:         tax,
		Total:       subtotal + deliveryFee + tax,
	}
}

// SetQuantity upserts line into the cart, or drops line.Id when the quantity is
// zero or below. The argument cart is left untouched.
func SetQuantity(cart models.Cart, line models.LineItem) models.Cart {
	if line.Quantity <= 0 {
		return RemoveItem(cart, line.Id)
	}

	items := slices.Clone(cart.Items)
	idx := slices.IndexFunc(items, func(it models.LineItem) bool { return it.Id == line.Id })
	if idx >= 0 {
		items[idx] = line
	} else {
		items = append(items, line)
	}

	return models.Cart{Id: cart.Id, Items: items}
}

// RemoveItem drops itemId from the cart. Removing an absent item is a no-op.
func RemoveItem(cart models.Cart, itemId int) models.Cart {
	items := make([]models.LineItem, 0, len(cart.Items))
	for _, it := range cart.Items {
		if it.Id != itemId {
			items = append(items, it)
		}
	}
	return models.Cart{Id: cart.Id, Items: items}
}

func Contains(cart models.Cart, itemId int) bool {
	return slices.ContainsFunc(cart.Items, func(it models.LineItem) bool { return it.Id == itemId })
}

// Rules are the fee and tax settings every cart is priced with.
type Rules struct {
	DeliveryFee models.Money
	TaxRate     decimal.Decimal
}

func DefaultRules() Rules {
	return Rules{DeliveryFee: DefaultDeliveryFee, TaxRate: DefaultTaxRate}
}

func (r Rules) Breakdown(cart models.Cart) models.PricingBreakdown {
	return ComputeBreakdown(cart, r.DeliveryFee, r.TaxRate)
}
