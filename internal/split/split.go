// Package split divides a group order's grand total between its members.
//
// Amounts are computed in paise so that equal shares never get rounded per
// member; the last member in roster order absorbs the remainder and the
// payables always add back up to the grand total.
package split

import (
	"errors"
	"fmt"
	"strings"

	"smartswiggy/internal/models"
	"smartswiggy/internal/pricing"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidGroupState = errors.New("invalid group state")
	ErrInvalidPolicy     = errors.New("invalid split policy")
)

type Policy string

const (
	PolicyEqual  Policy = "equal"
	PolicyByItem Policy = "byitem"
	PolicyCustom Policy = "custom"
)

const paisePerRupee = 100

func ParsePolicy(s string) (Policy, error) {
	p := Policy(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case PolicyEqual, PolicyByItem, PolicyCustom:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPolicy, s)
}

type Payable struct {
	MemberId string          `json:"member_id"`
	Payable  decimal.Decimal `json:"payable"`
}

type Result struct {
	Policy        Policy       `json:"policy"`
	GroupSubtotal models.Money `json:"group_subtotal"`
	DeliveryFee   models.Money `json:"delivery_fee"`
	GroupTax      models.Money `json:"group_tax"`
	GrandTotal    models.Money `json:"grand_total"`
	Payables      []Payable    `json:"payables"`
	// Unallocated is grand total minus the sum of payables. Only custom
	// splits can leave it non-zero.
	Unallocated decimal.Decimal `json:"unallocated"`
}

// Compute returns one payable per member, in roster order.
// Overrides are only consulted by the custom policy.
func Compute(
	members []models.Member,
	deliveryFee models.Money,
	rate decimal.Decimal,
	policy Policy,
	overrides map[string]decimal.Decimal,
) (Result, error) {
	switch policy {
	case PolicyEqual, PolicyByItem, PolicyCustom:
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrInvalidPolicy, policy)
	}

	if len(members) == 0 {
		return Result{}, fmt.Errorf("%w: group has no members", ErrInvalidGroupState)
	}

	subtotals := make([]models.Money, len(members))
	var groupSubtotal models.Money
	for i, m := range members {
		subtotals[i] = pricing.Subtotal(m.Items)
		groupSubtotal += subtotals[i]
	}

	tax := pricing.Tax(groupSubtotal, rate)
	grand := groupSubtotal + deliveryFee + tax

	res := Result{
		Policy:        policy,
		GroupSubtotal: groupSubtotal,
		DeliveryFee:   deliveryFee,
		GroupTax:      tax,
		GrandTotal:    grand,
	}

	var paise []int64
	switch policy {
	case PolicyEqual, PolicyCustom:
		paise = equalShares(grand*paisePerRupee, len(members))
	case PolicyByItem:
		paise = byItemShares(subtotals, (deliveryFee+tax)*paisePerRupee)
	}

	res.Payables = make([]Payable, len(members))
	for i, m := range members {
		res.Payables[i] = Payable{MemberId: m.Id, Payable: decimal.New(paise[i], -2)}
	}

	if policy == PolicyCustom {
		if err := applyOverrides(res.Payables, overrides); err != nil {
			return Result{}, err
		}
	}

	allocated := decimal.Zero
	for _, p := range res.Payables {
		allocated = allocated.Add(p.Payable)
	}
	res.Unallocated = decimal.NewFromInt(grand).Sub(allocated)

	return res, nil
}

func equalShares(total int64, n int) []int64 {
	share := roundedShare(total, n)
	out := make([]int64, n)
	for i := range out {
		out[i] = share
	}
	out[n-1] = total - share*int64(n-1)
	return out
}

func byItemShares(subtotals []models.Money, shared int64) []int64 {
	n := len(subtotals)
	each := roundedShare(shared, n)
	out := make([]int64, n)
	for i, s := range subtotals {
		out[i] = s*paisePerRupee + each
	}
	out[n-1] += shared - each*int64(n)
	return out
}

// roundedShare is total/n rounded half up, or truncated when rounding up
// would leave the last member a negative remainder.
func roundedShare(total int64, n int) int64 {
	share := (2*total + int64(n)) / (2 * int64(n))
	if share*int64(n-1) > total {
		share = total / int64(n)
	}
	return share
}

func applyOverrides(payables []Payable, overrides map[string]decimal.Decimal) error {
	idx := make(map[string]int, len(payables))
	for i, p := range payables {
		idx[p.MemberId] = i
	}

	for memberId, amount := range overrides {
		i, ok := idx[memberId]
		if !ok {
			return fmt.Errorf("%w: override for unknown member %q", ErrInvalidGroupState, memberId)
		}
		if amount.IsNegative() {
			return fmt.Errorf("%w: negative override for member %q", ErrInvalidGroupState, memberId)
		}
		payables[i].Payable = amount.Round(2)
	}

	return nil
}
