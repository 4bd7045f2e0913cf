package models

import "time"

// Money is an amount in whole rupees, the unit catalog prices are quoted in.
type Money = int64

type Cart struct {
	Id    int        `json:"id"`
	Items []LineItem `json:"items"`
}

type LineItem struct {
	Id         int    `json:"id" db:"item_id" validate:"required,gt=0"`
	Name       string `json:"name" db:"name" validate:"required"`
	Restaurant string `json:"restaurant,omitempty" db:"restaurant"`
	UnitPrice  Money  `json:"unit_price" db:"unit_price" validate:"gte=0"`
	Quantity   int    `json:"quantity" db:"quantity"`
}

type PricingBreakdown struct {
	Subtotal    Money `json:"subtotal"`
	DeliveryFee Money `json:"delivery_fee"`
	Tax         Money `json:"tax"`
	Total       Money `json:"total"`
}

type PricedCart struct {
	Cart      Cart             `json:"cart"`
	Breakdown PricingBreakdown `json:"breakdown"`
}

type GroupState string

const (
	GroupForming   GroupState = "forming"
	GroupActive    GroupState = "active"
	GroupSplitting GroupState = "splitting"
	GroupSettled   GroupState = "settled"
)

type RequestState string

const (
	RequestsIdle      RequestState = "idle"
	RequestsSending   RequestState = "sending"
	RequestsSent      RequestState = "sent"
	RequestsCancelled RequestState = "cancelled"
)

// RequestProgress tracks payment requests dispatched to group members.
type RequestProgress struct {
	State RequestState `json:"state"`
	Sent  int          `json:"sent"`
	Total int          `json:"total"`
}

type Member struct {
	Id          string     `json:"id" db:"id"`
	DisplayName string     `json:"display_name" db:"display_name"`
	IsHost      bool       `json:"is_host" db:"is_host"`
	Paid        bool       `json:"paid" db:"paid"`
	Items       []LineItem `json:"items"`
}

// Cart views the member's selections as a cart so the pricing rules apply to it.
func (m Member) Cart() Cart {
	return Cart{Items: m.Items}
}

type Group struct {
	Id        string          `json:"id" db:"id"`
	Code      string          `json:"code" db:"code"`
	Name      string          `json:"name" db:"name"`
	State     GroupState      `json:"state" db:"state"`
	Members   []Member        `json:"members"`
	Requests  RequestProgress `json:"requests"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// Host returns the hosting member. A well formed group always has one.
func (g Group) Host() (Member, bool) {
	for _, m := range g.Members {
		if m.IsHost {
			return m, true
		}
	}
	return Member{}, false
}
