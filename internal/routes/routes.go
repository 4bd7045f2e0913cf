package routes

import (
	"net/http"

	carthandler "smartswiggy/internal/handlers/cart"
	cataloghandler "smartswiggy/internal/handlers/catalog"
	grouphandler "smartswiggy/internal/handlers/group"
	slothandler "smartswiggy/internal/handlers/slot"
	"smartswiggy/pkg/lib/urlparser"
)

const param = urlparser.Wildcard

type Routes struct {
	cart    *carthandler.Handler
	group   *grouphandler.Handler
	catalog *cataloghandler.Handler
	slot    *slothandler.Handler
}

func New(
	cart *carthandler.Handler,
	group *grouphandler.Handler,
	catalog *cataloghandler.Handler,
	slot *slothandler.Handler,
) *Routes {
	return &Routes{
		cart:    cart,
		group:   group,
		catalog: catalog,
		slot:    slot,
	}
}

func (r *Routes) Register(mux *http.ServeMux) {
	mux.HandleFunc("/carts", r.carts)
	mux.HandleFunc("/carts/", r.carts)
	mux.HandleFunc("/groups", r.groups)
	mux.HandleFunc("/groups/", r.groups)
	mux.HandleFunc("/restaurants", r.restaurants)
	mux.HandleFunc("/restaurants/", r.restaurants)
	mux.HandleFunc("/slots", r.slots)
	mux.HandleFunc("/slots/", r.slots)
}

func (r *Routes) carts(w http.ResponseWriter, req *http.Request) {
	p := urlparser.Segments(req.URL.Path)

	switch {
	case urlparser.Match(p, "carts") && req.Method == http.MethodPost:
		// POST /carts
		r.cart.CreateCart(w, req)
	case urlparser.Match(p, "carts", param) && req.Method == http.MethodGet:
		// GET /carts/{cartId}
		r.cart.ViewCart(w, req, p[1])
	case urlparser.Match(p, "carts", param, "items") && req.Method == http.MethodPut:
		// PUT /carts/{cartId}/items
		r.cart.SetQuantity(w, req, p[1])
	case urlparser.Match(p, "carts", param, "items", param) && req.Method == http.MethodDelete:
		// DELETE /carts/{cartId}/items/{itemId}
		r.cart.RemoveFromCart(w, req, p[1], p[3])
	default:
		http.NotFound(w, req)
	}
}

func (r *Routes) groups(w http.ResponseWriter, req *http.Request) {
	p := urlparser.Segments(req.URL.Path)
	m := req.Method

	switch {
	case urlparser.Match(p, "groups") && m == http.MethodPost:
		r.group.CreateGroup(w, req)
	case urlparser.Match(p, "groups", "join") && m == http.MethodPost:
		r.group.JoinGroup(w, req)
	case urlparser.Match(p, "groups", param) && m == http.MethodGet:
		r.group.GetGroup(w, req, p[1])
	case urlparser.Match(p, "groups", param, "members") && m == http.MethodPost:
		r.group.AddMember(w, req, p[1])
	case urlparser.Match(p, "groups", param, "members", param) && m == http.MethodPatch:
		r.group.RenameMember(w, req, p[1], p[3])
	case urlparser.Match(p, "groups", param, "members", param) && m == http.MethodDelete:
		r.group.RemoveMember(w, req, p[1], p[3])
	case urlparser.Match(p, "groups", param, "members", param, "items") && m == http.MethodPut:
		r.group.SetMemberItem(w, req, p[1], p[3])
	case urlparser.Match(p, "groups", param, "members", param, "payment") && m == http.MethodPost:
		r.group.AcknowledgePayment(w, req, p[1], p[3])
	case urlparser.Match(p, "groups", param, "split") && m == http.MethodPost:
		r.group.BeginSplit(w, req, p[1])
	case urlparser.Match(p, "groups", param, "split") && m == http.MethodDelete:
		r.group.BackToActive(w, req, p[1])
	case urlparser.Match(p, "groups", param, "split", "compute") && m == http.MethodPost:
		r.group.ComputeSplit(w, req, p[1])
	case urlparser.Match(p, "groups", param, "payment-requests") && m == http.MethodPost:
		r.group.SendPaymentRequests(w, req, p[1])
	case urlparser.Match(p, "groups", param, "payment-requests") && m == http.MethodDelete:
		r.group.CancelPaymentRequests(w, req, p[1])
	default:
		http.NotFound(w, req)
	}
}

func (r *Routes) restaurants(w http.ResponseWriter, req *http.Request) {
	p := urlparser.Segments(req.URL.Path)

	switch {
	case urlparser.Match(p, "restaurants") && req.Method == http.MethodGet:
		r.catalog.ListRestaurants(w, req)
	case urlparser.Match(p, "restaurants", param) && req.Method == http.MethodGet:
		r.catalog.GetRestaurant(w, req, p[1])
	case urlparser.Match(p, "restaurants", param, "menu") && req.Method == http.MethodGet:
		r.catalog.GetMenu(w, req, p[1])
	default:
		http.NotFound(w, req)
	}
}

func (r *Routes) slots(w http.ResponseWriter, req *http.Request) {
	p := urlparser.Segments(req.URL.Path)
	m := req.Method

	switch {
	case urlparser.Match(p, "slots") && m == http.MethodGet:
		r.slot.ListSlots(w, req)
	case urlparser.Match(p, "slots") && m == http.MethodPost:
		r.slot.AddSlot(w, req)
	case urlparser.Match(p, "slots", param) && m == http.MethodDelete:
		r.slot.RemoveSlot(w, req, p[1])
	case urlparser.Match(p, "slots", param, "toggle") && m == http.MethodPost:
		r.slot.ToggleSlot(w, req, p[1])
	case urlparser.Match(p, "slots", param, "confirm") && m == http.MethodPost:
		r.slot.ConfirmSlot(w, req, p[1])
	default:
		http.NotFound(w, req)
	}
}
