package cataloghandler

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"smartswiggy/internal/catalog"
	"smartswiggy/internal/handlers/respond"
)

type Catalog interface {
	List(f catalog.Filter) []catalog.Restaurant
	Restaurant(id int) (catalog.Restaurant, error)
	Menu() []catalog.MenuItem
}

type menuResponse struct {
	Restaurant catalog.Restaurant `json:"restaurant"`
	Items      []catalog.MenuItem `json:"items"`
}

type Handler struct {
	log     *slog.Logger
	catalog Catalog
}

func New(log *slog.Logger, c Catalog) *Handler {
	return &Handler{
		log:     log,
		catalog: c,
	}
}

// GET /restaurants?category=&min_rating=&cuisine=&offers=&max_delivery=
func (h *Handler) ListRestaurants(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.ListRestaurants"
	log := h.log.With("op", op)

	f, err := parseFilter(r.URL.Query())
	if err != nil {
		respond.Error(w, log, err)
		return
	}

	respond.JSON(w, log, http.StatusOK, h.catalog.List(f))
}

// GET /restaurants/{restaurantId}
func (h *Handler) GetRestaurant(w http.ResponseWriter, r *http.Request, srestaurantId string) {
	const op = "handlers.catalog.GetRestaurant"
	log := h.log.With("op", op)

	id, err := strconv.Atoi(srestaurantId)
	if err != nil {
		respond.Error(w, log, fmt.Errorf("%w: restaurantId must be int", respond.ErrBadRequest))
		return
	}

	rest, err := h.catalog.Restaurant(id)
	if err != nil {
		respond.Error(w, log, err)
		return
	}

	respond.JSON(w, log, http.StatusOK, rest)
}

// GET /restaurants/{restaurantId}/menu
func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request, srestaurantId string) {
	const op = "handlers.catalog.GetMenu"
	log := h.log.With("op", op)

	id, err := strconv.Atoi(srestaurantId)
	if err != nil {
		respond.Error(w, log, fmt.Errorf("%w: restaurantId must be int", respond.ErrBadRequest))
		return
	}

	rest, err := h.catalog.Restaurant(id)
	if err != nil {
		respond.Error(w, log, err)
		return
	}

	respond.JSON(w, log, http.StatusOK, menuResponse{Restaurant: rest, Items: h.catalog.Menu()})
}

// parseFilter reads filter values from the query. cuisine may repeat or be
// comma separated.
func parseFilter(q url.Values) (catalog.Filter, error) {
	var f catalog.Filter

	if s := q.Get("category"); s != "" {
		c, err := catalog.ParseCategory(s)
		if err != nil {
			return f, err
		}
		f.Category = c
	}

	if s := q.Get("min_rating"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v < 0 || v > 5 {
			return f, fmt.Errorf("%w: min_rating must be within [0, 5]", respond.ErrBadRequest)
		}
		f.MinRating = v
	}

	for _, raw := range q["cuisine"] {
		for _, s := range strings.Split(raw, ",") {
			if strings.TrimSpace(s) == "" {
				continue
			}
			c, err := catalog.ParseCuisine(s)
			if err != nil {
				return f, err
			}
			f.Cuisines = append(f.Cuisines, c)
		}
	}

	if s := q.Get("offers"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return f, fmt.Errorf("%w: offers must be a boolean", respond.ErrBadRequest)
		}
		f.OffersOnly = v
	}

	if s := q.Get("max_delivery"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			return f, fmt.Errorf("%w: max_delivery must be a non-negative int", respond.ErrBadRequest)
		}
		f.MaxDeliveryMinutes = v
	}

	return f, nil
}
