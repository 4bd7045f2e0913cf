package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"smartswiggy/internal/models"
)

var (
	ErrUnknownCategory    = errors.New("unknown category")
	ErrUnknownCuisine     = errors.New("unknown cuisine")
	ErrRestaurantNotFound = errors.New("restaurant not found")
)

type Cuisine string

const (
	CuisineNorthIndian Cuisine = "north indian"
	CuisineBiryani     Cuisine = "biryani"
	CuisineMughlai     Cuisine = "mughlai"
	CuisineItalian     Cuisine = "italian"
	CuisinePizza       Cuisine = "pizza"
	CuisinePasta       Cuisine = "pasta"
	CuisineAmerican    Cuisine = "american"
	CuisineBurgers     Cuisine = "burgers"
	CuisineFastFood    Cuisine = "fast food"
	CuisineCafe        Cuisine = "cafe"
	CuisineCoffee      Cuisine = "coffee"
	CuisineSnacks      Cuisine = "snacks"
	CuisineIndian      Cuisine = "indian"
	CuisineThali       Cuisine = "thali"
	CuisineHomeFood    Cuisine = "home food"
	CuisineChinese     Cuisine = "chinese"
	CuisineAsian       Cuisine = "asian"
	CuisineNoodles     Cuisine = "noodles"
	CuisineDesserts    Cuisine = "desserts"
)

var cuisines = []Cuisine{
	CuisineNorthIndian, CuisineBiryani, CuisineMughlai, CuisineItalian, CuisinePizza,
	CuisinePasta, CuisineAmerican, CuisineBurgers, CuisineFastFood, CuisineCafe,
	CuisineCoffee, CuisineSnacks, CuisineIndian, CuisineThali, CuisineHomeFood,
	CuisineChinese, CuisineAsian, CuisineNoodles, CuisineDesserts,
}

func ParseCuisine(s string) (Cuisine, error) {
	c := Cuisine(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(cuisines, c) {
		return "", fmt.Errorf("%w: %q", ErrUnknownCuisine, s)
	}
	return c, nil
}

type Category string

const (
	CategoryPizza     Category = "pizza"
	CategoryBurgers   Category = "burgers"
	CategoryBiryani   Category = "biryani"
	CategoryChinese   Category = "chinese"
	CategoryBeverages Category = "beverages"
	CategoryDesserts  Category = "desserts"
)

// categoryCuisines lists the cuisine tags that place a restaurant in a category.
var categoryCuisines = map[Category][]Cuisine{
	CategoryPizza:     {CuisinePizza, CuisineItalian},
	CategoryBurgers:   {CuisineBurgers, CuisineFastFood},
	CategoryBiryani:   {CuisineBiryani},
	CategoryChinese:   {CuisineChinese, CuisineAsian},
	CategoryBeverages: {CuisineCafe, CuisineCoffee},
	CategoryDesserts:  {CuisineDesserts},
}

func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := categoryCuisines[c]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}

func (c Category) Matches(r Restaurant) bool {
	return r.HasAnyCuisine(categoryCuisines[c])
}

type MinutesRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

type Restaurant struct {
	Id              int          `json:"id"`
	Name            string       `json:"name"`
	Cuisines        []Cuisine    `json:"cuisines"`
	Rating          float64      `json:"rating"`
	DeliveryMinutes MinutesRange `json:"delivery_minutes"`
	CostForTwo      models.Money `json:"cost_for_two"`
	Offer           string       `json:"offer,omitempty"`
	DistanceKm      float64      `json:"distance_km"`
}

func (r Restaurant) HasAnyCuisine(want []Cuisine) bool {
	return slices.ContainsFunc(r.Cuisines, func(c Cuisine) bool { return slices.Contains(want, c) })
}

// Filter zero values mean "no constraint".
type Filter struct {
	Category           Category
	MinRating          float64
	Cuisines           []Cuisine
	OffersOnly         bool
	MaxDeliveryMinutes int
}

func (f Filter) Match(r Restaurant) bool {
	if f.Category != "" && !f.Category.Matches(r) {
		return false
	}
	if f.MinRating > 0 && r.Rating < f.MinRating {
		return false
	}
	if len(f.Cuisines) > 0 && !r.HasAnyCuisine(f.Cuisines) {
		return false
	}
	if f.OffersOnly && r.Offer == "" {
		return false
	}
	if f.MaxDeliveryMinutes > 0 && r.DeliveryMinutes.Max > f.MaxDeliveryMinutes {
		return false
	}
	return true
}

type Catalog struct {
	restaurants []Restaurant
	menu        []MenuItem
}

func New(restaurants []Restaurant) *Catalog {
	return &Catalog{restaurants: slices.Clone(restaurants)}
}

// List returns the matching restaurants in catalog order.
func (c *Catalog) List(f Filter) []Restaurant {
	out := make([]Restaurant, 0, len(c.restaurants))
	for _, r := range c.restaurants {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

func (c *Catalog) Restaurant(id int) (Restaurant, error) {
	i := slices.IndexFunc(c.restaurants, func(r Restaurant) bool { return r.Id == id })
	if i < 0 {
		return Restaurant{}, ErrRestaurantNotFound
	}
	return c.restaurants[i], nil
}
