package catalog

import (
	"errors"
	"fmt"
	"slices"

	"smartswiggy/internal/models"
)

var ErrMenuItemNotFound = errors.New("menu item not found")

type MenuItem struct {
	Id      int          `json:"id"`
	Name    string       `json:"name"`
	Section string       `json:"section"`
	Price   models.Money `json:"price"`
	Veg     bool         `json:"veg"`
}

// WithMenu sets the menu every restaurant serves.
func (c *Catalog) WithMenu(items []MenuItem) *Catalog {
	c.menu = slices.Clone(items)
	return c
}

func (c *Catalog) Menu() []MenuItem {
	return slices.Clone(c.menu)
}

func (c *Catalog) MenuItem(id int) (MenuItem, error) {
	i := slices.IndexFunc(c.menu, func(m MenuItem) bool { return m.Id == id })
	if i < 0 {
		return MenuItem{}, fmt.Errorf("%w: %d", ErrMenuItemNotFound, id)
	}
	return c.menu[i], nil
}

// Resolve fills the line's name and unit price from the menu. Client supplied
// prices are never trusted.
func (c *Catalog) Resolve(line models.LineItem) (models.LineItem, error) {
	item, err := c.MenuItem(line.Id)
	if err != nil {
		return line, err
	}
	line.Name = item.Name
	line.UnitPrice = item.Price
	return line, nil
}
