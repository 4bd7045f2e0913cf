// Package memory keeps carts and groups in process memory.
package memory

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	databaseerrors "smartswiggy/internal/database"
	"smartswiggy/internal/models"
	"smartswiggy/pkg/lib/logger/sl"
)

type Storage struct {
	log *slog.Logger

	mu         sync.RWMutex
	carts      map[int]models.Cart
	lastCartId int
	groups     map[string]models.Group
	codes      map[string]string
}

func New(log *slog.Logger) *Storage {
	return &Storage{
		log:    log,
		carts:  make(map[int]models.Cart),
		groups: make(map[string]models.Group),
		codes:  make(map[string]string),
	}
}

func (s *Storage) Close() error {
	return nil
}

func (s *Storage) CreateCart(ctx context.Context) (models.Cart, error) {
	const op = "database.memory.CreateCart"

	if err := ctx.Err(); err != nil {
		s.log.With("op", op).Error("Context is over", sl.Err(err))
		return models.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastCartId++
	cart := models.Cart{Id: s.lastCartId, Items: []models.LineItem{}}
	s.carts[cart.Id] = cart

	return cloneCart(cart), nil
}

func (s *Storage) SaveItem(ctx context.Context, cartId int, item models.LineItem) error {
	const op = "database.memory.SaveItem"

	if err := ctx.Err(); err != nil {
		s.log.With("op", op).Error("Context is over", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[cartId]
	if !ok {
		return fmt.Errorf("%s: %w", op, databaseerrors.ErrNotFound)
	}

	items := slices.Clone(cart.Items)
	i := slices.IndexFunc(items, func(it models.LineItem) bool { return it.Id == item.Id })
	if i >= 0 {
		items[i] = item
	} else {
		items = append(items, item)
	}
	cart.Items = items
	s.carts[cartId] = cart

	return nil
}

// RemoveFromCart fails only when the cart is missing; an absent item is a no-op.
func (s *Storage) RemoveFromCart(ctx context.Context, cartId int, itemId int) error {
	const op = "database.memory.RemoveFromCart"

	if err := ctx.Err(); err != nil {
		s.log.With("op", op).Error("Context is over", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[cartId]
	if !ok {
		return fmt.Errorf("%s: %w", op, databaseerrors.ErrNotFound)
	}

	cart.Items = slices.DeleteFunc(slices.Clone(cart.Items), func(it models.LineItem) bool { return it.Id == itemId })
	s.carts[cartId] = cart

	return nil
}

func (s *Storage) ViewCart(ctx context.Context, cartId int) (models.Cart, error) {
	const op = "database.memory.ViewCart"

	if err := ctx.Err(); err != nil {
		s.log.With("op", op).Error("Context is over", sl.Err(err))
		return models.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	cart, ok := s.carts[cartId]
	if !ok {
		return models.Cart{}, fmt.Errorf("%s: %w", op, databaseerrors.ErrNotFound)
	}

	return cloneCart(cart), nil
}

func (s *Storage) CreateGroup(ctx context.Context, g models.Group) error {
	const op = "database.memory.CreateGroup"

	if err := ctx.Err(); err != nil {
		s.log.With("op", op).Error("Context is over", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[g.Id]; ok {
		return fmt.Errorf("%s: group %s: %w", op, g.Id, databaseerrors.ErrConflict)
	}
	if _, ok := s.codes[g.Code]; ok {
		return fmt.Errorf("%s: code %s: %w", op, g.Code, databaseerrors.ErrConflict)
	}

	s.groups[g.Id] = cloneGroup(g)
	s.codes[g.Code] = g.Id

	return nil
}

func (s *Storage) GetGroup(ctx context.Context, id string) (models.Group, error) {
	const op = "database.memory.GetGroup"

	if err := ctx.Err(); err != nil {
		s.log.With("op", op).Error("Context is over", sl.Err(err))
		return models.Group{}, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.groups[id]
	if !ok {
		return models.Group{}, fmt.Errorf("%s: %w", op, databaseerrors.ErrNotFound)
	}

	return cloneGroup(g), nil
}

func (s *Storage) GetGroupByCode(ctx context.Context, code string) (models.Group, error) {
	const op = "database.memory.GetGroupByCode"

	if err := ctx.Err(); err != nil {
		s.log.With("op", op).Error("Context is over", sl.Err(err))
		return models.Group{}, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.codes[code]
	if !ok {
		return models.Group{}, fmt.Errorf("%s: %w", op, databaseerrors.ErrNotFound)
	}

	return cloneGroup(s.groups[id]), nil
}

func (s *Storage) SaveGroup(ctx context.Context, g models.Group) error {
	const op = "database.memory.SaveGroup"

	if err := ctx.Err(); err != nil {
		s.log.With("op", op).Error("Context is over", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.groups[g.Id]
	if !ok {
		return fmt.Errorf("%s: %w", op, databaseerrors.ErrNotFound)
	}

	// the join code is fixed at creation
	g.Code = existing.Code
	s.groups[g.Id] = cloneGroup(g)

	return nil
}

func cloneCart(c models.Cart) models.Cart {
	c.Items = slices.Clone(c.Items)
	if c.Items == nil {
		c.Items = []models.LineItem{}
	}
	return c
}

func cloneGroup(g models.Group) models.Group {
	members := make([]models.Member, len(g.Members))
	for i, m := range g.Members {
		m.Items = slices.Clone(m.Items)
		if m.Items == nil {
			m.Items = []models.LineItem{}
		}
		members[i] = m
	}
	g.Members = members
	return g
}
