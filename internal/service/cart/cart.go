package cartservice

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"smartswiggy/internal/models"
	"smartswiggy/internal/pricing"
	serviceerrors "smartswiggy/internal/service"
	"smartswiggy/pkg/lib/logger/sl"
)

type CartStorage interface {
	CreateCart(ctx context.Context) (models.Cart, error)
	SaveItem(ctx context.Context, cartId int, item models.LineItem) error
	RemoveFromCart(ctx context.Context, cartId int, itemId int) error
	ViewCart(ctx context.Context, cartId int) (models.Cart, error)
}

type Metrics interface {
	CartPriced()
}

// Menu prices a line from the catalog.
type Menu interface {
	Resolve(line models.LineItem) (models.LineItem, error)
}

type CartApiService struct {
	log     *slog.Logger
	storage CartStorage
	rules   pricing.Rules
	metrics Metrics
	menu    Menu

	// mu serializes read-modify-write cycles on stored carts.
	mu sync.Mutex
}

// New builds the cart service. metrics may be nil.
func New(log *slog.Logger, storage CartStorage, rules pricing.Rules, metrics Metrics) *CartApiService {
	return &CartApiService{
		log:     log,
		storage: storage,
		rules:   rules,
		metrics: metrics,
	}
}

// WithMenu makes SetQuantity take names and prices from menu instead of the
// request.
func (c *CartApiService) WithMenu(menu Menu) *CartApiService {
	c.menu = menu
	return c
}

func (c *CartApiService) CreateCart(ctx context.Context) (models.PricedCart, error) {
	const op = "service.cart.CreateCart"
	log := c.log.With("op", op)

	select {
	case <-ctx.Done():
		log.Warn("Context is over", sl.Err(ctx.Err()))
		return models.PricedCart{}, fmt.Errorf("%s: %w", op, serviceerrors.Translate(ctx.Err()))
	default:
	}

	cart, err := c.storage.CreateCart(ctx)
	if err != nil {
		return models.PricedCart{}, fail(log, op, "Failed to create a cart", err)
	}

	log.Debug("Cart created", slog.Int("cart_id", cart.Id))
	return c.price(cart), nil
}

// SetQuantity sets the line's quantity in the cart, adding the line if it is
// new. A zero quantity removes the line.
func (c *CartApiService) SetQuantity(ctx context.Context, cartId int, line models.LineItem) (models.PricedCart, error) {
	const op = "service.cart.SetQuantity"
	log := c.log.With("op", op, "cart_id", cartId, "item_id", line.Id)

	select {
	case <-ctx.Done():
		log.Warn("Context is over", sl.Err(ctx.Err()))
		return models.PricedCart{}, fmt.Errorf("%s: %w", op, serviceerrors.Translate(ctx.Err()))
	default:
	}

	if line.Quantity < 0 {
		log.Warn("Negative quantity", slog.Int("quantity", line.Quantity))
		return models.PricedCart{}, fmt.Errorf("%s: %w", op, pricing.ErrInvalidQuantity)
	}

	if c.menu != nil && line.Quantity > 0 {
		resolved, err := c.menu.Resolve(line)
		if err != nil {
			log.Warn("Item is not on the menu", sl.Err(err))
			return models.PricedCart{}, fmt.Errorf("%s: %w", op, err)
		}
		line = resolved
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	cart, err := c.storage.ViewCart(ctx, cartId)
	if err != nil {
		return models.PricedCart{}, fail(log, op, "Failed to load cart", err)
	}

	next := pricing.SetQuantity(cart, line)

	if pricing.Contains(next, line.Id) {
		err = c.storage.SaveItem(ctx, cartId, line)
	} else {
		err = c.storage.RemoveFromCart(ctx, cartId, line.Id)
	}
	if err != nil {
		return models.PricedCart{}, fail(log, op, "Failed to store item", err)
	}

	return c.price(next), nil
}

func (c *CartApiService) RemoveFromCart(ctx context.Context, cartId int, itemId int) error {
	const op = "service.cart.RemoveFromCart"
	log := c.log.With("op", op, "cart_id", cartId, "item_id", itemId)

	select {
	case <-ctx.Done():
		log.Warn("Context is over", sl.Err(ctx.Err()))
		return fmt.Errorf("%s: %w", op, serviceerrors.Translate(ctx.Err()))
	default:
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.storage.RemoveFromCart(ctx, cartId, itemId); err != nil {
		return fail(log, op, "Failed to remove item from cart", err)
	}

	return nil
}

func (c *CartApiService) ViewCart(ctx context.Context, cartId int) (models.PricedCart, error) {
	const op = "service.cart.ViewCart"
	log := c.log.With("op", op, "cart_id", cartId)

	select {
	case <-ctx.Done():
		log.Warn("Context is over", sl.Err(ctx.Err()))
		return models.PricedCart{}, fmt.Errorf("%s: %w", op, serviceerrors.Translate(ctx.Err()))
	default:
	}

	cart, err := c.storage.ViewCart(ctx, cartId)
	if err != nil {
		return models.PricedCart{}, fail(log, op, "Failed to get items from cart", err)
	}

	return c.price(cart), nil
}

func (c *CartApiService) price(cart models.Cart) models.PricedCart {
	if cart.Items == nil {
		cart.Items = []models.LineItem{}
	}
	if c.metrics != nil {
		c.metrics.CartPriced()
	}
	return models.PricedCart{Cart: cart, Breakdown: c.rules.Breakdown(cart)}
}

func fail(log *slog.Logger, op, msg string, err error) error {
	if serviceerrors.Expected(err) {
		log.Warn(msg, sl.Err(err))
	} else {
		log.Error(msg, sl.Err(err))
	}
	return fmt.Errorf("%s: %w", op, serviceerrors.Translate(err))
}
