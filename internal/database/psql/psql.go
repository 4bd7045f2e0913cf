package psql

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	databaseerrors "smartswiggy/internal/database"
	"smartswiggy/internal/models"
	"smartswiggy/pkg/lib/logger/sl"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

const uniqueViolation = "23505"

type Storage struct {
	log *slog.Logger
	db  *sqlx.DB
}

func New(log *slog.Logger, connStr string) (*Storage, error) {
	const op = "database.psql.New"
	log = log.With("op", op)

	db, err := sqlx.Connect("postgres", connStr)
	if err != nil {
		log.Error("Error connect to database", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := Migrate(db); err != nil {
		log.Error("Error applying migrations", sl.Err(err))
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		log: log,
		db:  db,
	}, nil
}

func NewWithParams(log *slog.Logger, db *sqlx.DB) *Storage {
	return &Storage{
		log: log,
		db:  db,
	}
}

// Migrate applies the embedded schema migrations.
func Migrate(db *sqlx.DB) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(db.DB, "migrations")
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) CreateCart(ctx context.Context) (models.Cart, error) {
	const op = "database.psql.CreateCart"
	log := s.log.With("op", op)

	select {
	case <-ctx.Done():
		log.Error("Context is over", sl.Err(ctx.Err()))
		return models.Cart{}, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var cartId int
	err := s.db.QueryRowxContext(ctx, `
		INSERT INTO cart
		DEFAULT VALUES
		RETURNING id;
	`).Scan(&cartId)
	if err != nil {
		log.Error("Error creating cart", sl.Err(err))
		return models.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	return models.Cart{Id: cartId, Items: []models.LineItem{}}, nil
}

// SaveItem inserts the line or overwrites the stored one with the same item id.
func (s *Storage) SaveItem(ctx context.Context, cartId int, item models.LineItem) error {
	const op = "database.psql.SaveItem"
	log := s.log.With("op", op, "cart_id", cartId, "item_id", item.Id)

	select {
	case <-ctx.Done():
		log.Error("Context is over", sl.Err(ctx.Err()))
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		log.Error("Failed to begin transaction", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback()

	if err := cartExists(ctx, tx, cartId); err != nil {
		if !errors.Is(err, databaseerrors.ErrNotFound) {
			log.Error("Error checking cart existence", sl.Err(err))
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO cart_item (cart_id, item_id, name, restaurant, unit_price, quantity)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (cart_id, item_id) DO UPDATE
		SET name = EXCLUDED.name,
			restaurant = EXCLUDED.restaurant,
			unit_price = EXCLUDED.unit_price,
			quantity = EXCLUDED.quantity;
	`, cartId, item.Id, item.Name, item.Restaurant, item.UnitPrice, item.Quantity); err != nil {
		log.Error("Failed to upsert cart item", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		log.Error("Failed to commit transaction", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// RemoveFromCart fails only when the cart is missing; an absent item is a no-op.
func (s *Storage) RemoveFromCart(ctx context.Context, cartId int, itemId int) error {
	const op = "database.psql.RemoveFromCart"
	log := s.log.With("op", op, "cart_id", cartId, "item_id", itemId)

	select {
	case <-ctx.Done():
		log.Error("Context is over", sl.Err(ctx.Err()))
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		log.Error("Failed to begin transaction", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback()

	if err := cartExists(ctx, tx, cartId); err != nil {
		if !errors.Is(err, databaseerrors.ErrNotFound) {
			log.Error("Error checking cart existence", sl.Err(err))
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM cart_item
		WHERE cart_id=$1 AND item_id=$2;
	`, cartId, itemId); err != nil {
		log.Error("Failed to delete cart item", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		log.Error("Failed to commit transaction", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) ViewCart(ctx context.Context, cartId int) (models.Cart, error) {
	const op = "database.psql.ViewCart"
	log := s.log.With("op", op, "cart_id", cartId)

	select {
	case <-ctx.Done():
		log.Error("Context is over", sl.Err(ctx.Err()))
		return models.Cart{}, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if err := cartExists(ctx, s.db, cartId); err != nil {
		if !errors.Is(err, databaseerrors.ErrNotFound) {
			log.Error("Error checking cart existence", sl.Err(err))
		}
		return models.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	items := make([]models.LineItem, 0, 8)
	if err := s.db.SelectContext(ctx, &items, `
		SELECT item_id, name, restaurant, unit_price, quantity FROM cart_item
		WHERE cart_id=$1
		ORDER BY item_id;
	`, cartId); err != nil {
		log.Error("Failed to select cart items", sl.Err(err))
		return models.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	return models.Cart{
		Id:    cartId,
		Items: items,
	}, nil
}

func cartExists(ctx context.Context, q sqlx.QueryerContext, cartId int) error {
	var id int
	if err := q.QueryRowxContext(ctx, `
		SELECT id FROM cart
		WHERE id=$1;
	`, cartId).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return databaseerrors.ErrNotFound
		}
		return err
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
