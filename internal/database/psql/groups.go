package psql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	databaseerrors "smartswiggy/internal/database"
	"smartswiggy/internal/models"
	"smartswiggy/pkg/lib/logger/sl"

	"github.com/jmoiron/sqlx"
)

type groupRow struct {
	Id            string    `db:"id"`
	Code          string    `db:"code"`
	Name          string    `db:"name"`
	State         string    `db:"state"`
	RequestsState string    `db:"requests_state"`
	RequestsSent  int       `db:"requests_sent"`
	RequestsTotal int       `db:"requests_total"`
	CreatedAt     time.Time `db:"created_at"`
}

type memberRow struct {
	Id          string `db:"id"`
	DisplayName string `db:"display_name"`
	IsHost      bool   `db:"is_host"`
	Paid        bool   `db:"paid"`
}

type memberItemRow struct {
	MemberId string `db:"member_id"`
	models.LineItem
}

func (s *Storage) CreateGroup(ctx context.Context, g models.Group) error {
	const op = "database.psql.CreateGroup"
	log := s.log.With("op", op, "group_id", g.Id)

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

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO group_order (id, code, name, state, requests_state, requests_sent, requests_total, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`, g.Id, g.Code, g.Name, g.State, g.Requests.State, g.Requests.Sent, g.Requests.Total, g.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			log.Warn("Group already exists", sl.Err(err))
			return fmt.Errorf("%s: %w", op, databaseerrors.ErrConflict)
		}
		log.Error("Failed to insert group", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := insertMembers(ctx, tx, g); err != nil {
		log.Error("Failed to insert members", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		log.Error("Failed to commit transaction", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) GetGroup(ctx context.Context, id string) (models.Group, error) {
	const op = "database.psql.GetGroup"
	log := s.log.With("op", op, "group_id", id)

	select {
	case <-ctx.Done():
		log.Error("Context is over", sl.Err(ctx.Err()))
		return models.Group{}, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var row groupRow
	if err := s.db.GetContext(ctx, &row, `
		SELECT id, code, name, state, requests_state, requests_sent, requests_total, created_at
		FROM group_order
		WHERE id=$1;
	`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Group{}, fmt.Errorf("%s: %w", op, databaseerrors.ErrNotFound)
		}
		log.Error("Failed to select group", sl.Err(err))
		return models.Group{}, fmt.Errorf("%s: %w", op, err)
	}

	var members []memberRow
	if err := s.db.SelectContext(ctx, &members, `
		SELECT id, display_name, is_host, paid
		FROM group_member
		WHERE group_id=$1
		ORDER BY position;
	`, id); err != nil {
		log.Error("Failed to select members", sl.Err(err))
		return models.Group{}, fmt.Errorf("%s: %w", op, err)
	}

	var items []memberItemRow
	if err := s.db.SelectContext(ctx, &items, `
		SELECT gmi.member_id, gmi.item_id, gmi.name, gmi.restaurant, gmi.unit_price, gmi.quantity
		FROM group_member_item AS gmi
		JOIN group_member AS gm
		ON gm.id = gmi.member_id
		WHERE gm.group_id=$1
		ORDER BY gm.position, gmi.item_id;
	`, id); err != nil {
		log.Error("Failed to select member items", sl.Err(err))
		return models.Group{}, fmt.Errorf("%s: %w", op, err)
	}

	return assembleGroup(row, members, items), nil
}

func (s *Storage) GetGroupByCode(ctx context.Context, code string) (models.Group, error) {
	const op = "database.psql.GetGroupByCode"
	log := s.log.With("op", op, "code", code)

	select {
	case <-ctx.Done():
		log.Error("Context is over", sl.Err(ctx.Err()))
		return models.Group{}, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var id string
	if err := s.db.QueryRowxContext(ctx, `
		SELECT id FROM group_order
		WHERE code=$1;
	`, code).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Group{}, fmt.Errorf("%s: %w", op, databaseerrors.ErrNotFound)
		}
		log.Error("Failed to look up group code", sl.Err(err))
		return models.Group{}, fmt.Errorf("%s: %w", op, err)
	}

	g, err := s.GetGroup(ctx, id)
	if err != nil {
		return models.Group{}, fmt.Errorf("%s: %w", op, err)
	}

	return g, nil
}

// SaveGroup replaces the stored roster with g's. The join code is never updated.
func (s *Storage) SaveGroup(ctx context.Context, g models.Group) error {
	const op = "database.psql.SaveGroup"
	log := s.log.With("op", op, "group_id", g.Id)

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

	res, err := tx.ExecContext(ctx, `
		UPDATE group_order
		SET name=$2, state=$3, requests_state=$4, requests_sent=$5, requests_total=$6
		WHERE id=$1;
	`, g.Id, g.Name, g.State, g.Requests.State, g.Requests.Sent, g.Requests.Total)
	if err != nil {
		log.Error("Failed to update group", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		log.Error("Failed to read affected rows", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, databaseerrors.ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM group_member
		WHERE group_id=$1;
	`, g.Id); err != nil {
		log.Error("Failed to clear members", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := insertMembers(ctx, tx, g); err != nil {
		log.Error("Failed to insert members", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		log.Error("Failed to commit transaction", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func insertMembers(ctx context.Context, tx *sqlx.Tx, g models.Group) error {
	for pos, m := range g.Members {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO group_member (id, group_id, position, display_name, is_host, paid)
			VALUES ($1, $2, $3, $4, $5, $6);
		`, m.Id, g.Id, pos, m.DisplayName, m.IsHost, m.Paid); err != nil {
			return fmt.Errorf("member %s: %w", m.Id, err)
		}

		for _, it := range m.Items {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO group_member_item (member_id, item_id, name, restaurant, unit_price, quantity)
				VALUES ($1, $2, $3, $4, $5, $6);
			`, m.Id, it.Id, it.Name, it.Restaurant, it.UnitPrice, it.Quantity); err != nil {
				return fmt.Errorf("member %s item %d: %w", m.Id, it.Id, err)
			}
		}
	}
	return nil
}

func assembleGroup(row groupRow, members []memberRow, items []memberItemRow) models.Group {
	g := models.Group{
		Id:    row.Id,
		Code:  row.Code,
		Name:  row.Name,
		State: models.GroupState(row.State),
		Requests: models.RequestProgress{
			State: models.RequestState(row.RequestsState),
			Sent:  row.RequestsSent,
			Total: row.RequestsTotal,
		},
		CreatedAt: row.CreatedAt,
		Members:   make([]models.Member, 0, len(members)),
	}

	byMember := make(map[string][]models.LineItem, len(members))
	for _, it := range items {
		byMember[it.MemberId] = append(byMember[it.MemberId], it.LineItem)
	}

	for _, m := range members {
		lines := byMember[m.Id]
		if lines == nil {
			lines = []models.LineItem{}
		}
		g.Members = append(g.Members, models.Member{
			Id:          m.Id,
			DisplayName: m.DisplayName,
			IsHost:      m.IsHost,
			Paid:        m.Paid,
			Items:       lines,
		})
	}

	return g
}
