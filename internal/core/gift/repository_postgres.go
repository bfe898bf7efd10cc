package gift

import (
	"context"
	"database/sql"
	"errors"
)

type PostgresRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	giftColumns = `id, user_id, name, description, price, category, image_url, reason, created_at, updated_at`

	insertGiftQuery = `
		INSERT INTO gifts (id, user_id, name, description, price, category, image_url, reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	getGiftByIDQuery     = `SELECT ` + giftColumns + ` FROM gifts WHERE id = $1`
	listGiftsByUserQuery = `SELECT ` + giftColumns + ` FROM gifts WHERE user_id = $1 ORDER BY created_at`
	listAllGiftsQuery    = `SELECT ` + giftColumns + ` FROM gifts ORDER BY created_at`
	deleteGiftQuery      = `DELETE FROM gifts WHERE id = $1`
	countGiftsQuery      = `SELECT COUNT(*) FROM gifts`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, g Gift) (Gift, error) {
	_, err := r.db.ExecContext(ctx, insertGiftQuery,
		g.ID, g.UserID, g.Name, g.Description, g.Price, g.Category, g.ImageURL, g.Reason, g.CreatedAt, g.UpdatedAt,
	)
	if err != nil {
		return Gift{}, err
	}
	return g, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (Gift, error) {
	g, err := scanGift(r.db.QueryRowContext(ctx, getGiftByIDQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Gift{}, ErrNotFound
		}
		return Gift{}, err
	}
	return g, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]Gift, error) {
	return r.list(ctx, listGiftsByUserQuery, userID)
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]Gift, error) {
	return r.list(ctx, listAllGiftsQuery)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]Gift, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	gifts := make([]Gift, 0)
	for rows.Next() {
		g, err := scanGift(rows)
		if err != nil {
			return nil, err
		}
		gifts = append(gifts, g)
	}
	return gifts, rows.Err()
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, deleteGiftQuery, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, countGiftsQuery).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func scanGift(scanner rowScanner) (Gift, error) {
	var g Gift
	if err := scanner.Scan(
		&g.ID,
		&g.UserID,
		&g.Name,
		&g.Description,
		&g.Price,
		&g.Category,
		&g.ImageURL,
		&g.Reason,
		&g.CreatedAt,
		&g.UpdatedAt,
	); err != nil {
		return Gift{}, err
	}
	return g, nil
}
