package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gift-recommender/internal/pkg/common"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	productColumns = `id, name, description, price, image_url, category, tags, rating, reviews`

	listProductsQuery   = `SELECT ` + productColumns + ` FROM products ORDER BY position`
	getProductByIDQuery = `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	clearProductsQuery  = `DELETE FROM products`
	insertProductQuery  = `
		INSERT INTO products (id, name, description, price, image_url, category, tags, rating, reviews)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]common.Product, error) {
	rows, err := r.db.QueryContext(ctx, listProductsQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]common.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (common.Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx, getProductByIDQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.Product{}, ErrNotFound
		}
		return common.Product{}, err
	}
	return p, nil
}

// ReplaceAll 在同一交易內清空並重新寫入目錄
func (r *PostgresRepository) ReplaceAll(ctx context.Context, products []common.Product) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, clearProductsQuery); err != nil {
		return fmt.Errorf("failed to clear products: %w", err)
	}

	for _, p := range products {
		if _, err := tx.ExecContext(ctx, insertProductQuery,
			p.ID, p.Name, p.Description, p.Price, p.ImageURL, p.Category,
			pq.Array(p.Tags), p.Rating, p.Reviews,
		); err != nil {
			return fmt.Errorf("failed to insert product %s: %w", p.ID, err)
		}
	}

	return tx.Commit()
}

func scanProduct(scanner rowScanner) (common.Product, error) {
	var (
		p       common.Product
		rating  sql.NullFloat64
		reviews sql.NullInt64
	)
	if err := scanner.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.ImageURL,
		&p.Category,
		pq.Array(&p.Tags),
		&rating,
		&reviews,
	); err != nil {
		return common.Product{}, err
	}

	if rating.Valid {
		v := rating.Float64
		p.Rating = &v
	}
	if reviews.Valid {
		v := int(reviews.Int64)
		p.Reviews = &v
	}
	return p, nil
}
