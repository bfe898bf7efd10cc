package product

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"gift-recommender/internal/pkg/common"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var productRowColumns = []string{"id", "name", "description", "price", "image_url", "category", "tags", "rating", "reviews"}

func TestPostgresList(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	rows := sqlmock.NewRows(productRowColumns).
		AddRow("p1", "Diya", "Lamp", 1200.0, "https://img/1", "Home Decor", "{festive,brass}", 4.5, 120).
		AddRow("p2", "Scarf", "Silk", 2500.0, "", "Fashion", nil, nil, nil)
	mock.ExpectQuery("FROM products ORDER BY position").WillReturnRows(rows)

	products, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, []string{"festive", "brass"}, products[0].Tags)
	require.NotNil(t, products[0].Rating)
	assert.Equal(t, 4.5, *products[0].Rating)
	require.NotNil(t, products[0].Reviews)
	assert.Equal(t, 120, *products[0].Reviews)

	assert.Nil(t, products[1].Tags)
	assert.Nil(t, products[1].Rating)
	assert.Nil(t, products[1].Reviews)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("FROM products WHERE id").WithArgs("p9").WillReturnError(sql.ErrNoRows)

	_, err = repo.GetByID(context.Background(), "p9")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresReplaceAll(t *testing.T) {
	products := []common.Product{
		{ID: "p1", Name: "Diya", Description: "Lamp", Price: 1200, ImageURL: "https://img/1", Category: "Home Decor"},
	}

	t.Run("commits", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM products").WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectExec("INSERT INTO products").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, NewPostgresRepository(db).ReplaceAll(context.Background(), products))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on insert failure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM products").WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectExec("INSERT INTO products").WillReturnError(errors.New("boom"))
		mock.ExpectRollback()

		err = NewPostgresRepository(db).ReplaceAll(context.Background(), products)
		require.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
