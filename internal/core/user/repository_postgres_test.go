package user

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userRowColumns = []string{"id", "username", "email", "password", "role", "created_at", "updated_at"}

func TestPostgresGetByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	rows := sqlmock.NewRows(userRowColumns).
		AddRow("u1", "asha", "asha@example.com", "$2a$hash", "admin", now, now)
	mock.ExpectQuery("FROM users WHERE lower\\(email\\)").WithArgs("asha@example.com").WillReturnRows(rows)

	u, err := repo.GetByEmail(context.Background(), "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.True(t, u.IsAdmin())
	assert.Equal(t, now, u.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("FROM users WHERE id").WithArgs("missing").WillReturnError(sql.ErrNoRows)

	_, err = repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreateDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectExec("INSERT INTO users").WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err = repo.Create(context.Background(), User{ID: "u1", Email: "a@example.com"})
	assert.ErrorIs(t, err, ErrUserExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListAndCount(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows(userRowColumns).
		AddRow("u1", "a", "a@example.com", "h", "user", now, now).
		AddRow("u2", "b", "b@example.com", "h", "user", now, now)
	mock.ExpectQuery("FROM users ORDER BY created_at").WillReturnRows(rows)
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM users").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	users, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
