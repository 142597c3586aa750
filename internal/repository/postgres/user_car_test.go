package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/repository"
	"carrental-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_GetByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := postgres.NewUserRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "name", "email", "phone", "password_hash", "role", "image", "created_at"}).
			AddRow("user-1", "Asha", "asha@test.com", "999", "$2a$10$hash", "owner", "", time.Now())
		mock.ExpectQuery("SELECT (.+) FROM users WHERE LOWER\\(email\\) = LOWER\\(\\$1\\)").
			WithArgs("Asha@Test.com").
			WillReturnRows(rows)

		u, err := repo.GetByEmail(ctx, "Asha@Test.com")
		require.NoError(t, err)
		assert.Equal(t, "user-1", u.ID)
		assert.Equal(t, domain.UserRoleOwner, u.Role)
		assert.Equal(t, "$2a$10$hash", u.PasswordHash)
	})

	t.Run("Not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users").
			WithArgs("nobody@test.com").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByEmail(ctx, "nobody@test.com")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := postgres.NewUserRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "email", "phone", "role", "image", "created_at"}).
		AddRow("user-1", "Asha", "asha@test.com", "999", "user", "", time.Now())
	mock.ExpectQuery("SELECT id, name, email, phone, role, image, created_at FROM users WHERE id = \\$1").
		WithArgs("user-1").
		WillReturnRows(rows)

	u, err := repo.GetByID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Asha", u.Name)
	assert.Empty(t, u.PasswordHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCarRepository(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := postgres.NewCarRepository(db)
	ctx := context.Background()

	carRow := func(id string) *sqlmock.Rows {
		return sqlmock.NewRows(carCols).
			AddRow(id, "owner-1", "Toyota", "Corolla", "img.png", int64(2022), "Sedan", int64(5), "Petrol", "Manual", 1000.0, "Delhi", "", true, time.Now())
	}

	t.Run("GetByID", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM cars WHERE id = \\$1").
			WithArgs("car-1").
			WillReturnRows(carRow("car-1"))

		c, err := repo.GetByID(ctx, "car-1")
		require.NoError(t, err)
		assert.Equal(t, "owner-1", c.OwnerID)
		assert.Equal(t, 1000.0, c.PricePerDay)
		assert.True(t, c.IsAvailable)
	})

	t.Run("GetByID not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM cars WHERE id = \\$1").
			WithArgs("car-x").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(ctx, "car-x")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("ListAvailableByLocation", func(t *testing.T) {
		mock.ExpectQuery("FROM cars WHERE location = \\$1 AND is_available = TRUE").
			WithArgs("Delhi").
			WillReturnRows(carRow("car-1"))

		cars, err := repo.ListAvailableByLocation(ctx, "Delhi")
		require.NoError(t, err)
		assert.Len(t, cars, 1)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
