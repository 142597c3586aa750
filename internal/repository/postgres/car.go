package postgres

import (
	"context"
	"database/sql"
	"strings"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/logger"
	"carrental-backend/internal/repository"
)

const carColumns = `id, owner_id, brand, model, image, year, category, seating_capacity, fuel_type, transmission, price_per_day, location, description, is_available, created_at`

type carRepository struct {
	db *sql.DB
}

func NewCarRepository(db *sql.DB) repository.CarRepository {
	return &carRepository{db: db}
}

func carDest(c *domain.Car) []any {
	return []any{&c.ID, &c.OwnerID, &c.Brand, &c.Model, &c.Image, &c.Year, &c.Category, &c.SeatingCapacity,
		&c.FuelType, &c.Transmission, &c.PricePerDay, &c.Location, &c.Description, &c.IsAvailable, &c.CreatedAt}
}

// prefixed qualifies every column in a comma separated list with alias
func prefixed(alias, columns string) string {
	cols := strings.Split(columns, ",")
	for i, col := range cols {
		cols[i] = alias + "." + strings.TrimSpace(col)
	}
	return strings.Join(cols, ", ")
}

func (r *carRepository) GetByID(ctx context.Context, id string) (*domain.Car, error) {
	c := &domain.Car{}
	query := `SELECT ` + carColumns + ` FROM cars WHERE id = $1`
	logger.DatabaseCall("cars.GetByID", query, "id", id)
	if err := r.db.QueryRowContext(ctx, query, id).Scan(carDest(c)...); err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

func (r *carRepository) ListAvailableByLocation(ctx context.Context, location string) ([]domain.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE location = $1 AND is_available = TRUE ORDER BY created_at DESC`
	logger.DatabaseCall("cars.ListAvailableByLocation", query, "location", location)
	rows, err := r.db.QueryContext(ctx, query, location)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cars []domain.Car
	for rows.Next() {
		var c domain.Car
		if err := rows.Scan(carDest(&c)...); err != nil {
			return nil, err
		}
		cars = append(cars, c)
	}
	return cars, rows.Err()
}
