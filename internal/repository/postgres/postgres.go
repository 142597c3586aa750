package postgres

import (
	"database/sql"
	"errors"

	"carrental-backend/internal/repository"

	"github.com/lib/pq"
)

// exclusionViolation is the SQLSTATE raised by the bookings no-overlap constraint
const exclusionViolation = "23P01"

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.CarRepository
	repository.BookingRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                db,
		UserRepository:    NewUserRepository(db),
		CarRepository:     NewCarRepository(db),
		BookingRepository: NewBookingRepository(db),
	}
}

// Open connects to Postgres through lib/pq and verifies the connection
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == exclusionViolation {
		return repository.ErrOverlap
	}
	return err
}
