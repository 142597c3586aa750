package postgres

import (
	"context"
	"database/sql"
	"time"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/logger"
	"carrental-backend/internal/repository"

	"github.com/google/uuid"
)

const bookingColumns = `b.id, b.car_id, b.user_id, b.owner_id, b.pickup_date, b.return_date, b.pickup_time, b.return_time, b.location, b.address, b.status, b.price,
	b.payment_order_id, b.payment_id, b.payment_signature, b.payment_method, b.payment_status, b.created_at, b.updated_at`

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

func bookingDest(b *domain.Booking) []any {
	return []any{&b.ID, &b.CarID, &b.UserID, &b.OwnerID, &b.PickupDate, &b.ReturnDate, &b.PickupTime, &b.ReturnTime,
		&b.Location, &b.Address, &b.Status, &b.Price, &b.Payment.OrderID, &b.Payment.PaymentID, &b.Payment.Signature,
		&b.Payment.Method, &b.Payment.Status, &b.CreatedAt, &b.UpdatedAt}
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Concurrent creations for the same car queue on this row lock
	var carID string
	lockQuery := `SELECT id FROM cars WHERE id = $1 FOR UPDATE`
	logger.DatabaseCall("bookings.Create.lock", lockQuery, "car_id", b.CarID)
	if err := tx.QueryRowContext(ctx, lockQuery, b.CarID).Scan(&carID); err != nil {
		return mapError(err)
	}

	existing, err := findOverlapping(ctx, tx, b.CarID, b.PickupDate, b.ReturnDate)
	if err != nil {
		return err
	}
	if !domain.IsAvailable(existing, b.CarID, b.Range()) {
		return repository.ErrOverlap
	}

	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now

	query := `INSERT INTO bookings (id, car_id, user_id, owner_id, pickup_date, return_date, pickup_time, return_time, location, address, status, price,
	          payment_order_id, payment_id, payment_signature, payment_method, payment_status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	logger.DatabaseCall("bookings.Create", query, "booking_id", b.ID)
	_, err = tx.ExecContext(ctx, query, b.ID, b.CarID, b.UserID, b.OwnerID, b.PickupDate, b.ReturnDate, b.PickupTime, b.ReturnTime,
		b.Location, b.Address, b.Status, b.Price, b.Payment.OrderID, b.Payment.PaymentID, b.Payment.Signature, b.Payment.Method,
		b.Payment.Status, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return mapError(err)
	}

	return mapError(tx.Commit())
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	b := &domain.Booking{}
	query := `SELECT ` + bookingColumns + ` FROM bookings b WHERE b.id = $1`
	logger.DatabaseCall("bookings.GetByID", query, "id", id)
	if err := r.db.QueryRowContext(ctx, query, id).Scan(bookingDest(b)...); err != nil {
		return nil, mapError(err)
	}
	return b, nil
}

func (r *bookingRepository) Update(ctx context.Context, b *domain.Booking, expected domain.BookingStatus) error {
	b.UpdatedAt = time.Now().UTC()
	query := `UPDATE bookings SET status=$1, payment_order_id=$2, payment_id=$3, payment_signature=$4, payment_method=$5, payment_status=$6, updated_at=$7 WHERE id=$8 AND status=$9`
	logger.DatabaseCall("bookings.Update", query, "id", b.ID, "expected", expected)
	res, err := r.db.ExecContext(ctx, query, b.Status, b.Payment.OrderID, b.Payment.PaymentID, b.Payment.Signature,
		b.Payment.Method, b.Payment.Status, b.UpdatedAt, b.ID, expected)
	if err != nil {
		return mapError(err)
	}
	n, err := res.RowsAffected()
	logger.DatabaseResult("bookings.Update", n, err)
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}

	var current domain.BookingStatus
	statusQuery := `SELECT status FROM bookings WHERE id = $1`
	logger.DatabaseCall("bookings.Update.status", statusQuery, "id", b.ID)
	if err := r.db.QueryRowContext(ctx, statusQuery, b.ID).Scan(&current); err != nil {
		return mapError(err)
	}
	logger.Warn("Booking status changed before update", "bookingID", b.ID, "expected", expected, "current", current)
	return repository.ErrStatusChanged
}

func (r *bookingRepository) FindOverlapping(ctx context.Context, carID string, pickup, ret time.Time) ([]domain.Booking, error) {
	return findOverlapping(ctx, r.db, carID, pickup, ret)
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func findOverlapping(ctx context.Context, q querier, carID string, pickup, ret time.Time) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b
	          WHERE b.car_id = $1 AND b.pickup_date <= $3 AND b.return_date >= $2 AND b.status <> 'cancelled'`
	logger.DatabaseCall("bookings.FindOverlapping", query, "car_id", carID)
	rows, err := q.QueryContext(ctx, query, carID, pickup, ret)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(bookingDest(&b)...); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *bookingRepository) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + `, ` + prefixed("c", carColumns) + `
	          FROM bookings b JOIN cars c ON c.id = b.car_id
	          WHERE b.user_id = $1 ORDER BY b.created_at DESC`
	logger.DatabaseCall("bookings.ListByUser", query, "user_id", userID)
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		var b domain.Booking
		c := &domain.Car{}
		dest := append(bookingDest(&b), carDest(c)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		b.Car = c
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *bookingRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + `, ` + prefixed("c", carColumns) + `, u.id, u.name, u.email, u.phone, u.role, u.image, u.created_at
	          FROM bookings b
	          JOIN cars c ON c.id = b.car_id
	          JOIN users u ON u.id = b.user_id
	          WHERE b.owner_id = $1 ORDER BY b.created_at DESC`
	logger.DatabaseCall("bookings.ListByOwner", query, "owner_id", ownerID)
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		var b domain.Booking
		c := &domain.Car{}
		u := &domain.User{}
		dest := append(bookingDest(&b), carDest(c)...)
		dest = append(dest, &u.ID, &u.Name, &u.Email, &u.Phone, &u.Role, &u.Image, &u.CreatedAt)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		b.Car = c
		b.User = u
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *bookingRepository) ListStalePending(ctx context.Context, cutoff time.Time) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b
	          WHERE b.status = 'pending' AND b.payment_status = 'created' AND b.created_at < $1
	          ORDER BY b.created_at`
	logger.DatabaseCall("bookings.ListStalePending", query, "cutoff", cutoff)
	rows, err := r.db.QueryContext(ctx, query, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(bookingDest(&b)...); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *bookingRepository) ExpirePending(ctx context.Context, id string) (bool, error) {
	query := `UPDATE bookings SET status = 'cancelled', payment_status = 'failed', updated_at = $1
	          WHERE id = $2 AND status = 'pending' AND payment_status = 'created'`
	logger.DatabaseCall("bookings.ExpirePending", query, "id", id)
	res, err := r.db.ExecContext(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	logger.DatabaseResult("bookings.ExpirePending", n, err)
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
