package service_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/repository"
	"carrental-backend/internal/security"

	"github.com/stretchr/testify/mock"
)

// MockBookingRepo
type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}
func (m *MockBookingRepo) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) Update(ctx context.Context, b *domain.Booking, expected domain.BookingStatus) error {
	args := m.Called(ctx, b, expected)
	return args.Error(0)
}
func (m *MockBookingRepo) FindOverlapping(ctx context.Context, carID string, pickup, ret time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, carID, pickup, ret)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Booking, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) ListStalePending(ctx context.Context, cutoff time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) ExpirePending(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockCarRepo
type MockCarRepo struct {
	mock.Mock
}

func (m *MockCarRepo) GetByID(ctx context.Context, id string) (*domain.Car, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Car), args.Error(1)
}
func (m *MockCarRepo) ListAvailableByLocation(ctx context.Context, location string) ([]domain.Car, error) {
	args := m.Called(ctx, location)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Car), args.Error(1)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockGateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.GatewayOrder, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GatewayOrder), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendBookingConfirmation(ctx context.Context, to, name string, booking *domain.Booking, car *domain.Car) error {
	args := m.Called(ctx, to, name, booking, car)
	return args.Error(0)
}

// MockTokenManager
type MockTokenManager struct {
	mock.Mock
}

func (m *MockTokenManager) GenerateAccessToken(userID, email, role string) (string, error) {
	args := m.Called(userID, email, role)
	return args.String(0), args.Error(1)
}
func (m *MockTokenManager) ValidateToken(token string) (*security.UserClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*security.UserClaims), args.Error(1)
}

// memBookingRepo is an in-memory booking store whose Create re-checks
// overlap under a per-car lock, like the Postgres implementation.
type memBookingRepo struct {
	mu       sync.Mutex
	carLocks map[string]*sync.Mutex
	bookings []domain.Booking
	nextID   int
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{carLocks: make(map[string]*sync.Mutex)}
}

func (r *memBookingRepo) carLock(carID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.carLocks[carID]
	if !ok {
		l = &sync.Mutex{}
		r.carLocks[carID] = l
	}
	return l
}

func (r *memBookingRepo) snapshot(carID string) []domain.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Booking
	for _, b := range r.bookings {
		if b.CarID == carID {
			out = append(out, b)
		}
	}
	return out
}

func (r *memBookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	l := r.carLock(b.CarID)
	l.Lock()
	defer l.Unlock()

	if !domain.IsAvailable(r.snapshot(b.CarID), b.CarID, b.Range()) {
		return repository.ErrOverlap
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	b.ID = fmt.Sprintf("mem-%d", r.nextID)
	r.bookings = append(r.bookings, *b)
	return nil
}

func (r *memBookingRepo) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.bookings {
		if r.bookings[i].ID == id {
			b := r.bookings[i]
			return &b, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memBookingRepo) Update(ctx context.Context, b *domain.Booking, expected domain.BookingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.bookings {
		if r.bookings[i].ID == b.ID {
			if r.bookings[i].Status != expected {
				return repository.ErrStatusChanged
			}
			r.bookings[i] = *b
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *memBookingRepo) FindOverlapping(ctx context.Context, carID string, pickup, ret time.Time) ([]domain.Booking, error) {
	want := domain.DateRange{Start: pickup, End: ret}
	var out []domain.Booking
	for _, b := range r.snapshot(carID) {
		if b.Status != domain.BookingStatusCancelled && b.Range().Overlaps(want) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memBookingRepo) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	return nil, nil
}

func (r *memBookingRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Booking, error) {
	return nil, nil
}

func (r *memBookingRepo) ListStalePending(ctx context.Context, cutoff time.Time) ([]domain.Booking, error) {
	return nil, nil
}

func (r *memBookingRepo) ExpirePending(ctx context.Context, id string) (bool, error) {
	return false, nil
}

// racingBookingRepo runs afterGet once, right after the first GetByID
// returns, to simulate a write that commits between a read and its update.
type racingBookingRepo struct {
	*memBookingRepo
	once     sync.Once
	afterGet func()
}

func (r *racingBookingRepo) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	b, err := r.memBookingRepo.GetByID(ctx, id)
	r.once.Do(r.afterGet)
	return b, err
}

func (r *memBookingRepo) setStatus(id string, status domain.BookingStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.bookings {
		if r.bookings[i].ID == id {
			r.bookings[i].Status = status
		}
	}
}

func (r *memBookingRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bookings)
}
