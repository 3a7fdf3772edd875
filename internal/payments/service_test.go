package payments

import (
	"context"
	"sync"
	"testing"

	"github.com/Baro-rgb/CINEBOOK/internal/bookings"
	"github.com/Baro-rgb/CINEBOOK/internal/shows"
	"github.com/Baro-rgb/CINEBOOK/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLedger mimics the booking table's conditional updates: settlement
// transitions only fire on rows still PENDING.
type fakeLedger struct {
	mu    sync.Mutex
	store map[uuid.UUID]*bookings.Booking
}

func newFakeLedger(entries ...*bookings.Booking) *fakeLedger {
	ledger := &fakeLedger{store: map[uuid.UUID]*bookings.Booking{}}
	for _, b := range entries {
		stored := *b
		ledger.store[b.ID] = &stored
	}
	return ledger
}

func (f *fakeLedger) Create(booking *bookings.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *booking
	f.store[booking.ID] = &stored
	return nil
}

func (f *fakeLedger) GetByID(id uuid.UUID) (*bookings.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking, ok := f.store[id]
	if !ok {
		return nil, bookings.ErrBookingNotFound
	}
	snapshot := *booking
	return &snapshot, nil
}

func (f *fakeLedger) GetWithShow(id uuid.UUID) (*bookings.Booking, error) {
	return f.GetByID(id)
}

func (f *fakeLedger) GetByUser(userID string) ([]bookings.Booking, error) {
	return nil, nil
}

func (f *fakeLedger) GetAll() ([]bookings.Booking, error) {
	return nil, nil
}

func (f *fakeLedger) SetPaymentSession(id uuid.UUID, sessionID, paymentLink string) error {
	return nil
}

func (f *fakeLedger) MarkPaidIfPending(id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking, ok := f.store[id]
	if !ok || booking.Status != bookings.StatusPending {
		return false, nil
	}
	booking.Status = bookings.StatusPaid
	return true, nil
}

func (f *fakeLedger) ClaimExpiredIfPending(id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking, ok := f.store[id]
	if !ok || booking.Status != bookings.StatusPending {
		return false, nil
	}
	booking.Status = bookings.StatusExpired
	return true, nil
}

func (f *fakeLedger) Delete(id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.store, id)
	return nil
}

func (f *fakeLedger) status(id uuid.UUID) (bookings.Status, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking, ok := f.store[id]
	if !ok {
		return "", false
	}
	return booking.Status, true
}

type releasedSeats struct {
	showID uuid.UUID
	seats  []string
	userID string
}

type fakeReleaser struct {
	mu       sync.Mutex
	err      error
	released []releasedSeats
}

func (f *fakeReleaser) ReleaseSeats(ctx context.Context, showID uuid.UUID, seats []string, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.released = append(f.released, releasedSeats{showID: showID, seats: seats, userID: userID})
	return nil
}

func (f *fakeReleaser) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.released)
}

func pendingBooking() *bookings.Booking {
	return &bookings.Booking{
		ID:          uuid.New(),
		UserID:      "user-1",
		ShowID:      uuid.New(),
		BookedSeats: bookings.SeatList{"A1", "A2"},
		Amount:      25.0,
		Status:      bookings.StatusPending,
		SessionID:   "cs_test_123",
	}
}

func TestConfirmPaymentSettlesPendingBooking(t *testing.T) {
	booking := pendingBooking()
	ledger := newFakeLedger(booking)
	releaser := &fakeReleaser{}
	svc := NewService(ledger, releaser, logger.New())

	require.NoError(t, svc.ConfirmPayment(context.Background(), booking.ID, booking.SessionID))

	status, ok := ledger.status(booking.ID)
	require.True(t, ok, "a paid booking must survive")
	assert.Equal(t, bookings.StatusPaid, status)
	assert.Zero(t, releaser.count(), "paid bookings keep their seats")
}

func TestConfirmPaymentIsIdempotent(t *testing.T) {
	booking := pendingBooking()
	ledger := newFakeLedger(booking)
	svc := NewService(ledger, &fakeReleaser{}, logger.New())

	require.NoError(t, svc.ConfirmPayment(context.Background(), booking.ID, booking.SessionID))
	require.NoError(t, svc.ConfirmPayment(context.Background(), booking.ID, booking.SessionID))

	status, _ := ledger.status(booking.ID)
	assert.Equal(t, bookings.StatusPaid, status)
}

func TestConfirmPaymentForMissingBookingIsNoOp(t *testing.T) {
	svc := NewService(newFakeLedger(), &fakeReleaser{}, logger.New())
	assert.NoError(t, svc.ConfirmPayment(context.Background(), uuid.New(), "cs_gone"))
}

func TestHandleTimeoutExpiresPendingBooking(t *testing.T) {
	booking := pendingBooking()
	ledger := newFakeLedger(booking)
	releaser := &fakeReleaser{}
	svc := NewService(ledger, releaser, logger.New())

	require.NoError(t, svc.HandleTimeout(context.Background(), booking.ID))

	_, ok := ledger.status(booking.ID)
	assert.False(t, ok, "an expired booking must be removed")
	require.Equal(t, 1, releaser.count())
	assert.Equal(t, booking.ShowID, releaser.released[0].showID)
	assert.Equal(t, []string{"A1", "A2"}, releaser.released[0].seats)
	assert.Equal(t, "user-1", releaser.released[0].userID)
}

func TestHandleTimeoutAfterPaymentKeepsBooking(t *testing.T) {
	booking := pendingBooking()
	ledger := newFakeLedger(booking)
	releaser := &fakeReleaser{}
	svc := NewService(ledger, releaser, logger.New())

	require.NoError(t, svc.ConfirmPayment(context.Background(), booking.ID, booking.SessionID))
	require.NoError(t, svc.HandleTimeout(context.Background(), booking.ID))

	status, ok := ledger.status(booking.ID)
	require.True(t, ok)
	assert.Equal(t, bookings.StatusPaid, status)
	assert.Zero(t, releaser.count())
}

func TestConfirmPaymentAfterTimeoutIsStale(t *testing.T) {
	booking := pendingBooking()
	ledger := newFakeLedger(booking)
	releaser := &fakeReleaser{}
	svc := NewService(ledger, releaser, logger.New())

	require.NoError(t, svc.HandleTimeout(context.Background(), booking.ID))
	require.NoError(t, svc.ConfirmPayment(context.Background(), booking.ID, booking.SessionID))

	_, ok := ledger.status(booking.ID)
	assert.False(t, ok, "a late webhook must not resurrect an expired booking")
	assert.Equal(t, 1, releaser.count())
}

func TestHandleTimeoutIsIdempotent(t *testing.T) {
	booking := pendingBooking()
	ledger := newFakeLedger(booking)
	releaser := &fakeReleaser{}
	svc := NewService(ledger, releaser, logger.New())

	require.NoError(t, svc.HandleTimeout(context.Background(), booking.ID))
	require.NoError(t, svc.HandleTimeout(context.Background(), booking.ID))

	assert.Equal(t, 1, releaser.count(), "seats release exactly once")
}

func TestHandleTimeoutForMissingBookingIsNoOp(t *testing.T) {
	releaser := &fakeReleaser{}
	svc := NewService(newFakeLedger(), releaser, logger.New())

	assert.NoError(t, svc.HandleTimeout(context.Background(), uuid.New()))
	assert.Zero(t, releaser.count())
}

func TestHandleTimeoutResumesAfterPartialRun(t *testing.T) {
	// A crash between the seat release and the row delete leaves the
	// booking claimed as EXPIRED; the task retry must finish the cleanup.
	booking := pendingBooking()
	booking.Status = bookings.StatusExpired
	ledger := newFakeLedger(booking)
	releaser := &fakeReleaser{}
	svc := NewService(ledger, releaser, logger.New())

	require.NoError(t, svc.HandleTimeout(context.Background(), booking.ID))

	_, ok := ledger.status(booking.ID)
	assert.False(t, ok)
	assert.Equal(t, 1, releaser.count())
}

func TestHandleTimeoutToleratesDeletedShow(t *testing.T) {
	booking := pendingBooking()
	ledger := newFakeLedger(booking)
	releaser := &fakeReleaser{err: shows.ErrShowNotFound}
	svc := NewService(ledger, releaser, logger.New())

	require.NoError(t, svc.HandleTimeout(context.Background(), booking.ID))

	_, ok := ledger.status(booking.ID)
	assert.False(t, ok, "cleanup must finish even when the show is gone")
}
