package bookings_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Baro-rgb/CINEBOOK/internal/bookings"
	"github.com/Baro-rgb/CINEBOOK/internal/shared/config"
	"github.com/Baro-rgb/CINEBOOK/internal/shows"
	"github.com/Baro-rgb/CINEBOOK/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeShowService keeps one show in memory and enforces the same
// all-or-nothing reservation contract the SQL path gives: overlapping
// seats reject the whole request, and releases only free seats held by
// the requesting user.
type fakeShowService struct {
	mu       sync.Mutex
	show     *shows.Show
	occupied shows.SeatMap
}

func newFakeShowService(show *shows.Show) *fakeShowService {
	return &fakeShowService{show: show, occupied: shows.SeatMap{}}
}

func (f *fakeShowService) GetShowForBooking(showID uuid.UUID) (*shows.Show, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.show == nil || f.show.ID != showID {
		return nil, shows.ErrShowNotFound
	}
	snapshot := *f.show
	return &snapshot, nil
}

func (f *fakeShowService) ReserveSeats(ctx context.Context, showID uuid.UUID, seats []string, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.show == nil || f.show.ID != showID {
		return shows.ErrShowNotFound
	}
	for _, seat := range seats {
		if _, taken := f.occupied[seat]; taken {
			return shows.ErrSeatsTaken
		}
	}
	for _, seat := range seats {
		f.occupied[seat] = userID
	}
	return nil
}

func (f *fakeShowService) ReleaseSeats(ctx context.Context, showID uuid.UUID, seats []string, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.show == nil || f.show.ID != showID {
		return shows.ErrShowNotFound
	}
	for _, seat := range seats {
		if holder, ok := f.occupied[seat]; ok && holder == userID {
			delete(f.occupied, seat)
		}
	}
	return nil
}

func (f *fakeShowService) holder(seat string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	holder, ok := f.occupied[seat]
	return holder, ok
}

func (f *fakeShowService) occupiedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.occupied)
}

type fakeBookingRepo struct {
	mu        sync.Mutex
	store     map[uuid.UUID]*bookings.Booking
	createErr error
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{store: map[uuid.UUID]*bookings.Booking{}}
}

func (f *fakeBookingRepo) Create(booking *bookings.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	stored := *booking
	f.store[booking.ID] = &stored
	return nil
}

func (f *fakeBookingRepo) GetByID(id uuid.UUID) (*bookings.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking, ok := f.store[id]
	if !ok {
		return nil, bookings.ErrBookingNotFound
	}
	snapshot := *booking
	return &snapshot, nil
}

func (f *fakeBookingRepo) GetWithShow(id uuid.UUID) (*bookings.Booking, error) {
	return f.GetByID(id)
}

func (f *fakeBookingRepo) GetByUser(userID string) ([]bookings.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []bookings.Booking
	for _, booking := range f.store {
		if booking.UserID == userID {
			result = append(result, *booking)
		}
	}
	return result, nil
}

func (f *fakeBookingRepo) GetAll() ([]bookings.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []bookings.Booking
	for _, booking := range f.store {
		result = append(result, *booking)
	}
	return result, nil
}

func (f *fakeBookingRepo) SetPaymentSession(id uuid.UUID, sessionID, paymentLink string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking, ok := f.store[id]
	if !ok {
		return bookings.ErrBookingNotFound
	}
	booking.SessionID = sessionID
	booking.PaymentLink = paymentLink
	return nil
}

func (f *fakeBookingRepo) MarkPaidIfPending(id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking, ok := f.store[id]
	if !ok || booking.Status != bookings.StatusPending {
		return false, nil
	}
	booking.Status = bookings.StatusPaid
	return true, nil
}

func (f *fakeBookingRepo) ClaimExpiredIfPending(id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking, ok := f.store[id]
	if !ok || booking.Status != bookings.StatusPending {
		return false, nil
	}
	booking.Status = bookings.StatusExpired
	return true, nil
}

func (f *fakeBookingRepo) Delete(id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.store, id)
	return nil
}

func (f *fakeBookingRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.store)
}

type fakeGateway struct {
	mu     sync.Mutex
	fail   bool
	calls  int
	params bookings.CheckoutParams
}

func (f *fakeGateway) CreateCheckoutSession(ctx context.Context, params bookings.CheckoutParams) (*bookings.CheckoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.params = params
	if f.fail {
		return nil, assert.AnError
	}
	return &bookings.CheckoutSession{
		ID:  "cs_test_" + params.BookingID,
		URL: "https://pay.example.com/c/" + params.BookingID,
	}, nil
}

type scheduledCheck struct {
	bookingID uuid.UUID
	delay     time.Duration
}

type fakeScheduler struct {
	mu        sync.Mutex
	fail      bool
	scheduled []scheduledCheck
}

func (f *fakeScheduler) ScheduleSettlementCheck(bookingID uuid.UUID, delay time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return assert.AnError
	}
	f.scheduled = append(f.scheduled, scheduledCheck{bookingID: bookingID, delay: delay})
	return nil
}

func (f *fakeScheduler) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.scheduled)
}

func testShow() *shows.Show {
	return &shows.Show{
		ID:           uuid.New(),
		MovieID:      uuid.New(),
		Movie:        shows.Movie{ID: uuid.New(), Title: "Interstellar"},
		ShowDateTime: time.Now().Add(24 * time.Hour),
		ShowPrice:    12.50,
	}
}

func testBookingConfig() *config.BookingConfig {
	return &config.BookingConfig{
		HoldDuration: 30 * time.Minute,
		MaxSeats:     5,
	}
}

func newTestService(show *shows.Show) (bookings.Service, *fakeShowService, *fakeBookingRepo, *fakeGateway, *fakeScheduler) {
	showService := newFakeShowService(show)
	repo := newFakeBookingRepo()
	gateway := &fakeGateway{}
	scheduler := &fakeScheduler{}
	svc := bookings.NewService(repo, showService, gateway, scheduler, testBookingConfig(), logger.New())
	return svc, showService, repo, gateway, scheduler
}

func TestReserveSuccess(t *testing.T) {
	show := testShow()
	svc, showService, repo, gateway, scheduler := newTestService(show)

	resp, err := svc.Reserve(context.Background(), "user-1", bookings.CreateBookingRequest{
		ShowID:      show.ID.String(),
		BookedSeats: []string{"A1", "A2"},
	})
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.Equal(t, "PENDING", resp.Status)
	assert.Equal(t, 25.0, resp.Amount, "amount must be seat count times show price")
	assert.Equal(t, 2, resp.TotalSeats)
	assert.NotEmpty(t, resp.PaymentURL)

	for _, seat := range []string{"A1", "A2"} {
		holder, ok := showService.holder(seat)
		require.True(t, ok, "seat %s must be occupied", seat)
		assert.Equal(t, "user-1", holder)
	}

	bookingID, err := uuid.Parse(resp.BookingID)
	require.NoError(t, err)
	booking, err := repo.GetByID(bookingID)
	require.NoError(t, err)
	assert.Equal(t, bookings.StatusPending, booking.Status)
	assert.Equal(t, "cs_test_"+resp.BookingID, booking.SessionID)
	assert.Equal(t, resp.PaymentURL, booking.PaymentLink)

	assert.Equal(t, 1, gateway.calls)
	require.Equal(t, 1, scheduler.count())
	assert.Equal(t, bookingID, scheduler.scheduled[0].bookingID)
	assert.Equal(t, 30*time.Minute, scheduler.scheduled[0].delay)
}

func TestReserveSeatValidation(t *testing.T) {
	show := testShow()

	tests := []struct {
		name    string
		seats   []string
		wantErr error
	}{
		{"no seats", nil, bookings.ErrNoSeats},
		{"empty seats", []string{}, bookings.ErrNoSeats},
		{"too many seats", []string{"A1", "A2", "A3", "A4", "A5", "A6"}, bookings.ErrTooManySeats},
		{"duplicate seats", []string{"A1", "A1"}, bookings.ErrDuplicateSeat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, showService, repo, _, scheduler := newTestService(show)

			_, err := svc.Reserve(context.Background(), "user-1", bookings.CreateBookingRequest{
				ShowID:      show.ID.String(),
				BookedSeats: tt.seats,
			})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, showService.occupiedCount(), "no seats may be held after a rejected request")
			assert.Zero(t, repo.count())
			assert.Zero(t, scheduler.count())
		})
	}
}

func TestReserveShowNotFound(t *testing.T) {
	svc, _, _, _, _ := newTestService(testShow())

	_, err := svc.Reserve(context.Background(), "user-1", bookings.CreateBookingRequest{
		ShowID:      uuid.NewString(),
		BookedSeats: []string{"A1"},
	})
	assert.ErrorIs(t, err, shows.ErrShowNotFound)
}

func TestReserveMalformedShowID(t *testing.T) {
	svc, _, _, _, _ := newTestService(testShow())

	_, err := svc.Reserve(context.Background(), "user-1", bookings.CreateBookingRequest{
		ShowID:      "not-a-uuid",
		BookedSeats: []string{"A1"},
	})
	assert.ErrorIs(t, err, shows.ErrShowNotFound)
}

func TestReserveSeatsTaken(t *testing.T) {
	show := testShow()
	svc, showService, repo, _, scheduler := newTestService(show)

	require.NoError(t, showService.ReserveSeats(context.Background(), show.ID, []string{"B2"}, "other-user"))

	_, err := svc.Reserve(context.Background(), "user-1", bookings.CreateBookingRequest{
		ShowID:      show.ID.String(),
		BookedSeats: []string{"B1", "B2"},
	})
	assert.ErrorIs(t, err, shows.ErrSeatsTaken)

	// The whole request must reject: B1 was free but may not be held now
	_, held := showService.holder("B1")
	assert.False(t, held)
	holder, _ := showService.holder("B2")
	assert.Equal(t, "other-user", holder)

	assert.Zero(t, repo.count())
	assert.Zero(t, scheduler.count())
}

func TestReserveConcurrentOverlap(t *testing.T) {
	show := testShow()
	svc, showService, repo, _, _ := newTestService(show)

	const contenders = 10
	seats := []string{"C1", "C2", "C3"}

	var wg sync.WaitGroup
	errs := make([]error, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Reserve(context.Background(), uuid.NewString(), bookings.CreateBookingRequest{
				ShowID:      show.ID.String(),
				BookedSeats: seats,
			})
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, shows.ErrSeatsTaken)
		}
	}
	assert.Equal(t, 1, winners, "exactly one contender may win overlapping seats")
	assert.Equal(t, len(seats), showService.occupiedCount())
	assert.Equal(t, 1, repo.count())
}

func TestReserveGatewayFailureRollsBack(t *testing.T) {
	show := testShow()
	svc, showService, repo, gateway, scheduler := newTestService(show)
	gateway.fail = true

	_, err := svc.Reserve(context.Background(), "user-1", bookings.CreateBookingRequest{
		ShowID:      show.ID.String(),
		BookedSeats: []string{"D1", "D2"},
	})
	require.Error(t, err)

	assert.Zero(t, showService.occupiedCount(), "seats must be released when checkout fails")
	assert.Zero(t, repo.count(), "the booking row must not survive a failed checkout")
	assert.Zero(t, scheduler.count())
}

func TestReserveSchedulerFailureRollsBack(t *testing.T) {
	show := testShow()
	svc, showService, repo, _, scheduler := newTestService(show)
	scheduler.fail = true

	_, err := svc.Reserve(context.Background(), "user-1", bookings.CreateBookingRequest{
		ShowID:      show.ID.String(),
		BookedSeats: []string{"E1"},
	})
	require.Error(t, err)

	assert.Zero(t, showService.occupiedCount())
	assert.Zero(t, repo.count())
}

func TestReserveBookingCreateFailureReleasesSeats(t *testing.T) {
	show := testShow()
	showService := newFakeShowService(show)
	repo := newFakeBookingRepo()
	repo.createErr = assert.AnError
	gateway := &fakeGateway{}
	scheduler := &fakeScheduler{}
	svc := bookings.NewService(repo, showService, gateway, scheduler, testBookingConfig(), logger.New())

	_, err := svc.Reserve(context.Background(), "user-1", bookings.CreateBookingRequest{
		ShowID:      show.ID.String(),
		BookedSeats: []string{"F1"},
	})
	require.Error(t, err)

	assert.Zero(t, showService.occupiedCount())
	assert.Zero(t, gateway.calls, "checkout must not start when the booking row failed")
}
