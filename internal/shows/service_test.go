package shows

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeShowRepo struct {
	shows map[uuid.UUID]*Show
}

func newFakeShowRepo(entries ...*Show) *fakeShowRepo {
	repo := &fakeShowRepo{shows: map[uuid.UUID]*Show{}}
	for _, show := range entries {
		repo.shows[show.ID] = show
	}
	return repo
}

func (f *fakeShowRepo) CreateMovie(movie *Movie) error { return nil }
func (f *fakeShowRepo) CreateShow(show *Show) error {
	f.shows[show.ID] = show
	return nil
}

func (f *fakeShowRepo) GetByID(id uuid.UUID) (*Show, error) {
	show, ok := f.shows[id]
	if !ok {
		return nil, ErrShowNotFound
	}
	return show, nil
}

func (f *fakeShowRepo) GetWithMovie(id uuid.UUID) (*Show, error) {
	return f.GetByID(id)
}

func (f *fakeShowRepo) GetUpcoming() ([]Show, error) {
	var result []Show
	for _, show := range f.shows {
		if show.ShowDateTime.After(time.Now()) {
			result = append(result, *show)
		}
	}
	return result, nil
}

func (f *fakeShowRepo) GetOccupiedSeats(id uuid.UUID) (SeatMap, error) {
	show, ok := f.shows[id]
	if !ok {
		return nil, ErrShowNotFound
	}
	return show.OccupiedSeats, nil
}

func (f *fakeShowRepo) ReserveSeats(showID uuid.UUID, seats []string, userID string) error {
	show, ok := f.shows[showID]
	if !ok {
		return ErrShowNotFound
	}
	for _, seat := range seats {
		if _, taken := show.OccupiedSeats[seat]; taken {
			return ErrSeatsTaken
		}
	}
	for _, seat := range seats {
		show.OccupiedSeats[seat] = userID
	}
	return nil
}

func (f *fakeShowRepo) ReleaseSeats(showID uuid.UUID, seats []string, userID string) error {
	show, ok := f.shows[showID]
	if !ok {
		return ErrShowNotFound
	}
	for _, seat := range seats {
		if holder, held := show.OccupiedSeats[seat]; held && holder == userID {
			delete(show.OccupiedSeats, seat)
		}
	}
	return nil
}

func (f *fakeShowRepo) CountUpcoming() (int64, error) {
	upcoming, _ := f.GetUpcoming()
	return int64(len(upcoming)), nil
}

func upcomingShow(occupied SeatMap) *Show {
	if occupied == nil {
		occupied = SeatMap{}
	}
	return &Show{
		ID:            uuid.New(),
		MovieID:       uuid.New(),
		Movie:         Movie{ID: uuid.New(), Title: "Dune"},
		ShowDateTime:  time.Now().Add(48 * time.Hour),
		ShowPrice:     10.0,
		OccupiedSeats: occupied,
	}
}

func TestGetOccupiedSeatsReturnsSortedLabels(t *testing.T) {
	show := upcomingShow(SeatMap{"B2": "u1", "A1": "u2", "C3": "u1"})
	svc := NewService(newFakeShowRepo(show))

	resp, err := svc.GetOccupiedSeats(context.Background(), show.ID)
	require.NoError(t, err)
	assert.Equal(t, show.ID.String(), resp.ShowID)
	assert.Equal(t, []string{"A1", "B2", "C3"}, resp.OccupiedSeats)
}

func TestGetOccupiedSeatsUnknownShow(t *testing.T) {
	svc := NewService(newFakeShowRepo())

	_, err := svc.GetOccupiedSeats(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrShowNotFound)
}

func TestCheckAvailability(t *testing.T) {
	show := upcomingShow(SeatMap{"A1": "u1"})
	svc := NewService(newFakeShowRepo(show))

	tests := []struct {
		name  string
		seats []string
		want  bool
	}{
		{"all free", []string{"B1", "B2"}, true},
		{"one taken", []string{"B1", "A1"}, false},
		{"none requested", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			available, err := svc.CheckAvailability(show.ID, tt.seats)
			require.NoError(t, err)
			assert.Equal(t, tt.want, available)
		})
	}
}

func TestReserveThenReleaseRoundTrip(t *testing.T) {
	show := upcomingShow(nil)
	svc := NewService(newFakeShowRepo(show))
	ctx := context.Background()

	require.NoError(t, svc.ReserveSeats(ctx, show.ID, []string{"A1", "A2"}, "user-1"))

	available, err := svc.CheckAvailability(show.ID, []string{"A1"})
	require.NoError(t, err)
	assert.False(t, available)

	// A different holder cannot free the seats
	require.NoError(t, svc.ReleaseSeats(ctx, show.ID, []string{"A1", "A2"}, "user-2"))
	available, err = svc.CheckAvailability(show.ID, []string{"A1"})
	require.NoError(t, err)
	assert.False(t, available)

	require.NoError(t, svc.ReleaseSeats(ctx, show.ID, []string{"A1", "A2"}, "user-1"))
	available, err = svc.CheckAvailability(show.ID, []string{"A1", "A2"})
	require.NoError(t, err)
	assert.True(t, available)
}

func TestGetUpcomingShowsMapsMovieDetails(t *testing.T) {
	show := upcomingShow(SeatMap{"A1": "u1", "A2": "u1"})
	svc := NewService(newFakeShowRepo(show))

	responses, err := svc.GetUpcomingShows(context.Background())
	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.Equal(t, show.ID.String(), responses[0].ID)
	assert.Equal(t, "Dune", responses[0].Movie.Title)
	assert.Equal(t, 2, responses[0].OccupiedCount)
}
