package shows

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SeatMap is the authoritative seat-occupancy document for a show.
// Keys are seat labels ("A1"), values are the holding user's ID.
// Stored as a JSONB column so occupancy mutations can be expressed as a
// single conditional update.
type SeatMap map[string]string

// Value implements driver.Valuer for JSONB storage
func (m SeatMap) Value() (driver.Value, error) {
	if m == nil {
		m = SeatMap{}
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for JSONB retrieval
func (m *SeatMap) Scan(value interface{}) error {
	if value == nil {
		*m = SeatMap{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported seat map type %T", value)
	}

	return json.Unmarshal(data, m)
}

type Movie struct {
	ID              uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Title           string    `json:"title" gorm:"not null;size:255"`
	Overview        string    `json:"overview" gorm:"type:text"`
	PosterURL       string    `json:"poster_url" gorm:"size:500"`
	Genres          string    `json:"genres" gorm:"size:255"`
	RuntimeMinutes  int       `json:"runtime_minutes" gorm:"check:runtime_minutes >= 0"`
	ReleaseDate     time.Time `json:"release_date"`
	VoteAverage     float64   `json:"vote_average"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

type Show struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	MovieID       uuid.UUID `json:"movie_id" gorm:"type:uuid;not null;index"`
	Movie         Movie     `json:"movie" gorm:"foreignKey:MovieID;constraint:OnDelete:CASCADE"`
	ShowDateTime  time.Time `json:"show_date_time" gorm:"not null;index"`
	ShowPrice     float64   `json:"show_price" gorm:"not null;check:show_price >= 0"`
	OccupiedSeats SeatMap   `json:"occupied_seats" gorm:"type:jsonb;not null;default:'{}'"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

type MovieInfo struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Overview       string  `json:"overview"`
	PosterURL      string  `json:"poster_url"`
	Genres         string  `json:"genres"`
	RuntimeMinutes int     `json:"runtime_minutes"`
	VoteAverage    float64 `json:"vote_average"`
}

type ShowResponse struct {
	ID            string    `json:"id"`
	Movie         MovieInfo `json:"movie"`
	ShowDateTime  time.Time `json:"show_date_time"`
	ShowPrice     float64   `json:"show_price"`
	OccupiedCount int       `json:"occupied_count"`
}

type OccupiedSeatsResponse struct {
	ShowID        string   `json:"show_id"`
	OccupiedSeats []string `json:"occupied_seats"`
}

func (s *Show) ToResponse() ShowResponse {
	return ShowResponse{
		ID: s.ID.String(),
		Movie: MovieInfo{
			ID:             s.Movie.ID.String(),
			Title:          s.Movie.Title,
			Overview:       s.Movie.Overview,
			PosterURL:      s.Movie.PosterURL,
			Genres:         s.Movie.Genres,
			RuntimeMinutes: s.Movie.RuntimeMinutes,
			VoteAverage:    s.Movie.VoteAverage,
		},
		ShowDateTime:  s.ShowDateTime,
		ShowPrice:     s.ShowPrice,
		OccupiedCount: len(s.OccupiedSeats),
	}
}

// TableName specifies the table name for GORM
func (Movie) TableName() string {
	return "movies"
}

// TableName specifies the table name for GORM
func (Show) TableName() string {
	return "shows"
}
