package core

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/familytree/internal/database"
)

const (
	MinZoom     = 2
	MaxZoom     = 18
	DefaultZoom = MinZoom

	// coordinatePrecision is about one metre.
	coordinatePrecision = 5
)

// PlaceLocation is a place with optional map coordinates.
type PlaceLocation struct {
	ID             int32
	ParentID       int32 // 0 at the top level
	Place          string
	Latitude       float64
	Longitude      float64
	HasCoordinates bool
	Zoom           int
	Icon           string
}

// PlaceEdit is a place location to save. ID zero creates a new place.
type PlaceEdit struct {
	ID        int32
	ParentID  int32
	Place     string
	Latitude  float64
	Longitude float64
	Zoom      int
	Icon      string
}

// FormatLatitude writes a latitude in gazetteer form, e.g. "N51.5".
func FormatLatitude(lat float64) string {
	return formatCoordinate(lat, "N", "S")
}

// FormatLongitude writes a longitude in gazetteer form, e.g. "W0.12".
func FormatLongitude(lon float64) string {
	return formatCoordinate(lon, "E", "W")
}

func formatCoordinate(v float64, pos, neg string) string {
	prefix := pos
	if v < 0 {
		prefix = neg
		v = -v
	}
	pow := math.Pow(10, coordinatePrecision)
	v = math.Round(v*pow) / pow
	return prefix + strconv.FormatFloat(v, 'f', -1, 64)
}

// ParseCoordinate reads a gazetteer coordinate ("N51.5", "W0.12") or a
// signed decimal. The empty string is not a coordinate.
func ParseCoordinate(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	sign := 1.0
	switch s[0] {
	case 'N', 'n', 'E', 'e':
		s = s[1:]
	case 'S', 's', 'W', 'w':
		sign = -1
		s = s[1:]
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return sign * v, true
}

// ValidateCoordinates checks latitude and longitude ranges.
func ValidateCoordinates(lat, lon float64) error {
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return fmt.Errorf("latitude %v outside [-90, 90]: %w", lat, ErrInvalidCoordinates)
	}
	if math.IsNaN(lon) || lon < -180 || lon > 180 {
		return fmt.Errorf("longitude %v outside [-180, 180]: %w", lon, ErrInvalidCoordinates)
	}
	return nil
}

// ClampZoom limits a map zoom level to the supported range.
func ClampZoom(z int) int {
	switch {
	case z < MinZoom:
		return MinZoom
	case z > MaxZoom:
		return MaxZoom
	default:
		return z
	}
}

func placeFromRow(row database.PlaceLocation) PlaceLocation {
	p := PlaceLocation{
		ID:    row.PlID,
		Place: row.Place,
		Zoom:  ClampZoom(int(row.Zoom)),
		Icon:  row.Icon,
	}
	if row.ParentID.Valid {
		p.ParentID = row.ParentID.Int32
	}
	lat, latOK := ParseCoordinate(row.Latitude)
	lon, lonOK := ParseCoordinate(row.Longitude)
	if latOK && lonOK {
		p.Latitude, p.Longitude, p.HasCoordinates = lat, lon, true
	}
	return p
}

func parentParam(id int32) pgtype.Int4 {
	return pgtype.Int4{Int32: id, Valid: id > 0}
}

// PlaceLocation loads one place.
func (s *Service) PlaceLocation(ctx context.Context, id int32) (*PlaceLocation, error) {
	row, err := s.q.GetPlaceLocation(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("place %d: %w", id, ErrPlaceNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get place: %w", err)
	}
	p := placeFromRow(row)
	return &p, nil
}

// PlaceChildren lists the places under parentID; zero lists the top level.
func (s *Service) PlaceChildren(ctx context.Context, parentID int32) ([]PlaceLocation, error) {
	rows, err := s.q.ListPlaceLocations(ctx, parentParam(parentID))
	if err != nil {
		return nil, fmt.Errorf("list places: %w", err)
	}
	places := make([]PlaceLocation, len(rows))
	for i, row := range rows {
		places[i] = placeFromRow(row)
	}
	return places, nil
}

// SavePlaceLocation validates and stores a place.
func (s *Service) SavePlaceLocation(ctx context.Context, edit PlaceEdit) (*PlaceLocation, error) {
	edit.Place = strings.TrimSpace(edit.Place)
	if edit.Place == "" {
		return nil, fmt.Errorf("place name: %w", ErrRequiredField)
	}
	if err := ValidateCoordinates(edit.Latitude, edit.Longitude); err != nil {
		return nil, err
	}

	lat := FormatLatitude(edit.Latitude)
	lon := FormatLongitude(edit.Longitude)
	zoom := int32(ClampZoom(edit.Zoom))

	if edit.ID == 0 {
		if edit.ParentID > 0 {
			if _, err := s.PlaceLocation(ctx, edit.ParentID); err != nil {
				return nil, err
			}
		}
		row, err := s.q.CreatePlaceLocation(ctx, database.CreatePlaceLocationParams{
			ParentID:  parentParam(edit.ParentID),
			Place:     edit.Place,
			Latitude:  lat,
			Longitude: lon,
			Zoom:      zoom,
			Icon:      edit.Icon,
		})
		if err != nil {
			return nil, fmt.Errorf("create place: %w", err)
		}
		p := placeFromRow(row)
		return &p, nil
	}

	n, err := s.q.UpdatePlaceLocation(ctx, database.UpdatePlaceLocationParams{
		PlID:      edit.ID,
		Place:     edit.Place,
		Latitude:  lat,
		Longitude: lon,
		Zoom:      zoom,
		Icon:      edit.Icon,
	})
	if err != nil {
		return nil, fmt.Errorf("update place: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("place %d: %w", edit.ID, ErrPlaceNotFound)
	}
	return s.PlaceLocation(ctx, edit.ID)
}

// DeletePlaceLocation removes a place and everything under it.
func (s *Service) DeletePlaceLocation(ctx context.Context, id int32) error {
	n, err := s.q.DeletePlaceLocation(ctx, id)
	if err != nil {
		return fmt.Errorf("delete place: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("place %d: %w", id, ErrPlaceNotFound)
	}
	return nil
}
