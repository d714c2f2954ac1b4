package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const getPlaceLocation = `-- name: GetPlaceLocation :one
SELECT pl_id, parent_id, place, latitude, longitude, zoom, icon
FROM place_location
WHERE pl_id = $1
`

func (q *Queries) GetPlaceLocation(ctx context.Context, plID int32) (PlaceLocation, error) {
	row := q.db.QueryRow(ctx, getPlaceLocation, plID)
	var i PlaceLocation
	err := row.Scan(&i.PlID, &i.ParentID, &i.Place, &i.Latitude, &i.Longitude, &i.Zoom, &i.Icon)
	return i, err
}

const listPlaceLocations = `-- name: ListPlaceLocations :many
SELECT pl_id, parent_id, place, latitude, longitude, zoom, icon
FROM place_location
WHERE parent_id IS NOT DISTINCT FROM $1
ORDER BY place
`

// ListPlaceLocations returns the children of a place. A null parent lists
// the top level.
func (q *Queries) ListPlaceLocations(ctx context.Context, parentID pgtype.Int4) ([]PlaceLocation, error) {
	rows, err := q.db.Query(ctx, listPlaceLocations, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []PlaceLocation
	for rows.Next() {
		var i PlaceLocation
		if err := rows.Scan(&i.PlID, &i.ParentID, &i.Place, &i.Latitude, &i.Longitude, &i.Zoom, &i.Icon); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createPlaceLocation = `-- name: CreatePlaceLocation :one
INSERT INTO place_location (parent_id, place, latitude, longitude, zoom, icon)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING pl_id, parent_id, place, latitude, longitude, zoom, icon
`

type CreatePlaceLocationParams struct {
	ParentID  pgtype.Int4
	Place     string
	Latitude  string
	Longitude string
	Zoom      int32
	Icon      string
}

func (q *Queries) CreatePlaceLocation(ctx context.Context, arg CreatePlaceLocationParams) (PlaceLocation, error) {
	row := q.db.QueryRow(ctx, createPlaceLocation,
		arg.ParentID,
		arg.Place,
		arg.Latitude,
		arg.Longitude,
		arg.Zoom,
		arg.Icon,
	)
	var i PlaceLocation
	err := row.Scan(&i.PlID, &i.ParentID, &i.Place, &i.Latitude, &i.Longitude, &i.Zoom, &i.Icon)
	return i, err
}

const updatePlaceLocation = `-- name: UpdatePlaceLocation :execrows
UPDATE place_location
SET place = $2, latitude = $3, longitude = $4, zoom = $5, icon = $6
WHERE pl_id = $1
`

type UpdatePlaceLocationParams struct {
	PlID      int32
	Place     string
	Latitude  string
	Longitude string
	Zoom      int32
	Icon      string
}

func (q *Queries) UpdatePlaceLocation(ctx context.Context, arg UpdatePlaceLocationParams) (int64, error) {
	result, err := q.db.Exec(ctx, updatePlaceLocation,
		arg.PlID,
		arg.Place,
		arg.Latitude,
		arg.Longitude,
		arg.Zoom,
		arg.Icon,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const deletePlaceLocation = `-- name: DeletePlaceLocation :execrows
DELETE FROM place_location WHERE pl_id = $1
`

func (q *Queries) DeletePlaceLocation(ctx context.Context, plID int32) (int64, error) {
	result, err := q.db.Exec(ctx, deletePlaceLocation, plID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
