package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ciclored/ciclored-api/internal/model"
	"github.com/ciclored/ciclored-api/internal/utils"
)

// RouteRepo encapsulates all queries on the `routes` table.  Every
// statement is scoped by user_id.
type RouteRepo struct {
	db *sql.DB
}

func NewRouteRepo(db *sql.DB) *RouteRepo {
	return &RouteRepo{db: db}
}

const routeColumns = `id, user_id, name, distance, duration, difficulty, elevation, type,
	rating, completed, color, coordinates, start_location, created_at`

// Create validates the route, derives its computed fields and inserts it.
// On success ID and CreatedAt are populated.
func (r *RouteRepo) Create(ctx context.Context, rt *model.Route) error {
	if err := rt.Validate(); err != nil {
		return err
	}
	rt.Derive() // distance, difficulty, duration and elevation
	coords, err := json.Marshal(rt.Coordinates)
	if err != nil {
		return fmt.Errorf("encode coordinates: %w", err)
	}
	rt.CreatedAt = utils.Now() // microsecond precision matches DATETIME(6)

	const q = `INSERT INTO routes (user_id, name, distance, duration, difficulty, elevation, type,
		rating, completed, color, coordinates, start_location, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		rt.UserID, rt.Name, rt.Distance, rt.Duration, rt.Difficulty, rt.Elevation, rt.Type,
		rt.Rating, rt.Completed, rt.Color, string(coords), rt.StartLocation, rt.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert route: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rt.ID = uint64(id)
	return nil
}

// ListByOwner returns the owner's routes, newest first.
func (r *RouteRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]*model.Route, error) {
	q := "SELECT " + routeColumns + " FROM routes WHERE user_id = ? ORDER BY created_at DESC, id DESC"
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query routes: %w", err)
	}
	defer rows.Close()

	out := []*model.Route{} // empty list renders as [] rather than null
	for rows.Next() {
		rt, err := scanRoute(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByIDAndOwner fetches a route only if it belongs to ownerID.
func (r *RouteRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (*model.Route, error) {
	q := "SELECT " + routeColumns + " FROM routes WHERE id = ? AND user_id = ?"
	rt, err := scanRoute(r.db.QueryRowContext(ctx, q, id, ownerID))
	if errors.Is(err, sql.ErrNoRows) { // absent and foreign look the same
		return nil, ErrNotFound
	}
	return rt, err
}

// DeleteByIDAndOwner removes the route if it belongs to ownerID.  Deleting
// a missing or foreign route is not an error.
func (r *RouteRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM routes WHERE id = ? AND user_id = ?", id, ownerID); err != nil {
		return fmt.Errorf("delete route: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRoute(s scanner) (*model.Route, error) {
	var (
		rt     model.Route
		coords []byte
		start  sql.NullString
	)
	err := s.Scan(&rt.ID, &rt.UserID, &rt.Name, &rt.Distance, &rt.Duration, &rt.Difficulty,
		&rt.Elevation, &rt.Type, &rt.Rating, &rt.Completed, &rt.Color, &coords, &start, &rt.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(coords, &rt.Coordinates); err != nil {
		return nil, fmt.Errorf("decode coordinates of route %d: %w", rt.ID, err)
	}
	if start.Valid {
		rt.StartLocation = &start.String // NULL stays nil in JSON
	}
	return &rt, nil
}
