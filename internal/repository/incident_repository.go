package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ciclored/ciclored-api/internal/model"
	"github.com/ciclored/ciclored-api/internal/utils"
)

// IncidentRepo encapsulates all queries on the `incidents` table.  Every
// statement is scoped by user_id so foreign rows behave as missing rows.
type IncidentRepo struct {
	db *sql.DB
}

func NewIncidentRepo(db *sql.DB) *IncidentRepo {
	return &IncidentRepo{db: db}
}

const incidentColumns = `id, user_id, category, description, photo_url, latitude, longitude,
	address, reports, status, created_at, updated_at`

// Create validates and inserts a new incident with zero reports and the
// default status.
func (r *IncidentRepo) Create(ctx context.Context, inc *model.Incident) error {
	if err := inc.Validate(); err != nil {
		return err
	}
	now := utils.Now()
	inc.Reports = 0
	inc.Status = model.DefaultIncidentStatus
	inc.CreatedAt, inc.UpdatedAt = now, now

	const q = `INSERT INTO incidents (user_id, category, description, photo_url, latitude, longitude,
		address, reports, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		inc.UserID, inc.Category, inc.Description, inc.PhotoURL, inc.Location.Latitude,
		inc.Location.Longitude, inc.Location.Address, inc.Reports, inc.Status, inc.CreatedAt, inc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert incident: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	inc.ID = uint64(id)
	return nil
}

// ListByOwner returns the owner's incidents, newest first.
func (r *IncidentRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]*model.Incident, error) {
	q := "SELECT " + incidentColumns + " FROM incidents WHERE user_id = ? ORDER BY created_at DESC, id DESC"
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query incidents: %w", err)
	}
	defer rows.Close()

	out := []*model.Incident{}
	for rows.Next() {
		inc, err := scanIncident(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByIDAndOwner fetches an incident only if it belongs to ownerID.
func (r *IncidentRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (*model.Incident, error) {
	q := "SELECT " + incidentColumns + " FROM incidents WHERE id = ? AND user_id = ?"
	inc, err := scanIncident(r.db.QueryRowContext(ctx, q, id, ownerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan incident: %w", err)
	}
	return inc, nil
}

// IncrementReports adds one confirmation to the incident.  The increment is
// evaluated by the database so concurrent confirmations are never lost.
func (r *IncidentRepo) IncrementReports(ctx context.Context, id, ownerID uint64) (*model.Incident, error) {
	const q = `UPDATE incidents SET reports = reports + 1, updated_at = ?
	           WHERE id = ? AND user_id = ?`
	res, err := r.db.ExecContext(ctx, q, utils.Now(), id, ownerID)
	if err != nil {
		return nil, fmt.Errorf("increment reports: %w", err)
	}
	n, err := rowsAffected(res, "increment reports")
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNotFound // no row owned by this user
	}
	return r.GetByIDAndOwner(ctx, id, ownerID)
}

// SetStatus overwrites the incident status and touches updated_at.  An
// attended incident cannot be moved to another status.
func (r *IncidentRepo) SetStatus(ctx context.Context, id, ownerID uint64, status string) (*model.Incident, error) {
	st := model.NormalizeStatus(status)
	if st == "" {
		return nil, &model.ValidationError{Fields: []string{"status"}}
	}
	// the terminal-state guard lives in the WHERE clause so a concurrent
	// transition to Atendido cannot be overwritten
	const q = `UPDATE incidents SET status = ?, updated_at = ?
	           WHERE id = ? AND user_id = ? AND (status <> ? OR ? = ?)`
	res, err := r.db.ExecContext(ctx, q,
		st, utils.Now(), id, ownerID, model.StatusAttended, st, model.StatusAttended)
	if err != nil {
		return nil, fmt.Errorf("set status: %w", err)
	}
	n, err := rowsAffected(res, "set status")
	if err != nil {
		return nil, err
	}

	inc, err := r.GetByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	// zero rows with an existing incident means the guard refused the change
	if n == 0 && !model.CanTransition(inc.Status, st) {
		return nil, ErrInvalidTransition
	}
	return inc, nil
}

// DeleteByIDAndOwner removes the incident if it belongs to ownerID.
// Deleting a missing or foreign incident is not an error.
func (r *IncidentRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM incidents WHERE id = ? AND user_id = ?", id, ownerID); err != nil {
		return fmt.Errorf("delete incident: %w", err)
	}
	return nil
}

func scanIncident(s scanner) (*model.Incident, error) {
	var (
		inc   model.Incident
		photo sql.NullString
	)
	err := s.Scan(&inc.ID, &inc.UserID, &inc.Category, &inc.Description, &photo,
		&inc.Location.Latitude, &inc.Location.Longitude, &inc.Location.Address,
		&inc.Reports, &inc.Status, &inc.CreatedAt, &inc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if photo.Valid {
		inc.PhotoURL = &photo.String
	}
	return &inc, nil
}
