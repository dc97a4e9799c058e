package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ciclored/ciclored-api/internal/database"
	"github.com/ciclored/ciclored-api/internal/model"
	"github.com/ciclored/ciclored-api/internal/utils"
)

// ProfileRepo manages the one-to-one `profiles` table.  Rows are created
// lazily on the first write.
type ProfileRepo struct {
	db      *sql.DB
	dialect database.Dialect
}

func NewProfileRepo(db *sql.DB, dialect database.Dialect) *ProfileRepo {
	return &ProfileRepo{db: db, dialect: dialect}
}

const profileUpsertMySQL = `INSERT INTO profiles (user_id, avatar_url, bio, city, level, achievements,
		notifications, dark_mode, private_profile, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON DUPLICATE KEY UPDATE
		avatar_url = VALUES(avatar_url), bio = VALUES(bio), city = VALUES(city),
		level = VALUES(level), achievements = VALUES(achievements),
		notifications = VALUES(notifications), dark_mode = VALUES(dark_mode),
		private_profile = VALUES(private_profile), updated_at = VALUES(updated_at)`

const profileUpsertSQLite = `INSERT INTO profiles (user_id, avatar_url, bio, city, level, achievements,
		notifications, dark_mode, private_profile, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (user_id) DO UPDATE SET
		avatar_url = excluded.avatar_url, bio = excluded.bio, city = excluded.city,
		level = excluded.level, achievements = excluded.achievements,
		notifications = excluded.notifications, dark_mode = excluded.dark_mode,
		private_profile = excluded.private_profile, updated_at = excluded.updated_at`

// Get returns the user's identity, profile and statistics.  Users that
// never saved a profile get the defaults.  ErrNotFound means the user
// itself does not exist.
func (r *ProfileRepo) Get(ctx context.Context, userID uint64) (*model.UserProfile, error) {
	const q = `SELECT u.id, u.name, u.email, u.phone, u.created_at, u.updated_at,
		p.avatar_url, p.bio, p.city, p.level, p.achievements,
		p.notifications, p.dark_mode, p.private_profile, p.updated_at
		FROM users u LEFT JOIN profiles p ON p.user_id = u.id
		WHERE u.id = ?`
	var (
		up           model.UserProfile
		avatar, bio  sql.NullString
		city, level  sql.NullString
		achievements sql.NullInt64
		notif, dark  sql.NullBool
		private      sql.NullBool
		updated      sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, q, userID).Scan(
		&up.User.ID, &up.User.Name, &up.User.Email, &up.User.Phone, &up.User.CreatedAt, &up.User.UpdatedAt,
		&avatar, &bio, &city, &level, &achievements, &notif, &dark, &private, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query profile: %w", err)
	}

	up.Profile = model.DefaultProfile(userID) // LEFT JOIN columns are NULL until the first save
	if level.Valid { // a profile row exists
		up.Profile.AvatarURL = avatar.String
		up.Profile.Bio = bio.String
		up.Profile.City = city.String
		up.Profile.Level = level.String
		up.Profile.Achievements = int(achievements.Int64)
		up.Profile.Notifications = notif.Bool
		up.Profile.DarkMode = dark.Bool
		up.Profile.PrivateProfile = private.Bool
		up.Profile.UpdatedAt = updated.Time
	}

	if up.Stats, err = r.stats(ctx, userID); err != nil {
		return nil, err
	}
	return &up, nil
}

// Upsert inserts the profile or overwrites every field of the existing one.
func (r *ProfileRepo) Upsert(ctx context.Context, p *model.Profile) (*model.UserProfile, error) {
	if p.Achievements < 0 {
		return nil, &model.ValidationError{Fields: []string{"achievements"}}
	}
	if p.Level = strings.TrimSpace(p.Level); p.Level == "" {
		p.Level = model.DefaultLevel
	}
	if err := r.requireUser(ctx, p.UserID); err != nil {
		return nil, err
	}

	q := profileUpsertMySQL
	if r.dialect == database.SQLite {
		q = profileUpsertSQLite
	}
	_, err := r.db.ExecContext(ctx, q,
		p.UserID, strings.TrimSpace(p.AvatarURL), strings.TrimSpace(p.Bio), strings.TrimSpace(p.City),
		p.Level, p.Achievements, p.Notifications, p.DarkMode, p.PrivateProfile, utils.Now())
	if err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}
	return r.Get(ctx, p.UserID)
}

// PatchSetting flips one of the three boolean settings.  Any other name
// fails with ErrInvalidField.
func (r *ProfileRepo) PatchSetting(ctx context.Context, userID uint64, name string, value bool) (*model.UserProfile, error) {
	column := model.NormalizeSetting(name)
	if column == "" {
		return nil, ErrInvalidField
	}
	if err := r.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	insert := "INSERT IGNORE INTO profiles (user_id, bio, updated_at) VALUES (?, '', ?)"
	if r.dialect == database.SQLite {
		insert = "INSERT OR IGNORE INTO profiles (user_id, bio, updated_at) VALUES (?, '', ?)"
	}
	now := utils.Now()
	if _, err := r.db.ExecContext(ctx, insert, userID, now); err != nil {
		return nil, fmt.Errorf("ensure profile: %w", err)
	}
	// column comes from the allow-list above, never from the request
	if _, err := r.db.ExecContext(ctx,
		"UPDATE profiles SET "+column+" = ?, updated_at = ? WHERE user_id = ?", value, now, userID); err != nil {
		return nil, fmt.Errorf("patch setting: %w", err)
	}
	return r.Get(ctx, userID)
}

func (r *ProfileRepo) requireUser(ctx context.Context, userID uint64) error {
	ok, err := userExists(ctx, r.db, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// stats aggregates the user's routes and incidents.
func (r *ProfileRepo) stats(ctx context.Context, userID uint64) (model.RouteStats, error) {
	var s model.RouteStats
	const qRoutes = `SELECT COUNT(*),
		COALESCE(SUM(CASE WHEN completed THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(distance), 0), COALESCE(SUM(duration), 0), COALESCE(SUM(elevation), 0)
		FROM routes WHERE user_id = ?`
	if err := r.db.QueryRowContext(ctx, qRoutes, userID).Scan(
		&s.Routes, &s.Completed, &s.Distance, &s.Duration, &s.Elevation); err != nil {
		return s, fmt.Errorf("route stats: %w", err)
	}
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM incidents WHERE user_id = ?", userID).Scan(&s.Incidents); err != nil {
		return s, fmt.Errorf("incident stats: %w", err)
	}
	s.Finish()
	return s, nil
}
