package repository_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ciclored/ciclored-api/internal/database"
	"github.com/ciclored/ciclored-api/internal/model"
	"github.com/ciclored/ciclored-api/internal/repository"
)

func TestProfileGetDefaults(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	profiles := repository.NewProfileRepo(f.db, database.SQLite)
	u := f.user(t)

	up, err := profiles.Get(t.Context(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, up.User.Email)
	assert.Equal(t, model.DefaultLevel, up.Profile.Level)
	assert.True(t, up.Profile.Notifications)
	assert.False(t, up.Profile.DarkMode)
	assert.Zero(t, up.Stats.Routes)

	_, err = profiles.Get(t.Context(), u.ID+50)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProfileUpsertOverwritesAllFields(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	profiles := repository.NewProfileRepo(f.db, database.SQLite)
	u := f.user(t)

	up, err := profiles.Upsert(t.Context(), &model.Profile{
		UserID: u.ID, Bio: "ruta diaria", City: "Bogotá", Level: "Experto",
		Achievements: 3, Notifications: true, DarkMode: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Bogotá", up.Profile.City)
	assert.Equal(t, 3, up.Profile.Achievements)
	assert.True(t, up.Profile.DarkMode)

	up, err = profiles.Upsert(t.Context(), &model.Profile{UserID: u.ID, City: "Medellín"})
	require.NoError(t, err)
	assert.Equal(t, "Medellín", up.Profile.City)
	assert.Empty(t, up.Profile.Bio)
	assert.Equal(t, model.DefaultLevel, up.Profile.Level)
	assert.Zero(t, up.Profile.Achievements)
	assert.False(t, up.Profile.Notifications)
	assert.False(t, up.Profile.DarkMode)

	var rows int
	require.NoError(t, f.db.QueryRowContext(t.Context(),
		"SELECT COUNT(*) FROM profiles WHERE user_id = ?", u.ID).Scan(&rows))
	assert.Equal(t, 1, rows)
}

func TestProfileUpsertValidation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	profiles := repository.NewProfileRepo(f.db, database.SQLite)
	u := f.user(t)

	_, err := profiles.Upsert(t.Context(), &model.Profile{UserID: u.ID, Achievements: -1})
	var verr *model.ValidationError
	require.True(t, errors.As(err, &verr))

	_, err = profiles.Upsert(t.Context(), &model.Profile{UserID: u.ID + 50})
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProfilePatchSetting(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	profiles := repository.NewProfileRepo(f.db, database.SQLite)
	u := f.user(t)

	up, err := profiles.PatchSetting(t.Context(), u.ID, "darkMode", true)
	require.NoError(t, err)
	assert.True(t, up.Profile.DarkMode)
	assert.True(t, up.Profile.Notifications, "row created with defaults")
	assert.Equal(t, model.DefaultLevel, up.Profile.Level)

	up, err = profiles.PatchSetting(t.Context(), u.ID, model.SettingNotifications, false)
	require.NoError(t, err)
	assert.False(t, up.Profile.Notifications)
	assert.True(t, up.Profile.DarkMode)

	_, err = profiles.PatchSetting(t.Context(), u.ID, "password_hash", true)
	require.ErrorIs(t, err, repository.ErrInvalidField)

	_, err = profiles.PatchSetting(t.Context(), u.ID+50, model.SettingDarkMode, true)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProfileStats(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	profiles := repository.NewProfileRepo(f.db, database.SQLite)
	u, other := f.user(t), f.user(t)

	require.NoError(t, f.routes.Create(t.Context(),
		&model.Route{UserID: u.ID, Distance: 10, Completed: true, Coordinates: twoPoints()}))
	require.NoError(t, f.routes.Create(t.Context(),
		&model.Route{UserID: u.ID, Distance: 5, Coordinates: twoPoints()}))
	require.NoError(t, f.routes.Create(t.Context(),
		&model.Route{UserID: other.ID, Distance: 50, Coordinates: twoPoints()}))
	require.NoError(t, f.incidents.Create(t.Context(), newIncident(u.ID)))

	up, err := profiles.Get(t.Context(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RouteStats{
		Routes:    2,
		Completed: 1,
		Distance:  15,
		Duration:  45,
		Elevation: 225,
		Calories:  600,
		CO2Saved:  3.15,
		Incidents: 1,
	}, up.Stats)
}
