package repository_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ciclored/ciclored-api/internal/model"
	"github.com/ciclored/ciclored-api/internal/repository"
)

func TestIncidentCreateDefaults(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	u := f.user(t)

	inc := newIncident(u.ID)
	inc.Category = "Obstáculo"
	inc.Reports, inc.Status = 7, model.StatusAttended // ignored on create
	require.NoError(t, f.incidents.Create(t.Context(), inc))

	got, err := f.incidents.GetByIDAndOwner(t.Context(), inc.ID, u.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CategoryObstacle, got.Category)
	assert.Zero(t, got.Reports)
	assert.Equal(t, model.StatusActive, got.Status)
	assert.Equal(t, model.SeverityLow, got.Severity())
	assert.Nil(t, got.PhotoURL)
	assert.Equal(t, "Calle 26 # 10", got.Location.Address)
}

func TestIncidentCreateValidation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	u := f.user(t)

	err := f.incidents.Create(t.Context(), &model.Incident{UserID: u.ID, Category: "meteorito"})
	var verr *model.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"category", "description", "location.address"}, verr.Fields)

	list, err := f.incidents.ListByOwner(t.Context(), u.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestIncidentConcurrentReports(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	u := f.user(t)

	inc := newIncident(u.ID)
	require.NoError(t, f.incidents.Create(t.Context(), inc))

	const n = 25
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.incidents.IncrementReports(t.Context(), inc.ID, u.ID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := f.incidents.GetByIDAndOwner(t.Context(), inc.ID, u.ID)
	require.NoError(t, err)
	assert.Equal(t, n, got.Reports)
	assert.Equal(t, model.SeverityCritical, got.Severity())
}

func TestIncidentReportOwnerScoped(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	alice, bob := f.user(t), f.user(t)

	inc := newIncident(alice.ID)
	require.NoError(t, f.incidents.Create(t.Context(), inc))

	_, err := f.incidents.IncrementReports(t.Context(), inc.ID, bob.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)
	_, err = f.incidents.IncrementReports(t.Context(), inc.ID+1, alice.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)

	got, err := f.incidents.GetByIDAndOwner(t.Context(), inc.ID, alice.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Reports)
}

func TestIncidentSetStatusTransitions(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	alice, bob := f.user(t), f.user(t)

	inc := newIncident(alice.ID)
	require.NoError(t, f.incidents.Create(t.Context(), inc))

	_, err := f.incidents.SetStatus(t.Context(), inc.ID, alice.ID, "cerrado")
	var verr *model.ValidationError
	require.True(t, errors.As(err, &verr))

	_, err = f.incidents.SetStatus(t.Context(), inc.ID, bob.ID, model.StatusAttended)
	require.ErrorIs(t, err, repository.ErrNotFound)

	got, err := f.incidents.SetStatus(t.Context(), inc.ID, alice.ID, "reportado")
	require.NoError(t, err)
	assert.Equal(t, model.StatusReported, got.Status)

	got, err = f.incidents.SetStatus(t.Context(), inc.ID, alice.ID, model.StatusAttended)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAttended, got.Status)

	// attended is terminal, re-setting it is a no-op
	_, err = f.incidents.SetStatus(t.Context(), inc.ID, alice.ID, model.StatusActive)
	require.ErrorIs(t, err, repository.ErrInvalidTransition)
	got, err = f.incidents.SetStatus(t.Context(), inc.ID, alice.ID, model.StatusAttended)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAttended, got.Status)
}

func TestIncidentDeleteIdempotent(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	alice, bob := f.user(t), f.user(t)

	inc := newIncident(alice.ID)
	require.NoError(t, f.incidents.Create(t.Context(), inc))

	require.NoError(t, f.incidents.DeleteByIDAndOwner(t.Context(), inc.ID, bob.ID))
	list, err := f.incidents.ListByOwner(t.Context(), alice.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, f.incidents.DeleteByIDAndOwner(t.Context(), inc.ID, alice.ID))
	require.NoError(t, f.incidents.DeleteByIDAndOwner(t.Context(), inc.ID, alice.ID))
	list, err = f.incidents.ListByOwner(t.Context(), alice.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
