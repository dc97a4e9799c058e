package repository_test

import (
	"database/sql"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ciclored/ciclored-api/internal/database/databasetest"
	"github.com/ciclored/ciclored-api/internal/model"
	"github.com/ciclored/ciclored-api/internal/repository"
)

type fixture struct {
	db        *sql.DB
	users     *repository.UserRepo
	routes    *repository.RouteRepo
	incidents *repository.IncidentRepo
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := databasetest.Open(t)
	return fixture{
		db:        db,
		users:     repository.NewUserRepo(db, bcrypt.MinCost),
		routes:    repository.NewRouteRepo(db),
		incidents: repository.NewIncidentRepo(db),
	}
}

func fakeNewUser() model.NewUser {
	return model.NewUser{
		Name:     gofakeit.Name(),
		Email:    gofakeit.Email(),
		Phone:    gofakeit.Phone(),
		Password: gofakeit.Password(true, true, true, false, false, 12),
	}
}

func (f fixture) user(t *testing.T) *model.User {
	t.Helper()
	u, err := f.users.Register(t.Context(), fakeNewUser())
	require.NoError(t, err)
	return u
}

func twoPoints() []model.Coordinate {
	return []model.Coordinate{
		{Latitude: 4.6097, Longitude: -74.0817},
		{Latitude: 4.6486, Longitude: -74.0628},
	}
}

func newIncident(ownerID uint64) *model.Incident {
	return &model.Incident{
		UserID:      ownerID,
		Category:    model.CategoryAccident,
		Description: "choque en la ciclovía",
		Location:    model.Location{Latitude: 4.65, Longitude: -74.05, Address: "Calle 26 # 10"},
	}
}
