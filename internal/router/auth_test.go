package router_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ciclored/ciclored-api/internal/config"
	"github.com/ciclored/ciclored-api/internal/model"
	"github.com/ciclored/ciclored-api/internal/router"
	"github.com/ciclored/ciclored-api/internal/utils"
)

// spyStore implements every store interface and only counts calls.
type spyStore struct{ calls atomic.Int64 }

func (s *spyStore) hit() { s.calls.Add(1) }

func (s *spyStore) Register(context.Context, model.NewUser) (*model.User, error) {
	s.hit()
	return &model.User{}, nil
}

func (s *spyStore) Verify(context.Context, string, string) (*model.User, error) {
	s.hit()
	return &model.User{}, nil
}

func (s *spyStore) GetByID(context.Context, uint64) (*model.User, error) {
	s.hit()
	return &model.User{}, nil
}

type spyRoutes struct{ *spyStore }

func (s spyRoutes) ListByOwner(context.Context, uint64) ([]*model.Route, error) {
	s.hit()
	return nil, nil
}

func (s spyRoutes) Create(context.Context, *model.Route) error { s.hit(); return nil }

func (s spyRoutes) DeleteByIDAndOwner(context.Context, uint64, uint64) error { s.hit(); return nil }

type spyIncidents struct{ *spyStore }

func (s spyIncidents) ListByOwner(context.Context, uint64) ([]*model.Incident, error) {
	s.hit()
	return nil, nil
}

func (s spyIncidents) Create(context.Context, *model.Incident) error { s.hit(); return nil }

func (s spyIncidents) IncrementReports(context.Context, uint64, uint64) (*model.Incident, error) {
	s.hit()
	return &model.Incident{}, nil
}

func (s spyIncidents) SetStatus(context.Context, uint64, uint64, string) (*model.Incident, error) {
	s.hit()
	return &model.Incident{}, nil
}

func (s spyIncidents) DeleteByIDAndOwner(context.Context, uint64, uint64) error { s.hit(); return nil }

type spyProfiles struct{ *spyStore }

func (s spyProfiles) Get(context.Context, uint64) (*model.UserProfile, error) {
	s.hit()
	return &model.UserProfile{}, nil
}

func (s spyProfiles) Upsert(context.Context, *model.Profile) (*model.UserProfile, error) {
	s.hit()
	return &model.UserProfile{}, nil
}

func (s spyProfiles) PatchSetting(context.Context, uint64, string, bool) (*model.UserProfile, error) {
	s.hit()
	return &model.UserProfile{}, nil
}

func TestProtectedRoutesNeverReachStores(t *testing.T) {
	t.Parallel()

	spy := &spyStore{}
	e := router.New(router.Deps{
		Cfg:       config.Config{JWTSecret: secret, AccessTTL: time.Hour},
		Users:     spy,
		Routes:    spyRoutes{spy},
		Incidents: spyIncidents{spy},
		Profiles:  spyProfiles{spy},
	})

	expired, err := utils.NewAccessToken(secret, 1, "a@b.co", -time.Minute)
	assert.NoError(t, err)
	forged, err := utils.NewAccessToken("not-the-secret", 1, "a@b.co", time.Hour)
	assert.NoError(t, err)

	endpoints := []struct{ method, path string }{
		{http.MethodGet, "/me"},
		{http.MethodGet, "/routes"},
		{http.MethodPost, "/routes"},
		{http.MethodDelete, "/routes/1"},
		{http.MethodGet, "/incidents"},
		{http.MethodPost, "/incidents"},
		{http.MethodPatch, "/incidents/1/report"},
		{http.MethodPatch, "/incidents/1/status"},
		{http.MethodDelete, "/incidents/1"},
		{http.MethodGet, "/profile"},
		{http.MethodPost, "/profile"},
		{http.MethodPatch, "/profile/settings"},
	}
	headers := []string{"", "Token abc", "Bearer garbage", "Bearer " + expired.Token, "Bearer " + forged.Token}

	for _, prefix := range []string{"", router.APIPrefix} {
		for _, ep := range endpoints {
			for _, h := range headers {
				req := httptest.NewRequest(ep.method, prefix+ep.path, nil)
				if h != "" {
					req.Header.Set("Authorization", h)
				}
				rec := httptest.NewRecorder()
				e.ServeHTTP(rec, req)
				assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s%s with %q", ep.method, prefix, ep.path, h)
			}
		}
	}
	assert.Zero(t, spy.calls.Load(), "no store may be touched without a valid token")
}
