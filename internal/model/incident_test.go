package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverityFor(t *testing.T) {
	t.Parallel()

	tests := map[int]string{
		0:  SeverityLow,
		1:  SeverityLow,
		2:  SeverityMedium,
		4:  SeverityMedium,
		5:  SeverityHigh,
		9:  SeverityHigh,
		10: SeverityCritical,
		42: SeverityCritical,
	}
	for reports, want := range tests {
		assert.Equal(t, want, SeverityFor(reports), "reports %d", reports)
	}

	inc := Incident{Reports: 3}
	assert.Equal(t, SeverityMedium, inc.Severity())
	inc.Reports = 11
	assert.Equal(t, SeverityCritical, inc.Severity())
}

func TestNormalizeCategory(t *testing.T) {
	t.Parallel()

	assert.Equal(t, CategoryAccident, NormalizeCategory(" Accidente "))
	assert.Equal(t, CategoryObstacle, NormalizeCategory("obstáculo"))
	assert.Equal(t, CategoryTheft, NormalizeCategory("theft"))
	assert.Empty(t, NormalizeCategory("bache"))
}

func TestCanTransition(t *testing.T) {
	t.Parallel()

	assert.True(t, CanTransition(StatusActive, StatusAttended))
	assert.True(t, CanTransition(StatusReported, StatusAttended))
	assert.True(t, CanTransition(StatusActive, StatusReported))
	assert.True(t, CanTransition(StatusAttended, StatusAttended))
	assert.False(t, CanTransition(StatusAttended, StatusActive))
	assert.False(t, CanTransition(StatusActive, "Cerrado"))
}

func TestIncidentValidate(t *testing.T) {
	t.Parallel()

	empty := ""
	inc := Incident{
		Category:    "ACCIDENTE",
		Description: "  choque en la ciclovía ",
		PhotoURL:    &empty,
		Location:    Location{Latitude: 4.65, Longitude: -74.05, Address: "Calle 26"},
	}
	require.NoError(t, inc.Validate())
	assert.Equal(t, CategoryAccident, inc.Category)
	assert.Equal(t, "choque en la ciclovía", inc.Description)
	assert.Nil(t, inc.PhotoURL)

	bad := Incident{Category: "meteorito", Location: Location{Latitude: 100}}
	var verr *ValidationError
	require.ErrorAs(t, bad.Validate(), &verr)
	assert.Equal(t, []string{"category", "description", "location", "location.address"}, verr.Fields)
}

func TestNormalizeSetting(t *testing.T) {
	t.Parallel()

	assert.Equal(t, SettingDarkMode, NormalizeSetting("darkMode"))
	assert.Equal(t, SettingNotifications, NormalizeSetting("notifications"))
	assert.Empty(t, NormalizeSetting("is_admin"))
}
