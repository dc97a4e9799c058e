package model

import (
	"strings"
	"time"
)

// Incident categories.
const (
	CategoryObstacle       = "obstaculo"
	CategoryAccident       = "accidente"
	CategoryTheft          = "robo"
	CategoryInfrastructure = "infraestructura"
	CategoryOther          = "otro"
)

// Incident statuses.  StatusAttended is terminal.
const (
	StatusActive   = "Activo"
	StatusAttended = "Atendido"
	StatusReported = "Reportado"

	DefaultIncidentStatus = StatusActive
)

// Severity levels, derived from the reports counter.
const (
	SeverityCritical = "Crítica"
	SeverityHigh     = "Alta"
	SeverityMedium   = "Media"
	SeverityLow      = "Baja"
)

var categoryAliases = map[string]string{
	CategoryObstacle:       CategoryObstacle,
	"obstáculo":            CategoryObstacle,
	"obstacle":             CategoryObstacle,
	CategoryAccident:       CategoryAccident,
	"accident":             CategoryAccident,
	CategoryTheft:          CategoryTheft,
	"theft":                CategoryTheft,
	CategoryInfrastructure: CategoryInfrastructure,
	"infrastructure":       CategoryInfrastructure,
	CategoryOther:          CategoryOther,
	"other":                CategoryOther,
}

// Location is where an incident happened.
type Location struct {
	Latitude  float64
	Longitude float64
	Address   string
}

// Incident mirrors the `incidents` table.  Severity is intentionally absent:
// it is computed from Reports on every read.
type Incident struct {
	ID          uint64    // incidents.id
	UserID      uint64    // incidents.user_id
	Category    string    // incidents.category
	Description string    // incidents.description
	PhotoURL    *string   // incidents.photo_url (nullable)
	Location    Location  // incidents.latitude, longitude, address
	Reports     int       // incidents.reports
	Status      string    // incidents.status
	CreatedAt   time.Time // incidents.created_at
	UpdatedAt   time.Time // incidents.updated_at
}

// Severity derives the incident's severity from its current reports count.
func (i *Incident) Severity() string {
	return SeverityFor(i.Reports)
}

// SeverityFor maps a reports count to a severity level.
func SeverityFor(reports int) string {
	switch {
	case reports >= 10:
		return SeverityCritical
	case reports >= 5:
		return SeverityHigh
	case reports >= 2:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// NormalizeCategory returns the canonical category for user input, or ""
// when the value is not a known category.
func NormalizeCategory(s string) string {
	return categoryAliases[strings.ToLower(strings.TrimSpace(s))]
}

// NormalizeStatus returns the canonical status for user input, or "" when
// the value is unknown.  Matching is case-insensitive.
func NormalizeStatus(s string) string {
	s = strings.TrimSpace(s)
	for _, st := range []string{StatusActive, StatusAttended, StatusReported} {
		if strings.EqualFold(s, st) {
			return st
		}
	}
	return ""
}

// CanTransition reports whether an incident may move from one status to
// another.  Attended incidents stay attended.
func CanTransition(from, to string) bool {
	if from == StatusAttended {
		return to == StatusAttended
	}
	return NormalizeStatus(to) != ""
}

// Validate normalizes the category and checks required fields.
func (i *Incident) Validate() error {
	var errs fieldErrors
	if c := NormalizeCategory(i.Category); c == "" {
		errs.add("category")
	} else {
		i.Category = c
	}
	if i.Description = strings.TrimSpace(i.Description); i.Description == "" {
		errs.add("description")
	}
	if !validLatLng(i.Location.Latitude, i.Location.Longitude) {
		errs.add("location")
	}
	if i.Location.Address = strings.TrimSpace(i.Location.Address); i.Location.Address == "" {
		errs.add("location.address")
	}
	if i.PhotoURL != nil && strings.TrimSpace(*i.PhotoURL) == "" {
		i.PhotoURL = nil
	}
	return errs.err()
}
