package model

import (
	"math"
	"strings"
	"time"
)

// Difficulty tiers derived from a route's distance.
const (
	DifficultyEasy     = "Fácil"
	DifficultyModerate = "Moderada"
	DifficultyHard     = "Difícil"
)

// Defaults applied to optional route fields.
const (
	DefaultRouteName  = "Nueva ruta"
	DefaultRouteType  = "Recreativa"
	DefaultRouteColor = "#2E7D32"
)

// Derivation factors.
const (
	earthRadiusKm        = 6371.0
	minutesPerKm         = 3.0
	metersElevationPerKm = 15.0
	caloriesPerKm        = 40.0
	co2KgPerKm           = 0.21
	minRoutePoints       = 2
	maxRating            = 5
)

// Coordinate is a single point of a traced route.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Route mirrors the `routes` table.  Difficulty, Duration and Elevation are
// derived from Distance when the route is created.
type Route struct {
	ID            uint64       // routes.id
	UserID        uint64       // routes.user_id
	Name          string       // routes.name
	Distance      float64      // routes.distance, km
	Duration      int          // routes.duration, minutes
	Difficulty    string       // routes.difficulty
	Elevation     int          // routes.elevation, meters
	Type          string       // routes.type
	Rating        int          // routes.rating, 0..5
	Completed     bool         // routes.completed
	Color         string       // routes.color
	Coordinates   []Coordinate // routes.coordinates (JSON)
	StartLocation *string      // routes.start_location (nullable)
	CreatedAt     time.Time    // routes.created_at
}

// Validate checks the fields a route needs before it can be stored.
func (r *Route) Validate() error {
	var errs fieldErrors
	if len(r.Coordinates) < minRoutePoints {
		errs.add("coordinates")
	}
	for _, p := range r.Coordinates {
		if !validLatLng(p.Latitude, p.Longitude) {
			errs.add("coordinates")
			break
		}
	}
	if r.Distance < 0 || math.IsNaN(r.Distance) || math.IsInf(r.Distance, 0) {
		errs.add("distance")
	}
	if r.Rating < 0 || r.Rating > maxRating {
		errs.add("rating")
	}
	return errs.err()
}

// Derive fills defaults and the fields computed from the distance.  When no
// distance was supplied it is measured along the coordinates.
func (r *Route) Derive() {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		r.Name = DefaultRouteName
	}
	if r.Type = strings.TrimSpace(r.Type); r.Type == "" {
		r.Type = DefaultRouteType
	}
	if r.Color = strings.TrimSpace(r.Color); r.Color == "" {
		r.Color = DefaultRouteColor
	}
	if r.Distance <= 0 {
		r.Distance = round2(PathDistance(r.Coordinates))
	}
	r.Difficulty = DifficultyFor(r.Distance)
	r.Duration = DurationFor(r.Distance)
	r.Elevation = ElevationFor(r.Distance)
}

// DifficultyFor maps a distance in km to its tier.
func DifficultyFor(km float64) string {
	switch {
	case km > 20:
		return DifficultyHard
	case km > 10:
		return DifficultyModerate
	default:
		return DifficultyEasy
	}
}

// DurationFor estimates riding minutes for a distance in km.
func DurationFor(km float64) int {
	return int(math.Round(km * minutesPerKm))
}

// ElevationFor estimates accumulated climb in meters for a distance in km.
func ElevationFor(km float64) int {
	return int(math.Round(km * metersElevationPerKm))
}

// CaloriesFor estimates burnt kcal for a distance in km.
func CaloriesFor(km float64) int {
	return int(math.Round(km * caloriesPerKm))
}

// CO2SavedFor estimates kg of CO2 not emitted by driving the same distance.
func CO2SavedFor(km float64) float64 {
	return round2(km * co2KgPerKm)
}

// Haversine returns the great-circle distance between two points in km.
func Haversine(a, b Coordinate) float64 {
	lat1, lat2 := radians(a.Latitude), radians(b.Latitude)
	dLat := lat2 - lat1
	dLng := radians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// PathDistance sums Haversine distances between consecutive points.
func PathDistance(points []Coordinate) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += Haversine(points[i-1], points[i])
	}
	return total
}

// RouteStats aggregates a user's routes for the profile screen.
type RouteStats struct {
	Routes    int     `json:"routes"`
	Completed int     `json:"completed_routes"`
	Distance  float64 `json:"total_distance"`
	Duration  int     `json:"total_duration"`
	Elevation int     `json:"total_elevation"`
	Calories  int     `json:"calories"`
	CO2Saved  float64 `json:"co2_saved"`
	Incidents int     `json:"incidents_reported"`
}

// Finish computes the estimates that depend on the total distance.
func (s *RouteStats) Finish() {
	s.Distance = round2(s.Distance)
	s.Calories = CaloriesFor(s.Distance)
	s.CO2Saved = CO2SavedFor(s.Distance)
}

func validLatLng(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func round2(v float64) float64 { return math.Round(v*100) / 100 }
