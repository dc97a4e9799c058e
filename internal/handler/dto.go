package handler

import (
	"math"
	"time"

	"github.com/ciclored/ciclored-api/internal/model"
)

// ----- requests -----

type registerReq struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"max=32"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type loginReq struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type routeReq struct {
	Name          string             `json:"name"`
	Distance      float64            `json:"distance" validate:"gte=0"`
	Type          string             `json:"type"`
	Rating        int                `json:"rating" validate:"gte=0,lte=5"`
	Completed     bool               `json:"completed"`
	Color         string             `json:"color"`
	Coordinates   []model.Coordinate `json:"coordinates"`
	StartLocation *string            `json:"start_location"`
}

type locationReq struct {
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`
	Address string   `json:"address"`
}

type incidentReq struct {
	Category    string       `json:"category"`
	Description string       `json:"description"`
	PhotoURL    *string      `json:"photo_url"`
	Location    *locationReq `json:"location"`
}

type statusReq struct {
	Status string `json:"status" validate:"required"`
}

type profileReq struct {
	AvatarURL      string `json:"avatar_url" validate:"max=512"`
	Bio            string `json:"bio"`
	City           string `json:"city" validate:"max=100"`
	Level          string `json:"level" validate:"max=50"`
	Achievements   int    `json:"achievements" validate:"gte=0"`
	Notifications  *bool  `json:"notifications"`
	DarkMode       bool   `json:"dark_mode"`
	PrivateProfile bool   `json:"private_profile"`
}

type settingReq struct {
	Field string `json:"field" validate:"required"`
	Value *bool  `json:"value" validate:"required"`
}

func (r registerReq) toModel() model.NewUser {
	return model.NewUser{Name: r.Name, Email: r.Email, Phone: r.Phone, Password: r.Password}
}

func (r routeReq) toModel(ownerID uint64) *model.Route {
	return &model.Route{
		UserID:        ownerID,
		Name:          r.Name,
		Distance:      r.Distance,
		Type:          r.Type,
		Rating:        r.Rating,
		Completed:     r.Completed,
		Color:         r.Color,
		Coordinates:   r.Coordinates,
		StartLocation: r.StartLocation,
	}
}

func (r incidentReq) toModel(ownerID uint64) *model.Incident {
	// NaN marks an absent coordinate so the model rejects the location.
	loc := model.Location{Latitude: math.NaN(), Longitude: math.NaN()}
	if r.Location != nil {
		if r.Location.Lat != nil && r.Location.Lng != nil {
			loc.Latitude, loc.Longitude = *r.Location.Lat, *r.Location.Lng
		}
		loc.Address = r.Location.Address
	}
	return &model.Incident{
		UserID:      ownerID,
		Category:    r.Category,
		Description: r.Description,
		PhotoURL:    r.PhotoURL,
		Location:    loc,
	}
}

func (r profileReq) toModel(userID uint64) *model.Profile {
	p := model.DefaultProfile(userID)
	p.AvatarURL = r.AvatarURL
	p.Bio = r.Bio
	p.City = r.City
	p.Level = r.Level
	p.Achievements = r.Achievements
	if r.Notifications != nil {
		p.Notifications = *r.Notifications
	}
	p.DarkMode = r.DarkMode
	p.PrivateProfile = r.PrivateProfile
	return &p
}

// ----- responses -----

type userResp struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

type loginResp struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      userResp  `json:"user"`
}

type routeResp struct {
	ID            uint64             `json:"id"`
	UserID        uint64             `json:"user_id"`
	Name          string             `json:"name"`
	Distance      float64            `json:"distance"`
	Duration      int                `json:"duration"`
	Difficulty    string             `json:"difficulty"`
	Elevation     int                `json:"elevation"`
	Type          string             `json:"type"`
	Rating        int                `json:"rating"`
	Completed     bool               `json:"completed"`
	Color         string             `json:"color"`
	Coordinates   []model.Coordinate `json:"coordinates"`
	StartLocation *string            `json:"start_location"`
	CreatedAt     time.Time          `json:"created_at"`
}

type locationResp struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
}

type incidentResp struct {
	ID          uint64       `json:"id"`
	UserID      uint64       `json:"user_id"`
	Category    string       `json:"category"`
	Description string       `json:"description"`
	PhotoURL    *string      `json:"photo_url"`
	Location    locationResp `json:"location"`
	Reports     int          `json:"reports"`
	Status      string       `json:"status"`
	Severity    string       `json:"severity"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type profileResp struct {
	UserID         uint64           `json:"user_id"`
	Name           string           `json:"name"`
	Email          string           `json:"email"`
	Phone          string           `json:"phone"`
	AvatarURL      string           `json:"avatar_url"`
	Bio            string           `json:"bio"`
	City           string           `json:"city"`
	Level          string           `json:"level"`
	Achievements   int              `json:"achievements"`
	Notifications  bool             `json:"notifications"`
	DarkMode       bool             `json:"dark_mode"`
	PrivateProfile bool             `json:"private_profile"`
	Stats          model.RouteStats `json:"stats"`
	MemberSince    time.Time        `json:"member_since"`
	UpdatedAt      *time.Time       `json:"updated_at"`
}

func toUserResp(u *model.User) userResp {
	return userResp{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone, CreatedAt: u.CreatedAt}
}

func toRouteResp(r *model.Route) routeResp {
	return routeResp{
		ID:            r.ID,
		UserID:        r.UserID,
		Name:          r.Name,
		Distance:      r.Distance,
		Duration:      r.Duration,
		Difficulty:    r.Difficulty,
		Elevation:     r.Elevation,
		Type:          r.Type,
		Rating:        r.Rating,
		Completed:     r.Completed,
		Color:         r.Color,
		Coordinates:   r.Coordinates,
		StartLocation: r.StartLocation,
		CreatedAt:     r.CreatedAt,
	}
}

func toIncidentResp(i *model.Incident) incidentResp {
	return incidentResp{
		ID:          i.ID,
		UserID:      i.UserID,
		Category:    i.Category,
		Description: i.Description,
		PhotoURL:    i.PhotoURL,
		Location:    locationResp{Lat: i.Location.Latitude, Lng: i.Location.Longitude, Address: i.Location.Address},
		Reports:     i.Reports,
		Status:      i.Status,
		Severity:    i.Severity(),
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

func toProfileResp(up *model.UserProfile) profileResp {
	resp := profileResp{
		UserID:         up.User.ID,
		Name:           up.User.Name,
		Email:          up.User.Email,
		Phone:          up.User.Phone,
		AvatarURL:      up.Profile.AvatarURL,
		Bio:            up.Profile.Bio,
		City:           up.Profile.City,
		Level:          up.Profile.Level,
		Achievements:   up.Profile.Achievements,
		Notifications:  up.Profile.Notifications,
		DarkMode:       up.Profile.DarkMode,
		PrivateProfile: up.Profile.PrivateProfile,
		Stats:          up.Stats,
		MemberSince:    up.User.CreatedAt,
	}
	if !up.Profile.UpdatedAt.IsZero() {
		t := up.Profile.UpdatedAt
		resp.UpdatedAt = &t
	}
	return resp
}

func mapSlice[T, R any](in []T, f func(T) R) []R {
	out := make([]R, 0, len(in))
	for _, v := range in {
		out = append(out, f(v))
	}
	return out
}
