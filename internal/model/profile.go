package model

import "time"

// Profile defaults used until the user saves their own values.
const (
	DefaultLevel = "Principiante"
)

// Setting names accepted by PATCH /profile/settings.
const (
	SettingNotifications  = "notifications"
	SettingDarkMode       = "dark_mode"
	SettingPrivateProfile = "private_profile"
)

var settingAliases = map[string]string{
	SettingNotifications:  SettingNotifications,
	SettingDarkMode:       SettingDarkMode,
	"darkMode":            SettingDarkMode,
	SettingPrivateProfile: SettingPrivateProfile,
	"privateProfile":      SettingPrivateProfile,
}

// NormalizeSetting maps a client setting name to its column, or "" when the
// name is not one of the three boolean settings.
func NormalizeSetting(name string) string {
	return settingAliases[name]
}

// Profile mirrors the `profiles` table.  It is one-to-one with a user.
type Profile struct {
	UserID         uint64    // profiles.user_id
	AvatarURL      string    // profiles.avatar_url
	Bio            string    // profiles.bio
	City           string    // profiles.city
	Level          string    // profiles.level
	Achievements   int       // profiles.achievements
	Notifications  bool      // profiles.notifications
	DarkMode       bool      // profiles.dark_mode
	PrivateProfile bool      // profiles.private_profile
	UpdatedAt      time.Time // profiles.updated_at
}

// DefaultProfile is what a user sees before their first profile write.
func DefaultProfile(userID uint64) Profile {
	return Profile{
		UserID:        userID,
		Level:         DefaultLevel,
		Notifications: true,
	}
}

// UserProfile joins a user's identity with their profile for GET /profile.
type UserProfile struct {
	User    User
	Profile Profile
	Stats   RouteStats
}
