package domain

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

type Settings struct {
	UserID              int64  `json:"-"`
	Theme               string `json:"theme"`
	NotificationEnabled bool   `json:"notification_enabled"`
}

// DefaultSettings is what a user sees before saving any preferences.
func DefaultSettings(userID int64) Settings {
	return Settings{UserID: userID, Theme: ThemeLight, NotificationEnabled: true}
}

func ValidTheme(theme string) bool {
	return theme == ThemeLight || theme == ThemeDark
}
