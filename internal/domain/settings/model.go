package settings

import "time"

// Theme de la interfaz.
// @Enum light, dark
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

type Settings struct {
	UserID    string
	Theme     Theme
	UpdatedAt time.Time
}

func Defaults(userID string) Settings {
	return Settings{UserID: userID, Theme: ThemeLight}
}
