package entity

type Theme struct {
	Name      string
	Bg        string
	BgLighter string
	Card      string
	Primary   string
	Secondary string
	Text      string
	TextSoft  string
}

const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

var (
	DarkTheme = Theme{
		Name:      ThemeDark,
		Bg:        "#0f1512",
		BgLighter: "#1b2620",
		Card:      "#17201b",
		Primary:   "#4caf50",
		Secondary: "#2e7d32",
		Text:      "#f2f5f3",
		TextSoft:  "#b3c2b8",
	}
	LightTheme = Theme{
		Name:      ThemeLight,
		Bg:        "#f4f8f5",
		BgLighter: "#ffffff",
		Card:      "#ffffff",
		Primary:   "#43a047",
		Secondary: "#1b5e20",
		Text:      "#111a14",
		TextSoft:  "#4a5a50",
	}
)

// ThemeByName defaults to the dark theme for unrecognized names.
func ThemeByName(name string) Theme {
	if name == ThemeLight {
		return LightTheme
	}
	return DarkTheme
}

// Toggled returns the other theme.
func (t Theme) Toggled() Theme {
	if t.Name == ThemeDark {
		return LightTheme
	}
	return DarkTheme
}
