package web

import "TumorDetector/internal/entity"

const ThemeCookie = "theme"

type PageData struct {
	Theme          entity.Theme
	NextTheme      entity.Theme
	Images         []entity.UploadedImage
	Cards          []ResultCard
	Alerts         []string
	ShowPrediction bool
}

func NewPageData(themeName string) PageData {
	theme := entity.ThemeByName(themeName)
	return PageData{
		Theme:     theme,
		NextTheme: theme.Toggled(),
	}
}
