package ui

import "image/color"

type Theme struct {
	AppBackground color.RGBA
	MenuBar       color.RGBA
	MenuButton    color.RGBA
	MenuHover     color.RGBA
	MenuText      color.RGBA
	MenuTextDim   color.RGBA
	Toolbar       color.RGBA
	ToolButton    color.RGBA
	ToolHover     color.RGBA
	ToolActive    color.RGBA
	ToolText      color.RGBA
	Canvas        color.RGBA
	Page          color.RGBA
	Border        color.RGBA
	Shadow        color.RGBA
	StatusBar     color.RGBA
	StatusText    color.RGBA
	Text          color.RGBA
	Link          color.RGBA
	Selection     color.RGBA
	Caret         color.RGBA
	ImageMissing  color.RGBA
	Scrollbar     color.RGBA
	ScrollThumb   color.RGBA

	MenuHeightDp    int
	ToolbarHeightDp int
	StatusHeightDp  int
	PageMarginDp    int
	PagePaddingDp   int
	MaxPageWidthDp  int
}

func DefaultTheme() Theme {
	return Theme{
		AppBackground: color.RGBA{0xF3, 0xF5, 0xF8, 0xFF},
		MenuBar:       color.RGBA{0x1F, 0x4E, 0x8C, 0xFF},
		MenuButton:    color.RGBA{0x2A, 0x5C, 0x9E, 0xFF},
		MenuHover:     color.RGBA{0x3A, 0x6E, 0xB4, 0xFF},
		MenuText:      color.RGBA{0xF4, 0xF8, 0xFF, 0xFF},
		MenuTextDim:   color.RGBA{0x8F, 0xA9, 0xCE, 0xFF},
		Toolbar:       color.RGBA{0xF7, 0xF9, 0xFC, 0xFF},
		ToolButton:    color.RGBA{0xF1, 0xF5, 0xFB, 0xFF},
		ToolHover:     color.RGBA{0xDF, 0xEC, 0xFC, 0xFF},
		ToolActive:    color.RGBA{0xCC, 0xDF, 0xF7, 0xFF},
		ToolText:      color.RGBA{0x2C, 0x3A, 0x52, 0xFF},
		Canvas:        color.RGBA{0xE2, 0xE7, 0xEF, 0xFF},
		Page:          color.RGBA{0xFF, 0xFF, 0xFF, 0xFF},
		Border:        color.RGBA{0xB2, 0xBF, 0xD0, 0xFF},
		Shadow:        color.RGBA{0xC8, 0xCF, 0xDB, 0xFF},
		StatusBar:     color.RGBA{0xEA, 0xEF, 0xF6, 0xFF},
		StatusText:    color.RGBA{0x2A, 0x38, 0x50, 0xFF},
		Text:          color.RGBA{0x20, 0x20, 0x20, 0xFF},
		Link:          color.RGBA{0x1A, 0x5F, 0xC8, 0xFF},
		Selection:     color.RGBA{0xBF, 0xD6, 0xFF, 0xFF},
		Caret:         color.RGBA{0x15, 0x54, 0xA4, 0xFF},
		ImageMissing:  color.RGBA{0xE6, 0xE9, 0xEE, 0xFF},
		Scrollbar:     color.RGBA{0xE7, 0xEC, 0xF4, 0xFF},
		ScrollThumb:   color.RGBA{0x9C, 0xAA, 0xBE, 0xFF},

		MenuHeightDp:    30,
		ToolbarHeightDp: 38,
		StatusHeightDp:  24,
		PageMarginDp:    16,
		PagePaddingDp:   14,
		MaxPageWidthDp:  1100,
	}
}
