// Package ui computes the window regions of the editor and paints the static
// chrome behind them.
package ui

import (
	"image"

	"bluedoc/internal/render"
)

// Layout holds the window regions in screen pixels.
type Layout struct {
	Menu    image.Rectangle
	Toolbar image.Rectangle
	Canvas  image.Rectangle
	Page    image.Rectangle
	Content image.Rectangle
	Status  image.Rectangle
}

func ComputeLayout(w, h int, theme Theme, scale float32) Layout {
	if scale <= 0 {
		scale = 1
	}
	dp := func(v int) int { return int(float32(v) * scale) }

	menuH := dp(theme.MenuHeightDp)
	toolbarH := dp(theme.ToolbarHeightDp)
	statusH := dp(theme.StatusHeightDp)
	margin := dp(theme.PageMarginDp)
	pad := dp(theme.PagePaddingDp)

	canvasTop := menuH + toolbarH
	canvasBottom := max(canvasTop, h-statusH)

	pageW := min(w-margin*2, dp(theme.MaxPageWidthDp))
	pageW = max(pageW, dp(240))
	pageX := (w - pageW) / 2
	pageH := max(canvasBottom-canvasTop-margin*2, dp(120))
	page := image.Rect(pageX, canvasTop+margin, pageX+pageW, canvasTop+margin+pageH)

	content := image.Rect(page.Min.X+pad, page.Min.Y+pad, page.Max.X-pad, page.Max.Y-pad)
	if content.Dx() < dp(80) {
		content.Max.X = content.Min.X + dp(80)
	}
	if content.Dy() < dp(60) {
		content.Max.Y = content.Min.Y + dp(60)
	}

	return Layout{
		Menu:    image.Rect(0, 0, w, menuH),
		Toolbar: image.Rect(0, menuH, w, canvasTop),
		Canvas:  image.Rect(0, canvasTop, w, canvasBottom),
		Page:    page,
		Content: content,
		Status:  image.Rect(0, canvasBottom, w, canvasBottom+statusH),
	}
}

// DrawShell paints the bars, the canvas and the page frame.
func DrawShell(fb *render.FrameBuffer, theme Theme, layout Layout) {
	fb.Clear(theme.AppBackground)

	fb.FillRect(layout.Menu, theme.MenuBar)
	fb.FillRect(layout.Toolbar, theme.Toolbar)
	fb.StrokeRect(layout.Toolbar, 1, theme.Border)

	fb.FillRect(layout.Canvas, theme.Canvas)
	fb.FillRect(layout.Page.Add(image.Pt(2, 2)), theme.Shadow)
	fb.FillRect(layout.Page, theme.Page)
	fb.StrokeRect(layout.Page, 1, theme.Border)

	fb.FillRect(layout.Status, theme.StatusBar)
	fb.StrokeRect(layout.Status, 1, theme.Border)
}
