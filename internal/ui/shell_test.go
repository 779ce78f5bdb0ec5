package ui

import (
	"image"
	"testing"

	"bluedoc/internal/render"
)

func TestComputeLayoutStacksRegions(t *testing.T) {
	theme := DefaultTheme()
	l := ComputeLayout(800, 600, theme, 1)

	if l.Menu.Min.Y != 0 || l.Menu.Dy() != theme.MenuHeightDp {
		t.Fatalf("unexpected menu rect %v", l.Menu)
	}
	if l.Toolbar.Min.Y != l.Menu.Max.Y {
		t.Fatalf("toolbar should follow menu: %v %v", l.Menu, l.Toolbar)
	}
	if l.Status.Max.Y != 600 {
		t.Fatalf("status bar should end at the window bottom, got %v", l.Status)
	}
	if !l.Content.In(l.Page) {
		t.Fatalf("content %v outside page %v", l.Content, l.Page)
	}
	if !l.Page.In(l.Canvas) {
		t.Fatalf("page %v outside canvas %v", l.Page, l.Canvas)
	}
}

func TestComputeLayoutCapsPageWidth(t *testing.T) {
	theme := DefaultTheme()
	l := ComputeLayout(4000, 900, theme, 1)
	if l.Page.Dx() != theme.MaxPageWidthDp {
		t.Fatalf("expected capped page width %d, got %d", theme.MaxPageWidthDp, l.Page.Dx())
	}
	if mid := (l.Page.Min.X + l.Page.Max.X) / 2; mid != 2000 {
		t.Fatalf("page should be centered, midpoint %d", mid)
	}
}

func TestDrawShellPaintsPage(t *testing.T) {
	theme := DefaultTheme()
	fb := render.NewFrameBuffer(800, 600)
	l := ComputeLayout(800, 600, theme, 1)
	DrawShell(fb, theme, l)

	c := l.Content.Min.Add(image.Pt(5, 5))
	if got := fb.At(c.X, c.Y); got != theme.Page {
		t.Fatalf("expected page color inside content, got %v", got)
	}
	if got := fb.At(5, 5); got != theme.MenuBar {
		t.Fatalf("expected menu bar color, got %v", got)
	}
}
