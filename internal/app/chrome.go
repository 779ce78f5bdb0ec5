package app

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font"

	"bluedoc/pkg/bluedoc"
)

// fontSizes are the choices offered by the toolbar size dropdown.
var fontSizes = []int{12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, 36, 48, 64, 72, 96, 144, 288}

const (
	chromeFontSize = 12
	sizeOptionH    = 20
	sizePrefix     = "size:"
)

type actionButton struct {
	id       string
	label    string
	r        image.Rectangle
	active   bool
	disabled bool
}

// layoutChrome places the menu and toolbar buttons and paints their
// backgrounds into the frame buffer.
func (a *App) layoutChrome() {
	face := a.fonts.face(chromeFontSize, false, false)
	a.menuActions = a.menuActions[:0]
	a.toolbarActions = a.toolbarActions[:0]
	a.sizeOptions = a.sizeOptions[:0]

	bar := a.layout.Menu
	x := bar.Min.X + 8
	for _, btn := range []actionButton{
		{id: "open", label: "Open"},
		{id: "save", label: "Save"},
		{id: "save_as", label: "Save As"},
		{id: "undo", label: "Undo", disabled: !a.history.CanUndo()},
		{id: "redo", label: "Redo", disabled: !a.history.CanRedo()},
	} {
		w := max(56, measureString(face, btn.label)+24)
		btn.r = image.Rect(x, bar.Min.Y+3, x+w, bar.Max.Y-3)
		bg := a.theme.MenuButton
		if a.mouse.In(btn.r) && !btn.disabled {
			bg = a.theme.MenuHover
		}
		a.frameBuffer.FillRect(btn.r, bg)
		a.menuActions = append(a.menuActions, btn)
		x += w + 4
	}

	attr := a.state.CurrentStyleAttr()
	align := a.state.CurrentAlignment()
	tb := a.layout.Toolbar
	x = tb.Min.X + 10
	add := func(id, label string, w int, active bool) image.Rectangle {
		r := image.Rect(x, tb.Min.Y+6, x+w, tb.Max.Y-6)
		bg := a.theme.ToolButton
		if active {
			bg = a.theme.ToolActive
		}
		if a.mouse.In(r) {
			bg = a.theme.ToolHover
		}
		a.frameBuffer.FillRect(r, bg)
		a.frameBuffer.StrokeRect(r, 1, a.theme.Border)
		a.toolbarActions = append(a.toolbarActions, actionButton{id: id, label: label, r: r, active: active})
		x += w + 4
		return r
	}
	add("bold", "Bold", 52, attr.Bold)
	add("italic", "Italic", 52, attr.Italic)
	x += 8
	sizeRect := add("size_menu", fmt.Sprintf("%d pt", attr.FontSizePt), 64, a.sizeMenuOpen)
	x += 8
	add("align_left", "Left", 48, align == bluedoc.AlignLeft)
	add("align_center", "Center", 56, align == bluedoc.AlignCenter)
	add("align_right", "Right", 48, align == bluedoc.AlignRight)

	if a.sizeMenuOpen {
		y := sizeRect.Max.Y + 2
		for _, sz := range fontSizes {
			r := image.Rect(sizeRect.Min.X, y, sizeRect.Max.X, y+sizeOptionH)
			a.sizeOptions = append(a.sizeOptions, actionButton{
				id:     sizePrefix + strconv.Itoa(sz),
				label:  strconv.Itoa(sz),
				r:      r,
				active: sz == int(attr.FontSizePt),
			})
			y += sizeOptionH
		}
	}
}

// handleChromeClick runs the action under pt and reports whether the click
// belonged to the chrome.
func (a *App) handleChromeClick(pt image.Point) bool {
	if a.sizeMenuOpen {
		for _, opt := range a.sizeOptions {
			if pt.In(opt.r) {
				a.invokeAction(opt.id)
				return true
			}
		}
		a.sizeMenuOpen = false
	}
	for _, group := range [][]actionButton{a.menuActions, a.toolbarActions} {
		for _, btn := range group {
			if pt.In(btn.r) {
				if !btn.disabled {
					a.invokeAction(btn.id)
				}
				return true
			}
		}
	}
	return pt.In(a.layout.Menu) || pt.In(a.layout.Toolbar) || pt.In(a.layout.Status)
}

func (a *App) invokeAction(id string) {
	if sz, ok := strings.CutPrefix(id, sizePrefix); ok {
		pt, err := strconv.Atoi(sz)
		if err != nil {
			return
		}
		a.history.Push(a.state)
		a.state.SetFontSize(pt)
		a.sizeMenuOpen = false
		a.setStatus("Font size %dpt", a.state.CurrentStyleAttr().FontSizePt)
		return
	}
	switch id {
	case "open":
		a.openDocumentDialog()
	case "save":
		a.saveDocument(false)
	case "save_as":
		a.saveDocument(true)
	case "undo":
		a.undo()
	case "redo":
		a.redo()
	case "bold":
		a.history.Push(a.state)
		a.state.ToggleBold()
		a.setStatus("Bold %s", onOff(a.state.CurrentStyleAttr().Bold))
	case "italic":
		a.history.Push(a.state)
		a.state.ToggleItalic()
		a.setStatus("Italic %s", onOff(a.state.CurrentStyleAttr().Italic))
	case "size_menu":
		a.sizeMenuOpen = !a.sizeMenuOpen
	case "align_left":
		a.align(bluedoc.AlignLeft)
	case "align_center":
		a.align(bluedoc.AlignCenter)
	case "align_right":
		a.align(bluedoc.AlignRight)
	}
}

func (a *App) align(al bluedoc.Alignment) {
	a.history.Push(a.state)
	a.state.SetAlignment(al)
	a.setStatus("Aligned %s", al)
}

func (a *App) undo() {
	if a.history.Undo(a.state) {
		a.setStatus("Undo")
		return
	}
	a.setStatus("Nothing to undo")
}

func (a *App) redo() {
	if a.history.Redo(a.state) {
		a.setStatus("Redo")
		return
	}
	a.setStatus("Nothing to redo")
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func (a *App) drawChromeLabels(screen *ebiten.Image) {
	face := a.fonts.face(chromeFontSize, false, false)
	for _, btn := range a.menuActions {
		clr := a.theme.MenuText
		if btn.disabled {
			clr = a.theme.MenuTextDim
		}
		drawCentered(screen, face, btn.label, btn.r, clr)
	}
	for _, btn := range a.toolbarActions {
		f := face
		switch btn.id {
		case "bold":
			f = a.fonts.face(chromeFontSize, true, false)
		case "italic":
			f = a.fonts.face(chromeFontSize, false, true)
		}
		drawCentered(screen, f, btn.label, btn.r, a.theme.ToolText)
	}
}

// drawSizeMenu paints the open font-size dropdown above the document.
func (a *App) drawSizeMenu(screen *ebiten.Image) {
	if len(a.sizeOptions) == 0 {
		return
	}
	face := a.fonts.face(chromeFontSize, false, false)
	box := a.sizeOptions[0].r.Union(a.sizeOptions[len(a.sizeOptions)-1].r)
	fillScreenRect(screen, box.Inset(-1), a.theme.Border)
	for _, opt := range a.sizeOptions {
		bg := a.theme.ToolButton
		if opt.active {
			bg = a.theme.ToolActive
		}
		if a.mouse.In(opt.r) {
			bg = a.theme.ToolHover
		}
		fillScreenRect(screen, opt.r, bg)
		drawCentered(screen, face, opt.label, opt.r, a.theme.ToolText)
	}
}

func drawCentered(dst *ebiten.Image, face font.Face, label string, r image.Rectangle, clr color.Color) {
	m := face.Metrics()
	ascent, descent := m.Ascent.Round(), m.Descent.Round()
	x := r.Min.X + (r.Dx()-measureString(face, label))/2
	baseline := r.Min.Y + (r.Dy()+ascent+descent)/2 - descent
	text.Draw(dst, label, face, x, baseline, clr)
}

func fillScreenRect(dst *ebiten.Image, r image.Rectangle, clr color.Color) {
	r = r.Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	dst.SubImage(r).(*ebiten.Image).Fill(clr)
}
