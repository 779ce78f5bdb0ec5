// Package app is the ebiten shell around the document editor: window,
// chrome, keyboard, mouse, clipboard, drops and file dialogs.
package app

import (
	"fmt"
	"image"
	"log/slog"
	"math"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"bluedoc/internal/config"
	"bluedoc/internal/content"
	"bluedoc/internal/editor"
	"bluedoc/internal/platform"
	"bluedoc/internal/pointer"
	"bluedoc/internal/render"
	"bluedoc/internal/ui"
	"bluedoc/pkg/bluedoc"
)

// Desktop is the operating system surface the shell talks to.
type Desktop interface {
	pointer.Desktop
	ReadClipboard() platform.Clip
	WriteText(s string) error
	OpenFileDialog(startDir string) (string, error)
	SaveFileDialog(startDir string) (string, error)
	ShowError(format string, args ...any)
}

type Options struct {
	Config  *config.Config
	Log     *slog.Logger
	Desktop Desktop
}

type fpoint struct {
	x float64
	y float64
}

type App struct {
	cfg     *config.Config
	log     *slog.Logger
	theme   ui.Theme
	desktop Desktop

	state   *editor.State
	history *editor.History
	format  bluedoc.Format
	pointer *pointer.Controller
	router  *content.Router

	filePath  string
	status    string
	frameTick uint64

	fonts  fontBank
	images *imageCache

	frameBuffer *render.FrameBuffer
	canvas      *ebiten.Image
	docLayer    *ebiten.Image

	layout         ui.Layout
	contentRect    image.Rectangle
	menuActions    []actionButton
	toolbarActions []actionButton
	sizeOptions    []actionButton
	sizeMenuOpen   bool

	lines   []lineLayout
	docSize image.Point
	scroll  fpoint
	maxScr  fpoint

	mouse         image.Point
	lastMouse     image.Point
	pointerDown   bool
	cursorOutside bool
	dragSelecting bool
	shiftHeld     bool
	screenW       int
	screenH       int
}

func New(opts Options) *App {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	desktop := opts.Desktop
	if desktop == nil {
		desktop = platform.NewDesktop(log)
	}
	a := &App{
		cfg:            cfg,
		log:            log,
		theme:          ui.DefaultTheme(),
		desktop:        desktop,
		state:          editor.NewState(bluedoc.NewDocument("")),
		history:        editor.NewHistory(cfg.Editor.HistoryDepth),
		format:         cfg.DocumentFormat(),
		status:         "Untitled document",
		fonts:          newFontBank(),
		images:         newImageCache(log),
		menuActions:    make([]actionButton, 0, 8),
		toolbarActions: make([]actionButton, 0, 8),
		lines:          make([]lineLayout, 0, 128),
	}
	surface := docSurface{a: a}
	a.pointer = pointer.New(surface, desktop, log)
	a.router = content.New(surface, log)
	return a
}

func (a *App) Run() error {
	platform.WindowConfig{
		Title:       "Bluedoc",
		WidthPx:     a.cfg.Window.Width,
		HeightPx:    a.cfg.Window.Height,
		MinWidthPx:  320,
		MinHeightPx: 240,
	}.Apply()
	if err := ebiten.RunGame(a); err != nil {
		return fmt.Errorf("run game loop: %w", err)
	}
	return nil
}

func (a *App) setStatus(format string, args ...any) {
	a.status = fmt.Sprintf(format, args...)
}

func (a *App) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	a.screenW = max(1, outsideWidth)
	a.screenH = max(1, outsideHeight)
	return a.screenW, a.screenH
}

// arrange recomputes the window regions and the document layout for a w by h
// screen.
func (a *App) arrange(w, h int) {
	a.layout = ui.ComputeLayout(w, h, a.theme, 1)
	a.contentRect = a.layout.Content
	a.layoutDocument(a.contentRect.Dx())
	a.maxScr = fpoint{
		x: math.Max(0, float64(a.docSize.X-a.contentRect.Dx())),
		y: math.Max(0, float64(a.docSize.Y-a.contentRect.Dy())),
	}
	a.clampScroll()
}

// toDoc maps a screen point into document coordinates.
func (a *App) toDoc(pt image.Point) image.Point {
	return pt.Sub(a.contentRect.Min).Add(image.Pt(int(a.scroll.x), int(a.scroll.y)))
}

func (a *App) Update() error {
	a.frameTick++
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
	a.shiftHeld = ebiten.IsKeyPressed(ebiten.KeyShift)
	a.arrange(a.viewportSize())

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		a.sizeMenuOpen = false
	}

	wheelX, wheelY := ebiten.Wheel()
	if a.shiftHeld && wheelY != 0 {
		a.scroll.x -= wheelY * 48
	} else if wheelY != 0 {
		a.scroll.y -= wheelY * 42
	}
	if wheelX != 0 {
		a.scroll.x -= wheelX * 48
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPageDown) {
		a.scroll.y += float64(a.contentRect.Dy()) * 0.8
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPageUp) {
		a.scroll.y -= float64(a.contentRect.Dy()) * 0.8
	}
	a.clampScroll()

	x, y := ebiten.CursorPosition()
	a.lastMouse, a.mouse = a.mouse, image.Pt(x, y)
	a.handleDrops()
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if !a.handleChromeClick(a.mouse) && a.mouse.In(a.contentRect) {
			a.pressPointer(a.mouse)
		}
	}
	if a.mouse != a.lastMouse {
		a.movePointer(a.mouse)
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) && a.pointerDown {
		a.releasePointer(a.mouse)
	}

	a.handleKeys(ctrl)
	a.arrange(a.viewportSize())
	if !a.pointer.Resizing() {
		a.ensureCaretVisible()
	}
	return nil
}

func (a *App) viewportSize() (int, int) {
	if a.screenW > 0 && a.screenH > 0 {
		return a.screenW, a.screenH
	}
	w, h := ebiten.WindowSize()
	if w <= 0 {
		w = a.cfg.Window.Width
	}
	if h <= 0 {
		h = a.cfg.Window.Height
	}
	return w, h
}

// pressPointer starts a pointer gesture at a screen point. A gesture that
// turns into an image resize is one undo step.
func (a *App) pressPointer(pt image.Point) {
	a.pointerDown = true
	a.sizeMenuOpen = false
	a.pointer.Press(a.toDoc(pt))
	if a.pointer.Resizing() {
		a.history.Push(a.state)
	}
}

func (a *App) movePointer(pt image.Point) {
	if pt.In(a.contentRect) || a.pointerDown {
		a.pointer.Move(a.toDoc(pt))
		a.cursorOutside = false
		return
	}
	if !a.cursorOutside {
		a.desktop.SetCursor(pointer.CursorDefault)
		a.cursorOutside = true
	}
}

func (a *App) releasePointer(pt image.Point) {
	a.pointerDown = false
	a.pointer.Release(a.toDoc(pt))
	a.dragSelecting = false
}

// handleDrops stages files dropped on the window and routes them at the
// drop point.
func (a *App) handleDrops() {
	files := ebiten.DroppedFiles()
	if files == nil {
		return
	}
	paths, err := platform.StageDrops(files)
	if err != nil {
		a.log.Warn("staging dropped files failed", slog.Any("err", err))
	}
	urls := make([]string, 0, len(paths))
	for _, p := range paths {
		urls = append(urls, platform.FileURL(p))
	}
	if a.mouse.In(a.contentRect) {
		pos := a.positionAt(a.toDoc(a.mouse))
		a.state.ClearSelection()
		a.state.SetCaret(pos.Block, pos.Byte)
	}
	a.routePayload(content.Payload{URLs: urls}, content.Drop)
}

func (a *App) paste() {
	clip := a.desktop.ReadClipboard()
	a.routePayload(content.Payload{Text: clip.Text, HasText: clip.HasText, ImageData: clip.Image}, content.Paste)
}

// routePayload inserts p through the content router as one undo step.
func (a *App) routePayload(p content.Payload, src content.Source) {
	if !a.router.CanInsert(p, src) {
		a.setStatus("Nothing to %s", src)
		return
	}
	a.history.Push(a.state)
	route, err := a.router.Route(p, src)
	if err != nil {
		a.log.Warn("insert failed", slog.String("source", src.String()), slog.Any("err", err))
		a.setStatus("Insert failed: %v", err)
		return
	}
	a.setStatus("Inserted %s", route.Kind)
}

func (a *App) copySelection() {
	if !a.state.HasSelection() {
		return
	}
	if err := a.desktop.WriteText(a.state.SelectedText()); err != nil {
		a.setStatus("Copy failed: %v", err)
	}
}

func (a *App) cutSelection() {
	if !a.state.HasSelection() {
		return
	}
	if err := a.desktop.WriteText(a.state.SelectedText()); err != nil {
		a.setStatus("Cut failed: %v", err)
		return
	}
	a.history.Push(a.state)
	a.state.DeleteSelection()
}

func (a *App) handleKeys(ctrl bool) {
	shift := a.shiftHeld
	alt := ebiten.IsKeyPressed(ebiten.KeyAlt)

	didSnapshot := false
	recordMutation := func() {
		if didSnapshot {
			return
		}
		a.history.Push(a.state)
		didSnapshot = true
	}

	if ctrl {
		switch {
		case inpututil.IsKeyJustPressed(ebiten.KeyZ):
			a.undo()
			return
		case inpututil.IsKeyJustPressed(ebiten.KeyY):
			a.redo()
			return
		case inpututil.IsKeyJustPressed(ebiten.KeyO):
			a.invokeAction("open")
			return
		case inpututil.IsKeyJustPressed(ebiten.KeyS):
			if shift {
				a.invokeAction("save_as")
			} else {
				a.invokeAction("save")
			}
			return
		case inpututil.IsKeyJustPressed(ebiten.KeyA):
			a.state.SelectAll()
		case inpututil.IsKeyJustPressed(ebiten.KeyC):
			a.copySelection()
		case inpututil.IsKeyJustPressed(ebiten.KeyX):
			a.cutSelection()
		case inpututil.IsKeyJustPressed(ebiten.KeyV):
			a.paste()
		case inpututil.IsKeyJustPressed(ebiten.KeyB):
			a.invokeAction("bold")
		case inpututil.IsKeyJustPressed(ebiten.KeyI):
			a.invokeAction("italic")
		case inpututil.IsKeyJustPressed(ebiten.KeyL):
			a.invokeAction("align_left")
		case inpututil.IsKeyJustPressed(ebiten.KeyE):
			a.invokeAction("align_center")
		case inpututil.IsKeyJustPressed(ebiten.KeyR):
			a.invokeAction("align_right")
		case inpututil.IsKeyJustPressed(ebiten.KeyBackspace):
			recordMutation()
			a.state.DeleteWordBackward()
		case inpututil.IsKeyJustPressed(ebiten.KeyDelete):
			recordMutation()
			a.state.DeleteWordForward()
		}
	}

	moveWithSelection := func(move func()) {
		if shift {
			a.state.EnsureSelectionAnchor()
		} else {
			a.state.ClearSelection()
		}
		move()
		if shift {
			a.state.UpdateSelectionFromCaret()
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		if alt {
			a.scroll.y -= float64(a.contentRect.Dy()) * 0.8
		} else {
			moveWithSelection(func() { a.moveCaretLine(-1) })
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		if alt {
			a.scroll.y += float64(a.contentRect.Dy()) * 0.8
		} else {
			moveWithSelection(func() { a.moveCaretLine(1) })
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) {
		switch {
		case ctrl:
			moveWithSelection(a.state.MoveCaretWordLeft)
		case alt:
			moveWithSelection(a.state.MoveCaretToLineStart)
		default:
			moveWithSelection(a.state.MoveCaretLeft)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) {
		switch {
		case ctrl:
			moveWithSelection(a.state.MoveCaretWordRight)
		case alt:
			moveWithSelection(a.state.MoveCaretToLineEnd)
		default:
			moveWithSelection(a.state.MoveCaretRight)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyHome) {
		if ctrl {
			moveWithSelection(a.state.MoveCaretToDocumentStart)
		} else {
			moveWithSelection(a.state.MoveCaretToLineStart)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnd) {
		if ctrl {
			moveWithSelection(a.state.MoveCaretToDocumentEnd)
		} else {
			moveWithSelection(a.state.MoveCaretToLineEnd)
		}
	}

	if ctrl {
		return
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyKPEnter) {
		recordMutation()
		a.state.SplitBlockAtCaret()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		recordMutation()
		a.state.Backspace()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDelete) {
		recordMutation()
		a.state.DeleteForward()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		recordMutation()
		_ = a.state.InsertTextAtCaret("\t")
	}

	for _, r := range ebiten.AppendInputChars(nil) {
		if r < 0x20 || !utf8.ValidRune(r) {
			continue
		}
		recordMutation()
		if err := a.state.InsertTextAtCaret(string(r)); err != nil {
			a.log.Debug("typed rune rejected", slog.Any("err", err))
		}
	}
}

func (a *App) clampScroll() {
	a.scroll.x = math.Max(0, math.Min(a.scroll.x, a.maxScr.x))
	a.scroll.y = math.Max(0, math.Min(a.scroll.y, a.maxScr.y))
}

func (a *App) ensureCaretVisible() {
	ll, ok := a.lineForCaret()
	if !ok || a.contentRect.Dy() <= 0 {
		return
	}
	viewH := float64(a.contentRect.Dy())
	if top := float64(ll.y); top < a.scroll.y {
		a.scroll.y = top
	}
	if bottom := float64(ll.y + ll.height); bottom > a.scroll.y+viewH {
		a.scroll.y = bottom - viewH
	}

	caretX := float64(ll.x + lineAdvance(ll, a.state.CaretByte))
	viewW := float64(a.contentRect.Dx())
	const padding = 16.0
	if caretX < a.scroll.x+padding {
		a.scroll.x = math.Max(0, caretX-padding)
	}
	if caretX > a.scroll.x+viewW-padding {
		a.scroll.x = caretX - viewW + padding
	}
	a.clampScroll()
}
