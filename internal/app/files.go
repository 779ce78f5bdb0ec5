package app

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"bluedoc/internal/editor"
	"bluedoc/internal/platform"
	"bluedoc/pkg/bluedoc"
)

// OpenFile loads path, replaces the document and binds the path for saving.
func (a *App) OpenFile(path string) error {
	doc, format, err := bluedoc.Load(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	a.replaceDocument(doc, format, path)
	a.log.Info("document opened", slog.String("path", path), slog.String("format", format.String()))
	a.setStatus("Opened %s", filepath.Base(path))
	return nil
}

// OpenStartupFile opens the file named on the command line. A file that does
// not exist yet is bound to an empty document and created on first save.
func (a *App) OpenStartupFile(path string) error {
	err := a.OpenFile(path)
	if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	a.replaceDocument(bluedoc.NewDocument(""), a.cfg.DocumentFormat(), path)
	a.setStatus("New file %s", filepath.Base(path))
	return nil
}

// SaveFile writes the document to path in the bound format and binds path.
func (a *App) SaveFile(path string) error {
	if err := bluedoc.Save(path, a.state.Doc, a.format); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	a.filePath = path
	a.log.Info("document saved", slog.String("path", path), slog.String("format", a.format.String()))
	a.setStatus("Saved %s", filepath.Base(path))
	return nil
}

func (a *App) replaceDocument(doc *bluedoc.Document, format bluedoc.Format, path string) {
	a.state = editor.NewState(doc)
	a.history.Reset()
	a.images.reset()
	a.format = format
	a.filePath = path
	a.scroll = fpoint{}
	a.dragSelecting = false
}

func (a *App) openDocumentDialog() {
	path, err := a.desktop.OpenFileDialog(a.startDir())
	if platform.IsCancelled(err) {
		return
	}
	if err == nil {
		err = a.OpenFile(path)
	}
	if err != nil {
		a.setStatus("Open failed")
		a.desktop.ShowError("Failed to open file: %v", err)
	}
}

// saveDocument writes to the bound path, asking for one first when there is
// none or when saveAs is set.
func (a *App) saveDocument(saveAs bool) {
	path := a.filePath
	if saveAs || path == "" {
		chosen, err := a.desktop.SaveFileDialog(a.startDir())
		if platform.IsCancelled(err) {
			return
		}
		if err != nil {
			a.desktop.ShowError("Failed to save file: %v", err)
			return
		}
		path = chosen
	}
	if err := a.SaveFile(path); err != nil {
		a.setStatus("Save failed")
		a.desktop.ShowError("Failed to save file: %v", err)
	}
}

func (a *App) startDir() string {
	return platform.DownloadsDir(a.cfg.Editor.StartDir)
}

func (a *App) displayName() string {
	if a.filePath == "" {
		return "Untitled"
	}
	return filepath.Base(a.filePath)
}
