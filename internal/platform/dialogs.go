package platform

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/sqweek/dialog"
)

const DefaultFileName = "untitled.txt"

var ErrNoFile = errors.New("no file selected")

// IsCancelled reports whether err means the user dismissed a dialog.
func IsCancelled(err error) bool {
	return errors.Is(err, dialog.ErrCancelled) || errors.Is(err, ErrNoFile)
}

func (d *Desktop) OpenFileDialog(startDir string) (string, error) {
	path, err := openDialog(startDir).Load()
	return checkPath(path, err)
}

func (d *Desktop) SaveFileDialog(startDir string) (string, error) {
	path, err := saveDialog(startDir).Save()
	return checkPath(path, err)
}

func openDialog(startDir string) *dialog.FileBuilder {
	return fileDialog("Open File", startDir)
}

func saveDialog(startDir string) *dialog.FileBuilder {
	return fileDialog("Save File As", startDir).SetStartFile(DefaultFileName)
}

// ShowError blocks on a native error box and logs the same message.
func (d *Desktop) ShowError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	d.log.Error(msg)
	dialog.Message("%s", msg).Title("Error").Error()
}

func fileDialog(title, startDir string) *dialog.FileBuilder {
	b := dialog.File().
		Title(title).
		Filter("Text Files (*.txt)", "txt").
		Filter("All Files", "*")
	if startDir != "" {
		b = b.SetStartDir(startDir)
	}
	return b
}

func checkPath(path string, err error) (string, error) {
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", ErrNoFile
	}
	return filepath.Clean(path), nil
}
