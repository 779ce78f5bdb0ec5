package platform

import (
	"log/slog"

	"github.com/atotto/clipboard"
	xclipboard "golang.design/x/clipboard"
)

// Clip is the clipboard content offered to a paste.
type Clip struct {
	Text    string
	HasText bool
	Image   []byte
}

// ReadClipboard prefers the native clipboard, which also carries images as
// PNG. Without it only text is available.
func (d *Desktop) ReadClipboard() Clip {
	var c Clip
	if d.nativeClipboard() {
		c.Image = xclipboard.Read(xclipboard.FmtImage)
		if txt := xclipboard.Read(xclipboard.FmtText); len(txt) > 0 {
			c.Text, c.HasText = string(txt), true
		}
		return c
	}
	txt, err := clipboard.ReadAll()
	if err != nil {
		d.log.Warn("clipboard read failed", slog.Any("err", err))
		return c
	}
	c.Text, c.HasText = txt, txt != ""
	return c
}

func (d *Desktop) WriteText(s string) error {
	return clipboard.WriteAll(s)
}

func (d *Desktop) nativeClipboard() bool {
	d.clipOnce.Do(func() {
		d.clipErr = xclipboard.Init()
		if d.clipErr != nil {
			d.log.Warn("native clipboard unavailable, images cannot be pasted", slog.Any("err", d.clipErr))
		}
	})
	return d.clipErr == nil
}
