package app

import (
	"bytes"
	"image"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"bluedoc/pkg/bluedoc"
)

// placeholderSize is the box drawn for images that cannot be decoded.
var placeholderSize = image.Pt(64, 64)

type imageEntry struct {
	img     image.Image
	natural image.Point
	gpu     *ebiten.Image
}

// imageCache decodes image sources once. Sources name a document resource
// or a local file. Decoders are registered by the content package.
type imageCache struct {
	log     *slog.Logger
	read    func(string) ([]byte, error)
	entries map[string]*imageEntry
}

func newImageCache(log *slog.Logger) *imageCache {
	return &imageCache{log: log, read: os.ReadFile, entries: map[string]*imageEntry{}}
}

func (c *imageCache) reset() {
	for _, e := range c.entries {
		if e.gpu != nil {
			e.gpu.Deallocate()
		}
	}
	c.entries = map[string]*imageEntry{}
}

func (c *imageCache) lookup(doc *bluedoc.Document, source string) *imageEntry {
	if e, ok := c.entries[source]; ok {
		return e
	}
	e := &imageEntry{natural: placeholderSize}
	c.entries[source] = e

	var data []byte
	if res, ok := doc.Resource(source); ok {
		data = res.Data
	} else {
		b, err := c.read(source)
		if err != nil {
			c.log.Warn("image source unreadable", slog.String("source", source), slog.Any("err", err))
			return e
		}
		data = b
	}
	img, kind, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		c.log.Warn("image source undecodable", slog.String("source", source), slog.Any("err", err))
		return e
	}
	c.log.Debug("image decoded", slog.String("source", source), slog.String("kind", kind))
	e.img = img
	e.natural = img.Bounds().Size()
	return e
}

// displaySize resolves zero dimensions to the natural size.
func (c *imageCache) displaySize(doc *bluedoc.Document, f bluedoc.ImageFormat) image.Point {
	natural := c.lookup(doc, f.Source).natural
	size := image.Pt(f.Width, f.Height)
	if size.X <= 0 {
		size.X = natural.X
	}
	if size.Y <= 0 {
		size.Y = natural.Y
	}
	return size
}

func (e *imageEntry) texture() *ebiten.Image {
	if e.img == nil {
		return nil
	}
	if e.gpu == nil {
		e.gpu = ebiten.NewImageFromImage(e.img)
	}
	return e.gpu
}
