// Package content decides how clipboard and drag-and-drop payloads enter the
// document.
package content

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/net/html"

	"bluedoc/internal/editor"
	"bluedoc/pkg/bluedoc"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

type Source int

const (
	Paste Source = iota
	Drop
)

func (s Source) String() string {
	if s == Drop {
		return "drop"
	}
	return "paste"
}

type Kind int

const (
	KindDefault Kind = iota
	KindPlainText
	KindHyperlink
	KindImage
	KindLocalFiles
)

func (k Kind) String() string {
	switch k {
	case KindPlainText:
		return "text"
	case KindHyperlink:
		return "hyperlink"
	case KindImage:
		return "image"
	case KindLocalFiles:
		return "files"
	default:
		return "default"
	}
}

// Payload is what a paste or drop offers. Any combination of fields may be
// set.
type Payload struct {
	Text      string
	HasText   bool
	ImageData []byte
	URLs      []string
}

func (p Payload) HasImage() bool { return len(p.ImageData) > 0 }

func (p Payload) HasURLs() bool { return len(p.URLs) > 0 }

// Route is the outcome of classifying a payload.
type Route struct {
	Kind  Kind
	URL   string
	Paths []string
}

type Surface interface {
	AddResource(name string, r bluedoc.Resource)
	InsertImage(f bluedoc.ImageFormat)
	InsertHTML(markup string) error
	InsertText(text string) error
	InsertDefault(p Payload)
}

type Router struct {
	surface Surface
	log     *slog.Logger
}

func New(surface Surface, log *slog.Logger) *Router {
	if log == nil {
		log = slog.Default()
	}
	return &Router{surface: surface, log: log}
}

// CanInsert reports whether the surface should accept p. Drags are only
// accepted when they carry an image or URLs.
func (r *Router) CanInsert(p Payload, src Source) bool {
	if p.HasImage() || p.HasURLs() {
		return true
	}
	return src == Paste && p.HasText && p.Text != ""
}

// Classify picks exactly one route. An image always wins, then dropped file
// URLs, then a pasted web address, then text.
func (r *Router) Classify(p Payload, src Source) Route {
	switch {
	case p.HasImage():
		return Route{Kind: KindImage}
	case src == Drop && p.HasURLs():
		return Route{Kind: KindLocalFiles, Paths: LocalPaths(p.URLs)}
	case src == Paste && p.HasText:
		if u, ok := WebURL(p.Text); ok {
			return Route{Kind: KindHyperlink, URL: u}
		}
		return Route{Kind: KindPlainText}
	case p.HasText:
		return Route{Kind: KindPlainText}
	}
	return Route{Kind: KindDefault}
}

// Route classifies p and applies it to the surface.
func (r *Router) Route(p Payload, src Source) (Route, error) {
	route := r.Classify(p, src)
	r.log.Debug("routing payload", slog.String("source", src.String()), slog.String("kind", route.Kind.String()))

	switch route.Kind {
	case KindImage:
		r.insertImageData(p.ImageData)
	case KindLocalFiles:
		for _, path := range route.Paths {
			r.surface.InsertImage(bluedoc.ImageFormat{Source: path})
		}
		if skipped := len(p.URLs) - len(route.Paths); skipped > 0 {
			r.log.Debug("skipped non-local urls", slog.Int("count", skipped))
		}
	case KindHyperlink:
		if err := r.surface.InsertHTML(LinkMarkup(route.URL)); err != nil {
			return route, fmt.Errorf("insert link: %w", err)
		}
	case KindPlainText:
		if err := r.surface.InsertText(p.Text); err != nil {
			return route, fmt.Errorf("insert text: %w", err)
		}
	default:
		r.surface.InsertDefault(p)
	}
	return route, nil
}

func (r *Router) insertImageData(data []byte) {
	name := editor.NewResourceName()
	mime, w, h, err := SniffImage(data)
	if err != nil {
		r.log.Warn("image payload not decodable", slog.Any("err", err))
	}
	r.surface.AddResource(name, bluedoc.Resource{MIME: mime, Data: data})
	r.surface.InsertImage(bluedoc.ImageFormat{Source: name, Width: w, Height: h})
}

var ErrUnknownImage = errors.New("content: unrecognized image data")

// SniffImage returns the MIME type and pixel size of an encoded bitmap.
// Undecodable data reports octet-stream and zero size.
func SniffImage(data []byte) (mime string, width, height int, err error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "application/octet-stream", 0, 0, fmt.Errorf("%w: %v", ErrUnknownImage, err)
	}
	return "image/" + format, cfg.Width, cfg.Height, nil
}

// WebURL reports whether text, exactly as given, is a single http or https
// address with a host. Surrounding whitespace makes it plain text.
func WebURL(text string) (string, bool) {
	if text == "" || strings.ContainsAny(text, " \t\r\n\f\v") {
		return "", false
	}
	u, err := url.Parse(text)
	if err != nil || u.Host == "" {
		return "", false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return text, true
	}
	return "", false
}

// LinkMarkup is an anchor whose label and target are both u.
func LinkMarkup(u string) string {
	esc := html.EscapeString(u)
	return `<a href="` + esc + `">` + esc + `</a>`
}

// LocalPaths keeps the file URLs and absolute paths of urls, in order.
func LocalPaths(urls []string) []string {
	paths := make([]string, 0, len(urls))
	for _, raw := range urls {
		if p, ok := localPath(raw); ok {
			paths = append(paths, p)
		}
	}
	return paths
}

func localPath(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if filepath.IsAbs(raw) {
		return filepath.Clean(raw), true
	}
	u, err := url.Parse(raw)
	if err != nil || !strings.EqualFold(u.Scheme, "file") || u.Path == "" {
		return "", false
	}
	if u.Host != "" && u.Host != "localhost" {
		return "", false
	}
	p := u.Path
	if runtime.GOOS == "windows" && len(p) > 2 && p[0] == '/' && p[2] == ':' {
		p = p[1:]
	}
	return filepath.FromSlash(p), true
}
