package content

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"bluedoc/pkg/bluedoc"
)

type recordingSurface struct {
	resources map[string]bluedoc.Resource
	images    []bluedoc.ImageFormat
	html      []string
	text      []string
	defaults  []Payload
}

func newRecordingSurface() *recordingSurface {
	return &recordingSurface{resources: map[string]bluedoc.Resource{}}
}

func (s *recordingSurface) AddResource(name string, r bluedoc.Resource) { s.resources[name] = r }
func (s *recordingSurface) InsertImage(f bluedoc.ImageFormat)           { s.images = append(s.images, f) }
func (s *recordingSurface) InsertDefault(p Payload)                     { s.defaults = append(s.defaults, p) }

func (s *recordingSurface) InsertHTML(markup string) error {
	s.html = append(s.html, markup)
	return nil
}

func (s *recordingSurface) InsertText(text string) error {
	s.text = append(s.text, text)
	return nil
}

func newRouter() (*Router, *recordingSurface) {
	s := newRecordingSurface()
	return New(s, slog.New(slog.NewTextHandler(io.Discard, nil))), s
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 0x33, G: 0x66, B: 0x99, A: 0xff})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func absPath(name string) string {
	if runtime.GOOS == "windows" {
		return `C:\pics\` + name
	}
	return "/pics/" + name
}

func fileURL(name string) string {
	p := filepath.ToSlash(absPath(name))
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return "file://" + p
}

func TestClassifyPrecedence(t *testing.T) {
	r, _ := newRouter()
	img := []byte{1, 2, 3}
	tests := []struct {
		name string
		p    Payload
		src  Source
		want Kind
	}{
		{name: "image beats text", p: Payload{Text: "https://example.com", HasText: true, ImageData: img}, src: Paste, want: KindImage},
		{name: "image beats urls", p: Payload{ImageData: img, URLs: []string{fileURL("a.png")}}, src: Drop, want: KindImage},
		{name: "dropped urls", p: Payload{URLs: []string{fileURL("a.png")}, Text: "x", HasText: true}, src: Drop, want: KindLocalFiles},
		{name: "pasted urls fall to text", p: Payload{URLs: []string{fileURL("a.png")}, Text: "x", HasText: true}, src: Paste, want: KindPlainText},
		{name: "pasted web address", p: Payload{Text: "https://example.com", HasText: true}, src: Paste, want: KindHyperlink},
		{name: "dropped web address", p: Payload{Text: "https://example.com", HasText: true}, src: Drop, want: KindPlainText},
		{name: "plain text", p: Payload{Text: "hello world", HasText: true}, src: Paste, want: KindPlainText},
		{name: "nothing", p: Payload{}, src: Paste, want: KindDefault},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.Classify(tc.p, tc.src).Kind; got != tc.want {
				t.Fatalf("Classify = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestImageAndTextInsertsImage(t *testing.T) {
	r, s := newRouter()
	data := pngBytes(t, 7, 3)
	route, err := r.Route(Payload{Text: "caption", HasText: true, ImageData: data}, Paste)
	if err != nil {
		t.Fatal(err)
	}
	if route.Kind != KindImage {
		t.Fatalf("route = %s", route.Kind)
	}
	if len(s.images) != 1 || len(s.text) != 0 || len(s.html) != 0 {
		t.Fatalf("unexpected inserts: images=%v text=%v html=%v", s.images, s.text, s.html)
	}
	f := s.images[0]
	if !strings.HasPrefix(f.Source, "image-") || f.Width != 7 || f.Height != 3 {
		t.Fatalf("image format: %+v", f)
	}
	res, ok := s.resources[f.Source]
	if !ok || res.MIME != "image/png" || !bytes.Equal(res.Data, data) {
		t.Fatalf("resource not registered: %+v %v", res.MIME, ok)
	}
}

func TestUndecodableImageStillInserted(t *testing.T) {
	r, s := newRouter()
	if _, err := r.Route(Payload{ImageData: []byte("not an image")}, Paste); err != nil {
		t.Fatal(err)
	}
	if len(s.images) != 1 || s.images[0].Width != 0 || s.images[0].Height != 0 {
		t.Fatalf("unexpected image: %+v", s.images)
	}
	if res := s.resources[s.images[0].Source]; res.MIME != "application/octet-stream" {
		t.Fatalf("mime = %q", res.MIME)
	}
}

func TestPastedURLBecomesLink(t *testing.T) {
	r, s := newRouter()
	if _, err := r.Route(Payload{Text: "https://example.com", HasText: true}, Paste); err != nil {
		t.Fatal(err)
	}
	want := []string{`<a href="https://example.com">https://example.com</a>`}
	if diff := cmp.Diff(want, s.html); diff != "" {
		t.Fatalf("html mismatch (-want +got):\n%s", diff)
	}
	if len(s.text) != 0 {
		t.Fatalf("link also inserted as text: %v", s.text)
	}
}

func TestPastedTextStaysLiteral(t *testing.T) {
	r, s := newRouter()
	if _, err := r.Route(Payload{Text: "hello world", HasText: true}, Paste); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"hello world"}, s.text); diff != "" {
		t.Fatalf("text mismatch (-want +got):\n%s", diff)
	}
	if len(s.html) != 0 {
		t.Fatalf("plain text inserted as markup: %v", s.html)
	}
}

func TestPaddedAddressPastesAsText(t *testing.T) {
	r, s := newRouter()
	route, err := r.Route(Payload{Text: " https://x.com ", HasText: true}, Paste)
	if err != nil {
		t.Fatal(err)
	}
	if route.Kind != KindPlainText {
		t.Fatalf("route = %v, want plain text", route.Kind)
	}
	if diff := cmp.Diff([]string{" https://x.com "}, s.text); diff != "" {
		t.Fatalf("text mismatch (-want +got):\n%s", diff)
	}
}

func TestDropInsertsLocalFilesInOrder(t *testing.T) {
	r, s := newRouter()
	p := Payload{URLs: []string{fileURL("first.png"), "https://example.com/remote.png", fileURL("second.jpg")}}
	route, err := r.Route(p, Drop)
	if err != nil {
		t.Fatal(err)
	}
	want := []bluedoc.ImageFormat{{Source: absPath("first.png")}, {Source: absPath("second.jpg")}}
	if diff := cmp.Diff(want, s.images); diff != "" {
		t.Fatalf("images mismatch (-want +got):\n%s", diff)
	}
	if len(route.Paths) != 2 {
		t.Fatalf("route paths: %v", route.Paths)
	}
}

func TestEmptyPayloadUsesDefault(t *testing.T) {
	r, s := newRouter()
	if _, err := r.Route(Payload{}, Paste); err != nil {
		t.Fatal(err)
	}
	if len(s.defaults) != 1 {
		t.Fatalf("default handling not used")
	}
}

func TestCanInsert(t *testing.T) {
	r, _ := newRouter()
	text := Payload{Text: "x", HasText: true}
	if r.CanInsert(text, Drop) {
		t.Fatalf("text-only drag accepted")
	}
	if !r.CanInsert(text, Paste) {
		t.Fatalf("text paste rejected")
	}
	if !r.CanInsert(Payload{URLs: []string{"file:///a"}}, Drop) {
		t.Fatalf("url drag rejected")
	}
	if r.CanInsert(Payload{}, Paste) {
		t.Fatalf("empty paste accepted")
	}
}

func TestWebURL(t *testing.T) {
	tests := map[string]bool{
		"https://example.com":      true,
		"http://example.com/a?b=c": true,
		" https://x.com ":          false,
		"https://x.com\n":          false,
		"HTTPS://Example.com":      true,
		"ftp://example.com":        false,
		"https://":                 false,
		"example.com":              false,
		"see https://example.com":  false,
		"hello world":              false,
	}
	for in, want := range tests {
		if _, got := WebURL(in); got != want {
			t.Fatalf("WebURL(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLinkMarkupEscapes(t *testing.T) {
	got := LinkMarkup(`https://example.com/?q="x"&y=<1>`)
	want := `<a href="https://example.com/?q=&#34;x&#34;&amp;y=&lt;1&gt;">https://example.com/?q=&#34;x&#34;&amp;y=&lt;1&gt;</a>`
	if got != want {
		t.Fatalf("LinkMarkup = %s", got)
	}
}
