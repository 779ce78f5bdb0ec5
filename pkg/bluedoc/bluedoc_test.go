package bluedoc

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sampleDocument() *Document {
	doc := NewDocument("Notes & <drafts>")
	bold := StyleAttr{Bold: true, FontSizePt: 14}
	link := StyleAttr{FontSizePt: 12, Href: "https://example.com/?a=1&b=2"}
	img := StyleAttr{FontSizePt: 12, Image: &ImageFormat{Source: "image-a", Width: 40, Height: 30}}

	text := "Hello " + "bold" + " " + "link" + " " + objectText
	doc.Blocks[0] = Block{
		Align: AlignLeft,
		UTF8:  []byte(text),
		Runs: []StyleRun{
			{Start: 0, End: 6, Attr: DefaultAttr()},
			{Start: 6, End: 10, Attr: bold},
			{Start: 10, End: 11, Attr: DefaultAttr()},
			{Start: 11, End: 15, Attr: link},
			{Start: 15, End: 16, Attr: DefaultAttr()},
			{Start: 16, End: uint32(len(text)), Attr: img},
		},
	}
	doc.Blocks = append(doc.Blocks,
		Block{Align: AlignCenter, UTF8: []byte("centered <tag> \"quoted\""), Runs: []StyleRun{{Start: 0, End: 23, Attr: StyleAttr{Italic: true, FontSizePt: 36}}}},
		NewBlock(AlignRight),
	)
	doc.AddResource("image-a", Resource{MIME: "image/png", Data: []byte{0x89, 'P', 'N', 'G', 1, 2, 3}})
	return doc
}

func TestSaveLoadSaveIsByteIdentical(t *testing.T) {
	for _, format := range []Format{FormatHTML, FormatText} {
		t.Run(format.String(), func(t *testing.T) {
			dir := t.TempDir()
			first := filepath.Join(dir, "first")
			second := filepath.Join(dir, "second")

			if err := Save(first, sampleDocument(), format); err != nil {
				t.Fatalf("save failed: %v", err)
			}
			loaded, detected, err := Load(first)
			if err != nil {
				t.Fatalf("load failed: %v", err)
			}
			if detected != format {
				t.Fatalf("detected %s, want %s", detected, format)
			}
			if err := Save(second, loaded, detected); err != nil {
				t.Fatalf("second save failed: %v", err)
			}

			a, _ := os.ReadFile(first)
			b, _ := os.ReadFile(second)
			if !bytes.Equal(a, b) {
				t.Fatalf("round trip differs:\n%s", cmp.Diff(string(a), string(b)))
			}
		})
	}
}

func TestHTMLRoundTripKeepsStyles(t *testing.T) {
	doc := sampleDocument()
	loaded, err := Decode(EncodeHTML(doc), FormatHTML)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if loaded.Title != doc.Title {
		t.Fatalf("title mismatch: got %q want %q", loaded.Title, doc.Title)
	}
	if len(loaded.Blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(loaded.Blocks))
	}
	if diff := cmp.Diff(doc.Blocks[1], loaded.Blocks[1]); diff != "" {
		t.Fatalf("centered block mismatch (-want +got):\n%s", diff)
	}
	if loaded.Blocks[2].Align != AlignRight || len(loaded.Blocks[2].UTF8) != 0 {
		t.Fatalf("empty right block mismatch: %#v", loaded.Blocks[2])
	}

	first := loaded.Blocks[0]
	if string(first.UTF8) != string(doc.Blocks[0].UTF8) {
		t.Fatalf("text mismatch: %q", first.UTF8)
	}
	wantAttrs := []StyleAttr{
		DefaultAttr(),
		{Bold: true, FontSizePt: 14},
		DefaultAttr(),
		{FontSizePt: 12, Href: "https://example.com/?a=1&b=2"},
		DefaultAttr(),
	}
	for i, want := range wantAttrs {
		if diff := cmp.Diff(want, first.Runs[i].Attr); diff != "" {
			t.Fatalf("run %d attr mismatch (-want +got):\n%s", i, diff)
		}
	}
	imgRun := first.Runs[len(first.Runs)-1]
	if !imgRun.Attr.IsImage() || imgRun.Attr.Image.Width != 40 || imgRun.Attr.Image.Height != 30 {
		t.Fatalf("image run mismatch: %#v", imgRun)
	}
	res, ok := loaded.Resource(imgRun.Attr.Image.Source)
	if !ok {
		t.Fatalf("image resource %q missing", imgRun.Attr.Image.Source)
	}
	if diff := cmp.Diff(doc.Resources["image-a"], res); diff != "" {
		t.Fatalf("resource mismatch (-want +got):\n%s", diff)
	}
}

func TestTextCodecOmitsImages(t *testing.T) {
	got := string(EncodeText(sampleDocument()))
	want := "Hello bold link \ncentered <tag> \"quoted\"\n"
	if got != want {
		t.Fatalf("plain text mismatch: got %q want %q", got, want)
	}
}

func TestDecodeTextRejectsInvalidUTF8(t *testing.T) {
	_, err := Decode([]byte{'a', 0xff, 'b'}, FormatText)
	if !errors.Is(err, ErrInvalidUTF8) {
		t.Fatalf("expected ErrInvalidUTF8, got %v", err)
	}
}

func TestDecodeHTMLForeignMarkup(t *testing.T) {
	markup := `<html><head><title> Imported </title><style>p { color: red }</style></head>
<body>
<h1>Heading</h1>
<div style="text-align: right">one<br>two</div>
<p>plain <b>bold <i>both</i></b> <span style="font-size: 24px">small</span></p>
<script>ignored()</script>
</body></html>`
	doc, err := Decode([]byte(markup), FormatHTML)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if doc.Title != "Imported" {
		t.Fatalf("title: got %q", doc.Title)
	}
	var texts []string
	for _, b := range doc.Blocks {
		texts = append(texts, string(b.UTF8))
	}
	if diff := cmp.Diff([]string{"Heading", "one", "two", "plain bold both small"}, texts); diff != "" {
		t.Fatalf("blocks mismatch (-want +got):\n%s", diff)
	}
	if h := doc.Blocks[0].Runs[0].Attr; !h.Bold || h.FontSizePt != 24 {
		t.Fatalf("heading attr: %#v", h)
	}
	if doc.Blocks[1].Align != AlignRight || doc.Blocks[2].Align != AlignRight {
		t.Fatalf("alignment lost across <br>: %v %v", doc.Blocks[1].Align, doc.Blocks[2].Align)
	}

	para := doc.Blocks[3]
	want := []StyleRun{
		{Start: 0, End: 6, Attr: DefaultAttr()},
		{Start: 6, End: 11, Attr: StyleAttr{Bold: true, FontSizePt: 12}},
		{Start: 11, End: 15, Attr: StyleAttr{Bold: true, Italic: true, FontSizePt: 12}},
		{Start: 15, End: 16, Attr: DefaultAttr()},
		{Start: 16, End: 21, Attr: StyleAttr{FontSizePt: 18}},
	}
	if diff := cmp.Diff(want, para.Runs); diff != "" {
		t.Fatalf("runs mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFragmentLink(t *testing.T) {
	base := StyleAttr{Bold: true, FontSizePt: 18, Href: "https://old.example"}
	doc, err := ParseFragment(`<a href="https://example.com">https://example.com</a>`, base)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(doc.Blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(doc.Blocks))
	}
	b := doc.Blocks[0]
	if string(b.UTF8) != "https://example.com" {
		t.Fatalf("label: %q", b.UTF8)
	}
	want := []StyleRun{{Start: 0, End: 19, Attr: StyleAttr{Bold: true, FontSizePt: 18, Href: "https://example.com"}}}
	if diff := cmp.Diff(want, b.Runs); diff != "" {
		t.Fatalf("runs mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFragmentKeepsWhitespace(t *testing.T) {
	doc, err := ParseFragment("  spaced  ", DefaultAttr())
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(doc.Blocks) != 1 || string(doc.Blocks[0].UTF8) != "  spaced  " {
		t.Fatalf("unexpected fragment: %#v", doc.Blocks)
	}
}

func TestValidateRejectsBadImageRun(t *testing.T) {
	doc := NewDocument("")
	doc.Blocks[0] = Block{
		UTF8: []byte("ab"),
		Runs: []StyleRun{{Start: 0, End: 2, Attr: StyleAttr{FontSizePt: 12, Image: &ImageFormat{Source: "x"}}}},
	}
	if err := Validate(doc); !errors.Is(err, ErrInvalidImage) {
		t.Fatalf("expected ErrInvalidImage, got %v", err)
	}
}

func TestValidateRejectsOverlappingRuns(t *testing.T) {
	doc := NewDocument("")
	doc.Blocks[0] = Block{
		UTF8: []byte("abcdef"),
		Runs: []StyleRun{
			{Start: 0, End: 4, Attr: DefaultAttr()},
			{Start: 3, End: 6, Attr: DefaultAttr()},
		},
	}
	if err := Validate(doc); !errors.Is(err, ErrInvalidRuns) {
		t.Fatalf("expected ErrInvalidRuns, got %v", err)
	}
}

func TestNormalizeRunsFillsGapsAndMerges(t *testing.T) {
	bold := StyleAttr{Bold: true, FontSizePt: 12}
	got := NormalizeRuns(10, []StyleRun{
		{Start: 2, End: 4, Attr: bold},
		{Start: 4, End: 6, Attr: bold},
		{Start: 5, End: 8, Attr: StyleAttr{Italic: true}},
	})
	want := []StyleRun{
		{Start: 0, End: 2, Attr: DefaultAttr()},
		{Start: 2, End: 6, Attr: bold},
		{Start: 6, End: 8, Attr: StyleAttr{Italic: true, FontSizePt: 12}},
		{Start: 8, End: 10, Attr: DefaultAttr()},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("runs mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeRunsKeepsImagesApart(t *testing.T) {
	img := func() StyleAttr { return StyleAttr{FontSizePt: 12, Image: &ImageFormat{Source: "a"}} }
	text := objectText + objectText
	got := NormalizeRuns(len(text), []StyleRun{
		{Start: 0, End: 3, Attr: img()},
		{Start: 3, End: 6, Attr: img()},
	})
	if len(got) != 2 {
		t.Fatalf("image runs merged: %#v", got)
	}
}

func TestDetectFormat(t *testing.T) {
	cases := map[string]Format{
		"\uFEFF  <!DOCTYPE html><p>x</p>": FormatHTML,
		"<HTML lang=en><p>x</p></html>":   FormatHTML,
		"<body>\n<p>x</p>":                FormatHTML,
		"<P align=center>x</P>":           FormatText,
		"<headline>":                      FormatText,
		"<htmlish>":                       FormatText,
		"<!doctypes>":                     FormatText,
		"plain words":                     FormatText,
		"":                                FormatText,
		"a < b":                           FormatText,
	}
	for in, want := range cases {
		if got := DetectFormat([]byte(in)); got != want {
			t.Fatalf("DetectFormat(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestTextStartingWithTagReopensAsText(t *testing.T) {
	for _, body := range []string{
		"<placeholder> goes here\nsecond",
		"<headline>",
		"<p>not markup</p>",
		"<pre>\n  indented",
	} {
		doc, err := DecodeText([]byte(body))
		if err != nil {
			t.Fatalf("DecodeText(%q) failed: %v", body, err)
		}
		path := filepath.Join(t.TempDir(), "note.txt")
		if err := Save(path, doc, FormatText); err != nil {
			t.Fatalf("save failed: %v", err)
		}
		loaded, format, err := Load(path)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if format != FormatText {
			t.Fatalf("%q reopened as %s", body, format)
		}
		if got := string(EncodeText(loaded)); got != body {
			t.Fatalf("text changed on reopen:\n%s", cmp.Diff(body, got))
		}
	}
}

func TestEncodeHTMLEscapesCarriageReturn(t *testing.T) {
	doc := NewDocument("")
	doc.Blocks[0] = Block{UTF8: []byte("a\rb"), Runs: []StyleRun{{Start: 0, End: 3, Attr: DefaultAttr()}}}
	out := EncodeHTML(doc)
	if !strings.Contains(string(out), "a&#13;b") {
		t.Fatalf("carriage return not escaped: %s", out)
	}
	back, err := DecodeHTML(out)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if string(back.Blocks[0].UTF8) != "a\rb" {
		t.Fatalf("carriage return lost: %q", back.Blocks[0].UTF8)
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("TXT"); err != nil || f != FormatText {
		t.Fatalf("ParseFormat(TXT) = %v, %v", f, err)
	}
	if _, err := ParseFormat("docx"); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}
