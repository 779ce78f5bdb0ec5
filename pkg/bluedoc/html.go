package bluedoc

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// EncodeHTML writes the canonical markup for doc. Decoding the output and
// encoding again yields the same bytes.
func EncodeHTML(doc *Document) []byte {
	var b bytes.Buffer
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	if doc.Title != "" {
		b.WriteString("<title>")
		b.WriteString(escapeText(doc.Title))
		b.WriteString("</title>\n")
	}
	b.WriteString("</head>\n<body>\n")
	for _, blk := range doc.Blocks {
		if blk.Align == AlignLeft {
			b.WriteString("<p>")
		} else {
			fmt.Fprintf(&b, "<p align=\"%s\">", blk.Align)
		}
		for _, r := range NormalizeRuns(len(blk.UTF8), blk.Runs) {
			writeRun(&b, doc, blk.UTF8[r.Start:r.End], r.Attr)
		}
		b.WriteString("</p>\n")
	}
	b.WriteString("</body>\n</html>\n")
	return b.Bytes()
}

func writeRun(b *bytes.Buffer, doc *Document, text []byte, attr StyleAttr) {
	if len(text) == 0 {
		return
	}
	if attr.Href != "" {
		fmt.Fprintf(b, "<a href=\"%s\">", html.EscapeString(attr.Href))
	}
	if attr.IsImage() {
		writeImage(b, doc, *attr.Image)
	} else if style := spanStyle(attr); style != "" {
		fmt.Fprintf(b, "<span style=\"%s\">%s</span>", style, escapeText(string(text)))
	} else {
		b.WriteString(escapeText(string(text)))
	}
	if attr.Href != "" {
		b.WriteString("</a>")
	}
}

func writeImage(b *bytes.Buffer, doc *Document, img ImageFormat) {
	src := img.Source
	if res, ok := doc.Resource(img.Source); ok {
		src = DataURI(res)
	}
	fmt.Fprintf(b, "<img src=\"%s\"", html.EscapeString(src))
	if img.Width > 0 {
		fmt.Fprintf(b, " width=\"%d\"", img.Width)
	}
	if img.Height > 0 {
		fmt.Fprintf(b, " height=\"%d\"", img.Height)
	}
	b.WriteString(">")
}

func spanStyle(attr StyleAttr) string {
	parts := make([]string, 0, 3)
	if attr.Bold {
		parts = append(parts, "font-weight:bold")
	}
	if attr.Italic {
		parts = append(parts, "font-style:italic")
	}
	if attr.FontSizePt != 0 && attr.FontSizePt != DefaultFontSizePt {
		parts = append(parts, fmt.Sprintf("font-size:%dpt", attr.FontSizePt))
	}
	return strings.Join(parts, "; ")
}

// escapeText also escapes carriage returns, which the tokenizer would
// otherwise fold into newlines.
func escapeText(s string) string {
	return strings.ReplaceAll(html.EscapeString(s), "\r", "&#13;")
}

func DataURI(res Resource) string {
	mime := res.MIME
	if mime == "" {
		mime = "application/octet-stream"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(res.Data)
}

func parseDataURI(src string) (Resource, bool) {
	rest, ok := strings.CutPrefix(src, "data:")
	if !ok {
		return Resource{}, false
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return Resource{}, false
	}
	mime, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return Resource{}, false
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(data) == 0 {
		return Resource{}, false
	}
	return Resource{MIME: mime, Data: data}, true
}

func DecodeHTML(data []byte) (*Document, error) {
	d := newHTMLDecoder(DefaultAttr(), false)
	if err := d.run(data); err != nil {
		return nil, err
	}
	if len(d.doc.Blocks) == 0 {
		d.doc.Blocks = append(d.doc.Blocks, NewBlock(AlignLeft))
	}
	return d.doc, nil
}

// ParseFragment decodes inline markup for insertion at a caret. Text outside
// any paragraph starts a block and keeps its whitespace; base is the style in
// effect at the insertion point.
func ParseFragment(markup string, base StyleAttr) (*Document, error) {
	d := newHTMLDecoder(base.TextAttr(), true)
	if err := d.run([]byte(markup)); err != nil {
		return nil, err
	}
	return d.doc, nil
}

type styleFrame struct {
	tag  string
	attr StyleAttr
}

type htmlDecoder struct {
	doc      *Document
	cur      *Block
	stack    []styleFrame
	fragment bool

	inHead  bool
	inTitle bool
	skip    int
	title   strings.Builder
	images  int
}

func newHTMLDecoder(base StyleAttr, fragment bool) *htmlDecoder {
	return &htmlDecoder{
		doc:      &Document{Resources: map[string]Resource{}},
		stack:    []styleFrame{{tag: "", attr: NormalizeAttr(base)}},
		fragment: fragment,
	}
}

func (d *htmlDecoder) run(data []byte) error {
	z := html.NewTokenizer(bytes.NewReader(data))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if errors.Is(z.Err(), io.EOF) {
				d.flush()
				d.doc.Title = strings.TrimSpace(d.title.String())
				return nil
			}
			return fmt.Errorf("bluedoc: parse html: %w", z.Err())
		}
		tok := z.Token()
		switch tt {
		case html.TextToken:
			d.text(tok.Data)
		case html.StartTagToken, html.SelfClosingTagToken:
			d.start(tok, tt == html.SelfClosingTagToken)
		case html.EndTagToken:
			d.end(tok.Data)
		}
	}
}

func (d *htmlDecoder) top() StyleAttr {
	return d.stack[len(d.stack)-1].attr
}

func (d *htmlDecoder) push(tag string, attr StyleAttr) {
	d.stack = append(d.stack, styleFrame{tag: tag, attr: attr})
}

func (d *htmlDecoder) pop(tag string) {
	for i := len(d.stack) - 1; i > 0; i-- {
		if d.stack[i].tag == tag {
			d.stack = d.stack[:i]
			return
		}
	}
}

func (d *htmlDecoder) start(tok html.Token, selfClosing bool) {
	attr := d.top()
	switch tok.Data {
	case "head":
		d.inHead = true
	case "body":
		d.inHead = false
	case "title":
		d.inTitle = true
	case "style", "script", "noscript", "template":
		if !selfClosing {
			d.skip++
		}
	case "p", "div", "li", "blockquote", "pre", "tr", "h1", "h2", "h3", "h4", "h5", "h6":
		if d.cur != nil && len(d.cur.UTF8) == 0 {
			// an outer container that has no text of its own yet
			d.cur = nil
		}
		d.flush()
		d.cur = &Block{Align: blockAlignment(tok)}
		if size, ok := headingSizes[tok.Data]; ok {
			attr.Bold = true
			attr.FontSizePt = size
		}
		attr = applyInlineStyle(attr, getAttr(tok, "style"))
		if !selfClosing {
			d.push(tok.Data, attr)
		}
	case "br":
		align := AlignLeft
		if d.cur != nil {
			align = d.cur.Align
		}
		d.ensureBlock()
		d.flush()
		d.cur = &Block{Align: align}
	case "b", "strong":
		attr.Bold = true
		d.pushInline(tok, attr, selfClosing)
	case "i", "em", "cite":
		attr.Italic = true
		d.pushInline(tok, attr, selfClosing)
	case "span", "font":
		d.pushInline(tok, attr, selfClosing)
	case "a":
		if href := getAttr(tok, "href"); href != "" {
			attr.Href = href
		}
		d.pushInline(tok, attr, selfClosing)
	case "img":
		d.image(tok, attr)
	}
}

func (d *htmlDecoder) pushInline(tok html.Token, attr StyleAttr, selfClosing bool) {
	if selfClosing {
		return
	}
	d.push(tok.Data, applyInlineStyle(attr, getAttr(tok, "style")))
}

func (d *htmlDecoder) end(tag string) {
	switch tag {
	case "head":
		d.inHead = false
	case "title":
		d.inTitle = false
	case "style", "script", "noscript", "template":
		if d.skip > 0 {
			d.skip--
		}
	case "p", "div", "li", "blockquote", "pre", "tr", "h1", "h2", "h3", "h4", "h5", "h6":
		d.pop(tag)
		d.flush()
	default:
		d.pop(tag)
	}
}

func (d *htmlDecoder) text(s string) {
	if d.inTitle {
		d.title.WriteString(s)
		return
	}
	if d.skip > 0 || d.inHead {
		return
	}
	s = strings.ReplaceAll(s, "\n", " ")
	if d.cur == nil {
		if !d.fragment && strings.TrimSpace(s) == "" {
			return
		}
		d.ensureBlock()
	}
	d.appendRun([]byte(s), d.top())
}

func (d *htmlDecoder) image(tok html.Token, attr StyleAttr) {
	src := getAttr(tok, "src")
	if src == "" {
		return
	}
	if res, ok := parseDataURI(src); ok {
		d.images++
		name := "image-" + strconv.Itoa(d.images)
		d.doc.AddResource(name, res)
		src = name
	}
	width, _ := strconv.Atoi(strings.TrimSuffix(getAttr(tok, "width"), "px"))
	height, _ := strconv.Atoi(strings.TrimSuffix(getAttr(tok, "height"), "px"))
	attr.Image = &ImageFormat{Source: src, Width: max(0, width), Height: max(0, height)}
	d.ensureBlock()
	d.appendRun([]byte(objectText), attr)
}

func (d *htmlDecoder) ensureBlock() {
	if d.cur == nil {
		d.cur = &Block{Align: AlignLeft}
	}
}

func (d *htmlDecoder) appendRun(text []byte, attr StyleAttr) {
	if len(text) == 0 {
		return
	}
	start := uint32(len(d.cur.UTF8))
	d.cur.UTF8 = append(d.cur.UTF8, text...)
	d.cur.Runs = appendRun(d.cur.Runs, StyleRun{Start: start, End: uint32(len(d.cur.UTF8)), Attr: attr.Clone()})
}

func (d *htmlDecoder) flush() {
	if d.cur == nil {
		return
	}
	if d.cur.UTF8 == nil {
		d.cur.UTF8 = []byte{}
	}
	d.cur.Runs = NormalizeRuns(len(d.cur.UTF8), d.cur.Runs)
	d.doc.Blocks = append(d.doc.Blocks, *d.cur)
	d.cur = nil
}

var headingSizes = map[string]uint16{
	"h1": 24, "h2": 18, "h3": 16, "h4": 14, "h5": 13, "h6": 12,
}

func getAttr(tok html.Token, key string) string {
	for _, a := range tok.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func blockAlignment(tok html.Token) Alignment {
	if a, ok := ParseAlignment(getAttr(tok, "align")); ok {
		return a
	}
	for _, decl := range strings.Split(getAttr(tok, "style"), ";") {
		k, v, ok := strings.Cut(decl, ":")
		if ok && strings.TrimSpace(strings.ToLower(k)) == "text-align" {
			if a, ok := ParseAlignment(v); ok {
				return a
			}
		}
	}
	return AlignLeft
}

// applyInlineStyle reads the subset of CSS the editor can represent.
func applyInlineStyle(attr StyleAttr, style string) StyleAttr {
	for _, decl := range strings.Split(style, ";") {
		k, v, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		k = strings.ToLower(strings.TrimSpace(k))
		v = strings.ToLower(strings.TrimSpace(v))
		switch k {
		case "font-weight":
			if n, err := strconv.Atoi(v); err == nil {
				attr.Bold = n >= 600
			} else {
				attr.Bold = v == "bold" || v == "bolder"
			}
		case "font-style":
			attr.Italic = v == "italic" || v == "oblique"
		case "font-size":
			if size, ok := parsePointSize(v); ok {
				attr.FontSizePt = size
			}
		}
	}
	return attr
}

func parsePointSize(v string) (uint16, bool) {
	scale := 1.0
	switch {
	case strings.HasSuffix(v, "pt"):
		v = strings.TrimSuffix(v, "pt")
	case strings.HasSuffix(v, "px"):
		v = strings.TrimSuffix(v, "px")
		scale = 0.75
	default:
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || f <= 0 {
		return 0, false
	}
	pt := int(f*scale + 0.5)
	pt = max(int(MinFontSizePt), min(pt, int(MaxFontSizePt)))
	return uint16(pt), true
}
