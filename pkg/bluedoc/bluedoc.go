package bluedoc

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	DefaultFontSizePt = uint16(12)
	MinFontSizePt     = uint16(6)
	MaxFontSizePt     = uint16(288)

	// ObjectReplacement is the placeholder rune an image run covers.
	ObjectReplacement = '\uFFFC'
	objectText        = "\uFFFC"
)

type Alignment uint8

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

func (a Alignment) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

func ParseAlignment(s string) (Alignment, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "start", "justify":
		return AlignLeft, true
	case "center", "middle":
		return AlignCenter, true
	case "right", "end":
		return AlignRight, true
	}
	return AlignLeft, false
}

type Format uint8

const (
	FormatHTML Format = iota
	FormatText
)

func (f Format) String() string {
	if f == FormatText {
		return "text"
	}
	return "html"
}

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "html", "rich":
		return FormatHTML, nil
	case "text", "plain", "txt":
		return FormatText, nil
	}
	return FormatHTML, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

type Document struct {
	Title     string
	Blocks    []Block
	Resources map[string]Resource
}

type Block struct {
	Align Alignment
	UTF8  []byte
	Runs  []StyleRun
}

type StyleRun struct {
	Start uint32
	End   uint32
	Attr  StyleAttr
}

type StyleAttr struct {
	Bold       bool
	Italic     bool
	FontSizePt uint16
	Href       string
	Image      *ImageFormat
}

// ImageFormat describes an embedded image. Source names either an entry of
// Document.Resources or a local file path. Zero dimensions mean natural size.
type ImageFormat struct {
	Source string
	Width  int
	Height int
}

func (f ImageFormat) IsValid() bool {
	return f.Source != ""
}

type Resource struct {
	MIME string
	Data []byte
}

var (
	ErrInvalidUTF8   = errors.New("bluedoc: text is not valid UTF-8")
	ErrUnknownFormat = errors.New("bluedoc: unknown document format")
	ErrNilDocument   = errors.New("bluedoc: document is nil")
	ErrInvalidImage  = errors.New("bluedoc: invalid image run")
	ErrInvalidRuns   = errors.New("bluedoc: invalid style runs")
)

func NewDocument(title string) *Document {
	return &Document{
		Title:     title,
		Blocks:    []Block{NewBlock(AlignLeft)},
		Resources: map[string]Resource{},
	}
}

func NewBlock(align Alignment) Block {
	return Block{Align: align, UTF8: []byte{}, Runs: []StyleRun{{Attr: DefaultAttr()}}}
}

func DefaultAttr() StyleAttr {
	return StyleAttr{FontSizePt: DefaultFontSizePt}
}

func CloneDocument(doc *Document) *Document {
	if doc == nil {
		return nil
	}
	out := &Document{Title: doc.Title, Blocks: make([]Block, len(doc.Blocks)), Resources: make(map[string]Resource, len(doc.Resources))}
	for i, b := range doc.Blocks {
		out.Blocks[i] = cloneBlock(b)
	}
	// Resource payloads are never mutated in place.
	for name, r := range doc.Resources {
		out.Resources[name] = r
	}
	return out
}

func cloneBlock(b Block) Block {
	nb := Block{Align: b.Align, UTF8: append([]byte(nil), b.UTF8...), Runs: make([]StyleRun, len(b.Runs))}
	for i, r := range b.Runs {
		nb.Runs[i] = StyleRun{Start: r.Start, End: r.End, Attr: r.Attr.Clone()}
	}
	return nb
}

func (a StyleAttr) Clone() StyleAttr {
	if a.Image != nil {
		img := *a.Image
		a.Image = &img
	}
	return a
}

// TextAttr drops the parts of an attr that must not spread to typed text.
func (a StyleAttr) TextAttr() StyleAttr {
	a.Image = nil
	a.Href = ""
	return NormalizeAttr(a)
}

func (a StyleAttr) IsImage() bool {
	return a.Image != nil && a.Image.IsValid()
}

func NormalizeAttr(a StyleAttr) StyleAttr {
	if a.FontSizePt == 0 {
		a.FontSizePt = DefaultFontSizePt
	}
	if a.Image != nil && !a.Image.IsValid() {
		a.Image = nil
	}
	return a
}

// AttrsEqual reports whether two runs may merge. Image runs never merge.
func AttrsEqual(a, b StyleAttr) bool {
	if a.Image != nil || b.Image != nil {
		return false
	}
	a = NormalizeAttr(a)
	b = NormalizeAttr(b)
	return a.Bold == b.Bold &&
		a.Italic == b.Italic &&
		a.FontSizePt == b.FontSizePt &&
		a.Href == b.Href
}

// PlainText returns the block text without image placeholders.
func (b Block) PlainText() string {
	if len(b.UTF8) == 0 {
		return ""
	}
	var out strings.Builder
	for _, r := range NormalizeRuns(len(b.UTF8), b.Runs) {
		if r.Attr.IsImage() {
			continue
		}
		out.Write(b.UTF8[r.Start:r.End])
	}
	return out.String()
}

func (d *Document) AddResource(name string, r Resource) {
	if d.Resources == nil {
		d.Resources = map[string]Resource{}
	}
	d.Resources[name] = r
}

func (d *Document) Resource(name string) (Resource, bool) {
	if d == nil || d.Resources == nil {
		return Resource{}, false
	}
	r, ok := d.Resources[name]
	return r, ok
}

func Validate(doc *Document) error {
	if doc == nil {
		return ErrNilDocument
	}
	if !utf8.ValidString(doc.Title) {
		return ErrInvalidUTF8
	}
	for i := range doc.Blocks {
		b := &doc.Blocks[i]
		if !utf8.Valid(b.UTF8) {
			return fmt.Errorf("block %d: %w", i, ErrInvalidUTF8)
		}
		if err := validateRuns(b); err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}
	}
	return nil
}

func validateRuns(b *Block) error {
	txtLen := uint32(len(b.UTF8))
	runs := append([]StyleRun(nil), b.Runs...)
	sort.Slice(runs, func(i, j int) bool { return runs[i].Start < runs[j].Start })

	var lastEnd uint32
	for i, r := range runs {
		if r.Start > r.End || r.End > txtLen {
			return fmt.Errorf("%w: range %d..%d outside text length %d", ErrInvalidRuns, r.Start, r.End, txtLen)
		}
		if r.Start == r.End && !(txtLen == 0 && r.Start == 0) {
			return fmt.Errorf("%w: zero-length run at %d", ErrInvalidRuns, r.Start)
		}
		if i > 0 && r.Start < lastEnd {
			return fmt.Errorf("%w: overlap around offset %d", ErrInvalidRuns, r.Start)
		}
		if r.Attr.FontSizePt == 0 {
			return fmt.Errorf("%w: font size must be non-zero", ErrInvalidRuns)
		}
		if r.Attr.Image != nil && string(b.UTF8[r.Start:r.End]) != objectText {
			return fmt.Errorf("%w at %d..%d", ErrInvalidImage, r.Start, r.End)
		}
		lastEnd = r.End
	}
	return nil
}

func Encode(doc *Document, format Format) ([]byte, error) {
	if err := Validate(doc); err != nil {
		return nil, err
	}
	switch format {
	case FormatHTML:
		return EncodeHTML(doc), nil
	case FormatText:
		return EncodeText(doc), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, format)
}

func Decode(data []byte, format Format) (*Document, error) {
	var (
		doc *Document
		err error
	)
	switch format {
	case FormatHTML:
		doc, err = DecodeHTML(data)
	case FormatText:
		doc, err = DecodeText(data)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, err
	}
	if err := Validate(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// DetectFormat reports FormatHTML only for data that opens with a document
// prologue: a doctype or an html, head or body tag. Anything else, including
// text that merely starts with a tag-like word, is plain text.
func DetectFormat(data []byte) Format {
	head := strings.ToLower(strings.TrimLeft(string(data[:min(len(data), 512)]), " \t\r\n\uFEFF"))
	if rest, ok := strings.CutPrefix(head, "<!doctype"); ok {
		if isTagEnd(rest) && strings.HasPrefix(strings.TrimLeft(rest, " \t\r\n\f"), "html") {
			return FormatHTML
		}
		return FormatText
	}
	for _, tag := range []string{"<html", "<head", "<body"} {
		if strings.HasPrefix(head, tag) && isTagEnd(head[len(tag):]) {
			return FormatHTML
		}
	}
	return FormatText
}

// isTagEnd reports whether rest continues a tag after its full name.
func isTagEnd(rest string) bool {
	if rest == "" {
		return false
	}
	switch rest[0] {
	case '>', '/', ' ', '\t', '\r', '\n', '\f':
		return true
	}
	return false
}

func Save(path string, doc *Document, format Format) error {
	blob, err := Encode(doc, format)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, blob, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

func Load(path string) (*Document, Format, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, FormatHTML, err
	}
	format := DetectFormat(b)
	doc, err := Decode(b, format)
	if err != nil {
		return nil, format, err
	}
	return doc, format, nil
}
