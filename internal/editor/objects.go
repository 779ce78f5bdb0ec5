package editor

import (
	"github.com/google/uuid"

	"bluedoc/pkg/bluedoc"
)

// InsertImage places an image object at the caret, replacing any selection.
func (s *State) InsertImage(f bluedoc.ImageFormat) {
	if !f.IsValid() {
		return
	}
	s.Normalize()
	s.DeleteSelection()
	attr := s.currentStyleAttr().TextAttr()
	img := f
	attr.Image = &img
	s.insertBlocks([]bluedoc.Block{textBlock(s.CurrentAlignment(), string(bluedoc.ObjectReplacement), attr)})
}

// InsertHTML parses markup as a fragment in the caret's format and splices it
// in. Embedded data images are moved into the document's resource table.
func (s *State) InsertHTML(markup string) error {
	s.Normalize()
	s.DeleteSelection()
	frag, err := bluedoc.ParseFragment(markup, s.currentStyleAttr())
	if err != nil {
		return err
	}
	renamed := make(map[string]string, len(frag.Resources))
	for name, res := range frag.Resources {
		fresh := NewResourceName()
		s.Doc.AddResource(fresh, res)
		renamed[name] = fresh
	}
	for i := range frag.Blocks {
		for j := range frag.Blocks[i].Runs {
			img := frag.Blocks[i].Runs[j].Attr.Image
			if img == nil {
				continue
			}
			if fresh, ok := renamed[img.Source]; ok {
				img.Source = fresh
			}
		}
	}
	s.insertBlocks(frag.Blocks)
	return nil
}

func (s *State) AddResource(name string, r bluedoc.Resource) {
	s.Normalize()
	s.Doc.AddResource(name, r)
}

// NewResourceName returns a document-unique name for an embedded image.
func NewResourceName() string {
	return "image-" + uuid.NewString()
}

// ImageAt reports the image object covering pos, if any, and the position
// where it starts.
func (s *State) ImageAt(pos Position) (Position, bluedoc.ImageFormat, bool) {
	r, ok := s.objectRun(pos)
	if !ok || !r.Attr.IsImage() {
		return Position{}, bluedoc.ImageFormat{}, false
	}
	return Position{Block: pos.Block, Byte: int(r.Start)}, *r.Attr.Image, true
}

// SetImageFormat replaces the format of the image at pos. It reports false
// when pos does not address an image.
func (s *State) SetImageFormat(pos Position, f bluedoc.ImageFormat) bool {
	if !f.IsValid() {
		return false
	}
	r, ok := s.objectRun(pos)
	if !ok || !r.Attr.IsImage() {
		return false
	}
	runs := s.Doc.Blocks[pos.Block].Runs
	for i := range runs {
		if runs[i].Start == r.Start {
			img := f
			runs[i].Attr.Image = &img
			return true
		}
	}
	return false
}

// AnchorAt returns the link target of the character at pos, or "".
func (s *State) AnchorAt(pos Position) string {
	r, ok := s.objectRun(pos)
	if !ok {
		return ""
	}
	return r.Attr.Href
}

func (s *State) objectRun(pos Position) (bluedoc.StyleRun, bool) {
	s.Normalize()
	if pos.Block < 0 || pos.Block >= len(s.Doc.Blocks) {
		return bluedoc.StyleRun{}, false
	}
	b := s.Doc.Blocks[pos.Block]
	if pos.Byte < 0 || pos.Byte >= len(b.UTF8) {
		return bluedoc.StyleRun{}, false
	}
	r, _ := bluedoc.RunAt(len(b.UTF8), b.Runs, pos.Byte)
	return r, true
}
