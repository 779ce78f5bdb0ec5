package bluedoc

import (
	"bytes"
	"unicode/utf8"
)

// EncodeText writes one line per block. Images have no plain-text form and are
// left out.
func EncodeText(doc *Document) []byte {
	var b bytes.Buffer
	for i, blk := range doc.Blocks {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(blk.PlainText())
	}
	return b.Bytes()
}

func DecodeText(data []byte) (*Document, error) {
	if !utf8.Valid(data) {
		return nil, ErrInvalidUTF8
	}
	doc := &Document{Resources: map[string]Resource{}}
	for _, line := range bytes.Split(data, []byte{'\n'}) {
		blk := NewBlock(AlignLeft)
		if len(line) > 0 {
			blk.UTF8 = append([]byte(nil), line...)
			blk.Runs = []StyleRun{{Start: 0, End: uint32(len(line)), Attr: DefaultAttr()}}
		}
		doc.Blocks = append(doc.Blocks, blk)
	}
	return doc, nil
}
