package export

import (
	"bytes"
	_ "embed"
	"encoding/xml"
	"io"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

//go:embed templates/resume.docx
var docxTemplate []byte

const (
	scorePlaceholder = "{{ATS_SCORE}}"
	bodyPlaceholder  = "<w:p><w:r><w:t>{{RESUME_BODY}}</w:t></w:r></w:p>"
)

// DOCX renders doc into the embedded Word template. Section titles use the
// template's Heading2 style and bullets its ListBullet style
func DOCX(w io.Writer, doc Document) error {
	r, err := docx.ReadDocxFromMemory(bytes.NewReader(docxTemplate), int64(len(docxTemplate)))
	if err != nil {
		return err
	}
	defer r.Close()

	d := r.Editable()
	score := scoreLine(doc)
	if err := d.Replace(scorePlaceholder, score, -1); err != nil {
		return err
	}
	if err := d.ReplaceHeader(scorePlaceholder, score); err != nil {
		return err
	}
	d.ReplaceRaw(bodyPlaceholder, bodyXML(doc), 1)
	return d.Write(w)
}

func bodyXML(doc Document) string {
	if doc.Sections == nil {
		return "<w:p/>"
	}
	var b strings.Builder
	contact, blocks := layout(doc.Sections)
	for i, l := range contact {
		if i == 0 {
			writeParagraph(&b, "Title", l)
			continue
		}
		writeParagraph(&b, "", l)
	}
	for _, blk := range blocks {
		writeParagraph(&b, "Heading2", blk.title)
		for _, l := range blk.lines {
			if text, ok := bulletText(l); ok {
				writeParagraph(&b, "ListBullet", "• "+text)
				continue
			}
			writeParagraph(&b, "", l)
		}
	}
	if b.Len() == 0 {
		return "<w:p/>"
	}
	return b.String()
}

func writeParagraph(b *strings.Builder, style, text string) {
	b.WriteString("<w:p>")
	if style != "" {
		b.WriteString(`<w:pPr><w:pStyle w:val="` + style + `"/></w:pPr>`)
	}
	b.WriteString(`<w:r><w:t xml:space="preserve">`)
	_ = xml.EscapeText(b, []byte(text))
	b.WriteString("</w:t></w:r></w:p>")
}
