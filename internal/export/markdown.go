package export

import "strings"

// Markdown renders doc as markdown with the keywords emphasized
func Markdown(doc Document) string {
	var b strings.Builder
	if line := scoreLine(doc); line != "" {
		b.WriteString("*" + line + "*\n\n")
	}
	if doc.Sections == nil {
		return b.String()
	}

	contact, blocks := layout(doc.Sections)
	if len(contact) > 0 {
		b.WriteString("**" + contact[0] + "**\n")
		for _, l := range contact[1:] {
			b.WriteString(l + "\n")
		}
		b.WriteString("\n")
	}
	for _, blk := range blocks {
		b.WriteString("## " + blk.title + "\n\n")
		for _, l := range blk.lines {
			if text, ok := bulletText(l); ok {
				b.WriteString("- " + HighlightKeywords(text, doc.Keywords) + "\n")
				continue
			}
			b.WriteString(HighlightKeywords(l, doc.Keywords) + "\n")
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}
