// Package pdftest builds small annotated PDF documents for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf16"
)

// Annot is a page annotation. Empty Title or Contents omit the entry.
// UTF16 writes both as hex strings in UTF-16BE with a byte order mark.
type Annot struct {
	Subtype  string
	Title    string
	Contents string
	UTF16    bool
}

// Page is a page and its annotations in /Annots order
type Page struct {
	Annots []Annot
}

// Text returns a Text (sticky note) annotation
func Text(contents, author string) Annot {
	return Annot{Subtype: "Text", Title: author, Contents: contents}
}

// TextUTF16 returns a Text annotation whose strings are UTF-16BE encoded
func TextUTF16(contents, author string) Annot {
	return Annot{Subtype: "Text", Title: author, Contents: contents, UTF16: true}
}

// Popup returns a Popup annotation
func Popup() Annot {
	return Annot{Subtype: "Popup"}
}

// Build renders a PDF 1.4 document with a classic cross-reference table.
// Object 1 is the catalog and object 2 the page tree root.
func Build(pages ...Page) []byte {
	var objects []string
	next := 3

	pageIDs := make([]int, len(pages))
	annotIDs := make([][]int, len(pages))
	for i, p := range pages {
		pageIDs[i] = next
		next++
		for range p.Annots {
			annotIDs[i] = append(annotIDs[i], next)
			next++
		}
	}

	kids := make([]string, len(pageIDs))
	for i, id := range pageIDs {
		kids[i] = ref(id)
	}

	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)),
	)

	for i, p := range pages {
		page := "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792]"
		if len(p.Annots) > 0 {
			refs := make([]string, len(annotIDs[i]))
			for j, id := range annotIDs[i] {
				refs[j] = ref(id)
			}
			page += fmt.Sprintf(" /Annots [%s]", strings.Join(refs, " "))
		}
		objects = append(objects, page+" >>")

		for _, a := range p.Annots {
			objects = append(objects, annotation(a, pageIDs[i]))
		}
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	return buf.Bytes()
}

func annotation(a Annot, parent int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<< /Type /Annot /Subtype /%s /Rect [10 10 30 30] /P %s", a.Subtype, ref(parent))
	str := literal
	if a.UTF16 {
		str = hexUTF16
	}
	if a.Title != "" {
		fmt.Fprintf(&b, " /T %s", str(a.Title))
	}
	if a.Contents != "" {
		fmt.Fprintf(&b, " /Contents %s", str(a.Contents))
	}
	b.WriteString(" >>")
	return b.String()
}

var literalEscaper = strings.NewReplacer(
	`\`, `\\`,
	"(", `\(`,
	")", `\)`,
	"\r", `\r`,
	"\n", `\n`,
)

func literal(s string) string {
	return "(" + literalEscaper.Replace(s) + ")"
}

func hexUTF16(s string) string {
	var b strings.Builder
	b.WriteString("<FEFF")
	for _, u := range utf16.Encode([]rune(s)) {
		fmt.Fprintf(&b, "%04X", u)
	}
	b.WriteString(">")
	return b.String()
}

func ref(id int) string {
	return fmt.Sprintf("%d 0 R", id)
}
