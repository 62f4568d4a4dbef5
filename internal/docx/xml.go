package docx

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// Vertical merge states for table cells, matching the w:vMerge values of
// WordprocessingML.
const (
	VMergeNone     = ""
	VMergeRestart  = "restart"
	VMergeContinue = "continue"
)

// TableCell is one cell of a generated table row.
type TableCell struct {
	Text   string
	VMerge string
}

// TableRow is one generated table row ready for serialization.
type TableRow struct {
	Cells []TableCell
}

// MarshalRows serializes generated rows to WordprocessingML table rows.
func MarshalRows(rows []TableRow) string {
	var b strings.Builder
	for _, row := range rows {
		b.WriteString("<w:tr>")
		for _, cell := range row.Cells {
			writeCell(&b, cell)
		}
		b.WriteString("</w:tr>")
	}
	return b.String()
}

func writeCell(b *strings.Builder, cell TableCell) {
	b.WriteString("<w:tc>")
	switch cell.VMerge {
	case VMergeRestart:
		b.WriteString(`<w:tcPr><w:vMerge w:val="restart"/></w:tcPr>`)
	case VMergeContinue:
		b.WriteString(`<w:tcPr><w:vMerge/></w:tcPr>`)
	}
	if cell.Text == "" {
		b.WriteString("<w:p/>")
	} else {
		b.WriteString(`<w:p><w:r><w:t xml:space="preserve">`)
		b.WriteString(EscapeText(cell.Text))
		b.WriteString("</w:t></w:r></w:p>")
	}
	b.WriteString("</w:tc>")
}

// EscapeText escapes a string for inclusion in document XML character data.
func EscapeText(s string) string {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		// strings.Builder never fails; keep the raw text as a fallback.
		return s
	}
	return b.String()
}

// RowBounds locates the table row element enclosing the given offset in the
// document XML and returns the byte range covering "<w:tr" through "</w:tr>".
func RowBounds(document string, offset int) (int, int, error) {
	if offset < 0 || offset > len(document) {
		return 0, 0, fmt.Errorf("offset %d out of range", offset)
	}

	start := strings.LastIndex(document[:offset], "<w:tr")
	for start >= 0 {
		after := start + len("<w:tr")
		if after < len(document) && (document[after] == '>' || document[after] == ' ') {
			break
		}
		start = strings.LastIndex(document[:start], "<w:tr")
	}
	if start < 0 {
		return 0, 0, fmt.Errorf("no enclosing table row at offset %d", offset)
	}
	// A row closing before the offset means the offset sits between rows, not
	// inside the one found.
	if strings.Contains(document[start:offset], "</w:tr>") {
		return 0, 0, fmt.Errorf("no enclosing table row at offset %d", offset)
	}

	rel := strings.Index(document[offset:], "</w:tr>")
	if rel < 0 {
		return 0, 0, fmt.Errorf("unclosed table row at offset %d", offset)
	}
	end := offset + rel + len("</w:tr>")

	return start, end, nil
}
