package render

import (
	"fmt"
	"strings"

	"docforge/internal/docx"
	"docforge/internal/grid"
	"docforge/internal/services"
	"docforge/internal/token"
)

// BodyMarker is the token name a template uses to declare its dynamic table
// region. The renderer replaces the table row containing it with the
// generated rows; heading rows above and trailing rows (totals) below stay
// exactly as authored.
const BodyMarker = "table_body"

// Options controls rendering behaviour.
type Options struct {
	// Strict makes an unbound token abort the render instead of resolving to
	// an empty value.
	Strict bool
}

// File renders a template package into a new working document at outputPath.
// The template file is never written to.
func File(templatePath, outputPath string, bindings token.Bindings, spec *grid.Spec, opts Options) error {
	pkg, err := docx.Open(templatePath)
	if err != nil {
		return fmt.Errorf("open template: %w", err)
	}

	rendered, err := Document(pkg.Document(), bindings, spec, opts)
	if err != nil {
		return err
	}

	pkg.SetDocument(rendered)
	if err := pkg.Save(outputPath); err != nil {
		return fmt.Errorf("save working document: %w", err)
	}
	return nil
}

// Document renders document XML: the dynamic region is filled from the grid
// spec, then every placeholder token is resolved and substituted in place.
// Markup outside tokens is preserved byte for byte.
func Document(document string, bindings token.Bindings, spec *grid.Spec, opts Options) (string, error) {
	hasMarker := strings.Contains(document, markerToken)

	switch {
	case spec != nil && !hasMarker:
		return "", fmt.Errorf("%w: grid spec given but template declares no %s region", services.ErrConfiguration, markerToken)
	case spec == nil && hasMarker:
		return "", fmt.Errorf("%w: template declares a %s region but no grid spec was given", services.ErrConfiguration, markerToken)
	}

	if spec != nil {
		rows, err := spec.Generate()
		if err != nil {
			return "", err
		}
		spliced, err := splice(document, rows)
		if err != nil {
			return "", err
		}
		document = spliced
	}

	return substitute(document, bindings, opts.Strict)
}

// Scan returns the distinct placeholder token names a template declares.
func Scan(templatePath string) ([]string, error) {
	pkg, err := docx.Open(templatePath)
	if err != nil {
		return nil, fmt.Errorf("open template: %w", err)
	}
	return token.Names(pkg.Document())
}

const markerToken = "{{" + BodyMarker + "}}"

// splice replaces the marker row with the generated rows.
func splice(document string, rows []grid.Row) (string, error) {
	idx := strings.Index(document, markerToken)
	start, end, err := docx.RowBounds(document, idx)
	if err != nil {
		return "", fmt.Errorf("%w: dynamic region marker must sit inside a table row: %v", services.ErrConfiguration, err)
	}

	generated := docx.MarshalRows(toDocxRows(rows))
	return document[:start] + generated + document[end:], nil
}

// toDocxRows converts generated grid rows to WordprocessingML rows, expanding
// each row-spanning cell into a vMerge restart plus the continuation cells
// OOXML requires on the rows below.
func toDocxRows(rows []grid.Row) []docx.TableRow {
	type span struct {
		remaining int
	}
	var active []*span

	out := make([]docx.TableRow, 0, len(rows))
	for _, row := range rows {
		var cells []docx.TableCell
		var opened []*span
		for _, cell := range row.Cells {
			if cell.RowSpan > 1 {
				cells = append(cells, docx.TableCell{Text: cell.Text, VMerge: docx.VMergeRestart})
				opened = append(opened, &span{remaining: cell.RowSpan - 1})
				continue
			}
			cells = append(cells, docx.TableCell{Text: cell.Text})
		}

		kept := active[:0]
		for _, sp := range active {
			cells = append(cells, docx.TableCell{VMerge: docx.VMergeContinue})
			sp.remaining--
			if sp.remaining > 0 {
				kept = append(kept, sp)
			}
		}
		active = append(kept, opened...)

		out = append(out, docx.TableRow{Cells: cells})
	}
	return out
}

func substitute(document string, bindings token.Bindings, strict bool) (string, error) {
	return token.Replace(document, func(name string) (string, error) {
		value, err := token.Resolve(name, bindings, strict)
		if err != nil {
			return "", err
		}
		return docx.EscapeText(value), nil
	})
}
