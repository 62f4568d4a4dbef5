package grid

import (
	"fmt"
	"strconv"

	"docforge/internal/services"
)

// Kind selects the column layout family for generated rows.
type Kind int

const (
	// KindTable produces plain table rows with an optional set of columns
	// shared across all rows through vertically merged cells.
	KindTable Kind = iota
	// KindCalendar produces a numbered month header followed by rows with one
	// description cell and twelve month slots.
	KindCalendar
)

// Layout describes the columns of the generated rows.
type Layout struct {
	Kind Kind

	// DataCells is the number of empty data cells following the description
	// cell on every plain-table row.
	DataCells int

	// SharedColumns lists token names emitted only on row 1 as cells spanning
	// all generated rows. Ignored for calendar layouts.
	SharedColumns []string

	// Months is the calendar span: 12 or 24. A 24-month calendar keeps twelve
	// physical header columns and labels them 2, 4, ..., 24.
	Months int
}

// Cell is one generated table cell. RowSpan is zero for ordinary cells; a
// positive value marks the cell as vertically spanning that many rows.
type Cell struct {
	Text    string
	RowSpan int
}

// Row is one generated table row.
type Row struct {
	Cells []Cell
}

// Spec pairs a row count with a column layout, describing one dynamic region.
type Spec struct {
	Rows   int
	Layout Layout
}

// Generate produces the rows described by the spec.
func (s Spec) Generate() ([]Row, error) {
	return Generate(s.Rows, s.Layout)
}

// monthSlots is the number of physical month columns a calendar row carries,
// independent of the month span.
const monthSlots = 12

// Generate produces the table rows for a dynamic region. Plain layouts yield
// exactly rowCount rows; calendar layouts yield a header row plus rowCount
// body rows. Row tokens are 1-indexed: {{table_row1}} .. {{table_rowN}}.
func Generate(rowCount int, layout Layout) ([]Row, error) {
	if rowCount < 1 {
		return nil, fmt.Errorf("%w: row count must be at least 1, got %d", services.ErrInvalidGridSpec, rowCount)
	}

	switch layout.Kind {
	case KindTable:
		return generateTable(rowCount, layout), nil
	case KindCalendar:
		if layout.Months != 12 && layout.Months != 24 {
			return nil, fmt.Errorf("%w: month count must be 12 or 24, got %d", services.ErrInvalidGridSpec, layout.Months)
		}
		return generateCalendar(rowCount, layout.Months), nil
	default:
		return nil, fmt.Errorf("%w: unknown layout kind %d", services.ErrInvalidGridSpec, layout.Kind)
	}
}

func generateTable(rowCount int, layout Layout) []Row {
	rows := make([]Row, 0, rowCount)
	for i := 1; i <= rowCount; i++ {
		cells := make([]Cell, 0, 1+layout.DataCells+len(layout.SharedColumns))
		cells = append(cells, Cell{Text: rowToken(i)})
		for d := 0; d < layout.DataCells; d++ {
			cells = append(cells, Cell{})
		}
		// Shared columns appear once, on the first row, spanning every
		// generated row. Rows 2..N omit them entirely.
		if i == 1 {
			for _, name := range layout.SharedColumns {
				cells = append(cells, Cell{Text: "{{" + name + "}}", RowSpan: rowCount})
			}
		}
		rows = append(rows, Row{Cells: cells})
	}
	return rows
}

func generateCalendar(rowCount, months int) []Row {
	multiplier := months / monthSlots

	header := Row{Cells: make([]Cell, 0, monthSlots)}
	for m := 1; m <= monthSlots; m++ {
		header.Cells = append(header.Cells, Cell{Text: strconv.Itoa(m * multiplier)})
	}

	rows := make([]Row, 0, rowCount+1)
	rows = append(rows, header)
	for i := 1; i <= rowCount; i++ {
		cells := make([]Cell, 0, 1+monthSlots)
		cells = append(cells, Cell{Text: rowToken(i)})
		for m := 0; m < monthSlots; m++ {
			cells = append(cells, Cell{})
		}
		rows = append(rows, Row{Cells: cells})
	}
	return rows
}

func rowToken(i int) string {
	return "{{table_row" + strconv.Itoa(i) + "}}"
}
