package export

import "errors"

// ErrNoColumns is returned when a table has nothing to render.
var ErrNoColumns = errors.New("export requires at least one column")

// Column describes one output column. Width is a relative weight used by PDF output.
type Column struct {
	Title string
	Width float64
}

// Table is the tabular content of an export.
type Table struct {
	Title   string
	Columns []Column
	Rows    [][]string
}

// Renderer turns a table into file bytes.
type Renderer interface {
	Render(Table) ([]byte, error)
	ContentType() string
	Extension() string
}

func (t Table) validate() error {
	if len(t.Columns) == 0 {
		return ErrNoColumns
	}
	return nil
}

// cell returns the value of column i, or "" for short rows.
func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
