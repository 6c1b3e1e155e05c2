package render

import (
	"github.com/san-kum/pengviz/internal/dataset"
	"github.com/san-kum/pengviz/internal/penguin"
)

// DefaultPageSize is the number of rows per page of the grid.
const DefaultPageSize = 10

// DataTable renders the view as a plain table.
func DataTable(v dataset.View) *Table {
	return &Table{
		Output:  OutputDataTable,
		Title:   "Penguin Data Table",
		Mode:    ModeTable,
		Columns: columns(),
		Rows:    rows(v),
	}
}

// DataGrid renders the view as a paged, sortable grid.
func DataGrid(v dataset.View) *Table {
	return &Table{
		Output:   OutputDataGrid,
		Title:    "Penguin Data Grid",
		Mode:     ModeGrid,
		Columns:  columns(),
		Rows:     rows(v),
		PageSize: DefaultPageSize,
		Sortable: true,
	}
}

func columns() []string {
	out := make([]string, len(penguin.Header))
	copy(out, penguin.Header)
	return out
}

func rows(v dataset.View) [][]string {
	out := make([][]string, v.Len())
	for i := range out {
		out[i] = v.At(i).Fields()
	}
	return out
}
