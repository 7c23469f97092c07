package dataset

// Record is a row of a dataset, Value returns the cell of a column.
type Record interface {
	Value(column string) string
}

// Table is an append-only list of records with a fixed column order.
type Table[R Record] struct {
	Columns []string
	Records []R
}

func NewTable[R Record](columns []string) *Table[R] {
	return &Table[R]{Columns: columns}
}

func (t *Table[R]) Append(records ...R) {
	t.Records = append(t.Records, records...)
}

func (t *Table[R]) Len() int {
	return len(t.Records)
}

// Rows renders every record in column order.
func (t *Table[R]) Rows() [][]string {
	rows := make([][]string, len(t.Records))
	for i, r := range t.Records {
		row := make([]string, len(t.Columns))
		for j, column := range t.Columns {
			row[j] = r.Value(column)
		}
		rows[i] = row
	}
	return rows
}
