package sheet

type coord struct{ row, col int }

// Memory is an in-memory Store. It backs legacy .xls sheets, which are
// loaded once and never written back, and is the store used in tests.
type Memory struct {
	id     StoreID
	name   string
	cells  map[coord]Value
	maxRow int
	maxCol int
}

// NewMemory returns an empty sheet called name.
func NewMemory(name string) *Memory {
	return &Memory{id: NewStoreID(), name: name, cells: map[coord]Value{}}
}

func (m *Memory) ID() StoreID    { return m.id }
func (m *Memory) Name() string   { return m.name }
func (m *Memory) MaxRow() int    { return m.maxRow }
func (m *Memory) MaxColumn() int { return m.maxCol }

func (m *Memory) Cell(row, col int) Value {
	return m.cells[coord{row, col}]
}

func (m *Memory) SetCell(row, col int, v Value) error {
	if row < 1 || col < 1 {
		return ErrBadCoordinates
	}
	if v.IsEmpty() {
		delete(m.cells, coord{row, col})
		return nil
	}
	m.cells[coord{row, col}] = v
	if row > m.maxRow {
		m.maxRow = row
	}
	if col > m.maxCol {
		m.maxCol = col
	}
	return nil
}
