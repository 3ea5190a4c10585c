package model

// Matrix is a row-major 2-D grid of activations: rows are frames, columns
// are frequency bins. A matrix with zero rows is valid.
type Matrix struct {
	Rows int       `json:"rows"`
	Cols int       `json:"cols"`
	Data []float64 `json:"data"`
}

func NewMatrix(rows, cols int) Matrix {
	return Matrix{Rows: rows, Cols: cols, Data: make([]float64, rows*cols)}
}

// MatrixFromRows copies rows into a new matrix. Rows must all be the same length.
func MatrixFromRows(rows [][]float64) (Matrix, error) {
	if len(rows) == 0 {
		return Matrix{}, nil
	}
	m := NewMatrix(len(rows), len(rows[0]))
	for i, row := range rows {
		if len(row) != m.Cols {
			return Matrix{}, NewShapeError("row %d has %d columns, expected %d", i, len(row), m.Cols)
		}
		copy(m.Row(i), row)
	}
	return m, nil
}

func (m Matrix) At(r, c int) float64 {
	return m.Data[r*m.Cols+c]
}

func (m Matrix) Set(r, c int, v float64) {
	m.Data[r*m.Cols+c] = v
}

// Row returns a view of row r, not a copy.
func (m Matrix) Row(r int) []float64 {
	return m.Data[r*m.Cols : (r+1)*m.Cols]
}

func (m Matrix) Clone() Matrix {
	data := make([]float64, len(m.Data))
	copy(data, m.Data)
	return Matrix{Rows: m.Rows, Cols: m.Cols, Data: data}
}

func (m Matrix) SameShape(o Matrix) bool {
	return m.Rows == o.Rows && m.Cols == o.Cols
}

// Validate checks that Data holds exactly Rows*Cols values.
func (m Matrix) Validate() error {
	if m.Rows < 0 || m.Cols < 0 {
		return NewShapeError("negative matrix dimensions (%d, %d)", m.Rows, m.Cols)
	}
	if len(m.Data) != m.Rows*m.Cols {
		return NewShapeError("matrix (%d, %d) has %d values", m.Rows, m.Cols, len(m.Data))
	}
	return nil
}
