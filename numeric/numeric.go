package numeric

import (
	"math"

	"github.com/jsphweid/pitchscribe/model"
	"gonum.org/v1/gonum/dsp/window"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type Cell struct {
	Row int
	Col int
}

// ArgMax returns the index of the largest value in row. Ties go to the
// first index. ok is false for an empty row.
func ArgMax(row []float64) (idx int, ok bool) {
	if len(row) == 0 {
		return 0, false
	}
	return floats.MaxIdx(row), true
}

// LocalMaxima returns the cells that are strictly greater than every other
// cell in the same column within ±order rows. The window is clipped at the
// edges, so boundary rows are compared against fewer neighbors. Cells are
// listed column by column.
func LocalMaxima(m model.Matrix, order int) []Cell {
	var res []Cell
	for col := 0; col < m.Cols; col++ {
		for row := 0; row < m.Rows; row++ {
			if isLocalMax(m, row, col, order) {
				res = append(res, Cell{Row: row, Col: col})
			}
		}
	}
	return res
}

func isLocalMax(m model.Matrix, row, col, order int) bool {
	v := m.At(row, col)
	lo := max(0, row-order)
	hi := min(m.Rows-1, row+order)
	for r := lo; r <= hi; r++ {
		if r != row && v <= m.At(r, col) {
			return false
		}
	}
	return true
}

// WhereGreaterThan lists the cells above threshold in row-major order.
func WhereGreaterThan(m model.Matrix, threshold float64) []Cell {
	var res []Cell
	for row := 0; row < m.Rows; row++ {
		for col, v := range m.Row(row) {
			if v > threshold {
				res = append(res, Cell{Row: row, Col: col})
			}
		}
	}
	return res
}

// MeanStd returns the population mean and the Bessel-corrected standard
// deviation of every cell.
func MeanStd(m model.Matrix) (float64, float64, error) {
	if len(m.Data) < 2 {
		return 0, 0, model.NewArithmeticError("mean/std needs at least 2 values, got %d", len(m.Data))
	}
	mean, std := stat.MeanStdDev(m.Data, nil)
	return mean, std, nil
}

// GlobalMax returns the largest cell, or 0 for an empty matrix.
func GlobalMax(m model.Matrix) float64 {
	if len(m.Data) == 0 {
		return 0
	}
	return floats.Max(m.Data)
}

// GlobalArgMax finds the largest cell scanning row-major; the first one wins ties.
func GlobalArgMax(m model.Matrix) (Cell, bool) {
	idx, ok := ArgMax(m.Data)
	if !ok {
		return Cell{}, false
	}
	return Cell{Row: idx / m.Cols, Col: idx % m.Cols}, true
}

func MinAcross(stack []model.Matrix) (model.Matrix, error) {
	return reduceAcross(stack, math.Min)
}

func MaxAcross(stack []model.Matrix) (model.Matrix, error) {
	return reduceAcross(stack, math.Max)
}

func reduceAcross(stack []model.Matrix, f func(a, b float64) float64) (model.Matrix, error) {
	if len(stack) == 0 {
		return model.Matrix{}, model.NewShapeError("cannot reduce an empty stack")
	}
	res := stack[0].Clone()
	for i, m := range stack[1:] {
		if !m.SameShape(res) {
			return model.Matrix{}, model.NewShapeError("matrix %d is (%d, %d), expected (%d, %d)",
				i+1, m.Rows, m.Cols, res.Rows, res.Cols)
		}
		for j, v := range m.Data {
			res.Data[j] = f(res.Data[j], v)
		}
	}
	return res, nil
}

// GaussianWindow returns w(n) = exp(-1/2 * ((n - (length-1)/2) / sigma)^2).
// The center tap of an odd-length window is exactly 1.
func GaussianWindow(length int, sigma float64) []float64 {
	if length <= 0 {
		return []float64{}
	}
	res := make([]float64, length)
	for i := range res {
		res[i] = 1
	}
	if length == 1 {
		return res
	}
	// gonum scales sigma by the half width
	half := float64(length-1) / 2
	return window.Gaussian{Sigma: sigma / half}.Transform(res)
}

func HzToMidi(hz float64) float64 {
	return 12*(math.Log2(hz)-math.Log2(440)) + 69
}

func MidiToHz(midi float64) float64 {
	return 440 * math.Pow(2, (midi-69)/12)
}
