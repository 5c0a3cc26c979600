package waterfall

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
	"github.com/cwbudde/algo-waterfall/dsp/core"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Axis selects the dimension [Integrate] averages over.
type Axis int

const (
	// AxisTime averages over time samples, producing a spectrum.
	AxisTime Axis = iota
	// AxisFreq averages over channels, producing a time series.
	AxisFreq
)

func (a Axis) String() string {
	switch a {
	case AxisTime:
		return "time"
	case AxisFreq:
		return "freq"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// Data returns the polarization-0 samples as a time x frequency matrix.
// Path handles are opened with their sample data. With [WithDB] every value
// is replaced by 10*log10(value): zeros become -Inf and negative values NaN.
func Data(h Handle, opts ...Option) (*mat.Dense, error) {
	cfg := applyOptions(opts...)

	m, err := linearData(h, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.db {
		powerToDB(m)
	}
	return m, nil
}

func linearData(h Handle, cfg config) (*mat.Dense, error) {
	w, err := h.open(cfg, true)
	if err != nil {
		return nil, err
	}

	m, err := w.Pol(0)
	if err != nil {
		return nil, readError(h, err)
	}
	return m, nil
}

// powerToDB converts m in place, row by row.
func powerToDB(m *mat.Dense) {
	if m.IsEmpty() {
		return
	}

	rows, cols := m.Dims()
	logs := make([]float64, cols)
	for i := 0; i < rows; i++ {
		row := m.RawRowView(i)
		for j, v := range row {
			logs[j] = math.Log10(v)
		}
		vecmath.ScaleBlock(row, logs, 10)
	}
}

// Integrate averages the polarization-0 samples over the given axis.
// AxisTime yields one value per channel, AxisFreq one value per time
// sample. With [WithDB] the averages are converted to decibels. A waterfall
// without samples yields [ErrNoData].
func Integrate(h Handle, axis Axis, opts ...Option) ([]float64, error) {
	cfg := applyOptions(opts...)

	m, err := linearData(h, cfg)
	if err != nil {
		return nil, err
	}
	if m.IsEmpty() {
		return nil, noDataError(h, nil)
	}

	rows, cols := m.Dims()
	var out []float64
	switch axis {
	case AxisTime:
		sum := make([]float64, cols)
		for i := 0; i < rows; i++ {
			vecmath.AddBlockInPlace(sum, m.RawRowView(i))
		}
		out = make([]float64, cols)
		vecmath.ScaleBlock(out, sum, 1/float64(rows))
	case AxisFreq:
		out = make([]float64, rows)
		for i := range out {
			out[i] = floats.Sum(m.RawRowView(i)) / float64(cols)
		}
	default:
		return nil, fmt.Errorf("waterfall: unknown axis %v", axis)
	}

	if cfg.db {
		for i, v := range out {
			out[i] = core.LinearPowerToDB(v)
		}
	}
	return out, nil
}
