package waterfall

import (
	"errors"
	"io/fs"
	"math"
	"path/filepath"
	"testing"

	"github.com/cwbudde/algo-waterfall/filterbank"
	"github.com/cwbudde/algo-waterfall/internal/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gonum.org/v1/gonum/mat"
)

func mustNew(t *testing.T, h filterbank.Header, data []float64) *filterbank.Waterfall {
	t.Helper()
	w, err := filterbank.New(h, data)
	if err != nil {
		t.Fatalf("filterbank.New: %v", err)
	}
	return w
}

func rampFixture(t *testing.T) (string, testutil.FilFile) {
	t.Helper()
	f := testutil.FilFile{
		SourceName: "synthetic",
		FCh1:       100,
		FOff:       0.5,
		TSamp:      0.25,
		NChans:     4,
		Data:       testutil.Ramp(5, 4),
	}
	return testutil.WriteFil(t, "ramp.fil", f), f
}

func TestFreqBoundsLoaded(t *testing.T) {
	h := Loaded(mustNew(t, filterbank.Header{FCh1: 100, FOff: 25, NChans: 4}, make([]float64, 4)))

	maxF, err := MaxFreq(h)
	if err != nil {
		t.Fatalf("MaxFreq: %v", err)
	}
	minF, err := MinFreq(h)
	if err != nil {
		t.Fatalf("MinFreq: %v", err)
	}
	if maxF != 200 || minF != 100 {
		t.Fatalf("bounds = [%v, %v], want [100, 200]", minF, maxF)
	}
}

func TestFreqBoundsByPath(t *testing.T) {
	path, _ := rampFixture(t)

	maxF, err := MaxFreq(ByPath(path))
	if err != nil {
		t.Fatalf("MaxFreq: %v", err)
	}
	minF, err := MinFreq(ByPath(path))
	if err != nil {
		t.Fatalf("MinFreq: %v", err)
	}
	if maxF != 102 || minF != 100 {
		t.Fatalf("bounds = [%v, %v], want [100, 102]", minF, maxF)
	}
}

func TestFreqAxis(t *testing.T) {
	tests := []struct {
		name string
		hdr  filterbank.Header
		want []float64
	}{
		{
			name: "ascending",
			hdr:  filterbank.Header{FCh1: 100, FOff: 0.5, NChans: 4},
			want: []float64{100, 100.5, 101, 101.5},
		},
		{
			name: "descending",
			hdr:  filterbank.Header{FCh1: 100, FOff: -0.5, NChans: 4},
			want: []float64{100, 99.5, 99, 98.5},
		},
		{
			// 3*0.1 rounds above 0.3, so the half-open range keeps a
			// fourth element. This mirrors arange and is kept on purpose.
			name: "float step overshoot",
			hdr:  filterbank.Header{FCh1: 0, FOff: 0.1, NChans: 3},
			want: []float64{0, 0.1, 0.2, 0.30000000000000004},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Loaded(mustNew(t, tt.hdr, make([]float64, tt.hdr.NChans)))
			got, err := FreqAxis(h)
			if err != nil {
				t.Fatalf("FreqAxis: %v", err)
			}
			testutil.RequireSliceNearlyEqual(t, got, tt.want, 1e-12)
		})
	}
}

func TestFreqAxisExcludesStop(t *testing.T) {
	h := Loaded(mustNew(t, filterbank.Header{FCh1: 100, FOff: 0.5, NChans: 4}, make([]float64, 4)))
	freqs, err := FreqAxis(h)
	if err != nil {
		t.Fatalf("FreqAxis: %v", err)
	}
	for _, f := range freqs {
		if f == 102 {
			t.Fatal("axis contains the exclusive stop 102")
		}
	}
}

func TestData(t *testing.T) {
	path, f := rampFixture(t)

	got, err := Data(ByPath(path))
	if err != nil {
		t.Fatalf("Data: %v", err)
	}
	testutil.RequireDenseNearlyEqual(t, got, mat.NewDense(5, 4, f.Data), 0)
}

func TestDataSelectsFirstPolarization(t *testing.T) {
	data := []float64{
		1, 2, 100, 200,
		3, 4, 300, 400,
	}
	h := Loaded(mustNew(t, filterbank.Header{FCh1: 1, FOff: 1, NChans: 2, NIFs: 2}, data))

	got, err := Data(h)
	if err != nil {
		t.Fatalf("Data: %v", err)
	}
	testutil.RequireDenseNearlyEqual(t, got, mat.NewDense(2, 2, []float64{1, 2, 3, 4}), 0)
}

func TestDataDB(t *testing.T) {
	power := testutil.DeterministicPower(7, 0.01, 1000, 6*8)
	h := Loaded(mustNew(t, filterbank.Header{FCh1: 1, FOff: 1, NChans: 8}, power))

	lin, err := Data(h)
	if err != nil {
		t.Fatalf("Data: %v", err)
	}
	db, err := Data(h, WithDB())
	if err != nil {
		t.Fatalf("Data(WithDB): %v", err)
	}

	rows, cols := lin.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			want := 10 * math.Log10(lin.At(i, j))
			if math.Abs(db.At(i, j)-want) > 1e-12 {
				t.Fatalf("db[%d,%d] = %v, want %v", i, j, db.At(i, j), want)
			}
		}
	}

	if power[0] != lin.At(0, 0) {
		t.Fatal("WithDB modified the loaded waterfall")
	}
}

func TestDataDBNonPositive(t *testing.T) {
	h := Loaded(mustNew(t, filterbank.Header{FCh1: 1, FOff: 1, NChans: 2}, []float64{0, -1}))
	db, err := Data(h, WithDB())
	if err != nil {
		t.Fatalf("Data: %v", err)
	}
	if !math.IsInf(db.At(0, 0), -1) {
		t.Fatalf("db(0) = %v, want -Inf", db.At(0, 0))
	}
	if !math.IsNaN(db.At(0, 1)) {
		t.Fatalf("db(-1) = %v, want NaN", db.At(0, 1))
	}
}

func TestDataNotLoaded(t *testing.T) {
	path, _ := rampFixture(t)
	w, err := filterbank.Open(path, filterbank.WithoutData())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	_, err = Data(Loaded(w))
	if !errors.Is(err, ErrRead) || !errors.Is(err, filterbank.ErrNotLoaded) {
		t.Fatalf("err = %v, want ErrRead wrapping ErrNotLoaded", err)
	}
}

func TestTimeAxis(t *testing.T) {
	path, f := rampFixture(t)

	want := make([]float64, 5)
	for i := range want {
		want[i] = float64(i) * f.TSamp
	}

	for name, h := range map[string]Handle{
		"path":   ByPath(path),
		"loaded": Loaded(mustOpen(t, path)),
	} {
		got, err := TimeAxis(h)
		if err != nil {
			t.Fatalf("%s: TimeAxis: %v", name, err)
		}
		testutil.RequireSliceNearlyEqual(t, got, want, 1e-9)
	}
}

func TestTimeAxisDescendingBand(t *testing.T) {
	h := Loaded(mustNew(t, filterbank.Header{FCh1: 200, FOff: -1, NChans: 3, TSamp: 0.5}, testutil.Ramp(4, 3)))
	got, err := TimeAxis(h)
	if err != nil {
		t.Fatalf("TimeAxis: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, got, []float64{0, 0.5, 1, 1.5}, 1e-12)
}

func TestTimeAxisNoData(t *testing.T) {
	empty := Loaded(mustNew(t, filterbank.Header{FCh1: 100, FOff: 0.5, NChans: 4, TSamp: 1}, nil))
	if _, err := TimeAxis(empty); !errors.Is(err, ErrNoData) {
		t.Fatalf("loaded: err = %v, want ErrNoData", err)
	}

	path := testutil.WriteFil(t, "header-only.fil", testutil.FilFile{FCh1: 100, FOff: 0.5, NChans: 4, TSamp: 1})
	if _, err := TimeAxis(ByPath(path)); !errors.Is(err, ErrNoData) {
		t.Fatalf("path: err = %v, want ErrNoData", err)
	}
}

func TestInvalidHandle(t *testing.T) {
	handles := map[string]Handle{
		"zero":       {},
		"empty path": ByPath(""),
		"nil loaded": Loaded(nil),
	}

	for name, h := range handles {
		t.Run(name, func(t *testing.T) {
			if h.Valid() {
				t.Fatal("expected invalid handle")
			}
			if _, err := MaxFreq(h); !errors.Is(err, ErrInvalidHandle) {
				t.Fatalf("MaxFreq err = %v", err)
			}
			if _, err := MinFreq(h); !errors.Is(err, ErrInvalidHandle) {
				t.Fatalf("MinFreq err = %v", err)
			}
			if _, err := Data(h); !errors.Is(err, ErrInvalidHandle) {
				t.Fatalf("Data err = %v", err)
			}
			if _, err := FreqAxis(h); !errors.Is(err, ErrInvalidHandle) {
				t.Fatalf("FreqAxis err = %v", err)
			}
			if _, err := TimeAxis(h); !errors.Is(err, ErrInvalidHandle) {
				t.Fatalf("TimeAxis err = %v", err)
			}
			if _, err := Integrate(h, AxisTime); !errors.Is(err, ErrInvalidHandle) {
				t.Fatalf("Integrate err = %v", err)
			}
		})
	}
}

func TestMissingFile(t *testing.T) {
	h := ByPath(filepath.Join(t.TempDir(), "missing.fil"))

	checks := map[string]func() error{
		"MaxFreq":   func() error { _, err := MaxFreq(h); return err },
		"MinFreq":   func() error { _, err := MinFreq(h); return err },
		"Data":      func() error { _, err := Data(h); return err },
		"FreqAxis":  func() error { _, err := FreqAxis(h); return err },
		"TimeAxis":  func() error { _, err := TimeAxis(h); return err },
		"Integrate": func() error { _, err := Integrate(h, AxisTime); return err },
	}
	for name, check := range checks {
		err := check()
		if !errors.Is(err, ErrRead) || !errors.Is(err, fs.ErrNotExist) {
			t.Fatalf("%s: err = %v, want ErrRead and fs.ErrNotExist", name, err)
		}
		if errors.Is(err, ErrNoData) || errors.Is(err, ErrInvalidHandle) {
			t.Fatalf("%s: err = %v matches another error kind", name, err)
		}
	}
}

func TestPathAndLoadedAgree(t *testing.T) {
	path, _ := rampFixture(t)
	byPath := ByPath(path)
	loaded := Loaded(mustOpen(t, path))

	for _, h := range []Handle{byPath, loaded} {
		freqs, err := FreqAxis(h)
		if err != nil {
			t.Fatalf("%s: FreqAxis: %v", h, err)
		}
		testutil.RequireSliceNearlyEqual(t, freqs, []float64{100, 100.5, 101, 101.5}, 1e-12)
	}

	a, err := Data(byPath, WithDB())
	if err != nil {
		t.Fatalf("Data: %v", err)
	}
	b, err := Data(loaded, WithDB())
	if err != nil {
		t.Fatalf("Data: %v", err)
	}
	testutil.RequireDenseNearlyEqual(t, a, b, 0)
}

func TestIntegrate(t *testing.T) {
	// Rows are time samples: [1 2 3], [4 5 6].
	h := Loaded(mustNew(t, filterbank.Header{FCh1: 1, FOff: 1, NChans: 3}, testutil.Ramp(2, 3)))

	avg, err := Integrate(h, AxisTime)
	if err != nil {
		t.Fatalf("Integrate(time): %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, avg, []float64{2.5, 3.5, 4.5}, 1e-12)

	series, err := Integrate(h, AxisFreq)
	if err != nil {
		t.Fatalf("Integrate(freq): %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, series, []float64{2, 5}, 1e-12)

	db, err := Integrate(h, AxisFreq, WithDB())
	if err != nil {
		t.Fatalf("Integrate(freq, db): %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, db, []float64{10 * math.Log10(2), 10 * math.Log10(5)}, 1e-12)

	if _, err := Integrate(h, Axis(7)); err == nil {
		t.Fatal("expected error for unknown axis")
	}
}

func TestIntegrateConstant(t *testing.T) {
	h := Loaded(mustNew(t, filterbank.Header{FCh1: 1, FOff: 1, NChans: 16}, testutil.DC(3.25, 10*16)))
	avg, err := Integrate(h, AxisTime)
	if err != nil {
		t.Fatalf("Integrate: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, avg, testutil.DC(3.25, 16), 1e-12)
}

func TestIntegrateEmpty(t *testing.T) {
	h := Loaded(mustNew(t, filterbank.Header{FCh1: 1, FOff: 1, NChans: 2}, nil))
	if _, err := Integrate(h, AxisTime); !errors.Is(err, ErrNoData) {
		t.Fatalf("err = %v, want ErrNoData", err)
	}
}

func TestLoggerReceivesReaderDiagnostics(t *testing.T) {
	path, _ := rampFixture(t)
	core, logs := observer.New(zapcore.DebugLevel)

	if _, err := TimeAxis(ByPath(path), WithLogger(zap.New(core))); err != nil {
		t.Fatalf("TimeAxis: %v", err)
	}

	if logs.FilterMessage("opened filterbank").Len() != 1 {
		t.Fatalf("expected one reader log entry, got %v", logs.All())
	}
	entries := logs.FilterMessage("time axis").All()
	if len(entries) != 1 || entries[0].ContextMap()["tchans"] != int64(5) {
		t.Fatalf("unexpected time axis log: %v", entries)
	}
}

func TestHandleString(t *testing.T) {
	if got := ByPath("a.fil").String(); got != "a.fil" {
		t.Fatalf("String() = %q", got)
	}
	w := mustNew(t, filterbank.Header{FCh1: 1, FOff: 1, NChans: 1}, nil)
	if got := Loaded(w).String(); got != "loaded(memory)" {
		t.Fatalf("String() = %q", got)
	}
	if got := (Handle{}).String(); got != "invalid handle" {
		t.Fatalf("String() = %q", got)
	}
}

func mustOpen(t *testing.T, path string) *filterbank.Waterfall {
	t.Helper()
	w, err := filterbank.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return w
}

func TestMalformedHeader(t *testing.T) {
	path := testutil.WriteFil(t, "corrupt.fil", testutil.FilFile{
		FCh1:   100,
		FOff:   0.5,
		NChans: -4,
		Data:   []float64{1, 2, 3, 4},
	})
	h := ByPath(path)

	checks := map[string]func() error{
		"MaxFreq":   func() error { _, err := MaxFreq(h); return err },
		"MinFreq":   func() error { _, err := MinFreq(h); return err },
		"Data":      func() error { _, err := Data(h); return err },
		"FreqAxis":  func() error { _, err := FreqAxis(h); return err },
		"TimeAxis":  func() error { _, err := TimeAxis(h); return err },
		"Integrate": func() error { _, err := Integrate(h, AxisFreq); return err },
	}
	for name, check := range checks {
		err := check()
		if !errors.Is(err, ErrRead) || !errors.Is(err, filterbank.ErrFormat) {
			t.Fatalf("%s: err = %v, want ErrRead and filterbank.ErrFormat", name, err)
		}
	}
}

func TestHeaderWithoutSamples(t *testing.T) {
	path := testutil.WriteFil(t, "empty.fil", testutil.FilFile{
		FCh1:   100,
		FOff:   0.5,
		TSamp:  1,
		NChans: 1 << 28,
	})
	h := ByPath(path)

	m, err := Data(h)
	if err != nil {
		t.Fatalf("Data: %v", err)
	}
	if !m.IsEmpty() {
		t.Fatal("expected empty matrix")
	}
	if _, err := TimeAxis(h); !errors.Is(err, ErrNoData) {
		t.Fatalf("TimeAxis err = %v, want ErrNoData", err)
	}
	if _, err := Integrate(h, AxisTime); !errors.Is(err, ErrNoData) {
		t.Fatalf("Integrate err = %v, want ErrNoData", err)
	}
}

func TestFreqAxisLogs(t *testing.T) {
	path, _ := rampFixture(t)
	obs, logs := observer.New(zapcore.DebugLevel)

	if _, err := FreqAxis(ByPath(path), WithLogger(zap.New(obs))); err != nil {
		t.Fatalf("FreqAxis: %v", err)
	}
	entries := logs.FilterMessage("frequency axis").All()
	if len(entries) != 1 || entries[0].ContextMap()["len"] != int64(4) {
		t.Fatalf("unexpected frequency axis log: %v", entries)
	}
}
