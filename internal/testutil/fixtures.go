package testutil

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// FilFile describes a synthetic SIGPROC filterbank file. Data is laid out
// as [time][IF][channel]; NBits selects the on-disk sample encoding.
type FilFile struct {
	SourceName string
	FCh1       float64
	FOff       float64
	TSamp      float64
	TStart     float64
	NChans     int
	NIFs       int
	NBits      int
	Data       []float64

	// Extra is appended after the samples, e.g. to simulate a truncated
	// trailing spectrum.
	Extra []byte
}

// Encode returns the file contents.
func (f FilFile) Encode() []byte {
	var buf bytes.Buffer
	putString := func(s string) {
		_ = binary.Write(&buf, binary.LittleEndian, int32(len(s)))
		buf.WriteString(s)
	}
	putInt := func(k string, v int) {
		putString(k)
		_ = binary.Write(&buf, binary.LittleEndian, int32(v))
	}
	putDouble := func(k string, v float64) {
		putString(k)
		_ = binary.Write(&buf, binary.LittleEndian, v)
	}

	nifs := f.NIFs
	if nifs == 0 {
		nifs = 1
	}
	nbits := f.NBits
	if nbits == 0 {
		nbits = 32
	}

	putString("HEADER_START")
	putInt("telescope_id", 6)
	putInt("machine_id", 10)
	putInt("data_type", 1)
	if f.SourceName != "" {
		putString("source_name")
		putString(f.SourceName)
	}
	putDouble("tstart", f.TStart)
	putDouble("tsamp", f.TSamp)
	putDouble("fch1", f.FCh1)
	putDouble("foff", f.FOff)
	putInt("nchans", f.NChans)
	putInt("nifs", nifs)
	putInt("nbits", nbits)
	putString("HEADER_END")

	for _, v := range f.Data {
		switch nbits {
		case 8:
			buf.WriteByte(uint8(v))
		case 16:
			_ = binary.Write(&buf, binary.LittleEndian, uint16(v))
		default:
			_ = binary.Write(&buf, binary.LittleEndian, math.Float32bits(float32(v)))
		}
	}
	buf.Write(f.Extra)
	return buf.Bytes()
}

// WriteFil writes f to a file named name inside a per-test temporary
// directory and returns its path.
func WriteFil(t testing.TB, name string, f FilFile) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, f.Encode(), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}
