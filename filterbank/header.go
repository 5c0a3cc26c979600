package filterbank

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

const (
	headerStart = "HEADER_START"
	headerEnd   = "HEADER_END"

	// maxKeywordLen bounds keyword and string value lengths so that a
	// corrupt length prefix is reported instead of allocating garbage.
	maxKeywordLen = 4096
)

// Header holds the SIGPROC header keywords of a filterbank file.
//
// Frequencies are in MHz and times in seconds, as written by the
// recording software.
type Header struct {
	TelescopeID   int
	MachineID     int
	DataType      int
	RawDataFile   string
	SourceName    string
	Barycentric   int
	PulsarCentric int
	AzStart       float64
	ZaStart       float64
	SrcRAJ        float64
	SrcDEJ        float64
	TStart        float64 // MJD of the first sample
	TSamp         float64 // sample interval
	NBits         int
	Signed        int
	FCh1          float64 // frequency of the first channel
	FOff          float64 // channel spacing, negative for descending bands
	NChans        int
	NIFs          int
	NBeams        int
	IBeam         int
	RefDM         float64
	Period        float64 // folding period
	HdrSize       int     // header size as recorded by the writer, if any

	// HeaderSize is the number of bytes up to and including HEADER_END.
	HeaderSize int64
	// NSamples is the number of time samples, derived from the file size
	// or from the in-memory data length.
	NSamples int
}

// FBegin returns the frequency of the first channel edge, fch1.
func (h Header) FBegin() float64 { return h.FCh1 }

// FEnd returns fch1 + nchans*foff.
func (h Header) FEnd() float64 { return h.FCh1 + float64(h.NChans)*h.FOff }

// bytesPerSpectrum returns the on-disk size of one time sample across all
// IFs and channels.
func (h Header) bytesPerSpectrum() int64 {
	return int64(h.NBits/8) * int64(h.nifs()) * int64(h.NChans)
}

func (h Header) nifs() int {
	if h.NIFs <= 0 {
		return 1
	}
	return h.NIFs
}

type keywordKind int

const (
	kindInt keywordKind = iota
	kindDouble
	kindString
	kindByte
)

type keyword struct {
	kind     keywordKind
	intField func(*Header) *int
	dblField func(*Header) *float64
	strField func(*Header) *string
}

var keywords = map[string]keyword{
	"telescope_id":  {kind: kindInt, intField: func(h *Header) *int { return &h.TelescopeID }},
	"machine_id":    {kind: kindInt, intField: func(h *Header) *int { return &h.MachineID }},
	"data_type":     {kind: kindInt, intField: func(h *Header) *int { return &h.DataType }},
	"barycentric":   {kind: kindInt, intField: func(h *Header) *int { return &h.Barycentric }},
	"pulsarcentric": {kind: kindInt, intField: func(h *Header) *int { return &h.PulsarCentric }},
	"nbits":         {kind: kindInt, intField: func(h *Header) *int { return &h.NBits }},
	"nsamples":      {kind: kindInt, intField: func(h *Header) *int { return &h.NSamples }},
	"nchans":        {kind: kindInt, intField: func(h *Header) *int { return &h.NChans }},
	"nifs":          {kind: kindInt, intField: func(h *Header) *int { return &h.NIFs }},
	"nbeams":        {kind: kindInt, intField: func(h *Header) *int { return &h.NBeams }},
	"ibeam":         {kind: kindInt, intField: func(h *Header) *int { return &h.IBeam }},
	"signed":        {kind: kindByte, intField: func(h *Header) *int { return &h.Signed }},
	"az_start":      {kind: kindDouble, dblField: func(h *Header) *float64 { return &h.AzStart }},
	"za_start":      {kind: kindDouble, dblField: func(h *Header) *float64 { return &h.ZaStart }},
	"src_raj":       {kind: kindDouble, dblField: func(h *Header) *float64 { return &h.SrcRAJ }},
	"src_dej":       {kind: kindDouble, dblField: func(h *Header) *float64 { return &h.SrcDEJ }},
	"tstart":        {kind: kindDouble, dblField: func(h *Header) *float64 { return &h.TStart }},
	"tsamp":         {kind: kindDouble, dblField: func(h *Header) *float64 { return &h.TSamp }},
	"fch1":          {kind: kindDouble, dblField: func(h *Header) *float64 { return &h.FCh1 }},
	"foff":          {kind: kindDouble, dblField: func(h *Header) *float64 { return &h.FOff }},
	"refdm":         {kind: kindDouble, dblField: func(h *Header) *float64 { return &h.RefDM }},
	"period":        {kind: kindDouble, dblField: func(h *Header) *float64 { return &h.Period }},
	"hdr_size":      {kind: kindInt, intField: func(h *Header) *int { return &h.HdrSize }},
	"rawdatafile":   {kind: kindString, strField: func(h *Header) *string { return &h.RawDataFile }},
	"source_name":   {kind: kindString, strField: func(h *Header) *string { return &h.SourceName }},
}

// headerReader tracks the number of bytes consumed while decoding.
type headerReader struct {
	r   io.Reader
	n   int64
	buf [8]byte
}

func (hr *headerReader) read(p []byte) error {
	n, err := io.ReadFull(hr.r, p)
	hr.n += int64(n)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFormat, err)
	}
	return nil
}

func (hr *headerReader) int32() (int32, error) {
	if err := hr.read(hr.buf[:4]); err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(hr.buf[:4])), nil
}

func (hr *headerReader) float64() (float64, error) {
	if err := hr.read(hr.buf[:8]); err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(hr.buf[:8])), nil
}

func (hr *headerReader) string() (string, error) {
	n, err := hr.int32()
	if err != nil {
		return "", err
	}
	if n <= 0 || n > maxKeywordLen {
		return "", fmt.Errorf("%w: string length %d at offset %d", ErrFormat, n, hr.n-4)
	}
	b := make([]byte, n)
	if err := hr.read(b); err != nil {
		return "", err
	}
	return string(b), nil
}

// ParseHeader decodes a SIGPROC header from r. The returned header has
// HeaderSize set; NSamples is only set if the header carries a nsamples
// keyword.
func ParseHeader(r io.Reader) (Header, error) {
	hr := &headerReader{r: r}

	first, err := hr.string()
	if err != nil {
		return Header{}, err
	}
	if first != headerStart {
		return Header{}, fmt.Errorf("%w: missing %s", ErrFormat, headerStart)
	}

	var h Header
	for {
		name, err := hr.string()
		if err != nil {
			return Header{}, err
		}
		if name == headerEnd {
			break
		}

		kw, ok := keywords[name]
		if !ok {
			return Header{}, fmt.Errorf("%w: unknown keyword %q", ErrFormat, name)
		}

		switch kw.kind {
		case kindInt:
			v, err := hr.int32()
			if err != nil {
				return Header{}, err
			}
			*kw.intField(&h) = int(v)
		case kindByte:
			if err := hr.read(hr.buf[:1]); err != nil {
				return Header{}, err
			}
			*kw.intField(&h) = int(int8(hr.buf[0]))
		case kindDouble:
			v, err := hr.float64()
			if err != nil {
				return Header{}, err
			}
			*kw.dblField(&h) = v
		case kindString:
			v, err := hr.string()
			if err != nil {
				return Header{}, err
			}
			*kw.strField(&h) = v
		}
	}

	if err := validateDims(h); err != nil {
		return Header{}, err
	}
	h.HeaderSize = hr.n
	return h, nil
}

// ReadHeader parses the header of the filterbank file at path without
// reading sample data. NSamples is derived from the file size.
func ReadHeader(path string) (Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return Header{}, err
	}
	defer f.Close()

	return readHeader(f)
}

func readHeader(f *os.File) (Header, error) {
	h, err := ParseHeader(bufio.NewReader(f))
	if err != nil {
		return Header{}, fmt.Errorf("%s: %w", f.Name(), err)
	}

	info, err := f.Stat()
	if err != nil {
		return Header{}, err
	}

	if per := h.bytesPerSpectrum(); per > 0 {
		h.NSamples = int((info.Size() - h.HeaderSize) / per)
	}
	return h, nil
}
