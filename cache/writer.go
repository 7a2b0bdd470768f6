package cache

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/hupe1980/ifcgo/internal/hash"
	"golang.org/x/sync/errgroup"
)

// WriteOptions configures Write.
type WriteOptions struct {
	// Compression applied to every section. Defaults to CompressionZstd.
	Compression Compression
	// IncludeRefs writes the record references. Defaults to true.
	IncludeRefs bool
	// IncludeGeometry writes the geometry section. Defaults to true.
	IncludeGeometry bool
	// IncludeSource writes the source bytes. Defaults to false.
	IncludeSource bool
}

// WriteOption configures Write.
type WriteOption func(*WriteOptions)

// WithCompression selects the section compression.
func WithCompression(c Compression) WriteOption {
	return func(o *WriteOptions) { o.Compression = c }
}

// WithRefs toggles the record reference section.
func WithRefs(include bool) WriteOption {
	return func(o *WriteOptions) { o.IncludeRefs = include }
}

// WithGeometry toggles the geometry section.
func WithGeometry(include bool) WriteOption {
	return func(o *WriteOptions) { o.IncludeGeometry = include }
}

// WithSource toggles the source section. Without it, entities of a loaded
// model cannot be decoded lazily.
func WithSource(include bool) WriteOption {
	return func(o *WriteOptions) { o.IncludeSource = include }
}

type section struct {
	id          SectionID
	raw         []byte
	rawLen      uint64
	stored      []byte
	compression Compression
}

// Write encodes snap to w and returns the number of bytes written. Store and
// Graph are required; optional sections are written when present and enabled.
func Write(w io.Writer, snap *Snapshot, opts ...WriteOption) (int64, error) {
	if snap == nil || snap.Store == nil || snap.Graph == nil {
		return 0, errors.New("cache: snapshot needs a store and a graph")
	}
	o := WriteOptions{
		Compression:     CompressionZstd,
		IncludeRefs:     true,
		IncludeGeometry: true,
	}
	for _, fn := range opts {
		fn(&o)
	}

	sections, flags, err := encodeSections(snap, o)
	if err != nil {
		return 0, err
	}

	g := new(errgroup.Group)
	for i := range sections {
		s := &sections[i]
		g.Go(func() error {
			stored, c, err := compress(s.raw, o.Compression)
			if err != nil {
				return err
			}
			s.stored, s.compression = stored, c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	cw := &countingWriter{w: w}
	header := make([]byte, headerSize)
	copy(header[0:4], magic)
	binary.LittleEndian.PutUint32(header[4:8], Version)
	binary.LittleEndian.PutUint32(header[8:12], flags)
	binary.LittleEndian.PutUint32(header[12:16], uint32(len(sections)))
	binary.LittleEndian.PutUint32(header[16:20], hash.CRC32C(header[:16]))
	if _, err := cw.Write(header); err != nil {
		return cw.n, err
	}

	sh := make([]byte, sectionHeaderSize)
	for _, s := range sections {
		binary.LittleEndian.PutUint16(sh[0:2], uint16(s.id))
		sh[2] = uint8(s.compression)
		sh[3] = 0
		binary.LittleEndian.PutUint64(sh[4:12], uint64(len(s.raw)))
		binary.LittleEndian.PutUint64(sh[12:20], uint64(len(s.stored)))
		binary.LittleEndian.PutUint32(sh[20:24], hash.CRC32C(s.stored))
		if _, err := cw.Write(sh); err != nil {
			return cw.n, err
		}
		if _, err := cw.Write(s.stored); err != nil {
			return cw.n, err
		}
	}
	return cw.n, nil
}

func encodeSections(snap *Snapshot, o WriteOptions) ([]section, uint32, error) {
	cols := snap.Store.Columns()
	type encoder struct {
		id  SectionID
		enc func() ([]byte, error)
	}
	encoders := []encoder{
		{SectionMeta, func() ([]byte, error) { return encodeMeta(snap) }},
		{SectionStrings, func() ([]byte, error) { return encodeStrings(cols) }},
		{SectionColumns, func() ([]byte, error) { return encodeColumns(cols) }},
		{SectionEdgesForward, func() ([]byte, error) { return encodeView(snap.Graph.Forward()) }},
		{SectionEdgesInverse, func() ([]byte, error) { return encodeView(snap.Graph.Inverse()) }},
		{SectionPropertySets, func() ([]byte, error) { return encodeSets(snap.PropertySets) }},
		{SectionQuantitySets, func() ([]byte, error) { return encodeSets(snap.QuantitySets) }},
	}

	var flags uint32
	if o.IncludeRefs && len(snap.Refs) > 0 {
		flags |= FlagRefs
		encoders = append(encoders, encoder{SectionRefs, func() ([]byte, error) { return encodeRefs(snap.Refs) }})
	}
	if o.IncludeGeometry && snap.Geometry != nil {
		flags |= FlagGeometry
		encoders = append(encoders, encoder{SectionGeometry, func() ([]byte, error) { return encodeGeometry(snap.Geometry) }})
	}
	if o.IncludeSource && len(snap.Source) > 0 {
		flags |= FlagSource
		encoders = append(encoders, encoder{SectionSource, func() ([]byte, error) { return snap.Source, nil }})
	}

	sections := make([]section, len(encoders))
	g := new(errgroup.Group)
	for i, e := range encoders {
		g.Go(func() error {
			raw, err := e.enc()
			if err != nil {
				return err
			}
			sections[i] = section{id: e.id, raw: raw}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return sections, flags, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
