package cache

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"slices"

	"github.com/hupe1980/ifcgo/columnar"
	"github.com/hupe1980/ifcgo/graph"
	"github.com/hupe1980/ifcgo/internal/hash"
	"golang.org/x/sync/errgroup"
)

// maxRawLen bounds the declared decompressed size of a section.
const maxRawLen = 1 << 40

// ReadBytes decodes a snapshot from an in-memory blob.
func ReadBytes(b []byte) (*Snapshot, error) {
	return Read(bytes.NewReader(b))
}

// Read decodes a snapshot. It fails with ErrVersionMismatch for blobs of
// another format version and with ErrCorrupt for damaged blobs.
func Read(r io.Reader) (*Snapshot, error) {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, corrupt("header: %v", err)
	}
	if string(header[0:4]) != magic {
		return nil, corrupt("bad magic %q", header[0:4])
	}
	if hash.CRC32C(header[:16]) != binary.LittleEndian.Uint32(header[16:20]) {
		return nil, corrupt("header checksum mismatch")
	}
	if v := binary.LittleEndian.Uint32(header[4:8]); v != Version {
		return nil, fmt.Errorf("%w: blob version %d, want %d", ErrVersionMismatch, v, Version)
	}
	count := binary.LittleEndian.Uint32(header[12:16])

	sections, err := readSections(r, count)
	if err != nil {
		return nil, err
	}
	for _, id := range requiredSections {
		if _, ok := sections[id]; !ok {
			return nil, corrupt("missing section %s", id)
		}
	}

	g := new(errgroup.Group)
	for _, s := range sections {
		g.Go(func() error {
			raw, err := decompress(s.stored, s.compression, s.rawLen)
			if err != nil {
				return corrupt("section %s: %v", s.id, err)
			}
			s.raw = raw
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	st := &decodeState{}
	g = new(errgroup.Group)
	for _, s := range sections {
		decode := sectionDecoders[s.id]
		g.Go(func() error {
			if err := decode(s.raw, st); err != nil {
				return corrupt("section %s: %v", s.id, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	st.cols.Strings = st.strings
	store, err := columnar.FromColumns(st.cols)
	if err != nil {
		return nil, corrupt("columns: %v", err)
	}
	gr, err := graph.FromViews(st.fwd, st.inv)
	if err != nil {
		return nil, corrupt("edges: %v", err)
	}
	st.snap.Store, st.snap.Graph = store, gr
	return &st.snap, nil
}

// readSections reads count sections, verifying their checksums. Sections
// with unknown ids are consumed and dropped.
func readSections(r io.Reader, count uint32) (map[SectionID]*section, error) {
	sections := make(map[SectionID]*section)
	sh := make([]byte, sectionHeaderSize)
	for i := uint32(0); i < count; i++ {
		if _, err := io.ReadFull(r, sh); err != nil {
			return nil, corrupt("section %d header: %v", i, err)
		}
		s := &section{
			id:          SectionID(binary.LittleEndian.Uint16(sh[0:2])),
			compression: Compression(sh[2]),
			rawLen:      binary.LittleEndian.Uint64(sh[4:12]),
		}
		storedLen := binary.LittleEndian.Uint64(sh[12:20])
		crc := binary.LittleEndian.Uint32(sh[20:24])
		if s.rawLen > maxRawLen || storedLen > maxRawLen {
			return nil, corrupt("section %s declares an implausible size", s.id)
		}

		stored, err := io.ReadAll(io.LimitReader(r, int64(storedLen)))
		if err != nil {
			return nil, corrupt("section %s: %v", s.id, err)
		}
		if uint64(len(stored)) != storedLen {
			return nil, corrupt("section %s truncated", s.id)
		}
		if _, known := sectionDecoders[s.id]; !known {
			continue
		}
		if _, dup := sections[s.id]; dup {
			return nil, corrupt("duplicate section %s", s.id)
		}
		if hash.CRC32C(stored) != crc {
			return nil, corrupt("section %s checksum mismatch", s.id)
		}
		s.stored = stored
		sections[s.id] = s
	}
	return sections, nil
}

// decodeState collects the decoded sections. Each decoder writes its own fields.
type decodeState struct {
	snap     Snapshot
	strings  []string
	cols     columnar.Columns
	fwd, inv graph.View
}

var sectionDecoders = map[SectionID]func([]byte, *decodeState) error{
	SectionMeta: func(b []byte, st *decodeState) error {
		return decodeMeta(b, &st.snap)
	},
	SectionStrings: func(b []byte, st *decodeState) (err error) {
		st.strings, err = decodeStrings(b)
		return err
	},
	SectionColumns: func(b []byte, st *decodeState) error {
		return decodeColumns(b, &st.cols)
	},
	SectionEdgesForward: func(b []byte, st *decodeState) (err error) {
		st.fwd, err = decodeView(b)
		return err
	},
	SectionEdgesInverse: func(b []byte, st *decodeState) (err error) {
		st.inv, err = decodeView(b)
		return err
	},
	SectionPropertySets: func(b []byte, st *decodeState) (err error) {
		st.snap.PropertySets, err = decodeSets(b)
		return err
	},
	SectionQuantitySets: func(b []byte, st *decodeState) (err error) {
		st.snap.QuantitySets, err = decodeSets(b)
		return err
	},
	SectionRefs: func(b []byte, st *decodeState) (err error) {
		st.snap.Refs, err = decodeRefs(b)
		return err
	},
	SectionGeometry: func(b []byte, st *decodeState) (err error) {
		st.snap.Geometry, err = decodeGeometry(b)
		return err
	},
	SectionSource: func(b []byte, st *decodeState) error {
		st.snap.Source = slices.Clip(b)
		return nil
	},
}
