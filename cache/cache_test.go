package cache

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/hupe1980/ifcgo/columnar"
	"github.com/hupe1980/ifcgo/graph"
	"github.com/hupe1980/ifcgo/internal/hash"
	"github.com/hupe1980/ifcgo/property"
	"github.com/hupe1980/ifcgo/step"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot(t *testing.T) *Snapshot {
	t.Helper()
	cb := columnar.NewBuilder(4)
	cb.Add(columnar.Row{ExpressID: 1, Type: "IFCPROJECT", GlobalID: "p", Name: "Project"})
	cb.Add(columnar.Row{ExpressID: 3, Type: "IFCBUILDINGSTOREY", Name: "Level 1"})
	for i := uint32(10); i < 200; i++ {
		cb.Add(columnar.Row{ExpressID: i, Type: "IFCWALL", Name: "Wall", Description: "repeated text compresses well", HasGeometry: i%2 == 0})
	}
	store, err := cb.Build()
	require.NoError(t, err)

	gb := graph.NewBuilder()
	gb.Add(graph.Edge{Source: 1, Target: 3, RelationshipID: 500, Kind: graph.Aggregates})
	for i := uint32(10); i < 200; i++ {
		gb.Add(graph.Edge{Source: 3, Target: i, RelationshipID: 501, Kind: graph.ContainsElements})
	}

	return &Snapshot{
		Schema:     "IFC4",
		Elevations: map[uint32]float64{3: 3.0},
		Store:      store,
		Graph:      gb.Build(),
		PropertySets: []property.Set{{
			ExpressID: 600, GlobalID: "ps", Name: "Pset_Demo",
			Properties: []property.Property{{Name: "Fire Rating", Value: property.Value{Kind: property.ValueString, Type: "IFCLABEL", String: "2HR"}}},
		}},
		QuantitySets: []property.Set{{
			ExpressID: 700, Name: "Qto",
			Quantities: []property.Quantity{{Name: "Length", Kind: property.Length, Value: 5.2, Formula: "a+b"}},
		}},
		Refs: []step.EntityRef{
			{ExpressID: 1, Type: "IFCPROJECT", Offset: 0, Length: 20, Line: 1},
			{ExpressID: 3, Type: "IFCBUILDINGSTOREY", Offset: 21, Length: 30, Line: 2},
		},
		Geometry: &Geometry{Meshes: []Mesh{{
			ExpressID: 10,
			Positions: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
			Normals:   []float32{0, 0, 1, 0, 0, 1, 0, 0, 1},
			Indices:   []uint32{0, 1, 2},
			Color:     [4]float32{0.5, 0.5, 0.5, 1},
		}}},
		Source: []byte("#1=IFCPROJECT('p');"),
	}
}

func writeBlob(t *testing.T, snap *Snapshot, opts ...WriteOption) []byte {
	t.Helper()
	var buf bytes.Buffer
	n, err := Write(&buf, snap, opts...)
	require.NoError(t, err)
	require.Equal(t, int64(buf.Len()), n)
	return buf.Bytes()
}

func TestRoundTrip(t *testing.T) {
	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZstd} {
		t.Run(c.String(), func(t *testing.T) {
			snap := testSnapshot(t)
			blob := writeBlob(t, snap, WithCompression(c), WithSource(true))

			got, err := ReadBytes(blob)
			require.NoError(t, err)

			assert.Equal(t, "IFC4", got.Schema)
			assert.Equal(t, snap.Elevations, got.Elevations)
			assert.Equal(t, snap.Store.Count(), got.Store.Count())
			assert.Equal(t, snap.Store.TypeCounts(), got.Store.TypeCounts())
			assert.Equal(t, snap.Store.GetByType("IFCWALL"), got.Store.GetByType("IFCWALL"))
			assert.Equal(t, "Level 1", got.Store.Name(3))
			assert.Equal(t, snap.Store.GeometryCount(), got.Store.GeometryCount())
			assert.True(t, got.Store.HasGeometry(10))
			assert.False(t, got.Store.HasGeometry(11))

			assert.Equal(t, snap.Graph.Len(), got.Graph.Len())
			assert.Equal(t, snap.Graph.CountByKind(), got.Graph.CountByKind())
			assert.Equal(t, []uint32{1}, got.Graph.Related(3, graph.Aggregates, graph.Inverse))

			assert.Equal(t, snap.PropertySets, got.PropertySets)
			assert.Equal(t, snap.QuantitySets, got.QuantitySets)
			assert.Equal(t, snap.Refs, got.Refs)
			assert.Equal(t, snap.Geometry, got.Geometry)
			assert.Equal(t, snap.Source, got.Source)
		})
	}
}

func TestWrite_OptionalSections(t *testing.T) {
	snap := testSnapshot(t)
	blob := writeBlob(t, snap, WithRefs(false), WithGeometry(false))

	got, err := ReadBytes(blob)
	require.NoError(t, err)
	assert.Nil(t, got.Refs)
	assert.Nil(t, got.Geometry)
	assert.Nil(t, got.Source, "source is excluded by default")

	flags := binary.LittleEndian.Uint32(blob[8:12])
	assert.Zero(t, flags)
}

func TestWrite_RequiresStoreAndGraph(t *testing.T) {
	_, err := Write(&bytes.Buffer{}, &Snapshot{})
	assert.Error(t, err)
}

// rawSection is a section as laid out in a blob.
type rawSection struct {
	header  []byte
	payload []byte
}

func splitBlob(t *testing.T, blob []byte) []rawSection {
	t.Helper()
	count := binary.LittleEndian.Uint32(blob[12:16])
	var out []rawSection
	pos := headerSize
	for i := uint32(0); i < count; i++ {
		h := blob[pos : pos+sectionHeaderSize]
		n := int(binary.LittleEndian.Uint64(h[12:20]))
		out = append(out, rawSection{header: h, payload: blob[pos+sectionHeaderSize : pos+sectionHeaderSize+n]})
		pos += sectionHeaderSize + n
	}
	require.Equal(t, len(blob), pos)
	return out
}

func joinBlob(version uint32, sections []rawSection) []byte {
	header := make([]byte, headerSize)
	copy(header, magic)
	binary.LittleEndian.PutUint32(header[4:8], version)
	binary.LittleEndian.PutUint32(header[12:16], uint32(len(sections)))
	binary.LittleEndian.PutUint32(header[16:20], hash.CRC32C(header[:16]))
	out := header
	for _, s := range sections {
		out = append(out, s.header...)
		out = append(out, s.payload...)
	}
	return out
}

func TestRead_SkipsUnknownSections(t *testing.T) {
	blob := writeBlob(t, testSnapshot(t))
	sections := splitBlob(t, blob)

	payload := []byte("from a newer writer")
	h := make([]byte, sectionHeaderSize)
	binary.LittleEndian.PutUint16(h[0:2], 999)
	binary.LittleEndian.PutUint64(h[4:12], uint64(len(payload)))
	binary.LittleEndian.PutUint64(h[12:20], uint64(len(payload)))
	sections = append(sections[:2], append([]rawSection{{header: h, payload: payload}}, sections[2:]...)...)

	got, err := ReadBytes(joinBlob(Version, sections))
	require.NoError(t, err)
	assert.Equal(t, 192, got.Store.Count())
}

func TestRead_VersionMismatch(t *testing.T) {
	blob := writeBlob(t, testSnapshot(t))
	_, err := ReadBytes(joinBlob(Version+1, splitBlob(t, blob)))
	assert.ErrorIs(t, err, ErrVersionMismatch)
	assert.NotErrorIs(t, err, ErrCorrupt)
}

func TestRead_Corrupt(t *testing.T) {
	blob := writeBlob(t, testSnapshot(t))

	tests := []struct {
		name   string
		mutate func([]byte) []byte
	}{
		{"empty", func([]byte) []byte { return nil }},
		{"bad magic", func(b []byte) []byte { b[0] = 'X'; return b }},
		{"header checksum", func(b []byte) []byte { b[8] ^= 0xFF; return b }},
		{"payload bit flip", func(b []byte) []byte { b[len(b)-1] ^= 0x01; return b }},
		{"truncated", func(b []byte) []byte { return b[:len(b)-7] }},
		{"missing section", func(b []byte) []byte {
			s := splitBlob(t, b)
			return joinBlob(Version, s[1:])
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := tt.mutate(bytes.Clone(blob))
			snap, err := ReadBytes(b)
			assert.ErrorIs(t, err, ErrCorrupt)
			assert.Nil(t, snap)
		})
	}
}

func TestParseCompression(t *testing.T) {
	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZstd} {
		got, err := ParseCompression(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	_, err := ParseCompression("brotli")
	assert.Error(t, err)
}

func TestDecompressZstd_BoundedByRawLen(t *testing.T) {
	raw := bytes.Repeat([]byte("IFCWALL"), 1<<16)

	// EncodeAll records the content size in the frame header.
	withSize := getZstdEncoder().EncodeAll(raw, nil)
	// A streaming encoder does not know the size up front.
	var streamed bytes.Buffer
	w, err := zstd.NewWriter(&streamed)
	require.NoError(t, err)
	_, err = w.Write(raw)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	for name, stored := range map[string][]byte{"frame size": withSize, "streamed": streamed.Bytes()} {
		t.Run(name, func(t *testing.T) {
			out, err := decompress(stored, CompressionZstd, uint64(len(raw)))
			require.NoError(t, err)
			assert.Equal(t, raw, out)

			_, err = decompress(stored, CompressionZstd, 1024)
			assert.Error(t, err, "output larger than the declared length")

			_, err = decompress(stored, CompressionZstd, uint64(len(raw))+1)
			assert.Error(t, err, "output shorter than the declared length")
		})
	}
}
