package step

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeOne(t *testing.T, record string) *Entity {
	t.Helper()
	src := []byte(record)
	ref, ok := NewTokenizer(src).Next()
	require.True(t, ok, "tokenizer found no record in %q", record)
	e, ok := Decode(src, ref)
	require.True(t, ok, "decode failed for %q", record)
	return e
}

func TestDecode_Rules(t *testing.T) {
	e := decodeOne(t, `#10=IFCTEST($,*,#42,'a''b\\c\'d',(),(#1,#2),.ELEMENT.,.T.,.F.,.U.,-1.5E3,7,IFCLABEL('x'),(IFCREAL(1.),$));`)

	require.Equal(t, 14, e.Len())
	assert.Equal(t, uint32(10), e.ExpressID)
	assert.Equal(t, "IFCTEST", e.Type)

	assert.True(t, e.Attr(0).IsNull())
	assert.True(t, e.Attr(1).IsNull())

	id, ok := e.Attr(2).AsRef()
	require.True(t, ok)
	assert.Equal(t, uint32(42), id)

	s, ok := e.Attr(3).AsString()
	require.True(t, ok)
	assert.Equal(t, `a'b\c'd`, s)

	empty, ok := e.Attr(4).AsList()
	require.True(t, ok)
	assert.Empty(t, empty)

	assert.Equal(t, []uint32{1, 2}, e.Attr(5).Refs())

	assert.Equal(t, KindEnum, e.Attr(6).Kind)
	assert.Equal(t, "ELEMENT", e.Attr(6).Str)

	b, ok := e.Attr(7).AsBool()
	require.True(t, ok)
	assert.True(t, b)
	b, ok = e.Attr(8).AsBool()
	require.True(t, ok)
	assert.False(t, b)
	assert.True(t, e.Attr(9).IsNull())

	n, ok := e.Attr(10).AsNumber()
	require.True(t, ok)
	assert.Equal(t, -1500.0, n)
	assert.False(t, e.Attr(10).Integer)
	assert.True(t, e.Attr(11).Integer)

	label := e.Attr(12)
	assert.True(t, label.IsTyped())
	assert.Equal(t, "IFCLABEL", label.Type)
	s, ok = label.AsString()
	require.True(t, ok)
	assert.Equal(t, "x", s)

	nested, ok := e.Attr(13).AsList()
	require.True(t, ok)
	require.Len(t, nested, 2)
	n, ok = nested[0].AsNumber()
	require.True(t, ok)
	assert.Equal(t, 1.0, n)

	assert.True(t, e.Attr(99).IsNull())
}

func TestDecode_ControlDirectives(t *testing.T) {
	e := decodeOne(t, `#1=IFCTEST('\X2\00C400D6\X0\ und \X\E9 \S\D');`)
	s, ok := e.Attr(0).AsString()
	require.True(t, ok)
	assert.Equal(t, "ÄÖ und é Ä", s)
}

func TestDecode_Mismatch(t *testing.T) {
	src := []byte(`#1=IFCWALL('a',$);`)
	ref, ok := NewTokenizer(src).Next()
	require.True(t, ok)

	tests := []struct {
		name string
		ref  EntityRef
	}{
		{"wrong id", EntityRef{ExpressID: 2, Type: ref.Type, Offset: ref.Offset, Length: ref.Length}},
		{"wrong type", EntityRef{ExpressID: 1, Type: "IFCSLAB", Offset: ref.Offset, Length: ref.Length}},
		{"out of range", EntityRef{ExpressID: 1, Type: ref.Type, Offset: 5, Length: 1000}},
		{"truncated", EntityRef{ExpressID: 1, Type: ref.Type, Offset: 0, Length: ref.Length - 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, ok := Decode(src, tt.ref)
			assert.False(t, ok)
			assert.Nil(t, e)
		})
	}
}

func TestDecodePrefix(t *testing.T) {
	src := []byte(`#5=IFCWALL('g',#2,'Name',$,$,#7,#8,((1.,2.),(3.,4.)));`)
	ref, ok := NewTokenizer(src).Next()
	require.True(t, ok)

	attrs, ok := DecodePrefix(src, ref, 3)
	require.True(t, ok)
	require.Len(t, attrs, 3)
	s, _ := attrs[2].AsString()
	assert.Equal(t, "Name", s)

	attrs, ok = DecodePrefix(src, ref, 100)
	require.True(t, ok)
	assert.Len(t, attrs, 8)
}

func TestRoundTrip(t *testing.T) {
	values := []Value{
		Ref(7),
		String(`it's a \ path (with parens); and 'quotes'`),
		String("Grüße ✓"),
		Number(3),
		Number(-0.125),
		Number(1e-7),
		Integer(42),
		Enum("NOTDEFINED"),
		Bool(true),
		Null(),
		List(Ref(1), Ref(2)),
		List(),
		Typed("IFCLENGTHMEASURE", Number(2.5)),
	}
	original := &Entity{ExpressID: 99, Type: "IFCTEST", Attributes: values}

	e := decodeOne(t, original.String()+";")
	assert.Equal(t, original, e)
	assert.Equal(t, original.String(), e.String())
}
