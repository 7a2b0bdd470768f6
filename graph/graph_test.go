package graph

import (
	"context"
	"slices"
	"testing"

	"github.com/hupe1980/ifcgo/step"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const relSource = `ISO-10303-21;
DATA;
#1=IFCPROJECT('p',$,'Project',$,$,$,$,$,$);
#2=IFCBUILDINGSTOREY('s',$,'Level 1',$,$,$,$,$,.ELEMENT.,3.);
#3=IFCWALL('w1',$,'Wall',$,$,$,$,$);
#4=IFCWALL('w2',$,'Wall',$,$,$,$,$);
#5=IFCPROPERTYSET('ps',$,'Pset_Demo',$,());
#6=IFCOPENINGELEMENT('o',$,$,$,$,$,$,$);
#10=IFCRELAGGREGATES('r1',$,$,$,#1,(#2));
#11=IFCRELCONTAINEDINSPATIALSTRUCTURE('r2',$,$,$,(#3,#4),#2);
#12=IFCRELDEFINESBYPROPERTIES('r3',$,$,$,(#3),#5);
#13=IFCRELVOIDSELEMENT('r4',$,$,$,#3,#6);
#14=IFCRELAGGREGATES('bad',$,$,$,(#1),(#2));
#15=IfcRelDefinesByProperties('r5',$,$,$,(#4),#5);
#16=IFCRELVOIDSELEMENT('bad2',$,$,$,#3,(#6));
ENDSEC;
END-ISO-10303-21;
`

func extract(t *testing.T, src string) (*Graph, Stats) {
	t.Helper()
	idx, err := step.BuildIndex(context.Background(), []byte(src))
	require.NoError(t, err)
	g, stats, err := Extract(context.Background(), []byte(src), idx)
	require.NoError(t, err)
	return g, stats
}

func TestExtract(t *testing.T) {
	g, stats := extract(t, relSource)

	assert.Equal(t, 5, stats.Relationships)
	assert.Equal(t, 2, stats.Dropped)

	assert.Equal(t, []uint32{2}, g.Related(1, Aggregates, Forward))
	assert.Equal(t, []uint32{1}, g.Related(2, Aggregates, Inverse))
	assert.Equal(t, []uint32{3, 4}, g.Related(2, ContainsElements, Forward))
	assert.Equal(t, []uint32{5}, g.Related(3, DefinesByProperties, Inverse))
	assert.Equal(t, []uint32{6}, g.Related(3, VoidsElement, Forward))
	assert.Empty(t, g.Related(3, FillsElement, Forward))

	assert.True(t, g.HasRelationship(2, 3))
	assert.True(t, g.HasRelationship(2, 3, ContainsElements))
	assert.False(t, g.HasRelationship(2, 3, Aggregates))
	assert.False(t, g.HasRelationship(3, 2))

	assert.Equal(t, []uint32{3, 4}, g.Related(5, DefinesByProperties, Forward))
	assert.Equal(t, 6, g.Len())
	assert.Equal(t, map[Kind]int{
		Aggregates: 1, ContainsElements: 2, DefinesByProperties: 2, VoidsElement: 1,
	}, g.CountByKind())

	for e := range g.Edges() {
		assert.Contains(t, g.Adjacent(e.Source, Forward), Adj{ID: e.Target, RelationshipID: e.RelationshipID, Kind: e.Kind})
		assert.Contains(t, g.Adjacent(e.Target, Inverse), Adj{ID: e.Source, RelationshipID: e.RelationshipID, Kind: e.Kind})
	}
}

func TestExtract_Cancelled(t *testing.T) {
	idx, err := step.BuildIndex(context.Background(), []byte(relSource))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g, _, err := Extract(ctx, []byte(relSource), idx, func(o *Options) { o.CheckpointInterval = 1 })
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, g)
}

func TestBuilder_Dedupe(t *testing.T) {
	b := NewBuilder()
	e := Edge{Source: 1, Target: 2, RelationshipID: 9, Kind: Aggregates}
	assert.True(t, b.Add(e))
	assert.False(t, b.Add(e))
	assert.False(t, b.Add(Edge{Source: 1, Target: 2, Kind: Kind(200)}))
	assert.Equal(t, 1, b.Build().Len())
}

func TestViews_Symmetry(t *testing.T) {
	g, _ := extract(t, relSource)

	fwd, inv := g.Forward(), g.Inverse()
	assert.Equal(t, g.Len(), fwd.Len())
	assert.Equal(t, g.Len(), inv.Len())
	assert.True(t, slices.IsSorted(fwd.IDs))
	assert.True(t, slices.IsSorted(inv.IDs))

	restored, err := FromViews(fwd, inv)
	require.NoError(t, err)
	assert.Equal(t, g.CountByKind(), restored.CountByKind())
	for _, id := range []uint32{1, 2, 3, 4, 5, 6} {
		for _, k := range Kinds {
			assert.Equal(t, g.Related(id, k, Forward), restored.Related(id, k, Forward))
			assert.Equal(t, g.Related(id, k, Inverse), restored.Related(id, k, Inverse))
		}
	}
}

func TestFromViews_Errors(t *testing.T) {
	b := NewBuilder()
	b.Add(Edge{Source: 1, Target: 2, RelationshipID: 10, Kind: Aggregates})
	b.Add(Edge{Source: 1, Target: 3, RelationshipID: 10, Kind: Aggregates})
	g := b.Build()

	t.Run("missing inverse entry", func(t *testing.T) {
		inv := g.Inverse()
		inv.IDs = inv.IDs[:1]
		inv.Offsets = inv.Offsets[:2]
		inv.Adj = inv.Adj[:1]
		_, err := FromViews(g.Forward(), inv)
		assert.ErrorIs(t, err, ErrAsymmetric)
	})

	t.Run("mismatched kind", func(t *testing.T) {
		inv := g.Inverse()
		adj := slices.Clone(inv.Adj)
		adj[0].Kind = ContainsElements
		inv.Adj = adj
		_, err := FromViews(g.Forward(), inv)
		assert.ErrorIs(t, err, ErrAsymmetric)
	})

	t.Run("broken offsets", func(t *testing.T) {
		fwd := g.Forward()
		fwd.Offsets = []uint32{0, 5}
		_, err := FromViews(fwd, g.Inverse())
		assert.ErrorIs(t, err, ErrInvalidView)
	})
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		got, ok := ParseKind(k.String())
		require.True(t, ok)
		assert.Equal(t, k, got)
	}
	_, ok := ParseKind("nope")
	assert.False(t, ok)
	assert.Len(t, RelationshipTypes(), len(Kinds))
}
