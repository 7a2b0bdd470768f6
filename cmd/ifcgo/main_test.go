package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testModel = `ISO-10303-21;
HEADER;
FILE_SCHEMA(('IFC4'));
ENDSEC;
DATA;
#1=IFCPROJECT('0ProjectGuid0000000000',$,'Project',$,$,$,$,$,$);
#2=IFCSITE('1SiteGuid0000000000000',$,'Site',$,$,$,$,$,.ELEMENT.,$,$,$,$,$);
#3=IFCBUILDINGSTOREY('2StoreyGuid00000000000',$,'Level 1',$,$,$,$,$,.ELEMENT.,3.);
#4=IFCWALL('3WallGuid0000000000000',$,'Wall',$,$,$,$,$);
#5=IFCRELAGGREGATES('4AggGuid00000000000000',$,$,$,#1,(#2));
#6=IFCRELAGGREGATES('5AggGuid00000000000000',$,$,$,#2,(#3));
#7=IFCRELCONTAINEDINSPATIALSTRUCTURE('6ContGuid0000000000000',$,$,$,(#4),#3);
#10=IFCPROPERTYSET('2O2Fr$t4X7Zf8NOew3FLOH',$,'Pset_Demo',$,(#11));
#11=IFCPROPERTYSINGLEVALUE('Fire Rating',$,IFCLABEL('2HR'),$);
#12=IFCRELDEFINESBYPROPERTIES('7DefGuid00000000000000',$,$,$,(#4),#10);
ENDSEC;
END-ISO-10303-21;
`

type fixture struct {
	dir   string
	model string
	conf  string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	f := fixture{
		dir:   dir,
		model: filepath.Join(dir, "demo.ifc"),
		conf:  filepath.Join(dir, "ifcgo.yaml"),
	}
	require.NoError(t, os.WriteFile(f.model, []byte(testModel), 0o600))
	conf := "cache:\n  backend: local\n  dir: " + filepath.Join(dir, "cache") + "\n"
	require.NoError(t, os.WriteFile(f.conf, []byte(conf), 0o600))
	return f
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestParseCommand(t *testing.T) {
	f := newFixture(t)

	out, err := run(t, "parse", "--json", f.model)
	require.NoError(t, err)

	var s struct {
		File     string         `json:"file"`
		Schema   string         `json:"schema"`
		Entities int            `json:"entities"`
		Types    map[string]int `json:"types"`
		Storeys  int            `json:"storeys"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, f.model, s.File)
	assert.Equal(t, "IFC4", s.Schema)
	assert.Equal(t, 10, s.Entities)
	assert.Equal(t, 1, s.Types["IFCWALL"])
	assert.Equal(t, 1, s.Storeys)

	out, err = run(t, "parse", f.model)
	require.NoError(t, err)
	assert.Contains(t, out, "entities:      10")
}

func TestTreeCommand(t *testing.T) {
	f := newFixture(t)
	out, err := run(t, "tree", f.model)
	require.NoError(t, err)
	assert.Contains(t, out, `#1 IFCPROJECT "Project"`)
	assert.Contains(t, out, `    #3 IFCBUILDINGSTOREY "Level 1" @3 (1 elements)`)
}

func TestEntityAndPropsCommands(t *testing.T) {
	f := newFixture(t)

	out, err := run(t, "entity", f.model, "#4")
	require.NoError(t, err)
	var doc struct {
		Type         string `json:"type"`
		Name         string `json:"name"`
		PropertySets []struct {
			Name string `json:"name"`
		} `json:"propertySets"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "IFCWALL", doc.Type)
	assert.Equal(t, "Wall", doc.Name)
	require.Len(t, doc.PropertySets, 1)
	assert.Equal(t, "Pset_Demo", doc.PropertySets[0].Name)

	out, err = run(t, "props", f.model, "4")
	require.NoError(t, err)
	assert.Equal(t, "Pset_Demo\n  Fire Rating = 2HR\n", out)

	_, err = run(t, "entity", f.model, "999")
	assert.Error(t, err)
	_, err = run(t, "entity", f.model, "abc")
	assert.Error(t, err)
}

func TestCacheCommands(t *testing.T) {
	f := newFixture(t)

	out, err := run(t, "-c", f.conf, "cache", "build", f.model)
	require.NoError(t, err)
	assert.Contains(t, out, ".ifcb")

	out, err = run(t, "-c", f.conf, "cache", "ls")
	require.NoError(t, err)
	keys := bytes.Fields([]byte(out))
	require.Len(t, keys, 1)

	out, err = run(t, "-c", f.conf, "cache", "load", f.model)
	require.NoError(t, err)
	assert.Contains(t, out, "cache hit:     true")

	out, err = run(t, "-c", f.conf, "--cache", "props", f.model, "4")
	require.NoError(t, err)
	assert.Contains(t, out, "Fire Rating = 2HR")

	_, err = run(t, "-c", f.conf, "cache", "rm", string(keys[0]))
	require.NoError(t, err)
	out, err = run(t, "-c", f.conf, "cache", "ls")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestInvalidFlags(t *testing.T) {
	_, err := run(t, "--log-level", "loud", "version")
	assert.Error(t, err)
}
