package biom

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSparse(t *testing.T) {
	tab, err := ParseBytes([]byte(otuTable1))
	require.NoError(t, err)

	nObs, nSamples := tab.Shape()
	assert.Equal(t, 3, nObs)
	assert.Equal(t, 4, nSamples)
	assert.Equal(t, 9, tab.NNZ())
	assert.Equal(t, []string{"GG_OTU_1", "GG_OTU_2", "GG_OTU_3"}, tab.ObservationIDs())
	assert.Equal(t, []string{"Sample1", "Sample2", "Sample3", "Sample4"}, tab.SampleIDs())
	assert.Equal(t, 5.0, tab.Value(0, 3))
	assert.Equal(t, 0.0, tab.Value(1, 2))
	assert.Equal(t, "", tab.ID)
	assert.Equal(t, "OTU table", tab.Type)
	assert.Nil(t, tab.Metadata(Observations))
	assert.Nil(t, tab.Metadata(Samples))

	when, err := tab.DateTime()
	require.NoError(t, err)
	assert.Equal(t, 2012, when.Year())
	assert.Equal(t, 22, when.Day())
}

func TestParseDense(t *testing.T) {
	dense, err := ParseBytes([]byte(denseTable))
	require.NoError(t, err)

	sparse, err := ParseBytes([]byte(otuTable1))
	require.NoError(t, err)

	assert.Equal(t, "dense example", dense.ID)
	assert.Equal(t, 9, dense.NNZ())

	// Only the metadata differs.
	stripped, err := dense.WithMetadata(Observations, nil)
	require.NoError(t, err)
	assert.True(t, stripped.Equal(sparse))
	assert.False(t, dense.Equal(sparse))

	md := dense.Metadata(Observations)
	require.Len(t, md, 3)
	assert.Equal(t, `escaped " quote, and [comma]`, md[1]["note"])
	assert.Nil(t, md[2])
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"not json":          `{"rows": [`,
		"missing columns":   `{"rows": [], "data": []}`,
		"shape mismatch":    `{"rows": [{"id": "a"}], "columns": [{"id": "b"}], "shape": [2, 1], "data": []}`,
		"bad triple":        `{"rows": [{"id": "a"}], "columns": [{"id": "b"}], "data": [[0, 0]]}`,
		"fractional index":  `{"rows": [{"id": "a"}], "columns": [{"id": "b"}], "data": [[0.5, 0, 1]]}`,
		"out of range":      `{"rows": [{"id": "a"}], "columns": [{"id": "b"}], "data": [[0, 1, 1]]}`,
		"duplicate id":      `{"rows": [{"id": "a"}, {"id": "a"}], "columns": [{"id": "b"}], "data": []}`,
		"short dense row":   `{"matrix_type": "dense", "rows": [{"id": "a"}], "columns": [{"id": "b"}, {"id": "c"}], "data": [[1]]}`,
		"duplicated entry":  `{"rows": [{"id": "a"}], "columns": [{"id": "b"}], "data": [[0, 0, 1], [0, 0, 2]]}`,
		"metadata mismatch": `{"rows": [{"id": "a", "metadata": 3}], "columns": [{"id": "b"}], "data": []}`,
	}

	for name, text := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseBytes([]byte(text))
			assert.Error(t, err)
		})
	}
}

func TestNewTableDropsZeros(t *testing.T) {
	tab, err := NewTable(Header{}, []string{"o1", "o2"}, []string{"s1"}, []Entry{
		{Row: 1, Col: 0, Value: 2},
		{Row: 0, Col: 0, Value: 0},
	}, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, tab.NNZ())
	assert.Empty(t, tab.Row(0))
	assert.Equal(t, []Entry{{Row: 1, Col: 0, Value: 2}}, tab.Entries())
}

func TestNewTableMetadataLength(t *testing.T) {
	_, err := NewTable(Header{}, []string{"o1", "o2"}, []string{"s1"}, nil, []Metadata{nil}, nil)
	assert.Error(t, err)

	_, err = NewTable(Header{}, []string{"o1"}, []string{"s1", "s2"}, nil, nil, []Metadata{nil, nil, nil})
	assert.Error(t, err)
}

func TestEqualIgnoresOrder(t *testing.T) {
	a, err := NewTable(Header{Type: "one"},
		[]string{"o1", "o2"}, []string{"s1", "s2"},
		[]Entry{{0, 0, 1}, {0, 1, 2}, {1, 1, 3}},
		[]Metadata{{"k": "v"}, nil}, nil)
	require.NoError(t, err)

	b, err := NewTable(Header{Type: "two"},
		[]string{"o2", "o1"}, []string{"s2", "s1"},
		[]Entry{{1, 1, 1}, {1, 0, 2}, {0, 0, 3}},
		[]Metadata{nil, {"k": "v"}}, nil)
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.True(t, b.Equal(a))

	c, err := NewTable(Header{},
		[]string{"o2", "o1"}, []string{"s2", "s1"},
		[]Entry{{1, 1, 1}, {1, 0, 2}, {0, 0, 4}},
		[]Metadata{nil, {"k": "v"}}, nil)
	require.NoError(t, err)
	assert.False(t, a.Equal(c))

	d, err := NewTable(Header{},
		[]string{"o2", "o3"}, []string{"s2", "s1"},
		[]Entry{{1, 1, 1}, {1, 0, 2}, {0, 0, 3}},
		nil, nil)
	require.NoError(t, err)
	assert.False(t, a.Equal(d))
}

func TestWriteJSONRoundTrip(t *testing.T) {
	for name, text := range map[string]string{
		"sparse":        otuTable1WithMetadata,
		"genome":        genomeTable1WithMetadata,
		"dense awkward": denseTable,
	} {
		t.Run(name, func(t *testing.T) {
			original, err := ParseBytes([]byte(text))
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, original.WriteJSON(&buf))

			again, err := Parse(&buf)
			require.NoError(t, err)

			assert.True(t, original.Equal(again))
			assert.Equal(t, original.Header.Type, again.Header.Type)
			assert.Equal(t, MatrixTypeSparse, again.MatrixType)
		})
	}
}

func TestMarshalJSONLayout(t *testing.T) {
	tab, err := NewTable(Header{}, []string{"f1"}, []string{"s1", "s2"}, []Entry{{0, 1, 16}}, nil, nil)
	require.NoError(t, err)

	b, err := json.Marshal(tab)
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &doc))

	assert.Nil(t, doc["id"])
	assert.Equal(t, FormatName, doc["format"])
	assert.Equal(t, "float", doc["matrix_element_type"])
	assert.Equal(t, []interface{}{1.0, 2.0}, doc["shape"])
	assert.Equal(t, []interface{}{[]interface{}{0.0, 1.0, 16.0}}, doc["data"])
	assert.Contains(t, string(b), `"data":[[0,1,16]]`)
}

func TestWithHeaderSharesMatrix(t *testing.T) {
	tab, err := ParseBytes([]byte(otuTable1))
	require.NoError(t, err)

	renamed := tab.WithHeader(Header{ID: "renamed", GeneratedBy: "me"})
	assert.Equal(t, "renamed", renamed.ID)
	assert.Equal(t, "", tab.ID)
	assert.True(t, renamed.Equal(tab))
}

func TestWithMetadata(t *testing.T) {
	tab, err := ParseBytes([]byte(otuTable1))
	require.NoError(t, err)

	_, err = tab.WithMetadata(Samples, []Metadata{nil})
	assert.Error(t, err)

	md := []Metadata{{"pH": 7.0}, nil, nil, nil}
	withMD, err := tab.WithMetadata(Samples, md)
	require.NoError(t, err)

	assert.Nil(t, tab.Metadata(Samples))
	assert.Equal(t, md, withMD.Metadata(Samples))
}

func TestParseAxis(t *testing.T) {
	for _, name := range []string{"observations", "observation", "rows", "ROW"} {
		axis, err := ParseAxis(name)
		require.NoError(t, err, name)
		assert.Equal(t, Observations, axis)
	}
	for _, name := range []string{"samples", "sample", "columns", "column"} {
		axis, err := ParseAxis(name)
		require.NoError(t, err, name)
		assert.Equal(t, Samples, axis)
	}

	_, err := ParseAxis("diagonal")
	assert.Error(t, err)

	assert.Equal(t, Samples, Observations.Other())
	assert.Equal(t, "samples", Samples.String())
}
